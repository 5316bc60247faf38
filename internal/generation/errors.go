package generation

import "fmt"

// LowQualityMessage is shown to the user when regeneration is exhausted.
const LowQualityMessage = "AI response wasn't strong enough. Please edit manually or try again."

// FailureMessage is shown to the user when the proxy could not be reached.
const FailureMessage = "AI generation is unavailable right now. Please try again later."

// ValidationError indicates invalid prompt parameters.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// RequestError is returned after the proxy call failed on every attempt,
// or failed with a status that is not worth retrying.
type RequestError struct {
	Attempts   int
	StatusCode int // 0 for transport failures
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation request failed after %d attempt(s): status %d: %s", e.Attempts, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("generation request failed after %d attempt(s): %s: %v", e.Attempts, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation request failed after %d attempt(s): %s", e.Attempts, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the display-ready message for the UI.
func (e *RequestError) UserMessage() string {
	return FailureMessage
}

// LowQualityError is returned when every generation attempt was rejected by the quality gate.
type LowQualityError struct {
	Attempts int
	Last     string
}

func (e *LowQualityError) Error() string {
	return fmt.Sprintf("generated text rejected by quality gate after %d attempt(s)", e.Attempts)
}

// UserMessage returns the display-ready message for the UI.
func (e *LowQualityError) UserMessage() string {
	return LowQualityMessage
}
