package types

// GenerateRequest is the body accepted by the AI proxy endpoint.
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model,omitempty"`
}

// GenerateResponse is the body returned by the AI proxy endpoint on success.
type GenerateResponse struct {
	Text string `json:"text"`
}

// ClientLogEntry is a best-effort error report sent by the browser.
type ClientLogEntry struct {
	Message   string         `json:"message"`
	Stack     string         `json:"stack,omitempty"`
	URL       string         `json:"url,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// LanguageSetting is the single-document language preference.
type LanguageSetting struct {
	Language string `json:"language" validate:"required,max=35"`
}
