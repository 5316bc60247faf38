package store

import "fmt"

// NotFoundError indicates no saved resume matched the lookup.
type NotFoundError struct {
	By    string // "id", "title" or "index"
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume not found by %s: %s", e.By, e.Value)
}

// CorruptError indicates a stored value could not be decoded.
type CorruptError struct {
	Key   string
	Cause error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("stored value for %q is corrupt: %v", e.Key, e.Cause)
}

func (e *CorruptError) Unwrap() error {
	return e.Cause
}
