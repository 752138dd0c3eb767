package ingest

import "fmt"

// ValidationError rejects a payload before anything is written. The
// handler maps it to a 400 response.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}
