package application

import "fmt"

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValueError represents a value that could not be decoded into the shape an
// operation needs
type ValueError struct {
	Field  string
	Raw    string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: cannot decode %q: %s", e.Field, e.Raw, e.Reason)
}
