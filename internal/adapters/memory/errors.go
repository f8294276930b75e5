package memory

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups that failed because nothing lives at the
// address, as opposed to the address crossing a value of the wrong shape.
var ErrNotFound = errors.New("not found")

// LookupError reports a failed graph walk. URI is the canonical address of
// the step that failed.
type LookupError struct {
	URI     string
	Reason  string
	missing bool
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %s", e.URI, e.Reason)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound && e.missing
}

func notFound(uri, format string, args ...any) error {
	return &LookupError{URI: uri, Reason: fmt.Sprintf(format, args...), missing: true}
}

func badShape(uri, format string, args ...any) error {
	return &LookupError{URI: uri, Reason: fmt.Sprintf(format, args...)}
}
