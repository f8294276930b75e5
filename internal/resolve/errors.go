package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScheme marks addresses whose scheme has no registered tree.
var ErrUnknownScheme = errors.New("unknown scheme")

// Error reports a failed address walk: which URI, which segment gave up,
// and why. Known carries alternatives when the failure was a bad name.
type Error struct {
	URI     string
	Segment string
	Reason  string
	Known   []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolve %s", e.URI)
	if e.Segment != "" {
		fmt.Fprintf(&b, ": segment %q", e.Segment)
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if len(e.Known) > 0 {
		fmt.Fprintf(&b, " (known: %s)", strings.Join(e.Known, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
