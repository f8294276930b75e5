package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoResolver is returned by mutation methods that need to rebind a fresh
// handle (Move, Create) when the specifier was built without a registry.
var ErrNoResolver = errors.New("specifier has no resolver bound")

// TypeError reports a backing value whose shape does not match what the
// schema node expects at that address.
type TypeError struct {
	URI  string
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch at %s: want %s, got %T", e.URI, e.Want, e.Got)
}

// Typef builds a validator failure for scalar nodes. Validators return it so
// callers can distinguish shape problems from missing data.
func Typef(uri, want string, got any) error {
	return &TypeError{URI: uri, Want: want, Got: got}
}

// UnsupportedError reports an operation the schema node at the address does
// not allow: index access on a name-only collection, set on a read-only
// scalar, create on a plain object.
type UnsupportedError struct {
	URI string
	Op  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.URI, e.Op)
}

// UnknownChildError reports a child key the schema node does not define.
// Known carries the node's defined keys for diagnostics.
type UnknownChildError struct {
	URI   string
	Key   string
	Known []string
}

func (e *UnknownChildError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s has no child %q", e.URI, e.Key)
	}
	return fmt.Sprintf("%s has no child %q (known: %s)", e.URI, e.Key, strings.Join(e.Known, ", "))
}

func unsupported(uri, op string) error {
	return &UnsupportedError{URI: uri, Op: op}
}

func unknownChild(uri, key string, known []string) error {
	sorted := make([]string, len(known))
	copy(sorted, known)
	sort.Strings(sorted)
	return &UnknownChildError{URI: uri, Key: key, Known: sorted}
}
