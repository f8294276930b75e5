package uri

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"postino/internal/query"
)

// ParseError describes a URI that could not be lexed.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

func parseErr(input, format string, args ...any) error {
	return &ParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// Parse lexes a raw resource address into scheme and qualified segments.
//
// Grammar: scheme://seg1[/seg2…]. A segment head runs up to the next '/',
// '[' (literal or percent-encoded %5B) or '?'. A bracket qualifier holds a
// decimal index. A '?' qualifier holds filter/sort/limit/offset/expand
// parameters and ends at the next '/' or the end of the input. A bare
// all-digit segment immediately following a segment without a positional
// qualifier folds into it as an id qualifier.
func Parse(raw string) (*URI, error) {
	raw = strings.TrimSpace(raw)
	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return nil, parseErr(raw, "missing scheme separator %q", "://")
	}
	if scheme == "" {
		return nil, parseErr(raw, "empty scheme")
	}
	if strings.ContainsAny(scheme, "/?[]") {
		return nil, parseErr(raw, "invalid scheme %q", scheme)
	}

	segments, err := lexPath(raw, rest)
	if err != nil {
		return nil, err
	}
	return &URI{Scheme: scheme, Segments: foldBareIDs(segments)}, nil
}

func lexPath(input, path string) ([]Segment, error) {
	var segments []Segment
	i := 0
	for i < len(path) {
		start := i
		for i < len(path) && path[i] != '/' && path[i] != '[' && path[i] != '?' && !bracketAt(path, i, "%5B") {
			i++
		}
		head, err := url.PathUnescape(path[start:i])
		if err != nil {
			return nil, parseErr(input, "bad escape in segment %q", path[start:i])
		}
		if head == "" {
			return nil, parseErr(input, "empty path segment at offset %d", start)
		}
		seg := Segment{Head: head}

		// Optional [index] qualifier, literal or percent-encoded.
		if i < len(path) && (path[i] == '[' || bracketAt(path, i, "%5B")) {
			if path[i] == '[' {
				i++
			} else {
				i += 3
			}
			numStart := i
			for i < len(path) && path[i] != ']' && !bracketAt(path, i, "%5D") {
				i++
			}
			if i >= len(path) {
				return nil, parseErr(input, "unterminated index qualifier on %q", head)
			}
			num := path[numStart:i]
			if path[i] == ']' {
				i++
			} else {
				i += 3
			}
			n, err := strconv.Atoi(num)
			if err != nil || n < 0 {
				return nil, parseErr(input, "index qualifier on %q must be a non-negative integer, got %q", head, num)
			}
			seg.Index = &n
		}

		// Optional ?query qualifier, running to the next '/' or the end.
		if i < len(path) && path[i] == '?' {
			i++
			qStart := i
			for i < len(path) && path[i] != '/' {
				i++
			}
			st, err := parseQuery(input, path[qStart:i])
			if err != nil {
				return nil, err
			}
			seg.Query = &st
		}

		if i < len(path) {
			if path[i] != '/' {
				return nil, parseErr(input, "unexpected character %q after segment %q", path[i], head)
			}
			i++
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// foldBareIDs applies the id-folding rule: a digits-only segment directly
// after a segment with no positional qualifier becomes that segment's id
// qualifier. A schema therefore must not name a child with digits only;
// such a head is always read as an item id.
func foldBareIDs(segments []Segment) []Segment {
	out := segments[:0]
	for _, seg := range segments {
		if len(out) > 0 && seg.Index == nil && isAllDigits(seg.Head) {
			prev := &out[len(out)-1]
			if !prev.Positional() {
				prev.ID = seg.Head
				if seg.Query != nil {
					if prev.Query == nil {
						prev.Query = seg.Query
					} else {
						merged := prev.Query.Merge(*seg.Query)
						prev.Query = &merged
					}
				}
				continue
			}
		}
		out = append(out, seg)
	}
	return out
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func bracketAt(s string, i int, enc string) bool {
	if i+3 > len(s) {
		return false
	}
	return strings.EqualFold(s[i:i+3], enc)
}

// parseQuery reads the query-string grammar: field=value (implicit equals),
// field.op=value for contains/startsWith/gt/lt, sort=field.direction,
// limit=n, offset=n and expand=f1,f2.
func parseQuery(input, raw string) (query.State, error) {
	var st query.State
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, found := strings.Cut(part, "=")
		if !found {
			return st, parseErr(input, "malformed query parameter %q", part)
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return st, parseErr(input, "bad escape in query key %q", rawKey)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return st, parseErr(input, "bad escape in query value %q", rawVal)
		}

		switch key {
		case "sort":
			field, dir := val, "asc"
			if head, tail, ok := cutLast(val, "."); ok && (tail == "asc" || tail == "desc") {
				field, dir = head, tail
			}
			if field == "" {
				return st, parseErr(input, "sort needs a field name")
			}
			st = st.WithSort(&query.Sort{Field: field, Descending: dir == "desc"})
		case "limit":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return st, parseErr(input, "limit must be a non-negative integer, got %q", val)
			}
			st = st.WithPage(&query.Page{Limit: n, Offset: pageOffset(st)})
		case "offset":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return st, parseErr(input, "offset must be a non-negative integer, got %q", val)
			}
			st = st.WithPage(&query.Page{Limit: pageLimit(st), Offset: n})
		case "expand":
			st = st.MergeExpand(strings.Split(val, ","))
		default:
			field, pred := key, query.Equals(typedLiteral(val))
			if head, tail, ok := cutLast(key, "."); ok {
				if op, known := query.KnownOp(tail); known {
					field = head
					pred = query.Predicate{Op: op, Value: val}
				}
			}
			if field == "" {
				return st, parseErr(input, "filter needs a field name in %q", part)
			}
			st = st.MergeFilters(map[string]query.Predicate{field: pred})
		}
	}
	return st, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

// typedLiteral types an equality filter value. Equality is strict, and a
// URI carries only text, so bool and number literals are typed here or they
// would never match a non-string field. Other operators keep the text:
// contains and startsWith are string tests, gt and lt parse numbers
// themselves.
func typedLiteral(val string) any {
	switch val {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}

func pageOffset(st query.State) int {
	if st.Page != nil {
		return st.Page.Offset
	}
	return 0
}

func pageLimit(st query.State) int {
	if st.Page != nil {
		return st.Page.Limit
	}
	return 0
}
