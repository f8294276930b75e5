package uri

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"postino/internal/query"
)

// URI is a parsed resource address: a scheme plus ordered path segments.
type URI struct {
	Scheme   string
	Segments []Segment
}

// Segment is one path step. A segment may carry a positional qualifier
// (Index or ID, never both) and independently a query qualifier.
type Segment struct {
	Head  string
	Index *int
	ID    string
	Query *query.State
}

// Positional reports whether the segment carries an index or id qualifier.
func (s Segment) Positional() bool {
	return s.Index != nil || s.ID != ""
}

// String renders the segment in canonical form: escaped head, literal
// bracket index, slash-folded id, then the serialized query suffix.
func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(EscapeSegment(s.Head))
	if s.Index != nil {
		fmt.Fprintf(&b, "[%d]", *s.Index)
	} else if s.ID != "" {
		b.WriteByte('/')
		b.WriteString(EscapeSegment(s.ID))
	}
	if s.Query != nil {
		if q := FormatQuery(*s.Query); q != "" {
			b.WriteByte('?')
			b.WriteString(q)
		}
	}
	return b.String()
}

// String renders the URI in canonical form.
func (u *URI) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	for i, seg := range u.Segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// EscapeSegment escapes a path segment for the canonical form.
func EscapeSegment(s string) string {
	return url.PathEscape(s)
}

// FormatQuery serializes query state into the query-string grammar, without
// the leading "?". Filters are emitted in field order so the canonical form
// is deterministic. Returns "" for zero state.
func FormatQuery(st query.State) string {
	if st.IsZero() {
		return ""
	}
	var parts []string
	fields := make([]string, 0, len(st.Filters))
	for f := range st.Filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		pred := st.Filters[f]
		key := url.QueryEscape(f)
		if pred.Op != query.OpEquals {
			key += "." + string(pred.Op)
		}
		parts = append(parts, key+"="+url.QueryEscape(formatValue(pred.Value)))
	}
	if st.Sort != nil {
		dir := "asc"
		if st.Sort.Descending {
			dir = "desc"
		}
		parts = append(parts, "sort="+url.QueryEscape(st.Sort.Field)+"."+dir)
	}
	if st.Page != nil {
		if st.Page.Limit > 0 {
			parts = append(parts, "limit="+strconv.Itoa(st.Page.Limit))
		}
		if st.Page.Offset > 0 {
			parts = append(parts, "offset="+strconv.Itoa(st.Page.Offset))
		}
	}
	if len(st.Expand) > 0 {
		escaped := make([]string, len(st.Expand))
		for i, f := range st.Expand {
			escaped[i] = url.QueryEscape(f)
		}
		parts = append(parts, "expand="+strings.Join(escaped, ","))
	}
	return strings.Join(parts, "&")
}

func formatValue(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
