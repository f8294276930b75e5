package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Matches reports whether value satisfies the predicate.
//
// Equality is strict: numeric values compare numerically across concrete
// types, everything else requires the same dynamic type. Contains and
// StartsWith only ever match string values. Greater/less parse both
// operands as floats and are false when either side is not numeric.
func (p Predicate) Matches(value any) bool {
	switch p.Op {
	case OpEquals:
		return equalValues(value, p.Value)
	case OpContains:
		s, ok := value.(string)
		return ok && strings.Contains(s, asString(p.Value))
	case OpStartsWith:
		s, ok := value.(string)
		return ok && strings.HasPrefix(s, asString(p.Value))
	case OpGreater:
		a, aok := floatOperand(value)
		b, bok := floatOperand(p.Value)
		return aok && bok && a > b
	case OpLess:
		a, aok := floatOperand(value)
		b, bok := floatOperand(p.Value)
		return aok && bok && a < b
	}
	return false
}

// Field extracts a named value from a raw item. Items are expected to be
// maps; a dotted name that is not a key itself walks nested maps.
func Field(item any, name string) (any, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}
	if v, ok := m[name]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(name, ".")
	if !found {
		return nil, false
	}
	child, ok := m[head]
	if !ok {
		return nil, false
	}
	return Field(child, rest)
}

// Select returns the positions of the items selected by the state's filter,
// sort and pagination, in result order. Sorting is stable so repeated
// applications of the same state yield the same order, which pagination
// correctness depends on. Callers that address items by their original
// position (reference URIs) use the returned indices directly.
func Select(items []any, st State) []int {
	idx := make([]int, 0, len(items))
	for i, item := range items {
		if len(st.Filters) == 0 || matchesAll(item, st.Filters) {
			idx = append(idx, i)
		}
	}
	if st.Sort != nil {
		field := st.Sort.Field
		sort.SliceStable(idx, func(a, b int) bool {
			av, _ := Field(items[idx[a]], field)
			bv, _ := Field(items[idx[b]], field)
			if st.Sort.Descending {
				return compareValues(bv, av) < 0
			}
			return compareValues(av, bv) < 0
		})
	}
	if st.Page != nil {
		idx = slicePage(idx, *st.Page)
	}
	return idx
}

// Apply runs filter, sort and pagination over items and returns a new
// sequence; items itself is never reordered. Expansion is the caller's
// concern (it needs schema knowledge; see Expand).
func Apply(items []any, st State) []any {
	idx := Select(items, st)
	out := make([]any, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// FieldResolver resolves one named field of the item at the given position
// in the result sequence. It reports false when the field cannot be
// resolved; expansion then leaves that field alone and carries on.
type FieldResolver func(index int, field string) (any, bool)

// Expand substitutes resolved field values into each result item for every
// requested field. Items must be maps (reference values); non-map items are
// passed through untouched. Resolution failures are swallowed per item and
// per field.
func Expand(items []any, fields []string, resolve FieldResolver) []any {
	if len(fields) == 0 || resolve == nil {
		return items
	}
	out := make([]any, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out[i] = item
			continue
		}
		expanded := make(map[string]any, len(m)+len(fields))
		for k, v := range m {
			expanded[k] = v
		}
		for _, f := range fields {
			if v, ok := resolve(i, f); ok {
				expanded[f] = v
			}
		}
		out[i] = expanded
	}
	return out
}

func matchesAll(item any, filters map[string]Predicate) bool {
	for field, pred := range filters {
		v, _ := Field(item, field)
		if !pred.Matches(v) {
			return false
		}
	}
	return true
}

func slicePage(idx []int, page Page) []int {
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(idx) {
		return []int{}
	}
	end := len(idx)
	if page.Limit > 0 && offset+page.Limit < end {
		end = offset + page.Limit
	}
	return idx[offset:end]
}

func equalValues(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
		return false
	}
	switch av := a.(type) {
	case string:
		return av == b.(string)
	case bool:
		return av == b.(bool)
	case nil:
		return b == nil
	}
	return false
}

// compareValues orders two field values: numbers numerically, otherwise by
// string form. Missing values (nil) sort first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(asString(a), asString(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// floatOperand is the permissive numeric coercion used by gt/lt: unlike
// equality it also parses numeric strings, since query-string operands
// always arrive as text.
func floatOperand(v any) (float64, bool) {
	if f, ok := asFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
