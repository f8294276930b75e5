package query

import "slices"

// Op identifies a filter predicate operator.
type Op string

const (
	OpEquals     Op = "equals"
	OpContains   Op = "contains"
	OpStartsWith Op = "startsWith"
	OpGreater    Op = "gt"
	OpLess       Op = "lt"
)

// KnownOp reports whether s names a filter operator that may appear in a
// query string as a field suffix. Equals is implicit and never written out.
func KnownOp(s string) (Op, bool) {
	switch Op(s) {
	case OpContains, OpStartsWith, OpGreater, OpLess:
		return Op(s), true
	}
	return "", false
}

// Predicate is a single-field filter condition.
type Predicate struct {
	Op    Op
	Value any
}

// Equals matches values strictly equal to v.
func Equals(v any) Predicate { return Predicate{Op: OpEquals, Value: v} }

// Contains matches string values containing substring s.
func Contains(s string) Predicate { return Predicate{Op: OpContains, Value: s} }

// StartsWith matches string values prefixed by s.
func StartsWith(s string) Predicate { return Predicate{Op: OpStartsWith, Value: s} }

// GreaterThan matches values numerically greater than v.
func GreaterThan(v any) Predicate { return Predicate{Op: OpGreater, Value: v} }

// LessThan matches values numerically less than v.
func LessThan(v any) Predicate { return Predicate{Op: OpLess, Value: v} }

// Sort orders a sequence by one field.
type Sort struct {
	Field      string
	Descending bool
}

// Page slices a sequence. Limit 0 means "no limit".
type Page struct {
	Limit  int
	Offset int
}

// State is the accumulated query state of one location: filter map, sort
// spec, pagination spec and expand field list. The zero value means
// "no query".
type State struct {
	Filters map[string]Predicate
	Sort    *Sort
	Page    *Page
	Expand  []string
}

// IsZero reports whether no query state has been accumulated.
func (s State) IsZero() bool {
	return len(s.Filters) == 0 && s.Sort == nil && s.Page == nil && len(s.Expand) == 0
}

// Clone returns a deep copy; the original is never aliased by the copy.
func (s State) Clone() State {
	out := State{Sort: s.Sort, Page: s.Page}
	if s.Sort != nil {
		c := *s.Sort
		out.Sort = &c
	}
	if s.Page != nil {
		c := *s.Page
		out.Page = &c
	}
	if len(s.Filters) > 0 {
		out.Filters = make(map[string]Predicate, len(s.Filters))
		for k, v := range s.Filters {
			out.Filters[k] = v
		}
	}
	out.Expand = slices.Clone(s.Expand)
	return out
}

// MergeFilters returns a copy with the given filters merged in per field:
// a new predicate for an already-filtered field replaces it, filters on
// other fields are kept.
func (s State) MergeFilters(filters map[string]Predicate) State {
	out := s.Clone()
	if len(filters) == 0 {
		return out
	}
	if out.Filters == nil {
		out.Filters = make(map[string]Predicate, len(filters))
	}
	for k, v := range filters {
		out.Filters[k] = v
	}
	return out
}

// WithSort returns a copy whose sort spec is replaced wholesale.
func (s State) WithSort(sort *Sort) State {
	out := s.Clone()
	if sort == nil {
		out.Sort = nil
		return out
	}
	c := *sort
	out.Sort = &c
	return out
}

// WithPage returns a copy whose pagination spec is replaced wholesale.
// A nil page clears pagination.
func (s State) WithPage(page *Page) State {
	out := s.Clone()
	if page == nil {
		out.Page = nil
		return out
	}
	c := *page
	out.Page = &c
	return out
}

// MergeExpand returns a copy whose expand list is the order-preserving
// union of the current and given field lists.
func (s State) MergeExpand(fields []string) State {
	out := s.Clone()
	for _, f := range fields {
		if f == "" || slices.Contains(out.Expand, f) {
			continue
		}
		out.Expand = append(out.Expand, f)
	}
	return out
}

// Merge folds another state into this one using the per-component rules:
// filters merge per field, expand fields union, sort and pagination replace
// when the incoming state carries them.
func (s State) Merge(other State) State {
	out := s.MergeFilters(other.Filters).MergeExpand(other.Expand)
	if other.Sort != nil {
		out = out.WithSort(other.Sort)
	}
	if other.Page != nil {
		out = out.WithPage(other.Page)
	}
	return out
}
