package schema

import (
	"strings"

	"postino/internal/query"
)

// Queryable wraps a collection node so resolution honors the delegate's
// accumulated query state. Filter and sort run over the backing items,
// pagination windows the survivors, and each survivor is emitted as a
// reference record addressed by its original position, so item URIs stay
// valid regardless of the query that produced them. Expansion resolves the
// requested fields per item and substitutes them into the reference record;
// fields that fail to resolve are left out. Wrapping is idempotent.
func Queryable(base *Node) *Node {
	if base.queried {
		return base
	}
	n := base.clone()
	n.queried = true
	n.resolve = func(sp *Specifier, direct bool) (any, error) {
		seq, err := sp.sequence()
		if err != nil {
			return nil, err
		}
		st := sp.delegate.QueryState()
		plain := sp.delegate.WithoutQuery()
		picked := query.Select(seq, translateState(st, n.item))
		out := make([]any, len(picked))
		for i, j := range picked {
			out[i] = Ref(plain.Index(j).CanonicalURI())
		}
		if len(st.Expand) == 0 {
			return out, nil
		}
		return query.Expand(out, st.Expand, func(i int, field string) (any, bool) {
			item := sp.rebind(plain.Index(picked[i]), n.item)
			child, err := item.Get(field)
			if err != nil {
				return nil, false
			}
			v, err := child.resolveAs(true)
			if err != nil {
				return nil, false
			}
			return v, true
		}), nil
	}
	return n
}

// translateState rewrites address field names to the raw fields they read,
// using the item schema's aliases, so predicates and sorts match backing
// items. Addresses and serialized queries keep the public names.
func translateState(st query.State, item *Node) query.State {
	if item == nil {
		return st
	}
	out := st.Clone()
	if len(out.Filters) > 0 {
		filters := make(map[string]query.Predicate, len(out.Filters))
		for field, p := range out.Filters {
			filters[backingField(item, field)] = p
		}
		out.Filters = filters
	}
	if out.Sort != nil {
		s := *out.Sort
		s.Field = backingField(item, s.Field)
		out.Sort = &s
	}
	return out
}

// backingField maps a public field name to the raw one. Dotted paths
// translate their first element only.
func backingField(item *Node, field string) string {
	head, rest, dotted := strings.Cut(field, ".")
	child, ok := item.Child(head)
	if !ok || child.alias == "" {
		return field
	}
	if dotted {
		return child.alias + "." + rest
	}
	return child.alias
}
