package schema

import (
	"encoding/json"

	"postino/internal/ports"
	"postino/internal/query"
)

// ReresolveFunc re-resolves a raw URI into a fresh handle. The registry
// installs one on every handle it produces so mutations that change an
// address (move, create) can hand back a handle at the new location.
type ReresolveFunc func(rawURI string) (*Specifier, error)

// Specifier pairs a backing location with the schema node describing it.
// Building one performs no backing reads; navigation stays cheap until
// Resolve touches the store.
type Specifier struct {
	delegate  ports.Delegate
	node      *Node
	reresolve ReresolveFunc
}

// Bind creates a handle over a location.
func Bind(d ports.Delegate, n *Node) *Specifier {
	return &Specifier{delegate: d, node: n}
}

// WithReresolver returns a copy of the handle able to rebind fresh
// addresses after mutations. Navigation propagates it to children.
func (s *Specifier) WithReresolver(f ReresolveFunc) *Specifier {
	c := *s
	c.reresolve = f
	return &c
}

// Delegate exposes the underlying location.
func (s *Specifier) Delegate() ports.Delegate { return s.delegate }

// Node exposes the schema node describing the location.
func (s *Specifier) Node() *Node { return s.node }

// URI reports the canonical address of the location.
func (s *Specifier) URI() string { return s.delegate.CanonicalURI() }

// MarshalJSON encodes the handle in its reference form.
func (s *Specifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(Ref(s.URI()))
}

// Resolve materializes the value at the address.
func (s *Specifier) Resolve() (any, error) {
	return s.resolveAs(true)
}

func (s *Specifier) resolveAs(direct bool) (any, error) {
	return s.node.resolve(s, direct)
}

// Exists reports whether a backing value is present at the address.
// Absence is not an error; a stored null still counts as present.
func (s *Specifier) Exists() bool {
	_, err := s.delegate.Raw()
	return err == nil
}

// Keys lists the child keys addressable from this node.
func (s *Specifier) Keys() []string {
	return s.node.Known()
}

// Get navigates to a named child. Aliased children read their backing key,
// namespace children descend in address only, and computed navigation runs
// its function and continues with its target node at the destination.
func (s *Specifier) Get(key string) (*Specifier, error) {
	child, ok := s.node.Child(key)
	if !ok {
		return nil, unknownChild(s.URI(), key, s.node.Known())
	}
	switch {
	case child.kind == KindNamespace:
		return s.rebind(s.delegate.Namespace(key), child), nil
	case child.nav != nil:
		d, err := child.nav.navigate(s.delegate)
		if err != nil {
			return nil, err
		}
		target := child.nav.target
		if child.lazy && !target.lazy {
			target = Lazy(target)
		}
		return s.rebind(d, target), nil
	case child.alias != "":
		return s.rebind(s.delegate.AliasedProperty(child.alias, key), child), nil
	default:
		return s.rebind(s.delegate.Property(key), child), nil
	}
}

// At addresses a collection item by its position in the plain backing
// sequence. Accumulated query state does not shift positions.
func (s *Specifier) At(i int) (*Specifier, error) {
	if s.node.item == nil || !s.node.access.ByIndex {
		return nil, unsupported(s.URI(), "index addressing")
	}
	return s.rebind(s.delegate.WithoutQuery().Index(i), s.node.item), nil
}

// ByName addresses a collection item by its name field.
func (s *Specifier) ByName(name string) (*Specifier, error) {
	if s.node.item == nil || !s.node.access.ByName {
		return nil, unsupported(s.URI(), "name addressing")
	}
	return s.rebind(s.delegate.WithoutQuery().ByName(name), s.node.item), nil
}

// ByID addresses a collection item by its id field.
func (s *Specifier) ByID(id string) (*Specifier, error) {
	if s.node.item == nil || !s.node.access.ByID {
		return nil, unsupported(s.URI(), "id addressing")
	}
	return s.rebind(s.delegate.WithoutQuery().ByID(id), s.node.item), nil
}

// Whose narrows the collection to items matching every predicate. The
// result is a new handle; queries compose by chaining.
func (s *Specifier) Whose(filters map[string]query.Predicate) (*Specifier, error) {
	if s.node.item == nil {
		return nil, unsupported(s.URI(), "filtering")
	}
	return s.rebind(s.delegate.WithFilter(filters), Queryable(s.node)), nil
}

// SortBy orders the collection; nil clears a previous order.
func (s *Specifier) SortBy(sort *query.Sort) (*Specifier, error) {
	if s.node.item == nil {
		return nil, unsupported(s.URI(), "sorting")
	}
	return s.rebind(s.delegate.WithSort(sort), Queryable(s.node)), nil
}

// Paginate windows the collection; nil clears a previous window.
func (s *Specifier) Paginate(page *query.Page) (*Specifier, error) {
	if s.node.item == nil {
		return nil, unsupported(s.URI(), "pagination")
	}
	return s.rebind(s.delegate.WithPagination(page), Queryable(s.node)), nil
}

// Expand substitutes the named fields' resolved values into the reference
// records the collection yields.
func (s *Specifier) Expand(fields []string) (*Specifier, error) {
	if s.node.item == nil {
		return nil, unsupported(s.URI(), "expansion")
	}
	return s.rebind(s.delegate.WithExpand(fields), Queryable(s.node)), nil
}

// Set assigns a new value at the address. Writes run the node's validators
// first, so a rejected value never reaches the backing graph.
func (s *Specifier) Set(v any) error {
	if !s.node.settable {
		return unsupported(s.URI(), "set")
	}
	for _, check := range s.node.checks {
		if err := check(s.URI(), v); err != nil {
			return err
		}
	}
	return s.delegate.Assign(v)
}

// Move relocates the value to the destination collection and returns a
// fresh handle at the new address. This handle is stale afterwards.
func (s *Specifier) Move(dst *Specifier) (*Specifier, error) {
	if !s.node.movable {
		return nil, unsupported(s.URI(), "move")
	}
	var (
		moved string
		err   error
	)
	if s.node.moveFn != nil {
		moved, err = s.node.moveFn(s.delegate, dst)
	} else {
		moved, err = s.delegate.Relocate(dst.delegate)
	}
	if err != nil {
		return nil, err
	}
	return s.fresh(moved)
}

// Delete removes the value and returns the address it lived at.
func (s *Specifier) Delete() (string, error) {
	if !s.node.deletable {
		return "", unsupported(s.URI(), "delete")
	}
	return s.delegate.Remove()
}

// Create inserts a new item into the collection and returns a handle bound
// to its address.
func (s *Specifier) Create(properties map[string]any) (*Specifier, error) {
	if !s.node.creatable {
		return nil, unsupported(s.URI(), "create")
	}
	created, err := s.delegate.Insert(properties)
	if err != nil {
		return nil, err
	}
	return s.fresh(created)
}

func (s *Specifier) rebind(d ports.Delegate, n *Node) *Specifier {
	return &Specifier{delegate: d, node: n, reresolve: s.reresolve}
}

func (s *Specifier) fresh(rawURI string) (*Specifier, error) {
	if s.reresolve == nil {
		return nil, ErrNoResolver
	}
	return s.reresolve(rawURI)
}

// sequence reads the backing value and requires it to be a list.
func (s *Specifier) sequence() ([]any, error) {
	raw, err := s.delegate.Raw()
	if err != nil {
		return nil, err
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, &TypeError{URI: s.URI(), Want: "sequence", Got: raw}
	}
	return seq, nil
}
