package schema

import (
	"sort"

	"postino/internal/ports"
)

// Kind names a node's resolution shape. Decorators (Lazy, Computed, Alias,
// mutation capabilities) modify behavior without changing the kind.
type Kind string

const (
	KindScalar     Kind = "scalar"
	KindObject     Kind = "object"
	KindCollection Kind = "collection"
	KindNamespace  Kind = "namespace"
)

// ResolveFunc materializes the value at a bound location. direct reports
// whether the caller asked for this node itself; lazy nodes return a
// reference instead of their value when reached indirectly through a parent.
type ResolveFunc func(sp *Specifier, direct bool) (any, error)

// Navigator computes a destination location from the current one. It backs
// relationship shortcuts whose target lives elsewhere in the graph, such as
// an account's inbox living under a top-level inbox collection.
type Navigator func(d ports.Delegate) (ports.Delegate, error)

// MoveFunc replaces the default relocation for nodes whose position is not
// a plain sequence slot. It returns the address of the value after the move.
type MoveFunc func(src ports.Delegate, dst *Specifier) (string, error)

// Validator checks a raw scalar value before it is returned. uri is the
// address being resolved, for error reporting.
type Validator func(uri string, v any) error

// Accessors declares which item addressing forms a collection supports.
type Accessors struct {
	ByIndex bool
	ByName  bool
	ByID    bool
}

// Node is one vertex of a schema tree. Nodes are built once at startup and
// shared across resolutions; decorators copy rather than mutate, so a base
// node can appear undecorated in one place and wrapped in another.
type Node struct {
	kind     Kind
	resolve  ResolveFunc
	children map[string]*Node
	order    []string
	item     *Node
	access   Accessors
	alias    string
	target   *Node
	nav      *navSpec
	checks   []Validator
	lazy     bool
	queried  bool

	settable  bool
	movable   bool
	moveFn    MoveFunc
	deletable bool
	creatable bool
}

type navSpec struct {
	navigate Navigator
	target   *Node
}

// Scalar builds a leaf node that returns the backing value as-is, after
// running any validators against it. The same validators guard writes to
// the node when it is settable.
func Scalar(validators ...Validator) *Node {
	n := &Node{kind: KindScalar, checks: validators}
	n.resolve = func(sp *Specifier, direct bool) (any, error) {
		v, err := sp.delegate.Raw()
		if err != nil {
			return nil, err
		}
		for _, check := range n.checks {
			if err := check(sp.URI(), v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return n
}

// Object builds a record node. Resolution navigates to every child through
// the specifier, so aliases, namespaces and computed navigation all apply,
// and collects the results into a plain map. Children that fail to resolve
// are skipped rather than failing the whole record.
func Object(children map[string]*Node) *Node {
	n := &Node{kind: KindObject, children: children}
	n.order = make([]string, 0, len(children))
	for key := range children {
		n.order = append(n.order, key)
	}
	sort.Strings(n.order)
	n.resolve = resolveRecord
	return n
}

// Collection builds a sequence node. Resolution maps each backing item to a
// reference record holding only its canonical address; callers follow the
// reference or query the collection to see item content.
func Collection(item *Node, access Accessors) *Node {
	n := &Node{kind: KindCollection, item: item, access: access}
	n.resolve = func(sp *Specifier, direct bool) (any, error) {
		seq, err := sp.sequence()
		if err != nil {
			return nil, err
		}
		out := make([]any, len(seq))
		for i := range seq {
			out[i] = Ref(sp.delegate.Index(i).CanonicalURI())
		}
		return out, nil
	}
	return n
}

// SetItem installs the collection's item schema after construction. It
// exists for self-referential trees (a mailbox containing mailboxes) where
// the item node cannot be passed to Collection directly. Call it before the
// collection is wrapped by any decorator; decorators copy the node.
func (n *Node) SetItem(item *Node) {
	n.item = item
}

// Namespace builds a virtual grouping node over target. Addressing descends
// one URI segment without moving in the backing graph; child lookups and
// resolution both defer to the target's children.
func Namespace(target *Node) *Node {
	n := &Node{kind: KindNamespace, target: target}
	n.resolve = resolveRecord
	return n
}

// ComputedNav builds a relationship node: navigate computes the real
// location and target describes what lives there. The bound handle reports
// the destination's canonical address, not the path the caller typed.
func ComputedNav(navigate Navigator, target *Node) *Node {
	n := &Node{kind: target.Kind(), nav: &navSpec{navigate: navigate, target: target}}
	n.resolve = func(sp *Specifier, direct bool) (any, error) {
		d, err := navigate(sp.delegate)
		if err != nil {
			return nil, err
		}
		return sp.rebind(d, target).resolveAs(direct)
	}
	return n
}

// Lazy marks a node as expensive. Reached through a parent record it yields
// a reference; resolved directly it yields its real value.
func Lazy(base *Node) *Node {
	n := base.clone()
	n.lazy = true
	inner := base.resolve
	n.resolve = func(sp *Specifier, direct bool) (any, error) {
		if !direct {
			return Ref(sp.delegate.CanonicalURI()), nil
		}
		return inner(sp, direct)
	}
	return n
}

// Computed derives a value from the raw backing leaf. transform must be
// pure; it runs on every resolution.
func Computed(base *Node, transform func(raw any) (any, error)) *Node {
	n := base.clone()
	n.resolve = func(sp *Specifier, direct bool) (any, error) {
		raw, err := sp.delegate.Raw()
		if err != nil {
			return nil, err
		}
		return transform(raw)
	}
	return n
}

// Alias exposes base under an address key different from the backing field
// name. Navigation reads the backing key while canonical addresses keep the
// public one.
func Alias(base *Node, backingKey string) *Node {
	n := base.clone()
	n.alias = backingKey
	return n
}

// WithSet allows assignment at this address.
func WithSet(base *Node) *Node {
	n := base.clone()
	n.settable = true
	return n
}

// WithMove allows relocation. A nil move uses the delegate's default
// relocation; a custom one overrides it for values whose position is not a
// plain sequence slot.
func WithMove(base *Node, move MoveFunc) *Node {
	n := base.clone()
	n.movable = true
	n.moveFn = move
	return n
}

// WithDelete allows removal at this address.
func WithDelete(base *Node) *Node {
	n := base.clone()
	n.deletable = true
	return n
}

// WithCreate allows inserting new items into this collection.
func WithCreate(base *Node) *Node {
	n := base.clone()
	n.creatable = true
	return n
}

// Kind reports the node's resolution shape.
func (n *Node) Kind() Kind { return n.kind }

// Item returns the collection's item schema, or nil for non-collections.
func (n *Node) Item() *Node { return n.item }

// Access reports the collection's supported addressing forms.
func (n *Node) Access() Accessors { return n.access }

// IsLazy reports whether the node defers its value behind a reference.
func (n *Node) IsLazy() bool { return n.lazy }

// Child looks up a named child. Namespace nodes answer from their target.
func (n *Node) Child(key string) (*Node, bool) {
	if n.kind == KindNamespace && n.target != nil {
		return n.target.Child(key)
	}
	c, ok := n.children[key]
	return c, ok
}

// Known lists the node's child keys in sorted order. Namespace nodes list
// their target's keys.
func (n *Node) Known() []string {
	keys := n.childKeys()
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

func (n *Node) childKeys() []string {
	if n.kind == KindNamespace && n.target != nil {
		return n.target.childKeys()
	}
	return n.order
}

func (n *Node) clone() *Node {
	c := *n
	return &c
}

// Ref is the lightweight value emitted for lazy members and collection
// items: a record holding only the canonical address.
func Ref(uri string) map[string]any {
	return map[string]any{"uri": uri}
}

// resolveRecord gathers every child of the active node into a plain map.
// Shared by object and namespace nodes.
func resolveRecord(sp *Specifier, direct bool) (any, error) {
	keys := sp.node.childKeys()
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		child, err := sp.Get(key)
		if err != nil {
			continue
		}
		v, err := child.resolveAs(false)
		if err != nil {
			continue
		}
		out[key] = v
	}
	return out, nil
}
