package resolve

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"postino/internal/ports"
	"postino/internal/query"
	"postino/internal/schema"
	"postino/internal/uri"
)

// Registry maps URI schemes to schema trees and their backing stores. It is
// the entry point for turning an address into a bound handle.
type Registry struct {
	mu      sync.RWMutex
	schemes map[string]entry
}

type entry struct {
	root  *schema.Node
	store ports.Store
}

func NewRegistry() *Registry {
	return &Registry{schemes: map[string]entry{}}
}

// Register binds a schema tree to the store's scheme. Registering the same
// scheme twice is an error.
func (r *Registry) Register(root *schema.Node, store ports.Store) error {
	scheme := store.Scheme()
	if scheme == "" {
		return errors.New("store has no scheme")
	}
	if root == nil {
		return fmt.Errorf("scheme %q has no root node", scheme)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.schemes[scheme]; dup {
		return fmt.Errorf("scheme %q already registered", scheme)
	}
	r.schemes[scheme] = entry{root: root, store: store}
	return nil
}

// Schemes lists the registered schemes in sorted order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.schemes))
	for s := range r.schemes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Resolve parses raw and walks its segments to a bound handle. Resolution
// performs no backing reads beyond what computed navigation needs; the
// returned handle is still lazy. Handles carry this registry as their
// reresolver, so mutations on them can rebind fresh addresses.
func (r *Registry) Resolve(raw string) (*schema.Specifier, error) {
	parsed, err := uri.Parse(raw)
	if err != nil {
		return nil, &Error{URI: raw, Err: err}
	}
	r.mu.RLock()
	ent, ok := r.schemes[parsed.Scheme]
	r.mu.RUnlock()
	if !ok {
		return nil, &Error{URI: raw, Reason: fmt.Sprintf("scheme %q is not registered", parsed.Scheme), Known: r.Schemes(), Err: ErrUnknownScheme}
	}
	sp := schema.Bind(ent.store.Root(), ent.root).WithReresolver(r.Resolve)
	for _, seg := range parsed.Segments {
		next, err := applySegment(sp, seg)
		if err != nil {
			return nil, &Error{URI: raw, Segment: seg.Head, Err: err}
		}
		sp = next
	}
	return sp, nil
}

// applySegment advances one URI segment: the head first, then its index or
// id qualifier, then its query qualifier.
func applySegment(sp *schema.Specifier, seg uri.Segment) (*schema.Specifier, error) {
	next, err := stepHead(sp, seg.Head)
	if err != nil {
		return nil, err
	}
	if next.Node().Kind() == schema.KindNamespace && (seg.Index != nil || seg.ID != "" || seg.Query != nil) {
		return nil, fmt.Errorf("%s is a grouping address and takes no qualifiers", next.URI())
	}
	if seg.Index != nil {
		if next, err = next.At(*seg.Index); err != nil {
			return nil, err
		}
	}
	if seg.ID != "" {
		if next, err = next.ByID(seg.ID); err != nil {
			return nil, err
		}
	}
	if seg.Query != nil {
		if next, err = applyQuery(next, *seg.Query); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// stepHead resolves a segment head. A head that is not a child key of a
// collection node falls back to item addressing: by name when the
// collection supports it, else by id.
func stepHead(sp *schema.Specifier, head string) (*schema.Specifier, error) {
	if _, ok := sp.Node().Child(head); ok {
		return sp.Get(head)
	}
	if sp.Node().Kind() == schema.KindCollection {
		acc := sp.Node().Access()
		switch {
		case acc.ByName:
			return sp.ByName(head)
		case acc.ByID:
			return sp.ByID(head)
		}
	}
	return sp.Get(head)
}

func applyQuery(sp *schema.Specifier, st query.State) (*schema.Specifier, error) {
	var err error
	if len(st.Filters) > 0 {
		if sp, err = sp.Whose(st.Filters); err != nil {
			return nil, err
		}
	}
	if st.Sort != nil {
		if sp, err = sp.SortBy(st.Sort); err != nil {
			return nil, err
		}
	}
	if st.Page != nil {
		if sp, err = sp.Paginate(st.Page); err != nil {
			return nil, err
		}
	}
	if len(st.Expand) > 0 {
		if sp, err = sp.Expand(st.Expand); err != nil {
			return nil, err
		}
	}
	return sp, nil
}
