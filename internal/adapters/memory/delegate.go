package memory

import (
	"fmt"

	"postino/internal/ports"
	"postino/internal/query"
	"postino/internal/uri"
)

type stepKind int

const (
	stepProperty stepKind = iota
	stepNamespace
	stepIndex
	stepName
	stepID
)

// step is one recorded navigation. key is the address key (or name/id);
// backing is the field actually read, which differs from key for aliases.
type step struct {
	kind    stepKind
	key     string
	backing string
	index   int
}

// delegate is an immutable cursor: a recorded path plus the query state
// accumulated at its tip. Navigation discards the tip state; queries bind
// to the location they were applied at.
type delegate struct {
	store *Store
	steps []step
	state query.State
}

var _ ports.Delegate = (*delegate)(nil)

func (d *delegate) push(st step) *delegate {
	return &delegate{store: d.store, steps: appendStep(d.steps, st)}
}

func (d *delegate) Raw() (any, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return d.store.valueAt(d.steps)
}

func (d *delegate) Property(key string) ports.Delegate {
	return d.push(step{kind: stepProperty, key: key, backing: key})
}

func (d *delegate) AliasedProperty(backingKey, addressKey string) ports.Delegate {
	return d.push(step{kind: stepProperty, key: addressKey, backing: backingKey})
}

func (d *delegate) Namespace(addressKey string) ports.Delegate {
	return d.push(step{kind: stepNamespace, key: addressKey})
}

func (d *delegate) Index(i int) ports.Delegate {
	return d.push(step{kind: stepIndex, index: i})
}

func (d *delegate) ByName(name string) ports.Delegate {
	return d.push(step{kind: stepName, key: name})
}

func (d *delegate) ByID(id string) ports.Delegate {
	return d.push(step{kind: stepID, key: id})
}

func (d *delegate) CanonicalURI() string {
	return canonicalURI(d.store.scheme, d.steps, d.state)
}

func (d *delegate) Parent() (ports.Delegate, bool) {
	if len(d.steps) == 0 {
		return nil, false
	}
	steps := make([]step, len(d.steps)-1)
	copy(steps, d.steps)
	return &delegate{store: d.store, steps: steps}, true
}

func (d *delegate) Assign(value any) error {
	return d.store.assign(d.steps, value)
}

func (d *delegate) Relocate(destination ports.Delegate) (string, error) {
	dd, ok := destination.(*delegate)
	if !ok || dd.store != d.store {
		return "", fmt.Errorf("destination %s belongs to a different store", destination.CanonicalURI())
	}
	return d.store.relocate(d.steps, dd.steps)
}

func (d *delegate) Remove() (string, error) {
	return d.store.remove(d.steps)
}

func (d *delegate) Insert(properties map[string]any) (string, error) {
	return d.store.insert(d.steps, properties)
}

func (d *delegate) withState(st query.State) ports.Delegate {
	return &delegate{store: d.store, steps: d.steps, state: st}
}

func (d *delegate) WithFilter(filters map[string]query.Predicate) ports.Delegate {
	return d.withState(d.state.MergeFilters(filters))
}

func (d *delegate) WithSort(sort *query.Sort) ports.Delegate {
	return d.withState(d.state.WithSort(sort))
}

func (d *delegate) WithPagination(page *query.Page) ports.Delegate {
	return d.withState(d.state.WithPage(page))
}

func (d *delegate) WithExpand(fields []string) ports.Delegate {
	return d.withState(d.state.MergeExpand(fields))
}

func (d *delegate) QueryState() query.State {
	return d.state.Clone()
}

func (d *delegate) WithoutQuery() ports.Delegate {
	return &delegate{store: d.store, steps: d.steps}
}

// canonicalURI renders a recorded path. Index and id steps attach to the
// segment they qualify; the tip query state serializes onto the last
// segment.
func canonicalURI(scheme string, steps []step, tip query.State) string {
	u := uri.URI{Scheme: scheme}
	for _, st := range steps {
		switch st.kind {
		case stepProperty, stepNamespace, stepName:
			u.Segments = append(u.Segments, uri.Segment{Head: st.key})
		case stepID:
			if n := len(u.Segments); n > 0 && u.Segments[n-1].ID == "" && u.Segments[n-1].Index == nil {
				u.Segments[n-1].ID = st.key
			} else {
				u.Segments = append(u.Segments, uri.Segment{Head: st.key})
			}
		case stepIndex:
			idx := st.index
			if n := len(u.Segments); n > 0 && u.Segments[n-1].ID == "" && u.Segments[n-1].Index == nil {
				u.Segments[n-1].Index = &idx
			} else {
				// The previous segment is already qualified, as in a
				// sequence of sequences. The index gets a bare bracket
				// segment of its own rather than vanishing.
				u.Segments = append(u.Segments, uri.Segment{Index: &idx})
			}
		}
	}
	if !tip.IsZero() && len(u.Segments) > 0 {
		qs := tip.Clone()
		u.Segments[len(u.Segments)-1].Query = &qs
	}
	return u.String()
}
