package memory

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"postino/internal/ports"
	"postino/internal/query"
)

// Store keeps an object graph in process memory and hands out delegates
// that navigate it. The graph holds plain JSON shapes: map[string]any
// records, []any sequences and scalar leaves. The store takes ownership of
// the root passed to New; callers must not keep writing to it.
type Store struct {
	scheme  string
	nameKey string
	idKey   string
	onWrite func(root map[string]any) error

	mu   sync.RWMutex
	root map[string]any
}

var _ ports.Store = (*Store)(nil)

// Option adjusts a Store at construction time.
type Option func(*Store)

// WithKeyFields overrides the record fields used for by-name and by-id item
// addressing. The defaults are "name" and "id".
func WithKeyFields(nameKey, idKey string) Option {
	return func(s *Store) {
		s.nameKey = nameKey
		s.idKey = idKey
	}
}

// WithWriteHook registers a function invoked after every successful
// mutation while the store lock is still held. Persistent stores use it to
// snapshot the graph; a hook error fails the mutation it follows.
func WithWriteHook(fn func(root map[string]any) error) Option {
	return func(s *Store) {
		s.onWrite = fn
	}
}

// New builds a store serving the given URI scheme over root.
func New(scheme string, root map[string]any, opts ...Option) *Store {
	s := &Store{scheme: scheme, nameKey: "name", idKey: "id", root: root}
	if s.root == nil {
		s.root = map[string]any{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scheme names the URI scheme this store serves.
func (s *Store) Scheme() string { return s.scheme }

// Root hands out a fresh delegate at the graph root.
func (s *Store) Root() ports.Delegate {
	return &delegate{store: s}
}

func (s *Store) addr(steps []step) string {
	return canonicalURI(s.scheme, steps, query.State{})
}

// locate walks the graph along steps and returns the final value together
// with the container slot holding it, so mutations can replace it.
func (s *Store) locate(steps []step) (any, location, error) {
	cur := any(s.root)
	var hold location
	for i, st := range steps {
		switch st.kind {
		case stepNamespace:
			continue
		case stepProperty:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, location{}, badShape(s.addr(steps[:i+1]), "cannot read field %q of %T", st.key, cur)
			}
			v, ok := m[st.backing]
			if !ok {
				return nil, location{}, notFound(s.addr(steps[:i+1]), "no field %q", st.key)
			}
			cur, hold = v, location{m: m, key: st.backing}
		default:
			seq, ok := cur.([]any)
			if !ok {
				return nil, location{}, badShape(s.addr(steps[:i+1]), "cannot address an item of %T", cur)
			}
			idx, err := s.itemIndex(seq, st, steps[:i+1])
			if err != nil {
				return nil, location{}, err
			}
			cur, hold = seq[idx], location{list: seq, idx: idx}
		}
	}
	return cur, hold, nil
}

func (s *Store) valueAt(steps []step) (any, error) {
	v, _, err := s.locate(steps)
	return v, err
}

// itemIndex resolves an index, name or id step against a sequence.
func (s *Store) itemIndex(seq []any, st step, steps []step) (int, error) {
	switch st.kind {
	case stepIndex:
		if st.index < 0 || st.index >= len(seq) {
			return 0, notFound(s.addr(steps), "index %d out of range, have %d items", st.index, len(seq))
		}
		return st.index, nil
	case stepName:
		if idx := s.findByName(seq, st.key); idx >= 0 {
			return idx, nil
		}
		return 0, notFound(s.addr(steps), "no item named %q", st.key)
	default: // stepID
		if idx := findByKey(seq, s.idKey, st.key); idx >= 0 {
			return idx, nil
		}
		return 0, notFound(s.addr(steps), "no item with id %q", st.key)
	}
}

// findByName matches the name field first and falls back to the id field,
// so canonical id addresses still resolve when they arrive as bare
// segments.
func (s *Store) findByName(seq []any, name string) int {
	if idx := findByKey(seq, s.nameKey, name); idx >= 0 {
		return idx
	}
	return findByKey(seq, s.idKey, name)
}

func findByKey(seq []any, key, want string) int {
	for i, item := range seq {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := m[key]; ok && fmt.Sprint(v) == want {
			return i
		}
	}
	return -1
}

func (s *Store) assign(steps []step, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(steps)
	if n == 0 {
		return badShape(s.addr(steps), "cannot assign to the root")
	}
	parent, _, err := s.locate(steps[:n-1])
	if err != nil {
		return err
	}
	final := steps[n-1]
	switch final.kind {
	case stepNamespace:
		return badShape(s.addr(steps), "cannot assign to a grouping address")
	case stepProperty:
		m, ok := parent.(map[string]any)
		if !ok {
			return badShape(s.addr(steps), "cannot write field %q of %T", final.key, parent)
		}
		m[final.backing] = value
	default:
		seq, ok := parent.([]any)
		if !ok {
			return badShape(s.addr(steps), "cannot address an item of %T", parent)
		}
		idx, err := s.itemIndex(seq, final, steps)
		if err != nil {
			return err
		}
		seq[idx] = value
	}
	return s.afterWrite()
}

func (s *Store) remove(steps []step) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(steps)
	if n == 0 {
		return "", badShape(s.addr(steps), "cannot remove the root")
	}
	final := steps[n-1]
	removed := s.addr(steps)
	switch final.kind {
	case stepNamespace:
		return "", badShape(removed, "cannot remove a grouping address")
	case stepProperty:
		parent, _, err := s.locate(steps[:n-1])
		if err != nil {
			return "", err
		}
		m, ok := parent.(map[string]any)
		if !ok {
			return "", badShape(removed, "cannot remove field %q of %T", final.key, parent)
		}
		if _, ok := m[final.backing]; !ok {
			return "", notFound(removed, "no field %q", final.key)
		}
		delete(m, final.backing)
	default:
		listVal, hold, err := s.locate(steps[:n-1])
		if err != nil {
			return "", err
		}
		seq, ok := listVal.([]any)
		if !ok {
			return "", badShape(removed, "cannot address an item of %T", listVal)
		}
		idx, err := s.itemIndex(seq, final, steps)
		if err != nil {
			return "", err
		}
		if err := hold.replace(splice(seq, idx)); err != nil {
			return "", err
		}
	}
	if err := s.afterWrite(); err != nil {
		return "", err
	}
	return removed, nil
}

func (s *Store) relocate(src, dst []step) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(src)
	if n == 0 {
		return "", badShape(s.addr(src), "cannot move the root")
	}
	final := src[n-1]
	if final.kind == stepProperty || final.kind == stepNamespace {
		return "", badShape(s.addr(src), "only collection items can move")
	}
	if stepsPrefix(src, dst) {
		return "", badShape(s.addr(dst), "destination lies inside the moved item")
	}
	listVal, hold, err := s.locate(src[:n-1])
	if err != nil {
		return "", err
	}
	seq, ok := listVal.([]any)
	if !ok {
		return "", badShape(s.addr(src), "cannot address an item of %T", listVal)
	}
	idx, err := s.itemIndex(seq, final, src)
	if err != nil {
		return "", err
	}
	item := seq[idx]
	// Locate the destination slot before anything is spliced out: index
	// qualifiers in dst must resolve against the intact graph, and nothing
	// may be removed until the destination is known to exist. The slot stays
	// valid across the splice because splice copies the slice header only;
	// the item containers inside it are shared.
	dv, dhold, err := s.locate(dst)
	if err != nil {
		return "", err
	}
	dseq, ok := dv.([]any)
	if !ok {
		return "", badShape(s.addr(dst), "destination is not a collection")
	}
	if s.onPath(item, dst) {
		return "", badShape(s.addr(dst), "destination lies inside the moved item")
	}
	if sameSequence(dseq, seq) {
		// A move within one collection appends to the spliced sequence.
		moved := append(splice(seq, idx), item)
		if err := hold.replace(moved); err != nil {
			return "", err
		}
		if err := s.afterWrite(); err != nil {
			return "", err
		}
		return s.itemURI(dst, item, len(moved)-1), nil
	}
	if err := dhold.replace(append(dseq[:len(dseq):len(dseq)], item)); err != nil {
		return "", err
	}
	if err := hold.replace(splice(seq, idx)); err != nil {
		return "", err
	}
	if err := s.afterWrite(); err != nil {
		return "", err
	}
	return s.itemURI(dst, item, len(dseq)), nil
}

// onPath reports whether item appears as a value on the walk to dst. It
// backs the containment guard for destinations that spell the moved item
// differently than the source did, say by id where the source used an
// index.
func (s *Store) onPath(item any, dst []step) bool {
	for i := 1; i <= len(dst); i++ {
		v, _, err := s.locate(dst[:i])
		if err != nil {
			return false
		}
		if sameContainer(v, item) {
			return true
		}
	}
	return false
}

// sameContainer reports whether a and b are the same map or slice. Scalars
// never match; equal values in different containers are not the same item.
func sameContainer(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Len() == rb.Len() && ra.Len() > 0 && ra.Pointer() == rb.Pointer()
	}
	return false
}

func sameSequence(a, b []any) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func (s *Store) insert(steps []step, properties map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listVal, hold, err := s.locate(steps)
	if err != nil {
		return "", err
	}
	seq, ok := listVal.([]any)
	if !ok {
		return "", badShape(s.addr(steps), "cannot insert into %T", listVal)
	}
	item := make(map[string]any, len(properties)+1)
	for k, v := range properties {
		item[k] = v
	}
	if _, ok := item[s.idKey]; !ok {
		item[s.idKey] = uuid.NewString()
	}
	if err := hold.replace(append(seq[:len(seq):len(seq)], item)); err != nil {
		return "", err
	}
	if err := s.afterWrite(); err != nil {
		return "", err
	}
	return s.itemURI(steps, item, len(seq)), nil
}

// itemURI builds the most stable address available for an item in the
// collection at coll: by id, else by name, else by position.
func (s *Store) itemURI(coll []step, item any, position int) string {
	if m, ok := item.(map[string]any); ok {
		if id, ok := m[s.idKey]; ok {
			return s.addr(appendStep(coll, step{kind: stepID, key: fmt.Sprint(id)}))
		}
		if name, ok := m[s.nameKey]; ok {
			return s.addr(appendStep(coll, step{kind: stepName, key: fmt.Sprint(name)}))
		}
	}
	return s.addr(appendStep(coll, step{kind: stepIndex, index: position}))
}

func (s *Store) afterWrite() error {
	if s.onWrite == nil {
		return nil
	}
	return s.onWrite(s.root)
}

// location is the container slot a value lives in.
type location struct {
	m    map[string]any
	key  string
	list []any
	idx  int
}

func (l location) replace(v any) error {
	switch {
	case l.m != nil:
		l.m[l.key] = v
		return nil
	case l.list != nil:
		l.list[l.idx] = v
		return nil
	}
	return fmt.Errorf("no enclosing container")
}

// splice copies seq without the element at idx; the original backing array
// is left untouched.
func splice(seq []any, idx int) []any {
	return append(seq[:idx:idx], seq[idx+1:]...)
}

func stepsPrefix(prefix, full []step) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}

func appendStep(steps []step, st step) []step {
	out := make([]step, len(steps), len(steps)+1)
	copy(out, steps)
	return append(out, st)
}
