package schema

import (
	"errors"
	"fmt"
	"testing"

	"postino/internal/adapters/memory"
	"postino/internal/ports"
)

// The fixture models a small library: an eager curator record with a lazy
// field, a collection with every accessor, an alias, a namespace over a
// root scalar and a computed shortcut to the featured book.
func testStore() *memory.Store {
	return memory.New("lib", map[string]any{
		"title": "Library",
		"mode":  "quiet",
		"curator": map[string]any{
			"name":   "Iris",
			"secret": "s3cret",
		},
		"featuredId": "b-3",
		"books": []any{
			map[string]any{"id": "b-1", "name": "Dune", "rank": 4, "tag": "scifi", "blurb": "Sand."},
			map[string]any{"id": "b-2", "name": "Emma", "rank": 2, "tag": "classic", "blurb": "Match."},
			map[string]any{"id": "b-3", "name": "Hild", "rank": 5, "tag": "historical", "blurb": "Crows."},
		},
	})
}

func testTree() *Node {
	book := Object(map[string]*Node{
		"id":    Scalar(),
		"name":  WithSet(Scalar()),
		"rank":  Scalar(),
		"label": Alias(Scalar(), "tag"),
		"blurb": Lazy(Scalar()),
	})
	item := WithDelete(WithMove(book, nil))
	return Object(map[string]*Node{
		"title":    Scalar(),
		"curator":  Object(map[string]*Node{"name": Scalar(), "secret": Lazy(Scalar()), "badge": Scalar()}),
		"shelf":    Namespace(Object(map[string]*Node{"mode": WithSet(Scalar())})),
		"books":    WithCreate(Collection(item, Accessors{ByIndex: true, ByName: true, ByID: true})),
		"featured": Lazy(ComputedNav(navFeatured, item)),
	})
}

func navFeatured(d ports.Delegate) (ports.Delegate, error) {
	id, err := d.Property("featuredId").Raw()
	if err != nil {
		return nil, err
	}
	return d.Property("books").ByID(fmt.Sprint(id)), nil
}

func bindRoot(t *testing.T) (*Specifier, *memory.Store) {
	t.Helper()
	store := testStore()
	return Bind(store.Root(), testTree()), store
}

func mustGet(t *testing.T, sp *Specifier, key string) *Specifier {
	t.Helper()
	child, err := sp.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	return child
}

func mustResolve(t *testing.T, sp *Specifier) any {
	t.Helper()
	v, err := sp.Resolve()
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", sp.URI(), err)
	}
	return v
}

func TestScalar_ReturnsBackingValue(t *testing.T) {
	root, _ := bindRoot(t)
	got := mustResolve(t, mustGet(t, root, "title"))
	if got != "Library" {
		t.Errorf("got %v, want %q", got, "Library")
	}
}

func TestScalar_ValidatorRejects(t *testing.T) {
	store := memory.New("lib", map[string]any{"count": "not a number"})
	tree := Object(map[string]*Node{
		"count": Scalar(func(uri string, v any) error {
			if _, ok := v.(int); !ok {
				return Typef(uri, "int", v)
			}
			return nil
		}),
	})
	sp := mustGet(t, Bind(store.Root(), tree), "count")
	_, err := sp.Resolve()
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected a TypeError, got %v", err)
	}
	if te.Want != "int" || te.URI != "lib://count" {
		t.Errorf("unexpected TypeError contents: %+v", te)
	}
}

func TestObject_InlinesEagerAndRefsLazy(t *testing.T) {
	root, _ := bindRoot(t)
	got := mustResolve(t, mustGet(t, root, "curator"))
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected a map, got %T", got)
	}
	if m["name"] != "Iris" {
		t.Errorf("eager child must inline, got %v", m["name"])
	}
	ref, ok := m["secret"].(map[string]any)
	if !ok || ref["uri"] != "lib://curator/secret" {
		t.Errorf("lazy child must resolve to a reference, got %v", m["secret"])
	}
}

func TestObject_SkipsUnresolvableChildren(t *testing.T) {
	root, _ := bindRoot(t)
	got := mustResolve(t, mustGet(t, root, "curator")).(map[string]any)
	if _, present := got["badge"]; present {
		t.Errorf("children missing from the backing graph must be skipped, got %v", got)
	}
	if len(got) != 2 {
		t.Errorf("expected name and secret only, got %v", got)
	}
}

func TestLazy_DirectResolveYieldsValue(t *testing.T) {
	root, _ := bindRoot(t)
	secret := mustGet(t, mustGet(t, root, "curator"), "secret")
	if got := mustResolve(t, secret); got != "s3cret" {
		t.Errorf("direct resolution must bypass the reference, got %v", got)
	}
}

func TestCollection_YieldsReferences(t *testing.T) {
	root, _ := bindRoot(t)
	got := mustResolve(t, mustGet(t, root, "books"))
	refs, ok := got.([]any)
	if !ok {
		t.Fatalf("expected a list, got %T", got)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 references, got %d", len(refs))
	}
	for i, r := range refs {
		m, ok := r.(map[string]any)
		want := fmt.Sprintf("lib://books[%d]", i)
		if !ok || m["uri"] != want || len(m) != 1 {
			t.Errorf("item %d: expected bare reference %q, got %v", i, want, r)
		}
	}
}

func TestCollection_TypeErrorOnNonSequence(t *testing.T) {
	store := memory.New("lib", map[string]any{"books": "oops"})
	tree := Object(map[string]*Node{"books": Collection(Object(nil), Accessors{ByIndex: true})})
	_, err := mustGet(t, Bind(store.Root(), tree), "books").Resolve()
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected a TypeError, got %v", err)
	}
	if te.Want != "sequence" {
		t.Errorf("got %+v", te)
	}
}

func TestAlias_ReadsBackingKeyKeepsAddress(t *testing.T) {
	root, _ := bindRoot(t)
	books := mustGet(t, root, "books")
	dune, err := books.ByName("Dune")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	label := mustGet(t, dune, "label")
	if label.URI() != "lib://books/Dune/label" {
		t.Errorf("canonical address must keep the public name, got %q", label.URI())
	}
	if got := mustResolve(t, label); got != "scifi" {
		t.Errorf("alias must read the backing field, got %v", got)
	}
}

func TestNamespace_GroupsWithoutMoving(t *testing.T) {
	root, _ := bindRoot(t)
	shelf := mustGet(t, root, "shelf")
	if shelf.URI() != "lib://shelf" {
		t.Errorf("namespace must descend in address, got %q", shelf.URI())
	}
	mode := mustGet(t, shelf, "mode")
	if mode.URI() != "lib://shelf/mode" {
		t.Errorf("got %q", mode.URI())
	}
	if got := mustResolve(t, mode); got != "quiet" {
		t.Errorf("namespace child must read from the enclosing location, got %v", got)
	}
	grouped := mustResolve(t, shelf).(map[string]any)
	if grouped["mode"] != "quiet" {
		t.Errorf("namespace must resolve like a record of its target, got %v", grouped)
	}
}

func TestComputedNav_BindsDestination(t *testing.T) {
	root, _ := bindRoot(t)
	featured := mustGet(t, root, "featured")
	if featured.URI() != "lib://books/b-3" {
		t.Errorf("computed navigation must land at the destination address, got %q", featured.URI())
	}
	got := mustResolve(t, featured).(map[string]any)
	if got["name"] != "Hild" {
		t.Errorf("expected the featured book, got %v", got)
	}
}

func TestComputedNav_LazyRefInParent(t *testing.T) {
	root, _ := bindRoot(t)
	got := mustResolve(t, root).(map[string]any)
	ref, ok := got["featured"].(map[string]any)
	if !ok || ref["uri"] != "lib://books/b-3" {
		t.Errorf("lazy computed member must appear as a destination reference, got %v", got["featured"])
	}
}

func TestComputed_TransformsRawLeaf(t *testing.T) {
	store := memory.New("lib", map[string]any{"cents": 250})
	tree := Object(map[string]*Node{
		"euros": Computed(Alias(Scalar(), "cents"), func(raw any) (any, error) {
			n, ok := raw.(int)
			if !ok {
				return nil, fmt.Errorf("cents is %T", raw)
			}
			return float64(n) / 100, nil
		}),
	})
	sp := mustGet(t, Bind(store.Root(), tree), "euros")
	if sp.URI() != "lib://euros" {
		t.Errorf("got %q", sp.URI())
	}
	if got := mustResolve(t, sp); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestUnknownChild_ListsKnownKeys(t *testing.T) {
	root, _ := bindRoot(t)
	_, err := root.Get("nope")
	var uc *UnknownChildError
	if !errors.As(err, &uc) {
		t.Fatalf("expected an UnknownChildError, got %v", err)
	}
	if uc.Key != "nope" || len(uc.Known) != 5 {
		t.Errorf("got %+v", uc)
	}
	if uc.Known[0] != "books" {
		t.Errorf("known keys must be sorted, got %v", uc.Known)
	}
}

func TestNodeKinds(t *testing.T) {
	tree := testTree()
	tests := []struct {
		key  string
		want Kind
	}{
		{"title", KindScalar},
		{"curator", KindObject},
		{"books", KindCollection},
		{"shelf", KindNamespace},
		{"featured", KindObject},
	}
	for _, tt := range tests {
		child, ok := tree.Child(tt.key)
		if !ok {
			t.Fatalf("missing child %q", tt.key)
		}
		if child.Kind() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.key, child.Kind(), tt.want)
		}
	}
}

func TestSetItem_CompletesRecursiveShapes(t *testing.T) {
	store := memory.New("fs", map[string]any{
		"dirs": []any{
			map[string]any{"name": "a", "dirs": []any{
				map[string]any{"name": "b", "dirs": []any{}},
			}},
		},
	})
	nested := Collection(nil, Accessors{ByIndex: true, ByName: true})
	dir := Object(map[string]*Node{"name": Scalar(), "dirs": nested})
	nested.SetItem(dir)
	tree := Object(map[string]*Node{"dirs": Collection(dir, Accessors{ByIndex: true, ByName: true})})

	inner, err := Bind(store.Root(), tree).Get("dirs")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	a, err := inner.ByName("a")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	b, err := mustGet(t, a, "dirs").ByName("b")
	if err != nil {
		t.Fatalf("nested ByName failed: %v", err)
	}
	if got := mustResolve(t, mustGet(t, b, "name")); got != "b" {
		t.Errorf("got %v", got)
	}
}
