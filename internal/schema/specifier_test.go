package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"postino/internal/adapters/memory"
)

func TestKeys_SortedChildNames(t *testing.T) {
	root, _ := bindRoot(t)
	got := root.Keys()
	want := []string{"books", "curator", "featured", "shelf", "title"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if keys := mustGet(t, root, "title").Keys(); len(keys) != 0 {
		t.Errorf("scalars have no keys, got %v", keys)
	}
}

func TestMarshalJSON_EmitsReference(t *testing.T) {
	root, _ := bindRoot(t)
	books := mustGet(t, root, "books")
	out, err := json.Marshal(books)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"uri":"lib://books"}` {
		t.Errorf("got %s", out)
	}
}

func TestExists(t *testing.T) {
	root, _ := bindRoot(t)
	if !mustGet(t, root, "title").Exists() {
		t.Error("title is present in the backing graph")
	}
	badge := mustGet(t, mustGet(t, root, "curator"), "badge")
	if badge.Exists() {
		t.Error("badge never resolves, Exists must report false")
	}
}

func TestItemAccess(t *testing.T) {
	root, _ := bindRoot(t)
	books := mustGet(t, root, "books")

	byIndex, err := books.At(2)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if byIndex.URI() != "lib://books[2]" {
		t.Errorf("got %q", byIndex.URI())
	}
	byName, err := books.ByName("Emma")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	if got := mustResolve(t, mustGet(t, byName, "id")); got != "b-2" {
		t.Errorf("got %v", got)
	}
	byID, err := books.ByID("b-1")
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if byID.URI() != "lib://books/b-1" {
		t.Errorf("got %q", byID.URI())
	}
}

func TestItemAccess_GatedByAccessors(t *testing.T) {
	store := testStore()
	tree := Object(map[string]*Node{
		"books": Collection(Object(map[string]*Node{"id": Scalar()}), Accessors{ByIndex: true}),
	})
	books := mustGet(t, Bind(store.Root(), tree), "books")

	if _, err := books.At(0); err != nil {
		t.Fatalf("indexed access is declared, got %v", err)
	}
	var ue *UnsupportedError
	if _, err := books.ByName("Dune"); !errors.As(err, &ue) {
		t.Errorf("expected an UnsupportedError, got %v", err)
	} else if ue.Op != "name addressing" {
		t.Errorf("got %+v", ue)
	}
	if _, err := books.ByID("b-1"); !errors.As(err, &ue) {
		t.Errorf("expected an UnsupportedError, got %v", err)
	}
}

func TestItemAccess_RejectedOffCollections(t *testing.T) {
	root, _ := bindRoot(t)
	title := mustGet(t, root, "title")
	var ue *UnsupportedError
	if _, err := title.At(0); !errors.As(err, &ue) {
		t.Errorf("expected an UnsupportedError, got %v", err)
	}
	if _, err := title.Whose(nil); !errors.As(err, &ue) {
		t.Errorf("filtering a scalar must fail, got %v", err)
	}
}

func TestSet_GatedByCapability(t *testing.T) {
	root, store := bindRoot(t)
	var ue *UnsupportedError
	if err := mustGet(t, root, "title").Set("New"); !errors.As(err, &ue) {
		t.Fatalf("title is read-only, got %v", err)
	}

	books := mustGet(t, root, "books")
	dune, err := books.ByName("Dune")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	if err := mustGet(t, dune, "name").Set("Dune Messiah"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	reread := Bind(store.Root(), testTree())
	first, err := mustGet(t, reread, "books").At(0)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got := mustResolve(t, mustGet(t, first, "name")); got != "Dune Messiah" {
		t.Errorf("write did not land, got %v", got)
	}
}

func TestSet_RunsValidators(t *testing.T) {
	store := memory.New("lib", map[string]any{"mode": "quiet"})
	tree := Object(map[string]*Node{
		"mode": WithSet(Scalar(func(uri string, v any) error {
			if v != "quiet" && v != "loud" {
				return Typef(uri, "quiet or loud", v)
			}
			return nil
		})),
	})
	mode := mustGet(t, Bind(store.Root(), tree), "mode")

	var te *TypeError
	if err := mode.Set("shrill"); !errors.As(err, &te) {
		t.Fatalf("rejected values must not be written, got %v", err)
	}
	if got := mustResolve(t, mode); got != "quiet" {
		t.Errorf("backing value changed to %v", got)
	}
	if err := mode.Set("loud"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := mustResolve(t, mode); got != "loud" {
		t.Errorf("got %v", got)
	}
}

func TestDelete_RemovesItem(t *testing.T) {
	root, _ := bindRoot(t)
	books := mustGet(t, root, "books")
	item, err := books.At(1)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	removed, err := item.Delete()
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != "lib://books[1]" {
		t.Errorf("got %q", removed)
	}
	left := mustResolve(t, books).([]any)
	if len(left) != 2 {
		t.Errorf("expected 2 books after delete, got %d", len(left))
	}
	var ue *UnsupportedError
	if _, err := books.Delete(); !errors.As(err, &ue) {
		t.Errorf("the collection itself is not deletable, got %v", err)
	}
}

func TestCreate_ReresolvesFreshItem(t *testing.T) {
	root, store := bindRoot(t)
	var seen string
	root = root.WithReresolver(func(raw string) (*Specifier, error) {
		seen = raw
		return Bind(store.Root(), testTree()), nil
	})
	books := mustGet(t, root, "books")
	created, err := books.Create(map[string]any{"id": "b-9", "name": "Nona", "rank": 1, "tag": "scifi", "blurb": "."})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created == nil {
		t.Fatal("expected a handle for the new item")
	}
	if seen != "lib://books/b-9" {
		t.Errorf("fresh handles resolve through the registered resolver, got %q", seen)
	}
	if got := mustResolve(t, books).([]any); len(got) != 4 {
		t.Errorf("expected 4 books, got %d", len(got))
	}
}

func TestCreate_WithoutResolver(t *testing.T) {
	root, _ := bindRoot(t)
	books := mustGet(t, root, "books")
	_, err := books.Create(map[string]any{"id": "b-9", "name": "Nona"})
	if !errors.Is(err, ErrNoResolver) {
		t.Errorf("got %v, want ErrNoResolver", err)
	}
}

func TestMove_RelocatesWithinCollection(t *testing.T) {
	root, store := bindRoot(t)
	root = root.WithReresolver(func(raw string) (*Specifier, error) {
		return Bind(store.Root(), testTree()), nil
	})
	books := mustGet(t, root, "books")
	src, err := books.ByID("b-1")
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if _, err := src.Move(books); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	last, err := books.At(2)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got := mustResolve(t, mustGet(t, last, "id")); got != "b-1" {
		t.Errorf("moved item must land at the end, got %v", got)
	}

	var ue *UnsupportedError
	if _, err := books.Move(books); !errors.As(err, &ue) {
		t.Errorf("the collection itself is not movable, got %v", err)
	}
}

func TestGet_OnLeafFails(t *testing.T) {
	root, _ := bindRoot(t)
	title := mustGet(t, root, "title")
	_, err := title.Get("anything")
	if err == nil || !strings.Contains(err.Error(), "anything") {
		t.Errorf("got %v", err)
	}
}
