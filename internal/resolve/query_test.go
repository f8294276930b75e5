package resolve

import (
	"reflect"
	"testing"

	"postino/internal/adapters/memory"
	"postino/internal/query"
	"postino/internal/schema"
)

func rankedRegistry(t *testing.T) *Registry {
	t.Helper()
	store := memory.New("toy", map[string]any{
		"items": []any{
			map[string]any{"id": "i-a", "name": "a", "rank": 3},
			map[string]any{"id": "i-b", "name": "b", "rank": 1},
			map[string]any{"id": "i-c", "name": "c", "rank": 2},
		},
	})
	item := schema.Object(map[string]*schema.Node{
		"id":   schema.Scalar(),
		"name": schema.Scalar(),
		"rank": schema.Scalar(),
	})
	tree := schema.Object(map[string]*schema.Node{
		"items": schema.Collection(item, schema.Accessors{ByIndex: true, ByName: true, ByID: true}),
	})
	r := NewRegistry()
	if err := r.Register(tree, store); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return r
}

// Sorting by rank ascending puts b (rank 1) before c (rank 2); the limit
// drops a (rank 3). References keep the items' unsorted positions.
func TestSortAndLimit_OrdersByRank(t *testing.T) {
	r := rankedRegistry(t)
	got := resolveValue(t, r, "toy://items?sort=rank.asc&limit=2").([]any)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	first := got[0].(map[string]any)["uri"]
	second := got[1].(map[string]any)["uri"]
	if first != "toy://items[1]" || second != "toy://items[2]" {
		t.Errorf("got %v then %v", first, second)
	}
}

// Index and name addressing reach the same item.
func TestIndexAndNameAddressSameItem(t *testing.T) {
	r := rankedRegistry(t)
	byIndex := resolveValue(t, r, "toy://items[1]")
	byName := resolveValue(t, r, "toy://items/b")
	if !reflect.DeepEqual(byIndex, byName) {
		t.Errorf("items[1] = %v, items/b = %v", byIndex, byName)
	}
}

// A handle's canonical address resolves back to the same value.
func TestCanonicalAddressRoundTrip(t *testing.T) {
	r := rankedRegistry(t)
	for _, raw := range []string{
		"toy://items",
		"toy://items[2]",
		"toy://items/b/rank",
		"toy://items?rank.gt=1&sort=rank.desc",
	} {
		sp, err := r.Resolve(raw)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", raw, err)
		}
		v1, err := sp.Resolve()
		if err != nil {
			t.Fatalf("resolving %q failed: %v", raw, err)
		}
		again, err := r.Resolve(sp.URI())
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", sp.URI(), err)
		}
		v2, err := again.Resolve()
		if err != nil {
			t.Fatalf("resolving %q failed: %v", sp.URI(), err)
		}
		if !reflect.DeepEqual(v1, v2) {
			t.Errorf("%q: %v != %v via %q", raw, v1, v2, sp.URI())
		}
	}
}

// Resolving the same queryable handle twice yields the same result set.
func TestQueryResolutionIsRepeatable(t *testing.T) {
	r := rankedRegistry(t)
	sp, err := r.Resolve("toy://items?rank.lt=3&sort=rank.desc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	v1, err := sp.Resolve()
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	v2, err := sp.Resolve()
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if !reflect.DeepEqual(v1, v2) {
		t.Errorf("resolutions differ: %v != %v", v1, v2)
	}
}

// Chained filters narrow together instead of replacing each other.
func TestChainedFiltersBothApply(t *testing.T) {
	r := rankedRegistry(t)
	sp, err := r.Resolve("toy://items")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	low, err := sp.Whose(map[string]query.Predicate{"rank": query.LessThan(3)})
	if err != nil {
		t.Fatalf("first Whose failed: %v", err)
	}
	named, err := low.Whose(map[string]query.Predicate{"name": query.Equals("c")})
	if err != nil {
		t.Fatalf("second Whose failed: %v", err)
	}
	got, err := named.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	refs := got.([]any)
	if len(refs) != 1 {
		t.Fatalf("got %v", refs)
	}
	if uri := refs[0].(map[string]any)["uri"]; uri != "toy://items[2]" {
		t.Errorf("got %v", uri)
	}
}
