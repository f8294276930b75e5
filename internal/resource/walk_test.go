package resource

import "testing"

// Following next from offset 0 visits every element exactly once, in
// order, and ends on a nil next.
func TestRead_NextWalksWholeCollection(t *testing.T) {
	b := NewBoundary(numbersRegistry(t, 11), 0, 0)

	var seen []string
	uri := "num://nums?limit=4"
	for steps := 0; ; steps++ {
		if steps > 10 {
			t.Fatal("walk did not terminate")
		}
		got, err := b.Read(uri)
		if err != nil {
			t.Fatalf("Read(%q) failed: %v", uri, err)
		}
		page, items := envelope(t, got.Value)
		for _, it := range items {
			seen = append(seen, itemURI(t, it))
		}
		next, present := page["next"]
		if !present {
			t.Fatalf("envelope without next at %q: %v", uri, page)
		}
		if next == nil {
			break
		}
		uri = next.(string)
	}

	if len(seen) != 11 {
		t.Fatalf("walk visited %d items, want 11: %v", len(seen), seen)
	}
	for i, u := range seen {
		if got := itemIndexOf(u); got != i {
			t.Errorf("position %d visited %q", i, u)
		}
	}
}

func itemIndexOf(u string) int {
	open := -1
	for i, r := range u {
		if r == '[' {
			open = i
		}
	}
	if open < 0 {
		return -1
	}
	n := 0
	for _, r := range u[open+1 : len(u)-1] {
		n = n*10 + int(r-'0')
	}
	return n
}
