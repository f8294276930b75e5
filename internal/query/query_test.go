package query

import "testing"

func TestPredicateMatches(t *testing.T) {
	tests := []struct {
		name  string
		pred  Predicate
		value any
		want  bool
	}{
		{"equals string", Equals("Work"), "Work", true},
		{"equals string miss", Equals("Work"), "Personal", false},
		{"equals cross-type numeric", Equals(float64(3)), 3, true},
		{"equals string never matches number", Equals("3"), 3, false},
		{"equals number never matches string", Equals(3), "3", false},
		{"equals bool", Equals(true), true, true},
		{"equals nil", Equals(nil), nil, true},
		{"contains", Contains("lo w"), "hello world", true},
		{"contains miss", Contains("xyz"), "hello world", false},
		{"contains non-string value", Contains("4"), 42, false},
		{"startsWith", StartsWith("Re:"), "Re: standup", true},
		{"startsWith miss", StartsWith("Re:"), "Fwd: standup", false},
		{"gt numeric", GreaterThan(3), 5, true},
		{"gt equal is false", GreaterThan(3), 3, false},
		{"gt parses string operands", GreaterThan("3"), "10", true},
		{"gt non-numeric is false", GreaterThan(3), "abc", false},
		{"lt numeric", LessThan(3), 2, true},
		{"lt non-numeric filter value", LessThan("abc"), 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestField(t *testing.T) {
	item := map[string]any{
		"name":      "Work",
		"date.year": 2023,
		"date":      map[string]any{"year": 2024},
	}
	tests := []struct {
		name   string
		field  string
		want   any
		wantOK bool
	}{
		{"direct", "name", "Work", true},
		{"literal dotted key wins", "date.year", 2023, true},
		{"nested", "date.year2", nil, false},
		{"missing", "rank", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Field(item, tt.field)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Field(%q) = (%v, %v), want (%v, %v)", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	nested := map[string]any{"date": map[string]any{"year": 2024}}
	got, ok := Field(nested, "date.year")
	if !ok || got != 2024 {
		t.Errorf("dotted path must walk nested maps, got (%v, %v)", got, ok)
	}

	if _, ok := Field("not a map", "name"); ok {
		t.Error("non-map items have no fields")
	}
}

func books() []any {
	return []any{
		map[string]any{"name": "delta", "rank": 4},
		map[string]any{"name": "alpha", "rank": 2},
		map[string]any{"name": "bravo", "rank": 2},
		map[string]any{"name": "echo", "rank": 1},
		map[string]any{"name": "charlie", "rank": 3},
	}
}

func TestSelect_KeepsOriginalPositions(t *testing.T) {
	st := State{}.
		MergeFilters(map[string]Predicate{"rank": LessThan(4)}).
		WithSort(&Sort{Field: "rank"})
	got := Select(books(), st)
	// rank 1 is at position 3; the rank-2 pair keeps input order (1, 2).
	want := []int{3, 1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSelect_Pagination(t *testing.T) {
	st := State{}.
		WithSort(&Sort{Field: "name"}).
		WithPage(&Page{Limit: 2, Offset: 1})
	got := Select(books(), st)
	// name order: alpha(1) bravo(2) charlie(4) delta(0) echo(3).
	want := []int{2, 4}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelect_OffsetPastEnd(t *testing.T) {
	st := State{}.WithPage(&Page{Offset: 99})
	if got := Select(books(), st); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}

func TestSelect_DescendingSort(t *testing.T) {
	st := State{}.WithSort(&Sort{Field: "name", Descending: true})
	got := Select(books(), st)
	if got[0] != 3 || got[len(got)-1] != 1 {
		t.Errorf("expected echo first and alpha last, got %v", got)
	}
}

func TestApply_DoesNotReorderInput(t *testing.T) {
	items := books()
	st := State{}.WithSort(&Sort{Field: "name"})
	out := Apply(items, st)
	if len(out) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(out))
	}
	if name, _ := Field(out[0], "name"); name != "alpha" {
		t.Errorf("expected sorted output, got %v first", name)
	}
	if name, _ := Field(items[0], "name"); name != "delta" {
		t.Errorf("input was reordered, got %v first", name)
	}
}

func TestExpand_SubstitutesFields(t *testing.T) {
	items := []any{
		map[string]any{"uri": "mail://messages[0]"},
		map[string]any{"uri": "mail://messages[1]"},
		"passthrough",
	}
	out := Expand(items, []string{"subject", "missing"}, func(i int, field string) (any, bool) {
		if field != "subject" {
			return nil, false
		}
		return []string{"first", "second"}[i], true
	})

	first, ok := out[0].(map[string]any)
	if !ok {
		t.Fatalf("expected a map, got %T", out[0])
	}
	if first["subject"] != "first" || first["uri"] != "mail://messages[0]" {
		t.Errorf("expected subject merged beside uri, got %v", first)
	}
	if _, present := first["missing"]; present {
		t.Error("failed fields must be left out")
	}
	if out[2] != "passthrough" {
		t.Errorf("non-map items must pass through, got %v", out[2])
	}
	if orig := items[0].(map[string]any); len(orig) != 1 {
		t.Errorf("expand must not mutate its input, got %v", orig)
	}
}

func TestExpand_NoFields(t *testing.T) {
	items := []any{map[string]any{"uri": "u"}}
	out := Expand(items, nil, nil)
	if len(out) != 1 {
		t.Fatalf("expected passthrough, got %v", out)
	}
}
