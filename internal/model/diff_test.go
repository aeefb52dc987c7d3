package model

import "testing"

func TestDiffLayouts_NoChanges(t *testing.T) {
	elements := []FlatElement{
		{ID: "ok", Title: "OK", Bounds: [4]int{10, 20, 100, 30}, Path: "ok"},
	}
	diff := DiffLayouts(elements, elements)
	if !diff.Empty() {
		t.Errorf("expected no changes, got %+v", diff)
	}
	if diff.UnchangedCount != 1 {
		t.Errorf("expected unchanged_count 1, got %d", diff.UnchangedCount)
	}
}

func TestDiffLayouts_Added(t *testing.T) {
	prev := []FlatElement{{ID: "ok"}}
	curr := []FlatElement{{ID: "ok"}, {ID: "cancel", Title: "Cancel"}}
	diff := DiffLayouts(prev, curr)
	if len(diff.Added) != 1 {
		t.Fatalf("expected 1 added, got %d", len(diff.Added))
	}
	if diff.Added[0].Title != "Cancel" {
		t.Errorf("expected Cancel, got %s", diff.Added[0].Title)
	}
}

func TestDiffLayouts_Removed(t *testing.T) {
	prev := []FlatElement{{ID: "ok"}, {ID: "spinner", Title: "Loading..."}}
	curr := []FlatElement{{ID: "ok"}}
	diff := DiffLayouts(prev, curr)
	if len(diff.Removed) != 1 {
		t.Fatalf("expected 1 removed, got %d", len(diff.Removed))
	}
	if diff.Removed[0].ID != "spinner" {
		t.Errorf("expected spinner, got %s", diff.Removed[0].ID)
	}
}

func TestDiffLayouts_MovedAndChanged(t *testing.T) {
	prev := []FlatElement{
		{ID: "a", Bounds: [4]int{0, 0, 10, 10}},
		{ID: "b", Attrs: map[string]string{"focusable": ""}},
	}
	curr := []FlatElement{
		{ID: "a", Bounds: [4]int{50, 0, 10, 10}},
		{ID: "b", Attrs: map[string]string{"focusable": "", "focus-overrides": "skip"}},
	}
	diff := DiffLayouts(prev, curr)
	if len(diff.Moved) != 1 || diff.Moved[0].ID != "a" {
		t.Errorf("expected a moved, got %+v", diff.Moved)
	}
	if len(diff.Changed) != 1 || diff.Changed[0].ID != "b" {
		t.Fatalf("expected b changed, got %+v", diff.Changed)
	}
	if _, ok := diff.Changed[0].Changes["attrs"]; !ok {
		t.Error("expected attrs change")
	}
	if diff.UnchangedCount != 0 {
		t.Errorf("expected unchanged_count 0, got %d", diff.UnchangedCount)
	}
}
