package model

import "testing"

func TestFilterElements_NoFilters(t *testing.T) {
	elements := []Element{
		{ID: "a", Bounds: [4]int{0, 0, 100, 30}},
		{ID: "b", Bounds: [4]int{0, 30, 100, 20}},
	}
	result := FilterElements(elements, "", nil)
	if len(result) != 2 {
		t.Errorf("expected 2 elements, got %d", len(result))
	}
}

func TestFilterElements_AttributeFilter(t *testing.T) {
	elements := []Element{
		{ID: "a", Attrs: map[string]string{"focusable": ""}},
		{ID: "b"},
		{ID: "c", Attrs: map[string]string{"focusable": "", "capture-focus": ""}},
	}
	result := FilterElements(elements, "focusable", nil)
	if len(result) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result))
	}
	if result[0].ID != "a" || result[1].ID != "c" {
		t.Errorf("unexpected ids: %s, %s", result[0].ID, result[1].ID)
	}
}

func TestFilterElements_BBoxFilter(t *testing.T) {
	elements := []Element{
		{ID: "inside", Bounds: [4]int{10, 10, 50, 30}},
		{ID: "outside", Bounds: [4]int{200, 200, 50, 30}},
		{ID: "overlaps", Bounds: [4]int{90, 90, 50, 30}},
	}
	bbox := [4]int{0, 0, 100, 100}
	result := FilterElements(elements, "", &bbox)
	if len(result) != 2 {
		t.Errorf("expected 2 elements (inside + overlapping), got %d", len(result))
	}
}

func TestFilterElements_PromotesMatchingDescendants(t *testing.T) {
	elements := []Element{
		{
			ID: "panel",
			Children: []Element{
				{ID: "ok", Attrs: map[string]string{"focusable": ""}},
				{ID: "label"},
			},
		},
	}
	result := FilterElements(elements, "focusable", nil)
	if len(result) != 1 || result[0].ID != "ok" {
		t.Errorf("expected the focusable child promoted, got %+v", result)
	}
}

func TestFilterByText(t *testing.T) {
	elements := []Element{
		{
			ID: "toolbar",
			Children: []Element{
				{ID: "save", Title: "Save Document"},
				{ID: "open", Title: "Open"},
			},
		},
		{ID: "status", Title: "Ready"},
	}
	result := FilterByText(elements, "save")
	if len(result) != 1 || result[0].ID != "toolbar" {
		t.Fatalf("expected toolbar ancestor, got %+v", result)
	}
	if len(result[0].Children) != 1 || result[0].Children[0].ID != "save" {
		t.Errorf("expected only the matching child, got %+v", result[0].Children)
	}

	if got := FilterByText(elements, ""); len(got) != 2 {
		t.Errorf("empty text should return everything, got %d", len(got))
	}
}
