package model

import "testing"

func TestFlattenElements_Basic(t *testing.T) {
	elements := []Element{
		{ID: "ok", Title: "OK", Bounds: [4]int{0, 0, 100, 30}},
		{ID: "hello", Title: "Hello", Bounds: [4]int{0, 30, 100, 20}},
	}
	result := FlattenElements(elements)
	if len(result) != 2 {
		t.Fatalf("expected 2 flat elements, got %d", len(result))
	}
	if result[0].Path != "ok" {
		t.Errorf("expected path 'ok', got %q", result[0].Path)
	}
	if result[1].Path != "hello" {
		t.Errorf("expected path 'hello', got %q", result[1].Path)
	}
}

func TestFlattenElements_NestedPath(t *testing.T) {
	elements := []Element{
		{
			ID: "main",
			Children: []Element{
				{
					ID: "nav",
					Children: []Element{
						{ID: "back", Title: "Back"},
					},
				},
				{ID: "body"},
			},
		},
	}
	result := FlattenElements(elements)
	want := []struct{ id, path string }{
		{"main", "main"},
		{"nav", "main > nav"},
		{"back", "main > nav > back"},
		{"body", "main > body"},
	}
	if len(result) != len(want) {
		t.Fatalf("expected %d flat elements, got %d", len(want), len(result))
	}
	for i, w := range want {
		if result[i].ID != w.id || result[i].Path != w.path {
			t.Errorf("[%d] got (%s, %q), want (%s, %q)", i, result[i].ID, result[i].Path, w.id, w.path)
		}
	}
}

func TestFlattenElements_Empty(t *testing.T) {
	if result := FlattenElements(nil); len(result) != 0 {
		t.Errorf("expected empty result, got %d", len(result))
	}
}
