package host

import (
	"testing"

	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
)

const boxesLayout = `
name: boxes
elements:
  - id: header
    bounds: [0, 0, 300, 40]
  - id: main
    bounds: [0, 40, 300, 260]
    children:
      - id: box41
        class: box
        bounds: [50, 50, 50, 50]
        attrs: {focusable: ""}
      - id: box42
        class: box
        bounds: [75, 125, 50, 50]
        attrs: {focusable: ""}
      - id: box44
        class: box
        bounds: [150, 75, 50, 50]
        attrs: {focusable: "", focus-overrides: "null null #box42 null"}
      - id: drawer
        visibility: hidden
        bounds: [0, 0, 10, 10]
        children:
          - id: secret
            bounds: [0, 0, 10, 10]
            attrs: {focusable: ""}
  - id: outside
    bounds: [400, 50, 50, 50]
    attrs: {focusable: ""}
`

func mustLayout(t *testing.T, data string) *model.Layout {
	t.Helper()
	layout, err := model.ParseLayout([]byte(data), model.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	return layout
}

func keys(els []nav.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.Key()
	}
	return out
}

func TestTree_QueryScopes(t *testing.T) {
	tree := NewTree(mustLayout(t, boxesLayout))

	all := keys(tree.Query(nav.DocumentContainer, "focusable"))
	want := []string{"#box41", "#box42", "#box44", "#secret", "#outside"}
	if len(all) != len(want) {
		t.Fatalf("document query: got %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("document order [%d]: got %s, want %s", i, all[i], want[i])
		}
	}

	scoped := keys(tree.Query("#main", "focusable"))
	if len(scoped) != 4 || scoped[0] != "#box41" {
		t.Errorf("scoped query: got %v", scoped)
	}

	if got := tree.Query("#nowhere", "focusable"); got != nil {
		t.Errorf("unknown container should yield nothing, got %v", keys(got))
	}
}

func TestTree_ResolveAndAttributes(t *testing.T) {
	tree := NewTree(mustLayout(t, boxesLayout))

	el := tree.Resolve(".box")
	if el == nil || el.Key() != "#box41" {
		t.Fatalf("Resolve(.box) = %v", el)
	}
	if tree.Resolve("#missing") != nil {
		t.Error("unresolved selector should return nil")
	}
	if tree.Resolve("not a selector") != nil {
		t.Error("invalid selector should return nil")
	}

	if got := tree.Rect(el); got != (geometry.Rect{Left: 50, Top: 50, Width: 50, Height: 50}) {
		t.Errorf("Rect = %+v", got)
	}
	if v, ok := tree.Attr(tree.Resolve("#box44"), "focus-overrides"); !ok || v != "null null #box42 null" {
		t.Errorf("Attr = %q, %v", v, ok)
	}
}

func TestTree_VisibilityInherits(t *testing.T) {
	tree := NewTree(mustLayout(t, boxesLayout))
	if v := tree.Visibility(tree.Resolve("#secret")); v != nav.Hidden {
		t.Errorf("child of hidden drawer: got %v, want Hidden", v)
	}
	if v := tree.Visibility(tree.Resolve("#box41")); v != nav.Visible {
		t.Errorf("box41: got %v, want Visible", v)
	}
}

func TestTree_MarkersShowInLayoutAndSelectors(t *testing.T) {
	tree := NewTree(mustLayout(t, boxesLayout))
	box := tree.Resolve("#box42")
	tree.SetMarker(box, "focused", true)

	if !tree.HasMarker("box42", "focused") {
		t.Error("expected marker")
	}
	if got := tree.Resolve(".focused"); got != box {
		t.Errorf("Resolve(.focused) = %v", got)
	}
	if el := tree.Layout().Find("box42"); el == nil || !el.HasClass("focused") {
		t.Errorf("exported layout should carry the marker class, got %+v", el)
	}

	tree.SetMarker(box, "focused", false)
	if tree.Resolve(".focused") != nil {
		t.Error("marker should be removed")
	}
}

func TestTree_DrivesEngine(t *testing.T) {
	tree := NewTree(mustLayout(t, boxesLayout))
	cfg := nav.DefaultConfig()
	cfg.Container = "#main"
	cfg.DefaultFocusedElement = "#box41"
	engine := nav.New(tree, nav.WithConfig(cfg))
	engine.Start()

	if got := len(engine.KnownElements()); got != 3 {
		t.Errorf("expected 3 known elements (hidden secret excluded), got %d", got)
	}
	if tree.Focused() != "box41" {
		t.Errorf("real focus: got %q", tree.Focused())
	}

	engine.MoveRight()
	if got := engine.Current().Key(); got != "#box44" {
		t.Fatalf("right from box41: got %s, want #box44", got)
	}
	engine.MoveDown()
	if got := engine.Current().Key(); got != "#box42" {
		t.Errorf("down override from box44: got %s, want #box42", got)
	}
	engine.Enter()
	if acts := tree.Activations(); len(acts) != 1 || acts[0] != "#box42" {
		t.Errorf("activations: got %v", acts)
	}
	if !tree.HasMarker("box42", "focused") || tree.HasMarker("box44", "focused") {
		t.Error("focused marker should follow focus")
	}
}

func TestTree_UpdatePublishesMutations(t *testing.T) {
	tree := NewTree(mustLayout(t, boxesLayout))
	cfg := nav.DefaultConfig()
	cfg.Container = "#main"
	cfg.DefaultFocusedElement = "#box44"
	engine := nav.New(tree, nav.WithConfig(cfg))
	engine.Start()
	if tree.Subscribers() != 1 {
		t.Fatalf("engine should subscribe, got %d subscribers", tree.Subscribers())
	}

	box41 := tree.Node("box41")
	next := mustLayout(t, `
elements:
  - id: main
    bounds: [0, 40, 300, 260]
    children:
      - id: box41
        bounds: [50, 250, 50, 50]
        attrs: {focusable: ""}
      - id: box42
        bounds: [75, 125, 50, 50]
        attrs: {focusable: ""}
      - id: box45
        bounds: [220, 75, 50, 50]
        attrs: {focusable: ""}
`)
	m := tree.Update(next)
	if len(m.Removed) != 5 {
		t.Errorf("expected header, box44, drawer, secret and outside removed, got %v", keys(m.Removed))
	}
	if len(m.Moved) != 1 || m.Moved[0] != box41 {
		t.Errorf("expected box41 moved, got %v", keys(m.Moved))
	}
	if tree.Node("box41") != box41 {
		t.Error("node identity should survive a reload")
	}

	known := keys(engine.KnownElements())
	if len(known) != 3 {
		t.Fatalf("known after update: %v", known)
	}
	if got := engine.Current(); got == nil || got.Key() != "#box41" {
		t.Errorf("focus should fall back to the first known element, got %v", got)
	}

	engine.Destroy()
	if tree.Subscribers() != 0 {
		t.Error("destroy should unsubscribe")
	}
}

const panelLayout = `
elements:
  - id: main
    bounds: [0, 0, 400, 300]
    children:
      - id: a
        bounds: [0, 0, 50, 50]
        attrs: {focusable: ""}
      - id: b
        bounds: [100, 0, 50, 50]
        attrs: {focusable: ""}
      - id: panel
        bounds: [0, 100, 400, 100]
        children:
          - id: c
            bounds: [0, 100, 50, 50]
            attrs: {focusable: ""}
`

func TestTree_UpdateHidingElementsMatchesRescan(t *testing.T) {
	tree := NewTree(mustLayout(t, panelLayout))
	cfg := nav.DefaultConfig()
	cfg.Container = "#main"
	cfg.DefaultFocusedElement = "#b"
	engine := nav.New(tree, nav.WithConfig(cfg))
	engine.Start()
	if got := keys(engine.KnownElements()); len(got) != 3 {
		t.Fatalf("known before update: %v", got)
	}

	hidden := mustLayout(t, `
elements:
  - id: main
    bounds: [0, 0, 400, 300]
    children:
      - id: a
        bounds: [0, 0, 50, 50]
        attrs: {focusable: ""}
      - id: b
        visibility: hidden
        bounds: [100, 0, 50, 50]
        attrs: {focusable: ""}
      - id: panel
        visibility: hidden
        bounds: [0, 100, 400, 100]
        children:
          - id: c
            bounds: [0, 100, 50, 50]
            attrs: {focusable: ""}
`)
	tree.Update(hidden)

	known := keys(engine.KnownElements())
	if len(known) != 1 || known[0] != "#a" {
		t.Errorf("known after hiding b and panel: %v, want [#a]", known)
	}
	if got := engine.Current(); got == nil || got.Key() != "#a" {
		t.Errorf("focus should leave the hidden element, got %v", got)
	}
	if tree.HasMarker("b", "focused") {
		t.Error("hidden element should lose the focused marker")
	}

	fresh := nav.New(NewTree(hidden), nav.WithConfig(cfg))
	fresh.Start()
	if want := keys(fresh.KnownElements()); len(want) != len(known) || want[0] != known[0] {
		t.Errorf("incremental update %v disagrees with rescan %v", known, want)
	}
}
