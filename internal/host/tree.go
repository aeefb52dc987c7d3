// Package host adapts layout files to the navigation engine: Tree answers
// the engine's geometry and attribute queries over an element tree and
// records the focus side effects, Watcher turns file edits into mutations.
package host

import (
	"sync"

	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
)

// Node is the stable handle for one layout element. Nodes survive layout
// reloads as long as the element keeps its ID.
type Node struct {
	id       string
	el       model.Element // Children are held in children, not here
	parent   *Node
	children []*Node
}

// Key returns the node's selector, "#id".
func (n *Node) Key() string { return "#" + n.id }

// ID returns the layout element ID.
func (n *Node) ID() string { return n.id }

// Tree is an in-memory host backed by a layout. It is safe for concurrent use.
type Tree struct {
	mu      sync.Mutex
	layout  *model.Layout
	roots   []*Node
	order   []*Node // document order
	byID    map[string]*Node
	markers map[*Node]map[string]bool

	focused     *Node
	activations []string
	labels      map[string]string

	subs subscribers
}

// NewTree builds a host over layout.
func NewTree(layout *model.Layout) *Tree {
	t := &Tree{
		markers: make(map[*Node]map[string]bool),
		labels:  make(map[string]string),
	}
	t.build(layout, nil)
	return t
}

func (t *Tree) build(layout *model.Layout, reuse map[string]*Node) {
	if layout == nil {
		layout = &model.Layout{}
	}
	t.layout = layout
	t.roots = nil
	t.order = nil
	t.byID = make(map[string]*Node)
	for _, el := range layout.Elements {
		t.roots = append(t.roots, t.buildNode(el, nil, reuse))
	}
}

func (t *Tree) buildNode(el model.Element, parent *Node, reuse map[string]*Node) *Node {
	n, ok := reuse[el.ID]
	if !ok {
		n = &Node{id: el.ID}
	}
	n.parent = parent
	n.children = nil
	n.el = el
	n.el.Children = nil
	t.byID[el.ID] = n
	t.order = append(t.order, n)
	for _, child := range el.Children {
		n.children = append(n.children, t.buildNode(child, n, reuse))
	}
	return n
}

// Replace swaps in a new layout and returns the mutation the engine needs to
// catch up. Elements are matched by ID, so handles held by the engine stay
// valid. Elements whose properties changed are reported as added so the
// engine re-reads them.
func (t *Tree) Replace(layout *model.Layout) nav.Mutation {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := model.FlattenElements(t.layout.Elements)
	old := t.byID
	t.build(layout, old)
	diff := model.DiffLayouts(prev, model.FlattenElements(t.layout.Elements))

	var m nav.Mutation
	for _, f := range diff.Added {
		m.Added = append(m.Added, t.byID[f.ID])
	}
	for _, c := range diff.Changed {
		m.Added = append(m.Added, t.byID[c.ID])
	}
	for _, f := range diff.Moved {
		m.Moved = append(m.Moved, t.byID[f.ID])
	}
	for _, f := range diff.Removed {
		n := old[f.ID]
		delete(t.markers, n)
		if t.focused == n {
			t.focused = nil
		}
		m.Removed = append(m.Removed, n)
	}
	return m
}

// Layout returns the current layout with the recorded marker classes folded
// into each element's class list.
func (t *Tree) Layout() *model.Layout {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := *t.layout
	out.Elements = make([]model.Element, len(t.roots))
	for i, n := range t.roots {
		out.Elements[i] = t.export(n)
	}
	return &out
}

func (t *Tree) export(n *Node) model.Element {
	el := n.el
	for class, on := range t.markers[n] {
		if on && !el.HasClass(class) {
			if el.Class == "" {
				el.Class = class
			} else {
				el.Class += " " + class
			}
		}
	}
	for _, child := range n.children {
		el.Children = append(el.Children, t.export(child))
	}
	return el
}

// Source returns the layout as last loaded, without marker classes.
func (t *Tree) Source() *model.Layout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.layout
}

// Describe returns the layout element behind a handle, without children.
func (t *Tree) Describe(el nav.Element) (model.Element, bool) {
	n, ok := el.(*Node)
	if !ok || n == nil {
		return model.Element{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return n.el, true
}

// Node returns the handle for id, or nil.
func (t *Tree) Node(id string) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byID[id]
}

// Query returns the nodes carrying attribute inside container, in document
// order. The container itself is excluded, as with a DOM subtree query.
func (t *Tree) Query(container, attribute string) []nav.Element {
	t.mu.Lock()
	defer t.mu.Unlock()

	scope := t.order
	if container != "" && container != nav.DocumentContainer {
		root := t.resolve(container)
		if root == nil {
			return nil
		}
		scope = nil
		for _, child := range root.children {
			scope = appendSubtree(scope, child)
		}
	}

	var out []nav.Element
	for _, n := range scope {
		if _, ok := n.el.Attrs[attribute]; ok {
			out = append(out, n)
		}
	}
	return out
}

func appendSubtree(dst []*Node, n *Node) []*Node {
	dst = append(dst, n)
	for _, child := range n.children {
		dst = appendSubtree(dst, child)
	}
	return dst
}

// Resolve returns the first node in document order matching selector.
func (t *Tree) Resolve(selector string) nav.Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := t.resolve(selector); n != nil {
		return n
	}
	return nil
}

func (t *Tree) resolve(selector string) *Node {
	sel, err := model.ParseSelector(selector)
	if err != nil {
		return nil
	}
	for _, n := range t.order {
		if t.matches(sel, n) {
			return n
		}
	}
	return nil
}

// matches checks sel against the node including its marker classes.
func (t *Tree) matches(sel model.Selector, n *Node) bool {
	el := n.el
	for class, on := range t.markers[n] {
		if on {
			el.Class += " " + class
		}
	}
	return sel.Matches(el)
}

// Rect returns the node's bounds.
func (t *Tree) Rect(el nav.Element) geometry.Rect {
	n, ok := el.(*Node)
	if !ok {
		return geometry.Rect{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return n.el.Rect()
}

// Visibility walks up the ancestors: a hidden ancestor hides the node, a
// conditional one makes it conditional.
func (t *Tree) Visibility(el nav.Element) nav.Visibility {
	n, ok := el.(*Node)
	if !ok {
		return nav.Hidden
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	vis := nav.Visible
	for cur := n; cur != nil; cur = cur.parent {
		switch cur.el.Visibility {
		case model.Hidden:
			return nav.Hidden
		case model.Conditional:
			vis = nav.Conditional
		}
	}
	return vis
}

// Attr reads an element attribute.
func (t *Tree) Attr(el nav.Element, name string) (string, bool) {
	n, ok := el.(*Node)
	if !ok {
		return "", false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return n.el.Attr(name)
}

// SetMarker adds or removes a marker class.
func (t *Tree) SetMarker(el nav.Element, class string, on bool) {
	n, ok := el.(*Node)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.markers[n] == nil {
		t.markers[n] = make(map[string]bool)
	}
	t.markers[n][class] = on
}

// HasMarker reports whether the element with id carries marker class.
func (t *Tree) HasMarker(id, class string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.byID[id]
	return n != nil && t.markers[n][class]
}

// Focus records real focus.
func (t *Tree) Focus(el nav.Element) {
	n, _ := el.(*Node)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused = n
}

// Blur drops real focus if el holds it.
func (t *Tree) Blur(el nav.Element) {
	n, _ := el.(*Node)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.focused == n {
		t.focused = nil
	}
}

// Focused returns the ID of the element holding real focus, or "".
func (t *Tree) Focused() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.focused == nil {
		return ""
	}
	return t.focused.id
}

// Activate records an activation.
func (t *Tree) Activate(el nav.Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activations = append(t.activations, el.Key())
}

// Activations returns the keys of activated elements, oldest first.
func (t *Tree) Activations() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.activations))
	copy(out, t.activations)
	return out
}

// Annotate stores a debug label for el.
func (t *Tree) Annotate(el nav.Element, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.labels[el.Key()] = text
}

// Labels returns the debug labels keyed by element key.
func (t *Tree) Labels() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.labels))
	for k, v := range t.labels {
		out[k] = v
	}
	return out
}

// ClearLabels drops every debug label.
func (t *Tree) ClearLabels() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.labels = make(map[string]string)
}
