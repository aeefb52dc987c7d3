package nav

import "github.com/mj1618/focusnav/internal/geometry"

// Element is an opaque handle into the host's element tree. Handles are
// compared by identity (==), so implementations must use comparable
// dynamic types, typically pointers.
type Element interface {
	// Key returns a printable identifier used in logs and results.
	Key() string
}

// Visibility is the host's answer to "can this element be seen right now".
type Visibility int

const (
	// Visible elements are registered and may be chosen as candidates.
	Visible Visibility = iota
	// Hidden elements are skipped at registration.
	Hidden
	// Conditional elements are hidden for now but may appear later. They are
	// registered as dynamic so their position is recomputed before each move.
	Conditional
)

// Host is the environment the engine navigates: it enumerates focusable
// elements and answers geometry, visibility and attribute queries.
type Host interface {
	// Query returns the elements carrying attribute within the container
	// scope. "document" (or "") means the whole tree.
	Query(container, attribute string) []Element
	// Resolve returns the element matching selector, or nil.
	Resolve(selector string) Element
	// Rect returns the element's bounding rectangle.
	Rect(el Element) geometry.Rect
	// Visibility reports whether the element is currently visible.
	Visibility(el Element) Visibility
	// Attr reads a string attribute.
	Attr(el Element, name string) (string, bool)
	// SetMarker adds or removes the focused marker class.
	SetMarker(el Element, class string, on bool)
}

// RealFocuser is implemented by hosts that can hand keyboard focus to an
// element. It is only used when Config.UseRealFocus is set.
type RealFocuser interface {
	Focus(el Element)
	Blur(el Element)
}

// Activator is implemented by hosts that can dispatch an activation
// (click-equivalent) to an element.
type Activator interface {
	Activate(el Element)
}

// Annotator is implemented by hosts that can display the debug score of a
// candidate next to it.
type Annotator interface {
	Annotate(el Element, text string)
}

// Mutation is a batch of host tree changes. Added and Removed include
// descendants of inserted or detached subtrees. Moved lists elements whose
// rectangle changed in place.
type Mutation struct {
	Added   []Element
	Removed []Element
	Moved   []Element
}

// MutationSource is implemented by hosts that push tree changes. Subscribe
// returns a function that stops delivery.
type MutationSource interface {
	Subscribe(fn func(Mutation)) (unsubscribe func())
}
