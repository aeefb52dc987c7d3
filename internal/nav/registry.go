package nav

import "github.com/mj1618/focusnav/internal/geometry"

// Entry is the registry's side table record for one host element. The host
// element itself is never modified.
type Entry struct {
	Element       Element
	Position      geometry.Position
	Overrides     Overrides
	Weights       map[geometry.Direction]WeightPreference
	Dynamic       bool
	CapturesFocus bool
}

// Weight returns the element's preference for d.
func (e *Entry) Weight(d geometry.Direction) WeightPreference {
	if e.Weights == nil {
		return PreferNone
	}
	return e.Weights[d]
}

// Registry is the ordered set of known elements. Entries are keyed by
// element identity; registering the same element twice replaces its entry
// in place.
type Registry struct {
	order   []Element
	entries map[Element]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Element]*Entry)}
}

// Put stores entry and reports whether the element was new.
func (r *Registry) Put(entry *Entry) bool {
	if _, ok := r.entries[entry.Element]; ok {
		r.entries[entry.Element] = entry
		return false
	}
	r.entries[entry.Element] = entry
	r.order = append(r.order, entry.Element)
	return true
}

// Remove deletes el and reports whether it was known.
func (r *Registry) Remove(el Element) bool {
	if _, ok := r.entries[el]; !ok {
		return false
	}
	delete(r.entries, el)
	for i, known := range r.order {
		if known == el {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the entry for el.
func (r *Registry) Get(el Element) (*Entry, bool) {
	e, ok := r.entries[el]
	return e, ok
}

// Contains reports whether el is registered.
func (r *Registry) Contains(el Element) bool {
	_, ok := r.entries[el]
	return ok
}

// Entries returns the entries in registration order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, el := range r.order {
		out = append(out, r.entries[el])
	}
	return out
}

// Elements returns the known elements in registration order.
func (r *Registry) Elements() []Element {
	out := make([]Element, len(r.order))
	copy(out, r.order)
	return out
}

// First returns the earliest registered element, or nil.
func (r *Registry) First() Element {
	if len(r.order) == 0 {
		return nil
	}
	return r.order[0]
}

// Len returns the number of known elements.
func (r *Registry) Len() int { return len(r.order) }

// Clear forgets every element.
func (r *Registry) Clear() {
	r.order = nil
	r.entries = make(map[Element]*Entry)
}
