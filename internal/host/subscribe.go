package host

import (
	"sync"

	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
)

type subscribers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(nav.Mutation)
}

// Subscribe registers fn for mutations published by Update.
func (t *Tree) Subscribe(fn func(nav.Mutation)) (unsubscribe func()) {
	t.subs.mu.Lock()
	defer t.subs.mu.Unlock()
	if t.subs.fns == nil {
		t.subs.fns = make(map[int]func(nav.Mutation))
	}
	t.subs.nextID++
	id := t.subs.nextID
	t.subs.fns[id] = fn
	return func() {
		t.subs.mu.Lock()
		defer t.subs.mu.Unlock()
		delete(t.subs.fns, id)
	}
}

// Subscribers returns the number of live subscriptions.
func (t *Tree) Subscribers() int {
	t.subs.mu.Lock()
	defer t.subs.mu.Unlock()
	return len(t.subs.fns)
}

// Update replaces the layout and publishes the resulting mutation. Nothing
// is published when the layouts are equivalent.
func (t *Tree) Update(layout *model.Layout) nav.Mutation {
	m := t.Replace(layout)
	if len(m.Added) == 0 && len(m.Removed) == 0 && len(m.Moved) == 0 {
		return m
	}
	t.subs.mu.Lock()
	fns := make([]func(nav.Mutation), 0, len(t.subs.fns))
	for _, fn := range t.subs.fns {
		fns = append(fns, fn)
	}
	t.subs.mu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
	return m
}
