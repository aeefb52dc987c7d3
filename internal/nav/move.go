package nav

import "github.com/mj1618/focusnav/internal/geometry"

// Move handles one navigation request and reports whether focus changed.
//
// A locked engine ignores every request. Without a focused element the
// request only establishes default focus. Enter activates the focused
// element. A spatial move first honours the focused element's override for
// that direction, then falls back to scoring the registered candidates.
func (e *Engine) Move(d geometry.Direction, opts ...CallOption) bool {
	e.mu.Lock()
	moved := e.move(d, opts)
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
	return moved
}

// MoveUp is Move(geometry.Up, opts...).
func (e *Engine) MoveUp(opts ...CallOption) bool { return e.Move(geometry.Up, opts...) }

// MoveDown is Move(geometry.Down, opts...).
func (e *Engine) MoveDown(opts ...CallOption) bool { return e.Move(geometry.Down, opts...) }

// MoveLeft is Move(geometry.Left, opts...).
func (e *Engine) MoveLeft(opts ...CallOption) bool { return e.Move(geometry.Left, opts...) }

// MoveRight is Move(geometry.Right, opts...).
func (e *Engine) MoveRight(opts ...CallOption) bool { return e.Move(geometry.Right, opts...) }

// Enter activates the focused element.
func (e *Engine) Enter(opts ...CallOption) bool { return e.Move(geometry.Enter, opts...) }

// HandleKey translates a keycode through the keymap. Unmapped keys are
// ignored and report false.
func (e *Engine) HandleKey(code int) bool {
	e.mu.Lock()
	d, ok := e.cfg.Keymap[code]
	e.mu.Unlock()
	if !ok {
		return false
	}
	return e.Move(d)
}

func (e *Engine) move(d geometry.Direction, opts []CallOption) bool {
	if e.locked {
		e.logger.Debug("move ignored while locked", "direction", d)
		return false
	}
	if !d.IsSpatial() && d != geometry.Enter {
		return false
	}

	e.recomputeDynamic()

	if e.current == nil {
		return e.setDefaultFocus(newCallOptions(opts))
	}
	if d == geometry.Enter {
		e.activate()
		return false
	}

	o := newCallOptions(append([]CallOption{WithDirection(d)}, opts...))
	current := e.currentEntry()

	switch ov := current.Overrides.For(d); ov.Kind {
	case OverrideSkip:
		e.logger.Debug("move skipped by override", "element", current.Element.Key(), "direction", d)
		return false
	case OverrideTarget:
		return e.setCurrent(e.host.Resolve(ov.Target), o)
	}

	best, ok := e.bestCandidate(current, d)
	if !ok {
		e.logger.Debug("no candidate", "element", current.Element.Key(), "direction", d)
		return false
	}
	return e.setCurrent(best.Element, o)
}

// setDefaultFocus focuses the configured default element, or the first
// known element when none is configured or it does not resolve.
func (e *Engine) setDefaultFocus(o callOptions) bool {
	var target Element
	if e.cfg.DefaultFocusedElement != "" {
		target = e.host.Resolve(e.cfg.DefaultFocusedElement)
	}
	if target == nil {
		target = e.registry.First()
	}
	return e.setCurrent(target, o)
}

func (e *Engine) activate() {
	activator, ok := e.host.(Activator)
	if !ok {
		return
	}
	e.logger.Debug("activate", "element", e.current.Key())
	activator.Activate(e.current)
}

func (e *Engine) recomputeDynamic() {
	for _, entry := range e.registry.Entries() {
		if entry.Dynamic {
			entry.Position = geometry.ComputePosition(e.host.Rect(entry.Element))
		}
	}
}

// currentEntry returns the registry entry of the focused element with its
// overrides re-read from the host. A focused element that is not registered
// gets a transient entry.
func (e *Engine) currentEntry() *Entry {
	entry, ok := e.registry.Get(e.current)
	if !ok {
		return e.describe(e.current)
	}
	e.readAttributes(entry)
	return entry
}

func (e *Engine) bestCandidate(current *Entry, d geometry.Direction) (Score, bool) {
	var visible []*Entry
	for _, c := range FindCandidates(current, e.registry.Entries(), d) {
		if e.host.Visibility(c.Element) == Visible {
			visible = append(visible, c)
		}
	}

	pref := current.Weight(d)
	azimuthWeight, distanceWeight := Weights(e.cfg, pref)
	scores := ScoreCandidates(current.Position, visible, d, azimuthWeight, distanceWeight)

	if e.cfg.Debug {
		e.lastScores = scores
		if annotator, ok := e.host.(Annotator); ok {
			for _, s := range scores {
				annotator.Annotate(s.Element, s.Label())
			}
		}
		for _, s := range scores {
			e.logger.Debug("candidate", "element", s.Key, "distance", s.Distance, "azimuth", s.Azimuth, "weighted", s.Weighted)
		}
	}

	return SelectBest(scores, pref != PreferDistance)
}
