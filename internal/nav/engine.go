// Package nav implements directional focus navigation over a host element
// tree: a registry of focusable elements, a geometric candidate scorer and
// the focus state machine that ties them to input.
package nav

import (
	"log/slog"
	"sync"

	"github.com/mj1618/focusnav/internal/geometry"
)

// Engine owns the focus state for one host. All methods are safe for
// concurrent use. Listeners run after the engine's lock is released, so a
// listener may call back into the engine.
type Engine struct {
	mu     sync.Mutex
	host   Host
	cfg    Config
	logger *slog.Logger

	registry *Registry
	current  Element
	locked   bool
	started  bool

	unsubscribe func()
	lastScores  []Score

	listeners map[EventType][]listenerEntry
	nextID    int
	pending   []Event
}

// New returns an engine for host using the default configuration.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:      host,
		cfg:       DefaultConfig(),
		logger:    slog.New(slog.DiscardHandler),
		registry:  NewRegistry(),
		listeners: make(map[EventType][]listenerEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configure replaces the configuration. Empty attribute names and a nil
// keymap take their defaults. Calling Start again applies a changed
// container or focusable attribute to the registry.
func (e *Engine) Configure(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg.normalize()
	e.logger.Debug("configured", "container", e.cfg.Container, "debug", e.cfg.Debug)
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.clone()
}

// Container returns the active container scope.
func (e *Engine) Container() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Container
}

// Start focuses the configured default element, registers every focusable
// element in the container and, when enabled and supported by the host,
// subscribes to tree mutations. Starting twice replaces the previous
// subscription.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.cfg.DefaultFocusedElement != "" {
		e.setCurrent(e.host.Resolve(e.cfg.DefaultFocusedElement), newCallOptions(nil))
	}
	e.refresh()
	e.started = true
	watch := e.cfg.WatchDomMutations
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)

	if !watch {
		return
	}
	source, ok := e.host.(MutationSource)
	if !ok {
		e.logger.Debug("host does not publish mutations")
		return
	}
	unsubscribe := source.Subscribe(e.ApplyMutation)
	e.mu.Lock()
	if e.started && e.unsubscribe == nil {
		e.unsubscribe = unsubscribe
		unsubscribe = nil
	}
	e.mu.Unlock()
	if unsubscribe != nil {
		// Destroyed or restarted while subscribing.
		unsubscribe()
	}
}

// Refresh discards the registry and rebuilds it from the container.
func (e *Engine) Refresh() {
	e.mu.Lock()
	e.refresh()
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
}

func (e *Engine) refresh() {
	e.registry.Clear()
	for _, el := range e.host.Query(e.cfg.Container, e.cfg.FocusableAttribute) {
		e.register(el)
	}
	e.logger.Debug("registry rebuilt", "known", e.registry.Len())
}

// Destroy stops mutation delivery and resets the engine to its initial
// state: no focus, empty registry, unlocked and default configuration.
// Listeners stay attached.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.registry.Clear()
	e.current = nil
	e.locked = false
	e.started = false
	e.lastScores = nil
	e.pending = nil
	e.cfg = DefaultConfig()
	e.logger.Debug("destroyed")
}

// Register adds el to the registry. Hidden elements are ignored, and a
// known element that has become hidden is unregistered. Conditionally
// visible ones are tracked as dynamic. An element carrying
// the capture attribute takes focus. It reports whether el is now known.
func (e *Engine) Register(el Element) bool {
	e.mu.Lock()
	ok := e.register(el)
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
	return ok
}

func (e *Engine) register(el Element) bool {
	if el == nil {
		return false
	}
	vis := e.host.Visibility(el)
	if vis == Hidden {
		e.logger.Debug("skipping hidden element", "element", el.Key())
		if e.registry.Contains(el) {
			e.unregister(el)
		}
		return false
	}
	entry := e.describe(el)
	if vis == Conditional {
		entry.Dynamic = true
	}
	e.registry.Put(entry)
	if entry.CapturesFocus {
		e.setCurrent(el, newCallOptions(nil))
	}
	return true
}

// describe reads an element's geometry and attributes into a fresh entry.
func (e *Engine) describe(el Element) *Entry {
	entry := &Entry{
		Element:  el,
		Position: geometry.ComputePosition(e.host.Rect(el)),
	}
	e.readAttributes(entry)
	_, entry.Dynamic = e.host.Attr(el, e.cfg.DynamicPositionAttribute)
	_, entry.CapturesFocus = e.host.Attr(el, e.cfg.CaptureFocusAttribute)
	return entry
}

// readAttributes refreshes the override and weight preferences of entry.
func (e *Engine) readAttributes(entry *Entry) {
	entry.Overrides = nil
	if v, ok := e.host.Attr(entry.Element, e.cfg.OverrideDirectionAttribute); ok {
		entry.Overrides = ParseOverrides(v)
	}
	entry.Weights = nil
	for _, d := range geometry.Axis {
		v, ok := e.host.Attr(entry.Element, weightAttribute(e.cfg.WeightOverrideAttribute, d))
		if !ok {
			continue
		}
		if pref := ParseWeightPreference(v); pref != PreferNone {
			if entry.Weights == nil {
				entry.Weights = make(map[geometry.Direction]WeightPreference)
			}
			entry.Weights[d] = pref
		}
	}
}

// Unregister removes el. If el held focus, focus falls back to the default
// element, then to the first known element, and is cleared when neither
// exists.
func (e *Engine) Unregister(el Element) bool {
	e.mu.Lock()
	ok := e.unregister(el)
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
	return ok
}

func (e *Engine) unregister(el Element) bool {
	if el == nil || !e.registry.Remove(el) {
		return false
	}
	if el == e.current {
		e.fallback(el)
	}
	return true
}

func (e *Engine) fallback(removed Element) {
	var target Element
	if e.cfg.DefaultFocusedElement != "" {
		target = e.host.Resolve(e.cfg.DefaultFocusedElement)
	}
	if target == nil || target == removed {
		target = e.registry.First()
	}
	if target == nil {
		e.logger.Debug("focus cleared", "element", removed.Key())
		e.host.SetMarker(removed, e.cfg.FocusedClass, false)
		e.current = nil
		return
	}
	e.setCurrent(target, newCallOptions(nil))
}

// ApplyMutation updates the registry from a batch of host tree changes:
// removed elements are unregistered, added elements carrying the focusable
// attribute inside the container are registered and moved elements get a
// fresh position. A known element reported as added again is re-read, and
// dropped if it lost the focusable attribute, left the container or became
// hidden.
func (e *Engine) ApplyMutation(m Mutation) {
	e.mu.Lock()
	for _, el := range m.Removed {
		e.unregister(el)
	}
	if len(m.Added) > 0 {
		inScope := make(map[Element]bool)
		for _, el := range e.host.Query(e.cfg.Container, e.cfg.FocusableAttribute) {
			inScope[el] = true
		}
		for _, el := range m.Added {
			if inScope[el] {
				e.register(el)
			} else if e.registry.Contains(el) {
				e.unregister(el)
			}
		}
		// A changed ancestor can hide descendants that were not reported.
		for _, el := range e.registry.Elements() {
			if e.host.Visibility(el) == Hidden {
				e.unregister(el)
			}
		}
	}
	for _, el := range m.Moved {
		if entry, ok := e.registry.Get(el); ok {
			entry.Position = geometry.ComputePosition(e.host.Rect(el))
		}
	}
	e.logger.Debug("mutation applied",
		"added", len(m.Added), "removed", len(m.Removed), "moved", len(m.Moved),
		"known", e.registry.Len())
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
}

// SetCurrent moves focus to el. It is a no-op when el is nil or already
// focused. It reports whether focus changed.
func (e *Engine) SetCurrent(el Element, opts ...CallOption) bool {
	e.mu.Lock()
	changed := e.setCurrent(el, newCallOptions(opts))
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
	return changed
}

// SetCurrentSelector resolves selector through the host and focuses the
// result. An unresolved selector is a no-op.
func (e *Engine) SetCurrentSelector(selector string, opts ...CallOption) bool {
	e.mu.Lock()
	changed := e.setCurrent(e.host.Resolve(selector), newCallOptions(opts))
	events := e.drain()
	e.mu.Unlock()
	e.dispatch(events)
	return changed
}

func (e *Engine) setCurrent(target Element, o callOptions) bool {
	if target == nil || target == e.current {
		return false
	}
	prev := e.current
	class := e.cfg.FocusedClass
	focuser, realFocus := e.host.(RealFocuser)
	realFocus = realFocus && e.cfg.UseRealFocus

	if prev != nil {
		e.emit(o, Event{Type: EventLosingFocus, Target: prev})
		e.host.SetMarker(prev, class, false)
		if realFocus {
			focuser.Blur(prev)
		}
		e.emit(o, Event{Type: EventFocusLost, Target: prev})
	}

	e.emit(o, Event{Type: EventGainingFocus, Target: target})
	e.host.SetMarker(target, class, true)
	if realFocus {
		focuser.Focus(target)
	}
	e.emit(o, Event{Type: EventFocusGained, Target: target})

	e.current = target
	e.emit(o, Event{Type: EventFocusMoved, Target: target, Direction: o.direction, From: prev, To: target})

	from := ""
	if prev != nil {
		from = prev.Key()
	}
	e.logger.Debug("focus moved", "from", from, "to", target.Key(), "direction", o.direction)
	return true
}

// Current returns the focused element, or nil.
func (e *Engine) Current() Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// KnownElements returns the registered elements in registration order.
func (e *Engine) KnownElements() []Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Elements()
}

// Entries returns copies of the registry entries in registration order.
func (e *Engine) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.registry.Entries()
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[i] = *entry
	}
	return out
}

// Lock makes every move a no-op until Unlock.
func (e *Engine) Lock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locked = true
}

// Unlock re-enables moves.
func (e *Engine) Unlock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locked = false
}

// Locked reports whether moves are suppressed.
func (e *Engine) Locked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

// LastScores returns the candidate table of the most recent scored move.
// It is only recorded in debug mode.
func (e *Engine) LastScores() []Score {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Score, len(e.lastScores))
	copy(out, e.lastScores)
	return out
}

// On attaches a listener for one event type. The returned function detaches it.
func (e *Engine) On(t EventType, fn Listener) (off func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[t] = append(e.listeners[t], listenerEntry{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		list := e.listeners[t]
		for i, l := range list {
			if l.id == id {
				e.listeners[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) emit(o callOptions, ev Event) {
	if !o.events {
		return
	}
	e.pending = append(e.pending, ev)
}

// drain hands back the queued events. Callers hold the lock.
func (e *Engine) drain() []Event {
	if len(e.pending) == 0 {
		return nil
	}
	events := e.pending
	e.pending = nil
	return events
}

// dispatch delivers events in order. Callers must not hold the lock.
func (e *Engine) dispatch(events []Event) {
	for _, ev := range events {
		e.mu.Lock()
		list := make([]listenerEntry, len(e.listeners[ev.Type]))
		copy(list, e.listeners[ev.Type])
		e.mu.Unlock()
		for _, l := range list {
			l.fn(ev)
		}
	}
}
