// Package session bundles a layout host with a navigation engine and runs
// scripted steps against it. The CLI, the terminal player and the MCP
// server all drive the engine through a Session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mj1618/focusnav/internal/config"
	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/host"
	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
)

// ElementInfo is the printable summary of an element.
type ElementInfo struct {
	ID     string `yaml:"id"              json:"id"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Bounds [4]int `yaml:"bounds"          json:"bounds"`
}

// Transition is one recorded focus move.
type Transition struct {
	Direction geometry.Direction `yaml:"direction,omitempty" json:"direction,omitempty"`
	From      string             `yaml:"from,omitempty"      json:"from,omitempty"`
	To        string             `yaml:"to"                  json:"to"`
}

// Session is a layout host plus the engine navigating it.
type Session struct {
	Name   string
	Path   string // layout file, empty for in-memory layouts
	Tree   *host.Tree
	Engine *nav.Engine

	logger *slog.Logger

	mu    sync.Mutex
	trail []Transition
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session and engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithName names the session.
func WithName(name string) Option {
	return func(s *Session) { s.Name = name }
}

// New builds a session over layout and starts the engine.
func New(layout *model.Layout, cfg nav.Config, opts ...Option) *Session {
	s := &Session{
		Tree:   host.NewTree(layout),
		logger: slog.New(slog.DiscardHandler),
	}
	if layout != nil {
		s.Name = layout.Name
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("session", s.Name))
	s.Engine = nav.New(s.Tree, nav.WithConfig(cfg), nav.WithLogger(s.logger.With(slog.String("component", "engine"))))
	s.Engine.On(nav.EventFocusMoved, s.record)
	s.Engine.Start()
	return s
}

// Open loads a layout file and its configuration and starts a session. The
// layout's container and config block are merged over the file at
// configPath.
func Open(path, configPath string, opts ...Option) (*Session, error) {
	layout, err := model.LoadLayout(path)
	if err != nil {
		return nil, err
	}
	cfg, err := LayoutConfig(layout, configPath)
	if err != nil {
		return nil, err
	}
	s := New(layout, cfg, opts...)
	s.Path = path
	return s, nil
}

// LayoutConfig loads the configuration for layout.
func LayoutConfig(layout *model.Layout, configPath string) (nav.Config, error) {
	var overlays []map[string]any
	if layout.Container != "" {
		overlays = append(overlays, map[string]any{"container": layout.Container})
	}
	overlays = append(overlays, layout.Config)
	cfg, err := config.Load(configPath, overlays...)
	if err != nil {
		return nav.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Watch reloads the layout file on change until ctx is done. It requires a
// session opened from a file.
func (s *Session) Watch(ctx context.Context, opts ...host.WatcherOption) error {
	if s.Path == "" {
		return fmt.Errorf("session %q has no layout file to watch", s.Name)
	}
	opts = append([]host.WatcherOption{host.WithWatchLogger(s.logger.With(slog.String("component", "watcher")))}, opts...)
	return host.NewWatcher(s.Path, s.Tree, opts...).Run(ctx)
}

// Close stops the engine.
func (s *Session) Close() {
	s.Engine.Destroy()
}

func (s *Session) record(ev nav.Event) {
	t := Transition{Direction: ev.Direction, To: ev.To.Key()}
	if ev.From != nil {
		t.From = ev.From.Key()
	}
	s.mu.Lock()
	s.trail = append(s.trail, t)
	s.mu.Unlock()
}

// Trail returns the focus transitions recorded since the session started or
// the trail was last reset.
func (s *Session) Trail() []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transition, len(s.trail))
	copy(out, s.trail)
	return out
}

// ResetTrail forgets the recorded transitions.
func (s *Session) ResetTrail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trail = nil
}

// Info summarises el, or returns nil for a nil element.
func (s *Session) Info(el nav.Element) *ElementInfo {
	if el == nil {
		return nil
	}
	m, ok := s.Tree.Describe(el)
	if !ok {
		return &ElementInfo{ID: el.Key()}
	}
	return &ElementInfo{ID: m.ID, Title: m.Title, Bounds: m.Bounds}
}

// Focused summarises the focused element.
func (s *Session) Focused() *ElementInfo {
	return s.Info(s.Engine.Current())
}

// Known summarises the registered elements in registration order.
func (s *Session) Known() []ElementInfo {
	known := s.Engine.KnownElements()
	out := make([]ElementInfo, 0, len(known))
	for _, el := range known {
		out = append(out, *s.Info(el))
	}
	return out
}

// Resolve finds an element by selector.
func (s *Session) Resolve(selector string) (nav.Element, error) {
	el := s.Tree.Resolve(selector)
	if el == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrElementNotFound, selector)
	}
	return el, nil
}
