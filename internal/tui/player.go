// Package tui plays a navigation session in the terminal. Layout elements
// are drawn as boxes scaled to the screen and arrow keys drive the engine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
	"github.com/mj1618/focusnav/internal/session"
)

// Key codes delivered to the engine, matching the default keymap.
const (
	CodeLeft  = 37
	CodeUp    = 38
	CodeRight = 39
	CodeDown  = 40
	CodeEnter = 13
)

var (
	styleContainer = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCandidate = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDynamic   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleFocused   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus    = tcell.StyleDefault.Reverse(true)
)

// Player renders a session on a tcell screen and feeds it key events.
type Player struct {
	screen  tcell.Screen
	session *session.Session

	mu     sync.Mutex
	status string
}

// New creates a player. The caller owns the screen and must Init and Fini
// it.
func New(screen tcell.Screen, s *session.Session) *Player {
	return &Player{screen: screen, session: s}
}

// KeyCode translates a terminal key to an engine key code. Arrow keys,
// hjkl and wasd move; Enter activates.
func KeyCode(ev *tcell.EventKey) (int, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return CodeUp, true
	case tcell.KeyDown:
		return CodeDown, true
	case tcell.KeyLeft:
		return CodeLeft, true
	case tcell.KeyRight:
		return CodeRight, true
	case tcell.KeyEnter:
		return CodeEnter, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'w':
			return CodeUp, true
		case 'j', 's':
			return CodeDown, true
		case 'h', 'a':
			return CodeLeft, true
		case 'l', 'd':
			return CodeRight, true
		}
	}
	return 0, false
}

// Handle applies one event and redraws. It reports false when the player
// should stop.
func (p *Player) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		p.handleKey(ev)
	case *tcell.EventResize:
		p.screen.Sync()
	}
	p.Draw()
	return true
}

func (p *Player) handleKey(ev *tcell.EventKey) {
	engine := p.session.Engine
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case ' ':
			if engine.Locked() {
				engine.Unlock()
				p.setStatus("unlocked")
			} else {
				engine.Lock()
				p.setStatus("locked")
			}
			return
		case 'r':
			engine.Refresh()
			p.setStatus(fmt.Sprintf("refreshed: %d known", len(engine.KnownElements())))
			return
		}
	}
	code, ok := KeyCode(ev)
	if !ok {
		return
	}
	before := len(p.session.Tree.Activations())
	moved := engine.HandleKey(code)
	switch acts := p.session.Tree.Activations(); {
	case len(acts) > before:
		p.setStatus("activated " + acts[len(acts)-1])
	case !moved:
		p.setStatus("no move")
	default:
		p.setStatus("")
	}
}

func (p *Player) setStatus(s string) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// Status returns the last status message.
func (p *Player) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run draws the session and processes events until ctx is done or the user
// quits. Layout reloads redraw the screen.
func (p *Player) Run(ctx context.Context) error {
	unsubscribe := p.session.Tree.Subscribe(func(nav.Mutation) {
		p.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer unsubscribe()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !p.Handle(ev) {
				return nil
			}
		}
	}
}

// Draw renders the current layout and the status line.
func (p *Player) Draw() {
	p.screen.Clear()
	width, height := p.screen.Size()
	if width < 2 || height < 2 {
		p.screen.Show()
		return
	}

	layout := p.session.Tree.Layout()
	engine := p.session.Engine
	known := make(map[string]bool)
	for _, el := range engine.KnownElements() {
		known[el.Key()] = true
	}
	focused := ""
	if cur := engine.Current(); cur != nil {
		focused = cur.Key()
	}

	elements := visible(layout)
	v := newViewport(elements, width, height-1)
	var focusedEl *model.FlatElement
	for i := range elements {
		el := &elements[i]
		key := "#" + el.ID
		if key == focused {
			focusedEl = el
			continue
		}
		style := styleContainer
		if known[key] {
			style = styleCandidate
			if el.Visibility == model.Conditional {
				style = styleDynamic
			}
		}
		p.drawElement(v, *el, style)
	}
	if focusedEl != nil {
		p.drawElement(v, *focusedEl, styleFocused)
	}

	p.drawStatus(focused, width, height-1)
	p.screen.Show()
}

func (p *Player) drawElement(v viewport, el model.FlatElement, style tcell.Style) {
	x1, y1, x2, y2 := v.project(el.Bounds)
	drawBox(p.screen, x1, y1, x2, y2, style)

	label := el.Title
	if label == "" {
		label = "#" + el.ID
	}
	inner := x2 - x1 - 1
	if inner <= 0 {
		return
	}
	label = runewidth.Truncate(label, inner, "…")
	x := x1 + 1 + (inner-runewidth.StringWidth(label))/2
	writeText(p.screen, x, (y1+y2)/2, label, style)
}

func (p *Player) drawStatus(focused string, width, y int) {
	parts := []string{}
	if focused != "" {
		parts = append(parts, focused)
	} else {
		parts = append(parts, "no focus")
	}
	if p.session.Engine.Locked() {
		parts = append(parts, "LOCKED")
	}
	if status := p.Status(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, "arrows/hjkl move  enter activate  space lock  r refresh  q quit")
	line := runewidth.FillRight(runewidth.Truncate(" "+strings.Join(parts, " │ "), width, "…"), width)
	writeText(p.screen, 0, y, line, styleStatus)
}

func visible(layout *model.Layout) []model.FlatElement {
	var out []model.FlatElement
	var walk func(el model.Element)
	walk = func(el model.Element) {
		if el.Visibility == model.Hidden {
			return
		}
		out = append(out, el.Flat(""))
		for _, child := range el.Children {
			walk(child)
		}
	}
	if layout != nil {
		for _, el := range layout.Elements {
			walk(el)
		}
	}
	return out
}

// viewport maps layout units onto terminal cells.
type viewport struct {
	minX, minY     int
	scaleX, scaleY float64
}

func newViewport(elements []model.FlatElement, cols, rows int) viewport {
	v := viewport{scaleX: 1, scaleY: 1}
	if len(elements) == 0 {
		return v
	}
	maxX, maxY := 0, 0
	v.minX, v.minY = elements[0].Bounds[0], elements[0].Bounds[1]
	for _, el := range elements {
		b := el.Bounds
		v.minX = min(v.minX, b[0])
		v.minY = min(v.minY, b[1])
		maxX = max(maxX, b[0]+b[2])
		maxY = max(maxY, b[1]+b[3])
	}
	if w := maxX - v.minX; w > 0 {
		v.scaleX = float64(cols-1) / float64(w)
	}
	if h := maxY - v.minY; h > 0 {
		v.scaleY = float64(rows-1) / float64(h)
	}
	return v
}

func (v viewport) project(b [4]int) (x1, y1, x2, y2 int) {
	x1 = int(float64(b[0]-v.minX) * v.scaleX)
	y1 = int(float64(b[1]-v.minY) * v.scaleY)
	x2 = int(float64(b[0]+b[2]-v.minX) * v.scaleX)
	y2 = int(float64(b[1]+b[3]-v.minY) * v.scaleY)
	return x1, y1, x2, y2
}

func drawBox(screen tcell.Screen, x1, y1, x2, y2 int, style tcell.Style) {
	if x2 <= x1 || y2 <= y1 {
		screen.SetContent(x1, y1, '■', nil, style)
		return
	}
	for x := x1 + 1; x < x2; x++ {
		screen.SetContent(x, y1, '─', nil, style)
		screen.SetContent(x, y2, '─', nil, style)
	}
	for y := y1 + 1; y < y2; y++ {
		screen.SetContent(x1, y, '│', nil, style)
		screen.SetContent(x2, y, '│', nil, style)
	}
	screen.SetContent(x1, y1, '┌', nil, style)
	screen.SetContent(x2, y1, '┐', nil, style)
	screen.SetContent(x1, y2, '└', nil, style)
	screen.SetContent(x2, y2, '┘', nil, style)
}

func writeText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	offset := 0
	for _, ch := range text {
		width := runewidth.RuneWidth(ch)
		if width == 0 {
			continue
		}
		screen.SetContent(x+offset, y, ch, nil, style)
		offset += width
	}
}
