package server

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/focusnav/internal/session"
)

const gridLayout = `
name: grid
container: "#grid"
elements:
  - id: grid
    bounds: [0, 0, 300, 200]
    children:
      - {id: a, title: A, bounds: [0, 0, 100, 100], attrs: {focusable: ""}}
      - {id: b, title: B, bounds: [200, 0, 100, 100], attrs: {focusable: ""}}
      - {id: c, title: C, bounds: [0, 150, 100, 50], attrs: {focusable: ""}}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOCUSNAV_CONFIG", "")
	s := New(Config{})
	t.Cleanup(s.Store().CloseAll)
	return s
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	var v T
	if err := yaml.Unmarshal([]byte(text(t, res)), &v); err != nil {
		t.Fatalf("decode: %v\n%s", err, text(t, res))
	}
	return v
}

func load(t *testing.T, s *Server, name string) {
	t.Helper()
	res := call(t, s.handleLoad, map[string]any{"session": name, "layout": gridLayout})
	if res.IsError {
		t.Fatalf("load failed: %s", text(t, res))
	}
}

func TestLoad(t *testing.T) {
	s := newTestServer(t)
	res := call(t, s.handleLoad, map[string]any{"layout": gridLayout})
	if res.IsError {
		t.Fatal(text(t, res))
	}
	got := decode[LoadResult](t, res)
	if got.Session != DefaultSession || got.Layout != "grid" || got.Container != "#grid" {
		t.Errorf("load result: %+v", got)
	}
	if len(got.Known) != 3 {
		t.Errorf("known: got %d, want 3", len(got.Known))
	}
	// No default configured: the first input focuses the first element.
	if got.Focused != nil {
		t.Errorf("focused before input: %+v", got.Focused)
	}
}

func TestLoad_Errors(t *testing.T) {
	s := newTestServer(t)
	for _, args := range []map[string]any{
		{},
		{"path": "x.yaml", "layout": gridLayout},
		{"layout": "elements: [{id: ''}]"},
		{"path": filepath.Join(t.TempDir(), "missing.yaml")},
	} {
		if res := call(t, s.handleLoad, args); !res.IsError {
			t.Errorf("load(%v) should fail", args)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	s := newTestServer(t)
	path := filepath.Join(t.TempDir(), "grid.yaml")
	if err := os.WriteFile(path, []byte(gridLayout), 0644); err != nil {
		t.Fatal(err)
	}
	res := call(t, s.handleLoad, map[string]any{"session": "f", "path": path})
	if res.IsError {
		t.Fatal(text(t, res))
	}
	if names := s.Store().Names(); len(names) != 1 || names[0] != "f" {
		t.Errorf("names: %v", names)
	}
}

func TestMoveAndCurrent(t *testing.T) {
	s := newTestServer(t)
	load(t, s, DefaultSession)

	move := s.stepHandler("move")
	r := decode[session.StepResult](t, call(t, move, map[string]any{"direction": "right"}))
	if r.Focused == nil || r.Focused.ID != "a" {
		t.Fatalf("first input should focus a, got %+v", r.Focused)
	}
	r = decode[session.StepResult](t, call(t, move, map[string]any{"direction": "right"}))
	if !r.OK || !r.Moved || r.Focused.ID != "b" {
		t.Errorf("right: got %+v", r)
	}

	r = decode[session.StepResult](t, call(t, s.stepHandler("set-current"), map[string]any{"target": "#c"}))
	if r.Focused.ID != "c" {
		t.Errorf("set_current: got %+v", r.Focused)
	}
	r = decode[session.StepResult](t, call(t, s.stepHandler("current"), nil))
	if r.Focused.ID != "c" {
		t.Errorf("current: got %+v", r.Focused)
	}

	res := call(t, move, map[string]any{"direction": "diagonal"})
	if !res.IsError || !strings.Contains(text(t, res), "diagonal") {
		t.Errorf("invalid direction should fail: %s", text(t, res))
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t)
	res := call(t, s.stepHandler("move"), map[string]any{"session": "nope", "direction": "up"})
	if !res.IsError || !strings.Contains(text(t, res), "call load first") {
		t.Errorf("got %s", text(t, res))
	}
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t)
	load(t, s, DefaultSession)
	call(t, s.stepHandler("set-current"), map[string]any{"target": "#b"})

	next := strings.Replace(gridLayout, "      - {id: b, title: B, bounds: [200, 0, 100, 100], attrs: {focusable: \"\"}}\n", "", 1)
	next = strings.Replace(next, "[0, 150, 100, 50]", "[0, 120, 100, 50]", 1)
	res := call(t, s.handleUpdate, map[string]any{"layout": next})
	if res.IsError {
		t.Fatal(text(t, res))
	}
	got := decode[UpdateResult](t, res)
	if len(got.Diff.Removed) != 1 || got.Diff.Removed[0].ID != "b" {
		t.Errorf("removed: %+v", got.Diff.Removed)
	}
	if len(got.Diff.Moved) != 1 || got.Diff.Moved[0].ID != "c" {
		t.Errorf("moved: %+v", got.Diff.Moved)
	}
	if got.Known != 2 {
		t.Errorf("known: got %d, want 2", got.Known)
	}
	if got.Focused == nil || got.Focused.ID != "a" {
		t.Errorf("focus should fall back to a, got %+v", got.Focused)
	}
}

func TestDo(t *testing.T) {
	s := newTestServer(t)
	load(t, s, DefaultSession)

	steps := []any{
		map[string]any{"right": nil},
		map[string]any{"move": map[string]any{"direction": "right"}},
		map[string]any{"down": map[string]any{}},
	}
	res := call(t, s.handleDo, map[string]any{"steps": steps})
	got := decode[session.DoResult](t, res)
	if !got.OK || got.Completed != 3 {
		t.Fatalf("do: %s", text(t, res))
	}
	// b is at the top right; down reaches c on the left.
	if got.Focused == nil || got.Focused.ID != "c" {
		t.Errorf("final focus: %+v", got.Focused)
	}

	res = call(t, s.handleDo, map[string]any{"steps": []any{map[string]any{"fly": nil}}})
	if !res.IsError {
		t.Error("unknown step should fail the batch")
	}
	for _, bad := range []any{nil, "x", []any{}, []any{"x"}, []any{map[string]any{"a": nil, "b": nil}}} {
		if _, err := parseSteps(bad); err == nil {
			t.Errorf("parseSteps(%v) should fail", bad)
		}
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	load(t, s, DefaultSession)
	res := call(t, s.handleRender, map[string]any{"labels": "coords", "scale": 0.5})
	if res.IsError {
		t.Fatal(text(t, res))
	}
	img, ok := res.Content[0].(mcp.ImageContent)
	if !ok {
		t.Fatalf("expected image content, got %T", res.Content[0])
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		t.Fatal(err)
	}
	if img.MIMEType != "image/png" || !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("expected a PNG")
	}

	if res := call(t, s.handleRender, map[string]any{"labels": "bogus"}); !res.IsError {
		t.Error("bad label mode should fail")
	}
}

func TestSessionsAndClose(t *testing.T) {
	s := newTestServer(t)
	load(t, s, "one")
	load(t, s, "two")

	got := decode[map[string][]string](t, call(t, s.handleSessions, nil))
	if strings.Join(got["sessions"], ",") != "one,two" {
		t.Errorf("sessions: %v", got)
	}
	if res := call(t, s.handleClose, map[string]any{"session": "one"}); res.IsError {
		t.Error(text(t, res))
	}
	if res := call(t, s.handleClose, map[string]any{"session": "one"}); !res.IsError {
		t.Error("closing twice should fail")
	}
}

func TestServe_BadTransport(t *testing.T) {
	s := New(Config{Transport: "carrier-pigeon"})
	if err := s.Serve(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestSweep(t *testing.T) {
	s := New(Config{SessionTTL: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		s.sweep(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop on cancel")
	}
}
