package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/output"
)

const gridLayout = `
name: grid
container: "#grid"
elements:
  - id: grid
    bounds: [0, 0, 400, 300]
    children:
      - id: a
        title: A
        bounds: [0, 0, 100, 50]
        attrs: {focusable: ""}
      - id: b
        title: B
        bounds: [200, 0, 100, 50]
        attrs: {focusable: ""}
      - id: c
        title: C
        bounds: [0, 150, 100, 50]
        attrs: {focusable: ""}
      - id: label
        title: Not focusable
        bounds: [200, 150, 100, 50]
`

// writeLayout writes content to a temp layout file. HOME points at the
// temp dir so no user config file leaks into the run.
func writeLayout(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("FOCUSNAV_CONFIG", "")
	path := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// captureJSON runs fn with stdout redirected and JSON output selected, then
// decodes what was printed into v.
func captureJSON(t *testing.T, v interface{}, fn func() error) error {
	t.Helper()
	prevFormat := output.OutputFormat
	output.OutputFormat = output.FormatJSON
	defer func() { output.OutputFormat = prevFormat }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	runErr := fn()
	w.Close()
	os.Stdout = stdout
	data := <-done

	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, v); err != nil {
			t.Fatalf("decode output: %v\n%s", err, data)
		}
	}
	return runErr
}

// sessionCmd returns a throwaway command carrying the session flags.
func sessionCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addSessionFlags(c)
	for k, v := range flags {
		if err := c.Flags().Set(k, v); err != nil {
			t.Fatalf("set --%s: %v", k, err)
		}
	}
	return c
}

func TestParseDirections(t *testing.T) {
	got, err := parseDirections([]string{"right,right", " down ", "enter"})
	if err != nil {
		t.Fatal(err)
	}
	want := []geometry.Direction{geometry.Right, geometry.Right, geometry.Down, geometry.Enter}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("direction %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseDirections_Errors(t *testing.T) {
	if _, err := parseDirections([]string{"sideways"}); err == nil {
		t.Error("expected error for unknown direction")
	}
	if _, err := parseDirections([]string{",", ""}); err == nil {
		t.Error("expected error when no direction is given")
	}
}

func TestReadInput(t *testing.T) {
	data, err := readInput("", strings.NewReader("- down: {}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "- down: {}\n" {
		t.Errorf("stdin: got %q", data)
	}

	path := filepath.Join(t.TempDir(), "steps.yaml")
	if err := os.WriteFile(path, []byte("- up: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err = readInput(path, strings.NewReader("ignored"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "- up: {}\n" {
		t.Errorf("file: got %q", data)
	}

	if _, err := readInput(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseBBox(t *testing.T) {
	b, err := parseBBox("10, 20,30,40")
	if err != nil {
		t.Fatal(err)
	}
	if b != [4]int{10, 20, 30, 40} {
		t.Errorf("got %v", b)
	}
	for _, bad := range []string{"1,2,3", "a,b,c,d", ""} {
		if _, err := parseBBox(bad); err == nil {
			t.Errorf("parseBBox(%q): expected error", bad)
		}
	}
}

func TestOpenSession_From(t *testing.T) {
	path := writeLayout(t, gridLayout)

	s, err := openSession(sessionCmd(t, map[string]string{"from": "#c", "debug": "true"}), path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := focusedKey(s); got != "#c" {
		t.Errorf("focused: got %q, want #c", got)
	}
	if !s.Engine.Config().Debug {
		t.Error("--debug should enable score recording")
	}
	if len(s.Trail()) != 0 {
		t.Errorf("--from should not record a transition, got %v", s.Trail())
	}
}

func TestOpenSession_UnknownFrom(t *testing.T) {
	path := writeLayout(t, gridLayout)
	if _, err := openSession(sessionCmd(t, map[string]string{"from": "#nope"}), path); err == nil {
		t.Error("expected error for unknown --from selector")
	}
}

func TestReloadEvent(t *testing.T) {
	diff := model.LayoutDiff{
		Added:   []model.FlatElement{{ID: "d"}},
		Removed: []model.FlatElement{{ID: "b"}},
		Moved:   []model.FlatElement{{ID: "c"}},
		Changed: []model.Change{{ID: "a"}},
	}
	ev := reloadEvent(diff, 3)
	if ev["type"] != "reload" || ev["known"] != 3 {
		t.Errorf("unexpected event header: %v", ev)
	}
	if ids := ev["removed"].([]string); len(ids) != 1 || ids[0] != "b" {
		t.Errorf("removed: got %v", ids)
	}
	if ids := ev["changed"].([]string); len(ids) != 1 || ids[0] != "a" {
		t.Errorf("changed: got %v", ids)
	}
}

func TestEventWriter(t *testing.T) {
	var buf bytes.Buffer
	w := newEventWriter(&buf)
	w.emit(map[string]interface{}{"type": "snapshot", "focused": "<#a>"})
	w.emit(map[string]interface{}{"type": "done"})

	if w.total() != 2 {
		t.Errorf("count: got %d, want 2", w.total())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], `"focused":"<#a>"`) {
		t.Errorf("HTML should not be escaped: %s", lines[0])
	}
	var ev map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if _, ok := ev["ts"]; !ok {
		t.Error("events should carry a timestamp")
	}
}
