package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
	"github.com/mj1618/focusnav/internal/output"
	"github.com/mj1618/focusnav/internal/session"
)

// setFlag sets a flag on a package-level command and restores it after
// the test.
func setFlag(t *testing.T, c interface {
	Set(name, value string) error
}, name, value, reset string) {
	t.Helper()
	if err := c.Set(name, value); err != nil {
		t.Fatalf("set --%s: %v", name, err)
	}
	t.Cleanup(func() { c.Set(name, reset) })
}

func TestMoveCommand(t *testing.T) {
	path := writeLayout(t, gridLayout)

	var result session.DoResult
	err := captureJSON(t, &result, func() error {
		return runMove(moveCmd, []string{path, "right,right", "down"})
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.Steps != 3 || result.Completed != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.Results[0].Moved || result.Results[1].Moved {
		t.Errorf("second right should not move: %+v", result.Results)
	}
	if result.Focused == nil || result.Focused.ID != "c" {
		t.Errorf("focused: got %+v, want c", result.Focused)
	}
	if len(result.Trail) != 2 {
		t.Errorf("trail: got %+v, want 2 transitions", result.Trail)
	}
}

func TestMoveCommand_BadDirection(t *testing.T) {
	path := writeLayout(t, gridLayout)
	if err := runMove(moveCmd, []string{path, "diagonal"}); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestDoCommand_File(t *testing.T) {
	path := writeLayout(t, gridLayout)
	steps := filepath.Join(filepath.Dir(path), "steps.yaml")
	if err := os.WriteFile(steps, []byte("- right: {}\n- enter: {}\n- current: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	setFlag(t, doCmd.Flags(), "file", steps, "")

	var result session.DoResult
	err := captureJSON(t, &result, func() error { return runDo(doCmd, []string{path}) })
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.Completed != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := result.Results[1].Activated; got != "#b" {
		t.Errorf("activated: got %q, want #b", got)
	}
}

func TestDoCommand_StopOnError(t *testing.T) {
	path := writeLayout(t, gridLayout)
	steps := filepath.Join(filepath.Dir(path), "steps.yaml")
	if err := os.WriteFile(steps, []byte("- right: {}\n- teleport: {}\n- down: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	setFlag(t, doCmd.Flags(), "file", steps, "")

	var result session.DoResult
	err := captureJSON(t, &result, func() error { return runDo(doCmd, []string{path}) })
	if err == nil {
		t.Fatal("expected an error for the failed step")
	}
	if result.OK || result.Completed != 1 || len(result.Results) != 2 {
		t.Errorf("stop-on-error: got %+v", result)
	}

	setFlag(t, doCmd.Flags(), "stop-on-error", "false", "true")
	result = session.DoResult{}
	err = captureJSON(t, &result, func() error { return runDo(doCmd, []string{path}) })
	if err == nil {
		t.Fatal("expected an error for the failed step")
	}
	if result.Completed != 2 || len(result.Results) != 3 {
		t.Errorf("continue on error: got %+v", result)
	}
}

func TestKnownCommand(t *testing.T) {
	path := writeLayout(t, gridLayout)

	var result output.ElementsResult
	err := captureJSON(t, &result, func() error { return runKnown(knownCmd, []string{path}) })
	if err != nil {
		t.Fatal(err)
	}
	if result.Container != "#grid" || result.Focused != "#a" {
		t.Errorf("header: got %+v", result)
	}
	var ids []string
	for _, el := range result.Elements {
		ids = append(ids, el.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("known: got %v, want [a b c]", ids)
	}
	if result.Elements[0].Path != "grid > a" {
		t.Errorf("path: got %q, want %q", result.Elements[0].Path, "grid > a")
	}
}

func TestKnownCommand_AllWithBBox(t *testing.T) {
	path := writeLayout(t, gridLayout)
	setFlag(t, knownCmd.Flags(), "all", "true", "false")
	setFlag(t, knownCmd.Flags(), "bbox", "150,100,200,100", "")

	var result output.ElementsResult
	err := captureJSON(t, &result, func() error { return runKnown(knownCmd, []string{path}) })
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, el := range result.Elements {
		if el.ID == "label" {
			found = true
		}
		if el.ID == "a" {
			t.Error("a lies outside the bbox")
		}
	}
	if !found {
		t.Errorf("--all should include unregistered elements: %+v", result.Elements)
	}
}

func TestDiffCommand(t *testing.T) {
	path := writeLayout(t, gridLayout)
	changed := filepath.Join(filepath.Dir(path), "changed.yaml")
	layout, err := model.LoadLayout(path)
	if err != nil {
		t.Fatal(err)
	}
	grid := &layout.Elements[0]
	grid.Children[2].Bounds = [4]int{0, 200, 100, 50}
	grid.Children = append(grid.Children[:1], grid.Children[2:]...)
	if err := model.SaveLayout(changed, layout); err != nil {
		t.Fatal(err)
	}

	var diff model.LayoutDiff
	err = captureJSON(t, &diff, func() error { return runDiff(diffCmd, []string{path, changed}) })
	if err != nil {
		t.Fatal(err)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].ID != "b" {
		t.Errorf("removed: got %+v", diff.Removed)
	}
	if len(diff.Moved) != 1 || diff.Moved[0].ID != "c" {
		t.Errorf("moved: got %+v", diff.Moved)
	}
}

func TestConfigCommand_Layout(t *testing.T) {
	path := writeLayout(t, gridLayout)

	var cfg nav.Config
	err := captureJSON(t, &cfg, func() error { return runConfig(configCmd, []string{path}) })
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Container != "#grid" {
		t.Errorf("container: got %q, want #grid", cfg.Container)
	}
	if cfg.FocusableAttribute != "focusable" || cfg.AzimuthWeight != 1 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestKnownCommand_AllWithAttr(t *testing.T) {
	path := writeLayout(t, gridLayout)
	setFlag(t, knownCmd.Flags(), "all", "true", "false")
	setFlag(t, knownCmd.Flags(), "attr", "focusable", "")

	var result output.ElementsResult
	err := captureJSON(t, &result, func() error { return runKnown(knownCmd, []string{path}) })
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, el := range result.Elements {
		ids = append(ids, el.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("--attr focusable: got %v, want [a b c]", ids)
	}
}
