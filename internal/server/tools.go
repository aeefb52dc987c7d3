package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func sessionArg() mcp.ToolOption {
	return mcp.WithString("session", mcp.Description("Session name (default: \"default\")"))
}

func (s *Server) registerTools() {
	// load
	s.mcp.AddTool(
		mcp.NewTool("load",
			mcp.WithDescription("Load a layout into a named session and start navigating it. Focus starts on the configured default element."),
			sessionArg(),
			mcp.WithString("path", mcp.Description("Layout file (.yaml or .json)")),
			mcp.WithString("layout", mcp.Description("Inline layout document (YAML or JSON)")),
			mcp.WithString("config", mcp.Description("Engine config file merged under the layout's own config block")),
		),
		s.handleLoad,
	)

	// update
	s.mcp.AddTool(
		mcp.NewTool("update",
			mcp.WithDescription("Replace a session's layout. Elements are matched by id and the engine picks up added, removed and moved elements."),
			sessionArg(),
			mcp.WithString("layout", mcp.Description("Inline layout document (YAML or JSON)"), mcp.Required()),
		),
		s.handleUpdate,
	)

	s.mcp.AddTool(
		mcp.NewTool("sessions", mcp.WithDescription("List open sessions")),
		s.handleSessions,
	)

	s.mcp.AddTool(
		mcp.NewTool("close",
			mcp.WithDescription("Close a session and release its engine"),
			sessionArg(),
		),
		s.handleClose,
	)

	// move
	s.mcp.AddTool(
		mcp.NewTool("move",
			mcp.WithDescription("Move focus in a direction. Returns the focused element and whether focus changed."),
			sessionArg(),
			mcp.WithString("direction", mcp.Description("Direction: up, down, left, right, enter"), mcp.Required()),
			mcp.WithNumber("count", mcp.Description("Repeat the move N times (default: 1)")),
		),
		s.stepHandler("move"),
	)

	// set_current
	s.mcp.AddTool(
		mcp.NewTool("set_current",
			mcp.WithDescription("Focus an element by selector (#id, .class, [attr], [attr=value])"),
			sessionArg(),
			mcp.WithString("target", mcp.Description("Selector of the element to focus"), mcp.Required()),
			mcp.WithBoolean("events", mcp.Description("Fire focus events (default: true)")),
		),
		s.stepHandler("set-current"),
	)

	s.mcp.AddTool(
		mcp.NewTool("enter",
			mcp.WithDescription("Activate the focused element"),
			sessionArg(),
		),
		s.stepHandler("enter"),
	)

	s.mcp.AddTool(
		mcp.NewTool("key",
			mcp.WithDescription("Deliver a key code through the keymap (37 left, 38 up, 39 right, 40 down, 13 enter by default)"),
			sessionArg(),
			mcp.WithNumber("code", mcp.Description("Key code"), mcp.Required()),
		),
		s.stepHandler("key"),
	)

	for _, t := range []struct {
		name, action, description string
	}{
		{"current", "current", "Return the focused element"},
		{"known", "known", "List the registered navigable elements in registration order"},
		{"lock", "lock", "Ignore directional input until unlocked"},
		{"unlock", "unlock", "Accept directional input again"},
		{"refresh", "refresh", "Rebuild the registry from the container"},
	} {
		s.mcp.AddTool(
			mcp.NewTool(t.name, mcp.WithDescription(t.description), sessionArg()),
			s.stepHandler(t.action),
		)
	}

	for _, t := range []struct {
		name, action, description string
	}{
		{"register", "register", "Register an element with the engine"},
		{"unregister", "unregister", "Remove an element from the engine; focus falls back if it was focused"},
	} {
		s.mcp.AddTool(
			mcp.NewTool(t.name,
				mcp.WithDescription(t.description),
				sessionArg(),
				mcp.WithString("target", mcp.Description("Selector of the element"), mcp.Required()),
			),
			s.stepHandler(t.action),
		)
	}

	// render
	s.mcp.AddTool(
		mcp.NewTool("render",
			mcp.WithDescription("Render the session's layout as a PNG with the focused element highlighted"),
			sessionArg(),
			mcp.WithString("labels", mcp.Description("Box labels: ids, coords, scores, none (default: ids)")),
			mcp.WithNumber("scale", mcp.Description("Pixels per layout unit (default: 1)")),
		),
		s.handleRender,
	)

	// do (batch)
	s.mcp.AddTool(
		mcp.NewTool("do",
			mcp.WithDescription("Execute multiple steps in a batch. Steps execute sequentially. Supports: move, up, down, left, right, enter, key, set-current, register, unregister, lock, unlock, refresh, start, destroy, current, known, sleep"),
			sessionArg(),
			mcp.WithArray("steps", mcp.Description("Array of single-key step objects, e.g. {\"move\": {\"direction\": \"right\"}}"), mcp.Required()),
			mcp.WithBoolean("stop-on-error", mcp.Description("Stop on first error (default: true)")),
		),
		s.handleDo,
	)
}
