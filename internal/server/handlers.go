package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/output"
	"github.com/mj1618/focusnav/internal/render"
	"github.com/mj1618/focusnav/internal/session"
)

// DefaultSession is used when a tool call names no session.
const DefaultSession = "default"

// LoadResult describes a freshly loaded session.
type LoadResult struct {
	OK        bool                  `yaml:"ok"                  json:"ok"`
	Session   string                `yaml:"session"             json:"session"`
	Layout    string                `yaml:"layout,omitempty"    json:"layout,omitempty"`
	Container string                `yaml:"container"           json:"container"`
	Focused   *session.ElementInfo  `yaml:"focused,omitempty"   json:"focused,omitempty"`
	Known     []session.ElementInfo `yaml:"known"               json:"known"`
}

// UpdateResult reports the changes applied by the update tool.
type UpdateResult struct {
	OK      bool                 `yaml:"ok"                json:"ok"`
	Session string               `yaml:"session"           json:"session"`
	Diff    model.LayoutDiff     `yaml:"diff"              json:"diff"`
	Focused *session.ElementInfo `yaml:"focused,omitempty" json:"focused,omitempty"`
	Known   int                  `yaml:"known"             json:"known"`
}

// toText serializes a tool result to YAML.
func toText(v any) string {
	b, err := output.Marshal(v, output.FormatYAML)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

func sessionName(params map[string]any) string {
	return session.StringParam(params, "session", DefaultSession)
}

func (s *Server) session(params map[string]any) (*session.Session, error) {
	name := sessionName(params)
	sess, ok := s.store.Get(name)
	if !ok {
		return nil, fmt.Errorf("no session %q: call load first", name)
	}
	return sess, nil
}

// stepHandler runs a single session step for a tool.
func (s *Server) stepHandler(action string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := request.GetArguments()
		sess, err := s.session(params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := sess.ExecuteStep(action, params)
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			return mcp.NewToolResultError(toText(result)), nil
		}
		result.OK = true
		return mcp.NewToolResultText(toText(result)), nil
	}
}

func (s *Server) handleLoad(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := sessionName(params)
	path := session.StringParam(params, "path", "")
	inline := session.StringParam(params, "layout", "")
	configPath := session.StringParam(params, "config", s.cfg.ConfigPath)

	opts := []session.Option{session.WithName(name), session.WithLogger(s.logger)}
	var sess *session.Session
	switch {
	case path != "" && inline != "":
		return mcp.NewToolResultError("pass either path or layout, not both"), nil
	case path != "":
		var err error
		sess, err = session.Open(path, configPath, opts...)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	case inline != "":
		layout, err := model.ParseLayout([]byte(inline), model.FormatYAML)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg, err := session.LayoutConfig(layout, configPath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess = session.New(layout, cfg, opts...)
	default:
		return mcp.NewToolResultError("path or layout is required"), nil
	}

	s.store.Put(name, sess)
	s.logger.Info("session loaded", "session", name, "known", len(sess.Engine.KnownElements()))

	layoutName := ""
	if l := sess.Tree.Source(); l != nil {
		layoutName = l.Name
	}
	return mcp.NewToolResultText(toText(LoadResult{
		OK:        true,
		Session:   name,
		Layout:    layoutName,
		Container: sess.Engine.Container(),
		Focused:   sess.Focused(),
		Known:     sess.Known(),
	})), nil
}

func (s *Server) handleUpdate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sess, err := s.session(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inline := session.StringParam(params, "layout", "")
	if inline == "" {
		return mcp.NewToolResultError("layout is required"), nil
	}
	layout, err := model.ParseLayout([]byte(inline), model.FormatYAML)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diff := model.DiffLayouts(model.FlattenElements(sess.Tree.Source().Elements), model.FlattenElements(layout.Elements))
	sess.Tree.Update(layout)
	return mcp.NewToolResultText(toText(UpdateResult{
		OK:      true,
		Session: sessionName(params),
		Diff:    diff,
		Focused: sess.Focused(),
		Known:   len(sess.Engine.KnownElements()),
	})), nil
}

func (s *Server) handleSessions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(map[string][]string{"sessions": s.store.Names()})), nil
}

func (s *Server) handleClose(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := sessionName(request.GetArguments())
	if !s.store.Delete(name) {
		return mcp.NewToolResultError(fmt.Sprintf("no session %q", name)), nil
	}
	return mcp.NewToolResultText(toText(map[string]any{"ok": true, "closed": name})), nil
}

func (s *Server) handleRender(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sess, err := s.session(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := render.ParseLabelMode(session.StringParam(params, "labels", "ids"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := render.Options{
		Mode:      mode,
		Scale:     session.FloatParam(params, "scale", 1),
		Attribute: sess.Engine.Config().FocusableAttribute,
		Labels:    sess.Tree.Labels(),
	}
	if f := sess.Focused(); f != nil {
		opts.Focused = f.ID
	}
	var buf bytes.Buffer
	if err := render.Encode(&buf, render.Overlay(sess.Tree.Layout(), opts), "png", 0); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleDo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sess, err := s.session(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stopOnError := session.BoolParam(params, "stop-on-error", true)

	stepsRaw, ok := params["steps"]
	if !ok {
		return mcp.NewToolResultError("steps parameter is required"), nil
	}
	steps, err := parseSteps(stepsRaw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := sess.Run(steps, stopOnError)
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

// parseSteps converts a JSON array of single-key objects into steps.
func parseSteps(raw any) ([]session.Step, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("steps must be an array")
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("steps must not be empty")
	}
	steps := make([]session.Step, 0, len(arr))
	for i, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("step %d: each step must be an object", i+1)
		}
		if len(m) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action key, got %d", i+1, len(m))
		}
		for action, v := range m {
			params, _ := v.(map[string]any)
			if params == nil {
				params = map[string]any{}
			}
			steps = append(steps, session.Step{Action: action, Params: params})
		}
	}
	return steps, nil
}
