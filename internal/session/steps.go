package session

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/nav"
)

// ErrUnknownStep is returned for an unsupported step action.
var ErrUnknownStep = errors.New("unknown step type")

// StepResult is the output for a single step.
type StepResult struct {
	Step      int           `yaml:"step,omitempty"      json:"step,omitempty"`
	OK        bool          `yaml:"ok"                  json:"ok"`
	Action    string        `yaml:"action"              json:"action"`
	Error     string        `yaml:"error,omitempty"     json:"error,omitempty"`
	Direction string        `yaml:"direction,omitempty" json:"direction,omitempty"`
	Moved     bool          `yaml:"moved,omitempty"     json:"moved,omitempty"`
	Focused   *ElementInfo  `yaml:"focused,omitempty"   json:"focused,omitempty"`
	Activated string        `yaml:"activated,omitempty" json:"activated,omitempty"`
	Locked    bool          `yaml:"locked,omitempty"    json:"locked,omitempty"`
	Known     []ElementInfo `yaml:"known,omitempty"     json:"known,omitempty"`
	Scores    []nav.Score   `yaml:"scores,omitempty"    json:"scores,omitempty"`
	Elapsed   string        `yaml:"elapsed,omitempty"   json:"elapsed,omitempty"`
}

// DoResult is the output of a batch of steps.
type DoResult struct {
	OK        bool         `yaml:"ok"                json:"ok"`
	Action    string       `yaml:"action"            json:"action"`
	Steps     int          `yaml:"steps"             json:"steps"`
	Completed int          `yaml:"completed"         json:"completed"`
	Error     string       `yaml:"error,omitempty"   json:"error,omitempty"`
	Results   []StepResult `yaml:"results"           json:"results"`
	Focused   *ElementInfo `yaml:"focused,omitempty" json:"focused,omitempty"`
	Trail     []Transition `yaml:"trail,omitempty"   json:"trail,omitempty"`
}

// Step is one parsed batch entry: a single action key with its parameters.
type Step struct {
	Action string
	Params map[string]any
}

// ParseSteps decodes a YAML (or JSON) list of single-key maps, e.g.
//
//	- move: { direction: right }
//	- set-current: { target: "#menu" }
//	- enter: {}
func ParseSteps(data []byte) ([]Step, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of actions")
	}
	var raw []map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of actions")
	}
	steps := make([]Step, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action key, got %d", i+1, len(entry))
		}
		for action, params := range entry {
			if params == nil {
				params = map[string]any{}
			}
			steps = append(steps, Step{Action: action, Params: params})
		}
	}
	return steps, nil
}

// Run executes steps in order. With stopOnError the batch ends at the
// first failing step.
func (s *Session) Run(steps []Step, stopOnError bool) DoResult {
	results := make([]StepResult, 0, len(steps))
	completed := 0
	hasFailure := false
	var lastErr string

	for i, step := range steps {
		stepNum := i + 1
		result, err := s.ExecuteStep(step.Action, step.Params)
		result.Step = stepNum
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			results = append(results, result)
			hasFailure = true
			lastErr = fmt.Sprintf("step %d: %s", stepNum, err.Error())
			if stopOnError {
				break
			}
			continue
		}
		result.OK = true
		completed++
		results = append(results, result)
	}

	return DoResult{
		OK:        !hasFailure,
		Action:    "do",
		Steps:     len(steps),
		Completed: completed,
		Error:     lastErr,
		Results:   results,
		Focused:   s.Focused(),
		Trail:     s.Trail(),
	}
}

// ExecuteStep runs one scripted action against the session.
func (s *Session) ExecuteStep(action string, params map[string]any) (StepResult, error) {
	switch action {
	case "move":
		return s.executeMove(action, StringParam(params, "direction", ""), params)
	case "up", "down", "left", "right":
		return s.executeMove(action, action, params)
	case "enter":
		return s.executeEnter()
	case "key":
		return s.executeKey(params)
	case "set-current":
		return s.executeSetCurrent(params)
	case "register", "unregister":
		return s.executeRegistration(action, params)
	case "lock":
		s.Engine.Lock()
		return StepResult{Action: action, Locked: true}, nil
	case "unlock":
		s.Engine.Unlock()
		return StepResult{Action: action, Locked: false}, nil
	case "refresh":
		s.Engine.Refresh()
		return StepResult{Action: action, Known: s.Known()}, nil
	case "start":
		s.Engine.Start()
		return StepResult{Action: action, Focused: s.Focused()}, nil
	case "destroy":
		s.Engine.Destroy()
		return StepResult{Action: action}, nil
	case "current":
		return StepResult{Action: action, Focused: s.Focused(), Locked: s.Engine.Locked()}, nil
	case "known":
		return StepResult{Action: action, Known: s.Known()}, nil
	case "sleep":
		return executeSleep(params)
	default:
		return StepResult{Action: action}, fmt.Errorf("%w %q: supported: move, up, down, left, right, enter, key, set-current, register, unregister, lock, unlock, refresh, start, destroy, current, known, sleep", ErrUnknownStep, action)
	}
}

func (s *Session) executeMove(action, direction string, params map[string]any) (StepResult, error) {
	result := StepResult{Action: action}
	d, err := geometry.ParseDirection(direction)
	if err != nil {
		return result, err
	}
	result.Direction = string(d)
	count := IntParam(params, "count", 1)
	if count < 1 {
		return result, fmt.Errorf("count must be >= 1")
	}
	for i := 0; i < count; i++ {
		if s.Engine.Move(d) {
			result.Moved = true
		}
	}
	result.Focused = s.Focused()
	if s.Engine.Config().Debug {
		result.Scores = s.Engine.LastScores()
	}
	return result, nil
}

func (s *Session) executeEnter() (StepResult, error) {
	before := len(s.Tree.Activations())
	s.Engine.Enter()
	result := StepResult{Action: "enter", Focused: s.Focused()}
	if acts := s.Tree.Activations(); len(acts) > before {
		result.Activated = acts[len(acts)-1]
	}
	return result, nil
}

func (s *Session) executeKey(params map[string]any) (StepResult, error) {
	code := IntParam(params, "code", 0)
	if code <= 0 {
		return StepResult{Action: "key"}, fmt.Errorf("code must be > 0")
	}
	moved := s.Engine.HandleKey(code)
	return StepResult{Action: "key", Moved: moved, Focused: s.Focused()}, nil
}

func (s *Session) executeSetCurrent(params map[string]any) (StepResult, error) {
	result := StepResult{Action: "set-current"}
	target := StringParam(params, "target", "")
	if target == "" {
		return result, fmt.Errorf("target is required")
	}
	el, err := s.Resolve(target)
	if err != nil {
		return result, err
	}
	var opts []nav.CallOption
	if !BoolParam(params, "events", true) {
		opts = append(opts, nav.WithoutEvents())
	}
	result.Moved = s.Engine.SetCurrent(el, opts...)
	result.Focused = s.Focused()
	return result, nil
}

func (s *Session) executeRegistration(action string, params map[string]any) (StepResult, error) {
	result := StepResult{Action: action}
	target := StringParam(params, "target", "")
	if target == "" {
		return result, fmt.Errorf("target is required")
	}
	el, err := s.Resolve(target)
	if err != nil {
		return result, err
	}
	if action == "register" {
		if !s.Engine.Register(el) {
			return result, fmt.Errorf("%s is hidden and was not registered", target)
		}
	} else if !s.Engine.Unregister(el) {
		return result, fmt.Errorf("%s is not registered", target)
	}
	result.Focused = s.Focused()
	result.Known = s.Known()
	return result, nil
}

func executeSleep(params map[string]any) (StepResult, error) {
	ms := IntParam(params, "ms", 0)
	if ms <= 0 {
		return StepResult{Action: "sleep"}, fmt.Errorf("ms must be > 0")
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return StepResult{Action: "sleep", Elapsed: fmt.Sprintf("%dms", ms)}, nil
}
