package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrElementNotFound is returned when a selector or ID matches nothing.
var ErrElementNotFound = errors.New("element not found")

// Format is a layout file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Layout is a named element tree plus optional navigation settings.
type Layout struct {
	Name      string         `yaml:"name,omitempty"      json:"name,omitempty"`
	Container string         `yaml:"container,omitempty" json:"container,omitempty"` // Selector scoping navigation
	Config    map[string]any `yaml:"config,omitempty"    json:"config,omitempty"`    // Merged over the loaded config
	Elements  []Element      `yaml:"elements"            json:"elements"`
}

// FormatForPath picks the encoding from a file extension. Anything other
// than .json is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseLayout decodes and validates a layout.
func ParseLayout(data []byte, format Format) (*Layout, error) {
	var layout Layout
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("unmarshal layout: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("unmarshal layout: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported layout format: %s", format)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

// LoadLayout reads a layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	layout, err := ParseLayout(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layout, nil
}

// SaveLayout writes a layout file in the encoding implied by its extension.
func SaveLayout(path string, layout *Layout) error {
	var (
		data []byte
		err  error
	)
	if FormatForPath(path) == FormatJSON {
		data, err = json.MarshalIndent(layout, "", "  ")
	} else {
		data, err = yaml.Marshal(layout)
	}
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every element has a unique ID and non-negative size.
func (l *Layout) Validate() error {
	seen := make(map[string]bool)
	for _, el := range FlattenElements(l.Elements) {
		if el.ID == "" {
			return fmt.Errorf("element at %q has no id", el.Path)
		}
		if seen[el.ID] {
			return fmt.Errorf("duplicate element id %q", el.ID)
		}
		seen[el.ID] = true
		if el.Bounds[2] < 0 || el.Bounds[3] < 0 {
			return fmt.Errorf("element %q has negative size %v", el.ID, el.Bounds)
		}
		switch el.Visibility {
		case "", Visible, Hidden, Conditional:
		default:
			return fmt.Errorf("element %q has unknown visibility %q", el.ID, el.Visibility)
		}
	}
	return nil
}

// Find returns the element with the given ID, searching recursively.
func (l *Layout) Find(id string) *Element {
	return findElementByID(l.Elements, id)
}

func findElementByID(elements []Element, id string) *Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
		if found := findElementByID(elements[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}
