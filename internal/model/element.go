package model

import (
	"strings"

	"github.com/mj1618/focusnav/internal/geometry"
)

// Visibility values for Element.Visibility. An empty value means visible.
const (
	Visible     = "visible"
	Hidden      = "hidden"
	Conditional = "conditional"
)

// Element is one node of a layout tree.
type Element struct {
	ID         string            `yaml:"id"                   json:"id"`                   // Unique, addressed as #id
	Title      string            `yaml:"title,omitempty"      json:"title,omitempty"`      // Visible label
	Class      string            `yaml:"class,omitempty"      json:"class,omitempty"`      // Space-separated class names
	Bounds     [4]int            `yaml:"bounds"               json:"bounds"`               // [x, y, width, height]
	Attrs      map[string]string `yaml:"attrs,omitempty"      json:"attrs,omitempty"`      // Navigation attributes
	Visibility string            `yaml:"visibility,omitempty" json:"visibility,omitempty"` // visible, hidden or conditional
	Children   []Element         `yaml:"children,omitempty"   json:"children,omitempty"`
}

// Classes returns the element's class names.
func (el Element) Classes() []string {
	return strings.Fields(el.Class)
}

// HasClass reports whether the element carries class name.
func (el Element) HasClass(name string) bool {
	for _, c := range el.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// Attr reads an attribute.
func (el Element) Attr(name string) (string, bool) {
	v, ok := el.Attrs[name]
	return v, ok
}

// Rect returns the element bounds as a geometry rectangle.
func (el Element) Rect() geometry.Rect {
	return geometry.RectFromBounds(el.Bounds)
}
