// Package geometry converts host rectangles into the positional descriptors
// used for directional focus navigation, and implements the overlap, angle
// and distance math between two such descriptors.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is an element's bounding rectangle in plane coordinates.
type Rect struct {
	Left   float64 `yaml:"left"   json:"left"`
	Top    float64 `yaml:"top"    json:"top"`
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// RectFromBounds builds a Rect from an [x, y, width, height] quad.
func RectFromBounds(b [4]int) Rect {
	return Rect{
		Left:   float64(b[0]),
		Top:    float64(b[1]),
		Width:  float64(b[2]),
		Height: float64(b[3]),
	}
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// ParseRect parses a "x,y,w,h" string into a Rect.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rect %q: expected x,y,w,h", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] < 0 || vals[3] < 0 {
		return Rect{}, fmt.Errorf("invalid rect %q: width and height must be non-negative", s)
	}
	return Rect{Left: vals[0], Top: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Point is a coordinate on the plane.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Position is the cached positional descriptor of a registered element.
// The outer points sit at the centre of each edge and are the anchors for
// every distance and angle computation.
type Position struct {
	Left    float64 `yaml:"left"     json:"left"`
	Top     float64 `yaml:"top"      json:"top"`
	Right   float64 `yaml:"right"    json:"right"`
	Bottom  float64 `yaml:"bottom"   json:"bottom"`
	CenterX float64 `yaml:"center_x" json:"center_x"`
	CenterY float64 `yaml:"center_y" json:"center_y"`

	OuterTop    Point `yaml:"outer_top"    json:"outer_top"`
	OuterBottom Point `yaml:"outer_bottom" json:"outer_bottom"`
	OuterLeft   Point `yaml:"outer_left"   json:"outer_left"`
	OuterRight  Point `yaml:"outer_right"  json:"outer_right"`
}

// ComputePosition derives a Position from a rectangle. The caller
// guarantees a non-negative width and height.
func ComputePosition(r Rect) Position {
	cx := math.Round(r.Left + r.Width/2)
	cy := math.Round(r.Top + r.Height/2)
	right, bottom := r.Right(), r.Bottom()

	return Position{
		Left:        r.Left,
		Top:         r.Top,
		Right:       right,
		Bottom:      bottom,
		CenterX:     cx,
		CenterY:     cy,
		OuterTop:    Point{X: cx, Y: r.Top},
		OuterBottom: Point{X: cx, Y: bottom},
		OuterLeft:   Point{X: r.Left, Y: cy},
		OuterRight:  Point{X: right, Y: cy},
	}
}

// Rect converts the position back to the rectangle it was computed from.
func (p Position) Rect() Rect {
	return Rect{Left: p.Left, Top: p.Top, Width: p.Right - p.Left, Height: p.Bottom - p.Top}
}
