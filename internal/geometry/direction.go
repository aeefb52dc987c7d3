package geometry

import (
	"fmt"
	"strings"
)

// Direction is a navigation request delivered by the host.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
	Enter Direction = "enter"
)

// Axis lists the four spatial directions in the order used by the
// override attribute: "up right down left".
var Axis = []Direction{Up, Right, Down, Left}

// ParseDirection converts a flag or attribute value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	case Left:
		return Left, nil
	case Right:
		return Right, nil
	case Enter:
		return Enter, nil
	default:
		return "", fmt.Errorf("unknown direction: %q (expected up, down, left, right, or enter)", s)
	}
}

// IsSpatial reports whether d moves focus across the plane (everything but enter).
func (d Direction) IsSpatial() bool {
	return d == Up || d == Down || d == Left || d == Right
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// Opposite returns the reverse direction. Enter is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// CanonicalAngle is the bearing in degrees of a pure move along d.
// Screen coordinates grow downward, so down is 90 and up is 270.
func (d Direction) CanonicalAngle() float64 {
	switch d {
	case Down:
		return 90
	case Left:
		return 180
	case Up:
		return 270
	default:
		return 0
	}
}
