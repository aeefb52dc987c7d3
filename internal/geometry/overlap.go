package geometry

import "math"

// Overlaps reports whether other shares a span with current on the axis
// perpendicular to d. For up/down the horizontal spans are compared, for
// left/right the vertical spans. An overlapping candidate is in line of
// sight and gets zero angular deviation.
func Overlaps(current, other Position, d Direction) bool {
	switch d {
	case Up, Down:
		return spansOverlap(current.Left, current.Right, other.Left, other.Right)
	case Left, Right:
		return spansOverlap(current.Top, current.Bottom, other.Top, other.Bottom)
	default:
		return false
	}
}

func spansOverlap(curLo, curHi, otherLo, otherHi float64) bool {
	return inside(otherLo, curLo, curHi) ||
		inside(otherHi, curLo, curHi) ||
		(inside(curLo, otherLo, otherHi) && inside(curHi, otherLo, otherHi))
}

func inside(pin, lower, upper float64) bool {
	return pin >= lower && pin <= upper
}

// Reachable is the strict half-plane filter for candidates: other must lie
// entirely beyond current's leading edge in direction d. It is not the same
// predicate as Overlaps and the two must not be merged.
func Reachable(current, other Position, d Direction) bool {
	switch d {
	case Up:
		return current.OuterTop.Y >= other.OuterBottom.Y
	case Down:
		return current.OuterBottom.Y <= other.OuterTop.Y
	case Left:
		return current.OuterLeft.X >= other.OuterRight.X
	case Right:
		return current.OuterRight.X <= other.OuterLeft.X
	default:
		return false
	}
}

// AnchorDistance is the Euclidean distance between the facing outer points
// of current and other for a move in direction d, e.g. current's
// right-centre to other's left-centre when moving right.
func AnchorDistance(current, other Position, d Direction) float64 {
	switch d {
	case Up:
		return current.OuterTop.Distance(other.OuterBottom)
	case Down:
		return current.OuterBottom.Distance(other.OuterTop)
	case Left:
		return current.OuterLeft.Distance(other.OuterRight)
	case Right:
		return current.OuterRight.Distance(other.OuterLeft)
	default:
		return 0
	}
}

// Angle returns the bearing in degrees, in [0, 360), from current to other
// for a move in direction d.
//
// Overlapping elements return the canonical angle of d exactly. Otherwise
// the bearing is taken between the nearest corners of the two elements
// rather than their centres, so a large element whose bulk lies off-axis is
// not penalised against a small one.
func Angle(current, other Position, d Direction) float64 {
	if Overlaps(current, other, d) {
		return d.CanonicalAngle()
	}

	var dy, dx float64
	switch d {
	case Up:
		dy = other.Bottom - current.Top
		if other.Right > current.Right {
			dx = other.Left - current.Right
		} else {
			dx = other.Right - current.Left
		}
	case Down:
		dy = other.Top - current.Bottom
		if other.Right > current.Right {
			dx = other.Left - current.Right
		} else {
			dx = other.Right - current.Left
		}
	case Left:
		dx = other.Right - current.Left
		if other.Top > current.Top {
			dy = other.Top - current.Bottom
		} else {
			dy = other.Bottom - current.Top
		}
	case Right:
		dx = other.Left - current.Right
		if other.Top > current.Top {
			dy = other.Top - current.Bottom
		} else {
			dy = other.Bottom - current.Top
		}
	default:
		return 0
	}

	return normalizeDegrees(math.Atan2(dy, dx) * 180 / math.Pi)
}

// AzimuthDeviation is the unsigned wrap-around difference between two
// bearings, in [0, 180].
func AzimuthDeviation(canonical, candidate float64) float64 {
	return math.Abs(floorMod(canonical+180-candidate, 360) - 180)
}

func normalizeDegrees(deg float64) float64 {
	deg = floorMod(deg, 360)
	if deg == 360 {
		return 0
	}
	return deg
}

func floorMod(a, n float64) float64 {
	m := math.Mod(a, n)
	if m < 0 {
		m += n
	}
	return m
}
