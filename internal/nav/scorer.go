package nav

import (
	"fmt"

	"github.com/mj1618/focusnav/internal/geometry"
)

// Score is one candidate's evaluation for a move.
type Score struct {
	Element  Element `yaml:"-"        json:"-"`
	Key      string  `yaml:"key"      json:"key"`
	Distance float64 `yaml:"distance" json:"distance"`
	Azimuth  float64 `yaml:"azimuth"  json:"azimuth"`
	// Weighted is the combined score after normalisation. Lower wins.
	Weighted float64 `yaml:"weighted" json:"weighted"`
}

// Label is the debug annotation shown next to a candidate.
func (s Score) Label() string {
	return fmt.Sprintf("d:%.0f a:%.1f w:%.3f", s.Distance, s.Azimuth, s.Weighted)
}

// FindCandidates returns the entries, other than current, that lie strictly
// beyond current's leading edge in direction d.
func FindCandidates(current *Entry, entries []*Entry, d geometry.Direction) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.Element == current.Element {
			continue
		}
		if geometry.Reachable(current.Position, e.Position, d) {
			out = append(out, e)
		}
	}
	return out
}

// Weights returns the azimuth and distance weights for a move, with the
// element's per-direction preference applied over the configured weights.
func Weights(cfg Config, pref WeightPreference) (azimuth, distance float64) {
	switch pref {
	case PreferDistance:
		return 0.001, 1
	case PreferAzimuth:
		return 1, 0.001
	default:
		return cfg.AzimuthWeight, cfg.DistanceWeight
	}
}

// ScoreCandidates measures each candidate from current and combines the
// distance and azimuth deviation, each normalised by its maximum over the
// candidate set. A zero maximum is treated as 1.
func ScoreCandidates(current geometry.Position, candidates []*Entry, d geometry.Direction, azimuthWeight, distanceWeight float64) []Score {
	scores := make([]Score, 0, len(candidates))
	var maxDistance, maxAzimuth float64
	canonical := d.CanonicalAngle()
	for _, c := range candidates {
		s := Score{
			Element:  c.Element,
			Key:      c.Element.Key(),
			Distance: geometry.AnchorDistance(current, c.Position, d),
			Azimuth:  geometry.AzimuthDeviation(canonical, geometry.Angle(current, c.Position, d)),
		}
		maxDistance = max(maxDistance, s.Distance)
		maxAzimuth = max(maxAzimuth, s.Azimuth)
		scores = append(scores, s)
	}
	if maxDistance == 0 {
		maxDistance = 1
	}
	if maxAzimuth == 0 {
		maxAzimuth = 1
	}
	for i := range scores {
		scores[i].Weighted = distanceWeight*scores[i].Distance/maxDistance +
			azimuthWeight*scores[i].Azimuth/maxAzimuth
	}
	return scores
}

// SelectBest picks the winning score. With lineOfSight set, a candidate with
// zero azimuth deviation always beats one without, regardless of weighted
// score. Otherwise, and between candidates of the same class, the lowest
// weighted score wins and ties go to the later candidate.
func SelectBest(scores []Score, lineOfSight bool) (Score, bool) {
	if len(scores) == 0 {
		return Score{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if lineOfSight {
			if best.Azimuth != 0 && s.Azimuth == 0 {
				best = s
				continue
			}
			if best.Azimuth == 0 && s.Azimuth != 0 {
				continue
			}
		}
		if best.Weighted >= s.Weighted {
			best = s
		}
	}
	return best, true
}
