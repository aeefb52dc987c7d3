package nav

import (
	"strings"

	"github.com/mj1618/focusnav/internal/geometry"
)

// OverrideKind classifies a per-direction override.
type OverrideKind int

const (
	// OverrideNone lets the scorer pick the next element.
	OverrideNone OverrideKind = iota
	// OverrideTarget sends focus straight to a selector.
	OverrideTarget
	// OverrideSkip swallows the input.
	OverrideSkip
)

const (
	nullToken = "null"
	skipToken = "skip"
)

// Override is the redirect declared by an element for one direction.
type Override struct {
	Kind   OverrideKind `yaml:"kind"             json:"kind"`
	Target string       `yaml:"target,omitempty" json:"target,omitempty"`
}

// String renders the override as its attribute token.
func (o Override) String() string {
	switch o.Kind {
	case OverrideTarget:
		return o.Target
	case OverrideSkip:
		return skipToken
	default:
		return nullToken
	}
}

// Overrides maps directions to overrides. Missing directions mean none.
type Overrides map[geometry.Direction]Override

// For returns the override for d.
func (o Overrides) For(d geometry.Direction) Override {
	if o == nil {
		return Override{}
	}
	return o[d]
}

// ParseOverrides reads an override attribute value: four space-separated
// tokens in "up right down left" order, each a selector, "null" or "skip".
// Missing tokens are treated as absent and extra tokens are ignored.
func ParseOverrides(value string) Overrides {
	tokens := strings.Fields(value)
	out := make(Overrides, len(geometry.Axis))
	for i, d := range geometry.Axis {
		if i >= len(tokens) {
			break
		}
		switch tok := tokens[i]; tok {
		case nullToken:
		case skipToken:
			out[d] = Override{Kind: OverrideSkip}
		default:
			out[d] = Override{Kind: OverrideTarget, Target: tok}
		}
	}
	return out
}

// WeightPreference collapses scoring for one direction to pure distance or
// pure azimuth.
type WeightPreference string

const (
	PreferNone     WeightPreference = ""
	PreferDistance WeightPreference = "distance"
	PreferAzimuth  WeightPreference = "azimuth"
)

// ParseWeightPreference accepts "distance" or "azimuth"; anything else is
// no preference.
func ParseWeightPreference(value string) WeightPreference {
	switch WeightPreference(strings.ToLower(strings.TrimSpace(value))) {
	case PreferDistance:
		return PreferDistance
	case PreferAzimuth:
		return PreferAzimuth
	default:
		return PreferNone
	}
}

// weightAttribute is the per-direction attribute name, e.g. "weight-override-right".
func weightAttribute(prefix string, d geometry.Direction) string {
	return prefix + "-" + string(d)
}
