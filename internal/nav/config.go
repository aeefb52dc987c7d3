package nav

import (
	"maps"

	"github.com/mj1618/focusnav/internal/geometry"
)

// DocumentContainer scopes navigation to the whole host tree.
const DocumentContainer = "document"

// Config is the immutable snapshot every component of the engine reads.
type Config struct {
	Keymap                     map[int]geometry.Direction `yaml:"keymap"                     json:"keymap"                     mapstructure:"-"`
	FocusableAttribute         string                     `yaml:"focusableAttribute"         json:"focusableAttribute"         mapstructure:"focusableAttribute"`
	DefaultFocusedElement      string                     `yaml:"defaultFocusedElement"      json:"defaultFocusedElement"      mapstructure:"defaultFocusedElement"`
	Container                  string                     `yaml:"container"                  json:"container"                  mapstructure:"container"`
	FocusedClass               string                     `yaml:"focusedClass"               json:"focusedClass"               mapstructure:"focusedClass"`
	OverrideDirectionAttribute string                     `yaml:"overrideDirectionAttribute" json:"overrideDirectionAttribute" mapstructure:"overrideDirectionAttribute"`
	WeightOverrideAttribute    string                     `yaml:"weightOverrideAttribute"    json:"weightOverrideAttribute"    mapstructure:"weightOverrideAttribute"`
	DynamicPositionAttribute   string                     `yaml:"dynamicPositionAttribute"   json:"dynamicPositionAttribute"   mapstructure:"dynamicPositionAttribute"`
	CaptureFocusAttribute      string                     `yaml:"captureFocusAttribute"      json:"captureFocusAttribute"      mapstructure:"captureFocusAttribute"`
	WatchDomMutations          bool                       `yaml:"watchDomMutations"          json:"watchDomMutations"          mapstructure:"watchDomMutations"`
	UseRealFocus               bool                       `yaml:"useRealFocus"               json:"useRealFocus"               mapstructure:"useRealFocus"`
	AzimuthWeight              float64                    `yaml:"azimuthWeight"              json:"azimuthWeight"              mapstructure:"azimuthWeight"`
	DistanceWeight             float64                    `yaml:"distanceWeight"             json:"distanceWeight"             mapstructure:"distanceWeight"`
	Debug                      bool                       `yaml:"debug"                      json:"debug"                      mapstructure:"debug"`
}

// DefaultKeymap maps DOM arrow and enter keycodes to directions.
func DefaultKeymap() map[int]geometry.Direction {
	return map[int]geometry.Direction{
		38: geometry.Up,
		40: geometry.Down,
		37: geometry.Left,
		39: geometry.Right,
		13: geometry.Enter,
	}
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Keymap:                     DefaultKeymap(),
		FocusableAttribute:         "focusable",
		Container:                  DocumentContainer,
		FocusedClass:               "focused",
		OverrideDirectionAttribute: "focus-overrides",
		WeightOverrideAttribute:    "weight-override",
		DynamicPositionAttribute:   "dynamic-position",
		CaptureFocusAttribute:      "capture-focus",
		WatchDomMutations:          true,
		UseRealFocus:               true,
		AzimuthWeight:              1,
		DistanceWeight:             1,
	}
}

// normalize fills empty names and the keymap from the defaults. Two zero
// weights cannot rank anything, so they fall back to 1/1.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.Keymap == nil {
		c.Keymap = d.Keymap
	} else {
		c.Keymap = maps.Clone(c.Keymap)
	}
	if c.FocusableAttribute == "" {
		c.FocusableAttribute = d.FocusableAttribute
	}
	if c.Container == "" {
		c.Container = d.Container
	}
	if c.FocusedClass == "" {
		c.FocusedClass = d.FocusedClass
	}
	if c.OverrideDirectionAttribute == "" {
		c.OverrideDirectionAttribute = d.OverrideDirectionAttribute
	}
	if c.WeightOverrideAttribute == "" {
		c.WeightOverrideAttribute = d.WeightOverrideAttribute
	}
	if c.DynamicPositionAttribute == "" {
		c.DynamicPositionAttribute = d.DynamicPositionAttribute
	}
	if c.CaptureFocusAttribute == "" {
		c.CaptureFocusAttribute = d.CaptureFocusAttribute
	}
	if c.AzimuthWeight == 0 && c.DistanceWeight == 0 {
		c.AzimuthWeight, c.DistanceWeight = d.AzimuthWeight, d.DistanceWeight
	}
	return c
}

// clone returns a copy that shares no maps with c.
func (c Config) clone() Config {
	c.Keymap = maps.Clone(c.Keymap)
	return c
}
