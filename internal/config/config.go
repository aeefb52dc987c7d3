// Package config loads the navigation configuration from defaults, an
// optional YAML file, FOCUSNAV_* environment variables and a layout's
// embedded config block.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/nav"
)

// EnvPrefix prefixes environment overrides, e.g. FOCUSNAV_FOCUSEDCLASS.
const EnvPrefix = "FOCUSNAV"

// Load builds the configuration. path names a YAML file; when empty,
// $FOCUSNAV_CONFIG and then ~/.config/focusnav/config.yaml are tried and a
// missing file is not an error. Overlays (typically a layout's config
// block) are merged over the file in order. Environment variables win over
// both.
func Load(path string, overlays ...map[string]any) (nav.Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nav.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "focusnav"))
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nav.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for _, overlay := range overlays {
		if len(overlay) == 0 {
			continue
		}
		if err := v.MergeConfigMap(overlay); err != nil {
			return nav.Config{}, fmt.Errorf("merge config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	var c nav.Config
	if err := v.Unmarshal(&c); err != nil {
		return nav.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	keymap, err := parseKeymap(keymapEntries(v))
	if err != nil {
		return nav.Config{}, err
	}
	c.Keymap = keymap
	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := nav.DefaultConfig()
	keymap := make(map[string]string, len(d.Keymap))
	for code, dir := range d.Keymap {
		keymap[strconv.Itoa(code)] = string(dir)
	}
	v.SetDefault("keymap", keymap)
	v.SetDefault("focusableAttribute", d.FocusableAttribute)
	v.SetDefault("defaultFocusedElement", d.DefaultFocusedElement)
	v.SetDefault("container", d.Container)
	v.SetDefault("focusedClass", d.FocusedClass)
	v.SetDefault("overrideDirectionAttribute", d.OverrideDirectionAttribute)
	v.SetDefault("weightOverrideAttribute", d.WeightOverrideAttribute)
	v.SetDefault("dynamicPositionAttribute", d.DynamicPositionAttribute)
	v.SetDefault("captureFocusAttribute", d.CaptureFocusAttribute)
	v.SetDefault("watchDomMutations", d.WatchDomMutations)
	v.SetDefault("useRealFocus", d.UseRealFocus)
	v.SetDefault("azimuthWeight", d.AzimuthWeight)
	v.SetDefault("distanceWeight", d.DistanceWeight)
	v.SetDefault("debug", d.Debug)
}

// keymapEntries collects keymap.<code> leaves from every layer.
func keymapEntries(v *viper.Viper) map[string]string {
	raw := make(map[string]string)
	for _, key := range v.AllKeys() {
		if code, ok := strings.CutPrefix(key, "keymap."); ok {
			raw[code] = v.GetString(key)
		}
	}
	return raw
}

// parseKeymap converts "code: direction" pairs. Entries from the file are
// merged over the default arrow keys; an empty direction unmaps a code.
func parseKeymap(raw map[string]string) (map[int]geometry.Direction, error) {
	codes := make([]string, 0, len(raw))
	for code := range raw {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	keymap := make(map[int]geometry.Direction, len(raw))
	for _, code := range codes {
		value := raw[code]
		if strings.TrimSpace(value) == "" {
			continue
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			return nil, fmt.Errorf("keymap: invalid keycode %q", code)
		}
		d, err := geometry.ParseDirection(value)
		if err != nil {
			return nil, fmt.Errorf("keymap[%d]: %w", n, err)
		}
		keymap[n] = d
	}
	return keymap, nil
}
