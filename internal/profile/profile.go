// Package profile persists the user-editable bridge configuration: the
// mapping table, filter tunables and controller output settings. The on-disk
// format is chosen by file extension (toml, yaml or json).
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/mantukin/dx3/mapping"
	"github.com/mantukin/dx3/protocol/dualsense"
)

// Profile is the serialized configuration. Mapping sources are control names
// (see mapping.ParseControl); each maps to a list of target strings.
type Profile struct {
	Mappings map[string][]string `json:"mappings" yaml:"mappings" toml:"mappings"`
	Tunables Tunables            `json:"tunables" yaml:"tunables" toml:"tunables"`
	Output   Output              `json:"output" yaml:"output" toml:"output"`
}

type Tunables struct {
	DeadzoneLeft  float64 `json:"deadzoneLeft" yaml:"deadzoneLeft" toml:"deadzoneLeft"`
	DeadzoneRight float64 `json:"deadzoneRight" yaml:"deadzoneRight" toml:"deadzoneRight"`
	SensLeft      float64 `json:"sensLeft" yaml:"sensLeft" toml:"sensLeft"`
	SensRight     float64 `json:"sensRight" yaml:"sensRight" toml:"sensRight"`
	SensTouchpad  float64 `json:"sensTouchpad" yaml:"sensTouchpad" toml:"sensTouchpad"`
}

// Output configures the physical controller's LEDs and adaptive triggers.
type Output struct {
	LightbarRed     uint8 `json:"lightbarRed" yaml:"lightbarRed" toml:"lightbarRed"`
	LightbarGreen   uint8 `json:"lightbarGreen" yaml:"lightbarGreen" toml:"lightbarGreen"`
	LightbarBlue    uint8 `json:"lightbarBlue" yaml:"lightbarBlue" toml:"lightbarBlue"`
	Brightness      uint8 `json:"brightness" yaml:"brightness" toml:"brightness"`
	BatteryLEDs     bool  `json:"batteryLeds" yaml:"batteryLeds" toml:"batteryLeds"`
	PeriodicRefresh bool  `json:"periodicRefresh" yaml:"periodicRefresh" toml:"periodicRefresh"`

	LeftTrigger  Trigger `json:"leftTrigger" yaml:"leftTrigger" toml:"leftTrigger"`
	RightTrigger Trigger `json:"rightTrigger" yaml:"rightTrigger" toml:"rightTrigger"`
}

type Trigger struct {
	Mode  uint8 `json:"mode" yaml:"mode" toml:"mode"`
	Start uint8 `json:"start" yaml:"start" toml:"start"`
	Force uint8 `json:"force" yaml:"force" toml:"force"`
}

// Default returns the stock profile: a plain pass-through pad mapping with a
// blue lightbar and no trigger effects.
func Default() *Profile {
	return &Profile{
		Mappings: map[string][]string{
			"cross":       {"pad:a"},
			"circle":      {"pad:b"},
			"square":      {"pad:x"},
			"triangle":    {"pad:y"},
			"l1":          {"pad:lb"},
			"r1":          {"pad:rb"},
			"l3":          {"pad:thumb_l"},
			"r3":          {"pad:thumb_r"},
			"options":     {"pad:start"},
			"share":       {"pad:back"},
			"ps":          {"pad:guide"},
			"dpad_up":     {"pad:dpad_up"},
			"dpad_down":   {"pad:dpad_down"},
			"dpad_left":   {"pad:dpad_left"},
			"dpad_right":  {"pad:dpad_right"},
			"left_stick":  {"pad:ls"},
			"right_stick": {"pad:rs"},
			"l2":          {"pad:lt"},
			"r2":          {"pad:rt"},
		},
		Tunables: Tunables{
			DeadzoneLeft:  0.1,
			DeadzoneRight: 0.1,
			SensLeft:      25,
			SensRight:     25,
			SensTouchpad:  25,
		},
		Output: Output{
			LightbarBlue:    255,
			Brightness:      255,
			PeriodicRefresh: true,
		},
	}
}

// Load reads a profile from path, picking the codec by extension.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &Profile{}
	switch ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, p)
	case ".json":
		err = json.Unmarshal(data, p)
	default:
		return nil, fmt.Errorf("unsupported profile format %q", ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Save writes the profile to path, picking the codec by extension.
func (p *Profile) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch ext(path) {
	case ".toml":
		data, err = toml.Marshal(p)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	case ".json":
		data, err = json.MarshalIndent(p, "", "  ")
	default:
		return fmt.Errorf("unsupported profile format %q", ext(path))
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Compile resolves the serialized mapping into the engine's table and
// tunables. Entries are sorted by source name so the table order is stable
// across loads.
func (p *Profile) Compile() (mapping.Table, mapping.Tunables, error) {
	sources := make([]string, 0, len(p.Mappings))
	for src := range p.Mappings {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var table mapping.Table
	for _, src := range sources {
		ctrl, err := mapping.ParseControl(src)
		if err != nil {
			return nil, mapping.Tunables{}, err
		}
		entry := mapping.Entry{Source: ctrl}
		for _, ts := range p.Mappings[src] {
			t, err := ParseTarget(ts)
			if err != nil {
				return nil, mapping.Tunables{}, fmt.Errorf("mapping %q: %w", src, err)
			}
			entry.Targets = append(entry.Targets, t)
		}
		table = append(table, entry)
	}

	tun := mapping.Tunables{
		DeadzoneLeft:  p.Tunables.DeadzoneLeft,
		DeadzoneRight: p.Tunables.DeadzoneRight,
		SensLeft:      p.Tunables.SensLeft,
		SensRight:     p.Tunables.SensRight,
		SensTouchpad:  p.Tunables.SensTouchpad,
	}
	return table, tun, nil
}

// OutputSettings converts the profile output section into the controller
// codec's settings struct, applying brightness scaling to the lightbar.
func (p *Profile) OutputSettings() dualsense.OutputSettings {
	r, g, b := dualsense.ScaleRGB(p.Output.LightbarRed, p.Output.LightbarGreen, p.Output.LightbarBlue, p.Output.Brightness)
	return dualsense.OutputSettings{
		Red:                 r,
		Green:               g,
		Blue:                b,
		PlayerLEDs:          dualsense.PlayerLEDCenter,
		PlayerLEDBrightness: 0,
		Left: dualsense.TriggerEffect{
			Mode:  p.Output.LeftTrigger.Mode,
			Start: p.Output.LeftTrigger.Start,
			Force: p.Output.LeftTrigger.Force,
		},
		Right: dualsense.TriggerEffect{
			Mode:  p.Output.RightTrigger.Mode,
			Start: p.Output.RightTrigger.Start,
			Force: p.Output.RightTrigger.Force,
		},
	}
}
