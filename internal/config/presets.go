package config

import (
	"sort"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

const year = 31557600.0

// Presets are named timing sets applied on top of a universe file.
var Presets = map[string]*Config{
	"planets": {
		G: dynamo.DefaultG, Duration: dynamo.DefaultDuration, Dt: dynamo.DefaultDt, RecordEvery: 50,
	},
	"year": {
		G: dynamo.DefaultG, Duration: year, Dt: dynamo.DefaultDt, RecordEvery: 10,
	},
	"fine": {
		G: dynamo.DefaultG, Duration: dynamo.DefaultDuration, Dt: 2500.0, RecordEvery: 500,
	},
	"strict": {
		G: dynamo.DefaultG, Duration: dynamo.DefaultDuration, Dt: dynamo.DefaultDt, RecordEvery: 50,
		CheckDegenerate: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the preset's physics and sampling onto c, keeping c's
// input, data directory and live settings.
func (c *Config) Apply(p *Config) {
	c.G = p.G
	c.Duration = p.Duration
	c.Dt = p.Dt
	c.CheckDegenerate = p.CheckDegenerate
	c.RecordEvery = p.RecordEvery
}
