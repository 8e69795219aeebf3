package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

const (
	DefaultInput         = "planets.txt"
	DefaultDataDir       = ".nbodysim"
	DefaultRecordEvery   = 50
	DefaultFPS           = 30
	DefaultStepsPerFrame = 20
	DefaultTrail         = 40
)

type Config struct {
	Input           string     `yaml:"input"`
	DataDir         string     `yaml:"data_dir"`
	G               float64    `yaml:"g"`
	Duration        float64    `yaml:"duration"`
	Dt              float64    `yaml:"dt"`
	CheckDegenerate bool       `yaml:"check_degenerate"`
	RecordEvery     int        `yaml:"record_every"`
	Live            LiveConfig `yaml:"live"`
}

type LiveConfig struct {
	FPS           int `yaml:"fps"`
	StepsPerFrame int `yaml:"steps_per_frame"`
	Trail         int `yaml:"trail"`
}

func DefaultConfig() *Config {
	return &Config{
		Input:       DefaultInput,
		DataDir:     DefaultDataDir,
		G:           dynamo.DefaultG,
		Duration:    dynamo.DefaultDuration,
		Dt:          dynamo.DefaultDt,
		RecordEvery: DefaultRecordEvery,
		Live: LiveConfig{
			FPS:           DefaultFPS,
			StepsPerFrame: DefaultStepsPerFrame,
			Trail:         DefaultTrail,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of a copy of base, so keys absent
// from the file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record_every must be non-negative, got %d", c.RecordEvery)
	}
	if c.Live.FPS < 0 || c.Live.StepsPerFrame < 0 || c.Live.Trail < 0 {
		return fmt.Errorf("live settings must be non-negative")
	}
	return nil
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		G:               c.G,
		Duration:        c.Duration,
		Dt:              c.Dt,
		CheckDegenerate: c.CheckDegenerate,
	}
}
