package airouter

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level router configuration.
type Config struct {
	DispatchMode    DispatchMode     `yaml:"dispatch_mode"`
	RaceWidth       int              `yaml:"race_width"`
	TrackerCapacity int              `yaml:"tracker_capacity"`
	Providers       []ProviderConfig `yaml:"providers"`
}

// ProviderConfig is the static profile of one provider as configured.
type ProviderConfig struct {
	Key               string  `yaml:"key"`
	CostUnits         float64 `yaml:"cost_units"`
	DeclaredLatencyMS int     `yaml:"declared_latency_ms"`
	QualityTier       int     `yaml:"quality_tier"`
	TimeoutMS         int     `yaml:"timeout_ms"`
	DailyBudget       float64 `yaml:"daily_budget"`

	// BaseURL and APIKey feed HTTP-backed adapters; unused by in-process
	// adapters.
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Profile converts the config entry into a StaticProfile.
func (pc ProviderConfig) Profile() StaticProfile {
	return StaticProfile{
		CostUnits:       pc.CostUnits,
		DeclaredLatency: time.Duration(pc.DeclaredLatencyMS) * time.Millisecond,
		QualityTier:     pc.QualityTier,
		DefaultTimeout:  time.Duration(pc.TimeoutMS) * time.Millisecond,
		DailyBudget:     pc.DailyBudget,
	}
}

// LoadConfig reads and parses a YAML config file. Environment variables in
// the format ${VAR} are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("airouter: read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("airouter: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the config for required fields and consistency.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("airouter: config: at least one provider is required")
	}

	keys := make(map[string]bool, len(c.Providers))
	for i, pc := range c.Providers {
		if pc.Key == "" {
			return fmt.Errorf("airouter: config: providers[%d]: key is required", i)
		}
		if keys[pc.Key] {
			return fmt.Errorf("airouter: config: duplicate provider key %q", pc.Key)
		}
		keys[pc.Key] = true

		if pc.DeclaredLatencyMS <= 0 {
			return fmt.Errorf("airouter: config: providers[%d] (%s): declared_latency_ms is required", i, pc.Key)
		}
		if pc.QualityTier < 1 || pc.QualityTier > 10 {
			return fmt.Errorf("airouter: config: providers[%d] (%s): quality_tier must be 1-10", i, pc.Key)
		}
		if pc.CostUnits < 0 {
			return fmt.Errorf("airouter: config: providers[%d] (%s): cost_units must not be negative", i, pc.Key)
		}
		if pc.DailyBudget < 0 {
			return fmt.Errorf("airouter: config: providers[%d] (%s): daily_budget must not be negative", i, pc.Key)
		}
	}

	if c.RaceWidth < 0 {
		return fmt.Errorf("airouter: config: race_width must not be negative")
	}
	if c.TrackerCapacity < 0 {
		return fmt.Errorf("airouter: config: tracker_capacity must not be negative")
	}

	switch c.DispatchMode {
	case "", DispatchAuto, DispatchSequential, DispatchConcurrent:
	default:
		return fmt.Errorf("airouter: config: invalid dispatch_mode %q", c.DispatchMode)
	}

	return nil
}

func (c Config) provider(key string) (ProviderConfig, bool) {
	for _, pc := range c.Providers {
		if pc.Key == key {
			return pc, true
		}
	}
	return ProviderConfig{}, false
}
