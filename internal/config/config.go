// Package config loads heliotrace's runtime configuration: ephemeris
// source, default perturber set, integrator tolerances, and batch
// limits. Viper resolves a YAML file plus HELIOTRACE_-prefixed
// environment overrides into a typed Config, the same shape the donor's
// client configuration uses.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/medasdigital/heliotrace/pkg/constants"
)

// Config is heliotrace's full runtime configuration surface.
type Config struct {
	Ephemeris  EphemerisConfig  `yaml:"ephemeris" mapstructure:"ephemeris"`
	Integrator IntegratorConfig `yaml:"integrator" mapstructure:"integrator"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
}

// EphemerisConfig controls the ephemeris singleton's initialization.
type EphemerisConfig struct {
	KernelPath     string   `yaml:"kernel_path" mapstructure:"kernel_path"`
	DefaultPlanets []string `yaml:"default_planets" mapstructure:"default_planets"`
}

// IntegratorConfig holds the adaptive N-body integrator's tolerance
// budget as read from configuration. It is parsed and validated only: the
// N-body propagators always integrate with nbody.DefaultRTol and
// nbody.DefaultATol, whatever these fields hold.
type IntegratorConfig struct {
	RTol float64 `yaml:"rtol" mapstructure:"rtol"`
	ATol float64 `yaml:"atol" mapstructure:"atol"`
}

// BatchConfig bounds the batch driver's concurrency and memoization.
type BatchConfig struct {
	MaxSize       int `yaml:"max_size" mapstructure:"max_size"`
	CacheCapacity int `yaml:"cache_capacity" mapstructure:"cache_capacity"`
}

// Default returns heliotrace's built-in configuration: mean-element
// ephemeris fallback, the gas-giant perturber set, the tight tolerance
// budget pkg/nbody.DefaultRTol/DefaultATol mirror, and the batch limits
// the batch command passes to batch.New.
func Default() *Config {
	return &Config{
		Ephemeris: EphemerisConfig{
			KernelPath:     "",
			DefaultPlanets: []string{"jupiter", "saturn", "uranus", "neptune"},
		},
		Integrator: IntegratorConfig{
			RTol: 1e-10,
			ATol: 1e-12,
		},
		Batch: BatchConfig{
			MaxSize:       100,
			CacheCapacity: 256,
		},
	}
}

// Load reads configuration from path (if non-empty), falling back to
// ./heliotrace.yaml and $HOME/.heliotrace/heliotrace.yaml, overlaying
// HELIOTRACE_-prefixed environment variables, and filling in any unset
// field from Default. When no path is given and neither file exists, it
// returns Default unchanged; environment variables are not consulted in
// that case.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("heliotrace")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".heliotrace"))
		}
	}

	v.SetEnvPrefix("HELIOTRACE")
	v.AutomaticEnv()

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Integrator.RTol <= 0 || cfg.Integrator.ATol <= 0 {
		return fmt.Errorf("integrator.rtol and integrator.atol must be positive")
	}
	if cfg.Batch.MaxSize <= 0 {
		return fmt.Errorf("batch.max_size must be positive")
	}
	if cfg.Batch.CacheCapacity <= 0 {
		return fmt.Errorf("batch.cache_capacity must be positive")
	}
	for _, name := range cfg.Ephemeris.DefaultPlanets {
		if _, err := ParsePlanet(name); err != nil {
			return err
		}
	}
	return nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ParsePlanet converts a lowercase planet name from configuration into a
// constants.Planet, rejecting names the ephemeris layer doesn't know.
func ParsePlanet(name string) (constants.Planet, error) {
	switch constants.Planet(name) {
	case constants.Mercury, constants.Venus, constants.Earth, constants.Mars,
		constants.Jupiter, constants.Saturn, constants.Uranus, constants.Neptune:
		return constants.Planet(name), nil
	default:
		return "", fmt.Errorf("unknown planet %q", name)
	}
}

// Planets converts DefaultPlanets into constants.Planet values. Load
// already validated every entry, so this never errors on a config
// returned from Load; callers building a Config by hand should check the
// error.
func (c EphemerisConfig) Planets() ([]constants.Planet, error) {
	out := make([]constants.Planet, 0, len(c.DefaultPlanets))
	for _, name := range c.DefaultPlanets {
		p, err := ParsePlanet(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
