// Package config holds the runner configuration for the abcmove binary.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the abcmove runner configuration.
type Config struct {
	Run      RunConfig      `yaml:"run"`
	Priors   []PriorConfig  `yaml:"priors"`
	Parallel ParallelConfig `yaml:"parallel"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RunConfig holds the inference run settings.
type RunConfig struct {
	Draws      int       `yaml:"draws"`      // prior draws to simulate
	Steps      int       `yaml:"steps"`      // steps per simulated trajectory
	Seed       uint64    `yaml:"seed"`       // 0 = fixed default seed
	Proportion float64   `yaml:"proportion"` // acceptance proportion in (0, 1]
	Quantiles  []float64 `yaml:"quantiles"`  // two credible-interval levels
	Adjust     bool      `yaml:"adjust"`     // regression adjustment
	MAP        bool      `yaml:"map"`        // truncated-normal MAP estimation
	GridSize   int       `yaml:"grid_size"`  // environment grid side length
	Targets    int       `yaml:"targets"`    // synthetic observed targets
}

// PriorConfig is one uniform prior over a named parameter.
type PriorConfig struct {
	Name string  `yaml:"name"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

// ParallelConfig holds MAP batch execution settings.
type ParallelConfig struct {
	Mode    string `yaml:"mode"`    // sequential, parallel, auto
	Workers int    `yaml:"workers"` // explicit worker count for mode: parallel
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// MetricsConfig holds the optional metrics endpoint settings.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 = metrics endpoint disabled
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Run.Draws <= 0 {
		c.Run.Draws = 10000
	}
	if c.Run.Steps <= 0 {
		c.Run.Steps = 200
	}
	if c.Run.Seed == 0 {
		c.Run.Seed = 42
	}
	if c.Run.Proportion <= 0 {
		c.Run.Proportion = 0.001
	}
	if len(c.Run.Quantiles) == 0 {
		c.Run.Quantiles = []float64{0.025, 0.975}
	}
	if c.Run.GridSize <= 0 {
		c.Run.GridSize = 100
	}
	if c.Run.Targets <= 0 {
		c.Run.Targets = 1
	}
	if len(c.Priors) == 0 {
		c.Priors = []PriorConfig{
			{Name: "perception_range", Min: 1, Max: 15},
			{Name: "niche_optimum", Min: 0, Max: 1},
			{Name: "niche_breadth", Min: 0.05, Max: 1},
			{Name: "observation_error", Min: 0, Max: 2},
		}
	}
	if c.Parallel.Mode == "" {
		c.Parallel.Mode = "sequential"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Run.Proportion <= 0 || c.Run.Proportion > 1 {
		return fmt.Errorf("run.proportion must be in (0, 1], got %v", c.Run.Proportion)
	}
	if len(c.Run.Quantiles) != 2 {
		return fmt.Errorf("run.quantiles must hold exactly two levels, got %d", len(c.Run.Quantiles))
	}
	if c.Run.Quantiles[0] <= 0 || c.Run.Quantiles[1] >= 1 || c.Run.Quantiles[0] >= c.Run.Quantiles[1] {
		return fmt.Errorf("run.quantiles must satisfy 0 < lower < upper < 1, got %v", c.Run.Quantiles)
	}
	for _, p := range c.Priors {
		if p.Name == "" {
			return fmt.Errorf("priors: name is required")
		}
		if p.Min >= p.Max {
			return fmt.Errorf("priors.%s: min %v must be below max %v", p.Name, p.Min, p.Max)
		}
	}
	switch c.Parallel.Mode {
	case "sequential", "auto":
		// ok
	case "parallel":
		if c.Parallel.Workers < 1 {
			return fmt.Errorf("parallel.workers must be a positive integer, got %d", c.Parallel.Workers)
		}
	default:
		return fmt.Errorf(`parallel.mode must be "sequential", "parallel" or "auto", got %q`, c.Parallel.Mode)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnvVars substitutes ${VAR} references with environment values.
func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.TrimSuffix(strings.TrimPrefix(string(match), "${"), "}")
		if val, ok := os.LookupEnv(name); ok {
			return []byte(val)
		}
		return match
	})
}
