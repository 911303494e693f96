// Package config reads service configuration from the environment and an
// optional planning YAML file. Environment variables carry wiring choices
// (addresses, URLs, paths); the YAML file carries planning parameters that
// operators tune per deployment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns an environment variable or the fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetDuration parses an environment variable as a time.Duration, falling
// back when the variable is unset or malformed.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// Planning holds the operator-tunable parameters of the solver-backed
// strategies. Zero values mean "use the built-in default".
type Planning struct {
	Weights struct {
		Cost     float64 `yaml:"cost"`
		Distance float64 `yaml:"distance"`
	} `yaml:"weights"`

	PriceSentinel float64 `yaml:"price_sentinel"`
	VisitGuard    float64 `yaml:"visit_guard"`
}

// LoadPlanning reads a planning YAML file. A missing path returns an empty
// Planning so deployments without the file run on defaults.
func LoadPlanning(path string) (Planning, error) {
	var p Planning
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("load planning config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("load planning config: parse %q: %w", path, err)
	}
	return p, nil
}
