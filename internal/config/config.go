// Package config holds the CLI configuration: defaults, an optional YAML
// file, and flag overrides applied by the commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/keyframes/internal/cache"
	"github.com/ivlev/keyframes/internal/system"
)

type Config struct {
	// ProjectPath is the project file to evaluate. Empty picks the most
	// recent project in ProjectsDir.
	ProjectPath string `yaml:"project"`
	ProjectsDir string `yaml:"projectsDir" validate:"required"`
	// Composition overrides the project's active composition.
	Composition string `yaml:"composition"`

	CacheSize int  `yaml:"cacheSize" validate:"gte=1"`
	NoCache   bool `yaml:"noCache"`
	Workers   int  `yaml:"workers" validate:"gte=1"`

	LogLevel  string `yaml:"logLevel" validate:"oneof=trace debug info warn error"`
	LogFormat string `yaml:"logFormat" validate:"oneof=console json"`
	LogOutput string `yaml:"logOutput"`

	// MetricsAddr serves Prometheus metrics from the watch command when set.
	MetricsAddr  string `yaml:"metricsAddr" validate:"omitempty,hostname_port"`
	OutputFormat string `yaml:"output" validate:"oneof=json yaml"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ProjectsDir:  "projects",
		CacheSize:    cache.DefaultCapacity,
		Workers:      system.DefaultWorkers(),
		LogLevel:     "info",
		LogFormat:    "console",
		OutputFormat: "json",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks every field and joins the failures into one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("invalid %s: %v (%s)", fe.Field(), fe.Value(), fe.Tag()))
	}
	return errors.Join(errs...)
}
