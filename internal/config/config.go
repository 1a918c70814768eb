// Package config loads editor settings from an optional YAML file and the
// environment.
//
// Every field has a default, so an absent file is not an error. Values read
// from the file override the defaults field by field, and the environment
// overrides the file:
//
//	IMAGE_EDIT_CONFIG=/path/to/config.yaml   file to load when no path is given
//	IMAGE_EDIT_LOG_LEVEL=debug                enable debug logging
//
// Example file:
//
//	log_level: debug
//	jpeg_quality: 90
//	preview_width: 800
//	effects:
//	  vignette_degree: 300
//	  emboss_bias: 128
//	  noise:
//	    octaves: 4
//	    persistence: 0.5
//	    lacunarity: 2.0
//	    seed: 7
//	  denoise:
//	    sigma_color: 30
//	    sigma_space: 20
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "IMAGE_EDIT_CONFIG"
	EnvLogLevel   = "IMAGE_EDIT_LOG_LEVEL"
)

// Config holds all tunable settings.
type Config struct {
	// LogLevel is "info" (default) or "debug".
	LogLevel string `yaml:"log_level"`

	// JPEGQuality is used when saving .jpg/.jpeg files (1-100).
	JPEGQuality int `yaml:"jpeg_quality"`

	// PreviewWidth is the maximum width of previews returned to clients.
	// Zero disables downscaling.
	PreviewWidth int `yaml:"preview_width"`

	Effects Effects `yaml:"effects"`
}

// Effects holds the fixed parameters of effects whose commands take no value.
type Effects struct {
	VignetteDegree float64              `yaml:"vignette_degree"`
	EmbossBias     float64              `yaml:"emboss_bias"`
	Noise          imaging.NoiseOptions `yaml:"noise"`
	Denoise        Denoise              `yaml:"denoise"`
}

// Denoise holds the bilateral filter falloffs.
type Denoise struct {
	SigmaColor float64 `yaml:"sigma_color"`
	SigmaSpace float64 `yaml:"sigma_space"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:     "info",
		JPEGQuality:  95,
		PreviewWidth: 800,
		Effects: Effects{
			VignetteDegree: imaging.DefaultVignette,
			EmbossBias:     imaging.DefaultEmbossBias,
			Noise:          imaging.DefaultNoiseOptions(),
			Denoise: Denoise{
				SigmaColor: imaging.DefaultSigmaColor,
				SigmaSpace: imaging.DefaultSigmaSpace,
			},
		},
	}
}

// Load reads settings from path, or from $IMAGE_EDIT_CONFIG when path is
// empty. With neither set it returns the defaults plus environment
// overrides. A named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "", "info", "debug":
	default:
		errs = append(errs, fmt.Errorf("log_level %q must be info or debug", c.LogLevel))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality %d must be between 1 and 100", c.JPEGQuality))
	}
	if c.PreviewWidth < 0 {
		errs = append(errs, fmt.Errorf("preview_width %d must not be negative", c.PreviewWidth))
	}
	if c.Effects.VignetteDegree <= 0 {
		errs = append(errs, fmt.Errorf("effects.vignette_degree %g must be positive", c.Effects.VignetteDegree))
	}
	if c.Effects.Noise.Octaves < 1 {
		errs = append(errs, fmt.Errorf("effects.noise.octaves %d must be at least 1", c.Effects.Noise.Octaves))
	}
	return errors.Join(errs...)
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}
