// Package config holds the runtime settings of the look server and CLI.
//
// Values come from three layers, lowest first: built-in defaults and LOOK_*
// environment variables (FromEnv), a configuration file (Load, merged with
// Merge), and command-line flags applied by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. LOOK_LOG_LEVEL.
const EnvPrefix = "LOOK"

// Config holds runtime parameters. Zero values in a loaded file mean
// "unspecified".
type Config struct {
	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level" envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `json:"log_format" yaml:"log_format" toml:"log_format" envconfig:"LOG_FORMAT" default:"json"`
	SettingsPath string `json:"settings" yaml:"settings" toml:"settings" envconfig:"SETTINGS"`
	LUTSize      int    `json:"lut_size" yaml:"lut_size" toml:"lut_size" envconfig:"LUT_SIZE" default:"33"`
	ProxyWidth   int    `json:"proxy_width" yaml:"proxy_width" toml:"proxy_width" envconfig:"PROXY_WIDTH" default:"1024"`
	ProxyHeight  int    `json:"proxy_height" yaml:"proxy_height" toml:"proxy_height" envconfig:"PROXY_HEIGHT" default:"1024"`
	RampSize     int    `json:"ramp_size" yaml:"ramp_size" toml:"ramp_size" envconfig:"RAMP_SIZE" default:"8192"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "json",
		LUTSize:     33,
		ProxyWidth:  1024,
		ProxyHeight: 1024,
		RampSize:    8192,
	}
}

// FromEnv returns the defaults overridden by LOOK_* environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge returns c with every non-zero field of o applied on top.
func (c Config) Merge(o Config) Config {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.SettingsPath != "" {
		c.SettingsPath = o.SettingsPath
	}
	if o.LUTSize != 0 {
		c.LUTSize = o.LUTSize
	}
	if o.ProxyWidth != 0 {
		c.ProxyWidth = o.ProxyWidth
	}
	if o.ProxyHeight != 0 {
		c.ProxyHeight = o.ProxyHeight
	}
	if o.RampSize != 0 {
		c.RampSize = o.RampSize
	}
	return c
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.LUTSize < 2 || c.LUTSize > 256:
		return fmt.Errorf("lut_size must be within 2-256, got %d", c.LUTSize)
	case c.ProxyWidth <= 0 || c.ProxyHeight <= 0:
		return fmt.Errorf("proxy size must be positive, got %dx%d", c.ProxyWidth, c.ProxyHeight)
	case c.RampSize < 2:
		return fmt.Errorf("ramp_size must be at least 2, got %d", c.RampSize)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// Resolve builds the effective configuration from the environment and, when
// path is not empty, the file at path.
func Resolve(path string) (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		file, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.Merge(file)
	}
	return cfg, cfg.Validate()
}
