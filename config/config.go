// Package config loads videoreport defaults.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// VIDEOREPORT_* environment variables. Command-line flags are applied on top
// by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. VIDEOREPORT_REPORT_LIMIT
	EnvPrefix = "VIDEOREPORT_"
	// ConfigPathEnvVar overrides the config file location
	ConfigPathEnvVar = EnvPrefix + "CONFIG"
)

// Config holds the persistent defaults for report runs
type Config struct {
	Library string       `koanf:"library" validate:"required"`
	Report  ReportConfig `koanf:"report"`
	Log     LogConfig    `koanf:"log"`
}

// ReportConfig holds report defaults
type ReportConfig struct {
	Limit  int    `koanf:"limit" validate:"min=0"`
	Format string `koanf:"format" validate:"oneof=table csv json"`
	Sort   string `koanf:"sort" validate:"oneof=duration date size filename"`
}

// LogConfig holds diagnostic logging settings
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// DefaultLibraryPath is where Photos keeps the system library
func DefaultLibraryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "Photos Library.photoslibrary"
	}
	return filepath.Join(home, "Pictures", "Photos Library.photoslibrary")
}

// DefaultConfigPath is the config file read when no path is given
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "videoreport", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		Library: DefaultLibraryPath(),
		Report: ReportConfig{
			Limit:  100,
			Format: "table",
			Sort:   "duration",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load builds the configuration. An explicit path must exist; the default
// location is optional.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func resolveConfigPath(path string) (string, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(ConfigPathEnvVar)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigPath()
	}
	if path == "" {
		return "", nil
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config file not accessible: %w", err)
	}
	return path, nil
}

// envTransformFunc maps VIDEOREPORT_REPORT_LIMIT to report.limit.
// VIDEOREPORT_CONFIG only selects the file and is dropped here.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	return strings.Replace(key, "_", ".", 1)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s, got %v", fe.Namespace(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
