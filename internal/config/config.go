// Package config loads the featurebrowser YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
)

const (
	// DefaultFile is looked up first when no configuration path is given.
	DefaultFile = "featurebrowser.yml"
	// DistFile is the fallback, typically committed alongside the features.
	DistFile = "featurebrowser.yml.dist"
)

// ErrNotFound is returned when no configuration file exists.
var ErrNotFound = errors.New("configuration file not found")

// File is the on-disk document. Every setting lives under one top-level key.
type File struct {
	FeatureBrowser Config `yaml:"featurebrowser"`
}

// Config holds the settings of one site.
type Config struct {
	ProjectName       string   `yaml:"project-name"`
	FeaturesDirectory string   `yaml:"features-directory"`
	OutputDirectory   string   `yaml:"output-directory"`
	BaseURL           string   `yaml:"base-url,omitempty"`
	Extension         string   `yaml:"extension,omitempty"`
	OutputExtension   string   `yaml:"output-extension,omitempty"`
	Exclude           []string `yaml:"exclude,omitempty"`

	Logging     LoggingConfig `yaml:"logging,omitempty"`
	VerifyLinks bool          `yaml:"verify-links,omitempty"`
	MetricsFile string        `yaml:"metrics-file,omitempty"`
	Watch       WatchConfig   `yaml:"watch,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before a rebuild.
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// Interval schedules periodic full rebuilds; zero disables them.
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Resolve returns the configuration path to use. An explicit path must
// exist; otherwise DefaultFile and then DistFile are tried in dir.
func Resolve(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", notFound(explicit, err)
		}
		return explicit, nil
	}
	for _, name := range []string{DefaultFile, DistFile} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", notFound(filepath.Join(dir, DefaultFile), fs.ErrNotExist)
}

func notFound(path string, cause error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", ErrNotFound, cause), ferrors.CategoryConfig, "configuration file not found").
		WithContext("path", path).
		Build()
}

// Load resolves, reads and validates the configuration. Environment files
// are loaded first so ${VAR} references can use them. The features/output
// overlap is checked by Validate once any output override is applied.
func Load(explicit string) (*Config, string, error) {
	loadEnvFiles()

	path, err := Resolve(explicit, ".")
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration").
			WithContext("path", path).
			Build()
	}
	if err := cfg.ValidateSettings(); err != nil {
		return nil, path, err
	}

	slog.Debug("Configuration loaded", logfields.Path(path))
	return cfg, path, nil
}

// Parse expands environment variables in data, decodes it and applies
// defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	cfg := file.FeatureBrowser
	cfg.ApplyDefaults()
	return &cfg, nil
}
