package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		ProjectName:       "My Project",
		FeaturesDirectory: "features",
		OutputDirectory:   "build/featurebrowser",
		Extension:         DefaultExtension,
		OutputExtension:   DefaultOutputExtension,
		Logging:           LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
		VerifyLinks:       true,
	}
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(&File{FeatureBrowser: Example()})
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryWrite, "create configuration directory").WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryWrite, "write configuration").WithContext("path", path).Build()
	}
	return nil
}
