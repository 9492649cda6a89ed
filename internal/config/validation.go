package config

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/featurebrowser/internal/foundation"
	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
)

var settingsValidators = foundation.NewValidatorChain(
	foundation.Field(func(c *Config) string { return c.FeaturesDirectory }, foundation.StringNotEmpty("features-directory")),
	foundation.Field(func(c *Config) string { return c.OutputDirectory }, foundation.StringNotEmpty("output-directory")),
	foundation.Field(func(c *Config) string { return c.Extension }, foundation.StringHasPrefix("extension", ".")),
	foundation.Field(func(c *Config) string { return c.OutputExtension }, foundation.StringHasPrefix("output-extension", ".")),
	validateLogging,
	validateExclude,
)

// ValidateSettings checks every setting except the relation between the
// features and output directories, which an output override may change.
func (c *Config) ValidateSettings() error {
	return settingsValidators.Validate(c).ToError(ferrors.CategoryConfig)
}

// Validate reports every problem in one classified config error.
func (c *Config) Validate() error {
	return settingsValidators.Validate(c).Combine(validateDirectories(c)).ToError(ferrors.CategoryConfig)
}

func validateLogging(c *Config) foundation.ValidationResult {
	result := foundation.Valid()
	if _, err := logLevelNormalizer.NormalizeWithError(c.Logging.Level); err != nil {
		result = result.Combine(foundation.Invalid(foundation.NewFieldError("logging.level", "one_of", err.Error())))
	}
	if _, err := logFormatNormalizer.NormalizeWithError(c.Logging.Format); err != nil {
		result = result.Combine(foundation.Invalid(foundation.NewFieldError("logging.format", "one_of", err.Error())))
	}
	return result
}

func validateExclude(c *Config) foundation.ValidationResult {
	result := foundation.Valid()
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			result = result.Combine(foundation.Invalid(foundation.NewFieldError("exclude", "pattern", fmt.Sprintf("invalid pattern %q", p))))
		}
	}
	return result
}

// validateDirectories refuses an output directory that contains the
// features directory; clearing it would delete the sources.
func validateDirectories(c *Config) foundation.ValidationResult {
	if c.FeaturesDirectory == "" || c.OutputDirectory == "" {
		return foundation.Valid()
	}
	features, err1 := filepath.Abs(c.FeaturesDirectory)
	output, err2 := filepath.Abs(c.OutputDirectory)
	if err1 != nil || err2 != nil {
		return foundation.Valid()
	}
	rel, err := filepath.Rel(output, features)
	if err == nil && filepath.IsLocal(rel) {
		return foundation.Invalid(foundation.NewFieldError("output-directory", "overlap",
			"must not contain the features directory"))
	}
	return foundation.Valid()
}
