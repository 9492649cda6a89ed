package config

import "time"

const (
	DefaultProjectName     = "Feature Browser"
	DefaultOutputDirectory = "featurebrowser"
	DefaultExtension       = ".feature"
	DefaultOutputExtension = ".html"
	DefaultDebounce        = 300 * time.Millisecond
)

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ProjectName == "" {
		c.ProjectName = DefaultProjectName
	}
	if c.OutputDirectory == "" {
		c.OutputDirectory = DefaultOutputDirectory
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.OutputExtension == "" {
		c.OutputExtension = DefaultOutputExtension
	}
	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}
