package config

import (
	"fmt"
	"strings"
)

var knownFormats = map[string]struct{}{
	"txt": {},
	"md":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	return nil
}

func (c *Config) validateExport() error {
	for _, format := range c.Export.Formats {
		if _, ok := knownFormats[format]; !ok {
			return fmt.Errorf("export.formats: unsupported format %q (known: txt, md)", format)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotify() error {
	if c.Notify.Enabled && c.Notify.Topic == "" {
		return fmt.Errorf("notify.topic is required when notifications are enabled")
	}
	return nil
}
