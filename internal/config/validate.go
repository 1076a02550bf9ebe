package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate ensures the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Encoder.Binary == "" {
		return errors.New("encoder.binary must be set")
	}
	if !c.Formats.AllowAny && len(c.Formats.Allowed) == 0 {
		return errors.New("formats.allowed must list at least one format unless formats.allow_any is set")
	}
	if c.Formats.Default == "" {
		return errors.New("formats.default must be set")
	}
	if !c.Formats.AllowAny && !slices.Contains(c.Formats.Allowed, c.Formats.Default) {
		return fmt.Errorf("formats.default %q is not in formats.allowed", c.Formats.Default)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
