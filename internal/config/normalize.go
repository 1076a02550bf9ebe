package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeEncoder()
	c.normalizeFormats()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	if value, ok := os.LookupEnv(binaryEnvOverride); ok && strings.TrimSpace(value) != "" {
		c.Encoder.Binary = value
	}
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = defaultBinary
	}
}

func (c *Config) normalizeFormats() {
	seen := make(map[string]struct{}, len(c.Formats.Allowed))
	allowed := make([]string, 0, len(c.Formats.Allowed))
	for _, f := range c.Formats.Allowed {
		f = normalizeFormat(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		allowed = append(allowed, f)
	}
	c.Formats.Allowed = allowed

	c.Formats.Default = normalizeFormat(c.Formats.Default)
	if c.Formats.Default == "" && len(allowed) > 0 {
		c.Formats.Default = allowed[0]
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ActivityLog) == "" {
		c.Paths.ActivityLog = defaultActivityLog
	}
	if c.Paths.ActivityLog, err = expandPath(c.Paths.ActivityLog); err != nil {
		return fmt.Errorf("paths.activity_log: %w", err)
	}
	if strings.TrimSpace(c.Paths.StartDir) == "" {
		c.Paths.StartDir = defaultStartDir
	}
	if c.Paths.StartDir, err = expandPath(c.Paths.StartDir); err != nil {
		return fmt.Errorf("paths.start_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = filepath.Join(os.TempDir(), defaultLockDirName)
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	if c.Logging.File != "" {
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

// normalizeFormat matches convert.NormalizeFormat.
func normalizeFormat(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}
