package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Mk7214/vidconv/internal/activity"
	"github.com/Mk7214/vidconv/internal/config"
	"github.com/Mk7214/vidconv/internal/convert"
	"github.com/Mk7214/vidconv/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles everything one conversion front end needs.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter *convert.Converter
	activity  *activity.Log
}

func (c *commandContext) newSession(interactive bool) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, interactive)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return newSession(cfg, logger), nil
}

func newSession(cfg *config.Config, logger *slog.Logger) *session {
	return &session{
		cfg:    cfg,
		logger: logger,
		converter: convert.NewConverter(convert.Options{
			Binary:  cfg.Encoder.Binary,
			LockDir: cfg.Paths.LockDir,
			Logger:  logger,
		}),
		activity: activity.New(cfg.Paths.ActivityLog, cfg.Paths.LockDir, logger),
	}
}

func (s *session) policy() convert.FormatPolicy {
	return convert.FormatPolicy{Allowed: s.cfg.Formats.Allowed, AllowAny: s.cfg.Formats.AllowAny}
}
