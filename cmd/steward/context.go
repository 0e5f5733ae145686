package main

import (
	"log/slog"
	"strings"
	"sync"

	"steward/internal/config"
	"steward/internal/logging"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		if exists {
			c.configPath = resolvedPath
		}
	})
	return c.config, c.configErr
}

// loadedConfigPath returns the config file actually read, or empty when
// defaults are in effect.
func (c *commandContext) loadedConfigPath() string {
	_, _ = c.ensureConfig()
	return c.configPath
}

func (c *commandContext) logLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		return *c.logLevelFlag
	}
	return cfg.Logging.Level
}

func (c *commandContext) logFormat(cfg *config.Config) string {
	if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
		return *c.logFormatFlag
	}
	return cfg.Logging.Format
}

// buildLogger constructs the process logger, sending output to stdout plus
// any extra paths (typically a log file under the vault's Logs folder).
func (c *commandContext) buildLogger(cfg *config.Config, extraPaths ...string) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:       c.logLevel(cfg),
		Format:      c.logFormat(cfg),
		OutputPaths: append([]string{"stdout"}, extraPaths...),
	})
}
