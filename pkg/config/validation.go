// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/output"
	"github.com/cicd-ai-toolkit/notepack/pkg/sink"
)

const (
	// MaxWorkers is the maximum allowed value for Workers
	MaxWorkers = 64
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c == nil {
		return errors.ConfigError("config is nil", nil)
	}
	if err := c.Budget.Validate(); err != nil {
		return errors.ConfigError("budget", err)
	}
	if err := c.Output.Validate(); err != nil {
		return errors.ConfigError("output", err)
	}
	if err := c.Global.Validate(); err != nil {
		return errors.ConfigError("global", err)
	}
	return nil
}

// Validate validates the budget configuration
func (b *BudgetConfig) Validate() error {
	if b.Chars <= 0 {
		return fmt.Errorf("chars must be positive, got %d", b.Chars)
	}
	return nil
}

// Validate validates the output configuration
func (o *OutputConfig) Validate() error {
	if !slices.Contains(output.Formats, o.Format) {
		return fmt.Errorf("format %q is not one of %s", o.Format, strings.Join(output.Formats, ", "))
	}
	if !slices.Contains(sink.Kinds, o.Sink) {
		return fmt.Errorf("sink %q is not one of %s", o.Sink, strings.Join(sink.Kinds, ", "))
	}
	if o.Sink == sink.KindOutbox && strings.TrimSpace(o.OutboxDir) == "" {
		return fmt.Errorf("outbox_dir is required for the outbox sink")
	}
	return nil
}

// Validate validates the global configuration
func (g *GlobalConfig) Validate() error {
	if !slices.Contains(validLogLevels, strings.ToLower(g.LogLevel)) {
		return fmt.Errorf("log_level %q is not one of %s", g.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(g.LogFormat)) {
		return fmt.Errorf("log_format %q is not one of %s", g.LogFormat, strings.Join(validLogFormats, ", "))
	}
	if g.Workers < 1 || g.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, g.Workers)
	}
	if g.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", g.Timeout)
	}
	return nil
}
