// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "NOTEPACK"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".notepack.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".notepack"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	configFile  string
	skipGlobal  bool
	getenv      func(string) string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithConfigFile replaces the global and project files with one explicit
// file, which must exist.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.notepack/config.yaml)
// 3. Project Config (./.notepack.yaml)
// 4. Environment Variables (NOTEPACK_*)
//
// Missing global and project files are skipped; a file that exists but does
// not parse is an error.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configFile != "" {
		fileCfg, err := l.LoadFromPath(l.configFile)
		if err != nil {
			return nil, err
		}
		mergeConfig(cfg, fileCfg)
	} else {
		var paths []string
		if !l.skipGlobal {
			if homeDir, err := os.UserHomeDir(); err == nil {
				paths = append(paths, filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile))
			}
		}
		paths = append(paths, GetProjectConfigPath(l.projectRoot))

		for _, path := range paths {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				continue
			}
			fileCfg, err := l.LoadFromPath(path)
			if err != nil {
				return nil, err
			}
			mergeConfig(cfg, fileCfg)
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads one config file. Only the keys present in the file are
// set; everything else is left zero for merging.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read config file "+path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.ConfigError("failed to parse config file "+path, err).
			WithContext("path", path)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
// Format: NOTEPACK_SECTION__KEY=value
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	env := func(section, key string) string {
		return l.getenv(EnvPrefix + "_" + section + "__" + key)
	}

	if v := env("BUDGET", "CHARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("budget.chars", err)
		}
		cfg.Budget.Chars = n
	}

	if v := env("OUTPUT", "FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := env("OUTPUT", "SINK"); v != "" {
		cfg.Output.Sink = v
	}
	if v := env("OUTPUT", "OUTBOX_DIR"); v != "" {
		cfg.Output.OutboxDir = v
	}
	if v := env("OUTPUT", "TITLE"); v != "" {
		cfg.Output.Title = v
	}

	if v := env("GLOBAL", "LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := env("GLOBAL", "LOG_FORMAT"); v != "" {
		cfg.Global.LogFormat = v
	}
	if v := env("GLOBAL", "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("global.workers", err)
		}
		cfg.Global.Workers = n
	}
	if v := env("GLOBAL", "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("global.timeout", err)
		}
		cfg.Global.Timeout = d
	}
	return nil
}

func envError(field string, err error) error {
	return errors.ConfigError(fmt.Sprintf("invalid environment override for %s", field), err).
		WithContext("field", field)
}

// mergeConfig merges src into dst (src overrides dst).
func mergeConfig(dst, src *Config) {
	if src.Budget.charsSet || src.Budget.Chars != 0 {
		dst.Budget.Chars = src.Budget.Chars
	}

	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Sink != "" {
		dst.Output.Sink = src.Output.Sink
	}
	if src.Output.OutboxDir != "" {
		dst.Output.OutboxDir = src.Output.OutboxDir
	}
	if src.Output.Title != "" {
		dst.Output.Title = src.Output.Title
	}

	if src.Global.LogLevel != "" {
		dst.Global.LogLevel = src.Global.LogLevel
	}
	if src.Global.LogFormat != "" {
		dst.Global.LogFormat = src.Global.LogFormat
	}
	if src.Global.Workers != 0 {
		dst.Global.Workers = src.Global.Workers
	}
	if src.Global.Timeout != 0 {
		dst.Global.Timeout = src.Global.Timeout
	}
}
