// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultBudgetChars matches the note size limit of the consuming store.
	DefaultBudgetChars = 60000
	// DefaultWorkers is the default number of entities processed at once.
	DefaultWorkers = 4
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Budget: BudgetConfig{Chars: DefaultBudgetChars},
		Output: OutputConfig{
			Format:    "markdown",
			Sink:      "stdout",
			OutboxDir: filepath.Join(".notepack", "outbox"),
			Title:     "Enrichment",
		},
		Global: GlobalConfig{
			LogLevel:  "info",
			LogFormat: "text",
			Workers:   DefaultWorkers,
			Timeout:   5 * time.Minute,
		},
	}
}

// GetDefaultConfigPath returns the default global config file path.
func GetDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}

// GetProjectConfigPath returns the project config file path.
func GetProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, ProjectConfigFile)
}
