// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for notepack.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.notepack/config.yaml
// 3. Project Config: ./.notepack.yaml
// 4. Environment Variables: NOTEPACK_*
// 5. Command-line flags (applied by the CLI)
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Budget BudgetConfig `yaml:"budget"`
	Output OutputConfig `yaml:"output"`
	Global GlobalConfig `yaml:"global"`
}

// BudgetConfig sizes sources and notes.
type BudgetConfig struct {
	// Chars is both the per-source character budget and the capacity of a
	// note.
	Chars int `yaml:"chars"`

	// charsSet records that a file named chars, so an explicit 0 is kept
	// for Validate instead of falling back to the default.
	charsSet bool
}

// UnmarshalYAML decodes the budget section and notes which keys it set.
func (b *BudgetConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain BudgetConfig
	if err := value.Decode((*plain)(b)); err != nil {
		return err
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch key := value.Content[i]; key.Value {
		case "chars":
			b.charsSet = true
		default:
			return fmt.Errorf("line %d: field %s not found in budget", key.Line, key.Value)
		}
	}
	return nil
}

// OutputConfig selects how and where chunks go.
type OutputConfig struct {
	Format    string `yaml:"format"`     // adf, markdown, html, terminal
	Sink      string `yaml:"sink"`       // stdout, outbox, memory
	OutboxDir string `yaml:"outbox_dir"` // used by the outbox sink
	Title     string `yaml:"title"`      // info panel title
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel  string        `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string        `yaml:"log_format"` // text, json
	Workers   int           `yaml:"workers"`    // entities processed concurrently
	Timeout   time.Duration `yaml:"timeout"`    // whole run; 0 means none
}
