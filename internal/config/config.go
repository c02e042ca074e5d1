// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the configuration of the bithovenc command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bithoven-lang/bithoven/ast"
)

// FileName is the name of the configuration file searched in the working
// directory when no file is given.
const FileName = "bithoven.yaml"

// Config is the configuration. The zero value is not valid, use Default.
type Config struct {
	Target string `yaml:"target"` // target of sources without a target pragma.
	Log    Log    `yaml:"log"`
	Report Report `yaml:"report"`
	Cache  string `yaml:"cache"` // path of the verdict cache, empty to disable it.
	Policy Policy `yaml:"policy"`
}

// Log is the logging configuration.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Report is the report configuration.
type Report struct {
	Format string `yaml:"format"`
}

// Policy holds the standardness switches.
type Policy struct {
	MinimalPush *bool `yaml:"minimal_push"`
}

// Default returns the default configuration.
func Default() *Config {
	minimalPush := true
	return &Config{
		Target: "segwit",
		Log:    Log{Level: "info", Format: "text"},
		Report: Report{Format: "text"},
		Policy: Policy{MinimalPush: &minimalPush},
	}
}

// MinimalPush reports whether the minimal push policy is enabled.
func (c *Config) MinimalPush() bool {
	return c.Policy.MinimalPush == nil || *c.Policy.MinimalPush
}

// DefaultTarget returns the target of sources without a target pragma.
func (c *Config) DefaultTarget() (ast.Target, error) {
	return ast.ParseTarget(c.Target)
}

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
	reportFormats = []string{"text", "json", "markdown", "html"}
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.DefaultTarget(); err != nil {
		return fmt.Errorf("config: invalid target %q", c.Target)
	}
	if !contains(logLevels, c.Log.Level) {
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	if !contains(logFormats, c.Log.Format) {
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	if !contains(reportFormats, c.Report.Format) {
		return fmt.Errorf("config: invalid report format %q", c.Report.Format)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// Decode decodes a YAML configuration from r over the default one and
// validates it. Unknown keys are an error.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration file name. If name is empty, it reads
// FileName if it exists, otherwise it returns the default configuration.
func Load(name string) (*Config, error) {
	optional := name == ""
	if optional {
		name = FileName
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}
