// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines the YAML configuration of the test run
// report generator.
//
// A configuration file holds a single top-level section:
//
//	testrun_results_generator:
//	  defaults:
//	    split: true
//	    dataframe_round: 2
//	    dataframe_fillna: ""
//	  columns:
//	    - name: Tool
//	      source: metadata
//	      key: tool
//	    - name: IOPS
//	      unit: op/s
//	      source: datastore
//	      jqexpr: .iops[]
//	    - name: Sample
//	      source: auto
//	    - name: Path
//	      source: auto
//
// The column entries are validated and compiled by package colspec.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Section is the name of the top-level section read from a
// configuration file.
const Section = "testrun_results_generator"

// Default formatting values used when a configuration leaves them
// unset.
const (
	DefaultRound  = 2
	DefaultFillNA = ""
)

// Generator is the contents of the Section of a configuration file.
type Generator struct {
	Defaults Defaults `yaml:"defaults"`
	Columns  []Column `yaml:"columns"`
}

// Defaults holds the table-wide settings.
type Defaults struct {
	// Split enables splitting multi-valued rows into one row per
	// sample.
	Split bool `yaml:"split"`

	// Round is the number of decimal places numeric cells are
	// rounded to. Nil means DefaultRound.
	Round *int `yaml:"dataframe_round"`

	// FillNA is substituted for missing cells. Nil means
	// DefaultFillNA.
	FillNA any `yaml:"dataframe_fillna"`

	// Index controls the leading row-number column. Nil means true.
	Index *bool `yaml:"index"`

	// Summary appends per-column statistics to formats that
	// support it.
	Summary bool `yaml:"summary"`
}

// Column is one raw column definition. Which of the source-specific
// fields are meaningful depends on Source.
type Column struct {
	Name   string `yaml:"name"`
	Unit   string `yaml:"unit"`
	Source string `yaml:"source"`

	// Key is the metadata key for source "metadata".
	Key string `yaml:"key"`

	// JQExpr and Factor apply to source "datastore".
	JQExpr string   `yaml:"jqexpr"`
	Factor *float64 `yaml:"factor"`
}

// RoundPlaces returns the configured rounding precision.
func (d Defaults) RoundPlaces() int {
	if d.Round == nil {
		return DefaultRound
	}
	return *d.Round
}

// FillValue returns the configured replacement for missing cells.
func (d Defaults) FillValue() any {
	if d.FillNA == nil {
		return DefaultFillNA
	}
	return d.FillNA
}

// ShowIndex reports whether a row-number column should be emitted.
func (d Defaults) ShowIndex() bool {
	return d.Index == nil || *d.Index
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Generator, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	node, ok := doc[Section]
	if !ok {
		return nil, fmt.Errorf("config has no %q section", Section)
	}
	var g Generator
	if err := node.Decode(&g); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", Section, err)
	}
	if len(g.Columns) == 0 {
		return nil, fmt.Errorf("%s: no columns configured", Section)
	}
	return &g, nil
}

// Load reads and decodes the configuration file at path.
//
// A relative path that does not exist in the working directory is
// looked up in the directory of the running executable, where the
// generator's configuration is traditionally installed.
func Load(path string) (*Generator, error) {
	data, err := os.ReadFile(Resolve(path))
	if err != nil {
		return nil, err
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Resolve returns the path Load reads for path.
func Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	alt := filepath.Join(filepath.Dir(exe), path)
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return path
}
