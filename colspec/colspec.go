// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colspec compiles raw column definitions into typed column
// specifications.
//
// Each column draws its values from exactly one Source. The set of
// sources is closed: Metadata, Datastore and Auto. Compile rejects
// anything else, so consumers can switch over the source types
// without a fallback case.
package colspec

import (
	"fmt"

	"github.com/perfkit/testrunreport/config"
	"github.com/perfkit/testrunreport/query"
)

// Source kinds as spelled in configuration files.
const (
	KindMetadata  = "metadata"
	KindDatastore = "datastore"
	KindAuto      = "auto"
)

// A Column is one output column.
type Column struct {
	Name   string
	Unit   string
	Source Source
}

// DisplayName returns the header of column c: its name, followed by
// its unit in parentheses if it has one.
func (c Column) DisplayName() string {
	if c.Unit == "" {
		return c.Name
	}
	return c.Name + "(" + c.Unit + ")"
}

// A Source describes where a column's values come from. It is one of
// Metadata, Datastore or Auto.
type Source interface {
	isSource()
}

// Metadata reads a column from the run metadata.
type Metadata struct {
	Key string
}

// Datastore evaluates a filter expression against each datastore
// record.
type Datastore struct {
	Query query.Evaluator

	// Factor multiplies every numeric match if HasFactor is set.
	Factor    float64
	HasFactor bool
}

// Auto computes a value that does not come from the raw data.
type Auto struct {
	Kind AutoKind
}

// An AutoKind selects the computation of an Auto column.
type AutoKind int

const (
	// AutoSample is the sample number within a record. It is 0
	// until sample splitting assigns 1-based numbers.
	AutoSample AutoKind = iota
	// AutoPath is the record's result path, path_lv_1/path_lv_2.
	AutoPath
)

// Names of the computed columns.
const (
	SampleColumn = "Sample"
	PathColumn   = "Path"
)

var autoKinds = map[string]AutoKind{
	SampleColumn: AutoSample,
	PathColumn:   AutoPath,
}

func (k AutoKind) String() string {
	switch k {
	case AutoSample:
		return SampleColumn
	case AutoPath:
		return PathColumn
	}
	return fmt.Sprintf("AutoKind(%d)", int(k))
}

func (Metadata) isSource()  {}
func (Datastore) isSource() {}
func (Auto) isSource()      {}

// KindOf returns the configuration spelling of the kind of s.
func KindOf(s Source) string {
	switch s.(type) {
	case Metadata:
		return KindMetadata
	case Datastore:
		return KindDatastore
	case Auto:
		return KindAuto
	}
	panic(fmt.Sprintf("unknown source type %T", s))
}

// An UnknownSourceError reports a column whose source is not one of
// the known kinds, or an auto column with no known computation.
type UnknownSourceError struct {
	Column config.Column
}

func (e *UnknownSourceError) Error() string {
	if e.Column.Source == KindAuto {
		return fmt.Sprintf("unknown auto column %q", e.Column.Name)
	}
	return fmt.Sprintf("unknown type in \"source\" %q for column %q", e.Column.Source, e.Column.Name)
}

// Compile converts raw column definitions into Columns, in order.
//
// It returns an *UnknownSourceError for an unrecognized source, and a
// descriptive error for missing parameters or invalid filter
// expressions.
func Compile(cols []config.Column) ([]Column, error) {
	out := make([]Column, 0, len(cols))
	for i, c := range cols {
		col, err := compileColumn(c)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		out = append(out, col)
	}
	return out, nil
}

func compileColumn(c config.Column) (Column, error) {
	if c.Name == "" {
		return Column{}, fmt.Errorf("column has no name")
	}
	col := Column{Name: c.Name, Unit: c.Unit}
	switch c.Source {
	case KindMetadata:
		if c.Key == "" {
			return Column{}, fmt.Errorf("metadata column %q has no key", c.Name)
		}
		col.Source = Metadata{Key: c.Key}

	case KindDatastore:
		if c.JQExpr == "" {
			return Column{}, fmt.Errorf("datastore column %q has no jqexpr", c.Name)
		}
		q, err := query.Compile(c.JQExpr)
		if err != nil {
			return Column{}, fmt.Errorf("datastore column %q: %w", c.Name, err)
		}
		ds := Datastore{Query: q}
		if c.Factor != nil {
			ds.Factor, ds.HasFactor = *c.Factor, true
		}
		col.Source = ds

	case KindAuto:
		kind, ok := autoKinds[c.Name]
		if !ok {
			return Column{}, &UnknownSourceError{c}
		}
		col.Source = Auto{kind}

	default:
		return Column{}, &UnknownSourceError{c}
	}
	return col, nil
}
