// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package datatable builds report rows from benchmark datastore
// records.
//
// Build evaluates every configured column against every record and,
// when splitting is enabled, turns a record whose columns hold several
// values per sample into one row per sample.
package datatable

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/perfkit/testrunreport/colspec"
)

// A Record is one datastore entry, as decoded from JSON.
type Record map[string]any

// Metadata describes the whole test run.
type Metadata map[string]any

// Record keys that locate a record's results.
const (
	PathLevel1 = "path_lv_1"
	PathLevel2 = "path_lv_2"
)

// Wrong marks a sample cell whose column ran out of values before the
// record ran out of samples.
const Wrong = "WRONG"

// Options controls Build.
type Options struct {
	// Split enables one output row per sample.
	Split bool

	// Mismatch, if non-nil, is called for every sequence column
	// that is shorter than the record's sample count. Those cells
	// are filled with Wrong.
	Mismatch func(Mismatch)
}

// A Mismatch describes a sequence column with too few values.
type Mismatch struct {
	Record  int    // Index of the record in the datastore
	Column  string // Display name of the column
	Len     int    // Number of values in the column
	Samples int    // Number of samples of the record
}

// Build returns the rows for records, in order. Each record yields one
// row, or one row per sample if opts.Split is set and some column
// holds more than one value.
//
// Extraction errors abort the build.
func Build(records []Record, md Metadata, cols []colspec.Column, opts Options) ([]*Row, error) {
	var rows []*Row
	for i, rec := range records {
		row, err := buildRow(rec, md, cols)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if !opts.Split {
			rows = append(rows, row)
			continue
		}
		samples, err := splitRow(i, row, rec, opts.Mismatch)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, samples...)
	}
	return rows, nil
}

func buildRow(rec Record, md Metadata, cols []colspec.Column) (*Row, error) {
	row := NewRow()
	for _, col := range cols {
		v, err := extract(col.Source, rec, md)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.DisplayName(), err)
		}
		row.Set(col.DisplayName(), v)
	}
	return row, nil
}

func extract(src colspec.Source, rec Record, md Metadata) (any, error) {
	switch src := src.(type) {
	case colspec.Metadata:
		return md[src.Key], nil

	case colspec.Datastore:
		matches, err := src.Query.Eval(map[string]any(rec))
		if err != nil {
			return nil, err
		}
		if src.HasFactor {
			for i, m := range matches {
				matches[i] = scale(m, src.Factor)
			}
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
		return matches, nil

	case colspec.Auto:
		switch src.Kind {
		case colspec.AutoSample:
			return 0, nil
		case colspec.AutoPath:
			return recordPath(rec)
		}
		panic(fmt.Sprintf("unknown auto column kind %v", src.Kind))
	}
	panic(fmt.Sprintf("unknown column source %T", src))
}

// scale multiplies a numeric value by f. Integers stay integers when
// f is integral. Other values are returned unchanged.
func scale(v any, f float64) any {
	switch v := v.(type) {
	case int:
		if f == math.Trunc(f) && math.Abs(f) < 1<<31 {
			if p, ok := mulInt(v, int(f)); ok {
				return p
			}
		}
		return float64(v) * f
	case float64:
		return v * f
	case *big.Int:
		x, _ := new(big.Float).SetInt(v).Float64()
		return x * f
	}
	return v
}

// mulInt returns a*b and whether the product fits in an int.
func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// joinPath appends elem to dir with a slash, without cleaning the
// result. An absolute elem replaces dir.
func joinPath(dir, elem string) string {
	switch {
	case dir == "" || strings.HasPrefix(elem, "/"):
		return elem
	case strings.HasSuffix(dir, "/"):
		return dir + elem
	}
	return dir + "/" + elem
}

func recordPath(rec Record) (string, error) {
	var parts [2]string
	for i, key := range []string{PathLevel1, PathLevel2} {
		v, ok := rec[key]
		if !ok {
			return "", fmt.Errorf("record has no %q", key)
		}
		if s, ok := v.(string); ok {
			parts[i] = s
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return joinPath(parts[0], parts[1]), nil
}

// splitRow expands row into one row per sample. See Build.
func splitRow(index int, row *Row, rec Record, mismatch func(Mismatch)) ([]*Row, error) {
	samples := 1
	for _, name := range row.Names() {
		if seq, ok := row.vals[name].([]any); ok && len(seq) > samples {
			samples = len(seq)
		}
	}
	if samples == 1 {
		return []*Row{row}, nil
	}

	base, err := basePath(row, rec)
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		for _, name := range row.Names() {
			if seq, ok := row.vals[name].([]any); ok && len(seq) < samples {
				mismatch(Mismatch{Record: index, Column: name, Len: len(seq), Samples: samples})
			}
		}
	}

	// rest holds the values not yet consumed by earlier samples.
	rest := row.Clone()
	out := make([]*Row, 0, samples)
	for i := 1; i <= samples; i++ {
		sample := NewRow()
		for _, name := range rest.Names() {
			v := rest.vals[name]
			seq, ok := v.([]any)
			switch {
			case !ok:
				sample.Set(name, v)
			case len(seq) == 0:
				sample.Set(name, Wrong)
				rest.vals[name] = Wrong
			case len(seq) == 1:
				sample.Set(name, seq[0])
				rest.vals[name] = Wrong
			default:
				sample.Set(name, seq[0])
				rest.vals[name] = seq[1:]
			}
		}
		sample.Set(colspec.SampleColumn, i)
		sample.Set(colspec.PathColumn, joinPath(base, "sample"+strconv.Itoa(i)))
		out = append(out, sample)
	}
	return out, nil
}

// basePath returns the path that sample paths are built under: the
// row's Path column if it has one, otherwise the record's path.
func basePath(row *Row, rec Record) (string, error) {
	if v, ok := row.Get(colspec.PathColumn); ok {
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	}
	return recordPath(rec)
}
