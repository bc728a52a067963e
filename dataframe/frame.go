// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataframe aggregates report rows into a column-oriented
// table and prepares it for output.
//
// A Frame's columns are the union of the columns of its rows, in the
// order they first appear. Cells are untyped: a column may mix
// numbers and strings (for example, a numeric column with a
// datatable.Wrong marker). A nil cell is missing.
package dataframe

import (
	"io"
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/perfkit/testrunreport/datatable"
	"github.com/shopspring/decimal"
)

// A Frame is an immutable table of report cells.
type Frame struct {
	t *table.Table
}

// New aggregates rows into a Frame. Columns missing from a row are
// missing cells.
func New(rows []*datatable.Row) *Frame {
	var names []string
	index := make(map[string]int)
	for _, r := range rows {
		for _, name := range r.Names() {
			if _, ok := index[name]; !ok {
				index[name] = len(names)
				names = append(names, name)
			}
		}
	}

	cols := make([][]any, len(names))
	for i := range cols {
		cols[i] = make([]any, len(rows))
	}
	for i, r := range rows {
		for _, name := range r.Names() {
			cols[index[name]][i], _ = r.Get(name)
		}
	}

	var b table.Builder
	for i, name := range names {
		b.Add(name, cols[i])
	}
	return &Frame{b.Done()}
}

// Columns returns the column names of f in order.
func (f *Frame) Columns() []string {
	return f.t.Columns()
}

// Len returns the number of rows in f.
func (f *Frame) Len() int {
	return f.t.Len()
}

// Column returns the cells of column name, or nil if f has no such
// column. The caller must not modify the result.
func (f *Frame) Column(name string) []any {
	c := f.t.Column(name)
	if c == nil {
		return nil
	}
	return c.([]any)
}

// Row returns the cells of row i in column order.
func (f *Frame) Row(i int) []any {
	cols := f.Columns()
	out := make([]any, len(cols))
	for j, name := range cols {
		out[j] = f.Column(name)[i]
	}
	return out
}

// Table returns the underlying table. Every column is a []any.
func (f *Frame) Table() *table.Table {
	return f.t
}

// Fprint writes a plain-text dump of f to w.
func (f *Frame) Fprint(w io.Writer) error {
	return table.Fprint(w, f.t)
}

// mapCells returns a copy of f with every cell replaced by fn(cell).
func (f *Frame) mapCells(fn func(any) any) *Frame {
	b := table.NewBuilder(f.t)
	for _, name := range f.Columns() {
		in := f.Column(name)
		out := make([]any, len(in))
		for i, v := range in {
			out[i] = fn(v)
		}
		b.Add(name, out)
	}
	return &Frame{b.Done()}
}

// Round returns a copy of f with every floating-point value rounded
// to places decimal places, including values inside sequence cells.
// Rounding works on the shortest decimal representation of each value
// and rounds halves away from zero, so 2.675 rounds to 2.68. Integers,
// strings and non-finite values are unchanged.
func (f *Frame) Round(places int) *Frame {
	return f.mapCells(func(v any) any { return round(v, int32(places)) })
}

// RoundValue rounds a single cell value the way Round does.
func RoundValue(v any, places int) any {
	return round(v, int32(places))
}

func round(v any, places int32) any {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return v
		}
		r, _ := decimal.NewFromFloat(v).Round(places).Float64()
		return r
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = round(x, places)
		}
		return out
	}
	return v
}

// FillNA returns a copy of f with every missing cell, and every NaN,
// replaced by v.
func (f *Frame) FillNA(v any) *Frame {
	return f.mapCells(func(x any) any {
		if IsMissing(x) {
			return v
		}
		return x
	})
}

// IsMissing reports whether a cell value is missing: nil or NaN.
func IsMissing(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	}
	return false
}
