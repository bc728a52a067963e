// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataframe

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A ColumnSummary holds statistics of the numeric cells of one
// column.
type ColumnSummary struct {
	Column string
	N      int // Number of numeric cells

	Mean, StdDev     float64
	Min, Median, Max float64
}

// SummaryStats names the statistics of a ColumnSummary in the order
// reports print them.
var SummaryStats = []string{"count", "mean", "std", "min", "50%", "max"}

// Values returns the statistics of s in SummaryStats order.
func (s ColumnSummary) Values() []float64 {
	return []float64{float64(s.N), s.Mean, s.StdDev, s.Min, s.Median, s.Max}
}

// Summary summarizes every column of f that has at least one finite
// numeric cell, except the columns named in exclude. Non-numeric
// cells, such as datatable.Wrong markers, are ignored. StdDev is the
// sample standard deviation and is NaN for a single value.
func (f *Frame) Summary(exclude ...string) []ColumnSummary {
	skip := make(map[string]bool)
	for _, name := range exclude {
		skip[name] = true
	}

	var out []ColumnSummary
	for _, name := range f.Columns() {
		if skip[name] {
			continue
		}
		var xs []float64
		for _, v := range f.Column(name) {
			if x, ok := Float(v); ok && !math.IsNaN(x) && !math.IsInf(x, 0) {
				xs = append(xs, x)
			}
		}
		if len(xs) == 0 {
			continue
		}
		s := ColumnSummary{Column: name, N: len(xs), StdDev: math.NaN()}
		s.Mean = stats.Mean(xs)
		s.Min, s.Max = stats.Bounds(xs)
		s.Median = stats.Sample{Xs: xs}.Quantile(0.5)
		if len(xs) > 1 {
			s.StdDev = stats.StdDev(xs)
		}
		out = append(out, s)
	}
	return out
}
