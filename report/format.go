// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders test run results and drives the whole
// generation pipeline.
//
// The supported output formats are CSV, HTML, aligned text, an SVG
// chart and a SQLite database. All of them take a dataframe.Frame that
// has already been rounded and filled.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/perfkit/testrunreport/colspec"
	"github.com/perfkit/testrunreport/dataframe"
)

// A Format is an output file format. Its string form is also the
// default file extension.
type Format string

const (
	CSV    Format = "csv"
	HTML   Format = "html"
	Text   Format = "txt"
	SVG    Format = "svg"
	SQLite Format = "sqlite"
)

// Formats lists the output formats in the order they are documented.
var Formats = []Format{CSV, HTML, Text, SVG, SQLite}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// WriteOptions controls the layout of tabular formats.
type WriteOptions struct {
	// Index adds a leading column of row numbers, starting at 0.
	Index bool

	// Summary appends per-column statistics (HTML and text only).
	Summary bool

	// Round is the number of decimal places used for summary
	// statistics.
	Round int
}

// Write renders f to w in format. SQLite cannot be written to a
// stream; use db.WriteFile for it.
func Write(w io.Writer, format Format, f *dataframe.Frame, opts WriteOptions) error {
	switch format {
	case CSV:
		return WriteCSV(w, f, opts)
	case HTML:
		return WriteHTML(w, f, opts)
	case Text:
		return WriteText(w, f, opts)
	case SVG:
		return WriteChart(w, f, "Test run results")
	case SQLite:
		return fmt.Errorf("%s output must be written to a file", format)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// A summaryTable is the statistics of a frame laid out like the frame
// itself: one column per summarized column, one row per statistic.
type summaryTable struct {
	Columns []string
	Stats   []statRow
}

type statRow struct {
	Name   string
	Values []string
}

func buildSummary(f *dataframe.Frame, places int) *summaryTable {
	sums := f.Summary(colspec.SampleColumn)
	if len(sums) == 0 {
		return nil
	}
	st := &summaryTable{}
	for _, s := range sums {
		st.Columns = append(st.Columns, s.Column)
	}
	for i, name := range dataframe.SummaryStats {
		row := statRow{Name: name}
		for _, s := range sums {
			v := s.Values()[i]
			row.Values = append(row.Values, formatStat(v, places))
		}
		st.Stats = append(st.Stats, row)
	}
	return st
}

func formatStat(v float64, places int) string {
	cell := dataframe.RoundValue(v, places)
	if dataframe.IsMissing(cell) {
		return ""
	}
	return dataframe.FormatCell(cell)
}
