// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/perfkit/testrunreport/colspec"
	"github.com/perfkit/testrunreport/dataframe"
)

// errNoNumeric is returned by WriteChart when there is nothing to plot.
var errNoNumeric = errors.New("no numeric columns to chart")

// WriteChart writes an SVG line chart of f to w. Each numeric column
// except Sample becomes one series plotted against the row number.
// Non-numeric and non-finite cells are skipped.
func WriteChart(w io.Writer, f *dataframe.Frame, title string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "row"
	pl.Y.Label.Text = "value"
	pl.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	series := 0
	for _, name := range f.Columns() {
		if name == colspec.SampleColumn {
			continue
		}
		var pts plotter.XYs
		for i, v := range f.Column(name) {
			y, ok := dataframe.Float(v)
			if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(i), Y: y})
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(series)
		points.Color = plotutil.Color(series)
		points.Shape = plotutil.Shape(series)
		pl.Add(line, points)
		pl.Legend.Add(name, line, points)
		series++
	}
	if series == 0 {
		return errNoNumeric
	}

	labels := make([]string, f.Len())
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	pl.NominalX(labels...)

	// Widen the chart for long runs.
	width := 16 * vg.Centimeter
	if n := vg.Length(f.Len()); n > 20 {
		width = n * 0.8 * vg.Centimeter
	}
	can := vgsvg.New(width, 10*vg.Centimeter)
	pl.Draw(draw.New(can))
	_, err := can.WriteTo(w)
	return err
}
