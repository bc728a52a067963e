// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/perfkit/testrunreport/dataframe"
	"github.com/perfkit/testrunreport/internal/texttab"
)

// WriteText writes f to w as an aligned text table. Numbers and the
// headers of all-numeric columns are right aligned.
func WriteText(w io.Writer, f *dataframe.Frame, opts WriteOptions) error {
	var tab texttab.Table

	cols := f.Columns()
	numeric := make([]bool, len(cols))
	for i, name := range cols {
		numeric[i] = numericColumn(f.Column(name))
	}

	tab.Row()
	if opts.Index {
		tab.Cell("")
	}
	for i, name := range cols {
		tab.Cell(name, alignFor(numeric[i]))
	}
	for i := 0; i < f.Len(); i++ {
		tab.Row()
		if opts.Index {
			tab.Cell(strconv.Itoa(i), texttab.Right)
		}
		for _, v := range f.Row(i) {
			tab.Cell(dataframe.FormatCell(v), alignFor(dataframe.IsNumeric(v)))
		}
	}
	if err := tab.Format(w); err != nil {
		return err
	}

	if !opts.Summary {
		return nil
	}
	st := buildSummary(f, opts.Round)
	if st == nil {
		return nil
	}
	var sum texttab.Table
	sum.Row().Cell("")
	for _, name := range st.Columns {
		sum.Cell(name, texttab.Right)
	}
	for _, r := range st.Stats {
		sum.Row().Cell(r.Name)
		for _, v := range r.Values {
			sum.Cell(v, texttab.Right)
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return sum.Format(w)
}

// numericColumn reports whether every non-empty cell of col is a
// number.
func numericColumn(col []any) bool {
	n := 0
	for _, v := range col {
		if v == nil || v == "" {
			continue
		}
		if !dataframe.IsNumeric(v) {
			return false
		}
		n++
	}
	return n > 0
}

func alignFor(right bool) texttab.CellOption {
	if right {
		return texttab.Right
	}
	return texttab.Left
}
