// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/perfkit/testrunreport/dataframe"
)

// WriteCSV writes f to w as comma-separated values with a header row.
// If opts.Index is set, the first column has an empty header and holds
// the row number.
func WriteCSV(w io.Writer, f *dataframe.Frame, opts WriteOptions) error {
	o := csv.NewWriter(w)

	hdr := f.Columns()
	if opts.Index {
		hdr = append([]string{""}, hdr...)
	}
	o.Write(hdr)

	for i := 0; i < f.Len(); i++ {
		var rec []string
		if opts.Index {
			rec = append(rec, strconv.Itoa(i))
		}
		for _, v := range f.Row(i) {
			rec = append(rec, dataframe.FormatCell(v))
		}
		o.Write(rec)
	}
	o.Flush()
	return o.Error()
}
