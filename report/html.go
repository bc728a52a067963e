// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"

	"github.com/google/safehtml/template"
	"github.com/perfkit/testrunreport/dataframe"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<table border="1" class="dataframe">
  <thead>
    <tr style="text-align: right;">
{{- if .Index}}
      <th></th>
{{- end}}
{{- range .Columns}}
      <th>{{.}}</th>
{{- end}}
    </tr>
  </thead>
  <tbody>
{{- range .Rows}}
    <tr>
{{- if $.Index}}
      <th>{{.Index}}</th>
{{- end}}
{{- range .Cells}}
      <td>{{.}}</td>
{{- end}}
    </tr>
{{- end}}
  </tbody>
</table>
{{- with .Summary}}
<table border="1" class="dataframe summary">
  <thead>
    <tr style="text-align: right;">
      <th></th>
{{- range .Columns}}
      <th>{{.}}</th>
{{- end}}
    </tr>
  </thead>
  <tbody>
{{- range .Stats}}
    <tr>
      <th>{{.Name}}</th>
{{- range .Values}}
      <td>{{.}}</td>
{{- end}}
    </tr>
{{- end}}
  </tbody>
</table>
{{- end}}
`))

type htmlData struct {
	Index   bool
	Columns []string
	Rows    []htmlRow
	Summary *summaryTable
}

type htmlRow struct {
	Index int
	Cells []string
}

// WriteHTML writes f to w as an HTML table. Cell text is escaped. If
// opts.Summary is set, a second table with per-column statistics
// follows the first.
func WriteHTML(w io.Writer, f *dataframe.Frame, opts WriteOptions) error {
	data := htmlData{Index: opts.Index, Columns: f.Columns()}
	for i := 0; i < f.Len(); i++ {
		r := htmlRow{Index: i}
		for _, v := range f.Row(i) {
			r.Cells = append(r.Cells, dataframe.FormatCell(v))
		}
		data.Rows = append(data.Rows, r)
	}
	if opts.Summary {
		data.Summary = buildSummary(f, opts.Round)
	}
	return htmlTemplate.Execute(w, data)
}
