// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/perfkit/testrunreport/dataframe"
	"github.com/perfkit/testrunreport/datatable"
)

func frame(rows ...[]any) *dataframe.Frame {
	var rs []*datatable.Row
	for _, kv := range rows {
		r := datatable.NewRow()
		for i := 0; i < len(kv); i += 2 {
			r.Set(kv[i].(string), kv[i+1])
		}
		rs = append(rs, r)
	}
	return dataframe.New(rs)
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if got, err := ParseFormat("HTML"); err != nil || got != HTML {
		t.Errorf("ParseFormat(HTML) = %q, %v", got, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Errorf("ParseFormat(xlsx): want error")
	}
}

func TestDefaultOutput(t *testing.T) {
	for _, test := range []struct {
		datastore string
		format    Format
		want      string
	}{
		{"datastore.json", CSV, "testrun_results.csv"},
		{"runs/42/datastore.json", HTML, "runs/42/testrun_results.html"},
		{"/tmp/x/datastore.json", SQLite, "/tmp/x/testrun_results.sqlite"},
	} {
		if got := DefaultOutput(test.datastore, test.format); got != test.want {
			t.Errorf("DefaultOutput(%q, %s) = %q, want %q", test.datastore, test.format, got, test.want)
		}
	}
	o := Options{Datastore: "d/datastore.json", Format: Text, Output: "out.txt"}
	if got := o.OutputPath(); got != "out.txt" {
		t.Errorf("OutputPath() = %q, want out.txt", got)
	}
}

func TestWriteCSV(t *testing.T) {
	f := frame(
		[]any{"Tool", "fio", "IOPS", 100, "Note", "a,b"},
		[]any{"Tool", "dd", "IOPS", "WRONG", "Note", ""},
	)
	for _, test := range []struct {
		index bool
		want  string
	}{
		{true, ",Tool,IOPS,Note\n0,fio,100,\"a,b\"\n1,dd,WRONG,\n"},
		{false, "Tool,IOPS,Note\nfio,100,\"a,b\"\ndd,WRONG,\n"},
	} {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, f, WriteOptions{Index: test.index}); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != test.want {
			t.Errorf("index=%v:\nwant:\n%sgot:\n%s", test.index, test.want, got)
		}
	}
}

func TestWriteHTML(t *testing.T) {
	f := frame([]any{"Tool", "<fio>", "IOPS", 3.14})
	var buf bytes.Buffer
	if err := WriteHTML(&buf, f, WriteOptions{Index: true}); err != nil {
		t.Fatal(err)
	}
	want := `<table border="1" class="dataframe">
  <thead>
    <tr style="text-align: right;">
      <th></th>
      <th>Tool</th>
      <th>IOPS</th>
    </tr>
  </thead>
  <tbody>
    <tr>
      <th>0</th>
      <td>&lt;fio&gt;</td>
      <td>3.14</td>
    </tr>
  </tbody>
</table>
`
	if got := buf.String(); got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}

	buf.Reset()
	if err := WriteHTML(&buf, f, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); strings.Contains(got, "<th></th>") || strings.Contains(got, "<th>0</th>") {
		t.Errorf("index disabled but present:\n%s", got)
	}
}

func TestWriteHTMLSummary(t *testing.T) {
	f := frame(
		[]any{"IOPS", 100, "Sample", 1},
		[]any{"IOPS", 200, "Sample", 2},
	)
	var buf bytes.Buffer
	if err := WriteHTML(&buf, f, WriteOptions{Summary: true, Round: 2}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{
		`<table border="1" class="dataframe summary">`,
		"<th>mean</th>\n      <td>150</td>",
		"<th>std</th>\n      <td>70.71</td>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Count(got, "<th>Sample</th>") != 1 {
		t.Errorf("Sample should only appear in the main table:\n%s", got)
	}
}

func TestWriteText(t *testing.T) {
	f := frame(
		[]any{"Tool", "fio", "IOPS", 100, "Lat", 3.14},
		[]any{"Tool", "dd", "IOPS", "WRONG", "Lat", 12.5},
	)
	var buf bytes.Buffer
	if err := WriteText(&buf, f, WriteOptions{Index: true}); err != nil {
		t.Fatal(err)
	}
	want := "   Tool  IOPS    Lat\n0  fio     100  3.14\n1  dd    WRONG  12.5\n"
	if got := buf.String(); got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}

func TestWriteTextSummary(t *testing.T) {
	f := frame(
		[]any{"IOPS", 100, "Sample", 1},
		[]any{"IOPS", 200, "Sample", 2},
	)
	var buf bytes.Buffer
	if err := WriteText(&buf, f, WriteOptions{Summary: true, Round: 2}); err != nil {
		t.Fatal(err)
	}
	want := "IOPS  Sample\n 100       1\n 200       2\n" +
		"\n" +
		"        IOPS\ncount      2\nmean     150\nstd    70.71\nmin      100\n50%      150\nmax      200\n"
	if got := buf.String(); got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}

func TestWriteChart(t *testing.T) {
	f := frame(
		[]any{"Tool", "fio", "IOPS", 100, "Lat", 1.5, "Sample", 1},
		[]any{"Tool", "fio", "IOPS", 200, "Lat", "WRONG", "Sample", 2},
	)
	var buf bytes.Buffer
	if err := WriteChart(&buf, f, "results"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("output is not SVG:\n%.200s", buf.String())
	}

	err := WriteChart(&buf, frame([]any{"Tool", "fio", "Sample", 1}), "results")
	if !errors.Is(err, errNoNumeric) {
		t.Errorf("chart of non-numeric frame: got %v, want %v", err, errNoNumeric)
	}
}

func TestWriteSQLiteStream(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, SQLite, frame([]any{"a", 1}), WriteOptions{}); err == nil {
		t.Error("writing sqlite to a stream: want error")
	}
}
