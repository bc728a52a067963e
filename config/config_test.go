// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const fioConfig = `
testrun_results_generator:
  defaults:
    split: true
    dataframe_round: 3
    dataframe_fillna: "NaN"
  columns:
    - name: Tool
      source: metadata
      key: tool
    - name: BW
      unit: MiB/s
      source: datastore
      jqexpr: .bw[]
      factor: 0.0009765625
    - name: Sample
      source: auto
`

func TestParse(t *testing.T) {
	g, err := Parse([]byte(fioConfig))
	if err != nil {
		t.Fatal(err)
	}
	factor := 0.0009765625
	want := &Generator{
		Defaults: Defaults{Split: true, Round: intp(3), FillNA: "NaN"},
		Columns: []Column{
			{Name: "Tool", Source: "metadata", Key: "tool"},
			{Name: "BW", Unit: "MiB/s", Source: "datastore", JQExpr: ".bw[]", Factor: &factor},
			{Name: "Sample", Source: "auto"},
		},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := g.Defaults.RoundPlaces(); got != 3 {
		t.Errorf("RoundPlaces() = %d, want 3", got)
	}
	if got := g.Defaults.FillValue(); got != "NaN" {
		t.Errorf("FillValue() = %v, want NaN", got)
	}
	if !g.Defaults.ShowIndex() {
		t.Errorf("ShowIndex() = false, want true by default")
	}
}

func TestDefaults(t *testing.T) {
	g, err := Parse([]byte(`
testrun_results_generator:
  columns:
    - {name: Path, source: auto}
`))
	if err != nil {
		t.Fatal(err)
	}
	d := g.Defaults
	if d.Split {
		t.Errorf("Split = true, want false")
	}
	if got := d.RoundPlaces(); got != DefaultRound {
		t.Errorf("RoundPlaces() = %d, want %d", got, DefaultRound)
	}
	if got := d.FillValue(); got != DefaultFillNA {
		t.Errorf("FillValue() = %v, want %q", got, DefaultFillNA)
	}

	g, err = Parse([]byte(`
testrun_results_generator:
  defaults: {index: false, dataframe_fillna: 0}
  columns:
    - {name: Path, source: auto}
`))
	if err != nil {
		t.Fatal(err)
	}
	if g.Defaults.ShowIndex() {
		t.Errorf("ShowIndex() = true, want false")
	}
	if got := g.Defaults.FillValue(); got != 0 {
		t.Errorf("FillValue() = %#v, want 0", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		name, doc, want string
	}{
		{"syntax", "testrun_results_generator: [", "decoding config"},
		{"noSection", "other:\n  columns: []\n", `no "testrun_results_generator" section`},
		{"noColumns", "testrun_results_generator:\n  defaults: {split: true}\n", "no columns"},
		{"badType", "testrun_results_generator:\n  columns: 3\n", "decoding testrun_results_generator"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.doc))
			if err == nil {
				t.Fatalf("want error containing %q, got nil", test.want)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not contain %q", err, test.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generate_testrun_results.yaml")
	if err := os.WriteFile(path, []byte(fioConfig), 0666); err != nil {
		t.Fatal(err)
	}
	g, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Columns) != 3 {
		t.Errorf("got %d columns, want 3", len(g.Columns))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("Load of missing file: got %v, want not-exist error", err)
	}
}

func intp(x int) *int { return &x }
