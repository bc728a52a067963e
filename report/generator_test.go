// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/perfkit/testrunreport/colspec"
	"github.com/perfkit/testrunreport/storage/db"
)

const testConfig = `
testrun_results_generator:
  defaults:
    split: true
    dataframe_round: 2
  columns:
    - {name: Tool, source: metadata, key: tool}
    - {name: IOPS, unit: k, source: datastore, jqexpr: ".iops[]", factor: 0.001}
    - {name: Lat, unit: ms, source: datastore, jqexpr: ".lat"}
    - {name: Sample, source: auto}
    - {name: Path, source: auto}
`

const testDatastore = `[
  {"path_lv_1": "fio", "path_lv_2": "randread", "iops": [1234, 5678], "lat": [3.14159]},
  {"path_lv_1": "fio", "path_lv_2": "seqread", "iops": [2000], "lat": 1.5}
]`

const testMetadata = `{"tool": "fio"}`

// writeInputs writes the test inputs into a new directory and returns
// options reading them.
func writeInputs(t *testing.T, config string) Options {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"config.yaml":    config,
		"datastore.json": testDatastore,
		"metadata.json":  testMetadata,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0666); err != nil {
			t.Fatal(err)
		}
	}
	return Options{
		Config:    filepath.Join(dir, "config.yaml"),
		Datastore: filepath.Join(dir, "datastore.json"),
		Metadata:  filepath.Join(dir, "metadata.json"),
		Format:    CSV,
	}
}

func quietLogger() (*log.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return logger, hook
}

func TestRunCSV(t *testing.T) {
	opts := writeInputs(t, testConfig)
	logger, hook := quietLogger()

	path, err := Run(context.Background(), opts, logger)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(filepath.Dir(opts.Datastore), "testrun_results.csv"); path != want {
		t.Errorf("wrote %s, want %s", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `,Tool,IOPS(k),Lat(ms),Sample,Path
0,fio,1.23,3.14,1,fio/randread/sample1
1,fio,5.68,WRONG,2,fio/randread/sample2
2,fio,2,1.5,0,fio/seqread
`
	if string(got) != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			warned = true
			if e.Data["record"] != 0 || !strings.Contains(e.Message, "Lat(ms) (1 of 2)") {
				t.Errorf("unexpected warning: %v %s", e.Data, e.Message)
			}
		}
	}
	if !warned {
		t.Error("short Lat column was not reported")
	}
}

func TestRunSQLite(t *testing.T) {
	opts := writeInputs(t, testConfig)
	opts.Format = SQLite
	opts.Output = filepath.Join(t.TempDir(), "out.db")
	logger, _ := quietLogger()

	if _, err := Run(context.Background(), opts, logger); err != nil {
		t.Fatal(err)
	}
	d, err := db.Open(opts.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	cols, rows, err := d.ReadTable(context.Background(), db.ResultsTable)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"index", "Tool", "IOPS(k)", "Lat(ms)", "Sample", "Path"}, cols); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if diff := cmp.Diff([]any{int64(2), "fio", 2.0, 1.5, int64(0), "fio/seqread"}, rows[2]); diff != "" {
		t.Errorf("row 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestRunUnknownSource(t *testing.T) {
	config := strings.Replace(testConfig, "source: metadata", "source: environment", 1)
	opts := writeInputs(t, config)
	// Inputs are not read when the configuration is invalid.
	opts.Datastore = filepath.Join(filepath.Dir(opts.Datastore), "missing.json")
	logger, _ := quietLogger()

	_, err := Run(context.Background(), opts, logger)
	var unknown *colspec.UnknownSourceError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want *colspec.UnknownSourceError", err)
	}
	if _, err := os.Stat(opts.OutputPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written despite error: %v", err)
	}
}

func TestRunExtractionError(t *testing.T) {
	config := strings.Replace(testConfig, `".lat"`, `".lat | error"`, 1)
	opts := writeInputs(t, config)
	logger, _ := quietLogger()

	if _, err := Run(context.Background(), opts, logger); err == nil {
		t.Fatal("want error")
	}
	if _, err := os.Stat(opts.OutputPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written despite error: %v", err)
	}
}

func TestGeneratorSteps(t *testing.T) {
	opts := writeInputs(t, testConfig)
	logger, _ := quietLogger()
	g, err := New(opts, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Write(context.Background()); err == nil {
		t.Error("Write before Build: want error")
	}
	if err := g.Load(); err != nil {
		t.Fatal(err)
	}
	f, err := g.Build()
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 3 {
		t.Errorf("frame has %d rows, want 3", f.Len())
	}
	if got := g.WriteOptions(); got != (WriteOptions{Index: true, Round: 2}) {
		t.Errorf("WriteOptions() = %+v", got)
	}
}
