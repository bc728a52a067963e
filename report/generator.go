// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/perfkit/testrunreport/colspec"
	"github.com/perfkit/testrunreport/config"
	"github.com/perfkit/testrunreport/dataframe"
	"github.com/perfkit/testrunreport/datatable"
	"github.com/perfkit/testrunreport/storage/db"
)

// Options are the inputs of one report generation.
type Options struct {
	Config    string // configuration file
	Datastore string // JSON array of result records
	Metadata  string // JSON object of run metadata
	Format    Format

	// Output is the file to write. Empty means DefaultOutput.
	Output string
}

// OutputPath returns the file the report is written to.
func (o Options) OutputPath() string {
	if o.Output != "" {
		return o.Output
	}
	return DefaultOutput(o.Datastore, o.Format)
}

// DefaultOutput returns testrun_results.<format> in the directory of
// the datastore file.
func DefaultOutput(datastore string, format Format) string {
	return filepath.Join(filepath.Dir(datastore), "testrun_results."+string(format))
}

// A Generator turns a datastore and its metadata into a report. Use
// New, then Load, Build and Write in that order, or Run for all of
// them.
type Generator struct {
	opts Options
	log  log.FieldLogger

	cfg     *config.Generator
	cols    []colspec.Column
	records []datatable.Record
	md      datatable.Metadata
	frame   *dataframe.Frame
}

// New loads and compiles the configuration. An unknown column source
// is reported as a *colspec.UnknownSourceError before any input is
// read.
func New(opts Options, logger log.FieldLogger) (*Generator, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	cols, err := colspec.Compile(cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Config, err)
	}
	g := &Generator{opts: opts, log: logger, cfg: cfg, cols: cols}
	g.showConfig()
	return g, nil
}

// Load reads the datastore and metadata files.
func (g *Generator) Load() error {
	var err error
	g.records, err = readFile(g.opts.Datastore, datatable.ReadDatastore)
	if err != nil {
		return err
	}
	g.md, err = readFile(g.opts.Metadata, datatable.ReadMetadata)
	if err != nil {
		return err
	}
	g.log.WithField("datastore", g.opts.Datastore).Debugf("loaded %d records", len(g.records))
	g.log.WithField("metadata", g.opts.Metadata).Debugf("loaded %d keys", len(g.md))
	return nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	v, err := read(f)
	if err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Build extracts the report rows and returns the rounded and filled
// frame. Sequence columns too short for their record are logged as
// warnings.
func (g *Generator) Build() (*dataframe.Frame, error) {
	short := make(map[int][]string)
	opts := datatable.Options{
		Split: g.cfg.Defaults.Split,
		Mismatch: func(m datatable.Mismatch) {
			short[m.Record] = append(short[m.Record], fmt.Sprintf("%s (%d of %d)", m.Column, m.Len, m.Samples))
		},
	}
	rows, err := datatable.Build(g.records, g.md, g.cols, opts)
	if err != nil {
		return nil, err
	}

	recs := make([]int, 0, len(short))
	for i := range short {
		recs = append(recs, i)
	}
	sort.Ints(recs)
	for _, i := range recs {
		g.log.WithField("record", i).Warnf("columns shorter than the sample count, filled with %s: %s",
			datatable.Wrong, strings.Join(short[i], ", "))
	}

	for _, r := range rows {
		g.log.Debugf("row: %v", r)
	}

	d := g.cfg.Defaults
	g.frame = dataframe.New(rows).Round(d.RoundPlaces()).FillNA(d.FillValue())
	var buf bytes.Buffer
	if err := g.frame.Fprint(&buf); err == nil {
		g.log.Debugf("table:\n%s", buf.String())
	}
	return g.frame, nil
}

// WriteOptions returns the layout options from the configuration.
func (g *Generator) WriteOptions() WriteOptions {
	d := g.cfg.Defaults
	return WriteOptions{Index: d.ShowIndex(), Summary: d.Summary, Round: d.RoundPlaces()}
}

// Write writes the built frame to the output file and returns its
// path. The file is only created once the report rendered without
// error.
func (g *Generator) Write(ctx context.Context) (string, error) {
	if g.frame == nil {
		return "", fmt.Errorf("report not built")
	}
	path := g.opts.OutputPath()
	g.log.WithField("format", g.opts.Format).Debugf("writing %s", path)

	if g.opts.Format == SQLite {
		if err := db.WriteFile(ctx, path, db.ResultsTable, g.frame, g.WriteOptions().Index); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		return path, nil
	}

	var buf bytes.Buffer
	if err := Write(&buf, g.opts.Format, g.frame, g.WriteOptions()); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0666); err != nil {
		return "", err
	}
	return path, nil
}

// Run generates the report described by opts and returns the path of
// the file written.
func Run(ctx context.Context, opts Options, logger log.FieldLogger) (string, error) {
	g, err := New(opts, logger)
	if err != nil {
		return "", err
	}
	if err := g.Load(); err != nil {
		return "", err
	}
	if _, err := g.Build(); err != nil {
		return "", err
	}
	return g.Write(ctx)
}

// showConfig dumps the effective settings at debug level.
func (g *Generator) showConfig() {
	d := g.cfg.Defaults
	g.log.WithFields(log.Fields{
		"config":    g.opts.Config,
		"datastore": g.opts.Datastore,
		"metadata":  g.opts.Metadata,
		"format":    g.opts.Format,
		"output":    g.opts.OutputPath(),
	}).Debug("options")
	g.log.WithFields(log.Fields{
		"split":   d.Split,
		"round":   d.RoundPlaces(),
		"fillna":  d.FillValue(),
		"index":   d.ShowIndex(),
		"summary": d.Summary,
	}).Debug("defaults")
	for _, c := range g.cols {
		g.log.WithField("source", colspec.KindOf(c.Source)).Debugf("column %s", c.DisplayName())
	}
}
