// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Testrunresults turns the results of a test run into a report.
//
// Usage:
//
//	testrunresults [flags]
//
// Testrunresults reads a datastore of benchmark result records (a JSON
// array of objects) and the run's metadata (a JSON object), and builds
// one report row per record, or one row per sample when splitting is
// enabled. The columns of the report are described by a YAML
// configuration file:
//
//	testrun_results_generator:
//	  defaults:
//	    split: true
//	    dataframe_round: 2
//	    dataframe_fillna: ""
//	  columns:
//	    - {name: Tool, source: metadata, key: tool}
//	    - {name: IOPS, unit: op/s, source: datastore, jqexpr: ".iops[]"}
//	    - {name: Sample, source: auto}
//	    - {name: Path, source: auto}
//
// A metadata column copies a key of the metadata. A datastore column
// evaluates a jq expression against each record, optionally scaling
// numbers by a factor. The auto columns Sample and Path hold the sample
// number and the record's path_lv_1/path_lv_2 path.
//
// The flags are:
//
//	-config file
//	    read the column configuration from file
//	    (default generate_testrun_results.yaml). A relative name that
//	    is not found in the current directory is looked up next to
//	    the testrunresults binary.
//	-datastore file
//	    read result records from file (default datastore.json)
//	-metadata file
//	    read run metadata from file (default testrun_metadata.json)
//	-output-format format
//	    write the report as csv, html, txt, svg or sqlite
//	    (default csv)
//	-output file
//	    write the report to file (default testrun_results.<format>
//	    in the datastore's directory)
//	-v
//	    log the configuration, inputs and the built table
//
// Testrunresults exits with status 1 if the configuration names an
// unknown column source or generation fails, and 2 on usage errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/perfkit/testrunreport/colspec"
	"github.com/perfkit/testrunreport/report"
)

var exit = os.Exit // replaced during testing

func main() {
	if err := testrunresults(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		exit(exitCode(err))
	}
}

// A usageError is a command line the flags could not make sense of.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func testrunresults(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("testrunresults", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: testrunresults [flags]\n")
		flags.PrintDefaults()
	}
	flagConfig := flags.String("config", "generate_testrun_results.yaml", "read column configuration from `file`")
	flagDatastore := flags.String("datastore", "datastore.json", "read result records from `file`")
	flagMetadata := flags.String("metadata", "testrun_metadata.json", "read run metadata from `file`")
	flagFormat := flags.String("output-format", string(report.CSV), "write the report in `format`: csv, html, txt, svg or sqlite")
	flagOutput := flags.String("output", "", "write the report to `file` (default testrun_results.<format> next to the datastore)")
	flagVerbose := flags.Bool("v", false, "log debugging information")
	if err := flags.Parse(args); err != nil {
		return &usageError{err}
	}
	if flags.NArg() > 0 {
		flags.Usage()
		return &usageError{fmt.Errorf("unexpected arguments %q", flags.Args())}
	}
	format, err := report.ParseFormat(*flagFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return &usageError{err}
	}

	logger := log.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if *flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	opts := report.Options{
		Config:    *flagConfig,
		Datastore: *flagDatastore,
		Metadata:  *flagMetadata,
		Format:    format,
		Output:    *flagOutput,
	}
	path, err := report.Run(context.Background(), opts, logger)
	if err != nil {
		var unknown *colspec.UnknownSourceError
		if errors.As(err, &unknown) {
			logger.WithField("column", unknown.Column.Name).Errorf("Unknown type in \"source\": %v", err)
		} else {
			logger.Error(err)
		}
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}
