// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides test databases.
package dbtest

import (
	"context"
	"testing"

	"github.com/perfkit/testrunreport/storage/db"
)

// NewDB opens an empty in-memory SQLite database that is closed when
// the test finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	tables, err := d.Tables(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 0 {
		t.Fatalf("found tables %v, want none", tables)
	}
	return d
}
