// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db exports report frames to a SQL database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"text/template"

	_ "github.com/mattn/go-sqlite3"

	"github.com/perfkit/testrunreport/dataframe"
)

// ResultsTable is the table the report generator writes.
const ResultsTable = "testrun_results"

// IndexColumn names the row number column written when the index is
// enabled.
const IndexColumn = "index"

// DB is a SQLite database holding exported frames. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
}

// Open opens the SQLite database at path, creating it if needed.
// The path ":memory:" opens a private in-memory database.
func Open(path string) (*DB, error) {
	return OpenSQL("sqlite3", path)
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. The generated statements
// use SQLite syntax.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", dataSourceName, err)
	}
	return &DB{sql: db}, nil
}

// Close closes the database connections.
func (db *DB) Close() error {
	return db.sql.Close()
}

// createTmpl is the template used to prepare the CREATE statement of
// a replaced table. It is evaluated with a tableDef and yields a single
// statement, since quoted identifiers may contain semicolons.
var createTmpl = template.Must(template.New("create").Funcs(template.FuncMap{
	"quote": quoteIdent,
}).Parse(`
CREATE TABLE {{quote .Name}} (
{{- range $i, $c := .Columns}}{{if $i}},{{end}}
	{{quote $c.Name}}{{with $c.Type}} {{.}}{{end}}
{{- end}}
)
`))

type tableDef struct {
	Name    string
	Columns []columnDef
}

type columnDef struct {
	Name string
	Type string // empty for untyped columns
}

// quoteIdent quotes a SQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ReplaceTable drops table name if it exists and recreates it with the
// contents of f, all in a single transaction. Value columns are
// untyped so integers, reals and text keep their storage class. If
// index is set, an INTEGER column named IndexColumn holding the row
// number comes first.
func (db *DB) ReplaceTable(ctx context.Context, name string, f *dataframe.Frame, index bool) (err error) {
	def := tableDef{Name: name}
	if index {
		def.Columns = append(def.Columns, columnDef{IndexColumn, "INTEGER"})
	}
	for _, c := range f.Columns() {
		if index && c == IndexColumn {
			return fmt.Errorf("column %q collides with the index column", c)
		}
		def.Columns = append(def.Columns, columnDef{Name: c})
	}
	if len(def.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, def); err != nil {
		return err
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, buf.String()); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	names := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		names[i] = quoteIdent(c.Name)
	}
	q := fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)", quoteIdent(name),
		strings.Join(names, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "))
	insert, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer insert.Close()

	for i := 0; i < f.Len(); i++ {
		var args []any
		if index {
			args = append(args, int64(i))
		}
		for _, v := range f.Row(i) {
			args = append(args, sqlValue(v))
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// sqlValue converts a frame cell to a value the driver accepts.
func sqlValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool, float64:
		return v
	case int:
		return int64(v)
	case *big.Int:
		if v.IsInt64() {
			return v.Int64()
		}
		return v.String()
	}
	return dataframe.FormatCell(v)
}

// WriteFile replaces table name in the SQLite database at path with
// the contents of f.
func WriteFile(ctx context.Context, path, name string, f *dataframe.Frame, index bool) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	if err := db.ReplaceTable(ctx, name, f, index); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

// Tables returns the names of the tables in db, sorted.
func (db *DB) Tables(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadTable returns the column names and rows of table name in
// insertion order.
func (db *DB) ReadTable(ctx context.Context, name string) ([]string, [][]any, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name)+" ORDER BY rowid")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
	}
	return cols, out, rows.Err()
}
