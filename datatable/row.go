// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package datatable

import (
	"fmt"
	"strings"
)

// A Row maps column display names to values, remembering the order in
// which columns were first set.
//
// A value of type []any is a sequence holding one value per sample.
// Any other value is a scalar. A nil value is missing.
type Row struct {
	names []string
	vals  map[string]any
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{vals: make(map[string]any)}
}

// Set sets column name to v. A new column is added after all existing
// columns; setting an existing column keeps its position.
func (r *Row) Set(name string, v any) {
	if _, ok := r.vals[name]; !ok {
		r.names = append(r.names, name)
	}
	r.vals[name] = v
}

// Get returns the value of column name and whether the row has that
// column.
func (r *Row) Get(name string) (any, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// Names returns the column names of r in order. The caller must not
// modify the result.
func (r *Row) Names() []string {
	return r.names
}

// Len returns the number of columns in r.
func (r *Row) Len() int {
	return len(r.names)
}

// Clone returns a shallow copy of r.
func (r *Row) Clone() *Row {
	c := &Row{
		names: append([]string(nil), r.names...),
		vals:  make(map[string]any, len(r.vals)),
	}
	for k, v := range r.vals {
		c.vals[k] = v
	}
	return c
}

func (r *Row) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", name, r.vals[name])
	}
	sb.WriteByte('}')
	return sb.String()
}
