// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package query evaluates filter expressions against decoded JSON
// records.
//
// Expressions use jq syntax, for example ".jobs[].read.iops" or
// ".latency | .p99". An Evaluator produces every value the
// expression emits, in order.
package query

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// An Evaluator runs a compiled filter expression against one input
// value.
type Evaluator interface {
	// Eval returns every value the expression produces for v. The
	// input must be made of the types produced by encoding/json
	// (with numbers as int or float64).
	Eval(v any) ([]any, error)

	// String returns the source text of the expression.
	String() string
}

// A JQ is an Evaluator for a jq expression.
type JQ struct {
	src  string
	code *gojq.Code
}

// Compile parses and compiles the jq expression src.
func Compile(src string) (*JQ, error) {
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression %q: %w", src, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compiling jq expression %q: %w", src, err)
	}
	return &JQ{src: src, code: code}, nil
}

// MustCompile is like Compile, but panics if src is invalid.
func MustCompile(src string) *JQ {
	q, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return q
}

// Eval implements Evaluator.
func (q *JQ) Eval(v any) ([]any, error) {
	out := []any{}
	iter := q.code.Run(v)
	for {
		x, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := x.(error); ok {
			if herr, ok := err.(*gojq.HaltError); ok && herr.Value() == nil {
				// "halt" with no value terminates normally.
				break
			}
			return nil, fmt.Errorf("evaluating %q: %w", q.src, err)
		}
		out = append(out, x)
	}
	return out, nil
}

func (q *JQ) String() string {
	return q.src
}
