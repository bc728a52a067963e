// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package datatable

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ReadDatastore decodes a JSON array of records from r.
//
// Numbers written without a fraction or exponent that fit in an int
// decode as int; all other numbers decode as float64.
func ReadDatastore(r io.Reader) ([]Record, error) {
	var raw []any
	if err := decode(r, &raw); err != nil {
		return nil, fmt.Errorf("reading datastore: %w", err)
	}
	records := make([]Record, 0, len(raw))
	for i, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("reading datastore: record %d is %s, not an object", i, jsonKind(v))
		}
		records = append(records, Record(m))
	}
	return records, nil
}

// ReadMetadata decodes a JSON object from r.
func ReadMetadata(r io.Reader) (Metadata, error) {
	var m map[string]any
	if err := decode(r, &m); err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return Metadata(m), nil
}

func decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	switch dst := dst.(type) {
	case *[]any:
		for i, v := range *dst {
			(*dst)[i] = normalize(v)
		}
	case *map[string]any:
		for k, v := range *dst {
			(*dst)[k] = normalize(v)
		}
	}
	return nil
}

// normalize replaces json.Numbers in v with int or float64.
func normalize(v any) any {
	switch v := v.(type) {
	case json.Number:
		return number(v)
	case []any:
		for i, x := range v {
			v[i] = normalize(x)
		}
	case map[string]any:
		for k, x := range v {
			v[k] = normalize(x)
		}
	}
	return v
}

func number(n json.Number) any {
	if i, err := strconv.ParseInt(string(n), 10, 0); err == nil {
		return int(i)
	}
	// Out-of-range values become ±Inf or 0. The decoder has
	// already validated the syntax.
	f, _ := strconv.ParseFloat(string(n), 64)
	return f
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case []any:
		return "an array"
	case int, float64:
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}
