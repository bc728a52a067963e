// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares golden test output.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Diff returns a unified diff from want to got, labeled with name. It
// returns "" if they are equal. Without a diff command it falls back
// to quoting both inputs.
func Diff(name string, want, got []byte) string {
	if string(want) == string(got) {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("%s differs (diff command unavailable)\nwant: %q\ngot:  %q", name, want, got)
	}

	wantFile, err := writeTemp(name+".want", want)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(wantFile)
	gotFile, err := writeTemp(name+".got", got)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(gotFile)

	data, err := exec.Command(cmd, "-u", wantFile, gotFile).CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}

func writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", "*-"+filepath.Base(pattern))
	if err != nil {
		return "", err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
