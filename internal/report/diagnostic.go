// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"

	"github.com/bithoven-lang/bithoven/internal/compiler"
)

// Diagnostic is an error or a violation found in a source.
type Diagnostic struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Kind    string `json:"kind"`
	Branch  int    `json:"branch"` // -1 if it does not refer to a spending path.
	Message string `json:"message"`
}

// Diagnostics returns the diagnostics of an error returned by the compiler.
// An error not reported by the compiler, as an I/O error, is returned as a
// diagnostic of kind "Error" without position.
func Diagnostics(path string, err error) []Diagnostic {
	if err == nil {
		return []Diagnostic{}
	}
	var errs compiler.ConsensusErrors
	if errors.As(err, &errs) {
		diagnostics := make([]Diagnostic, len(errs))
		for i, e := range errs {
			diagnostics[i] = diagnostic(e, e.Branch())
		}
		return diagnostics
	}
	var e compiler.Error
	if errors.As(err, &e) {
		return []Diagnostic{diagnostic(e, -1)}
	}
	return []Diagnostic{{Path: path, Kind: "Error", Branch: -1, Message: err.Error()}}
}

func diagnostic(e compiler.Error, branch int) Diagnostic {
	pos := e.Position()
	return Diagnostic{
		Path:    e.Path(),
		Line:    pos.Line,
		Column:  pos.Column,
		Kind:    e.Kind().String(),
		Branch:  branch,
		Message: e.Message(),
	}
}
