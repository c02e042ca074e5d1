// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bithoven

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const singleSig = `(sig: signature) checksig (sig, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798");`

func TestBuild(t *testing.T) {
	script, err := Build([]byte(singleSig), &BuildOptions{Path: "p2wpkh.bithoven"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if script.Target != Segwit {
		t.Fatalf("unexpected target %s, expecting segwit", script.Target)
	}
	if len(script.Paths) != 1 || len(script.Analysis.Scopes) != 1 {
		t.Fatalf("unexpected %d paths and %d scopes", len(script.Paths), len(script.Analysis.Scopes))
	}
	const expected = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798 OP_CHECKSIG"
	if disasm := script.Paths[0].Disasm(); disasm != expected {
		t.Fatalf("unexpected script %q, expecting %q", disasm, expected)
	}
	if script.Tree.Path != "p2wpkh.bithoven" {
		t.Fatalf("unexpected path %q", script.Tree.Path)
	}
	if _, err := Build([]byte(singleSig), nil); err != nil {
		t.Fatalf("unexpected error with nil options: %s", err)
	}
}

func TestBuildTarget(t *testing.T) {
	legacy, taproot := Legacy, Taproot
	tests := []struct {
		src     string
		options *BuildOptions
		target  Target
	}{
		{"(a: bool) a;", nil, Segwit},
		{"pragma target legacy; (a: bool) a;", nil, Legacy},
		{"(a: bool) a;", &BuildOptions{DefaultTarget: &taproot}, Taproot},
		{"pragma target legacy; (a: bool) a;", &BuildOptions{DefaultTarget: &taproot}, Legacy},
		{"pragma target taproot; (a: bool) a;", &BuildOptions{Target: &legacy}, Legacy},
	}
	for _, test := range tests {
		script, err := Build([]byte(test.src), test.options)
		if err != nil {
			t.Errorf("source %q: unexpected error: %s", test.src, err)
			continue
		}
		if script.Target != test.target {
			t.Errorf("source %q: unexpected target %s, expecting %s", test.src, script.Target, test.target)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		src    string
		kind   ErrorKind
		line   int
		column int
		msg    string
	}{
		{"(a: number) a", InvalidSyntax, 1, 14, "syntax error: unexpected EOF, expecting ;"},
		{"(a: number) b;", UndefinedVariable, 1, 13, "undefined: b"},
		{"(a: number, a: bool) a;", DuplicateVariable, 1, 2, "a redeclared in input stack 0"},
		{"(a: number) verify a; a;", VariableConsumed, 1, 23, "a already consumed"},
		{"pragma bithoven version 0.1.0; (a: bool) a;", UnsupportedVersion, 1, 1,
			"version 0.1.0 is not supported, the compiler implements version 0.0.1"},
	}
	for _, test := range tests {
		script, err := Build([]byte(test.src), &BuildOptions{Path: "test.bithoven"})
		if err == nil {
			t.Errorf("source %q: expecting error, got nil", test.src)
			continue
		}
		if script != nil {
			t.Errorf("source %q: unexpected non-nil script", test.src)
		}
		var e CompilerError
		if !errors.As(err, &e) {
			t.Errorf("source %q: unexpected error type %T", test.src, err)
			continue
		}
		if e.Kind() != test.kind {
			t.Errorf("source %q: unexpected kind %s, expecting %s", test.src, e.Kind(), test.kind)
		}
		if pos := e.Position(); pos.Line != test.line || pos.Column != test.column {
			t.Errorf("source %q: unexpected position %s, expecting %d:%d", test.src, pos, test.line, test.column)
		}
		if e.Message() != test.msg {
			t.Errorf("source %q: unexpected message %q, expecting %q", test.src, e.Message(), test.msg)
		}
		if e.Path() != "test.bithoven" {
			t.Errorf("source %q: unexpected path %q", test.src, e.Path())
		}
	}
}

func TestBuildViolations(t *testing.T) {
	src := `(a: string)(b: string) if a == "05" { 1; } else { b == "06"; }`
	script, err := Build([]byte(src), &BuildOptions{Path: "push.bithoven"})
	var violations ConsensusErrors
	if !errors.As(err, &violations) {
		t.Fatalf("unexpected error %v, expecting ConsensusErrors", err)
	}
	if script == nil || len(script.Paths) != 2 {
		t.Fatalf("unexpected script %v", script)
	}
	if len(violations) != 3 {
		t.Fatalf("unexpected violations:\n%s", violations)
	}
	for _, v := range violations {
		if v.Kind() != NonMinimalPush {
			t.Errorf("unexpected violation %s", v)
		}
	}
	const expected = "push.bithoven:1:56: branch 1: data push of the value 6 encoded with opcode OP_DATA_1 instead of OP_6"
	if violations[2].Error() != expected {
		t.Errorf("unexpected violation %q, expecting %q", violations[2], expected)
	}

	policy := Policy{MinimalPush: false}
	if _, err := Build([]byte(src), &BuildOptions{Policy: &policy}); err != nil {
		t.Fatalf("unexpected error without the minimal push policy: %s", err)
	}
}

func TestBuildLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	_, err := Build([]byte(singleSig), &BuildOptions{Path: "p2wpkh.bithoven", Logger: logrus.NewEntry(logger)})
	if err != nil {
		t.Fatal(err)
	}
	entries := hook.AllEntries()
	messages := []string{"parsed", "analyzed", "checked consensus"}
	if len(entries) != len(messages) {
		t.Fatalf("unexpected %d entries, expecting %d", len(entries), len(messages))
	}
	for i, entry := range entries {
		if entry.Message != messages[i] {
			t.Errorf("entry %d: unexpected message %q, expecting %q", i, entry.Message, messages[i])
		}
		if entry.Level != logrus.DebugLevel {
			t.Errorf("entry %d: unexpected level %s", i, entry.Level)
		}
		if entry.Data["path"] != "p2wpkh.bithoven" {
			t.Errorf("entry %d: unexpected path %v", i, entry.Data["path"])
		}
	}
	last := hook.LastEntry()
	if last.Data["target"] != Segwit || last.Data["branches"] != 1 || last.Data["violations"] != 0 {
		t.Errorf("unexpected fields %v", last.Data)
	}

	hook.Reset()
	_, _ = Build([]byte("(a: number) b;"), &BuildOptions{Logger: logrus.NewEntry(logger)})
	if last := hook.LastEntry(); last == nil || last.Message != "analysis failed" || last.Data[logrus.ErrorKey] == nil {
		t.Fatalf("unexpected last entry %v", last)
	}
}

func TestBuildFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bom.bithoven")
	if err := os.WriteFile(name, append([]byte("\xef\xbb\xbf"), singleSig...), 0o600); err != nil {
		t.Fatal(err)
	}
	script, err := BuildFile(name, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if script.Tree.Path != name {
		t.Fatalf("unexpected path %q, expecting %q", script.Tree.Path, name)
	}
	if _, err := BuildFile(filepath.Join(t.TempDir(), "missing.bithoven"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("unexpected error %v", err)
	}
}
