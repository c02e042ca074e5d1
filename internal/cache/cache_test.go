// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bithoven-lang/bithoven/ast"
	"github.com/bithoven-lang/bithoven/internal/compiler"
	"github.com/bithoven-lang/bithoven/internal/report"
)

func openTemp(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verdicts.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return c, path
}

func TestPutGet(t *testing.T) {
	c, path := openTemp(t)
	src := []byte("(a: number) a;")
	key := Key(ast.TargetSegwit, compiler.DefaultPolicy, src)

	if _, found, err := c.Get(key); err != nil || found {
		t.Fatalf("unexpected found %t, err %v", found, err)
	}

	diagnostics := []report.Diagnostic{
		{Path: "a.bithoven", Line: 1, Column: 13, Kind: "UndefinedVariable", Branch: -1, Message: "undefined: b"},
	}
	if err := c.Put(key, diagnostics); err != nil {
		t.Fatal(err)
	}
	got, found, err := c.Get(key)
	if err != nil || !found {
		t.Fatalf("unexpected found %t, err %v", found, err)
	}
	if diff := cmp.Diff(diagnostics, got); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}

	// The verdict survives the reopening.
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if got, found, _ := c.Get(key); !found || !cmp.Equal(got, diagnostics) {
		t.Fatalf("unexpected %v (found %t) after reopening", got, found)
	}
}

func TestEmptyVerdict(t *testing.T) {
	c, _ := openTemp(t)
	defer c.Close()
	key := Key(ast.TargetTaproot, compiler.DefaultPolicy, []byte("(a: bool) a;"))
	if err := c.Put(key, nil); err != nil {
		t.Fatal(err)
	}
	got, found, err := c.Get(key)
	if err != nil || !found {
		t.Fatalf("unexpected found %t, err %v", found, err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("unexpected %v, expecting an empty verdict", got)
	}
}

func TestKey(t *testing.T) {
	src := []byte("(a: bool) a;")
	segwit := Key(ast.TargetSegwit, compiler.DefaultPolicy, src)
	if len(segwit) != 32 {
		t.Fatalf("unexpected key length %d", len(segwit))
	}
	if !bytes.Equal(segwit, Key(ast.TargetSegwit, compiler.DefaultPolicy, src)) {
		t.Fatal("keys of the same input differ")
	}
	if !bytes.Equal(segwit, versionKey(compiler.LanguageVersion, ast.TargetSegwit, compiler.DefaultPolicy, src)) {
		t.Fatal("key does not depend on the language version")
	}
	others := [][]byte{
		versionKey(compiler.LanguageVersion+".1", ast.TargetSegwit, compiler.DefaultPolicy, src),
		Key(ast.TargetTaproot, compiler.DefaultPolicy, src),
		Key(ast.TargetSegwit, compiler.Policy{}, src),
		Key(ast.TargetSegwit, compiler.DefaultPolicy, []byte("(a: bool) !a;")),
	}
	for i, key := range others {
		if bytes.Equal(segwit, key) {
			t.Errorf("key %d collides", i)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expecting error, got nil")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "verdicts.db")); err == nil {
		t.Fatal("expecting error, got nil")
	}
}
