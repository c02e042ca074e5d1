// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bithoven-lang/bithoven/ast"
)

// treeString returns the input stacks and the statements of tree as strings.
func treeString(tree *ast.Tree) (string, string) {
	var stacks strings.Builder
	for _, stack := range tree.Stacks {
		stacks.WriteByte('(')
		for i, param := range stack {
			if i > 0 {
				stacks.WriteString(", ")
			}
			stacks.WriteString(param.String())
		}
		stacks.WriteByte(')')
	}
	statements := make([]string, len(tree.Statements))
	for i, stmt := range tree.Statements {
		statements[i] = stmt.String()
	}
	return stacks.String(), strings.Join(statements, " ")
}

var treeTests = []struct {
	src        string
	stacks     string
	statements string
}{
	{"(a: number) a;", "(a: number)", "a;"},
	{"() 1;", "()", "1;"},
	{"(a: number) (a);", "(a: number)", "a;"},
	{"(a: number = -1) { return a + 1; }", "(a: number = -1)", "return (a + 1);"},
	{`(s: signature = "", b: bool = false) s;`, `(s: signature = "", b: bool = false)`, "s;"},
	{"(s: signature, p: string) verify checksig (s, p); p;", "(s: signature, p: string)", "verify checksig (s, p); p;"},
	{"(a: number)(b: bool) if a > 1 { a; } else { b; }", "(a: number)(b: bool)", "if (a > 1) { a; } else { b; }"},
	{"(a: number)(b: number)(c: number) if a { a; } else if b { b; } else { c; }", "(a: number)(b: number)(c: number)",
		"if a { a; } else { if b { b; } else { c; } }"},
	{"(a: number, b: number, c: number) a + b > c && !a || b;", "(a: number, b: number, c: number)",
		"((((a + b) > c) && !a) || b);"},
	{"(a: number, b: number) a + (b - 1);", "(a: number, b: number)", "(a + (b - 1));"},
	{"(a: number, b: number) max(a, b) - min(1, 2);", "(a: number, b: number)", "(max(a, b) - min(1, 2));"},
	{"(a: string) sha256 size a;", "(a: string)", "sha256 size a;"},
	{"(a: string) ripemd160 sha256 a == \"00\";", "(a: string)", "(ripemd160 sha256 a == \"00\");"},
	{"(a: number) older 144; after 500000; a;", "(a: number)", "older 144; after 500000; a;"},
	{"(a: number) --a - -1;", "(a: number)", "(--a - -1);"},
	{"(a: number, b: number) a =:= b;", "(a: number, b: number)", "(a =:= b);"},
	{"(a: number, b: number) a =/= b && b != 1;", "(a: number, b: number)", "((a =/= b) && (b != 1));"},
	{"(a: number) abs ++a >= 3;", "(a: number)", "(abs ++a >= 3);"},
	{"(s1: signature, s2: signature) checksig [1, (s1, \"02aa\"), (s2, \"03bb\")];", "(s1: signature, s2: signature)",
		"checksig [1, (s1, \"02aa\"), (s2, \"03bb\")];"},
	{"pragma bithoven version 0.0.1;\npragma target taproot;\n(a: bool) a;", "(a: bool)", "a;"},
	{"(a: bool) // comment\n/* block\ncomment */ a;", "(a: bool)", "a;"},
}

func TestTrees(t *testing.T) {
	for _, test := range treeTests {
		tree, err := ParseSource([]byte(test.src), "test")
		if err != nil {
			t.Errorf("source: %q, unexpected error: %s", test.src, err)
			continue
		}
		stacks, statements := treeString(tree)
		if stacks != test.stacks {
			t.Errorf("source: %q, unexpected stacks %q, expecting %q", test.src, stacks, test.stacks)
		}
		if statements != test.statements {
			t.Errorf("source: %q, unexpected statements %q, expecting %q", test.src, statements, test.statements)
		}
	}
}

func TestPragma(t *testing.T) {
	src := "pragma bithoven version 0.0.1;\npragma target taproot;\n(a: bool) a;"
	tree, err := ParseSource([]byte(src), "test")
	if err != nil {
		t.Fatal(err)
	}
	p := tree.Pragma
	if p.Version != "0.0.1" {
		t.Fatalf("unexpected version %q, expecting %q", p.Version, "0.0.1")
	}
	if !p.HasTarget() || p.Target != ast.TargetTaproot {
		t.Fatalf("unexpected target %s, expecting %s", p.Target, ast.TargetTaproot)
	}
	if p.VersionAt.Line != 1 || p.VersionAt.Column != 1 {
		t.Fatalf("unexpected version position %s, expecting 1:1", p.VersionAt)
	}
	if p.TargetAt.Line != 2 || p.TargetAt.Column != 1 {
		t.Fatalf("unexpected target position %s, expecting 2:1", p.TargetAt)
	}
	tree, err = ParseSource([]byte(`pragma bithoven version "0.0.1"; (a: bool) a;`), "test")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Pragma.Version != "0.0.1" || tree.Pragma.HasTarget() {
		t.Fatalf("unexpected pragma %+v", tree.Pragma)
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		src   string
		value []byte
	}{
		{`""`, []byte{}},
		{`"02ab"`, []byte{0x02, 0xab}},
		{`"02AB"`, []byte{0x02, 0xab}},
		{`"abc"`, []byte("abc")},
		{`"hello"`, []byte("hello")},
		{`"a\"b"`, []byte(`a"b`)},
	}
	for _, test := range tests {
		src := "(a: string) a == " + test.src + ";"
		tree, err := ParseSource([]byte(src), "test")
		if err != nil {
			t.Errorf("source: %q, unexpected error: %s", src, err)
			continue
		}
		expr := tree.Statements[0].(*ast.ExpressionStmt).Expr.(*ast.BinaryOperator)
		lit := expr.Expr2.(*ast.StringLiteral)
		if !bytes.Equal(lit.Value, test.value) {
			t.Errorf("source: %q, unexpected value %x, expecting %x", src, lit.Value, test.value)
		}
		if lit.Text != test.src {
			t.Errorf("source: %q, unexpected text %q, expecting %q", src, lit.Text, test.src)
		}
	}
}

var syntaxErrorTests = []struct {
	src    string
	line   int
	column int
	msg    string
}{
	{"(a: number) a", 1, 14, "unexpected EOF, expecting ;"},
	{"(a: foo) a;", 1, 5, "unexpected identifier foo, expecting signature, number, string or bool"},
	{"(a: number = true) a;", 1, 14, "cannot use true as number default value"},
	{"(a: bool = 1) a;", 1, 12, "cannot use 1 as bool default value"},
	{"(a: number a;", 1, 12, "unexpected identifier a, expecting comma or )"},
	{"(a: number) a < b < c;", 1, 19, "unexpected <, comparison operators do not associate"},
	{"(a: number) if a { a; } else b;", 1, 30, "else must be followed by if or statement block"},
	{"(a: number) if { a; }", 1, 16, "missing condition in if statement"},
	{"(a: number) if a a;", 1, 18, "unexpected identifier a, expecting {"},
	{"(a: number) if a { a; ", 1, 23, "unexpected EOF, expecting }"},
	{"(a: number) checksig [0, (a, a)];", 1, 23, "invalid multisig threshold 0 for 1 public keys"},
	{"(a: number) checksig [3, (a, a), (a, a)];", 1, 23, "invalid multisig threshold 3 for 2 public keys"},
	{"(a: number) checksig [1];", 1, 24, "multisig requires at least one signature and public key pair"},
	{"(a: number) checksig a;", 1, 22, "unexpected identifier a, expecting ( or ["},
	{"pragma target p2pkh; (a: number) a;", 1, 15, `unknown target "p2pkh"`},
	{"pragma foo; (a: number) a;", 1, 8, "unknown pragma foo"},
	{"pragma target legacy; pragma target segwit; () 1;", 1, 23, "duplicate target pragma"},
	{"pragma bithoven 0.0.1;", 1, 17, "unexpected number 0.0.1, expecting version"},
	{"(a: number) older 99999999999;", 1, 19, "invalid locktime 99999999999"},
	{"(a: number) 1.2;", 1, 13, "invalid number literal 1.2"},
	{"(a: number) 99999999999999999999;", 1, 13, "number 99999999999999999999 out of range"},
	{"(a: number) { a; } b;", 1, 20, "unexpected identifier b after the script"},
	{"(a: number) verify;", 1, 19, "unexpected ;, expecting expression"},
	{"(a: number) a + ;", 1, 17, "unexpected ;, expecting expression"},
	{"(a: number) ;", 1, 13, "unexpected ;, expecting statement"},
	{"(a: number)\n  a | b;", 2, 5, "unexpected |, expecting ||"},
	{"(a: number)\n  \"本\n\";", 2, 3, "newline in string"},
	{"(a: number)\n本 # a;", 2, 3, "invalid character U+0023 '#'"},
}

func TestSyntaxErrors(t *testing.T) {
	for _, test := range syntaxErrorTests {
		tree, err := ParseSource([]byte(test.src), "test.bit")
		if err == nil {
			t.Errorf("source: %q, unexpected tree, expecting error %q", test.src, test.msg)
			continue
		}
		if tree != nil {
			t.Errorf("source: %q, unexpected non-nil tree", test.src)
		}
		e, ok := err.(*SyntaxError)
		if !ok {
			t.Errorf("source: %q, unexpected error type %T, expecting *SyntaxError", test.src, err)
			continue
		}
		if msg := e.err.Error(); msg != test.msg {
			t.Errorf("source: %q, unexpected error %q, expecting %q", test.src, msg, test.msg)
		}
		if pos := e.Position(); pos.Line != test.line || pos.Column != test.column {
			t.Errorf("source: %q, unexpected position %s, expecting %d:%d", test.src, pos, test.line, test.column)
		}
		if e.Path() != "test.bit" {
			t.Errorf("source: %q, unexpected path %q, expecting %q", test.src, e.Path(), "test.bit")
		}
		if e.Kind() != InvalidSyntax {
			t.Errorf("source: %q, unexpected kind %s", test.src, e.Kind())
		}
	}
}

func TestSyntaxErrorString(t *testing.T) {
	_, err := ParseSource([]byte("(a: number) a"), "p2sh.bit")
	if err == nil {
		t.Fatal("expecting error, got nil")
	}
	const expected = "p2sh.bit:1:14: syntax error: unexpected EOF, expecting ;"
	if err.Error() != expected {
		t.Fatalf("unexpected error %q, expecting %q", err, expected)
	}
	if msg := err.(*SyntaxError).Message(); msg != "syntax error: unexpected EOF, expecting ;" {
		t.Fatalf("unexpected message %q", msg)
	}
}
