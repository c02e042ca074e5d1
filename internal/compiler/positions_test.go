// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"testing"

	"github.com/bithoven-lang/bithoven/ast"
)

func TestLineColumn(t *testing.T) {
	src := []byte("ab\ncd本e\n\nf")
	tests := []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{8, 2, 4},
		{10, 3, 1},
		{11, 4, 1},
		{12, 4, 2},
		{100, 4, 2},
		{-1, 1, 1},
	}
	li := newLineIndex(src)
	for _, test := range tests {
		line, column := li.lineColumn(test.offset)
		if line != test.line || column != test.column {
			t.Errorf("offset %d: unexpected %d:%d, expecting %d:%d", test.offset, line, column, test.line, test.column)
		}
	}
}

func TestFillPositions(t *testing.T) {
	src := "(s: signature, p: string)\n" +
		"verify checksig (s, p);\n" +
		"  older 10;\n" +
		"1;"
	tree, err := ParseSource([]byte(src), "test")
	if err != nil {
		t.Fatal(err)
	}
	param := tree.Stacks[0][1]
	if param.Line != 1 || param.Column != 16 {
		t.Errorf("unexpected stack parameter position %s, expecting 1:16", param.Position)
	}
	verify := tree.Statements[0].(*ast.Verify)
	if verify.Line != 2 || verify.Column != 1 || verify.Start != 26 || verify.End != 48 {
		t.Errorf("unexpected verify position %s (%d-%d), expecting 2:1 (26-48)", verify.Position, verify.Start, verify.End)
	}
	pair := verify.Expr.(*ast.CheckSig).Factor.(*ast.SingleSig)
	if pair.PubKey.Pos().Line != 2 || pair.PubKey.Pos().Column != 21 {
		t.Errorf("unexpected public key position %s, expecting 2:21", pair.PubKey.Pos())
	}
	older := tree.Statements[1]
	if pos := older.Pos(); pos.Line != 3 || pos.Column != 3 {
		t.Errorf("unexpected older position %s, expecting 3:3", pos)
	}
	last := tree.Statements[2]
	if pos := last.Pos(); pos.Line != 4 || pos.Column != 1 {
		t.Errorf("unexpected expression position %s, expecting 4:1", pos)
	}
}
