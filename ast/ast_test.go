// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"testing"
)

var a = NewIdentifier(nil, "a")
var b = NewIdentifier(nil, "b")
var n1 = NewNumberLiteral(nil, 1)
var n2 = NewNumberLiteral(nil, 2)

var expressionStringTests = []struct {
	str  string
	expr Expression
}{
	{"1", n1},
	{"-7", NewNumberLiteral(nil, -7)},
	{"true", NewBoolLiteral(nil, true)},
	{`"ab01"`, NewStringLiteral(nil, `"ab01"`, []byte{0xab, 0x01})},
	{"a", a},
	{"!a", NewUnaryOperator(nil, OperatorNot, a)},
	{"-a", NewUnaryOperator(nil, OperatorNegate, a)},
	{"++a", NewUnaryOperator(nil, OperatorIncrement, a)},
	{"abs a", NewUnaryOperator(nil, OperatorAbs, a)},
	{"sha256 a", NewUnaryOperator(nil, OperatorSha256, a)},
	{"size a", NewUnaryOperator(nil, OperatorSize, a)},
	{"(1 + 2)", NewBinaryOperator(nil, OperatorAddition, n1, n2)},
	{"(a =:= 2)", NewBinaryOperator(nil, OperatorNumEqual, a, n2)},
	{"max(a, b)", NewBinaryOperator(nil, OperatorMax, a, b)},
	{"((a > 1) && b)", NewBinaryOperator(nil, OperatorAnd, NewBinaryOperator(nil, OperatorGreater, a, n1), b)},
	{"checksig (a, b)", NewCheckSig(nil, NewSingleSig(nil, a, b))},
	{"checksig [1, (a, b), (a, b)]", NewCheckSig(nil, NewMultiSig(nil, 1, []*SingleSig{NewSingleSig(nil, a, b), NewSingleSig(nil, a, b)}))},
}

func TestExpressionString(t *testing.T) {
	for _, test := range expressionStringTests {
		if got := test.expr.String(); got != test.str {
			t.Errorf("unexpected %q, expecting %q", got, test.str)
		}
	}
}

var statementStringTests = []struct {
	str  string
	stmt Statement
}{
	{"verify a;", NewVerify(nil, a)},
	{"a;", NewExpressionStmt(nil, a, false)},
	{"return a;", NewExpressionStmt(nil, a, true)},
	{"after 500000;", NewLocktime(nil, 500000, LocktimeCLTV)},
	{"older 144;", NewLocktime(nil, 144, LocktimeCSV)},
	{"if a { b; }", NewIf(nil, a, NewBlock(nil, []Statement{NewExpressionStmt(nil, b, false)}), nil)},
	{"if a { b; } else { 1; }", NewIf(nil, a,
		NewBlock(nil, []Statement{NewExpressionStmt(nil, b, false)}),
		NewBlock(nil, []Statement{NewExpressionStmt(nil, n1, false)}))},
}

func TestStatementString(t *testing.T) {
	for _, test := range statementStringTests {
		if got := test.stmt.String(); got != test.str {
			t.Errorf("unexpected %q, expecting %q", got, test.str)
		}
	}
}

func TestParseTarget(t *testing.T) {
	for _, target := range []Target{TargetLegacy, TargetSegwit, TargetTaproot} {
		got, err := ParseTarget(target.String())
		if err != nil {
			t.Fatalf("%s: unexpected error %q", target, err)
		}
		if got != target {
			t.Fatalf("unexpected target %s, expecting %s", got, target)
		}
	}
	if _, err := ParseTarget("p2pkh"); err == nil {
		t.Fatal("expecting error, got nothing")
	}
}

func TestPositionString(t *testing.T) {
	p := &Position{Line: 37, Column: 18, Start: 500, End: 510}
	if p.String() != "37:18" {
		t.Fatalf("unexpected %q, expecting \"37:18\"", p.String())
	}
	if e := p.WithEnd(600); e.End != 600 || p.End != 510 {
		t.Fatalf("unexpected end %d (original %d)", e.End, p.End)
	}
}
