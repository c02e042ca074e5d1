// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/bithoven-lang/bithoven/ast"
)

// checkExpression checks expr in the scope of branch, consuming each
// referenced variable. Operands are checked from left to right, a signature
// before its public key and multisig pairs in order.
func (a *analyzer) checkExpression(expr ast.Expression, branch int) {
	scope := a.scopes[branch]
	switch expr := expr.(type) {
	case *ast.Identifier:
		a.consume(scope, expr)
	case *ast.NumberLiteral, *ast.BoolLiteral, *ast.StringLiteral:
	case *ast.UnaryOperator:
		a.checkExpression(expr.Expr, branch)
	case *ast.BinaryOperator:
		a.checkExpression(expr.Expr1, branch)
		a.checkExpression(expr.Expr2, branch)
	case *ast.CheckSig:
		switch f := expr.Factor.(type) {
		case *ast.SingleSig:
			a.checkSingleSig(f, branch)
		case *ast.MultiSig:
			for _, pair := range f.Pairs {
				a.checkSingleSig(pair, branch)
			}
		default:
			panic(fmt.Sprintf("unexpected factor %T", f))
		}
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func (a *analyzer) checkSingleSig(pair *ast.SingleSig, branch int) {
	a.checkExpression(pair.Sig, branch)
	a.checkExpression(pair.PubKey, branch)
}
