// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/bithoven-lang/bithoven/ast"
)

// checkStatements checks the statements of a block in the given branch and
// returns the highest branch reached. The then block of an if continues the
// current branch, the else block continues in the branch following the
// highest one reached by the then block.
func (a *analyzer) checkStatements(statements []ast.Statement, block *ast.Position, branch int) int {

	a.checkBlockShape(statements, block)

	last := branch

	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.Locktime:
		case *ast.Verify:
			a.checkExpression(s.Expr, branch)
		case *ast.ExpressionStmt:
			a.checkTerminal(s, branch)
			a.checkExpression(s.Expr, branch)
			a.scopes[branch].ReturnValue = true
		case *ast.If:
			a.checkExpression(s.Condition, branch)
			last = a.checkStatements(s.Then.Statements, s.Then.Position, branch)
			if s.Else != nil {
				next := last + 1
				if next >= len(a.scopes) {
					panic(a.errorf(s.Else, StackMismatch,
						"no input stack declared for branch %d, %d declared", next, len(a.scopes)))
				}
				last = a.checkStatements(s.Else.Statements, s.Else.Position, next)
			}
		default:
			panic(fmt.Sprintf("unexpected statement %T", s))
		}
	}

	return last
}

// checkBlockShape checks that a block ends with an expression statement or an
// if statement, and that no statement follows an if statement.
func (a *analyzer) checkBlockShape(statements []ast.Statement, block *ast.Position) {
	if len(statements) == 0 {
		panic(a.errorf(block, UnreachableCode, "missing expression at the end of the block"))
	}
	for i, stmt := range statements[:len(statements)-1] {
		if _, ok := stmt.(*ast.If); ok {
			panic(a.errorf(statements[i+1], UnreachableCode, "unreachable code after if statement"))
		}
	}
	switch last := statements[len(statements)-1].(type) {
	case *ast.ExpressionStmt, *ast.If:
	default:
		panic(a.errorf(last, UnreachableCode, "last statement must be an expression or an if statement"))
	}
}

// checkTerminal checks that the expression statement s can produce the value
// of branch: the branch has not produced its value yet, and the previous
// branch has already produced its own.
func (a *analyzer) checkTerminal(s *ast.ExpressionStmt, branch int) {
	if a.scopes[branch].ReturnValue {
		panic(a.errorf(s, MultipleReturn, "branch %d already produced its value", branch))
	}
	if branch > 0 && !a.scopes[branch-1].ReturnValue {
		panic(a.errorf(s, NoReturn, "branch %d has not produced a value before branch %d", branch-1, branch))
	}
}
