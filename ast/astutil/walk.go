// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil

import (
	"fmt"

	"github.com/bithoven-lang/bithoven/ast"
)

// Visitor's visit method is invoked for every node encountered by Walk.
type Visitor interface {
	Visit(node ast.Node) (w Visitor)
}

// Walk visits a tree in depth. Initially it calls v.Visit (node),
// where node must not be nil. If the value w returned by v.Visit (node)
// is different from nil, Walk is called recursively using w as the Visitor
// on all children other than nil of the tree. Finally, call w.Visit (nil).
func Walk(v Visitor, node ast.Node) {

	if v == nil {
		panic("v can't be nil")
	}

	if node == nil {
		panic("node can't be nil")
	}

	v = v.Visit(node)

	if v == nil {
		return
	}

	switch n := node.(type) {

	case *ast.Tree:
		for _, stack := range n.Stacks {
			for _, param := range stack {
				Walk(v, param)
			}
		}
		for _, child := range n.Statements {
			Walk(v, child)
		}

	case *ast.StackParam:
		Walk(v, n.Ident)
		if n.Default != nil {
			Walk(v, n.Default)
		}

	case *ast.Block:
		for _, child := range n.Statements {
			Walk(v, child)
		}

	case *ast.If:
		Walk(v, n.Condition)
		Walk(v, n.Then)
		if n.Else != nil {
			Walk(v, n.Else)
		}

	case *ast.Verify:
		Walk(v, n.Expr)

	case *ast.ExpressionStmt:
		Walk(v, n.Expr)

	case *ast.UnaryOperator:
		Walk(v, n.Expr)

	case *ast.BinaryOperator:
		Walk(v, n.Expr1)
		Walk(v, n.Expr2)

	case *ast.CheckSig:
		Walk(v, n.Factor)

	case *ast.SingleSig:
		Walk(v, n.Sig)
		Walk(v, n.PubKey)

	case *ast.MultiSig:
		for _, pair := range n.Pairs {
			Walk(v, pair)
		}

	case *ast.Locktime, *ast.Identifier, *ast.NumberLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		// Nothing to do.

	default:
		panic(fmt.Sprintf("unsupported node type %T", node))

	}

	v.Visit(nil)
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node ast.Node, f func(ast.Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
