// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astutil implements methods to walk and dump a tree.
package astutil

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bithoven-lang/bithoven/ast"
)

type dumper struct {
	output      io.Writer
	indentLevel int
}

type errVisitor struct {
	err error
}

func (e errVisitor) Error() string {
	return e.err.Error()
}

// Visit writes the representation of a node, correctly indented. The Visit
// method is called by the Walk function.
func (d *dumper) Visit(node ast.Node) Visitor {

	// Management of the v.Visit (nil) call made by Walk.
	if node == nil {
		d.indentLevel--
		return nil
	}

	d.indentLevel++

	if n, ok := node.(*ast.Tree); ok {
		_, err := fmt.Fprintf(d.output, "Tree: %v:%v (%d stacks)\n", strconv.Quote(n.Path), n.Position, len(n.Stacks))
		if err != nil {
			panic(errVisitor{err})
		}
		return d
	}

	var text string
	switch n := node.(type) {
	case *ast.If:
		text = n.Condition.String()
	case *ast.Block:
		text = strconv.Itoa(len(n.Statements)) + " statements"
	case *ast.StringLiteral:
		if len(n.Text) > 30 {
			text = n.Text[:29] + "..."
		} else {
			text = n.Text
		}
	default:
		text = fmt.Sprintf("%v", node)
	}

	for i := 0; i < d.indentLevel; i++ {
		_, err := fmt.Fprint(d.output, "│    ")
		if err != nil {
			panic(errVisitor{err})
		}
	}

	// Determines the type by removing the prefix "*ast."
	typeStr := fmt.Sprintf("%T", node)[5:]

	_, err := fmt.Fprintf(d.output, "%v (%v) %v\n", typeStr, node.Pos(), text)
	if err != nil {
		panic(errVisitor{err})
	}

	return d
}

// Dump writes the dump of node on w.
func Dump(w io.Writer, node ast.Node) (err error) {

	defer func() {
		if r := recover(); r != nil {
			if t, ok := r.(errVisitor); ok {
				err = t.err
			} else {
				panic(r)
			}
		}
	}()

	if node == nil {
		return errors.New("can't dump a nil tree")
	}

	d := dumper{w, -1}
	Walk(&d, node)

	return nil
}
