// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"sort"
	"unicode/utf8"

	"github.com/bithoven-lang/bithoven/ast"
	"github.com/bithoven-lang/bithoven/ast/astutil"
)

// lineIndex maps byte offsets of a source to lines and columns.
type lineIndex struct {
	src    []byte
	starts []int // offsets of the first byte of each line
}

// newLineIndex returns the line index of src.
func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

// lineColumn returns the line and the column, both starting from 1, of the
// byte at the given offset. The column counts characters, not bytes.
func (li *lineIndex) lineColumn(offset int) (line, column int) {
	if offset > len(li.src) {
		offset = len(li.src)
	}
	if offset < 0 {
		offset = 0
	}
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return i + 1, utf8.RuneCount(li.src[li.starts[i]:offset]) + 1
}

// fill sets line and column of pos from its start offset.
func (li *lineIndex) fill(pos *ast.Position) {
	if pos != nil {
		pos.Line, pos.Column = li.lineColumn(pos.Start)
	}
}

// fillPositions sets line and column of all the positions of tree.
func fillPositions(tree *ast.Tree, src []byte) {
	li := newLineIndex(src)
	astutil.Inspect(tree, func(node ast.Node) bool {
		if node == nil {
			return false
		}
		li.fill(node.Pos())
		return true
	})
	li.fill(tree.Pragma.VersionAt)
	li.fill(tree.Pragma.TargetAt)
}
