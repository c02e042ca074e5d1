// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/bithoven-lang/bithoven/ast"
)

// LanguageVersion is the version of the language implemented by the
// compiler. A source can declare any version with the same major version
// that is not newer.
const LanguageVersion = "0.0.1"

// Analysis is the result of a successful analysis.
type Analysis struct {

	// Scopes holds the scope of each branch, in branch order, with the final
	// consume state of the symbols.
	Scopes []*Scope

	// occurrences counts, for each identifier, the branches declaring it.
	occurrences map[string]int
}

// Occurrences returns the number of branches in which name is declared.
func (an *Analysis) Occurrences(name string) int {
	return an.occurrences[name]
}

// typeOf returns the type of the first declaration of name.
func (an *Analysis) typeOf(name string) ast.Type {
	for _, scope := range an.Scopes {
		if sym, ok := scope.Symbols[name]; ok {
			return sym.Type
		}
	}
	return ast.TypeBool
}

// analyzer represents the state of the analysis of a tree.
type analyzer struct {
	path string

	// scopes holds a scope for each declared input stack. Each scope is
	// written only while its own branch is analyzed.
	scopes []*Scope
}

// Analyze analyzes tree and returns the branch scopes. It stops at the
// first error, that is always a *CheckingError.
func Analyze(tree *ast.Tree) (analysis *Analysis, err error) {

	a := &analyzer{path: tree.Path}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*CheckingError); ok {
				analysis = nil
				err = e
			} else {
				panic(r)
			}
		}
	}()

	a.checkPragma(tree.Pragma)

	if len(tree.Stacks) == 0 {
		panic(a.errorf(tree, StackMismatch, "no input stack declared"))
	}
	a.scopes = make([]*Scope, len(tree.Stacks))
	for i, stack := range tree.Stacks {
		a.scopes[i] = a.newScope(i, stack)
	}

	last := a.checkStatements(tree.Statements, tree.Position, 0)

	if used := last + 1; used < len(a.scopes) {
		panic(a.errorf(stackPosition(tree, used), StackMismatch,
			"%d input stacks declared but the script has %d spending paths", len(a.scopes), used))
	}
	for _, scope := range a.scopes {
		if !scope.ReturnValue {
			panic(a.errorf(tree, NoReturn, "branch %d does not produce a value", scope.Branch))
		}
	}

	return &Analysis{Scopes: a.scopes, occurrences: occurrences(a.scopes)}, nil
}

// checkPragma checks the version pragma.
func (a *analyzer) checkPragma(pragma *ast.Pragma) {
	if pragma.VersionAt == nil {
		return
	}
	v := "v" + pragma.Version
	if !semver.IsValid(v) {
		panic(a.errorf(pragma.VersionAt, UnsupportedVersion, "invalid version %q", pragma.Version))
	}
	lang := "v" + LanguageVersion
	if semver.Major(v) != semver.Major(lang) || semver.Compare(v, lang) > 0 {
		panic(a.errorf(pragma.VersionAt, UnsupportedVersion,
			"version %s is not supported, the compiler implements version %s", pragma.Version, LanguageVersion))
	}
}

// stackPosition returns the position of the first parameter of the i-th
// input stack, or the position of the tree if the stack is empty.
func stackPosition(tree *ast.Tree, i int) *ast.Position {
	if stack := tree.Stacks[i]; len(stack) > 0 {
		return stack[0].Position
	}
	return tree.Position
}

// errorf builds and returns a checking error of the given kind. node can also
// be an *ast.Position.
func (a *analyzer) errorf(node ast.Node, kind ErrorKind, format string, args ...interface{}) *CheckingError {
	pos := node.Pos()
	err := &CheckingError{
		path: a.path,
		kind: kind,
		err:  fmt.Errorf(format, args...),
	}
	if pos != nil {
		err.pos = *pos
	}
	return err
}
