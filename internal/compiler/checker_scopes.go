// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"sort"

	"github.com/bithoven-lang/bithoven/ast"
)

// Scope is the scope of a branch. It is built from the input stack declared
// for the branch.
type Scope struct {
	Branch      int                // index of the branch.
	Symbols     map[string]*Symbol // symbols, by name.
	ReturnValue bool               // the branch has produced its value.
}

// Symbol is a variable bound to an item of an input stack.
type Symbol struct {
	Name          string
	Type          ast.Type
	ConsumeCount  int             // 0 or 1.
	StackPosition int             // depth in the declared stack, 0 is the top.
	Decl          *ast.StackParam // declaration.
}

// newScope returns the scope of the branch with the given input stack. The
// stack is read from the top, that is the last declared parameter, so that
// positions are relative to the top of the stack.
func (a *analyzer) newScope(branch int, stack []*ast.StackParam) *Scope {
	scope := &Scope{
		Branch:  branch,
		Symbols: make(map[string]*Symbol, len(stack)),
	}
	for i := len(stack) - 1; i >= 0; i-- {
		param := stack[i]
		name := param.Ident.Name
		if _, ok := scope.Symbols[name]; ok {
			panic(a.errorf(param.Ident, DuplicateVariable, "%s redeclared in input stack %d", name, branch))
		}
		scope.Symbols[name] = &Symbol{
			Name:          name,
			Type:          param.Type,
			StackPosition: len(stack) - 1 - i,
			Decl:          param,
		}
	}
	return scope
}

// consume consumes the symbol with the given name. ident is the identifier
// that references it.
func (a *analyzer) consume(scope *Scope, ident *ast.Identifier) {
	sym, ok := scope.Symbols[ident.Name]
	if !ok {
		panic(a.errorf(ident, UndefinedVariable, "undefined: %s", ident.Name))
	}
	if sym.ConsumeCount != 0 {
		panic(a.errorf(ident, VariableConsumed, "%s already consumed", ident.Name))
	}
	sym.ConsumeCount = 1
}

// Unconsumed returns the symbols of the scope that have not been consumed,
// from the top of the stack to the bottom.
func (s *Scope) Unconsumed() []*Symbol {
	var symbols []*Symbol
	for _, sym := range s.Symbols {
		if sym.ConsumeCount == 0 {
			symbols = append(symbols, sym)
		}
	}
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].StackPosition < symbols[j].StackPosition
	})
	return symbols
}

// Stack returns the symbols of the scope from the bottom of the stack to the
// top, as they are declared.
func (s *Scope) Stack() []*Symbol {
	symbols := make([]*Symbol, len(s.Symbols))
	for _, sym := range s.Symbols {
		symbols[len(symbols)-1-sym.StackPosition] = sym
	}
	return symbols
}

// occurrences returns, for each identifier, the number of branches that
// declare it. It only reads the scopes.
func occurrences(scopes []*Scope) map[string]int {
	occ := map[string]int{}
	for _, scope := range scopes {
		for name := range scope.Symbols {
			occ[name]++
		}
	}
	return occ
}
