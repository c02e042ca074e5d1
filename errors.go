// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bithoven

import (
	"github.com/bithoven-lang/bithoven/ast"
	"github.com/bithoven-lang/bithoven/internal/compiler"
)

// CompilerError is implemented by every error reported by Parse, Analyze and
// Build, and by each violation in ConsensusErrors.
type CompilerError interface {
	error

	// Path returns the path of the source.
	Path() string

	// Position returns the position in the source where the error occurred.
	Position() ast.Position

	// Message returns the error message, without path and position.
	Message() string

	// Kind returns the kind of the error.
	Kind() ErrorKind
}

// ErrorKind is the kind of a CompilerError.
type ErrorKind = compiler.ErrorKind

// Kinds of errors reported by Parse and Analyze.
const (
	InvalidSyntax      = compiler.InvalidSyntax
	DuplicateVariable  = compiler.DuplicateVariable
	UndefinedVariable  = compiler.UndefinedVariable
	VariableConsumed   = compiler.VariableConsumed
	UnreachableCode    = compiler.UnreachableCode
	MultipleReturn     = compiler.MultipleReturn
	NoReturn           = compiler.NoReturn
	StackMismatch      = compiler.StackMismatch
	UnsupportedVersion = compiler.UnsupportedVersion
)

// Kinds of the violations reported by CheckConsensus.
const (
	StackDepthExceeded      = compiler.StackDepthExceeded
	OpcodeCountExceeded     = compiler.OpcodeCountExceeded
	ScriptSizeExceeded      = compiler.ScriptSizeExceeded
	SigOpLimitExceeded      = compiler.SigOpLimitExceeded
	NonMinimalPush          = compiler.NonMinimalPush
	DisabledOpcodeForTarget = compiler.DisabledOpcodeForTarget
)

// ConsensusError is a violation of a consensus or standardness rule found on
// a spending path.
type ConsensusError = compiler.ConsensusError

// ConsensusErrors is the list of the violations found by CheckConsensus. It
// implements the error interface.
type ConsensusErrors = compiler.ConsensusErrors

var (
	_ CompilerError = (*compiler.SyntaxError)(nil)
	_ CompilerError = (*compiler.CheckingError)(nil)
	_ CompilerError = (*ConsensusError)(nil)
)
