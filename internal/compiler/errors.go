// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"strings"

	"github.com/bithoven-lang/bithoven/ast"
)

// ErrorKind is the kind of an error reported by the compiler.
type ErrorKind int

const (
	InvalidSyntax ErrorKind = iota
	DuplicateVariable
	UndefinedVariable
	VariableConsumed
	UnreachableCode
	MultipleReturn
	NoReturn
	StackMismatch
	UnsupportedVersion

	// Consensus and standardness violations.
	StackDepthExceeded
	OpcodeCountExceeded
	ScriptSizeExceeded
	SigOpLimitExceeded
	NonMinimalPush
	DisabledOpcodeForTarget
)

var errorKindNames = [...]string{
	InvalidSyntax:           "SyntaxError",
	DuplicateVariable:       "DuplicateVariable",
	UndefinedVariable:       "UndefinedVariable",
	VariableConsumed:        "VariableConsumed",
	UnreachableCode:         "UnreachableCode",
	MultipleReturn:          "MultipleReturn",
	NoReturn:                "NoReturn",
	StackMismatch:           "StackMismatch",
	UnsupportedVersion:      "UnsupportedVersion",
	StackDepthExceeded:      "StackDepthExceeded",
	OpcodeCountExceeded:     "OpcodeCountExceeded",
	ScriptSizeExceeded:      "ScriptSizeExceeded",
	SigOpLimitExceeded:      "SigOpLimitExceeded",
	NonMinimalPush:          "NonMinimalPush",
	DisabledOpcodeForTarget: "DisabledOpcodeForTarget",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// IsConsensus reports whether k is the kind of a consensus or standardness
// violation.
func (k ErrorKind) IsConsensus() bool {
	return k >= StackDepthExceeded
}

// Error is the interface implemented by the errors reported by the parser,
// the analyzer and the consensus checker.
type Error interface {
	error
	Position() ast.Position
	Path() string
	Message() string
	Kind() ErrorKind
}

// SyntaxError records a parsing error with the path and the position where
// the error occurred.
type SyntaxError struct {
	path string
	pos  ast.Position
	err  error
}

// syntaxError returns a SyntaxError error with the given position. Line and
// column are filled by the parser from the byte offset.
func syntaxError(pos *ast.Position, format string, a ...interface{}) *SyntaxError {
	return &SyntaxError{pos: *pos, err: fmt.Errorf(format, a...)}
}

// Position returns the position of the syntax error.
func (e *SyntaxError) Position() ast.Position { return e.pos }

// Path returns the path of the source that caused the syntax error.
func (e *SyntaxError) Path() string { return e.path }

// Message returns the message of the syntax error.
func (e *SyntaxError) Message() string { return "syntax error: " + e.err.Error() }

// Kind returns InvalidSyntax.
func (e *SyntaxError) Kind() ErrorKind { return InvalidSyntax }

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%s: syntax error: %s", e.path, e.pos, e.err)
}

// CheckingError records a semantic error with the path, the position and the
// kind of the error. The analysis stops at the first CheckingError.
type CheckingError struct {
	path string
	pos  ast.Position
	kind ErrorKind
	err  error
}

// Position returns the position of the checking error.
func (e *CheckingError) Position() ast.Position { return e.pos }

// Path returns the path of the source code that caused the checking error.
func (e *CheckingError) Path() string { return e.path }

// Message returns the message of the checking error, without position and
// path.
func (e *CheckingError) Message() string { return e.err.Error() }

// Kind returns the kind of the checking error.
func (e *CheckingError) Kind() ErrorKind { return e.kind }

func (e *CheckingError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.path, e.pos, e.err)
}

// ConsensusError records a violation of a consensus or standardness rule
// found on the spending path Branch.
type ConsensusError struct {
	path   string
	pos    ast.Position
	kind   ErrorKind
	branch int
	msg    string
}

// Position returns the position of the construct that caused the violation.
func (e *ConsensusError) Position() ast.Position { return e.pos }

// Path returns the path of the source code.
func (e *ConsensusError) Path() string { return e.path }

// Message returns the message of the violation.
func (e *ConsensusError) Message() string { return e.msg }

// Kind returns the kind of the violation.
func (e *ConsensusError) Kind() ErrorKind { return e.kind }

// Branch returns the index of the spending path.
func (e *ConsensusError) Branch() int { return e.branch }

func (e *ConsensusError) Error() string {
	return fmt.Sprintf("%s:%s: branch %d: %s", e.path, e.pos, e.branch, e.msg)
}

// ConsensusErrors is the list of the violations found by CheckConsensus.
type ConsensusErrors []*ConsensusError

func (errs ConsensusErrors) Error() string {
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Kinds returns the kinds of the violations, in order.
func (errs ConsensusErrors) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, len(errs))
	for i, err := range errs {
		kinds[i] = err.kind
	}
	return kinds
}
