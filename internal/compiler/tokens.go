// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/bithoven-lang/bithoven/ast"
)

// Token type.
type tokenTyp int

const (
	tokenEOF            tokenTyp = iota
	tokenIdentifier              // identifier
	tokenNumber                  // number literal
	tokenString                  // string literal
	tokenSemicolon               // ;
	tokenColon                   // :
	tokenComma                   // ,
	tokenLeftParenthesis         // (
	tokenRightParenthesis        // )
	tokenLeftBrace               // {
	tokenRightBrace              // }
	tokenLeftBracket             // [
	tokenRightBracket            // ]
	tokenAssignment              // =
	tokenOr                      // ||
	tokenAnd                     // &&
	tokenEqual                   // ==
	tokenNotEqual                // !=
	tokenNumEqual                // =:=
	tokenNumNotEqual             // =/=
	tokenLess                    // <
	tokenLessOrEqual             // <=
	tokenGreater                 // >
	tokenGreaterOrEqual          // >=
	tokenAddition                // +
	tokenSubtraction             // -
	tokenIncrement               // ++
	tokenDecrement               // --
	tokenNot                     // !
	tokenPragma                  // pragma
	tokenIf                      // if
	tokenElse                    // else
	tokenVerify                  // verify
	tokenReturn                  // return
	tokenOlder                   // older
	tokenAfter                   // after
	tokenCheckSig                // checksig
	tokenSha256                  // sha256
	tokenRipemd160               // ripemd160
	tokenSize                    // size
	tokenAbs                     // abs
	tokenMax                     // max
	tokenMin                     // min
	tokenTrue                    // true
	tokenFalse                   // false
)

var tokenNames = [...]string{
	tokenEOF:              "EOF",
	tokenIdentifier:       "identifier",
	tokenNumber:           "number",
	tokenString:           "string",
	tokenSemicolon:        ";",
	tokenColon:            ":",
	tokenComma:            ",",
	tokenLeftParenthesis:  "(",
	tokenRightParenthesis: ")",
	tokenLeftBrace:        "{",
	tokenRightBrace:       "}",
	tokenLeftBracket:      "[",
	tokenRightBracket:     "]",
	tokenAssignment:       "=",
	tokenOr:               "||",
	tokenAnd:              "&&",
	tokenEqual:            "==",
	tokenNotEqual:         "!=",
	tokenNumEqual:         "=:=",
	tokenNumNotEqual:      "=/=",
	tokenLess:             "<",
	tokenLessOrEqual:      "<=",
	tokenGreater:          ">",
	tokenGreaterOrEqual:   ">=",
	tokenAddition:         "+",
	tokenSubtraction:      "-",
	tokenIncrement:        "++",
	tokenDecrement:        "--",
	tokenNot:              "!",
	tokenPragma:           "pragma",
	tokenIf:               "if",
	tokenElse:             "else",
	tokenVerify:           "verify",
	tokenReturn:           "return",
	tokenOlder:            "older",
	tokenAfter:            "after",
	tokenCheckSig:         "checksig",
	tokenSha256:           "sha256",
	tokenRipemd160:        "ripemd160",
	tokenSize:             "size",
	tokenAbs:              "abs",
	tokenMax:              "max",
	tokenMin:              "min",
	tokenTrue:             "true",
	tokenFalse:            "false",
}

func (tt tokenTyp) String() string {
	return tokenNames[tt]
}

// keywords maps the keywords to their token types. The names of the types,
// of the targets and the words following "pragma" are not keywords.
var keywords = map[string]tokenTyp{
	"pragma":    tokenPragma,
	"if":        tokenIf,
	"else":      tokenElse,
	"verify":    tokenVerify,
	"return":    tokenReturn,
	"older":     tokenOlder,
	"after":     tokenAfter,
	"checksig":  tokenCheckSig,
	"sha256":    tokenSha256,
	"ripemd160": tokenRipemd160,
	"size":      tokenSize,
	"abs":       tokenAbs,
	"max":       tokenMax,
	"min":       tokenMin,
	"true":      tokenTrue,
	"false":     tokenFalse,
}

// token represents a lexical token.
type token struct {
	typ tokenTyp      // type
	pos *ast.Position // position in the buffer, line and column are not set
	txt []byte        // token text
}

// String returns the string that represents the token.
func (tok token) String() string {
	switch tok.typ {
	case tokenEOF, tokenSemicolon:
		return tok.typ.String()
	case tokenIdentifier, tokenNumber, tokenString:
		return fmt.Sprintf("%s %s", tok.typ, tok.txt)
	}
	return string(tok.txt)
}
