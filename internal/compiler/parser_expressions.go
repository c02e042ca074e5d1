// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/bithoven-lang/bithoven/ast"
)

// Operator precedences, from the lowest to the highest.
//
//	1  ||
//	2  &&
//	3  ==  !=  =:=  =/=  <  <=  >  >=
//	4  +  -
//
// Unary operators, checksig, max and min bind tighter than any binary
// operator.

var comparisonOperators = map[tokenTyp]ast.OperatorType{
	tokenEqual:          ast.OperatorEqual,
	tokenNotEqual:       ast.OperatorNotEqual,
	tokenNumEqual:       ast.OperatorNumEqual,
	tokenNumNotEqual:    ast.OperatorNumNotEqual,
	tokenLess:           ast.OperatorLess,
	tokenLessOrEqual:    ast.OperatorLessEqual,
	tokenGreater:        ast.OperatorGreater,
	tokenGreaterOrEqual: ast.OperatorGreaterEqual,
}

var unaryOperators = map[tokenTyp]ast.OperatorType{
	tokenNot:         ast.OperatorNot,
	tokenSubtraction: ast.OperatorNegate,
	tokenIncrement:   ast.OperatorIncrement,
	tokenDecrement:   ast.OperatorDecrement,
	tokenAbs:         ast.OperatorAbs,
	tokenSha256:      ast.OperatorSha256,
	tokenRipemd160:   ast.OperatorRipemd160,
	tokenSize:        ast.OperatorSize,
}

// parseExpr parses an expression and returns it with the next token. If tok
// can not start an expression, it returns nil and tok.
func (p *parsing) parseExpr(tok token) (ast.Expression, token) {
	return p.parseOr(tok)
}

// requireExpr parses an expression that must be present.
func (p *parsing) requireExpr(tok token, parse func(token) (ast.Expression, token)) (ast.Expression, token) {
	expr, next := parse(tok)
	if expr == nil {
		panic(syntaxError(tok.pos, "unexpected %s, expecting expression", tok))
	}
	return expr, next
}

func binary(op ast.OperatorType, expr1, expr2 ast.Expression) *ast.BinaryOperator {
	pos := &ast.Position{Start: expr1.Pos().Start, End: expr2.Pos().End}
	return ast.NewBinaryOperator(pos, op, expr1, expr2)
}

func (p *parsing) parseOr(tok token) (ast.Expression, token) {
	expr, tok := p.parseAnd(tok)
	if expr == nil {
		return nil, tok
	}
	for tok.typ == tokenOr {
		var right ast.Expression
		right, tok = p.requireExpr(p.next(), p.parseAnd)
		expr = binary(ast.OperatorOr, expr, right)
	}
	return expr, tok
}

func (p *parsing) parseAnd(tok token) (ast.Expression, token) {
	expr, tok := p.parseComparison(tok)
	if expr == nil {
		return nil, tok
	}
	for tok.typ == tokenAnd {
		var right ast.Expression
		right, tok = p.requireExpr(p.next(), p.parseComparison)
		expr = binary(ast.OperatorAnd, expr, right)
	}
	return expr, tok
}

// parseComparison parses a comparison. Comparison operators do not
// associate, "a < b < c" is a syntax error.
func (p *parsing) parseComparison(tok token) (ast.Expression, token) {
	expr, tok := p.parseAdditive(tok)
	if expr == nil {
		return nil, tok
	}
	op, ok := comparisonOperators[tok.typ]
	if !ok {
		return expr, tok
	}
	right, tok := p.requireExpr(p.next(), p.parseAdditive)
	if _, ok := comparisonOperators[tok.typ]; ok {
		panic(syntaxError(tok.pos, "unexpected %s, comparison operators do not associate", tok))
	}
	return binary(op, expr, right), tok
}

func (p *parsing) parseAdditive(tok token) (ast.Expression, token) {
	expr, tok := p.parseUnary(tok)
	if expr == nil {
		return nil, tok
	}
	for tok.typ == tokenAddition || tok.typ == tokenSubtraction {
		op := ast.OperatorAddition
		if tok.typ == tokenSubtraction {
			op = ast.OperatorSubtraction
		}
		var right ast.Expression
		right, tok = p.requireExpr(p.next(), p.parseUnary)
		expr = binary(op, expr, right)
	}
	return expr, tok
}

// parseUnary parses an unary expression, a checksig, a call of max or min,
// or a primary expression.
func (p *parsing) parseUnary(tok token) (ast.Expression, token) {
	pos := tok.pos
	if op, ok := unaryOperators[tok.typ]; ok {
		expr, next := p.requireExpr(p.next(), p.parseUnary)
		return ast.NewUnaryOperator(pos.WithEnd(expr.Pos().End), op, expr), next
	}
	switch tok.typ {
	case tokenCheckSig:
		factor, next := p.parseFactor(p.next())
		return ast.NewCheckSig(pos.WithEnd(factor.Pos().End), factor), next
	case tokenMax, tokenMin:
		op := ast.OperatorMax
		if tok.typ == tokenMin {
			op = ast.OperatorMin
		}
		tok = p.next()
		p.expect(tok, tokenLeftParenthesis)
		expr1, tok := p.requireExpr(p.next(), p.parseExpr)
		p.expect(tok, tokenComma)
		expr2, tok := p.requireExpr(p.next(), p.parseExpr)
		p.expect(tok, tokenRightParenthesis)
		return ast.NewBinaryOperator(pos.WithEnd(tok.pos.End), op, expr1, expr2), p.next()
	}
	return p.parsePrimary(tok)
}

// parsePrimary parses an identifier, a literal or a parenthesized expression.
func (p *parsing) parsePrimary(tok token) (ast.Expression, token) {
	switch tok.typ {
	case tokenIdentifier:
		return ast.NewIdentifier(tok.pos, string(tok.txt)), p.next()
	case tokenNumber:
		return ast.NewNumberLiteral(tok.pos, parseNumber(tok, "")), p.next()
	case tokenString:
		return parseStringLiteral(tok), p.next()
	case tokenTrue, tokenFalse:
		return ast.NewBoolLiteral(tok.pos, tok.typ == tokenTrue), p.next()
	case tokenLeftParenthesis:
		expr, next := p.requireExpr(p.next(), p.parseExpr)
		p.expect(next, tokenRightParenthesis)
		return expr, p.next()
	}
	return nil, tok
}

// parseFactor parses the operand of checksig.
func (p *parsing) parseFactor(tok token) (ast.Factor, token) {
	switch tok.typ {
	case tokenLeftParenthesis:
		return p.parseSingleSig(tok)
	case tokenLeftBracket:
		pos := tok.pos
		tok = p.next()
		p.expect(tok, tokenNumber)
		m := parseNumber(tok, "")
		mPos := tok.pos
		var pairs []*ast.SingleSig
		tok = p.next()
		for tok.typ == tokenComma {
			var pair *ast.SingleSig
			pair, tok = p.parseSingleSig(p.next())
			pairs = append(pairs, pair)
		}
		p.expect(tok, tokenRightBracket)
		if len(pairs) == 0 {
			panic(syntaxError(tok.pos, "multisig requires at least one signature and public key pair"))
		}
		if m < 1 || m > int64(len(pairs)) {
			panic(syntaxError(mPos, "invalid multisig threshold %d for %d public keys", m, len(pairs)))
		}
		return ast.NewMultiSig(pos.WithEnd(tok.pos.End), int(m), pairs), p.next()
	}
	panic(syntaxError(tok.pos, "unexpected %s, expecting ( or [", tok))
}

// parseSingleSig parses a "(sig, pubkey)" pair. tok must be '('.
func (p *parsing) parseSingleSig(tok token) (*ast.SingleSig, token) {
	p.expect(tok, tokenLeftParenthesis)
	pos := tok.pos
	sig, tok := p.requireExpr(p.next(), p.parseExpr)
	p.expect(tok, tokenComma)
	pubKey, tok := p.requireExpr(p.next(), p.parseExpr)
	p.expect(tok, tokenRightParenthesis)
	return ast.NewSingleSig(pos.WithEnd(tok.pos.End), sig, pubKey), p.next()
}

// parseNumber parses the number literal tok, with the given sign.
func parseNumber(tok token, sign string) int64 {
	if bytes.IndexByte(tok.txt, '.') != -1 {
		panic(syntaxError(tok.pos, "invalid number literal %s", tok.txt))
	}
	n, err := strconv.ParseInt(sign+string(tok.txt), 10, 64)
	if err != nil {
		panic(syntaxError(tok.pos, "number %s%s out of range", sign, tok.txt))
	}
	return n
}

// parseStringLiteral returns the string literal tok. An even number of
// hexadecimal digits denotes the bytes they encode, any other text denotes
// its UTF-8 encoding.
func parseStringLiteral(tok token) *ast.StringLiteral {
	text := string(tok.txt)
	s, err := strconv.Unquote(text)
	if err != nil {
		panic(syntaxError(tok.pos, "invalid string literal %s", text))
	}
	value, err := hex.DecodeString(s)
	if err != nil {
		value = []byte(s)
	}
	return ast.NewStringLiteral(tok.pos, text, value)
}
