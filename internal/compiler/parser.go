// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strconv"

	"github.com/bithoven-lang/bithoven/ast"
)

// parsing is a parsing state.
type parsing struct {

	// Lexer.
	lex *lexer

	// Tokens read ahead and put back, the last one is returned first.
	pending []token
}

// ParseSource parses a Bithoven source and returns its tree. Every position
// in the tree, and in the returned error, has line and column set.
func ParseSource(src []byte, path string) (tree *ast.Tree, err error) {

	var p = &parsing{
		lex: scanSource(src),
	}

	defer func() {
		p.lex.drain()
		if r := recover(); r != nil {
			if e, ok := r.(*SyntaxError); ok {
				e.path = path
				e.pos.Line, e.pos.Column = newLineIndex(src).lineColumn(e.pos.Start)
				tree = nil
				err = e
			} else {
				panic(r)
			}
		}
	}()

	tree = p.parseTree(path)
	fillPositions(tree, src)

	return tree, nil
}

// next returns the next token. Panics with the lexer error if the lexer
// channel is closed.
func (p *parsing) next() token {
	if n := len(p.pending); n > 0 {
		tok := p.pending[n-1]
		p.pending = p.pending[:n-1]
		return tok
	}
	tok, ok := <-p.lex.tokens
	if !ok {
		if p.lex.err == nil {
			panic("next called after EOF")
		}
		panic(p.lex.err)
	}
	return tok
}

// unread puts back tok, next returns it again.
func (p *parsing) unread(tok token) {
	p.pending = append(p.pending, tok)
}

// expect panics with a syntax error if tok is not of type typ.
func (p *parsing) expect(tok token, typ tokenTyp) {
	if tok.typ != typ {
		panic(syntaxError(tok.pos, "unexpected %s, expecting %s", tok, typ))
	}
}

// parseTree parses a whole source: pragmas, input stacks and script.
func (p *parsing) parseTree(path string) *ast.Tree {

	pragma := &ast.Pragma{}

	tok := p.next()
	for tok.typ == tokenPragma {
		tok = p.parsePragma(tok, pragma)
	}

	// Input stacks. A parenthesis starts a stack only if it is followed by
	// ')' or by an identifier and a colon, otherwise it starts the script.
	var stacks [][]*ast.StackParam
	for tok.typ == tokenLeftParenthesis {
		next := p.next()
		if next.typ == tokenIdentifier {
			after := p.next()
			p.unread(after)
			p.unread(next)
			if after.typ != tokenColon {
				break
			}
		} else {
			p.unread(next)
			if next.typ != tokenRightParenthesis {
				break
			}
		}
		var stack []*ast.StackParam
		stack, tok = p.parseStack(tok)
		stacks = append(stacks, stack)
	}

	// Script, optionally enclosed in braces.
	var statements []ast.Statement
	if tok.typ == tokenLeftBrace {
		statements, tok = p.parseStatements(p.next(), tokenRightBrace)
		tok = p.next()
		if tok.typ != tokenEOF {
			panic(syntaxError(tok.pos, "unexpected %s after the script", tok))
		}
	} else {
		statements, _ = p.parseStatements(tok, tokenEOF)
	}

	return ast.NewTree(path, pragma, stacks, statements)
}

// parsePragma parses a pragma directive and returns the next token.
func (p *parsing) parsePragma(tok token, pragma *ast.Pragma) token {
	pos := tok.pos
	tok = p.next()
	if tok.typ != tokenIdentifier {
		panic(syntaxError(tok.pos, "unexpected %s, expecting bithoven or target", tok))
	}
	switch string(tok.txt) {
	case "bithoven":
		if pragma.VersionAt != nil {
			panic(syntaxError(pos, "duplicate version pragma"))
		}
		tok = p.next()
		if tok.typ != tokenIdentifier || string(tok.txt) != "version" {
			panic(syntaxError(tok.pos, "unexpected %s, expecting version", tok))
		}
		tok = p.next()
		switch tok.typ {
		case tokenNumber:
			pragma.Version = string(tok.txt)
		case tokenString:
			v, err := strconv.Unquote(string(tok.txt))
			if err != nil {
				panic(syntaxError(tok.pos, "invalid version %s", tok.txt))
			}
			pragma.Version = v
		default:
			panic(syntaxError(tok.pos, "unexpected %s, expecting version number", tok))
		}
		tok = p.next()
		p.expect(tok, tokenSemicolon)
		pragma.VersionAt = pos.WithEnd(tok.pos.End)
	case "target":
		if pragma.TargetAt != nil {
			panic(syntaxError(pos, "duplicate target pragma"))
		}
		tok = p.next()
		if tok.typ != tokenIdentifier {
			panic(syntaxError(tok.pos, "unexpected %s, expecting legacy, segwit or taproot", tok))
		}
		target, err := ast.ParseTarget(string(tok.txt))
		if err != nil {
			panic(syntaxError(tok.pos, "%s", err))
		}
		tok = p.next()
		p.expect(tok, tokenSemicolon)
		pragma.Target = target
		pragma.TargetAt = pos.WithEnd(tok.pos.End)
	default:
		panic(syntaxError(tok.pos, "unknown pragma %s", tok.txt))
	}
	return p.next()
}

var typeNames = map[string]ast.Type{
	"signature": ast.TypeSignature,
	"number":    ast.TypeNumber,
	"string":    ast.TypeString,
	"bool":      ast.TypeBool,
}

// parseStack parses an input stack declaration. tok is '('. It returns the
// token following ')'.
func (p *parsing) parseStack(tok token) ([]*ast.StackParam, token) {
	params := []*ast.StackParam{}
	tok = p.next()
	if tok.typ == tokenRightParenthesis {
		return params, p.next()
	}
	for {
		if tok.typ != tokenIdentifier {
			panic(syntaxError(tok.pos, "unexpected %s, expecting name", tok))
		}
		ident := ast.NewIdentifier(tok.pos, string(tok.txt))
		tok = p.next()
		p.expect(tok, tokenColon)
		tok = p.next()
		typ, ok := typeNames[string(tok.txt)]
		if tok.typ != tokenIdentifier || !ok {
			panic(syntaxError(tok.pos, "unexpected %s, expecting signature, number, string or bool", tok))
		}
		end := tok.pos.End
		var def ast.Expression
		tok = p.next()
		if tok.typ == tokenAssignment {
			def, tok = p.parseDefault(p.next(), typ)
			end = def.Pos().End
		}
		params = append(params, ast.NewStackParam(ident.Pos().WithEnd(end), ident, typ, def))
		switch tok.typ {
		case tokenComma:
			tok = p.next()
		case tokenRightParenthesis:
			return params, p.next()
		default:
			panic(syntaxError(tok.pos, "unexpected %s, expecting comma or )", tok))
		}
	}
}

// parseDefault parses the default literal of a stack parameter of type typ.
func (p *parsing) parseDefault(tok token, typ ast.Type) (ast.Expression, token) {
	var lit ast.Expression
	var ok bool
	switch tok.typ {
	case tokenSubtraction:
		num := p.next()
		p.expect(num, tokenNumber)
		n := parseNumber(num, "-")
		lit = ast.NewNumberLiteral(tok.pos.WithEnd(num.pos.End), n)
		ok = typ == ast.TypeNumber
	case tokenNumber:
		lit = ast.NewNumberLiteral(tok.pos, parseNumber(tok, ""))
		ok = typ == ast.TypeNumber
	case tokenString:
		lit = parseStringLiteral(tok)
		ok = typ == ast.TypeString || typ == ast.TypeSignature
	case tokenTrue, tokenFalse:
		lit = ast.NewBoolLiteral(tok.pos, tok.typ == tokenTrue)
		ok = typ == ast.TypeBool
	default:
		panic(syntaxError(tok.pos, "unexpected %s, expecting literal", tok))
	}
	if !ok {
		panic(syntaxError(lit.Pos(), "cannot use %s as %s default value", lit, typ))
	}
	return lit, p.next()
}

// parseStatements parses statements up to a token of type end and returns
// them with the end token.
func (p *parsing) parseStatements(tok token, end tokenTyp) ([]ast.Statement, token) {
	statements := []ast.Statement{}
	for tok.typ != end {
		if tok.typ == tokenEOF {
			panic(syntaxError(tok.pos, "unexpected EOF, expecting %s", end))
		}
		var stmt ast.Statement
		stmt, tok = p.parseStatement(tok)
		statements = append(statements, stmt)
	}
	return statements, tok
}

// parseStatement parses a statement and returns it with the next token.
func (p *parsing) parseStatement(tok token) (ast.Statement, token) {

	pos := tok.pos

	switch tok.typ {

	// if
	case tokenIf:
		return p.parseIf(tok)

	// older, after
	case tokenOlder, tokenAfter:
		op := ast.LocktimeCLTV
		if tok.typ == tokenOlder {
			op = ast.LocktimeCSV
		}
		num := p.next()
		p.expect(num, tokenNumber)
		operand, err := strconv.ParseUint(string(num.txt), 10, 32)
		if err != nil {
			panic(syntaxError(num.pos, "invalid locktime %s", num.txt))
		}
		tok = p.next()
		p.expect(tok, tokenSemicolon)
		return ast.NewLocktime(pos.WithEnd(tok.pos.End), uint32(operand), op), p.next()

	// verify
	case tokenVerify:
		expr, tok := p.parseExpr(p.next())
		if expr == nil {
			panic(syntaxError(tok.pos, "unexpected %s, expecting expression", tok))
		}
		p.expect(tok, tokenSemicolon)
		return ast.NewVerify(pos.WithEnd(tok.pos.End), expr), p.next()

	// return
	case tokenReturn:
		expr, tok := p.parseExpr(p.next())
		if expr == nil {
			panic(syntaxError(tok.pos, "unexpected %s, expecting expression", tok))
		}
		p.expect(tok, tokenSemicolon)
		return ast.NewExpressionStmt(pos.WithEnd(tok.pos.End), expr, true), p.next()

	}

	expr, tok := p.parseExpr(tok)
	if expr == nil {
		panic(syntaxError(tok.pos, "unexpected %s, expecting statement", tok))
	}
	p.expect(tok, tokenSemicolon)

	return ast.NewExpressionStmt(pos.WithEnd(tok.pos.End), expr, false), p.next()
}

// parseIf parses an if statement. tok is 'if'.
func (p *parsing) parseIf(tok token) (*ast.If, token) {
	pos := tok.pos
	cond, tok := p.parseExpr(p.next())
	if cond == nil {
		panic(syntaxError(tok.pos, "missing condition in if statement"))
	}
	if tok.typ != tokenLeftBrace {
		panic(syntaxError(tok.pos, "unexpected %s, expecting {", tok))
	}
	then, tok := p.parseBlock(tok)
	end := then.End
	var els *ast.Block
	if tok.typ == tokenElse {
		tok = p.next()
		switch tok.typ {
		case tokenIf:
			var nested *ast.If
			nested, tok = p.parseIf(tok)
			els = ast.NewBlock(nested.Pos().WithEnd(nested.End), []ast.Statement{nested})
		case tokenLeftBrace:
			els, tok = p.parseBlock(tok)
		default:
			panic(syntaxError(tok.pos, "else must be followed by if or statement block"))
		}
		end = els.End
	}
	return ast.NewIf(pos.WithEnd(end), cond, then, els), tok
}

// parseBlock parses a block. tok is '{'.
func (p *parsing) parseBlock(tok token) (*ast.Block, token) {
	pos := tok.pos
	statements, end := p.parseStatements(p.next(), tokenRightBrace)
	return ast.NewBlock(pos.WithEnd(end.pos.End), statements), p.next()
}
