// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/bithoven-lang/bithoven/ast"
)

const BOM rune = 0xfeff
const bomErrorMsg = "invalid BOM in the middle of the file"

// scanSource scans a Bithoven source and returns a lexer.
func scanSource(text []byte) *lexer {
	tokens := make(chan token, 20)
	lex := &lexer{
		text:   text,
		src:    text,
		tokens: tokens,
	}
	go lex.scan()
	return lex
}

// lexer maintains the scanner status.
type lexer struct {
	text   []byte       // text on which the scans are performed
	src    []byte       // slice of the text used during the scan
	tokens chan token   // tokens, is closed at the end of the scan
	err    *SyntaxError // error, reports whether there was an error
}

// Tokens returns a channel to read the scanned tokens.
func (l *lexer) Tokens() <-chan token {
	return l.tokens
}

// drain drains the tokens channel.
func (l *lexer) drain() {
	for range l.tokens {
	}
}

// offset returns the offset in the text of the next byte to scan.
func (l *lexer) offset() int {
	return len(l.text) - len(l.src)
}

func (l *lexer) errorf(format string, a ...interface{}) *SyntaxError {
	p := l.offset()
	return syntaxError(&ast.Position{Start: p, End: p}, format, a...)
}

// emit emits a token of type typ and length length at the current offset.
func (l *lexer) emit(typ tokenTyp, length int) {
	start := l.offset()
	end := start + length - 1
	if length == 0 {
		end = start
	}
	l.tokens <- token{
		typ: typ,
		pos: &ast.Position{Start: start, End: end},
		txt: l.src[:length],
	}
	l.src = l.src[length:]
}

// scan scans the text by placing the tokens on the tokens channel. If an
// error occurs, it puts the error in err, and closes the channel.
func (l *lexer) scan() {
	l.err = l.scanCode()
	close(l.tokens)
}

// scanCode scans the whole text and emits the final EOF token.
func (l *lexer) scanCode() *SyntaxError {
	if r, size := utf8.DecodeRune(l.src); r == BOM {
		l.src = l.src[size:]
	}
	for len(l.src) > 0 {
		switch c := l.src[0]; c {
		case ' ', '\t', '\n', '\r':
			l.src = l.src[1:]
		case '/':
			if err := l.skipComment(); err != nil {
				return err
			}
		case ';':
			l.emit(tokenSemicolon, 1)
		case ':':
			l.emit(tokenColon, 1)
		case ',':
			l.emit(tokenComma, 1)
		case '(':
			l.emit(tokenLeftParenthesis, 1)
		case ')':
			l.emit(tokenRightParenthesis, 1)
		case '{':
			l.emit(tokenLeftBrace, 1)
		case '}':
			l.emit(tokenRightBrace, 1)
		case '[':
			l.emit(tokenLeftBracket, 1)
		case ']':
			l.emit(tokenRightBracket, 1)
		case '=':
			switch {
			case bytes.HasPrefix(l.src, []byte("==")):
				l.emit(tokenEqual, 2)
			case bytes.HasPrefix(l.src, []byte("=:=")):
				l.emit(tokenNumEqual, 3)
			case bytes.HasPrefix(l.src, []byte("=/=")):
				l.emit(tokenNumNotEqual, 3)
			default:
				l.emit(tokenAssignment, 1)
			}
		case '!':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenNotEqual, 2)
			} else {
				l.emit(tokenNot, 1)
			}
		case '<':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenLessOrEqual, 2)
			} else {
				l.emit(tokenLess, 1)
			}
		case '>':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenGreaterOrEqual, 2)
			} else {
				l.emit(tokenGreater, 1)
			}
		case '+':
			if len(l.src) > 1 && l.src[1] == '+' {
				l.emit(tokenIncrement, 2)
			} else {
				l.emit(tokenAddition, 1)
			}
		case '-':
			if len(l.src) > 1 && l.src[1] == '-' {
				l.emit(tokenDecrement, 2)
			} else {
				l.emit(tokenSubtraction, 1)
			}
		case '|':
			if len(l.src) == 1 || l.src[1] != '|' {
				return l.errorf("unexpected |, expecting ||")
			}
			l.emit(tokenOr, 2)
		case '&':
			if len(l.src) == 1 || l.src[1] != '&' {
				return l.errorf("unexpected &, expecting &&")
			}
			l.emit(tokenAnd, 2)
		case '"':
			if err := l.lexString(); err != nil {
				return err
			}
		case 0:
			return l.errorf("unexpected NUL in input")
		default:
			if '0' <= c && c <= '9' {
				l.lexNumber()
				continue
			}
			r, _ := utf8.DecodeRune(l.src)
			if r == '_' || unicode.IsLetter(r) {
				l.lexIdentifierOrKeyword()
				continue
			}
			if r == BOM {
				return l.errorf(bomErrorMsg)
			}
			if r == utf8.RuneError {
				return l.errorf("invalid UTF-8 encoding")
			}
			return l.errorf("invalid character %U '%c'", r, r)
		}
	}
	l.emit(tokenEOF, 0)
	return nil
}

// skipComment skips a line or a block comment. l.src starts with '/'.
func (l *lexer) skipComment() *SyntaxError {
	if len(l.src) > 1 {
		switch l.src[1] {
		case '/':
			p := bytes.IndexByte(l.src, '\n')
			if p == -1 {
				p = len(l.src)
			}
			l.src = l.src[p:]
			return nil
		case '*':
			p := bytes.Index(l.src[2:], []byte("*/"))
			if p == -1 {
				return l.errorf("comment not terminated")
			}
			l.src = l.src[p+4:]
			return nil
		}
	}
	return l.errorf("unexpected /")
}

// lexNumber reads a number. A number with dots, as "0.1.2", is only valid as
// a version in a pragma and the parser rejects it elsewhere.
func (l *lexer) lexNumber() {
	p := 0
	for p < len(l.src) {
		c := l.src[p]
		if '0' <= c && c <= '9' {
			p++
			continue
		}
		if c == '.' && p+1 < len(l.src) && '0' <= l.src[p+1] && l.src[p+1] <= '9' {
			p++
			continue
		}
		break
	}
	l.emit(tokenNumber, p)
}

// lexIdentifierOrKeyword reads an identifier or a keyword.
func (l *lexer) lexIdentifierOrKeyword() {
	p := 0
	for p < len(l.src) {
		r, s := utf8.DecodeRune(l.src[p:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p += s
	}
	if typ, ok := keywords[string(l.src[:p])]; ok {
		l.emit(typ, p)
		return
	}
	l.emit(tokenIdentifier, p)
}

// lexString reads a double quoted string. l.src starts with '"'.
func (l *lexer) lexString() *SyntaxError {
	p := 1
	for {
		if p == len(l.src) {
			return l.errorf("string not terminated")
		}
		switch l.src[p] {
		case '"':
			l.emit(tokenString, p+1)
			return nil
		case '\\':
			p++
			if p == len(l.src) {
				return l.errorf("string not terminated")
			}
		case '\n':
			return l.errorf("newline in string")
		}
		p++
	}
}
