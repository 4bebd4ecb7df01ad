// Package lexer splits Iron source text into tokens.
package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Arcterus/iron/parser/token"
)

// symbolPunct lists the punctuation allowed in identifiers and symbols.
const symbolPunct = "._+-*/=<>!&~%?$"

var delimiters = map[rune]token.Type{
	'(':  token.PAREN_L,
	')':  token.PAREN_R,
	'[':  token.BRACE_L,
	']':  token.BRACE_R,
	'\'': token.QUOTE,
}

// Lexer produces the tokens of Iron source read by a token.Scanner.  Once the
// input is exhausted, or cannot be read, every call to NextToken returns a
// terminal token.
type Lexer struct {
	scanner *token.Scanner
	err     error
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// NextToken returns the next token in the input.  Comments are returned as
// COMMENT tokens.  Input ending inside of a token produces a PARTIAL token.
func (lex *Lexer) NextToken() *token.Token {
	if lex.err != nil || !lex.skipSpace() {
		return lex.end(true)
	}
	c, ok := lex.scanner.Peek()
	if !ok {
		lex.next()
		return lex.end(true)
	}
	if typ, ok := delimiters[c]; ok {
		lex.next()
		return lex.scanner.EmitToken(typ)
	}
	switch {
	case c == ';':
		return lex.comment()
	case c == '"':
		return lex.str()
	case isDigit(c):
		return lex.number()
	case c == '+' || c == '-':
		lex.next()
		if isDigit(lex.peek()) {
			return lex.number()
		}
		return lex.symbol()
	case isSymbolStart(c):
		return lex.symbol()
	}
	lex.next()
	lex.err = fmt.Errorf("unexpected text starting with %q", c)
	return lex.emit(token.INVALID, lex.err.Error())
}

func (lex *Lexer) comment() *token.Token {
	lex.next()
	for {
		c, ok := lex.scanner.Peek()
		if !ok || c == '\n' {
			return lex.scanner.EmitToken(token.COMMENT)
		}
		lex.next()
	}
}

// str scans a string literal.  Escape sequences are only skipped here, print
// decodes them.
func (lex *Lexer) str() *token.Token {
	lex.next()
	for {
		if !lex.next() {
			return lex.end(false)
		}
		switch lex.scanner.Rune() {
		case '"':
			return lex.scanner.EmitToken(token.STRING)
		case '\n':
			return lex.emit(token.ERROR, "unterminated string literal")
		case '\\':
			if !lex.next() {
				return lex.end(false)
			}
		}
	}
}

// number scans the digits of a numeric literal, with an optional fraction and
// exponent.  A sign has already been scanned.  Integer overflow is detected by
// the parser.
func (lex *Lexer) number() *token.Token {
	typ := token.INT
	lex.acceptRun(isDigit)
	if lex.peek() == '.' {
		lex.next()
		if !isDigit(lex.peek()) {
			return lex.invalidFloat()
		}
		lex.acceptRun(isDigit)
		typ = token.FLOAT
	}
	if c := lex.peek(); c == 'e' || c == 'E' {
		lex.next()
		if c := lex.peek(); c == '+' || c == '-' {
			lex.next()
		}
		if !isDigit(lex.peek()) {
			return lex.invalidFloat()
		}
		lex.acceptRun(isDigit)
		typ = token.FLOAT
	}
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) invalidFloat() *token.Token {
	return lex.emit(token.ERROR, "invalid floating point literal: "+lex.scanner.Text())
}

func (lex *Lexer) symbol() *token.Token {
	lex.acceptRun(isSymbolRune)
	return lex.scanner.EmitToken(token.SYMBOL)
}

func (lex *Lexer) skipSpace() bool {
	for unicode.IsSpace(lex.peek()) {
		if !lex.next() {
			return false
		}
	}
	lex.scanner.Ignore()
	return true
}

func (lex *Lexer) acceptRun(valid func(rune) bool) {
	for valid(lex.peek()) {
		lex.next()
	}
}

// next scans one rune into the current token.  The scanner's error is kept
// when no rune can be scanned.
func (lex *Lexer) next() bool {
	err := lex.scanner.ScanRune()
	if err != nil {
		lex.err = err
		return false
	}
	return true
}

func (lex *Lexer) peek() rune {
	c, _ := lex.scanner.Peek()
	return c
}

// end returns the token for lex.err.  Running out of input between tokens is
// EOF and inside of a token is PARTIAL.
func (lex *Lexer) end(between bool) *token.Token {
	if lex.err != io.EOF {
		return lex.emit(token.ERROR, lex.err.Error())
	}
	if between {
		return lex.emit(token.EOF, "")
	}
	return lex.emit(token.PARTIAL, "unexpected EOF")
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func isSymbolStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(symbolPunct, c)
}

func isSymbolRune(c rune) bool {
	return isSymbolStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
