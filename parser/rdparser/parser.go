package rdparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Arcterus/iron/lisp"
	"github.com/Arcterus/iron/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (_ *reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a recursive descent parser for Iron source.
type Parser struct {
	src *TokenSource
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return &Parser{
		src: NewTokenSource(scanner),
	}
}

// ParseProgram parses every expression remaining in the token stream.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for !p.src.IsEOF() {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() (*lisp.LVal, error) {
	switch p.src.Peek.Type {
	case token.INT:
		return p.ParseLiteralInt()
	case token.FLOAT:
		return p.ParseLiteralFloat()
	case token.STRING:
		return p.ParseLiteralString()
	case token.SYMBOL:
		return p.ParseName()
	case token.QUOTE:
		return p.ParseQuote()
	case token.PAREN_L:
		return p.ParseSExpression()
	case token.BRACE_L:
		return p.ParseArray()
	case token.EOF, token.PARTIAL:
		p.src.Scan()
		return nil, p.unexpectedEOF()
	case token.ERROR, token.INVALID:
		p.src.Scan()
		return nil, p.errorf("%s", p.src.Token.Text)
	default:
		p.src.Scan()
		return nil, p.errorf("unexpected %s", p.src.Token.Type)
	}
}

func (p *Parser) ParseLiteralInt() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.INT) {
		return nil, p.errorf("invalid integer literal: %v", p.src.Peek.Type)
	}
	text := p.src.Token.Text
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("integer literal overflows int64: %v", text)
	}
	return p.node(lisp.Int(x)), nil
}

func (p *Parser) ParseLiteralFloat() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.FLOAT) {
		return nil, p.errorf("invalid float literal: %v", p.src.Peek.Type)
	}
	text := p.src.Token.Text
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid floating point literal: %v", text)
	}
	return p.node(lisp.Float(x)), nil
}

func (p *Parser) ParseLiteralString() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.STRING) {
		return nil, p.errorf("invalid string literal: %v", p.src.Peek.Type)
	}
	text := p.src.Token.Text
	return p.node(lisp.String(DecodeString(text[1 : len(text)-1]))), nil
}

// ParseName parses a bare word.  The words true, false and nil are literals,
// anything else is an identifier.
func (p *Parser) ParseName() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.SYMBOL) {
		return nil, p.errorf("invalid identifier: %v", p.src.Peek.Type)
	}
	return p.node(NameLVal(p.src.Token.Text)), nil
}

// ParseQuote parses a quoted symbol or a quoted list.
func (p *Parser) ParseQuote() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.QUOTE) {
		return nil, p.errorf("invalid quote: %v", p.src.Peek.Type)
	}
	quote := p.src.Token
	switch {
	case p.src.AcceptType(token.SYMBOL):
		return lisp.Symbol(p.src.Token.Text).WithSource(quote.Source), nil
	case p.src.AcceptType(token.PAREN_L):
		cells, err := p.parseSequence(token.PAREN_R)
		if err != nil {
			return nil, err
		}
		return lisp.List(cells).WithSource(quote.Source), nil
	case p.src.Peek.Type == token.EOF || p.src.Peek.Type == token.PARTIAL:
		p.src.Scan()
		return nil, p.unexpectedEOF()
	default:
		p.src.Scan()
		return nil, p.errorf("quote must be followed by a name or a list, not %s", p.src.Token.Type)
	}
}

// ParseSExpression parses an s-expression.  The empty expression () is nil.
func (p *Parser) ParseSExpression() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.PAREN_L) {
		return nil, p.errorf("invalid expression: %v", p.src.Peek.Type)
	}
	open := p.src.Token
	cells, err := p.parseSequence(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return lisp.Nil().WithSource(open.Source), nil
	}
	if cells[0].Type != lisp.LIdent {
		return nil, lisp.Errorf(lisp.KindSyntax, "", "%s: operator is not an identifier: %v", cells[0].Source, cells[0])
	}
	return lisp.SExprCells(cells).WithSource(open.Source), nil
}

// ParseArray parses an array literal.  Elements are kept unevaluated.
func (p *Parser) ParseArray() (*lisp.LVal, error) {
	if !p.src.AcceptType(token.BRACE_L) {
		return nil, p.errorf("invalid array: %v", p.src.Peek.Type)
	}
	open := p.src.Token
	cells, err := p.parseSequence(token.BRACE_R)
	if err != nil {
		return nil, err
	}
	return lisp.Array(cells).WithSource(open.Source), nil
}

// parseSequence parses expressions until a closing token of type end.
func (p *Parser) parseSequence(end token.Type) ([]*lisp.LVal, error) {
	cells := []*lisp.LVal{}
	for !p.src.AcceptType(end) {
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		cells = append(cells, x)
	}
	return cells, nil
}

func (p *Parser) node(v *lisp.LVal) *lisp.LVal {
	v.Source = p.src.Token.Source
	return v
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	return lisp.Errorf(lisp.KindSyntax, "", "%s: %s", p.src.Token.Source, fmt.Sprintf(format, v...))
}

func (p *Parser) unexpectedEOF() error {
	return lisp.WrapError(lisp.KindSyntax, "", io.ErrUnexpectedEOF, "%s", p.src.Token.Source)
}

// NameLVal returns the value of a bare word in source text.
func NameLVal(name string) *lisp.LVal {
	switch name {
	case "true":
		return lisp.Bool(true)
	case "false":
		return lisp.Bool(false)
	case "nil":
		return lisp.Nil()
	default:
		return lisp.Ident(name)
	}
}

// DecodeString decodes the escaped quotes in the body of a string literal.
// Other escape sequences are kept verbatim.
func DecodeString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if s[i+1] == '"' {
				buf.WriteByte('"')
			} else {
				buf.WriteByte('\\')
				buf.WriteByte(s[i+1])
			}
			i++
			continue
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}
