// Package parser provides an Iron reader built from parser combinators.
//
//	expr     := <comment> | <term> | <sexpr> | <array> | <quoted>
//	sexpr    := '(' <expr>* ')'
//	array    := '[' <expr>* ']'
//	quoted   := "'" <symbol> | "'" '(' <expr>* ')'
//	term     := <string> | <number> | <symbol>
//	number   := /[+-]?[0-9]+/ <fraction>? <exponent>?
//	fraction := '.' /[0-9]+/
//	exponent := e /[+-]?[0-9]+/
//	string   := '"' <strcontent> '"'
//	comment  := ';' /[^\n]*/
//
// The rdparser package implements the same grammar by hand and is the default
// reader.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"

	"github.com/Arcterus/iron/lisp"
	"github.com/Arcterus/iron/parser/rdparser"
	"github.com/Arcterus/iron/parser/token"
)

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
	nodeArray
	nodeQuote
)

var nodeTypeStrings = []string{
	nodeInvalid: "INVALID",
	nodeTerm:    "TERM",
	nodeSExpr:   "SEXPR",
	nodeArray:   "ARRAY",
	nodeQuote:   "QUOTE",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

type reader struct {
}

// NewReader returns a lisp.Reader backed by a combinator parser.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (_ *reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, lisp.WrapError(lisp.KindResource, "", err, "%s", name)
	}
	return ParseLVal(name, text)
}

// ParseLVal parses every expression in text.  When text ends inside of an
// expression the returned error wraps io.ErrUnexpectedEOF.
func ParseLVal(name string, text []byte) ([]*lisp.LVal, error) {
	var v []*lisp.LVal
	b := &builder{name: name, text: text}
	s := parsec.NewScanner(text)
	parser := b.newParsecParser()
	root, s := parser(s)
	for root != nil {
		lval, err := getLVal(root)
		if err != nil {
			return nil, err
		}
		if lval != nil {
			v = append(v, lval)
		}
		root, s = parser(s)
	}
	cursor := s.GetCursor()
	rest := string(text[cursor:])
	if strings.TrimSpace(rest) != "" {
		return nil, b.restError(cursor, rest)
	}
	return v, nil
}

// builder converts parsec nodes into Iron syntax trees.
type builder struct {
	name string
	text []byte
}

func (b *builder) newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	q := parsec.Atom("'", "QUOTE")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	str := parsec.Token(`"(?:[^"\\\n]|\\.)*"`, "STRING")
	decimal := parsec.Token(`[+-]?[0-9]+([.][0-9]+)?([eE][+-]?[0-9]+)?`, "DECIMAL")
	symbol := parsec.Token(`(?:\pL|[._+\-*/=<>!&~%?$])(?:\pL|[0-9]|[._+\-*/=<>!&~%?$])*`, "SYMBOL")
	term := parsec.OrdChoice(b.astNode(nodeTerm), // terminal token
		str,
		decimal,
		symbol, // symbol comes last because it swallows anything
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(b.astNode(nodeSExpr), openP, exprList, closeP)
	array := parsec.And(b.astNode(nodeArray), openB, exprList, closeB)
	quoted := parsec.And(b.astNode(nodeQuote), q,
		parsec.OrdChoice(nil, symbol, parsec.And(nil, openP, exprList, closeP)))
	expr = parsec.OrdChoice(nil, comment, term, sexpr, array, quoted)
	return expr
}

func (b *builder) astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.newAST(t, nodes)
	}
}

// newAST returns an *lisp.LVal for the nodes matched by a rule of type typ.
// Syntax errors are returned as error nodes and propagate to the root.
func (b *builder) newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			panic(fmt.Sprintf("unexpected term node: %T", nodes[0]))
		}
		loc := b.location(term.Position)
		switch term.Name {
		case "STRING":
			return lisp.String(rdparser.DecodeString(unquoteString(term.Value))).WithSource(loc)
		case "DECIMAL":
			if strings.ContainsAny(term.Value, ".eE") {
				f, err := strconv.ParseFloat(term.Value, 64)
				if err != nil {
					return b.errorf(loc, "invalid floating point literal: %v", term.Value)
				}
				return lisp.Float(f).WithSource(loc)
			}
			x, err := strconv.ParseInt(term.Value, 10, 64)
			if err != nil {
				return b.errorf(loc, "integer literal overflows int64: %v", term.Value)
			}
			return lisp.Int(x).WithSource(loc)
		case "SYMBOL":
			return rdparser.NameLVal(term.Value).WithSource(loc)
		}
		panic(fmt.Sprintf("unknown terminal: %s", term.Name))
	case nodeSExpr:
		loc := b.location(nodes[0].(*parsec.Terminal).Position)
		cells, err := exprCells(nodes)
		if err != nil {
			return err
		}
		if len(cells) == 0 {
			return lisp.Nil().WithSource(loc)
		}
		if cells[0].Type != lisp.LIdent {
			return b.errorf(cells[0].Source, "operator is not an identifier: %v", cells[0])
		}
		return lisp.SExprCells(cells).WithSource(loc)
	case nodeArray:
		loc := b.location(nodes[0].(*parsec.Terminal).Position)
		cells, err := exprCells(nodes)
		if err != nil {
			return err
		}
		return lisp.Array(cells).WithSource(loc)
	case nodeQuote:
		loc := b.location(nodes[0].(*parsec.Terminal).Position)
		if term, ok := nodes[1].(*parsec.Terminal); ok && term.Name == "SYMBOL" {
			return lisp.Symbol(term.Value).WithSource(loc)
		}
		cells, err := exprCells(nodes)
		if err != nil {
			return err
		}
		return lisp.List(cells).WithSource(loc)
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

// exprCells returns the expressions among nodes.  Delimiters and comments
// are dropped.
func exprCells(nodes []parsec.ParsecNode) ([]*lisp.LVal, error) {
	cells := []*lisp.LVal{}
	for _, c := range nodes {
		switch c := c.(type) {
		case *lisp.LVal:
			cells = append(cells, c)
		case error:
			return nil, c
		}
	}
	return cells, nil
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// getLVal returns the expression parsed at root.  A nil value is returned
// for a top-level comment.
func getLVal(root parsec.ParsecNode) (*lisp.LVal, error) {
	nodes := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return nil, nil
	}
	switch node := nodes[0].(type) {
	case *lisp.LVal:
		return node, nil
	case error:
		return nil, node
	default:
		return nil, nil
	}
}

// location converts a byte offset in the source text into a Location.
func (b *builder) location(pos int) *token.Location {
	if pos > len(b.text) {
		pos = len(b.text)
	}
	prefix := b.text[:pos]
	line := 1 + strings.Count(string(prefix), "\n")
	col := 1 + len([]rune(string(prefix[strings.LastIndexByte(string(prefix), '\n')+1:])))
	return &token.Location{
		File: b.name,
		Pos:  pos,
		Line: line,
		Col:  col,
	}
}

func (b *builder) errorf(loc *token.Location, format string, v ...interface{}) error {
	return lisp.Errorf(lisp.KindSyntax, "", "%s: %s", loc, fmt.Sprintf(format, v...))
}

// restError describes the unparsed text at the end of the input.
func (b *builder) restError(cursor int, rest string) error {
	offset := len(rest) - len(strings.TrimLeft(rest, " \t\r\n"))
	loc := b.location(cursor + offset)
	if incomplete(rest) {
		return lisp.WrapError(lisp.KindSyntax, "", io.ErrUnexpectedEOF, "%s", loc)
	}
	return b.errorf(loc, "unexpected text: %q", firstLine(rest[offset:]))
}

// incomplete returns true if text ends inside of a string or with unclosed
// brackets.
func incomplete(text string) bool {
	depth := 0
	inString := false
	inComment := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			switch c {
			case '\\':
				i++
			case '\n':
				return false
			case '"':
				inString = false
			}
		case c == ';':
			inComment = true
		case c == '"':
			inString = true
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return inString || depth > 0
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func unquoteString(s string) string {
	return s[1 : len(s)-1]
}
