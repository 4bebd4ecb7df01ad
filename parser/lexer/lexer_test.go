package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Arcterus/iron/parser/token"
)

func lexAll(src string) []*token.Token {
	lex := New(token.NewScanner("test", strings.NewReader(src)))
	var toks []*token.Token
	for {
		tok := lex.NextToken()
		toks = append(toks, tok)
		switch tok.Type {
		case token.EOF, token.PARTIAL, token.ERROR, token.INVALID:
			return toks
		}
	}
}

func TestLexer(t *testing.T) {
	type tokenSpec struct {
		typ  token.Type
		text string
	}
	tests := []struct {
		src  string
		toks []tokenSpec
	}{
		{"", []tokenSpec{{token.EOF, ""}}},
		{"  \n\t", []tokenSpec{{token.EOF, ""}}},
		{"(+ 1 2)", []tokenSpec{
			{token.PAREN_L, "("},
			{token.SYMBOL, "+"},
			{token.INT, "1"},
			{token.INT, "2"},
			{token.PAREN_R, ")"},
			{token.EOF, ""},
		}},
		{"[a b...] 'sym '(x)", []tokenSpec{
			{token.BRACE_L, "["},
			{token.SYMBOL, "a"},
			{token.SYMBOL, "b..."},
			{token.BRACE_R, "]"},
			{token.QUOTE, "'"},
			{token.SYMBOL, "sym"},
			{token.QUOTE, "'"},
			{token.PAREN_L, "("},
			{token.SYMBOL, "x"},
			{token.PAREN_R, ")"},
			{token.EOF, ""},
		}},
		{"-3 +4 - 2.5 1e3 1.5E-2 -", []tokenSpec{
			{token.INT, "-3"},
			{token.INT, "+4"},
			{token.SYMBOL, "-"},
			{token.FLOAT, "2.5"},
			{token.FLOAT, "1e3"},
			{token.FLOAT, "1.5E-2"},
			{token.SYMBOL, "-"},
			{token.EOF, ""},
		}},
		{`"a \"b\" \n" ; comment` + "\nx", []tokenSpec{
			{token.STRING, `"a \"b\" \n"`},
			{token.COMMENT, "; comment"},
			{token.SYMBOL, "x"},
			{token.EOF, ""},
		}},
		{`"open`, []tokenSpec{{token.PARTIAL, "unexpected EOF"}}},
		{"\"line\nbreak\"", []tokenSpec{{token.ERROR, "unterminated string literal"}}},
		{"1.x", []tokenSpec{{token.ERROR, "invalid floating point literal: 1."}}},
		{"#", []tokenSpec{{token.INVALID, `unexpected text starting with '#'`}}},
	}
	for _, test := range tests {
		toks := lexAll(test.src)
		if !assert.Len(t, toks, len(test.toks), "%q", test.src) {
			continue
		}
		for i, tok := range toks {
			assert.Equal(t, test.toks[i].typ, tok.Type, "%q: token %d", test.src, i)
			assert.Equal(t, test.toks[i].text, tok.Text, "%q: token %d", test.src, i)
		}
	}
}

func TestLexer_location(t *testing.T) {
	toks := lexAll("(a\n  bc)")
	if assert.Len(t, toks, 5) {
		assert.Equal(t, "test:1:1", toks[0].Source.String())
		assert.Equal(t, "test:1:2", toks[1].Source.String())
		assert.Equal(t, "test:2:3", toks[2].Source.String())
		assert.Equal(t, 5, toks[2].Source.Pos)
		assert.Equal(t, "test:2:5", toks[3].Source.String())
	}
}

func TestLexer_terminal(t *testing.T) {
	lex := New(token.NewScanner("test", strings.NewReader("a")))
	assert.Equal(t, token.SYMBOL, lex.NextToken().Type)
	assert.Equal(t, token.EOF, lex.NextToken().Type)
	assert.Equal(t, token.EOF, lex.NextToken().Type)

	lex = New(token.NewScanner("test", strings.NewReader("a \xff b")))
	assert.Equal(t, token.SYMBOL, lex.NextToken().Type)
	tok := lex.NextToken()
	assert.Equal(t, token.ERROR, tok.Type)
	assert.Contains(t, tok.Text, "invalid utf-8")

	lex = New(token.NewScanner("test", strings.NewReader("# a")))
	assert.Equal(t, token.INVALID, lex.NextToken().Type)
	assert.Equal(t, token.ERROR, lex.NextToken().Type)
}
