package rdparser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arcterus/iron/lisp"
)

func read(src string) ([]*lisp.LVal, error) {
	return NewReader().Read("test", strings.NewReader(src))
}

func TestParser(t *testing.T) {
	tests := []struct {
		src   string
		forms []string
	}{
		{"", nil},
		{"; only a comment", nil},
		{"1 -2 +3 2.5 -1.5e2", []string{"1", "-2", "3", "2.5", "-150.0"}},
		{`"plain" "esc\"aped" "kept\n\\"`, []string{`"plain"`, `"esc\"aped"`, `"kept\n\\"`}},
		{"true false nil name b...", []string{"true", "false", "nil", "name", "b..."}},
		{"'sym '() '(1 (+ 2 3))", []string{"'sym", "'()", "'(1 (+ 2 3))"}},
		{"() (f) (+ 1 (g 2))", []string{"nil", "(f)", "(+ 1 (g 2))"}},
		{"[] [1 [2] (f x)]", []string{"[]", "[1 [2] (f x)]"}},
		{"(define x ; trailing\n  1) ; end", []string{"(define x 1)"}},
	}
	for _, test := range tests {
		forms, err := read(test.src)
		if !assert.NoError(t, err, "%q", test.src) {
			continue
		}
		var text []string
		for _, form := range forms {
			text = append(text, form.String())
		}
		assert.Equal(t, test.forms, text, "%q", test.src)
	}
}

func TestParser_types(t *testing.T) {
	forms, err := read(`1 1.0 "s" 'q '(1) [1] (f) x true nil ()`)
	require.NoError(t, err)
	types := []lisp.LValType{
		lisp.LInt, lisp.LFloat, lisp.LString, lisp.LSymbol, lisp.LList,
		lisp.LArray, lisp.LSExpr, lisp.LIdent, lisp.LBool, lisp.LNil, lisp.LNil,
	}
	if assert.Len(t, forms, len(types)) {
		for i, form := range forms {
			assert.Equal(t, types[i], form.Type, "form %d: %v", i, form)
		}
	}
	// The string body is decoded.
	forms, err = read(`"a\"b"`)
	require.NoError(t, err)
	assert.Equal(t, `a"b`, forms[0].Str)
}

func TestParser_source(t *testing.T) {
	forms, err := read("(+ 1\n   [x])")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	form := forms[0]
	assert.Equal(t, "test:1:1", form.Source.String())
	assert.Equal(t, "test:1:2", form.Cells[0].Source.String())
	assert.Equal(t, "test:1:4", form.Cells[1].Source.String())
	assert.Equal(t, "test:2:4", form.Cells[2].Source.String())
	assert.Equal(t, "test:2:5", form.Cells[2].Cells[0].Source.String())
}

func TestParser_errors(t *testing.T) {
	tests := []struct {
		src        string
		incomplete bool
	}{
		{"(+ 1", true},
		{"[1 2", true},
		{"'(a", true},
		{"'", true},
		{`"open`, true},
		{`(print "open`, true},
		{")", false},
		{"]", false},
		{"(1 2)", false},
		{`("s")`, false},
		{"'1", false},
		{"(a]", false},
		{"99999999999999999999", false},
		{"\"line\nbreak\"", false},
		{"#", false},
	}
	for _, test := range tests {
		_, err := read(test.src)
		if !assert.Error(t, err, "%q", test.src) {
			continue
		}
		assert.True(t, lisp.IsKind(err, lisp.KindSyntax), "%q: %v", test.src, err)
		assert.Equal(t, test.incomplete, errors.Is(err, io.ErrUnexpectedEOF), "%q: %v", test.src, err)
	}
}

func TestDecodeString(t *testing.T) {
	assert.Equal(t, `abc`, DecodeString(`abc`))
	assert.Equal(t, `a"b`, DecodeString(`a\"b`))
	assert.Equal(t, `a\\"b`, DecodeString(`a\\\"b`))
	assert.Equal(t, `\n\t`, DecodeString(`\n\t`))
	assert.Equal(t, `a\`, DecodeString(`a\`))
}
