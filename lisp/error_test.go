package lisp

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Arcterus/iron/parser/token"
)

func TestErrors(t *testing.T) {
	err := Errorf(KindType, "+", "argument %d is not a number", 2)
	assert.Equal(t, "+: argument 2 is not a number", err.Error())
	assert.Equal(t, "type-error", err.Kind.String())

	err.Form = SExpr("+").WithSource(&token.Location{File: "test.irl", Line: 3, Col: 7})
	assert.Equal(t, "test.irl:3:7: +: argument 2 is not a number", err.Error())

	wrapped := WrapError(KindSyntax, "", io.ErrUnexpectedEOF, "test:1:1")
	assert.Equal(t, "test:1:1: unexpected EOF", wrapped.Error())
	assert.True(t, errors.Is(wrapped, io.ErrUnexpectedEOF))

	outer := fmt.Errorf("running: %w", wrapped)
	assert.Equal(t, KindSyntax, ErrorKindOf(outer))
	assert.True(t, IsKind(outer, KindSyntax))
	assert.False(t, IsKind(nil, KindUnknown))
	assert.Equal(t, KindUnknown, ErrorKindOf(errors.New("plain")))
	assert.Equal(t, "error", ErrorKind(99).String())
}

func TestAttachForm(t *testing.T) {
	inner := SExpr("len")
	outer := SExpr("print", inner)
	err := attachForm(arityErrorf("len", "needs one array"), inner)
	err = attachForm(err, outer)
	var lerr *Error
	if assert.True(t, errors.As(err, &lerr)) {
		assert.Same(t, inner, lerr.Form)
	}
	assert.Equal(t, io.EOF, attachForm(io.EOF, outer))
}
