package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arcterus/iron/lisp"
	"github.com/Arcterus/iron/parser/rdparser"
)

func TestSession(t *testing.T) {
	var out, errout bytes.Buffer
	in, err := lisp.New(
		lisp.WithReader(rdparser.NewReader()),
		lisp.WithStdout(&out),
		lisp.WithStderr(&errout))
	require.NoError(t, err)
	s := newSession(in)

	assert.False(t, s.feed([]byte("(define x 1)")))
	assert.Equal(t, "1\n", out.String())
	out.Reset()

	// Incomplete input continues on the next line.
	assert.True(t, s.feed([]byte("(+ x")))
	assert.True(t, s.feed([]byte("   2")))
	assert.Equal(t, "", out.String())
	assert.False(t, s.feed([]byte(")")))
	assert.Equal(t, "3\n", out.String())
	out.Reset()

	// Errors are reported and the environment survives.
	assert.False(t, s.feed([]byte("(undefined)")))
	assert.Contains(t, errout.String(), "unbound procedure")
	assert.False(t, s.feed([]byte("x")))
	assert.Equal(t, "1\n", out.String())
	out.Reset()

	assert.True(t, s.feed([]byte(`(print "a`)))
	s.reset()
	assert.False(t, s.feed([]byte("   ")))
	assert.False(t, s.feed([]byte(`(print "hi\n")`)))
	assert.Equal(t, "hi\n0\n", out.String())
}
