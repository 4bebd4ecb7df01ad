package lisp

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInterpreter(t *testing.T, config ...Config) (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	config = append([]Config{WithStdout(&out)}, config...)
	in, err := New(config...)
	require.NoError(t, err)
	return in, &out
}

func TestEval_stackDiscipline(t *testing.T) {
	in, _ := testInterpreter(t)
	env := in.Env()
	stack := NewStack()
	stack.Push(String("sentinel"))

	forms := []*LVal{
		Int(1),
		SExpr("+", Int(1), Int(2)),
		SExpr("define", Ident("f"), SExpr("fn", Array([]*LVal{Ident("a"), Ident("b...")}), Ident("a"))),
		SExpr("f", Int(1), Int(2), Int(3)),
		SExpr("if", Bool(false), Int(1)),
		SExpr("len", Array([]*LVal{Int(1), Int(2)})),
	}
	for i, form := range forms {
		height := stack.Len()
		err := env.Eval(stack, form)
		require.NoError(t, err, "form %d", i)
		assert.Equal(t, height+1, stack.Len(), "form %d: %v", i, form)
	}
	v, err := stack.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)
	assert.Equal(t, len(forms), stack.Len())
	assert.Equal(t, "sentinel", stack.Values[0].Str)
}

func TestEval_errors(t *testing.T) {
	in, _ := testInterpreter(t)
	tests := []struct {
		form *LVal
		kind ErrorKind
	}{
		{Ident("nope"), KindLookup},
		{Ident("print"), KindType},
		{SExpr("nope"), KindLookup},
		{SExpr("+", String("a")), KindType},
		{SExpr("get", Array([]*LVal{Int(1)}), Int(1)), KindBounds},
		{SExpr("len"), KindArity},
		{SExpr("print", String(`\x`)), KindSyntax},
		{SExpr("import", String("./missing")), KindResource},
	}
	for i, test := range tests {
		_, err := in.Eval(test.form)
		if assert.Error(t, err, "form %d", i) {
			assert.Equal(t, test.kind, ErrorKindOf(err), "form %d: %v", i, err)
		}
	}
}

func TestEval_restParameters(t *testing.T) {
	in, _ := testInterpreter(t)
	params := Array([]*LVal{Ident("a"), Ident("b...")})
	_, err := in.Eval(SExpr("define", Ident("x"), SExpr("fn", params, SExpr("+", Ident("a"), SExpr("len", Ident("b"))))))
	require.NoError(t, err)

	v, err := in.Eval(SExpr("x", Int(1), Int(2), Int(3), Int(4)))
	require.NoError(t, err)
	assert.True(t, v.Equal(Int(4)), "got %v", v)

	_, err = in.Eval(SExpr("define", Ident("rest"), SExpr("fn", params, Ident("b"))))
	require.NoError(t, err)
	v, err = in.Eval(SExpr("rest", Int(1), Int(2), Int(3)))
	require.NoError(t, err)
	assert.Equal(t, "[2 3]", v.String())
	v, err = in.Eval(SExpr("rest", Int(1)))
	require.NoError(t, err)
	assert.Equal(t, LArray, v.Type)
	assert.Len(t, v.Cells, 0)

	_, err = in.Eval(SExpr("rest"))
	assert.True(t, IsKind(err, KindArity), "%v", err)
}

func TestEval_defineEvaluatesName(t *testing.T) {
	in, _ := testInterpreter(t)
	// The name of a define may be computed, as long as it produces an
	// identifier.
	names := Array([]*LVal{Ident("computed")})
	v, err := in.Eval(SExpr("define", SExpr("get", names, Int(0)), Int(7)))
	require.NoError(t, err)
	assert.True(t, v.Equal(Int(7)))
	b, ok := in.Env().Find("computed")
	if assert.True(t, ok) {
		assert.True(t, b.Value.Equal(Int(7)))
	}
}

func TestEval_print(t *testing.T) {
	in, out := testInterpreter(t)
	v, err := in.Eval(SExpr("if", SExpr("=", Int(1), Int(1)), SExpr("print", String(`yes\n`)), SExpr("print", String(`no\n`))))
	require.NoError(t, err)
	assert.True(t, v.Equal(Int(0)))
	assert.Equal(t, "yes\n", out.String())
}

func TestBuiltinAdd(t *testing.T) {
	in, _ := testInterpreter(t)
	tests := []struct {
		args   []*LVal
		result *LVal
	}{
		{nil, Int(0)},
		{[]*LVal{Int(1), Int(2)}, Int(3)},
		{[]*LVal{Int(9007199254740993), Int(1)}, Int(9007199254740994)},
		{[]*LVal{Int(1), Float(0.5)}, Float(1.5)},
		{[]*LVal{Float(0.5), Float(0.5)}, Float(1)},
	}
	for i, test := range tests {
		v, err := in.Eval(SExpr("+", test.args...))
		require.NoError(t, err, "test %d", i)
		assert.True(t, test.result.Equal(v), "test %d: got %v", i, v)
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.3", formatFloat(0.1+0.2))
	assert.Equal(t, "2", formatFloat(2))
	assert.Equal(t, "-1.25", formatFloat(-1.25))
	assert.Equal(t, "1000000", formatFloat(1e6))
}

func TestUnescapeString(t *testing.T) {
	s, err := unescapeString(`a\tb\nc\\d`)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc\\d", s)

	_, err = unescapeString(`bad\q`)
	assert.True(t, IsKind(err, KindSyntax))
	_, err = unescapeString(`trailing\`)
	assert.True(t, IsKind(err, KindSyntax))
}

func TestInterpreter_Execute(t *testing.T) {
	in, _ := testInterpreter(t)
	// Without a reader nothing can be executed.
	in.LoadCode("(+ 1 2)")
	status, err := in.Execute()
	assert.Equal(t, 1, status)
	assert.True(t, IsKind(err, KindResource))
}

func TestInterpreter_logStack(t *testing.T) {
	var log bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&log, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in, _ := testInterpreter(t, WithLogger(logger))
	v, err := in.Eval(SExpr("+", Int(1), SExpr("+", Int(2), Int(3))))
	require.NoError(t, err)
	assert.True(t, v.Equal(Int(6)))
	assert.Contains(t, log.String(), "form evaluated")
	assert.Contains(t, log.String(), "MaxDepth  = 3")
	assert.Contains(t, log.String(), "NumPushes = 5")

	log.Reset()
	in, _ = testInterpreter(t)
	_, err = in.Eval(Int(1))
	require.NoError(t, err)
	assert.Empty(t, log.String())
}
