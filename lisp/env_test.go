package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	root := NewEnv(nil)
	root.Declare("x", ValueBinding(Int(1)))
	child := NewEnv(root)
	sibling := NewEnv(root)
	assert.Same(t, root.Runtime, child.Runtime)
	assert.Same(t, root, child.Root())
	assert.NotEqual(t, root.ID, child.ID)

	b, ok := child.Find("x")
	if assert.True(t, ok) {
		assert.True(t, b.Value.Equal(Int(1)))
	}
	_, ok = child.Find("y")
	assert.False(t, ok)

	// Declare shadows without touching the parent.
	child.Declare("x", ValueBinding(Int(2)))
	b, _ = child.Find("x")
	assert.True(t, b.Value.Equal(Int(2)))
	b, _ = root.Find("x")
	assert.True(t, b.Value.Equal(Int(1)))
	b, _ = sibling.Find("x")
	assert.True(t, b.Value.Equal(Int(1)))

	// Replace mutates the nearest scope holding the name.
	assert.True(t, sibling.Replace("x", ValueBinding(Int(3))))
	b, _ = root.Find("x")
	assert.True(t, b.Value.Equal(Int(3)))
	b, _ = child.Find("x")
	assert.True(t, b.Value.Equal(Int(2)))
	assert.False(t, sibling.Replace("y", ValueBinding(Int(3))))
	_, ok = sibling.Find("y")
	assert.False(t, ok)
}

func TestEnv_builtins(t *testing.T) {
	env := NewEnv(nil)
	env.AddBuiltins()
	for _, name := range []string{"+", "=", "print", "if", "define", "fn", "get", "set", "len", "import", "type"} {
		b, ok := env.Find(name)
		if assert.True(t, ok, name) {
			assert.True(t, b.IsBuiltin(), name)
			assert.Equal(t, name, b.Builtin.Name())
		}
	}
	assert.Panics(t, func() { env.AddBuiltins() })

	plus, _ := env.Find("+")
	plus2, _ := env.Find("+")
	eq, _ := env.Find("=")
	assert.True(t, plus.Equal(plus2))
	assert.False(t, plus.Equal(eq))
	assert.False(t, plus.Equal(ValueBinding(Int(1))))
	assert.True(t, ValueBinding(Int(1)).Equal(ValueBinding(Int(1))))
}

func TestEnv_Merge(t *testing.T) {
	a := NewEnv(nil)
	a.Declare("x", ValueBinding(Int(1)))
	a.Declare("y", ValueBinding(Int(1)))
	b := NewEnv(nil)
	b.Declare("y", ValueBinding(Int(2)))
	b.Declare("z", ValueBinding(Int(2)))
	a.Merge(b)
	for name, want := range map[string]int64{"x": 1, "y": 2, "z": 2} {
		v, ok := a.Find(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, want, v.Value.Int, name)
		}
	}
}
