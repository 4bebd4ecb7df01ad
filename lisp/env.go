package lisp

import (
	"fmt"
	"sync/atomic"
)

var envCount uint64

func getEnvID() uint {
	return uint(atomic.AddUint64(&envCount, 1))
}

// LBuiltin is a native procedure.  It consumes its nargs operands from the top
// of stack and returns the value of the call.
type LBuiltin func(env *LEnv, stack *Stack, nargs int) (*LVal, error)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Eval(env *LEnv, stack *Stack, nargs int) (*LVal, error)
}

// Builtin is a handle to a native procedure bound in an environment.  Two
// handles denote the same procedure only if they are the same pointer.
type Builtin struct {
	name string
	fun  LBuiltin
}

// Name returns the name the procedure was registered under.
func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) String() string {
	return fmt.Sprintf("<builtin ``%s''>", b.name)
}

// Binding is the value a name is bound to in an environment: either an
// ordinary value or a native procedure.
type Binding struct {
	Value   *LVal
	Builtin *Builtin
}

// ValueBinding returns a Binding for v.
func ValueBinding(v *LVal) Binding {
	return Binding{Value: v}
}

// IsBuiltin returns true if b refers to a native procedure.
func (b Binding) IsBuiltin() bool {
	return b.Builtin != nil
}

// Equal returns true if b and other bind the same native procedure or
// structurally equal values.
func (b Binding) Equal(other Binding) bool {
	if b.Builtin != nil || other.Builtin != nil {
		return b.Builtin == other.Builtin
	}
	return b.Value.Equal(other.Value)
}

func (b Binding) String() string {
	if b.Builtin != nil {
		return b.Builtin.String()
	}
	if b.Value == nil {
		return "<unbound>"
	}
	return b.Value.String()
}

// LEnv is a lexical environment.
type LEnv struct {
	ID      uint
	Scope   map[string]Binding
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnv returns initializes and returns a new LEnv.  A child environment
// shares the runtime of its parent.
func NewEnv(parent *LEnv) *LEnv {
	var rt *Runtime
	if parent != nil {
		rt = parent.Runtime
	} else {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      getEnvID(),
		Scope:   make(map[string]Binding),
		Parent:  parent,
		Runtime: rt,
	}
}

// Find returns the binding for name in env or its nearest ancestor binding
// name.
func (env *LEnv) Find(name string) (Binding, bool) {
	for ; env != nil; env = env.Parent {
		b, ok := env.Scope[name]
		if ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Replace rebinds name in the nearest environment (starting with env) that
// already binds it.  Replace returns false if no such environment exists.
func (env *LEnv) Replace(name string, b Binding) bool {
	for ; env != nil; env = env.Parent {
		if _, ok := env.Scope[name]; ok {
			env.Scope[name] = b
			return true
		}
	}
	return false
}

// Declare binds name in env, shadowing any binding in a parent environment.
func (env *LEnv) Declare(name string, b Binding) {
	env.Scope[name] = b
}

// Merge copies every binding local to other into env.
func (env *LEnv) Merge(other *LEnv) {
	for k, b := range other.Scope {
		env.Scope[k] = b
	}
}

// Root returns the root environment of env.
func (env *LEnv) Root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// AddBuiltins binds the given funs to their names in env.  When called with no
// arguments AddBuiltins adds the DefaultBuiltins to env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		if _, exist := env.Scope[f.Name()]; exist {
			panic("symbol already defined: " + f.Name())
		}
		env.Declare(f.Name(), Binding{Builtin: &Builtin{name: f.Name(), fun: f.Eval}})
	}
}
