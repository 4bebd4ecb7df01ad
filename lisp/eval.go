package lisp

import (
	"log/slog"
	"strings"
)

// formKind determines how the operands of an s-expression are prepared
// before its operator is invoked.
type formKind uint

const (
	// formCall evaluates every operand, left to right.
	formCall formKind = iota
	// formFn pushes every operand unevaluated.
	formFn
	// formIf evaluates the condition and pushes the branches unevaluated.
	formIf
	// formDefine pushes the name unevaluated and evaluates the rest.
	formDefine
	// formSet pushes the target unevaluated and evaluates the rest.
	formSet
)

var specialForms = map[string]formKind{
	"fn":     formFn,
	"if":     formIf,
	"define": formDefine,
	"set":    formSet,
}

func classifyForm(op string) formKind {
	return specialForms[op]
}

// Eval evaluates node in the scope of env and pushes the resulting value onto
// stack.  When Eval returns without an error the stack holds exactly one more
// value than it did when Eval was called.
func (env *LEnv) Eval(stack *Stack, node *LVal) error {
	height := stack.Len()
	err := stack.enter(env.Runtime.MaxDepth)
	if err != nil {
		return attachForm(err, node)
	}
	defer stack.leave()

	switch node.Type {
	case LSExpr:
		err = env.evalSExpr(stack, node)
	case LIdent:
		err = env.evalIdent(stack, node)
	default:
		stack.Push(node)
	}
	if err != nil {
		return err
	}
	// Discard any scratch values left behind by the expression.
	stack.Truncate(height + 1)
	return nil
}

func (env *LEnv) evalIdent(stack *Stack, node *LVal) error {
	b, ok := env.Find(node.Str)
	if !ok {
		return attachForm(lookupErrorf("", "unbound symbol: %s", node.Str), node)
	}
	if b.IsBuiltin() {
		return attachForm(typeErrorf(node.Str, "native procedure used as a value"), node)
	}
	stack.Push(b.Value)
	return nil
}

func (env *LEnv) evalSExpr(stack *Stack, node *LVal) error {
	op := node.Op()
	operands := node.Operands()
	switch classifyForm(op) {
	case formFn:
		for _, x := range operands {
			stack.Push(x)
		}
	case formIf:
		if len(operands) > 0 {
			err := env.Eval(stack, operands[0])
			if err != nil {
				return err
			}
			for _, x := range operands[1:] {
				stack.Push(x)
			}
		}
	case formDefine, formSet:
		if len(operands) > 0 {
			stack.Push(operands[0])
			err := env.evalAll(stack, operands[1:])
			if err != nil {
				return err
			}
		}
	default:
		err := env.evalAll(stack, operands)
		if err != nil {
			return err
		}
	}

	b, ok := env.Find(op)
	if !ok {
		return attachForm(lookupErrorf(op, "unbound procedure"), node)
	}
	v, err := env.invoke(stack, op, b, len(operands))
	if err != nil {
		return attachForm(err, node)
	}
	stack.Push(v)
	return nil
}

func (env *LEnv) evalAll(stack *Stack, nodes []*LVal) error {
	for _, x := range nodes {
		err := env.Eval(stack, x)
		if err != nil {
			return err
		}
	}
	return nil
}

// evalPop evaluates node and removes the result from the top of stack.
func (env *LEnv) evalPop(stack *Stack, node *LVal) (*LVal, error) {
	err := env.Eval(stack, node)
	if err != nil {
		return nil, err
	}
	return stack.Pop()
}

// invoke calls the procedure bound to name with the nargs operands at the top
// of stack.
func (env *LEnv) invoke(stack *Stack, name string, b Binding, nargs int) (*LVal, error) {
	if b.IsBuiltin() {
		env.Runtime.Logger.Debug("call builtin",
			slog.String("name", name),
			slog.Int("nargs", nargs),
			slog.Int("stack-height", stack.Len()))
		return b.Builtin.fun(env, stack, nargs)
	}
	if b.Value == nil || b.Value.Type != LCode {
		return nil, lookupErrorf(name, "not a procedure: %v", b)
	}
	return env.callCode(stack, name, b.Value.Code, nargs)
}

// callCode invokes a closure.  Arguments are bound in a new child of the
// environment captured by the closure.
func (env *LEnv) callCode(stack *Stack, name string, code *Code, nargs int) (*LVal, error) {
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	callenv := NewEnv(code.Env)
	err = bindParams(callenv, name, code.Formals, args)
	if err != nil {
		return nil, err
	}
	env.Runtime.Logger.Debug("call code",
		slog.String("name", name),
		slog.Int("nargs", nargs),
		slog.Uint64("env", uint64(callenv.ID)),
		slog.Int("stack-height", stack.Len()))
	if len(code.Body) == 0 {
		return Nil(), nil
	}
	for i, expr := range code.Body {
		err := callenv.Eval(stack, expr)
		if err != nil {
			return nil, err
		}
		if i < len(code.Body)-1 {
			stack.Pop()
		}
	}
	return stack.Pop()
}

// bindParams binds args to the parameters in formals.  Arguments beyond the
// last parameter are dropped.  A rest parameter binds every remaining argument
// as an array.
func bindParams(env *LEnv, proc string, formals *LVal, args []*LVal) error {
	for i, param := range formals.Cells {
		if param.Type != LIdent {
			return arityErrorf(proc, "parameter %d is not an identifier: %v", i, param)
		}
		name := param.Str
		if strings.HasSuffix(name, RestSuffix) {
			name = strings.TrimSuffix(name, RestSuffix)
			if name == "" {
				return arityErrorf(proc, "rest parameter has no name")
			}
			if i != len(formals.Cells)-1 {
				return arityErrorf(proc, "rest parameter is not last: %s", param.Str)
			}
			rest := make([]*LVal, 0, len(args))
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			env.Declare(name, ValueBinding(Array(rest)))
			return nil
		}
		if i >= len(args) {
			return arityErrorf(proc, "missing argument for parameter %s (got %d arguments)", name, len(args))
		}
		env.Declare(name, ValueBinding(args[i]))
	}
	return nil
}
