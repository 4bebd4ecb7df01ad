package lisp

import (
	"io"
	"strconv"
	"strings"
)

type langBuiltin struct {
	name string
	fun  LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Eval(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	return fun.fun(env, stack, nargs)
}

// langBuiltins returns the builtin table.  The table is built on each call
// because import refers back to it through newInterpreter.
func langBuiltins() []*langBuiltin {
	return []*langBuiltin{
		{"+", builtinAdd},
		{"=", builtinEqual},
		{"print", builtinPrint},
		{"if", builtinIf},
		{"define", builtinDefine},
		{"fn", builtinFn},
		{"get", builtinGet},
		{"set", builtinSet},
		{"len", builtinLen},
		{"import", builtinImport},
		{"type", builtinType},
	}
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	fns := langBuiltins()
	ops := make([]LBuiltinDef, len(fns))
	for i := range fns {
		ops[i] = fns[i]
	}
	return ops
}

func builtinAdd(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	var isum int64
	var fsum float64
	decimal := false
	for i, x := range args {
		switch x.Type {
		case LInt:
			isum += x.Int
			fsum += float64(x.Int)
		case LFloat:
			decimal = true
			fsum += x.Float
		default:
			return nil, typeErrorf("+", "argument %d is not a number: %v", i+1, x.Type)
		}
	}
	if decimal {
		return Float(fsum), nil
	}
	return Int(isum), nil
}

func builtinEqual(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs < 2 {
		return nil, arityErrorf("=", "needs at least two operands (got %d)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	for _, x := range args[1:] {
		if !args[0].Equal(x) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func builtinPrint(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs < 1 {
		return nil, arityErrorf("print", "needs at least one operand")
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	var buf strings.Builder
	for _, x := range args {
		text, err := printText(x)
		if err != nil {
			return nil, err
		}
		buf.WriteString(text)
	}
	_, err = io.WriteString(env.Runtime.Stdout, buf.String())
	if err != nil {
		return nil, WrapError(KindResource, "print", err, "write failed")
	}
	return Int(0), nil
}

// printText renders v the way ``print'' writes it.
func printText(v *LVal) (string, error) {
	switch v.Type {
	case LInt:
		return strconv.FormatInt(v.Int, 10), nil
	case LFloat:
		return formatFloat(v.Float), nil
	case LString:
		return unescapeString(v.Str)
	case LSymbol, LBool, LNil, LArray, LList:
		return v.String(), nil
	default:
		return "", typeErrorf("print", "cannot print value of type %v", v.Type)
	}
}

// formatFloat rounds x to 15 significant digits and formats the result
// without an exponent.
func formatFloat(x float64) string {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', 15, 64), 64)
	if err != nil {
		r = x
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// unescapeString interprets the escape sequences \\, \n and \t in s.  Any
// other escaped character is a syntax error.
func unescapeString(s string) (string, error) {
	var buf strings.Builder
	escape := false
	for _, c := range s {
		if escape {
			switch c {
			case '\\':
				buf.WriteByte('\\')
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			default:
				return "", syntaxErrorf("print", "\\%c is not a valid escape sequence", c)
			}
			escape = false
			continue
		}
		if c == '\\' {
			escape = true
			continue
		}
		buf.WriteRune(c)
	}
	if escape {
		return "", syntaxErrorf("print", "unterminated escape sequence")
	}
	return buf.String(), nil
}

func builtinIf(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs < 2 || nargs > 3 {
		return nil, arityErrorf("if", "needs a condition, a consequent, and an optional alternative (got %d operands)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	cond := args[0]
	if cond.Type != LBool {
		return nil, typeErrorf("if", "condition is not a boolean: %v", cond.Type)
	}
	switch {
	case cond.Bool:
		return env.evalPop(stack, args[1])
	case nargs == 3:
		return env.evalPop(stack, args[2])
	default:
		return Nil(), nil
	}
}

func builtinDefine(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs != 2 {
		return nil, arityErrorf("define", "needs a name and a value (got %d operands)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	name, err := identName(env, stack, "define", args[0])
	if err != nil {
		return nil, err
	}
	val := args[1]
	if val.Type == LSExpr {
		// The value is unevaluated syntax that was stored as data, e.g. an
		// element of an array literal.
		val, err = env.evalPop(stack, val)
		if err != nil {
			return nil, err
		}
	}
	env.Declare(name, ValueBinding(val))
	return val, nil
}

// identName returns the name of the identifier v.  When v is an s-expression
// it is evaluated and must produce an identifier.
func identName(env *LEnv, stack *Stack, proc string, v *LVal) (string, error) {
	if v.Type == LSExpr {
		var err error
		v, err = env.evalPop(stack, v)
		if err != nil {
			return "", err
		}
	}
	if v.Type != LIdent {
		return "", typeErrorf(proc, "first argument is not an identifier: %v", v.Type)
	}
	return v.Str, nil
}

func builtinFn(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs < 1 {
		return nil, arityErrorf("fn", "needs a parameter array")
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	if args[0].Type != LArray {
		return nil, typeErrorf("fn", "parameter list is not an array: %v", args[0].Type)
	}
	return NewCode(args[0], args[1:], env), nil
}

func builtinGet(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs != 2 {
		return nil, arityErrorf("get", "needs an array and an index (got %d operands)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	arr := args[0]
	if arr.Type != LArray {
		return nil, typeErrorf("get", "first argument is not an array: %v", arr.Type)
	}
	i, err := resolveIndex("get", arr, args[1])
	if err != nil {
		return nil, err
	}
	return arr.Cells[i], nil
}

func builtinSet(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs != 3 {
		return nil, arityErrorf("set", "needs an array name, an index, and a value (got %d operands)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	target, index, val := args[0], args[1], args[2]
	switch target.Type {
	case LArray:
		// A literal array has no name to rebind.
		return Nil(), nil
	case LIdent:
	default:
		return nil, typeErrorf("set", "first argument is not an identifier: %v", target.Type)
	}
	b, ok := env.Find(target.Str)
	if !ok {
		return nil, lookupErrorf("set", "unbound symbol: %s", target.Str)
	}
	if b.IsBuiltin() || b.Value.Type != LArray {
		return nil, typeErrorf("set", "%s is not bound to an array", target.Str)
	}
	i, err := resolveIndex("set", b.Value, index)
	if err != nil {
		return nil, err
	}
	cells := make([]*LVal, len(b.Value.Cells))
	copy(cells, b.Value.Cells)
	cells[i] = val
	if !env.Replace(target.Str, ValueBinding(Array(cells))) {
		return nil, lookupErrorf("set", "unbound symbol: %s", target.Str)
	}
	return Nil(), nil
}

// resolveIndex converts idx into an index of arr.  Negative indices count
// from the end of arr.
func resolveIndex(proc string, arr *LVal, idx *LVal) (int, error) {
	if idx.Type != LInt {
		return 0, typeErrorf(proc, "index is not an integer: %v", idx.Type)
	}
	n := int64(len(arr.Cells))
	i := idx.Int
	if i < -n || i >= n {
		return 0, boundsErrorf(proc, "index %d out of range for length %d", i, n)
	}
	if i < 0 {
		i += n
	}
	return int(i), nil
}

func builtinLen(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs != 1 {
		return nil, arityErrorf("len", "needs one array (got %d operands)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	if args[0].Type != LArray {
		return nil, typeErrorf("len", "argument is not an array: %v", args[0].Type)
	}
	return Int(int64(len(args[0].Cells))), nil
}

func builtinImport(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs < 1 {
		return nil, arityErrorf("import", "needs at least one module path")
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	// Every path is resolved against FILE as bound when import is called.
	paths := make([]string, len(args))
	for i, x := range args {
		if x.Type != LString {
			return nil, typeErrorf("import", "module path is not a string: %v", x.Type)
		}
		paths[i], err = resolveModulePath(env, x.Str)
		if err != nil {
			return nil, err
		}
	}
	for _, path := range paths {
		err := importModule(env, path)
		if err != nil {
			return nil, err
		}
	}
	return Nil(), nil
}

func builtinType(env *LEnv, stack *Stack, nargs int) (*LVal, error) {
	if nargs != 1 {
		return nil, arityErrorf("type", "needs one operand (got %d)", nargs)
	}
	args, err := stack.PopN(nargs)
	if err != nil {
		return nil, err
	}
	switch t := args[0].Type; t {
	case LInt, LFloat, LArray, LList, LString, LSymbol, LCode, LBool, LNil:
		return Symbol(t.String()), nil
	default:
		return nil, typeErrorf("type", "unrecognized type: %v", t)
	}
}
