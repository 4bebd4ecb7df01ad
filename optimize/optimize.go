// Package optimize implements a lisp.Optimizer which folds constant
// expressions before a program is executed.
package optimize

import (
	"strings"

	"github.com/Arcterus/iron/lisp"
)

// foldable lists the builtins whose calls are folded when every operand is a
// literal.
var foldable = map[string]bool{
	"+":   true,
	"=":   true,
	"len": true,
}

type optimizer struct {
}

// New returns a lisp.Optimizer that folds calls to +, = and len over literal
// operands.
func New() lisp.Optimizer {
	return &optimizer{}
}

// Optimize implements lisp.Optimizer.  The input forms are not modified.  A
// call is folded only while env still binds its operator to a builtin.
func (o *optimizer) Optimize(env *lisp.LEnv, forms []*lisp.LVal) ([]*lisp.LVal, error) {
	names := rebound(forms)
	if names == nil {
		return forms, nil
	}
	in, err := lisp.New()
	if err != nil {
		return nil, err
	}
	if env == nil {
		env = in.Env()
	}
	f := &folder{in: in, env: env, rebound: names}
	out := make([]*lisp.LVal, len(forms))
	for i, form := range forms {
		out[i] = f.fold(form)
	}
	return out, nil
}

type folder struct {
	in      *lisp.Interpreter
	env     *lisp.LEnv
	rebound map[string]bool
}

func (f *folder) fold(node *lisp.LVal) *lisp.LVal {
	if node.Type != lisp.LSExpr {
		return node
	}
	op := node.Op()
	cells := make([]*lisp.LVal, len(node.Cells))
	copy(cells, node.Cells)
	changed := false
	for i := 1; i < len(cells); i++ {
		if i == 1 && (op == "define" || op == "set") {
			continue
		}
		x := f.fold(cells[i])
		if x != cells[i] {
			cells[i] = x
			changed = true
		}
	}
	expr := node
	if changed {
		expr = lisp.SExprCells(cells).WithSource(node.Source)
	}
	if !f.isBuiltin(op) || !literalOperands(expr) {
		return expr
	}
	v, err := f.in.Eval(expr)
	if err != nil {
		// The error is raised again when the program runs.
		return expr
	}
	return v.WithSource(node.Source)
}

// isBuiltin returns true if calls to op may be evaluated ahead of time.
func (f *folder) isBuiltin(op string) bool {
	if !foldable[op] || f.rebound[op] {
		return false
	}
	b, ok := f.env.Find(op)
	return ok && b.IsBuiltin()
}

func literalOperands(expr *lisp.LVal) bool {
	for _, x := range expr.Operands() {
		if x.Type.IsNode() {
			return false
		}
	}
	return true
}

// rebound returns the set of names which forms may bind, meaning any
// identifier found outside of operator position.  A rest parameter binds its
// name without the suffix.  A nil map is returned when
// forms import modules, which may rebind anything.
func rebound(forms []*lisp.LVal) map[string]bool {
	names := make(map[string]bool)
	for _, form := range forms {
		if !collectNames(form, false, names) {
			return nil
		}
	}
	return names
}

func collectNames(node *lisp.LVal, isOp bool, names map[string]bool) bool {
	switch node.Type {
	case lisp.LIdent:
		if node.Str == "import" {
			return false
		}
		if !isOp {
			names[strings.TrimSuffix(node.Str, lisp.RestSuffix)] = true
		}
	case lisp.LSExpr, lisp.LArray, lisp.LList:
		for i, c := range node.Cells {
			if !collectNames(c, node.Type == lisp.LSExpr && i == 0, names) {
				return false
			}
		}
	}
	return true
}
