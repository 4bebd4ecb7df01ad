package lisp

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Arcterus/iron/parser/token"
)

// LValType is the type of an LVal
type LValType uint

// Possible LValType values
const (
	LInvalid LValType = iota
	LInt
	LFloat
	LBool
	LNil
	LSymbol
	LString
	LArray
	LList
	LCode
	LSExpr
	LIdent
)

var lvalTypeStrings = []string{
	LInvalid: "INVALID",
	LInt:     "integer",
	LFloat:   "float",
	LBool:    "boolean",
	LNil:     "nil",
	LSymbol:  "symbol",
	LString:  "string",
	LArray:   "array",
	LList:    "list",
	LCode:    "code",
	LSExpr:   "sexpr",
	LIdent:   "identifier",
}

func (t LValType) String() string {
	if int(t) >= len(lvalTypeStrings) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// IsNode returns true for the raw syntax types which are only produced by a
// Reader and never by evaluation.
func (t LValType) IsNode() bool {
	return t == LSExpr || t == LIdent
}

// LVal is an Iron value.  Unevaluated syntax (s-expressions and identifiers)
// shares the representation so that special forms can pass sub-trees around
// on the operand stack.
//
// An LVal is never modified after construction.
type LVal struct {
	Type  LValType
	Int   int64
	Float float64
	Bool  bool

	// Str holds the text of strings and the names of symbols and
	// identifiers.
	Str string

	// Cells holds array and list elements.  For an LSExpr Cells[0] is the
	// operator identifier and the remaining cells are its operands.
	Cells []*LVal

	Code   *Code
	Source *token.Location
}

// Code is a closure created by the ``fn'' builtin.
type Code struct {
	// Formals is the array of parameter identifiers.
	Formals *LVal
	Body    []*LVal
	// Env is the environment in which the closure was created.  It is shared,
	// never copied.
	Env *LEnv
}

// Int returns an LVal representing the integer x.
func Int(x int64) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representing the float x.
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) *LVal {
	return &LVal{Type: LBool, Bool: b}
}

// Nil returns an LVal representing the absence of a value.
func Nil() *LVal {
	return &LVal{Type: LNil}
}

// Symbol returns an LVal representing the symbol s.
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s}
}

// String returns an LVal representing the string s.  Backslash escapes in s
// are kept verbatim, they are only interpreted by ``print''.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Array returns an LVal representing an array of the given cells.
func Array(cells []*LVal) *LVal {
	return &LVal{Type: LArray, Cells: cells}
}

// List returns an LVal representing a quoted list of the given cells.
func List(cells []*LVal) *LVal {
	return &LVal{Type: LList, Cells: cells}
}

// Ident returns an unevaluated identifier node.
func Ident(name string) *LVal {
	return &LVal{Type: LIdent, Str: name}
}

// SExpr returns an unevaluated s-expression node applying op to operands.
func SExpr(op string, operands ...*LVal) *LVal {
	cells := make([]*LVal, 0, len(operands)+1)
	cells = append(cells, Ident(op))
	cells = append(cells, operands...)
	return &LVal{Type: LSExpr, Cells: cells}
}

// SExprCells returns an s-expression node built from cells as produced by a
// Reader.  The first cell must be an identifier.
func SExprCells(cells []*LVal) *LVal {
	return &LVal{Type: LSExpr, Cells: cells}
}

// NewCode returns an LVal containing a closure.
func NewCode(formals *LVal, body []*LVal, env *LEnv) *LVal {
	return &LVal{
		Type: LCode,
		Code: &Code{Formals: formals, Body: body, Env: env},
	}
}

// Op returns the operator name of an s-expression.
func (v *LVal) Op() string {
	if v.Type != LSExpr || len(v.Cells) == 0 {
		return ""
	}
	return v.Cells[0].Str
}

// Operands returns the operands of an s-expression.
func (v *LVal) Operands() []*LVal {
	if v.Type != LSExpr || len(v.Cells) == 0 {
		return nil
	}
	return v.Cells[1:]
}

// Len returns the number of cells in v.
func (v *LVal) Len() int {
	return len(v.Cells)
}

// IsNumeric returns true if v is an integer or a float.
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// WithSource returns a shallow copy of v that references loc.
func (v *LVal) WithSource(loc *token.Location) *LVal {
	cp := *v
	cp.Source = loc
	return &cp
}

// Equal reports whether v and other are structurally equal.  Values of
// different types are never equal, so the integer 1 does not equal the float
// 1.0.  Closures are only equal to themselves.
func (v *LVal) Equal(other *LVal) bool {
	if v == other {
		return true
	}
	if v == nil || other == nil || v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LInt:
		return v.Int == other.Int
	case LFloat:
		return v.Float == other.Float
	case LBool:
		return v.Bool == other.Bool
	case LNil:
		return true
	case LSymbol, LString, LIdent:
		return v.Str == other.Str
	case LArray, LList, LSExpr:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	case LCode:
		return v.Code == other.Code
	default:
		return false
	}
}

func (v *LVal) String() string {
	switch v.Type {
	case LInt:
		return strconv.FormatInt(v.Int, 10)
	case LFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case LBool:
		return strconv.FormatBool(v.Bool)
	case LNil:
		return "nil"
	case LSymbol:
		return "'" + v.Str
	case LString:
		return `"` + strings.ReplaceAll(v.Str, `"`, `\"`) + `"`
	case LIdent:
		return v.Str
	case LArray:
		return exprString(v.Cells, "[", "]")
	case LList:
		return exprString(v.Cells, "'(", ")")
	case LSExpr:
		return exprString(v.Cells, "(", ")")
	case LCode:
		var buf bytes.Buffer
		buf.WriteString("(fn ")
		buf.WriteString(v.Code.Formals.String())
		for _, expr := range v.Code.Body {
			buf.WriteString(" ")
			buf.WriteString(expr.String())
		}
		buf.WriteString(")")
		return buf.String()
	default:
		return "<invalid>"
	}
}

func exprString(cells []*LVal, left string, right string) string {
	if len(cells) == 0 {
		return left + right
	}
	var buf bytes.Buffer
	buf.WriteString(left)
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(right)
	return buf.String()
}
