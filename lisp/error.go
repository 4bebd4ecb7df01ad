package lisp

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrorKind classifies runtime errors.
type ErrorKind uint

// Possible ErrorKind values
const (
	KindUnknown ErrorKind = iota
	KindLookup
	KindType
	KindArity
	KindBounds
	KindSyntax
	KindResource
)

var errorKindStrings = []string{
	KindUnknown:  "error",
	KindLookup:   "lookup-error",
	KindType:     "type-error",
	KindArity:    "arity-error",
	KindBounds:   "bounds-error",
	KindSyntax:   "syntax-error",
	KindResource: "resource-error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return errorKindStrings[KindUnknown]
	}
	return errorKindStrings[k]
}

// Error is an error raised while reading or evaluating Iron code.  An Error
// aborts the evaluation of the top-level form which raised it.
type Error struct {
	Kind ErrorKind
	// Proc is the name of the procedure (or reader) that raised the error.
	Proc string
	// Form is the expression being evaluated when the error was raised.
	Form *LVal
	Msg  string
	// Err is the underlying cause, if any.
	Err error
}

// Errorf returns a new Error of the given kind raised by proc.
func Errorf(kind ErrorKind, proc string, format string, v ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Proc: proc,
		Msg:  fmt.Sprintf(format, v...),
	}
}

// WrapError returns a new Error of the given kind raised by proc which wraps
// err.
func WrapError(kind ErrorKind, proc string, err error, format string, v ...interface{}) *Error {
	lerr := Errorf(kind, proc, format, v...)
	lerr.Err = err
	return lerr
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf bytes.Buffer
	if e.Form != nil && e.Form.Source != nil {
		buf.WriteString(e.Form.Source.String())
		buf.WriteString(": ")
	}
	if e.Proc != "" {
		buf.WriteString(e.Proc)
		buf.WriteString(": ")
	}
	buf.WriteString(e.Msg)
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// Unwrap returns the cause of e.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKindOf returns the kind of the first Error in err's chain.  If err
// contains no Error then KindUnknown is returned.
func ErrorKindOf(err error) ErrorKind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}
	return KindUnknown
}

// IsKind returns true if err contains an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && ErrorKindOf(err) == kind
}

func lookupErrorf(proc string, format string, v ...interface{}) error {
	return Errorf(KindLookup, proc, format, v...)
}

func typeErrorf(proc string, format string, v ...interface{}) error {
	return Errorf(KindType, proc, format, v...)
}

func arityErrorf(proc string, format string, v ...interface{}) error {
	return Errorf(KindArity, proc, format, v...)
}

func boundsErrorf(proc string, format string, v ...interface{}) error {
	return Errorf(KindBounds, proc, format, v...)
}

func syntaxErrorf(proc string, format string, v ...interface{}) error {
	return Errorf(KindSyntax, proc, format, v...)
}

// attachForm records form on err when err is an Error that does not yet know
// which expression raised it.
func attachForm(err error, form *LVal) error {
	var lerr *Error
	if errors.As(err, &lerr) && lerr.Form == nil {
		lerr.Form = form
	}
	return err
}
