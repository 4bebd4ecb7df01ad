package lisp

import "io"

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of top-level
	// expressions it contains.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// Optimizer rewrites a program into an equivalent program before it is
// executed in env.  Optimizers are skipped when an interpreter runs in Debug
// mode.
type Optimizer interface {
	Optimize(env *LEnv, forms []*LVal) ([]*LVal, error)
}
