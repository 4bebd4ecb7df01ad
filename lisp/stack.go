package lisp

import (
	"errors"
	"fmt"
	"io"
)

// Stack is the operand stack shared by every evaluation nested inside one
// top-level form.  Operands are pushed by the evaluator and consumed by the
// procedure that the enclosing expression calls.
type Stack struct {
	// Values contains stack values.  Index 0 is the bottom of the stack.
	Values   []*LVal
	MaxDepth int
	NumPush  int

	// calls is the number of nested evaluations currently in progress.
	calls int
}

// NewStack initializes and returns a new stack
func NewStack() *Stack {
	return &Stack{}
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.Values)
}

// Push places v at the top of the stack.
func (s *Stack) Push(v *LVal) {
	s.Values = append(s.Values, v)
	if len(s.Values) > s.MaxDepth {
		s.MaxDepth = len(s.Values)
	}
	s.NumPush++
}

// Peek returns the value at the top of the stack.
// Peek does not modify the stack.
func (s *Stack) Peek() (*LVal, error) {
	if len(s.Values) == 0 {
		return nil, errStackEmpty
	}
	return s.Values[len(s.Values)-1], nil
}

// Pop removes the value at the top of the stack and returns it.
func (s *Stack) Pop() (*LVal, error) {
	if len(s.Values) == 0 {
		return nil, errStackEmpty
	}
	v := s.Values[len(s.Values)-1]
	s.Values[len(s.Values)-1] = nil
	s.Values = s.Values[:len(s.Values)-1]
	return v, nil
}

// PopN removes the top n values from the stack and returns them in the order
// they were pushed.
func (s *Stack) PopN(n int) ([]*LVal, error) {
	if n < 0 || n > len(s.Values) {
		return nil, fmt.Errorf("cannot pop %d values from a stack of height %d", n, len(s.Values))
	}
	start := len(s.Values) - n
	vals := make([]*LVal, n)
	copy(vals, s.Values[start:])
	s.Truncate(start)
	return vals, nil
}

// Truncate discards values so that the stack contains at most n values.
func (s *Stack) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	for i := n; i < len(s.Values); i++ {
		s.Values[i] = nil
	}
	if n < len(s.Values) {
		s.Values = s.Values[:n]
	}
}

// Initialize purges any existing stack values and leaves s as an empty stack.
func (s *Stack) Initialize() {
	s.Values = nil
	s.MaxDepth = 0
	s.NumPush = 0
	s.calls = 0
}

// FormatStatistics writes statistics about the stack to w.
func (s *Stack) FormatStatistics(w io.Writer) (int, error) {
	return fmt.Fprintf(w,
		"MaxDepth  = %d -- Depth = %d -- NumPushes = %d",
		s.MaxDepth, len(s.Values), s.NumPush)
}

var errStackEmpty = errors.New("read on an empty stack")

// enter records the start of a nested evaluation.  An error is returned if
// more than limit evaluations would be in progress.
func (s *Stack) enter(limit int) error {
	if limit > 0 && s.calls >= limit {
		return Errorf(KindResource, "", "maximum evaluation depth exceeded (%d)", limit)
	}
	s.calls++
	return nil
}

func (s *Stack) leave() {
	s.calls--
}
