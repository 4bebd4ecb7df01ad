package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Arcterus/iron/lisp"
)

// RunRepl runs a simple repl which evaluates input with in.  Each value is
// printed to the runtime's stdout and errors are printed to its stderr.
func RunRepl(in *lisp.Interpreter, prompt string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
		Stdout: in.Runtime().Stdout,
		Stderr: in.Runtime().Stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...

	s := newSession(in)
	for {
		var line []byte
		line, err = rl.ReadSlice()
		if err == readline.ErrInterrupt {
			s.reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			break
		}
		if s.feed(line) {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
	if err != io.EOF {
		return err
	}
	return nil
}

// session holds the input of an incomplete expression between lines.
type session struct {
	in  *lisp.Interpreter
	buf []byte
}

func newSession(in *lisp.Interpreter) *session {
	return &session{in: in}
}

func (s *session) reset() {
	s.buf = nil
}

// feed evaluates line, preceded by any buffered input.  When the input ends
// inside of an expression it is buffered and feed returns true.
func (s *session) feed(line []byte) bool {
	if len(s.buf) != 0 {
		s.buf = append(s.buf, '\n')
	}
	s.buf = append(s.buf, line...)
	if len(strings.TrimSpace(string(s.buf))) == 0 {
		s.buf = nil
		return false
	}
	rt := s.in.Runtime()
	v, err := s.in.EvalSource("<repl>", string(s.buf))
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	s.buf = nil
	if err != nil {
		fmt.Fprintln(rt.Stderr, err)
		return false
	}
	fmt.Fprintln(rt.Stdout, v)
	return false
}
