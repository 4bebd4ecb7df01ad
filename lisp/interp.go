package lisp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Interpreter executes Iron programs.  It owns a root environment populated
// with the builtin procedures and the operand stack used to evaluate
// top-level forms.
type Interpreter struct {
	runtime *Runtime
	env     *LEnv
	stack   *Stack
	file    string
	code    string
}

// New returns a new Interpreter configured by config.
func New(config ...Config) (*Interpreter, error) {
	rt := StandardRuntime()
	for _, fn := range config {
		err := fn(rt)
		if err != nil {
			return nil, err
		}
	}
	return newInterpreter(rt), nil
}

func newInterpreter(rt *Runtime) *Interpreter {
	env := &LEnv{
		ID:      getEnvID(),
		Scope:   make(map[string]Binding),
		Runtime: rt,
	}
	env.AddBuiltins()
	env.Declare(FileSymbol, ValueBinding(String("")))
	return &Interpreter{
		runtime: rt,
		env:     env,
		stack:   NewStack(),
	}
}

// Env returns the root environment of in.
func (in *Interpreter) Env() *LEnv {
	return in.env
}

// Runtime returns the runtime configuration of in.
func (in *Interpreter) Runtime() *Runtime {
	return in.runtime
}

// SetMode sets the execution mode.
func (in *Interpreter) SetMode(mode Mode) {
	in.runtime.Mode = mode
}

// SetFile sets the path of the program being executed.  The path is bound to
// FILE and relative imports are resolved against its directory.
func (in *Interpreter) SetFile(path string) {
	in.file = path
	in.env.Declare(FileSymbol, ValueBinding(String(path)))
}

// LoadCode sets the source text that Execute runs.
func (in *Interpreter) LoadCode(code string) {
	in.code = code
}

// Execute runs the loaded program.  Every top-level form is evaluated, even
// when an earlier form fails.  Execute returns exit status 0 when all forms
// succeed.  Otherwise it returns 1 and the errors of the failed forms.
func (in *Interpreter) Execute() (int, error) {
	forms, err := in.read(in.sourceName(), in.code)
	if err != nil {
		return 1, err
	}
	var errs []error
	for _, form := range forms {
		_, err := in.Eval(form)
		if err != nil {
			in.runtime.Logger.Debug("form failed",
				slog.String("file", in.sourceName()),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 1, errors.Join(errs...)
	}
	return 0, nil
}

// EvalSource reads and evaluates src, stopping at the first form that fails.
// EvalSource returns the value of the last form.
func (in *Interpreter) EvalSource(name string, src string) (*LVal, error) {
	forms, err := in.read(name, src)
	if err != nil {
		return nil, err
	}
	v := Nil()
	for _, form := range forms {
		v, err = in.Eval(form)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Eval evaluates a top-level form on an empty stack and returns its value.
func (in *Interpreter) Eval(form *LVal) (*LVal, error) {
	in.stack.Initialize()
	defer in.stack.Initialize()
	err := in.env.Eval(in.stack, form)
	in.logStack(form)
	if err != nil {
		return nil, err
	}
	return in.stack.Pop()
}

// logStack logs statistics about the stack used to evaluate form.
func (in *Interpreter) logStack(form *LVal) {
	logger := in.runtime.Logger
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	var stats strings.Builder
	in.stack.FormatStatistics(&stats)
	logger.Debug("form evaluated",
		slog.String("form", form.String()),
		slog.String("stack", stats.String()))
}

// DumpAST writes the forms of the loaded program to w, one per line, as they
// would be executed.
func (in *Interpreter) DumpAST(w io.Writer) error {
	forms, err := in.read(in.sourceName(), in.code)
	if err != nil {
		return err
	}
	for _, form := range forms {
		_, err := fmt.Fprintln(w, form)
		if err != nil {
			return err
		}
	}
	return nil
}

// read parses src and, unless in Debug mode, optimizes the result.
func (in *Interpreter) read(name string, src string) ([]*LVal, error) {
	if in.runtime.Reader == nil {
		return nil, Errorf(KindResource, "read", "no reader configured")
	}
	forms, err := in.runtime.Reader.Read(name, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	if in.runtime.Mode == Debug || in.runtime.Optimizer == nil {
		return forms, nil
	}
	return in.runtime.Optimizer.Optimize(in.env, forms)
}

func (in *Interpreter) sourceName() string {
	if in.file == "" {
		return "<input>"
	}
	return in.file
}
