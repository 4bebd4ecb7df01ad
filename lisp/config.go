package lisp

import (
	"io"
	"log/slog"
	"os"
)

// Mode selects how an Interpreter executes programs.
type Mode uint

// Possible Mode values
const (
	// Release runs the Runtime's Optimizer before execution.
	Release Mode = iota
	// Debug executes programs exactly as they were read.
	Debug
)

func (m Mode) String() string {
	if m == Debug {
		return "debug"
	}
	return "release"
}

// DefaultMaximumDepth is the default limit on nested evaluations.
const DefaultMaximumDepth = 10000

// Runtime holds the configuration shared by every environment of an
// interpreter.  Interpreters created by ``import'' share their importer's
// Runtime.
type Runtime struct {
	Reader    Reader
	Optimizer Optimizer
	Mode      Mode
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	// ModulePath lists the directories searched by ``import'' for paths
	// which are not relative to the importing file.
	ModulePath []string
	// MaxDepth limits the number of nested evaluations.  A value of zero
	// disables the limit.
	MaxDepth int

	// importing holds the modules currently being executed by import.
	importing map[string]bool
}

// StandardRuntime returns a Runtime that writes to the process's standard
// output and discards log records.  There is no default Reader.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   slog.New(discardHandler{}),
		MaxDepth: DefaultMaximumDepth,
	}
}

// Config is a function that configures a runtime.
type Config func(rt *Runtime) error

// WithReader returns a Config that makes interpreters use r to parse source
// streams.
func WithReader(r Reader) Config {
	return func(rt *Runtime) error {
		rt.Reader = r
		return nil
	}
}

// WithOptimizer returns a Config that makes interpreters rewrite programs
// with opt before executing them in Release mode.
func WithOptimizer(opt Optimizer) Config {
	return func(rt *Runtime) error {
		rt.Optimizer = opt
		return nil
	}
}

// WithMode returns a Config that sets the execution mode.
func WithMode(mode Mode) Config {
	return func(rt *Runtime) error {
		rt.Mode = mode
		return nil
	}
}

// WithStdout returns a Config that makes ``print'' write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(rt *Runtime) error {
		rt.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write diagnostic output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(rt *Runtime) error {
		rt.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that sends evaluation trace records to logger.
func WithLogger(logger *slog.Logger) Config {
	return func(rt *Runtime) error {
		if logger == nil {
			logger = slog.New(discardHandler{})
		}
		rt.Logger = logger
		return nil
	}
}

// WithModulePath returns a Config that makes ``import'' search dirs for
// modules that are not named relative to the importing file.
func WithModulePath(dirs ...string) Config {
	return func(rt *Runtime) error {
		rt.ModulePath = append([]string(nil), dirs...)
		return nil
	}
}

// WithMaximumDepth returns a Config that will prevent evaluation from nesting
// more than n expressions deep.
func WithMaximumDepth(n int) Config {
	return func(rt *Runtime) error {
		rt.MaxDepth = n
		return nil
	}
}
