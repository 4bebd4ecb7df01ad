// Package irltest runs Iron code in tests.
package irltest

import (
	"bytes"
	"os"
	"testing"

	"github.com/Arcterus/iron/lisp"
	"github.com/Arcterus/iron/optimize"
	"github.com/Arcterus/iron/parser/rdparser"
)

// Runner is a test runner.
type Runner struct {
	// Config is applied to every interpreter created by the Runner, after
	// the default configuration.
	Config []lisp.Config
}

// NewInterpreter returns an interpreter that writes to stdout.  The
// interpreter reads source with rdparser and optimizes programs unless
// configured to run in debug mode.
func (r *Runner) NewInterpreter(stdout *bytes.Buffer) (*lisp.Interpreter, error) {
	config := []lisp.Config{
		lisp.WithReader(rdparser.NewReader()),
		lisp.WithOptimizer(optimize.New()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stdout),
	}
	config = append(config, r.Config...)
	return lisp.New(config...)
}

// RunScript executes the program in the file at path and returns its
// captured output and exit status.
func (r *Runner) RunScript(t testing.TB, path string) (string, int, error) {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Unable to read test file: %v", err)
	}
	var out bytes.Buffer
	in, err := r.NewInterpreter(&out)
	if err != nil {
		t.Fatalf("Failed to initialize interpreter: %v", err)
	}
	in.SetFile(path)
	in.LoadCode(string(source))
	status, err := in.Execute()
	return out.String(), status, err
}

// RunTestSuite runs each TestSequence in tests on an isolated interpreter.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var out bytes.Buffer
		in, err := r.NewInterpreter(&out)
		if err != nil {
			t.Fatalf("test %d %q: failed to initialize interpreter: %v", i, test.Name, err)
		}
		for j, expr := range test.TestSequence {
			out.Reset()
			var result string
			v, err := in.EvalSource("test", expr.Expr)
			if err != nil {
				result = lisp.ErrorKindOf(err).String()
			} else {
				result = v.String()
			}
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
				if err != nil {
					t.Logf("test %d %q: expr %d: %v", i, test.Name, j, err)
				}
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
	}
}

// TestSequence is a sequence of Iron expressions which are evaluated
// sequentially by one interpreter.  When an expression fails its Result is
// the kind of the error, e.g. "type-error".
type TestSequence []struct {
	Expr   string // an Iron expression
	Result string // the evaluated result
	Output string // the output written by print
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated interpreters.
func RunTestSuite(t *testing.T, tests TestSuite) {
	(&Runner{}).RunTestSuite(t, tests)
}

// BenchmarkParse returns a benchmark that reads the file at path with the
// reader returned by newReader.
func BenchmarkParse(path string, newReader func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		source, err := os.ReadFile(path)
		if err != nil {
			b.Fatalf("Unable to read test file: %v", err)
		}
		reader := newReader()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := reader.Read(path, bytes.NewReader(source))
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
