package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arcterus/iron/lisp"
)

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "iron.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
module_path:
  - lib
  - /usr/share/iron
max_depth: 500
debug: true
parser: parsec
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib", "/usr/share/iron"}, cfg.ModulePath)
	assert.Equal(t, 500, cfg.MaxDepth)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "parsec", cfg.Parser)

	in, err := cfg.NewInterpreter()
	require.NoError(t, err)
	rt := in.Runtime()
	assert.Equal(t, lisp.Debug, rt.Mode)
	assert.Equal(t, 500, rt.MaxDepth)
	assert.Equal(t, []string{"lib", "/usr/share/iron"}, rt.ModulePath)
	assert.NotNil(t, rt.Reader)
	assert.NotNil(t, rt.Optimizer)
}

func TestLoadConfig_empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	in, err := cfg.NewInterpreter()
	require.NoError(t, err)
	assert.Equal(t, lisp.Release, in.Runtime().Mode)
	assert.Equal(t, lisp.DefaultMaximumDepth, in.Runtime().MaxDepth)
}

func TestLoadConfig_errors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "max_depth: lots\n"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg := &Config{Parser: "yacc"}
	_, err = cfg.NewInterpreter()
	assert.Error(t, err)
}

func TestConfig_Reader(t *testing.T) {
	for _, name := range []string{"", "rd", "parsec"} {
		cfg := &Config{Parser: name}
		r, err := cfg.Reader()
		require.NoError(t, err, name)
		in, err := cfg.NewInterpreter()
		require.NoError(t, err, name)
		v, err := in.EvalSource("test", "(+ 1 (len [1 2]))")
		require.NoError(t, err, name)
		assert.True(t, v.Equal(lisp.Int(3)), name)
		assert.NotNil(t, r, name)
	}
}
