package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Arcterus/iron/lisp"
	"github.com/Arcterus/iron/optimize"
	"github.com/Arcterus/iron/parser"
	"github.com/Arcterus/iron/parser/rdparser"
)

const defaultConfigFile = ".iron.yaml"

// Config is the contents of an iron configuration file.
type Config struct {
	// ModulePath lists directories searched by import.
	ModulePath []string `yaml:"module_path"`
	MaxDepth   int      `yaml:"max_depth"`
	Debug      bool     `yaml:"debug"`
	// Parser selects the source reader, "rd" (the default) or "parsec".
	Parser string `yaml:"parser"`
}

// LoadConfig reads the configuration file at path.  When path is empty the
// default configuration file is read if it exists.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// loadCommandConfig reads the configuration file and applies command line
// overrides.
func loadCommandConfig() (*Config, error) {
	cfg, err := LoadConfig(rootConfig)
	if err != nil {
		return nil, err
	}
	if rootParser != "" {
		cfg.Parser = rootParser
	}
	if rootDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

// Reader returns the source reader selected by cfg.
func (cfg *Config) Reader() (lisp.Reader, error) {
	switch cfg.Parser {
	case "", "rd":
		return rdparser.NewReader(), nil
	case "parsec":
		return parser.NewReader(), nil
	default:
		return nil, fmt.Errorf("unknown parser: %q", cfg.Parser)
	}
}

// Runtime returns the interpreter configuration described by cfg.
func (cfg *Config) Runtime() ([]lisp.Config, error) {
	reader, err := cfg.Reader()
	if err != nil {
		return nil, err
	}
	config := []lisp.Config{
		lisp.WithReader(reader),
		lisp.WithOptimizer(optimize.New()),
		lisp.WithModulePath(cfg.ModulePath...),
	}
	if cfg.MaxDepth > 0 {
		config = append(config, lisp.WithMaximumDepth(cfg.MaxDepth))
	}
	if cfg.Debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		config = append(config, lisp.WithMode(lisp.Debug), lisp.WithLogger(logger))
	}
	return config, nil
}

// NewInterpreter returns an interpreter configured by cfg.
func (cfg *Config) NewInterpreter() (*lisp.Interpreter, error) {
	config, err := cfg.Runtime()
	if err != nil {
		return nil, err
	}
	return lisp.New(config...)
}
