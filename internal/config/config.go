// Package config resolves CLI settings from defaults, an optional YAML file,
// NSC_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"nsc-lang/internal/logger"
	"nsc-lang/internal/source"
)

// DefaultFile is loaded from the working directory when no --config flag is
// given and the file exists.
const DefaultFile = "nsc.yml"

// Config holds the settings shared by all commands.
type Config struct {
	LogLevel     string `yaml:"log_level"`
	ShortCircuit bool   `yaml:"short_circuit"`
	Encoding     string `yaml:"encoding"`
	HistoryFile  string `yaml:"history_file"`
}

// Default returns the built-in settings.
func Default() Config {
	cfg := Config{
		LogLevel: "warn",
		Encoding: source.DefaultEncoding,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".nsc_history")
	}
	return cfg
}

// Load reads a YAML config file over the defaults. Keys the file leaves out
// keep their default; unknown keys are an error. An empty file is allowed.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the log level and the encoding name.
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := source.Lookup(c.Encoding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// applyEnv overrides fields from NSC_LOG_LEVEL, NSC_SHORT_CIRCUIT and
// NSC_ENCODING.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("NSC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("NSC_ENCODING"); v != "" {
		c.Encoding = v
	}
	if v := getenv("NSC_SHORT_CIRCUIT"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: NSC_SHORT_CIRCUIT: %w", err)
		}
		c.ShortCircuit = on
	}
	return nil
}

// Invocation is the result of parsing a command's arguments.
type Invocation struct {
	Config Config
	JSON   bool
	Args   []string
}

// Parse resolves the configuration for one command. Flags may appear before,
// between or after positional arguments.
func Parse(command string, args []string, getenv func(string) string, stderr io.Writer) (*Invocation, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	shortCircuit := fs.Bool("short-circuit", false, "skip the right operand of && and || when the left decides")
	encoding := fs.String("encoding", "", "source file encoding (IANA name)")
	jsonOut := fs.Bool("json", false, "print JSON output")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	path := *configPath
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "short-circuit":
			cfg.ShortCircuit = *shortCircuit
		case "encoding":
			cfg.Encoding = *encoding
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Invocation{Config: cfg, JSON: *jsonOut, Args: positional}, nil
}
