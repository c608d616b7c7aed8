package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LogLevel != "warn" || cfg.ShortCircuit || cfg.Encoding != "UTF-8" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nsc.yml", "log_level: debug\nshort_circuit: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || !cfg.ShortCircuit {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Encoding != "UTF-8" {
		t.Errorf("missing keys should keep defaults, got %q", cfg.Encoding)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yml", "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("empty file should be accepted: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yml", "log_level: info\ncolour: red\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParsePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yml", "log_level: info\nencoding: ISO-8859-1\n")

	inv, err := Parse("run",
		[]string{"--config", path, "prog.nsc", "--log-level", "error"},
		env(map[string]string{"NSC_LOG_LEVEL": "debug", "NSC_SHORT_CIRCUIT": "true"}),
		io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	cfg := inv.Config
	if cfg.LogLevel != "error" {
		t.Errorf("flag should win over env and file, got %q", cfg.LogLevel)
	}
	if !cfg.ShortCircuit {
		t.Error("env should override the default")
	}
	if cfg.Encoding != "ISO-8859-1" {
		t.Errorf("file value should survive, got %q", cfg.Encoding)
	}
	if len(inv.Args) != 1 || inv.Args[0] != "prog.nsc" {
		t.Errorf("unexpected positional args %v", inv.Args)
	}
}

func TestParseInterleavedFlags(t *testing.T) {
	chdir(t, t.TempDir())
	inv, err := Parse("tokens", []string{"a.nsc", "--json", "b.nsc"}, env(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !inv.JSON {
		t.Error("expected --json to be set")
	}
	if strings.Join(inv.Args, ",") != "a.nsc,b.nsc" {
		t.Errorf("unexpected positional args %v", inv.Args)
	}
}

func TestParseDefaultFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultFile, "short_circuit: true\n")
	chdir(t, dir)

	inv, err := Parse("run", []string{"x.nsc"}, env(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !inv.Config.ShortCircuit {
		t.Error("expected nsc.yml in the working directory to be loaded")
	}
}

func TestParseErrors(t *testing.T) {
	chdir(t, t.TempDir())
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad level flag", []string{"--log-level", "loud"}, nil},
		{"bad encoding env", nil, map[string]string{"NSC_ENCODING": "klingon"}},
		{"bad bool env", nil, map[string]string{"NSC_SHORT_CIRCUIT": "maybe"}},
		{"unknown flag", []string{"--colour"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse("run", tt.args, env(tt.env), io.Discard); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
