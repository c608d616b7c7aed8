package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nsc-lang/internal/runtime"
)

func noEnv(string) string { return "" }

func writeSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "prog.nsc")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut, noEnv)
	return code, out.String(), errOut.String()
}

func TestRunCommand(t *testing.T) {
	path := writeSource(t, "int x = 2\nprintln(x * 21)\n")
	code, out, errOut := runCLI("run", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if out != "42\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunShortCircuitFlag(t *testing.T) {
	path := writeSource(t, "int n = 0\nboolean b = false && (n += 1) > 0\nprintln(n)\n")

	_, out, _ := runCLI("run", path)
	if out != "1\n" {
		t.Errorf("eager run: unexpected output %q", out)
	}
	_, out, _ = runCLI("run", path, "--short-circuit")
	if out != "0\n" {
		t.Errorf("short-circuit run: unexpected output %q", out)
	}
}

func TestRunRuntimeError(t *testing.T) {
	path := writeSource(t, "println(1)\nprintln(missing)\n")
	code, out, errOut := runCLI("run", path)
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if out != "1\n" {
		t.Errorf("output before the error should be kept, got %q", out)
	}
	if !strings.Contains(errOut, "runtime error at 2:9") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunParseError(t *testing.T) {
	path := writeSource(t, "int = 3\n")
	code, _, errOut := runCLI("run", path)
	if code != 1 || !strings.Contains(errOut, "E2001") {
		t.Errorf("expected E2001 diagnostic, got exit %d stderr %q", code, errOut)
	}
}

func TestParseCommand(t *testing.T) {
	path := writeSource(t, "var a = 1 + 2\n")
	code, out, errOut := runCLI("parse", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	var result struct {
		AST struct {
			Kind     string           `json:"kind"`
			Children []map[string]any `json:"children"`
		} `json:"ast"`
		Diagnostics []any `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.AST.Kind != "Tree" || len(result.AST.Children) != 1 {
		t.Errorf("unexpected AST %+v", result.AST)
	}
	if result.AST.Children[0]["kind"] != "VariableDeclaration" {
		t.Errorf("unexpected child %v", result.AST.Children[0])
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", result.Diagnostics)
	}
}

func TestTokensCommand(t *testing.T) {
	path := writeSource(t, "x++\n")

	code, out, _ := runCLI("tokens", path)
	if code != 0 || !strings.Contains(out, "IDENT") {
		t.Errorf("unexpected text output (exit %d): %q", code, out)
	}

	code, out, _ = runCLI("tokens", path, "--json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var result struct {
		Tokens []tokenJSON `json:"tokens"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(result.Tokens) == 0 || result.Tokens[0].Lexeme != "x" {
		t.Errorf("unexpected tokens %+v", result.Tokens)
	}
}

func TestEncodingFlag(t *testing.T) {
	path := writeSource(t, "// caf\xe9\nprintln(1)\n")
	code, out, errOut := runCLI("run", path, "--encoding", "ISO-8859-1")
	if code != 0 || out != "1\n" {
		t.Errorf("exit %d, out %q, stderr %q", code, out, errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "Usage:"},
		{"unknown command", []string{"build"}, "unknown command 'build'"},
		{"missing file", []string{"run"}, "missing file argument"},
		{"bad level", []string{"run", "x.nsc", "--log-level", "loud"}, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			code, _, errOut := runCLI(tt.args...)
			if code != 1 {
				t.Errorf("expected exit 1, got %d", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("expected %q in stderr, got %q", tt.want, errOut)
			}
		})
	}
}

func TestSessionMultiLine(t *testing.T) {
	var out, errOut bytes.Buffer
	s := &session{interp: runtime.NewInterpreter(&out)}

	for _, line := range []string{"int total = 0", "for (int i = 0; i < 3; i++) {", "    total += i"} {
		if src, ok := s.feed(line); ok {
			s.eval(src, &errOut)
		}
	}
	if !s.pending() {
		t.Fatal("expected an open block")
	}
	src, ok := s.feed("}")
	if !ok {
		t.Fatal("expected the block to complete")
	}
	s.eval(src, &errOut)

	if src, ok := s.feed("println(total)"); ok {
		s.eval(src, &errOut)
	}
	if out.String() != "3\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected errors %q", errOut.String())
	}
}

func TestSessionReportsErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	s := &session{interp: runtime.NewInterpreter(&out)}

	src, _ := s.feed("int a = 1")
	s.eval(src, &errOut)
	src, _ = s.feed("int a = 2")
	s.eval(src, &errOut)
	if !strings.Contains(errOut.String(), "already declared") {
		t.Errorf("expected redeclaration error, got %q", errOut.String())
	}

	errOut.Reset()
	src, _ = s.feed("int = ")
	s.eval(src, &errOut)
	if !strings.Contains(errOut.String(), "E2001") {
		t.Errorf("expected a parse diagnostic, got %q", errOut.String())
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
