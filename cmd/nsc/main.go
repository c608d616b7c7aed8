// Command nsc is the CLI entry point for the nsc language.
//
// Usage:
//
//	nsc tokens <file>            Print tokens
//	nsc tokens <file> --json     Print tokens as JSON
//	nsc parse  <file>            Print AST as JSON
//	nsc run    <file>            Run a source file
//	nsc repl                     Start interactive REPL
//
// Every command also accepts --config, --log-level, --short-circuit and
// --encoding. Settings may come from nsc.yml and NSC_* variables as well.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nsc-lang/internal/ast"
	"nsc-lang/internal/config"
	"nsc-lang/internal/lexer"
	"nsc-lang/internal/logger"
	"nsc-lang/internal/parser"
	"nsc-lang/internal/runtime"
	"nsc-lang/internal/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// app carries the resolved settings of one invocation.
type app struct {
	cfg    config.Config
	json   bool
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// run executes a command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	command := args[0]
	switch command {
	case "tokens", "parse", "run", "repl":
	default:
		fmt.Fprintf(stderr, "error: unknown command '%s'\n", command)
		usage(stderr)
		return 1
	}

	inv, err := config.Parse(command, args[1:], getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	log, err := logger.New(inv.Config.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	a := &app{cfg: inv.Config, json: inv.JSON, logger: log, stdout: stdout, stderr: stderr}

	if command == "repl" {
		return a.repl()
	}

	if len(inv.Args) < 1 {
		fmt.Fprintln(stderr, "error: missing file argument")
		return 1
	}
	filename := inv.Args[0]
	src, err := source.Read(filename, a.cfg.Encoding)
	if err != nil {
		a.logger.Error("cannot read source", "file", filename, "err", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	a.logger.Info("command started", "command", command, "file", filename)
	var code int
	switch command {
	case "tokens":
		code = a.tokens(src, filename)
	case "parse":
		code = a.parse(src, filename)
	case "run":
		code = a.runFile(src, filename)
	}
	a.logger.Info("command finished", "command", command, "file", filename, "exit", code)
	return code
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nsc tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(w, "  nsc parse  <file>            Parse and print AST (JSON)")
	fmt.Fprintln(w, "  nsc run    <file>            Run a source file")
	fmt.Fprintln(w, "  nsc repl                     Start interactive REPL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags: --config <file> --log-level <level> --short-circuit --encoding <name>")
}

// ---- tokens command ----

func (a *app) tokens(src, filename string) int {
	tokens, diags := lexer.New(src, filename).Tokenize()

	if a.json {
		if err := printTokensJSON(a.stdout, tokens, diags); err != nil {
			fmt.Fprintf(a.stderr, "error: %v\n", err)
			return 1
		}
	} else {
		printTokensText(a.stdout, a.stderr, tokens, diags)
	}

	if len(diags) > 0 {
		return 1
	}
	return 0
}

// ---- parse command ----

func (a *app) parse(src, filename string) int {
	tree, diags := parser.ParseSource(src, filename)

	output := map[string]any{
		"ast":         ast.Dump(tree),
		"diagnostics": diagsToSlice(diags),
	}
	if err := printJSON(a.stdout, output); err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}

	if len(diags) > 0 {
		return 1
	}
	return 0
}

// ---- run command ----

func (a *app) runFile(src, filename string) int {
	tree, diags := parser.ParseSource(src, filename)
	if diags.HasErrors() {
		printDiagsText(a.stderr, diags)
		a.logger.Error("parse failed", "file", filename, "diagnostics", len(diags))
		return 1
	}

	interp := a.newInterpreter(a.stdout)
	if _, err := interp.Run(tree); err != nil {
		fmt.Fprintln(a.stderr, err)
		a.logger.Error("run failed", "file", filename, "err", err)
		return 1
	}
	return 0
}

func (a *app) newInterpreter(out io.Writer) *runtime.Interpreter {
	return runtime.NewInterpreter(out,
		runtime.WithLogger(a.logger),
		runtime.WithShortCircuit(a.cfg.ShortCircuit),
	)
}
