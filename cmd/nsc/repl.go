package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"nsc-lang/internal/diag"
	"nsc-lang/internal/parser"
	"nsc-lang/internal/runtime"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

const (
	promptMain = colorGreen + "nsc> " + colorReset
	promptMore = colorGray + "...  " + colorReset
)

// session accumulates REPL input until braces balance and evaluates each
// complete chunk against one interpreter, so declarations persist.
type session struct {
	interp *runtime.Interpreter
	buf    strings.Builder
	depth  int
}

// feed adds a line. It returns the accumulated source once the input is
// complete, or ok=false while a block is still open.
func (s *session) feed(line string) (src string, ok bool) {
	s.depth += strings.Count(line, "{") - strings.Count(line, "}")
	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if s.depth > 0 {
		return "", false
	}
	src = s.buf.String()
	s.reset()
	return src, true
}

func (s *session) reset() {
	s.buf.Reset()
	s.depth = 0
}

func (s *session) pending() bool {
	return s.depth > 0
}

// eval parses and runs one chunk, reporting problems to errOut.
func (s *session) eval(src string, errOut io.Writer) {
	if strings.TrimSpace(src) == "" {
		return
	}
	tree, diags := parser.ParseSource(src, "<repl>")
	if diags.HasErrors() {
		printDiagsColored(errOut, diags)
		return
	}
	if _, err := s.interp.Run(tree); err != nil {
		fmt.Fprintf(errOut, "%serror: %s%s\n", colorRed, err, colorReset)
	}
}

// ---- repl command ----

func (a *app) repl() int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptMain,
		HistoryFile:       a.cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "readline init failed: %v\n", err)
		return 1
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%snsc REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)
	a.logger.Info("repl started", "history", a.cfg.HistoryFile, "short_circuit", a.cfg.ShortCircuit)

	s := &session{interp: a.newInterpreter(rl.Stdout())}
	for {
		if s.pending() {
			rl.SetPrompt(promptMore)
		} else {
			rl.SetPrompt(promptMain)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if s.pending() {
					s.reset()
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if !s.pending() && strings.TrimSpace(line) == "exit" {
			break
		}

		if src, ok := s.feed(line); ok {
			s.eval(src, rl.Stderr())
		}
	}

	a.logger.Info("repl finished")
	return 0
}

// printDiagsColored prints diagnostics in red for REPL display.
func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", colorRed, d.String(), colorReset)
	}
}
