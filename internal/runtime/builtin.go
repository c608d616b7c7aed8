package runtime

import (
	"fmt"
	"io"
	"strings"

	"nsc-lang/internal/ast"
)

// Builtin is a named native function installed in the root scope.
type Builtin struct {
	Name string
	Fn   NativeFunc
}

// DefaultBuiltins returns print and println writing to w.
func DefaultBuiltins(w io.Writer) []Builtin {
	return []Builtin{
		{Name: "print", Fn: printTo(w, "")},
		{Name: "println", Fn: printTo(w, "\n")},
	}
}

// printTo evaluates each argument in the call-site scope and writes their
// textual forms joined with ", ", followed by end.
func printTo(w io.Writer, end string) NativeFunc {
	return func(in *Interpreter, call *ast.FunctionCallNode, scope *Scope) error {
		parts := make([]string, len(call.Args))
		for i, arg := range call.Args {
			val, err := in.Evaluate(arg, scope)
			if err != nil {
				return err
			}
			if val, err = deref(val); err != nil {
				return attachSpan(err, arg.GetSpan())
			}
			parts[i] = val.String()
		}
		if _, err := io.WriteString(w, strings.Join(parts, ", ")+end); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
}

// install binds b as a FUNCTION variable in scope, replacing an earlier
// builtin of the same name.
func (b Builtin) install(scope *Scope) {
	vars := scope.Variables()
	vars.Declare(b.Name, ast.Function)
	vars.Get(b.Name).SetValue(&FuncVal{Name: b.Name, Native: b.Fn, Closure: scope})
}
