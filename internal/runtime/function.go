package runtime

import (
	"fmt"

	"nsc-lang/internal/ast"
)

// NativeFunc is the Go signature for built-in functions. Natives receive the
// unevaluated call so they decide how (and whether) to evaluate arguments;
// scope is the call-site scope.
type NativeFunc func(in *Interpreter, call *ast.FunctionCallNode, scope *Scope) error

// FuncVal is a callable value: a user function with the scope it closes over,
// or a native function.
type FuncVal struct {
	Name      string
	Params    []string
	Body      *ast.Tree
	Closure   *Scope
	Modifiers ast.Modifiers
	Native    NativeFunc
}

func (v *FuncVal) TypeName() string { return "function" }
func (v *FuncVal) String() string   { return fmt.Sprintf("<function %s>", v.Name) }

// WithScope returns the same function closing over scope instead. Instance
// methods are bound this way so that they see the instance fields.
func (v *FuncVal) WithScope(scope *Scope) *FuncVal {
	bound := *v
	bound.Closure = scope
	return &bound
}

// sameAs reports whether v and other are the same function bound to the
// same scope.
func (v *FuncVal) sameAs(other *FuncVal) bool {
	if v == other {
		return true
	}
	if v.Native != nil || other.Native != nil {
		return false
	}
	return v.Body == other.Body && v.Closure == other.Closure
}

// invoke calls fn. Arguments are evaluated left to right in the call-site
// scope and bound as DYNAMIC parameters in a fresh scope under the closure.
func (in *Interpreter) invoke(fn *FuncVal, call *ast.FunctionCallNode, scope *Scope) error {
	in.logger.Debug("call", "function", fn.Name, "args", len(call.Args))
	if fn.Native != nil {
		return fn.Native(in, call, scope)
	}

	if len(call.Args) != len(fn.Params) {
		return runtimeErr(ArityMismatch, "function %s expects %d arguments, got %d",
			fn.Name, len(fn.Params), len(call.Args))
	}

	args := make([]Value, len(call.Args))
	caller := &evaluator{in: in, scope: scope}
	for i, arg := range call.Args {
		val, err := caller.evalValue(arg)
		if err != nil {
			return err
		}
		args[i] = val
	}

	frame := NewScope(fn.Closure, nil)
	for i, param := range fn.Params {
		v, err := frame.Declare(param, ast.Dynamic)
		if err != nil {
			return err
		}
		v.SetValue(args[i])
	}

	_, err := (&evaluator{in: in, scope: frame}).evalTree(fn.Body)
	return err
}
