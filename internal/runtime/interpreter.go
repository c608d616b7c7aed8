package runtime

import (
	"io"
	"log/slog"

	"nsc-lang/internal/ast"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and evaluates it. Each interpreter owns its root
// scope; separate interpreters share no state. An interpreter is not safe for
// concurrent use.
type Interpreter struct {
	root         *Scope
	logger       *slog.Logger
	shortCircuit bool
	builtins     []Builtin
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for debug tracing of calls and classes.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithShortCircuit makes && and || skip the right operand when the left one
// decides the result. By default both operands are always evaluated.
func WithShortCircuit(on bool) Option {
	return func(in *Interpreter) { in.shortCircuit = on }
}

// WithBuiltin installs an extra native function in the root scope. A builtin
// with the name of a default one replaces it.
func WithBuiltin(b Builtin) Option {
	return func(in *Interpreter) { in.builtins = append(in.builtins, b) }
}

// NewInterpreter creates an interpreter whose print builtins write to output.
func NewInterpreter(output io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{
		root:     NewScope(nil, nil),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		builtins: DefaultBuiltins(output),
	}
	for _, opt := range opts {
		opt(in)
	}
	for _, b := range in.builtins {
		b.install(in.root)
	}
	return in
}

// Global returns the root scope. Successive Run calls share it, which is what
// the REPL relies on.
func (in *Interpreter) Global() *Scope {
	return in.root
}

// Run evaluates tree in the root scope and returns the value of its last node.
func (in *Interpreter) Run(tree *ast.Tree) (Value, error) {
	if tree == nil {
		return Null, nil
	}
	return in.Evaluate(tree, in.root)
}

// Evaluate evaluates node in scope. A nil node evaluates to Null. Identifier
// nodes yield the *Variable they name rather than its value.
func (in *Interpreter) Evaluate(node ast.Node, scope *Scope) (Value, error) {
	return (&evaluator{in: in, scope: scope}).eval(node)
}

// ============================================================
// Evaluator
// ============================================================

// evaluator is the ast.Visitor that evaluates nodes against one scope.
// Constructs that open a scope evaluate their parts with a derived evaluator.
type evaluator struct {
	in    *Interpreter
	scope *Scope
}

var _ ast.Visitor[Value] = (*evaluator)(nil)

func (e *evaluator) with(scope *Scope) *evaluator {
	return &evaluator{in: e.in, scope: scope}
}

func (e *evaluator) eval(node ast.Node) (Value, error) {
	if node == nil {
		return Null, nil
	}
	val, err := ast.Accept[Value](node, e)
	if err != nil {
		return nil, attachSpan(err, node.GetSpan())
	}
	return val, nil
}

// evalValue evaluates node and unwraps a resulting variable.
func (e *evaluator) evalValue(node ast.Node) (Value, error) {
	val, err := e.eval(node)
	if err != nil {
		return nil, err
	}
	if val, err = deref(val); err != nil {
		return nil, attachSpan(err, node.GetSpan())
	}
	return val, nil
}

// evalTree guards against nil block pointers, which would otherwise reach
// Accept as non-nil interfaces.
func (e *evaluator) evalTree(t *ast.Tree) (Value, error) {
	if t == nil {
		return Null, nil
	}
	return e.eval(t)
}

// evalCondition evaluates a loop or if condition. A missing condition (empty
// for header) is true.
func (e *evaluator) evalCondition(node ast.Node) (bool, error) {
	if node == nil {
		return true, nil
	}
	val, err := e.evalValue(node)
	if err != nil {
		return false, err
	}
	ok, err := condition(val)
	if err != nil {
		return false, attachSpan(err, node.GetSpan())
	}
	return ok, nil
}

// resolve evaluates an identifier to the variable it names.
func (e *evaluator) resolve(ident *ast.IdentifierNode) (*Variable, error) {
	val, err := e.eval(ident)
	if err != nil {
		return nil, err
	}
	return val.(*Variable), nil
}

// ---- structure and literals ----

func (e *evaluator) VisitTree(n *ast.Tree) (Value, error) {
	result := Null
	for _, child := range n.Children {
		val, err := e.eval(child)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (e *evaluator) VisitInteger(n *ast.IntegerNode) (Value, error) {
	return IntegerVal(n.Value), nil
}

func (e *evaluator) VisitDouble(n *ast.DoubleNode) (Value, error) {
	return DoubleVal(n.Value), nil
}

func (e *evaluator) VisitBool(n *ast.BoolNode) (Value, error) {
	return Bool(n.Value), nil
}

func (e *evaluator) VisitNull(*ast.NullNode) (Value, error) {
	return Null, nil
}

// ---- expressions ----

func (e *evaluator) VisitBinary(n *ast.BinaryNode) (Value, error) {
	if e.in.shortCircuit && (n.Op == ast.And || n.Op == ast.Or) {
		return e.evalLogical(n)
	}

	left, err := e.evalValue(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalValue(n.Right)
	if err != nil {
		return nil, err
	}
	return Binary(n.Op, left, right)
}

// evalLogical is the short-circuit form of && and ||. Both operands must
// still be booleans when they are evaluated.
func (e *evaluator) evalLogical(n *ast.BinaryNode) (Value, error) {
	left, err := e.evalValue(n.Left)
	if err != nil {
		return nil, err
	}
	l, ok := left.(BoolVal)
	if !ok {
		return nil, runtimeErr(TypeMismatch, "cannot apply '%s' to %s", n.Op, left.TypeName())
	}
	if (n.Op == ast.And && !bool(l)) || (n.Op == ast.Or && bool(l)) {
		return left, nil
	}
	right, err := e.evalValue(n.Right)
	if err != nil {
		return nil, err
	}
	return Binary(n.Op, left, right)
}

func (e *evaluator) VisitIdentifier(n *ast.IdentifierNode) (Value, error) {
	if n.Parent == nil {
		v, err := e.scope.Lookup(n.Name)
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	parent, err := e.evalValue(n.Parent)
	if err != nil {
		return nil, err
	}
	m, ok := parent.(Member)
	if !ok {
		return nil, runtimeErr(TypeMismatch, "cannot access member %s of %s", n.Name, parent.TypeName())
	}
	child, err := m.GetChild(n.Name)
	if err != nil {
		return nil, err
	}
	return child, nil
}

func (e *evaluator) VisitVariableUsage(n *ast.VariableUsageNode) (Value, error) {
	v, err := e.resolve(n.Variable)
	if err != nil {
		return nil, err
	}
	return v.Value()
}

func (e *evaluator) VisitAssignment(n *ast.AssignmentNode) (Value, error) {
	target, err := e.resolve(n.Variable)
	if err != nil {
		return nil, err
	}

	var operand Value = IntegerVal(1) // ++ and --
	if n.Value != nil {
		if operand, err = e.evalValue(n.Value); err != nil {
			return nil, err
		}
	}

	result := operand
	if op, compound := n.Op.Binary(); compound {
		current, err := target.Value()
		if err != nil {
			return nil, err
		}
		if result, err = Binary(op, current, operand); err != nil {
			return nil, err
		}
	}
	target.SetValue(result)
	return result, nil
}

func (e *evaluator) VisitFunctionCall(n *ast.FunctionCallNode) (Value, error) {
	callee, err := e.evalValue(n.Function)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*FuncVal)
	if !ok {
		return nil, runtimeErr(InvalidCallee, "%s is not a function", callee.TypeName())
	}
	if err := e.in.invoke(fn, n, e.scope); err != nil {
		return nil, err
	}
	return Null, nil
}

func (e *evaluator) VisitNew(n *ast.NewNode) (Value, error) {
	val, err := e.evalValue(n.Class)
	if err != nil {
		return nil, err
	}
	cls, ok := val.(*ClassVal)
	if !ok {
		return nil, runtimeErr(TypeMismatch, "cannot instantiate %s", val.TypeName())
	}
	if len(n.Args) > 0 {
		return nil, runtimeErr(ArityMismatch, "class %s has no constructor taking %d arguments", cls.Name, len(n.Args))
	}
	return e.in.instantiate(cls)
}

// ---- statements ----

func (e *evaluator) VisitVariableDeclaration(n *ast.VariableDeclarationNode) (Value, error) {
	if _, err := e.scope.Declare(n.Name, n.Type); err != nil {
		return nil, err
	}
	if n.Assignment == nil {
		return Null, nil
	}
	return e.eval(n.Assignment)
}

func (e *evaluator) VisitWhile(n *ast.WhileNode) (Value, error) {
	for {
		ok, err := e.evalCondition(n.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Null, nil
		}
		if _, err := e.with(e.scope.Copy()).evalTree(n.Body); err != nil {
			return nil, err
		}
	}
}

func (e *evaluator) VisitDoWhile(n *ast.DoWhileNode) (Value, error) {
	for {
		if _, err := e.with(e.scope.Copy()).evalTree(n.Body); err != nil {
			return nil, err
		}
		ok, err := e.evalCondition(n.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Null, nil
		}
	}
}

func (e *evaluator) VisitFor(n *ast.ForNode) (Value, error) {
	loop := e.with(e.scope.Copy())
	if _, err := loop.eval(n.Declaration); err != nil {
		return nil, err
	}
	for {
		ok, err := loop.evalCondition(n.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Null, nil
		}
		if _, err := loop.with(loop.scope.Copy()).evalTree(n.Body); err != nil {
			return nil, err
		}
		if _, err := loop.eval(n.Round); err != nil {
			return nil, err
		}
	}
}

func (e *evaluator) VisitIf(n *ast.IfNode) (Value, error) {
	branch := e.with(e.scope.Copy())
	ok, err := branch.evalCondition(n.Condition)
	if err != nil {
		return nil, err
	}
	if ok {
		return branch.evalTree(n.Body)
	}
	return branch.evalTree(n.ElseBody)
}

// ---- declarations ----

func (e *evaluator) VisitFunctionDeclaration(n *ast.FunctionDeclarationNode) (Value, error) {
	v, err := e.scope.Declare(n.Name, ast.Function)
	if err != nil {
		return nil, err
	}
	fn := newFunction(n, e.scope)
	v.SetValue(fn)
	return fn, nil
}

func (e *evaluator) VisitClassDeclaration(n *ast.ClassDeclarationNode) (Value, error) {
	v, err := e.scope.Declare(n.Name, ast.Class)
	if err != nil {
		return nil, err
	}
	cls, err := e.in.declareClass(n, e.scope)
	if err != nil {
		return nil, err
	}
	v.SetValue(cls)
	return cls, nil
}

func newFunction(n *ast.FunctionDeclarationNode, closure *Scope) *FuncVal {
	return &FuncVal{
		Name:      n.Name,
		Params:    n.Params,
		Body:      n.Body,
		Closure:   closure,
		Modifiers: n.Modifiers,
	}
}
