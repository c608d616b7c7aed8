package ast

import (
	"nsc-lang/internal/span"
)

// Dump converts an AST node to a map suitable for JSON serialization.
// Every node carries a "kind" field naming its type. A nil node maps to nil.
func Dump(node Node) map[string]any {
	if node == nil {
		return nil
	}
	out, err := Accept[map[string]any](node, dumper{})
	if err != nil {
		return map[string]any{"kind": "Unknown"}
	}
	return out
}

// dumper is the Visitor behind Dump.
type dumper struct{}

func (dumper) VisitTree(n *Tree) (map[string]any, error) {
	return m("Tree", n.Span, "children", nodeSlice(n.Children)), nil
}

func (dumper) VisitInteger(n *IntegerNode) (map[string]any, error) {
	return m("Integer", n.Span, "value", n.Value), nil
}

func (dumper) VisitDouble(n *DoubleNode) (map[string]any, error) {
	return m("Double", n.Span, "value", n.Value), nil
}

func (dumper) VisitBool(n *BoolNode) (map[string]any, error) {
	return m("Bool", n.Span, "value", n.Value), nil
}

func (dumper) VisitNull(n *NullNode) (map[string]any, error) {
	return m("Null", n.Span), nil
}

func (dumper) VisitBinary(n *BinaryNode) (map[string]any, error) {
	return m("Binary", n.Span,
		"op", n.Op.String(),
		"left", Dump(n.Left),
		"right", Dump(n.Right)), nil
}

func (dumper) VisitIdentifier(n *IdentifierNode) (map[string]any, error) {
	result := m("Identifier", n.Span, "name", n.Name)
	if n.Parent != nil {
		result["parent"] = Dump(n.Parent)
	}
	return result, nil
}

func (dumper) VisitVariableUsage(n *VariableUsageNode) (map[string]any, error) {
	return m("VariableUsage", n.Span, "variable", identToMap(n.Variable)), nil
}

func (dumper) VisitAssignment(n *AssignmentNode) (map[string]any, error) {
	result := m("Assignment", n.Span, "op", n.Op.String(), "variable", identToMap(n.Variable))
	if n.Value != nil {
		result["value"] = Dump(n.Value)
	}
	return result, nil
}

func (dumper) VisitFunctionCall(n *FunctionCallNode) (map[string]any, error) {
	return m("FunctionCall", n.Span,
		"function", Dump(n.Function),
		"args", nodeSlice(n.Args)), nil
}

func (dumper) VisitNew(n *NewNode) (map[string]any, error) {
	return m("New", n.Span,
		"class", Dump(n.Class),
		"args", nodeSlice(n.Args)), nil
}

func (dumper) VisitVariableDeclaration(n *VariableDeclarationNode) (map[string]any, error) {
	result := m("VariableDeclaration", n.Span,
		"name", n.Name,
		"type", n.Type.String())
	addModifiers(result, n.Modifiers)
	if n.Assignment != nil {
		result["assignment"] = Dump(n.Assignment)
	}
	return result, nil
}

func (dumper) VisitWhile(n *WhileNode) (map[string]any, error) {
	return m("While", n.Span,
		"condition", Dump(n.Condition),
		"body", treeToMap(n.Body)), nil
}

func (dumper) VisitDoWhile(n *DoWhileNode) (map[string]any, error) {
	return m("DoWhile", n.Span,
		"condition", Dump(n.Condition),
		"body", treeToMap(n.Body)), nil
}

func (dumper) VisitFor(n *ForNode) (map[string]any, error) {
	result := m("For", n.Span, "body", treeToMap(n.Body))
	if n.Declaration != nil {
		result["declaration"] = Dump(n.Declaration)
	}
	if n.Condition != nil {
		result["condition"] = Dump(n.Condition)
	}
	if n.Round != nil {
		result["round"] = Dump(n.Round)
	}
	return result, nil
}

func (dumper) VisitIf(n *IfNode) (map[string]any, error) {
	result := m("If", n.Span,
		"condition", Dump(n.Condition),
		"body", treeToMap(n.Body))
	if n.ElseBody != nil {
		result["elseBody"] = treeToMap(n.ElseBody)
	}
	return result, nil
}

func (dumper) VisitFunctionDeclaration(n *FunctionDeclarationNode) (map[string]any, error) {
	params := n.Params
	if params == nil {
		params = []string{}
	}
	result := m("FunctionDeclaration", n.Span,
		"name", n.Name,
		"params", params,
		"body", treeToMap(n.Body))
	addModifiers(result, n.Modifiers)
	return result, nil
}

func (dumper) VisitClassDeclaration(n *ClassDeclarationNode) (map[string]any, error) {
	fields := make([]any, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = Dump(f)
	}
	methods := make([]any, len(n.Methods))
	for i, md := range n.Methods {
		methods[i] = Dump(md)
	}
	classes := make([]any, len(n.Classes))
	for i, c := range n.Classes {
		classes[i] = Dump(c)
	}
	result := m("ClassDeclaration", n.Span,
		"name", n.Name,
		"fields", fields,
		"methods", methods,
		"classes", classes)
	addModifiers(result, n.Modifiers)
	return result, nil
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...any) map[string]any {
	result := map[string]any{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func addModifiers(result map[string]any, mods Modifiers) {
	result["access"] = mods.Access.String()
	if mods.IsStatic {
		result["static"] = true
	}
	if mods.IsFinal {
		result["final"] = true
	}
	if mods.IsInClass {
		result["inClass"] = true
	}
}

func spanToMap(s span.Span) map[string]any {
	return map[string]any{
		"start": map[string]any{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]any{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

// identToMap and treeToMap guard against typed nil pointers, which would
// otherwise reach Accept as non-nil interfaces.
func identToMap(n *IdentifierNode) map[string]any {
	if n == nil {
		return nil
	}
	return Dump(n)
}

func treeToMap(n *Tree) map[string]any {
	if n == nil {
		return nil
	}
	return Dump(n)
}

func nodeSlice(nodes []Node) []any {
	result := make([]any, len(nodes))
	for i, n := range nodes {
		result[i] = Dump(n)
	}
	return result
}
