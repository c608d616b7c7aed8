package ast

import (
	"errors"
	"testing"

	"nsc-lang/internal/span"
)

// countingVisitor counts every node it reaches.
type countingVisitor struct {
	seen map[string]int
}

func (c *countingVisitor) hit(kind string) (int, error) {
	c.seen[kind]++
	return c.seen[kind], nil
}

func (c *countingVisitor) VisitTree(n *Tree) (int, error) {
	for _, child := range n.Children {
		if _, err := Accept[int](child, c); err != nil {
			return 0, err
		}
	}
	return c.hit("Tree")
}
func (c *countingVisitor) VisitInteger(*IntegerNode) (int, error) { return c.hit("Integer") }
func (c *countingVisitor) VisitDouble(*DoubleNode) (int, error)   { return c.hit("Double") }
func (c *countingVisitor) VisitBool(*BoolNode) (int, error)       { return c.hit("Bool") }
func (c *countingVisitor) VisitNull(*NullNode) (int, error)       { return c.hit("Null") }
func (c *countingVisitor) VisitBinary(n *BinaryNode) (int, error) {
	if _, err := Accept[int](n.Left, c); err != nil {
		return 0, err
	}
	if _, err := Accept[int](n.Right, c); err != nil {
		return 0, err
	}
	return c.hit("Binary")
}
func (c *countingVisitor) VisitIdentifier(*IdentifierNode) (int, error) { return c.hit("Identifier") }
func (c *countingVisitor) VisitVariableUsage(*VariableUsageNode) (int, error) {
	return c.hit("VariableUsage")
}
func (c *countingVisitor) VisitAssignment(*AssignmentNode) (int, error) { return c.hit("Assignment") }
func (c *countingVisitor) VisitFunctionCall(*FunctionCallNode) (int, error) {
	return c.hit("FunctionCall")
}
func (c *countingVisitor) VisitNew(*NewNode) (int, error) { return c.hit("New") }
func (c *countingVisitor) VisitVariableDeclaration(*VariableDeclarationNode) (int, error) {
	return c.hit("VariableDeclaration")
}
func (c *countingVisitor) VisitWhile(*WhileNode) (int, error)     { return c.hit("While") }
func (c *countingVisitor) VisitDoWhile(*DoWhileNode) (int, error) { return c.hit("DoWhile") }
func (c *countingVisitor) VisitFor(*ForNode) (int, error)         { return c.hit("For") }
func (c *countingVisitor) VisitIf(*IfNode) (int, error)           { return c.hit("If") }
func (c *countingVisitor) VisitFunctionDeclaration(*FunctionDeclarationNode) (int, error) {
	return c.hit("FunctionDeclaration")
}
func (c *countingVisitor) VisitClassDeclaration(*ClassDeclarationNode) (int, error) {
	return c.hit("ClassDeclaration")
}

func TestAcceptDispatch(t *testing.T) {
	tree := &Tree{Children: []Node{
		&BinaryNode{Op: Add, Left: &IntegerNode{Value: 1}, Right: &DoubleNode{Value: 2}},
		&BoolNode{Value: true},
		&NullNode{},
	}}
	v := &countingVisitor{seen: map[string]int{}}
	if _, err := Accept[int](tree, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for kind, want := range map[string]int{"Tree": 1, "Binary": 1, "Integer": 1, "Double": 1, "Bool": 1, "Null": 1} {
		if got := v.seen[kind]; got != want {
			t.Errorf("%s: expected %d visits, got %d", kind, want, got)
		}
	}
}

// foreignNode satisfies Node through NodeBase without being part of the set.
type foreignNode struct {
	NodeBase
}

func TestAcceptUnsupported(t *testing.T) {
	v := &countingVisitor{seen: map[string]int{}}
	_, err := Accept[int](&foreignNode{}, v)
	if !errors.Is(err, ErrUnsupportedNode) {
		t.Fatalf("expected ErrUnsupportedNode, got %v", err)
	}
}

func TestAssignOpBinary(t *testing.T) {
	tests := []struct {
		op     AssignOp
		want   BinaryOp
		wantOK bool
	}{
		{Assign, 0, false},
		{AddAssign, Add, true},
		{SubAssign, Sub, true},
		{MulAssign, Mul, true},
		{DivAssign, Div, true},
		{PowAssign, Pow, true},
		{Increase, Add, true},
		{Decrease, Sub, true},
	}
	for _, tt := range tests {
		got, ok := tt.op.Binary()
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("%s.Binary() = %s, %v; want %s, %v", tt.op, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDump(t *testing.T) {
	sp := span.Span{Start: span.Position{Line: 1, Column: 1}, End: span.Position{Offset: 9, Line: 1, Column: 10}}
	decl := &VariableDeclarationNode{
		NodeBase:  NodeBase{Span: sp},
		Modifiers: Modifiers{Access: Private, IsStatic: true},
		Name:      "x",
		Type:      Integer,
		Assignment: &AssignmentNode{
			Op:       Assign,
			Variable: &IdentifierNode{Name: "x"},
			Value:    &IntegerNode{Value: 1},
		},
	}
	out := Dump(decl)
	if out["kind"] != "VariableDeclaration" {
		t.Errorf("expected kind VariableDeclaration, got %v", out["kind"])
	}
	if out["type"] != "INTEGER" || out["access"] != "PRIVATE" || out["static"] != true {
		t.Errorf("unexpected declaration fields: %v", out)
	}
	assign, ok := out["assignment"].(map[string]any)
	if !ok {
		t.Fatalf("expected assignment map, got %T", out["assignment"])
	}
	if assign["op"] != "=" {
		t.Errorf("expected op '=', got %v", assign["op"])
	}
	if Dump(nil) != nil {
		t.Error("expected nil map for nil node")
	}
}
