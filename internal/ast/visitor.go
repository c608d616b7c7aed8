package ast

import (
	"errors"
	"fmt"
)

// ErrUnsupportedNode is returned by Accept for a node outside the closed set.
var ErrUnsupportedNode = errors.New("unsupported node")

// Visitor has one method per node kind. Implementing it is how a consumer
// proves at compile time that it handles the whole grammar.
type Visitor[T any] interface {
	VisitTree(n *Tree) (T, error)
	VisitInteger(n *IntegerNode) (T, error)
	VisitDouble(n *DoubleNode) (T, error)
	VisitBool(n *BoolNode) (T, error)
	VisitNull(n *NullNode) (T, error)
	VisitBinary(n *BinaryNode) (T, error)
	VisitIdentifier(n *IdentifierNode) (T, error)
	VisitVariableUsage(n *VariableUsageNode) (T, error)
	VisitAssignment(n *AssignmentNode) (T, error)
	VisitFunctionCall(n *FunctionCallNode) (T, error)
	VisitNew(n *NewNode) (T, error)
	VisitVariableDeclaration(n *VariableDeclarationNode) (T, error)
	VisitWhile(n *WhileNode) (T, error)
	VisitDoWhile(n *DoWhileNode) (T, error)
	VisitFor(n *ForNode) (T, error)
	VisitIf(n *IfNode) (T, error)
	VisitFunctionDeclaration(n *FunctionDeclarationNode) (T, error)
	VisitClassDeclaration(n *ClassDeclarationNode) (T, error)
}

// Accept dispatches node to the matching Visitor method.
func Accept[T any](node Node, v Visitor[T]) (T, error) {
	switch n := node.(type) {
	case *Tree:
		return v.VisitTree(n)
	case *IntegerNode:
		return v.VisitInteger(n)
	case *DoubleNode:
		return v.VisitDouble(n)
	case *BoolNode:
		return v.VisitBool(n)
	case *NullNode:
		return v.VisitNull(n)
	case *BinaryNode:
		return v.VisitBinary(n)
	case *IdentifierNode:
		return v.VisitIdentifier(n)
	case *VariableUsageNode:
		return v.VisitVariableUsage(n)
	case *AssignmentNode:
		return v.VisitAssignment(n)
	case *FunctionCallNode:
		return v.VisitFunctionCall(n)
	case *NewNode:
		return v.VisitNew(n)
	case *VariableDeclarationNode:
		return v.VisitVariableDeclaration(n)
	case *WhileNode:
		return v.VisitWhile(n)
	case *DoWhileNode:
		return v.VisitDoWhile(n)
	case *ForNode:
		return v.VisitFor(n)
	case *IfNode:
		return v.VisitIf(n)
	case *FunctionDeclarationNode:
		return v.VisitFunctionDeclaration(n)
	case *ClassDeclarationNode:
		return v.VisitClassDeclaration(n)
	default:
		var zero T
		return zero, fmt.Errorf("%w: %T", ErrUnsupportedNode, node)
	}
}
