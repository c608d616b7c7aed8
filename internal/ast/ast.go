// Package ast defines the abstract syntax tree for nsc-lang.
//
// The node set is closed: every node type embeds NodeBase, whose unexported
// marker method keeps types outside this package from posing as nodes.
// Consumers dispatch through Accept with a Visitor, which has one method per
// node kind.
package ast

import (
	"nsc-lang/internal/span"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ============================================================
// Enumerations
// ============================================================

// VariableType is the declared type of a variable slot.
type VariableType int

const (
	Dynamic VariableType = iota
	Byte
	Short
	Integer
	Long
	Float
	Double
	Boolean
	Char
	Function
	Class
	Object
)

var variableTypeNames = [...]string{
	Dynamic:  "DYNAMIC",
	Byte:     "BYTE",
	Short:    "SHORT",
	Integer:  "INTEGER",
	Long:     "LONG",
	Float:    "FLOAT",
	Double:   "DOUBLE",
	Boolean:  "BOOLEAN",
	Char:     "CHAR",
	Function: "FUNCTION",
	Class:    "CLASS",
	Object:   "OBJECT",
}

func (t VariableType) String() string {
	if t >= 0 && int(t) < len(variableTypeNames) {
		return variableTypeNames[t]
	}
	return "UNKNOWN"
}

// Access is the visibility modifier of a declaration.
type Access int

const (
	Package Access = iota
	Public
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Public:
		return "PUBLIC"
	case Protected:
		return "PROTECTED"
	case Private:
		return "PRIVATE"
	default:
		return "PACKAGE"
	}
}

// BinaryOp is the operator of a BinaryNode.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
	EqEquals
	Bigger
	Smaller
	BiggerEquals
	SmallerEquals
	And
	Or
)

var binaryOpSymbols = [...]string{
	Add:           "+",
	Sub:           "-",
	Mul:           "*",
	Div:           "/",
	Pow:           "^",
	EqEquals:      "==",
	Bigger:        ">",
	Smaller:       "<",
	BiggerEquals:  ">=",
	SmallerEquals: "<=",
	And:           "&&",
	Or:            "||",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

// AssignOp is the operator of an AssignmentNode.
type AssignOp int

const (
	Assign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	PowAssign
	Increase
	Decrease
)

var assignOpSymbols = [...]string{
	Assign:    "=",
	AddAssign: "+=",
	SubAssign: "-=",
	MulAssign: "*=",
	DivAssign: "/=",
	PowAssign: "^=",
	Increase:  "++",
	Decrease:  "--",
}

func (op AssignOp) String() string {
	if op >= 0 && int(op) < len(assignOpSymbols) {
		return assignOpSymbols[op]
	}
	return "?"
}

// Binary returns the arithmetic operator a compound assignment applies, and
// false for plain assignment.
func (op AssignOp) Binary() (BinaryOp, bool) {
	switch op {
	case AddAssign, Increase:
		return Add, true
	case SubAssign, Decrease:
		return Sub, true
	case MulAssign:
		return Mul, true
	case DivAssign:
		return Div, true
	case PowAssign:
		return Pow, true
	default:
		return 0, false
	}
}

// Modifiers groups the declaration modifiers shared by variables, functions
// and classes.
type Modifiers struct {
	Access    Access
	IsInClass bool
	IsStatic  bool
	IsFinal   bool
}

// ============================================================
// Structure
// ============================================================

// Tree is a sequence of nodes: a whole program or a block body.
type Tree struct {
	NodeBase
	Children []Node
}

// ============================================================
// Literals
// ============================================================

// IntegerNode is an integer literal.
type IntegerNode struct {
	NodeBase
	Value int64
}

// DoubleNode is a floating-point literal.
type DoubleNode struct {
	NodeBase
	Value float64
}

// BoolNode is true or false.
type BoolNode struct {
	NodeBase
	Value bool
}

// NullNode is null.
type NullNode struct {
	NodeBase
}

// ============================================================
// Expressions
// ============================================================

// BinaryNode is an arithmetic, comparison or logical operation.
type BinaryNode struct {
	NodeBase
	Op    BinaryOp
	Left  Node
	Right Node
}

// IdentifierNode names a variable slot. Parent is set for member access
// (parent.Name) and nil for a plain name.
type IdentifierNode struct {
	NodeBase
	Parent Node
	Name   string
}

// VariableUsageNode reads the value held by a variable.
type VariableUsageNode struct {
	NodeBase
	Variable *IdentifierNode
}

// AssignmentNode stores into a variable. Value is nil for ++ and --.
type AssignmentNode struct {
	NodeBase
	Op       AssignOp
	Variable *IdentifierNode
	Value    Node
}

// FunctionCallNode calls Function with Args.
type FunctionCallNode struct {
	NodeBase
	Function Node
	Args     []Node
}

// NewNode creates an instance of the class Class evaluates to.
type NewNode struct {
	NodeBase
	Class Node
	Args  []Node
}

// ============================================================
// Statements
// ============================================================

// VariableDeclarationNode declares Name in the current scope.
// Assignment is nil when there is no initializer.
type VariableDeclarationNode struct {
	NodeBase
	Modifiers
	Name       string
	Type       VariableType
	Assignment *AssignmentNode
}

// WhileNode is while (Condition) Body.
type WhileNode struct {
	NodeBase
	Condition Node
	Body      *Tree
}

// DoWhileNode is do Body while (Condition).
type DoWhileNode struct {
	NodeBase
	Condition Node
	Body      *Tree
}

// ForNode is for (Declaration; Condition; Round) Body.
type ForNode struct {
	NodeBase
	Declaration Node
	Condition   Node
	Round       Node
	Body        *Tree
}

// IfNode is if (Condition) Body else ElseBody. ElseBody may be nil; an
// else-if chain nests another IfNode inside ElseBody.
type IfNode struct {
	NodeBase
	Condition Node
	Body      *Tree
	ElseBody  *Tree
}

// ============================================================
// Declarations
// ============================================================

// FunctionDeclarationNode is function Name(Params) Body.
type FunctionDeclarationNode struct {
	NodeBase
	Modifiers
	Name   string
	Params []string
	Body   *Tree
}

// ClassDeclarationNode is class Name { members }.
type ClassDeclarationNode struct {
	NodeBase
	Modifiers
	Name    string
	Fields  []*VariableDeclarationNode
	Methods []*FunctionDeclarationNode
	Classes []*ClassDeclarationNode
}
