package runtime

import (
	"nsc-lang/internal/ast"
)

// Variable is a named, typed storage slot. A variable is created once by a
// declaration and mutated in place; closures and instances hold pointers to it.
// The declared type is recorded but not enforced.
type Variable struct {
	name        string
	typ         ast.VariableType
	value       Value
	initialized bool
}

// NewVariable creates an uninitialized variable.
func NewVariable(name string, typ ast.VariableType) *Variable {
	return &Variable{name: name, typ: typ}
}

func (v *Variable) Name() string           { return v.name }
func (v *Variable) Type() ast.VariableType { return v.typ }
func (v *Variable) IsInitialized() bool    { return v.initialized }

// Value returns the stored value, or UninitializedAccess if nothing has been
// assigned yet.
func (v *Variable) Value() (Value, error) {
	if !v.initialized {
		return nil, runtimeErr(UninitializedAccess, "variable %s is used before it is assigned", v.name)
	}
	return v.value, nil
}

// SetValue stores val. A *Variable is unwrapped so that slots never nest.
func (v *Variable) SetValue(val Value) {
	if inner, ok := val.(*Variable); ok {
		val = inner.value
		if !inner.initialized {
			val = Null
		}
	}
	v.value = val
	v.initialized = true
}

// TypeName and String make a variable usable where a Value is expected:
// evaluating an identifier yields the slot itself.
func (v *Variable) TypeName() string { return "variable" }

func (v *Variable) String() string {
	if !v.initialized {
		return "<uninitialized " + v.name + ">"
	}
	return v.value.String()
}

// VariableList is an insertion-ordered table of uniquely named variables.
type VariableList struct {
	order []string
	vars  map[string]*Variable
}

// NewVariableList creates an empty list.
func NewVariableList() *VariableList {
	return &VariableList{vars: make(map[string]*Variable)}
}

// Declare adds an uninitialized variable. It returns false when the name is
// already present in this list.
func (l *VariableList) Declare(name string, typ ast.VariableType) bool {
	if _, exists := l.vars[name]; exists {
		return false
	}
	l.vars[name] = NewVariable(name, typ)
	l.order = append(l.order, name)
	return true
}

// Get returns the variable called name, or nil. Parents are not consulted.
func (l *VariableList) Get(name string) *Variable {
	return l.vars[name]
}

// Names returns the declared names in declaration order.
func (l *VariableList) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

func (l *VariableList) Len() int {
	return len(l.order)
}
