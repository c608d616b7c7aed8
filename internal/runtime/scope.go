package runtime

import (
	"nsc-lang/internal/ast"
)

// Scope is a lexical environment: a local variable list plus a non-owning
// pointer to the enclosing scope. Lookup walks outward; declaration is local.
type Scope struct {
	parent *Scope
	vars   *VariableList
}

// NewScope creates a scope under parent. A nil vars gets a fresh list; passing
// an existing list lets a class share its statics table with its member scope.
func NewScope(parent *Scope, vars *VariableList) *Scope {
	if vars == nil {
		vars = NewVariableList()
	}
	return &Scope{parent: parent, vars: vars}
}

// Copy returns a new empty child of s.
func (s *Scope) Copy() *Scope {
	return NewScope(s, nil)
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Variables returns the variables declared directly in s.
func (s *Scope) Variables() *VariableList {
	return s.vars
}

// Resolve finds name in s or the nearest enclosing scope that declares it.
func (s *Scope) Resolve(name string) (*Variable, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v := sc.vars.Get(name); v != nil {
			return v, true
		}
	}
	return nil, false
}

// Lookup is Resolve with an UndeclaredVariable error.
func (s *Scope) Lookup(name string) (*Variable, error) {
	if v, ok := s.Resolve(name); ok {
		return v, nil
	}
	return nil, runtimeErr(UndeclaredVariable, "variable %s is not declared", name)
}

// Declare creates name in s. Shadowing an outer declaration is allowed;
// redeclaring in the same scope is AlreadyDeclared.
func (s *Scope) Declare(name string, typ ast.VariableType) (*Variable, error) {
	if !s.vars.Declare(name, typ) {
		return nil, runtimeErr(AlreadyDeclared, "variable %s is already declared in this scope", name)
	}
	return s.vars.Get(name), nil
}
