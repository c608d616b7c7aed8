package runtime

import (
	"fmt"

	"nsc-lang/internal/ast"
)

// ClassVal is a declared class. Static members live in a member scope whose
// parent is the declaring scope. Non-static functions form the prototype;
// non-static field declarations are replayed for every instance.
type ClassVal struct {
	Name      string
	Modifiers ast.Modifiers
	members   *Scope
	prototype *VariableList
	fields    []*ast.VariableDeclarationNode
}

func (v *ClassVal) TypeName() string { return "class" }
func (v *ClassVal) String() string   { return fmt.Sprintf("<class %s>", v.Name) }

// Statics returns the static fields, static functions and nested classes.
func (v *ClassVal) Statics() *VariableList { return v.members.Variables() }

// Prototype returns the instance functions.
func (v *ClassVal) Prototype() *VariableList { return v.prototype }

// GetChild returns a static member. A member that is missing or has no value
// yet is NoSuchMember.
func (v *ClassVal) GetChild(name string) (*Variable, error) {
	child := v.Statics().Get(name)
	if child == nil || !child.IsInitialized() {
		return nil, runtimeErr(NoSuchMember, "class %q has no member %s", v.Name, name)
	}
	return child, nil
}

// InstanceVal is an object created by new. Its scope holds the instance
// fields; the parent is the class member scope.
type InstanceVal struct {
	Class *ClassVal
	scope *Scope
}

func (v *InstanceVal) TypeName() string { return "object" }
func (v *InstanceVal) String() string   { return fmt.Sprintf("<%s instance>", v.Class.Name) }

// Fields returns the instance fields.
func (v *InstanceVal) Fields() *VariableList { return v.scope.Variables() }

// GetChild looks up instance fields, then prototype functions bound to this
// instance, then the class statics.
func (v *InstanceVal) GetChild(name string) (*Variable, error) {
	if field := v.Fields().Get(name); field != nil {
		return field, nil
	}
	if proto := v.Class.prototype.Get(name); proto != nil && proto.IsInitialized() {
		if fn, ok := proto.value.(*FuncVal); ok {
			bound := NewVariable(name, ast.Function)
			bound.SetValue(fn.WithScope(v.scope))
			return bound, nil
		}
	}
	if static := v.Class.Statics().Get(name); static != nil && static.IsInitialized() {
		return static, nil
	}
	return nil, runtimeErr(NoSuchMember, "class %q has no member %s", v.Class.Name, name)
}

// declareClass builds the class value for n in scope. Nested classes come
// first, then functions, then static fields, so that static initializers can
// use every other member.
func (in *Interpreter) declareClass(n *ast.ClassDeclarationNode, scope *Scope) (*ClassVal, error) {
	cls := &ClassVal{
		Name:      n.Name,
		Modifiers: n.Modifiers,
		members:   NewScope(scope, nil),
		prototype: NewVariableList(),
	}
	members := &evaluator{in: in, scope: cls.members}

	for _, nested := range n.Classes {
		if _, err := members.eval(nested); err != nil {
			return nil, err
		}
	}
	for _, method := range n.Methods {
		if method.IsStatic {
			if _, err := members.eval(method); err != nil {
				return nil, err
			}
			continue
		}
		if !cls.prototype.Declare(method.Name, ast.Function) {
			return nil, &RuntimeError{
				Kind:    AlreadyDeclared,
				Message: fmt.Sprintf("function %s is already declared in class %s", method.Name, n.Name),
				Span:    method.Span,
			}
		}
		cls.prototype.Get(method.Name).SetValue(newFunction(method, cls.members))
	}
	for _, field := range n.Fields {
		if !field.IsStatic {
			cls.fields = append(cls.fields, field)
			continue
		}
		if _, err := members.eval(field); err != nil {
			return nil, err
		}
	}

	in.logger.Debug("class declared", "class", n.Name,
		"statics", cls.Statics().Len(), "prototype", cls.prototype.Len(), "fields", len(cls.fields))
	return cls, nil
}

// instantiate creates an instance of cls, evaluating every field declaration
// in the new instance scope.
func (in *Interpreter) instantiate(cls *ClassVal) (*InstanceVal, error) {
	obj := &InstanceVal{Class: cls, scope: NewScope(cls.members, nil)}
	fields := &evaluator{in: in, scope: obj.scope}
	for _, field := range cls.fields {
		if _, err := fields.eval(field); err != nil {
			return nil, err
		}
	}
	in.logger.Debug("instance created", "class", cls.Name, "fields", obj.Fields().Len())
	return obj, nil
}
