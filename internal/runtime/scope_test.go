package runtime

import (
	"errors"
	"reflect"
	"testing"

	"nsc-lang/internal/ast"
)

func TestVariableListOrder(t *testing.T) {
	list := NewVariableList()
	for _, name := range []string{"c", "a", "b"} {
		if !list.Declare(name, ast.Dynamic) {
			t.Fatalf("declare %s failed", name)
		}
	}
	if list.Declare("a", ast.Integer) {
		t.Error("expected duplicate declaration to fail")
	}
	if got := list.Names(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("expected insertion order, got %v", got)
	}
	if list.Len() != 3 {
		t.Errorf("expected 3 variables, got %d", list.Len())
	}
	if list.Get("a").Type() != ast.Dynamic {
		t.Error("duplicate declaration must keep the first type")
	}
	if list.Get("missing") != nil {
		t.Error("expected nil for missing name")
	}
}

func TestVariableValue(t *testing.T) {
	v := NewVariable("x", ast.Integer)
	if _, err := v.Value(); !errors.Is(err, ErrUninitializedAccess) {
		t.Fatalf("expected UninitializedAccess, got %v", err)
	}
	v.SetValue(IntegerVal(4))
	got, err := v.Value()
	if err != nil || got != IntegerVal(4) {
		t.Errorf("expected 4, got %v, %v", got, err)
	}

	alias := NewVariable("y", ast.Dynamic)
	alias.SetValue(v)
	if got, _ := alias.Value(); got != IntegerVal(4) {
		t.Errorf("expected variable to be unwrapped on store, got %#v", got)
	}
}

func TestScopeDeclareAndLookup(t *testing.T) {
	root := NewScope(nil, nil)
	x, err := root.Declare("x", ast.Integer)
	if err != nil {
		t.Fatal(err)
	}
	x.SetValue(IntegerVal(1))

	if _, err := root.Declare("x", ast.Integer); !errors.Is(err, ErrAlreadyDeclared) {
		t.Errorf("expected AlreadyDeclared, got %v", err)
	}

	child := root.Copy()
	if child.Parent() != root {
		t.Error("Copy must create a child of the receiver")
	}
	if child.Variables().Len() != 0 {
		t.Error("Copy must start with an empty variable list")
	}
	if v, ok := child.Resolve("x"); !ok || v != x {
		t.Error("child should resolve x through its parent")
	}

	shadow, err := child.Declare("x", ast.Double)
	if err != nil {
		t.Fatalf("shadowing should be allowed, got %v", err)
	}
	shadow.SetValue(DoubleVal(2))
	if v, _ := root.Lookup("x"); v != x {
		t.Error("shadowing must not affect the parent")
	}

	if _, err := child.Lookup("nope"); !errors.Is(err, ErrUndeclaredVariable) {
		t.Errorf("expected UndeclaredVariable, got %v", err)
	}
	if _, ok := child.Resolve("nope"); ok {
		t.Error("expected Resolve to report a miss")
	}
}

func TestScopeSharesVariableList(t *testing.T) {
	statics := NewVariableList()
	members := NewScope(nil, statics)
	if _, err := members.Declare("count", ast.Integer); err != nil {
		t.Fatal(err)
	}
	if statics.Get("count") == nil {
		t.Error("declaration should land in the shared list")
	}
}

func TestErrorKindNames(t *testing.T) {
	for kind := AlreadyDeclared; kind <= ArityMismatch; kind++ {
		parsed, ok := ParseErrorKind(kind.String())
		if !ok || parsed != kind {
			t.Errorf("round trip of %s failed", kind)
		}
	}
	if _, ok := ParseErrorKind("Bogus"); ok {
		t.Error("expected unknown kind to be rejected")
	}
}
