// Package runtime implements the tree-walking evaluator and runtime value
// system for nsc-lang.
package runtime

import (
	"math"
	"strconv"
	"strings"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// Member is implemented by values with named children (a.b).
type Member interface {
	Value
	GetChild(name string) (*Variable, error)
}

// ---- Primitive values ----

// IntegerVal represents a 64-bit integer value.
type IntegerVal int64

func (v IntegerVal) TypeName() string { return "integer" }
func (v IntegerVal) String() string   { return strconv.FormatInt(int64(v), 10) }

// DoubleVal represents a floating-point value.
type DoubleVal float64

func (v DoubleVal) TypeName() string { return "double" }
func (v DoubleVal) String() string   { return formatDouble(float64(v)) }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "boolean" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// NullVal represents null.
type NullVal struct{}

func (v NullVal) TypeName() string { return "null" }
func (v NullVal) String() string   { return "null" }

// Shared singletons.
var (
	Null  Value = NullVal{}
	True  Value = BoolVal(true)
	False Value = BoolVal(false)
)

// Bool returns the shared boolean value for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// formatDouble prints the shortest form that parses back to f, keeping a
// fractional part so that doubles stay distinguishable from integers.
func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// deref unwraps a variable into the value it holds.
func deref(v Value) (Value, error) {
	if variable, ok := v.(*Variable); ok {
		return variable.Value()
	}
	return v, nil
}
