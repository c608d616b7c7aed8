package runtime

import (
	"math"

	"nsc-lang/internal/ast"
)

// Binary applies op to two plain values (not variables).
//
// Integer arithmetic wraps on overflow. Mixing an integer with a double
// promotes to double, and division always yields a double. Comparisons are
// numeric; == additionally compares booleans, null, and references by
// identity. && and || take booleans only.
func Binary(op ast.BinaryOp, left, right Value) (Value, error) {
	switch op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Pow:
		return arithmetic(op, left, right)
	case ast.Bigger, ast.Smaller, ast.BiggerEquals, ast.SmallerEquals:
		return compare(op, left, right)
	case ast.EqEquals:
		eq, ok := equals(left, right)
		if !ok {
			return nil, mismatch(op, left, right)
		}
		return Bool(eq), nil
	case ast.And, ast.Or:
		l, lok := left.(BoolVal)
		r, rok := right.(BoolVal)
		if !lok || !rok {
			return nil, mismatch(op, left, right)
		}
		if op == ast.And {
			return Bool(bool(l) && bool(r)), nil
		}
		return Bool(bool(l) || bool(r)), nil
	default:
		return nil, mismatch(op, left, right)
	}
}

func mismatch(op ast.BinaryOp, left, right Value) error {
	return runtimeErr(TypeMismatch, "cannot apply '%s' to %s and %s", op, left.TypeName(), right.TypeName())
}

func arithmetic(op ast.BinaryOp, left, right Value) (Value, error) {
	li, lInt := left.(IntegerVal)
	ri, rInt := right.(IntegerVal)
	if lInt && rInt {
		switch op {
		case ast.Add:
			return li + ri, nil
		case ast.Sub:
			return li - ri, nil
		case ast.Mul:
			return li * ri, nil
		case ast.Pow:
			if ri >= 0 {
				return IntegerVal(ipow(int64(li), int64(ri))), nil
			}
		}
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, mismatch(op, left, right)
	}
	switch op {
	case ast.Add:
		return DoubleVal(lf + rf), nil
	case ast.Sub:
		return DoubleVal(lf - rf), nil
	case ast.Mul:
		return DoubleVal(lf * rf), nil
	case ast.Div:
		return DoubleVal(lf / rf), nil
	default:
		return DoubleVal(math.Pow(lf, rf)), nil
	}
}

// ipow computes base^exp by squaring, wrapping like the other integer ops.
func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func compare(op ast.BinaryOp, left, right Value) (Value, error) {
	// integer pairs compare exactly, without a float round trip
	if li, ok := left.(IntegerVal); ok {
		if ri, ok := right.(IntegerVal); ok {
			return Bool(ordered(op, cmpInt(li, ri))), nil
		}
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, mismatch(op, left, right)
	}
	if math.IsNaN(lf) || math.IsNaN(rf) {
		return False, nil
	}
	c := 0
	if lf < rf {
		c = -1
	} else if lf > rf {
		c = 1
	}
	return Bool(ordered(op, c)), nil
}

func cmpInt(a, b IntegerVal) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ordered(op ast.BinaryOp, c int) bool {
	switch op {
	case ast.Bigger:
		return c > 0
	case ast.Smaller:
		return c < 0
	case ast.BiggerEquals:
		return c >= 0
	default:
		return c <= 0
	}
}

// equals reports whether left == right, and false in its second result when
// the pair cannot be compared.
func equals(left, right Value) (bool, bool) {
	if _, ok := left.(NullVal); ok {
		_, rNull := right.(NullVal)
		return rNull, true
	}
	if _, ok := right.(NullVal); ok {
		return false, true
	}
	if li, ok := left.(IntegerVal); ok {
		if ri, ok := right.(IntegerVal); ok {
			return li == ri, true
		}
	}
	if lf, ok := toFloat(left); ok {
		rf, ok := toFloat(right)
		return lf == rf, ok
	}
	switch l := left.(type) {
	case BoolVal:
		r, ok := right.(BoolVal)
		return l == r, ok
	case *FuncVal:
		r, ok := right.(*FuncVal)
		return ok && l.sameAs(r), ok
	case *ClassVal:
		r, ok := right.(*ClassVal)
		return l == r, ok
	case *InstanceVal:
		r, ok := right.(*InstanceVal)
		return l == r, ok
	}
	return false, false
}

func toFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntegerVal:
		return float64(val), true
	case DoubleVal:
		return float64(val), true
	default:
		return 0, false
	}
}

// condition checks that a loop or if condition produced a boolean.
func condition(v Value) (bool, error) {
	b, ok := v.(BoolVal)
	if !ok {
		return false, runtimeErr(TypeMismatch, "condition must be a boolean, got %s", v.TypeName())
	}
	return bool(b), nil
}
