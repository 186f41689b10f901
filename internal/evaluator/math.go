package evaluator

import (
	"lv8/internal/ast"
	"lv8/internal/object"
	"math"
)

func (e *Evaluator) evalMathExpression(node *ast.MathExpression) (object.Object, error) {
	left, err := e.evalExpression(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}

	l, lok := left.(*object.Number)
	r, rok := right.(*object.Number)
	if !lok || !rok {
		return nil, object.NewTypeError("unsupported operand types for %s: %s and %s",
			node.Operator, left.Type(), right.Type()).Locate(e.src, node.Token.Position)
	}

	var result *object.Number
	if l.IsFloat || r.IsFloat {
		result, err = floatMath(node.Operator, l.AsFloat(), r.AsFloat())
	} else {
		result, err = intMath(node.Operator, l.Int, r.Int)
	}
	if err != nil {
		return nil, e.locate(err, node.Token.Position)
	}
	return result, nil
}

// intMath wraps on overflow. A negative exponent widens to float.
func intMath(op ast.MathOperator, l, r int64) (*object.Number, error) {
	switch op {
	case ast.Add:
		return object.NewInt(l + r), nil
	case ast.Subtract:
		return object.NewInt(l - r), nil
	case ast.Multiply:
		return object.NewInt(l * r), nil
	case ast.Divide:
		if r == 0 {
			return nil, object.NewRuntimeError("division by zero")
		}
		return object.NewInt(l / r), nil
	case ast.Modulus:
		if r == 0 {
			return nil, object.NewRuntimeError("division by zero")
		}
		return object.NewInt(l % r), nil
	case ast.Power:
		if r < 0 {
			return object.NewFloat(math.Pow(float64(l), float64(r))), nil
		}
		return object.NewInt(ipow(l, r)), nil
	default:
		return nil, object.NewTypeError("unknown operator %s", op)
	}
}

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

func floatMath(op ast.MathOperator, l, r float64) (*object.Number, error) {
	switch op {
	case ast.Add:
		return object.NewFloat(l + r), nil
	case ast.Subtract:
		return object.NewFloat(l - r), nil
	case ast.Multiply:
		return object.NewFloat(l * r), nil
	case ast.Divide:
		return object.NewFloat(l / r), nil
	case ast.Modulus:
		return object.NewFloat(math.Mod(l, r)), nil
	case ast.Power:
		return object.NewFloat(math.Pow(l, r)), nil
	default:
		return nil, object.NewTypeError("unknown operator %s", op)
	}
}
