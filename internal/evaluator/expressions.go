package evaluator

import (
	"lv8/internal/ast"
	"lv8/internal/object"
	"sort"
)

func (e *Evaluator) evalExpression(node ast.Expression) (object.Object, error) {
	switch node := node.(type) {
	case *ast.NullLiteral:
		return object.NULL, nil

	case *ast.UndefinedLiteral:
		return object.UNDEFINED, nil

	case *ast.BooleanLiteral:
		return object.NativeBoolToBooleanObject(node.Value), nil

	case *ast.NumberLiteral:
		if node.IsFloat {
			return object.NewFloat(node.Float), nil
		}
		return object.NewInt(node.Int), nil

	case *ast.StringLiteral:
		return object.NewString(node.Value), nil

	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(node)

	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node)

	case *ast.Identifier:
		return e.evalIdentifier(node)

	case *ast.Namespace:
		return e.evalNamespace(node)

	case *ast.MathExpression:
		return e.evalMathExpression(node)

	case *ast.LogicExpression:
		return e.evalLogicExpression(node)

	case *ast.ComparisonExpression:
		return e.evalComparisonExpression(node)

	case nil:
		return object.UNDEFINED, nil

	default:
		return nil, object.NewTypeError("unknown expression %T", node)
	}
}

func (e *Evaluator) evalArrayLiteral(node *ast.ArrayLiteral) (object.Object, error) {
	elements := make([]object.Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val, err := e.evalExpression(el)
		if err != nil {
			return nil, err
		}
		elements = append(elements, val)
	}
	return &object.Array{Elements: elements}, nil
}

// Keys are evaluated in sorted order so the first failing value is stable.
func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral) (object.Object, error) {
	pairs := make(map[string]object.Object, len(node.Pairs))
	for _, key := range sortedKeys(node.Pairs) {
		val, err := e.evalExpression(node.Pairs[key])
		if err != nil {
			return nil, err
		}
		pairs[key] = val
	}
	return &object.Map{Pairs: pairs}, nil
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier) (object.Object, error) {
	if val, ok := e.CurrentEnv().Lookup(node.Value); ok {
		return val, nil
	}
	return nil, object.NewReferenceError("%s is not defined", node.Value).
		Locate(e.src, node.Token.Position)
}

// evalNamespace resolves the head through the scope chain, then walks the
// remaining segments: a module exposes its own frame only, an object its keys.
// Any other value, or a missing member, yields undefined.
func (e *Evaluator) evalNamespace(node *ast.Namespace) (object.Object, error) {
	head := node.Path[0]
	current, ok := e.CurrentEnv().Lookup(head)
	if !ok {
		return nil, object.NewReferenceError("%s is not defined", head).
			Locate(e.src, node.Token.Position)
	}

	for _, segment := range node.Path[1:] {
		current = member(current, segment)
	}

	return current, nil
}

func member(container object.Object, name string) object.Object {
	switch container := container.(type) {
	case *object.Module:
		if val, ok := container.Env.GetLocal(name); ok {
			return val
		}
	case *object.Map:
		if val, ok := container.Pairs[name]; ok {
			return object.Clone(val)
		}
	}
	return object.UNDEFINED
}

// Both operands are always evaluated, there is no short circuit.
func (e *Evaluator) evalLogicExpression(node *ast.LogicExpression) (object.Object, error) {
	if node.Operator == ast.Not {
		right, err := e.evalExpression(node.Right)
		if err != nil {
			return nil, err
		}
		return object.NativeBoolToBooleanObject(!object.Truthy(right)), nil
	}

	left, err := e.evalExpression(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Operator {
	case ast.And:
		return object.NativeBoolToBooleanObject(object.Truthy(left) && object.Truthy(right)), nil
	case ast.Or:
		return object.NativeBoolToBooleanObject(object.Truthy(left) || object.Truthy(right)), nil
	default:
		return nil, object.NewTypeError("unknown logic operator %s", node.Operator).
			Locate(e.src, node.Token.Position)
	}
}

func (e *Evaluator) evalComparisonExpression(node *ast.ComparisonExpression) (object.Object, error) {
	left, err := e.evalExpression(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}

	c, ok := object.PartialCompare(left, right)
	if !ok {
		// NaN was reached: only != holds
		return object.NativeBoolToBooleanObject(node.Operator == ast.NotEqual), nil
	}

	var result bool
	switch node.Operator {
	case ast.Equal:
		result = c == 0
	case ast.NotEqual:
		result = c != 0
	case ast.GreaterThan:
		result = c > 0
	case ast.GreaterThanOrEqual:
		result = c >= 0
	case ast.LessThan:
		result = c < 0
	case ast.LessThanOrEqual:
		result = c <= 0
	default:
		return nil, object.NewTypeError("unknown comparison operator %s", node.Operator).
			Locate(e.src, node.Token.Position)
	}

	return object.NativeBoolToBooleanObject(result), nil
}

func sortedKeys(pairs map[string]ast.Expression) []string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
