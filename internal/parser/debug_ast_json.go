package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lv8/internal/ast"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a map structure.
// The output is meant for tooling, so field names are stable.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Block:
		statements := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			statements[i] = WalkAST(s)
		}
		return map[string]interface{}{
			"type":       "Block",
			"statements": statements,
			"terminal":   WalkAST(n.Terminal),
		}

	case *ast.Terminal:
		return map[string]interface{}{
			"type":  "Terminal",
			"kind":  n.Kind.String(),
			"value": WalkAST(n.Value),
		}

	case *ast.Assignment:
		return map[string]interface{}{
			"type":     "Assignment",
			"position": n.Token.Position,
			"targets":  n.Targets,
			"value":    WalkAST(n.Value),
		}

	case *ast.FunctionDefinition:
		return map[string]interface{}{
			"type":       "FunctionDefinition",
			"position":   n.Token.Position,
			"name":       n.Name,
			"parameters": n.Parameters,
			"body":       WalkAST(n.Body),
		}

	case *ast.FunctionCall:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "FunctionCall",
			"position":  n.Token.Position,
			"callee":    WalkAST(n.Callee),
			"arguments": args,
		}

	case *ast.ModuleDefinition:
		return map[string]interface{}{
			"type":     "ModuleDefinition",
			"position": n.Token.Position,
			"name":     n.Name,
			"body":     WalkAST(n.Body),
		}

	case *ast.IfStatement:
		elseIfs := make([]interface{}, len(n.ElseIfs))
		for i, ei := range n.ElseIfs {
			elseIfs[i] = map[string]interface{}{
				"condition": WalkAST(ei.Condition),
				"body":      WalkAST(ei.Body),
			}
		}
		return map[string]interface{}{
			"type":      "If",
			"position":  n.Token.Position,
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
			"elseIfs":   elseIfs,
			"else":      WalkAST(n.Else),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"type":      "While",
			"position":  n.Token.Position,
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		}

	case *ast.ImportStatement:
		return map[string]interface{}{
			"type":     "Import",
			"position": n.Token.Position,
			"path":     n.Path,
			"alias":    n.Alias,
		}

	case *ast.NullLiteral:
		return map[string]interface{}{"type": "Null"}

	case *ast.UndefinedLiteral:
		return map[string]interface{}{"type": "Undefined"}

	case *ast.BooleanLiteral:
		return map[string]interface{}{"type": "Boolean", "value": n.Value}

	case *ast.NumberLiteral:
		if n.IsFloat {
			return map[string]interface{}{"type": "Number", "float": n.Float}
		}
		return map[string]interface{}{"type": "Number", "int": n.Int}

	case *ast.StringLiteral:
		return map[string]interface{}{"type": "String", "value": n.Value}

	case *ast.ArrayLiteral:
		elements := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = WalkAST(el)
		}
		return map[string]interface{}{
			"type":     "Array",
			"elements": elements,
		}

	case *ast.ObjectLiteral:
		pairs := make(map[string]interface{}, len(n.Pairs))
		for k, v := range n.Pairs {
			pairs[k] = WalkAST(v)
		}
		return map[string]interface{}{
			"type":  "Object",
			"pairs": pairs,
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"type":     "Identifier",
			"position": n.Token.Position,
			"value":    n.Value,
		}

	case *ast.Namespace:
		return map[string]interface{}{
			"type":     "Namespace",
			"position": n.Token.Position,
			"path":     n.Path,
		}

	case *ast.MathExpression:
		return map[string]interface{}{
			"type":     "MathExpression",
			"operator": string(n.Operator),
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.LogicExpression:
		return map[string]interface{}{
			"type":     "LogicExpression",
			"operator": string(n.Operator),
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.ComparisonExpression:
		return map[string]interface{}{
			"type":     "ComparisonExpression",
			"operator": string(n.Operator),
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.String(), nil
}
