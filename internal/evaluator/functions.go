package evaluator

import (
	"context"
	"log/slog"
	"lv8/internal/ast"
	"lv8/internal/log"
	"lv8/internal/object"
)

// defineFunction binds a closure over the current frame. With shared
// function frames every call of the function reuses one dedicated frame,
// otherwise each call gets a fresh child of the captured frame.
func (e *Evaluator) defineFunction(node *ast.FunctionDefinition) (object.Object, error) {
	env := e.CurrentEnv()

	fn := &object.Function{
		Name:       node.Name,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        env,
		Src:        e.src,
		Dir:        e.dir,
	}
	if e.interp.Config.SharedFunctionFrames {
		fn.Env = object.NewEnclosedEnvironment(env, "fn "+node.Name)
		fn.SharedFrame = true
	}

	env.Assign(node.Name, fn)
	return object.UNDEFINED, nil
}

func (e *Evaluator) evalCall(node *ast.FunctionCall) (object.Object, error) {
	callee, err := e.evalExpression(node.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val, err := e.evalNode(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	switch fn := callee.(type) {
	case *object.Function:
		result, err := e.applyFunction(fn, args)
		if err != nil {
			return nil, e.locate(err, node.Token.Position)
		}
		return result, nil

	case *object.Native:
		result, err := fn.Fn(e, args...)
		if err != nil {
			return nil, e.locate(err, node.Token.Position)
		}
		if result == nil {
			return object.UNDEFINED, nil
		}
		return result, nil

	default:
		return nil, object.NewTypeError("%s is not callable", node.Callee.String()).
			Locate(e.src, node.Token.Position)
	}
}

// applyFunction binds arguments positionally (missing ones are undefined,
// extras are dropped) and runs the body where the function was written.
func (e *Evaluator) applyFunction(fn *object.Function, args []object.Object) (object.Object, error) {
	frame := fn.Env
	if !fn.SharedFrame {
		frame = object.NewEnclosedEnvironment(fn.Env, "fn "+fn.Name)
	}

	for i, param := range fn.Parameters {
		if i < len(args) {
			frame.Define(param, args[i])
		} else {
			frame.Define(param, object.UNDEFINED)
		}
	}

	slog.Log(context.Background(), log.LevelTrace, "call",
		slog.String("function", fn.Name),
		slog.Int("args", len(args)),
		slog.Uint64("frame", frame.ID),
	)

	src, dir := e.src, e.dir
	e.src, e.dir = fn.Src, fn.Dir
	e.PushEnv(frame)
	defer func() {
		e.PopEnv()
		e.src, e.dir = src, dir
	}()

	return e.evalBlock(fn.Body)
}
