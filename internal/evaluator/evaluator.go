package evaluator

import (
	"bufio"
	"errors"
	"io"
	"lv8/internal/ast"
	"lv8/internal/object"
	"lv8/internal/util"
)

// Evaluator walks one program. The top of envStack is the frame statements
// currently execute in.
type Evaluator struct {
	interp   *Interpreter
	envStack []*object.Environment
	src      string // source of the code being evaluated, for error snippets
	dir      string // base directory for relative imports
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("Environment stack is empty")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("Attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

func (e *Evaluator) Stdout() io.Writer                    { return e.interp.stdout }
func (e *Evaluator) Stdin() *bufio.Reader                 { return e.interp.stdin }
func (e *Evaluator) GetConfiguration() util.Configuration { return e.interp.Config }
func (e *Evaluator) Handles() *object.Handles             { return e.interp.handles }

// locate pins an evaluation error to a source position unless a deeper step
// already did. Errors that are not evaluation errors become RuntimeErrors.
func (e *Evaluator) locate(err error, pos int) error {
	var objErr *object.Error
	if errors.As(err, &objErr) {
		objErr.Locate(e.src, pos)
		return err
	}
	var parseErr interface{ Pretty() string }
	if errors.As(err, &parseErr) {
		return err
	}
	return object.NewRuntimeError("%v", err).Locate(e.src, pos)
}

// evalProgram runs a top level block. Without a written terminal the value
// of the last statement is the program's value, which the REPL echoes.
func (e *Evaluator) evalProgram(program *ast.Block) (object.Object, error) {
	var last object.Object = object.UNDEFINED

	for _, stmt := range program.Statements {
		val, err := e.evalStatement(stmt)
		if err != nil {
			return nil, err
		}
		last = val
	}

	if program.Terminal == nil || program.Terminal.Implicit {
		return last, nil
	}
	return e.evalTerminal(program.Terminal)
}

// evalBlock runs statements in the current frame and then the terminal.
func (e *Evaluator) evalBlock(block *ast.Block) (object.Object, error) {
	for _, stmt := range block.Statements {
		if _, err := e.evalStatement(stmt); err != nil {
			return nil, err
		}
	}
	return e.evalTerminal(block.Terminal)
}

// evalScopedBlock runs a block in a fresh child of the current frame.
func (e *Evaluator) evalScopedBlock(block *ast.Block, name string) (object.Object, error) {
	e.PushEnv(object.NewEnclosedEnvironment(e.CurrentEnv(), name))
	defer e.PopEnv()
	return e.evalBlock(block)
}

// Break and continue carry no control flow, they simply yield undefined.
func (e *Evaluator) evalTerminal(terminal *ast.Terminal) (object.Object, error) {
	if terminal == nil || terminal.Kind != ast.Return {
		return object.UNDEFINED, nil
	}
	return e.evalExpression(terminal.Value)
}

func (e *Evaluator) evalNode(node ast.Node) (object.Object, error) {
	switch node := node.(type) {
	case ast.Statement:
		return e.evalStatement(node)
	case ast.Expression:
		return e.evalExpression(node)
	default:
		return nil, object.NewTypeError("cannot evaluate %T", node)
	}
}

func (e *Evaluator) evalStatement(stmt ast.Statement) (object.Object, error) {
	switch node := stmt.(type) {
	case *ast.Assignment:
		return e.evalAssignment(node)

	case *ast.FunctionDefinition:
		return e.defineFunction(node)

	case *ast.FunctionCall:
		return e.evalCall(node)

	case *ast.ModuleDefinition:
		return e.defineModule(node)

	case *ast.IfStatement:
		return e.evalIf(node)

	case *ast.WhileStatement:
		return e.evalWhile(node)

	case *ast.ImportStatement:
		return e.evalImport(node)

	default:
		return nil, object.NewTypeError("unknown statement %T", stmt)
	}
}

func (e *Evaluator) evalAssignment(node *ast.Assignment) (object.Object, error) {
	val, err := e.evalNode(node.Value)
	if err != nil {
		return nil, err
	}

	env := e.CurrentEnv()
	for _, target := range node.Targets {
		env.Assign(target, val)
	}

	return val, nil
}

func (e *Evaluator) evalIf(node *ast.IfStatement) (object.Object, error) {
	cond, err := e.evalExpression(node.Condition)
	if err != nil {
		return nil, err
	}
	if object.Truthy(cond) {
		return e.evalScopedBlock(node.Body, "if")
	}

	for _, elseIf := range node.ElseIfs {
		cond, err := e.evalExpression(elseIf.Condition)
		if err != nil {
			return nil, err
		}
		if object.Truthy(cond) {
			return e.evalScopedBlock(elseIf.Body, "else if")
		}
	}

	if node.Else != nil {
		return e.evalScopedBlock(node.Else, "else")
	}

	return object.UNDEFINED, nil
}

// evalWhile tests the condition in the enclosing frame and gives every
// iteration a new child frame. The loop only ends when the condition is falsy.
func (e *Evaluator) evalWhile(node *ast.WhileStatement) (object.Object, error) {
	var result object.Object = object.UNDEFINED

	for {
		cond, err := e.evalExpression(node.Condition)
		if err != nil {
			return nil, err
		}
		if !object.Truthy(cond) {
			return result, nil
		}

		result, err = e.evalScopedBlock(node.Body, "while")
		if err != nil {
			return nil, err
		}
	}
}
