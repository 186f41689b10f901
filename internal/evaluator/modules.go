package evaluator

import (
	"log/slog"
	"lv8/internal/ast"
	"lv8/internal/object"
	"path/filepath"
)

// defineModule runs the body once in a child of the current frame and binds
// the resulting frame, wrapped as a module, with the same one-level rule as
// assignment. The body's terminal is not evaluated.
func (e *Evaluator) defineModule(node *ast.ModuleDefinition) (object.Object, error) {
	env := object.NewEnclosedEnvironment(e.CurrentEnv(), "module "+node.Name)

	e.PushEnv(env)
	for _, stmt := range node.Body.Statements {
		if _, err := e.evalStatement(stmt); err != nil {
			e.PopEnv()
			return nil, err
		}
	}
	e.PopEnv()

	module := &object.Module{Name: node.Name, Env: env}
	e.CurrentEnv().Assign(node.Name, module)

	slog.Debug("module defined",
		slog.String("module", node.Name),
		slog.Any("bindings", env.Names()),
	)
	return object.UNDEFINED, nil
}

// evalImport executes another file as an independent program on a new
// global frame and binds that frame as a module under the alias. Every
// import runs the file again, nothing is cached.
func (e *Evaluator) evalImport(node *ast.ImportStatement) (object.Object, error) {
	path := node.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if err := e.interp.beginImport(path); err != nil {
		return nil, e.locate(err, node.Token.Position)
	}
	defer e.interp.endImport()

	slog.Debug("importing module",
		slog.String("path", path),
		slog.String("alias", node.Alias),
	)

	program, src, err := e.interp.Load(path)
	if err != nil {
		return nil, e.locate(err, node.Token.Position)
	}

	root := NewGlobalEnvironment("import " + node.Alias)
	sub := e.interp.newEvaluator(root, src, filepath.Dir(path))
	if _, err := sub.evalProgram(program); err != nil {
		return nil, err
	}

	module := &object.Module{Name: node.Alias, Path: path, Env: root}
	e.CurrentEnv().Assign(node.Alias, module)

	return object.UNDEFINED, nil
}
