package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"lv8/internal/ast"
	"lv8/internal/foreign"
	"lv8/internal/object"
	"lv8/internal/parser"
	"lv8/internal/util"
	"os"
	"path/filepath"
	"strings"
)

// Interpreter is one session: a file run or a whole REPL. It owns the global
// frame, the standard streams and any native handles opened by scripts.
type Interpreter struct {
	Config util.Configuration
	Root   *object.Environment

	stdin   *bufio.Reader
	stdout  io.Writer
	handles *object.Handles

	importing []string // files currently being imported, outermost first
}

func New(config util.Configuration, stdin io.Reader, stdout io.Writer) *Interpreter {
	return &Interpreter{
		Config:  config,
		Root:    NewGlobalEnvironment("global"),
		stdin:   bufio.NewReader(stdin),
		stdout:  stdout,
		handles: object.NewHandles(),
	}
}

// NewGlobalEnvironment returns a root frame seeded with the standard library.
func NewGlobalEnvironment(name string) *object.Environment {
	env := object.NewRootEnvironment(name)
	env.Seed(foreign.Stdlib())
	return env
}

// Stdin is the reader natives like input() consume. The REPL reads its lines
// from the same reader so the two never race for buffered input.
func (i *Interpreter) Stdin() *bufio.Reader { return i.stdin }

// Run parses src and executes it on the global frame. dir anchors relative imports.
func (i *Interpreter) Run(src, dir string) (object.Object, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return i.Execute(program, src, dir)
}

// Execute runs an already parsed program on the global frame.
func (i *Interpreter) Execute(program *ast.Block, src, dir string) (object.Object, error) {
	e := i.newEvaluator(i.Root, src, dir)
	return e.evalProgram(program)
}

// Load reads and parses a source file. Read failures are RuntimeErrors and
// parse failures are *parser.SyntaxError.
func (i *Interpreter) Load(path string) (*ast.Block, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", object.NewRuntimeError("cannot read %s: %v", path, err)
	}
	src := string(data)

	program, err := parser.Parse(src)
	if err != nil {
		slog.Warn("error parsing file",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil, src, err
	}

	if i.Config.DebugJsonAST {
		i.writeASTJSON(program, path)
	}

	return program, src, nil
}

func (i *Interpreter) writeASTJSON(program *ast.Block, path string) {
	json, err := parser.RenderASTAsJSON(program)
	if err != nil {
		slog.Error("failed to render AST as JSON", slog.Any("error", err))
		return
	}
	if err := os.WriteFile(path+".ast.json", []byte(json), 0o644); err != nil {
		slog.Error("failed to write AST as JSON",
			slog.String("path", path+".ast.json"),
			slog.Any("error", err),
		)
	}
}

// Close releases native handles (database connections) opened during the session.
func (i *Interpreter) Close() error {
	if i.handles.Len() > 0 {
		slog.Debug("closing native handles", slog.Int("count", i.handles.Len()))
	}
	if err := i.handles.CloseAll(); err != nil {
		return fmt.Errorf("closing handles: %w", err)
	}
	return nil
}

func (i *Interpreter) newEvaluator(env *object.Environment, src, dir string) *Evaluator {
	return &Evaluator{
		interp:   i,
		envStack: []*object.Environment{env},
		src:      src,
		dir:      dir,
	}
}

func (i *Interpreter) beginImport(path string) error {
	for _, active := range i.importing {
		if active == path {
			chain := append(append([]string{}, i.importing...), path)
			for n, p := range chain {
				chain[n] = filepath.Base(p)
			}
			return object.NewRuntimeError("import cycle detected: %s", strings.Join(chain, " -> "))
		}
	}
	i.importing = append(i.importing, path)
	return nil
}

func (i *Interpreter) endImport() {
	i.importing = i.importing[:len(i.importing)-1]
}
