package object

import (
	"log/slog"
	"sort"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one frame of the lexical scope chain. Frames are shared by
// pointer between closures, modules and nested blocks, so a write through one
// alias is seen through all of them. Execution is single threaded, no locking.
type Environment struct {
	ID       uint64
	Name     string // diagnostic only
	Bindings map[string]Object
	Outer    *Environment
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func newEnvironment(name string) *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Name:     name,
		Bindings: make(map[string]Object),
	}
}

func NewRootEnvironment(name string) *Environment {
	env := newEnvironment(name)
	slog.Debug("new root env",
		slog.String("name", name),
		slog.Uint64("id", env.ID),
	)
	return env
}

func NewEnclosedEnvironment(outer *Environment, name string) *Environment {
	env := newEnvironment(name)
	env.Outer = outer
	slog.Debug("new env",
		slog.String("name", name),
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID),
	)
	return env
}

// Lookup searches this frame and then each ancestor. The result is a copy for
// arrays and objects, so callers may not mutate stored state through it.
func (e *Environment) Lookup(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.Bindings[name]; ok {
			return Clone(val), true
		}
	}
	return nil, false
}

// GetLocal reads this frame only, without walking outers.
func (e *Environment) GetLocal(name string) (Object, bool) {
	val, ok := e.Bindings[name]
	if !ok {
		return nil, false
	}
	return Clone(val), true
}

// Assign looks exactly one level up. A local binding is overwritten, then a
// binding held directly by the parent; anything else, including a name only a
// grandparent holds, becomes a new local binding.
func (e *Environment) Assign(name string, val Object) {
	if _, ok := e.Bindings[name]; ok {
		e.Bindings[name] = val
		return
	}
	if e.Outer != nil {
		if _, ok := e.Outer.Bindings[name]; ok {
			e.Outer.Bindings[name] = val
			return
		}
	}
	e.Bindings[name] = val
}

// Define always writes into this frame.
func (e *Environment) Define(name string, val Object) {
	e.Bindings[name] = val
}

// Seed bulk-inserts bindings into this frame.
func (e *Environment) Seed(bindings map[string]Object) {
	for name, val := range bindings {
		e.Bindings[name] = val
	}
}

// Names lists the local binding names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.Bindings))
	for name := range e.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
