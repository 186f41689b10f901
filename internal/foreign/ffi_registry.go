package foreign

import (
	"lv8/internal/object"
	"maps"
	"sync"
)

var (
	stdlibOnce sync.Once
	stdlib     map[string]object.Object
)

// Stdlib returns the bindings every root frame starts with. The map is built
// once and never mutated, callers copy from it.
func Stdlib() map[string]object.Object {
	stdlibOnce.Do(func() {
		stdlib = map[string]object.Object{
			"print":   native("print", fnStdPrint),
			"printl":  native("printl", fnStdPrintl),
			"input":   native("input", fnStdInput),
			"inspect": native("inspect", fnStdInspect),

			"db": newModule("db", map[string]object.Object{
				"connect":  native("connect", fnIoDbConnect),
				"query":    native("query", fnIoDbQuery),
				"exec":     native("exec", fnIoDbExec),
				"begin":    native("begin", fnIoDbBegin),
				"commit":   native("commit", fnIoDbCommit),
				"rollback": native("rollback", fnIoDbRollback),
				"close":    native("close", fnIoDbClose),
			}),
		}
	})
	return maps.Clone(stdlib)
}

func native(name string, fn object.NativeFunction) *object.Native {
	return &object.Native{Name: name, Fn: fn}
}

func newModule(name string, bindings map[string]object.Object) *object.Module {
	env := object.NewRootEnvironment(name)
	env.Seed(bindings)
	return &object.Module{Name: name, Env: env}
}
