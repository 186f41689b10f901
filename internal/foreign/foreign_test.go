package foreign

import (
	"bufio"
	"bytes"
	"io"
	"lv8/internal/object"
	"lv8/internal/util"
	"path/filepath"
	"strings"
	"testing"
)

type testContext struct {
	env     *object.Environment
	out     *bytes.Buffer
	in      *bufio.Reader
	handles *object.Handles
}

func newTestContext(input string) *testContext {
	return &testContext{
		env:     object.NewRootEnvironment("test"),
		out:     &bytes.Buffer{},
		in:      bufio.NewReader(strings.NewReader(input)),
		handles: object.NewHandles(),
	}
}

func (c *testContext) CurrentEnv() *object.Environment       { return c.env }
func (c *testContext) Stdout() io.Writer                     { return c.out }
func (c *testContext) Stdin() *bufio.Reader                  { return c.in }
func (c *testContext) GetConfiguration() util.Configuration { return util.DefaultConfiguration() }
func (c *testContext) Handles() *object.Handles              { return c.handles }

func call(t *testing.T, ctx object.EvaluatorContext, fn object.NativeFunction, args ...object.Object) object.Object {
	t.Helper()
	result, err := fn(ctx, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestStdlibIsFreshCopy(t *testing.T) {
	a := Stdlib()
	delete(a, "print")

	b := Stdlib()
	if _, ok := b["print"]; !ok {
		t.Fatalf("deleting from one copy affected the next")
	}
	for _, name := range []string{"print", "printl", "input", "inspect", "db"} {
		if _, ok := b[name]; !ok {
			t.Errorf("stdlib missing %s", name)
		}
	}
	if a["db"] != b["db"] {
		t.Errorf("db module should be built once")
	}
}

func TestPrintFamily(t *testing.T) {
	args := []object.Object{
		object.NewInt(1),
		object.NewFloat(2.5),
		object.NewString("s"),
		&object.Array{Elements: []object.Object{object.NewString("x"), object.NewFloat(1)}},
		object.NULL,
	}

	tests := []struct {
		name string
		fn   object.NativeFunction
		want string
	}{
		{"print", fnStdPrint, `1 2.5 s ["x", 1.0] null`},
		{"printl", fnStdPrintl, "1 2.5 s [\"x\", 1.0] null\n"},
		{"inspect", fnStdInspect, "1 2.5f \"s\" [\"x\", 1.0f] null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext("")
			result := call(t, ctx, tt.fn, args...)
			if result != object.UNDEFINED {
				t.Errorf("got %s, want undefined", result.Inspect())
			}
			if got := ctx.out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInput(t *testing.T) {
	ctx := newTestContext("  first line \nlast")

	tests := []string{"first line", "last", ""}
	for _, want := range tests {
		result := call(t, ctx, fnStdInput)
		s, ok := result.(*object.String)
		if !ok {
			t.Fatalf("input returned %T", result)
		}
		if s.Value != want {
			t.Errorf("input() = %q, want %q", s.Value, want)
		}
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	ctx := newTestContext("")
	dsn := object.NewString(filepath.Join(t.TempDir(), "test.db"))

	handle := call(t, ctx, fnIoDbConnect, dsn, object.NewString("sqlite3"))
	if ctx.handles.Len() != 1 {
		t.Fatalf("expected one open handle, got %d", ctx.handles.Len())
	}

	call(t, ctx, fnIoDbExec, handle,
		object.NewString("CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, score REAL, nick TEXT)"))

	res := call(t, ctx, fnIoDbExec, handle,
		object.NewString("INSERT INTO people (name, score, nick) VALUES (?, ?, ?)"),
		object.NewString("ada"), object.NewFloat(9.5), object.NULL)
	m, ok := res.(*object.Map)
	if !ok {
		t.Fatalf("exec returned %T", res)
	}
	if got := object.Debug(m); got != "{lastInsertId: 1, rowsAffected: 1}" {
		t.Errorf("exec result = %s", got)
	}

	rows := call(t, ctx, fnIoDbQuery, handle,
		object.NewString("SELECT id, name, score, nick FROM people WHERE id = ?"), object.NewInt(1))
	want := `[{id: 1, name: "ada", nick: null, score: 9.5f}]`
	if got := object.Debug(rows); got != want {
		t.Errorf("query result = %s, want %s", got, want)
	}

	call(t, ctx, fnIoDbClose, handle)
	if ctx.handles.Len() != 0 {
		t.Errorf("handle not released on close")
	}

	if _, err := fnIoDbQuery(ctx, handle, object.NewString("SELECT 1")); err == nil {
		t.Errorf("expected error querying a closed handle")
	}
}

func TestDatabaseTransactions(t *testing.T) {
	ctx := newTestContext("")
	dsn := object.NewString(filepath.Join(t.TempDir(), "tx.db"))
	handle := call(t, ctx, fnIoDbConnect, dsn, object.NewString("sqlite3"))
	defer ctx.handles.CloseAll()

	call(t, ctx, fnIoDbExec, handle, object.NewString("CREATE TABLE t (v INTEGER)"))

	call(t, ctx, fnIoDbBegin, handle)
	call(t, ctx, fnIoDbExec, handle, object.NewString("INSERT INTO t VALUES (1)"))
	call(t, ctx, fnIoDbRollback, handle)

	call(t, ctx, fnIoDbBegin, handle)
	call(t, ctx, fnIoDbExec, handle, object.NewString("INSERT INTO t VALUES (2)"))
	call(t, ctx, fnIoDbCommit, handle)

	rows := call(t, ctx, fnIoDbQuery, handle, object.NewString("SELECT v FROM t"))
	if got := object.Debug(rows); got != "[{v: 2}]" {
		t.Errorf("rows after rollback and commit = %s", got)
	}

	if _, err := fnIoDbCommit(ctx, handle); err == nil {
		t.Errorf("expected error committing without a transaction")
	}
}

func TestDatabaseErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   object.NativeFunction
		args []object.Object
		kind object.ErrorKind
	}{
		{"unknown driver", fnIoDbConnect, []object.Object{object.NewString("x"), object.NewString("nope")}, object.RuntimeError},
		{"connect arity", fnIoDbConnect, []object.Object{object.NewString("x")}, object.TypeError},
		{"bad handle", fnIoDbQuery, []object.Object{object.NewInt(42), object.NewString("SELECT 1")}, object.RuntimeError},
		{"float handle", fnIoDbClose, []object.Object{object.NewFloat(1)}, object.TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn(newTestContext(""), tt.args...)
			objErr, ok := err.(*object.Error)
			if !ok {
				t.Fatalf("expected *object.Error, got %T (%v)", err, err)
			}
			if objErr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", objErr.Kind, tt.kind)
			}
		})
	}
}

func TestToParam(t *testing.T) {
	tests := []struct {
		in   object.Object
		want any
	}{
		{object.NewInt(3), int64(3)},
		{object.NewFloat(1.5), 1.5},
		{object.NewString("s"), "s"},
		{object.TRUE, true},
		{object.NULL, nil},
		{object.UNDEFINED, nil},
		{&object.Array{Elements: []object.Object{object.NewInt(1)}}, "[1]"},
	}

	for _, tt := range tests {
		if got := toParam(tt.in); got != tt.want {
			t.Errorf("toParam(%s) = %#v, want %#v", tt.in.Inspect(), got, tt.want)
		}
	}
}
