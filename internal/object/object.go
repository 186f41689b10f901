package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"lv8/internal/ast"
	"lv8/internal/util"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	NULL_OBJ      = "NULL"
	UNDEFINED_OBJ = "UNDEFINED"
	BOOLEAN_OBJ   = "BOOLEAN"
	NUMBER_OBJ    = "NUMBER"
	STRING_OBJ    = "STRING"
	ARRAY_OBJ     = "ARRAY"
	OBJECT_OBJ    = "OBJECT"

	FUNCTION_OBJ = "FUNCTION"
	NATIVE_OBJ   = "NATIVE_FUNCTION"
	MODULE_OBJ   = "MODULE"
)

var (
	NULL      = &Null{}
	UNDEFINED = &Undefined{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
)

// EvaluatorContext is what a native function sees of the running interpreter.
type EvaluatorContext interface {
	CurrentEnv() *Environment
	Stdout() io.Writer
	Stdin() *bufio.Reader
	GetConfiguration() util.Configuration
	Handles() *Handles
}

type NativeFunction func(ctx EvaluatorContext, args ...Object) (Object, error)

type ObjectType string

// Object is implemented only by the types in this package. Consumers type switch on it.
type Object interface {
	Type() ObjectType
	Inspect() string
}

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

type Undefined struct{}

func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string  { return "undefined" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Number is tagged: IsFloat selects Float, otherwise Int holds the value.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	if n.IsFloat {
		return formatFloat(n.Float)
	}
	return strconv.FormatInt(n.Int, 10)
}

// AsFloat widens an int to float.
func (n *Number) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	elements := make([]string, 0, len(a.Elements))
	for _, el := range a.Elements {
		elements = append(elements, nestedInspect(el))
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// Map is the LV8 object value. Keys are unique and always iterated in sorted order.
type Map struct {
	Pairs map[string]Object
}

func (m *Map) Type() ObjectType { return OBJECT_OBJ }
func (m *Map) Inspect() string {
	var out bytes.Buffer

	out.WriteString("{")
	for i, key := range m.Keys() {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(key)
		out.WriteString(": ")
		out.WriteString(nestedInspect(m.Pairs[key]))
	}
	out.WriteString("}")

	return out.String()
}

func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.Pairs))
	for k := range m.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Function is a user-defined closure. Env is the frame captured at definition,
// or the dedicated call frame when SharedFrame is set.
type Function struct {
	Name        string
	Parameters  []string
	Body        *ast.Block
	Env         *Environment
	SharedFrame bool
	Src         string // source text the body was parsed from
	Dir         string // directory relative imports in the body resolve against
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return fmt.Sprintf("<<function %s>>", f.Name) }

type Native struct {
	Name string
	Fn   NativeFunction
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return fmt.Sprintf("<<native function %s>>", n.Name) }

type Module struct {
	Name string
	Path string // empty for inline modules
	Env  *Environment
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return fmt.Sprintf("<<module %s>>", m.Name) }

func nestedInspect(o Object) string {
	if s, ok := o.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return o.Inspect()
}

// Debug renders the inspect() form: strings quoted, floats suffixed with f.
func Debug(o Object) string {
	switch o := o.(type) {
	case *String:
		return strconv.Quote(o.Value)
	case *Number:
		if o.IsFloat {
			return o.Inspect() + "f"
		}
		return o.Inspect()
	case *Array:
		elements := make([]string, 0, len(o.Elements))
		for _, el := range o.Elements {
			elements = append(elements, Debug(el))
		}
		return "[" + strings.Join(elements, ", ") + "]"
	case *Map:
		pairs := make([]string, 0, len(o.Pairs))
		for _, key := range o.Keys() {
			pairs = append(pairs, key+": "+Debug(o.Pairs[key]))
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	default:
		return o.Inspect()
	}
}

func NewInt(v int64) *Number     { return &Number{Int: v} }
func NewFloat(v float64) *Number { return &Number{IsFloat: true, Float: v} }
func NewString(v string) *String { return &String{Value: v} }

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Clone copies arrays and objects structurally. Scalars are immutable and
// functions and modules share their frames, so those are returned as is.
func Clone(o Object) Object {
	switch o := o.(type) {
	case *Array:
		elements := make([]Object, len(o.Elements))
		for i, el := range o.Elements {
			elements[i] = Clone(el)
		}
		return &Array{Elements: elements}
	case *Map:
		pairs := make(map[string]Object, len(o.Pairs))
		for k, v := range o.Pairs {
			pairs[k] = Clone(v)
		}
		return &Map{Pairs: pairs}
	default:
		return o
	}
}

// smallest positive normal float64
const minNormal = 0x1p-1022

func isNormal(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return math.Abs(f) >= minNormal
}

func Truthy(o Object) bool {
	switch o := o.(type) {
	case *Boolean:
		return o.Value
	case *Number:
		if o.IsFloat {
			return isNormal(o.Float)
		}
		return o.Int != 0
	case *String:
		return o.Value != ""
	case *Null, *Undefined:
		return false
	default:
		// arrays, objects, functions, natives and modules
		return true
	}
}
