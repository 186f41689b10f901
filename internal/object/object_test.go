package object

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestTruthy(t *testing.T) {
	type testCase struct {
		name  string
		value Object
		want  bool
	}

	testCases := []testCase{
		{"true", TRUE, true},
		{"false", FALSE, false},
		{"zero int", NewInt(0), false},
		{"negative int", NewInt(-3), true},
		{"zero float", NewFloat(0), false},
		{"normal float", NewFloat(0.5), true},
		{"subnormal float", NewFloat(math.SmallestNonzeroFloat64), false},
		{"infinity", NewFloat(math.Inf(1)), false},
		{"nan", NewFloat(math.NaN()), false},
		{"empty string", NewString(""), false},
		{"string", NewString("a"), true},
		{"empty array", &Array{}, true},
		{"empty object", &Map{Pairs: map[string]Object{}}, true},
		{"null", NULL, false},
		{"undefined", UNDEFINED, false},
		{"function", &Function{Name: "f"}, true},
		{"native", &Native{Name: "print"}, true},
		{"module", &Module{Name: "M"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truthy(tc.value); got != tc.want {
				t.Errorf("Truthy(%s) = %t, want %t", Debug(tc.value), got, tc.want)
			}
		})
	}
}

func TestCompareKindPrecedence(t *testing.T) {
	ordered := []Object{
		&Function{Name: "f"},
		NULL,
		UNDEFINED,
		FALSE,
		TRUE,
		NewInt(-10),
		NewInt(2),
		NewFloat(-3),
		NewFloat(1.5),
		NewString(""),
		NewString("a"),
		&Array{Elements: []Object{NewInt(1)}},
		&Array{Elements: []Object{NewInt(1), NewInt(0)}},
		&Array{Elements: []Object{NewInt(2)}},
		&Map{Pairs: map[string]Object{"a": NewInt(1)}},
		&Map{Pairs: map[string]Object{"b": NewInt(0)}},
		&Native{Name: "print"},
		&Module{Name: "M"},
	}

	for i := 0; i < len(ordered); i++ {
		for j := 0; j < len(ordered); j++ {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := Compare(ordered[i], ordered[j]); got != want {
				t.Errorf("Compare(%s, %s) = %d, want %d", Debug(ordered[i]), Debug(ordered[j]), got, want)
			}
		}
	}
}

func TestCompareNumbers(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Object
		want   int
		wantOK bool
	}{
		{"ints", NewInt(1), NewInt(2), -1, true},
		{"floats", NewFloat(2.5), NewFloat(1.5), 1, true},
		{"int and float are different tags", NewInt(1), NewFloat(1.0), -1, true},
		{"any int sorts below any float", NewInt(2), NewFloat(1.5), -1, true},
		{"float above int", NewFloat(-1), NewInt(100), 1, true},
		{"strings sort after numbers", NewString("10"), NewInt(99), 1, true},
		{"NaN is unordered", NewFloat(math.NaN()), NewFloat(1), -1, false},
		{"NaN against itself", NewFloat(math.NaN()), NewFloat(math.NaN()), 0, false},
		{"NaN inside arrays", &Array{Elements: []Object{NewFloat(math.NaN())}}, &Array{Elements: []Object{NewFloat(math.NaN())}}, 0, false},
		{"arrays differing before NaN", &Array{Elements: []Object{NewInt(1), NewFloat(math.NaN())}}, &Array{Elements: []Object{NewInt(2)}}, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PartialCompare(tt.a, tt.b)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PartialCompare(%s, %s) = %d, %t; want %d, %t", Debug(tt.a), Debug(tt.b), got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if Equal(NewInt(1), NewFloat(1.0)) {
		t.Errorf("1 and 1.0 should not be equal")
	}
	nan := NewFloat(math.NaN())
	if !Equal(nan, nan) {
		t.Errorf("NaN should equal NaN in the total order")
	}
	if Compare(nan, NewFloat(math.Inf(-1))) != -1 {
		t.Errorf("NaN should sort below -Inf")
	}
}

func TestInspect(t *testing.T) {
	type testCase struct {
		name      string
		value     Object
		wantPlain string
		wantDebug string
	}

	testCases := []testCase{
		{"int", NewInt(42), "42", "42"},
		{"whole float", NewFloat(1), "1.0", "1.0f"},
		{"float", NewFloat(1.5), "1.5", "1.5f"},
		{"string", NewString("hi"), "hi", `"hi"`},
		{"null", NULL, "null", "null"},
		{"array", &Array{Elements: []Object{NewInt(1), NewString("x")}}, `[1, "x"]`, `[1, "x"]`},
		{"object", &Map{Pairs: map[string]Object{"b": NewString("x"), "a": NewFloat(2)}}, `{a: 2.0, b: "x"}`, `{a: 2.0f, b: "x"}`},
		{"function", &Function{Name: "add"}, "<<function add>>", "<<function add>>"},
		{"native", &Native{Name: "print"}, "<<native function print>>", "<<native function print>>"},
		{"module", &Module{Name: "M"}, "<<module M>>", "<<module M>>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Inspect(); got != tc.wantPlain {
				t.Errorf("Inspect() = %q, want %q", got, tc.wantPlain)
			}
			if got := Debug(tc.value); got != tc.wantDebug {
				t.Errorf("Debug() = %q, want %q", got, tc.wantDebug)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := &Array{Elements: []Object{NewInt(1)}}
	original := &Map{Pairs: map[string]Object{"xs": inner}}

	copied := Clone(original).(*Map)
	copied.Pairs["xs"].(*Array).Elements[0] = NewInt(99)
	copied.Pairs["y"] = TRUE

	if inner.Elements[0].(*Number).Int != 1 {
		t.Errorf("nested array was shared")
	}
	if _, ok := original.Pairs["y"]; ok {
		t.Errorf("object keys were shared")
	}

	fn := &Function{Name: "f"}
	if Clone(fn) != fn {
		t.Errorf("functions must be shared, not copied")
	}
}

func TestEnvironmentAssign(t *testing.T) {
	root := NewRootEnvironment("root")
	parent := NewEnclosedEnvironment(root, "parent")
	child := NewEnclosedEnvironment(parent, "child")

	root.Define("g", NewInt(1))
	parent.Define("p", NewInt(1))
	child.Define("c", NewInt(1))

	child.Assign("c", NewInt(2))
	child.Assign("p", NewInt(2))
	child.Assign("g", NewInt(2))
	child.Assign("n", NewInt(2))

	tests := []struct {
		env  *Environment
		name string
		want int64
	}{
		{child, "c", 2},
		{parent, "p", 2},
		{root, "g", 1},  // two levels up is never written
		{child, "g", 2}, // ...it is shadowed locally instead
		{child, "n", 2},
	}

	for _, tt := range tests {
		val, ok := tt.env.GetLocal(tt.name)
		if !ok {
			t.Fatalf("%s not bound in %s", tt.name, tt.env.Name)
		}
		if got := val.(*Number).Int; got != tt.want {
			t.Errorf("%s.%s = %d, want %d", tt.env.Name, tt.name, got, tt.want)
		}
	}

	if _, ok := parent.GetLocal("n"); ok {
		t.Errorf("new names must be created locally")
	}
}

func TestEnvironmentAssignAtRoot(t *testing.T) {
	root := NewRootEnvironment("root")
	root.Assign("x", NewInt(1))
	if _, ok := root.GetLocal("x"); !ok {
		t.Errorf("assign without a parent should insert locally")
	}
}

func TestEnvironmentLookup(t *testing.T) {
	root := NewRootEnvironment("root")
	child := NewEnclosedEnvironment(NewEnclosedEnvironment(root, "mid"), "leaf")

	xs := &Array{Elements: []Object{NewInt(1)}}
	root.Define("xs", xs)

	got, ok := child.Lookup("xs")
	if !ok {
		t.Fatalf("lookup should walk every ancestor")
	}
	got.(*Array).Elements[0] = NewInt(5)
	if xs.Elements[0].(*Number).Int != 1 {
		t.Errorf("lookup must return a copy")
	}

	if _, ok := child.Lookup("missing"); ok {
		t.Errorf("missing name found")
	}
	if _, ok := child.GetLocal("xs"); ok {
		t.Errorf("GetLocal must not walk outers")
	}
}

func TestEnvironmentSeed(t *testing.T) {
	env := NewRootEnvironment("root")
	env.Seed(map[string]Object{"a": TRUE, "b": FALSE})
	if strings.Join(env.Names(), ",") != "a,b" {
		t.Errorf("Names() = %v", env.Names())
	}
}

type closeRecorder struct {
	closed *[]int
	id     int
	err    error
}

func (c closeRecorder) Close() error {
	*c.closed = append(*c.closed, c.id)
	return c.err
}

func TestHandlesCloseAll(t *testing.T) {
	var closed []int
	h := NewHandles()
	first := h.Put(closeRecorder{closed: &closed, id: 1})
	h.Put("not a closer")
	h.Put(closeRecorder{closed: &closed, id: 3, err: errors.New("boom")})

	if first != 1 {
		t.Errorf("first handle = %d, want 1", first)
	}

	err := h.CloseAll()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected close error to surface, got %v", err)
	}
	if len(closed) != 2 || closed[0] != 1 || closed[1] != 3 {
		t.Errorf("closed = %v", closed)
	}
	if h.Len() != 0 {
		t.Errorf("handles not cleared")
	}
}

func TestRenderError(t *testing.T) {
	err := NewReferenceError("x is not defined").Locate("a = 1\nb = x", 10)
	err.Locate("ignored", 0)

	out := RenderError(err)
	if !strings.HasPrefix(out, "ReferenceError: x is not defined") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "[  2: 5]") {
		t.Errorf("missing location in %q", out)
	}
}
