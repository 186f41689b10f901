package object

import (
	"cmp"
	"math"
	"strings"
)

// kindRank orders values of different kinds. The order is declared, not derived
// from the values: user functions come first, then the plain values, then
// natives and modules.
func kindRank(o Object) int {
	switch o.(type) {
	case *Function:
		return 0
	case *Null:
		return 1
	case *Undefined:
		return 2
	case *Boolean:
		return 3
	case *Number:
		return 4
	case *String:
		return 5
	case *Array:
		return 6
	case *Map:
		return 7
	case *Native:
		return 8
	case *Module:
		return 9
	default:
		return 10
	}
}

// Compare is a total order over values: -1, 0 or +1. NaN sorts below every
// other float and equals itself, so values can always be sorted.
func Compare(a, b Object) int {
	c, _ := compare(a, b)
	return c
}

// PartialCompare is the order the comparison operators use. ok is false when
// a NaN is reached before the operands differ, the values are then unordered
// and unequal.
func PartialCompare(a, b Object) (c int, ok bool) {
	return compare(a, b)
}

func Equal(a, b Object) bool {
	return Compare(a, b) == 0
}

func compare(a, b Object) (int, bool) {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb), true
	}

	switch a := a.(type) {
	case *Boolean:
		return compareBool(a.Value, b.(*Boolean).Value), true
	case *Number:
		return compareNumbers(a, b.(*Number))
	case *String:
		return strings.Compare(a.Value, b.(*String).Value), true
	case *Array:
		return compareArrays(a, b.(*Array))
	case *Map:
		return compareMaps(a, b.(*Map))
	case *Function:
		return strings.Compare(a.Name, b.(*Function).Name), true
	case *Native:
		return strings.Compare(a.Name, b.(*Native).Name), true
	case *Module:
		return strings.Compare(a.Name, b.(*Module).Name), true
	default:
		// null and undefined have a single value each
		return 0, true
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Ints and floats are different tags: every int sorts below every float and
// 1 never equals 1.0.
func compareNumbers(a, b *Number) (int, bool) {
	switch {
	case !a.IsFloat && !b.IsFloat:
		return cmp.Compare(a.Int, b.Int), true
	case !a.IsFloat:
		return -1, true
	case !b.IsFloat:
		return 1, true
	}
	ok := !math.IsNaN(a.Float) && !math.IsNaN(b.Float)
	return cmp.Compare(a.Float, b.Float), ok
}

func compareArrays(a, b *Array) (int, bool) {
	for i := 0; i < len(a.Elements) && i < len(b.Elements); i++ {
		if c, ok := compare(a.Elements[i], b.Elements[i]); c != 0 || !ok {
			return c, ok
		}
	}
	return cmp.Compare(len(a.Elements), len(b.Elements)), true
}

func compareMaps(a, b *Map) (int, bool) {
	ak, bk := a.Keys(), b.Keys()
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c, true
		}
		if c, ok := compare(a.Pairs[ak[i]], b.Pairs[bk[i]]); c != 0 || !ok {
			return c, ok
		}
	}
	return cmp.Compare(len(ak), len(bk)), true
}
