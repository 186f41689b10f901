package foreign

import (
	"lv8/internal/object"
)

func unpackString(arg object.Object, argName string) (string, error) {
	value, ok := arg.(*object.String)
	if !ok {
		return "", object.NewTypeError("argument `%s` must be a STRING, got=%s", argName, arg.Type())
	}
	return value.Value, nil
}

// unpackInt accepts integral numbers only, handles are never floats.
func unpackInt(arg object.Object, argName string) (int64, error) {
	value, ok := arg.(*object.Number)
	if !ok || value.IsFloat {
		return -1, object.NewTypeError("argument `%s` must be an integer NUMBER, got=%s", argName, arg.Type())
	}
	return value.Int, nil
}

func expectArgs(name string, args []object.Object, want int) error {
	if len(args) != want {
		return object.NewTypeError("%s: wrong number of arguments. got=%d, want=%d", name, len(args), want)
	}
	return nil
}

func expectMinArgs(name string, args []object.Object, want int) error {
	if len(args) < want {
		return object.NewTypeError("%s: wrong number of arguments. got=%d, want>=%d", name, len(args), want)
	}
	return nil
}
