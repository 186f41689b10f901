package foreign

import (
	"errors"
	"fmt"
	"io"
	"lv8/internal/object"
	"strings"
)

func joinArgs(args []object.Object, render func(object.Object) string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = render(arg)
	}
	return strings.Join(parts, " ")
}

func inspect(o object.Object) string { return o.Inspect() }

func fnStdPrint(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if _, err := io.WriteString(ctx.Stdout(), joinArgs(args, inspect)); err != nil {
		return nil, object.NewRuntimeError("print: %v", err)
	}
	return object.UNDEFINED, nil
}

func fnStdPrintl(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if _, err := fmt.Fprintln(ctx.Stdout(), joinArgs(args, inspect)); err != nil {
		return nil, object.NewRuntimeError("printl: %v", err)
	}
	return object.UNDEFINED, nil
}

func fnStdInspect(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	if _, err := fmt.Fprintln(ctx.Stdout(), joinArgs(args, object.Debug)); err != nil {
		return nil, object.NewRuntimeError("inspect: %v", err)
	}
	return object.UNDEFINED, nil
}

// fnStdInput reads one line and trims surrounding whitespace. At end of
// input it returns whatever was read, possibly "".
func fnStdInput(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
	line, err := ctx.Stdin().ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, object.NewRuntimeError("input: %v", err)
	}
	return object.NewString(strings.TrimSpace(line)), nil
}
