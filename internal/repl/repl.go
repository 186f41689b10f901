package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lv8/internal/evaluator"
	"lv8/internal/object"
	"lv8/internal/parser"
	"strings"
)

const Banner = "Welcome to LV8!"

// Start runs an interactive session on interp until `exit` or end of input.
// Lines come from the interpreter's own input so input() and the prompt
// share one buffer. Errors go to errOut and the session carries on.
func Start(interp *evaluator.Interpreter, out, errOut io.Writer) {
	in := interp.Stdin()
	prompt := interp.Config.Prompt
	count := 0

	fmt.Fprintln(out, Banner)

	for {
		fmt.Fprintf(out, prompt, count)

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				slog.Error("reading input", slog.Any("error", err))
			}
			fmt.Fprintln(out)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}

		program, perr := parser.Parse(line)
		if perr != nil {
			fmt.Fprintln(errOut, FormatError(perr))
			continue
		}
		count++

		result, rerr := interp.Execute(program, line, interp.Config.RootPath)
		if rerr != nil {
			fmt.Fprintln(errOut, FormatError(rerr))
			continue
		}
		if result != nil && result != object.UNDEFINED {
			fmt.Fprintln(out, object.Debug(result))
		}
	}
}

// FormatError renders a parse or evaluation error the way the driver prints it.
func FormatError(err error) string {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Pretty()
	}
	var objErr *object.Error
	if errors.As(err, &objErr) {
		return object.RenderError(objErr)
	}
	return err.Error()
}
