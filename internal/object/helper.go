package object

import (
	"bytes"
	"fmt"
	"lv8/internal/util"
)

// RenderError formats an evaluation error for the terminal, with a source
// snippet when the error carries a position.
func RenderError(err *Error) string {
	var buf bytes.Buffer

	buf.WriteString(err.Error())

	if err.Located && err.Src != "" {
		l, c := util.GetLineAndColumn(err.Src, err.Position)
		fmt.Fprintf(&buf, "\n  at [%3d:%2d]\n", l, c)
		buf.WriteString(util.GetContextLines(err.Src, l, c))
	}

	return buf.String()
}
