package parser

import (
	"fmt"
	"lv8/internal/util"
)

// SyntaxError is raised at the parser boundary and carries enough source
// context to render a caret under the offending column.
type SyntaxError struct {
	Message  string
	Line     int
	Column   int
	LineText string
	Context  string // preceding lines plus the caret line
}

func newSyntaxError(src string, pos int, message string) *SyntaxError {
	line, col := util.GetLineAndColumn(src, pos)
	return &SyntaxError{
		Message:  message,
		Line:     line,
		Column:   col,
		LineText: util.GetLineText(src, line),
		Context:  util.GetContextLines(src, line, col),
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%3d:%2d] %s", e.Line, e.Column, e.Message)
}

// Pretty renders the error header followed by the caret snippet.
func (e *SyntaxError) Pretty() string {
	return fmt.Sprintf("SyntaxError: %s\n%s", e.Error(), e.Context)
}
