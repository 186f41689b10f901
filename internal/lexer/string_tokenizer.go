package lexer

import (
	"lv8/internal/token"
	"strings"
)

type StringTokenizer struct {
	lexer *Lexer
	start int // position of the opening quote
}

func NewStringTokenizer(lexer *Lexer, start int) *StringTokenizer {
	return &StringTokenizer{lexer: lexer, start: start}
}

func (s *StringTokenizer) NextToken() token.Token {
	var result strings.Builder

	// the opening `"` has already been read
	defer s.lexer.switchMode(NewGeneralTokenizer(s.lexer))

	for {
		if s.lexer.ch == 0 {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated string", Position: s.start}
		}

		if s.lexer.ch == '"' {
			s.lexer.readChar() // Consume the closing `"`
			break
		}

		if s.lexer.ch == '\\' {
			s.lexer.readChar() // Move to the escaped character
			switch s.lexer.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			case 0:
				return token.Token{Type: token.ILLEGAL, Literal: "unterminated string", Position: s.start}
			default:
				result.WriteRune('\\')
				result.WriteRune(s.lexer.ch)
			}
		} else {
			result.WriteRune(s.lexer.ch)
		}

		s.lexer.readChar()
	}

	return token.Token{
		Type:     token.STRING,
		Literal:  result.String(),
		Position: s.start,
	}
}
