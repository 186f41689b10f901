package lexer

import (
	"lv8/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `a, b = 5
fn add(x, y) {
  return x + y
}
module M { v = 2.5 }
import "./lib.lv8" as lib
// comment
# alt comment
!- / * % ^ 5;
5 < 10 > 5 <= 10 >= 5
10 == 10 != 9
true && false || not and or
null undefined
[1, 2] {"foo": "bar"}
M.v
if else while break continue
"esc\"aped\n"
1e3
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.FUNCTION, "fn"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.RBRACE, "}"},
		{token.MODULE, "module"},
		{token.IDENT, "M"},
		{token.LBRACE, "{"},
		{token.IDENT, "v"},
		{token.ASSIGN, "="},
		{token.FLOAT, "2.5"},
		{token.RBRACE, "}"},
		{token.IMPORT, "import"},
		{token.STRING, "./lib.lv8"},
		{token.AS, "as"},
		{token.IDENT, "lib"},
		{token.BANG, "!"},
		{token.MINUS, "-"},
		{token.SLASH, "/"},
		{token.ASTERISK, "*"},
		{token.PERCENT, "%"},
		{token.CARET, "^"},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.INT, "5"},
		{token.LT, "<"},
		{token.INT, "10"},
		{token.GT, ">"},
		{token.INT, "5"},
		{token.LT_EQ, "<="},
		{token.INT, "10"},
		{token.GT_EQ, ">="},
		{token.INT, "5"},
		{token.INT, "10"},
		{token.EQ, "=="},
		{token.INT, "10"},
		{token.NOT_EQ, "!="},
		{token.INT, "9"},
		{token.TRUE, "true"},
		{token.LOGICAL_AND, "&&"},
		{token.FALSE, "false"},
		{token.LOGICAL_OR, "||"},
		{token.NOT, "not"},
		{token.AND, "and"},
		{token.OR, "or"},
		{token.NULL, "null"},
		{token.UNDEFINED, "undefined"},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.RBRACKET, "]"},
		{token.LBRACE, "{"},
		{token.STRING, "foo"},
		{token.COLON, ":"},
		{token.STRING, "bar"},
		{token.RBRACE, "}"},
		{token.IDENT, "M"},
		{token.PERIOD, "."},
		{token.IDENT, "v"},
		{token.IF, "if"},
		{token.ELSE, "else"},
		{token.WHILE, "while"},
		{token.BREAK, "break"},
		{token.CONTINUE, "continue"},
		{token.STRING, "esc\"aped\n"},
		{token.FLOAT, "1e3"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := New("ab = \"x\"").Tokens()
	want := []int{0, 3, 5, 8}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Position != want[i] {
			t.Errorf("token %d (%q) position = %d, want %d", i, tok.Literal, tok.Position, want[i])
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	tok := New(`"abc`).NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", tok.Type)
	}
	if tok.Position != 0 {
		t.Errorf("expected position 0, got %d", tok.Position)
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.EOF {
			t.Fatalf("call %d: expected EOF, got %q", i, tok.Type)
		}
	}
}
