package ast

import (
	"bytes"
	"lv8/internal/token"
	"sort"
	"strconv"
	"strings"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type ReturnKind int

const (
	Return ReturnKind = iota
	Break
	Continue
)

func (k ReturnKind) String() string {
	switch k {
	case Break:
		return "break"
	case Continue:
		return "continue"
	default:
		return "return"
	}
}

// Terminal is the mandatory last element of a Block.
type Terminal struct {
	Token    token.Token
	Kind     ReturnKind
	Value    Expression // only set for Return
	Implicit bool       // no terminal was written in the source
}

func (t *Terminal) TokenLiteral() string { return t.Token.Literal }
func (t *Terminal) String() string {
	if t.Kind == Return {
		return "return " + t.Value.String()
	}
	return t.Kind.String()
}

// Block is an ordered sequence of statements closed by a Terminal. Programs are Blocks too.
type Block struct {
	Token      token.Token // the { token, or the first token of a program
	Statements []Statement
	Terminal   *Terminal
}

func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString("; ")
	}
	if b.Terminal != nil {
		out.WriteString(b.Terminal.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

// NewBlock returns a block whose terminal is `return undefined`.
func NewBlock(tok token.Token) *Block {
	return &Block{
		Token: tok,
		Terminal: &Terminal{
			Token: tok,
			Kind:     Return,
			Value:    &UndefinedLiteral{Token: tok},
			Implicit: true,
		},
	}
}

// Statements

// Assignment binds the value of Value, an Expression or a Statement, to every target.
type Assignment struct {
	Token   token.Token // the first target identifier
	Targets []string
	Value   Node
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) String() string {
	return strings.Join(a.Targets, ", ") + " = " + a.Value.String()
}

type FunctionDefinition struct {
	Token      token.Token // the 'fn' token
	Name       string
	Parameters []string
	Body       *Block
}

func (fd *FunctionDefinition) statementNode()       {}
func (fd *FunctionDefinition) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDefinition) String() string {
	return "fn " + fd.Name + "(" + strings.Join(fd.Parameters, ", ") + ") " + fd.Body.String()
}

// FunctionCall arguments are Expressions or Statements.
type FunctionCall struct {
	Token     token.Token // the '(' token
	Callee    Expression
	Arguments []Node
}

func (fc *FunctionCall) statementNode()       {}
func (fc *FunctionCall) TokenLiteral() string { return fc.Token.Literal }
func (fc *FunctionCall) String() string {
	args := []string{}
	for _, a := range fc.Arguments {
		args = append(args, a.String())
	}
	return fc.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

type ModuleDefinition struct {
	Token token.Token // the 'module' token
	Name  string
	Body  *Block
}

func (md *ModuleDefinition) statementNode()       {}
func (md *ModuleDefinition) TokenLiteral() string { return md.Token.Literal }
func (md *ModuleDefinition) String() string {
	return "module " + md.Name + " " + md.Body.String()
}

type ElseIf struct {
	Condition Expression
	Body      *Block
}

type IfStatement struct {
	Token     token.Token // the 'if' token
	Condition Expression
	Body      *Block
	ElseIfs   []*ElseIf
	Else      *Block
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(" ")
	out.WriteString(is.Body.String())
	for _, ei := range is.ElseIfs {
		out.WriteString(" else if ")
		out.WriteString(ei.Condition.String())
		out.WriteString(" ")
		out.WriteString(ei.Body.String())
	}
	if is.Else != nil {
		out.WriteString(" else ")
		out.WriteString(is.Else.String())
	}

	return out.String()
}

type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      *Block
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " " + ws.Body.String()
}

type ImportStatement struct {
	Token token.Token // the 'import' token
	Path  string
	Alias string
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Literal }
func (is *ImportStatement) String() string {
	return "import " + strconv.Quote(is.Path) + " as " + is.Alias
}

// Expressions

type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }

type UndefinedLiteral struct {
	Token token.Token
}

func (u *UndefinedLiteral) expressionNode()      {}
func (u *UndefinedLiteral) TokenLiteral() string { return u.Token.Literal }
func (u *UndefinedLiteral) String() string       { return "undefined" }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return strconv.FormatBool(b.Value) }

// NumberLiteral is tagged: IsFloat selects Float, otherwise Int holds the value.
type NumberLiteral struct {
	Token   token.Token
	IsFloat bool
	Int     int64
	Float   float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return strconv.Quote(s.Value) }

type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	elements := []string{}
	for _, el := range al.Elements {
		elements = append(elements, el.String())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

type ObjectLiteral struct {
	Token token.Token // the '{' token
	Pairs map[string]Expression
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	keys := make([]string, 0, len(ol.Pairs))
	for k := range ol.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := []string{}
	for _, k := range keys {
		pairs = append(pairs, strconv.Quote(k)+": "+ol.Pairs[k].String())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// Namespace is a dotted path a.b.c with at least two segments.
type Namespace struct {
	Token token.Token // the first identifier
	Path  []string
}

func (n *Namespace) expressionNode()      {}
func (n *Namespace) TokenLiteral() string { return n.Token.Literal }
func (n *Namespace) String() string       { return strings.Join(n.Path, ".") }

type MathOperator string

const (
	Add      MathOperator = "+"
	Subtract MathOperator = "-"
	Multiply MathOperator = "*"
	Divide   MathOperator = "/"
	Modulus  MathOperator = "%"
	Power    MathOperator = "^"
)

type MathExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator MathOperator
	Right    Expression
}

func (me *MathExpression) expressionNode()      {}
func (me *MathExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MathExpression) String() string {
	return "(" + me.Left.String() + " " + string(me.Operator) + " " + me.Right.String() + ")"
}

type LogicOperator string

const (
	And LogicOperator = "and"
	Or  LogicOperator = "or"
	Not LogicOperator = "not"
)

// LogicExpression leaves Left nil for Not.
type LogicExpression struct {
	Token    token.Token
	Operator LogicOperator
	Left     Expression
	Right    Expression
}

func (le *LogicExpression) expressionNode()      {}
func (le *LogicExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicExpression) String() string {
	if le.Operator == Not {
		return "(not " + le.Right.String() + ")"
	}
	return "(" + le.Left.String() + " " + string(le.Operator) + " " + le.Right.String() + ")"
}

type ComparisonOperator string

const (
	Equal              ComparisonOperator = "=="
	NotEqual           ComparisonOperator = "!="
	GreaterThan        ComparisonOperator = ">"
	GreaterThanOrEqual ComparisonOperator = ">="
	LessThan           ComparisonOperator = "<"
	LessThanOrEqual    ComparisonOperator = "<="
)

type ComparisonExpression struct {
	Token    token.Token
	Left     Expression
	Operator ComparisonOperator
	Right    Expression
}

func (ce *ComparisonExpression) expressionNode()      {}
func (ce *ComparisonExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ComparisonExpression) String() string {
	return "(" + ce.Left.String() + " " + string(ce.Operator) + " " + ce.Right.String() + ")"
}
