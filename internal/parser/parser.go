package parser

import (
	"fmt"
	"lv8/internal/ast"
	"lv8/internal/lexer"
	"lv8/internal/token"
	"strconv"
)

const (
	_          int = iota
	LOWEST         // statement level
	LOGICAL        // and or && ||
	NOT            // not X or !X
	COMPARISON     // == != < <= > >=
	SUM            // + -
	PRODUCT        // * / %
	POWER          // ^
	PREFIX         // -X
)

var precedences = map[token.TokenType]int{
	token.AND:         LOGICAL,
	token.OR:          LOGICAL,
	token.LOGICAL_AND: LOGICAL,
	token.LOGICAL_OR:  LOGICAL,
	token.EQ:          COMPARISON,
	token.NOT_EQ:      COMPARISON,
	token.LT:          COMPARISON,
	token.LT_EQ:       COMPARISON,
	token.GT:          COMPARISON,
	token.GT_EQ:       COMPARISON,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.SLASH:       PRODUCT,
	token.ASTERISK:    PRODUCT,
	token.PERCENT:     PRODUCT,
	token.CARET:       POWER,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	src    string // source code here
	errors []*SyntaxError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// Parse parses a whole program and returns it as a Block.
func Parse(source string) (*ast.Block, error) {
	return New(lexer.New(source), source).ParseProgram()
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:   l,
		src: source,
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.UNDEFINED, p.parseUndefined)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.IDENT, p.parsePath)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.MINUS, p.parseNegation)
	p.registerPrefix(token.BANG, p.parseNot)
	p.registerPrefix(token.NOT, p.parseNot)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseMathExpression)
	p.registerInfix(token.MINUS, p.parseMathExpression)
	p.registerInfix(token.SLASH, p.parseMathExpression)
	p.registerInfix(token.ASTERISK, p.parseMathExpression)
	p.registerInfix(token.PERCENT, p.parseMathExpression)
	p.registerInfix(token.CARET, p.parseMathExpression)
	p.registerInfix(token.EQ, p.parseComparisonExpression)
	p.registerInfix(token.NOT_EQ, p.parseComparisonExpression)
	p.registerInfix(token.LT, p.parseComparisonExpression)
	p.registerInfix(token.LT_EQ, p.parseComparisonExpression)
	p.registerInfix(token.GT, p.parseComparisonExpression)
	p.registerInfix(token.GT_EQ, p.parseComparisonExpression)
	p.registerInfix(token.AND, p.parseLogicExpression)
	p.registerInfix(token.OR, p.parseLogicExpression)
	p.registerInfix(token.LOGICAL_AND, p.parseLogicExpression)
	p.registerInfix(token.LOGICAL_OR, p.parseLogicExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

func (p *Parser) addError(message string, args ...interface{}) {
	p.addErrorAt(p.curToken, message, args...)
}

func (p *Parser) addErrorAt(tok token.Token, message string, args ...interface{}) {
	p.errors = append(p.errors, newSyntaxError(p.src, tok.Position, fmt.Sprintf(message, args...)))
}

func (p *Parser) peekError(t token.TokenType) {
	p.addErrorAt(p.peekToken, "expected %s, got %s", t, describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addErrorAt(tok, "unexpected %s", describe(tok))
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors lists every syntax error found, in source order.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

// ParseProgram parses statements up to EOF. Only the first error is returned.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	program := p.parseStatements(token.EOF)
	if p.failed() {
		return nil, p.errors[0]
	}
	return program, nil
}

func (p *Parser) parseBlock() *ast.Block {
	tok := p.curToken
	p.nextToken()
	block := p.parseStatements(token.RBRACE)
	block.Token = tok
	return block
}

// parseStatements stops with curToken on end.
func (p *Parser) parseStatements(end token.TokenType) *ast.Block {
	block := ast.NewBlock(p.curToken)

	for !p.curTokenIs(end) {
		if p.failed() {
			return block
		}

		switch p.curToken.Type {
		case token.EOF:
			p.addError("expected %s, got %s", end, describe(p.curToken))
			return block
		case token.SEMICOLON:
			p.nextToken()
			continue
		case token.RETURN, token.BREAK, token.CONTINUE:
			terminal := p.parseTerminal()
			if terminal == nil {
				return block
			}
			block.Terminal = terminal
			p.nextToken()
			for p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			if !p.curTokenIs(end) {
				p.addErrorAt(terminal.Token, "%s must be the last statement of a block", terminal.Kind)
			}
			return block
		}

		stmt := p.parseStatement()
		if stmt == nil {
			return block
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	return block
}

func (p *Parser) parseTerminal() *ast.Terminal {
	terminal := &ast.Terminal{Token: p.curToken}

	switch p.curToken.Type {
	case token.BREAK:
		terminal.Kind = ast.Break
	case token.CONTINUE:
		terminal.Kind = ast.Continue
	default:
		terminal.Kind = ast.Return
		if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.EOF) {
			terminal.Value = &ast.UndefinedLiteral{Token: p.curToken}
			return terminal
		}
		p.nextToken()
		terminal.Value = p.parseExpression(LOWEST)
		if terminal.Value == nil {
			return nil
		}
	}

	return terminal
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.FUNCTION:
		return p.parseFunctionDefinition()
	case token.MODULE:
		return p.parseModuleDefinition()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) || p.peekTokenIs(token.COMMA) {
			return p.parseAssignment()
		}
		return p.parseCallStatement()
	default:
		p.addError("unexpected %s, expected a statement", describe(p.curToken))
		return nil
	}
}

func (p *Parser) parseAssignment() ast.Statement {
	stmt := &ast.Assignment{Token: p.curToken, Targets: []string{p.curToken.Literal}}

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Targets = append(stmt.Targets, p.curToken.Literal)
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseValue()
	if stmt.Value == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseCallStatement() ast.Statement {
	callee := p.parsePath()
	if callee == nil {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	return p.parseCallArguments(callee)
}

// parseCallArguments expects curToken on the opening paren.
func (p *Parser) parseCallArguments(callee ast.Expression) ast.Statement {
	call := &ast.FunctionCall{Token: p.curToken, Callee: callee}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}

	p.nextToken()
	arg := p.parseValue()
	if arg == nil {
		return nil
	}
	call.Arguments = append(call.Arguments, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseValue()
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return call
}

// parseValue parses the right side of an assignment or a call argument,
// where a call, an if or a while may stand in for an expression.
func (p *Parser) parseValue() ast.Node {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.IDENT:
		left := p.parsePath()
		if left == nil {
			return nil
		}
		if !p.peekTokenIs(token.LPAREN) {
			return p.parseInfix(left, LOWEST)
		}
		p.nextToken()
		call := p.parseCallArguments(left)
		if call == nil {
			return nil
		}
		if _, ok := precedences[p.peekToken.Type]; ok {
			p.addErrorAt(p.peekToken, "a function call cannot be used as an operand")
			return nil
		}
		return call
	default:
		return p.parseExpression(LOWEST)
	}
}

func (p *Parser) parseFunctionDefinition() ast.Statement {
	stmt := &ast.FunctionDefinition{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseParameters()
	if stmt.Parameters == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if p.failed() {
		return nil
	}

	return stmt
}

func (p *Parser) parseParameters() []string {
	params := []string{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	params = append(params, p.curToken.Literal)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		params = append(params, p.curToken.Literal)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return params
}

func (p *Parser) parseModuleDefinition() ast.Statement {
	stmt := &ast.ModuleDefinition{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if p.failed() {
		return nil
	}

	return stmt
}

func (p *Parser) parseConditionalBlock() (ast.Expression, *ast.Block) {
	p.nextToken()
	condition := p.parseExpression(LOWEST)
	if condition == nil {
		return nil, nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil, nil
	}
	body := p.parseBlock()
	if p.failed() {
		return nil, nil
	}
	return condition, body
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	stmt.Condition, stmt.Body = p.parseConditionalBlock()
	if stmt.Body == nil {
		return nil
	}

	for p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if p.peekTokenIs(token.IF) {
			p.nextToken()
			condition, body := p.parseConditionalBlock()
			if body == nil {
				return nil
			}
			stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Condition: condition, Body: body})
			continue
		}

		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Else = p.parseBlock()
		if p.failed() {
			return nil
		}
		break
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	stmt.Condition, stmt.Body = p.parseConditionalBlock()
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if !p.expectPeek(token.STRING) {
		return nil
	}
	stmt.Path = p.curToken.Literal

	if !p.expectPeek(token.AS) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Alias = p.curToken.Literal

	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	return p.parseInfix(leftExp, precedence)
}

func (p *Parser) parseInfix(leftExp ast.Expression, precedence int) ast.Expression {
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	if p.peekTokenIs(token.LPAREN) {
		p.addErrorAt(p.peekToken, "function calls cannot appear inside expressions")
		return nil
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseUndefined() ast.Expression {
	return &ast.UndefinedLiteral{Token: p.curToken}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError("could not parse %q as integer", p.curToken.Literal)
		return nil
	}

	return &ast.NumberLiteral{Token: p.curToken, Int: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("could not parse %q as float", p.curToken.Literal)
		return nil
	}

	return &ast.NumberLiteral{Token: p.curToken, IsFloat: true, Float: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parsePath reads an identifier or a dotted namespace path.
func (p *Parser) parsePath() ast.Expression {
	tok := p.curToken
	path := []string{tok.Literal}

	for p.peekTokenIs(token.PERIOD) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path = append(path, p.curToken.Literal)
	}

	if len(path) == 1 {
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	}
	return &ast.Namespace{Token: tok, Path: path}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken, Elements: []ast.Expression{}}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return array
	}

	for {
		p.nextToken()
		element := p.parseExpression(LOWEST)
		if element == nil {
			return nil
		}
		array.Elements = append(array.Elements, element)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		// trailing comma
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}

	return array
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	object := &ast.ObjectLiteral{Token: p.curToken, Pairs: make(map[string]ast.Expression)}

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()

		if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.STRING) {
			p.addError("object keys must be identifiers or strings, got %s", describe(p.curToken))
			return nil
		}
		key := p.curToken.Literal

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()

		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		object.Pairs[key] = value

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	return object
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

// parseNegation folds a minus in front of a number literal into the literal.
func (p *Parser) parseNegation() ast.Expression {
	tok := p.curToken
	p.nextToken()

	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}

	if lit, ok := right.(*ast.NumberLiteral); ok {
		lit.Token = tok
		lit.Int = -lit.Int
		lit.Float = -lit.Float
		return lit
	}

	return &ast.MathExpression{
		Token:    tok,
		Left:     &ast.NumberLiteral{Token: tok},
		Operator: ast.Subtract,
		Right:    right,
	}
}

func (p *Parser) parseNot() ast.Expression {
	expression := &ast.LogicExpression{Token: p.curToken, Operator: ast.Not}

	p.nextToken()

	expression.Right = p.parseExpression(NOT)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseMathExpression(left ast.Expression) ast.Expression {
	expression := &ast.MathExpression{
		Token:    p.curToken,
		Operator: ast.MathOperator(p.curToken.Literal),
		Left:     left,
	}

	precedence := p.curPrecedence()
	if p.curTokenIs(token.CARET) {
		// exponentiation is right-associative
		precedence--
	}
	p.nextToken()

	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseComparisonExpression(left ast.Expression) ast.Expression {
	expression := &ast.ComparisonExpression{
		Token:    p.curToken,
		Operator: ast.ComparisonOperator(p.curToken.Literal),
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()

	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseLogicExpression(left ast.Expression) ast.Expression {
	expression := &ast.LogicExpression{
		Token:    p.curToken,
		Operator: ast.And,
		Left:     left,
	}
	if p.curTokenIs(token.OR) || p.curTokenIs(token.LOGICAL_OR) {
		expression.Operator = ast.Or
	}

	precedence := p.curPrecedence()
	p.nextToken()

	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return tok.Literal
	default:
		return strconv.Quote(tok.Literal)
	}
}
