package parser

import (
	"fmt"
	"strconv"

	"github.com/sandrolain/rowcalc/pkg/types"
)

// Parser implements a recursive descent parser for formulas.
// It uses Pratt's "Top Down Operator Precedence" algorithm with a
// configurable binding-power table.
type Parser struct {
	lexer   *Lexer
	current Token
	opts    CompileOptions
	depth   int
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth:           100,
		PrecedenceClimbing: false,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire formula and returns the compiled Expression.
// Trailing tokens after a complete expression are a syntax error.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of input")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}
	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrUnexpectedToken, fmt.Sprintf("Unexpected token: %s", p.current.Value))
	}

	return types.NewExpression(node, p.lexer.input), nil
}

// binaryOperators maps operator tokens to their typed identity.
// A token absent from this table cannot appear in infix position.
var binaryOperators = map[TokenType]types.Operator{
	TokenPlus:         types.OpAdd,
	TokenMinus:        types.OpSub,
	TokenMult:         types.OpMul,
	TokenDiv:          types.OpDiv,
	TokenLess:         types.OpLess,
	TokenGreater:      types.OpGreater,
	TokenLessEqual:    types.OpLessEq,
	TokenGreaterEqual: types.OpGreaterEq,
	TokenEqual:        types.OpEqual,
	TokenNotEqual:     types.OpNotEqual,
	TokenAnd:          types.OpAnd,
	TokenOr:           types.OpOr,
}

// Binding powers. In flat mode every binary operator shares flatPower,
// which yields a single left-associative chain. Prefix operators bind
// tighter than any binary operator in either mode, so a unary minus or
// bang always takes just the next primary as its operand.
const (
	flatPower   = 50
	prefixPower = 70
)

// climbingPrecedence is the conventional tiering used when
// PrecedenceClimbing is enabled. Higher values bind more tightly.
var climbingPrecedence = map[TokenType]int{
	TokenOr:           10,
	TokenAnd:          15,
	TokenLess:         30,
	TokenGreater:      30,
	TokenLessEqual:    30,
	TokenGreaterEqual: 30,
	TokenEqual:        30,
	TokenNotEqual:     30,
	TokenPlus:         40,
	TokenMinus:        40,
	TokenMult:         50,
	TokenDiv:          50,
}

// bindingPower returns the left binding power of a token, or 0 when
// the token cannot continue an expression.
func (p *Parser) bindingPower(tt TokenType) int {
	if _, ok := binaryOperators[tt]; !ok {
		return 0
	}
	if p.opts.PrecedenceClimbing {
		return climbingPrecedence[tt]
	}
	return flatPower
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrParseDepth, fmt.Sprintf("Expression nesting exceeds %d levels", p.opts.MaxDepth))
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for rbp < p.bindingPower(p.current.Type) {
		left, err = p.parseBinary(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
// These are expressions that don't require a left-hand side.
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenNumber:
		return p.parseNumber()
	case TokenString:
		return p.parseString()
	case TokenField:
		return p.parseField()
	case TokenIdentifier:
		return p.parseIdentifier()
	case TokenParenOpen:
		return p.parseGrouping()
	case TokenMinus:
		return p.parseUnary(types.OpNeg)
	case TokenNot:
		return p.parseUnary(types.OpNot)
	case TokenError:
		return nil, p.lexer.Error()
	case TokenEOF:
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of input")
	default:
		return nil, p.error(types.ErrUnexpectedToken, fmt.Sprintf("Unexpected token: %s", token.Value))
	}
}

// parseNumber converts a number token into a literal node.
// The lexer accepts any digit-leading run of digits and dots, so
// malformed runs like "1.2.3" are rejected here.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	token := p.current

	value, err := strconv.ParseFloat(token.Value, 64)
	if err != nil {
		return nil, p.error(types.ErrBadNumber, fmt.Sprintf("Invalid number: %s", token.Value))
	}

	node := types.NewASTNode(types.NodeLiteral, token.Position)
	node.Value = value
	p.advance()
	return node, nil
}

func (p *Parser) parseString() (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeLiteral, p.current.Position)
	node.Value = p.current.Value
	p.advance()
	return node, nil
}

func (p *Parser) parseField() (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeField, p.current.Position)
	node.Path = p.current.Value
	p.advance()
	return node, nil
}

// parseIdentifier handles identifiers in prefix position: a call when
// followed by '(', the boolean literals TRUE and FALSE, and nothing
// else — any other bare identifier is a syntax error.
func (p *Parser) parseIdentifier() (*types.ASTNode, error) {
	token := p.current
	p.advance()

	if p.current.Type == TokenParenOpen {
		return p.parseCall(token)
	}

	switch token.Value {
	case "TRUE", "FALSE":
		node := types.NewASTNode(types.NodeLiteral, token.Position)
		node.Value = token.Value == "TRUE"
		return node, nil
	}

	return nil, &types.Error{
		Code:     types.ErrUnknownIdentifier,
		Message:  fmt.Sprintf("Unknown identifier: %s", token.Value),
		Position: token.Position,
		Token:    token.Value,
	}
}

// parseCall parses the argument list of a function call. The name
// token has been consumed and the current token is the opening paren.
func (p *Parser) parseCall(name Token) (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeCall, name.Position)
	node.Name = name.Value

	p.advance() // consume '('

	if p.current.Type == TokenParenClose {
		p.advance()
		return node, nil
	}

	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, arg)

		switch p.current.Type {
		case TokenComma:
			p.advance()
		case TokenParenClose:
			p.advance()
			return node, nil
		case TokenError:
			return nil, p.lexer.Error()
		default:
			return nil, p.error(types.ErrMissingParen, "Missing closing parenthesis")
		}
	}
}

// parseGrouping parses a parenthesized sub-expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // consume '('

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}
	if p.current.Type != TokenParenClose {
		return nil, p.error(types.ErrMissingParen, "Missing closing parenthesis")
	}
	p.advance()

	return node, nil
}

// parseUnary parses a prefix operator. The operand is parsed with
// prefixPower so it binds to the next primary, not a full expression.
func (p *Parser) parseUnary(op types.Operator) (*types.ASTNode, error) {
	node := types.NewASTNode(types.NodeUnary, p.current.Position)
	node.Op = op

	p.advance()

	operand, err := p.parseExpression(prefixPower)
	if err != nil {
		return nil, err
	}
	node.RHS = operand

	return node, nil
}

// parseBinary parses an infix operator expression (led - left
// denotation). Equal binding powers fold left-associatively.
func (p *Parser) parseBinary(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current
	op := binaryOperators[token.Type]
	bp := p.bindingPower(token.Type)

	node := types.NewASTNode(types.NodeBinary, token.Position)
	node.Op = op
	node.LHS = left

	p.advance()

	right, err := p.parseExpression(bp)
	if err != nil {
		return nil, err
	}
	node.RHS = right

	return node, nil
}
