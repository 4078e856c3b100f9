// Package types defines the core type system for rowcalc.
//
// This package contains type definitions for:
//   - Expression: Compiled formula expressions
//   - ASTNode: Abstract Syntax Tree nodes
//   - Operator: Typed operator identities
//   - Error types: Structured errors with codes
package types

// NodeType identifies the kind of an AST node.
type NodeType uint8

// The AST is a closed tagged union: every node produced by the parser
// is exactly one of these kinds.
const (
	// NodeLiteral is a number, string or boolean literal.
	NodeLiteral NodeType = iota
	// NodeField is a {dotted.path} reference into the evaluation context.
	NodeField
	// NodeUnary is a prefix operator applied to a single operand.
	NodeUnary
	// NodeBinary is an infix operator applied to two operands.
	NodeBinary
	// NodeCall is a function invocation with zero or more arguments.
	NodeCall
)

// String returns a string representation of the node type.
func (nt NodeType) String() string {
	switch nt {
	case NodeLiteral:
		return "literal"
	case NodeField:
		return "field"
	case NodeUnary:
		return "unary"
	case NodeBinary:
		return "binary"
	case NodeCall:
		return "call"
	default:
		return "(unknown)"
	}
}

// Operator is the typed identity of a unary or binary operator.
// Operator dispatch tables are keyed by this type rather than by the
// operator's source text.
type Operator uint8

const (
	OpAdd       Operator = iota // +
	OpSub                       // -
	OpMul                       // *
	OpDiv                       // /
	OpLess                      // <
	OpGreater                   // >
	OpLessEq                    // <=
	OpGreaterEq                 // >=
	OpEqual                     // ==
	OpNotEqual                  // !=
	OpAnd                       // &&
	OpOr                        // ||

	// Prefix operators
	OpNeg // - (numeric negation)
	OpNot // ! (boolean negation)
)

// String returns the source form of the operator.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEq:
		return "<="
	case OpGreaterEq:
		return ">="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpNot:
		return "!"
	default:
		return "(unknown)"
	}
}

// ASTNode represents a node in the Abstract Syntax Tree.
//
// Nodes are immutable once the parser returns them: the evaluator only
// reads them, so a parsed expression is safe for concurrent evaluation.
type ASTNode struct {
	Type     NodeType
	Position int // Byte offset of the originating token in the source

	// NodeLiteral
	Value interface{} // float64, string or bool

	// NodeField
	Path string // Dot-separated field path, unvalidated until resolution

	// NodeUnary / NodeBinary
	Op  Operator
	LHS *ASTNode // nil for unary nodes
	RHS *ASTNode // unary operand or binary right-hand side

	// NodeCall
	Name string // Function name, uppercased by the tokenizer
	Args []*ASTNode
}

// NewASTNode creates a new AST node of the specified type.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return n.Type.String()
}
