package types

import "fmt"

// ErrorCode classifies a structural error raised by the lexer, the
// parser or the evaluation guards.
type ErrorCode string

const (
	// L0xxx: Lexical errors
	ErrBadCharacter    ErrorCode = "L0101"
	ErrStringNotClosed ErrorCode = "L0102"
	ErrFieldNotClosed  ErrorCode = "L0103"
	ErrBadNumber       ErrorCode = "L0104"

	// P0xxx: Parse errors
	ErrUnexpectedEnd     ErrorCode = "P0201"
	ErrUnexpectedToken   ErrorCode = "P0202"
	ErrMissingParen      ErrorCode = "P0203"
	ErrUnknownIdentifier ErrorCode = "P0204"
	ErrParseDepth        ErrorCode = "P0205"

	// E0xxx: Evaluation guards
	ErrEvalDepth ErrorCode = "E0301"
	ErrCancelled ErrorCode = "E0302"
)

// Error represents a structured rowcalc error.
//
// Runtime anomalies (division by zero, unknown function names, failed
// coercions) are NOT represented as errors: they surface as in-band
// sentinel values. Error is reserved for the structural channel —
// lexical and syntactic failures plus the evaluation depth and
// cancellation guards.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new rowcalc error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
