package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/rowcalc/pkg/types"
)

const eof = -1

// Lexer converts a formula string into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Tokenize scans the entire input and returns the token sequence.
// It stops at the first lexical error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		t := l.Next()
		if t.Type == TokenError {
			return nil, l.Error()
		}
		if t.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, t)
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. Whitespace between tokens is skipped.
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Check for two-character symbols first (e.g., !=, <=, &&)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// Check for single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals (single or double quoted, no escape sequences)
	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	// Field references: {dotted.path}
	if ch == '{' {
		l.ignore()
		return l.scanField()
	}

	// Number literals
	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}

	// Identifiers (function names, TRUE/FALSE)
	if isLetter(ch) || ch == '_' {
		l.backup()
		return l.scanIdentifier()
	}

	return l.error(types.ErrBadCharacter, fmt.Sprintf("Unexpected character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. The literal runs until
// the matching quote character; there is no escape-sequence handling,
// so a literal cannot contain its own quote character.
func (l *Lexer) scanString(quote rune) Token {
	for {
		ch := l.nextRune()
		if ch == quote {
			break
		}
		if ch == eof {
			return l.error(types.ErrStringNotClosed, "Unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanField reads a field reference from the current position.
// The opening brace has already been consumed. Everything up to the
// next '}' becomes the field path verbatim, dots included. Nested
// braces are not supported.
func (l *Lexer) scanField() Token {
	for {
		ch := l.nextRune()
		if ch == '}' {
			break
		}
		if ch == eof {
			return l.error(types.ErrFieldNotClosed, "Unterminated field reference")
		}
	}

	l.backup()
	t := l.newToken(TokenField)
	l.acceptRune('}')
	l.ignore()
	return t
}

// scanNumber reads a number literal from the current position.
// Digit-leading runs of digits and dots are consumed; no scientific
// notation, hex or thousands separators. The parser converts the text
// to a float and rejects malformed runs such as "1.2.3".
func (l *Lexer) scanNumber() Token {
	l.acceptAll(func(r rune) bool {
		return isDigit(r) || r == '.'
	})
	return l.newToken(TokenNumber)
}

// scanIdentifier reads an identifier from the current position.
// Identifiers start with a letter or underscore and continue with
// letters, digits and underscores. The value is case-normalized to
// uppercase, so sum(...) and SUM(...) tokenize identically.
func (l *Lexer) scanIdentifier() Token {
	l.acceptAll(func(r rune) bool {
		return isLetter(r) || isDigit(r) || r == '_'
	})
	t := l.newToken(TokenIdentifier)
	t.Value = strings.ToUpper(t.Value)
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
