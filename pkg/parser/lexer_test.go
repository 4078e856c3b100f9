package parser_test

import (
	"errors"
	"testing"

	"github.com/sandrolain/rowcalc/pkg/parser"
	"github.com/sandrolain/rowcalc/pkg/types"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr types.ErrorCode // non-empty means an error with this code is expected
}

func TestLexerWhitespace(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "no whitespace",
			input: "SUM",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "SUM", Position: 0},
			},
		},
		{
			name:  "leading whitespace",
			input: "   SUM",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "SUM", Position: 3},
			},
		},
		{
			name:  "trailing whitespace",
			input: "SUM   ",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "SUM", Position: 0},
			},
		},
		{
			name:  "mixed whitespace",
			input: " \t\n\r\vSUM",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "SUM", Position: 5},
			},
		},
		{
			name:     "only whitespace",
			input:    "   \t\n",
			expected: []parser.Token{},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNumbers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "integer",
			input: "123",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "123", Position: 0},
			},
		},
		{
			name:  "zero",
			input: "0",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "0", Position: 0},
			},
		},
		{
			name:  "decimal",
			input: "3.14",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "3.14", Position: 0},
			},
		},
		{
			name:  "malformed run is a single token",
			input: "1.2.3",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1.2.3", Position: 0},
			},
		},
		{
			name:      "leading dot is not a number",
			input:     ".5",
			expectErr: types.ErrBadCharacter,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerStrings(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "double quoted",
			input: `"hello"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "hello", Position: 1},
			},
		},
		{
			name:  "single quoted",
			input: `'world'`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "world", Position: 1},
			},
		},
		{
			name:  "empty string",
			input: `""`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "", Position: 1},
			},
		},
		{
			name:  "string with spaces",
			input: `"hello world"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "hello world", Position: 1},
			},
		},
		{
			name:  "double quotes inside single quotes",
			input: `'say "hi"'`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: `say "hi"`, Position: 1},
			},
		},
		{
			name:      "unterminated string",
			input:     `"hello`,
			expectErr: types.ErrStringNotClosed,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerFields(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "simple field",
			input: "{value}",
			expected: []parser.Token{
				{Type: parser.TokenField, Value: "value", Position: 1},
			},
		},
		{
			name:  "dotted path",
			input: "{data.meta.count}",
			expected: []parser.Token{
				{Type: parser.TokenField, Value: "data.meta.count", Position: 1},
			},
		},
		{
			name:      "unterminated field",
			input:     "{data.value",
			expectErr: types.ErrFieldNotClosed,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "uppercase function name",
			input: "SUM",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "SUM", Position: 0},
			},
		},
		{
			name:  "lowercase is normalized",
			input: "sum",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "SUM", Position: 0},
			},
		},
		{
			name:  "mixed case is normalized",
			input: "Count_Linked",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "COUNT_LINKED", Position: 0},
			},
		},
		{
			name:  "boolean keyword",
			input: "true",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "TRUE", Position: 0},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerOperators(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "arithmetic",
			input: "+ - * / %",
			expected: []parser.Token{
				{Type: parser.TokenPlus, Value: "+", Position: 0},
				{Type: parser.TokenMinus, Value: "-", Position: 2},
				{Type: parser.TokenMult, Value: "*", Position: 4},
				{Type: parser.TokenDiv, Value: "/", Position: 6},
				{Type: parser.TokenMod, Value: "%", Position: 8},
			},
		},
		{
			name:  "comparison",
			input: "< > <= >= == !=",
			expected: []parser.Token{
				{Type: parser.TokenLess, Value: "<", Position: 0},
				{Type: parser.TokenGreater, Value: ">", Position: 2},
				{Type: parser.TokenLessEqual, Value: "<=", Position: 4},
				{Type: parser.TokenGreaterEqual, Value: ">=", Position: 7},
				{Type: parser.TokenEqual, Value: "==", Position: 10},
				{Type: parser.TokenNotEqual, Value: "!=", Position: 13},
			},
		},
		{
			name:  "logical",
			input: "&& || !",
			expected: []parser.Token{
				{Type: parser.TokenAnd, Value: "&&", Position: 0},
				{Type: parser.TokenOr, Value: "||", Position: 3},
				{Type: parser.TokenNot, Value: "!", Position: 6},
			},
		},
		{
			name:  "two-char operators win over single chars",
			input: "1<=2",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1", Position: 0},
				{Type: parser.TokenLessEqual, Value: "<=", Position: 1},
				{Type: parser.TokenNumber, Value: "2", Position: 3},
			},
		},
		{
			name:  "bare comparison chars tokenize for error reporting",
			input: "= & |",
			expected: []parser.Token{
				{Type: parser.TokenAssign, Value: "=", Position: 0},
				{Type: parser.TokenAmp, Value: "&", Position: 2},
				{Type: parser.TokenPipe, Value: "|", Position: 4},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerExpressions(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "arithmetic over a field",
			input: "{price} * 1.2 + 5",
			expected: []parser.Token{
				{Type: parser.TokenField, Value: "price", Position: 1},
				{Type: parser.TokenMult, Value: "*", Position: 8},
				{Type: parser.TokenNumber, Value: "1.2", Position: 10},
				{Type: parser.TokenPlus, Value: "+", Position: 14},
				{Type: parser.TokenNumber, Value: "5", Position: 16},
			},
		},
		{
			name:  "function call",
			input: `CONCAT({name}, "!")`,
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "CONCAT", Position: 0},
				{Type: parser.TokenParenOpen, Value: "(", Position: 6},
				{Type: parser.TokenField, Value: "name", Position: 8},
				{Type: parser.TokenComma, Value: ",", Position: 13},
				{Type: parser.TokenString, Value: "!", Position: 16},
				{Type: parser.TokenParenClose, Value: ")", Position: 18},
			},
		},
		{
			name:      "unsupported character",
			input:     "1 + @",
			expectErr: types.ErrBadCharacter,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerErrorSticks(t *testing.T) {
	l := parser.NewLexer(`1 + @ + 2`)
	for i := 0; i < 10; i++ {
		tok := l.Next()
		if tok.Type == parser.TokenError {
			break
		}
		if tok.Type == parser.TokenEOF {
			t.Fatal("reached EOF without an error token")
		}
	}
	if l.Error() == nil {
		t.Fatal("expected a lexer error")
	}
	// After an error, Next must not resume scanning.
	if tok := l.Next(); tok.Type != parser.TokenEOF {
		t.Errorf("token after error = %v, want EOF", tok.Type)
	}
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, err := parser.Tokenize(test.input)

			if test.expectErr != "" {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var fe *types.Error
				if !errors.As(err, &fe) {
					t.Fatalf("error type = %T, want *types.Error", err)
				}
				if fe.Code != test.expectErr {
					t.Errorf("error code = %s, want %s", fe.Code, test.expectErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != len(test.expected) {
				t.Fatalf("got %d tokens, want %d\nGot: %v\nWant: %v",
					len(tokens), len(test.expected), tokens, test.expected)
			}
			for i, tok := range tokens {
				exp := test.expected[i]
				if tok.Type != exp.Type {
					t.Errorf("token %d: type = %v, want %v", i, tok.Type, exp.Type)
				}
				if tok.Value != exp.Value {
					t.Errorf("token %d: value = %q, want %q", i, tok.Value, exp.Value)
				}
				if tok.Position != exp.Position {
					t.Errorf("token %d: position = %d, want %d", i, tok.Position, exp.Position)
				}
			}
		})
	}
}
