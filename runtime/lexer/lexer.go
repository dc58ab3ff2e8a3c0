// Package lexer tokenizes STEP physical files (ISO 10303-21) such as IFC
// models into a flat token tape.
//
// The lexer is syntax only: it does not know about sections, entity
// instances or schemas. Commas, '=' signs, whitespace and comments are
// dropped; everything else becomes a Token whose Text aliases the input.
package lexer

import (
	"fmt"
	"io"
	"log/slog"
)

// ASCII classification tables, filled in init.
var (
	isWhitespace [128]bool
	isDigit      [128]bool
	isLabelStart [128]bool
	isLabelPart  [128]bool
	singleChar   [128]TokenType
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
		isDigit[i] = '0' <= ch && ch <= '9'
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isLabelStart[i] = letter || ch == '_' || ch == '!'
		isLabelPart[i] = letter || isDigit[i] || ch == '_' || ch == '-'
	}

	singleChar['('] = SET_BEGIN
	singleChar[')'] = SET_END
	singleChar[';'] = LINE_END
	singleChar['$'] = EMPTY
	singleChar['*'] = DERIVED
}

// Error is a lexical error with its source position.
type Error struct {
	Position Position
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// LexerOpt configures a Lexer.
type LexerOpt func(*lexerConfig)

type lexerConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *lexerConfig) {
		c.logger = logger
	}
}

// Lexer scans STEP text.
type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
	logger *slog.Logger
}

// NewLexer creates a lexer. Call Init before scanning.
func NewLexer(opts ...LexerOpt) *Lexer {
	config := &lexerConfig{}
	for _, opt := range opts {
		opt(config)
	}
	logger := config.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Lexer{logger: logger}
}

// Init resets the lexer to scan input. Tokens alias input, so the caller
// must not modify it while tokens are in use.
func (l *Lexer) Init(input []byte) {
	l.input = input
	l.pos = 0
	l.line = 1
	l.column = 1
}

// Tokenize scans the whole input and returns the token tape.
func (l *Lexer) Tokenize() ([]Token, error) {
	// A typical IFC file averages one token per 6-8 bytes.
	tokens := make([]Token, 0, len(l.input)/6+16)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	l.logger.Debug("tokenized input", "bytes", len(l.input), "tokens", len(tokens))
	return tokens, nil
}

// Tokenize is a convenience wrapper around NewLexer, Init and Tokenize.
func Tokenize(input []byte, opts ...LexerOpt) ([]Token, error) {
	l := NewLexer(opts...)
	l.Init(input)
	return l.Tokenize()
}

// NextToken returns the next token, or a token of type EOF at the end of
// input.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	start := l.position()
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Position: start}, nil
	}

	ch := l.input[l.pos]
	if ch < 128 && singleChar[ch] != UNKNOWN {
		l.advance()
		return Token{Type: singleChar[ch], Position: start}, nil
	}

	switch {
	case ch == '\'':
		return l.lexString(start)
	case ch == '"':
		return l.lexBinary(start)
	case ch == '#':
		return l.lexRef(start)
	case ch == '.' && l.pos+1 < len(l.input) && l.isLetterAt(l.pos+1):
		return l.lexEnum(start)
	case ch == '-' || ch == '+' || ch == '.' || (ch < 128 && isDigit[ch]):
		return l.lexNumber(start)
	case ch < 128 && isLabelStart[ch]:
		return l.lexLabel(start), nil
	default:
		return Token{}, l.errorf(start, "unexpected character %q", rune(ch))
	}
}

// skipTrivia skips whitespace, separators and comments.
func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch < 128 && isWhitespace[ch], ch == ',', ch == '=':
			l.advance()
		case ch == '/' && l.peek(1) == '*':
			start := l.position()
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.input) {
					return l.errorf(start, "unterminated comment")
				}
				if l.input[l.pos] == '*' && l.peek(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) lexString(start Position) (Token, error) {
	l.advance() // opening quote
	begin := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\'' {
			if l.peek(1) == '\'' {
				l.advance()
				l.advance()
				continue
			}
			text := l.input[begin:l.pos]
			l.advance()
			return Token{Type: STRING, Text: text, Position: start}, nil
		}
		l.advance()
	}
	return Token{}, l.errorf(start, "unterminated string")
}

func (l *Lexer) lexBinary(start Position) (Token, error) {
	l.advance()
	begin := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == '"' {
			text := l.input[begin:l.pos]
			l.advance()
			return Token{Type: BINARY, Text: text, Position: start}, nil
		}
		l.advance()
	}
	return Token{}, l.errorf(start, "unterminated binary literal")
}

func (l *Lexer) lexRef(start Position) (Token, error) {
	l.advance() // '#'
	begin := l.pos
	for l.pos < len(l.input) && l.input[l.pos] < 128 && isDigit[l.input[l.pos]] {
		l.advance()
	}
	if l.pos == begin {
		return Token{}, l.errorf(start, "'#' not followed by an instance number")
	}
	return Token{Type: REF, Text: l.input[begin:l.pos], Position: start}, nil
}

func (l *Lexer) lexEnum(start Position) (Token, error) {
	l.advance() // leading '.'
	begin := l.pos
	for l.pos < len(l.input) && l.input[l.pos] < 128 && isLabelPart[l.input[l.pos]] {
		l.advance()
	}
	if l.pos >= len(l.input) || l.input[l.pos] != '.' {
		return Token{}, l.errorf(start, "unterminated enumeration")
	}
	text := l.input[begin:l.pos]
	l.advance() // trailing '.'
	return Token{Type: ENUM, Text: text, Position: start}, nil
}

func (l *Lexer) lexNumber(start Position) (Token, error) {
	begin := l.pos
	typ := INTEGER
	if ch := l.input[l.pos]; ch == '-' || ch == '+' {
		l.advance()
	}
	digits := l.skipDigits()
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		typ = REAL
		l.advance()
		digits += l.skipDigits()
	}
	if digits == 0 {
		return Token{}, l.errorf(start, "malformed number %q", l.input[begin:l.pos])
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'E' || l.input[l.pos] == 'e') {
		typ = REAL
		l.advance()
		if l.pos < len(l.input) && (l.input[l.pos] == '-' || l.input[l.pos] == '+') {
			l.advance()
		}
		if l.skipDigits() == 0 {
			return Token{}, l.errorf(start, "malformed exponent in %q", l.input[begin:l.pos])
		}
	}
	return Token{Type: typ, Text: l.input[begin:l.pos], Position: start}, nil
}

func (l *Lexer) lexLabel(start Position) Token {
	begin := l.pos
	l.advance()
	for l.pos < len(l.input) && l.input[l.pos] < 128 && isLabelPart[l.input[l.pos]] {
		l.advance()
	}
	return Token{Type: LABEL, Text: l.input[begin:l.pos], Position: start}
}

func (l *Lexer) skipDigits() int {
	n := 0
	for l.pos < len(l.input) && l.input[l.pos] < 128 && isDigit[l.input[l.pos]] {
		l.advance()
		n++
	}
	return n
}

func (l *Lexer) isLetterAt(i int) bool {
	ch := l.input[i]
	return ch < 128 && isLabelStart[ch] && ch != '!'
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}
	return 0
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) errorf(pos Position, format string, args ...any) *Error {
	err := &Error{Position: pos, Message: fmt.Sprintf(format, args...)}
	l.logger.Debug("lex error", "line", pos.Line, "column", pos.Column, "error", err.Message)
	return err
}
