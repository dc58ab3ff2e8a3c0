package loader

import (
	"strconv"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/runtime/lexer"
)

// IsAtEnd reports whether the cursor has consumed every token.
func (l *Loader) IsAtEnd() bool {
	return l.pos >= len(l.tape.tokens)
}

// TokenType consumes the next token and returns its classification.
func (l *Loader) TokenType() lexer.TokenType {
	invariant.Precondition(!l.IsAtEnd(), "TokenType called at end of tape")
	t := l.tape.tokens[l.pos].Type
	l.pos++
	return t
}

// StepBack un-consumes the most recently classified token so a typed
// accessor can read it.
func (l *Loader) StepBack() {
	invariant.Precondition(l.pos > 0, "StepBack called before the first token")
	l.pos--
}

// Position returns the position of the most recently consumed token, or of
// the next token if none has been consumed.
func (l *Loader) Position() lexer.Position {
	tokens := l.tape.tokens
	switch {
	case len(tokens) == 0:
		return lexer.Position{Line: 1, Column: 1}
	case l.pos == 0:
		return tokens[0].Position
	case l.pos > len(tokens):
		return tokens[len(tokens)-1].Position
	default:
		return tokens[l.pos-1].Position
	}
}

// Offset returns the cursor index on the tape.
func (l *Loader) Offset() int { return l.pos }

// Seek moves the cursor to an index previously returned by Offset.
func (l *Loader) Seek(offset int) {
	invariant.Precondition(offset >= 0 && offset <= len(l.tape.tokens), "Seek: offset %d out of range [0, %d]", offset, len(l.tape.tokens))
	l.pos = offset
}

// consume returns the token under the cursor and advances past it. The
// token must be one of kinds.
func (l *Loader) consume(accessor string, kinds ...lexer.TokenType) lexer.Token {
	invariant.Precondition(!l.IsAtEnd(), "%s called at end of tape", accessor)
	tok := l.tape.tokens[l.pos]
	ok := false
	for _, k := range kinds {
		if tok.Type == k {
			ok = true
			break
		}
	}
	invariant.Precondition(ok, "%s called on %s token at %d:%d, want one of %v",
		accessor, tok.Type, tok.Position.Line, tok.Position.Column, kinds)
	l.pos++
	return tok
}

// StringArgument returns the raw text of a STRING, ENUM or LABEL token.
// String escapes are not decoded.
func (l *Loader) StringArgument() string {
	return string(l.consume("StringArgument", lexer.STRING, lexer.ENUM, lexer.LABEL).Text)
}

// DecodedStringArgument returns a STRING token decoded to UTF-8.
func (l *Loader) DecodedStringArgument() (string, error) {
	tok := l.consume("DecodedStringArgument", lexer.STRING)
	s, err := DecodeString(string(tok.Text))
	if err != nil {
		return "", &PayloadError{Type: tok.Type, Text: string(tok.Text), Position: tok.Position, Err: err}
	}
	return s, nil
}

// IntArgument returns an INTEGER token as int64.
func (l *Loader) IntArgument() (int64, error) {
	tok := l.consume("IntArgument", lexer.INTEGER)
	v, err := strconv.ParseInt(string(tok.Text), 10, 64)
	if err != nil {
		return 0, &PayloadError{Type: tok.Type, Text: string(tok.Text), Position: tok.Position, Err: err}
	}
	return v, nil
}

// RefArgument returns a REF token's express id.
func (l *Loader) RefArgument() (uint32, error) {
	tok := l.consume("RefArgument", lexer.REF)
	v, err := strconv.ParseUint(string(tok.Text), 10, 32)
	if err != nil {
		return 0, &PayloadError{Type: tok.Type, Text: string(tok.Text), Position: tok.Position, Err: err}
	}
	return uint32(v), nil
}

// DoubleArgument returns a REAL or INTEGER token as float64.
func (l *Loader) DoubleArgument() (float64, error) {
	tok := l.consume("DoubleArgument", lexer.REAL, lexer.INTEGER)
	v, err := strconv.ParseFloat(string(tok.Text), 64)
	if err != nil {
		return 0, &PayloadError{Type: tok.Type, Text: string(tok.Text), Position: tok.Position, Err: err}
	}
	return v, nil
}
