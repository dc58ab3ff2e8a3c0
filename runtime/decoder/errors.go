package decoder

import (
	"errors"
	"fmt"

	"github.com/opal-lang/rawline/runtime/lexer"
)

var (
	// ErrUnbalanced is returned when a list ends on something other than
	// its closing parenthesis.
	ErrUnbalanced = errors.New("unbalanced parentheses")
	// ErrMissingLabelList is returned when a typed label is not followed by
	// an opening parenthesis.
	ErrMissingLabelList = errors.New("typed label without argument list")
	// ErrNestingTooDeep is returned when list nesting reaches the configured
	// maximum depth.
	ErrNestingTooDeep = errors.New("nesting too deep")
	// ErrUnexpectedToken is returned in strict mode for token kinds that
	// cannot appear as an argument.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// Error is a decode failure at a source position.
type Error struct {
	Pos lexer.Position
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RecordError ties a decode failure to the record being assembled.
type RecordError struct {
	ID  uint32
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record #%d: %v", e.ID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
