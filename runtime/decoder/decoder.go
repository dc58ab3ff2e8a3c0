// Package decoder turns the argument section of a STEP record into a
// value tree or its text rendering.
//
// One recursive-descent pass drives a Sink; TreeSink builds value.List
// and TextSink writes STEP text. Both see the same event sequence, so the
// tree and the text cannot drift apart.
package decoder

import (
	"fmt"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
	"github.com/opal-lang/rawline/runtime/lexer"
)

// Source is a cursor over classified tokens. Typed accessors are valid only
// for the token under the cursor, i.e. right after TokenType and StepBack;
// calling the wrong one panics.
type Source interface {
	IsAtEnd() bool
	TokenType() lexer.TokenType
	StepBack()
	Position() lexer.Position

	StringArgument() string
	DecodedStringArgument() (string, error)
	IntArgument() (int64, error)
	RefArgument() (uint32, error)
	DoubleArgument() (float64, error)
}

// Terminator reports what ended a decoded list.
type Terminator uint8

const (
	TermListEnd     Terminator = iota // ')'
	TermRecordEnd                     // ';'
	TermEndOfStream                   // no more tokens
)

func (t Terminator) String() string {
	switch t {
	case TermListEnd:
		return "list end"
	case TermRecordEnd:
		return "record end"
	case TermEndOfStream:
		return "end of stream"
	default:
		return fmt.Sprintf("Terminator(%d)", uint8(t))
	}
}

// Decode reads arguments from src until the enclosing list ends and feeds
// them to sink. The cursor must be just inside an open list (on its first
// argument); that list counts as depth 1.
//
// The returned Terminator tells the caller which token ended the list.
// Nested lists are checked here; the outer list is the caller's to check.
func Decode(src Source, resolver schema.Resolver, sink Sink, opts ...Option) (Terminator, error) {
	d := &decoder{src: src, resolver: resolver, sink: sink, cfg: newConfig(opts)}
	d.cfg.telemetry.MaxDepth = max(d.cfg.telemetry.MaxDepth, 1)
	return d.list(1)
}

// DecodeArguments is Decode with a TreeSink. On error the list is empty.
func DecodeArguments(src Source, resolver schema.Resolver, opts ...Option) (value.List, Terminator, error) {
	sink := NewTreeSink()
	term, err := Decode(src, resolver, sink, opts...)
	if err != nil {
		return value.NewList(), term, err
	}
	return sink.List(), term, nil
}

type decoder struct {
	src      Source
	resolver schema.Resolver
	sink     Sink
	cfg      *config
}

func (d *decoder) list(depth int) (Terminator, error) {
	for !d.src.IsAtEnd() {
		tt := d.src.TokenType()
		switch tt {
		case lexer.LINE_END:
			return TermRecordEnd, nil
		case lexer.SET_END:
			return TermListEnd, nil
		case lexer.EMPTY:
			d.cfg.telemetry.Scalars++
			d.sink.Scalar(value.Null())
		case lexer.SET_BEGIN:
			if err := d.nested(depth); err != nil {
				return 0, err
			}
		case lexer.LABEL:
			if err := d.label(depth); err != nil {
				return 0, err
			}
		case lexer.STRING, lexer.ENUM, lexer.REAL, lexer.INTEGER, lexer.REF:
			d.src.StepBack()
			s, err := d.scalar(tt)
			if err != nil {
				return 0, &Error{Pos: d.src.Position(), Err: err}
			}
			d.cfg.telemetry.Scalars++
			d.sink.Scalar(s)
		default:
			if err := d.skip(tt, depth); err != nil {
				return 0, err
			}
		}
	}
	return TermEndOfStream, nil
}

// nested decodes a parenthesized list whose '(' was just consumed.
func (d *decoder) nested(depth int) error {
	if err := d.enter(depth); err != nil {
		return err
	}
	d.cfg.telemetry.Lists++
	d.sink.BeginList()
	if err := d.closed(depth + 1); err != nil {
		return err
	}
	d.sink.EndList()
	return nil
}

// label decodes NAME(...) whose NAME was just classified.
func (d *decoder) label(depth int) error {
	d.src.StepBack()
	name := d.src.StringArgument()
	pos := d.src.Position()
	code := d.resolver.TypeCode(name)
	if d.src.IsAtEnd() || d.src.TokenType() != lexer.SET_BEGIN {
		return &Error{Pos: pos, Err: fmt.Errorf("%w: %s", ErrMissingLabelList, name)}
	}
	if err := d.enter(depth); err != nil {
		return err
	}
	d.cfg.telemetry.Objects++
	d.sink.BeginObject(lexer.LABEL, code)
	if err := d.closed(depth + 1); err != nil {
		return err
	}
	d.sink.EndObject()
	return nil
}

func (d *decoder) enter(depth int) error {
	if depth+1 >= d.cfg.maxDepth {
		return &Error{Pos: d.src.Position(), Err: fmt.Errorf("%w: limit is %d", ErrNestingTooDeep, d.cfg.maxDepth)}
	}
	d.cfg.telemetry.MaxDepth = max(d.cfg.telemetry.MaxDepth, depth+1)
	return nil
}

// closed decodes list contents and requires them to end on ')'.
func (d *decoder) closed(depth int) error {
	term, err := d.list(depth)
	if err != nil {
		return err
	}
	if term != TermListEnd {
		return &Error{Pos: d.src.Position(), Err: fmt.Errorf("%w: list closed by %s", ErrUnbalanced, term)}
	}
	return nil
}

func (d *decoder) skip(tt lexer.TokenType, depth int) error {
	pos := d.src.Position()
	if d.cfg.strict {
		return &Error{Pos: pos, Err: fmt.Errorf("%w: %s", ErrUnexpectedToken, tt)}
	}
	d.cfg.telemetry.Skipped++
	d.cfg.logger.Debug("skipping token", "type", tt.String(), "line", pos.Line, "column", pos.Column, "depth", depth)
	if d.cfg.onSkip != nil {
		d.cfg.onSkip(Skip{Type: tt, Position: pos, Depth: depth})
	}
	return nil
}

// scalar reads the stepped-back token of kind tt.
func (d *decoder) scalar(tt lexer.TokenType) (value.Scalar, error) {
	switch tt {
	case lexer.STRING:
		s, err := d.src.DecodedStringArgument()
		return value.Text(s), err
	case lexer.ENUM:
		return enumScalar(d.src.StringArgument()), nil
	case lexer.REAL:
		f, err := d.src.DoubleArgument()
		return value.Real(f), err
	case lexer.INTEGER:
		i, err := d.src.IntArgument()
		return value.Integer(i), err
	case lexer.REF:
		id, err := d.src.RefArgument()
		return value.Ref(id), err
	}
	invariant.Unreachable("scalar reader for %s token", tt)
	return value.Scalar{}, nil
}

// enumScalar maps the logical enumerants T, F and U; every other enumerant
// is kept as text.
func enumScalar(raw string) value.Scalar {
	switch raw {
	case "T":
		return value.Bool(true)
	case "F":
		return value.Bool(false)
	case "U":
		return value.Null()
	default:
		return value.Text(raw)
	}
}
