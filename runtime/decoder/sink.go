package decoder

import (
	"github.com/opal-lang/rawline/core/format"
	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
	"github.com/opal-lang/rawline/runtime/lexer"
)

// Sink receives decode events in source order. Begin and End calls are
// balanced when Decode succeeds; after an error the sink is abandoned.
type Sink interface {
	Scalar(value.Scalar)
	BeginList()
	EndList()
	BeginObject(tokenType lexer.TokenType, typeCode uint32)
	EndObject()
}

// TreeSink builds the argument tree.
type TreeSink struct {
	stack []frame
}

type frame struct {
	items     []value.Argument
	object    bool
	tokenType lexer.TokenType
	typeCode  uint32
}

// NewTreeSink returns a sink positioned inside the top-level list.
func NewTreeSink() *TreeSink {
	return &TreeSink{stack: make([]frame, 1, 8)}
}

func (s *TreeSink) top() *frame { return &s.stack[len(s.stack)-1] }

func (s *TreeSink) Scalar(v value.Scalar) {
	s.top().items = append(s.top().items, v)
}

func (s *TreeSink) BeginList() {
	s.stack = append(s.stack, frame{})
}

func (s *TreeSink) EndList() {
	f := s.pop(false)
	s.top().items = append(s.top().items, value.NewList(f.items...))
}

func (s *TreeSink) BeginObject(tokenType lexer.TokenType, typeCode uint32) {
	s.stack = append(s.stack, frame{object: true, tokenType: tokenType, typeCode: typeCode})
}

func (s *TreeSink) EndObject() {
	f := s.pop(true)
	obj := value.NewObject(int64(f.tokenType), f.typeCode, value.NewList(f.items...))
	s.top().items = append(s.top().items, obj)
}

func (s *TreeSink) pop(object bool) frame {
	invariant.Precondition(len(s.stack) > 1, "TreeSink: End without Begin")
	f := s.stack[len(s.stack)-1]
	invariant.Precondition(f.object == object, "TreeSink: mismatched End (object=%t)", object)
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

// List returns the top-level list. All nested lists must be closed.
func (s *TreeSink) List() value.List {
	invariant.Precondition(len(s.stack) == 1, "TreeSink: %d lists still open", len(s.stack)-1)
	return value.NewList(s.stack[0].items...)
}

// TextSink writes STEP text using the same rendering as format.Text, so
// format.Text(tree) equals the text sink output for the same input.
type TextSink struct {
	names schema.NameResolver
	buf   []byte
	first []bool
}

// NewTextSink returns a text sink; names resolves label codes back to
// entity names and may be nil.
func NewTextSink(names schema.NameResolver) *TextSink {
	return &TextSink{names: names, buf: []byte{'('}, first: []bool{true}}
}

func (s *TextSink) sep() {
	top := len(s.first) - 1
	if !s.first[top] {
		s.buf = append(s.buf, ',')
	}
	s.first[top] = false
}

func (s *TextSink) Scalar(v value.Scalar) {
	s.sep()
	s.buf = format.AppendScalar(s.buf, v)
}

func (s *TextSink) BeginList() {
	s.sep()
	s.open()
}

func (s *TextSink) EndList() { s.close() }

func (s *TextSink) BeginObject(_ lexer.TokenType, typeCode uint32) {
	s.sep()
	s.buf = append(s.buf, format.LabelName(typeCode, s.names)...)
	s.open()
}

func (s *TextSink) EndObject() { s.close() }

func (s *TextSink) open() {
	s.buf = append(s.buf, '(')
	s.first = append(s.first, true)
}

func (s *TextSink) close() {
	invariant.Precondition(len(s.first) > 1, "TextSink: End without Begin")
	s.buf = append(s.buf, ')')
	s.first = s.first[:len(s.first)-1]
}

// String returns the rendered top-level list.
func (s *TextSink) String() string {
	invariant.Precondition(len(s.first) == 1, "TextSink: %d lists still open", len(s.first)-1)
	return string(s.buf) + ")"
}
