package value

import (
	"iter"

	"github.com/opal-lang/rawline/core/invariant"
)

// Shape identifies which of the three Argument forms is active.
type Shape uint8

const (
	ShapeScalar Shape = iota
	ShapeList
	ShapeObject
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeList:
		return "list"
	case ShapeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Argument is the recursive union. Scalar, List and Object are its only
// implementations; the unexported method keeps the set closed.
type Argument interface {
	Shape() Shape
	isArgument()
}

func (Scalar) Shape() Shape { return ShapeScalar }
func (List) Shape() Shape   { return ShapeList }
func (Object) Shape() Shape { return ShapeObject }

func (Scalar) isArgument() {}
func (List) isArgument()   {}
func (Object) isArgument() {}

// List is an ordered, immutable sequence of Arguments.
// The zero List is empty.
type List struct {
	items []Argument
}

// NewList copies items into a new List. Nil items are rejected.
func NewList(items ...Argument) List {
	if len(items) == 0 {
		return List{}
	}
	owned := make([]Argument, len(items))
	for i, item := range items {
		invariant.NotNil(item, "list item")
		owned[i] = item
	}
	return List{items: owned}
}

// Len returns the number of items.
func (l List) Len() int { return len(l.items) }

// At returns the i-th item. Panics if i is out of range.
func (l List) At(i int) Argument {
	invariant.Precondition(i >= 0 && i < len(l.items), "list index %d out of range [0, %d)", i, len(l.items))
	return l.items[i]
}

// All iterates the items in source order.
func (l List) All() iter.Seq2[int, Argument] {
	return func(yield func(int, Argument) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Items returns a copy of the items.
func (l List) Items() []Argument {
	out := make([]Argument, len(l.items))
	copy(out, l.items)
	return out
}

// Object keys. An Object always has exactly these three.
const (
	KeyType     = "type"
	KeyTypeCode = "typecode"
	KeyValue    = "value"
)

var objectKeys = [...]string{KeyType, KeyTypeCode, KeyValue}

// Object is a typed label such as IFCLABEL('x') decoded into its token
// kind, the schema type code of the label name and the inner list.
type Object struct {
	tokenType int64
	typeCode  uint32
	value     List
}

// NewObject builds a labelled value. typeCode may be the resolver's unknown
// sentinel; callers detect unresolved labels by inspecting it.
func NewObject(tokenType int64, typeCode uint32, value List) Object {
	return Object{tokenType: tokenType, typeCode: typeCode, value: value}
}

// TokenType returns the lexical token kind of the label.
func (o Object) TokenType() int64 { return o.tokenType }

// TypeCode returns the resolved type code of the label name.
func (o Object) TypeCode() uint32 { return o.typeCode }

// Value returns the inner list.
func (o Object) Value() List { return o.value }

// Keys returns the object keys in canonical order.
func (o Object) Keys() []string {
	return objectKeys[:]
}

// Get returns the Argument stored under key. The type and typecode keys
// yield integer scalars and value yields the inner List.
func (o Object) Get(key string) (Argument, bool) {
	switch key {
	case KeyType:
		return Integer(o.tokenType), true
	case KeyTypeCode:
		return Integer(int64(o.typeCode)), true
	case KeyValue:
		return o.value, true
	default:
		return nil, false
	}
}

// Fields iterates key/argument pairs in canonical order.
func (o Object) Fields() iter.Seq2[string, Argument] {
	return func(yield func(string, Argument) bool) {
		for _, key := range objectKeys {
			arg, _ := o.Get(key)
			if !yield(key, arg) {
				return
			}
		}
	}
}
