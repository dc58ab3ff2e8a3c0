package value

import (
	"strconv"

	"github.com/opal-lang/rawline/core/invariant"
)

// Kind identifies the active variant of a Scalar.
type Kind uint8

const (
	KindNull    Kind = iota // $, .U. or an absent value
	KindText                // STRING tokens and enumerants other than T/F/U
	KindBool                // .T. and .F.
	KindInteger             // INTEGER tokens
	KindRef                 // #123 entity references
	KindReal                // REAL tokens
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindRef:
		return "ref"
	case KindReal:
		return "real"
	default:
		return "unknown"
	}
}

// Scalar is a leaf value. Only the field matching kind is meaningful.
// The zero Scalar is null.
type Scalar struct {
	kind    Kind
	text    string
	boolean bool
	integer int64
	ref     uint32
	real    float64
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{kind: KindNull} }

// Text returns a text scalar.
func Text(s string) Scalar { return Scalar{kind: KindText, text: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, boolean: b} }

// Integer returns a signed integer scalar.
func Integer(i int64) Scalar { return Scalar{kind: KindInteger, integer: i} }

// Ref returns a reference scalar naming another record.
func Ref(id uint32) Scalar { return Scalar{kind: KindRef, ref: id} }

// Real returns a floating-point scalar.
func Real(f float64) Scalar { return Scalar{kind: KindReal, real: f} }

// Kind reports the active variant.
func (s Scalar) Kind() Kind { return s.kind }

// IsNull reports whether s is the null scalar.
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// AsText returns the text payload and whether s is text.
func (s Scalar) AsText() (string, bool) { return s.text, s.kind == KindText }

// AsBool returns the boolean payload and whether s is a boolean.
func (s Scalar) AsBool() (bool, bool) { return s.boolean, s.kind == KindBool }

// AsInteger returns the integer payload and whether s is an integer.
func (s Scalar) AsInteger() (int64, bool) { return s.integer, s.kind == KindInteger }

// AsRef returns the referenced record id and whether s is a reference.
func (s Scalar) AsRef() (uint32, bool) { return s.ref, s.kind == KindRef }

// AsReal returns the real payload and whether s is a real.
func (s Scalar) AsReal() (float64, bool) { return s.real, s.kind == KindReal }

// String returns a debug representation such as ref(#12) or text("abc").
func (s Scalar) String() string {
	switch s.kind {
	case KindNull:
		return "null"
	case KindText:
		return "text(" + strconv.Quote(s.text) + ")"
	case KindBool:
		return "bool(" + strconv.FormatBool(s.boolean) + ")"
	case KindInteger:
		return "integer(" + strconv.FormatInt(s.integer, 10) + ")"
	case KindRef:
		return "ref(#" + strconv.FormatUint(uint64(s.ref), 10) + ")"
	case KindReal:
		return "real(" + strconv.FormatFloat(s.real, 'g', -1, 64) + ")"
	default:
		invariant.Unreachable("scalar kind %d", s.kind)
		return ""
	}
}

// ScalarVisitor handles each scalar variant. Like Visitor it is total:
// there is no default method.
type ScalarVisitor[R any] interface {
	VisitNull() R
	VisitText(string) R
	VisitBool(bool) R
	VisitInteger(int64) R
	VisitRef(uint32) R
	VisitReal(float64) R
}

// VisitScalar dispatches s to exactly one method of v.
func VisitScalar[R any](s Scalar, v ScalarVisitor[R]) R {
	switch s.kind {
	case KindNull:
		return v.VisitNull()
	case KindText:
		return v.VisitText(s.text)
	case KindBool:
		return v.VisitBool(s.boolean)
	case KindInteger:
		return v.VisitInteger(s.integer)
	case KindRef:
		return v.VisitRef(s.ref)
	case KindReal:
		return v.VisitReal(s.real)
	default:
		invariant.Unreachable("scalar kind %d", s.kind)
		var zero R
		return zero
	}
}
