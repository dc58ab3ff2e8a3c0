package format

import (
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
)

// Plain-data keys for scalars that JSON and CBOR cannot tell apart from
// integers by type alone.
const (
	keyRef  = "ref"
	keyReal = "real"
)

// plainRecord is the serialized form shared by JSON and CBOR output.
type plainRecord struct {
	ID        uint32 `json:"id" cbor:"id"`
	Type      uint32 `json:"type" cbor:"type"`
	Name      string `json:"name,omitempty" cbor:"name,omitempty"`
	Arguments []any  `json:"arguments" cbor:"arguments"`
}

func toPlainRecord(rec value.Record, names schema.NameResolver) plainRecord {
	p := plainRecord{
		ID:        rec.ID(),
		Type:      rec.Type(),
		Arguments: toPlain(rec.Arguments()).([]any),
	}
	if names != nil {
		p.Name, _ = names.Name(rec.Type())
	}
	return p
}

// toPlain converts arg to nil, string, bool, int64, []any and
// map[string]any values.
func toPlain(arg value.Argument) any {
	return value.Visit[any](arg, plainVisitor{})
}

type plainVisitor struct{}

func (plainVisitor) VisitScalar(s value.Scalar) any {
	return value.VisitScalar[any](s, plainScalar{})
}

func (p plainVisitor) VisitList(l value.List) any {
	out := make([]any, 0, l.Len())
	for _, item := range l.All() {
		out = append(out, value.Visit[any](item, p))
	}
	return out
}

func (p plainVisitor) VisitObject(o value.Object) any {
	return map[string]any{
		value.KeyType:     o.TokenType(),
		value.KeyTypeCode: o.TypeCode(),
		value.KeyValue:    p.VisitList(o.Value()),
	}
}

type plainScalar struct{}

func (plainScalar) VisitNull() any           { return nil }
func (plainScalar) VisitText(s string) any   { return s }
func (plainScalar) VisitBool(b bool) any     { return b }
func (plainScalar) VisitInteger(i int64) any { return i }
func (plainScalar) VisitRef(id uint32) any   { return map[string]any{keyRef: id} }
func (plainScalar) VisitReal(f float64) any  { return map[string]any{keyReal: f} }
