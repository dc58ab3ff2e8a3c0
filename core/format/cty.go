package format

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
)

// ToCty converts arg for use in HCL expressions. Lists become tuples,
// typed labels become objects with type, typecode and value attributes,
// references become numbers and null becomes a dynamic null.
func ToCty(arg value.Argument) cty.Value {
	return value.Visit[cty.Value](arg, ctyVisitor{})
}

// RecordToCty returns an object with id, type, name and arguments
// attributes.
func RecordToCty(rec value.Record, names schema.NameResolver) cty.Value {
	name := ""
	if names != nil {
		name, _ = names.Name(rec.Type())
	}
	return cty.ObjectVal(map[string]cty.Value{
		"id":        cty.NumberUIntVal(uint64(rec.ID())),
		"type":      cty.NumberUIntVal(uint64(rec.Type())),
		"name":      cty.StringVal(name),
		"arguments": ToCty(rec.Arguments()),
	})
}

type ctyVisitor struct{}

func (ctyVisitor) VisitScalar(s value.Scalar) cty.Value {
	return value.VisitScalar[cty.Value](s, ctyScalar{})
}

func (c ctyVisitor) VisitList(l value.List) cty.Value {
	if l.Len() == 0 {
		return cty.EmptyTupleVal
	}
	elems := make([]cty.Value, 0, l.Len())
	for _, item := range l.All() {
		elems = append(elems, value.Visit[cty.Value](item, c))
	}
	return cty.TupleVal(elems)
}

func (c ctyVisitor) VisitObject(o value.Object) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		value.KeyType:     cty.NumberIntVal(o.TokenType()),
		value.KeyTypeCode: cty.NumberUIntVal(uint64(o.TypeCode())),
		value.KeyValue:    c.VisitList(o.Value()),
	})
}

type ctyScalar struct{}

func (ctyScalar) VisitNull() cty.Value           { return cty.NullVal(cty.DynamicPseudoType) }
func (ctyScalar) VisitText(s string) cty.Value   { return cty.StringVal(s) }
func (ctyScalar) VisitBool(b bool) cty.Value     { return cty.BoolVal(b) }
func (ctyScalar) VisitInteger(i int64) cty.Value { return cty.NumberIntVal(i) }
func (ctyScalar) VisitRef(id uint32) cty.Value   { return cty.NumberUIntVal(uint64(id)) }
func (ctyScalar) VisitReal(f float64) cty.Value  { return cty.NumberFloatVal(f) }
