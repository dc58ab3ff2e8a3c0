package value_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/rawline/core/value"
)

func TestScalarVariants(t *testing.T) {
	tests := []struct {
		name   string
		scalar value.Scalar
		kind   value.Kind
		debug  string
	}{
		{"null", value.Null(), value.KindNull, "null"},
		{"zero value is null", value.Scalar{}, value.KindNull, "null"},
		{"text", value.Text("Wall"), value.KindText, `text("Wall")`},
		{"bool", value.Bool(true), value.KindBool, "bool(true)"},
		{"integer", value.Integer(-42), value.KindInteger, "integer(-42)"},
		{"ref", value.Ref(12), value.KindRef, "ref(#12)"},
		{"real", value.Real(0.5), value.KindReal, "real(0.5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.scalar.Kind())
			assert.Equal(t, tt.debug, tt.scalar.String())
			assert.Equal(t, value.ShapeScalar, tt.scalar.Shape())
		})
	}
}

func TestScalarAccessorsOnlyMatchActiveVariant(t *testing.T) {
	ref := value.Ref(7)

	id, ok := ref.AsRef()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), id)

	_, ok = ref.AsInteger()
	assert.False(t, ok, "a reference is not an integer")
	_, ok = value.Integer(7).AsRef()
	assert.False(t, ok, "an integer is not a reference")
	assert.NotEqual(t, value.Integer(7), value.Ref(7))
}

func TestListIsImmutable(t *testing.T) {
	items := []value.Argument{value.Integer(1), value.Integer(2)}
	list := value.NewList(items...)

	items[0] = value.Text("changed")
	copied := list.Items()
	copied[1] = value.Text("changed")

	require.Equal(t, 2, list.Len())
	assert.Equal(t, value.Integer(1), list.At(0))
	assert.Equal(t, value.Integer(2), list.At(1))
}

func TestListPreservesOrder(t *testing.T) {
	list := value.NewList(value.Ref(3), value.Ref(1), value.Ref(2))

	var got []value.Argument
	for _, item := range list.All() {
		got = append(got, item)
	}
	assert.Equal(t, []value.Argument{value.Ref(3), value.Ref(1), value.Ref(2)}, got)
}

func TestListRejectsNilItems(t *testing.T) {
	assert.Panics(t, func() { value.NewList(value.Null(), nil) })
}

func TestObjectHasExactlyThreeKeys(t *testing.T) {
	inner := value.NewList(value.Text("x"))
	obj := value.NewObject(2, 0xDEADBEEF, inner)

	assert.Equal(t, []string{"type", "typecode", "value"}, obj.Keys())

	typ, ok := obj.Get(value.KeyType)
	require.True(t, ok)
	assert.Equal(t, value.Integer(2), typ)

	code, ok := obj.Get(value.KeyTypeCode)
	require.True(t, ok)
	assert.Equal(t, value.Integer(0xDEADBEEF), code)

	got, ok := obj.Get(value.KeyValue)
	require.True(t, ok)
	assert.Equal(t, value.ShapeList, got.Shape())

	_, ok = obj.Get("name")
	assert.False(t, ok)

	var keys []string
	for key := range obj.Fields() {
		keys = append(keys, key)
	}
	assert.Equal(t, obj.Keys(), keys)
}

func TestEmptyRecordSentinel(t *testing.T) {
	rec := value.EmptyRecord()
	assert.True(t, rec.IsEmpty())
	assert.Equal(t, uint32(0), rec.Type())
	assert.Equal(t, 0, rec.Arguments().Len())
}

func TestNewRecordRejectsZeroType(t *testing.T) {
	assert.Panics(t, func() { value.NewRecord(1, 0, value.NewList(value.Null())) })
}

// kindCounter is a hand-written visitor; it must implement all three
// methods to compile.
type kindCounter struct {
	scalars, lists, objects *int
}

func (c kindCounter) VisitScalar(value.Scalar) struct{} {
	*c.scalars++
	return struct{}{}
}

func (c kindCounter) VisitList(l value.List) struct{} {
	*c.lists++
	for _, item := range l.All() {
		value.Visit[struct{}](item, c)
	}
	return struct{}{}
}

func (c kindCounter) VisitObject(o value.Object) struct{} {
	*c.objects++
	return c.VisitList(o.Value())
}

func TestVisitDispatchesExactlyOneHandler(t *testing.T) {
	tree := value.NewList(
		value.Ref(1),
		value.NewList(value.Real(1), value.Real(2)),
		value.NewObject(2, 99, value.NewList(value.Text("a"))),
	)

	var scalars, lists, objects int
	value.Visit[struct{}](tree, kindCounter{&scalars, &lists, &objects})

	assert.Equal(t, 4, scalars)
	assert.Equal(t, 3, lists, "outer, nested and the object's inner list")
	assert.Equal(t, 1, objects)
}

func TestFuncsRequiresEveryHandler(t *testing.T) {
	partial := value.Funcs[int]{
		Scalar: func(value.Scalar) int { return 1 },
		List:   func(value.List) int { return 2 },
	}
	assert.Panics(t, func() { value.Visit[int](value.Null(), partial) })
}

func TestScalarsAndReferences(t *testing.T) {
	tree := value.NewList(
		value.Ref(5),
		value.Null(),
		value.NewList(value.Ref(7), value.Integer(7)),
		value.NewObject(2, 1, value.NewList(value.Ref(5))),
	)

	assert.Equal(t, []value.Scalar{
		value.Ref(5), value.Null(), value.Ref(7), value.Integer(7), value.Ref(5),
	}, value.Scalars(tree))
	assert.Equal(t, []uint32{5, 7, 5}, value.References(tree))
}

func TestDepth(t *testing.T) {
	tests := []struct {
		arg  value.Argument
		want int
	}{
		{value.Integer(1), 0},
		{value.NewList(), 1},
		{value.NewList(value.NewList(value.NewList(value.Real(1)))), 3},
		{value.NewList(value.NewObject(2, 1, value.NewList(value.NewList()))), 3},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.Equal(t, tt.want, value.Depth(tt.arg))
		})
	}
}

func TestEqual(t *testing.T) {
	build := func() value.List {
		return value.NewList(
			value.Text("a"),
			value.NewList(value.Real(1.5), value.Bool(false)),
			value.NewObject(2, 10, value.NewList(value.Integer(3))),
		)
	}

	if diff := cmp.Diff(build(), build(), cmp.Comparer(value.Equal)); diff != "" {
		t.Errorf("identical trees differ (-want +got):\n%s", diff)
	}

	assert.False(t, value.Equal(build(), value.NewList(value.Text("a"))))
	assert.False(t, value.Equal(value.Integer(1), value.Ref(1)))
	assert.False(t, value.Equal(
		value.NewObject(2, 10, value.NewList()),
		value.NewObject(2, 11, value.NewList()),
	))

	a := value.NewRecord(1, 5, build())
	b := value.NewRecord(1, 5, build())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(value.NewRecord(2, 5, build())))
}

type scalarNamer struct{}

func (scalarNamer) VisitNull() string           { return "null" }
func (scalarNamer) VisitText(s string) string   { return "text:" + s }
func (scalarNamer) VisitBool(b bool) string     { return fmt.Sprint("bool:", b) }
func (scalarNamer) VisitInteger(i int64) string { return fmt.Sprint("int:", i) }
func (scalarNamer) VisitRef(id uint32) string   { return fmt.Sprint("ref:", id) }
func (scalarNamer) VisitReal(f float64) string  { return fmt.Sprint("real:", f) }

func TestVisitScalar(t *testing.T) {
	got := []string{
		value.VisitScalar[string](value.Null(), scalarNamer{}),
		value.VisitScalar[string](value.Text("x"), scalarNamer{}),
		value.VisitScalar[string](value.Bool(true), scalarNamer{}),
		value.VisitScalar[string](value.Integer(-1), scalarNamer{}),
		value.VisitScalar[string](value.Ref(9), scalarNamer{}),
		value.VisitScalar[string](value.Real(2.5), scalarNamer{}),
	}
	want := []string{"null", "text:x", "bool:true", "int:-1", "ref:9", "real:2.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("VisitScalar mismatch (-want +got):\n%s", diff)
	}
}
