package decoder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/rawline/core/format"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
	"github.com/opal-lang/rawline/runtime/decoder"
	"github.com/opal-lang/rawline/runtime/lexer"
	"github.com/opal-lang/rawline/runtime/loader"
)

var registry = schema.NewRegistry()

func load(t testing.TB, data string) *loader.Loader {
	t.Helper()
	l, err := loader.Load([]byte(data), registry)
	require.NoError(t, err)
	return l
}

// decodeRecord positions on id and decodes its arguments into a tree.
func decodeRecord(t *testing.T, l *loader.Loader, id uint32, opts ...decoder.Option) (value.List, decoder.Terminator, error) {
	t.Helper()
	l.MoveToArgumentOffset(id, 0)
	return decoder.DecodeArguments(l, registry, opts...)
}

func label(name string, items ...value.Argument) value.Object {
	return value.NewObject(int64(lexer.LABEL), schema.Code(name), value.NewList(items...))
}

var equalArgs = cmp.Comparer(value.Equal)

func TestDecodeShapes(t *testing.T) {
	l := load(t, `#1=IFCWALL('guid',#12,$,(1,2.5,'a'),IFCLABEL('x'),-7,IFCBOOLEAN(.T.),());`)

	got, term, err := decodeRecord(t, l, 1)
	require.NoError(t, err)
	assert.Equal(t, decoder.TermListEnd, term)

	want := value.NewList(
		value.Text("guid"),
		value.Ref(12),
		value.Null(),
		value.NewList(value.Integer(1), value.Real(2.5), value.Text("a")),
		label("IFCLABEL", value.Text("x")),
		value.Integer(-7),
		label("IFCBOOLEAN", value.Bool(true)),
		value.NewList(),
	)
	if diff := cmp.Diff(value.Argument(want), value.Argument(got), equalArgs); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumMapping(t *testing.T) {
	tests := []struct {
		enum string
		want value.Scalar
	}{
		{"T", value.Bool(true)},
		{"F", value.Bool(false)},
		{"U", value.Null()},
		{"X", value.Text("X")},
		{"NOTDEFINED", value.Text("NOTDEFINED")},
		{"TRUE", value.Text("TRUE")},
	}
	for _, tt := range tests {
		t.Run(tt.enum, func(t *testing.T) {
			l := load(t, "#1=IFCWALL(."+tt.enum+".);")
			got, _, err := decodeRecord(t, l, 1)
			require.NoError(t, err)
			require.Equal(t, 1, got.Len())
			assert.Equal(t, tt.want, got.At(0))
		})
	}
}

func TestTypedLabelObject(t *testing.T) {
	l := load(t, `#1=IFCWALL(IFCLABEL(),IFCNOTAREALTYPE(1,2));`)
	got, _, err := decodeRecord(t, l, 1)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())

	for _, arg := range got.Items() {
		obj, ok := arg.(value.Object)
		require.True(t, ok, "typed label must decode to an Object, got %T", arg)
		assert.Equal(t, []string{value.KeyType, value.KeyTypeCode, value.KeyValue}, obj.Keys())
		inner, ok := obj.Get(value.KeyValue)
		require.True(t, ok)
		assert.Equal(t, value.ShapeList, inner.Shape())
		assert.Equal(t, int64(lexer.LABEL), obj.TokenType())
	}

	empty := got.At(0).(value.Object)
	assert.Equal(t, 0, empty.Value().Len())
	assert.Equal(t, schema.Code("IFCLABEL"), empty.TypeCode())

	unknown := got.At(1).(value.Object)
	assert.Equal(t, schema.Unknown, unknown.TypeCode(), "unresolved labels still decode")
	assert.Equal(t, 2, unknown.Value().Len())
}

func TestNestingDepth(t *testing.T) {
	l := load(t, `#1=IFCWALL(((1)));`)

	got, _, err := decodeRecord(t, l, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, value.Depth(got))
	inner := got.At(0).(value.List).At(0).(value.List)
	assert.Equal(t, value.Integer(1), inner.At(0))

	_, _, err = decodeRecord(t, l, 1, decoder.WithMaxDepth(4))
	require.NoError(t, err)

	_, _, err = decodeRecord(t, l, 1, decoder.WithMaxDepth(3))
	require.ErrorIs(t, err, decoder.ErrNestingTooDeep)
	var de *decoder.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, de.Pos.Line)
}

func TestLabelListCountsTowardsDepth(t *testing.T) {
	l := load(t, `#1=IFCWALL((IFCLABEL('x')));`)
	_, _, err := decodeRecord(t, l, 1, decoder.WithMaxDepth(3))
	require.ErrorIs(t, err, decoder.ErrNestingTooDeep)
	_, _, err = decodeRecord(t, l, 1, decoder.WithMaxDepth(4))
	require.NoError(t, err)
}

func TestHostileNestingFailsCleanly(t *testing.T) {
	const n = 100_000
	input := "#1=IFCWALL(" + strings.Repeat("(", n) + strings.Repeat(")", n) + ");"
	l := load(t, input)
	_, _, err := decodeRecord(t, l, 1)
	require.ErrorIs(t, err, decoder.ErrNestingTooDeep)
}

func TestUnrecognizedTokens(t *testing.T) {
	const input = `#1=IFCWALL(1,*,"0FF",(*,2));`

	t.Run("lenient skips and reports", func(t *testing.T) {
		l := load(t, input)
		var skipped []decoder.Skip
		got, _, err := decodeRecord(t, l, 1, decoder.WithSkipHook(func(s decoder.Skip) {
			skipped = append(skipped, s)
		}))
		require.NoError(t, err)

		want := value.NewList(value.Integer(1), value.NewList(value.Integer(2)))
		if diff := cmp.Diff(value.Argument(want), value.Argument(got), equalArgs); diff != "" {
			t.Errorf("tree mismatch (-want +got):\n%s", diff)
		}

		want2 := []decoder.Skip{
			{Type: lexer.DERIVED, Position: lexer.Position{Line: 1, Column: 14, Offset: 13}, Depth: 1},
			{Type: lexer.BINARY, Position: lexer.Position{Line: 1, Column: 16, Offset: 15}, Depth: 1},
			{Type: lexer.DERIVED, Position: lexer.Position{Line: 1, Column: 23, Offset: 22}, Depth: 2},
		}
		if diff := cmp.Diff(want2, skipped); diff != "" {
			t.Errorf("skip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("strict fails", func(t *testing.T) {
		l := load(t, input)
		_, _, err := decodeRecord(t, l, 1, decoder.WithStrict())
		require.ErrorIs(t, err, decoder.ErrUnexpectedToken)
		assert.Contains(t, err.Error(), "DERIVED")
	})
}

func TestTelemetry(t *testing.T) {
	l := load(t, `#1=IFCWALL('a',*,(1,(2)),IFCLABEL('x'),$);#2=IFCSLAB(1);`)

	var tel decoder.Telemetry
	_, _, err := decodeRecord(t, l, 1, decoder.WithTelemetry(&tel))
	require.NoError(t, err)
	assert.Equal(t, decoder.Telemetry{Scalars: 5, Lists: 2, Objects: 1, Skipped: 1, MaxDepth: 3}, tel)

	_, _, err = decodeRecord(t, l, 2, decoder.WithTelemetry(&tel))
	require.NoError(t, err)
	assert.Equal(t, 6, tel.Scalars, "counts accumulate")
	assert.Equal(t, 3, tel.MaxDepth)
}

func TestMalformedStreams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"nested list closed by record end", `#1=IFCWALL((1;`, decoder.ErrUnbalanced},
		{"nested list runs off the end", `#1=IFCWALL((1`, decoder.ErrUnbalanced},
		{"label list closed by record end", `#1=IFCWALL(IFCLABEL('x';`, decoder.ErrUnbalanced},
		{"label without list", `#1=IFCWALL(IFCLABEL 5);`, decoder.ErrMissingLabelList},
		{"label at end of stream", `#1=IFCWALL(IFCLABEL`, decoder.ErrMissingLabelList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := load(t, tt.input)
			_, _, err := decodeRecord(t, l, 1)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMissingLabelListPointsAtLabel(t *testing.T) {
	l := load(t, "#1=IFCWALL(5,\n   IFCLABEL 7);")
	_, _, err := decodeRecord(t, l, 1)
	require.ErrorIs(t, err, decoder.ErrMissingLabelList)

	var de *decoder.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Pos.Line)
	assert.Equal(t, 4, de.Pos.Column)
	assert.Equal(t, "2:4: typed label without argument list: IFCLABEL", err.Error())
}

func TestTerminatorReported(t *testing.T) {
	tests := []struct {
		input string
		want  decoder.Terminator
	}{
		{`#1=IFCWALL(1);`, decoder.TermListEnd},
		{`#1=IFCWALL(1;`, decoder.TermRecordEnd},
		{`#1=IFCWALL(1`, decoder.TermEndOfStream},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			l := load(t, tt.input)
			got, term, err := decodeRecord(t, l, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, term)
			assert.Equal(t, 1, got.Len())
		})
	}
}

func TestPayloadErrorPropagates(t *testing.T) {
	l := load(t, `#1=IFCWALL(99999999999999999999);`)
	_, _, err := decodeRecord(t, l, 1)
	var pe *loader.PayloadError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, lexer.INTEGER, pe.Type)
}

func TestDecodeIsIdempotent(t *testing.T) {
	l := load(t, `#1=IFCWALL('a',(#2,(3.5,.F.)),IFCLABEL('x'),$);`)

	first, _, err := decodeRecord(t, l, 1)
	require.NoError(t, err)
	second, _, err := decodeRecord(t, l, 1)
	require.NoError(t, err)

	if diff := cmp.Diff(value.Argument(first), value.Argument(second), equalArgs); diff != "" {
		t.Errorf("second decode differs (-first +second):\n%s", diff)
	}
}

func TestSinksAgree(t *testing.T) {
	inputs := []string{
		`#1=IFCWALL();`,
		`#1=IFCWALL('it''s',#5,$,.T.,.F.,.U.,.ELEMENT.);`,
		`#1=IFCWALL((1,2),((3.),()),-4.5E-3);`,
		`#1=IFCWALL(IFCLABEL('x'),IFCUNKNOWNTHING((1,IFCREAL(2.))),'\X2\00E4\X0\');`,
		`#1=IFCWALL(1,*,"0FF",(*,2));`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			l := load(t, input)

			tree, treeTerm, err := decodeRecord(t, l, 1)
			require.NoError(t, err)

			l.MoveToArgumentOffset(1, 0)
			text := decoder.NewTextSink(registry)
			textTerm, err := decoder.Decode(l, registry, text)
			require.NoError(t, err)

			assert.Equal(t, treeTerm, textTerm)
			assert.Equal(t, format.Text(tree, registry), text.String())
		})
	}
}

func TestTextSinkOutput(t *testing.T) {
	l := load(t, `#1=IFCWALL('a',(1,2.),IFCLABEL('x'),.T.,$);`)
	l.MoveToArgumentOffset(1, 0)
	sink := decoder.NewTextSink(registry)
	_, err := decoder.Decode(l, registry, sink)
	require.NoError(t, err)
	assert.Equal(t, `('a',(1,2.),IFCLABEL('x'),.T.,$)`, sink.String())
}

func TestTreeSinkRejectsUnbalancedUse(t *testing.T) {
	s := decoder.NewTreeSink()
	assert.Panics(t, func() { s.EndList() })

	s = decoder.NewTreeSink()
	s.BeginList()
	assert.Panics(t, func() { s.EndObject() })

	s = decoder.NewTreeSink()
	s.BeginList()
	assert.Panics(t, func() { s.List() })
}

func TestWithMaxDepthRejectsNonsense(t *testing.T) {
	assert.Panics(t, func() { decoder.WithMaxDepth(1) })
}

func TestErrorFormatting(t *testing.T) {
	err := &decoder.Error{Pos: lexer.Position{Line: 3, Column: 9}, Err: decoder.ErrUnbalanced}
	assert.Equal(t, "3:9: unbalanced parentheses", err.Error())
	assert.True(t, errors.Is(err, decoder.ErrUnbalanced))

	rerr := &decoder.RecordError{ID: 42, Err: err}
	assert.Equal(t, "record #42: 3:9: unbalanced parentheses", rerr.Error())
	assert.True(t, errors.Is(rerr, decoder.ErrUnbalanced))
}

func FuzzDecode(f *testing.F) {
	seeds := []string{
		`#1=IFCWALL('a',#2,$,*,.T.,(1,2.5),IFCLABEL('x'));`,
		`#1=IFCWALL(((((`,
		`#1=IFCWALL(IFCLABEL;`,
		`#1=IFCWALL());`,
		`#1=IFCWALL(99999999999999999999,#99999999999);`,
		`#1=IFCWALL('\X2\D83D\X0\');`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		l, err := loader.Load([]byte(input), registry)
		if err != nil {
			return
		}
		for _, id := range l.ExpressIDs() {
			rec, err := decoder.GetRecord(l, registry, true, id, decoder.WithMaxDepth(64))
			if err == nil && !rec.IsEmpty() {
				// Both sinks must agree on anything the tree sink accepts.
				l.MoveToArgumentOffset(id, 0)
				text := decoder.NewTextSink(registry)
				if _, err := decoder.Decode(l, registry, text, decoder.WithMaxDepth(64)); err != nil {
					t.Fatalf("text sink failed where tree sink succeeded: %v", err)
				}
				if got, want := text.String(), format.Text(rec.Arguments(), registry); got != want {
					t.Fatalf("sinks disagree:\n tree: %s\n text: %s", want, got)
				}
			}
		}
	})
}
