// Package format renders decoded arguments and records for people and
// for other programs: STEP text, JSON, canonical CBOR and cty values.
package format

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
)

// Text renders list in STEP physical-file syntax, for example
// ('wall',#5,IFCLABEL('x'),.T.,$). Enumerants other than T and F decode
// to text and render as quoted strings.
func Text(list value.List, names schema.NameResolver) string {
	t := &textVisitor{names: names}
	value.Visit[struct{}](list, t)
	return string(t.buf)
}

// Record renders rec as a DATA section line, #id=NAME(...);. The empty
// record renders as "".
func Record(rec value.Record, names schema.NameResolver) string {
	if rec.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(strconv.FormatUint(uint64(rec.ID()), 10))
	b.WriteByte('=')
	b.WriteString(LabelName(rec.Type(), names))
	b.WriteString(Text(rec.Arguments(), names))
	b.WriteByte(';')
	return b.String()
}

// LabelName returns the entity name for code, or a placeholder when names
// cannot resolve it.
func LabelName(code uint32, names schema.NameResolver) string {
	if names != nil {
		if name, ok := names.Name(code); ok {
			return name
		}
	}
	if code == schema.Unknown {
		return "UNKNOWN"
	}
	return "TYPE_" + strconv.FormatUint(uint64(code), 10)
}

type textVisitor struct {
	names schema.NameResolver
	buf   []byte
}

func (t *textVisitor) VisitScalar(s value.Scalar) struct{} {
	t.buf = AppendScalar(t.buf, s)
	return struct{}{}
}

func (t *textVisitor) VisitList(l value.List) struct{} {
	t.buf = append(t.buf, '(')
	for i, item := range l.All() {
		if i > 0 {
			t.buf = append(t.buf, ',')
		}
		value.Visit[struct{}](item, t)
	}
	t.buf = append(t.buf, ')')
	return struct{}{}
}

func (t *textVisitor) VisitObject(o value.Object) struct{} {
	t.buf = append(t.buf, LabelName(o.TypeCode(), t.names)...)
	return t.VisitList(o.Value())
}

// AppendScalar appends the STEP form of s to dst.
func AppendScalar(dst []byte, s value.Scalar) []byte {
	return value.VisitScalar(s, scalarAppender{dst})
}

type scalarAppender struct{ dst []byte }

func (a scalarAppender) VisitNull() []byte { return append(a.dst, '$') }

func (a scalarAppender) VisitText(s string) []byte { return appendString(a.dst, s) }

func (a scalarAppender) VisitBool(b bool) []byte {
	if b {
		return append(a.dst, ".T."...)
	}
	return append(a.dst, ".F."...)
}

func (a scalarAppender) VisitInteger(i int64) []byte { return strconv.AppendInt(a.dst, i, 10) }

func (a scalarAppender) VisitRef(id uint32) []byte {
	return strconv.AppendUint(append(a.dst, '#'), uint64(id), 10)
}

// VisitReal always emits a decimal point: 3 renders as 3. and 1e-05 as 1.E-05.
func (a scalarAppender) VisitReal(f float64) []byte {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return append(a.dst, s...)
	}
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		return append(append(append(a.dst, s[:i]...), '.'), s[i:]...)
	}
	return append(append(a.dst, s...), '.')
}

var utf16Encoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// appendString quotes s. Non-ASCII runs are written as \X2\...\X0\ so the
// output is plain ASCII.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '\'')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'':
			dst = append(dst, '\'', '\'')
			i++
		case c == '\\':
			dst = append(dst, '\\', '\\')
			i++
		case c < utf8.RuneSelf:
			dst = append(dst, c)
			i++
		default:
			j := i
			for j < len(s) && s[j] >= utf8.RuneSelf {
				j++
			}
			dst = appendWide(dst, s[i:j])
			i = j
		}
	}
	return append(dst, '\'')
}

func appendWide(dst []byte, run string) []byte {
	units, err := utf16Encoder.NewEncoder().String(strings.ToValidUTF8(run, "\uFFFD"))
	invariant.Invariant(err == nil, "UTF-16 encoding of valid UTF-8 failed: %v", err)
	dst = append(dst, `\X2\`...)
	for i := 0; i < len(units); i++ {
		dst = append(dst, hexDigits[units[i]>>4], hexDigits[units[i]&0x0f])
	}
	return append(dst, `\X0\`...)
}

const hexDigits = "0123456789ABCDEF"
