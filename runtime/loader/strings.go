package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidEscape reports a malformed ISO 10303-21 string escape.
var ErrInvalidEscape = errors.New("invalid string escape")

// codePages are the pages selectable with \PA\ .. \PI\.
var codePages = [...]*charmap.Charmap{
	charmap.ISO8859_1, charmap.ISO8859_2, charmap.ISO8859_3,
	charmap.ISO8859_4, charmap.ISO8859_5, charmap.ISO8859_6,
	charmap.ISO8859_7, charmap.ISO8859_8, charmap.ISO8859_9,
}

// DecodeString decodes the body of a STEP string literal (without the
// surrounding quotes) into UTF-8.
//
// Supported directives:
//
//	''          apostrophe
//	\\          backslash
//	\S\c        c+128 in the active code page
//	\PA\..\PI\  select ISO 8859-1..9 as the active code page
//	\X\hh       one ISO 8859-1 character
//	\X2\...\X0\ UTF-16BE code units, four hex digits each
//	\X4\...\X0\ UTF-32 code points, eight hex digits each
//
// Bytes outside directives are copied unchanged, so files already written
// in UTF-8 pass through.
func DecodeString(raw string) (string, error) {
	if strings.IndexByte(raw, '\\') < 0 && strings.IndexByte(raw, '\'') < 0 {
		return raw, nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	page := codePages[0]

	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '\'':
			b.WriteByte('\'')
			i++
			if i < len(raw) && raw[i] == '\'' {
				i++
			}
		case ch != '\\':
			b.WriteByte(ch)
			i++
		case strings.HasPrefix(raw[i:], `\\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(raw[i:], `\S\`):
			if i+3 >= len(raw) {
				return "", escapeError(i, `\S\ without a character`)
			}
			b.WriteRune(page.DecodeByte(raw[i+3] | 0x80))
			i += 4
		case strings.HasPrefix(raw[i:], `\P`):
			if i+3 >= len(raw) || raw[i+3] != '\\' || raw[i+2] < 'A' || raw[i+2] > 'I' {
				return "", escapeError(i, "code page directive must be \\PA\\ .. \\PI\\")
			}
			page = codePages[raw[i+2]-'A']
			i += 4
		case strings.HasPrefix(raw[i:], `\X2\`):
			n, err := decodeWide(&b, raw, i, 4)
			if err != nil {
				return "", err
			}
			i = n
		case strings.HasPrefix(raw[i:], `\X4\`):
			n, err := decodeWide(&b, raw, i, 8)
			if err != nil {
				return "", err
			}
			i = n
		case strings.HasPrefix(raw[i:], `\X\`):
			if i+5 > len(raw) {
				return "", escapeError(i, `\X\ needs two hex digits`)
			}
			v, err := strconv.ParseUint(raw[i+3:i+5], 16, 8)
			if err != nil {
				return "", escapeError(i, `\X\ needs two hex digits`)
			}
			b.WriteRune(rune(v))
			i += 5
		default:
			return "", escapeError(i, "unknown directive")
		}
	}
	return b.String(), nil
}

// decodeWide decodes a \X2\ or \X4\ run starting at raw[start] and returns
// the index just past the closing \X0\.
func decodeWide(b *strings.Builder, raw string, start, width int) (int, error) {
	body := raw[start+4:]
	end := strings.Index(body, `\X0\`)
	if end < 0 {
		return 0, escapeError(start, `missing \X0\ terminator`)
	}
	hex := body[:end]
	if len(hex)%width != 0 {
		return 0, escapeError(start, fmt.Sprintf("hex run length %d is not a multiple of %d", len(hex), width))
	}

	if width == 4 {
		units := make([]byte, 0, len(hex)/2)
		for j := 0; j < len(hex); j += 2 {
			v, err := strconv.ParseUint(hex[j:j+2], 16, 8)
			if err != nil {
				return 0, escapeError(start, "invalid hex digit")
			}
			units = append(units, byte(v))
		}
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(units)
		if err != nil {
			return 0, escapeError(start, err.Error())
		}
		b.Write(decoded)
	} else {
		for j := 0; j < len(hex); j += width {
			v, err := strconv.ParseUint(hex[j:j+width], 16, 32)
			if err != nil {
				return 0, escapeError(start, "invalid hex digit")
			}
			r := rune(v)
			if !utf8.ValidRune(r) {
				return 0, escapeError(start, fmt.Sprintf("code point U+%X out of range", v))
			}
			b.WriteRune(r)
		}
	}
	return start + 4 + end + 4, nil
}

func escapeError(offset int, detail string) error {
	return fmt.Errorf("%w at byte %d: %s", ErrInvalidEscape, offset, detail)
}
