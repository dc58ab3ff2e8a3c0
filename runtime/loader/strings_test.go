package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Wall-001", "Wall-001"},
		{"empty", "", ""},
		{"doubled apostrophe", "it''s", "it's"},
		{"backslash", `a\\b`, `a\b`},
		{"upper half latin1", `\S\D`, "Ä"},
		{"code page 5", `\PE\\S\a`, "с"},
		{"single hex", `Gr\X\FC\X\DFe`, "Grüße"},
		{"utf16", `\X2\00E400F6\X0\`, "äö"},
		{"utf16 surrogate pair", `\X2\D83DDE00\X0\`, "😀"},
		{"utf32", `\X4\0001F600\X0\!`, "😀!"},
		{"utf8 passthrough", "Türe", "Türe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"dangling S", `\S\`},
		{"bad page", `\PZ\`},
		{"short hex", `\X\F`},
		{"non hex", `\X\ZZ`},
		{"unterminated wide", `\X2\00E4`},
		{"odd wide run", `\X2\00E\X0\`},
		{"invalid code point", `\X4\00110000\X0\`},
		{"unknown directive", `\Q\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeString(tt.input)
			require.ErrorIs(t, err, ErrInvalidEscape)
		})
	}
}
