package lexer

import "strconv"

// TokenType classifies a STEP token. The order of the first eleven values
// matches web-ifc's IfcTokenType so numeric codes stored in decoded trees
// stay comparable with that implementation.
type TokenType int

const (
	UNKNOWN   TokenType = iota // never produced by the lexer; zero value
	STRING                     // 'text' (raw, still escaped)
	LABEL                      // IFCWALL, FILE_NAME, ISO-10303-21
	ENUM                       // .T. .ELEMENT.
	REAL                       // 1.5 -2. 1.E-5
	REF                        // #123
	EMPTY                      // $
	SET_BEGIN                  // (
	SET_END                    // )
	LINE_END                   // ;
	INTEGER                    // 42 -7

	// Tokens without a decoded representation.
	DERIVED // * (derived attribute)
	BINARY  // "0FF" binary literal

	// EOF is returned by NextToken when input is exhausted. It is never
	// stored on a token tape.
	EOF
)

var tokenNames = [...]string{
	UNKNOWN:   "UNKNOWN",
	STRING:    "STRING",
	LABEL:     "LABEL",
	ENUM:      "ENUM",
	REAL:      "REAL",
	REF:       "REF",
	EMPTY:     "EMPTY",
	SET_BEGIN: "SET_BEGIN",
	SET_END:   "SET_END",
	LINE_END:  "LINE_END",
	INTEGER:   "INTEGER",
	DERIVED:   "DERIVED",
	BINARY:    "BINARY",
	EOF:       "EOF",
}

// String returns the token type name.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// Position is a location in the source.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in bytes
	Offset int // 0-based byte offset
}

// Token is one lexical unit. Text aliases the input buffer and holds the
// payload without delimiters: the string body without quotes, the enum
// without dots, the reference digits without '#'. Delimiter tokens have
// empty Text.
type Token struct {
	Type     TokenType
	Text     []byte
	Position Position
}

// String returns the token text.
func (t Token) String() string {
	return string(t.Text)
}

// Symbol returns the source form of the token, re-adding delimiters.
func (t Token) Symbol() string {
	switch t.Type {
	case STRING:
		return "'" + string(t.Text) + "'"
	case ENUM:
		return "." + string(t.Text) + "."
	case REF:
		return "#" + string(t.Text)
	case BINARY:
		return `"` + string(t.Text) + `"`
	case EMPTY:
		return "$"
	case SET_BEGIN:
		return "("
	case SET_END:
		return ")"
	case LINE_END:
		return ";"
	case DERIVED:
		return "*"
	default:
		return string(t.Text)
	}
}
