// Package loader turns a tokenized STEP file into a positioned token source.
//
// A Loader owns a cursor over an immutable token tape plus an index from
// express id to the first argument token of each entity instance. The cursor
// is not synchronized: one Loader serves one goroutine. Clone returns an
// independent cursor over the same tape for concurrent readers.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/runtime/lexer"
)

var (
	// ErrDuplicateID is returned when two instances share an express id.
	ErrDuplicateID = errors.New("duplicate express id")
	// ErrMalformedInstance is returned for a #id statement that is neither
	// #id=NAME(...) nor a complex #id=(...) instance.
	ErrMalformedInstance = errors.New("malformed entity instance")
)

// PayloadError reports a token whose text cannot be converted by a typed
// accessor, such as an integer that overflows int64.
type PayloadError struct {
	Type     lexer.TokenType
	Text     string
	Position lexer.Position
	Err      error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%d:%d: invalid %s payload %q: %v",
		e.Position.Line, e.Position.Column, e.Type, e.Text, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Option configures Load.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug tracing during load.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// entry locates one entity instance on the tape.
type entry struct {
	name     string
	lineType uint32
	args     int // index of the first argument token
}

// tape is shared, read-only state. It is never mutated after Load.
type tape struct {
	tokens []lexer.Token
	index  map[uint32]entry
	ids    []uint32 // sorted
}

// Loader is a cursor over a token tape.
type Loader struct {
	tape   *tape
	pos    int
	logger *slog.Logger
}

// Load tokenizes data and indexes its entity instances. Record type codes
// come from resolver; instances whose name it does not know get line type 0.
func Load(data []byte, resolver schema.Resolver, opts ...Option) (*Loader, error) {
	invariant.NotNil(resolver, "resolver")
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tokens, err := lexer.Tokenize(data, lexer.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	t := &tape{tokens: tokens, index: make(map[uint32]entry)}
	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].Type != lexer.LINE_END {
			continue
		}
		if err := t.indexStatement(start, i, resolver); err != nil {
			return nil, err
		}
		start = i + 1
	}
	slices.Sort(t.ids)

	cfg.logger.Debug("indexed model", "tokens", len(tokens), "instances", len(t.ids))
	return &Loader{tape: t, logger: cfg.logger}, nil
}

// indexStatement records the instance in tokens[start:end], if any.
// Statements not starting with #id (header entities, section keywords) are
// ignored.
func (t *tape) indexStatement(start, end int, resolver schema.Resolver) error {
	stmt := t.tokens[start:end]
	if len(stmt) == 0 || stmt[0].Type != lexer.REF {
		return nil
	}
	pos := stmt[0].Position
	id, err := strconv.ParseUint(string(stmt[0].Text), 10, 32)
	if err != nil || id == 0 {
		return fmt.Errorf("%d:%d: %w: id #%s", pos.Line, pos.Column, ErrMalformedInstance, stmt[0].Text)
	}
	if _, dup := t.index[uint32(id)]; dup {
		return fmt.Errorf("%d:%d: %w #%d", pos.Line, pos.Column, ErrDuplicateID, id)
	}

	var e entry
	switch {
	case len(stmt) >= 3 && stmt[1].Type == lexer.LABEL && stmt[2].Type == lexer.SET_BEGIN:
		e = entry{name: string(stmt[1].Text), args: start + 3}
		e.lineType = resolver.TypeCode(e.name)
	case len(stmt) >= 2 && stmt[1].Type == lexer.SET_BEGIN:
		// Complex instance #id=(A(...)B(...)); not a single typed record.
		e = entry{args: start + 2}
	default:
		return fmt.Errorf("%d:%d: %w #%d", pos.Line, pos.Column, ErrMalformedInstance, id)
	}

	t.index[uint32(id)] = e
	t.ids = append(t.ids, uint32(id))
	return nil
}

// Clone returns a new cursor over the same tape, positioned at the start.
func (l *Loader) Clone() *Loader {
	return &Loader{tape: l.tape, logger: l.logger}
}

// IsValidExpressID reports whether id names an indexed instance.
func (l *Loader) IsValidExpressID(id uint32) bool {
	_, ok := l.tape.index[id]
	return ok
}

// LineType returns the type code of instance id, or 0 if id is unknown or
// its entity name did not resolve.
func (l *Loader) LineType(id uint32) uint32 {
	return l.tape.index[id].lineType
}

// LineName returns the entity name of instance id as written in the file.
func (l *Loader) LineName(id uint32) (string, bool) {
	e, ok := l.tape.index[id]
	if !ok || e.name == "" {
		return "", false
	}
	return e.name, true
}

// ExpressIDs returns all instance ids in ascending order.
func (l *Loader) ExpressIDs() []uint32 {
	return slices.Clone(l.tape.ids)
}

// ExpressIDsWithType returns the ids of all instances with the given type
// code, in ascending order.
func (l *Loader) ExpressIDsWithType(code uint32) []uint32 {
	var out []uint32
	for _, id := range l.tape.ids {
		if l.tape.index[id].lineType == code {
			out = append(out, id)
		}
	}
	return out
}

// MaxExpressID returns the largest instance id, or 0 for an empty model.
func (l *Loader) MaxExpressID() uint32 {
	if len(l.tape.ids) == 0 {
		return 0
	}
	return l.tape.ids[len(l.tape.ids)-1]
}

// NumRecords returns the number of indexed instances.
func (l *Loader) NumRecords() int { return len(l.tape.ids) }

// NumTokens returns the length of the token tape.
func (l *Loader) NumTokens() int { return len(l.tape.tokens) }

// MoveToArgumentOffset positions the cursor on the n-th top-level argument
// of instance id; n == 0 is the first argument. If the instance has fewer
// than n arguments the cursor stops on the closing parenthesis.
func (l *Loader) MoveToArgumentOffset(id uint32, n int) {
	e, ok := l.tape.index[id]
	invariant.Precondition(ok, "MoveToArgumentOffset: #%d is not a valid express id", id)
	invariant.Precondition(n >= 0, "MoveToArgumentOffset: negative argument index %d", n)

	l.pos = e.args
	for i := 0; i < n; i++ {
		if !l.skipArgument() {
			break
		}
	}
}

// skipArgument advances past one argument, including nested lists and
// typed labels. It returns false if the cursor is on a terminator.
func (l *Loader) skipArgument() bool {
	tokens := l.tape.tokens
	if l.pos >= len(tokens) {
		return false
	}
	switch tokens[l.pos].Type {
	case lexer.SET_END, lexer.LINE_END:
		return false
	case lexer.LABEL:
		l.pos++
		if l.pos < len(tokens) && tokens[l.pos].Type == lexer.SET_BEGIN {
			l.skipList()
		}
	case lexer.SET_BEGIN:
		l.skipList()
	default:
		l.pos++
	}
	return true
}

// skipList advances past a balanced parenthesized list starting at the
// cursor. It stops early at a LINE_END or end of tape.
func (l *Loader) skipList() {
	tokens := l.tape.tokens
	depth := 0
	for l.pos < len(tokens) {
		switch tokens[l.pos].Type {
		case lexer.SET_BEGIN:
			depth++
		case lexer.SET_END:
			depth--
			if depth == 0 {
				l.pos++
				return
			}
		case lexer.LINE_END:
			return
		}
		l.pos++
	}
}
