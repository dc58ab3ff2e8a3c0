package decoder

import (
	"io"
	"log/slog"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/runtime/lexer"
)

// DefaultMaxDepth bounds list nesting when WithMaxDepth is not given.
const DefaultMaxDepth = 1000

// Skip describes a token the decoder ignored.
type Skip struct {
	Type     lexer.TokenType
	Position lexer.Position
	Depth    int
}

// Option configures a decode.
type Option func(*config)

type config struct {
	maxDepth  int
	strict    bool
	onSkip    func(Skip)
	telemetry *Telemetry
	logger    *slog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.telemetry == nil {
		cfg.telemetry = &Telemetry{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}

// WithMaxDepth sets the nesting limit. The record's own argument list is
// depth 1; a list that would reach depth n fails with ErrNestingTooDeep.
func WithMaxDepth(n int) Option {
	invariant.Precondition(n >= 2, "WithMaxDepth: limit %d leaves no room for the argument list", n)
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithStrict makes unrecognized tokens (derived values, binaries) fail with
// ErrUnexpectedToken instead of being skipped.
func WithStrict() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithSkipHook calls fn for every token skipped in lenient mode.
func WithSkipHook(fn func(Skip)) Option {
	return func(c *config) {
		c.onSkip = fn
	}
}

// Telemetry counts decode events. Counts accumulate across decodes that
// share the same Telemetry; it is not safe for concurrent use.
type Telemetry struct {
	Scalars  int
	Lists    int // nested lists, excluding label lists
	Objects  int
	Skipped  int
	MaxDepth int // deepest list opened
}

// WithTelemetry accumulates counts into t.
func WithTelemetry(t *Telemetry) Option {
	return func(c *config) {
		c.telemetry = t
	}
}

// WithLogger sets the logger for debug tracing of skipped tokens.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
