package invariant_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opal-lang/rawline/core/invariant"
)

// panicMessage runs fn and returns the recovered panic message, or "" when
// fn returned normally.
func panicMessage(fn func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%v", r)
		}
	}()
	fn()
	return ""
}

func TestPreconditionPass(t *testing.T) {
	assert.Empty(t, panicMessage(func() {
		invariant.Precondition(true, "never shown")
	}))
}

func TestPreconditionFail(t *testing.T) {
	msg := panicMessage(func() {
		invariant.Precondition(false, "cursor at %d", 7)
	})
	assert.Contains(t, msg, "PRECONDITION VIOLATION")
	assert.Contains(t, msg, "cursor at 7")
	assert.Contains(t, msg, "at ")
}

func TestInvariantFail(t *testing.T) {
	msg := panicMessage(func() {
		invariant.Invariant(false, "stack underflow")
	})
	assert.Contains(t, msg, "INVARIANT VIOLATION: stack underflow")
}

func TestNotNil(t *testing.T) {
	var typedNil *int
	tests := []struct {
		name   string
		value  any
		panics bool
	}{
		{"untyped nil", nil, true},
		{"typed nil pointer", typedNil, true},
		{"nil slice", []int(nil), true},
		{"non-nil pointer", new(int), false},
		{"plain value", 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := panicMessage(func() { invariant.NotNil(tt.value, "value") })
			if tt.panics {
				assert.Contains(t, msg, "value must not be nil")
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestUnreachable(t *testing.T) {
	msg := panicMessage(func() { invariant.Unreachable("shape %d", 9) })
	assert.Contains(t, msg, "unreachable: shape 9")
}
