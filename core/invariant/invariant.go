// Package invariant provides contract assertions for rawline.
//
// Assertions guard the contracts between the token source, the decoder and
// the value model. A violation is a bug in the caller, never a property of
// the input file, so every function here panics instead of returning an
// error. Malformed input is reported through ordinary error returns.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func (l *Loader) StepBack() {
//	    invariant.Precondition(l.pos > 0, "step back before first token")
//	    l.pos--
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks internal consistency during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Example:
//
//	invariant.Invariant(len(s.stack) > 0, "list stack underflow")
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*T)(nil)
// stored in an interface.
func NotNil(value any, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// Unreachable panics unconditionally. Use it for the default arm of a
// switch over a closed set of cases.
func Unreachable(format string, args ...any) {
	fail("INVARIANT", "unreachable: "+format, args...)
}

// fail panics with a formatted message and the caller location.
func fail(kind, format string, args ...any) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]any{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
