package value

import "github.com/opal-lang/rawline/core/invariant"

// Visitor handles each Argument shape. It has no default method; a visitor
// that wants to ignore a shape implements that method as a no-op.
type Visitor[R any] interface {
	VisitScalar(Scalar) R
	VisitList(List) R
	VisitObject(Object) R
}

// Visit dispatches arg to exactly one method of v.
func Visit[R any](arg Argument, v Visitor[R]) R {
	switch a := arg.(type) {
	case Scalar:
		return v.VisitScalar(a)
	case List:
		return v.VisitList(a)
	case Object:
		return v.VisitObject(a)
	default:
		invariant.Unreachable("argument of type %T", arg)
		var zero R
		return zero
	}
}

// Funcs adapts three handler functions to Visitor. All three must be set.
//
// Example:
//
//	var count func(value.Argument) int
//	count = func(arg value.Argument) int {
//	    return value.Visit(arg, value.Funcs[int]{
//	        Scalar: func(value.Scalar) int { return 1 },
//	        List:   func(l value.List) int { ... recurse with count ... },
//	        Object: func(o value.Object) int { return count(o.Value()) },
//	    })
//	}
type Funcs[R any] struct {
	Scalar func(Scalar) R
	List   func(List) R
	Object func(Object) R
}

func (f Funcs[R]) VisitScalar(s Scalar) R {
	f.mustBeTotal()
	return f.Scalar(s)
}

func (f Funcs[R]) VisitList(l List) R {
	f.mustBeTotal()
	return f.List(l)
}

func (f Funcs[R]) VisitObject(o Object) R {
	f.mustBeTotal()
	return f.Object(o)
}

// mustBeTotal rejects partially filled Funcs on first use, whichever shape
// happens to be visited first.
func (f Funcs[R]) mustBeTotal() {
	invariant.Precondition(f.Scalar != nil && f.List != nil && f.Object != nil,
		"Funcs needs Scalar, List and Object handlers (scalar=%t list=%t object=%t)",
		f.Scalar != nil, f.List != nil, f.Object != nil)
}
