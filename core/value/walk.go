package value

// Scalars flattens arg into its scalar leaves in depth-first source order.
// Object keys contribute only their inner list.
func Scalars(arg Argument) []Scalar {
	var out []Scalar
	var walk func(Argument) struct{}
	walk = func(a Argument) struct{} {
		return Visit(a, Funcs[struct{}]{
			Scalar: func(s Scalar) struct{} {
				out = append(out, s)
				return struct{}{}
			},
			List: func(l List) struct{} {
				for _, item := range l.items {
					walk(item)
				}
				return struct{}{}
			},
			Object: func(o Object) struct{} {
				return walk(o.value)
			},
		})
	}
	walk(arg)
	return out
}

// References returns every referenced record id in arg, in source order,
// duplicates included.
func References(arg Argument) []uint32 {
	var refs []uint32
	for _, s := range Scalars(arg) {
		if id, ok := s.AsRef(); ok {
			refs = append(refs, id)
		}
	}
	return refs
}

// Depth returns the list nesting depth of arg. A scalar has depth 0, a flat
// list depth 1. An object adds no depth of its own; its inner list does.
func Depth(arg Argument) int {
	return Visit[int](arg, depthVisitor{})
}

type depthVisitor struct{}

func (depthVisitor) VisitScalar(Scalar) int { return 0 }

func (d depthVisitor) VisitList(l List) int {
	deepest := 0
	for _, item := range l.items {
		if n := Visit[int](item, d); n > deepest {
			deepest = n
		}
	}
	return deepest + 1
}

func (d depthVisitor) VisitObject(o Object) int {
	return d.VisitList(o.value)
}

// Equal reports whether a and b have the same shape, order and payloads.
func Equal(a, b Argument) bool {
	if a.Shape() != b.Shape() {
		return false
	}
	return Visit(a, Funcs[bool]{
		Scalar: func(s Scalar) bool {
			return s == b.(Scalar)
		},
		List: func(l List) bool {
			other := b.(List)
			if len(l.items) != len(other.items) {
				return false
			}
			for i := range l.items {
				if !Equal(l.items[i], other.items[i]) {
					return false
				}
			}
			return true
		},
		Object: func(o Object) bool {
			other := b.(Object)
			return o.tokenType == other.tokenType &&
				o.typeCode == other.typeCode &&
				Equal(o.value, other.value)
		},
	})
}

// Equal reports whether two records carry the same id, type and arguments.
func (r Record) Equal(other Record) bool {
	return r.id == other.id && r.typeCode == other.typeCode && Equal(r.arguments, other.arguments)
}
