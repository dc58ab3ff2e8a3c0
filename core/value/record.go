package value

import "github.com/opal-lang/rawline/core/invariant"

// Record is one decoded entity instance: #ID=TYPE(arguments).
// A Record with type code 0 is the "not found" sentinel and always has an
// empty argument list.
type Record struct {
	id        uint32
	typeCode  uint32
	arguments List
}

// NewRecord assembles a decoded record. typeCode must be non-zero; use
// EmptyRecord for absent records.
func NewRecord(id, typeCode uint32, arguments List) Record {
	invariant.Precondition(typeCode != 0, "record #%d: type code 0 is reserved for absent records", id)
	return Record{id: id, typeCode: typeCode, arguments: arguments}
}

// EmptyRecord returns the sentinel for an unknown model, an invalid id or an
// unresolved type.
func EmptyRecord() Record {
	return Record{}
}

// ID returns the express id, or 0 for the empty sentinel.
func (r Record) ID() uint32 { return r.id }

// Type returns the type code, or 0 for the empty sentinel.
func (r Record) Type() uint32 { return r.typeCode }

// Arguments returns the top-level argument list.
func (r Record) Arguments() List { return r.arguments }

// IsEmpty reports whether r is the empty sentinel.
func (r Record) IsEmpty() bool { return r.typeCode == 0 }
