// Package value defines the generic argument tree produced by decoding one
// record of a STEP exchange file.
//
// An Argument has exactly one of three shapes:
//
//   - Scalar: null, text, boolean, integer, reference or real
//   - List: an ordered sequence of Arguments in source order
//   - Object: a typed label, NAME(...), carrying the label's token kind,
//     its resolved type code and the inner List
//
// Trees are built bottom-up by the decoder and are immutable once returned.
// Consumers traverse them with Visit, which dispatches to exactly one method
// of a Visitor. Because Visitor has one method per shape, adding a shape
// breaks every visitor at compile time instead of falling through silently.
package value
