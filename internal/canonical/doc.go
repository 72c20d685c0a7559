// Package canonical provides the ordered JSON value model used to persist
// dataset files in a normalized, diff-friendly form.
//
// Objects keep their members in insertion order; Sort produces a deep copy
// whose object members follow the canonical key order (locale-aware
// collation, byte order on ties). Arrays are never reordered by Sort, since
// element order is meaningful for several entry fields.
//
// MarshalPretty renders a value with a bounded line width: a value is kept
// on one line when it fits, otherwise it is expanded one element per line.
// Re-rendering an already rendered, already sorted value yields the same
// bytes.
package canonical
