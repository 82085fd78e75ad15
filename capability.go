package safejson

import (
	"iter"
)

// Capability interfaces let types take part in sanitization without the
// walker reflecting over their fields.
//
// The walker checks a value (and its address, when addressable) for these
// interfaces in the following order:
//
//  1. JSONValuer
//  2. json.Marshaler
//  3. error
//  4. encoding.TextMarshaler
//  5. Enumerable
//
// The first match wins. A hook that returns an error or panics is replaced
// by a "[Throws: <message>]" marker; it never aborts the surrounding walk.

// JSONValuer substitutes a value for the receiver before sanitization.
// The returned value is sanitized in place of the receiver, at the same depth.
type JSONValuer interface {
	// JSONValue returns the value that should be serialized instead of the
	// receiver.
	JSONValue() (any, error)
}

// Enumerable exposes dynamic, possibly faulting, properties.
//
// Use it for values backed by remote handles, lazily computed attributes or
// anything else where reading a property can fail. Keys are emitted in the
// order the iterator yields them.
type Enumerable interface {
	// Keys yields the property names. A panic inside the iterator stops the
	// enumeration; properties collected so far are kept.
	Keys() iter.Seq[string]

	// Property reads a single property. An error or panic replaces that
	// property's value with a fault marker and leaves its siblings intact.
	Property(key string) (any, error)
}
