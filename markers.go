package safejson

import (
	"fmt"
)

// Markers substituted for values that cannot or should not be serialized.
// These strings are part of the output contract.
const (
	// MarkerCircular replaces a back-edge to an ancestor.
	MarkerCircular = "[Circular]"

	// MarkerRedacted replaces a value matched by a redaction rule.
	MarkerRedacted = "[REDACTED]"

	// MarkerTruncated replaces values beyond the depth or edge budget.
	MarkerTruncated = "..."

	// MarkerThrowsUnknown replaces a faulting value whose fault has no message.
	MarkerThrowsUnknown = "[Throws: ?]"
)

// undefined is the type of Undefined.
type undefined struct{}

// Undefined marks a value that has no JSON representation.
// Object members holding it are omitted and array elements holding it are
// written as null. A Replacer may return it to drop a value.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// throwsMarker renders a fault as "[Throws: <message>]".
func throwsMarker(err error) string {
	msg, ok := faultMessage(err)
	if !ok {
		return MarkerThrowsUnknown
	}
	return "[Throws: " + msg + "]"
}

// faultMessage extracts a message from err without letting a hostile
// Error method escape.
func faultMessage(err error) (msg string, ok bool) {
	if err == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			msg, ok = "", false
		}
	}()
	msg = err.Error()
	return msg, msg != ""
}

// recovered converts a recovered panic value into an error.
func recovered(r any) error {
	if r == nil {
		return nil
	}
	var err error
	if e, ok := r.(error); ok {
		err = e
	}
	return &PanicError{Value: r, Err: err}
}

// PanicError wraps a value recovered from a panicking hook, accessor or
// enumeration.
type PanicError struct {
	Value any   // Value passed to panic
	Err   error // Value as an error, when it was one
}

func (e *PanicError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if s, ok := e.Value.(string); ok {
		return s
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	return e.Err
}
