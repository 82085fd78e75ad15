// Package safejson turns arbitrary, possibly cyclic, possibly hostile value
// graphs into plain trees that always serialize.
//
// It is meant for the telemetry path: logging a request, an event payload or
// an error report must never crash, hang or explode in size because of the
// value being logged.
//
// # Sanitizing
//
// Sanitize walks a value and returns a plain tree made of nil, booleans,
// numbers, strings, []any and Object. Along the way:
//
//   - back-references to an ancestor become "[Circular]";
//   - hooks and property reads that fail or panic become "[Throws: <message>]";
//   - values nested deeper than the depth budget become "...";
//   - once the edge budget is spent, values below the preserved depth become "...";
//   - properties matched by redaction rules become "[REDACTED]".
//
// The same object referenced from two sibling positions is serialized twice;
// only references back to an ancestor are circular.
//
// # Encoding
//
// Stringify and Marshal sanitize and then write JSON with the layout rules
// of JavaScript's JSON.stringify:
//
//	out, err := safejson.Stringify(event,
//	    safejson.WithIndent(2),
//	    safejson.WithRedactedKeys("password", "token"),
//	    safejson.WithRedactedPaths("events.[].metaData"),
//	)
//
// A Replacer and an allow-list work as they do in JSON.stringify.
//
// # Capabilities
//
// Types control their serialization by implementing:
//
//   - JSONValuer: substitute another value
//   - json.Marshaler: custom JSON, decoded and sanitized again
//   - error: serialized as {"name": <type>, "message": <Error()>}
//   - encoding.TextMarshaler: serialized as a string
//   - Enumerable: dynamic properties whose reads may fail
//
// Struct fields follow encoding/json tags. A `redact:"..."` tag always
// replaces the field with the tag value, or "[REDACTED]" when it is empty.
//
// # Processors and codecs
//
// Processor binds sanitization to a Codec and emits capitan signals for each
// operation. Codec implementations preserving member order live in the json,
// yaml, msgpack and bson subpackages.
package safejson

// Sanitize returns a plain, acyclic, bounded copy of v.
//
// Faults in v never produce an error; the only error is an invalid option.
func Sanitize(v any, opts ...Option) (any, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	out, _ := sanitize(v, cfg)
	return out, nil
}

// Marshal sanitizes v and encodes it as JSON.
// ErrUndefined is returned when the root has no JSON form, for example when
// the replacer discards it.
func Marshal(v any, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	tree, _ := sanitize(v, cfg)
	return encodeTree(tree, cfg)
}

// Stringify is Marshal returning a string.
func Stringify(v any, opts ...Option) (string, error) {
	b, err := Marshal(v, opts...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Encode writes an already sanitized tree as JSON without walking it first.
// Values that are not plain are sanitized as they are reached. A tree that
// contains itself yields ErrCircular and one nested deeper than 10000
// containers yields ErrNesting.
func Encode(tree any, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return encodeTree(tree, cfg)
}

func encodeTree(tree any, cfg *config) ([]byte, error) {
	e := &encoder{cfg: cfg}
	if err := e.encode(tree); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}
