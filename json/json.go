// Package json provides a JSON codec implementation.
//
// Marshal writes sanitized trees with JSON.stringify layout rules, keeping
// object member order. Encoding options (indentation, replacer, allow-list)
// are fixed when the codec is created.
package json

import (
	gojson "github.com/goccy/go-json"

	"github.com/zoobzio/safejson"
)

// jsonCodec implements safejson.Codec for JSON.
type jsonCodec struct {
	opts []safejson.Option
}

// New returns a JSON codec. Only encoding options are meaningful here.
func New(opts ...safejson.Option) safejson.Codec {
	return &jsonCodec{opts: opts}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return safejson.Encode(v, c.opts...)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}
