// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/safejson"
)

// msgpackCodec implements safejson.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() safejson.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack, keeping Object member order.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encode(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// encode writes Objects as maps with explicit headers so members keep their
// order; other values go through the msgpack encoder.
func encode(enc *msgpack.Encoder, v any) error {
	switch val := v.(type) {
	case safejson.Object:
		n := 0
		for _, m := range val {
			if !safejson.IsUndefined(m.Value) {
				n++
			}
		}
		if err := enc.EncodeMapLen(n); err != nil {
			return err
		}
		for _, m := range val {
			if safejson.IsUndefined(m.Value) {
				continue
			}
			if err := enc.EncodeString(m.Key); err != nil {
				return err
			}
			if err := encode(enc, m.Value); err != nil {
				return err
			}
		}
		return nil

	case []any:
		if err := enc.EncodeArrayLen(len(val)); err != nil {
			return err
		}
		for _, elem := range val {
			if err := encode(enc, elem); err != nil {
				return err
			}
		}
		return nil
	}

	if safejson.IsUndefined(v) {
		return enc.EncodeNil()
	}
	return enc.Encode(v)
}
