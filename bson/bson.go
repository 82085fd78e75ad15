// Package bson provides a BSON codec implementation.
//
// BSON documents must be objects at the top level. A root that is not an
// Object is wrapped as {"value": <root>}.
package bson

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zoobzio/safejson"
)

// rootKey holds non-document roots.
const rootKey = "value"

// bsonCodec implements safejson.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() safejson.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON, keeping Object member order.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	converted := toBSON(v)
	doc, ok := converted.(bson.D)
	if !ok {
		doc = bson.D{{Key: rootKey, Value: converted}}
	}
	return bson.Marshal(doc)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// toBSON maps Objects to bson.D and arrays to bson.A.
func toBSON(v any) any {
	switch val := v.(type) {
	case safejson.Object:
		doc := make(bson.D, 0, len(val))
		for _, m := range val {
			if safejson.IsUndefined(m.Value) {
				continue
			}
			doc = append(doc, bson.E{Key: m.Key, Value: toBSON(m.Value)})
		}
		return doc

	case []any:
		arr := make(bson.A, len(val))
		for i, elem := range val {
			arr[i] = toBSON(elem)
		}
		return arr
	}

	if safejson.IsUndefined(v) {
		return nil
	}
	return v
}
