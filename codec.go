package safejson

// Codec provides content-type aware marshaling.
//
// Codecs receive sanitized trees from a Processor. Implementations should
// keep the member order of Object values.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
