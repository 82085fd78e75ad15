package safejson

import (
	"context"
	"time"
)

// Processor sanitizes values and marshals them with a Codec.
//
// Processors are safe for concurrent use. Options are resolved once at
// construction; every call walks its input with fresh traversal state.
type Processor struct {
	codec Codec
	cfg   *config
}

// NewProcessor creates a Processor for codec.
//
// Sanitization options (budgets, redaction) apply to every Marshal call.
// Encoding options such as WithIndent or WithReplacer are the codec's
// concern and are ignored here; pass them to the json codec instead.
func NewProcessor(codec Codec, opts ...Option) (*Processor, error) {
	if codec == nil {
		return nil, newConfigError("codec", "nil")
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		codec: codec,
		cfg:   cfg,
	}

	emitProcessorCreated(context.Background(), codec.ContentType())
	return p, nil
}

// ContentType returns the MIME type of the underlying codec.
func (p *Processor) ContentType() string {
	return p.codec.ContentType()
}

// Sanitize returns the plain tree Marshal would hand to the codec.
func (p *Processor) Sanitize(v any) any {
	out, _ := sanitize(v, p.cfg)
	return out
}

// Marshal sanitizes v and encodes the result with the processor's codec.
// The only errors come from the codec itself.
func (p *Processor) Marshal(ctx context.Context, v any) ([]byte, error) {
	start := time.Now()
	emitMarshalStart(ctx, p.codec.ContentType())

	var retErr error
	var retData []byte
	var st stats
	defer func() {
		emitMarshalComplete(ctx, p.codec.ContentType(),
			len(retData), time.Since(start), st, retErr)
	}()

	var tree any
	tree, st = sanitize(v, p.cfg)
	if IsUndefined(tree) {
		tree = nil
	}

	data, err := p.codec.Marshal(tree)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	retData = data
	return retData, nil
}
