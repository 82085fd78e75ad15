package safejson

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for processor events.
var (
	SignalProcessorCreated = capitan.NewSignal("safejson.processor.created", "Processor instantiated")
	SignalMarshalStart     = capitan.NewSignal("safejson.marshal.start", "Marshal operation beginning")
	SignalMarshalComplete  = capitan.NewSignal("safejson.marshal.complete", "Marshal operation finished")
)

// Keys for typed event data.
var (
	KeyContentType    = capitan.NewStringKey("content_type")
	KeySize           = capitan.NewIntKey("size")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
	KeyEdgeCount      = capitan.NewIntKey("edge_count")
	KeyCircularCount  = capitan.NewIntKey("circular_count")
	KeyFaultCount     = capitan.NewIntKey("fault_count")
	KeyTruncatedCount = capitan.NewIntKey("truncated_count")
	KeyRedactedCount  = capitan.NewIntKey("redacted_count")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
	)
}

// emitMarshalStart emits an event when marshal begins.
func emitMarshalStart(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalMarshalStart,
		KeyContentType.Field(contentType),
	)
}

// emitMarshalComplete emits an event when marshal finishes.
func emitMarshalComplete(ctx context.Context, contentType string, size int, duration time.Duration, st stats, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyEdgeCount.Field(st.edges),
		KeyCircularCount.Field(st.circular),
		KeyFaultCount.Field(st.faults),
		KeyTruncatedCount.Field(st.truncated),
		KeyRedactedCount.Field(st.redacted),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMarshalComplete, fields...)
	}
}
