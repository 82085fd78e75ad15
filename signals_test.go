package safejson

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitProcessorCreated(_ *testing.T) {
	// Should not panic
	emitProcessorCreated(context.Background(), "application/json")
}

func TestEmitMarshalStart(_ *testing.T) {
	emitMarshalStart(context.Background(), "application/json")
}

func TestEmitMarshalComplete_Success(_ *testing.T) {
	st := stats{edges: 12, circular: 1, faults: 2, truncated: 3, redacted: 4}
	emitMarshalComplete(context.Background(), "application/json", 128, 100*time.Millisecond, st, nil)
}

func TestEmitMarshalComplete_Error(_ *testing.T) {
	emitMarshalComplete(context.Background(), "application/json", 0, 100*time.Millisecond, stats{}, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalProcessorCreated", SignalProcessorCreated},
		{"SignalMarshalStart", SignalMarshalStart},
		{"SignalMarshalComplete", SignalMarshalComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyContentType", KeyContentType},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
		{"KeyEdgeCount", KeyEdgeCount},
		{"KeyCircularCount", KeyCircularCount},
		{"KeyFaultCount", KeyFaultCount},
		{"KeyTruncatedCount", KeyTruncatedCount},
		{"KeyRedactedCount", KeyRedactedCount},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
