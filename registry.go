package safejson

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	registry   = make(map[reflect.Type]*structPlan)
	registryMu sync.RWMutex
)

// planFor returns the cached field plan for a struct type or builds one.
func planFor(rt reflect.Type) *structPlan {
	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[rt]; ok {
		registryMu.RUnlock()
		return cached
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[rt]; ok {
		return cached
	}

	plan := buildPlan(rt)
	registry[rt] = plan
	return plan
}

// Register scans struct type T ahead of use.
// Its metadata is cached by sentinel and its field plan by this package, so
// the first Sanitize call on a T does no tag parsing. Types other than
// structs are ignored.
func Register[T any]() {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return
	}
	sentinel.Scan[T]()

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[rt] = buildPlan(rt)
}

// Reset clears the field plan registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*structPlan)
}
