// Package testing provides hostile fixtures for exercising safejson.
package testing

import (
	"errors"
	"fmt"
	"iter"

	"github.com/zoobzio/safejson"
)

// Nest builds an object n levels deep where every level has m members named
// foo_0..foo_{m-1}. Leaves are the string "leaf".
func Nest(n, m int) any {
	if n == 0 {
		return "leaf"
	}
	obj := make(safejson.Object, m)
	for i := 0; i < m; i++ {
		obj[i] = safejson.Member{Key: fmt.Sprintf("foo_%d", i), Value: Nest(n-1, m)}
	}
	return obj
}

// Chain builds n levels of single-child nesting: {"next": {"next": ... "leaf"}}.
func Chain(n int) any {
	var v any = "leaf"
	for i := 0; i < n; i++ {
		v = map[string]any{"next": v}
	}
	return v
}

// Wrap nests v under the given keys, outermost first.
func Wrap(v any, keys ...string) any {
	for i := len(keys) - 1; i >= 0; i-- {
		v = safejson.Object{{Key: keys[i], Value: v}}
	}
	return v
}

// Failing is a JSONValuer whose hook always fails with Message.
type Failing struct {
	Message string
}

// JSONValue implements safejson.JSONValuer.
func (f Failing) JSONValue() (any, error) {
	return nil, errors.New(f.Message)
}

// Panicking is a JSONValuer whose hook panics with Value.
type Panicking struct {
	Value any
}

// JSONValue implements safejson.JSONValuer.
func (p Panicking) JSONValue() (any, error) {
	panic(p.Value)
}

// Getter reads one property of a Props value.
type Getter func() (any, error)

// Props is an Enumerable with ordered, possibly faulting, getters.
type Props struct {
	keys    []string
	getters map[string]Getter
	// PanicAfter makes Keys panic after yielding that many keys when >= 0.
	PanicAfter int
}

// NewProps returns an empty Props that never panics while enumerating.
func NewProps() *Props {
	return &Props{getters: make(map[string]Getter), PanicAfter: -1}
}

// Value adds a property holding v.
func (p *Props) Value(key string, v any) *Props {
	return p.Get(key, func() (any, error) { return v, nil })
}

// Get adds a property read through fn.
func (p *Props) Get(key string, fn Getter) *Props {
	p.keys = append(p.keys, key)
	p.getters[key] = fn
	return p
}

// Broken adds a property whose read fails with msg.
func (p *Props) Broken(key, msg string) *Props {
	return p.Get(key, func() (any, error) { return nil, errors.New(msg) })
}

// Keys implements safejson.Enumerable.
func (p *Props) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, k := range p.keys {
			if p.PanicAfter >= 0 && i >= p.PanicAfter {
				panic("enumeration failed")
			}
			if !yield(k) {
				return
			}
		}
	}
}

// Property implements safejson.Enumerable.
func (p *Props) Property(key string) (any, error) {
	fn, ok := p.getters[key]
	if !ok {
		return nil, fmt.Errorf("no property %q", key)
	}
	return fn()
}

// Node is a pointer-linked value for building cycles.
type Node struct {
	Name     string  `json:"name"`
	Parent   *Node   `json:"parent,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Payload returns an error-report shaped payload with a subsystem entry under
// events.[].metaData.
func Payload() safejson.Object {
	return safejson.Object{
		{Key: "apiKey", Value: "a1b2c3"},
		{Key: "events", Value: []any{
			safejson.Object{
				{Key: "severity", Value: "warning"},
				{Key: "app", Value: safejson.Object{
					{Key: "subsystem", Value: "unchanged"},
					{Key: "version", Value: "1.2.3"},
				}},
				{Key: "metaData", Value: safejson.Object{
					{Key: "subsystem", Value: safejson.Object{
						{Key: "name", Value: "fs reader"},
						{Key: "widgetsAdded", Value: 10},
					}},
					{Key: "request", Value: safejson.Object{
						{Key: "url", Value: "/widgets?page=2&size=10"},
					}},
				}},
			},
		}},
	}
}
