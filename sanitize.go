package safejson

import (
	"bytes"
	"encoding"
	"encoding/base64"
	stdjson "encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// jsonMarshaler matches json.Marshaler from either encoding/json or go-json.
type jsonMarshaler interface {
	MarshalJSON() ([]byte, error)
}

var (
	valuerType        = reflect.TypeFor[JSONValuer]()
	marshalerType     = reflect.TypeFor[jsonMarshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// stats counts what a single walk substituted.
type stats struct {
	edges     int
	circular  int
	faults    int
	truncated int
	redacted  int
}

// identity is the reference identity of a pointer, map or slice.
// The length distinguishes a slice from a shorter slice of the same array;
// the type distinguishes a struct from its first field.
type identity struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

// walker holds the state of one sanitization call. It is never shared.
type walker struct {
	cfg       *config
	ancestors map[identity]struct{}
	edges     int
	path      []string
	trackPath bool
	stats     stats
}

// sanitize walks v and returns a plain tree.
func sanitize(v any, cfg *config) (out any, st stats) {
	w := &walker{
		cfg:       cfg,
		ancestors: make(map[identity]struct{}),
		trackPath: cfg.redact.enabled(),
	}
	defer func() {
		if r := recover(); r != nil {
			w.stats.faults++
			out = throwsMarker(recovered(r))
		}
		w.stats.edges = w.edges
		st = w.stats
	}()
	return w.visit(reflect.ValueOf(v), 0, 0), w.stats
}

// visit sanitizes rv found at depth. hops counts consecutive hook
// substitutions and pointer dereferences, which do not increase depth.
func (w *walker) visit(rv reflect.Value, depth, hops int) any {
	if depth > w.cfg.maxDepth || hops > w.cfg.maxDepth {
		w.stats.truncated++
		return MarkerTruncated
	}

	for rv.IsValid() && rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		id := identity{typ: rv.Type(), ptr: rv.Pointer()}
		if rv.Kind() == reflect.Slice {
			id.n = rv.Len()
		}
		if _, ok := w.ancestors[id]; ok {
			w.stats.circular++
			return MarkerCircular
		}
		w.ancestors[id] = struct{}{}
		defer delete(w.ancestors, id)
	}

	if out, ok := w.hook(rv, depth, hops); ok {
		return out
	}

	switch rv.Kind() {
	case reflect.Ptr:
		return w.visit(rv.Elem(), depth, hops+1)
	case reflect.Struct:
		return w.visitStruct(rv, depth)
	case reflect.Map:
		return w.visitMap(rv, depth)
	case reflect.Slice:
		if isBytes(rv.Type()) {
			return base64.StdEncoding.EncodeToString(rv.Bytes())
		}
		return w.visitArray(rv, depth)
	case reflect.Array:
		return w.visitArray(rv, depth)
	}
	return scalar(rv)
}

// hook dispatches values that carry their own serialization.
func (w *walker) hook(rv reflect.Value, depth, hops int) (any, bool) {
	if !rv.CanInterface() {
		return nil, false
	}
	v := rv.Interface()
	switch val := v.(type) {
	case Object:
		return w.visitObject(val, depth), true
	case stdjson.Number:
		return number(string(val)), true
	}

	if out, ok := w.hookOf(v, depth, hops); ok {
		return out, true
	}
	if rv.Kind() != reflect.Ptr && rv.CanAddr() && rv.Addr().CanInterface() {
		return w.hookOf(rv.Addr().Interface(), depth, hops)
	}
	return nil, false
}

// hookOf applies the first capability v implements.
func (w *walker) hookOf(v any, depth, hops int) (any, bool) {
	switch h := v.(type) {
	case JSONValuer:
		out, err := call(h.JSONValue)
		if err != nil {
			w.stats.faults++
			return throwsMarker(err), true
		}
		return w.visit(reflect.ValueOf(out), depth, hops+1), true

	case jsonMarshaler:
		out, err := call(func() (any, error) {
			return decodeJSON(h.MarshalJSON())
		})
		if err != nil {
			w.stats.faults++
			return throwsMarker(err), true
		}
		return w.visit(reflect.ValueOf(out), depth, hops+1), true

	case error:
		msg, err := call(func() (string, error) {
			return h.Error(), nil
		})
		if err != nil {
			w.stats.faults++
			return throwsMarker(err), true
		}
		return Object{
			{Key: "name", Value: errorName(h)},
			{Key: "message", Value: msg},
		}, true

	case encoding.TextMarshaler:
		text, err := call(h.MarshalText)
		if err != nil {
			w.stats.faults++
			return throwsMarker(err), true
		}
		return string(text), true

	case Enumerable:
		return w.visitEnumerable(h, depth), true
	}
	return nil, false
}

// visitArray sanitizes slice and array elements in order.
func (w *walker) visitArray(rv reflect.Value, depth int) []any {
	n := rv.Len()
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		if w.exceeded(depth + 1) {
			w.stats.truncated++
			out = append(out, MarkerTruncated)
			break
		}
		w.push(pathWildcard)
		v := w.visit(rv.Index(i), depth+1, 0)
		w.pop()
		if IsUndefined(v) {
			v = nil
		}
		out = append(out, v)
	}
	return out
}

// visitObject sanitizes an ordered object given as input.
func (w *walker) visitObject(o Object, depth int) Object {
	out := make(Object, 0, len(o))
	for _, m := range o {
		if !w.member(&out, m.Key, depth, reflect.ValueOf(m.Value)) {
			break
		}
	}
	return out
}

// visitStruct sanitizes struct fields following the cached field plan.
func (w *walker) visitStruct(rv reflect.Value, depth int) Object {
	plan := planFor(rv.Type())
	out := make(Object, 0, len(plan.fields))
	for _, fp := range plan.fields {
		fv, ok := fp.field(rv)
		if !ok {
			continue
		}
		if fp.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if fp.redact {
			w.stats.redacted++
			out = append(out, Member{Key: fp.name, Value: fp.redactWith})
			continue
		}
		if !w.member(&out, fp.name, depth, fv) {
			break
		}
	}
	return out
}

// visitMap sanitizes map entries sorted by key, like encoding/json.
func (w *walker) visitMap(rv reflect.Value, depth int) Object {
	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: mapKey(iter.Key()), value: iter.Value()})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	out := make(Object, 0, len(entries))
	for _, e := range entries {
		if !w.member(&out, e.key, depth, e.value) {
			break
		}
	}
	return out
}

// visitEnumerable reads dynamic properties one at a time.
// A panicking enumeration keeps what was collected before it.
func (w *walker) visitEnumerable(e Enumerable, depth int) (out Object) {
	out = Object{}
	mark := len(w.path)
	defer func() {
		if r := recover(); r != nil {
			w.stats.faults++
			w.path = w.path[:mark]
		}
	}()

	for key := range e.Keys() {
		value, err := call(func() (any, error) {
			return e.Property(key)
		})
		if err != nil {
			w.stats.faults++
			value = throwsMarker(err)
		}
		if !w.member(&out, key, depth, reflect.ValueOf(value)) {
			break
		}
	}
	return out
}

// member appends the sanitized property key of a value at depth.
// It returns false once the edge budget is exhausted.
func (w *walker) member(out *Object, key string, depth int, value reflect.Value) bool {
	if w.trackPath && w.cfg.redact.redacts(w.path, key) {
		w.stats.redacted++
		*out = append(*out, Member{Key: key, Value: MarkerRedacted})
		return true
	}
	if w.exceeded(depth + 1) {
		w.stats.truncated++
		*out = append(*out, Member{Key: key, Value: MarkerTruncated})
		return false
	}

	w.push(key)
	v := w.visit(value, depth+1, 0)
	w.pop()
	if !IsUndefined(v) {
		*out = append(*out, Member{Key: key, Value: v})
	}
	return true
}

// exceeded counts one edge toward a child at depth and reports whether the
// edge budget now forbids visiting it.
func (w *walker) exceeded(depth int) bool {
	w.edges++
	return depth > w.cfg.minPreservedDepth && w.edges > w.cfg.maxEdges
}

func (w *walker) push(seg string) {
	if w.trackPath {
		w.path = append(w.path, seg)
	}
}

func (w *walker) pop() {
	if w.trackPath {
		w.path = w.path[:len(w.path)-1]
	}
}

// call runs fn inside a fault boundary.
func call[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return fn()
}

// decodeJSON turns MarshalJSON output into a generic value.
func decodeJSON(data []byte, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	var out any
	if err := gojson.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// scalar returns builtin scalars unchanged and reduces named scalar types to
// their builtin kind. Values with no JSON form become Undefined.
func scalar(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case reflect.Complex64, reflect.Complex128, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return Undefined
	}

	if rv.CanInterface() && rv.Type().PkgPath() == "" {
		return rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32:
		return float32(rv.Float())
	case reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	}
	return Undefined
}

// number converts a JSON number literal to int64 or float64.
func number(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// mapKey renders a map key the way encoding/json does.
func mapKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			text, err := call(tm.MarshalText)
			if err != nil {
				return throwsMarker(err)
			}
			return string(text)
		}
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10)
	}
	return fmt.Sprint(k)
}

// isBytes reports whether a slice type is encoded as base64, which
// encoding/json does unless the element type serializes itself.
func isBytes(t reflect.Type) bool {
	if t.Elem().Kind() != reflect.Uint8 {
		return false
	}
	pt := reflect.PointerTo(t.Elem())
	return !pt.Implements(valuerType) &&
		!pt.Implements(marshalerType) &&
		!pt.Implements(textMarshalerType)
}

// errorName names an error by its dynamic type, without the pointer star.
func errorName(err error) string {
	return strings.TrimPrefix(reflect.TypeOf(err).String(), "*")
}
