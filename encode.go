package safejson

import (
	"bytes"
	"math"
	"reflect"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// maxNesting bounds how many containers may be open at once while writing.
const maxNesting = 10000

// encoder writes a plain tree with JSON.stringify layout rules.
// Leaf strings and floats are encoded by go-json with HTML escaping off.
type encoder struct {
	buf       bytes.Buffer
	cfg       *config
	indent    string
	ancestors map[identity]struct{}
	nesting   int
}

// encode writes the tree rooted at v.
func (e *encoder) encode(v any) error {
	ok, err := e.property("", v)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUndefined
	}
	return nil
}

// property writes a value held under key, after the replacer has seen it.
// It returns false when the value is undefined and nothing was written.
func (e *encoder) property(key string, value any) (bool, error) {
	if e.cfg.replacer != nil {
		value = e.cfg.replacer(key, value)
	}
	return e.value(value)
}

func (e *encoder) value(value any) (bool, error) {
	switch v := value.(type) {
	case undefined:
		return false, nil
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(v))
	case string:
		return true, e.writeString(v)
	case int:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int8:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		e.buf.WriteString(strconv.FormatInt(v, 10))
	case uint:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		e.buf.WriteString(strconv.FormatUint(v, 10))
	case uintptr:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case float32:
		return true, e.writeFloat(v, float64(v))
	case float64:
		return true, e.writeFloat(v, v)
	case []any:
		return true, e.writeArray(v)
	case Object:
		return true, e.writeObject(v)
	default:
		// Replacers may hand back arbitrary values; make them plain first.
		out, _ := sanitize(v, e.cfg)
		if !isPlain(out) {
			return false, nil
		}
		return e.value(out)
	}
	return true, nil
}

func (e *encoder) writeString(s string) error {
	b, err := gojson.MarshalWithOption(s, gojson.DisableHTMLEscape())
	if err != nil {
		return err
	}
	e.buf.Write(b)
	return nil
}

// writeFloat writes a finite float; NaN and infinities become null.
func (e *encoder) writeFloat(v any, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.buf.WriteString("null")
		return nil
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	e.buf.Write(b)
	return nil
}

// enter opens a non-empty container. Trees handed to Encode or returned by
// a replacer may be cyclic or arbitrarily deep; both are errors, as in
// JSON.stringify.
func (e *encoder) enter(v any) (identity, error) {
	if e.nesting >= maxNesting {
		return identity{}, ErrNesting
	}
	rv := reflect.ValueOf(v)
	id := identity{typ: rv.Type(), ptr: rv.Pointer(), n: rv.Len()}
	if _, ok := e.ancestors[id]; ok {
		return identity{}, ErrCircular
	}
	if e.ancestors == nil {
		e.ancestors = make(map[identity]struct{})
	}
	e.ancestors[id] = struct{}{}
	e.nesting++
	return id, nil
}

func (e *encoder) leave(id identity) {
	delete(e.ancestors, id)
	e.nesting--
}

func (e *encoder) writeArray(arr []any) error {
	if len(arr) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	id, err := e.enter(arr)
	if err != nil {
		return err
	}
	defer e.leave(id)

	stepback := e.indent
	e.indent += e.cfg.gap
	e.buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline()
		ok, err := e.property(strconv.Itoa(i), elem)
		if err != nil {
			return err
		}
		if !ok {
			e.buf.WriteString("null")
		}
	}
	e.indent = stepback
	e.newline()
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) writeObject(obj Object) error {
	if len(obj) == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	id, err := e.enter(obj)
	if err != nil {
		return err
	}
	defer e.leave(id)

	members := obj
	if e.cfg.hasAllow {
		members = make(Object, 0, len(e.cfg.allowList))
		for _, k := range e.cfg.allowList {
			if v, ok := obj.Get(k); ok {
				members = append(members, Member{Key: k, Value: v})
			}
		}
	}

	stepback := e.indent
	e.indent += e.cfg.gap
	e.buf.WriteByte('{')
	wrote := false
	for _, m := range members {
		mark := e.buf.Len()
		if wrote {
			e.buf.WriteByte(',')
		}
		e.newline()
		if err := e.writeString(m.Key); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if e.cfg.gap != "" {
			e.buf.WriteByte(' ')
		}
		ok, err := e.property(m.Key, m.Value)
		if err != nil {
			return err
		}
		if !ok {
			e.buf.Truncate(mark)
			continue
		}
		wrote = true
	}
	e.indent = stepback
	if wrote {
		e.newline()
	}
	e.buf.WriteByte('}')
	return nil
}

// newline starts a new indented line when indentation is on.
func (e *encoder) newline() {
	if e.cfg.gap == "" {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(e.indent)
}

// isPlain reports whether v is a value the encoder writes directly.
func isPlain(v any) bool {
	switch v.(type) {
	case nil, bool, string, []any, Object, undefined:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return reflect.TypeOf(v).PkgPath() == ""
	}
	return false
}
