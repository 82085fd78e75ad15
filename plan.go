package safejson

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

// tagRedact marks a struct field that is always redacted.
// The tag value replaces the field; an empty value means MarkerRedacted.
//
//	Password string `json:"password" redact:""`
//	Token    string `json:"token" redact:"***"`
const tagRedact = "redact"

func init() {
	sentinel.Tag(tagRedact)
}

// structPlan lists the serialized fields of a struct type in order.
type structPlan struct {
	typeName string
	fields   []fieldPlan
}

// fieldPlan describes how to read and name a single field.
type fieldPlan struct {
	index      []int  // reflect.Value.FieldByIndex access path
	name       string // output key
	omitEmpty  bool   // json ",omitempty"
	redact     bool   // field carries a redact tag
	redactWith string // replacement for redacted fields
	ptrIndices []int  // positions in index where an embedded pointer is dereferenced
}

// buildPlan creates the field plan for a struct type.
// Tags are read from sentinel metadata when the type was registered and
// from reflection otherwise.
func buildPlan(rt reflect.Type) *structPlan {
	plan := &structPlan{typeName: rt.String()}
	b := &planBuilder{
		plan:     plan,
		added:    map[string]bool{},
		visiting: map[reflect.Type]bool{},
	}
	b.build(rt, nil, nil, map[string]bool{})
	return plan
}

// planBuilder carries the state of one buildPlan call.
type planBuilder struct {
	plan     *structPlan
	added    map[string]bool       // output keys already planned
	visiting map[reflect.Type]bool // embedded types on the current path
}

// build appends the fields of rt in declaration order, promoting the fields
// of embedded structs at the embedding position. Names declared at a
// shallower level shadow promoted names; between siblings the first wins.
func (b *planBuilder) build(rt reflect.Type, parentIndex, ptrIndices []int, blocked map[string]bool) {
	if b.visiting[rt] {
		return
	}
	b.visiting[rt] = true
	defer delete(b.visiting, rt)

	meta, hasMeta := sentinel.Lookup(rt.String())

	shadow := make(map[string]bool, len(blocked)+rt.NumField())
	for name := range blocked {
		shadow[name] = true
	}
	for i := 0; i < rt.NumField(); i++ {
		if name, ok := directName(rt.Field(i)); ok {
			shadow[name] = true
		}
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fullIndex := append(append([]int{}, parentIndex...), i)

		if et, isPtr, ok := embeddedStruct(sf); ok {
			newPtr := ptrIndices
			if isPtr {
				newPtr = append(append([]int{}, ptrIndices...), len(fullIndex)-1)
			}
			b.build(et, fullIndex, newPtr, shadow)
			continue
		}

		name, ok := directName(sf)
		if !ok || blocked[name] || b.added[name] {
			continue
		}
		b.added[name] = true

		_, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		fp := fieldPlan{
			index:      fullIndex,
			name:       name,
			omitEmpty:  hasOption(opts, "omitempty"),
			ptrIndices: ptrIndices,
		}
		if val, ok := fieldTag(meta, hasMeta, sf, tagRedact); ok {
			fp.redact = true
			fp.redactWith = val
			if val == "" {
				fp.redactWith = MarkerRedacted
			}
		}
		b.plan.fields = append(b.plan.fields, fp)
	}
}

// directName returns the output key of a non-promoted field.
func directName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if _, _, ok := embeddedStruct(sf); ok {
		return "", false
	}
	if !sf.IsExported() {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, true
}

// embeddedStruct reports whether sf is an untagged embedded struct (or
// pointer to struct) whose fields are promoted.
func embeddedStruct(sf reflect.StructField) (reflect.Type, bool, bool) {
	if !sf.Anonymous {
		return nil, false, false
	}
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return nil, false, false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return nil, false, false
	}
	ft := sf.Type
	isPtr := ft.Kind() == reflect.Ptr
	if isPtr {
		ft = ft.Elem()
	}
	if ft.Kind() != reflect.Struct {
		return nil, false, false
	}
	return ft, isPtr, true
}

// fieldTag returns a tag value, preferring sentinel's cached metadata.
func fieldTag(meta sentinel.Metadata, hasMeta bool, sf reflect.StructField, key string) (string, bool) {
	if hasMeta {
		for _, fm := range meta.Fields {
			if fm.Name != sf.Name {
				continue
			}
			if val, ok := fm.Tags[key]; ok {
				return val, true
			}
			break
		}
	}
	return sf.Tag.Lookup(key)
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

// field navigates a field path, dereferencing embedded pointers as needed.
// It returns false when an embedded pointer on the path is nil.
func (fp fieldPlan) field(rv reflect.Value) (reflect.Value, bool) {
	if len(fp.ptrIndices) == 0 {
		return rv.FieldByIndex(fp.index), true
	}

	ptrSet := make(map[int]bool, len(fp.ptrIndices))
	for _, idx := range fp.ptrIndices {
		ptrSet[idx] = true
	}

	current := rv
	for i, idx := range fp.index {
		current = current.Field(idx)
		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}
	return current, true
}

// isEmptyValue mirrors encoding/json's omitempty rule.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
