package safejson

import (
	stdjson "encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func mustEncode(t *testing.T, tree any, opts ...Option) string {
	t.Helper()
	b, err := Encode(tree, opts...)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return string(b)
}

func TestEncode_MatchesStandardIndentLayout(t *testing.T) {
	v := map[string]any{
		"a": []any{1, 2.5, "x"},
		"b": map[string]any{},
		"c": []any{},
		"d": map[string]any{"e": nil, "f": true},
	}

	want, err := stdjson.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent() error: %v", err)
	}
	got, err := Marshal(v, WithIndent(2))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncode_Indentation(t *testing.T) {
	obj := Object{{Key: "a", Value: 1}}

	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{"clamped width", WithIndent(20), "{\n" + strings.Repeat(" ", 10) + "\"a\": 1\n}"},
		{"zero width", WithIndent(0), `{"a":1}`},
		{"tab", WithIndentString("\t"), "{\n\t\"a\": 1\n}"},
		{"clamped string", WithIndentString("abcdefghijkl"), "{\nabcdefghij\"a\": 1\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustEncode(t, obj, tt.opt); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_Leaves(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"quotes and newline", "\"q\"\n", `"\"q\"\n"`},
		{"html", "<b>&</b>", `"<b>&</b>"`},
		{"float32", float32(0.1), `0.1`},
		{"NaN", math.NaN(), `null`},
		{"infinity", math.Inf(1), `null`},
		{"uint64", uint64(math.MaxUint64), `18446744073709551615`},
		{"negative", int8(-3), `-3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustEncode(t, tt.input); got != tt.want {
				t.Errorf("Encode(%v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncode_UndefinedMembers(t *testing.T) {
	obj := Object{{Key: "a", Value: Undefined}, {Key: "b", Value: 1}}
	if got := mustEncode(t, obj, WithIndent(2)); got != "{\n  \"b\": 1\n}" {
		t.Errorf("Encode() = %q", got)
	}
	if got := mustEncode(t, Object{{Key: "a", Value: Undefined}}, WithIndent(2)); got != "{}" {
		t.Errorf("Encode() = %q, want {}", got)
	}
	if got := mustEncode(t, []any{Undefined, 1}); got != `[null,1]` {
		t.Errorf("Encode() = %s, want [null,1]", got)
	}
}

func TestEncode_UndefinedRoot(t *testing.T) {
	if _, err := Encode(Undefined); !errors.Is(err, ErrUndefined) {
		t.Errorf("Encode(Undefined) error = %v, want ErrUndefined", err)
	}
}

func TestEncode_ReplacerMasksNumbers(t *testing.T) {
	in := Object{
		{Key: "a", Value: Object{
			{Key: "b", Value: 1},
			{Key: "c", Value: []any{Object{{Key: "d", Value: 2}}}},
		}},
	}
	mask := func(_ string, v any) any {
		if _, ok := v.(int); ok {
			return "***"
		}
		return v
	}

	want := `{"a":{"b":"***","c":[{"d":"***"}]}}`
	if got := mustEncode(t, in, WithReplacer(mask)); got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestEncode_ReplacerKeys(t *testing.T) {
	var keys []string
	record := func(k string, v any) any {
		keys = append(keys, k)
		return v
	}

	mustEncode(t, Object{{Key: "x", Value: []any{"p", "q"}}}, WithReplacer(record))

	want := []string{"", "x", "0", "1"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("replacer keys = %q, want %q", keys, want)
	}
}

func TestEncode_ReplacerDropsValues(t *testing.T) {
	drop := func(k string, v any) any {
		if k == "b" || k == "1" {
			return Undefined
		}
		return v
	}

	in := Object{{Key: "a", Value: []any{1, 2}}, {Key: "b", Value: 3}}
	if got := mustEncode(t, in, WithReplacer(drop)); got != `{"a":[1,null]}` {
		t.Errorf("Encode() = %s, want %s", got, `{"a":[1,null]}`)
	}

	root := func(string, any) any { return Undefined }
	if _, err := Encode(in, WithReplacer(root)); !errors.Is(err, ErrUndefined) {
		t.Errorf("Encode() error = %v, want ErrUndefined", err)
	}
}

func TestEncode_ReplacerResultIsSanitized(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	swap := func(k string, v any) any {
		switch k {
		case "p":
			return point{X: 1}
		case "f":
			return func() {}
		}
		return v
	}

	in := Object{{Key: "p", Value: nil}, {Key: "f", Value: nil}}
	if got := mustEncode(t, in, WithReplacer(swap)); got != `{"p":{"x":1}}` {
		t.Errorf("Encode() = %s, want %s", got, `{"p":{"x":1}}`)
	}
}

func TestEncode_AllowList(t *testing.T) {
	in := Object{
		{Key: "a", Value: Object{
			{Key: "b", Value: 1},
			{Key: "c", Value: []any{Object{{Key: "d", Value: 1}, {Key: "e", Value: 2}}}},
		}},
	}

	if got := mustEncode(t, in, WithAllowList("a", "c")); got != `{"a":{"c":[{}]}}` {
		t.Errorf("Encode() = %s, want %s", got, `{"a":{"c":[{}]}}`)
	}
	if got := mustEncode(t, in, WithAllowList()); got != `{}` {
		t.Errorf("Encode() with empty allow-list = %s, want {}", got)
	}

	ordered := Object{{Key: "b", Value: 1}, {Key: "a", Value: 2}}
	if got := mustEncode(t, ordered, WithAllowList("a", "b", "a")); got != `{"a":2,"b":1}` {
		t.Errorf("Encode() = %s, want %s", got, `{"a":2,"b":1}`)
	}
}

func TestObject_MarshalJSON(t *testing.T) {
	obj := Object{{Key: "z", Value: 1}, {Key: "a", Value: "x"}}

	b, err := stdjson.Marshal(obj)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	if string(b) != `{"z":1,"a":"x"}` {
		t.Errorf("json.Marshal(Object) = %s, want member order kept", b)
	}

	if v, ok := obj.Get("a"); !ok || v != "x" {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := obj.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
	if !reflect.DeepEqual(obj.Keys(), []string{"z", "a"}) {
		t.Errorf("Keys() = %v", obj.Keys())
	}
}

func TestEncode_CyclicTrees(t *testing.T) {
	loop := []any{1, nil}
	loop[1] = loop

	obj := Object{{Key: "a", Value: nil}}
	obj[0].Value = obj

	tests := []struct {
		name string
		run  func() error
	}{
		{"array", func() error {
			_, err := Encode(loop)
			return err
		}},
		{"object", func() error {
			_, err := Encode(obj)
			return err
		}},
		{"object MarshalJSON", func() error {
			_, err := obj.MarshalJSON()
			return err
		}},
		{"replacer result", func() error {
			_, err := Stringify(map[string]any{"x": 1}, WithReplacer(func(k string, v any) any {
				if k == "x" {
					return loop
				}
				return v
			}))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrCircular) {
				t.Errorf("error = %v, want ErrCircular", err)
			}
		})
	}
}

func TestEncode_SharedSiblingsAreNotCircular(t *testing.T) {
	shared := []any{1}
	if got := mustEncode(t, []any{shared, shared}); got != `[[1],[1]]` {
		t.Errorf("Encode() = %s, want [[1],[1]]", got)
	}

	member := Object{{Key: "k", Value: true}}
	if got := mustEncode(t, Object{{Key: "a", Value: member}, {Key: "b", Value: member}}); got != `{"a":{"k":true},"b":{"k":true}}` {
		t.Errorf("Encode() = %s", got)
	}
}

func TestEncode_Nesting(t *testing.T) {
	var deep any = 1
	for i := 0; i < maxNesting+1; i++ {
		deep = []any{deep}
	}
	if _, err := Encode(deep); !errors.Is(err, ErrNesting) {
		t.Errorf("Encode() error = %v, want ErrNesting", err)
	}

	grow := func(_ string, v any) any {
		return []any{v}
	}
	if _, err := Encode(1, WithReplacer(grow)); !errors.Is(err, ErrNesting) {
		t.Errorf("Encode() with growing replacer error = %v, want ErrNesting", err)
	}

	var ok any = 1
	for i := 0; i < maxNesting; i++ {
		ok = []any{ok}
	}
	if _, err := Encode(ok); err != nil {
		t.Errorf("Encode() at the nesting limit error = %v", err)
	}
}
