package safejson

import (
	"reflect"
	"testing"
)

type planBase struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	inner int
}

type planUser struct {
	planBase
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password" redact:""`
	Token    string `json:"token" redact:"***"`
	Skipped  string `json:"-"`
	Plain    int
}

type planLoop struct {
	*planLoop
	Value int `json:"value"`
}

type planPtrEmbed struct {
	*planBase
	Extra bool `json:"extra"`
}

func fieldNames(p *structPlan) []string {
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.name
	}
	return names
}

func TestBuildPlan_Fields(t *testing.T) {
	p := buildPlan(reflect.TypeFor[planUser]())

	want := []string{"id", "name", "email", "password", "token", "Plain"}
	if got := fieldNames(p); !reflect.DeepEqual(got, want) {
		t.Errorf("fields = %v, want %v", got, want)
	}

	// The outer Name shadows the promoted one.
	name := p.fields[1]
	if !reflect.DeepEqual(name.index, []int{1}) {
		t.Errorf("name index = %v, want [1]", name.index)
	}
	if !p.fields[2].omitEmpty {
		t.Error("email should be omitempty")
	}
	if !p.fields[3].redact || p.fields[3].redactWith != MarkerRedacted {
		t.Errorf("password redaction = %v %q", p.fields[3].redact, p.fields[3].redactWith)
	}
	if !p.fields[4].redact || p.fields[4].redactWith != "***" {
		t.Errorf("token redaction = %v %q", p.fields[4].redact, p.fields[4].redactWith)
	}
}

func TestBuildPlan_SelfEmbedding(t *testing.T) {
	p := buildPlan(reflect.TypeFor[planLoop]())
	if got := fieldNames(p); !reflect.DeepEqual(got, []string{"value"}) {
		t.Errorf("fields = %v, want [value]", got)
	}
}

func TestSanitize_Struct(t *testing.T) {
	u := planUser{
		planBase: planBase{ID: "1", Name: "hidden", inner: 3},
		Name:     "ada",
		Password: "hunter2",
		Token:    "t0k3n",
		Skipped:  "x",
		Plain:    7,
	}

	got := mustSanitize(t, u)
	want := Object{
		{Key: "id", Value: "1"},
		{Key: "name", Value: "ada"},
		{Key: "password", Value: MarkerRedacted},
		{Key: "token", Value: "***"},
		{Key: "Plain", Value: 7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sanitize() = %#v, want %#v", got, want)
	}
}

func TestSanitize_NilEmbeddedPointer(t *testing.T) {
	got := mustSanitize(t, planPtrEmbed{Extra: true})
	want := Object{{Key: "extra", Value: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sanitize() = %#v, want %#v", got, want)
	}

	got = mustSanitize(t, planPtrEmbed{planBase: &planBase{ID: "9"}})
	want = Object{
		{Key: "id", Value: "9"},
		{Key: "name", Value: ""},
		{Key: "extra", Value: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sanitize() = %#v, want %#v", got, want)
	}
}

func TestIsEmptyValue(t *testing.T) {
	var nilPtr *int
	tests := []struct {
		v    any
		want bool
	}{
		{"", true},
		{"x", false},
		{0, true},
		{uint(1), false},
		{0.0, true},
		{false, true},
		{[]int{}, true},
		{map[string]int{"a": 1}, false},
		{nilPtr, true},
		{struct{}{}, false},
	}
	for _, tt := range tests {
		if got := isEmptyValue(reflect.ValueOf(tt.v)); got != tt.want {
			t.Errorf("isEmptyValue(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestRegister(t *testing.T) {
	Reset()
	defer Reset()

	Register[planUser]()
	Register[*planUser]()
	Register[int]()

	registryMu.RLock()
	n := len(registry)
	cached := registry[reflect.TypeFor[planUser]()]
	registryMu.RUnlock()

	if n != 1 || cached == nil {
		t.Fatalf("registry holds %d plans, want only planUser", n)
	}
	if planFor(reflect.TypeFor[planUser]()) != cached {
		t.Error("planFor should return the registered plan")
	}
}

func TestPlanFor_Caches(t *testing.T) {
	Reset()
	defer Reset()

	rt := reflect.TypeFor[planBase]()
	first := planFor(rt)
	if planFor(rt) != first {
		t.Error("planFor should cache plans")
	}

	Reset()
	if planFor(rt) == first {
		t.Error("Reset should drop cached plans")
	}
}
