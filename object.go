package safejson

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is an ordered JSON object.
//
// Sanitize emits Object for every property-bearing value so member order
// survives encoding. It may also be used as input: the walker treats it as a
// property-bearing value and keeps its member order.
type Object []Member

// Get returns the value of the first member named key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns member names in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// MarshalJSON encodes the object in member order.
func (o Object) MarshalJSON() ([]byte, error) {
	return Encode(o)
}
