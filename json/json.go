// The json package implements an order-preserving JSON tree, used to read and
// write the JSON skeleton formats.
//
// Decoded documents consist of *Object, []interface{}, string, Number, bool
// and nil values. The encoder additionally accepts float32, float64 and the
// integer types, and formats numbers deterministically.
package json

// Number is the literal text of a decoded JSON number.
type Number string

// Object is a JSON object that remembers the order of its keys.
type Object struct {
	keys   []string
	values map[string]interface{}
	// Location of the object within the decoded document.
	path string
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: map[string]interface{}{}}
}

// Len returns the number of members of the object.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys of the object in order.
func (o *Object) Keys() []string {
	return o.keys
}

// Get returns the value of a member.
func (o *Object) Get(key string) (v interface{}, ok bool) {
	v, ok = o.values[key]
	return v, ok
}

// Set sets the value of a member. A new member is added after the existing
// ones; an existing member keeps its position. Returns o.
func (o *Object) Set(key string, v interface{}) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// SetFloat sets a number member, unless v equals def.
func (o *Object) SetFloat(key string, v, def float32) *Object {
	if v != def {
		o.Set(key, v)
	}
	return o
}

// SetInt sets an integer member, unless v equals def.
func (o *Object) SetInt(key string, v, def int) *Object {
	if v != def {
		o.Set(key, v)
	}
	return o
}

// SetString sets a string member, unless v equals def.
func (o *Object) SetString(key, v, def string) *Object {
	if v != def {
		o.Set(key, v)
	}
	return o
}

// SetBool sets a boolean member, unless v equals def.
func (o *Object) SetBool(key string, v, def bool) *Object {
	if v != def {
		o.Set(key, v)
	}
	return o
}

// SetNonEmpty sets an object or array member, unless it is empty.
func (o *Object) SetNonEmpty(key string, v interface{}) *Object {
	switch v := v.(type) {
	case *Object:
		if v == nil || v.Len() == 0 {
			return o
		}
	case []interface{}:
		if len(v) == 0 {
			return o
		}
	}
	return o.Set(key, v)
}

// Floats returns a as an array value.
func Floats(a []float32) []interface{} {
	v := make([]interface{}, len(a))
	for i, f := range a {
		v[i] = f
	}
	return v
}

// Ints returns a as an array value.
func Ints(a []int) []interface{} {
	v := make([]interface{}, len(a))
	for i, n := range a {
		v[i] = n
	}
	return v
}

// Strings returns a as an array value.
func Strings(a []string) []interface{} {
	v := make([]interface{}, len(a))
	for i, s := range a {
		v[i] = s
	}
	return v
}
