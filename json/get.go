package json

import (
	"strconv"

	"github.com/spineapi/skelfile/errors"
)

// Getter reads typed members of an Object. Missing members yield the given
// defaults. The first member of an unexpected type is retained as an error,
// after which every lookup returns its default. Getters derived from a Getter
// share its error.
type Getter struct {
	obj  *Object
	path string
	err  *error
}

// Get returns a Getter for o.
func Get(o *Object) *Getter {
	var err error
	return &Getter{obj: o, path: o.path, err: &err}
}

func (g *Getter) derive(o *Object, path string) *Getter {
	return &Getter{obj: o, path: path, err: g.err}
}

// Path returns the location of the object within its document.
func (g *Getter) Path() string {
	return g.path
}

// Err returns the first error that occurred.
func (g *Getter) Err() error {
	return *g.err
}

// Fail records an error for the member key, if no error was recorded yet.
func (g *Getter) Fail(key string, cause error) {
	if *g.err == nil {
		*g.err = errors.JSONError{Path: joinPath(g.path, key), Cause: cause}
	}
}

func (g *Getter) failType(key, want string) {
	g.Fail(key, errors.New("expected "+want))
}

// Has returns whether the object has the member key.
func (g *Getter) Has(key string) bool {
	_, ok := g.obj.values[key]
	return ok
}

// Keys returns the keys of the object in order.
func (g *Getter) Keys() []string {
	return g.obj.keys
}

// Value returns the raw value of a member.
func (g *Getter) Value(key string) (interface{}, bool) {
	return g.obj.Get(key)
}

func (g *Getter) lookup(key string) (interface{}, bool) {
	if *g.err != nil {
		return nil, false
	}
	v, ok := g.obj.values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ToFloat converts a number value.
func ToFloat(v interface{}) (float32, bool) {
	switch v := v.(type) {
	case Number:
		f, err := strconv.ParseFloat(string(v), 32)
		if err != nil {
			return 0, false
		}
		return float32(f), true
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	}
	return 0, false
}

// ToInt converts an integral number value.
func ToInt(v interface{}) (int, bool) {
	switch v := v.(type) {
	case Number:
		n, err := strconv.ParseInt(string(v), 10, 32)
		if err == nil {
			return int(n), true
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int(f), true
	case int:
		return v, true
	case int32:
		return int(v), true
	}
	return 0, false
}

func (g *Getter) Float(key string, def float32) float32 {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	f, ok := ToFloat(v)
	if !ok {
		g.failType(key, "number")
		return def
	}
	return f
}

func (g *Getter) Int(key string, def int) int {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	n, ok := ToInt(v)
	if !ok {
		g.failType(key, "integer")
		return def
	}
	return n
}

func (g *Getter) Bool(key string, def bool) bool {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		g.failType(key, "boolean")
		return def
	}
	return b
}

// Str returns a string member.
func (g *Getter) Str(key string, def string) string {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		g.failType(key, "string")
		return def
	}
	return s
}

// Require records an error if the member key is absent.
func (g *Getter) Require(key string) {
	if _, ok := g.lookup(key); !ok && *g.err == nil {
		g.Fail(key, errors.New("missing member"))
	}
}

// Object returns a Getter for an object member, or nil if it is absent.
func (g *Getter) Object(key string) *Getter {
	v, ok := g.lookup(key)
	if !ok {
		return nil
	}
	o, ok := v.(*Object)
	if !ok {
		g.failType(key, "object")
		return nil
	}
	return g.derive(o, joinPath(g.path, key))
}

// Array returns an array member, or nil if it is absent.
func (g *Getter) Array(key string) []interface{} {
	v, ok := g.lookup(key)
	if !ok {
		return nil
	}
	a, ok := v.([]interface{})
	if !ok {
		g.failType(key, "array")
		return nil
	}
	return a
}

// Objects returns Getters for an array of objects.
func (g *Getter) Objects(key string) []*Getter {
	a := g.Array(key)
	list := make([]*Getter, 0, len(a))
	for i, v := range a {
		o, ok := v.(*Object)
		if !ok {
			g.failType(key+"["+strconv.Itoa(i)+"]", "object")
			return nil
		}
		list = append(list, g.derive(o, joinPath(g.path, key)+"["+strconv.Itoa(i)+"]"))
	}
	return list
}

func (g *Getter) Floats(key string) []float32 {
	a := g.Array(key)
	if a == nil {
		return nil
	}
	list := make([]float32, len(a))
	for i, v := range a {
		f, ok := ToFloat(v)
		if !ok {
			g.failType(key+"["+strconv.Itoa(i)+"]", "number")
			return nil
		}
		list[i] = f
	}
	return list
}

func (g *Getter) Ints(key string) []int {
	a := g.Array(key)
	if a == nil {
		return nil
	}
	list := make([]int, len(a))
	for i, v := range a {
		n, ok := ToInt(v)
		if !ok {
			g.failType(key+"["+strconv.Itoa(i)+"]", "integer")
			return nil
		}
		list[i] = n
	}
	return list
}

func (g *Getter) Strings(key string) []string {
	a := g.Array(key)
	if a == nil {
		return nil
	}
	list := make([]string, len(a))
	for i, v := range a {
		s, ok := v.(string)
		if !ok {
			g.failType(key+"["+strconv.Itoa(i)+"]", "string")
			return nil
		}
		list[i] = s
	}
	return list
}
