package json

import (
	"math"
	"testing"

	"github.com/spineapi/skelfile/errors"
)

func TestDecodeOrder(t *testing.T) {
	o, err := DecodeObject([]byte(`{"z":1,"a":{"y":[1,2.5,"s",true,null],"b":false},"m":"x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	keys := o.Keys()
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "a" || keys[2] != "m" {
		t.Errorf("expected keys [z a m], got: %v", keys)
	}
	b, err := Marshal(o)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := `{"z":1,"a":{"y":[1,2.5,"s",true,null],"b":false},"m":"x"}`; string(b) != want {
		t.Errorf("expected %s, got: %s", want, b)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, doc := range []string{`{"a":`, `[1,2]`, `{"a":1}{}`} {
		_, err := DecodeObject([]byte(doc))
		if !errors.Is(err, errors.ErrMalformedJSON) {
			t.Errorf("%s: expected malformed JSON error, got: %v", doc, err)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v       float32
		precise bool
		s       string
	}{
		{0, false, "0"},
		{float32(math.Copysign(0, -1)), false, "0"},
		{float32(math.Copysign(0, -1)), true, "0"},
		{-0.000001, false, "-1e-06"},
		{45, false, "45"},
		{-3, false, "-3"},
		{1.5, false, "1.5"},
		{1.25, false, "1.25"},
		{1.234567, false, "1.23"},
		{1.234567, true, "1.234567"},
		{0.5, false, "0.5"},
		{0.1, false, "0.1"},
		{0.123456789, false, "0.12346"},
		{0.00002, false, "0.00002"},
		{0.000001, false, "1e-06"},
		{1e16, false, "1e+16"},
		{-2.5, false, "-2.5"},
		{255, false, "255"},
	}
	for _, test := range tests {
		if s := FormatFloat(test.v, test.precise); s != test.s {
			t.Errorf("%v (precise %v): expected %s, got: %s", test.v, test.precise, test.s, s)
		}
	}
}

func TestEncodeIndent(t *testing.T) {
	o := NewObject().
		Set("name", "root").
		Set("list", []interface{}{float32(1), 2}).
		Set("child", NewObject().Set("x", float32(0.5))).
		Set("empty", NewObject())
	b, err := Encoder{Indent: "\t"}.Encode(o)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := "{\n\t\"name\": \"root\",\n\t\"list\": [1, 2],\n\t\"child\": {\n\t\t\"x\": 0.5\n\t},\n\t\"empty\": {}\n}\n"
	if string(b) != want {
		t.Errorf("expected %q, got: %q", want, b)
	}
}

func TestGetter(t *testing.T) {
	o, err := DecodeObject([]byte(`{"x":2,"name":"a","flag":true,"list":[1,2],"child":{"n":"3"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	g := Get(o)
	if v := g.Float("x", 0); v != 2 {
		t.Errorf("expected 2, got: %v", v)
	}
	if v := g.Float("missing", 7); v != 7 {
		t.Errorf("expected default 7, got: %v", v)
	}
	if v := g.Str("name", ""); v != "a" {
		t.Errorf("expected a, got: %q", v)
	}
	if v := g.Bool("flag", false); !v {
		t.Error("expected true")
	}
	if v := g.Ints("list"); len(v) != 2 || v[1] != 2 {
		t.Errorf("expected [1 2], got: %v", v)
	}
	if err := g.Err(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	child := g.Object("child")
	child.Float("n", 0)
	err = g.Err()
	var jerr errors.JSONError
	if !errors.As(err, &jerr) {
		t.Fatalf("expected JSONError, got: %v", err)
	}
	if jerr.Path != "child.n" {
		t.Errorf("expected path child.n, got: %s", jerr.Path)
	}
}
