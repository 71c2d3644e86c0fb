package json

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Encoder writes JSON documents.
type Encoder struct {
	// Precise formats numbers with the shortest representation that reads
	// back to the same float32, instead of the fixed number of decimals.
	Precise bool
	// Indent is written once per nesting level before each member and
	// element. Output is compact when empty.
	Indent string
}

// Marshal encodes v with the default Encoder.
func Marshal(v interface{}) ([]byte, error) {
	return Encoder{}.Encode(v)
}

// Encode returns the JSON encoding of v.
func (e Encoder) Encode(v interface{}) ([]byte, error) {
	w := writer{enc: e}
	if err := w.value(v); err != nil {
		return nil, err
	}
	if e.Indent != "" {
		w.s.WriteByte('\n')
	}
	return []byte(w.s.String()), nil
}

type writer struct {
	enc  Encoder
	s    strings.Builder
	lead []byte
}

func (w *writer) push() {
	w.lead = append(w.lead, w.enc.Indent...)
}

func (w *writer) pop() {
	w.lead = w.lead[:len(w.lead)-len(w.enc.Indent)]
}

func (w *writer) newline() {
	if w.enc.Indent == "" {
		return
	}
	w.s.WriteByte('\n')
	w.s.Write(w.lead)
}

func (w *writer) value(v interface{}) error {
	switch v := v.(type) {
	case nil:
		w.s.WriteString("null")
	case bool:
		w.s.WriteString(strconv.FormatBool(v))
	case string:
		return w.string(v)
	case Number:
		w.s.WriteString(string(v))
	case float32:
		return w.float(v)
	case float64:
		return w.float(float32(v))
	case int:
		w.s.WriteString(strconv.Itoa(v))
	case int32:
		w.s.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		w.s.WriteString(strconv.FormatInt(v, 10))
	case uint8:
		w.s.WriteString(strconv.FormatUint(uint64(v), 10))
	case *Object:
		return w.object(v)
	case []interface{}:
		return w.array(v)
	default:
		return fmt.Errorf("json: unsupported type %T", v)
	}
	return nil
}

func (w *writer) string(s string) error {
	b, err := gojson.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	w.s.Write(b)
	return nil
}

func (w *writer) float(v float32) error {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return fmt.Errorf("json: unsupported number %v", v)
	}
	w.s.WriteString(FormatFloat(v, w.enc.Precise))
	return nil
}

func (w *writer) object(o *Object) error {
	w.s.WriteByte('{')
	if o == nil || o.Len() == 0 {
		w.s.WriteByte('}')
		return nil
	}
	w.push()
	for i, key := range o.keys {
		if i > 0 {
			w.s.WriteByte(',')
		}
		w.newline()
		if err := w.string(key); err != nil {
			return err
		}
		w.s.WriteByte(':')
		if w.enc.Indent != "" {
			w.s.WriteByte(' ')
		}
		if err := w.value(o.values[key]); err != nil {
			return err
		}
	}
	w.pop()
	w.newline()
	w.s.WriteByte('}')
	return nil
}

func scalar(v interface{}) bool {
	switch v.(type) {
	case *Object, []interface{}:
		return false
	}
	return true
}

// array writes v as a JSON array. Arrays of scalars are kept on one line.
func (w *writer) array(v []interface{}) error {
	w.s.WriteByte('[')
	if len(v) == 0 {
		w.s.WriteByte(']')
		return nil
	}
	inline := true
	for _, e := range v {
		if !scalar(e) {
			inline = false
			break
		}
	}
	if !inline {
		w.push()
	}
	for i, e := range v {
		if i > 0 {
			w.s.WriteByte(',')
			if inline && w.enc.Indent != "" {
				w.s.WriteByte(' ')
			}
		}
		if !inline {
			w.newline()
		}
		if err := w.value(e); err != nil {
			return err
		}
	}
	if !inline {
		w.pop()
		w.newline()
	}
	w.s.WriteByte(']')
	return nil
}

// FormatFloat formats v as a JSON number.
//
// Integral values below 1e16 are written without a fractional part. Values
// of at least 1e16, or non-zero values below 1e-5, are written in scientific
// notation. Other values are written with 2 decimals if at least 1, or 5
// decimals otherwise, without trailing zeros. When precise is set, the
// shortest representation that reads back to v is used instead of a fixed
// number of decimals.
func FormatFloat(v float32, precise bool) string {
	abs := math.Abs(float64(v))
	if abs >= 1e16 || (v != 0 && abs < 1e-5) {
		return strconv.FormatFloat(float64(v), 'e', -1, 32)
	}
	if v == 0 {
		return "0"
	}
	if float64(v) == math.Trunc(float64(v)) {
		return strconv.FormatFloat(float64(v), 'f', 0, 64)
	}
	if precise {
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	decimals := 5
	if abs >= 1 {
		decimals = 2
	}
	s := strconv.FormatFloat(float64(v), 'f', decimals, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}
