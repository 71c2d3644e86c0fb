package json

import (
	"bytes"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/spineapi/skelfile/errors"
)

type decoder struct {
	dec *gojson.Decoder
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func malformed(path string, cause error) error {
	return errors.JSONError{Path: path, Cause: cause}
}

// Decode parses a JSON document, preserving the order of object members.
// Numbers are decoded as Number.
func Decode(b []byte) (v interface{}, err error) {
	dec := gojson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	d := decoder{dec: dec}
	if v, err = d.value(""); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("", errors.New("unexpected data after top-level value"))
	}
	return v, nil
}

// DecodeObject parses a JSON document whose top-level value is an object.
func DecodeObject(b []byte) (*Object, error) {
	v, err := Decode(b)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*Object)
	if !ok {
		return nil, malformed("", errors.New("expected object"))
	}
	return o, nil
}

func (d decoder) value(path string) (interface{}, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, malformed(path, err)
	}
	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			return d.object(path)
		case '[':
			return d.array(path)
		}
		return nil, malformed(path, errors.New("unexpected "+string(rune(v))))
	case gojson.Number:
		return Number(v), nil
	case float64:
		return Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case string, bool, nil:
		return v, nil
	}
	return nil, malformed(path, errors.New("unexpected token"))
}

func (d decoder) object(path string) (*Object, error) {
	o := NewObject()
	o.path = path
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, malformed(path, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, malformed(path, errors.New("expected object key"))
		}
		v, err := d.value(joinPath(path, key))
		if err != nil {
			return nil, err
		}
		o.Set(key, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, malformed(path, err)
	}
	return o, nil
}

func (d decoder) array(path string) ([]interface{}, error) {
	a := []interface{}{}
	for d.dec.More() {
		v, err := d.value(path + "[" + strconv.Itoa(len(a)) + "]")
		if err != nil {
			return nil, err
		}
		a = append(a, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, malformed(path, err)
	}
	return a, nil
}
