package wire

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/anaminus/parse"
	"github.com/spineapi/skelfile/errors"
)

// Writer appends primitive values to a buffer. The first error that occurs
// is retained, after which every write does nothing.
type Writer struct {
	buf     bytes.Buffer
	fw      *parse.BinaryWriter
	scratch [8]byte
	table   *StringTable
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.fw = parse.NewBinaryWriter(&w.buf)
	return w
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Failed returns whether an error has occurred.
func (w *Writer) Failed() bool {
	return w.fw.Err() != nil
}

// Fail records err at the current offset, if no error was recorded yet.
func (w *Writer) Fail(err error) {
	if err != nil && w.fw.Err() == nil {
		w.fw.Add(0, DataError{Offset: int64(w.buf.Len()), Cause: err})
	}
}

// Err returns the first error that occurred.
func (w *Writer) Err() error {
	err := w.fw.Err()
	if err == nil {
		return nil
	}
	if _, ok := err.(DataError); ok {
		return err
	}
	return DataError{Offset: int64(w.buf.Len()), Cause: err}
}

// Bytes returns the written bytes, or the first error that occurred.
func (w *Writer) Bytes() ([]byte, error) {
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func (w *Writer) write(p []byte) {
	if w.fw.Err() != nil {
		return
	}
	w.fw.Bytes(p)
}

func (w *Writer) Byte(b byte) {
	w.scratch[0] = b
	w.write(w.scratch[:1])
}

func (w *Writer) Int8(v int8) {
	w.Byte(byte(v))
}

func (w *Writer) Bool(v bool) {
	if v {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}

func (w *Writer) Int16(v int16) {
	binary.BigEndian.PutUint16(w.scratch[:2], uint16(v))
	w.write(w.scratch[:2])
}

func (w *Writer) Int32(v int32) {
	binary.BigEndian.PutUint32(w.scratch[:4], uint32(v))
	w.write(w.scratch[:4])
}

func (w *Writer) Int64(v int64) {
	binary.BigEndian.PutUint64(w.scratch[:8], uint64(v))
	w.write(w.scratch[:8])
}

// Float writes a big-endian IEEE 754 single precision number. The bits of v
// are written unchanged, including those of NaN values.
func (w *Writer) Float(v float32) {
	binary.BigEndian.PutUint32(w.scratch[:4], math.Float32bits(v))
	w.write(w.scratch[:4])
}

func (w *Writer) Floats(a []float32) {
	for _, v := range a {
		w.Float(v)
	}
}

// Uvarint writes v in as few bytes as possible, at most 5.
func (w *Writer) Uvarint(v uint32) {
	n := 0
	for v >= 0x80 {
		w.scratch[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	w.scratch[n] = byte(v)
	w.write(w.scratch[:n+1])
}

// Varint writes a variable-length integer optimized for positive values.
func (w *Writer) Varint(v int) {
	w.Uvarint(uint32(int32(v)))
}

// Zigzag writes a variable-length integer with zig-zag encoding.
func (w *Writer) Zigzag(v int32) {
	w.Uvarint(uint32(v<<1) ^ uint32(v>>31))
}

// Str writes a string prefixed with its length plus one. An empty string is
// written as absent.
func (w *Writer) Str(s string) {
	w.NullStr(s, s != "")
}

// NullStr writes s prefixed with its length plus one, or an absent string
// when ok is false.
func (w *Writer) NullStr(s string, ok bool) {
	if !ok {
		w.Varint(0)
		return
	}
	w.Varint(len(s) + 1)
	w.write([]byte(s))
}

// WriteTable writes the frozen strings of t, which is then used to resolve
// Ref.
func (w *Writer) WriteTable(t *StringTable) {
	strs := t.Strings()
	w.Varint(len(strs))
	for _, s := range strs {
		w.Str(s)
	}
	w.table = t
}

// Ref writes the position of s in the string table, plus one. An empty
// string is written as absent.
func (w *Writer) Ref(s string) {
	if s == "" {
		w.Varint(0)
		return
	}
	if w.table == nil {
		w.Fail(errors.ReferenceError{Kind: "string", Index: -1, Name: s})
		return
	}
	i, ok := w.table.Index(s)
	if !ok {
		w.Fail(errors.ReferenceError{Kind: "string", Index: -1, Name: s})
		return
	}
	w.Varint(i + 1)
}

// RGBA writes a color packed as 0xRRGGBBAA.
func (w *Writer) RGBA(c uint32) {
	w.Int32(int32(c))
}
