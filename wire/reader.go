// The wire package implements the primitive values of the binary skeleton
// format: big-endian fixed-width numbers, variable-length integers, and
// length-prefixed or table-indexed strings.
package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/anaminus/parse"
	"github.com/spineapi/skelfile/errors"
)

// DataError wraps an error that occurred while encoding or decoding byte data.
type DataError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// Reader reads primitive values from a byte slice. The first error that
// occurs is retained, after which every read returns a zero value.
type Reader struct {
	b       []byte
	fr      *parse.BinaryReader
	scratch [8]byte
	strings []string
}

// NewReader returns a Reader that reads from b.
func NewReader(b []byte) *Reader {
	return &Reader{b: b, fr: parse.NewBinaryReader(bytes.NewReader(b))}
}

// N returns the number of bytes read.
func (r *Reader) N() int64 {
	return r.fr.N()
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.b) - int(r.fr.N())
}

// Failed returns whether an error has occurred.
func (r *Reader) Failed() bool {
	return r.fr.Err() != nil
}

// Fail records err at the current offset, if no error was recorded yet.
func (r *Reader) Fail(err error) {
	if err != nil && r.fr.Err() == nil {
		r.fr.Add(0, DataError{Offset: r.fr.N(), Cause: err})
	}
}

// Err returns the first error that occurred, as a DataError.
func (r *Reader) Err() error {
	err := r.fr.Err()
	if err == nil {
		return nil
	}
	if _, ok := err.(DataError); ok {
		return err
	}
	return DataError{Offset: r.fr.N(), Cause: err}
}

// Close returns the first error that occurred, or an error if unread bytes
// remain.
func (r *Reader) Close() error {
	if r.fr.Err() == nil && r.Remaining() > 0 {
		r.Fail(errors.ErrTrailingData)
	}
	return r.Err()
}

func (r *Reader) read(p []byte) bool {
	if r.fr.Err() != nil {
		return false
	}
	if len(p) > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return false
	}
	return !r.fr.Bytes(p)
}

func (r *Reader) Byte() byte {
	p := r.scratch[:1]
	if !r.read(p) {
		return 0
	}
	return p[0]
}

func (r *Reader) Int8() int8 {
	return int8(r.Byte())
}

func (r *Reader) Bool() bool {
	return r.Byte() != 0
}

func (r *Reader) Int16() int16 {
	p := r.scratch[:2]
	if !r.read(p) {
		return 0
	}
	return int16(binary.BigEndian.Uint16(p))
}

func (r *Reader) Int32() int32 {
	p := r.scratch[:4]
	if !r.read(p) {
		return 0
	}
	return int32(binary.BigEndian.Uint32(p))
}

func (r *Reader) Int64() int64 {
	p := r.scratch[:8]
	if !r.read(p) {
		return 0
	}
	return int64(binary.BigEndian.Uint64(p))
}

// Float reads a big-endian IEEE 754 single precision number.
func (r *Reader) Float() float32 {
	p := r.scratch[:4]
	if !r.read(p) {
		return 0
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p))
}

// Floats reads n floats.
func (r *Reader) Floats(n int) []float32 {
	if n < 0 || n*4 > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return nil
	}
	a := make([]float32, n)
	for i := range a {
		a[i] = r.Float()
	}
	return a
}

// Uvarint reads a variable-length integer of 1 to 5 bytes, with 7 bits per
// byte, least significant group first.
func (r *Reader) Uvarint() uint32 {
	var v uint32
	for shift := 0; shift < 35; shift += 7 {
		b := r.Byte()
		if r.Failed() {
			return 0
		}
		v |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
	}
	return v
}

// Varint reads a variable-length integer optimized for positive values.
func (r *Reader) Varint() int {
	return int(int32(r.Uvarint()))
}

// Zigzag reads a variable-length integer with zig-zag encoding.
func (r *Reader) Zigzag() int32 {
	u := r.Uvarint()
	return int32(u>>1) ^ -int32(u&1)
}

// Count reads a varint that counts items of at least one byte each. Counts
// that exceed the remaining input are reported as truncated.
func (r *Reader) Count() int {
	n := r.Varint()
	if n < 0 || n > r.Remaining() {
		r.Fail(errors.ErrTruncatedInput)
		return 0
	}
	return n
}

// Index reads a varint index that must be less than n.
func (r *Reader) Index(kind string, n int) int {
	i := r.Varint()
	if r.Failed() {
		return -1
	}
	if i < 0 || i >= n {
		r.Fail(errors.ReferenceError{Kind: kind, Index: i})
		return -1
	}
	return i
}

// Str reads a string prefixed with its length plus one. An absent string is
// read as an empty string.
func (r *Reader) Str() string {
	s, _ := r.NullStr()
	return s
}

// NullStr reads a string prefixed with its length plus one, and reports
// whether it is present. A length of zero denotes an absent string.
func (r *Reader) NullStr() (string, bool) {
	n := r.Uvarint()
	if n == 0 || r.Failed() {
		return "", false
	}
	n--
	if uint64(n) > uint64(r.Remaining()) {
		r.Fail(errors.ErrTruncatedInput)
		return "", false
	}
	p := make([]byte, n)
	if !r.read(p) {
		return "", false
	}
	return string(p), true
}

// ReadTable reads a string table, which is then used to resolve Ref.
func (r *Reader) ReadTable() []string {
	n := r.Count()
	table := make([]string, 0, n)
	for i := 0; i < n && !r.Failed(); i++ {
		table = append(table, r.Str())
	}
	r.strings = table
	return table
}

// Ref reads a string by its position in the string table, plus one. Zero
// denotes an absent string, which is read as an empty string.
func (r *Reader) Ref() string {
	i := r.Varint()
	if i == 0 || r.Failed() {
		return ""
	}
	i--
	if i < 0 || i >= len(r.strings) {
		r.Fail(errors.ReferenceError{Kind: "string", Index: i})
		return ""
	}
	return r.strings[i]
}

// RGBA reads a color packed as 0xRRGGBBAA.
func (r *Reader) RGBA() uint32 {
	return uint32(r.Int32())
}
