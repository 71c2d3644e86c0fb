package errors

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	// Indicates that the input ended before a value was fully read.
	ErrTruncatedInput = New("truncated input")
	// Indicates a version string that does not belong to the expected
	// generation.
	ErrUnexpectedVersion = New("unexpected version")
	// Indicates an index or name that does not refer to an existing item.
	ErrUnresolvedReference = New("unresolved reference")
	// Indicates a JSON document that does not have the expected structure.
	ErrMalformedJSON = New("malformed JSON")
	// Indicates that bytes remain after the last section was read.
	ErrTrailingData = New("unexpected data after end of skeleton")
	// Indicates data that a conversion dropped or approximated.
	ErrDataLoss = New("data lost in conversion")
)

// VersionError indicates that a skeleton belongs to a different generation
// than the one being read or written.
type VersionError struct {
	// Expected is the generation handled by the codec.
	Expected string
	// Got is the version that was encountered.
	Got string
}

func (err VersionError) Error() string {
	return fmt.Sprintf("unexpected version %q, expected %s", err.Got, err.Expected)
}

func (err VersionError) Is(target error) bool {
	return target == ErrUnexpectedVersion
}

// ReferenceError indicates a reference that could not be resolved.
type ReferenceError struct {
	// Kind describes the collection being referred to, such as "bone" or
	// "string".
	Kind string
	// Index is the unresolved index, or -1 when the reference is by name.
	Index int
	// Name is the unresolved name, if any.
	Name string
}

func (err ReferenceError) Error() string {
	var s strings.Builder
	s.WriteString("unresolved ")
	s.WriteString(err.Kind)
	s.WriteString(" reference")
	if err.Index >= 0 {
		s.WriteString(" ")
		s.WriteString(strconv.Itoa(err.Index))
	}
	if err.Name != "" {
		s.WriteString(" ")
		s.WriteString(strconv.Quote(err.Name))
	}
	return s.String()
}

func (err ReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// JSONError wraps an error that occurred at a location within a JSON
// document.
type JSONError struct {
	// Path locates the offending value, such as "bones[2].parent".
	Path string

	Cause error
}

func (err JSONError) Error() string {
	if err.Cause == nil {
		return "malformed JSON at " + err.Path
	}
	return "malformed JSON at " + err.Path + ": " + err.Cause.Error()
}

func (err JSONError) Is(target error) bool {
	return target == ErrMalformedJSON
}

func (err JSONError) Unwrap() error {
	return err.Cause
}
