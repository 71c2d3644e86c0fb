// The errors package provides additional error primitives, along with the
// kinds of error reported while transcoding skeleton data.
package errors

import (
	"errors"
	"strconv"
	"strings"
)

func New(text string) error {
	return errors.New(text)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Errors is a list of errors. A conversion returns its warnings as an
// Errors.
type Errors []error

// Error formats the list by separating each message with a newline. Each
// produced line, including lines within messages, is prefixed with a tab.
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		var buf strings.Builder
		buf.WriteString(strconv.Itoa(len(errs)))
		buf.WriteString(" errors:")
		for _, err := range errs {
			buf.WriteString("\n\t")
			msg := err.Error()
			msg = strings.ReplaceAll(msg, "\n", "\n\t")
			buf.WriteString(msg)
		}
		return buf.String()
	}
}

// Append returns errs with each err appended to it. Arguments that are nil are
// skipped.
func (errs Errors) Append(err ...error) Errors {
	for _, err := range err {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Return prepares errs to be returned by a function by returning nil if errs is
// empty.
func (errs Errors) Return() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Unwrap returns the errors of the list, so that Is and As match any of them.
func (errs Errors) Unwrap() []error {
	return errs
}

// Filter returns the errors of the list that match target.
func (errs Errors) Filter(target error) Errors {
	var out Errors
	for _, err := range errs {
		if errors.Is(err, target) {
			out = append(out, err)
		}
	}
	return out
}
