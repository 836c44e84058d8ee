package arrowconv

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// ErrTypeMismatch is a sentinel for use with errors.Is to check whether any
// error in a chain is a *TypeMismatchError.
var ErrTypeMismatch = &TypeMismatchError{}

var (
	// ErrInvalidValue is wrapped by errors for native values the target
	// column cannot hold (invalid UTF-8, offset overflow, out of range time).
	ErrInvalidValue = errors.New("arrowconv: invalid value")
	// ErrUnexpectedNull reports a null slot in a column decoded with a
	// non-nullable codec.
	ErrUnexpectedNull = errors.New("arrowconv: unexpected null")
	// ErrBuilderFinalized is returned by a ColumnBuilder after Finish.
	ErrBuilderFinalized = errors.New("arrowconv: builder already finalized")
	// ErrUnsupportedType is returned when no codec can be derived for a Go type.
	ErrUnsupportedType = errors.New("arrowconv: unsupported Go type")
)

// TypeMismatchError is returned when a column's data type differs from the
// data type of the codec it is decoded with.
type TypeMismatchError struct {
	Expected arrow.DataType
	Actual   arrow.DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("arrowconv: data type mismatch: expected %s, got %s",
		TypeName(e.Expected), TypeName(e.Actual))
}

// Is supports errors.Is by matching any *TypeMismatchError target.
func (e *TypeMismatchError) Is(target error) bool {
	_, ok := target.(*TypeMismatchError)
	return ok
}

// ElementError carries the index of the native value whose push failed.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("arrowconv: element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

func invalidValue(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}
