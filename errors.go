package zflate

import (
	"fmt"
)

// CorruptInputError is returned when the stream being decompressed contains
// data that violates the compression format standard.
type CorruptInputError struct {
	OffsetTotal uint64
	Problem     string
}

// Error fulfills the error interface.
func (err CorruptInputError) Error() string {
	return fmt.Sprintf("corrupt input at/near byte offset %d: %s", err.OffsetTotal, err.Problem)
}

var _ error = CorruptInputError{}

// StatusError is returned by Reader and Writer when the underlying Stream
// reports a failing Status other than ErrData.
type StatusError struct {
	Op      string
	Status  Status
	Message string
}

// Error fulfills the error interface.
func (err *StatusError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("%s: %v", err.Op, err.Status)
	}
	return fmt.Sprintf("%s: %v: %s", err.Op, err.Status, err.Message)
}

// Is reports whether target is a *StatusError with the same Status.
func (err *StatusError) Is(target error) bool {
	other, ok := target.(*StatusError)
	return ok && other.Status == err.Status
}

var _ error = (*StatusError)(nil)

// DictionaryError is returned by Reader when the stream requires a preset
// dictionary and none was configured, or the configured one has the wrong
// Adler-32.
type DictionaryError struct {
	Expected Checksum32
	Actual   Checksum32
	Missing  bool
}

// Error fulfills the error interface.
func (err DictionaryError) Error() string {
	if err.Missing {
		return fmt.Sprintf("stream requires preset dictionary %v, but none was provided", err.Expected)
	}
	return fmt.Sprintf("stream requires preset dictionary %v, but provided dictionary is %v", err.Expected, err.Actual)
}

var _ error = DictionaryError{}
