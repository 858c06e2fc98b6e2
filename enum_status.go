package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Status is the result of a Stream operation.
type Status byte

const (
	// Ok indicates that progress was made and the operation may be
	// repeated.
	Ok Status = iota

	// StreamEnd indicates that the end of the compressed stream was
	// reached (Inflate) or that all output has been produced (Deflate with
	// FinishFlush).
	StreamEnd

	// NeedDict indicates that decompression is paused until the caller
	// supplies the preset dictionary whose Adler-32 is in Stream.Adler.
	NeedDict

	// ErrStream indicates invalid arguments or an operation that is not
	// permitted in the current state.
	ErrStream

	// ErrData indicates that the compressed input is corrupt.
	ErrData

	// ErrMem indicates an allocation failure.  It is never returned by
	// this package and exists for completeness of the status set.
	ErrMem

	// ErrBuf indicates that no progress was possible.  It is not fatal:
	// supply more input or more output space and retry.
	ErrBuf
)

var statusData = []enumhelper.EnumData{
	{GoName: "Ok", Name: "ok"},
	{GoName: "StreamEnd", Name: "stream-end"},
	{GoName: "NeedDict", Name: "need-dict"},
	{GoName: "ErrStream", Name: "stream-error"},
	{GoName: "ErrData", Name: "data-error"},
	{GoName: "ErrMem", Name: "mem-error"},
	{GoName: "ErrBuf", Name: "buf-error"},
}

// IsValid returns true if s is a valid Status constant.
func (s Status) IsValid() bool {
	return s >= Ok && s <= ErrBuf
}

// IsError returns true if s is one of the Err* constants.
func (s Status) IsError() bool {
	return s >= ErrStream && s <= ErrBuf
}

// GoString returns the Go string representation of this Status constant.
func (s Status) GoString() string {
	return enumhelper.DereferenceEnumData("Status", statusData, uint(s)).GoName
}

// String returns the string representation of this Status constant.
func (s Status) String() string {
	return enumhelper.DereferenceEnumData("Status", statusData, uint(s)).Name
}

// MarshalJSON returns the JSON representation of this Status constant.
func (s Status) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Status", statusData, uint(s))
}

var _ fmt.GoStringer = Status(0)
var _ fmt.Stringer = Status(0)
