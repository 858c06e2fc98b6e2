package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// FlushType tells Deflate and Inflate how eagerly to emit output.  The
// constants are ordered by strength; a repeated flush of equal or lesser
// strength with no new input makes no progress.
type FlushType byte

const (
	// NoFlush lets the compressor decide how much data to accumulate
	// before producing output.  This gives the best compression.
	NoFlush FlushType = iota

	// PartialFlush completes the current block and writes an empty
	// static-tree block (10 bits, sometimes twice) so that all data so far
	// is decodable, without byte-aligning the output.
	//
	// PartialFlush can impact your compression ratio by forcing the
	// premature end of the current block.
	//
	PartialFlush

	// SyncFlush completes the current block and writes an empty stored
	// block.  The output ends on a byte boundary with the bytes
	// 00 00 FF FF, which Stream.InflateSync can search for.
	//
	// Like PartialFlush, SyncFlush can impact your compression ratio.
	//
	SyncFlush

	// FullFlush does what SyncFlush does and also forgets the match
	// history, so that decompression can restart at this point.
	//
	// FullFlush will seriously degrade your compression ratio if not used
	// wisely.
	//
	FullFlush

	// FinishFlush completes the stream: all pending input is compressed,
	// the final block is written, and the trailer (if any) follows.
	FinishFlush
)

var flushTypeData = []enumhelper.EnumData{
	{GoName: "NoFlush", Name: "none"},
	{GoName: "PartialFlush", Name: "partial"},
	{GoName: "SyncFlush", Name: "sync"},
	{GoName: "FullFlush", Name: "full"},
	{GoName: "FinishFlush", Name: "finish"},
}

// IsValid returns true if f is a valid FlushType constant.
func (f FlushType) IsValid() bool {
	return f >= NoFlush && f <= FinishFlush
}

// GoString returns the Go string representation of this FlushType constant.
func (f FlushType) GoString() string {
	return enumhelper.DereferenceEnumData("FlushType", flushTypeData, uint(f)).GoName
}

// String returns the string representation of this FlushType constant.
func (f FlushType) String() string {
	return enumhelper.DereferenceEnumData("FlushType", flushTypeData, uint(f)).Name
}

// MarshalJSON returns the JSON representation of this FlushType constant.
func (f FlushType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("FlushType", flushTypeData, uint(f))
}

// Parse parses a string representation of a FlushType constant.
func (f *FlushType) Parse(str string) error {
	value, err := enumhelper.ParseEnum("FlushType", flushTypeData, str)
	*f = FlushType(value)
	return err
}

var _ fmt.GoStringer = FlushType(0)
var _ fmt.Stringer = FlushType(0)
