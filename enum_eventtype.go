package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// EventType indicates the type of an Event.  Both the compressor and the
// decompressor report the same sequence of events for the same stream.
type EventType byte

const (
	// StreamBeginEvent is sent before the first byte of a stream is
	// written or read.
	StreamBeginEvent EventType = iota

	// StreamHeaderEvent is sent once the zlib header has been written or
	// parsed.  Raw streams send it immediately after StreamBeginEvent.
	StreamHeaderEvent

	// BlockBeginEvent is sent when a block header has been written or
	// parsed.
	BlockBeginEvent

	// BlockTreesEvent is sent once the Huffman codes of a static or
	// dynamic block are known.  Stored blocks do not send it.
	BlockTreesEvent

	// BlockEndEvent is sent after the end of a block, with its literal
	// and match counts or its stored length.
	BlockEndEvent

	// StreamEndEvent is sent after the final block.  For zlib streams it
	// carries the Adler-32 of the uncompressed data.
	StreamEndEvent

	// StreamCloseEvent is sent once the trailer, if any, has been written
	// or verified.
	StreamCloseEvent
)

var eventTypeData = []enumhelper.EnumData{
	{GoName: "StreamBeginEvent", Name: "stream-begin"},
	{GoName: "StreamHeaderEvent", Name: "stream-header"},
	{GoName: "BlockBeginEvent", Name: "block-begin"},
	{GoName: "BlockTreesEvent", Name: "block-trees"},
	{GoName: "BlockEndEvent", Name: "block-end"},
	{GoName: "StreamEndEvent", Name: "stream-end"},
	{GoName: "StreamCloseEvent", Name: "stream-close"},
}

// GoString returns the Go string representation of this EventType constant.
func (e EventType) GoString() string {
	return enumhelper.DereferenceEnumData("EventType", eventTypeData, uint(e)).GoName
}

// String returns the string representation of this EventType constant.
func (e EventType) String() string {
	return enumhelper.DereferenceEnumData("EventType", eventTypeData, uint(e)).Name
}

// MarshalJSON returns the JSON representation of this EventType constant.
func (e EventType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("EventType", eventTypeData, uint(e))
}

var _ fmt.GoStringer = EventType(0)
var _ fmt.Stringer = EventType(0)
