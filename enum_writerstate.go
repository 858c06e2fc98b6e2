package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

type writerState byte

const (
	// openWriterState: the stream is initialized and accepts Write and
	// Flush.  Zero or more bytes have been compressed.
	openWriterState writerState = iota

	// errorWriterState: a write to the underlying io.Writer failed or the
	// stream reported an error.  The only valid actions are Close and
	// Reset.
	errorWriterState

	// closedWriterState: Close has been called and the trailer has been
	// written.  The only valid action is Reset.
	closedWriterState
)

var writerStateData = []enumhelper.EnumData{
	{GoName: "openWriterState", Name: "open"},
	{GoName: "errorWriterState", Name: "error"},
	{GoName: "closedWriterState", Name: "closed"},
}

func (s writerState) GoString() string {
	return enumhelper.DereferenceEnumData("writerState", writerStateData, uint(s)).GoName
}

func (s writerState) String() string {
	return enumhelper.DereferenceEnumData("writerState", writerStateData, uint(s)).Name
}

func (s writerState) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("writerState", writerStateData, uint(s))
}

var _ fmt.GoStringer = writerState(0)
var _ fmt.Stringer = writerState(0)
