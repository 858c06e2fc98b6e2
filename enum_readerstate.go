package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

type readerState byte

const (
	// openReaderState: the stream is initialized and Read decompresses
	// more data.
	openReaderState readerState = iota

	// eofReaderState: the end of the compressed stream has been reached
	// and the check value verified.  Read returns io.EOF.
	eofReaderState

	// errorReaderState: the input was corrupt or could not be read.  Read
	// returns the saved error.
	errorReaderState

	// closedReaderState: Close has been called.  The only valid action is
	// Reset.
	closedReaderState
)

var readerStateData = []enumhelper.EnumData{
	{GoName: "openReaderState", Name: "open"},
	{GoName: "eofReaderState", Name: "eof"},
	{GoName: "errorReaderState", Name: "error"},
	{GoName: "closedReaderState", Name: "closed"},
}

func (s readerState) GoString() string {
	return enumhelper.DereferenceEnumData("readerState", readerStateData, uint(s)).GoName
}

func (s readerState) String() string {
	return enumhelper.DereferenceEnumData("readerState", readerStateData, uint(s)).Name
}

func (s readerState) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("readerState", readerStateData, uint(s))
}

var _ fmt.GoStringer = readerState(0)
var _ fmt.Stringer = readerState(0)
