package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// BlockType indicates the type of a DEFLATE block.  The values are the BTYPE
// field of the block header.
type BlockType byte

const (
	// StoredBlock indicates a stored (uncompressed) block.
	StoredBlock BlockType = iota

	// StaticBlock indicates a block compressed with the fixed Huffman
	// codes of RFC 1951.
	StaticBlock

	// DynamicBlock indicates a block compressed with Huffman codes that
	// are sent at the start of the block.
	DynamicBlock

	// ReservedBlock is the BTYPE value that RFC 1951 reserves.  It never
	// appears in a valid stream.
	ReservedBlock
)

var blockTypeData = []enumhelper.EnumData{
	{GoName: "StoredBlock", Name: "stored"},
	{GoName: "StaticBlock", Name: "static"},
	{GoName: "DynamicBlock", Name: "dynamic"},
	{GoName: "ReservedBlock", Name: "reserved"},
}

// IsValid returns true if b is a block type that can occur in a stream.
func (b BlockType) IsValid() bool {
	return b < ReservedBlock
}

// GoString returns the Go string representation of this BlockType constant.
func (b BlockType) GoString() string {
	return enumhelper.DereferenceEnumData("BlockType", blockTypeData, uint(b)).GoName
}

// String returns the string representation of this BlockType constant.
func (b BlockType) String() string {
	return enumhelper.DereferenceEnumData("BlockType", blockTypeData, uint(b)).Name
}

// MarshalJSON returns the JSON representation of this BlockType constant.
func (b BlockType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("BlockType", blockTypeData, uint(b))
}

var _ fmt.GoStringer = BlockType(0)
var _ fmt.Stringer = BlockType(0)
