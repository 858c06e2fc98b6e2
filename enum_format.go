package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Format indicates the framing to be written (Deflate) or expected to be read
// (Inflate).
type Format byte

const (
	// DefaultFormat requests the default framing, which is ZlibFormat.
	DefaultFormat Format = iota

	// RawFormat indicates that a raw DEFLATE stream is in use, with no
	// header and no trailer, for embedding inside other containers.
	RawFormat

	// ZlibFormat indicates that a zlib stream (RFC 1950) is in use: a
	// 2-byte header, optional preset dictionary id, and an Adler-32
	// trailer.
	ZlibFormat
)

var formatData = []enumhelper.EnumData{
	{GoName: "DefaultFormat", Name: strDefault},
	{GoName: "RawFormat", Name: "raw", Aliases: []string{"deflate"}},
	{GoName: "ZlibFormat", Name: "zlib"},
}

// IsValid returns true if f is a valid Format constant.
func (f Format) IsValid() bool {
	return f >= DefaultFormat && f <= ZlibFormat
}

// GoString returns the Go string representation of this Format constant.
func (f Format) GoString() string {
	return enumhelper.DereferenceEnumData("Format", formatData, uint(f)).GoName
}

// String returns the string representation of this Format constant.
func (f Format) String() string {
	return enumhelper.DereferenceEnumData("Format", formatData, uint(f)).Name
}

// MarshalJSON returns the JSON representation of this Format constant.
func (f Format) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Format", formatData, uint(f))
}

// Parse parses a string representation of a Format constant.
func (f *Format) Parse(str string) error {
	value, err := enumhelper.ParseEnum("Format", formatData, str)
	*f = Format(value)
	return err
}

var _ fmt.GoStringer = Format(0)
var _ fmt.Stringer = Format(0)
