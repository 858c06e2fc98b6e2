package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Method indicates the compression method recorded in the zlib header.
//
// Only DEFLATE compression is defined by RFC 1950; the header carries it as
// CM=8.
//
type Method byte

const (
	// DeflateMethod indicates that DEFLATE compression should be used.
	DeflateMethod Method = iota

	// DefaultMethod requests that the default Method be used, which is
	// currently DeflateMethod.
	DefaultMethod = DeflateMethod
)

const cmDeflate = 8

var methodData = []enumhelper.EnumData{
	{GoName: "DeflateMethod", Name: "deflate"},
}

// IsValid returns true if m is a valid Method constant.
func (m Method) IsValid() bool {
	return m == DeflateMethod
}

// GoString returns the Go string representation of this Method constant.
func (m Method) GoString() string {
	return enumhelper.DereferenceEnumData("Method", methodData, uint(m)).GoName
}

// String returns the string representation of this Method constant.
func (m Method) String() string {
	return enumhelper.DereferenceEnumData("Method", methodData, uint(m)).Name
}

// MarshalJSON returns the JSON representation of this Method constant.
func (m Method) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Method", methodData, uint(m))
}

// headerCM returns the 4-bit CM field value for this Method.
func (m Method) headerCM() byte {
	return cmDeflate
}

var _ fmt.GoStringer = Method(0)
var _ fmt.Stringer = Method(0)
