package zflate

import (
	"encoding/binary"
)

// Header is a collection of fields which are present in the header of a zlib
// stream.
type Header struct {
	Method        Method
	WindowBits    WindowBits
	CompressLevel CompressLevel
	HasDictionary bool
	DictionaryID  Checksum32
}

// flevel maps a CompressLevel and Strategy onto the 2-bit FLEVEL hint.
func flevel(clevel CompressLevel, strategy Strategy) byte {
	switch {
	case strategy == HuffmanOnlyStrategy || strategy == HuffmanRLEStrategy || clevel < 2:
		return 0x00
	case clevel < 6:
		return 0x01
	case clevel == 6:
		return 0x02
	default:
		return 0x03
	}
}

// levelFromFLevel maps a 2-bit FLEVEL hint back onto a representative
// CompressLevel.
func levelFromFLevel(fLevel byte) CompressLevel {
	switch fLevel {
	case 0x00:
		return FastestCompression
	case 0x01:
		return 5
	case 0x02:
		return defaultCompressLevel
	default:
		return BestCompression
	}
}

// encodeHeader appends the 2-byte zlib header, plus the 4-byte dictionary id
// if hdr.HasDictionary, to out.
func encodeHeader(out []byte, hdr Header, strategy Strategy) []byte {
	var storage [6]byte
	var n uint = 2

	storage[0] = (byte(hdr.WindowBits-8) << 4) | hdr.Method.headerCM()
	storage[1] = flevel(hdr.CompressLevel, strategy) << 6

	if hdr.HasDictionary {
		binary.BigEndian.PutUint32(storage[2:6], uint32(hdr.DictionaryID))
		storage[1] |= 0x20
		n = 6
	}

	// compute header checksum
	u16 := binary.BigEndian.Uint16(storage[0:2])
	remainder := (u16 % 31)
	if remainder == 0 {
		remainder = 31
	}
	storage[1] |= byte(31 - remainder)

	return append(out, storage[0:n]...)
}
