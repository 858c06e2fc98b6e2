package zflate

import (
	"math/bits"
)

// The decoding tables follow the layout of zlib: a primary lookup table
// indexed by the next huffmanChunkBits input bits (LSB-first), where codes
// shorter than the table width are replicated, and codes longer than the
// table width go through a link to a secondary table.
//
// A lookup can be performed with fewer bits than a full code.  The missing
// bits are zero, and since shorter canonical codes sort before longer ones,
// the length stored in the result is a lower bound; the result is valid
// exactly when that length does not exceed the number of bits available.
//
// chunk & huffmanCountMask is the number of bits; chunk >> huffmanValueShift
// is the symbol, or the index of the link table.

const (
	maxCodeLen        = 16
	huffmanChunkBits  = 9
	huffmanNumChunks  = 1 << huffmanChunkBits
	huffmanCountMask  = 15
	huffmanValueShift = 4
)

type huffmanDecoder struct {
	min      int
	chunks   [huffmanNumChunks]uint32
	links    [][]uint32
	linkMask uint32
}

var (
	fixedDecoderLL huffmanDecoder
	fixedDecoderD  huffmanDecoder
)

// initFixedDecoders builds the fixed literal/length and distance decoders.
// It runs from the init in trees.go, after staticLLSizes is filled in.
func initFixedDecoders() {
	if !fixedDecoderLL.init(staticLLSizes, true) {
		panic("failed to initialize fixedDecoderLL")
	}

	// The fixed distance code has 32 entries; 30 and 31 never occur in
	// valid data but take part in the code construction.
	var sizes [physicalNumDCodes]byte
	for i := range sizes {
		sizes[i] = 5
	}
	if !fixedDecoderD.init(sizes[:], true) {
		panic("failed to initialize fixedDecoderD")
	}
}

// init builds the decoding tables from a list of code lengths.  It returns
// false if the lengths are over-subscribed or incomplete.  If allowSingle is
// set, a single code of length 1 is accepted, and so is an empty code;
// decoding with an empty code always fails.
func (h *huffmanDecoder) init(lengths []byte, allowSingle bool) bool {
	*h = huffmanDecoder{}

	var count [maxCodeLen]int
	var min, max int
	for _, size := range lengths {
		n := int(size)
		if n == 0 {
			continue
		}
		if min == 0 || n < min {
			min = n
		}
		if n > max {
			max = n
		}
		count[n]++
	}

	if max == 0 {
		return allowSingle
	}

	code := 0
	var nextcode [maxCodeLen]int
	for i := min; i <= max; i++ {
		code <<= 1
		nextcode[i] = code
		code += count[i]
	}

	if code != 1<<uint(max) && !(allowSingle && code == 1 && max == 1) {
		return false
	}

	h.min = min
	if max > huffmanChunkBits {
		numLinks := 1 << (uint(max) - huffmanChunkBits)
		h.linkMask = uint32(numLinks - 1)

		link := nextcode[huffmanChunkBits+1] >> 1
		h.links = make([][]uint32, huffmanNumChunks-link)
		for j := uint(link); j < huffmanNumChunks; j++ {
			reverse := int(bits.Reverse16(uint16(j)))
			reverse >>= uint(16 - huffmanChunkBits)
			off := j - uint(link)
			h.chunks[reverse] = uint32(off<<huffmanValueShift | (huffmanChunkBits + 1))
			h.links[off] = make([]uint32, numLinks)
		}
	}

	for i, size := range lengths {
		n := int(size)
		if n == 0 {
			continue
		}
		code := nextcode[n]
		nextcode[n]++
		chunk := uint32(i<<huffmanValueShift | n)
		reverse := int(bits.Reverse16(uint16(code)))
		reverse >>= uint(16 - n)
		if n <= huffmanChunkBits {
			for off := reverse; off < len(h.chunks); off += 1 << uint(n) {
				h.chunks[off] = chunk
			}
		} else {
			j := reverse & (huffmanNumChunks - 1)
			value := h.chunks[j] >> huffmanValueShift
			linktab := h.links[value]
			reverse >>= huffmanChunkBits
			for off := reverse; off < len(linktab); off += 1 << uint(n-huffmanChunkBits) {
				linktab[off] = chunk
			}
		}
	}

	return true
}

// lookup returns the symbol and code length matching the low bits of b.  A
// returned size of 0 means no code matches.
func (h *huffmanDecoder) lookup(b block) (sym int, size byte) {
	chunk := h.chunks[b&(huffmanNumChunks-1)]
	n := chunk & huffmanCountMask
	if n > huffmanChunkBits {
		chunk = h.links[chunk>>huffmanValueShift][uint32(b>>huffmanChunkBits)&h.linkMask]
		n = chunk & huffmanCountMask
	}
	return int(chunk >> huffmanValueShift), byte(n)
}
