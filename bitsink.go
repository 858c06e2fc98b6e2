package zflate

import (
	"encoding/binary"

	"github.com/chronos-tachyon/assert"
)

// type bitsink {{{

// bitsink accumulates compressed output until the caller's output buffer has
// room for it.  Bits are packed LSB-first; writeBytes requires a preceding
// alignBits.
type bitsink struct {
	pending    []byte
	pendingOut int
	obBlock    block
	obLen      byte
}

func (bs *bitsink) reset() {
	bs.pending = bs.pending[:0]
	bs.pendingOut = 0
	bs.obBlock = 0
	bs.obLen = 0
}

// numPending returns the number of whole bytes waiting to be delivered.
func (bs *bitsink) numPending() int {
	return len(bs.pending) - bs.pendingOut
}

// deliver copies as many pending bytes as fit into out and returns the count.
func (bs *bitsink) deliver(out []byte) int {
	n := copy(out, bs.pending[bs.pendingOut:])
	bs.pendingOut += n
	if bs.pendingOut == len(bs.pending) {
		bs.pending = bs.pending[:0]
		bs.pendingOut = 0
	}
	return n
}

func (bs *bitsink) writeBits(size byte, bits block) {
	assert.Assertf(size <= bitsPerBlock, "size %d > bitsPerBlock %d", size, bitsPerBlock)
	assert.Assertf(bs.obLen < bitsPerBlock, "obLen %d >= bitsPerBlock %d", bs.obLen, bitsPerBlock)
	if size == 0 {
		return
	}

	bits &= makeMask(size)
	bs.obBlock |= bits << bs.obLen
	free := bitsPerBlock - bs.obLen
	if size < free {
		bs.obLen += size
		return
	}

	var tmp [bytesPerBlock]byte
	bytesFromBlock(binary.LittleEndian, tmp[:], bs.obBlock)
	bs.pending = append(bs.pending, tmp[:]...)
	bs.obBlock = 0
	if size > free {
		bs.obBlock = bits >> free
	}
	bs.obLen = size - free
}

func (bs *bitsink) writeCode(node treeNode) {
	bs.writeBits(node.len, block(node.code))
}

// flushBits moves all complete bytes into pending, leaving at most 7 bits in
// the accumulator.
func (bs *bitsink) flushBits() {
	for bs.obLen >= bitsPerByte {
		bs.pending = append(bs.pending, byte(bs.obBlock))
		bs.obBlock >>= bitsPerByte
		bs.obLen -= bitsPerByte
	}
}

// alignBits pads the accumulator with zero bits to a byte boundary and moves
// everything into pending.
func (bs *bitsink) alignBits() {
	bs.flushBits()
	if bs.obLen != 0 {
		bs.pending = append(bs.pending, byte(bs.obBlock))
	}
	bs.obBlock = 0
	bs.obLen = 0
}

func (bs *bitsink) writeBytes(p []byte) {
	assert.Assertf(bs.obLen == 0, "writeBytes with %d unaligned bits", bs.obLen)
	bs.pending = append(bs.pending, p...)
}

func (bs *bitsink) writeU16(bo binary.ByteOrder, x uint16) {
	var tmp [2]byte
	bo.PutUint16(tmp[:], x)
	bs.writeBytes(tmp[:])
}

// writeU16MSB appends a big-endian 16-bit value, used for the zlib header
// and trailer.
func (bs *bitsink) writeU16MSB(x uint16) {
	bs.writeU16(binary.BigEndian, x)
}

// }}}
