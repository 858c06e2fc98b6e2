//go:build !386 && !arm
// +build !386,!arm

package zflate

import (
	"encoding/binary"
	"math/bits"
)

const bytesPerBlock = 8

type block uint64

func bytesFromBlock(byteOrder binary.ByteOrder, p []byte, x block) {
	byteOrder.PutUint64(p, uint64(x))
}

func reverseBits(x block, size byte) block {
	return block(bits.Reverse64(uint64(x)) >> (64 - size))
}
