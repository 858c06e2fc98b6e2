//go:build 386 || arm
// +build 386 arm

package zflate

import (
	"encoding/binary"
	"math/bits"
)

const bytesPerBlock = 4

type block uint32

func bytesFromBlock(byteOrder binary.ByteOrder, p []byte, x block) {
	byteOrder.PutUint32(p, uint32(x))
}

func reverseBits(x block, size byte) block {
	return block(bits.Reverse32(uint32(x)) >> (32 - size))
}
