package zflate

import (
	"github.com/chronos-tachyon/zflate/internal/adler32"
)

const strDefault = "default"

const bitsPerByte = 8

const bitsPerBlock = bytesPerBlock * bitsPerByte

func makeMask(shift byte) block {
	if shift == 0 {
		return 0
	} else if shift >= bitsPerBlock {
		return ^block(0)
	} else {
		return (block(1) << shift) - 1
	}
}

// Adler32 updates a running Adler-32 checksum with the bytes of p.  Start
// with a running value of 1, which is also the checksum of no bytes.  A nil
// p returns that initial value regardless of running.
func Adler32(running uint32, p []byte) uint32 {
	if p == nil {
		return 1
	}
	return adler32.Update(running, p)
}

// DeflateBound returns an upper bound on the compressed size of n bytes of
// input, including the zlib header and trailer, for any compression level and
// the default window and memory levels.
func DeflateBound(n int) int {
	return n + ((n + 7) >> 3) + ((n + 63) >> 6) + 5 + 6
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
