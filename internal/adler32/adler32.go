// Package adler32 implements the Adler-32 checksum defined by RFC 1950.
package adler32

import (
	"encoding/binary"
	"hash"
)

// Size is the size of an Adler-32 checksum in bytes.
const Size = 4

// Initial is the checksum of the empty byte sequence.
const Initial uint32 = 1

// modulus is the largest prime smaller than 65536.
const modulus = 65521

// nmax is the largest n such that 255n(n+1)/2 + (n+1)(modulus-1) fits in
// 32 bits, i.e. the longest run that can be summed before reducing.
const nmax = 5552

// Update returns the Adler-32 checksum of the bytes in p appended to the
// sequence whose checksum is sum.
func Update(sum uint32, p []byte) uint32 {
	s1, s2 := (sum & 0xffff), (sum >> 16)
	for len(p) != 0 {
		chunk := p
		if len(chunk) > nmax {
			chunk = chunk[:nmax]
		}
		p = p[len(chunk):]

		for len(chunk) >= 8 {
			s1 += uint32(chunk[0])
			s2 += s1
			s1 += uint32(chunk[1])
			s2 += s1
			s1 += uint32(chunk[2])
			s2 += s1
			s1 += uint32(chunk[3])
			s2 += s1
			s1 += uint32(chunk[4])
			s2 += s1
			s1 += uint32(chunk[5])
			s2 += s1
			s1 += uint32(chunk[6])
			s2 += s1
			s1 += uint32(chunk[7])
			s2 += s1
			chunk = chunk[8:]
		}
		for _, ch := range chunk {
			s1 += uint32(ch)
			s2 += s1
		}
		s1 %= modulus
		s2 %= modulus
	}
	return (s2 << 16) | s1
}

// Checksum returns the Adler-32 checksum of p.
func Checksum(p []byte) uint32 {
	return Update(Initial, p)
}

// Hash is a hash.Hash32 computing Adler-32.  The zero value is NOT ready for
// use; call Reset or use New.
type Hash struct {
	sum uint32
}

// New returns a Hash holding the checksum of the empty sequence.
func New() *Hash {
	return &Hash{sum: Initial}
}

func (h *Hash) Size() int      { return Size }
func (h *Hash) BlockSize() int { return 4 }

func (h *Hash) Reset() {
	h.sum = Initial
}

func (h *Hash) Write(p []byte) (int, error) {
	h.sum = Update(h.sum, p)
	return len(p), nil
}

func (h *Hash) Sum(slice []byte) []byte {
	var tmp [Size]byte
	binary.BigEndian.PutUint32(tmp[:], h.sum)
	return append(slice, tmp[:]...)
}

func (h *Hash) Sum32() uint32 {
	return h.sum
}

var _ hash.Hash32 = (*Hash)(nil)
