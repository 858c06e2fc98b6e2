package zflate

import (
	"github.com/chronos-tachyon/assert"

	"github.com/chronos-tachyon/zflate/internal/adler32"
)

const (
	// minLookahead is the minimum amount of lookahead, except at the end
	// of the input file.
	minLookahead = maxMatch + minMatch + 1

	// tooFar: matches of length 3 are discarded if their distance exceeds
	// this.
	tooFar = 4096

	nilPos int32 = -1
)

// matcher is the LZ77 half of the compressor: the sliding window, the hash
// chains that index it, and the lazy-match bookkeeping.
type matcher struct {
	wSize      int
	wMask      int
	window     []byte // 2*wSize bytes; input is read into the upper half and slid down
	windowSize int

	prev []int32 // link to older string with same hash index, by window position & wMask
	head []int32 // heads of the hash chains, or nilPos

	insH      uint32
	hashMask  uint32
	hashShift uint

	blockStart int // window position at the beginning of the current output block; negative once slid out
	strStart   int
	matchStart int
	lookahead  int

	matchLength    int
	prevMatch      int
	prevLength     int
	matchAvailable bool

	maxChainLength int
	maxLazyMatch   int
	goodMatch      int
	niceMatch      int
}

func (m *matcher) init(wbits uint, hashBits uint) {
	m.wSize = 1 << wbits
	m.wMask = m.wSize - 1
	m.windowSize = 2 * m.wSize
	m.window = make([]byte, m.windowSize)
	m.prev = make([]int32, m.wSize)
	m.head = make([]int32, 1<<hashBits)
	m.hashMask = (1 << hashBits) - 1
	m.hashShift = (hashBits + minMatch - 1) / minMatch
}

func (m *matcher) reset() {
	m.clearHash()
	for i := range m.prev {
		m.prev[i] = nilPos
	}
	m.strStart = 0
	m.blockStart = 0
	m.lookahead = 0
	m.matchLength = minMatch - 1
	m.prevLength = minMatch - 1
	m.matchAvailable = false
	m.insH = 0
}

// maxDist is the largest match distance; a few bytes at the end of the window
// are reserved so that a match never reads beyond it.
func (m *matcher) maxDist() int {
	return m.wSize - minLookahead
}

func (m *matcher) clearHash() {
	for i := range m.head {
		m.head[i] = nilPos
	}
}

func (m *matcher) updateHash(ch byte) {
	m.insH = ((m.insH << m.hashShift) ^ uint32(ch)) & m.hashMask
}

// insertString adds the 3-byte string at window position str to its hash
// chain and returns the previous head of the chain.  All strings are
// inserted, even when the hash function causes collisions.
func (m *matcher) insertString(str int) int32 {
	m.updateHash(m.window[str+minMatch-1])
	h := m.head[m.insH]
	m.prev[str&m.wMask] = h
	m.head[m.insH] = int32(str)
	return h
}

func (m *matcher) slide() {
	wSize := int32(m.wSize)
	copy(m.window[:m.wSize], m.window[m.wSize:m.windowSize])
	m.matchStart -= m.wSize
	m.strStart -= m.wSize
	m.blockStart -= m.wSize

	for i, pos := range m.head {
		if pos >= wSize {
			m.head[i] = pos - wSize
		} else {
			m.head[i] = nilPos
		}
	}
	for i, pos := range m.prev {
		if pos >= wSize {
			m.prev[i] = pos - wSize
		} else {
			m.prev[i] = nilPos
		}
	}
}

// fillWindow reads new input when the lookahead becomes insufficient,
// sliding the window down first if the upper half is nearly used up.  On
// return, lookahead >= minLookahead unless the input is exhausted.
func (d *deflater) fillWindow() {
	for {
		more := d.windowSize - d.lookahead - d.strStart

		if d.strStart >= d.wSize+d.maxDist() {
			d.slide()
			more += d.wSize
		}

		if len(d.strm.NextIn) == 0 {
			return
		}

		assert.Assertf(more >= 2, "fillWindow: only %d bytes of room", more)
		lo := d.strStart + d.lookahead
		d.lookahead += d.readBuf(d.window[lo : lo+more])

		if d.lookahead >= minMatch {
			d.insH = uint32(d.window[d.strStart])
			d.updateHash(d.window[d.strStart+1])
		}

		if d.lookahead >= minLookahead || len(d.strm.NextIn) == 0 {
			return
		}
	}
}

// readBuf copies input into p, updating the running checksum and TotalIn.
func (d *deflater) readBuf(p []byte) int {
	strm := d.strm
	n := copy(p, strm.NextIn)
	if n == 0 {
		return 0
	}
	if d.format == ZlibFormat {
		strm.Adler = adler32.Update(strm.Adler, p[:n])
	}
	strm.NextIn = strm.NextIn[n:]
	strm.TotalIn += uint64(n)
	return n
}

// longestMatch walks the hash chain starting at curMatch and returns the
// length of the longest match for the string at strStart, setting
// matchStart.  Matches no longer than prevLength are ignored.
func (d *deflater) longestMatch(curMatch int32) int {
	win := d.window
	scan := d.strStart
	chainLength := d.maxChainLength
	bestLen := d.prevLength
	niceMatch := d.niceMatch

	limit := nilPos
	if d.strStart > d.maxDist() {
		limit = int32(d.strStart - d.maxDist())
	}

	// Do not waste too much time if we already have a good match.
	if d.prevLength >= d.goodMatch {
		chainLength >>= 1
	}
	if niceMatch > d.lookahead {
		niceMatch = d.lookahead
	}

	assert.Assertf(d.strStart <= d.windowSize-minLookahead, "need lookahead: strStart %d", d.strStart)

	scanEnd1 := win[scan+bestLen-1]
	scanEnd := win[scan+bestLen]
	for {
		match := int(curMatch)
		assert.Assertf(match < scan, "no future: match %d >= scan %d", match, scan)

		if win[match+bestLen] == scanEnd &&
			win[match+bestLen-1] == scanEnd1 &&
			win[match] == win[scan] &&
			win[match+1] == win[scan+1] {
			n := 2
			for n < maxMatch && win[scan+n] == win[match+n] {
				n++
			}
			if n > bestLen {
				d.matchStart = match
				bestLen = n
				if n >= niceMatch {
					break
				}
				scanEnd1 = win[scan+bestLen-1]
				scanEnd = win[scan+bestLen]
			}
		}

		curMatch = d.prev[match&d.wMask]
		if curMatch <= limit {
			break
		}
		chainLength--
		if chainLength == 0 {
			break
		}
	}

	if bestLen <= d.lookahead {
		return bestLen
	}
	return d.lookahead
}
