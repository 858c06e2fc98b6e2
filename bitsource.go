package zflate

// bitsource is the decompressor's bit accumulator.  Input bytes are pulled
// from the Stream one at a time, only when the bits already held are not
// enough, so that at most 7 bits remain after any symbol has been consumed.
// The low bitk bits of bitb are valid; bits are consumed LSB-first.
type bitsource struct {
	strm *Stream
	bitb block
	bitk byte
}

func (bs *bitsource) clear() {
	bs.bitb = 0
	bs.bitk = 0
}

// pullByte moves one input byte into the accumulator.  It returns false if
// the input is exhausted.
func (bs *bitsource) pullByte() bool {
	strm := bs.strm
	if len(strm.NextIn) == 0 {
		return false
	}
	bs.bitb |= block(strm.NextIn[0]) << bs.bitk
	bs.bitk += bitsPerByte
	strm.NextIn = strm.NextIn[1:]
	strm.TotalIn++
	return true
}

// need makes sure that at least n bits are held.  It returns false if the
// input ran out first; the bytes already pulled stay in the accumulator.
func (bs *bitsource) need(n byte) bool {
	for bs.bitk < n {
		if !bs.pullByte() {
			return false
		}
	}
	return true
}

func (bs *bitsource) peek(n byte) block {
	return bs.bitb & makeMask(n)
}

func (bs *bitsource) dump(n byte) {
	bs.bitb >>= n
	bs.bitk -= n
}

// alignToByte drops the bits up to the next byte boundary.
func (bs *bitsource) alignToByte() {
	bs.dump(bs.bitk & 7)
}

// peekSym decodes the next symbol using h without consuming it; the caller
// dumps size bits.  ok is false if more input is required.  valid is false
// if the bits held do not begin any code.
func (bs *bitsource) peekSym(h *huffmanDecoder) (sym int, size byte, ok bool, valid bool) {
	for {
		sym, size = h.lookup(bs.bitb)
		if size == 0 {
			return 0, 0, false, false
		}
		if size <= bs.bitk {
			return sym, size, true, true
		}
		if !bs.pullByte() {
			return 0, 0, false, true
		}
	}
}
