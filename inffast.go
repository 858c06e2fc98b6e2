package zflate

// fastMinInput is the input needed to decode one length/distance pair
// without checking for the end of input.
const fastMinInput = 10

// inflateFast decodes symbols in a tight loop for as long as there is room
// for a maximum-length match in the window and at least fastMinInput bytes of
// input.  Whole bytes pulled into the bit accumulator but not used are given
// back to the input on return.
//
// It returns Ok when either guarantee no longer holds, StreamEnd after the
// end-of-block code, or ErrData.
func (bd *blockDecoder) inflateFast(ll *huffmanDecoder, d *huffmanDecoder) Status {
	strm := bd.strm
	in := strm.NextIn
	p := 0
	b, k := bd.bitb, bd.bitk
	win := bd.window
	wsize := len(win)
	q := bd.write
	m := bd.wavail()
	have := bd.have
	status := Ok

loop:
	for m >= maxMatch && len(in)-p >= fastMinInput {
		for k < 20 {
			b |= block(in[p]) << k
			p++
			k += bitsPerByte
		}

		sym, size := ll.lookup(b)
		if size == 0 {
			strm.Msg = "invalid literal/length code"
			status = ErrData
			break loop
		}
		b >>= size
		k -= size

		if sym < numLiterals {
			win[q] = byte(sym)
			q++
			m--
			if have < wsize {
				have++
			}
			continue
		}
		if sym == endBlock {
			status = StreamEnd
			break loop
		}
		i := sym - endBlock - 1
		if i >= numLengthCodes {
			strm.Msg = "invalid literal/length code"
			status = ErrData
			break loop
		}
		e := extraLLBits[i]
		length := int(lengthBase[i]) + int(b&makeMask(e))
		b >>= e
		k -= e

		for k < 15 {
			b |= block(in[p]) << k
			p++
			k += bitsPerByte
		}
		sym, size = d.lookup(b)
		if size == 0 || sym >= logicalNumDCodes {
			strm.Msg = "invalid distance code"
			status = ErrData
			break loop
		}
		b >>= size
		k -= size

		e = extraDBits[sym]
		for k < e {
			b |= block(in[p]) << k
			p++
			k += bitsPerByte
		}
		dist := int(distBase[sym]) + int(b&makeMask(e))
		b >>= e
		k -= e

		if dist > have {
			strm.Msg = "invalid distance too far back"
			status = ErrData
			break loop
		}

		m -= length
		have = minInt(have+length, wsize)
		from := q - dist
		if from < 0 {
			from += wsize
		}
		for ; length > 0; length-- {
			win[q] = win[from]
			q++
			from++
			if from == wsize {
				from = 0
			}
		}
	}

	// Give back the whole bytes we did not use.
	c := int(k >> 3)
	if c > p {
		c = p
	}
	p -= c
	k -= byte(c) * bitsPerByte
	b &= makeMask(k)

	strm.NextIn = in[p:]
	strm.TotalIn += uint64(p)
	bd.bitb, bd.bitk = b, k
	bd.write = q
	bd.have = have
	return status
}
