package zflate

import (
	"github.com/chronos-tachyon/assert"
)

// flushBlockOnly emits everything from blockStart to strStart as one block.
func (d *deflater) flushBlockOnly(last bool) {
	var buf []byte
	if d.blockStart >= 0 {
		buf = d.window[d.blockStart:d.strStart]
	}
	d.trFlushBlock(buf, d.strStart-d.blockStart, last)
	d.blockStart = d.strStart
	d.flushPending()
}

// flushBlock is flushBlockOnly plus the early return when output space runs
// out.  It returns false if the caller must return state.
func (d *deflater) flushBlock(last bool) (blockState, bool) {
	d.flushBlockOnly(last)
	if len(d.strm.NextOut) == 0 {
		if last {
			return finishStarted, false
		}
		return needMore, false
	}
	return needMore, true
}

// finishBlock closes the final block of a compress call.
func (d *deflater) finishBlock(flush FlushType) blockState {
	last := (flush == FinishFlush)
	if state, ok := d.flushBlock(last); !ok {
		return state
	}
	if last {
		return finishDone
	}
	return blockDone
}

// deflateStored copies input to stored blocks without compression, as much
// as possible per block.  It does not maintain the hash chains.
func (d *deflater) deflateStored(flush FlushType) blockState {
	maxBlockSize := 0xffff
	if limit := 4*d.litBufSize - 5; maxBlockSize > limit {
		maxBlockSize = limit
	}

	for {
		if d.lookahead <= 1 {
			assert.Assertf(d.strStart < d.wSize+d.maxDist() || d.blockStart >= d.wSize, "slide too late")
			d.fillWindow()
			if d.lookahead == 0 && flush == NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}
		assert.Assertf(d.blockStart >= 0, "block gone")

		d.strStart += d.lookahead
		d.lookahead = 0

		maxStart := d.blockStart + maxBlockSize
		if d.strStart >= maxStart {
			d.lookahead = d.strStart - maxStart
			d.strStart = maxStart
			if state, ok := d.flushBlock(false); !ok {
				return state
			}
		}

		// Flush if we may have to slide, otherwise blockStart would
		// become negative and the data would be lost.
		if d.strStart-d.blockStart >= d.maxDist() {
			if state, ok := d.flushBlock(false); !ok {
				return state
			}
		}
	}
	return d.finishBlock(flush)
}

// deflateFast inserts new strings in the hash table only when no match was
// found, or only for matches of short length.  It does no lazy evaluation.
func (d *deflater) deflateFast(flush FlushType) blockState {
	for {
		if d.lookahead < minLookahead {
			d.fillWindow()
			if d.lookahead < minLookahead && flush == NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}

		hashHead := nilPos
		if d.lookahead >= minMatch {
			hashHead = d.insertString(d.strStart)
		}

		if hashHead != nilPos && d.strStart-int(hashHead) <= d.maxDist() {
			d.matchLength = d.longestMatch(hashHead)
		}

		var bflush bool
		if d.matchLength >= minMatch {
			bflush = d.tallyMatch(d.strStart-d.matchStart, d.matchLength)
			d.lookahead -= d.matchLength

			if d.matchLength <= d.maxLazyMatch && d.lookahead >= minMatch {
				d.matchLength--
				for d.matchLength != 0 {
					d.strStart++
					d.insertString(d.strStart)
					d.matchLength--
				}
				d.strStart++
			} else {
				d.strStart += d.matchLength
				d.matchLength = 0
				d.insH = uint32(d.window[d.strStart])
				d.updateHash(d.window[d.strStart+1])
			}
		} else {
			bflush = d.tallyLiteral(d.window[d.strStart])
			d.lookahead--
			d.strStart++
		}

		if bflush {
			if state, ok := d.flushBlock(false); !ok {
				return state
			}
		}
	}
	return d.finishBlock(flush)
}

// deflateSlow evaluates matches lazily: a match is finally adopted only if
// there is no better match at the next window position.
func (d *deflater) deflateSlow(flush FlushType) blockState {
	for {
		if d.lookahead < minLookahead {
			d.fillWindow()
			if d.lookahead < minLookahead && flush == NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}

		hashHead := nilPos
		if d.lookahead >= minMatch {
			hashHead = d.insertString(d.strStart)
		}

		d.prevLength = d.matchLength
		d.prevMatch = d.matchStart
		d.matchLength = minMatch - 1

		if hashHead != nilPos && d.prevLength < d.maxLazyMatch && d.strStart-int(hashHead) <= d.maxDist() {
			d.matchLength = d.longestMatch(hashHead)

			if d.matchLength <= 5 && (d.strategy == FilteredStrategy ||
				(d.matchLength == minMatch && d.strStart-d.matchStart > tooFar)) {
				// If prevMatch is also minMatch, matchStart is
				// garbage but we will ignore the current match
				// anyway.
				d.matchLength = minMatch - 1
			}
		}

		if d.prevLength >= minMatch && d.matchLength <= d.prevLength {
			maxInsert := d.strStart + d.lookahead - minMatch

			bflush := d.tallyMatch(d.strStart-1-d.prevMatch, d.prevLength)

			// Insert the strings covered by the match, except
			// the first one, which is already in the table.
			d.lookahead -= d.prevLength - 1
			d.prevLength -= 2
			for d.prevLength != 0 {
				d.strStart++
				if d.strStart <= maxInsert {
					d.insertString(d.strStart)
				}
				d.prevLength--
			}
			d.matchAvailable = false
			d.matchLength = minMatch - 1
			d.strStart++

			if bflush {
				if state, ok := d.flushBlock(false); !ok {
					return state
				}
			}
		} else if d.matchAvailable {
			// No better match: emit the previous byte as a
			// literal and keep looking.
			if d.tallyLiteral(d.window[d.strStart-1]) {
				d.flushBlockOnly(false)
			}
			d.strStart++
			d.lookahead--
			if len(d.strm.NextOut) == 0 {
				return needMore
			}
		} else {
			d.matchAvailable = true
			d.strStart++
			d.lookahead--
		}
	}

	assert.Assert(flush != NoFlush, "no flush?")
	if d.matchAvailable {
		d.tallyLiteral(d.window[d.strStart-1])
		d.matchAvailable = false
	}
	return d.finishBlock(flush)
}

// deflateHuff does no string matching at all, only Huffman coding of
// literals.
func (d *deflater) deflateHuff(flush FlushType) blockState {
	for {
		if d.lookahead == 0 {
			d.fillWindow()
			if d.lookahead == 0 {
				if flush == NoFlush {
					return needMore
				}
				break
			}
		}

		d.matchLength = 0
		bflush := d.tallyLiteral(d.window[d.strStart])
		d.lookahead--
		d.strStart++
		if bflush {
			if state, ok := d.flushBlock(false); !ok {
				return state
			}
		}
	}
	return d.finishBlock(flush)
}

// deflateRLE only looks for runs of the previous byte, i.e. matches at
// distance one.  The hash chains are not used.
func (d *deflater) deflateRLE(flush FlushType) blockState {
	for {
		if d.lookahead <= maxMatch {
			d.fillWindow()
			if d.lookahead <= maxMatch && flush == NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}

		d.matchLength = 0
		if d.lookahead >= minMatch && d.strStart > 0 {
			prev := d.window[d.strStart-1]
			n := 0
			for n < maxMatch && n < d.lookahead && d.window[d.strStart+n] == prev {
				n++
			}
			if n >= minMatch {
				d.matchLength = n
			}
		}

		var bflush bool
		if d.matchLength >= minMatch {
			bflush = d.tallyMatch(1, d.matchLength)
			d.lookahead -= d.matchLength
			d.strStart += d.matchLength
			d.matchLength = 0
		} else {
			bflush = d.tallyLiteral(d.window[d.strStart])
			d.lookahead--
			d.strStart++
		}

		if bflush {
			if state, ok := d.flushBlock(false); !ok {
				return state
			}
		}
	}
	return d.finishBlock(flush)
}
