package zflate

import (
	"encoding/binary"

	"github.com/chronos-tachyon/assert"
)

// initBlock clears the frequency counts and the token buffer for a new
// block.
func (d *deflater) initBlock() {
	for n := 0; n < logicalNumLLCodes; n++ {
		d.dynLLTree[n].freq = 0
	}
	for n := 0; n < logicalNumDCodes; n++ {
		d.dynDTree[n].freq = 0
	}
	for n := 0; n < physicalNumXCodes; n++ {
		d.dynXTree[n].freq = 0
	}
	d.dynLLTree[endBlock].freq = 1
	d.optLen = 0
	d.staticLen = 0
	d.tokens = d.tokens[:0]
	d.matches = 0
}

// tallyLiteral records a literal byte.  It returns true if the current block
// must be flushed.
func (d *deflater) tallyLiteral(ch byte) bool {
	d.tokens = append(d.tokens, makeLiteralToken(ch))
	d.dynLLTree[ch].freq++
	return d.blockFull()
}

// tallyMatch records a copy of length bytes from distance bytes back.  It
// returns true if the current block must be flushed.
func (d *deflater) tallyMatch(distance int, length int) bool {
	assert.Assertf(distance <= d.maxDist(), "distance %d > maxDist %d", distance, d.maxDist())
	t := makeCopyToken(uint16(length), uint16(distance))
	d.tokens = append(d.tokens, t)
	d.matches++

	symLL, _, _ := t.symbolLL()
	symD, _, _ := t.symbolD()
	d.dynLLTree[symLL].freq++
	d.dynDTree[symD].freq++
	return d.blockFull()
}

func (d *deflater) blockFull() bool {
	n := len(d.tokens)
	if d.clevel > 2 && (n&0x1fff) == 0 {
		// Compute an upper bound for the compressed length, and stop
		// early if the block is compressing poorly with few matches.
		outLength := n * 8
		inLength := d.strStart - d.blockStart
		for dcode := 0; dcode < logicalNumDCodes; dcode++ {
			outLength += int(d.dynDTree[dcode].freq) * (5 + int(extraDBits[dcode]))
		}
		outLength >>= 3
		if d.matches < n/2 && outLength < inLength/2 {
			return true
		}
	}
	return n == d.litBufSize-1
}

// trFlushBlock determines the best encoding for the current block (stored,
// static trees, or dynamic trees) and writes it.  buf is nil if the block's
// bytes are no longer in the window.
func (d *deflater) trFlushBlock(buf []byte, storedLen int, last bool) {
	var optLenb, staticLenb int
	maxXIndex := 0

	xtokens := takeTokens()
	defer giveTokens(xtokens)

	var numLL, numD uint
	if d.clevel > 0 {
		if d.strm.DataType == UnknownData {
			d.strm.DataType = detectDataType(d.dynLLTree[:])
		}

		d.buildTree(&d.llDesc)
		d.buildTree(&d.dDesc)
		*xtokens, numLL, numD, maxXIndex = d.buildXTree(*xtokens)

		// Block lengths in bytes, including the 3-bit header.
		optLenb = (d.optLen + 3 + 7) >> 3
		staticLenb = (d.staticLen + 3 + 7) >> 3
		if staticLenb <= optLenb {
			optLenb = staticLenb
		}
	} else {
		assert.Assert(buf != nil, "lost buf")
		optLenb = storedLen + 5
		staticLenb = optLenb
	}

	switch {
	case storedLen+4 <= optLenb && buf != nil:
		// 4: two words for the lengths.  The test buf != nil is only
		// necessary if LIT_BUFSIZE > WSIZE; otherwise we can't get
		// here, since the last block flush was less than a window ago.
		d.trStoredBlock(buf, last)

	case d.strategy == FixedStrategy || staticLenb == optLenb:
		d.sendEvent(Event{
			Type:  BlockBeginEvent,
			Block: &BlockEvent{Type: StaticBlock, IsFinal: last},
		})
		d.sink.writeBits(3, blockHeader(StaticBlock, last))
		d.sendEvent(Event{
			Type:  BlockTreesEvent,
			Block: &BlockEvent{Type: StaticBlock, IsFinal: last},
			Trees: &TreesEvent{
				LiteralLengthSizes: staticLLSizes,
				DistanceSizes:      staticDSizes,
			},
		})
		lits, copies := d.compressBlock(&d.sink, staticLLTree[:], staticDTree[:])
		d.sendEvent(Event{
			Type: BlockEndEvent,
			Block: &BlockEvent{
				Type:         StaticBlock,
				IsFinal:      last,
				LiteralCount: lits,
				MatchCount:   copies,
			},
		})

	default:
		d.sendEvent(Event{
			Type:  BlockBeginEvent,
			Block: &BlockEvent{Type: DynamicBlock, IsFinal: last},
		})
		d.sink.writeBits(3, blockHeader(DynamicBlock, last))
		d.sendAllTrees(&d.sink, *xtokens, numLL, numD, maxXIndex)
		d.sendEvent(Event{
			Type:  BlockTreesEvent,
			Block: &BlockEvent{Type: DynamicBlock, IsFinal: last},
			Trees: &TreesEvent{
				CodeCount:          uint16(maxXIndex + 1),
				LiteralLengthCount: uint16(numLL),
				DistanceCount:      uint16(numD),
				CodeSizes:          sizesOf(d.dynXTree[:], physicalNumXCodes),
				LiteralLengthSizes: sizesOf(d.dynLLTree[:], int(numLL)),
				DistanceSizes:      sizesOf(d.dynDTree[:], int(numD)),
			},
		})
		lits, copies := d.compressBlock(&d.sink, d.dynLLTree[:], d.dynDTree[:])
		d.sendEvent(Event{
			Type: BlockEndEvent,
			Block: &BlockEvent{
				Type:         DynamicBlock,
				IsFinal:      last,
				LiteralCount: lits,
				MatchCount:   copies,
			},
		})
	}

	d.initBlock()
	if last {
		d.sink.alignBits()
	}
}

func blockHeader(blockType BlockType, last bool) block {
	assert.Assertf(blockType.IsValid(), "BlockType %v cannot be written", blockType)
	bits := block(blockType) << 1
	if last {
		bits |= 0x01
	}
	return bits
}

// trStoredBlock writes buf as a stored block.  An empty, non-final stored
// block is the marker written by SyncFlush and FullFlush.
func (d *deflater) trStoredBlock(buf []byte, last bool) {
	assert.Assertf(len(buf) <= 0xffff, "uncompressed block length %d exceeds uint16_t", len(buf))

	d.sendEvent(Event{
		Type:  BlockBeginEvent,
		Block: &BlockEvent{Type: StoredBlock, IsFinal: last},
	})

	u16 := uint16(len(buf))
	d.sink.writeBits(3, blockHeader(StoredBlock, last))
	d.sink.alignBits()
	d.lastEOBLen = 8
	d.sink.writeU16(binary.LittleEndian, u16)
	d.sink.writeU16(binary.LittleEndian, ^u16)
	d.sink.writeBytes(buf)

	d.sendEvent(Event{
		Type: BlockEndEvent,
		Block: &BlockEvent{
			Type:         StoredBlock,
			IsFinal:      last,
			StoredLength: uint(len(buf)),
		},
	})
}

// trAlign sends one empty static block to give enough lookahead for the
// decoder to finish the previous block.  The block takes 10 bits, of which 7
// may remain in the bit buffer; if the previous block's end-of-block code plus
// these 10 bits leave the decoder short of 9 bits of lookahead, a second empty
// static block follows.
func (d *deflater) trAlign() {
	d.sink.writeBits(3, blockHeader(StaticBlock, false))
	d.sink.writeCode(staticLLTree[endBlock])
	d.sink.flushBits()

	if 1+int(d.lastEOBLen)+10-int(d.sink.obLen) < 9 {
		d.sink.writeBits(3, blockHeader(StaticBlock, false))
		d.sink.writeCode(staticLLTree[endBlock])
		d.sink.flushBits()
	}
	d.lastEOBLen = 7
}

// buildXTree run-length encodes the literal/length and distance code
// lengths, builds the code length tree for them, and returns the encoded
// lengths along with the index in scramble order of the last code length
// code that must be sent.
func (d *deflater) buildXTree(xtokens []token) ([]token, uint, uint, int) {
	var sLL [logicalNumLLCodes]byte
	for n := range sLL {
		sLL[n] = d.dynLLTree[n].len
	}
	var sD [logicalNumDCodes]byte
	for n := range sD {
		sD[n] = d.dynDTree[n].len
	}

	var numLL, numD uint
	xtokens, numLL = encodeTreeTokens(xtokens, sLL[:], 257)
	xtokens, numD = encodeTreeTokens(xtokens, sD[:], 1)
	assert.Assertf(int(numLL) == d.llDesc.maxCode+1, "numLL %d != maxCode %d + 1", numLL, d.llDesc.maxCode)
	assert.Assertf(int(numD) == d.dDesc.maxCode+1, "numD %d != maxCode %d + 1", numD, d.dDesc.maxCode)

	countFrequenciesX(d.dynXTree[:], xtokens)
	d.buildTree(&d.xDesc)

	// At least four code length codes are always sent.
	maxXIndex := physicalNumXCodes - 1
	for maxXIndex >= 3 {
		if d.dynXTree[scramble[maxXIndex]].len != 0 {
			break
		}
		maxXIndex--
	}

	// HLIT, HDIST, HCLEN, and 3 bits per code length code.
	d.optLen += 3*(maxXIndex+1) + 5 + 5 + 4
	return xtokens, numLL, numD, maxXIndex
}

func (d *deflater) sendAllTrees(bs *bitsink, xtokens []token, numLL uint, numD uint, maxXIndex int) {
	assert.Assertf(numLL >= 257 && numD >= 1 && maxXIndex >= 3, "not enough codes: %d %d %d", numLL, numD, maxXIndex)
	assert.Assertf(numLL <= logicalNumLLCodes && numD <= logicalNumDCodes, "too many codes: %d %d", numLL, numD)

	bs.writeBits(5, block(numLL-257))
	bs.writeBits(5, block(numD-1))
	bs.writeBits(4, block(maxXIndex+1-4))
	for rank := 0; rank <= maxXIndex; rank++ {
		bs.writeBits(3, block(d.dynXTree[scramble[rank]].len))
	}
	for _, t := range xtokens {
		t.encodeX(bs, d.dynXTree[:])
	}
}

// compressBlock writes the tokens of the current block followed by the
// end-of-block code, and returns the number of literals and matches.
func (d *deflater) compressBlock(bs *bitsink, treeLL []treeNode, treeD []treeNode) (lits uint, copies uint) {
	for _, t := range d.tokens {
		t.encodeLLD(bs, treeLL, treeD)
		if t.distance == 0 {
			lits++
		} else {
			copies++
		}
	}
	makeStopToken().encodeLLD(bs, treeLL, treeD)
	d.lastEOBLen = treeLL[endBlock].len
	return lits, copies
}
