package zflate

import (
	"github.com/chronos-tachyon/assert"

	"github.com/chronos-tachyon/zflate/internal/adler32"
)

// blockDecoder decodes a sequence of DEFLATE blocks into a circular window,
// from which the output is copied into the Stream.  Bytes in
// window[read:write] (wrapping at the end) are decoded but not yet
// delivered; the rest of the window is history available to back
// references.
type blockDecoder struct {
	bitsource

	emit func(Event)

	mode  blockMode
	last  bool
	btype BlockType
	left  int    // stored bytes remaining
	size  int    // LEN of the current stored block
	table uint32 // HLIT, HDIST, and HCLEN of a dynamic block
	index int    // next code length to read

	xlens [physicalNumXCodes]byte
	lens  [logicalNumLLCodes + logicalNumDCodes]byte
	xdec  huffmanDecoder
	lldec huffmanDecoder
	ddec  huffmanDecoder
	codes codesDecoder

	window []byte
	read   int
	write  int
	have   int // bytes of valid history, at most len(window)

	checked bool
	check   uint32
}

func (bd *blockDecoder) init(strm *Stream, wbits WindowBits, checked bool, emit func(Event)) {
	bd.strm = strm
	bd.emit = emit
	bd.checked = checked
	bd.window = make([]byte, 1<<uint(wbits))
	bd.reset()
}

// reset discards all state and returns the checksum of everything output so
// far.
func (bd *blockDecoder) reset() uint32 {
	was := bd.check
	bd.mode = typeBlockMode
	bd.last = false
	bd.btype = ReservedBlock
	bd.bitsource.clear()
	bd.read = 0
	bd.write = 0
	bd.have = 0
	bd.check = adler32.Initial
	return was
}

// setDictionary preloads the window with history, keeping at most
// len(window)-1 bytes from the end of dict.
func (bd *blockDecoder) setDictionary(dict []byte) {
	if max := len(bd.window) - 1; len(dict) > max {
		dict = dict[len(dict)-max:]
	}
	n := copy(bd.window, dict)
	bd.read = n
	bd.write = n
	bd.have = n
}

// syncPoint reports whether the decoder is waiting for the LEN and NLEN
// fields of a stored block, with no input bits held.
func (bd *blockDecoder) syncPoint() bool {
	return bd.mode == lensBlockMode && bd.bitk == 0
}

// wavail is the contiguous window space available at write.
func (bd *blockDecoder) wavail() int {
	if bd.write < bd.read {
		return bd.read - bd.write - 1
	}
	return len(bd.window) - bd.write
}

// wrap moves write back to the start of the window once it has reached the
// end, unless that would overtake read.
func (bd *blockDecoder) wrap() {
	if bd.write == len(bd.window) && bd.read != 0 {
		bd.write = 0
	}
}

// needOut makes window space available for at least one byte, flushing
// output if needed.  It returns false if the output space is full.
func (bd *blockDecoder) needOut() bool {
	if bd.wavail() == 0 {
		bd.wrap()
		if bd.wavail() == 0 {
			bd.flush()
			bd.wrap()
			if bd.wavail() == 0 {
				return false
			}
		}
	}
	return true
}

func (bd *blockDecoder) produced(n int) {
	bd.have += n
	if bd.have > len(bd.window) {
		bd.have = len(bd.window)
	}
}

func (bd *blockDecoder) outByte(ch byte) {
	bd.window[bd.write] = ch
	bd.write++
	bd.produced(1)
}

// flush copies as much pending output as possible from the window into
// NextOut, updating the running checksum.
func (bd *blockDecoder) flush() {
	end := bd.write
	if bd.read > bd.write {
		end = len(bd.window)
	}
	bd.copyOut(end)

	if bd.read == len(bd.window) {
		bd.read = 0
		if bd.write == len(bd.window) {
			bd.write = 0
		}
		bd.copyOut(bd.write)
	}
}

func (bd *blockDecoder) copyOut(end int) {
	strm := bd.strm
	n := copy(strm.NextOut, bd.window[bd.read:end])
	if n == 0 {
		return
	}
	if bd.checked {
		bd.check = adler32.Update(bd.check, bd.window[bd.read:bd.read+n])
		strm.Adler = bd.check
	}
	strm.NextOut = strm.NextOut[n:]
	strm.TotalOut += uint64(n)
	bd.read += n
}

func (bd *blockDecoder) leave(status Status) Status {
	bd.flush()
	return status
}

func (bd *blockDecoder) fail(msg string) Status {
	bd.mode = badBlockMode
	bd.strm.Msg = msg
	return bd.leave(ErrData)
}

func (bd *blockDecoder) beginBlock(btype BlockType) {
	bd.btype = btype
	bd.emit(Event{
		Type:  BlockBeginEvent,
		Block: &BlockEvent{Type: btype, IsFinal: bd.last},
	})
}

func (bd *blockDecoder) endBlock(storedLength int) {
	bd.emit(Event{
		Type: BlockEndEvent,
		Block: &BlockEvent{
			Type:         bd.btype,
			IsFinal:      bd.last,
			StoredLength: uint(storedLength),
		},
	})
	if bd.last {
		bd.mode = dryBlockMode
	} else {
		bd.mode = typeBlockMode
	}
}

// decode runs the block state machine until the input is exhausted, the
// output space is full, the final block has been delivered (StreamEnd), or
// the data is found to be corrupt (ErrData).  It returns Ok when suspended.
func (bd *blockDecoder) decode() Status {
	strm := bd.strm
	for {
		switch bd.mode {
		case typeBlockMode:
			if !bd.need(3) {
				return bd.leave(Ok)
			}
			t := bd.peek(3)
			bd.last = (t & 1) != 0
			bd.dump(3)
			switch btype := BlockType(t >> 1); btype {
			case StoredBlock:
				bd.alignToByte()
				bd.beginBlock(StoredBlock)
				bd.mode = lensBlockMode
			case StaticBlock:
				bd.beginBlock(StaticBlock)
				bd.emit(Event{
					Type:  BlockTreesEvent,
					Block: &BlockEvent{Type: StaticBlock, IsFinal: bd.last},
					Trees: &TreesEvent{
						LiteralLengthSizes: staticLLSizes,
						DistanceSizes:      staticDSizes,
					},
				})
				bd.codes.init(&fixedDecoderLL, &fixedDecoderD)
				bd.mode = codesBlockMode
			case DynamicBlock:
				bd.beginBlock(DynamicBlock)
				bd.mode = tableBlockMode
			default:
				assert.Assertf(!btype.IsValid(), "BlockType %v not handled", btype)
				return bd.fail("invalid block type")
			}

		case lensBlockMode:
			if !bd.need(32) {
				return bd.leave(Ok)
			}
			b := uint32(bd.peek(32))
			if (^b>>16)&0xffff != b&0xffff {
				return bd.fail("invalid stored block lengths")
			}
			bd.left = int(b & 0xffff)
			bd.size = bd.left
			bd.bitsource.clear()
			if bd.left == 0 {
				bd.endBlock(0)
			} else {
				bd.mode = storedBlockMode
			}

		case storedBlockMode:
			if len(strm.NextIn) == 0 {
				return bd.leave(Ok)
			}
			if !bd.needOut() {
				return bd.leave(Ok)
			}
			n := bd.left
			if n > len(strm.NextIn) {
				n = len(strm.NextIn)
			}
			if m := bd.wavail(); n > m {
				n = m
			}
			copy(bd.window[bd.write:bd.write+n], strm.NextIn[:n])
			strm.NextIn = strm.NextIn[n:]
			strm.TotalIn += uint64(n)
			bd.write += n
			bd.produced(n)
			bd.left -= n
			if bd.left == 0 {
				bd.endBlock(bd.size)
			}

		case tableBlockMode:
			if !bd.need(14) {
				return bd.leave(Ok)
			}
			t := uint32(bd.peek(14))
			if (t&0x1f) > 29 || ((t>>5)&0x1f) > 29 {
				return bd.fail("too many length or distance symbols")
			}
			bd.table = t
			bd.dump(14)
			bd.index = 0
			bd.mode = btreeBlockMode

		case btreeBlockMode:
			for bd.index < 4+int(bd.table>>10) {
				if !bd.need(3) {
					return bd.leave(Ok)
				}
				bd.xlens[scramble[bd.index]] = byte(bd.peek(3))
				bd.index++
				bd.dump(3)
			}
			for bd.index < physicalNumXCodes {
				bd.xlens[scramble[bd.index]] = 0
				bd.index++
			}
			if sizesAllZeroes(bd.xlens[:]) || !bd.xdec.init(bd.xlens[:], false) {
				return bd.fail("invalid code lengths set")
			}
			bd.index = 0
			bd.mode = dtreeBlockMode

		case dtreeBlockMode:
			numLL := 257 + int(bd.table&0x1f)
			numD := 1 + int((bd.table>>5)&0x1f)
			total := numLL + numD
			for bd.index < total {
				sym, size, ok, valid := bd.peekSym(&bd.xdec)
				if !valid {
					return bd.fail("invalid code lengths set")
				}
				if !ok {
					return bd.leave(Ok)
				}
				if sym < 16 {
					bd.dump(size)
					bd.lens[bd.index] = byte(sym)
					bd.index++
					continue
				}

				var extra byte
				var repeat int
				switch sym {
				case 16:
					extra, repeat = 2, 3
				case 17:
					extra, repeat = 3, 3
				default:
					extra, repeat = 7, 11
				}
				if !bd.need(size + extra) {
					return bd.leave(Ok)
				}
				bd.dump(size)
				repeat += int(bd.peek(extra))
				bd.dump(extra)

				i := bd.index
				if i+repeat > total || (sym == 16 && i < 1) {
					return bd.fail("invalid bit length repeat")
				}
				var c byte
				if sym == 16 {
					c = bd.lens[i-1]
				}
				for ; repeat > 0; repeat-- {
					bd.lens[i] = c
					i++
				}
				bd.index = i
			}

			if bd.lens[endBlock] == 0 {
				return bd.fail("invalid code -- missing end-of-block")
			}
			if !bd.lldec.init(bd.lens[:numLL], true) {
				return bd.fail("invalid literal/lengths set")
			}
			if !bd.ddec.init(bd.lens[numLL:total], true) {
				return bd.fail("invalid distances set")
			}

			bd.emit(Event{
				Type:  BlockTreesEvent,
				Block: &BlockEvent{Type: DynamicBlock, IsFinal: bd.last},
				Trees: &TreesEvent{
					CodeCount:          uint16(4 + (bd.table >> 10)),
					LiteralLengthCount: uint16(numLL),
					DistanceCount:      uint16(numD),
					CodeSizes:          append(SizeList(nil), bd.xlens[:]...),
					LiteralLengthSizes: append(SizeList(nil), bd.lens[:numLL]...),
					DistanceSizes:      append(SizeList(nil), bd.lens[numLL:total]...),
				},
			})
			bd.codes.init(&bd.lldec, &bd.ddec)
			bd.mode = codesBlockMode

		case codesBlockMode:
			status := bd.codes.decode(bd)
			if status == ErrData {
				bd.mode = badBlockMode
			}
			if status != StreamEnd {
				return bd.leave(status)
			}
			bd.endBlock(0)

		case dryBlockMode:
			bd.flush()
			if bd.read != bd.write {
				return bd.leave(Ok)
			}
			bd.mode = doneBlockMode

		case doneBlockMode:
			return bd.leave(StreamEnd)

		default:
			return bd.leave(ErrData)
		}
	}
}
