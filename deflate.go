package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/assert"

	"github.com/chronos-tachyon/zflate/internal/adler32"
)

type deflateStatus byte

const (
	initStatus deflateStatus = iota
	busyStatus
	finishStatus
)

// blockState is the outcome of one run of a compress function.
type blockState byte

const (
	needMore      blockState = iota // block not completed, need more input or more output
	blockDone                       // block flush performed
	finishStarted                   // finish started, need only more output at next deflate
	finishDone                      // finish done, accept no more input or output
)

type compressFunc byte

const (
	storedFunc compressFunc = iota
	fastFunc
	slowFunc
	huffFunc
	rleFunc
)

type compressConfig struct {
	good  int // reduce lazy search above this match length
	lazy  int // do not perform lazy search above this match length
	nice  int // quit search above this match length
	chain int
	fn    compressFunc
}

var compressConfigs = [...]compressConfig{
	/* 0 */ {0x0000, 0x0000, 0x0000, 0x0000, storedFunc},
	/* 1 */ {0x0004, 0x0004, 0x0008, 0x0004, fastFunc},
	/* 2 */ {0x0004, 0x0005, 0x0010, 0x0008, fastFunc},
	/* 3 */ {0x0004, 0x0006, 0x0020, 0x0020, fastFunc},
	/* 4 */ {0x0004, 0x0004, 0x0010, 0x0010, slowFunc},
	/* 5 */ {0x0008, 0x0010, 0x0020, 0x0020, slowFunc},
	/* 6 */ {0x0008, 0x0010, 0x0080, 0x0080, slowFunc},
	/* 7 */ {0x0008, 0x0020, 0x0080, 0x0100, slowFunc},
	/* 8 */ {0x0020, 0x0080, 0x0102, 0x0400, slowFunc},
	/* 9 */ {0x0020, 0x0102, 0x0102, 0x1000, slowFunc},
}

func selectCompressFunc(clevel CompressLevel, strategy Strategy) compressFunc {
	switch {
	case clevel == NoCompression:
		return storedFunc
	case strategy == HuffmanOnlyStrategy:
		return huffFunc
	case strategy == HuffmanRLEStrategy:
		return rleFunc
	default:
		return compressConfigs[clevel].fn
	}
}

// deflater is the compression state owned by a Stream between DeflateInit
// and DeflateEnd.
type deflater struct {
	strm    *Stream
	tracers []Tracer

	format    Format
	method    Method
	status    deflateStatus
	lastFlush int // previous flush, or -1 to force progress
	dataSeen  bool
	wroteTail bool
	sentClose bool

	failed  Status
	failMsg string

	clevel   CompressLevel
	strategy Strategy
	mlevel   MemoryLevel
	wbits    WindowBits

	hasDict bool
	dictID  uint32

	matcher

	treeBuilder
	dynLLTree [heapSize]treeNode
	dynDTree  [2*logicalNumDCodes + 1]treeNode
	dynXTree  [2*physicalNumXCodes + 1]treeNode
	llDesc    treeDesc
	dDesc     treeDesc
	xDesc     treeDesc

	tokens     []token
	litBufSize int
	matches    int
	lastEOBLen byte

	sink bitsink
}

func newDeflater(strm *Stream, o *options) *deflater {
	d := &deflater{
		strm:     strm,
		tracers:  o.tracers,
		format:   o.format,
		method:   o.method,
		clevel:   o.clevel,
		strategy: o.strategy,
		mlevel:   o.mlevel,
		wbits:    o.wbits,
	}

	d.matcher.init(uint(d.wbits), uint(d.mlevel)+7)
	d.litBufSize = 1 << (uint(d.mlevel) + 6)
	d.tokens = make([]token, 0, d.litBufSize)
	d.sink.pending = make([]byte, 0, 4*d.litBufSize)

	d.llDesc = treeDesc{dynTree: d.dynLLTree[:], stat: &staticLLDesc}
	d.dDesc = treeDesc{dynTree: d.dynDTree[:], stat: &staticDDesc}
	d.xDesc = treeDesc{dynTree: d.dynXTree[:], stat: &staticXDesc}

	d.reset()
	return d
}

func (d *deflater) reset() {
	strm := d.strm
	strm.TotalIn = 0
	strm.TotalOut = 0
	strm.Msg = ""
	strm.DataType = UnknownData
	strm.Adler = adler32.Initial

	d.status = initStatus
	if d.format == RawFormat {
		d.status = busyStatus
	}
	d.lastFlush = int(NoFlush)
	d.dataSeen = false
	d.wroteTail = false
	d.sentClose = false
	d.failed = Ok
	d.failMsg = ""
	d.hasDict = false
	d.dictID = 0

	d.sink.reset()
	d.lastEOBLen = 8
	d.initBlock()

	d.matcher.reset()
	d.applyConfig()
}

func (d *deflater) applyConfig() {
	cfg := compressConfigs[d.clevel]
	d.goodMatch = cfg.good
	d.maxLazyMatch = cfg.lazy
	d.niceMatch = cfg.nice
	d.maxChainLength = cfg.chain
}

func (d *deflater) compressFunc() compressFunc {
	return selectCompressFunc(d.clevel, d.strategy)
}

func (d *deflater) fail(status Status, format string, args ...interface{}) Status {
	d.failed = status
	d.failMsg = fmt.Sprintf(format, args...)
	d.strm.Msg = d.failMsg
	return status
}

func (d *deflater) bufError() Status {
	d.strm.Msg = "buffer error"
	return ErrBuf
}

func (d *deflater) sendEvent(event Event) {
	event.InputBytes = d.strm.TotalIn
	event.OutputBytes = d.strm.TotalOut + uint64(d.sink.numPending())
	event.Format = d.format
	for _, tr := range d.tracers {
		tr.OnEvent(event)
	}
}

// flushPending moves as much pending output as possible into NextOut.
func (d *deflater) flushPending() {
	strm := d.strm
	n := d.sink.deliver(strm.NextOut)
	strm.NextOut = strm.NextOut[n:]
	strm.TotalOut += uint64(n)
}

func (d *deflater) deflate(flush FlushType) Status {
	strm := d.strm
	if d.failed != Ok {
		strm.Msg = d.failMsg
		return d.failed
	}
	if !flush.IsValid() {
		return d.fail(ErrStream, "invalid FlushType %d", uint(flush))
	}
	if d.status == finishStatus && flush != FinishFlush {
		return d.fail(ErrStream, "stream is finishing; %v is not permitted after %v", flush, FinishFlush)
	}
	if strm.NextOut == nil {
		return d.fail(ErrStream, "no output buffer")
	}
	if d.status == finishStatus && len(strm.NextIn) != 0 {
		return d.fail(ErrStream, "new input after %v", FinishFlush)
	}
	if len(strm.NextOut) == 0 {
		return d.bufError()
	}

	if !d.dataSeen {
		d.dataSeen = true
		d.sendEvent(Event{Type: StreamBeginEvent})
		if d.format == RawFormat {
			d.sendEvent(Event{Type: StreamHeaderEvent})
		}
	}

	oldFlush := d.lastFlush
	d.lastFlush = int(flush)

	if d.status == initStatus {
		d.writeHeader()
		d.status = busyStatus
	}

	if d.sink.numPending() != 0 {
		d.flushPending()
		if len(strm.NextOut) == 0 {
			// Make sure a later call with the same flush makes
			// progress.
			d.lastFlush = -1
			return Ok
		}
	} else if len(strm.NextIn) == 0 && int(flush) <= oldFlush && flush != FinishFlush {
		return d.bufError()
	}

	if len(strm.NextIn) != 0 || d.lookahead != 0 || (flush != NoFlush && d.status != finishStatus) {
		bstate := d.compress(flush)
		if bstate == finishStarted || bstate == finishDone {
			d.status = finishStatus
		}
		if bstate == needMore || bstate == finishStarted {
			if len(strm.NextOut) == 0 {
				d.lastFlush = -1
			}
			return Ok
		}
		if bstate == blockDone {
			if flush == PartialFlush {
				d.trAlign()
			} else {
				d.trStoredBlock(nil, false)
				if flush == FullFlush {
					d.clearHash()
				}
			}
			d.flushPending()
			if len(strm.NextOut) == 0 {
				d.lastFlush = -1
				return Ok
			}
		}
	}
	assert.Assertf(len(strm.NextOut) != 0, "output space exhausted without returning")

	if flush != FinishFlush {
		return Ok
	}

	if !d.wroteTail {
		d.wroteTail = true
		var footer *FooterEvent
		if d.format == ZlibFormat {
			footer = &FooterEvent{Adler32: Checksum32(strm.Adler)}
			d.sink.writeU16MSB(uint16(strm.Adler >> 16))
			d.sink.writeU16MSB(uint16(strm.Adler))
		}
		d.sendEvent(Event{Type: StreamEndEvent, Footer: footer})
		d.flushPending()
	}

	if d.sink.numPending() != 0 {
		return Ok
	}
	if !d.sentClose {
		d.sentClose = true
		d.sendEvent(Event{Type: StreamCloseEvent})
	}
	return StreamEnd
}

func (d *deflater) writeHeader() {
	hdr := Header{
		Method:        d.method,
		WindowBits:    d.wbits,
		CompressLevel: d.clevel,
		HasDictionary: d.hasDict,
		DictionaryID:  Checksum32(d.dictID),
	}
	d.sink.pending = encodeHeader(d.sink.pending, hdr, d.strategy)
	d.strm.Adler = adler32.Initial
	d.sendEvent(Event{Type: StreamHeaderEvent, Header: &hdr})
}

func (d *deflater) compress(flush FlushType) blockState {
	switch d.compressFunc() {
	case storedFunc:
		return d.deflateStored(flush)
	case fastFunc:
		return d.deflateFast(flush)
	case slowFunc:
		return d.deflateSlow(flush)
	case huffFunc:
		return d.deflateHuff(flush)
	case rleFunc:
		return d.deflateRLE(flush)
	default:
		assert.Raisef("compressFunc %d not implemented", uint(d.compressFunc()))
		return needMore
	}
}

func (d *deflater) setDictionary(dict []byte) Status {
	if d.dataSeen {
		d.strm.Msg = "preset dictionary must be set before the first call to Deflate"
		return ErrStream
	}

	d.dictID = adler32.Checksum(dict)
	if d.format == ZlibFormat {
		d.strm.Adler = d.dictID
	}
	if len(dict) < minMatch {
		return Ok
	}

	maxDist := d.maxDist()
	if len(dict) > maxDist {
		dict = dict[len(dict)-maxDist:]
	}
	copy(d.window, dict)
	d.strStart = len(dict)
	d.blockStart = len(dict)

	d.insH = uint32(d.window[0])
	d.updateHash(d.window[1])
	for n := 0; n <= len(dict)-minMatch; n++ {
		d.insertString(n)
	}
	d.hasDict = true
	return Ok
}

func (d *deflater) params(clevel CompressLevel, strategy Strategy) Status {
	clevel = clevel.resolve()
	if !clevel.IsValid() || !strategy.IsValid() {
		d.strm.Msg = fmt.Sprintf("invalid parameters: level %d, strategy %d", int(clevel), uint(strategy))
		return ErrStream
	}

	status := Ok
	if selectCompressFunc(clevel, strategy) != d.compressFunc() && d.strm.TotalIn != 0 {
		status = d.deflate(PartialFlush)
	}

	if d.clevel != clevel {
		d.clevel = clevel
		d.applyConfig()
	}
	d.strategy = strategy
	return status
}

func (d *deflater) end() Status {
	status := d.status
	d.tokens = nil
	d.sink = bitsink{}
	d.matcher = matcher{}
	if status == busyStatus {
		d.strm.Msg = "deflate stream ended before FinishFlush completed"
		return ErrData
	}
	return Ok
}
