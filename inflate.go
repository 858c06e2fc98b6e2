package zflate

import (
	"fmt"

	"github.com/chronos-tachyon/zflate/internal/adler32"
)

// inflater is the decompression state owned by a Stream between InflateInit
// and InflateEnd.
type inflater struct {
	strm    *Stream
	tracers []Tracer

	format Format
	wbits  WindowBits

	mode   inflateMode
	method byte
	need   uint32 // dictionary id or trailer, as read from the stream
	was    uint32 // checksum computed over the output
	marker int    // bytes of the sync marker matched so far, or 5 after a header error

	begun     bool
	sentClose bool
	failed    Status
	failMsg   string
	hdr       Header

	blocks blockDecoder
}

func newInflater(strm *Stream, o *options) *inflater {
	inf := &inflater{
		strm:    strm,
		tracers: o.tracers,
		format:  o.format,
		wbits:   o.wbits,
	}
	inf.blocks.init(strm, inf.wbits, inf.format == ZlibFormat, inf.sendEvent)
	inf.reset()
	return inf
}

func (inf *inflater) reset() {
	strm := inf.strm
	strm.TotalIn = 0
	strm.TotalOut = 0
	strm.Msg = ""
	strm.Adler = adler32.Initial

	inf.mode = methodMode
	if inf.format == RawFormat {
		inf.mode = blocksMode
	}
	inf.method = 0
	inf.need = 0
	inf.was = 0
	inf.marker = 0
	inf.begun = false
	inf.sentClose = false
	inf.failed = Ok
	inf.failMsg = ""
	inf.hdr = Header{}
	inf.blocks.reset()
}

func (inf *inflater) sendEvent(event Event) {
	event.InputBytes = inf.strm.TotalIn
	event.OutputBytes = inf.strm.TotalOut
	event.Format = inf.format
	for _, tr := range inf.tracers {
		tr.OnEvent(event)
	}
}

func (inf *inflater) bad(msg string, marker int) {
	inf.mode = badMode
	inf.strm.Msg = msg
	inf.marker = marker
}

func (inf *inflater) fail(status Status, msg string) Status {
	inf.failed = status
	inf.failMsg = msg
	inf.strm.Msg = msg
	return status
}

func (inf *inflater) nextByte() (byte, bool) {
	strm := inf.strm
	if len(strm.NextIn) == 0 {
		return 0, false
	}
	ch := strm.NextIn[0]
	strm.NextIn = strm.NextIn[1:]
	strm.TotalIn++
	return ch, true
}

func (inf *inflater) inflate(flush FlushType) Status {
	strm := inf.strm
	if inf.failed != Ok {
		strm.Msg = inf.failMsg
		return inf.failed
	}
	if !flush.IsValid() {
		return inf.fail(ErrStream, fmt.Sprintf("invalid FlushType %d", uint(flush)))
	}

	// With FinishFlush, running out of room is reported as ErrBuf even
	// when progress was made.
	f := Ok
	if flush == FinishFlush {
		f = ErrBuf
	}
	inTotal, outTotal := strm.TotalIn, strm.TotalOut
	suspend := func() Status {
		if strm.TotalIn == inTotal && strm.TotalOut == outTotal {
			return ErrBuf
		}
		return f
	}

	if !inf.begun {
		inf.begun = true
		inf.sendEvent(Event{Type: StreamBeginEvent})
		if inf.format == RawFormat {
			inf.sendEvent(Event{Type: StreamHeaderEvent})
		}
	}

	for {
		switch inf.mode {
		case methodMode:
			ch, ok := inf.nextByte()
			if !ok {
				return suspend()
			}
			inf.method = ch
			if ch&0x0f != cmDeflate {
				inf.bad("unknown compression method", 5)
				continue
			}
			if WindowBits(ch>>4)+8 > inf.wbits {
				inf.bad("invalid window size", 5)
				continue
			}
			inf.mode = flagMode

		case flagMode:
			ch, ok := inf.nextByte()
			if !ok {
				return suspend()
			}
			if (uint(inf.method)<<8+uint(ch))%31 != 0 {
				inf.bad("incorrect header check", 5)
				continue
			}
			inf.hdr = Header{
				Method:        DeflateMethod,
				WindowBits:    WindowBits(inf.method>>4) + 8,
				CompressLevel: levelFromFLevel(ch >> 6),
				HasDictionary: (ch & 0x20) != 0,
			}
			if !inf.hdr.HasDictionary {
				inf.sendHeaderEvent()
				inf.mode = blocksMode
				continue
			}
			inf.mode = dict4Mode

		case dict4Mode, dict3Mode, dict2Mode, dict1Mode:
			ch, ok := inf.nextByte()
			if !ok {
				return suspend()
			}
			inf.need = (inf.need << 8) | uint32(ch)
			if inf.mode != dict1Mode {
				inf.mode++
				continue
			}
			inf.hdr.DictionaryID = Checksum32(inf.need)
			inf.sendHeaderEvent()
			strm.Adler = inf.need
			inf.mode = dict0Mode
			return NeedDict

		case dict0Mode:
			inf.bad("need dictionary", 0)
			return inf.fail(ErrStream, "need dictionary")

		case blocksMode:
			status := inf.blocks.decode()
			if status == ErrData {
				inf.mode = badMode
				inf.marker = 0
				continue
			}
			if status != StreamEnd {
				return suspend()
			}
			inf.was = inf.blocks.reset()
			if inf.format == RawFormat {
				inf.mode = doneMode
				continue
			}
			inf.need = 0
			inf.mode = check4Mode

		case check4Mode, check3Mode, check2Mode, check1Mode:
			ch, ok := inf.nextByte()
			if !ok {
				return suspend()
			}
			inf.need = (inf.need << 8) | uint32(ch)
			if inf.mode != check1Mode {
				inf.mode++
				continue
			}
			if inf.was != inf.need {
				inf.bad("incorrect data check", 5)
				continue
			}
			inf.mode = doneMode

		case doneMode:
			if !inf.sentClose {
				inf.sentClose = true
				var footer *FooterEvent
				if inf.format == ZlibFormat {
					footer = &FooterEvent{Adler32: Checksum32(inf.was)}
				}
				inf.sendEvent(Event{Type: StreamEndEvent, Footer: footer})
				inf.sendEvent(Event{Type: StreamCloseEvent})
			}
			return StreamEnd

		default:
			return ErrData
		}
	}
}

func (inf *inflater) sendHeaderEvent() {
	hdr := inf.hdr
	inf.sendEvent(Event{Type: StreamHeaderEvent, Header: &hdr})
}

func (inf *inflater) setDictionary(dict []byte) Status {
	strm := inf.strm
	switch {
	case inf.mode == dict0Mode:
		if id := adler32.Checksum(dict); id != inf.need {
			inf.bad(fmt.Sprintf("incorrect dictionary: Adler-32 %v, expected %v", Checksum32(id), Checksum32(inf.need)), 0)
			return ErrData
		}
		strm.Adler = adler32.Initial

	case inf.format == RawFormat && inf.mode == blocksMode && strm.TotalIn == 0:
		// A raw stream carries no dictionary id, so a dictionary is
		// accepted before the first byte of input.

	default:
		strm.Msg = "preset dictionary is not expected at this point"
		return ErrStream
	}

	inf.blocks.setDictionary(dict)
	inf.mode = blocksMode
	return Ok
}

// syncMarker is the LEN and NLEN of the empty stored block written by
// SyncFlush and FullFlush.
var syncMarker = [4]byte{0x00, 0x00, 0xff, 0xff}

func (inf *inflater) sync() Status {
	strm := inf.strm
	if inf.mode != badMode {
		inf.mode = badMode
		inf.marker = 0
	}
	if len(strm.NextIn) == 0 {
		return ErrBuf
	}

	m := inf.marker
	n := 0
	for n < len(strm.NextIn) && m < 4 {
		ch := strm.NextIn[n]
		switch {
		case ch == syncMarker[m]:
			m++
		case ch != 0:
			m = 0
		default:
			m = 4 - m
		}
		n++
	}
	strm.NextIn = strm.NextIn[n:]
	strm.TotalIn += uint64(n)
	inf.marker = m

	if m != 4 {
		return ErrData
	}

	totalIn, totalOut := strm.TotalIn, strm.TotalOut
	inf.reset()
	strm.TotalIn, strm.TotalOut = totalIn, totalOut
	inf.begun = true
	inf.mode = blocksMode
	return Ok
}

func (inf *inflater) syncPoint() bool {
	return inf.mode == blocksMode && inf.blocks.syncPoint()
}

func (inf *inflater) end() {
	inf.blocks = blockDecoder{}
	inf.mode = badMode
}
