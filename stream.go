package zflate

// Stream is the caller-visible context shared by the compressor and the
// decompressor.  The caller points NextIn at the available input and NextOut
// at the available output space, then calls Deflate or Inflate; each call
// consumes from the front of NextIn, writes to the front of NextOut, and
// reslices both to what remains.  Engines never block: they return when the
// input is exhausted or the output space is full, and resume exactly where
// they stopped on the next call.
//
// A Stream owns at most one engine at a time.  DeflateInit and InflateInit
// replace whichever engine was attached.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	// NextIn is the input not yet consumed.
	NextIn []byte

	// TotalIn counts the input bytes consumed so far.
	TotalIn uint64

	// NextOut is the output space not yet filled.
	NextOut []byte

	// TotalOut counts the output bytes produced so far.
	TotalOut uint64

	// Adler is the running Adler-32 of the uncompressed data.  After
	// Inflate returns NeedDict, it holds the Adler-32 of the preset
	// dictionary that the stream requires.
	Adler uint32

	// Msg describes the most recent failure, or is empty.
	Msg string

	// DataType is the compressor's guess at the type of the input data.
	DataType DataType

	dstate *deflater
	istate *inflater
}

func (strm *Stream) detach() {
	strm.dstate = nil
	strm.istate = nil
}

func (strm *Stream) initOptions(opts []Option, forDeflate bool) (*options, Status) {
	var o options
	o.reset()
	o.apply(opts)

	strm.Msg = ""
	if err := o.validate(forDeflate); err != nil {
		strm.Msg = err.Error()
		return nil, ErrStream
	}
	if forDeflate {
		o.populateDeflateDefaults()
	} else {
		o.populateInflateDefaults()
	}
	return &o, Ok
}

// DeflateInit prepares the Stream for compression.  It returns ErrStream,
// with every problem described in Msg, if any option is invalid.
func (strm *Stream) DeflateInit(opts ...Option) Status {
	strm.detach()
	o, status := strm.initOptions(opts, true)
	if status != Ok {
		return status
	}
	strm.dstate = newDeflater(strm, o)
	return Ok
}

// Deflate compresses as much data as possible from NextIn into NextOut,
// stopping when the input is exhausted or the output space is full.
//
// It returns Ok if progress was made, StreamEnd once FinishFlush has
// produced all output including the trailer, ErrBuf if no progress was
// possible, or ErrStream if the call was invalid.  ErrStream is sticky.
func (strm *Stream) Deflate(flush FlushType) Status {
	if strm.dstate == nil {
		strm.Msg = "stream not initialized for deflate"
		return ErrStream
	}
	return strm.dstate.deflate(flush)
}

// DeflateSetDictionary installs a preset dictionary.  It must be called after
// DeflateInit (or DeflateReset) and before the first Deflate.  In ZlibFormat,
// Adler is set to the dictionary's Adler-32, which the decompressor will ask
// for.
func (strm *Stream) DeflateSetDictionary(dict []byte) Status {
	if strm.dstate == nil {
		strm.Msg = "stream not initialized for deflate"
		return ErrStream
	}
	return strm.dstate.setDictionary(dict)
}

// DeflateParams changes the compression level and strategy mid-stream.  If
// the change selects a different matching algorithm and input has already
// been consumed, the current block is first flushed with PartialFlush; the
// Status of that flush is returned.
func (strm *Stream) DeflateParams(clevel CompressLevel, strategy Strategy) Status {
	if strm.dstate == nil {
		strm.Msg = "stream not initialized for deflate"
		return ErrStream
	}
	return strm.dstate.params(clevel, strategy)
}

// DeflateReset restarts compression with the same parameters, reusing the
// allocated buffers.  Any preset dictionary must be set again.
func (strm *Stream) DeflateReset() Status {
	if strm.dstate == nil {
		strm.Msg = "stream not initialized for deflate"
		return ErrStream
	}
	strm.dstate.reset()
	return Ok
}

// DeflateEnd releases the compressor.  It returns ErrData if the stream was
// abandoned in the middle of compression, i.e. before FinishFlush was
// requested.
func (strm *Stream) DeflateEnd() Status {
	if strm.dstate == nil {
		strm.Msg = "stream not initialized for deflate"
		return ErrStream
	}
	status := strm.dstate.end()
	strm.dstate = nil
	return status
}

// InflateInit prepares the Stream for decompression.  Only WithFormat,
// WithWindowBits, and WithTracers are meaningful.
func (strm *Stream) InflateInit(opts ...Option) Status {
	strm.detach()
	o, status := strm.initOptions(opts, false)
	if status != Ok {
		return status
	}
	strm.istate = newInflater(strm, o)
	return Ok
}

// Inflate decompresses as much data as possible from NextIn into NextOut.
//
// It returns Ok if progress was made, StreamEnd when the end of the
// compressed stream has been reached and verified, NeedDict if a preset
// dictionary is required (see InflateSetDictionary), ErrData if the input is
// corrupt, ErrStream if the call was invalid, or ErrBuf if no progress was
// possible.  ErrData and ErrStream are sticky, except that InflateSync may
// recover from ErrData.
func (strm *Stream) Inflate(flush FlushType) Status {
	if strm.istate == nil {
		strm.Msg = "stream not initialized for inflate"
		return ErrStream
	}
	return strm.istate.inflate(flush)
}

// InflateSetDictionary supplies the preset dictionary after Inflate returned
// NeedDict.  A dictionary whose Adler-32 differs from the one the stream
// requires yields ErrData, and the stream fails.  For RawFormat, a dictionary
// may instead be supplied before any input has been processed.
func (strm *Stream) InflateSetDictionary(dict []byte) Status {
	if strm.istate == nil {
		strm.Msg = "stream not initialized for inflate"
		return ErrStream
	}
	return strm.istate.setDictionary(dict)
}

// InflateSync skips input until a full flush point (an empty stored block
// with the bytes 00 00 FF FF) is found.  It returns Ok when one was found
// and decompression can resume, ErrData if the input ran out first (call
// again with more input), or ErrBuf if no input was provided.
func (strm *Stream) InflateSync() Status {
	if strm.istate == nil {
		strm.Msg = "stream not initialized for inflate"
		return ErrStream
	}
	return strm.istate.sync()
}

// InflateSyncPoint reports whether the decompressor has just consumed the
// end of a stored block and sits on a byte boundary, as happens at the end
// of a SyncFlush or FullFlush marker.
func (strm *Stream) InflateSyncPoint() bool {
	if strm.istate == nil {
		return false
	}
	return strm.istate.syncPoint()
}

// InflateReset restarts decompression with the same parameters.
func (strm *Stream) InflateReset() Status {
	if strm.istate == nil {
		strm.Msg = "stream not initialized for inflate"
		return ErrStream
	}
	strm.istate.reset()
	return Ok
}

// InflateEnd releases the decompressor.
func (strm *Stream) InflateEnd() Status {
	if strm.istate == nil {
		strm.Msg = "stream not initialized for inflate"
		return ErrStream
	}
	strm.istate.end()
	strm.istate = nil
	return Ok
}
