package zflate

import (
	"io"
	"io/fs"
	"sync"

	"github.com/chronos-tachyon/assert"
	buffer "github.com/chronos-tachyon/buffer/v3"

	"github.com/chronos-tachyon/zflate/internal/adler32"
)

// Reader wraps an io.Reader and decompresses the data which flows through it.
//
// Decompression happens synchronously inside Read: compressed data is read
// from the underlying io.Reader into an input buffer, and decompressed
// directly into the caller's slice.
type Reader struct {
	mu sync.Mutex

	format  Format
	mlevel  MemoryLevel
	wbits   WindowBits
	dict    []byte
	tracers []Tracer

	r      io.Reader
	err    error
	strm   Stream
	input  buffer.Buffer
	eof    bool
	inited bool
	state  readerState
}

// NewReader constructs and returns a new Reader with the given io.Reader and
// options.
func NewReader(r io.Reader, opts ...Option) *Reader {
	assert.NotNil(&r)

	var o options
	o.reset()
	o.apply(opts)

	fr := &Reader{r: r}
	fr.init(&o)
	return fr
}

func (fr *Reader) init(o *options) {
	fr.err = nil
	fr.eof = false
	fr.inited = false
	fr.state = openReaderState

	if err := o.validate(false); err != nil {
		fr.state = errorReaderState
		fr.err = err
		return
	}
	o.populateInflateDefaults()

	fr.format = o.format
	fr.mlevel = o.mlevel
	fr.wbits = o.wbits
	fr.dict = o.dict
	fr.tracers = o.tracers

	if numBits := fr.inputNumBits(); fr.input.NumBits() != numBits {
		fr.input.Init(numBits)
	}
	fr.input.Clear()
}

func (fr *Reader) inputNumBits() uint {
	return uint(fr.mlevel + 6) // 7 .. 15 ⇒ [128 bytes .. 32 kibibytes]
}

// Format returns the Format which this Reader uses.
func (fr *Reader) Format() Format {
	fr.mu.Lock()
	format := fr.format
	fr.mu.Unlock()
	return format
}

// MemoryLevel returns the MemoryLevel which this Reader uses.
func (fr *Reader) MemoryLevel() MemoryLevel {
	fr.mu.Lock()
	mlevel := fr.mlevel
	fr.mu.Unlock()
	return mlevel
}

// WindowBits returns the WindowBits which this Reader uses.
func (fr *Reader) WindowBits() WindowBits {
	fr.mu.Lock()
	wbits := fr.wbits
	fr.mu.Unlock()
	return wbits
}

// Dict returns the preset dictionary which this Reader uses, or nil if no such
// dictionary is in use.
func (fr *Reader) Dict() []byte {
	var dict []byte
	fr.mu.Lock()
	if len(fr.dict) != 0 {
		dict = make([]byte, len(fr.dict))
		copy(dict, fr.dict)
	}
	fr.mu.Unlock()
	return dict
}

// Tracers returns the Tracers which this Reader uses.
func (fr *Reader) Tracers() []Tracer {
	var tracers []Tracer
	fr.mu.Lock()
	if len(fr.tracers) != 0 {
		tracers = make([]Tracer, len(fr.tracers))
		copy(tracers, fr.tracers)
	}
	fr.mu.Unlock()
	return tracers
}

// UnderlyingReader returns the io.Reader which this Reader uses.
func (fr *Reader) UnderlyingReader() io.Reader {
	fr.mu.Lock()
	r := fr.r
	fr.mu.Unlock()
	return r
}

// Reset re-initializes this Reader with the given io.Reader and options.  Any
// options given here are merged with all previous options.
func (fr *Reader) Reset(r io.Reader, opts ...Option) {
	assert.NotNil(&r)
	for _, opt := range opts {
		assert.NotNil(&opt)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.strm.istate != nil {
		fr.strm.InflateEnd()
	}

	var o options
	o.reset()
	o.format = fr.format
	o.mlevel = fr.mlevel
	o.wbits = fr.wbits
	o.dict = fr.dict
	o.tracers = fr.tracers
	o.apply(opts)

	fr.r = r
	fr.init(&o)
}

// Read reads from the compressed stream into the provided slice of bytes.
// Conforms to the io.Reader interface.
func (fr *Reader) Read(p []byte) (int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	switch fr.state {
	case closedReaderState:
		return 0, fs.ErrClosed
	case errorReaderState:
		return 0, fr.err
	case eofReaderState:
		return 0, io.EOF
	}

	if len(p) == 0 {
		return 0, nil
	}

	if !fr.inited && !fr.start() {
		return 0, fr.err
	}

	n := 0
	for {
		if fr.input.IsEmpty() && !fr.eof {
			if !fr.inputBufferFill() {
				return n, fr.err
			}
		}

		in := fr.input.PrepareBulkRead(fr.input.Size())
		fr.strm.NextIn = in
		fr.strm.NextOut = p[n:]
		status := fr.strm.Inflate(NoFlush)
		fr.input.CommitBulkRead(uint(len(in) - len(fr.strm.NextIn)))
		n = len(p) - len(fr.strm.NextOut)
		fr.strm.NextIn = nil
		fr.strm.NextOut = nil

		switch status {
		case Ok:
			if n == len(p) {
				return n, nil
			}

		case StreamEnd:
			fr.state = eofReaderState
			return n, io.EOF

		case NeedDict:
			if !fr.supplyDictionary() {
				return n, fr.err
			}

		case ErrBuf:
			switch {
			case !fr.input.IsEmpty():
				fr.fail(&StatusError{Op: "inflate", Status: status, Message: fr.strm.Msg})
				return n, fr.err
			case fr.eof:
				fr.fail(io.ErrUnexpectedEOF)
				return n, fr.err
			}

		case ErrData:
			fr.fail(CorruptInputError{OffsetTotal: fr.strm.TotalIn, Problem: fr.strm.Msg})
			return n, fr.err

		default:
			fr.fail(&StatusError{Op: "inflate", Status: status, Message: fr.strm.Msg})
			return n, fr.err
		}

		// Hand back what we have rather than block on more input.
		if n != 0 && fr.input.IsEmpty() {
			return n, nil
		}
	}
}

// Close terminates decompression and closes this Reader.
//
// The underlying io.Reader is *not* closed, even if it supports io.Closer.
//
// The only method which is guaranteed to be safe to call on a Reader after
// Close is Reset, which will return the Reader to a non-closed state.
//
func (fr *Reader) Close() error {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.state == closedReaderState {
		return fs.ErrClosed
	}
	if fr.strm.istate != nil {
		fr.strm.InflateEnd()
	}
	fr.input.Clear()
	fr.state = closedReaderState
	fr.err = nil
	return nil
}

func (fr *Reader) start() bool {
	fr.inited = true
	status := fr.strm.InflateInit(
		WithFormat(fr.format),
		WithWindowBits(fr.wbits),
		WithTracers(fr.tracers...),
	)
	if status != Ok {
		fr.fail(&StatusError{Op: "inflate init", Status: status, Message: fr.strm.Msg})
		return false
	}

	// Raw streams carry no dictionary id; the dictionary, if any, goes in
	// up front.
	if fr.format == RawFormat && fr.dict != nil {
		if status := fr.strm.InflateSetDictionary(fr.dict); status != Ok {
			fr.fail(&StatusError{Op: "inflate set dictionary", Status: status, Message: fr.strm.Msg})
			return false
		}
	}
	return true
}

func (fr *Reader) supplyDictionary() bool {
	expected := Checksum32(fr.strm.Adler)
	if fr.dict == nil {
		fr.fail(DictionaryError{Expected: expected, Missing: true})
		return false
	}

	switch status := fr.strm.InflateSetDictionary(fr.dict); status {
	case Ok:
		return true
	case ErrData:
		fr.fail(DictionaryError{Expected: expected, Actual: Checksum32(adler32.Checksum(fr.dict))})
		return false
	default:
		fr.fail(&StatusError{Op: "inflate set dictionary", Status: status, Message: fr.strm.Msg})
		return false
	}
}

// inputBufferFill reads more compressed data from the underlying io.Reader.
// It returns false on a read error.
func (fr *Reader) inputBufferFill() bool {
	nn, err := fr.input.ReadFrom(fr.r)
	switch {
	case err == io.EOF:
		fr.eof = true
	case err != nil:
		fr.fail(err)
		return false
	case nn == 0 && fr.input.IsEmpty():
		fr.eof = true
	}
	return true
}

func (fr *Reader) fail(err error) {
	fr.state = errorReaderState
	fr.err = err
}
