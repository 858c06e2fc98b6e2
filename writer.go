package zflate

import (
	"errors"
	"io"
	"io/fs"
	"sync"
	"syscall"

	"github.com/chronos-tachyon/assert"
	buffer "github.com/chronos-tachyon/buffer/v3"
	"github.com/hashicorp/go-multierror"
)

type flushWriter interface {
	io.Writer
	Flush() error
}

type syncWriter interface {
	io.Writer
	Sync() error
}

// Writer wraps an io.Writer and compresses the data which flows through it.
type Writer struct {
	mu sync.Mutex

	format   Format
	method   Method
	strategy Strategy
	clevel   CompressLevel
	mlevel   MemoryLevel
	wbits    WindowBits
	dict     []byte
	tracers  []Tracer

	w       io.Writer
	err     error
	strm    Stream
	scratch []byte
	output  buffer.Buffer
	state   writerState
}

// NewWriter constructs and returns a new Writer with the given io.Writer and
// options.  If the options are invalid, every method that writes returns the
// validation error.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	assert.NotNil(&w)

	var o options
	o.reset()
	o.apply(opts)

	fw := &Writer{w: w}
	fw.init(&o)
	return fw
}

func (fw *Writer) init(o *options) {
	fw.err = nil
	fw.state = openWriterState

	if err := o.validate(true); err != nil {
		fw.state = errorWriterState
		fw.err = err
		return
	}
	o.populateDeflateDefaults()

	fw.format = o.format
	fw.method = o.method
	fw.strategy = o.strategy
	fw.clevel = o.clevel
	fw.mlevel = o.mlevel
	fw.wbits = o.wbits
	fw.dict = o.dict
	fw.tracers = o.tracers

	if numBits := fw.outputNumBits(); fw.output.NumBits() != numBits {
		fw.output.Init(numBits)
	}
	fw.output.Clear()
	if size := 1 << fw.outputNumBits(); len(fw.scratch) != size {
		fw.scratch = make([]byte, size)
	}

	status := fw.strm.DeflateInit(
		WithFormat(fw.format),
		WithMethod(fw.method),
		WithStrategy(fw.strategy),
		WithCompressLevel(fw.clevel),
		WithMemoryLevel(fw.mlevel),
		WithWindowBits(fw.wbits),
		WithTracers(fw.tracers...),
	)
	if status != Ok {
		fw.fail(&StatusError{Op: "deflate init", Status: status, Message: fw.strm.Msg})
		return
	}

	if fw.dict != nil {
		if status := fw.strm.DeflateSetDictionary(fw.dict); status != Ok {
			fw.fail(&StatusError{Op: "deflate set dictionary", Status: status, Message: fw.strm.Msg})
		}
	}
}

func (fw *Writer) outputNumBits() uint {
	return uint(fw.mlevel + 7) // 8 .. 16 ⇒ [256 bytes .. 64 kibibytes]
}

// Format returns the Format which this Writer uses.
func (fw *Writer) Format() Format {
	fw.mu.Lock()
	format := fw.format
	fw.mu.Unlock()
	return format
}

// Method returns the Method which this Writer uses.
func (fw *Writer) Method() Method {
	fw.mu.Lock()
	method := fw.method
	fw.mu.Unlock()
	return method
}

// Strategy returns the Strategy which this Writer uses.
func (fw *Writer) Strategy() Strategy {
	fw.mu.Lock()
	strategy := fw.strategy
	fw.mu.Unlock()
	return strategy
}

// CompressLevel returns the CompressLevel which this Writer uses.
func (fw *Writer) CompressLevel() CompressLevel {
	fw.mu.Lock()
	clevel := fw.clevel
	fw.mu.Unlock()
	return clevel
}

// MemoryLevel returns the MemoryLevel which this Writer uses.
func (fw *Writer) MemoryLevel() MemoryLevel {
	fw.mu.Lock()
	mlevel := fw.mlevel
	fw.mu.Unlock()
	return mlevel
}

// WindowBits returns the WindowBits which this Writer uses.
func (fw *Writer) WindowBits() WindowBits {
	fw.mu.Lock()
	wbits := fw.wbits
	fw.mu.Unlock()
	return wbits
}

// Dict returns the preset dictionary which this Writer uses, or nil if no
// such dictionary is in use.
func (fw *Writer) Dict() []byte {
	var dict []byte
	fw.mu.Lock()
	if len(fw.dict) != 0 {
		dict = make([]byte, len(fw.dict))
		copy(dict, fw.dict)
	}
	fw.mu.Unlock()
	return dict
}

// Tracers returns the Tracers which this Writer uses.
func (fw *Writer) Tracers() []Tracer {
	var tracers []Tracer
	fw.mu.Lock()
	if len(fw.tracers) != 0 {
		tracers = make([]Tracer, len(fw.tracers))
		copy(tracers, fw.tracers)
	}
	fw.mu.Unlock()
	return tracers
}

// UnderlyingWriter returns the io.Writer which this Writer uses.
func (fw *Writer) UnderlyingWriter() io.Writer {
	fw.mu.Lock()
	w := fw.w
	fw.mu.Unlock()
	return w
}

// Reset re-initializes this Writer with the given io.Writer and options.  Any
// options given here are merged with all previous options.  Any compressed
// data not yet flushed is discarded.
func (fw *Writer) Reset(w io.Writer, opts ...Option) {
	assert.NotNil(&w)
	for _, opt := range opts {
		assert.NotNil(&opt)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	var o options
	o.reset()
	o.format = fw.format
	o.method = fw.method
	o.strategy = fw.strategy
	o.clevel = fw.clevel
	o.mlevel = fw.mlevel
	o.wbits = fw.wbits
	o.dict = fw.dict
	o.tracers = fw.tracers
	o.apply(opts)

	fw.w = w
	fw.init(&o)
}

// Params changes the CompressLevel and Strategy for the data written from
// now on.  Data already written is compressed with the previous settings.
func (fw *Writer) Params(clevel CompressLevel, strategy Strategy) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := fw.checkState(); err != nil {
		return err
	}

	fw.strm.NextIn = nil
	fw.strm.NextOut = fw.scratch
	status := fw.strm.DeflateParams(clevel, strategy)
	n := len(fw.scratch) - len(fw.strm.NextOut)
	if n != 0 && !fw.outputBufferWrite(fw.scratch[:n]) {
		return fw.err
	}

	switch status {
	case Ok, ErrBuf:
		fw.clevel = clevel.resolve()
		fw.strategy = strategy
		return nil
	case ErrStream:
		return &StatusError{Op: "deflate params", Status: status, Message: fw.strm.Msg}
	default:
		fw.fail(&StatusError{Op: "deflate params", Status: status, Message: fw.strm.Msg})
		return fw.err
	}
}

// Write writes a slice of bytes to the compressed stream.
// Conforms to the io.Writer interface.
func (fw *Writer) Write(buf []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := fw.checkState(); err != nil {
		return 0, err
	}

	fw.strm.NextIn = buf
	defer func() { fw.strm.NextIn = nil }()

	for len(fw.strm.NextIn) != 0 {
		status, ok := fw.deflateOnce(NoFlush)
		if !ok {
			return len(buf) - len(fw.strm.NextIn), fw.err
		}
		if status == ErrBuf {
			fw.fail(&StatusError{Op: "deflate", Status: status, Message: fw.strm.Msg})
			return len(buf) - len(fw.strm.NextIn), fw.err
		}
	}
	return len(buf), nil
}

// Flush flushes the buffered compressed data to the underlying io.Writer.
//
// NoFlush only delivers data that the compressor has already produced.
// PartialFlush, SyncFlush, and FullFlush additionally make all data written
// so far decodable by the receiver; see FlushType.  FinishFlush ends the
// stream, after which only Close and Reset are useful.
func (fw *Writer) Flush(flushType FlushType) error {
	assert.Assertf(flushType.IsValid(), "invalid FlushType %d", uint(flushType))

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := fw.checkState(); err != nil {
		return err
	}

	if !fw.flushImpl(flushType) {
		return fw.err
	}
	return nil
}

// Close finishes the compressed stream and closes this Writer.
//
// The underlying io.Writer is *not* closed, even if it supports io.Closer.
//
// The only method which is guaranteed to be safe to call on a Writer after
// Close is Reset, which will return the Writer to a non-closed state.
//
func (fw *Writer) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.state == closedWriterState {
		return fs.ErrClosed
	}

	var errlist []error
	if fw.state == openWriterState {
		fw.flushImpl(FinishFlush)
	}
	if fw.err != nil {
		errlist = append(errlist, fw.err)
	}
	if fw.strm.dstate != nil {
		if status := fw.strm.DeflateEnd(); status != Ok {
			errlist = append(errlist, &StatusError{Op: "deflate end", Status: status, Message: fw.strm.Msg})
		}
	}

	fw.state = closedWriterState
	fw.err = nil

	switch len(errlist) {
	case 0:
		return nil
	case 1:
		return errlist[0]
	default:
		return &multierror.Error{Errors: errlist}
	}
}

func (fw *Writer) checkState() error {
	switch fw.state {
	case closedWriterState:
		return fs.ErrClosed
	case errorWriterState:
		return fw.err
	default:
		return nil
	}
}

func (fw *Writer) fail(err error) {
	fw.state = errorWriterState
	fw.err = err
}

// deflateOnce runs the compressor once with the scratch buffer as output
// space and stages whatever it produced.
func (fw *Writer) deflateOnce(flush FlushType) (Status, bool) {
	fw.strm.NextOut = fw.scratch
	status := fw.strm.Deflate(flush)
	n := len(fw.scratch) - len(fw.strm.NextOut)
	if n != 0 && !fw.outputBufferWrite(fw.scratch[:n]) {
		return status, false
	}

	switch status {
	case Ok, StreamEnd, ErrBuf:
		return status, true
	default:
		fw.fail(&StatusError{Op: "deflate", Status: status, Message: fw.strm.Msg})
		return status, false
	}
}

func (fw *Writer) flushImpl(flushType FlushType) bool {
	if flushType != NoFlush {
		fw.strm.NextIn = nil
		for {
			status, ok := fw.deflateOnce(flushType)
			if !ok {
				return false
			}
			if flushType == FinishFlush {
				if status == StreamEnd {
					break
				}
				if status == ErrBuf {
					fw.fail(&StatusError{Op: "deflate", Status: status, Message: fw.strm.Msg})
					return false
				}
				continue
			}
			if len(fw.strm.NextOut) != 0 {
				break
			}
		}
	}

	if !fw.outputBufferFlush() {
		return false
	}

	if x, ok := fw.w.(flushWriter); ok {
		if err := x.Flush(); err != nil {
			fw.fail(err)
			return false
		}
	}

	if x, ok := fw.w.(syncWriter); ok {
		if err := x.Sync(); err != nil && !isIgnoredSyncError(err) {
			fw.fail(err)
			return false
		}
	}

	return true
}

func (fw *Writer) outputBufferWrite(buf []byte) bool {
	length := uint(len(buf))
	i := uint(0)
	for i < length {
		nn, _ := fw.output.Write(buf[i:])
		i += uint(nn)
		if fw.output.IsFull() && !fw.outputBufferFlush() {
			return false
		}
	}
	return true
}

func (fw *Writer) outputBufferFlush() bool {
	if fw.output.IsEmpty() {
		return true
	}
	_, err := fw.output.WriteTo(fw.w)
	if err != nil {
		fw.fail(err)
		return false
	}
	return true
}

func isIgnoredSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL)
}
