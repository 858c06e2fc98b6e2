package zflate

import (
	"errors"
	"fmt"

	"github.com/chronos-tachyon/assert"
	"github.com/hashicorp/go-multierror"
)

// Option represents a configuration option for Stream, Reader, or Writer.
type Option func(*options)

type options struct {
	format   Format
	method   Method
	strategy Strategy
	clevel   CompressLevel
	mlevel   MemoryLevel
	wbits    WindowBits
	dict     []byte
	tracers  []Tracer
}

func (o *options) reset() {
	*o = options{
		format:   DefaultFormat,
		method:   DefaultMethod,
		strategy: DefaultStrategy,
		clevel:   DefaultCompression,
		mlevel:   DefaultMemory,
		wbits:    DefaultWindowBits,
		dict:     nil,
		tracers:  nil,
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func (o *options) populateInflateDefaults() {
	if o.format == DefaultFormat {
		o.format = ZlibFormat
	}
	o.mlevel = o.mlevel.resolve()
	o.wbits = o.wbits.resolve()
}

func (o *options) populateDeflateDefaults() {
	o.populateInflateDefaults()
	o.clevel = o.clevel.resolve()
	if o.wbits == MinWindowBits {
		// A 256-byte window cannot hold MIN_LOOKAHEAD bytes of lookahead
		// on top of a full match distance.
		o.wbits = MinWindowBits + 1
	}
}

// validate collects every invalid setting.  It returns nil, a single error,
// or a *multierror.Error.
func (o *options) validate(forDeflate bool) error {
	var errlist []error
	if !o.format.IsValid() {
		errlist = append(errlist, fmt.Errorf("invalid Format %d", uint(o.format)))
	}
	if !o.method.IsValid() {
		errlist = append(errlist, fmt.Errorf("invalid Method %d", uint(o.method)))
	}
	if !o.wbits.IsValid() {
		errlist = append(errlist, fmt.Errorf("invalid WindowBits %d", uint(o.wbits)))
	}
	if forDeflate {
		if !o.strategy.IsValid() {
			errlist = append(errlist, fmt.Errorf("invalid Strategy %d", uint(o.strategy)))
		}
		if !o.clevel.IsValid() {
			errlist = append(errlist, fmt.Errorf("invalid CompressLevel %d", int(o.clevel)))
		}
	}
	if !o.mlevel.IsValid() {
		errlist = append(errlist, fmt.Errorf("invalid MemoryLevel %d", uint(o.mlevel)))
	}
	if o.dict != nil && len(o.dict) == 0 {
		errlist = append(errlist, errors.New("invalid zero-length dictionary; specify nil to omit the dictionary entirely"))
	}

	switch len(errlist) {
	case 0:
		return nil
	case 1:
		return errlist[0]
	default:
		return &multierror.Error{Errors: errlist}
	}
}

// WithFormat specifies the Format to write (Deflate) or expected to be read
// (Inflate).
func WithFormat(format Format) Option {
	return func(o *options) { o.format = format }
}

// WithMethod specifies the Method to record in the zlib header.
func WithMethod(method Method) Option {
	return func(o *options) { o.method = method }
}

// WithStrategy specifies the Strategy to use (Deflate).  Ignored by Inflate.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) { o.strategy = strategy }
}

// WithCompressLevel specifies the CompressLevel to use (Deflate).  Ignored by
// Inflate.
func WithCompressLevel(clevel CompressLevel) Option {
	return func(o *options) { o.clevel = clevel }
}

// WithMemoryLevel specifies the MemoryLevel to use (Deflate).  Reader and
// Writer also size their I/O buffers by it.
func WithMemoryLevel(mlevel MemoryLevel) Option {
	return func(o *options) { o.mlevel = mlevel }
}

// WithWindowBits specifies the WindowBits to use (Deflate) or the maximum
// WindowBits to accept (Inflate).
func WithWindowBits(wbits WindowBits) Option {
	return func(o *options) { o.wbits = wbits }
}

// WithDictionary specifies the preset dictionary to use (Writer) or to
// supply when the stream asks for one (Reader).  May specify nil to abandon
// a previously used preset dictionary.  Stream ignores this option; use
// Stream.DeflateSetDictionary and Stream.InflateSetDictionary instead.
func WithDictionary(dict []byte) Option {
	if dict != nil {
		tmp := make([]byte, len(dict))
		copy(tmp, dict)
		dict = tmp
	}
	return func(o *options) { o.dict = dict }
}

// WithTracers specifies the list of Tracer instances which will receive Events
// as compression or decompression proceeds.  Completely replaces any previous
// list.
func WithTracers(tracers ...Tracer) Option {
	for _, tr := range tracers {
		assert.NotNil(&tr)
	}
	if len(tracers) == 0 {
		tracers = nil
	} else {
		tmp := make([]Tracer, len(tracers))
		copy(tmp, tracers)
		tracers = tmp
	}
	return func(o *options) { o.tracers = tracers }
}
