package zflate

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"io/ioutil"
	"testing"

	"github.com/hashicorp/go-multierror"
	kzlib "github.com/klauspost/compress/zlib"
)

func TestWriter(t *testing.T) {
	type testRow struct {
		name     string
		format   Format
		strategy Strategy
		clevel   CompressLevel
		mlevel   MemoryLevel
		wbits    WindowBits
		dict     []byte
		input    []byte
	}

	smallLipsum := []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit. Donec ultrices.")
	pangram := []byte("Sphinx of black quartz, judge my vow.")
	repetitive := []byte(" abcd efgh abcd efgh efgh abcd abcd efgh ")
	repetitiveDict := []byte(" abcd efgh ")
	bigLipsum := makeRepetitive(300000)
	fourMegZero := make([]byte, 4<<20)

	var testData = [...]testRow{
		{
			name:     "lipsum-zraw",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    smallLipsum,
		},
		{
			name:     "lipsum-zlib",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    smallLipsum,
		},
		{
			name:     "pangram-zraw",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    pangram,
		},
		{
			name:     "pangram-zlib",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    pangram,
		},
		{
			name:     "repetitive-1-zraw",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    repetitive,
		},
		{
			name:     "repetitive-1-zlib",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    repetitive,
		},
		{
			name:     "repetitive-2-zraw",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     repetitiveDict,
			input:    repetitive,
		},
		{
			name:     "repetitive-2-zlib",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     repetitiveDict,
			input:    repetitive,
		},
		{
			name:     "big-lipsum-zraw",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-zlib",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-huff-m9-w15",
			format:   ZlibFormat,
			strategy: HuffmanOnlyStrategy,
			clevel:   DefaultCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-huffrle-m9-w15",
			format:   ZlibFormat,
			strategy: HuffmanRLEStrategy,
			clevel:   DefaultCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-c0-m9-w15",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   NoCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-c1-m9-w15",
			format:   ZlibFormat,
			strategy: HuffmanRLEStrategy,
			clevel:   FastestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-c9-m1-w15",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   SmallestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-c9-m9-w8",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MinWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "big-lipsum-c9-m1-w8",
			format:   ZlibFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   SmallestMemory,
			wbits:    MinWindowBits,
			dict:     nil,
			input:    bigLipsum,
		},
		{
			name:     "fourmegzero-huff-m9-w15",
			format:   RawFormat,
			strategy: HuffmanOnlyStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    fourMegZero,
		},
		{
			name:     "fourmegzero-huffrle-m9-w15",
			format:   RawFormat,
			strategy: HuffmanRLEStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    fourMegZero,
		},
		{
			name:     "fourmegzero-c0-m9-w15",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   NoCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    fourMegZero,
		},
		{
			name:     "fourmegzero-c9-m9-w15",
			format:   RawFormat,
			strategy: DefaultStrategy,
			clevel:   BestCompression,
			mlevel:   FastestMemory,
			wbits:    MaxWindowBits,
			dict:     nil,
			input:    fourMegZero,
		},
	}

	fw := NewWriter(ioutil.Discard)
	fr := NewReader(eofReader{})
	var buf bytes.Buffer

	for _, vector := range testData {
		t.Run(vector.name, func(t *testing.T) {
			buf.Reset()

			fw.Reset(
				&buf,
				WithFormat(vector.format),
				WithStrategy(vector.strategy),
				WithCompressLevel(vector.clevel),
				WithMemoryLevel(vector.mlevel),
				WithWindowBits(vector.wbits),
				WithDictionary(vector.dict),
			)

			originalSize := len(vector.input)

			nn, err := fw.Write(vector.input)
			if err != nil {
				t.Errorf("Write failed: %v", err)
				return
			}
			if nn != originalSize {
				t.Errorf("Write returned wrong length: expect %d, actual %d", originalSize, nn)
			}

			err = fw.Close()
			if err != nil {
				t.Errorf("Close failed: %v", err)
				return
			}

			fr.Reset(
				&buf,
				WithFormat(vector.format),
				WithDictionary(vector.dict),
			)

			raw, err := ioutil.ReadAll(fr)
			if err != nil {
				t.Errorf("Read failed: %v", err)
				return
			}

			decompressedSize := len(raw)

			if originalSize != decompressedSize {
				t.Errorf("Read returned wrong length: expect %d, actual %d", originalSize, decompressedSize)
			}

			if !bytes.Equal(raw, vector.input) {
				t.Error("Read returned wrong contents" + tabify(hexDiff(vector.input, raw)))
				t.Log("Compressed contents are" + tabify(hexDump(buf.Bytes())))
			}
		})
	}
}

type flushCountingWriter struct {
	bytes.Buffer
	flushes int
}

func (w *flushCountingWriter) Flush() error {
	w.flushes++
	return nil
}

var errBrokenPipe = errors.New("broken pipe")

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errBrokenPipe }

func TestWriter_Flush(t *testing.T) {
	parts := [][]byte{
		[]byte("Sphinx of black quartz, "),
		[]byte("judge my vow. "),
		makeRepetitive(5000),
	}

	for _, flushType := range []FlushType{PartialFlush, SyncFlush, FullFlush} {
		t.Run(flushType.String(), func(t *testing.T) {
			var dst flushCountingWriter
			fw := NewWriter(&dst, WithFormat(RawFormat))

			var written []byte
			for i, part := range parts {
				if _, err := fw.Write(part); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
				if err := fw.Flush(flushType); err != nil {
					t.Fatalf("Flush failed: %v", err)
				}
				written = append(written, part...)

				if dst.flushes != i+1 {
					t.Errorf("expected %d calls to Flush, got %d", i+1, dst.flushes)
				}

				// Everything written so far must be decodable, even
				// though the stream is not finished.
				fr := NewReader(bytes.NewReader(dst.Bytes()), WithFormat(RawFormat))
				out, err := ioutil.ReadAll(fr)
				if !errors.Is(err, io.ErrUnexpectedEOF) {
					t.Errorf("expected %v, got %v", io.ErrUnexpectedEOF, err)
				}
				if !bytes.Equal(out, written) {
					t.Errorf("after part %d: expected %d bytes, got %d", i, len(written), len(out))
				}
			}

			if err := fw.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			fr := NewReader(bytes.NewReader(dst.Bytes()), WithFormat(RawFormat))
			out, err := ioutil.ReadAll(fr)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if !bytes.Equal(out, written) {
				t.Errorf("expected %d bytes, got %d", len(written), len(out))
			}
		})
	}
}

func TestWriter_Params(t *testing.T) {
	partA := makeRandom(30000, 12)
	partB := makeRepetitive(30000)

	var buf bytes.Buffer
	fw := NewWriter(&buf, WithCompressLevel(NoCompression))
	if _, err := fw.Write(partA); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := fw.Params(BestCompression, DefaultStrategy); err != nil {
		t.Fatalf("Params failed: %v", err)
	}
	if fw.CompressLevel() != BestCompression {
		t.Errorf("CompressLevel: expected %v, got %v", BestCompression, fw.CompressLevel())
	}
	if err := fw.Params(CompressLevel(42), DefaultStrategy); err == nil {
		t.Error("Params with an invalid level: expected an error")
	}
	if _, err := fw.Write(partB); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	zr, err := kzlib.NewReader(&buf)
	if err != nil {
		t.Fatalf("zlib.NewReader failed: %v", err)
	}
	out, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("zlib.Reader.Read failed: %v", err)
	}
	if expect := append(append([]byte(nil), partA...), partB...); !bytes.Equal(out, expect) {
		t.Errorf("expected %d bytes, got %d", len(expect), len(out))
	}
}

func TestWriter_Errors(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		fw := NewWriter(ioutil.Discard)
		if err := fw.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := fw.Close(); !errors.Is(err, fs.ErrClosed) {
			t.Errorf("second Close: expected %v, got %v", fs.ErrClosed, err)
		}
		if _, err := fw.Write([]byte("x")); !errors.Is(err, fs.ErrClosed) {
			t.Errorf("Write after Close: expected %v, got %v", fs.ErrClosed, err)
		}
		if err := fw.Flush(SyncFlush); !errors.Is(err, fs.ErrClosed) {
			t.Errorf("Flush after Close: expected %v, got %v", fs.ErrClosed, err)
		}

		var buf bytes.Buffer
		fw.Reset(&buf)
		if _, err := fw.Write([]byte("x")); err != nil {
			t.Errorf("Write after Reset: %v", err)
		}
		if err := fw.Close(); err != nil {
			t.Errorf("Close after Reset: %v", err)
		}
	})

	t.Run("bad-options", func(t *testing.T) {
		fw := NewWriter(ioutil.Discard, WithCompressLevel(CompressLevel(17)), WithWindowBits(WindowBits(3)))
		_, err := fw.Write([]byte("x"))
		var merr *multierror.Error
		if !errors.As(err, &merr) || len(merr.Errors) != 2 {
			t.Errorf("expected 2 validation errors, got %v", err)
		}
	})

	t.Run("write-failure", func(t *testing.T) {
		fw := NewWriter(failingWriter{}, WithCompressLevel(NoCompression), WithMemoryLevel(SmallestMemory))
		_, err := fw.Write(makeRandom(100000, 13))
		if !errors.Is(err, errBrokenPipe) {
			t.Fatalf("Write: expected %v, got %v", errBrokenPipe, err)
		}

		// Close reports both the write failure and the abandoned stream.
		err = fw.Close()
		var merr *multierror.Error
		if !errors.As(err, &merr) || len(merr.Errors) != 2 {
			t.Fatalf("Close: expected 2 errors, got %v", err)
		}
		if !errors.Is(merr.Errors[0], errBrokenPipe) {
			t.Errorf("Close: expected first error %v, got %v", errBrokenPipe, merr.Errors[0])
		}
		var statusErr *StatusError
		if !errors.As(merr.Errors[1], &statusErr) || statusErr.Status != ErrData {
			t.Errorf("Close: expected a StatusError with %v, got %v", ErrData, merr.Errors[1])
		}
	})
}

func BenchmarkWriter(b *testing.B) {
	input := makeRepetitive(oneMiB)
	fw := NewWriter(ioutil.Discard)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		fw.Reset(ioutil.Discard)
		if _, err := fw.Write(input); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
		if err := fw.Close(); err != nil {
			b.Fatalf("Close failed: %v", err)
		}
	}
}
