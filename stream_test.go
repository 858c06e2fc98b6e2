package zflate

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"math/rand"
	"testing"

	kflate "github.com/klauspost/compress/flate"
	kzlib "github.com/klauspost/compress/zlib"
)

const oneMiB = 1 << 20

func makeRepetitive(n int) []byte {
	phrase := []byte("the quick brown fox jumps over the lazy dog; ")
	out := make([]byte, n)
	for i := range out {
		out[i] = phrase[i%len(phrase)]
	}
	return out
}

func makeRandom(n int, seed int64) []byte {
	out := make([]byte, n)
	rng := rand.New(rand.NewSource(seed))
	_, _ = rng.Read(out)
	return out
}

// deflateAll compresses input through a Stream, offering at most chunk bytes
// of input and chunk bytes of output space per call.  A chunk of 0 means no
// limit.
func deflateAll(t testing.TB, input []byte, chunk int, opts ...Option) []byte {
	t.Helper()

	var strm Stream
	if status := strm.DeflateInit(opts...); status != Ok {
		t.Fatalf("DeflateInit: %v: %s", status, strm.Msg)
	}

	outSize := chunk
	if outSize == 0 {
		outSize = DeflateBound(len(input))
	}
	buf := make([]byte, outSize)

	var out []byte
	in := input
	for {
		n := len(in)
		if chunk != 0 && n > chunk {
			n = chunk
		}
		strm.NextIn = in[:n]
		in = in[n:]

		flush := NoFlush
		if len(in) == 0 {
			flush = FinishFlush
		}

		var status Status
		for {
			strm.NextOut = buf
			status = strm.Deflate(flush)
			switch status {
			case Ok, StreamEnd, ErrBuf:
			default:
				t.Fatalf("Deflate: %v: %s", status, strm.Msg)
			}
			out = append(out, buf[:len(buf)-len(strm.NextOut)]...)
			if len(strm.NextOut) != 0 {
				break
			}
		}
		if len(strm.NextIn) != 0 {
			t.Fatalf("Deflate left %d bytes of input unconsumed", len(strm.NextIn))
		}

		if flush == FinishFlush {
			if status != StreamEnd {
				t.Fatalf("Deflate(FinishFlush): expected StreamEnd, got %v", status)
			}
			break
		}
	}

	if strm.TotalIn != uint64(len(input)) {
		t.Errorf("TotalIn: expected %d, got %d", len(input), strm.TotalIn)
	}
	if strm.TotalOut != uint64(len(out)) {
		t.Errorf("TotalOut: expected %d, got %d", len(out), strm.TotalOut)
	}
	if status := strm.DeflateEnd(); status != Ok {
		t.Errorf("DeflateEnd: %v: %s", status, strm.Msg)
	}
	return out
}

// inflateAll decompresses input through a Stream, with the same chunking as
// deflateAll.  It supplies dict when the stream asks for one.  It returns
// the output so far and the final Status, which is StreamEnd on success or
// ErrBuf if the input ran out early.
func inflateAll(t testing.TB, input []byte, chunk int, dict []byte, opts ...Option) ([]byte, Status, *Stream) {
	t.Helper()

	strm := new(Stream)
	if status := strm.InflateInit(opts...); status != Ok {
		t.Fatalf("InflateInit: %v: %s", status, strm.Msg)
	}

	outSize := chunk
	if outSize == 0 {
		outSize = 1 << 16
	}
	buf := make([]byte, outSize)

	var out []byte
	in := input
	for {
		if len(in) == 0 {
			return out, ErrBuf, strm
		}
		n := len(in)
		if chunk != 0 && n > chunk {
			n = chunk
		}
		strm.NextIn = in[:n]

		for {
			strm.NextOut = buf
			status := strm.Inflate(NoFlush)
			out = append(out, buf[:len(buf)-len(strm.NextOut)]...)
			switch status {
			case StreamEnd:
				return out, status, strm
			case NeedDict:
				if dict == nil {
					return out, status, strm
				}
				if status := strm.InflateSetDictionary(dict); status != Ok {
					return out, status, strm
				}
				continue
			case Ok, ErrBuf:
			default:
				return out, status, strm
			}
			if len(strm.NextOut) != 0 {
				break
			}
		}

		in = in[n-len(strm.NextIn):]
		strm.NextIn = nil
	}
}

func collectEvents(events *[]Event) Tracer {
	return TracerFunc(func(event Event) {
		*events = append(*events, event)
	})
}

func TestStream_Trace(t *testing.T) {
	var events []Event
	input := []byte("aaaaaa")
	compressed := deflateAll(t, input, 0, WithCompressLevel(6), WithTracers(collectEvents(&events)))

	// One literal 'a' and a copy of length 5 at distance 1, in a fixed block.
	if expect := mustDecodeHex("789c4b04030007fb0247"); !bytes.Equal(compressed, expect) {
		t.Errorf("unexpected compressed bytes" + tabify(hexDiff(expect, compressed)))
	}

	var literals, matches uint
	var sawEnd, sawClose bool
	for _, event := range events {
		switch event.Type {
		case BlockEndEvent:
			literals += event.Block.LiteralCount
			matches += event.Block.MatchCount
		case StreamEndEvent:
			sawEnd = true
			if event.Footer == nil || event.Footer.Adler32 != Checksum32(Adler32(1, input)) {
				t.Errorf("StreamEndEvent: unexpected footer %+v", event.Footer)
			}
		case StreamCloseEvent:
			sawClose = true
		}
	}
	if literals != 1 || matches != 1 {
		t.Errorf("expected 1 literal and 1 match, got %d literals and %d matches", literals, matches)
	}
	if !sawEnd || !sawClose {
		t.Errorf("missing events: StreamEnd %v, StreamClose %v", sawEnd, sawClose)
	}

	events = nil
	output, status, strm := inflateAll(t, compressed, 0, nil, WithTracers(collectEvents(&events)))
	if status != StreamEnd {
		t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
	}
	if !bytes.Equal(output, input) {
		t.Errorf("Inflate: expected %q, got %q", input, output)
	}
	if strm.TotalIn != uint64(len(compressed)) || strm.TotalOut != 6 {
		t.Errorf("Inflate totals: expected %d/6, got %d/%d", len(compressed), strm.TotalIn, strm.TotalOut)
	}
	if strm.Adler != Adler32(1, input) {
		t.Errorf("Inflate Adler: expected %08x, got %08x", Adler32(1, input), strm.Adler)
	}

	var types []EventType
	for _, event := range events {
		types = append(types, event.Type)
	}
	expectTypes := []EventType{StreamBeginEvent, StreamHeaderEvent, BlockBeginEvent, BlockTreesEvent, BlockEndEvent, StreamEndEvent, StreamCloseEvent}
	if fmt.Sprint(types) != fmt.Sprint(expectTypes) {
		t.Errorf("Inflate events: expected %v, got %v", expectTypes, types)
	}
}

func TestStream_FixedBlocks(t *testing.T) {
	type testRow struct {
		name   string
		format Format
		input  []byte
		expect []byte
	}

	// Produced by zlib with the Z_FIXED strategy.
	var testData = [...]testRow{
		{
			name:   "aaaaaa-level6",
			format: ZlibFormat,
			input:  mustDecodeHex("789c4b4c04010007fb0247"),
			expect: []byte("aaaaaa"),
		},
		{
			name:   "aaaaaa-level1",
			format: ZlibFormat,
			input:  mustDecodeHex("78014b4c04010007fb0247"),
			expect: []byte("aaaaaa"),
		},
		{
			name:   "pangram-raw",
			format: RawFormat,
			input:  mustDecodeHex("0b2ec8c8ccab50c84f5348ca494cce56282c4d2c2aa9d251c82a4d494f55c8ad5428cb2fd70300"),
			expect: []byte("Sphinx of black quartz, judge my vow."),
		},
		{
			name:   "repetitive-zlib",
			format: ZlibFormat,
			input:  mustDecodeHex("780153484c4a4e51484d4bcf5040b0105c849802d5150200f17a2911"),
			expect: bytes.Repeat([]byte(" abcd efgh abcd efgh efgh abcd abcd efgh "), 3),
		},
	}

	for _, row := range testData {
		for _, chunk := range []int{0, 1} {
			name := fmt.Sprintf("%s-chunk%d", row.name, chunk)
			t.Run(name, func(t *testing.T) {
				output, status, strm := inflateAll(t, row.input, chunk, nil, WithFormat(row.format))
				if status != StreamEnd {
					t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
				}
				if !bytes.Equal(output, row.expect) {
					t.Errorf("Inflate: expected %q, got %q", row.expect, output)
				}
				if strm.TotalIn != uint64(len(row.input)) {
					t.Errorf("TotalIn: expected %d, got %d", len(row.input), strm.TotalIn)
				}
			})
		}
	}
}

func TestStream_RoundTrip(t *testing.T) {
	type inputRow struct {
		name  string
		input []byte
	}

	size := oneMiB + 12345
	if testing.Short() {
		size = 64 << 10
	}

	var inputs = [...]inputRow{
		{name: "empty", input: []byte{}},
		{name: "one-byte", input: []byte{'x'}},
		{name: "repetitive", input: makeRepetitive(size)},
		{name: "random", input: makeRandom(size, 1)},
	}

	for _, format := range []Format{RawFormat, ZlibFormat} {
		for clevel := NoCompression; clevel <= BestCompression; clevel++ {
			for _, row := range inputs {
				name := fmt.Sprintf("%v-c%d-%s", format, int(clevel), row.name)
				t.Run(name, func(t *testing.T) {
					compressed := deflateAll(t, row.input, 0, WithFormat(format), WithCompressLevel(clevel))
					if len(compressed) > DeflateBound(len(row.input)) {
						t.Errorf("compressed size %d exceeds DeflateBound %d", len(compressed), DeflateBound(len(row.input)))
					}

					output, status, strm := inflateAll(t, compressed, 0, nil, WithFormat(format))
					if status != StreamEnd {
						t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
					}
					if !bytes.Equal(output, row.input) {
						t.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(row.input), len(output))
					}
				})
			}
		}
	}
}

func TestStream_Strategies(t *testing.T) {
	input := append(makeRepetitive(100000), makeRandom(50000, 2)...)
	input = append(input, make([]byte, 70000)...)

	for _, strategy := range []Strategy{DefaultStrategy, FilteredStrategy, HuffmanOnlyStrategy, HuffmanRLEStrategy, FixedStrategy} {
		for _, wbits := range []WindowBits{MinWindowBits, 12, MaxWindowBits} {
			for _, mlevel := range []MemoryLevel{SmallestMemory, DefaultMemory, FastestMemory} {
				name := fmt.Sprintf("%v-w%d-m%d", strategy, uint(wbits), uint(mlevel))
				t.Run(name, func(t *testing.T) {
					compressed := deflateAll(t, input, 0, WithStrategy(strategy), WithWindowBits(wbits), WithMemoryLevel(mlevel))
					output, status, strm := inflateAll(t, compressed, 0, nil)
					if status != StreamEnd {
						t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
					}
					if !bytes.Equal(output, input) {
						t.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(input), len(output))
					}
				})
			}
		}
	}
}

func TestStream_ByteAtATime(t *testing.T) {
	input := append(makeRepetitive(20000), makeRandom(3000, 3)...)
	input = append(input, makeRepetitive(5000)...)

	for _, format := range []Format{RawFormat, ZlibFormat} {
		for _, clevel := range []CompressLevel{FastestCompression, 6, BestCompression} {
			name := fmt.Sprintf("%v-c%d", format, int(clevel))
			t.Run(name, func(t *testing.T) {
				whole := deflateAll(t, input, 0, WithFormat(format), WithCompressLevel(clevel))
				bytewise := deflateAll(t, input, 1, WithFormat(format), WithCompressLevel(clevel))
				if !bytes.Equal(whole, bytewise) {
					t.Errorf("byte-at-a-time output differs" + tabify(firstLines(hexDiff(whole, bytewise), 8)))
				}

				output, status, strm := inflateAll(t, whole, 1, nil, WithFormat(format))
				if status != StreamEnd {
					t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
				}
				if !bytes.Equal(output, input) {
					t.Errorf("byte-at-a-time inflate mismatch: %d bytes in, %d bytes out", len(input), len(output))
				}
			})
		}
	}
}

func TestStream_StoredSize(t *testing.T) {
	input := makeRandom(200000, 4)

	var events []Event
	compressed := deflateAll(t, input, 0, WithFormat(RawFormat), WithCompressLevel(NoCompression), WithTracers(collectEvents(&events)))

	var stored uint
	var numBlocks int
	for _, event := range events {
		if event.Type != BlockEndEvent {
			continue
		}
		numBlocks++
		if event.Block.Type != StoredBlock {
			t.Errorf("block %d: expected %v, got %v", numBlocks, StoredBlock, event.Block.Type)
		}
		stored += event.Block.StoredLength
	}
	if stored != uint(len(input)) {
		t.Errorf("stored lengths add up to %d, expected %d", stored, len(input))
	}
	if expect := len(input) + 5*numBlocks; len(compressed) != expect {
		t.Errorf("compressed size: expected %d (%d blocks), got %d", expect, numBlocks, len(compressed))
	}
}

func TestStream_Interop(t *testing.T) {
	inputs := map[string][]byte{
		"repetitive": makeRepetitive(300000),
		"random":     makeRandom(100000, 5),
		"mixed":      append(makeRepetitive(70000), makeRandom(70000, 6)...),
	}

	for name, input := range inputs {
		t.Run(name+"-zlib-to-klauspost", func(t *testing.T) {
			compressed := deflateAll(t, input, 0, WithFormat(ZlibFormat))
			zr, err := kzlib.NewReader(bytes.NewReader(compressed))
			if err != nil {
				t.Fatalf("zlib.NewReader failed: %v", err)
			}
			output, err := ioutil.ReadAll(zr)
			if err != nil {
				t.Fatalf("zlib.Reader.Read failed: %v", err)
			}
			if !bytes.Equal(output, input) {
				t.Errorf("mismatch: %d bytes in, %d bytes out", len(input), len(output))
			}
		})

		t.Run(name+"-raw-to-klauspost", func(t *testing.T) {
			compressed := deflateAll(t, input, 0, WithFormat(RawFormat), WithCompressLevel(BestCompression))
			output, err := ioutil.ReadAll(kflate.NewReader(bytes.NewReader(compressed)))
			if err != nil {
				t.Fatalf("flate.Reader.Read failed: %v", err)
			}
			if !bytes.Equal(output, input) {
				t.Errorf("mismatch: %d bytes in, %d bytes out", len(input), len(output))
			}
		})

		t.Run(name+"-klauspost-to-zlib", func(t *testing.T) {
			var buf bytes.Buffer
			zw, err := kzlib.NewWriterLevel(&buf, kzlib.BestCompression)
			if err != nil {
				t.Fatalf("zlib.NewWriterLevel failed: %v", err)
			}
			if _, err := zw.Write(input); err != nil {
				t.Fatalf("zlib.Writer.Write failed: %v", err)
			}
			if err := zw.Close(); err != nil {
				t.Fatalf("zlib.Writer.Close failed: %v", err)
			}

			output, status, strm := inflateAll(t, buf.Bytes(), 0, nil, WithFormat(ZlibFormat))
			if status != StreamEnd {
				t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
			}
			if !bytes.Equal(output, input) {
				t.Errorf("mismatch: %d bytes in, %d bytes out", len(input), len(output))
			}
		})

		t.Run(name+"-klauspost-to-raw", func(t *testing.T) {
			var buf bytes.Buffer
			fw, err := kflate.NewWriter(&buf, kflate.DefaultCompression)
			if err != nil {
				t.Fatalf("flate.NewWriter failed: %v", err)
			}
			if _, err := fw.Write(input); err != nil {
				t.Fatalf("flate.Writer.Write failed: %v", err)
			}
			if err := fw.Close(); err != nil {
				t.Fatalf("flate.Writer.Close failed: %v", err)
			}

			output, status, strm := inflateAll(t, buf.Bytes(), 7, nil, WithFormat(RawFormat))
			if status != StreamEnd {
				t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
			}
			if !bytes.Equal(output, input) {
				t.Errorf("mismatch: %d bytes in, %d bytes out", len(input), len(output))
			}
		})
	}
}

func TestStream_Dictionary(t *testing.T) {
	dict := []byte(" abcd efgh ")
	input := []byte(" abcd efgh abcd efgh efgh abcd abcd efgh ")

	t.Run("zlib", func(t *testing.T) {
		var strm Stream
		strm.DeflateInit(WithFormat(ZlibFormat))
		if status := strm.DeflateSetDictionary(dict); status != Ok {
			t.Fatalf("DeflateSetDictionary: %v: %s", status, strm.Msg)
		}
		if strm.Adler != Adler32(1, dict) {
			t.Errorf("Adler after DeflateSetDictionary: expected %08x, got %08x", Adler32(1, dict), strm.Adler)
		}
		out := make([]byte, 256)
		strm.NextIn = input
		strm.NextOut = out
		if status := strm.Deflate(FinishFlush); status != StreamEnd {
			t.Fatalf("Deflate: expected StreamEnd, got %v: %s", status, strm.Msg)
		}
		compressed := out[:len(out)-len(strm.NextOut)]

		var hdr Header
		output, status, istrm := inflateAll(t, compressed, 0, nil, WithTracers(CaptureHeader(&hdr)))
		if status != NeedDict {
			t.Fatalf("Inflate: expected NeedDict, got %v", status)
		}
		if len(output) != 0 {
			t.Errorf("Inflate produced %d bytes before the dictionary", len(output))
		}
		if istrm.Adler != Adler32(1, dict) {
			t.Errorf("Adler after NeedDict: expected %08x, got %08x", Adler32(1, dict), istrm.Adler)
		}
		if !hdr.HasDictionary || uint32(hdr.DictionaryID) != Adler32(1, dict) {
			t.Errorf("header: unexpected %+v", hdr)
		}

		output, status, istrm = inflateAll(t, compressed, 3, dict)
		if status != StreamEnd {
			t.Fatalf("Inflate with dictionary: expected StreamEnd, got %v: %s", status, istrm.Msg)
		}
		if !bytes.Equal(output, input) {
			t.Errorf("expected %q, got %q", input, output)
		}

		_, status, istrm = inflateAll(t, compressed, 0, []byte("wrong"))
		if status != ErrData {
			t.Errorf("wrong dictionary: expected ErrData, got %v", status)
		}
		if status := istrm.Inflate(NoFlush); status != ErrData {
			t.Errorf("after wrong dictionary: expected sticky ErrData, got %v", status)
		}

		zr, err := kzlib.NewReaderDict(bytes.NewReader(compressed), dict)
		if err != nil {
			t.Fatalf("zlib.NewReaderDict failed: %v", err)
		}
		kout, err := ioutil.ReadAll(zr)
		if err != nil {
			t.Fatalf("zlib.Reader.Read failed: %v", err)
		}
		if !bytes.Equal(kout, input) {
			t.Errorf("klauspost: expected %q, got %q", input, kout)
		}
	})

	t.Run("raw", func(t *testing.T) {
		var strm Stream
		strm.DeflateInit(WithFormat(RawFormat))
		if status := strm.DeflateSetDictionary(dict); status != Ok {
			t.Fatalf("DeflateSetDictionary: %v: %s", status, strm.Msg)
		}
		out := make([]byte, 256)
		strm.NextIn = input
		strm.NextOut = out
		if status := strm.Deflate(FinishFlush); status != StreamEnd {
			t.Fatalf("Deflate: expected StreamEnd, got %v: %s", status, strm.Msg)
		}
		compressed := out[:len(out)-len(strm.NextOut)]

		var istrm Stream
		istrm.InflateInit(WithFormat(RawFormat))
		if status := istrm.InflateSetDictionary(dict); status != Ok {
			t.Fatalf("InflateSetDictionary: %v: %s", status, istrm.Msg)
		}
		output := make([]byte, 256)
		istrm.NextIn = compressed
		istrm.NextOut = output
		if status := istrm.Inflate(NoFlush); status != StreamEnd {
			t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, istrm.Msg)
		}
		output = output[:len(output)-len(istrm.NextOut)]
		if !bytes.Equal(output, input) {
			t.Errorf("expected %q, got %q", input, output)
		}

		if status := istrm.InflateSetDictionary(dict); status != ErrStream {
			t.Errorf("late InflateSetDictionary: expected ErrStream, got %v", status)
		}

		_, status, nstrm := inflateAll(t, compressed, 0, nil, WithFormat(RawFormat))
		if status != ErrData || nstrm.Msg != "invalid distance too far back" {
			t.Errorf("without dictionary: expected ErrData %q, got %v %q", "invalid distance too far back", status, nstrm.Msg)
		}
	})
}

// syncFlushed compresses each part, following each with flush, and returns
// the compressed stream along with the offset just past each flush.
func syncFlushed(t *testing.T, flush FlushType, finish bool, parts ...[]byte) ([]byte, []int) {
	t.Helper()

	var strm Stream
	if status := strm.DeflateInit(WithFormat(RawFormat)); status != Ok {
		t.Fatalf("DeflateInit: %v: %s", status, strm.Msg)
	}

	var out []byte
	var offsets []int
	buf := make([]byte, 1<<16)
	for i, part := range parts {
		f := flush
		if finish && i == len(parts)-1 {
			f = FinishFlush
		}
		strm.NextIn = part
		strm.NextOut = buf
		status := strm.Deflate(f)
		if status != Ok && status != StreamEnd {
			t.Fatalf("Deflate(%v): %v: %s", f, status, strm.Msg)
		}
		if len(strm.NextIn) != 0 || len(strm.NextOut) == 0 {
			t.Fatalf("Deflate(%v): output buffer too small", f)
		}
		out = append(out, buf[:len(buf)-len(strm.NextOut)]...)
		offsets = append(offsets, len(out))
	}
	return out, offsets
}

func TestStream_SyncPoint(t *testing.T) {
	input := []byte("Sphinx of black quartz, judge my vow.")
	compressed, _ := syncFlushed(t, SyncFlush, false, input)

	tail := compressed[len(compressed)-4:]
	if !bytes.Equal(tail, syncMarker[:]) {
		t.Fatalf("expected stream to end with %x, got %x", syncMarker[:], tail)
	}

	var strm Stream
	strm.InflateInit(WithFormat(RawFormat))
	output := make([]byte, 256)
	strm.NextIn = compressed[:len(compressed)-4]
	strm.NextOut = output
	if status := strm.Inflate(SyncFlush); status != Ok {
		t.Fatalf("Inflate: expected Ok, got %v: %s", status, strm.Msg)
	}
	if !strm.InflateSyncPoint() {
		t.Error("InflateSyncPoint: expected true before the marker")
	}
	output = output[:len(output)-len(strm.NextOut)]
	if !bytes.Equal(output, input) {
		t.Errorf("expected %q, got %q", input, output)
	}

	strm.NextIn = tail
	strm.NextOut = make([]byte, 16)
	if status := strm.Inflate(SyncFlush); status != Ok {
		t.Fatalf("Inflate: expected Ok, got %v: %s", status, strm.Msg)
	}
	if strm.InflateSyncPoint() {
		t.Error("InflateSyncPoint: expected false after the marker")
	}
}

func TestStream_InflateSync(t *testing.T) {
	partA := makeRepetitive(5000)
	partB := []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit. Donec ultrices.")
	compressed, offsets := syncFlushed(t, FullFlush, true, partA, partB)

	var strm Stream
	strm.InflateInit(WithFormat(RawFormat))

	strm.NextIn = nil
	if status := strm.InflateSync(); status != ErrBuf {
		t.Errorf("InflateSync without input: expected ErrBuf, got %v", status)
	}

	strm.NextIn = []byte{0x12, 0x34, 0x56}
	if status := strm.InflateSync(); status != ErrData {
		t.Errorf("InflateSync without marker: expected ErrData, got %v", status)
	}

	strm.InflateReset()
	strm.NextIn = compressed
	if status := strm.InflateSync(); status != Ok {
		t.Fatalf("InflateSync: expected Ok, got %v: %s", status, strm.Msg)
	}
	if strm.TotalIn != uint64(offsets[0]) {
		t.Errorf("InflateSync: expected to stop at offset %d, stopped at %d", offsets[0], strm.TotalIn)
	}

	output := make([]byte, 256)
	strm.NextOut = output
	if status := strm.Inflate(NoFlush); status != StreamEnd {
		t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, strm.Msg)
	}
	output = output[:len(output)-len(strm.NextOut)]
	if !bytes.Equal(output, partB) {
		t.Errorf("expected %q, got %q", partB, output)
	}
}

func TestStream_InflateErrors(t *testing.T) {
	type testRow struct {
		name   string
		format Format
		wbits  WindowBits
		input  []byte
		status Status
		msg    string
	}

	good := deflateAll(t, []byte("hello, hello, hello"), 0)
	badCheck := append([]byte(nil), good...)
	badCheck[len(badCheck)-1] ^= 0xff

	var testData = [...]testRow{
		{name: "header-check", format: ZlibFormat, input: []byte{0x78, 0x00}, status: ErrData, msg: "incorrect header check"},
		{name: "method", format: ZlibFormat, input: []byte{0x79, 0x00}, status: ErrData, msg: "unknown compression method"},
		{name: "window-size", format: ZlibFormat, wbits: 9, input: []byte{0x78, 0x9c}, status: ErrData, msg: "invalid window size"},
		{name: "block-type", format: RawFormat, input: []byte{0x07}, status: ErrData, msg: "invalid block type"},
		{name: "stored-lengths", format: RawFormat, input: []byte{0x01, 0x05, 0x00, 0x00, 0x00}, status: ErrData, msg: "invalid stored block lengths"},
		{name: "too-many-symbols", format: RawFormat, input: []byte{0xfd, 0xff, 0xff}, status: ErrData, msg: "too many length or distance symbols"},
		{name: "single-code-length-code", format: RawFormat, input: []byte{0x05, 0x00, 0x00, 0x04}, status: ErrData, msg: "invalid code lengths set"},
		{name: "data-check", format: ZlibFormat, input: badCheck, status: ErrData, msg: "incorrect data check"},
		{name: "truncated", format: ZlibFormat, input: good[:len(good)-2], status: ErrBuf},
		{name: "empty", format: ZlibFormat, input: []byte{}, status: ErrBuf},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			opts := []Option{WithFormat(row.format)}
			if row.wbits != DefaultWindowBits {
				opts = append(opts, WithWindowBits(row.wbits))
			}
			_, status, strm := inflateAll(t, row.input, 0, nil, opts...)
			if status != row.status {
				t.Fatalf("expected %v, got %v: %s", row.status, status, strm.Msg)
			}
			if row.msg != "" && strm.Msg != row.msg {
				t.Errorf("expected message %q, got %q", row.msg, strm.Msg)
			}
			if status == ErrData {
				strm.NextIn = []byte{0}
				strm.NextOut = make([]byte, 16)
				if status := strm.Inflate(NoFlush); status != ErrData {
					t.Errorf("expected sticky ErrData, got %v", status)
				}
			}
		})
	}
}

func TestStream_InvalidCalls(t *testing.T) {
	var strm Stream
	if status := strm.Inflate(NoFlush); status != ErrStream {
		t.Errorf("Inflate before InflateInit: expected ErrStream, got %v", status)
	}
	if status := strm.Deflate(NoFlush); status != ErrStream {
		t.Errorf("Deflate before DeflateInit: expected ErrStream, got %v", status)
	}
	if status := strm.DeflateInit(WithWindowBits(WindowBits(20))); status != ErrStream {
		t.Errorf("DeflateInit with bad WindowBits: expected ErrStream, got %v", status)
	}

	strm.InflateInit()
	strm.NextIn = []byte{0x78}
	strm.NextOut = make([]byte, 16)
	if status := strm.Inflate(FlushType(99)); status != ErrStream {
		t.Errorf("Inflate with bad flush: expected ErrStream, got %v", status)
	}
	if status := strm.Inflate(NoFlush); status != ErrStream {
		t.Errorf("Inflate after bad flush: expected sticky ErrStream, got %v", status)
	}
	strm.InflateReset()
	if status := strm.Inflate(NoFlush); status != Ok {
		t.Errorf("Inflate after InflateReset: expected Ok, got %v: %s", status, strm.Msg)
	}
	strm.InflateEnd()

	strm.DeflateInit()
	strm.NextIn = []byte("abc")
	strm.NextOut = []byte{}
	if status := strm.Deflate(NoFlush); status != ErrBuf {
		t.Errorf("Deflate with empty output: expected ErrBuf, got %v", status)
	}
	strm.NextOut = make([]byte, 64)
	if status := strm.Deflate(NoFlush); status != Ok {
		t.Errorf("Deflate: expected Ok, got %v: %s", status, strm.Msg)
	}
	if status := strm.DeflateEnd(); status != ErrData {
		t.Errorf("DeflateEnd mid-stream: expected ErrData, got %v", status)
	}

	strm.DeflateInit()
	strm.NextIn = make([]byte, 10)
	strm.NextOut = nil
	if status := strm.Deflate(NoFlush); status != ErrStream {
		t.Errorf("Deflate without output buffer: expected ErrStream, got %v", status)
	}
	strm.NextOut = make([]byte, 64)
	if status := strm.Deflate(NoFlush); status != ErrStream {
		t.Errorf("Deflate after missing output buffer: expected sticky ErrStream, got %v", status)
	}
	strm.DeflateEnd()

	strm.DeflateInit()
	strm.NextIn = []byte("abc")
	strm.NextOut = make([]byte, 64)
	if status := strm.Deflate(FinishFlush); status != StreamEnd {
		t.Fatalf("Deflate(FinishFlush): expected StreamEnd, got %v: %s", status, strm.Msg)
	}
	strm.NextIn = []byte("more")
	if status := strm.Deflate(FinishFlush); status != ErrStream {
		t.Errorf("Deflate(FinishFlush) with new input after finishing: expected ErrStream, got %v", status)
	}
	strm.NextIn = nil
	if status := strm.Deflate(FinishFlush); status != ErrStream {
		t.Errorf("Deflate after error: expected sticky ErrStream, got %v", status)
	}
	strm.DeflateEnd()

	strm.DeflateInit()
	strm.NextIn = []byte("abc")
	strm.NextOut = make([]byte, 64)
	if status := strm.Deflate(FinishFlush); status != StreamEnd {
		t.Fatalf("Deflate(FinishFlush): expected StreamEnd, got %v: %s", status, strm.Msg)
	}
	strm.NextIn = []byte("more")
	if status := strm.Deflate(NoFlush); status != ErrStream {
		t.Errorf("Deflate(NoFlush) after FinishFlush: expected ErrStream, got %v", status)
	}
	strm.DeflateEnd()

	strm.DeflateInit()
	strm.NextOut = make([]byte, 64)
	if status := strm.Deflate(FlushType(42)); status != ErrStream {
		t.Errorf("Deflate with bad flush: expected ErrStream, got %v", status)
	}
	if status := strm.Deflate(FinishFlush); status != ErrStream {
		t.Errorf("Deflate after bad flush: expected sticky ErrStream, got %v", status)
	}
}

func TestStream_InflateFinish(t *testing.T) {
	input := makeRepetitive(10000)
	compressed := deflateAll(t, input, 0)

	var strm Stream
	strm.InflateInit()
	strm.NextIn = compressed
	strm.NextOut = make([]byte, 100)
	if status := strm.Inflate(FinishFlush); status != ErrBuf {
		t.Errorf("Inflate(FinishFlush) with short output: expected ErrBuf, got %v", status)
	}
	if strm.TotalOut != 100 {
		t.Errorf("expected 100 bytes of progress, got %d", strm.TotalOut)
	}
	strm.NextOut = make([]byte, len(input))
	if status := strm.Inflate(FinishFlush); status != StreamEnd {
		t.Errorf("Inflate(FinishFlush): expected StreamEnd, got %v: %s", status, strm.Msg)
	}
}

func TestStream_ParamsAndReset(t *testing.T) {
	partA := makeRepetitive(40000)
	partB := makeRandom(40000, 7)
	input := append(append([]byte(nil), partA...), partB...)

	var strm Stream
	strm.DeflateInit(WithCompressLevel(NoCompression))
	buf := make([]byte, DeflateBound(len(input)))

	run := func() []byte {
		strm.NextIn = partA
		strm.NextOut = buf
		if status := strm.Deflate(NoFlush); status != Ok {
			t.Fatalf("Deflate: expected Ok, got %v: %s", status, strm.Msg)
		}
		if status := strm.DeflateParams(BestCompression, FilteredStrategy); status != Ok {
			t.Fatalf("DeflateParams: expected Ok, got %v: %s", status, strm.Msg)
		}
		strm.NextIn = partB
		if status := strm.Deflate(FinishFlush); status != StreamEnd {
			t.Fatalf("Deflate(FinishFlush): expected StreamEnd, got %v: %s", status, strm.Msg)
		}
		return append([]byte(nil), buf[:len(buf)-len(strm.NextOut)]...)
	}

	first := run()
	if status := strm.DeflateParams(CompressLevel(12), DefaultStrategy); status != ErrStream {
		t.Errorf("DeflateParams with bad level: expected ErrStream, got %v", status)
	}
	if status := strm.DeflateReset(); status != Ok {
		t.Fatalf("DeflateReset: %v: %s", status, strm.Msg)
	}
	strm.DeflateParams(NoCompression, DefaultStrategy)
	second := run()
	if !bytes.Equal(first, second) {
		t.Errorf("output after DeflateReset differs" + tabify(hexDiff(first, second)))
	}

	output, status, istrm := inflateAll(t, first, 0, nil)
	if status != StreamEnd {
		t.Fatalf("Inflate: expected StreamEnd, got %v: %s", status, istrm.Msg)
	}
	if !bytes.Equal(output, input) {
		t.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(input), len(output))
	}
}

func TestStream_DataType(t *testing.T) {
	type testRow struct {
		name   string
		input  []byte
		expect DataType
	}

	binary := makeRandom(4096, 8)
	binary[0] = 0

	var testData = [...]testRow{
		{name: "text", input: makeRepetitive(4096), expect: TextData},
		{name: "binary", input: binary, expect: BinaryData},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			var strm Stream
			strm.DeflateInit()
			strm.NextIn = row.input
			strm.NextOut = make([]byte, DeflateBound(len(row.input)))
			if status := strm.Deflate(FinishFlush); status != StreamEnd {
				t.Fatalf("Deflate: expected StreamEnd, got %v: %s", status, strm.Msg)
			}
			if strm.DataType != row.expect {
				t.Errorf("expected %v, got %v", row.expect, strm.DataType)
			}
		})
	}
}

func BenchmarkDeflate(b *testing.B) {
	input := makeRepetitive(oneMiB)
	b.SetBytes(int64(len(input)))
	for n := 0; n < b.N; n++ {
		deflateAll(b, input, 0)
	}
}

func BenchmarkInflate(b *testing.B) {
	input := makeRepetitive(oneMiB)
	compressed := deflateAll(b, input, 0)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, status, _ := inflateAll(b, compressed, 0, nil); status != StreamEnd {
			b.Fatalf("Inflate: expected StreamEnd, got %v", status)
		}
	}
}
