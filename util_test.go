package zflate

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"testing"
)

// type eofReader {{{

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

var _ io.Reader = eofReader{}

// }}}

func mustDecodeHex(str string) []byte {
	raw, err := hex.DecodeString(str)
	if err != nil {
		panic(err)
	}
	return raw
}

func hexDump(p []byte) []string {
	length := uint(len(p))
	lines := make([]string, 0, (length+15)>>4)
	var offset uint
	var buf strings.Builder
	for (offset + 16) <= length {
		buf.Reset()
		fmt.Fprintf(&buf, "%08x|", offset)
		for i := uint(0); i < 16; i++ {
			index := offset + i
			ch := p[index]
			fmt.Fprintf(&buf, " %02x", ch)
			if i == 7 {
				buf.WriteByte(' ')
			}
		}
		lines = append(lines, buf.String())
		offset += 16
	}
	if offset < length || offset == 0 {
		buf.Reset()
		fmt.Fprintf(&buf, "%08x|", offset)
		for i := uint(0); i < 16; i++ {
			index := offset + i
			if index < length {
				ch := p[index]
				fmt.Fprintf(&buf, " %02x", ch)
			} else {
				buf.WriteString(" --")
			}
			if i == 7 {
				buf.WriteByte(' ')
			}
		}
		lines = append(lines, buf.String())
	}
	return lines
}

func hexDiff(a, b []byte) []string {
	aLines := hexDump(a)
	bLines := hexDump(b)

	aLen := uint(len(aLines))
	bLen := uint(len(bLines))
	minLen := aLen
	if minLen > bLen {
		minLen = bLen
	}

	diffLines := make([]string, 0, aLen+bLen)
	for i := uint(0); i < minLen; i++ {
		aLine := aLines[i]
		bLine := bLines[i]
		if aLine == bLine {
			continue
		}
		diffLines = append(diffLines, "-"+aLine)
		diffLines = append(diffLines, "+"+bLine)
	}
	for i := minLen; i < aLen; i++ {
		aLine := aLines[i]
		diffLines = append(diffLines, "-"+aLine)
	}
	for i := minLen; i < bLen; i++ {
		bLine := bLines[i]
		diffLines = append(diffLines, "+"+bLine)
	}
	return diffLines
}

func tabify(lines []string) string {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteByte('\n')
		buf.WriteByte('\t')
		buf.WriteString(line)
	}
	return buf.String()
}

func firstLines(lines []string, n int) []string {
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func TestAdler32(t *testing.T) {
	type testRow struct {
		input  string
		expect uint32
	}

	var testData = [...]testRow{
		{"", 0x00000001},
		{"a", 0x00620062},
		{"abc", 0x024d0127},
		{"Wikipedia", 0x11e60398},
		{"message digest", 0x29750586},
		{strings.Repeat("\xff", 5552), 0xf18f9b8c},
	}

	for _, row := range testData {
		name := row.input
		if len(name) > 16 {
			name = fmt.Sprintf("%d-bytes", len(name))
		}
		t.Run(name, func(t *testing.T) {
			if actual := Adler32(1, []byte(row.input)); actual != row.expect {
				t.Errorf("expected %08x, got %08x", row.expect, actual)
			}

			// Splitting the input must not change the result.
			half := len(row.input) / 2
			running := Adler32(1, []byte(row.input[:half]))
			running = Adler32(running, []byte(row.input[half:]))
			if running != row.expect {
				t.Errorf("split: expected %08x, got %08x", row.expect, running)
			}
		})
	}

	running := Adler32(1, []byte("Wikipedia"))
	if actual := Adler32(running, nil); actual != 1 {
		t.Errorf("nil input: expected 00000001, got %08x", actual)
	}
	if actual := Adler32(running, []byte{}); actual != running {
		t.Errorf("empty input: expected %08x, got %08x", running, actual)
	}
}

func TestDeflateBound(t *testing.T) {
	for _, n := range []int{0, 1, 100, 65535, 65536, 1 << 20} {
		input := makeRandom(n, int64(n))
		for _, clevel := range []CompressLevel{NoCompression, FastestCompression, BestCompression} {
			compressed := deflateAll(t, input, 0, WithCompressLevel(clevel))
			if bound := DeflateBound(n); len(compressed) > bound {
				t.Errorf("n=%d level=%v: compressed size %d exceeds bound %d", n, clevel, len(compressed), bound)
			}
		}
	}
}

func TestHeader(t *testing.T) {
	type testRow struct {
		name   string
		input  []byte
		opts   []Option
		expect Header
	}

	dict := []byte("dictionary")

	var testData = [...]testRow{
		{
			name:   "default",
			opts:   nil,
			expect: Header{Method: DeflateMethod, WindowBits: MaxWindowBits, CompressLevel: 6},
		},
		{
			name:   "fastest-w10",
			opts:   []Option{WithCompressLevel(FastestCompression), WithWindowBits(10)},
			expect: Header{Method: DeflateMethod, WindowBits: 10, CompressLevel: 1},
		},
		{
			name:   "best",
			opts:   []Option{WithCompressLevel(BestCompression)},
			expect: Header{Method: DeflateMethod, WindowBits: MaxWindowBits, CompressLevel: 9},
		},
		{
			name:   "dict",
			opts:   []Option{WithDictionary(dict)},
			expect: Header{Method: DeflateMethod, WindowBits: MaxWindowBits, CompressLevel: 6, HasDictionary: true, DictionaryID: Checksum32(Adler32(1, dict))},
		},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			var buf strings.Builder
			fw := NewWriter(&buf, row.opts...)
			if _, err := fw.Write([]byte("hello")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := fw.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			var actual Header
			fr := NewReader(strings.NewReader(buf.String()), WithDictionary(dict), WithTracers(CaptureHeader(&actual)))
			if _, err := io.Copy(io.Discard, fr); err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if actual != row.expect {
				t.Errorf("expected %+v, got %+v", row.expect, actual)
			}
		})
	}
}
