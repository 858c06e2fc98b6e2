package zflate

import (
	"testing"
)

func TestHuffmanDecoderInit(t *testing.T) {
	type testRow struct {
		name        string
		lengths     []byte
		allowSingle bool
		ok          bool
	}

	var testData = [...]testRow{
		{name: "complete-2", lengths: []byte{1, 1}, allowSingle: true, ok: true},
		{name: "complete-4", lengths: []byte{2, 1, 3, 3}, allowSingle: true, ok: true},
		{name: "single-length-1", lengths: []byte{0, 1, 0}, allowSingle: true, ok: true},
		{name: "empty", lengths: []byte{0, 0, 0}, allowSingle: true, ok: true},
		{name: "incomplete", lengths: []byte{2, 2, 2}, allowSingle: true, ok: false},
		{name: "single-length-2", lengths: []byte{2}, allowSingle: true, ok: false},
		{name: "oversubscribed", lengths: []byte{1, 1, 1}, allowSingle: true, ok: false},
		{name: "oversubscribed-deep", lengths: []byte{1, 2, 3, 3, 3}, allowSingle: true, ok: false},
		{name: "fixed-ll", lengths: staticLLSizes, allowSingle: true, ok: true},
		{name: "strict-complete", lengths: []byte{2, 1, 3, 3}, allowSingle: false, ok: true},
		{name: "strict-single-length-1", lengths: []byte{0, 1, 0}, allowSingle: false, ok: false},
		{name: "strict-empty", lengths: []byte{0, 0, 0}, allowSingle: false, ok: false},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			var h huffmanDecoder
			if ok := h.init(row.lengths, row.allowSingle); ok != row.ok {
				t.Errorf("init: expected %v, got %v", row.ok, ok)
			}
		})
	}
}

func TestFixedDecoders(t *testing.T) {
	// The fixed decoders are built during package initialization, after
	// the static code lengths they depend on.
	if fixedDecoderLL.min != 7 {
		t.Errorf("fixedDecoderLL: expected shortest code 7, got %d", fixedDecoderLL.min)
	}
	if fixedDecoderD.min != 5 {
		t.Errorf("fixedDecoderD: expected shortest code 5, got %d", fixedDecoderD.min)
	}
	if sym, size := fixedDecoderLL.lookup(0); sym != endBlock || size != 7 {
		t.Errorf("fixedDecoderLL: expected end-of-block (%d, 7) for zero bits, got (%d, %d)", endBlock, sym, size)
	}
}

func TestHuffmanDecoderLookup(t *testing.T) {
	// Every code of the fixed literal/length tree must decode to its own
	// symbol, including the 9-bit codes.
	for sym := 0; sym < physicalNumLLCodes; sym++ {
		node := staticLLTree[sym]
		gotSym, gotSize := fixedDecoderLL.lookup(block(node.code))
		if gotSym != sym || gotSize != node.len {
			t.Errorf("fixed LL %d: expected (%d, %d), got (%d, %d)", sym, sym, node.len, gotSym, gotSize)
		}
	}

	for sym := 0; sym < physicalNumDCodes; sym++ {
		code := reverseBits(block(sym), 5)
		gotSym, gotSize := fixedDecoderD.lookup(code)
		if gotSym != sym || gotSize != 5 {
			t.Errorf("fixed D %d: expected (%d, 5), got (%d, %d)", sym, sym, gotSym, gotSize)
		}
	}

	// Lengths up to 15 go through the link tables.
	lengths := make([]byte, 16)
	for i := 0; i < 14; i++ {
		lengths[i] = byte(i + 1)
	}
	lengths[14] = 15
	lengths[15] = 15
	var h huffmanDecoder
	if !h.init(lengths, true) {
		t.Fatalf("init failed for %v", lengths)
	}
	var blCount [maxCodeBits + 1]uint16
	tree := make([]treeNode, len(lengths))
	for i, size := range lengths {
		tree[i].len = size
		blCount[size]++
	}
	genCodes(tree, len(tree)-1, &blCount)
	for sym, node := range tree {
		gotSym, gotSize := h.lookup(block(node.code))
		if gotSym != sym || gotSize != node.len {
			t.Errorf("deep %d: expected (%d, %d), got (%d, %d)", sym, sym, node.len, gotSym, gotSize)
		}
	}

	var single huffmanDecoder
	if !single.init([]byte{0, 1}, true) {
		t.Fatal("init failed for a single code")
	}
	if sym, size := single.lookup(0); sym != 1 || size != 1 {
		t.Errorf("single code: expected (1, 1), got (%d, %d)", sym, size)
	}
	if _, size := single.lookup(1); size != 0 {
		t.Errorf("single code: expected no match for bit 1, got size %d", size)
	}
}
