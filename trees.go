package zflate

import (
	"encoding/json"
	"math/bits"

	"github.com/chronos-tachyon/assert"
)

const (
	logicalNumLLCodes  = 286
	logicalNumDCodes   = 30
	physicalNumLLCodes = 288
	physicalNumDCodes  = 32
	physicalNumXCodes  = 19

	numLiterals    = 256
	endBlock       = 256
	numLengthCodes = 29

	maxCodeBits  = 15
	maxXCodeBits = 7

	heapSize = 2*logicalNumLLCodes + 1

	minMatch = 3
	maxMatch = 258
)

// scramble is the order in which code length code lengths are transmitted.
var scramble = [physicalNumXCodes]byte{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

var extraLLBits = [numLengthCodes]byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

var extraDBits = [logicalNumDCodes]byte{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

var extraXBits = [physicalNumXCodes]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 3, 7}

var (
	lengthBase [numLengthCodes]uint16
	distBase   [logicalNumDCodes]uint16
)

// treeNode is one node of a Huffman tree under construction.  Leaves occupy
// indices [0, elems); interior nodes are allocated above them.
type treeNode struct {
	freq uint32
	code uint16
	dad  uint16
	len  byte
}

// staticTreeDesc describes the fixed properties of one kind of tree.
type staticTreeDesc struct {
	staticTree []treeNode
	extraBits  []byte
	extraBase  int
	elems      int
	maxLength  byte
}

// treeDesc is a dynamic tree plus its bookkeeping.
type treeDesc struct {
	dynTree []treeNode
	maxCode int
	stat    *staticTreeDesc
}

var (
	staticLLTree [physicalNumLLCodes]treeNode
	staticDTree  [logicalNumDCodes]treeNode

	staticLLDesc = staticTreeDesc{
		staticTree: staticLLTree[:],
		extraBits:  extraLLBits[:],
		extraBase:  numLiterals + 1,
		elems:      logicalNumLLCodes,
		maxLength:  maxCodeBits,
	}
	staticDDesc = staticTreeDesc{
		staticTree: staticDTree[:],
		extraBits:  extraDBits[:],
		extraBase:  0,
		elems:      logicalNumDCodes,
		maxLength:  maxCodeBits,
	}
	staticXDesc = staticTreeDesc{
		staticTree: nil,
		extraBits:  extraXBits[:],
		extraBase:  0,
		elems:      physicalNumXCodes,
		maxLength:  maxXCodeBits,
	}

	staticLLSizes SizeList
	staticDSizes  SizeList
)

func init() {
	// https://www.rfc-editor.org/rfc/rfc1951.html - Section 3.2.5
	var length uint16 = 3
	for code := 0; code < numLengthCodes-1; code++ {
		lengthBase[code] = length
		length += 1 << extraLLBits[code]
	}
	lengthBase[numLengthCodes-1] = maxMatch

	var dist uint16 = 1
	for code := 0; code < logicalNumDCodes; code++ {
		distBase[code] = dist
		dist += 1 << extraDBits[code]
	}

	// https://www.rfc-editor.org/rfc/rfc1951.html - Section 3.2.6
	var blCount [maxCodeBits + 1]uint16
	staticLLSizes = make(SizeList, physicalNumLLCodes)
	for n := 0; n < physicalNumLLCodes; n++ {
		var size byte
		switch {
		case n < 144:
			size = 8
		case n < 256:
			size = 9
		case n < 280:
			size = 7
		default:
			size = 8
		}
		staticLLTree[n].len = size
		staticLLSizes[n] = size
		blCount[size]++
	}
	genCodes(staticLLTree[:], physicalNumLLCodes-1, &blCount)

	staticDSizes = make(SizeList, logicalNumDCodes)
	for n := 0; n < logicalNumDCodes; n++ {
		staticDTree[n].len = 5
		staticDTree[n].code = uint16(reverseBits(block(n), 5))
		staticDSizes[n] = 5
	}

	initFixedDecoders()
}

// treeBuilder holds the scratch space used to build Huffman trees, and the
// running cost of the current block under the dynamic and static encodings.
type treeBuilder struct {
	heap    [heapSize]int
	heapLen int
	heapMax int
	depth   [heapSize]byte
	blCount [maxCodeBits + 1]uint16

	optLen    int // bit length of current block with optimal trees
	staticLen int // bit length of current block with static trees
}

func (tb *treeBuilder) smaller(tree []treeNode, n, m int) bool {
	return tree[n].freq < tree[m].freq || (tree[n].freq == tree[m].freq && tb.depth[n] <= tb.depth[m])
}

// pqDownHeap restores the heap property by sifting heap[k] down.
func (tb *treeBuilder) pqDownHeap(tree []treeNode, k int) {
	v := tb.heap[k]
	j := k << 1
	for j <= tb.heapLen {
		if j < tb.heapLen && tb.smaller(tree, tb.heap[j+1], tb.heap[j]) {
			j++
		}
		if tb.smaller(tree, v, tb.heap[j]) {
			break
		}
		tb.heap[k] = tb.heap[j]
		k = j
		j <<= 1
	}
	tb.heap[k] = v
}

func (tb *treeBuilder) pqRemove(tree []treeNode) int {
	top := tb.heap[1]
	tb.heap[1] = tb.heap[tb.heapLen]
	tb.heapLen--
	tb.pqDownHeap(tree, 1)
	return top
}

// buildTree constructs the Huffman tree for desc from the frequencies in
// desc.dynTree, sets the code lengths and codes of every leaf, and adds the
// cost of the block under this tree to optLen and staticLen.
func (tb *treeBuilder) buildTree(desc *treeDesc) {
	tree := desc.dynTree
	elems := desc.stat.elems
	stree := desc.stat.staticTree

	tb.heapLen = 0
	tb.heapMax = heapSize

	maxCode := -1
	for n := 0; n < elems; n++ {
		if tree[n].freq != 0 {
			tb.heapLen++
			tb.heap[tb.heapLen] = n
			maxCode = n
			tb.depth[n] = 0
		} else {
			tree[n].len = 0
		}
	}

	// The format requires at least two codes of non-zero bit length, even
	// if only one symbol (or none) occurs.
	for tb.heapLen < 2 {
		node := 0
		if maxCode < 2 {
			maxCode++
			node = maxCode
		}
		tb.heapLen++
		tb.heap[tb.heapLen] = node
		tree[node].freq = 1
		tb.depth[node] = 0
		tb.optLen--
		if stree != nil {
			tb.staticLen -= int(stree[node].len)
		}
	}
	desc.maxCode = maxCode

	for n := tb.heapLen / 2; n >= 1; n-- {
		tb.pqDownHeap(tree, n)
	}

	node := elems
	for {
		n := tb.pqRemove(tree)
		m := tb.heap[1]

		tb.heapMax--
		tb.heap[tb.heapMax] = n
		tb.heapMax--
		tb.heap[tb.heapMax] = m

		tree[node].freq = tree[n].freq + tree[m].freq
		if tb.depth[n] >= tb.depth[m] {
			tb.depth[node] = tb.depth[n] + 1
		} else {
			tb.depth[node] = tb.depth[m] + 1
		}
		tree[n].dad = uint16(node)
		tree[m].dad = uint16(node)

		tb.heap[1] = node
		node++
		tb.pqDownHeap(tree, 1)

		if tb.heapLen < 2 {
			break
		}
	}
	tb.heapMax--
	tb.heap[tb.heapMax] = tb.heap[1]

	tb.genBitLen(desc)
	genCodes(tree, maxCode, &tb.blCount)
}

// genBitLen computes the code length of every node from the parent links
// left by buildTree, limits them to the tree's maximum length, and updates
// optLen and staticLen.
func (tb *treeBuilder) genBitLen(desc *treeDesc) {
	tree := desc.dynTree
	maxCode := desc.maxCode
	stree := desc.stat.staticTree
	extra := desc.stat.extraBits
	base := desc.stat.extraBase
	maxLength := desc.stat.maxLength

	for i := range tb.blCount {
		tb.blCount[i] = 0
	}

	// The root of the heap has length 0; every other node is one deeper
	// than its parent, and parents precede children in heap[heapMax:].
	tree[tb.heap[tb.heapMax]].len = 0

	overflow := 0
	for h := tb.heapMax + 1; h < heapSize; h++ {
		n := tb.heap[h]
		size := tree[tree[n].dad].len + 1
		if size > maxLength {
			size = maxLength
			overflow++
		}
		tree[n].len = size

		if n > maxCode {
			continue
		}

		tb.blCount[size]++
		var xbits int
		if n >= base {
			xbits = int(extra[n-base])
		}
		f := int(tree[n].freq)
		tb.optLen += f * (int(size) + xbits)
		if stree != nil {
			tb.staticLen += f * (int(stree[n].len) + xbits)
		}
	}
	if overflow == 0 {
		return
	}

	// Find the first bit length which could increase, move one leaf
	// down from it and two overflowing leaves up next to it.
	for {
		size := maxLength - 1
		for tb.blCount[size] == 0 {
			size--
		}
		tb.blCount[size]--
		tb.blCount[size+1] += 2
		tb.blCount[maxLength]--
		overflow -= 2
		if overflow <= 0 {
			break
		}
	}

	// Reassign lengths in frequency order; heap[heapMax:] is sorted by
	// increasing frequency.
	h := heapSize
	for size := maxLength; size != 0; size-- {
		n := tb.blCount[size]
		for n != 0 {
			h--
			m := tb.heap[h]
			if m > maxCode {
				continue
			}
			if tree[m].len != size {
				tb.optLen += (int(size) - int(tree[m].len)) * int(tree[m].freq)
				tree[m].len = size
			}
			n--
		}
	}
}

// genCodes assigns canonical codes to tree[0:maxCode+1] given the count of
// codes of each length.  Codes are stored bit-reversed, ready for LSB-first
// transmission.
func genCodes(tree []treeNode, maxCode int, blCount *[maxCodeBits + 1]uint16) {
	var nextCode [maxCodeBits + 1]uint16
	var code uint16
	for size := 1; size <= maxCodeBits; size++ {
		code = (code + blCount[size-1]) << 1
		nextCode[size] = code
	}
	assert.Assertf(
		uint32(code)+uint32(blCount[maxCodeBits]) == 1<<maxCodeBits,
		"inconsistent bit counts: code %#04x + count %d",
		code, blCount[maxCodeBits])

	for n := 0; n <= maxCode; n++ {
		size := tree[n].len
		if size == 0 {
			continue
		}
		tree[n].code = bits.Reverse16(nextCode[size]) >> (16 - size)
		nextCode[size]++
	}
}

// sizesOf copies the code lengths of tree[0:n] into a SizeList.
func sizesOf(tree []treeNode, n int) SizeList {
	out := make(SizeList, n)
	for i := 0; i < n; i++ {
		out[i] = tree[i].len
	}
	return out
}

// SizeList represents a list of symbol sizes in a Canonical Huffman Code.
type SizeList []byte

// MarshalJSON returns the JSON representation of this SizeList, as a JSON
// Array of JSON Numbers.
func (sizelist SizeList) MarshalJSON() ([]byte, error) {
	var arr []uint
	if sizelist != nil {
		arr = make([]uint, len(sizelist))
		for index, size := range sizelist {
			arr[index] = uint(size)
		}
	}
	return json.Marshal(arr)
}
