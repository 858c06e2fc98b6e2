package zflate

// detectDataType guesses whether the literals of a block are text or binary.
// Binary means at least one byte from the "black list" (0..6, 14..25,
// 28..31) occurs.  Text means no such byte occurs, and at least one byte from
// the "white list" (9, 10, 13, 32..255) does.  Anything else is binary.
func detectDataType(treeLL []treeNode) DataType {
	blackMask := uint32(0xf3ffc07f)
	for n := 0; n <= 31; n++ {
		if (blackMask&1) != 0 && treeLL[n].freq != 0 {
			return BinaryData
		}
		blackMask >>= 1
	}

	if treeLL[9].freq != 0 || treeLL[10].freq != 0 || treeLL[13].freq != 0 {
		return TextData
	}
	for n := 32; n < numLiterals; n++ {
		if treeLL[n].freq != 0 {
			return TextData
		}
	}
	return BinaryData
}

// countFrequenciesX tallies the code length code symbols of xtokens into
// treeX.
func countFrequenciesX(treeX []treeNode, xtokens []token) {
	for _, t := range xtokens {
		if symX, _, _ := t.symbolX(); symX >= 0 {
			treeX[symX].freq++
		}
	}
}

func sizesAllZeroes(sizes []byte) bool {
	for i, length := uint(0), uint(len(sizes)); i < length; i++ {
		if sizes[i] != 0 {
			return false
		}
	}
	return true
}

func sizeRunLength(sizes []byte, size byte) uint {
	var count uint
	for i, length := uint(0), uint(len(sizes)); i < length; i++ {
		if sizes[i] != size {
			break
		}
		count++
	}
	return count
}

func encodeTreeTokens(xtokens []token, sizes []byte, min uint) ([]token, uint) {
	i := uint(0)
	sizesLen := uint(len(sizes))
	for i < sizesLen {
		if i >= min && sizesAllZeroes(sizes[i:]) {
			break
		}

		if size := sizes[i]; size != 0 {
			xtokens = append(xtokens, makeTreeLenToken(size))
			i++

			run := sizeRunLength(sizes[i:], size)
			for run >= 9 {
				xtokens = append(xtokens, makeTreeDupToken(6))
				i += 6
				run -= 6
			}
			if run > 6 {
				xtokens = append(xtokens, makeTreeDupToken(4))
				i += 4
				run -= 4
			}
			if run > 2 {
				xtokens = append(xtokens, makeTreeDupToken(run))
				i += run
				run = 0
			}
			for run != 0 {
				xtokens = append(xtokens, makeTreeLenToken(size))
				i++
				run--
			}
			continue
		}

		run := sizeRunLength(sizes[i:], 0)
		if (i+run) > min && sizesAllZeroes(sizes[i:]) {
			run = min - i
		}
		for run >= 141 {
			xtokens = append(xtokens, makeTreeZeroRunToken(138))
			i += 138
			run -= 138
		}
		if run > 138 {
			xtokens = append(xtokens, makeTreeZeroRunToken(136))
			i += 136
			run -= 136
		}
		if run > 3 {
			xtokens = append(xtokens, makeTreeZeroRunToken(run))
			i += run
			run = 0
		}
		for run != 0 {
			xtokens = append(xtokens, makeTreeLenToken(0))
			i++
			run--
		}
	}
	sizesNum := i
	return xtokens, sizesNum
}
