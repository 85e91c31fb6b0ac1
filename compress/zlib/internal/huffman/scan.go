// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

// WalkTree run-length encodes the code lengths of tree[0..maxCode] with
// the repeat codes 16, 17 and 18, calling emit for every bit length
// symbol with its repeat count payload. tree[maxCode+1] must exist and
// is set as a guard.
func WalkTree(tree []Node, maxCode int, emit func(sym int, extra int)) {
	prevLen := -1
	nextLen := int(tree[0].Len)
	count := 0
	maxCount, minCount := 7, 4
	if nextLen == 0 {
		maxCount, minCount = 138, 3
	}
	tree[maxCode+1].Len = 0xffff

	for n := 0; n <= maxCode; n++ {
		curLen := nextLen
		nextLen = int(tree[n+1].Len)
		count++
		if count < maxCount && curLen == nextLen {
			continue
		}
		switch {
		case count < minCount:
			for ; count > 0; count-- {
				emit(curLen, 0)
			}
		case curLen != 0:
			if curLen != prevLen {
				emit(curLen, 0)
				count--
			}
			emit(Rep3To6, count-3)
		case count <= 10:
			emit(RepZ3To10, count-3)
		default:
			emit(RepZ11To138, count-11)
		}
		count = 0
		prevLen = curLen
		switch {
		case nextLen == 0:
			maxCount, minCount = 138, 3
		case curLen == nextLen:
			maxCount, minCount = 6, 3
		default:
			maxCount, minCount = 7, 4
		}
	}
}

// ScanTree adds the bit length symbol frequencies needed to send
// tree[0..maxCode] to blTree.
func ScanTree(tree []Node, maxCode int, blTree []Node) {
	WalkTree(tree, maxCode, func(sym, _ int) {
		blTree[sym].Freq++
	})
}
