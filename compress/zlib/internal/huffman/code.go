// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import "math/bits"

// BitReverse reverses the low length bits of code.
func BitReverse(code uint16, length int) uint16 {
	return bits.Reverse16(code) >> (16 - length)
}

// GenCodes assigns canonical codes to tree[0..maxCode] given the number
// of codes at each bit length. Codes are stored bit-reversed, ready to
// be sent LSB first.
func GenCodes(tree []Node, maxCode int, blCount *[MaxBits + 1]uint16) {
	var nextCode [MaxBits + 1]uint16
	code := uint16(0)
	for b := 1; b <= MaxBits; b++ {
		code = (code + blCount[b-1]) << 1
		nextCode[b] = code
	}
	for n := 0; n <= maxCode; n++ {
		l := int(tree[n].Len)
		if l == 0 {
			continue
		}
		tree[n].Code = BitReverse(nextCode[l], l)
		nextCode[l]++
	}
}
