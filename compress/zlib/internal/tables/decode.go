// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package tables

// InvalidExtra marks the unused length codes 286 and 287 in CopyLExt.
const InvalidExtra = 112

// Copy lengths for literal codes 257..285.
var CopyLens = [31]int32{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258, 0, 0}

// Extra bits for literal codes 257..285.
var CopyLExt = [31]int32{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0, InvalidExtra, InvalidExtra}

// Copy offsets for distance codes 0..29.
var CopyDist = [30]int32{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145,
	8193, 12289, 16385, 24577}

// Extra bits for distance codes.
var CopyDExt = [30]int32{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11,
	12, 12, 13, 13}

// Mask[n] keeps the low n bits of a word.
var Mask = [17]uint32{
	0x00000000, 0x00000001, 0x00000003, 0x00000007, 0x0000000f,
	0x0000001f, 0x0000003f, 0x0000007f, 0x000000ff, 0x000001ff,
	0x000003ff, 0x000007ff, 0x00000fff, 0x00001fff, 0x00003fff,
	0x00007fff, 0x0000ffff}

// FixedLitLens returns the code lengths of the fixed literal/length
// code, 288 entries.
func FixedLitLens() []int32 {
	lens := make([]int32, len(StaticLTree))
	for i := range StaticLTree {
		lens[i] = int32(StaticLTree[i].Len)
	}
	return lens
}
