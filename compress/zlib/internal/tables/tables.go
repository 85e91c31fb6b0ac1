// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package tables holds the immutable deflate tables shared by the
// compressor and the decompressor. Everything is computed once at
// package initialization and never written afterwards.
package tables

import "github.com/intel/fastzlib/compress/zlib/internal/huffman"

// ExtraLBits is the number of extra bits of each length code.
var ExtraLBits = [huffman.LengthCodes]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// ExtraDBits is the number of extra bits of each distance code.
var ExtraDBits = [huffman.DCodes]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

// ExtraBLBits is the number of extra bits of each bit length code.
var ExtraBLBits = [huffman.BLCodes]int{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 3, 7}

// BLOrder is the order in which the bit length code lengths are sent.
var BLOrder = [huffman.BLCodes]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

var (
	// StaticLTree is the fixed literal/length tree. Codes 286 and 287
	// are part of the tree to complete it but never used.
	StaticLTree [huffman.LCodes + 2]huffman.Node
	// StaticDTree is the fixed distance tree.
	StaticDTree [huffman.DCodes]huffman.Node

	// DistCode maps a distance-1 to its code: the first 256 entries
	// cover distances 1..256, the last 256 the top 8 bits of the
	// 15-bit distances.
	DistCode [512]uint8
	// LengthCode maps a match length-3 to its code.
	LengthCode [huffman.MaxMatch - huffman.MinMatch + 1]uint8
	// BaseLength is the first normalized length of each code.
	BaseLength [huffman.LengthCodes]int
	// BaseDist is the first normalized distance of each code.
	BaseDist [huffman.DCodes]int
)

var (
	StaticLDesc = &huffman.StaticDesc{
		Tree:      StaticLTree[:],
		ExtraBits: ExtraLBits[:],
		ExtraBase: huffman.Literals + 1,
		Elems:     huffman.LCodes,
		MaxLength: huffman.MaxBits,
	}
	StaticDDesc = &huffman.StaticDesc{
		Tree:      StaticDTree[:],
		ExtraBits: ExtraDBits[:],
		ExtraBase: 0,
		Elems:     huffman.DCodes,
		MaxLength: huffman.MaxBits,
	}
	StaticBLDesc = &huffman.StaticDesc{
		ExtraBits: ExtraBLBits[:],
		ExtraBase: 0,
		Elems:     huffman.BLCodes,
		MaxLength: huffman.MaxBLBits,
	}
)

// DCode returns the distance code of dist, where dist is the match
// distance minus one.
func DCode(dist int) int {
	if dist < 256 {
		return int(DistCode[dist])
	}
	return int(DistCode[256+(dist>>7)])
}

func init() {
	length := 0
	code := 0
	for ; code < huffman.LengthCodes-1; code++ {
		BaseLength[code] = length
		for n := 0; n < 1<<ExtraLBits[code]; n++ {
			LengthCode[length] = uint8(code)
			length++
		}
	}
	// Length 258 has its own code 285 with no extra bits. Overwrite
	// length[255] which would otherwise map to code 284 plus 31 extra.
	LengthCode[length-1] = uint8(code)

	dist := 0
	for code = 0; code < 16; code++ {
		BaseDist[code] = dist
		for n := 0; n < 1<<ExtraDBits[code]; n++ {
			DistCode[dist] = uint8(code)
			dist++
		}
	}
	dist >>= 7 // from now on, all distances are divided by 128
	for ; code < huffman.DCodes; code++ {
		BaseDist[code] = dist << 7
		for n := 0; n < 1<<(ExtraDBits[code]-7); n++ {
			DistCode[256+dist] = uint8(code)
			dist++
		}
	}

	var blCount [huffman.MaxBits + 1]uint16
	set := func(from, to int, l uint16) {
		for n := from; n <= to; n++ {
			StaticLTree[n].Len = l
			blCount[l]++
		}
	}
	set(0, 143, 8)
	set(144, 255, 9)
	set(256, 279, 7)
	set(280, 287, 8)
	// Codes 286 and 287 do not exist but must be included in the tree
	// construction to get a canonical Huffman tree.
	huffman.GenCodes(StaticLTree[:], huffman.LCodes+1, &blCount)

	for n := 0; n < huffman.DCodes; n++ {
		StaticDTree[n].Len = 5
		StaticDTree[n].Code = huffman.BitReverse(uint16(n), 5)
	}
}
