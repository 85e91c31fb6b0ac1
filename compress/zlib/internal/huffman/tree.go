// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package huffman builds the length-limited canonical Huffman codes used
// by deflate blocks, reproducing the tie-breaking of the reference
// implementation so that emitted streams are bit-identical.
package huffman

// Deflate alphabet sizes.
const (
	MaxBits     = 15  // all codes must not exceed MaxBits bits
	MaxBLBits   = 7   // bit length codes must not exceed MaxBLBits bits
	Literals    = 256 // number of literal bytes 0..255
	LengthCodes = 29
	LCodes      = Literals + 1 + LengthCodes // literal/length alphabet incl. end of block
	DCodes      = 30
	BLCodes     = 19
	HeapSize    = 2*LCodes + 1
	EndBlock    = 256
	MinMatch    = 3
	MaxMatch    = 258

	Rep3To6     = 16 // repeat previous bit length 3-6 times (2 bits of repeat count)
	RepZ3To10   = 17 // repeat a zero length 3-10 times (3 bits of repeat count)
	RepZ11To138 = 18 // repeat a zero length 11-138 times (7 bits of repeat count)
)

// Node is a tree element. Freq and Dad are only meaningful while the
// tree is being built, Code and Len once it is done.
type Node struct {
	Freq uint16
	Code uint16
	Dad  uint16
	Len  uint16
}

// StaticDesc describes a fixed alphabet and its static tree.
type StaticDesc struct {
	Tree      []Node // static tree or nil
	ExtraBits []int  // extra bits for each code or nil
	ExtraBase int    // base index for ExtraBits
	Elems     int    // max number of elements in the tree
	MaxLength int    // max bit length for the codes
}

// Desc binds a dynamic tree to its static description.
type Desc struct {
	Tree    []Node
	MaxCode int // largest code with non zero frequency
	Stat    *StaticDesc
}
