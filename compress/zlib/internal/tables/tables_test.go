// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package tables

import (
	"testing"

	"github.com/intel/fastzlib/compress/zlib/internal/huffman"
	"github.com/stretchr/testify/require"
)

func TestLengthCodes(t *testing.T) {
	for l := huffman.MinMatch; l <= huffman.MaxMatch; l++ {
		code := int(LengthCode[l-huffman.MinMatch])
		if l == huffman.MaxMatch {
			require.Equal(t, huffman.LengthCodes-1, code)
			require.Equal(t, int32(huffman.MaxMatch), CopyLens[code])
			continue
		}
		base := BaseLength[code] + huffman.MinMatch
		require.Equal(t, int(CopyLens[code]), base, "length %d", l)
		require.Less(t, l-base, 1<<ExtraLBits[code], "length %d", l)
		require.Equal(t, int32(ExtraLBits[code]), CopyLExt[code])
	}
}

func TestDistCodes(t *testing.T) {
	for d := 1; d <= 32768; d++ {
		code := DCode(d - 1)
		require.GreaterOrEqual(t, d-1, BaseDist[code], "distance %d", d)
		require.Less(t, d-1-BaseDist[code], 1<<ExtraDBits[code], "distance %d", d)
		require.Equal(t, int32(BaseDist[code]+1), CopyDist[code])
		require.Equal(t, int32(ExtraDBits[code]), CopyDExt[code])
	}
	require.Equal(t, 29, DCode(32767))
}

func TestStaticTrees(t *testing.T) {
	// 0..143 use 8 bits starting at 00110000.
	require.Equal(t, uint16(8), StaticLTree[0].Len)
	require.Equal(t, huffman.BitReverse(0x30, 8), StaticLTree[0].Code)
	require.Equal(t, huffman.BitReverse(0x190, 9), StaticLTree[144].Code)
	require.Equal(t, uint16(7), StaticLTree[huffman.EndBlock].Len)
	require.Equal(t, uint16(0), StaticLTree[huffman.EndBlock].Code)
	require.Equal(t, huffman.BitReverse(0xc0, 8), StaticLTree[280].Code)
	require.Equal(t, uint16(5), StaticDTree[29].Len)
	require.Len(t, FixedLitLens(), 288)
}
