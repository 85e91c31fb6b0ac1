// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree(freqs []int, maxLength int) (*Builder, *Desc) {
	tree := make([]Node, 2*len(freqs)+2)
	for i, f := range freqs {
		tree[i].Freq = uint16(f)
	}
	desc := &Desc{
		Tree: tree,
		Stat: &StaticDesc{Elems: len(freqs), MaxLength: maxLength},
	}
	b := new(Builder)
	b.Build(desc)
	return b, desc
}

func kraft(t *testing.T, tree []Node, maxCode, maxLength int) {
	sum := 0
	for n := 0; n <= maxCode; n++ {
		l := int(tree[n].Len)
		require.LessOrEqual(t, l, maxLength)
		if l > 0 {
			sum += 1 << (MaxBits - l)
		}
	}
	require.Equal(t, 1<<MaxBits, sum, "code is not complete")
}

func prefixFree(t *testing.T, tree []Node, maxCode int) {
	for i := 0; i <= maxCode; i++ {
		li := int(tree[i].Len)
		if li == 0 {
			continue
		}
		for j := 0; j <= maxCode; j++ {
			lj := int(tree[j].Len)
			if i == j || lj == 0 || lj < li {
				continue
			}
			// Codes are bit-reversed: code i is a prefix of code j when
			// the low li bits of j equal code i.
			require.NotEqual(t, tree[i].Code, tree[j].Code&(1<<li-1),
				"code %d is a prefix of code %d", i, j)
		}
	}
}

func cost(tree []Node, freqs []int) int {
	c := 0
	for i, f := range freqs {
		c += f * int(tree[i].Len)
	}
	return c
}

func TestBuildRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		n := 2 + rnd.Intn(LCodes-2)
		freqs := make([]int, n)
		for i := range freqs {
			if rnd.Intn(3) != 0 {
				freqs[i] = rnd.Intn(100)
			}
		}
		freqs[rnd.Intn(n)] = 1 + rnd.Intn(50)
		b, desc := buildTree(freqs, MaxBits)
		kraft(t, desc.Tree, desc.MaxCode, MaxBits)
		prefixFree(t, desc.Tree, desc.MaxCode)
		require.Equal(t, int64(cost(desc.Tree, freqs)), b.OptLen)

		maxLen := 0
		for _, l := range moffatLens(freqs) {
			if l > maxLen {
				maxLen = l
			}
		}
		nonZero := 0
		for _, f := range freqs {
			if f != 0 {
				nonZero++
			}
		}
		if maxLen <= MaxBits && nonZero >= 2 {
			want := 0
			for i, l := range moffatLens(freqs) {
				want += freqs[i] * l
			}
			require.Equal(t, want, cost(desc.Tree, freqs), "not minimum redundancy")
		}
	}
}

func TestBuildLengthLimit(t *testing.T) {
	// Fibonacci frequencies produce the deepest possible trees.
	for _, limit := range []int{MaxBLBits, MaxBits} {
		freqs := make([]int, 20)
		a, b := 1, 1
		for i := range freqs {
			freqs[i] = a
			a, b = b, a+b
		}
		require.Greater(t, moffatLens(freqs)[0], limit)
		_, desc := buildTree(freqs, limit)
		kraft(t, desc.Tree, desc.MaxCode, limit)
		prefixFree(t, desc.Tree, desc.MaxCode)
	}
}

func TestBuildDegenerate(t *testing.T) {
	// A single used symbol still gets a two-code tree.
	freqs := make([]int, DCodes)
	freqs[7] = 10
	b, desc := buildTree(freqs, MaxBits)
	require.Equal(t, 7, desc.MaxCode)
	require.Equal(t, uint16(1), desc.Tree[7].Len)
	require.Equal(t, uint16(1), desc.Tree[0].Len)
	kraft(t, desc.Tree, desc.MaxCode, MaxBits)
	require.Equal(t, int64(10-1+1), b.OptLen)

	// No symbol at all: codes 0 and 1 are forced.
	freqs = make([]int, DCodes)
	_, desc = buildTree(freqs, MaxBits)
	require.Equal(t, 1, desc.MaxCode)
	require.Equal(t, uint16(1), desc.Tree[0].Len)
	require.Equal(t, uint16(1), desc.Tree[1].Len)
}

func TestBuildEqualFrequencies(t *testing.T) {
	freqs := make([]int, 16)
	for i := range freqs {
		freqs[i] = 5
	}
	_, desc := buildTree(freqs, MaxBits)
	for i := range freqs {
		require.Equal(t, uint16(4), desc.Tree[i].Len)
		require.Equal(t, BitReverse(uint16(i), 4), desc.Tree[i].Code)
	}
}

func TestGenCodesCanonical(t *testing.T) {
	// Example from RFC 1951 section 3.2.2.
	lens := []uint16{3, 3, 3, 3, 3, 2, 4, 4}
	want := []uint16{0b010, 0b011, 0b100, 0b101, 0b110, 0b00, 0b1110, 0b1111}
	tree := make([]Node, len(lens))
	var blCount [MaxBits + 1]uint16
	for i, l := range lens {
		tree[i].Len = l
		blCount[l]++
	}
	GenCodes(tree, len(lens)-1, &blCount)
	for i := range lens {
		require.Equal(t, BitReverse(want[i], int(lens[i])), tree[i].Code, "symbol %d", i)
	}
}

func TestWalkTree(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for iter := 0; iter < 100; iter++ {
		n := 1 + rnd.Intn(LCodes)
		tree := make([]Node, n+1)
		lens := make([]int, n)
		for i := 0; i < n; {
			run := 1 + rnd.Intn(150)
			l := rnd.Intn(16)
			if rnd.Intn(2) == 0 {
				l = 0
			}
			for ; run > 0 && i < n; run-- {
				lens[i] = l
				tree[i].Len = uint16(l)
				i++
			}
		}

		var got []int
		WalkTree(tree, n-1, func(sym, extra int) {
			switch sym {
			case Rep3To6:
				require.True(t, extra >= 0 && extra < 4)
				prev := got[len(got)-1]
				for i := 0; i < 3+extra; i++ {
					got = append(got, prev)
				}
			case RepZ3To10:
				require.True(t, extra >= 0 && extra < 8)
				got = append(got, make([]int, 3+extra)...)
			case RepZ11To138:
				require.True(t, extra >= 0 && extra < 128)
				got = append(got, make([]int, 11+extra)...)
			default:
				got = append(got, sym)
			}
		})
		require.Equal(t, lens, got)

		bl := make([]Node, 2*BLCodes+1)
		ScanTree(tree, n-1, bl)
		total := 0
		for _, nd := range bl {
			total += int(nd.Freq)
		}
		require.Greater(t, total, 0)
	}
}
