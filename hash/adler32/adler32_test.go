// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package adler32

import (
	stdadler "hash/adler32"
	"math/rand"
	"testing"

	"github.com/intel/fastzlib/internal/cpu"
	"github.com/stretchr/testify/require"
)

func naive(adler uint32, p []byte) uint32 {
	s1, s2 := adler&0xffff, adler>>16
	for _, b := range p {
		s1 = (s1 + uint32(b)) % Base
		s2 = (s2 + s1) % Base
	}
	return s2<<16 | s1
}

var lengths = []int{0, 1, 2, 15, 16, 17, 31, 32, 33, 63, 64, 65, 255, 256, 1000,
	NMax - 1, NMax, NMax + 1, 2*NMax + 7, 1 << 16, 1<<17 + 3}

func TestGolden(t *testing.T) {
	require.Equal(t, uint32(1), Checksum(nil))
	require.Equal(t, uint32(0x00620062), Checksum([]byte("a")))
	require.Equal(t, uint32(0x024d0127), Checksum([]byte("abc")))
	require.Equal(t, uint32(0x11e60398), Checksum([]byte("Wikipedia")))
}

func TestKernels(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, n := range lengths {
		buf := make([]byte, n)
		rnd.Read(buf)
		ff := make([]byte, n)
		for i := range ff {
			ff[i] = 0xff
		}
		for _, data := range [][]byte{buf, ff} {
			for _, seed := range []uint32{1, 0, 0xfff0fff0, Checksum([]byte("seed"))} {
				want := naive(seed, data)
				require.Equal(t, want, updateScalar(seed, data), "scalar n=%d seed=%#x", n, seed)
				for _, words := range []int{1, 2, 4} {
					require.Equal(t, want, updateLanes(seed, data, words), "words=%d n=%d seed=%#x", words, n, seed)
				}
			}
		}
	}
}

func TestUpdateMatchesStdlib(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for _, level := range []int{cpu.LevelScalar, cpu.LevelWord, cpu.LevelVector, cpu.LevelWide} {
		restore := cpu.SetArchLevel(level)
		for _, n := range lengths {
			buf := make([]byte, n)
			rnd.Read(buf)
			require.Equal(t, stdadler.Checksum(buf), Checksum(buf), "level=%d n=%d", level, n)
		}
		restore()
	}
}

func TestLaneWords(t *testing.T) {
	for level, words := range map[int]int{
		cpu.LevelScalar: 0,
		cpu.LevelWord:   1,
		cpu.LevelVector: 2,
		cpu.LevelWide:   4,
	} {
		restore := cpu.SetArchLevel(level)
		require.Equal(t, words, laneWords(), "level=%d", level)
		restore()
	}
}

func TestSplitUpdate(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	buf := make([]byte, 3*NMax+11)
	rnd.Read(buf)
	want := Checksum(buf)
	for _, split := range []int{0, 1, 17, NMax, len(buf) - 1, len(buf)} {
		got := Update(Checksum(buf[:split]), buf[split:])
		require.Equal(t, want, got, "split=%d", split)
	}
}

func TestCombine(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for _, n1 := range []int{0, 1, 100, NMax + 5} {
		for _, n2 := range []int{0, 1, 333, Base, Base + 1, 70000} {
			a := make([]byte, n1)
			b := make([]byte, n2)
			rnd.Read(a)
			rnd.Read(b)
			whole := Checksum(append(append([]byte{}, a...), b...))
			require.Equal(t, whole, Combine(Checksum(a), Checksum(b), int64(n2)), "n1=%d n2=%d", n1, n2)
		}
	}
	require.Equal(t, uint32(0xffffffff), Combine(1, 1, -1))
}

func TestHash32(t *testing.T) {
	h := New()
	require.Equal(t, Size, h.Size())
	require.Equal(t, uint32(1), h.Sum32())
	h.Write([]byte("Wiki"))
	h.Write([]byte("pedia"))
	require.Equal(t, uint32(0x11e60398), h.Sum32())
	require.Equal(t, []byte{0x11, 0xe6, 0x03, 0x98}, h.Sum(nil))
	h.Reset()
	require.Equal(t, uint32(1), h.Sum32())
}

func BenchmarkUpdate(b *testing.B) {
	buf := make([]byte, 64<<10)
	rand.New(rand.NewSource(5)).Read(buf)
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		Update(1, buf)
	}
}
