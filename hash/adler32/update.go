// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package adler32

import (
	"encoding/binary"

	"github.com/intel/fastzlib/internal/cpu"
)

// updateScalar is the reference byte-at-a-time kernel.
func updateScalar(adler uint32, p []byte) uint32 {
	s1, s2 := adler&0xffff, adler>>16
	for len(p) > 0 {
		n := len(p)
		if n > NMax {
			n = NMax
		}
		for _, b := range p[:n] {
			s1 += uint32(b)
			s2 += s1
		}
		s1 %= Base
		s2 %= Base
		p = p[n:]
	}
	return s2<<16 | s1
}

// laneWords returns the number of 8-byte words folded per step by the
// lane kernel at the current architecture level, or 0 for the scalar
// kernel.
func laneWords() int {
	switch {
	case cpu.ArchLevel >= cpu.LevelWide:
		return 4
	case cpu.ArchLevel >= cpu.LevelVector:
		return 2
	case cpu.ArchLevel >= cpu.LevelWord:
		return 1
	}
	return 0
}

// updateLanes folds n = 8*words bytes per step. For a block b[0..n-1]
// starting with sums (s1, s2):
//
//	s2' = s2 + n*s1 + sum((n-i)*b[i])
//	s1' = s1 + sum(b[i])
//
// Each word is loaded little-endian, producing the same result as
// updateScalar. Chunks between modulo reductions are the largest
// multiple of n not above NMax.
func updateLanes(adler uint32, p []byte, words int) uint32 {
	block := 8 * words
	limit := NMax - NMax%block
	s1, s2 := adler&0xffff, adler>>16
	for len(p) >= block {
		n := min(len(p)-len(p)%block, limit)
		chunk := p[:n]
		for len(chunk) >= block {
			s2 += s1 * uint32(block)
			for k := 0; k < words; k++ {
				sum, weighted := foldWord(binary.LittleEndian.Uint64(chunk[8*k:]), uint32(block-8*k))
				s1 += sum
				s2 += weighted
			}
			chunk = chunk[block:]
		}
		s1 %= Base
		s2 %= Base
		p = p[n:]
	}
	if len(p) > 0 {
		return updateScalar(s2<<16|s1, p)
	}
	return s2<<16 | s1
}

// foldWord returns the plain and the weighted byte sums of the eight
// bytes packed in w, where the first byte has weight top and each
// following byte one less.
func foldWord(w uint64, top uint32) (sum, weighted uint32) {
	for i := uint32(0); i < 8; i++ {
		b := uint32(w & 0xff)
		sum += b
		weighted += (top - i) * b
		w >>= 8
	}
	return sum, weighted
}
