// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"encoding/binary"
	"math/bits"

	"github.com/intel/fastzlib/internal/cpu"
)

// matchLen returns the length of the common prefix of a and b, at most
// len(a). b must be at least as long as a.
func matchLen(a, b []byte) int {
	if cpu.ArchLevel >= cpu.LevelWord {
		return matchLenWide(a, b)
	}
	return matchLenScalar(a, b)
}

func matchLenScalar(a, b []byte) int {
	b = b[:len(a)]
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return len(a)
}

// matchLenWide compares eight bytes at a time; the first differing byte
// is located by the trailing zeros of the XOR of both words.
func matchLenWide(a, b []byte) int {
	b = b[:len(a)]
	n := 0
	for len(a)-n >= 8 {
		test := binary.LittleEndian.Uint64(a[n:]) ^ binary.LittleEndian.Uint64(b[n:])
		if test != 0 {
			return n + bits.TrailingZeros64(test)>>3
		}
		n += 8
	}
	for n < len(a) && a[n] == b[n] {
		n++
	}
	return n
}

// longestMatch walks the hash chain starting at curMatch and returns the
// length of the longest match at strStart, setting matchStart. Matches
// shorter than or equal to prevLength are ignored. The chain walk is
// cut to a quarter once prevLength reaches goodMatch and stops at
// niceMatch, maxDist or maxChainLength.
func (d *Deflater) longestMatch(curMatch int) int {
	chainLength := d.maxChainLength
	win := d.window
	scan := d.strStart
	bestLen := d.prevLength
	niceMatch := d.niceMatch
	limit := nilPos
	if d.strStart > d.maxDist() {
		limit = d.strStart - d.maxDist()
	}
	wmask := d.wMask
	strend := scan + maxMatch
	scanEnd1 := win[scan+bestLen-1]
	scanEnd := win[scan+bestLen]

	if d.prevLength >= d.goodMatch {
		chainLength >>= 2
	}
	if niceMatch > d.lookahead {
		niceMatch = d.lookahead
	}

	for {
		match := curMatch
		// Skip to the next chain entry unless the bytes at the end of
		// the current best match and the first two bytes agree.
		if win[match+bestLen] == scanEnd && win[match+bestLen-1] == scanEnd1 &&
			win[match] == win[scan] && win[match+1] == win[scan+1] {
			length := 2 + matchLen(win[scan+2:strend], win[match+2:])
			if length > bestLen {
				d.matchStart = curMatch
				bestLen = length
				if length >= niceMatch {
					break
				}
				scanEnd1 = win[scan+bestLen-1]
				scanEnd = win[scan+bestLen]
			}
		}
		curMatch = int(d.prev[curMatch&wmask])
		if curMatch <= limit {
			break
		}
		chainLength--
		if chainLength == 0 {
			break
		}
	}
	if bestLen <= d.lookahead {
		return bestLen
	}
	return d.lookahead
}
