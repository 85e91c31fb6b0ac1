// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import "github.com/intel/fastzlib/compress/zlib/internal/zstream"

// flushBlockOnly ends the current block and moves it to the pending
// buffer and as far as possible to Out.
func (d *Deflater) flushBlockOnly(last bool) {
	var buf []byte
	if d.blockStart >= 0 {
		buf = d.window[d.blockStart:d.strStart]
	}
	d.flushBlock(buf, d.strStart-d.blockStart, last)
	d.blockStart = d.strStart
	d.flushPending()
}

// flushBlockState is flushBlockOnly reporting whether the caller must
// return because Out is full.
func (d *Deflater) flushBlockState(last bool) (blockState, bool) {
	d.flushBlockOnly(last)
	if len(d.Out) == 0 {
		if last {
			return finishStarted, false
		}
		return needMore, false
	}
	return 0, true
}

// finishBlocks terminates a strategy loop that ran out of input.
func (d *Deflater) finishBlocks(flush zstream.Flush) blockState {
	if flush == zstream.Finish {
		if st, ok := d.flushBlockState(true); !ok {
			return st
		}
		return finishDone
	}
	if d.lastLit != 0 {
		if st, ok := d.flushBlockState(false); !ok {
			return st
		}
	}
	return blockDone
}

// deflateFast emits the longest match at each position without lazy
// evaluation, inserting new strings only for short matches.
func (d *Deflater) deflateFast(flush zstream.Flush) blockState {
	for {
		if d.lookahead < minLookahead {
			d.fillWindow()
			if d.lookahead < minLookahead && flush == zstream.NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}

		hashHead := nilPos
		if d.lookahead >= minMatch {
			hashHead = d.insertString(d.strStart)
		}
		if hashHead != nilPos && d.strStart-hashHead <= d.maxDist() {
			d.matchLength = d.longestMatch(hashHead)
		}

		var bflush bool
		if d.matchLength >= minMatch {
			bflush = d.tallyDist(d.strStart-d.matchStart, d.matchLength-minMatch)
			d.lookahead -= d.matchLength

			if d.matchLength <= d.maxLazyMatch && d.lookahead >= minMatch {
				d.matchLength-- // string at strStart already in table
				for {
					d.strStart++
					d.insertString(d.strStart)
					d.matchLength--
					if d.matchLength == 0 {
						break
					}
				}
				d.strStart++
			} else {
				d.strStart += d.matchLength
				d.matchLength = 0
				d.insH = int(d.window[d.strStart])
				d.updateHash(d.window[d.strStart+1])
			}
		} else {
			bflush = d.tallyLit(d.window[d.strStart])
			d.lookahead--
			d.strStart++
		}
		if bflush {
			if st, ok := d.flushBlockState(false); !ok {
				return st
			}
		}
	}
	d.insert = min(d.strStart, minMatch-1)
	return d.finishBlocks(flush)
}

// deflateSlow uses lazy evaluation: a match is emitted only if no
// better match starts at the next position.
func (d *Deflater) deflateSlow(flush zstream.Flush) blockState {
	for {
		if d.lookahead < minLookahead {
			d.fillWindow()
			if d.lookahead < minLookahead && flush == zstream.NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}

		hashHead := nilPos
		if d.lookahead >= minMatch {
			hashHead = d.insertString(d.strStart)
		}

		d.prevLength = d.matchLength
		d.prevMatch = d.matchStart
		d.matchLength = minMatch - 1

		if hashHead != nilPos && d.prevLength < d.maxLazyMatch && d.strStart-hashHead <= d.maxDist() {
			d.matchLength = d.longestMatch(hashHead)
			if d.matchLength <= 5 && (d.strategy == zstream.Filtered ||
				(d.matchLength == minMatch && d.strStart-d.matchStart > tooFar)) {
				// A distant length-3 match costs more than its
				// literals.
				d.matchLength = minMatch - 1
			}
		}

		if d.prevLength >= minMatch && d.matchLength <= d.prevLength {
			// The previous match is not beaten: emit it.
			maxInsert := d.strStart + d.lookahead - minMatch
			bflush := d.tallyDist(d.strStart-1-d.prevMatch, d.prevLength-minMatch)

			d.lookahead -= d.prevLength - 1
			d.prevLength -= 2
			for {
				d.strStart++
				if d.strStart <= maxInsert {
					d.insertString(d.strStart)
				}
				d.prevLength--
				if d.prevLength == 0 {
					break
				}
			}
			d.matchAvailable = false
			d.matchLength = minMatch - 1
			d.strStart++

			if bflush {
				if st, ok := d.flushBlockState(false); !ok {
					return st
				}
			}
		} else if d.matchAvailable {
			// No better match: emit the previous byte as a literal.
			if d.tallyLit(d.window[d.strStart-1]) {
				d.flushBlockOnly(false)
			}
			d.strStart++
			d.lookahead--
			if len(d.Out) == 0 {
				return needMore
			}
		} else {
			// Wait for the next step to decide.
			d.matchAvailable = true
			d.strStart++
			d.lookahead--
		}
	}
	if d.matchAvailable {
		d.tallyLit(d.window[d.strStart-1])
		d.matchAvailable = false
	}
	d.insert = min(d.strStart, minMatch-1)
	return d.finishBlocks(flush)
}

// deflateRLE only looks for runs of the previous byte, emitting them as
// distance-one matches.
func (d *Deflater) deflateRLE(flush zstream.Flush) blockState {
	for {
		// Make sure that there are maxMatch bytes ahead for the
		// longest run.
		if d.lookahead <= maxMatch {
			d.fillWindow()
			if d.lookahead <= maxMatch && flush == zstream.NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
		}

		d.matchLength = 0
		if d.lookahead >= minMatch && d.strStart > 0 {
			win := d.window
			s := d.strStart
			prev := win[s-1]
			if prev == win[s] && prev == win[s+1] && prev == win[s+2] {
				end := min(s+maxMatch, len(win))
				n := s + minMatch
				for n < end && win[n] == prev {
					n++
				}
				d.matchLength = min(n-s, d.lookahead)
			}
		}

		var bflush bool
		if d.matchLength >= minMatch {
			bflush = d.tallyDist(1, d.matchLength-minMatch)
			d.lookahead -= d.matchLength
			d.strStart += d.matchLength
			d.matchLength = 0
		} else {
			bflush = d.tallyLit(d.window[d.strStart])
			d.lookahead--
			d.strStart++
		}
		if bflush {
			if st, ok := d.flushBlockState(false); !ok {
				return st
			}
		}
	}
	d.insert = 0
	return d.finishBlocks(flush)
}

// deflateHuff emits literals only.
func (d *Deflater) deflateHuff(flush zstream.Flush) blockState {
	for {
		if d.lookahead == 0 {
			d.fillWindow()
			if d.lookahead == 0 {
				if flush == zstream.NoFlush {
					return needMore
				}
				break
			}
		}
		d.matchLength = 0
		bflush := d.tallyLit(d.window[d.strStart])
		d.lookahead--
		d.strStart++
		if bflush {
			if st, ok := d.flushBlockState(false); !ok {
				return st
			}
		}
	}
	d.insert = 0
	return d.finishBlocks(flush)
}
