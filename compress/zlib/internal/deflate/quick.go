// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/huffman"
	"github.com/intel/fastzlib/compress/zlib/internal/tables"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
)

// quickMinMatch is the shortest match emitted by the quick strategy.
const quickMinMatch = 4

func (d *Deflater) quickStartBlock(last bool) {
	d.sendBits(staticTrees<<1|b2u(last), 3)
	d.blockOpen = 1
	if last {
		d.blockOpen = 2
	}
	d.blockStart = d.strStart
}

func (d *Deflater) quickEndBlock(last bool) (blockState, bool) {
	if d.blockOpen == 0 {
		return 0, true
	}
	d.sendCode(huffman.EndBlock, tables.StaticLTree[:])
	if last {
		d.biWindup()
	}
	d.blockOpen = 0
	d.blockStart = d.strStart
	d.flushPending()
	if len(d.Out) == 0 {
		if last {
			return finishStarted, false
		}
		return needMore, false
	}
	return 0, true
}

// deflateQuick writes symbols straight to static-tree blocks, probing
// only the head of each hash chain. A block stays open across calls
// until a flush or the end of the stream closes it.
func (d *Deflater) deflateQuick(flush zstream.Flush) blockState {
	ltree, dtree := tables.StaticLTree[:], tables.StaticDTree[:]
	last := flush == zstream.Finish

	if last && d.blockOpen != 2 {
		if st, ok := d.quickEndBlock(false); !ok {
			return st
		}
		d.quickStartBlock(true)
	} else if d.blockOpen == 0 && d.lookahead > 0 {
		d.quickStartBlock(last)
	}

	for {
		if d.pendingLen()+8 >= d.pendingBufSize {
			d.flushPending()
			if len(d.Out) == 0 {
				if last && len(d.In) == 0 && d.biValid == 0 && d.blockOpen == 0 {
					return finishStarted
				}
				return needMore
			}
		}

		if d.lookahead < minLookahead {
			d.fillWindow()
			if d.lookahead < minLookahead && flush == zstream.NoFlush {
				return needMore
			}
			if d.lookahead == 0 {
				break
			}
			if d.blockOpen == 0 {
				// Open a block only once there is data so that an empty
				// call does not write an empty block.
				d.quickStartBlock(last)
			}
		}

		if d.lookahead >= quickMinMatch {
			head := d.insertString(d.strStart)
			dist := d.strStart - head
			if dist > 0 && dist <= d.maxDist() {
				win := d.window
				s := d.strStart
				if win[s] == win[head] && win[s+1] == win[head+1] {
					n := 2 + matchLen(win[s+2:s+maxMatch], win[head+2:])
					if n >= quickMinMatch {
						n = min(n, d.lookahead)
						d.sendMatch(n-minMatch, dist, ltree, dtree)
						d.lookahead -= n
						d.strStart += n
						continue
					}
				}
			}
		}
		d.sendCode(int(d.window[d.strStart]), ltree)
		d.strStart++
		d.lookahead--
	}

	d.insert = min(d.strStart, minMatch-1)
	if last {
		if st, ok := d.quickEndBlock(true); !ok {
			return st
		}
		return finishDone
	}
	if st, ok := d.quickEndBlock(false); !ok {
		return st
	}
	return blockDone
}
