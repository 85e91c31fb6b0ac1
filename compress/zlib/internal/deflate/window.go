// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"github.com/intel/fastzlib/hash/adler32"
	"github.com/sirupsen/logrus"
)

// readBuf moves input into dst, updating the checksum and the input
// counters.
func (d *Deflater) readBuf(dst []byte) int {
	n := copy(dst, d.In)
	if n == 0 {
		return 0
	}
	if d.wrap == 1 {
		d.Adler = adler32.Update(d.Adler, dst[:n])
	}
	d.In = d.In[n:]
	d.TotalIn += int64(n)
	return n
}

func (d *Deflater) updateHash(c byte) {
	d.insH = ((d.insH << d.hashShift) ^ int(c)) & d.hashMask
}

// insertString inserts the string starting at str in the dictionary and
// returns the previous head of its hash chain. The last minMatch-1
// bytes of the input are never hashed.
func (d *Deflater) insertString(str int) int {
	d.updateHash(d.window[str+minMatch-1])
	h := d.head[d.insH]
	d.prev[str&d.wMask] = h
	d.head[d.insH] = uint16(str)
	return int(h)
}

func (d *Deflater) clearHash() {
	for i := range d.head {
		d.head[i] = nilPos
	}
}

// slideHash moves every chain position down by wSize, dropping the
// positions that fall out of the window.
func (d *Deflater) slideHash() {
	wsize := uint16(d.wSize)
	for i, m := range d.head {
		if m >= wsize {
			d.head[i] = m - wsize
		} else {
			d.head[i] = nilPos
		}
	}
	for i, m := range d.prev {
		if m >= wsize {
			d.prev[i] = m - wsize
		} else {
			d.prev[i] = nilPos
		}
	}
}

// fillWindow reads new input when the lookahead is short, sliding the
// window down first when strStart is too close to its end. On return
// lookahead >= minLookahead unless the input is exhausted.
func (d *Deflater) fillWindow() {
	wsize := d.wSize
	for {
		more := d.windowSize - d.lookahead - d.strStart

		if d.strStart >= wsize+d.maxDist() {
			copy(d.window, d.window[wsize:wsize+wsize-more])
			d.matchStart -= wsize
			d.strStart -= wsize
			d.blockStart -= wsize
			if d.insert > d.strStart {
				d.insert = d.strStart
			}
			d.slideHash()
			more += wsize
			if d.debug {
				d.log.WithFields(logrus.Fields{"in": d.TotalIn, "strstart": d.strStart}).Debug("window slid")
			}
		}
		if len(d.In) == 0 {
			break
		}

		pos := d.strStart + d.lookahead
		d.lookahead += d.readBuf(d.window[pos : pos+more])

		// Hash the bytes left over from the previous call.
		if d.lookahead+d.insert >= minMatch {
			str := d.strStart - d.insert
			d.insH = int(d.window[str])
			d.updateHash(d.window[str+1])
			for d.insert > 0 {
				d.updateHash(d.window[str+minMatch-1])
				d.prev[str&d.wMask] = d.head[d.insH]
				d.head[d.insH] = uint16(str)
				str++
				d.insert--
				if d.lookahead+d.insert < minMatch {
					break
				}
			}
		}
		if d.lookahead >= minLookahead || len(d.In) == 0 {
			break
		}
	}

	// Zero the bytes after the current data so that the match finder
	// reads deterministic content.
	if d.highWater < d.windowSize {
		curr := d.strStart + d.lookahead
		if d.highWater < curr {
			init := d.windowSize - curr
			if init > winInit {
				init = winInit
			}
			clear(d.window[curr : curr+init])
			d.highWater = curr + init
		} else if d.highWater < curr+winInit {
			init := curr + winInit - d.highWater
			if init > d.windowSize-d.highWater {
				init = d.windowSize - d.highWater
			}
			clear(d.window[d.highWater : d.highWater+init])
			d.highWater += init
		}
	}
}
