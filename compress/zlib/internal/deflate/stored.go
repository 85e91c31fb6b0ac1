// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import "github.com/intel/fastzlib/compress/zlib/internal/zstream"

// deflateStored copies input to stored blocks, directly from In to Out
// when possible and through the window otherwise. Blocks are at most
// maxStored bytes long and are not emitted smaller than the window
// unless a flush requests it. The window keeps the last wSize bytes so
// that a later Params call can switch to a compressing level; the hash
// is not maintained, matches counting the slides it owes.
func (d *Deflater) deflateStored(flush zstream.Flush) blockState {
	minBlock := d.pendingBufSize - 5
	if minBlock > d.wSize {
		minBlock = d.wSize
	}

	var length, left, have int
	last := false
	start := d.In
	used := len(d.In)
	for {
		length = maxStored
		have = (d.biValid + 42) >> 3 // number of header bytes
		if len(d.Out) < have {
			break
		}
		have = len(d.Out) - have
		left = d.strStart - d.blockStart
		if length > left+len(d.In) {
			length = left + len(d.In)
		}
		if length > have {
			length = have
		}

		// Emit a block smaller than minBlock only when flushing or at
		// the end of the input.
		if length < minBlock && ((length == 0 && flush != zstream.Finish) ||
			flush == zstream.NoFlush || length != left+len(d.In)) {
			break
		}

		last = flush == zstream.Finish && length == left+len(d.In)
		d.storedBlock(nil, last)

		// Patch the stored length in the header.
		p := d.pending[len(d.pending)-4:]
		p[0] = byte(length)
		p[1] = byte(length >> 8)
		p[2] = ^byte(length)
		p[3] = ^byte(length >> 8)

		d.flushPending()

		if left > 0 {
			if left > length {
				left = length
			}
			copy(d.Out, d.window[d.blockStart:d.blockStart+left])
			d.Out = d.Out[left:]
			d.TotalOut += int64(left)
			d.blockStart += left
			length -= left
		}
		if length > 0 {
			d.readBuf(d.Out[:length])
			d.Out = d.Out[length:]
			d.TotalOut += int64(length)
		}
		if last {
			break
		}
	}

	// Keep the last wSize bytes copied directly in the window.
	used -= len(d.In)
	if used > 0 {
		consumed := start[:used]
		if used >= d.wSize {
			d.matches = 2 // clear hash
			copy(d.window, consumed[used-d.wSize:])
			d.strStart = d.wSize
			d.insert = d.strStart
		} else {
			if d.windowSize-d.strStart <= used {
				d.strStart -= d.wSize
				copy(d.window, d.window[d.wSize:d.wSize+d.strStart])
				if d.matches < 2 {
					d.matches++ // add a pending slideHash
				}
				if d.insert > d.strStart {
					d.insert = d.strStart
				}
			}
			copy(d.window[d.strStart:], consumed)
			d.strStart += used
			d.insert += min(used, d.wSize-d.insert)
		}
		d.blockStart = d.strStart
	}
	if d.highWater < d.strStart {
		d.highWater = d.strStart
	}

	if last {
		return finishDone
	}
	if flush != zstream.NoFlush && flush != zstream.Finish && len(d.In) == 0 && d.strStart == d.blockStart {
		return blockDone
	}

	// Fill the window with what remains of the input.
	have = d.windowSize - d.strStart
	if len(d.In) > have && d.blockStart >= d.wSize {
		d.blockStart -= d.wSize
		d.strStart -= d.wSize
		copy(d.window, d.window[d.wSize:d.wSize+d.strStart])
		if d.matches < 2 {
			d.matches++
		}
		have += d.wSize
		if d.insert > d.strStart {
			d.insert = d.strStart
		}
	}
	if have > len(d.In) {
		have = len(d.In)
	}
	if have > 0 {
		d.readBuf(d.window[d.strStart : d.strStart+have])
		d.strStart += have
		d.insert += min(have, d.wSize-d.insert)
	}
	if d.highWater < d.strStart {
		d.highWater = d.strStart
	}

	// Emit a stored block from the window if it holds enough data, or
	// if flushing and all the input fits.
	have = (d.biValid + 42) >> 3
	have = min(d.pendingBufSize-have, maxStored)
	minBlock = min(have, d.wSize)
	left = d.strStart - d.blockStart
	if left >= minBlock ||
		((left > 0 || flush == zstream.Finish) && flush != zstream.NoFlush && len(d.In) == 0 && left <= have) {
		length = min(left, have)
		last = flush == zstream.Finish && len(d.In) == 0 && length == left
		d.storedBlock(d.window[d.blockStart:d.blockStart+length], last)
		d.blockStart += length
		d.flushPending()
	}
	if last {
		return finishStarted
	}
	return needMore
}
