// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"encoding/binary"

	"github.com/intel/fastzlib/compress/zlib/internal/huffman"
)

// Bits are accumulated LSB first in a 64-bit word and spilled to the
// pending buffer eight bytes at a time. biValid < 64 always holds
// between calls.

func (d *Deflater) sendBits(value uint64, length int) {
	total := d.biValid + length
	if total < 64 {
		d.biBuf |= value << d.biValid
		d.biValid = total
		return
	}
	d.biBuf |= value << d.biValid
	d.pending = binary.LittleEndian.AppendUint64(d.pending, d.biBuf)
	d.biBuf = value >> (64 - d.biValid)
	d.biValid = total - 64
}

func (d *Deflater) sendCode(c int, tree []huffman.Node) {
	d.sendBits(uint64(tree[c].Code), int(tree[c].Len))
}

// biFlush moves the complete bytes of the accumulator to the pending
// buffer, keeping at most 7 bits.
func (d *Deflater) biFlush() {
	if d.biValid >= 32 {
		d.pending = binary.LittleEndian.AppendUint32(d.pending, uint32(d.biBuf))
		d.biBuf >>= 32
		d.biValid -= 32
	}
	if d.biValid >= 16 {
		d.pending = binary.LittleEndian.AppendUint16(d.pending, uint16(d.biBuf))
		d.biBuf >>= 16
		d.biValid -= 16
	}
	if d.biValid >= 8 {
		d.pending = append(d.pending, byte(d.biBuf))
		d.biBuf >>= 8
		d.biValid -= 8
	}
}

// biWindup flushes the accumulator and pads the output to a byte
// boundary.
func (d *Deflater) biWindup() {
	d.biFlush()
	if d.biValid > 0 {
		d.pending = append(d.pending, byte(d.biBuf))
	}
	d.biBuf = 0
	d.biValid = 0
}

// putShort writes a little-endian 16-bit value; the accumulator must be
// empty.
func (d *Deflater) putShort(v uint16) {
	d.pending = append(d.pending, byte(v), byte(v>>8))
}

// putShortMSB writes a big-endian 16-bit value; the accumulator must be
// empty.
func (d *Deflater) putShortMSB(v uint32) {
	d.pending = append(d.pending, byte(v>>8), byte(v))
}

func (d *Deflater) pendingLen() int {
	return len(d.pending) - d.pendingOut
}

// flushPending copies as much pending output as fits into Out.
func (d *Deflater) flushPending() {
	d.biFlush()
	n := copy(d.Out, d.pending[d.pendingOut:])
	if n == 0 {
		return
	}
	d.Out = d.Out[n:]
	d.TotalOut += int64(n)
	d.pendingOut += n
	if d.pendingOut == len(d.pending) {
		d.pending = d.pending[:0]
		d.pendingOut = 0
	}
}
