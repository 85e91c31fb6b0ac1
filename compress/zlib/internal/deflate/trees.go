// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/huffman"
	"github.com/intel/fastzlib/compress/zlib/internal/tables"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/sirupsen/logrus"
)

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (d *Deflater) trInit() {
	d.lDesc = huffman.Desc{Tree: d.dynLTree[:], Stat: tables.StaticLDesc}
	d.dDesc = huffman.Desc{Tree: d.dynDTree[:], Stat: tables.StaticDDesc}
	d.blDesc = huffman.Desc{Tree: d.blTree[:], Stat: tables.StaticBLDesc}
	d.biBuf = 0
	d.biValid = 0
	d.initBlock()
}

func (d *Deflater) initBlock() {
	for n := 0; n < huffman.LCodes; n++ {
		d.dynLTree[n].Freq = 0
	}
	for n := 0; n < huffman.DCodes; n++ {
		d.dynDTree[n].Freq = 0
	}
	for n := 0; n < huffman.BLCodes; n++ {
		d.blTree[n].Freq = 0
	}
	d.dynLTree[huffman.EndBlock].Freq = 1
	d.bld.OptLen = 0
	d.bld.StaticLen = 0
	d.lastLit = 0
	d.matches = 0
}

// tallyLit records a literal and reports whether the block is full.
func (d *Deflater) tallyLit(c byte) bool {
	d.dBuf[d.lastLit] = 0
	d.lBuf[d.lastLit] = c
	d.lastLit++
	d.dynLTree[c].Freq++
	return d.lastLit == d.litBufsize-1
}

// tallyDist records a match of length lc+minMatch at distance dist and
// reports whether the block is full.
func (d *Deflater) tallyDist(dist, lc int) bool {
	d.dBuf[d.lastLit] = uint16(dist)
	d.lBuf[d.lastLit] = uint8(lc)
	d.lastLit++
	dist--
	d.dynLTree[int(tables.LengthCode[lc])+huffman.Literals+1].Freq++
	d.dynDTree[tables.DCode(dist)].Freq++
	return d.lastLit == d.litBufsize-1
}

// detectDataType reports Text when the block holds only printable and
// whitespace bytes, Binary otherwise.
func (d *Deflater) detectDataType() zstream.DataType {
	// Bit n set for the control bytes that mark binary data.
	blockMask := uint32(0xf3ffc07f)
	for n := 0; n <= 31; n, blockMask = n+1, blockMask>>1 {
		if blockMask&1 != 0 && d.dynLTree[n].Freq != 0 {
			return zstream.Binary
		}
	}
	if d.dynLTree[9].Freq != 0 || d.dynLTree[10].Freq != 0 || d.dynLTree[13].Freq != 0 {
		return zstream.Text
	}
	for n := 32; n < huffman.Literals; n++ {
		if d.dynLTree[n].Freq != 0 {
			return zstream.Text
		}
	}
	return zstream.Binary
}

// buildBLTree builds the bit length tree for the literal and distance
// trees and returns the index in BLOrder of the last non-zero length.
func (d *Deflater) buildBLTree() int {
	huffman.ScanTree(d.dynLTree[:], d.lDesc.MaxCode, d.blTree[:])
	huffman.ScanTree(d.dynDTree[:], d.dDesc.MaxCode, d.blTree[:])
	d.bld.Build(&d.blDesc)

	// At least 4 bit length codes are always sent.
	maxBLIndex := huffman.BLCodes - 1
	for ; maxBLIndex >= 3; maxBLIndex-- {
		if d.blTree[tables.BLOrder[maxBLIndex]].Len != 0 {
			break
		}
	}
	d.bld.OptLen += 3*(int64(maxBLIndex)+1) + 5 + 5 + 4
	return maxBLIndex
}

func (d *Deflater) sendTree(tree []huffman.Node, maxCode int) {
	huffman.WalkTree(tree, maxCode, func(sym, extra int) {
		d.sendCode(sym, d.blTree[:])
		switch sym {
		case huffman.Rep3To6:
			d.sendBits(uint64(extra), 2)
		case huffman.RepZ3To10:
			d.sendBits(uint64(extra), 3)
		case huffman.RepZ11To138:
			d.sendBits(uint64(extra), 7)
		}
	})
}

func (d *Deflater) sendAllTrees(lcodes, dcodes, blcodes int) {
	d.sendBits(uint64(lcodes-257), 5)
	d.sendBits(uint64(dcodes-1), 5)
	d.sendBits(uint64(blcodes-4), 4)
	for rank := 0; rank < blcodes; rank++ {
		d.sendBits(uint64(d.blTree[tables.BLOrder[rank]].Len), 3)
	}
	d.sendTree(d.dynLTree[:], lcodes-1)
	d.sendTree(d.dynDTree[:], dcodes-1)
}

// sendMatch emits a match of length lc+minMatch at distance dist.
func (d *Deflater) sendMatch(lc, dist int, ltree, dtree []huffman.Node) {
	code := int(tables.LengthCode[lc])
	d.sendCode(code+huffman.Literals+1, ltree)
	if extra := tables.ExtraLBits[code]; extra != 0 {
		d.sendBits(uint64(lc-tables.BaseLength[code]), extra)
	}
	dist--
	code = tables.DCode(dist)
	d.sendCode(code, dtree)
	if extra := tables.ExtraDBits[code]; extra != 0 {
		d.sendBits(uint64(dist-tables.BaseDist[code]), extra)
	}
}

// compressBlock sends the symbols of the block with the given trees.
func (d *Deflater) compressBlock(ltree, dtree []huffman.Node) {
	for lx := 0; lx < d.lastLit; lx++ {
		dist := int(d.dBuf[lx])
		lc := int(d.lBuf[lx])
		if dist == 0 {
			d.sendCode(lc, ltree)
			continue
		}
		d.sendMatch(lc, dist, ltree, dtree)
	}
	d.sendCode(huffman.EndBlock, ltree)
}

// storedBlock sends buf as a stored block.
func (d *Deflater) storedBlock(buf []byte, last bool) {
	d.sendBits(storedBlock<<1|b2u(last), 3)
	d.biWindup()
	n := uint16(len(buf))
	d.putShort(n)
	d.putShort(^n)
	d.pending = append(d.pending, buf...)
}

// align sends an empty static block so that the decoder can produce all
// the data flushed so far.
func (d *Deflater) align() {
	d.sendBits(staticTrees<<1, 3)
	d.sendCode(huffman.EndBlock, tables.StaticLTree[:])
	d.biFlush()
}

// flushBlock picks the cheapest of a stored, a static-tree or a
// dynamic-tree encoding for the current block and sends it. buf holds
// the block input, or nil when it has already slid out of the window.
func (d *Deflater) flushBlock(buf []byte, storedLen int, last bool) {
	var optLenb, staticLenb int64
	maxBLIndex := 0

	if d.level > 0 {
		if d.DataType == zstream.Unknown {
			d.DataType = d.detectDataType()
		}
		d.bld.Build(&d.lDesc)
		d.bld.Build(&d.dDesc)
		maxBLIndex = d.buildBLTree()

		optLenb = (d.bld.OptLen + 3 + 7) >> 3
		staticLenb = (d.bld.StaticLen + 3 + 7) >> 3
		if staticLenb <= optLenb || d.strategy == zstream.Fixed {
			optLenb = staticLenb
		}
	} else {
		optLenb = int64(storedLen) + 5
		staticLenb = optLenb
	}

	kind := "dynamic"
	switch {
	case int64(storedLen)+4 <= optLenb && buf != nil:
		// 4 is the stored length and its complement. The window still
		// holds the block data.
		kind = "stored"
		d.storedBlock(buf, last)
	case staticLenb == optLenb:
		kind = "static"
		d.sendBits(staticTrees<<1|b2u(last), 3)
		d.compressBlock(tables.StaticLTree[:], tables.StaticDTree[:])
	default:
		d.sendBits(dynamicTrees<<1|b2u(last), 3)
		d.sendAllTrees(d.lDesc.MaxCode+1, d.dDesc.MaxCode+1, maxBLIndex+1)
		d.compressBlock(d.dynLTree[:], d.dynDTree[:])
	}
	if d.debug {
		d.log.WithFields(logrus.Fields{
			"kind":    kind,
			"symbols": d.lastLit,
			"stored":  storedLen,
			"opt":     optLenb,
			"static":  staticLenb,
			"last":    last,
		}).Debug("block flushed")
	}
	d.initBlock()
	if last {
		d.biWindup()
	}
}
