// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package deflate implements the zlib compression engine: a push-style
// state machine producing RFC 1950 or raw RFC 1951 streams that are
// bit-identical to the reference implementation for the same
// parameters and call sequence.
package deflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/huffman"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/intel/fastzlib/hash/adler32"
	"github.com/sirupsen/logrus"
)

const (
	minMatch     = zstream.MinMatch
	maxMatch     = zstream.MaxMatch
	minLookahead = maxMatch + minMatch + 1
	// Bytes past the current data that are zero-initialized so that the
	// match finder never reads uninitialized memory.
	winInit = maxMatch
	// Matches of length 3 are discarded if their distance exceeds tooFar.
	tooFar    = 4096
	maxStored = zstream.MaxStoredLen
	nilPos    = 0

	// Block types.
	storedBlock  = 0
	staticTrees  = 1
	dynamicTrees = 2
)

type state int

const (
	initState state = iota
	busyState
	finishState
)

type blockState int

const (
	needMore      blockState = iota // block not completed, need more input or more output
	blockDone                       // block flush performed
	finishStarted                   // finish started, need only more output at next deflate
	finishDone                      // finish done, accept no more input or output
)

// Last flush markers besides the zstream.Flush values.
const (
	flushOutputFull = -1 // the previous call filled the output
	flushNone       = -2 // no deflate call since the last reset
)

// Deflater is a zlib compression stream. Callers set In and Out and call
// Deflate until the requested flush is complete.
type Deflater struct {
	zstream.Stream

	status    state
	wrap      int // 1 zlib, 0 raw, -1 zlib trailer written
	lastFlush int

	pending        []byte // output not yet copied to Out, from pendingOut on
	pendingOut     int
	pendingBufSize int

	wSize, wBits, wMask int
	// window holds 2*wSize bytes: the current data is read in the upper
	// half and slid down once strStart reaches wSize+maxDist.
	window     []byte
	windowSize int
	highWater  int // window bytes known to be initialized
	// prev links the positions sharing a hash value; head holds the
	// most recent position of each chain. Zero means no position.
	prev []uint16
	head []uint16

	insH      int
	hashBits  int
	hashSize  int
	hashMask  int
	hashShift int

	blockStart     int // start of the current block, negative after a slide
	matchLength    int
	prevMatch      int
	matchAvailable bool
	strStart       int
	matchStart     int
	lookahead      int
	prevLength     int
	insert         int // bytes at the end of the window not yet hashed
	matches        int // pending hash slides of the stored strategy
	blockOpen      int // quick strategy: 0 closed, 1 open, 2 last block open

	maxChainLength int
	maxLazyMatch   int
	goodMatch      int
	niceMatch      int
	level          int
	strategy       zstream.Strategy
	memLevel       int

	dynLTree [huffman.HeapSize]huffman.Node
	dynDTree [2*huffman.DCodes + 1]huffman.Node
	blTree   [2*huffman.BLCodes + 1]huffman.Node
	lDesc    huffman.Desc
	dDesc    huffman.Desc
	blDesc   huffman.Desc
	bld      huffman.Builder

	// Symbols of the current block: a zero distance marks a literal.
	lBuf       []byte
	dBuf       []uint16
	litBufsize int
	lastLit    int

	biBuf   uint64
	biValid int

	log   *logrus.Entry
	debug bool
}

// New returns a Deflater ready for its first Deflate call.
func New(cfg Config) (*Deflater, error) {
	level, wbits, wrap, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	d := &Deflater{
		wrap:     wrap,
		wBits:    wbits,
		wSize:    1 << wbits,
		hashBits: cfg.MemLevel + 7,
		level:    level,
		strategy: cfg.Strategy,
		memLevel: cfg.MemLevel,
		log:      cfg.Logger,
	}
	if d.log == nil {
		d.log = zstream.NopLogger()
	}
	d.debug = zstream.Debugging(d.log)
	d.wMask = d.wSize - 1
	d.hashSize = 1 << d.hashBits
	d.hashMask = d.hashSize - 1
	d.hashShift = (d.hashBits + minMatch - 1) / minMatch

	d.window = zstream.GetBytes(2 * d.wSize)
	d.prev = zstream.GetUint16s(d.wSize)
	d.head = zstream.GetUint16s(d.hashSize)
	d.highWater = 0

	d.litBufsize = 1 << (cfg.MemLevel + 6)
	d.pendingBufSize = d.litBufsize * 4
	d.pending = zstream.GetBytes(d.pendingBufSize)[:0]
	d.lBuf = zstream.GetBytes(d.litBufsize)
	d.dBuf = zstream.GetUint16s(d.litBufsize)

	if d.debug {
		d.log.WithFields(logrus.Fields{
			"level":    level,
			"wbits":    wbits,
			"memLevel": cfg.MemLevel,
			"strategy": cfg.Strategy,
			"raw":      wrap == 0,
		}).Debug("deflate stream created")
	}
	return d, d.Reset()
}

func (d *Deflater) maxDist() int {
	return d.wSize - minLookahead
}

func (d *Deflater) ended() bool {
	return d.window == nil
}

// Reset discards all state and restarts the stream with the same
// parameters, keeping the buffers.
func (d *Deflater) Reset() error {
	if d.ended() {
		return zstream.ErrStream
	}
	d.TotalIn, d.TotalOut = 0, 0
	d.Msg = ""
	d.DataType = zstream.Unknown
	d.pending = d.pending[:0]
	d.pendingOut = 0
	if d.wrap < 0 {
		d.wrap = -d.wrap // was made negative by Deflate(Finish)
	}
	d.status = initState
	d.Adler = adler32.Init
	d.lastFlush = flushNone
	d.trInit()
	d.lmInit()
	return nil
}

func (d *Deflater) lmInit() {
	d.windowSize = 2 * d.wSize
	d.clearHash()
	d.setConfig(d.level)
	d.strStart = 0
	d.blockStart = 0
	d.lookahead = 0
	d.insert = 0
	d.matchLength = minMatch - 1
	d.prevLength = minMatch - 1
	d.matchAvailable = false
	d.insH = 0
	d.blockOpen = 0
}

func (d *Deflater) setConfig(level int) {
	c := &configTable[level]
	d.maxLazyMatch = c.maxLazy
	d.goodMatch = c.goodLength
	d.niceMatch = c.niceLength
	d.maxChainLength = c.maxChain
}

// Deflate compresses as much input as possible and stops when the input
// is exhausted or the output is full. flush requests that pending output
// be emitted up to a block boundary (PartialFlush, SyncFlush,
// FullFlush, Block) or that the stream be completed (Finish).
func (d *Deflater) Deflate(flush zstream.Flush) (zstream.Status, error) {
	return d.Result(d.deflate(flush), "")
}

func (d *Deflater) deflate(flush zstream.Flush) zstream.Code {
	if d.ended() || flush > zstream.Block || flush < zstream.NoFlush {
		return zstream.StreamError
	}
	if d.status == finishState && flush != zstream.Finish {
		return zstream.StreamError
	}
	if len(d.Out) == 0 {
		return zstream.BufError
	}

	oldFlush := d.lastFlush
	d.lastFlush = int(flush)

	if d.pendingLen() != 0 {
		d.flushPending()
		if len(d.Out) == 0 {
			// Since Out is full, the caller will call again with more
			// room; make sure that call is not rejected as a repeat.
			d.lastFlush = flushOutputFull
			return zstream.OK
		}
	} else if len(d.In) == 0 && flush.Rank() <= zstream.Flush(oldFlush).Rank() && flush != zstream.Finish {
		// Repeated flushes without new input cannot make progress.
		return zstream.BufError
	}
	if d.status == finishState && len(d.In) != 0 {
		return zstream.BufError
	}

	if d.status == initState && d.wrap == 0 {
		d.status = busyState
	}
	if d.status == initState {
		d.writeHeader()
		d.status = busyState
		d.flushPending()
		if d.pendingLen() != 0 {
			d.lastFlush = flushOutputFull
			return zstream.OK
		}
	}

	if len(d.In) != 0 || d.lookahead != 0 || (flush != zstream.NoFlush && d.status != finishState) {
		bstate := d.compress(flush)
		if bstate == finishStarted || bstate == finishDone {
			d.status = finishState
		}
		if bstate == needMore || bstate == finishStarted {
			if len(d.Out) == 0 {
				d.lastFlush = flushOutputFull
			}
			return zstream.OK
		}
		if bstate == blockDone {
			switch flush {
			case zstream.PartialFlush:
				d.align()
			case zstream.Block:
			default:
				// Sync and full flushes end with an empty stored block.
				d.storedBlock(nil, false)
				if flush == zstream.FullFlush {
					d.clearHash()
					if d.lookahead == 0 {
						d.strStart = 0
						d.blockStart = 0
						d.insert = 0
					}
				}
			}
			d.flushPending()
			if len(d.Out) == 0 {
				d.lastFlush = flushOutputFull
				return zstream.OK
			}
		}
	}

	if flush != zstream.Finish {
		return zstream.OK
	}
	if d.wrap <= 0 {
		return zstream.StreamEnd
	}
	d.putShortMSB(d.Adler >> 16)
	d.putShortMSB(d.Adler & 0xffff)
	d.flushPending()
	d.wrap = -d.wrap // write the trailer only once
	if d.pendingLen() != 0 {
		return zstream.OK
	}
	return zstream.StreamEnd
}

func (d *Deflater) writeHeader() {
	header := uint32(zstream.Deflated+((d.wBits-8)<<4)) << 8
	var levelFlags uint32
	switch {
	case d.strategy >= zstream.HuffmanOnly || d.level < 2:
		levelFlags = 0
	case d.level < 6:
		levelFlags = 1
	case d.level == 6:
		levelFlags = 2
	default:
		levelFlags = 3
	}
	header |= levelFlags << 6
	if d.strStart != 0 {
		header |= zstream.PresetDict
	}
	header += 31 - header%31
	d.putShortMSB(header)
	if d.strStart != 0 {
		d.putShortMSB(d.Adler >> 16)
		d.putShortMSB(d.Adler & 0xffff)
	}
	d.Adler = adler32.Init
}

func (d *Deflater) compress(flush zstream.Flush) blockState {
	switch {
	case d.level == 0:
		return d.deflateStored(flush)
	case d.strategy == zstream.HuffmanOnly:
		return d.deflateHuff(flush)
	case d.strategy == zstream.RLE:
		return d.deflateRLE(flush)
	case d.strategy == zstream.Quick:
		return d.deflateQuick(flush)
	case configTable[d.level].fn == funcFast:
		return d.deflateFast(flush)
	}
	return d.deflateSlow(flush)
}

// SetDictionary primes the window with dict. For zlib streams it must be
// called before the first Deflate; the dictionary identifier is then
// written in the header and left in Adler.
func (d *Deflater) SetDictionary(dict []byte) error {
	if d.ended() {
		return zstream.ErrStream
	}
	wrap := d.wrap
	if (wrap == 1 && d.status != initState) || wrap < 0 || d.lookahead != 0 {
		_, err := d.Result(zstream.StreamError, "dictionary must be set before compressing")
		return err
	}
	if wrap == 1 {
		d.Adler = adler32.Update(d.Adler, dict)
	}
	d.wrap = 0 // avoid computing Adler-32 in readBuf

	if len(dict) >= d.wSize {
		if wrap == 0 {
			d.clearHash()
			d.strStart = 0
			d.blockStart = 0
			d.insert = 0
		}
		dict = dict[len(dict)-d.wSize:] // use the tail
	}

	in, totalIn := d.In, d.TotalIn
	d.In = dict
	d.fillWindow()
	for d.lookahead >= minMatch {
		str := d.strStart
		for n := d.lookahead - (minMatch - 1); n > 0; n-- {
			d.updateHash(d.window[str+minMatch-1])
			d.prev[str&d.wMask] = d.head[d.insH]
			d.head[d.insH] = uint16(str)
			str++
		}
		d.strStart = str
		d.lookahead = minMatch - 1
		d.fillWindow()
	}
	d.strStart += d.lookahead
	d.blockStart = d.strStart
	d.insert = d.lookahead
	d.lookahead = 0
	d.matchLength = minMatch - 1
	d.prevLength = minMatch - 1
	d.matchAvailable = false
	d.In, d.TotalIn = in, totalIn
	d.wrap = wrap
	return nil
}

// Params changes the level and strategy. When the compression function
// changes, the data compressed so far is flushed with a Block flush
// first; BufError is returned if that could not complete.
func (d *Deflater) Params(level int, strategy zstream.Strategy) error {
	if d.ended() {
		return zstream.ErrStream
	}
	if level == zstream.DefaultCompression {
		level = 6
	}
	if level < 0 || level > 9 || strategy < zstream.DefaultStrategy || strategy > zstream.Quick {
		return invalid("invalid parameters level=%d strategy=%d", level, strategy)
	}
	if (strategy != d.strategy || configTable[d.level].fn != configTable[level].fn) && d.lastFlush != flushNone {
		if d.deflate(zstream.Block) == zstream.StreamError {
			return zstream.ErrStream
		}
		if len(d.In) != 0 || d.strStart-d.blockStart+d.lookahead != 0 {
			return zstream.ErrBuf
		}
	}
	if d.level != level {
		if d.level == 0 && d.matches != 0 {
			if d.matches == 1 {
				d.slideHash()
			} else {
				d.clearHash()
			}
			d.matches = 0
		}
		d.level = level
		d.setConfig(level)
	}
	d.strategy = strategy
	return nil
}

// Tune overrides the match finder parameters of the current level.
func (d *Deflater) Tune(goodLength, maxLazy, niceLength, maxChain int) error {
	if d.ended() {
		return zstream.ErrStream
	}
	d.goodMatch = goodLength
	d.maxLazyMatch = maxLazy
	d.niceMatch = niceLength
	d.maxChainLength = maxChain
	return nil
}

// Bound returns an upper bound on the compressed size of sourceLen
// bytes compressed in a single Deflate(Finish) call.
func (d *Deflater) Bound(sourceLen int) int {
	complen := sourceLen + (sourceLen+7)>>3 + (sourceLen+63)>>6 + 5
	if d == nil || d.ended() {
		return complen + 6
	}
	wraplen := 6
	switch d.wrap {
	case 0:
		wraplen = 0
	case 1:
		if d.strStart != 0 {
			wraplen += 4
		}
	}
	if d.wBits != zstream.MaxWBits || d.hashBits != 8+7 || d.strategy == zstream.Quick {
		return complen + wraplen
	}
	return sourceLen + sourceLen>>12 + sourceLen>>14 + sourceLen>>25 + 13 - 6 + wraplen
}

// Prime inserts the low bits of value into the output before the next
// block.
func (d *Deflater) Prime(bits int, value int) error {
	if d.ended() {
		return zstream.ErrStream
	}
	if bits < 0 || bits > 16 {
		return zstream.ErrBuf
	}
	d.sendBits(uint64(value)&(1<<bits-1), bits)
	return nil
}

// Pending returns the output bytes and bits produced but not yet copied
// to Out.
func (d *Deflater) Pending() (bytes int, bits int) {
	if d.ended() {
		return 0, 0
	}
	return d.pendingLen() + d.biValid>>3, d.biValid & 7
}

// End releases the buffers. It reports a data error when the stream was
// abandoned before Finish completed.
func (d *Deflater) End() error {
	if d.ended() {
		return zstream.ErrStream
	}
	status := d.status
	zstream.PutBytes(d.window)
	zstream.PutUint16s(d.prev)
	zstream.PutUint16s(d.head)
	zstream.PutBytes(d.pending[:cap(d.pending)])
	zstream.PutBytes(d.lBuf)
	zstream.PutUint16s(d.dBuf)
	d.window, d.prev, d.head, d.pending, d.lBuf, d.dBuf = nil, nil, nil, nil, nil, nil
	if status == busyState {
		_, err := d.Result(zstream.DataError, "stream ended prematurely")
		return err
	}
	return nil
}
