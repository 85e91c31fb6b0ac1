// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package inflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/tables"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/sirupsen/logrus"
)

type blockMode int

const (
	blockType   blockMode = iota // get type bits (3, including end bit)
	blockLens                    // get lengths for stored
	blockStored                  // processing stored block
	blockTable                   // get table lengths
	blockBTree                   // get bit lengths tree for a dynamic block
	blockDTree                   // get length, distance trees for a dynamic block
	blockCodes                   // processing fixed or dynamic block
	blockDry                     // output remaining window bytes
	blockDone                    // finished last block, done
	blockBad                     // got a data error, stuck here
)

func (m blockMode) String() string {
	return [...]string{"type", "lens", "stored", "table", "btree", "dtree",
		"codes", "dry", "done", "bad"}[m]
}

// blocks decodes a sequence of deflate blocks into the window.
type blocks struct {
	mode blockMode
	last bool

	left  int // stored bytes still to copy
	table int // HLIT, HDIST and HCLEN of a dynamic header
	index int
	blens [258 + 31 + 31]int32
	bb    int // bit length tree root bits
	tb    int // bit length tree start entry

	c     codes
	hufts []int32
	hb    huftBuilder

	// Bit accumulator; k stays below 8 between symbols.
	b uint64
	k int

	win window
	msg string

	log   *logrus.Entry
	debug bool
}

func (s *blocks) reset(z *zstream.Stream) {
	s.mode = blockType
	s.last = false
	s.b, s.k = 0, 0
	s.msg = ""
	s.win.reset()
	if s.win.check {
		z.Adler = 1
	}
}

func (s *blocks) fail(msg string) zstream.Code {
	s.mode = blockBad
	s.msg = msg
	if s.debug {
		s.log.WithField("error", msg).Debug("inflate data error")
	}
	return zstream.DataError
}

func (s *blocks) pullByte(z *zstream.Stream) bool {
	if len(z.In) == 0 {
		return false
	}
	s.b |= uint64(z.In[0]) << s.k
	s.k += 8
	z.In = z.In[1:]
	z.TotalIn++
	return true
}

func (s *blocks) needBits(z *zstream.Stream, n int) bool {
	for s.k < n {
		if !s.pullByte(z) {
			return false
		}
	}
	return true
}

func (s *blocks) dumpBits(n int) {
	s.b >>= uint(n)
	s.k -= n
}

// decode returns the index of the table entry of the next code. Bytes
// are pulled only while the entry found needs more bits than are held,
// so no input beyond the code itself is consumed.
func (s *blocks) decode(z *zstream.Stream, tab []int32, tree, need int) (int, bool) {
	for {
		i := 3 * (tree + int(s.b&uint64(tables.Mask[need])))
		if int(tab[i+1]) <= s.k {
			return i, true
		}
		if !s.pullByte(z) {
			return 0, false
		}
	}
}

// room makes window space available at write, flushing to the caller
// when the window is full. It reports false when none could be made.
func (s *blocks) room(z *zstream.Stream) bool {
	w := &s.win
	if w.avail(w.write) != 0 {
		return true
	}
	w.wrap()
	if w.avail(w.write) != 0 {
		return true
	}
	w.flush(z)
	w.wrap()
	return w.avail(w.write) != 0
}

// proc decodes as far as the input and output allow, then flushes the
// window to z.Out.
func (s *blocks) proc(z *zstream.Stream) zstream.Code {
	r := s.run(z)
	s.win.flush(z)
	return r
}

func (s *blocks) run(z *zstream.Stream) zstream.Code {
	for {
		switch s.mode {
		case blockType:
			if !s.needBits(z, 3) {
				return zstream.OK
			}
			t := s.b & 7
			s.last = t&1 != 0
			s.dumpBits(3)
			switch t >> 1 {
			case 0:
				s.dumpBits(s.k & 7) // go to byte boundary
				s.mode = blockLens
			case 1:
				f := fixedCodes()
				s.c.init(f.lb, f.db, f.hp, f.lt, f.hp, f.dt)
				s.mode = blockCodes
			case 2:
				s.mode = blockTable
			default:
				return s.fail("invalid block type")
			}
			if s.debug {
				s.log.WithFields(logrus.Fields{
					"type": t >> 1,
					"last": s.last,
				}).Debug("inflate block")
			}

		case blockLens:
			if !s.needBits(z, 32) {
				return zstream.OK
			}
			if (^s.b>>16)&0xffff != s.b&0xffff {
				return s.fail("invalid stored block lengths")
			}
			s.left = int(s.b & 0xffff)
			s.b, s.k = 0, 0
			switch {
			case s.left != 0:
				s.mode = blockStored
			case s.last:
				s.mode = blockDry
			default:
				s.mode = blockType
			}

		case blockStored:
			if len(z.In) == 0 || !s.room(z) {
				return zstream.OK
			}
			w := &s.win
			n := min(s.left, len(z.In), w.avail(w.write))
			copy(w.buf[w.write:], z.In[:n])
			w.write += n
			z.In = z.In[n:]
			z.TotalIn += int64(n)
			if s.left -= n; s.left != 0 {
				continue
			}
			if s.last {
				s.mode = blockDry
			} else {
				s.mode = blockType
			}

		case blockTable:
			if !s.needBits(z, 14) {
				return zstream.OK
			}
			t := int(s.b & 0x3fff)
			if t&0x1f > 29 || (t>>5)&0x1f > 29 {
				return s.fail("too many length or distance symbols")
			}
			s.table = t
			s.dumpBits(14)
			s.index = 0
			s.mode = blockBTree

		case blockBTree:
			for s.index < 4+s.table>>10 {
				if !s.needBits(z, 3) {
					return zstream.OK
				}
				s.blens[tables.BLOrder[s.index]] = int32(s.b & 7)
				s.dumpBits(3)
				s.index++
			}
			for ; s.index < 19; s.index++ {
				s.blens[tables.BLOrder[s.index]] = 0
			}
			hn := 0
			tb, bb, st := s.hb.build(s.blens[:19], 19, nil, nil, s.hufts, &hn, 7)
			switch st {
			case buildOversubscribed:
				return s.fail("oversubscribed dynamic bit lengths tree")
			case buildIncomplete, buildEmpty:
				return s.fail("incomplete dynamic bit lengths tree")
			}
			s.tb, s.bb = tb, bb
			s.index = 0
			s.mode = blockDTree

		case blockDTree:
			nl := 257 + s.table&0x1f
			nd := 1 + (s.table>>5)&0x1f
			for s.index < nl+nd {
				i, ok := s.decode(z, s.hufts, s.tb, s.bb)
				if !ok {
					return zstream.OK
				}
				if s.hufts[i] != opLiteral {
					return s.fail("invalid code lengths set")
				}
				t := int(s.hufts[i+1])
				c := s.hufts[i+2]
				if c < 16 {
					s.dumpBits(t)
					s.blens[s.index] = c
					s.index++
					continue
				}
				extra, rep := int(c-14), 3
				if c == 18 {
					extra, rep = 7, 11
				}
				if !s.needBits(z, t+extra) {
					return zstream.OK
				}
				s.dumpBits(t)
				rep += int(s.b & uint64(tables.Mask[extra]))
				s.dumpBits(extra)
				if s.index+rep > nl+nd || (c == 16 && s.index < 1) {
					return s.fail("invalid bit length repeat")
				}
				var v int32
				if c == 16 {
					v = s.blens[s.index-1]
				}
				for ; rep > 0; rep-- {
					s.blens[s.index] = v
					s.index++
				}
			}
			if s.blens[256] == 0 {
				return s.fail("invalid code -- missing end-of-block")
			}

			hn := 0
			tl, bl, st := s.hb.build(s.blens[:nl], 257,
				tables.CopyLens[:], tables.CopyLExt[:], s.hufts, &hn, 9)
			switch st {
			case buildOversubscribed:
				return s.fail("oversubscribed literal/length tree")
			case buildIncomplete:
				return s.fail("incomplete literal/length tree")
			case buildOverflow:
				return zstream.MemError
			}
			// An empty distance tree is valid for blocks of literals only.
			td, bd, st := s.hb.build(s.blens[nl:nl+nd], 0,
				tables.CopyDist[:], tables.CopyDExt[:], s.hufts, &hn, 6)
			switch st {
			case buildOversubscribed:
				return s.fail("oversubscribed distance tree")
			case buildIncomplete:
				return s.fail("incomplete distance tree")
			case buildOverflow:
				return zstream.MemError
			}
			s.c.init(bl, bd, s.hufts, tl, s.hufts, td)
			s.mode = blockCodes

		case blockCodes:
			if r := s.codes(z); r != zstream.StreamEnd {
				return r
			}
			if !s.last {
				s.mode = blockType
				continue
			}
			s.mode = blockDry

		case blockDry:
			s.win.flush(z)
			if s.win.read != s.win.write {
				return zstream.OK
			}
			s.mode = blockDone

		case blockDone:
			return zstream.StreamEnd

		default:
			return zstream.DataError
		}
	}
}
