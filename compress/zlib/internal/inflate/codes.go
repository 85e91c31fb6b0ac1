// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package inflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/tables"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
)

type codeMode int

const (
	codeStart   codeMode = iota // x: set up for len
	codeLen                     // i: get length/literal/eob next
	codeLenExt                  // i: getting length extra (have base)
	codeDist                    // i: get distance next
	codeDistExt                 // i: getting distance extra
	codeCopy                    // o: copying bytes in window, waiting for space
	codeLit                     // o: got literal, waiting for output space
	codeWash                    // o: got eob, possibly still output waiting
	codeEnd                     // x: got eob and all data flushed
	codeBad                     // x: got error
)

// codes decodes the symbols of one compressed block.
type codes struct {
	mode codeMode

	lbits, dbits int
	lt, dt       []int32
	ltree, dtree int

	// Table being walked by the current lookup.
	tab  []int32
	tree int
	need int

	len  int
	dist int
	lit  byte
	get  int // extra bits to read
}

func (c *codes) init(lbits, dbits int, lt []int32, ltree int, dt []int32, dtree int) {
	*c = codes{
		mode:  codeStart,
		lbits: lbits,
		dbits: dbits,
		lt:    lt,
		ltree: ltree,
		dt:    dt,
		dtree: dtree,
	}
}

// codes runs the symbol decoder until the end of the block, missing
// input or output space, or an error.
func (s *blocks) codes(z *zstream.Stream) zstream.Code {
	c := &s.c
	w := &s.win
	for {
		switch c.mode {
		case codeStart:
			if w.avail(w.write) >= 258 && len(z.In) >= 10 {
				switch s.fast(z) {
				case zstream.StreamEnd:
					c.mode = codeWash
					continue
				case zstream.DataError:
					c.mode = codeBad
					continue
				}
			}
			c.tab, c.tree, c.need = c.lt, c.ltree, c.lbits
			c.mode = codeLen

		case codeLen:
			i, ok := s.decode(z, c.tab, c.tree, c.need)
			if !ok {
				return zstream.OK
			}
			s.dumpBits(int(c.tab[i+1]))
			e := c.tab[i]
			switch {
			case e == opLiteral:
				c.lit = byte(c.tab[i+2])
				c.mode = codeLit
			case e&opBase != 0:
				c.get = int(e & 15)
				c.len = int(c.tab[i+2])
				c.mode = codeLenExt
			case e&opFlag == 0:
				c.need = int(e)
				c.tree = i/3 + int(c.tab[i+2])
			case e&opEnd != 0:
				c.mode = codeWash
			default:
				c.mode = codeBad
				return s.fail("invalid literal/length code")
			}

		case codeLenExt:
			if !s.needBits(z, c.get) {
				return zstream.OK
			}
			c.len += int(s.b & uint64(tables.Mask[c.get]))
			s.dumpBits(c.get)
			c.tab, c.tree, c.need = c.dt, c.dtree, c.dbits
			c.mode = codeDist

		case codeDist:
			i, ok := s.decode(z, c.tab, c.tree, c.need)
			if !ok {
				return zstream.OK
			}
			s.dumpBits(int(c.tab[i+1]))
			e := c.tab[i]
			switch {
			case e&opBase != 0:
				c.get = int(e & 15)
				c.dist = int(c.tab[i+2])
				c.mode = codeDistExt
			case e&opFlag == 0:
				c.need = int(e)
				c.tree = i/3 + int(c.tab[i+2])
			default:
				c.mode = codeBad
				return s.fail("invalid distance code")
			}

		case codeDistExt:
			if !s.needBits(z, c.get) {
				return zstream.OK
			}
			c.dist += int(s.b & uint64(tables.Mask[c.get]))
			s.dumpBits(c.get)
			if c.dist > w.have(w.write) {
				c.mode = codeBad
				return s.fail("invalid distance too far back")
			}
			c.mode = codeCopy

		case codeCopy:
			for c.len > 0 {
				if !s.room(z) {
					return zstream.OK
				}
				n := min(c.len, w.avail(w.write))
				w.write = w.copyBack(w.write, c.dist, n)
				c.len -= n
			}
			c.mode = codeStart

		case codeLit:
			if !s.room(z) {
				return zstream.OK
			}
			w.buf[w.write] = c.lit
			w.write++
			c.mode = codeStart

		case codeWash:
			w.flush(z)
			if w.read != w.write {
				return zstream.OK
			}
			c.mode = codeEnd

		case codeEnd:
			return zstream.StreamEnd

		default:
			return zstream.DataError
		}
	}
}
