// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package inflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/tables"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
)

// fast decodes symbols while at least 258 bytes of window space and 10
// input bytes are available, so that no symbol needs a bounds check on
// either side. Whole bytes pulled ahead are given back on return.
func (s *blocks) fast(z *zstream.Stream) zstream.Code {
	c := &s.c
	w := &s.win
	win := w.buf
	in := z.In
	p := 0
	b, k := s.b, s.k
	q := w.write
	m := w.avail(q)
	lt, dt := c.lt, c.dt
	ml := uint64(tables.Mask[c.lbits])
	md := uint64(tables.Mask[c.dbits])

	r := zstream.OK
loop:
	for m >= 258 && len(in)-p >= 10 {
		for k < 20 {
			b |= uint64(in[p]) << k
			p++
			k += 8
		}
		tab, i := lt, 3*(c.ltree+int(b&ml))
		e := tab[i]
		for {
			b >>= uint(tab[i+1])
			k -= int(tab[i+1])
			if e == opLiteral {
				win[q] = byte(tab[i+2])
				q++
				m--
				break
			}
			if e&opBase != 0 {
				e &= 15
				n := int(tab[i+2]) + int(b&uint64(tables.Mask[e]))
				b >>= uint(e)
				k -= int(e)

				for k < 15 {
					b |= uint64(in[p]) << k
					p++
					k += 8
				}
				tab, i = dt, 3*(c.dtree+int(b&md))
				e = tab[i]
				for {
					b >>= uint(tab[i+1])
					k -= int(tab[i+1])
					if e&opBase != 0 {
						e &= 15
						for k < int(e) {
							b |= uint64(in[p]) << k
							p++
							k += 8
						}
						d := int(tab[i+2]) + int(b&uint64(tables.Mask[e]))
						b >>= uint(e)
						k -= int(e)
						if d > w.have(q) {
							r = s.fail("invalid distance too far back")
							break loop
						}
						m -= n
						q = w.copyBack(q, d, n)
						break
					}
					if e&opFlag == 0 {
						i = 3 * (i/3 + int(tab[i+2]) + int(b&uint64(tables.Mask[e])))
						e = tab[i]
						continue
					}
					r = s.fail("invalid distance code")
					break loop
				}
				break
			}
			if e&opFlag == 0 {
				i = 3 * (i/3 + int(tab[i+2]) + int(b&uint64(tables.Mask[e])))
				e = tab[i]
				continue
			}
			if e&opEnd != 0 {
				r = zstream.StreamEnd
				break loop
			}
			r = s.fail("invalid literal/length code")
			break loop
		}
	}

	// Give back the whole bytes not used.
	back := min(k>>3, p)
	p -= back
	k -= back << 3
	b &= 1<<uint(k) - 1
	z.In = in[p:]
	z.TotalIn += int64(p)
	s.b, s.k = b, k
	w.write = q
	return r
}
