// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package inflate

import (
	"sync"

	"github.com/intel/fastzlib/compress/zlib/internal/tables"
)

// Decoding tables are flat arrays of entries, three int32 per entry:
// an operation, the number of bits the entry consumes and a value.
//
// The operation is 0 for a literal, 16|64 plus the extra bit count for a
// length or distance base, 32|64 for end of block and 64|128 for an
// invalid code. Any other value without the 64 bit links to a sub-table
// indexed by that many further bits; the value is then the offset from
// the linking entry to the sub-table.
const (
	opLiteral = 0
	opBase    = 16
	opEnd     = 32
	opFlag    = 64
	opInvalid = 128 + 64

	// Upper bound on the entries of one dynamic literal/length plus
	// distance table pair.
	many = 1440

	maxBits = 15
)

type buildStatus int

const (
	buildOK buildStatus = iota
	buildEmpty
	buildIncomplete
	buildOversubscribed
	buildOverflow
)

// huftBuilder holds the scratch space of the table construction.
type huftBuilder struct {
	c [maxBits + 1]int // code count per length
	u [maxBits]int     // table stack
	x [maxBits + 1]int // bit offsets, then code stack
	v [288]int         // values in order of bit length
}

func setEntry(hp []int32, idx int, op, bits, val int32) {
	hp[3*idx] = op
	hp[3*idx+1] = bits
	hp[3*idx+2] = val
}

// build fills hp, from entry *hn on, with the multi-level decoding table
// for the code lengths in lens. Values below simple decode to themselves;
// the others map to base[v-simple] with extra[v-simple] extra bits. root
// is the preferred number of bits of the first level; it is clamped to
// the shortest and longest code lengths, and each deeper table resolves
// at most that many further bits. It returns the entry index of the
// first-level table and its actual bit count. A table pair that would
// not fit in many entries reports buildOverflow.
func (h *huftBuilder) build(lens []int32, simple int, base, extra []int32,
	hp []int32, hn *int, root int) (start, rootBits int, status buildStatus) {
	n := len(lens)
	c := &h.c
	clear(c[:])
	for _, ln := range lens {
		c[ln]++
	}
	if c[0] == n {
		// No codes at all: every lookup hits an invalid entry.
		if *hn+2 > many {
			return 0, 0, buildOverflow
		}
		start = *hn
		setEntry(hp, start, opInvalid, 1, 0)
		setEntry(hp, start+1, opInvalid, 1, 0)
		*hn += 2
		return start, 1, buildEmpty
	}

	l := root
	j := 1
	for ; j <= maxBits; j++ {
		if c[j] != 0 {
			break
		}
	}
	k := j // shortest code
	if l < j {
		l = j
	}
	i := maxBits
	for ; i != 0; i-- {
		if c[i] != 0 {
			break
		}
	}
	g := i // longest code
	if l > i {
		l = i
	}
	rootBits = l

	// Pad the longest length with dummy codes to complete the set.
	y := 1 << j
	for ; j < i; j, y = j+1, y<<1 {
		if y -= c[j]; y < 0 {
			return 0, 0, buildOversubscribed
		}
	}
	if y -= c[i]; y < 0 {
		return 0, 0, buildOversubscribed
	}
	c[i] += y

	x := &h.x
	x[1], j = 0, 0
	p, xp := 1, 2
	for i--; i != 0; i-- {
		j += c[p]
		x[xp] = j
		xp++
		p++
	}

	v := h.v[:]
	for sym, ln := range lens {
		if ln != 0 {
			v[x[ln]] = sym
			x[ln]++
		}
	}
	n = x[g] // number of real codes

	x[0], i = 0, 0
	p = 0
	level := -1
	w := -l // bits decoded by the tables above the current one
	u := &h.u
	q, z := 0, 0

	for ; k <= g; k++ {
		for a := c[k]; a != 0; a-- {
			// i is the k-bit code for v[p]; open tables down to its level.
			for k > w+l {
				level++
				w += l
				z = min(g-w, l)
				// Every table below the root is at most l bits wide;
				// longer codes continue in a deeper table.
				j = min(k-w, z)
				if f := 1 << j; f > a {
					// Too few codes for a j-bit table: try larger ones.
					f -= a
					xp = k
					if j < z {
						for j++; j < z; j++ {
							f <<= 1
							xp++
							if f <= c[xp] {
								break
							}
							f -= c[xp]
						}
					}
				}
				z = 1 << j

				if *hn+z > many {
					return 0, 0, buildOverflow
				}
				q = *hn
				u[level] = q
				*hn += z

				if level != 0 {
					x[level] = i
					jj := i >> (w - l)
					setEntry(hp, u[level-1]+jj, int32(j), int32(l), int32(q-u[level-1]-jj))
				} else {
					start = q
				}
			}

			var op, val int32
			switch {
			case p >= n:
				op = opInvalid
			case v[p] < simple:
				if v[p] >= 256 {
					op = opEnd | opFlag
				}
				val = int32(v[p])
				p++
			default:
				op = extra[v[p]-simple] + opBase + opFlag
				val = base[v[p]-simple]
				p++
			}
			f := 1 << (k - w)
			for j = i >> w; j < z; j += f {
				setEntry(hp, q+j, op, int32(k-w), val)
			}

			// Increment the k-bit code i in bit-reversed order.
			for j = 1 << (k - 1); i&j != 0; j >>= 1 {
				i ^= j
			}
			i ^= j

			// Close the tables that are complete.
			mask := 1<<w - 1
			for i&mask != x[level] {
				level--
				w -= l
				mask = 1<<w - 1
			}
		}
	}
	if y != 0 && g != 1 {
		return start, rootBits, buildIncomplete
	}
	return start, rootBits, buildOK
}

// fixedTables are the decoding tables of the static block code.
type fixedTables struct {
	hp     []int32
	lt, dt int
	lb, db int
}

var (
	fixedOnce sync.Once
	fixed     fixedTables
)

func fixedCodes() *fixedTables {
	fixedOnce.Do(func() {
		var h huftBuilder
		hp := make([]int32, 3*many)
		hn := 0
		fixed.lt, fixed.lb, _ = h.build(tables.FixedLitLens(), 257,
			tables.CopyLens[:], tables.CopyLExt[:], hp, &hn, 9)
		dist := make([]int32, 30)
		for i := range dist {
			dist[i] = 5
		}
		// Distance codes 30 and 31 fill out the set as invalid entries.
		fixed.dt, fixed.db, _ = h.build(dist, 0,
			tables.CopyDist[:], tables.CopyDExt[:], hp, &hn, 5)
		fixed.hp = hp[:3*hn]
	})
	return &fixed
}
