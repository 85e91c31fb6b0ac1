// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package adler32 implements the Adler-32 checksum defined in RFC 1950,
// with a checksum combinator and a multi-lane kernel selected at run time.
package adler32

import "hash"

const (
	// Size of an Adler-32 checksum in bytes.
	Size = 4

	// Base is the largest prime smaller than 65536.
	Base = 65521
	// NMax is the largest n such that 255n(n+1)/2 + (n+1)(Base-1) <= 2^32-1.
	// Deferring the modulo for NMax bytes cannot overflow 32 bits.
	NMax = 5552

	// Init is the checksum of the empty input.
	Init uint32 = 1
)

// Update returns the checksum of data appended to the input whose
// checksum is adler.
func Update(adler uint32, data []byte) uint32 {
	if words := laneWords(); words > 0 && len(data) >= 32 {
		return updateLanes(adler, data, words)
	}
	return updateScalar(adler, data)
}

// Checksum returns the Adler-32 checksum of data.
func Checksum(data []byte) uint32 {
	return Update(Init, data)
}

// Combine returns the checksum of A||B given adler1 = Adler-32(A),
// adler2 = Adler-32(B) and len2 = len(B). A negative len2 yields
// 0xffffffff.
func Combine(adler1, adler2 uint32, len2 int64) uint32 {
	if len2 < 0 {
		return 0xffffffff
	}
	rem := uint32(len2 % Base)
	sum1 := adler1 & 0xffff
	sum2 := rem * sum1 % Base
	sum1 += (adler2 & 0xffff) + Base - 1
	sum2 += (adler1 >> 16) + (adler2 >> 16) + Base - rem
	if sum1 >= Base {
		sum1 -= Base
	}
	if sum1 >= Base {
		sum1 -= Base
	}
	if sum2 >= Base<<1 {
		sum2 -= Base << 1
	}
	if sum2 >= Base {
		sum2 -= Base
	}
	return sum1 | sum2<<16
}

// digest is the running state of a hash.Hash32.
type digest uint32

// New returns a new hash.Hash32 computing the Adler-32 checksum.
func New() hash.Hash32 {
	d := new(digest)
	d.Reset()
	return d
}

func (d *digest) Reset()         { *d = digest(Init) }
func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 4 }

func (d *digest) Write(p []byte) (int, error) {
	*d = digest(Update(uint32(*d), p))
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return uint32(*d) }

func (d *digest) Sum(in []byte) []byte {
	s := uint32(*d)
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
