// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package zstream

import (
	"math/bits"
	"sync"
)

// Buffers are pooled by power-of-two size class.
const maxClass = 24

type slicePool[T any] struct {
	classes [maxClass + 1]sync.Pool
}

func class(n int) int {
	return bits.Len(uint(n - 1))
}

func (p *slicePool[T]) get(n int) []T {
	c := class(n)
	if c > maxClass {
		return make([]T, n)
	}
	if v, ok := p.classes[c].Get().(*[]T); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]T, n, 1<<c)
}

func (p *slicePool[T]) put(s []T) {
	c := class(cap(s))
	if c > maxClass || cap(s) != 1<<c {
		return
	}
	s = s[:cap(s)]
	p.classes[c].Put(&s)
}

var (
	bytePool   slicePool[byte]
	uint16Pool slicePool[uint16]
	int32Pool  slicePool[int32]
)

// GetBytes returns a byte slice of length n with unspecified content.
func GetBytes(n int) []byte { return bytePool.get(n) }

// PutBytes returns s to the pool; s must not be used afterwards.
func PutBytes(s []byte) { bytePool.put(s) }

func GetUint16s(n int) []uint16 { return uint16Pool.get(n) }
func PutUint16s(s []uint16)     { uint16Pool.put(s) }

func GetInt32s(n int) []int32 { return int32Pool.get(n) }
func PutInt32s(s []int32)     { int32Pool.put(s) }
