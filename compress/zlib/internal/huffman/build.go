// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

// Builder holds the scratch space for tree construction. A Builder must
// be reused across blocks.
type Builder struct {
	heap    [HeapSize]int
	heapLen int // number of elements in the heap
	heapMax int // element of largest frequency
	depth   [HeapSize]uint8

	// BLCount is the number of codes at each bit length of the last
	// built tree.
	BLCount [MaxBits + 1]uint16

	// OptLen and StaticLen accumulate the bit length of the current
	// block with dynamic and with static trees.
	OptLen    int64
	StaticLen int64
}

// smaller compares two subtrees, using the tree depth as tie breaker
// when the subtrees have equal frequency.
func (b *Builder) smaller(tree []Node, n, m int) bool {
	return tree[n].Freq < tree[m].Freq ||
		(tree[n].Freq == tree[m].Freq && b.depth[n] <= b.depth[m])
}

// downHeap restores the heap property by moving down the tree starting
// at node k, exchanging a node with the smallest of its two sons if
// necessary.
func (b *Builder) downHeap(tree []Node, k int) {
	v := b.heap[k]
	j := k << 1
	for j <= b.heapLen {
		if j < b.heapLen && b.smaller(tree, b.heap[j+1], b.heap[j]) {
			j++
		}
		if b.smaller(tree, v, b.heap[j]) {
			break
		}
		b.heap[k] = b.heap[j]
		k = j
		j <<= 1
	}
	b.heap[k] = v
}

// Build constructs the Huffman tree of desc, sets the Len and Code of
// every leaf and updates OptLen and StaticLen. A tree always gets at
// least two codes of non-zero length so that the decoder accepts it.
func (b *Builder) Build(desc *Desc) {
	tree := desc.Tree
	stree := desc.Stat.Tree
	elems := desc.Stat.Elems
	maxCode := -1

	b.heapLen = 0
	b.heapMax = HeapSize
	for n := 0; n < elems; n++ {
		if tree[n].Freq != 0 {
			b.heapLen++
			b.heap[b.heapLen] = n
			maxCode = n
			b.depth[n] = 0
		} else {
			tree[n].Len = 0
		}
	}

	// The pkzip format requires that at least one distance code exists,
	// and that at least one bit should be sent even if there is only one
	// possible code. So to avoid special checks later on we force at least
	// two codes of non zero frequency.
	for b.heapLen < 2 {
		node := 0
		if maxCode < 2 {
			maxCode++
			node = maxCode
		}
		b.heapLen++
		b.heap[b.heapLen] = node
		tree[node].Freq = 1
		b.depth[node] = 0
		b.OptLen--
		if stree != nil {
			b.StaticLen -= int64(stree[node].Len)
		}
	}
	desc.MaxCode = maxCode

	for n := b.heapLen / 2; n >= 1; n-- {
		b.downHeap(tree, n)
	}

	// Repeatedly combine the two least frequent nodes.
	node := elems
	for {
		n := b.heap[1]
		b.heap[1] = b.heap[b.heapLen]
		b.heapLen--
		b.downHeap(tree, 1)
		m := b.heap[1]

		b.heapMax--
		b.heap[b.heapMax] = n
		b.heapMax--
		b.heap[b.heapMax] = m

		tree[node].Freq = tree[n].Freq + tree[m].Freq
		d := b.depth[n]
		if b.depth[m] > d {
			d = b.depth[m]
		}
		b.depth[node] = d + 1
		tree[n].Dad = uint16(node)
		tree[m].Dad = uint16(node)

		b.heap[1] = node
		node++
		b.downHeap(tree, 1)
		if b.heapLen < 2 {
			break
		}
	}
	b.heapMax--
	b.heap[b.heapMax] = b.heap[1]

	b.genBitLen(desc)
	GenCodes(tree, maxCode, &b.BLCount)
}

// genBitLen computes the optimal bit lengths for a tree and updates the
// total bit length of the block. When some lengths exceed the maximum,
// leaves are rebalanced so that the Kraft sum stays exactly one.
func (b *Builder) genBitLen(desc *Desc) {
	tree := desc.Tree
	maxCode := desc.MaxCode
	stree := desc.Stat.Tree
	extra := desc.Stat.ExtraBits
	base := desc.Stat.ExtraBase
	maxLength := desc.Stat.MaxLength
	overflow := 0

	for i := range b.BLCount {
		b.BLCount[i] = 0
	}

	// The root of the heap has length 0; lengths of the other nodes
	// follow from their parents in heap order.
	tree[b.heap[b.heapMax]].Len = 0

	h := b.heapMax + 1
	for ; h < HeapSize; h++ {
		n := b.heap[h]
		bits := int(tree[tree[n].Dad].Len) + 1
		if bits > maxLength {
			bits = maxLength
			overflow++
		}
		tree[n].Len = uint16(bits)
		if n > maxCode {
			continue // not a leaf node
		}
		b.BLCount[bits]++
		xbits := 0
		if n >= base && extra != nil {
			xbits = extra[n-base]
		}
		f := int64(tree[n].Freq)
		b.OptLen += f * int64(bits+xbits)
		if stree != nil {
			b.StaticLen += f * int64(int(stree[n].Len)+xbits)
		}
	}
	if overflow == 0 {
		return
	}

	// Find the first bit length which could increase.
	for overflow > 0 {
		bits := maxLength - 1
		for b.BLCount[bits] == 0 {
			bits--
		}
		b.BLCount[bits]--      // move one leaf down the tree
		b.BLCount[bits+1] += 2 // move one overflow item as its brother
		b.BLCount[maxLength]--
		// The brother of the overflow item also moves one step up,
		// but this does not affect BLCount[maxLength].
		overflow -= 2
	}

	// Recompute all bit lengths, scanning in increasing frequency.
	h = HeapSize
	for bits := maxLength; bits != 0; bits-- {
		n := int(b.BLCount[bits])
		for n != 0 {
			h--
			m := b.heap[h]
			if m > maxCode {
				continue
			}
			if int(tree[m].Len) != bits {
				b.OptLen += int64(bits-int(tree[m].Len)) * int64(tree[m].Freq)
				tree[m].Len = uint16(bits)
			}
			n--
		}
	}
}
