// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import "sort"

// moffatLens computes unrestricted minimum-redundancy code lengths with
// the in-place algorithm of Moffat and Katajainen. It serves as an
// independent optimality oracle for Builder.
// Check http://hjemmesider.diku.dk/~jyrki/Paper/WADS95.pdf .
func moffatLens(freqs []int) []int {
	type litCount struct {
		lit   int
		count int
	}
	counts := make([]litCount, 0, len(freqs))
	for i, v := range freqs {
		if v != 0 {
			counts = append(counts, litCount{lit: i, count: v})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
	w := make([]int, len(counts))
	for i, v := range counts {
		w[i] = v.count
	}

	lens := make([]int, len(freqs))
	n := len(w)
	switch n {
	case 0:
		return lens
	case 1:
		lens[counts[0].lit] = 1
		return lens
	}

	// phase 1
	leaf := n - 1
	root := n - 1
	for next := n - 1; next >= 1; next-- {
		if leaf < 0 || (root > next && w[root] < w[leaf]) {
			w[next] = w[root]
			w[root] = next
			root--
		} else {
			w[next] = w[leaf]
			leaf--
		}
		if leaf < 0 || (root > next && w[root] < w[leaf]) {
			w[next] += w[root]
			w[root] = next
			root--
		} else {
			w[next] += w[leaf]
			leaf--
		}
	}
	// phase 2
	w[1] = 0
	for next := 2; next <= n-1; next++ {
		w[next] = w[w[next]] + 1
	}
	// phase 3
	avail, used, depth := 1, 0, 0
	root = 1
	next := 0
	for avail > 0 {
		for ; root < n && w[root] == depth; root++ {
			used++
		}
		for ; avail > used; avail-- {
			w[next] = depth
			next++
		}
		avail = 2 * used
		depth++
		used = 0
	}
	for i, v := range w {
		lens[counts[i].lit] = v
	}
	return lens
}
