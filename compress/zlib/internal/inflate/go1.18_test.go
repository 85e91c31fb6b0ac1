// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

//go:build go1.18
// +build go1.18

package inflate

import (
	"bytes"
	"testing"
)

func FuzzInflate(f *testing.F) {
	f.Add(text(5000, 1), uint8(6))
	f.Add([]byte("hello, hello, hello"), uint8(1))
	f.Add(bytes.Repeat([]byte{0xff}, 300), uint8(9))
	f.Fuzz(func(t *testing.T, source []byte, level uint8) {
		input := stdZlib(t, source, int(level%10))
		data := decode(t, 15, input)
		if !bytes.Equal(data, source) {
			t.Fatal("round trip mismatch")
		}
	})
}

func FuzzInflateCorrupt(f *testing.F) {
	f.Add(stdZlib(f, text(2000, 2), 6), uint16(7))
	f.Add(stdFlate(f, text(2000, 3), 1), uint16(1))
	f.Fuzz(func(t *testing.T, input []byte, chunk uint16) {
		for _, wbits := range []int{15, -15, 9} {
			g, err := New(wbits)
			if err != nil {
				t.Fatal(err)
			}
			// Any input must end in output, an error or a request for more.
			inflateAll(g, input, nil, int(chunk%64)+1, int(chunk%300)+1)
			g.End()
		}
	})
}
