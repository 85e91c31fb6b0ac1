// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/stretchr/testify/require"
)

func opticks(t testing.TB) (data []byte) {
	data, _ = os.ReadFile(filepath.Join(runtime.GOROOT(), "src", "testdata", "Isaac.Newton-Opticks.txt"))
	if data == nil {
		t.Skip("skip for no test data file")
	}
	return data
}

var words = strings.Fields(`the of light colours rays refraction prism which and
is are in be that this glass as by it with from these were at same more than white
experiment red violet blue green yellow image paper sun`)

// text returns n bytes of deterministic prose-like data.
func text(n int, seed int64) []byte {
	rnd := rand.New(rand.NewSource(seed))
	var b bytes.Buffer
	for b.Len() < n {
		b.WriteString(words[rnd.Intn(len(words))])
		if rnd.Intn(12) == 0 {
			b.WriteString(".\n")
		} else {
			b.WriteByte(' ')
		}
	}
	return b.Bytes()[:n]
}

func random(n int, seed int64) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func corpus() map[string][]byte {
	return map[string][]byte{
		"empty":    {},
		"one":      {'a'},
		"small":    []byte("hello, hello, hello world"),
		"text":     text(150_000, 1),
		"random":   random(70_000, 2),
		"zeros":    make([]byte, 200_000),
		"runs":     bytes.Repeat([]byte("aaaaaaaaaabbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbc"), 3000),
		"mixed":    append(text(40_000, 3), random(40_000, 4)...),
		"window":   text(1<<15, 5),
		"window+1": text(1<<15+1, 6),
	}
}

// deflateAll feeds data in inChunk pieces with an outChunk-sized output
// buffer and finishes the stream.
func deflateAll(t testing.TB, d *Deflater, data []byte, inChunk, outChunk int) []byte {
	var out []byte
	buf := make([]byte, outChunk)
	for len(data) > 0 {
		n := min(inChunk, len(data))
		d.In = data[:n]
		data = data[n:]
		for {
			d.Out = buf
			_, err := d.Deflate(zstream.NoFlush)
			require.NoError(t, err)
			out = append(out, buf[:len(buf)-len(d.Out)]...)
			if len(d.In) == 0 && len(d.Out) != 0 {
				break
			}
		}
	}
	for {
		d.Out = buf
		st, err := d.Deflate(zstream.Finish)
		require.NoError(t, err)
		out = append(out, buf[:len(buf)-len(d.Out)]...)
		if st == zstream.StreamEnd {
			return out
		}
	}
}

func compress(t testing.TB, cfg Config, data []byte) []byte {
	d, err := New(cfg)
	require.NoError(t, err)
	out := deflateAll(t, d, data, len(data)+1, 1<<16)
	require.NoError(t, d.End())
	return out
}

func unzlib(t testing.TB, data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func unflate(t testing.TB, data []byte) []byte {
	out, err := io.ReadAll(flate.NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	return out
}
