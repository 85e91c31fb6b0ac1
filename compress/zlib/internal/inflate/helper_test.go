// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package inflate

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"errors"
	"io"
	"math/bits"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/intel/fastzlib/compress/zlib/internal/deflate"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	kzlib "github.com/klauspost/compress/zlib"
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
		"empty":  {},
		"one":    {'a'},
		"text":   text(150_000, 1),
		"random": random(70_000, 2),
		"zeros":  make([]byte, 200_000),
		"mixed":  append(text(40_000, 3), random(40_000, 4)...),
	}
}

func stdZlib(t testing.TB, data []byte, level int) []byte {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func stdFlate(t testing.TB, data []byte, level int) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func klauspostZlib(t testing.TB, data []byte, level int) []byte {
	var buf bytes.Buffer
	w, err := kzlib.NewWriterLevel(&buf, level)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func ourZlib(t testing.TB, data []byte, cfg deflate.Config) []byte {
	d, err := deflate.New(cfg)
	require.NoError(t, err)
	buf := make([]byte, d.Bound(len(data)))
	d.In = data
	d.Out = buf
	st, err := d.Deflate(zstream.Finish)
	require.NoError(t, err)
	require.Equal(t, zstream.StreamEnd, st)
	require.NoError(t, d.End())
	return buf[:len(buf)-len(d.Out)]
}

// inflateAll decodes data fed in inChunk pieces through an outChunk-sized
// buffer. It returns the output and the input left after the stream.
func inflateAll(f *Inflater, data, dict []byte, inChunk, outChunk int) (out, rest []byte, err error) {
	buf := make([]byte, outChunk)
	for {
		n := min(inChunk, len(data))
		f.In = data[:n]
		f.Out = buf
		st, err := f.Inflate(zstream.NoFlush)
		data = data[n-len(f.In):]
		out = append(out, buf[:len(buf)-len(f.Out)]...)
		switch {
		case errors.Is(err, zstream.ErrBuf) && len(data) == 0:
			return out, data, io.ErrUnexpectedEOF
		case err != nil:
			return out, data, err
		case st == zstream.StreamEnd:
			return out, data, nil
		case st == zstream.NeedDict:
			if dict == nil {
				return out, data, errors.New("dictionary required")
			}
			if err := f.SetDictionary(dict); err != nil {
				return out, data, err
			}
		}
	}
}

func decode(t testing.TB, windowBits int, data []byte) []byte {
	f, err := New(windowBits)
	require.NoError(t, err)
	out, rest, err := inflateAll(f, data, nil, len(data)+1, 1<<16)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.NoError(t, f.End())
	// An empty stream decodes to an empty, non-nil slice.
	return append([]byte{}, out...)
}

// decodeErr runs data through a fresh stream and returns the error.
func decodeErr(t testing.TB, windowBits int, data []byte) error {
	f, err := New(windowBits)
	require.NoError(t, err)
	_, _, err = inflateAll(f, data, nil, len(data)+1, 1<<16)
	return err
}

// bitWriter assembles hand-made deflate streams.
type bitWriter struct {
	out []byte
	b   uint64
	n   uint
}

func (w *bitWriter) bits(v uint64, n uint) *bitWriter {
	w.b |= v << w.n
	w.n += n
	for w.n >= 8 {
		w.out = append(w.out, byte(w.b))
		w.b >>= 8
		w.n -= 8
	}
	return w
}

// code writes a Huffman code, most significant bit first.
func (w *bitWriter) code(c uint64, n uint) *bitWriter {
	return w.bits(uint64(bits.Reverse16(uint16(c))>>(16-n)), n)
}

func (w *bitWriter) fixedLit(sym int) *bitWriter {
	switch {
	case sym < 144:
		return w.code(uint64(0x30+sym), 8)
	case sym < 256:
		return w.code(uint64(0x190+sym-144), 9)
	case sym < 280:
		return w.code(uint64(sym-256), 7)
	}
	return w.code(uint64(0xc0+sym-280), 8)
}

func (w *bitWriter) bytes() []byte {
	if w.n > 0 {
		w.out = append(w.out, byte(w.b))
		w.b, w.n = 0, 0
	}
	return w.out
}
