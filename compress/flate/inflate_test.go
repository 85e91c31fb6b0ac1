// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package flate

import (
	"bufio"
	"bytes"
	"compress/flate"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/intel/fastzlib/compress/zlib"
)

func compress(data []byte) []byte {
	buf := bytes.NewBuffer(nil)
	w, _ := flate.NewWriter(buf, flate.DefaultCompression)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func sampleText(t testing.TB) []byte {
	data, _ := os.ReadFile(runtime.GOROOT() + "/src/testdata/Isaac.Newton-Opticks.txt")
	if data == nil {
		data = []byte(strings.Repeat("Rays which differ in refrangibility differ also in colour. ", 2000))
	}
	return data
}

func TestReader(t *testing.T) {
	textfile := sampleText(t)
	input := compress(textfile)
	r := NewReader(bytes.NewReader(input))
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err, len(data))
	}
	if !bytes.Equal(data, textfile) {
		t.Fatal("decompressed data differs")
	}
}

func TestReaderLastBytes(t *testing.T) {
	restSizes := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	testdata := sampleText(t)
	for i := 0; i < len(restSizes); i++ {
		input := compress(testdata[:256*i])
		rdsize := restSizes[i]

		rddata := make([]byte, rdsize)
		rand.Read(rddata)
		input = append(input, rddata...)
		br := bufio.NewReader(bytes.NewReader(input))
		r := NewReader(br)
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err, len(data))
		}
		if !bytes.Equal(data, testdata[:256*i]) {
			t.Fatal("decompressed data differs", i)
		}
		rddataTest := make([]byte, rdsize)
		n, err := io.ReadFull(br, rddataTest)
		if !bytes.Equal(rddataTest, rddata) {
			t.Fatal("rest bytes wrong", err, n)
		}
	}
}

func TestWriter(t *testing.T) {
	textfile := sampleText(t)
	for _, level := range []int{HuffmanOnly, DefaultCompression, NoCompression, BestSpeed, 4, BestCompression} {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, level)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(textfile)
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(flate.NewReader(&buf))
		if err != nil {
			t.Fatal(level, err)
		}
		if !bytes.Equal(data, textfile) {
			t.Fatal("level", level, "round trip differs")
		}
	}
	if _, err := NewWriter(io.Discard, 10); !errors.Is(err, zlib.ErrStream) {
		t.Fatal("level 10 accepted", err)
	}
}

func TestWriterWindow(t *testing.T) {
	textfile := sampleText(t)
	for wbits := 9; wbits <= 15; wbits++ {
		var buf bytes.Buffer
		w, err := NewWriterWindow(&buf, BestSpeed, wbits)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(textfile)
		w.Close()
		data, err := io.ReadAll(NewReader(&buf))
		if err != nil || !bytes.Equal(data, textfile) {
			t.Fatal("window bits", wbits, err)
		}
	}
	if _, err := NewWriterWindow(io.Discard, BestSpeed, 8); err == nil {
		t.Fatal("raw window of 256 bytes accepted")
	}
}

func TestDict(t *testing.T) {
	dict := []byte("refrangibility of the rays")
	textfile := sampleText(t)[:10000]
	var buf bytes.Buffer
	w, _ := NewWriterDict(&buf, BestCompression, dict)
	w.Write(textfile)
	w.Close()

	data, err := io.ReadAll(flate.NewReaderDict(bytes.NewReader(buf.Bytes()), dict))
	if err != nil || !bytes.Equal(data, textfile) {
		t.Fatal("std reader", err)
	}
	data, err = io.ReadAll(NewReaderDict(bytes.NewReader(buf.Bytes()), dict))
	if err != nil || !bytes.Equal(data, textfile) {
		t.Fatal("reader", err)
	}
}

func TestCorrupt(t *testing.T) {
	_, err := io.ReadAll(NewReader(bytes.NewReader([]byte{0x07})))
	if !errors.Is(err, zlib.ErrData) {
		t.Fatal("block type 3 accepted", err)
	}
}

func benchmarkDecomp(decompressor io.Reader, compressed []byte) func(b *testing.B) {
	input := bytes.NewReader(compressed)
	output := bytes.NewBuffer(make([]byte, len(compressed)*5))
	output.Reset()
	input.Reset(compressed)

	return func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			decompressor.(Resetter).Reset(input, nil)
			io.Copy(output, decompressor)
			b.SetBytes(int64(output.Len()))
			output.Reset()
			input.Reset(compressed)
		}
	}
}

func BenchmarkInflate(b *testing.B) {
	b.ResetTimer()
	raw := sampleText(b)
	input := compress(raw)
	b.Log(float64(len(raw)) / float64(len(input)))
	b.Run("method=fastzlib", benchmarkDecomp(NewReader(nil), input))
	b.Run("method=flate", benchmarkDecomp(flate.NewReader(nil), input))
}
