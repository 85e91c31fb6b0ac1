// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package flate

import (
	"compress/flate"
	"io"

	"github.com/intel/fastzlib/compress/zlib"
)

// Compression level constants compatible with standard library
const (
	NoCompression      = flate.NoCompression      // No compression, just store
	BestSpeed          = flate.BestSpeed          // Level 1: fastest compression
	BestCompression    = flate.BestCompression    // Level 9: best compression ratio
	DefaultCompression = flate.DefaultCompression // Default compression level
	HuffmanOnly        = flate.HuffmanOnly        // Huffman-only compression
)

// Writer compresses to a raw DEFLATE stream.
type Writer = zlib.Writer

func config(level, windowBits int, dict []byte) zlib.Config {
	cfg := zlib.DefaultConfig()
	cfg.Level = level
	if level == HuffmanOnly {
		cfg.Level = DefaultCompression
		cfg.Strategy = zlib.HuffmanOnly
	}
	cfg.WindowBits = -windowBits
	cfg.Dictionary = dict
	return cfg
}

// NewWriter creates a raw DEFLATE compressor with the specified level,
// -2 (HuffmanOnly) through 9.
func NewWriter(under io.Writer, level int) (w *Writer, err error) {
	return NewWriterDict(under, level, nil)
}

// NewWriterWindow creates a compressor with a 1<<windowBits byte
// sliding window, 9..15. Smaller windows use less memory at the cost
// of compression ratio.
func NewWriterWindow(under io.Writer, level, windowBits int) (w *Writer, err error) {
	return zlib.NewWriterConfig(under, config(level, windowBits, nil))
}

// NewWriterDict creates a compressor with a preset dictionary. The
// reader must be given the same dictionary.
func NewWriterDict(under io.Writer, level int, dict []byte) (w *Writer, err error) {
	return zlib.NewWriterConfig(under, config(level, zlib.MaxWindowBits, dict))
}
