// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package flate reads and writes raw DEFLATE streams, as specified in
// RFC 1951, using the fastzlib engines without the zlib header and
// trailer.
package flate

import (
	"compress/flate"
	"io"

	"github.com/intel/fastzlib/compress/zlib"
)

type (
	Resetter = flate.Resetter
	// Reader decompresses a raw DEFLATE stream. Bytes following the
	// final block stay in a *bufio.Reader source.
	Reader = zlib.Reader
)

// NewReader returns a new ReadCloser decompressing r. Corrupt input is
// reported as a *zlib.Error matching zlib.ErrData.
func NewReader(r io.Reader) io.ReadCloser {
	return NewReaderDict(r, nil)
}

// NewReaderDict is like NewReader but initializes the window with dict.
func NewReaderDict(r io.Reader, dict []byte) io.ReadCloser {
	cfg := zlib.DefaultConfig()
	cfg.WindowBits = -zlib.MaxWindowBits
	cfg.Dictionary = dict
	// Raw readers accept any dictionary before their first input.
	z, _ := zlib.NewReaderConfig(r, cfg)
	return z
}
