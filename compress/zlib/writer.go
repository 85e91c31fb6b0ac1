// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package zlib

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

var errClosed = errors.New("zlib: write after close")

// A Writer takes data written to it and writes the compressed form of
// that data to an underlying writer.
type Writer struct {
	w   io.Writer
	cfg Config
	d   *Deflater
	buf []byte
	err error

	totalIn, totalOut int64
}

// NewWriter creates a new Writer at the default compression level.
// Writes may be buffered; call Close when done.
func NewWriter(w io.Writer) *Writer {
	z, _ := NewWriterConfig(w, DefaultConfig())
	return z
}

// NewWriterLevel is like NewWriter but specifies the compression level
// instead of assuming DefaultCompression.
func NewWriterLevel(w io.Writer, level int) (*Writer, error) {
	return NewWriterLevelDict(w, level, nil)
}

// NewWriterLevelDict is like NewWriterLevel but specifies a dictionary
// to compress with.
func NewWriterLevelDict(w io.Writer, level int, dict []byte) (*Writer, error) {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Dictionary = dict
	return NewWriterConfig(w, cfg)
}

// NewWriterConfig creates a Writer for every parameter of cfg.
func NewWriterConfig(w io.Writer, cfg Config) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := NewDeflater(cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{
		w:   w,
		cfg: cfg,
		d:   d,
		buf: make([]byte, cfg.bufferSize()),
	}, nil
}

// Reset discards the Writer's state and makes it equivalent to the
// result of its original constructor, but writing to w instead.
func (z *Writer) Reset(w io.Writer) {
	z.w = w
	z.err = nil
	z.totalIn, z.totalOut = 0, 0
	if z.d != nil {
		z.d.End()
	}
	z.d, z.err = NewDeflater(z.cfg)
}

// pump runs the engine with flush until it stops filling the whole
// buffer, writing every chunk it produces.
func (z *Writer) pump(flush Flush) (Status, error) {
	for {
		z.d.Out = z.buf
		st, err := z.d.Deflate(flush)
		n := len(z.buf) - len(z.d.Out)
		z.d.Out = nil
		if n > 0 {
			if _, werr := z.w.Write(z.buf[:n]); werr != nil {
				return st, werr
			}
		}
		if errors.Is(err, ErrBuf) {
			return OK, nil
		}
		if err != nil || st == StreamEnd {
			return st, err
		}
		if n < len(z.buf) && len(z.d.In) == 0 {
			return st, nil
		}
	}
}

// Write writes a compressed form of p to the underlying io.Writer. The
// compressed bytes are not necessarily flushed until the Writer is
// closed or explicitly flushed.
func (z *Writer) Write(p []byte) (int, error) {
	if z.err != nil {
		return 0, z.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	z.d.In = p
	_, err := z.pump(NoFlush)
	n := len(p) - len(z.d.In)
	z.d.In = nil
	if err != nil {
		z.err = err
	}
	return n, err
}

func (z *Writer) flush(mode Flush) error {
	if z.err != nil {
		return z.err
	}
	if _, err := z.pump(mode); err != nil {
		z.err = err
	}
	return z.err
}

// Flush flushes the Writer to its underlying io.Writer with a sync
// flush, ending the output on a byte boundary.
func (z *Writer) Flush() error {
	return z.flush(SyncFlush)
}

// FullFlush is like Flush but also resets the compression state, so
// that decoding can restart from this point.
func (z *Writer) FullFlush() error {
	return z.flush(FullFlush)
}

// Close finishes the stream and releases the engine. It does not close
// the underlying io.Writer.
func (z *Writer) Close() error {
	if z.err == errClosed {
		return nil
	}
	if z.err != nil {
		return z.err
	}
	st, err := z.pump(Finish)
	if err == nil && st != StreamEnd {
		err = io.ErrShortWrite
	}
	z.totalIn, z.totalOut = z.d.TotalIn, z.d.TotalOut
	if endErr := z.d.End(); err == nil {
		err = endErr
	}
	z.d = nil
	if z.cfg.Logger != nil {
		z.cfg.Logger.WithFields(logrus.Fields{
			"in":  z.totalIn,
			"out": z.totalOut,
		}).Debug("zlib writer closed")
	}
	if err != nil {
		z.err = err
		return err
	}
	z.err = errClosed
	return nil
}

// TotalIn returns the number of bytes accepted so far.
func (z *Writer) TotalIn() int64 {
	if z.d != nil {
		return z.d.TotalIn
	}
	return z.totalIn
}

// TotalOut returns the number of compressed bytes produced so far,
// including those not yet written out.
func (z *Writer) TotalOut() int64 {
	if z.d != nil {
		return z.d.TotalOut
	}
	return z.totalOut
}
