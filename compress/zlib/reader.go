// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package zlib

import (
	"bufio"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Reader decompresses a zlib stream read from an underlying reader. It
// never consumes bytes past the end of the stream from a *bufio.Reader
// passed as the source, so that data following the stream stays
// available to the caller.
type Reader struct {
	r    io.Reader
	rBuf *bufio.Reader
	f    *Inflater
	cfg  Config
	err  error

	totalIn, totalOut int64
}

var _ Resetter = (*Reader)(nil)

var errReaderClosed = errors.New("zlib: reader closed")

// NewReader creates a new Reader reading the given reader. Header
// errors are reported by the first Read.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderDict(r, nil)
}

// NewReaderDict is like NewReader but uses a preset dictionary when
// the stream asks for one.
func NewReaderDict(r io.Reader, dict []byte) (*Reader, error) {
	cfg := DefaultConfig()
	cfg.Dictionary = dict
	return NewReaderConfig(r, cfg)
}

// NewReaderConfig creates a Reader using the window bits, dictionary,
// buffer size and logger of cfg.
func NewReaderConfig(r io.Reader, cfg Config) (*Reader, error) {
	f, err := NewInflater(cfg.WindowBits, cfg.Logger)
	if err != nil {
		return nil, err
	}
	z := &Reader{f: f, cfg: cfg}
	z.setSource(r)
	if !z.raw() {
		return z, nil
	}
	if cfg.Dictionary != nil {
		if err := z.f.SetDictionary(cfg.Dictionary); err != nil {
			z.f.End()
			return nil, err
		}
	}
	return z, nil
}

func (z *Reader) raw() bool {
	return z.cfg.WindowBits < 0
}

func (z *Reader) setSource(r io.Reader) {
	z.r = r
	if br, ok := r.(*bufio.Reader); ok {
		z.rBuf = br
		return
	}
	if z.rBuf != nil && z.rBuf.Size() == z.cfg.bufferSize() {
		z.rBuf.Reset(r)
		return
	}
	z.rBuf = bufio.NewReaderSize(r, z.cfg.bufferSize())
}

// Reset discards the Reader's state and makes it equivalent to the
// result of NewReaderDict(r, dict).
func (z *Reader) Reset(r io.Reader, dict []byte) error {
	z.cfg.Dictionary = dict
	z.err = nil
	z.totalIn, z.totalOut = 0, 0
	z.setSource(r)
	if z.f == nil {
		f, err := NewInflater(z.cfg.WindowBits, z.cfg.Logger)
		if err != nil {
			z.err = err
			return err
		}
		z.f = f
	} else if err := z.f.Reset(); err != nil {
		z.err = err
		return err
	}
	if z.raw() && dict != nil {
		if err := z.f.SetDictionary(dict); err != nil {
			z.err = err
			return err
		}
	}
	return nil
}

// fill returns the buffered input, reading more only when none is
// buffered.
func (z *Reader) fill() ([]byte, error) {
	if z.rBuf.Buffered() == 0 {
		if _, err := z.rBuf.Peek(1); err != nil {
			return nil, err
		}
	}
	return z.rBuf.Peek(z.rBuf.Buffered())
}

func (z *Reader) Read(p []byte) (int, error) {
	if z.err != nil {
		return 0, z.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	for n == 0 {
		input, rerr := z.fill()
		z.f.In, z.f.Out = input, p
		st, err := z.f.Inflate(NoFlush)
		used := len(input) - len(z.f.In)
		n = len(p) - len(z.f.Out)
		z.f.In, z.f.Out = nil, nil
		if used > 0 {
			if _, derr := z.rBuf.Discard(used); derr != nil {
				z.err = derr
				return n, derr
			}
		}

		switch {
		case errors.Is(err, ErrBuf):
			if n > 0 {
				return n, nil
			}
			if rerr == nil || rerr == io.EOF {
				rerr = io.ErrUnexpectedEOF
			}
			z.err = rerr
		case err != nil:
			z.err = err
		case st == StreamEnd:
			z.err = io.EOF
			z.finish()
		case st == NeedDict:
			if z.cfg.Dictionary == nil || z.f.SetDictionary(z.cfg.Dictionary) != nil {
				z.err = ErrDictionary
			}
		}
		if z.err != nil {
			return n, z.err
		}
	}
	return n, nil
}

func (z *Reader) finish() {
	if z.cfg.Logger == nil {
		return
	}
	z.cfg.Logger.WithFields(logrus.Fields{
		"in":    z.f.TotalIn,
		"out":   z.f.TotalOut,
		"adler": z.f.Adler,
	}).Debug("zlib stream end")
}

// Close releases the decoder. It returns the stream error seen so far,
// if any other than io.EOF, and does not close the underlying reader.
func (z *Reader) Close() error {
	if z.f != nil {
		z.totalIn, z.totalOut = z.f.TotalIn, z.f.TotalOut
		z.f.End()
		z.f = nil
	}
	switch z.err {
	case nil, io.EOF, errReaderClosed:
		z.err = errReaderClosed
		return nil
	}
	return z.err
}

// TotalIn returns the number of compressed bytes consumed so far.
func (z *Reader) TotalIn() int64 {
	if z.f != nil {
		return z.f.TotalIn
	}
	return z.totalIn
}

// TotalOut returns the number of bytes decompressed so far.
func (z *Reader) TotalOut() int64 {
	if z.f != nil {
		return z.f.TotalOut
	}
	return z.totalOut
}
