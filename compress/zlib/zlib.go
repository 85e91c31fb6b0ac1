// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package zlib reads and writes zlib format compressed data, as
// specified in RFC 1950. The engines reproduce the reference zlib
// output bit for bit, and the stream adapters follow the shape of the
// standard library's compress/zlib.
package zlib

import (
	"compress/zlib"
	"fmt"

	"github.com/intel/fastzlib/compress/zlib/internal/deflate"
	"github.com/intel/fastzlib/compress/zlib/internal/inflate"
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/sirupsen/logrus"
)

type (
	// Deflater is the push-style compression engine.
	Deflater = deflate.Deflater
	// Inflater is the push-style decompression engine.
	Inflater = inflate.Inflater
	// Stream is the In/Out state shared by both engines.
	Stream   = zstream.Stream
	Status   = zstream.Status
	Code     = zstream.Code
	Flush    = zstream.Flush
	Strategy = zstream.Strategy
	// Error is returned by the engines and by the adapters for corrupt
	// input.
	Error = zstream.Error

	Resetter = zlib.Resetter
)

// Compression level constants compatible with standard library
const (
	NoCompression      = zstream.NoCompression
	BestSpeed          = zstream.BestSpeed
	BestCompression    = zstream.BestCompression
	DefaultCompression = zstream.DefaultCompression
)

const (
	DefaultStrategy = zstream.DefaultStrategy
	Filtered        = zstream.Filtered
	HuffmanOnly     = zstream.HuffmanOnly
	RLE             = zstream.RLE
	Fixed           = zstream.Fixed
	Quick           = zstream.Quick
)

const (
	NoFlush      = zstream.NoFlush
	PartialFlush = zstream.PartialFlush
	SyncFlush    = zstream.SyncFlush
	FullFlush    = zstream.FullFlush
	Finish       = zstream.Finish
	Block        = zstream.Block
)

const (
	OK        = zstream.OK
	StreamEnd = zstream.StreamEnd
	NeedDict  = zstream.NeedDict
)

const (
	MinWindowBits   = zstream.MinWBits
	MaxWindowBits   = zstream.MaxWBits
	DefaultMemLevel = zstream.DefMemLevel
	MaxMemLevel     = zstream.MaxMemLevel

	// DefaultBufferSize is the size of the adapters' staging buffers.
	DefaultBufferSize = 16 << 10
	MinBufferSize     = 64
)

var (
	ErrStream = zstream.ErrStream
	ErrData   = zstream.ErrData
	ErrMem    = zstream.ErrMem
	ErrBuf    = zstream.ErrBuf

	// ErrDictionary is returned by a Reader when the stream needs a
	// dictionary that was not supplied or does not match.
	ErrDictionary = zlib.ErrDictionary
)

// ParseStrategy maps a strategy name such as "rle" or "huffman" back
// to its value.
func ParseStrategy(name string) (Strategy, bool) {
	return zstream.ParseStrategy(name)
}

// Config holds the parameters of the engines and adapters.
type Config struct {
	Level int
	// WindowBits is 8..15; a negative value selects raw deflate.
	WindowBits int
	MemLevel   int
	Strategy   Strategy
	// Dictionary is the preset dictionary, if any.
	Dictionary []byte
	// BufferSize sizes the staging buffers of Writer and Reader; zero
	// means DefaultBufferSize.
	BufferSize int
	Logger     *logrus.Entry
}

// DefaultConfig returns the zlib defaults.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultCompression,
		WindowBits: MaxWindowBits,
		MemLevel:   DefaultMemLevel,
		Strategy:   DefaultStrategy,
		BufferSize: DefaultBufferSize,
	}
}

// Validate checks every compression parameter eagerly so that a bad
// Config fails before any data is touched.
func (c Config) Validate() error {
	if err := c.deflate().Validate(); err != nil {
		return err
	}
	if c.BufferSize != 0 && c.BufferSize < MinBufferSize {
		return &Error{Code: zstream.StreamError, Msg: fmt.Sprintf("buffer size %d below %d", c.BufferSize, MinBufferSize)}
	}
	return nil
}

func (c Config) deflate() deflate.Config {
	return deflate.Config{
		Level:      c.Level,
		WindowBits: c.WindowBits,
		MemLevel:   c.MemLevel,
		Strategy:   c.Strategy,
		Logger:     c.Logger,
	}
}

func (c Config) bufferSize() int {
	if c.BufferSize == 0 {
		return DefaultBufferSize
	}
	return c.BufferSize
}

// NewDeflater returns a compression engine for cfg, with cfg.Dictionary
// already installed.
func NewDeflater(cfg Config) (*Deflater, error) {
	d, err := deflate.New(cfg.deflate())
	if err != nil {
		return nil, err
	}
	if cfg.Dictionary != nil {
		if err := d.SetDictionary(cfg.Dictionary); err != nil {
			d.End()
			return nil, err
		}
	}
	return d, nil
}

// NewInflater returns a decompression engine for windows of up to
// 1<<windowBits bytes, or raw deflate when windowBits is negative.
func NewInflater(windowBits int, log *logrus.Entry) (*Inflater, error) {
	f, err := inflate.New(windowBits)
	if err != nil {
		return nil, err
	}
	f.SetLogger(log)
	return f, nil
}
