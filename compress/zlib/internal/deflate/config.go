// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package deflate

import (
	"fmt"

	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/sirupsen/logrus"
)

type compressFunc int

const (
	funcStored compressFunc = iota
	funcFast
	funcSlow
)

// config tunes the match finder for one compression level.
type config struct {
	goodLength int // reduce lazy search above this match length
	maxLazy    int // do not perform lazy search above this match length
	niceLength int // quit search above this match length
	maxChain   int
	fn         compressFunc
}

var configTable = [10]config{
	/* 0 */ {0, 0, 0, 0, funcStored}, // store only
	/* 1 */ {4, 4, 8, 4, funcFast}, // max speed, no lazy matches
	/* 2 */ {4, 5, 16, 8, funcFast},
	/* 3 */ {4, 6, 32, 32, funcFast},
	/* 4 */ {4, 4, 16, 16, funcSlow}, // lazy matches
	/* 5 */ {8, 16, 32, 32, funcSlow},
	/* 6 */ {8, 16, 128, 128, funcSlow},
	/* 7 */ {8, 32, 128, 256, funcSlow},
	/* 8 */ {32, 128, 258, 1024, funcSlow},
	/* 9 */ {32, 258, 258, 4096, funcSlow}, // max compression
}

// Config holds the construction parameters of a Deflater.
type Config struct {
	// Level is 0..9 or zstream.DefaultCompression.
	Level int
	// WindowBits is the base two logarithm of the window size, 8..15.
	// A negative value selects a raw deflate stream without the zlib
	// header and trailer.
	WindowBits int
	// MemLevel sets the hash table and symbol buffer sizes, 1..9.
	MemLevel int
	Strategy zstream.Strategy
	// Logger receives debug records about block decisions. Nil
	// discards them.
	Logger *logrus.Entry
}

// DefaultConfig returns the zlib defaults for level.
func DefaultConfig(level int) Config {
	return Config{
		Level:      level,
		WindowBits: zstream.DefWBits,
		MemLevel:   zstream.DefMemLevel,
		Strategy:   zstream.DefaultStrategy,
	}
}

func invalid(format string, args ...interface{}) error {
	return &zstream.Error{Code: zstream.StreamError, Msg: fmt.Sprintf(format, args...)}
}

// Validate reports a StreamError if c names a parameter out of range.
func (c Config) Validate() error {
	_, _, _, err := c.normalize()
	return err
}

// normalize validates c and returns the effective level, window bits
// and wrapping.
func (c *Config) normalize() (level, wbits, wrap int, err error) {
	level = c.Level
	if level == zstream.DefaultCompression {
		level = 6
	}
	wrap = 1
	wbits = c.WindowBits
	if wbits < 0 {
		wrap = 0
		wbits = -wbits
	}
	switch {
	case level < 0 || level > 9:
		return 0, 0, 0, invalid("invalid compression level %d", c.Level)
	case wbits < zstream.MinWBits || wbits > zstream.MaxWBits:
		return 0, 0, 0, invalid("invalid window bits %d", c.WindowBits)
	case wbits == zstream.MinWBits && wrap != 1:
		return 0, 0, 0, invalid("raw streams need at least 9 window bits")
	case c.MemLevel < 1 || c.MemLevel > zstream.MaxMemLevel:
		return 0, 0, 0, invalid("invalid memory level %d", c.MemLevel)
	case c.Strategy < zstream.DefaultStrategy || c.Strategy > zstream.Quick:
		return 0, 0, 0, invalid("invalid strategy %d", c.Strategy)
	}
	// A 256-byte window is promoted to 512 bytes, its header still
	// being valid for any inflater.
	if wbits == zstream.MinWBits {
		wbits = 9
	}
	return level, wbits, wrap, nil
}
