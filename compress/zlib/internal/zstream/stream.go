// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package zstream holds the state record and the result model shared by
// the deflate and inflate engines.
package zstream

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Stream is the caller-visible part of an engine. In holds the input
// bytes not yet consumed and Out the free output space not yet filled;
// both are advanced by the engine.
type Stream struct {
	In  []byte
	Out []byte

	// TotalIn and TotalOut count the bytes consumed and produced since
	// the last reset.
	TotalIn  int64
	TotalOut int64

	// Adler is the running Adler-32 of the uncompressed data, or the
	// dictionary identifier when NeedDict is reported.
	Adler uint32

	// Msg describes the last error, if any.
	Msg string

	// DataType is the deflate guess of the input kind.
	DataType DataType
}

// DataType classifies the input seen by the compressor.
type DataType int

const (
	Binary DataType = iota
	Text
	Unknown
)

// Flush selects how much pending output a call must emit.
type Flush int

const (
	NoFlush Flush = iota
	PartialFlush
	SyncFlush
	FullFlush
	Finish
	Block
)

// Rank orders flush modes by strength, Block sitting between NoFlush
// and PartialFlush.
func (f Flush) Rank() int {
	r := int(f) * 2
	if f > Finish {
		r -= 9
	}
	return r
}

func (f Flush) String() string {
	switch f {
	case NoFlush:
		return "none"
	case PartialFlush:
		return "partial"
	case SyncFlush:
		return "sync"
	case FullFlush:
		return "full"
	case Finish:
		return "finish"
	case Block:
		return "block"
	}
	return "invalid"
}

// Level is a compression level, 0..9 or DefaultCompression.
type Level = int

const (
	NoCompression      Level = 0
	BestSpeed          Level = 1
	BestCompression    Level = 9
	DefaultCompression Level = -1
)

// Strategy tunes the match finder for the input kind.
type Strategy int

const (
	DefaultStrategy Strategy = iota
	Filtered
	HuffmanOnly
	RLE
	Fixed
	// Quick emits static-tree blocks in a single pass with one probe
	// per position.
	Quick
)

func (s Strategy) String() string {
	switch s {
	case DefaultStrategy:
		return "default"
	case Filtered:
		return "filtered"
	case HuffmanOnly:
		return "huffman"
	case RLE:
		return "rle"
	case Fixed:
		return "fixed"
	case Quick:
		return "quick"
	}
	return "invalid"
}

// ParseStrategy maps a strategy name back to its value.
func ParseStrategy(name string) (Strategy, bool) {
	for s := DefaultStrategy; s <= Quick; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Window and memory limits.
const (
	Deflated     = 8
	MinWBits     = 8
	MaxWBits     = 15
	MaxMemLevel  = 9
	DefMemLevel  = 8
	PresetDict   = 0x20
	DefWBits     = MaxWBits
	MinMatch     = 3
	MaxMatch     = 258
	MaxStoredLen = 65535
)

var nop = func() *logrus.Entry {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.PanicLevel
	return logrus.NewEntry(l)
}()

// NopLogger returns a logger discarding everything.
func NopLogger() *logrus.Entry {
	return nop
}

// Debugging reports whether the logger emits debug records.
func Debugging(log *logrus.Entry) bool {
	return log != nil && log.Logger.IsLevelEnabled(logrus.DebugLevel)
}
