// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package inflate implements the zlib decompression engine: a resumable
// state machine that accepts RFC 1950 or raw RFC 1951 input in pieces of
// any size and never reads past the end of the compressed stream.
package inflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/intel/fastzlib/hash/adler32"
	"github.com/sirupsen/logrus"
)

type mode int

const (
	modeMethod mode = iota // waiting for method byte
	modeFlag               // waiting for flag byte
	modeDict4              // four dictionary check bytes to go
	modeDict3              // three dictionary check bytes to go
	modeDict2              // two dictionary check bytes to go
	modeDict1              // one dictionary check byte to go
	modeDict0              // waiting for SetDictionary
	modeBlocks             // decompressing blocks
	modeCheck4             // four check bytes to go
	modeCheck3             // three check bytes to go
	modeCheck2             // two check bytes to go
	modeCheck1             // one check byte to go
	modeDone               // finished check, done
	modeBad                // got an error, stay here
)

// Sync cannot recover from header and trailer errors.
const noSync = 5

// Inflater is a zlib decompression stream. Callers set In and Out and
// call Inflate until it reports StreamEnd.
type Inflater struct {
	zstream.Stream

	mode   mode
	method byte
	was    uint32 // computed check value
	need   uint32 // stream check value
	marker int    // Sync marker bytes found
	wrap   bool
	synced bool // output since Sync is partial: skip the trailer check
	wbits  int
	msg    string

	blocks blocks

	log   *logrus.Entry
	debug bool
}

// New returns an Inflater for windows of up to 1<<windowBits bytes.
// A negative windowBits selects raw deflate input without the zlib
// header and trailer.
func New(windowBits int) (*Inflater, error) {
	wrap := true
	if windowBits < 0 {
		wrap = false
		windowBits = -windowBits
	}
	if windowBits < zstream.MinWBits || windowBits > zstream.MaxWBits {
		return nil, &zstream.Error{Code: zstream.StreamError, Msg: "invalid window bits"}
	}
	f := &Inflater{
		wrap:  wrap,
		wbits: windowBits,
	}
	f.blocks.win = window{
		buf:   zstream.GetBytes(1 << windowBits),
		end:   1 << windowBits,
		check: wrap,
	}
	f.blocks.hufts = zstream.GetInt32s(3 * many)
	f.SetLogger(nil)
	return f, f.Reset()
}

// SetLogger directs the debug records of the stream to log; nil
// discards them.
func (f *Inflater) SetLogger(log *logrus.Entry) {
	if log == nil {
		log = zstream.NopLogger()
	}
	f.log = log
	f.debug = zstream.Debugging(log)
	f.blocks.log = log
	f.blocks.debug = f.debug
}

func (f *Inflater) ended() bool {
	return f.blocks.win.buf == nil
}

// Reset restarts the stream, keeping the window size and buffers.
func (f *Inflater) Reset() error {
	if f.ended() {
		return zstream.ErrStream
	}
	f.TotalIn, f.TotalOut = 0, 0
	f.Msg = ""
	f.msg = ""
	f.synced = false
	if f.wrap {
		f.mode = modeMethod
	} else {
		f.mode = modeBlocks
	}
	f.blocks.reset(&f.Stream)
	return nil
}

// Inflate decompresses as much input as possible into Out. It returns
// StreamEnd once the trailer has been verified and NeedDict when the
// stream names a preset dictionary. A BufError means no progress was
// possible, or that Finish was requested and the stream did not end.
func (f *Inflater) Inflate(flush zstream.Flush) (zstream.Status, error) {
	code := f.inflate(flush)
	msg := ""
	if code == zstream.DataError || f.mode == modeBad {
		msg = f.msg
	}
	return f.Result(code, msg)
}

func (f *Inflater) inflate(flush zstream.Flush) zstream.Code {
	if f.ended() || flush < zstream.NoFlush || flush > zstream.Block {
		return zstream.StreamError
	}
	in, out := f.TotalIn, f.TotalOut
	r := f.run()
	if r == zstream.OK && ((f.TotalIn == in && f.TotalOut == out) || flush == zstream.Finish) {
		return zstream.BufError
	}
	return r
}

func (f *Inflater) next() (byte, bool) {
	if len(f.In) == 0 {
		return 0, false
	}
	b := f.In[0]
	f.In = f.In[1:]
	f.TotalIn++
	return b, true
}

func (f *Inflater) bad(msg string, marker int) {
	f.mode = modeBad
	f.msg = msg
	f.marker = marker
	if f.debug {
		f.log.WithFields(logrus.Fields{
			"error":   msg,
			"totalIn": f.TotalIn,
		}).Debug("inflate stream error")
	}
}

func (f *Inflater) run() zstream.Code {
	for {
		switch f.mode {
		case modeMethod:
			b, ok := f.next()
			if !ok {
				return zstream.OK
			}
			f.method = b
			if b&0xf != zstream.Deflated {
				f.bad("unknown compression method", noSync)
				continue
			}
			if int(b>>4)+8 > f.wbits {
				f.bad("invalid window size", noSync)
				continue
			}
			f.mode = modeFlag

		case modeFlag:
			b, ok := f.next()
			if !ok {
				return zstream.OK
			}
			if (uint(f.method)<<8+uint(b))%31 != 0 {
				f.bad("incorrect header check", noSync)
				continue
			}
			if b&zstream.PresetDict == 0 {
				f.mode = modeBlocks
				continue
			}
			f.need = 0
			f.mode = modeDict4

		case modeDict4, modeDict3, modeDict2, modeDict1:
			b, ok := f.next()
			if !ok {
				return zstream.OK
			}
			f.need = f.need<<8 | uint32(b)
			if f.mode++; f.mode == modeDict0 {
				f.Adler = f.need
				return zstream.NeedDict
			}

		case modeDict0:
			f.bad("need dictionary", 0)
			return zstream.StreamError

		case modeBlocks:
			r := f.blocks.proc(&f.Stream)
			if r == zstream.DataError {
				f.bad(f.blocks.msg, 0)
				continue
			}
			if r != zstream.StreamEnd {
				return r
			}
			f.was = f.Adler
			f.blocks.reset(&f.Stream)
			if !f.wrap {
				f.mode = modeDone
				continue
			}
			f.need = 0
			f.mode = modeCheck4

		case modeCheck4, modeCheck3, modeCheck2, modeCheck1:
			b, ok := f.next()
			if !ok {
				return zstream.OK
			}
			f.need = f.need<<8 | uint32(b)
			if f.mode != modeCheck1 {
				f.mode++
				continue
			}
			if !f.synced && f.was != f.need {
				f.bad("incorrect data check", noSync)
				continue
			}
			f.Adler = f.was
			f.mode = modeDone

		case modeDone:
			return zstream.StreamEnd

		default:
			return zstream.DataError
		}
	}
}

// SetDictionary supplies the preset dictionary after Inflate returned
// NeedDict. Raw streams accept a dictionary before the first Inflate.
func (f *Inflater) SetDictionary(dict []byte) error {
	if f.ended() {
		return zstream.ErrStream
	}
	switch {
	case f.mode == modeDict0:
		if adler32.Checksum(dict) != f.Adler {
			_, err := f.Result(zstream.DataError, "incorrect dictionary")
			return err
		}
		f.Adler = adler32.Init
	case !f.wrap && f.mode == modeBlocks && f.TotalIn == 0 && f.blocks.mode == blockType:
	default:
		_, err := f.Result(zstream.StreamError, "dictionary not expected")
		return err
	}
	f.blocks.win.setDictionary(dict)
	f.mode = modeBlocks
	return nil
}

// Sync skips input up to the next empty stored block marker emitted by
// a sync or full flush and restarts decoding after it, with an empty
// history. It returns a data error while no marker has been found;
// totals are kept.
func (f *Inflater) Sync() error {
	if f.ended() {
		return zstream.ErrStream
	}
	if f.mode != modeBad {
		f.mode = modeBad
		f.msg = "searching for sync marker"
		f.marker = 0
	}
	if len(f.In) == 0 {
		_, err := f.Result(zstream.BufError, "")
		return err
	}
	mark := [4]byte{0, 0, 0xff, 0xff}
	m, p := f.marker, 0
	for ; p < len(f.In) && m < 4; p++ {
		switch b := f.In[p]; {
		case b == mark[m]:
			m++
		case b != 0:
			m = 0
		default:
			m = 4 - m
		}
	}
	f.In = f.In[p:]
	f.TotalIn += int64(p)
	f.marker = m
	if m != 4 {
		_, err := f.Result(zstream.DataError, f.msg)
		return err
	}
	in, out := f.TotalIn, f.TotalOut
	f.Reset()
	f.TotalIn, f.TotalOut = in, out
	f.mode = modeBlocks
	f.synced = true
	return nil
}

// SyncPoint reports whether decoding stopped at the end of a block
// header produced by a sync or full flush.
func (f *Inflater) SyncPoint() bool {
	return !f.ended() && f.mode == modeBlocks && f.blocks.mode == blockLens
}

// End releases the buffers; the Inflater cannot be used afterwards.
func (f *Inflater) End() error {
	if f.ended() {
		return zstream.ErrStream
	}
	zstream.PutBytes(f.blocks.win.buf)
	zstream.PutInt32s(f.blocks.hufts)
	f.blocks.win.buf = nil
	f.blocks.hufts = nil
	return nil
}
