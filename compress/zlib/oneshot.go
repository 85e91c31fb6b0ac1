// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package zlib

import (
	"io"

	"github.com/pkg/errors"
)

// OpError records a failed one-shot operation: "pack" for Compress and
// "unpack" for Decompress.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return "zlib " + e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the engine error.
func (e *OpError) Cause() error { return e.Err }

// ErrTrailingData reports bytes following a complete stream given to
// Decompress.
var ErrTrailingData = errors.New("trailing data after stream end")

// Compress returns the zlib stream of data at level and the Adler-32
// of data.
func Compress(data []byte, level int) ([]byte, uint32, error) {
	cfg := DefaultConfig()
	cfg.Level = level
	d, err := NewDeflater(cfg)
	if err != nil {
		return nil, 0, &OpError{Op: "pack", Err: errors.Wrap(err, "new deflater")}
	}
	out := make([]byte, d.Bound(len(data)))
	d.In, d.Out = data, out
	st, err := d.Deflate(Finish)
	if err == nil && st != StreamEnd {
		err = io.ErrShortBuffer
	}
	out = out[:len(out)-len(d.Out)]
	adler := d.Adler
	if endErr := d.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return nil, 0, &OpError{Op: "pack", Err: errors.Wrap(err, "deflate")}
	}
	return out, adler, nil
}

// Decompress inflates a complete zlib stream. Truncated input fails
// with io.ErrUnexpectedEOF and data after the trailer with
// ErrTrailingData.
func Decompress(data []byte) ([]byte, error) {
	f, err := NewInflater(MaxWindowBits, nil)
	if err != nil {
		return nil, &OpError{Op: "unpack", Err: errors.Wrap(err, "new inflater")}
	}
	defer f.End()

	out := make([]byte, 0, 4*len(data)+64)
	f.In = data
	for {
		if len(out) == cap(out) {
			out = append(out, 0)[:len(out)]
		}
		f.Out = out[len(out):cap(out)]
		st, err := f.Inflate(NoFlush)
		out = out[:cap(out)-len(f.Out)]
		switch {
		case errors.Is(err, ErrBuf):
			err = io.ErrUnexpectedEOF
		case err == nil && st == NeedDict:
			err = ErrDictionary
		case err == nil && st == StreamEnd:
			if len(f.In) != 0 {
				return nil, &OpError{Op: "unpack", Err: errors.WithStack(ErrTrailingData)}
			}
			return out, nil
		}
		if err != nil {
			return nil, &OpError{Op: "unpack", Err: errors.Wrap(err, "inflate")}
		}
	}
}
