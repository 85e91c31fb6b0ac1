// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package zstream

// Code is the outcome of an engine step. Non-negative codes are
// statuses, negative ones errors.
type Code int

const (
	OK          Code = 0
	StreamEnd   Code = 1
	NeedDict    Code = 2
	StreamError Code = -2
	DataError   Code = -3
	MemError    Code = -4
	BufError    Code = -5
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case StreamEnd:
		return "stream end"
	case NeedDict:
		return "need dictionary"
	case StreamError:
		return "stream error"
	case DataError:
		return "data error"
	case MemError:
		return "insufficient memory"
	case BufError:
		return "buffer error"
	}
	return "unknown"
}

// Status is the non-error outcome of a call.
type Status = Code

// Error is returned by engine calls failing with a negative code.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "zlib: " + e.Code.String()
	}
	return "zlib: " + e.Msg
}

// Is matches errors by code so that errors.Is(err, ErrData) holds for
// every data error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrStream = &Error{Code: StreamError}
	ErrData   = &Error{Code: DataError}
	ErrMem    = &Error{Code: MemError}
	ErrBuf    = &Error{Code: BufError}
)

// Result converts a code into the (Status, error) pair of the public
// API, recording msg on the stream when the code is an error.
func (s *Stream) Result(c Code, msg string) (Status, error) {
	if c >= 0 {
		return c, nil
	}
	if msg == "" {
		msg = c.String()
	}
	s.Msg = msg
	return OK, &Error{Code: c, Msg: msg}
}
