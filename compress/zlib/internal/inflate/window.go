// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package inflate

import (
	"github.com/intel/fastzlib/compress/zlib/internal/zstream"
	"github.com/intel/fastzlib/hash/adler32"
)

// window is the circular output history. Bytes in [read, write) wrapping
// at end are decoded but not yet copied to the caller.
type window struct {
	buf   []byte
	end   int
	read  int
	write int
	full  bool // write has wrapped at least once
	check bool // keep the Adler-32 of the flushed output in the stream
}

func (w *window) reset() {
	w.read, w.write = 0, 0
	w.full = false
}

// avail returns the free space contiguous to q.
func (w *window) avail(q int) int {
	if q < w.read {
		return w.read - q - 1
	}
	return w.end - q
}

// have returns how far back from q the history is valid.
func (w *window) have(q int) int {
	if w.full {
		return w.end
	}
	return q
}

// wrap moves write back to the start once the tail is used up and the
// head has been read out.
func (w *window) wrap() {
	if w.write == w.end && w.read != 0 {
		w.write = 0
		w.full = true
	}
}

// flush copies as much decoded output as fits into z.Out.
func (w *window) flush(z *zstream.Stream) {
	q := w.read
	hi := w.write
	if q > w.write {
		hi = w.end
	}
	q += w.copyOut(z, q, hi)
	if q == w.end {
		q = 0
		if w.write == w.end {
			w.write = 0
			w.full = true
		}
		q += w.copyOut(z, 0, w.write)
	}
	w.read = q
}

func (w *window) copyOut(z *zstream.Stream, lo, hi int) int {
	n := copy(z.Out, w.buf[lo:hi])
	if n == 0 {
		return 0
	}
	if w.check {
		z.Adler = adler32.Update(z.Adler, w.buf[lo:lo+n])
	}
	z.Out = z.Out[n:]
	z.TotalOut += int64(n)
	return n
}

// copyBack appends n bytes found dist bytes behind q, reading across the
// window end when needed, and returns the new q. The caller guarantees
// n bytes of contiguous space at q.
func (w *window) copyBack(q, dist, n int) int {
	buf := w.buf
	from := q - dist
	if from < 0 {
		from += w.end
		e := w.end - from
		if n <= e {
			copy(buf[q:q+n], buf[from:from+n])
			return q + n
		}
		copy(buf[q:q+e], buf[from:w.end])
		q += e
		n -= e
		from = 0
	}
	byteCopy(buf, q, q-from, n)
	return q + n
}

// byteCopy repeats the dist bytes before curr until length bytes are
// written.
func byteCopy(hist []byte, curr int, dist, length int) {
	end := curr + length
	start := curr - dist
	for curr < end {
		to := hist[curr:end]
		from := hist[start:curr]
		size := copy(to, from)
		curr += size
	}
}

// setDictionary loads the tail of dict as history.
func (w *window) setDictionary(dict []byte) {
	if len(dict) > w.end {
		dict = dict[len(dict)-w.end:]
	}
	n := copy(w.buf, dict)
	w.read, w.write = n, n
}
