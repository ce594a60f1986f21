// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package carve

import (
	"errors"
	"io"
)

// errShortCandidate is returned by a Reader's internal reads when a
// candidate byte range runs out before a validator finishes decoding it;
// validators treat it exactly like a structural validation failure.
var errShortCandidate = errors.New("carve: candidate range exhausted")

// Reader is a cursor over a fixed in-memory candidate byte range, the
// form a validator consumes a carve candidate in. Unlike bufio.Reader it
// never performs I/O of its own: the whole candidate window is read out
// of the block source up front, which keeps JPEG/PNG validation free of
// read-size guessing against the underlying device.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential, bounds-checked reading.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// BytesRead reports how many bytes have been consumed so far.
func (r *Reader) BytesRead() int {
	return r.pos
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadByte consumes and returns the next byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// Read copies up to len(p) unread bytes into p, advancing the cursor.
func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n, nil
}

// Peek returns the next n bytes without advancing the cursor. It returns
// io.EOF if fewer than n bytes remain.
func (r *Reader) Peek(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.EOF
	}
	return r.buf[r.pos : r.pos+n], nil
}

// Discard advances the cursor by n bytes, returning io.EOF instead of
// advancing past the end of the buffer.
func (r *Reader) Discard(n int) error {
	if r.pos+n > len(r.buf) {
		r.pos = len(r.buf)
		return io.EOF
	}
	r.pos += n
	return nil
}

// ReadUint16BE reads a big-endian uint16, the encoding every JPEG segment
// length field uses.
func (r *Reader) ReadUint16BE() (uint16, error) {
	b, err := r.Peek(2)
	if err != nil {
		return 0, errShortCandidate
	}
	_ = r.Discard(2)
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint32BE reads a big-endian uint32, the encoding of PNG chunk length
// and CRC fields.
func (r *Reader) ReadUint32BE() (uint32, error) {
	b, err := r.Peek(4)
	if err != nil {
		return 0, errShortCandidate
	}
	_ = r.Discard(4)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
