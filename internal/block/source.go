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

// Package block provides read-only, random-access byte sources backed by a
// device, disk image, or plain file, with two interchangeable strategies:
// memory-mapped and positional (pread-style) reads.
package block

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a read starts beyond the source's size. A
// read starting exactly at Size() is not an error; it returns 0 bytes.
var ErrOutOfBounds = errors.New("block: offset out of bounds")

// Source is a read-only, random-access handle onto a contiguous byte medium.
// Implementations must be safe for concurrent use by multiple goroutines:
// ReadAt never mutates shared state beyond the requested buffer.
type Source interface {
	// ReadAt fills buf starting at offset and returns the number of bytes
	// copied. A short read (n < len(buf)) is legal and deterministic: it
	// only happens when offset+len(buf) extends past Size(). It returns
	// ErrOutOfBounds if offset > Size().
	ReadAt(offset uint64, buf []byte) (int, error)

	// Size returns the total number of addressable bytes. It never changes
	// for the lifetime of the Source.
	Size() uint64

	// IsMapped reports whether reads are served from a memory mapping
	// (zero-copy, no syscall per call) rather than positional I/O.
	IsMapped() bool

	// Close releases any resources (file handles, mappings) held by the source.
	Close() error
}

func boundsCheck(offset, size uint64, bufLen int) (int, error) {
	if offset > size {
		return 0, fmt.Errorf("%w: offset %d > size %d", ErrOutOfBounds, offset, size)
	}
	remaining := size - offset
	if uint64(bufLen) > remaining {
		return int(remaining), nil
	}
	return bufLen, nil
}
