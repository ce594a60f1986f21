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
package block

import (
	"errors"
	"fmt"
	"io"

	"github.com/cairnfs/cairn/internal/fs"
)

// PositionalSource reads via absolute-offset positional reads (no seek
// state, no shared cursor), so it is safe to share across goroutines. Used
// for devices too large to map on 32-bit address spaces, or that reject
// mapping outright.
type PositionalSource struct {
	f    fs.File
	size uint64
}

// OpenPositional opens path for positional reads. Unlike OpenMapped, this
// is expected to be the reliable fallback: any failure here is a real,
// reportable error.
func OpenPositional(path string) (*PositionalSource, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("block: open %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("block: stat %q: %w", path, err)
	}

	// Stat reports a zero size for block devices; their size is found by
	// seeking to the end instead (reads stay positional, so the cursor
	// moved here is never relied on).
	size := uint64(fi.Size())
	if size == 0 {
		if sk, ok := f.(io.Seeker); ok {
			if end, err := sk.Seek(0, io.SeekEnd); err == nil && end > 0 {
				size = uint64(end)
			}
		}
	}

	return &PositionalSource{
		f:    f,
		size: size,
	}, nil
}

func (s *PositionalSource) Size() uint64 { return s.size }

func (s *PositionalSource) IsMapped() bool { return false }

func (s *PositionalSource) ReadAt(offset uint64, buf []byte) (int, error) {
	want, err := boundsCheck(offset, s.size, len(buf))
	if err != nil {
		return 0, err
	}
	if want == 0 {
		return 0, nil
	}

	n, err := s.f.ReadAt(buf[:want], int64(offset))
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("block: read at %d: %w", offset, err)
	}
	return n, nil
}

func (s *PositionalSource) Close() error {
	return s.f.Close()
}
