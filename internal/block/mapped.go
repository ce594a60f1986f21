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

//go:build !windows

package block

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MappedSource projects the entire backing file into the address space.
// ReadAt is a bounded slice copy with no syscall per call. Cheaply shareable:
// the mapping is read-only and safe for concurrent readers.
type MappedSource struct {
	data []byte
	file *os.File
	size uint64
}

// OpenMapped mmaps path read-only. It fails (rather than silently falling
// back) on permission errors, zero-length files, or platforms/devices that
// reject mapping; the caller (Open) decides whether to fall back to
// OpenPositional.
func OpenMapped(path string) (*MappedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("block: open %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("block: stat %q: %w", path, err)
	}

	size := fi.Size()
	if size <= 0 {
		f.Close()
		return nil, fmt.Errorf("block: %q has no mappable size", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("block: mmap %q: %w", path, err)
	}

	return &MappedSource{
		data: data,
		file: f,
		size: uint64(size),
	}, nil
}

func (s *MappedSource) Size() uint64 { return s.size }

func (s *MappedSource) IsMapped() bool { return true }

func (s *MappedSource) ReadAt(offset uint64, buf []byte) (int, error) {
	n, err := boundsCheck(offset, s.size, len(buf))
	if err != nil {
		return 0, err
	}
	copy(buf, s.data[offset:offset+uint64(n)])
	return n, nil
}

func (s *MappedSource) Close() error {
	var err error
	if s.data != nil {
		err = unix.Munmap(s.data)
		s.data = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
		s.file = nil
	}
	return err
}
