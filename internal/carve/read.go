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
	"io"

	"github.com/cairnfs/cairn/internal/block"
	"github.com/cairnfs/cairn/pkg/reader"
)

// SourceReaderAt adapts block.Source's absolute ReadAt to io.ReaderAt's
// stricter "short read implies an error" contract, so a block.Source can
// be handed to stdlib and teacher-pattern code (io.SectionReader, the
// FUSE mount's RecoverFS) that expects one.
type SourceReaderAt struct {
	source block.Source
}

// NewSourceReaderAt wraps source as an io.ReaderAt.
func NewSourceReaderAt(source block.Source) SourceReaderAt {
	return SourceReaderAt{source: source}
}

func (s SourceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n, err := s.source.ReadAt(uint64(off), p)
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Open returns a seekable view over f's bytes as they actually sit on
// source, stitching its byte ranges together in order. For the single-
// range case this carving pipeline always produces, it's equivalent to
// an io.SectionReader; the multi-range plumbing exists for when a
// caller supplies a RecoveredFile assembled from filesystem hints.
func Open(source block.Source, f RecoveredFile) io.ReadSeeker {
	ra := NewSourceReaderAt(source)

	readers := make([]io.ReadSeeker, len(f.ByteRanges))
	sizes := make([]int64, len(f.ByteRanges))
	for i, rng := range f.ByteRanges {
		readers[i] = io.NewSectionReader(ra, int64(rng.Start), int64(rng.Len()))
		sizes[i] = int64(rng.Len())
	}
	return reader.NewMultiReadSeeker(readers, sizes)
}

// ReadAll reads the entirety of f's bytes into memory. Intended for
// small recovered files or tests; the carve command's dump path uses Open
// directly (and the FUSE mount reads through SourceReaderAt) to avoid
// buffering large recovered images.
func ReadAll(source block.Source, f RecoveredFile) ([]byte, error) {
	return io.ReadAll(Open(source, f))
}
