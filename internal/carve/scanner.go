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
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cairnfs/cairn/internal/block"
	"github.com/cairnfs/cairn/pkg/table"
)

// BufferSize is the fixed window the scanner reads per chunk (4 MiB,
// aligned to the 4096-byte block size assumed throughout).
const BufferSize = 4 * 1024 * 1024

// overlap is MaxSignatureLen-1: successive windows overlap by this many
// bytes so a signature straddling a chunk boundary is still found whole.
const overlap = MaxSignatureLen - 1

// ScanProgress is published after each chunk a scan processes. The
// callback that receives it runs synchronously on the scanning goroutine
// and must not block.
type ScanProgress struct {
	ScannedBytes     uint64
	MatchesFound     uint64
	SpeedBytesPerSec float64
}

// ProgressFunc receives scan progress updates. Must be non-blocking.
type ProgressFunc func(ScanProgress)

var signatureSearchTable = buildSignatureSearchTable()

func buildSignatureSearchTable() *table.PrefixTable[signature] {
	t := table.New[signature]()
	for _, sig := range Signatures() {
		t.Insert(sig.pattern, sig)
	}
	return t
}

// Scan walks source from offset 0 to source.Size(), emitting every
// recognized signature occurrence (with local entropy) into the returned
// FragmentMap. It is synchronous and blocking; cancel is checked before
// each chunk read. If cancel is observed set, Scan returns ErrCancelled
// along with the FragmentMap accumulated so far (which remains
// well-defined to carve).
func Scan(source block.Source, cancel *atomic.Bool, onProgress ProgressFunc) (*FragmentMap, error) {
	return scanRegion(source, 0, source.Size(), cancel, onProgress)
}

// ScanParallel splits [0, source.Size()) into stripes contiguous regions
// (stripes <= 0 defaults to runtime.NumCPU(), floor 1), scans each on its
// own goroutine with an `overlap`-byte right pad so boundary
// matches are never missed, and merges the per-stripe FragmentMaps
// serially. The result is the same multiset of fragments Scan would
// produce over the whole device.
func ScanParallel(source block.Source, stripes int, cancel *atomic.Bool, onProgress ProgressFunc) (*FragmentMap, error) {
	if stripes <= 0 {
		stripes = runtime.NumCPU()
	}
	if stripes < 1 {
		stripes = 1
	}

	size := source.Size()
	if stripes == 1 || size == 0 {
		return Scan(source, cancel, onProgress)
	}

	stripeSize := size / uint64(stripes)
	if stripeSize == 0 {
		stripeSize = size
		stripes = 1
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		combined = NewFragmentMap()
		firstErr error
	)

	// Per-stripe progress is reported in terms of that stripe's own range;
	// ScanProgress.ScannedBytes is therefore not monotonic across stripes
	// finishing out of order. Callers that need a single combined counter
	// should scan with Scan instead.
	for i := 0; i < stripes; i++ {
		start := uint64(i) * stripeSize
		end := start + stripeSize
		if i == stripes-1 {
			end = size
		}
		paddedEnd := min(end+overlap, size)

		wg.Add(1)
		go func(start, paddedEnd uint64) {
			defer wg.Done()

			local, err := scanRegion(source, start, paddedEnd, cancel, onProgress)

			mu.Lock()
			defer mu.Unlock()
			if local != nil {
				combined.Merge(local)
			}
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}(start, paddedEnd)
	}

	wg.Wait()
	return combined, firstErr
}

// scanRegion scans the half-open byte range [start, end) of source,
// reading BufferSize windows that overlap by `overlap` bytes so that no
// signature straddling a window boundary is missed; the FragmentMap's
// offset-dedupe absorbs the resulting re-detections in the overlap region
// for free.
func scanRegion(source block.Source, start, end uint64, cancel *atomic.Bool, onProgress ProgressFunc) (*FragmentMap, error) {
	fragments := NewFragmentMap()
	if end <= start {
		return fragments, nil
	}

	buf := make([]byte, BufferSize)
	startTime := time.Now()
	lastReport := startTime

	pos := start
	advance := uint64(BufferSize - overlap)

	for pos < end {
		if cancel != nil && cancel.Load() {
			return fragments, ErrCancelled
		}

		want := end - pos
		if want > uint64(len(buf)) {
			want = uint64(len(buf))
		}

		n, err := source.ReadAt(pos, buf[:want])
		if err != nil {
			return fragments, err
		}

		scanChunk(buf[:n], pos, fragments)

		if onProgress != nil && time.Since(lastReport) > 0 {
			elapsed := time.Since(startTime).Seconds()
			scanned := pos + uint64(n) - start
			speed := 0.0
			if elapsed > 0 {
				speed = float64(scanned) / elapsed
			}
			onProgress(ScanProgress{
				ScannedBytes:     scanned,
				MatchesFound:     uint64(fragments.Len()),
				SpeedBytesPerSec: speed,
			})
			lastReport = time.Now()
		}

		if uint64(n) < want {
			break // short read: reached the end of the medium
		}
		if pos+uint64(n) >= end {
			break
		}
		pos += advance
	}

	return fragments, nil
}

// scanChunk runs the multi-pattern signature search over one in-memory
// window and appends every match to fragments, with absolute offsets
// computed from chunkBase. Matches are emitted in ascending intra-chunk
// index because the search itself walks the buffer left to right.
func scanChunk(buf []byte, chunkBase uint64, fragments *FragmentMap) {
	for i := 0; i < len(buf); i++ {
		signatureSearchTable.Walk(buf[i:], func(sig signature) bool {
			entropy := windowEntropy(buf, i)
			fragments.Push(Fragment{
				Offset:  chunkBase + uint64(i),
				Length:  uint16(len(sig.pattern)),
				Kind:    sig.kind,
				Entropy: entropy,
			})
			return false // keep walking: a position can match more than one kind (e.g. GIF's two magics never overlap, but this stays generic)
		})
	}
}

// windowEntropy computes Shannon entropy over the EntropyWindow bytes of
// buf surrounding index i, clamped to the buffer's bounds.
func windowEntropy(buf []byte, i int) float32 {
	half := EntropyWindow / 2
	lo := i - half
	if lo < 0 {
		lo = 0
	}
	hi := i + half
	if hi > len(buf) {
		hi = len(buf)
	}
	return ShannonEntropy(buf[lo:hi])
}
