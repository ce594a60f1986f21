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
package carve_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cairnfs/cairn/internal/carve"
)

// randomFill writes deterministic high-entropy bytes into buf so planted
// signatures clear ViableEntropyThreshold without tripping it themselves
// (the signature bytes are a negligible fraction of the surrounding
// EntropyWindow).
func randomFill(buf []byte) {
	x := uint32(0x2545F491)
	for i := range buf {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		buf[i] = byte(x)
	}
}

func TestScan_FindsJPEGHeaderAndFooter(t *testing.T) {
	buf := make([]byte, 20000)
	randomFill(buf)
	copy(buf[1000:], []byte{0xFF, 0xD8, 0xFF})
	copy(buf[5000:], []byte{0xFF, 0xD9})

	fragments, err := carve.Scan(newMemSource(buf), nil, nil)
	require.NoError(t, err)

	headers := fragments.Iter(carve.JpegHeader)
	require.Len(t, headers, 1)
	require.Equal(t, uint64(1000), headers[0].Offset)

	footers := fragments.Iter(carve.JpegFooter)
	require.Len(t, footers, 1)
	require.Equal(t, uint64(5000), footers[0].Offset)
}

func TestScan_BoundaryStraddlingSignature(t *testing.T) {
	// Plant the 8-byte PNG signature straddling a buffer-sized boundary so
	// the overlap window is the only thing that can catch it.
	buf := make([]byte, carve.BufferSize+4000)
	randomFill(buf)
	sig := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	offset := carve.BufferSize - 3
	copy(buf[offset:], sig)

	fragments, err := carve.Scan(newMemSource(buf), nil, nil)
	require.NoError(t, err)

	headers := fragments.Iter(carve.PngHeader)
	require.Len(t, headers, 1)
	require.Equal(t, uint64(offset), headers[0].Offset)
}

func TestScan_Cancelled(t *testing.T) {
	buf := make([]byte, carve.BufferSize*3)
	randomFill(buf)

	var cancel atomic.Bool
	cancel.Store(true)

	_, err := carve.Scan(newMemSource(buf), &cancel, nil)
	require.ErrorIs(t, err, carve.ErrCancelled)
}

func TestScanParallel_MatchesScan(t *testing.T) {
	buf := make([]byte, 50000)
	randomFill(buf)
	copy(buf[100:], []byte{0xFF, 0xD8, 0xFF})
	copy(buf[20000:], []byte{0xFF, 0xD9})
	copy(buf[40000:], []byte{0x42, 0x4D}) // BMP

	serial, err := carve.Scan(newMemSource(buf), nil, nil)
	require.NoError(t, err)

	parallel, err := carve.ScanParallel(newMemSource(buf), 4, nil, nil)
	require.NoError(t, err)

	require.Equal(t, serial.Len(), parallel.Len())
	require.Equal(t, serial.Iter(carve.JpegHeader), parallel.Iter(carve.JpegHeader))
	require.Equal(t, serial.Iter(carve.JpegFooter), parallel.Iter(carve.JpegFooter))
	require.Equal(t, serial.Iter(carve.BmpHeader), parallel.Iter(carve.BmpHeader))
}

func TestScanParallel_SingleStripeFallsBackToScan(t *testing.T) {
	buf := make([]byte, 1000)
	randomFill(buf)
	copy(buf[10:], []byte{0xFF, 0xD8, 0xFF})

	fragments, err := carve.ScanParallel(newMemSource(buf), 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, fragments.Iter(carve.JpegHeader), 1)
}
