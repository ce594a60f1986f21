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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cairnfs/cairn/internal/carve"
)

func collectCarved(m *carve.FragmentMap, source *memSource) []carve.RecoveredFile {
	var out []carve.RecoveredFile
	for rf := range carve.Carve(m, source) {
		out = append(out, rf)
	}
	return out
}

func TestCarve_JPEGFormatAware(t *testing.T) {
	jpeg := minimalJPEG(16, 16)
	data := append([]byte{0, 0, 0, 0}, jpeg...) // leading padding so the header isn't at offset 0

	m := carve.NewFragmentMap()
	m.Push(carve.Fragment{Offset: 4, Kind: carve.JpegHeader, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(data) - 2), Kind: carve.JpegFooter, Entropy: 8.0})

	files := collectCarved(m, newMemSource(data))
	require.Len(t, files, 1)
	require.Equal(t, carve.Jpeg, files[0].Format)
	require.True(t, files[0].Validated)
	require.Equal(t, carve.FormatAware, files[0].Method)
	require.Equal(t, uint64(4), files[0].ByteRanges[0].Start)
	require.Equal(t, uint64(len(data)), files[0].ByteRanges[0].End)
}

func TestCarve_JPEGMultipleContiguous(t *testing.T) {
	first := minimalJPEG(8, 8)
	second := minimalJPEG(4, 4)
	data := append(append([]byte{}, first...), second...)

	m := carve.NewFragmentMap()
	m.Push(carve.Fragment{Offset: 0, Kind: carve.JpegHeader, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(first) - 2), Kind: carve.JpegFooter, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(first)), Kind: carve.JpegHeader, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(data) - 2), Kind: carve.JpegFooter, Entropy: 8.0})

	files := collectCarved(m, newMemSource(data))
	require.Len(t, files, 2)
	require.Equal(t, uint64(0), files[0].ByteRanges[0].Start)
	require.Equal(t, uint64(len(first)), files[0].ByteRanges[0].End)
	require.Equal(t, uint64(len(first)), files[1].ByteRanges[0].Start)
	require.Equal(t, uint64(len(data)), files[1].ByteRanges[0].End)
}

func TestCarve_PNGFormatAware(t *testing.T) {
	data := minimalPNG(50, 60)

	m := carve.NewFragmentMap()
	m.Push(carve.Fragment{Offset: 0, Kind: carve.PngHeader, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(data) - 8), Kind: carve.PngIend, Entropy: 8.0})

	files := collectCarved(m, newMemSource(data))
	require.Len(t, files, 1)
	require.Equal(t, carve.Png, files[0].Format)
	require.True(t, files[0].Validated)
	require.Equal(t, uint64(len(data)), files[0].Size())
}

func TestCarve_BMPSizedHeader(t *testing.T) {
	const size = 54 // header + a trivial one-pixel bitmap
	bmp := make([]byte, size)
	bmp[0], bmp[1] = 'B', 'M'
	bmp[2], bmp[3], bmp[4], bmp[5] = byte(size), byte(size>>8), byte(size>>16), byte(size>>24)

	data := append([]byte{0xAA, 0xAA}, bmp...) // leading padding

	m := carve.NewFragmentMap()
	m.Push(carve.Fragment{Offset: 2, Kind: carve.BmpHeader, Entropy: 8.0})

	files := collectCarved(m, newMemSource(data))
	require.Len(t, files, 1)
	require.Equal(t, carve.Bmp, files[0].Format)
	require.Equal(t, uint64(2), files[0].ByteRanges[0].Start)
	require.Equal(t, uint64(2+size), files[0].ByteRanges[0].End)
	require.False(t, files[0].Validated)
	require.Equal(t, carve.Linear, files[0].Method)
}

func TestCarve_JPEGAndBMPNonOverlapping(t *testing.T) {
	jpeg := minimalJPEG(4, 4)
	const bmpSize = 20
	bmp := make([]byte, bmpSize)
	bmp[0], bmp[1] = 'B', 'M'
	bmp[2], bmp[3], bmp[4], bmp[5] = byte(bmpSize), 0, 0, 0

	data := append(append([]byte{}, jpeg...), bmp...)

	m := carve.NewFragmentMap()
	m.Push(carve.Fragment{Offset: 0, Kind: carve.JpegHeader, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(jpeg) - 2), Kind: carve.JpegFooter, Entropy: 8.0})
	m.Push(carve.Fragment{Offset: uint64(len(jpeg)), Kind: carve.BmpHeader, Entropy: 8.0})

	files := collectCarved(m, newMemSource(data))
	require.Len(t, files, 2)
	require.Equal(t, carve.Jpeg, files[0].Format)
	require.Equal(t, carve.Bmp, files[1].Format)
	require.Equal(t, uint64(len(jpeg)), files[1].ByteRanges[0].Start)
	require.Equal(t, uint64(len(data)), files[1].ByteRanges[0].End)
}

func TestRecoveredFile_SuggestedName(t *testing.T) {
	rf := carve.RecoveredFile{ID: 42, Format: carve.Jpeg}
	require.Equal(t, "f000042.jpg", rf.SuggestedName())
}
