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

// minimalJPEG builds SOI, an SOF0 segment declaring width x height, and EOI.
func minimalJPEG(width, height uint16) []byte {
	payload := []byte{
		8, // precision
		byte(height >> 8), byte(height),
		byte(width >> 8), byte(width),
	}
	length := uint16(len(payload) + 2)

	buf := []byte{0xFF, 0xD8, 0xFF, 0xC0, byte(length >> 8), byte(length)}
	buf = append(buf, payload...)
	buf = append(buf, 0xFF, 0xD9)
	return buf
}

func TestValidateJPEG_Valid(t *testing.T) {
	buf := minimalJPEG(32, 16)

	v := carve.ValidateJPEG(buf)
	require.True(t, v.Valid)
	require.Equal(t, 32, v.Width)
	require.Equal(t, 16, v.Height)
	require.Equal(t, uint64(len(buf)), v.Size)
}

func TestValidateJPEG_WithJFIFMarker(t *testing.T) {
	buf := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x07}
	buf = append(buf, []byte("JFIF\x00")...)
	buf = append(buf, minimalJPEG(10, 10)[2:]...) // SOF0 + EOI, skipping the SOI we already have

	v := carve.ValidateJPEG(buf)
	require.True(t, v.Valid)
	require.True(t, v.HasJFIF)
}

func TestValidateJPEG_NoSOF_Invalid(t *testing.T) {
	buf := []byte{0xFF, 0xD8, 0xFF, 0xD9} // SOI directly followed by EOI, no SOF segment
	v := carve.ValidateJPEG(buf)
	require.False(t, v.Valid)
}

func TestValidateJPEG_Truncated(t *testing.T) {
	buf := minimalJPEG(32, 16)
	v := carve.ValidateJPEG(buf[:len(buf)-3]) // cut off before EOI
	require.False(t, v.Valid)
}

func TestValidateJPEG_UnknownMarkerRejected(t *testing.T) {
	buf := []byte{0xFF, 0xD8, 0xFF, 0x05, 0x00, 0x02} // 0x05 is outside the allow-list
	v := carve.ValidateJPEG(buf)
	require.False(t, v.Valid)
}
