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
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cairnfs/cairn/internal/carve"
)

func TestReader_SequentialReads(t *testing.T) {
	r := carve.NewReader([]byte{1, 2, 3, 4, 5, 6})

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)

	peeked, err := r.Peek(2)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3}, peeked)
	require.Equal(t, 1, r.BytesRead()) // Peek doesn't advance

	require.NoError(t, r.Discard(2))
	require.Equal(t, 3, r.BytesRead())
	require.Equal(t, 3, r.Remaining())

	v16, err := r.ReadUint16BE()
	require.NoError(t, err)
	require.Equal(t, uint16(4)<<8|5, v16)
}

func TestReader_PeekPastEndIsEOF(t *testing.T) {
	r := carve.NewReader([]byte{1, 2})
	_, err := r.Peek(3)
	require.ErrorIs(t, err, io.EOF)
}

func TestReader_ReadUint32BE(t *testing.T) {
	r := carve.NewReader([]byte{0x00, 0x00, 0x01, 0x00})
	v, err := r.ReadUint32BE()
	require.NoError(t, err)
	require.Equal(t, uint32(256), v)
}

func TestReader_DiscardPastEndClampsAndReportsEOF(t *testing.T) {
	r := carve.NewReader([]byte{1, 2, 3})
	err := r.Discard(10)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, r.Remaining())
}
