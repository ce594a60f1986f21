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

func TestShannonEntropy_Empty(t *testing.T) {
	require.Equal(t, float32(0), carve.ShannonEntropy(nil))
	require.Equal(t, float32(0), carve.ShannonEntropy([]byte{}))
}

func TestShannonEntropy_Zero(t *testing.T) {
	buf := make([]byte, 1024)
	require.Equal(t, float32(0), carve.ShannonEntropy(buf))
}

func TestShannonEntropy_Max(t *testing.T) {
	buf := make([]byte, 256*4)
	for i := range buf {
		buf[i] = byte(i % 256)
	}
	h := carve.ShannonEntropy(buf)
	require.InDelta(t, 8.0, h, 0.001)
}

func TestShannonEntropy_Monotonic(t *testing.T) {
	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}
	skewed := make([]byte, 256)
	for i := range skewed {
		if i < 250 {
			skewed[i] = 0
		} else {
			skewed[i] = byte(i)
		}
	}
	require.Greater(t, carve.ShannonEntropy(uniform), carve.ShannonEntropy(skewed))
}
