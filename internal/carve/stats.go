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

// RecoveryStats is a stateless aggregate over a batch of RecoveredFile
// values, partitioned by (format, method).
type RecoveryStats struct {
	JpegLinear      int
	JpegFormatAware int
	PngLinear       int
	PngFormatAware  int
	TotalBytes      uint64
	TotalFiles      int
}

// NewRecoveryStats builds a RecoveryStats by folding over files. It never
// mutates its input and holds no reference to it afterward.
func NewRecoveryStats(files []RecoveredFile) RecoveryStats {
	var s RecoveryStats
	for _, f := range files {
		s.TotalFiles++
		s.TotalBytes += f.Size()

		switch {
		case f.Format == Jpeg && f.Method == Linear:
			s.JpegLinear++
		case f.Format == Jpeg && f.Method == FormatAware:
			s.JpegFormatAware++
		case f.Format == Png && f.Method == Linear:
			s.PngLinear++
		case f.Format == Png && f.Method == FormatAware:
			s.PngFormatAware++
		}
	}
	return s
}

// Add folds other's file into the stats and returns the updated value,
// letting callers accumulate stats incrementally from a RecoveredFile
// stream without buffering it into a slice first.
func (s RecoveryStats) Add(f RecoveredFile) RecoveryStats {
	return NewRecoveryStats([]RecoveredFile{f}).merge(s)
}

func (s RecoveryStats) merge(other RecoveryStats) RecoveryStats {
	return RecoveryStats{
		JpegLinear:      s.JpegLinear + other.JpegLinear,
		JpegFormatAware: s.JpegFormatAware + other.JpegFormatAware,
		PngLinear:       s.PngLinear + other.PngLinear,
		PngFormatAware:  s.PngFormatAware + other.PngFormatAware,
		TotalBytes:      s.TotalBytes + other.TotalBytes,
		TotalFiles:      s.TotalFiles + other.TotalFiles,
	}
}
