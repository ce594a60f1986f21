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

// Package carve implements the signature-carving pipeline: entropy-ranked
// signature scanning, a fragment index, header/footer pairing, and
// format-aware validation for JPEG and PNG.
package carve

import "errors"

// ErrInvalidFormat is never returned to a caller of Carve; a validator
// failure demotes a candidate to an unvalidated RecoveredFile and is
// counted by RecoveryStats instead of aborting the carve.
var ErrInvalidFormat = errors.New("carve: candidate failed format validation")

// ErrCancelled is returned by Scan/ScanParallel when the caller's
// cancellation flag was observed before the scan reached the end of the
// source. The FragmentMap accumulated up to that point is still returned
// and is well-defined to carve.
var ErrCancelled = errors.New("carve: scan cancelled")
