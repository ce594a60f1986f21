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

import "bytes"

const (
	jpegRST0 = 0xd0
	jpegRST7 = 0xd7
	jpegTEM  = 0x01
	jpegSOI  = 0xd8
	jpegEOI  = 0xd9
	jpegAPP0 = 0xe0
	jpegAPP1 = 0xe1
)

var (
	jfifMagic = []byte("JFIF\x00")
	exifMagic = []byte("Exif\x00\x00")
)

// JpegValidation is the outcome of ValidateJPEG: the decoded size plus
// the metadata the walk happens to observe along the way.
type JpegValidation struct {
	Size    uint64
	Width   int
	Height  int
	HasJFIF bool
	HasExif bool
	Valid   bool
}

func isSOFMarker(b byte) bool {
	switch {
	case b >= 0xc0 && b <= 0xc3:
		return true
	case b >= 0xc5 && b <= 0xc7:
		return true
	case b >= 0xc9 && b <= 0xcb:
		return true
	case b >= 0xcd && b <= 0xcf:
		return true
	default:
		return false
	}
}

// isValidJpegMarker is the marker allow-list: {C0..CF, D0..DF, E0..EF, FE}.
// A marker byte outside this set indicates the candidate isn't a genuine
// JPEG segment stream and validation aborts rather than skipping it.
func isValidJpegMarker(b byte) bool {
	switch {
	case b >= 0xc0 && b <= 0xcf:
		return true
	case b >= 0xd0 && b <= 0xdf:
		return true
	case b >= 0xe0 && b <= 0xef:
		return true
	case b == 0xfe:
		return true
	default:
		return false
	}
}

// ValidateJPEG walks the marker segment stream of a candidate byte range
// that starts with FF D8 FF. Validation succeeds only if an EOI marker is
// reached, without exceeding buf, after at least one SOFn has been seen;
// the returned Size is the offset of the byte right after EOI.
func ValidateJPEG(buf []byte) JpegValidation {
	r := NewReader(buf)
	var sawSOF bool
	var out JpegValidation

	for {
		marker, ok := readMarker(r)
		if !ok {
			return out
		}

		switch {
		case marker == jpegTEM || (marker >= jpegRST0 && marker <= jpegRST7) || marker == jpegSOI:
			continue // no payload
		case marker == jpegEOI:
			out.Size = uint64(r.BytesRead())
			out.Valid = sawSOF
			return out
		case !isValidJpegMarker(marker):
			return out
		}

		length, err := r.ReadUint16BE()
		if err != nil || length < 2 {
			return out
		}
		payloadLen := int(length) - 2
		payload, err := r.Peek(payloadLen)
		if err != nil {
			return out
		}

		switch {
		case marker == jpegAPP0 && bytes.HasPrefix(payload, jfifMagic):
			out.HasJFIF = true
		case marker == jpegAPP1 && bytes.HasPrefix(payload, exifMagic):
			out.HasExif = true
		case isSOFMarker(marker) && payloadLen >= 5:
			out.Height = int(payload[1])<<8 | int(payload[2])
			out.Width = int(payload[3])<<8 | int(payload[4])
			sawSOF = true
		}

		if err := r.Discard(payloadLen); err != nil {
			return out
		}
	}
}

// readMarker reads the "FF XX" that starts every JPEG segment and returns
// XX. A leading byte other than 0xFF means the stream is corrupt.
func readMarker(r *Reader) (byte, bool) {
	lead, err := r.ReadByte()
	if err != nil || lead != 0xff {
		return 0, false
	}
	marker, err := r.ReadByte()
	if err != nil {
		return 0, false
	}
	return marker, true
}
