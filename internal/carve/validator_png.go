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
	"hash/crc32"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// PngInfo is the IHDR payload every well-formed PNG starts with.
type PngInfo struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType uint8
}

// pngChunk is one parsed [length][type][data][crc] record plus whether
// its CRC checked out.
type pngChunk struct {
	typ      [4]byte
	data     []byte
	crcValid bool
}

// readPngChunk reads one chunk from r, computing CRC-32 (IEEE 802.3,
// polynomial as implemented by hash/crc32.NewIEEE) over type++data and
// comparing it against the chunk's trailing 4-byte CRC. ok is false if
// the buffer runs out before the declared length or trailing CRC can be
// read at all (a structural break, distinct from a CRC mismatch).
func readPngChunk(r *Reader) (pngChunk, bool) {
	length, err := r.ReadUint32BE()
	if err != nil || length > 0x7fffffff {
		return pngChunk{}, false
	}

	var typ [4]byte
	if _, err := r.Read(typ[:]); err != nil {
		return pngChunk{}, false
	}

	data, err := r.Peek(int(length))
	if err != nil {
		return pngChunk{}, false
	}
	_ = r.Discard(int(length))

	crc := crc32.NewIEEE()
	crc.Write(typ[:])
	crc.Write(data)

	wantCRC, err := r.ReadUint32BE()
	if err != nil {
		return pngChunk{}, false
	}

	return pngChunk{typ: typ, data: data, crcValid: wantCRC == crc.Sum32()}, true
}

// isAsciiLetterChunkName reports whether every byte of name is an ASCII
// letter (A-Z or a-z), the validity rule the PNG spec places on chunk
// type names.
func isAsciiLetterChunkName(name [4]byte) bool {
	for _, b := range name {
		if !(b >= 'A' && b <= 'Z') && !(b >= 'a' && b <= 'z') {
			return false
		}
	}
	return true
}

// ValidatePNG walks a candidate byte range that starts with the 8-byte
// PNG signature, verifying every chunk's CRC and that IHDR is the first
// chunk. It returns the decoded IHDR fields, the total size up to and
// including IEND's CRC, and whether the whole chain validated cleanly.
func ValidatePNG(buf []byte) (info PngInfo, size uint64, ok bool) {
	r := NewReader(buf)

	sig, err := r.Peek(len(pngSignature))
	if err != nil || string(sig) != pngSignature {
		return info, 0, false
	}
	_ = r.Discard(len(pngSignature))

	first := true
	for {
		chunk, got := readPngChunk(r)
		if !got || !chunk.crcValid {
			return info, 0, false
		}

		if first {
			if string(chunk.typ[:]) != "IHDR" || len(chunk.data) < 13 {
				return info, 0, false
			}
			info.Width = be32(chunk.data[0:4])
			info.Height = be32(chunk.data[4:8])
			info.BitDepth = chunk.data[8]
			info.ColorType = chunk.data[9]
			first = false
		}

		if string(chunk.typ[:]) == "IEND" {
			return info, uint64(r.BytesRead()), true
		}
	}
}

// DetectBreak scans buf chunk-by-chunk looking for the first point of
// structural corruption: a declared chunk length that overruns buf, a
// CRC mismatch, or a chunk type whose 4 bytes aren't all ASCII letters.
// It returns (0, false) when a well-formed IEND is reached first (no
// break); otherwise it returns the offset at which the break was
// detected, where the recovered range should be truncated.
func DetectBreak(buf []byte) (offset uint64, broken bool) {
	r := NewReader(buf)

	sig, err := r.Peek(len(pngSignature))
	if err != nil || string(sig) != pngSignature {
		return 0, true
	}
	_ = r.Discard(len(pngSignature))

	for {
		before := r.BytesRead()
		chunk, got := readPngChunk(r)
		if !got {
			return uint64(before), true
		}
		if !chunk.crcValid {
			return uint64(before), true
		}
		if !isAsciiLetterChunkName(chunk.typ) {
			return uint64(before), true
		}
		if string(chunk.typ[:]) == "IEND" {
			return 0, false
		}
	}
}

// MatchesContinuation reports whether buf begins with a well-formed IDAT
// chunk (declared length, "IDAT" type, payload, valid CRC). Used to
// probe whether a byte range picks back up a PNG's compressed data
// stream after a fragmentation gap.
func MatchesContinuation(buf []byte) bool {
	r := NewReader(buf)
	chunk, got := readPngChunk(r)
	return got && chunk.crcValid && string(chunk.typ[:]) == "IDAT"
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
