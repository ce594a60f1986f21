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
	"fmt"
	"sort"

	"github.com/cairnfs/cairn/internal/block"
)

// Method tags how a RecoveredFile's boundaries were determined.
type Method uint8

const (
	Linear Method = iota
	FormatAware
	MetadataAssisted
)

func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case FormatAware:
		return "format_aware"
	case MetadataAssisted:
		return "metadata_assisted"
	default:
		return "unknown"
	}
}

// ByteRange is a half-open [Start, End) span of device offsets.
type ByteRange struct {
	Start uint64
	End   uint64
}

func (r ByteRange) Len() uint64 { return r.End - r.Start }

// RecoveredFile is one carved output. ByteRanges is usually a single
// range; multiple ranges are reserved for filesystem-hint-assisted
// reassembly of fragmented files, which this pipeline never produces on
// its own.
type RecoveredFile struct {
	ID         uint64
	Format     ImageFormat
	ByteRanges []ByteRange
	Method     Method
	Validated  bool
}

// Size is the sum of the lengths of every byte range.
func (f RecoveredFile) Size() uint64 {
	var n uint64
	for _, r := range f.ByteRanges {
		n += r.Len()
	}
	return n
}

// SuggestedName builds a carver-style output filename from the file's ID
// and format, e.g. "f000042.jpg".
func (f RecoveredFile) SuggestedName() string {
	return fmt.Sprintf("f%06d.%s", f.ID, FormatOf(f.Format).Ext)
}

// candidate is an unfinalized RecoveredFile awaiting the global
// overlap-reconciliation pass; headerLen records the matched header
// signature's length so same-offset collisions can be tie-broken.
type candidate struct {
	rf        RecoveredFile
	headerLen int
}

// Carve pairs the fragments in m against source to produce a sequence of
// RecoveredFile values, as a Go 1.23 range-over-func iterator. Per-format
// pairing happens first (JPEG/PNG header-footer matching, BMP/WebP/TIFF
// embedded-size decoding); the resulting candidates are then merged in
// offset order, same-start collisions are resolved in favor of the
// longer header signature, and later ranges are trimmed (or dropped, if
// trimming would make them empty) against earlier ones so the final
// stream never overlaps.
func Carve(m *FragmentMap, source block.Source) func(yield func(RecoveredFile) bool) {
	return func(yield func(RecoveredFile) bool) {
		var candidates []candidate
		candidates = append(candidates, carveJPEG(m, source)...)
		candidates = append(candidates, carvePNG(m, source)...)
		candidates = append(candidates, carveSizedHeader(m, source, Bmp, decodeBmpSize)...)
		candidates = append(candidates, carveSizedHeader(m, source, WebP, decodeWebpSize)...)
		candidates = append(candidates, carveSizedHeader(m, source, Tiff, decodeTiffSize)...)

		sort.SliceStable(candidates, func(i, j int) bool {
			ri, rj := candidates[i].rf.ByteRanges[0], candidates[j].rf.ByteRanges[0]
			if ri.Start != rj.Start {
				return ri.Start < rj.Start
			}
			return candidates[i].headerLen > candidates[j].headerLen
		})

		var nextID uint64
		var lastEnd uint64
		var prevStart uint64
		havePrev := false

		for _, c := range candidates {
			rng := c.rf.ByteRanges[0]

			if havePrev && rng.Start == prevStart {
				continue // lower-priority collision at the same start: discarded
			}
			prevStart, havePrev = rng.Start, true

			if rng.Start < lastEnd {
				rng.Start = lastEnd
			}
			if rng.Start >= rng.End {
				continue // trimming emptied the range entirely
			}

			rf := c.rf
			rf.ByteRanges = []ByteRange{rng}
			rf.ID = nextID
			nextID++
			lastEnd = rng.End

			if !yield(rf) {
				return
			}
		}
	}
}

// carveJPEG implements the §4.8 JPEG algorithm: for each viable header,
// find the nearest unclaimed footer within JpegMax, validate the
// in-between bytes, and advance past whichever range (validated or raw)
// was emitted so headers inside it are skipped.
func carveJPEG(m *FragmentMap, source block.Source) []candidate {
	headers := m.Viable(JpegHeader)
	footers := m.Iter(JpegFooter)
	maxSize := FormatOf(Jpeg).MaxSize
	headerLen := signatureLen(JpegHeader)

	var out []candidate
	footerIdx := 0
	var consumedUpTo uint64

	for _, h := range headers {
		if h.Offset < consumedUpTo {
			continue
		}

		for footerIdx < len(footers) && footers[footerIdx].Offset <= h.Offset {
			footerIdx++
		}

		if footerIdx >= len(footers) || footers[footerIdx].Offset-h.Offset > maxSize {
			continue
		}
		footer := footers[footerIdx]
		footerIdx++

		rawEnd := footer.Offset + 2
		buf, err := readRange(source, h.Offset, rawEnd)
		end := rawEnd
		validated := false
		method := Linear

		if err == nil {
			v := ValidateJPEG(buf)
			if v.Valid && v.Size <= uint64(len(buf)) {
				end = h.Offset + v.Size
				validated = true
				method = FormatAware
			}
		}

		out = append(out, candidate{
			rf: RecoveredFile{
				Format:     Jpeg,
				ByteRanges: []ByteRange{{Start: h.Offset, End: end}},
				Method:     method,
				Validated:  validated,
			},
			headerLen: headerLen,
		})
		consumedUpTo = end
	}
	return out
}

// carvePNG implements the §4.8 PNG algorithm: pair each header with the
// nearest subsequent IEND within PngMax, run the chunk-walking validator,
// and on a structural break emit the truncated, unvalidated range
// instead.
func carvePNG(m *FragmentMap, source block.Source) []candidate {
	headers := m.Viable(PngHeader)
	footers := m.Iter(PngIend)
	maxSize := FormatOf(Png).MaxSize
	headerLen := signatureLen(PngHeader)

	var out []candidate
	footerIdx := 0
	var consumedUpTo uint64

	for _, h := range headers {
		if h.Offset < consumedUpTo {
			continue
		}

		for footerIdx < len(footers) && footers[footerIdx].Offset <= h.Offset {
			footerIdx++
		}

		if footerIdx >= len(footers) || footers[footerIdx].Offset-h.Offset > maxSize {
			continue
		}
		footer := footers[footerIdx]
		footerIdx++

		rawEnd := footer.Offset + 8
		buf, err := readRange(source, h.Offset, rawEnd)
		if err != nil {
			continue
		}

		var end uint64
		var validated bool
		method := Linear

		if _, size, ok := ValidatePNG(buf); ok {
			end = h.Offset + size
			validated = true
			method = FormatAware
		} else if breakOffset, broken := DetectBreak(buf); broken {
			if breakOffset == 0 {
				continue // not even a recognizable PNG start
			}
			end = h.Offset + breakOffset
		} else {
			end = rawEnd
		}

		if end <= h.Offset {
			continue
		}

		out = append(out, candidate{
			rf: RecoveredFile{
				Format:     Png,
				ByteRanges: []ByteRange{{Start: h.Offset, End: end}},
				Method:     method,
				Validated:  validated,
			},
			headerLen: headerLen,
		})
		consumedUpTo = end
	}
	return out
}

// sizeDecoder extracts a declared total file size from a format's header
// bytes; ok is false when the header is truncated or the decoded size is
// nonsensical.
type sizeDecoder func(header []byte) (size uint64, ok bool)

// carveSizedHeader handles the footer-less formats (BMP, WebP, TIFF):
// read enough of the header to run decode, emit a raw, unvalidated range
// of the decoded size clamped to the format's max size and the source's
// remaining bytes.
func carveSizedHeader(m *FragmentMap, source block.Source, format ImageFormat, decode sizeDecoder) []candidate {
	info := FormatOf(format)
	headers := m.Viable(info.Header)
	headerLen := signatureLen(info.Header)

	const probeLen = 4096 // BMP/WebP only need the first dozen bytes; TIFF's first IFD needs more room

	var out []candidate
	for _, h := range headers {
		probe, err := readRange(source, h.Offset, h.Offset+probeLen)
		if err != nil && len(probe) == 0 {
			continue
		}

		size, ok := decode(probe)
		if !ok || size == 0 {
			continue
		}
		if size > info.MaxSize {
			size = info.MaxSize
		}

		end := h.Offset + size
		if remaining := source.Size(); end > remaining {
			end = remaining
		}
		if end <= h.Offset {
			continue
		}

		out = append(out, candidate{
			rf: RecoveredFile{
				Format:     format,
				ByteRanges: []ByteRange{{Start: h.Offset, End: end}},
				Method:     Linear,
				Validated:  false,
			},
			headerLen: headerLen,
		})
	}
	return out
}

// decodeBmpSize reads the little-endian u32 file-size field at offset 2
// of the BMP header.
func decodeBmpSize(header []byte) (uint64, bool) {
	if len(header) < 6 {
		return 0, false
	}
	size := uint32(header[2]) | uint32(header[3])<<8 | uint32(header[4])<<16 | uint32(header[5])<<24
	return uint64(size), size > 0
}

// decodeWebpSize reads the RIFF container's little-endian u32 chunk-size
// field at offset 4 and adds the 8 bytes of the "RIFF"+size header itself
// to get the total file size.
func decodeWebpSize(header []byte) (uint64, bool) {
	if len(header) < 8 {
		return 0, false
	}
	riffSize := uint32(header[4]) | uint32(header[5])<<8 | uint32(header[6])<<16 | uint32(header[7])<<24
	if riffSize == 0 {
		return 0, false
	}
	return uint64(riffSize) + 8, true
}

// decodeTiffSize performs a best-effort first-IFD walk: for every entry
// whose value doesn't fit inline (count*elementSize > 4 bytes), the
// entry's 4-byte field is itself an offset to the out-of-line data, and
// the total file size is estimated as the farthest such (offset+length)
// reached. This is intentionally partial (it does not chase nested IFDs)
// since a full TIFF parser is outside this pipeline's remit.
var tiffTypeSize = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

func decodeTiffSize(header []byte) (uint64, bool) {
	if len(header) < 8 {
		return 0, false
	}

	var bo byteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		bo = littleEndian
	case header[0] == 'M' && header[1] == 'M':
		bo = bigEndian
	default:
		return 0, false
	}

	ifdOffset := uint64(bo.u32(header[4:8]))
	if ifdOffset+2 > uint64(len(header)) {
		// The probe window never reaches the IFD; fall back to treating
		// the IFD offset itself as a lower-bound size estimate.
		return ifdOffset, ifdOffset > 8
	}

	count := bo.u16(header[ifdOffset : ifdOffset+2])
	maxEnd := ifdOffset + 2 + uint64(count)*12 + 4

	for i := uint64(0); i < uint64(count); i++ {
		entryOff := ifdOffset + 2 + i*12
		if entryOff+12 > uint64(len(header)) {
			break // entry lives past the probe window; maxEnd already covers it
		}
		typ := bo.u16(header[entryOff+2 : entryOff+4])
		cnt := uint64(bo.u32(header[entryOff+4 : entryOff+8]))
		elemSize := tiffTypeSize[typ]
		if elemSize == 0 {
			continue
		}
		dataLen := cnt * elemSize
		if dataLen <= 4 {
			continue // value is stored inline in the entry itself
		}
		dataOffset := uint64(bo.u32(header[entryOff+8 : entryOff+12]))
		if end := dataOffset + dataLen; end > maxEnd {
			maxEnd = end
		}
	}

	return maxEnd, maxEnd > 8
}

type byteOrder uint8

const (
	littleEndian byteOrder = iota
	bigEndian
)

func (bo byteOrder) u32(b []byte) uint32 {
	if bo == littleEndian {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (bo byteOrder) u16(b []byte) uint16 {
	if bo == littleEndian {
		return uint16(b[0]) | uint16(b[1])<<8
	}
	return uint16(b[0])<<8 | uint16(b[1])
}

// readRange reads [start, end) from source, returning as many bytes as
// were actually available (a short read at the end of the medium is not
// an error here: validators are expected to fail closed on truncation).
func readRange(source block.Source, start, end uint64) ([]byte, error) {
	if end <= start {
		return nil, fmt.Errorf("carve: empty range [%d, %d)", start, end)
	}
	buf := make([]byte, end-start)
	n, err := source.ReadAt(start, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// signatureLen returns the byte length of the pattern registered for
// kind, used only to break ties between candidates that start at the
// same offset.
func signatureLen(kind FragmentKind) int {
	for _, s := range Signatures() {
		if s.kind == kind {
			return len(s.pattern)
		}
	}
	return 0
}
