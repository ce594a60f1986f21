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

// ImageFormat identifies a recognized raster image container.
type ImageFormat uint8

const (
	Unknown ImageFormat = iota
	Jpeg
	Png
	Gif
	Bmp
	WebP
	Tiff
)

func (f ImageFormat) String() string {
	switch f {
	case Jpeg:
		return "JPEG"
	case Png:
		return "PNG"
	case Gif:
		return "GIF"
	case Bmp:
		return "BMP"
	case WebP:
		return "WebP"
	case Tiff:
		return "TIFF"
	default:
		return "Unknown"
	}
}

// FragmentKind tags a detection event. It is one byte on the wire and must
// never collide with a valid offset.
type FragmentKind uint8

const (
	JpegHeader FragmentKind = iota
	JpegFooter
	PngHeader
	PngIend
	GifHeader
	BmpHeader
	WebpHeader
	TiffHeader
	UnknownHighEntropy
)

// FormatInfo is the static, compile-time catalog entry for one ImageFormat:
// magic header/footer byte patterns, maximum plausible file size, display
// name and preferred extension. New formats are added here and to the
// ImageFormat enum above; signature patterns are never read from
// configuration.
type FormatInfo struct {
	Format     ImageFormat
	Name       string
	Ext        string
	MaxSize    uint64
	Header     FragmentKind
	Footer     FragmentKind // zero value (JpegHeader) is meaningless unless HasFooter; GIF records a footer length but has no footer FragmentKind, so its Footer is left unset
	HasFooter  bool
	FooterLen  int
}

const (
	mib = 1 << 20
)

// signatureTable is the normative §4.2 catalog. Byte patterns and size
// caps are bit-exact per spec; GIF has two header variants (87a/89a).
var signatureTable = map[ImageFormat]FormatInfo{
	Jpeg: {Format: Jpeg, Name: "JPEG", Ext: "jpg", MaxSize: 50 * mib, Header: JpegHeader, Footer: JpegFooter, HasFooter: true, FooterLen: 2},
	Png:  {Format: Png, Name: "PNG", Ext: "png", MaxSize: 100 * mib, Header: PngHeader, Footer: PngIend, HasFooter: true, FooterLen: 8},
	Gif:  {Format: Gif, Name: "GIF", Ext: "gif", MaxSize: 50 * mib, Header: GifHeader, HasFooter: true, FooterLen: 2},
	Bmp:  {Format: Bmp, Name: "BMP", Ext: "bmp", MaxSize: 100 * mib, Header: BmpHeader},
	WebP: {Format: WebP, Name: "WebP", Ext: "webp", MaxSize: 100 * mib, Header: WebpHeader},
	Tiff: {Format: Tiff, Name: "TIFF", Ext: "tif", MaxSize: 500 * mib, Header: TiffHeader},
}

// FormatOf returns the static catalog entry for format.
func FormatOf(format ImageFormat) FormatInfo {
	return signatureTable[format]
}

// signature is one byte-pattern entry fed to the prefix table the scanner
// searches with; a format can own more than one pattern (GIF's two magic
// strings) and footers are modeled as their own entries so the scanner
// never special-cases header vs. footer matching.
type signature struct {
	pattern []byte
	kind    FragmentKind
}

// Signatures returns every normative byte pattern recognized by the
// scanner, in no particular order. JPEG's header pattern is 3 bytes
// (FF D8 FF); its footer is 2 bytes (FF D9). PNG's header is the 8-byte
// PNG signature; its footer is the fixed-CRC bytes of a well-formed,
// zero-length-less IEND chunk.
func Signatures() []signature {
	return []signature{
		{pattern: []byte{0xFF, 0xD8, 0xFF}, kind: JpegHeader},
		{pattern: []byte{0xFF, 0xD9}, kind: JpegFooter},
		{pattern: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, kind: PngHeader},
		{pattern: []byte{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}, kind: PngIend},
		{pattern: []byte("GIF87a"), kind: GifHeader},
		{pattern: []byte("GIF89a"), kind: GifHeader},
		{pattern: []byte{0x42, 0x4D}, kind: BmpHeader},
		{pattern: []byte{0x52, 0x49, 0x46, 0x46}, kind: WebpHeader}, // RIFF; WebP subtype deferred
		{pattern: []byte{0x49, 0x49, 0x2A, 0x00}, kind: TiffHeader}, // little-endian
		{pattern: []byte{0x4D, 0x4D, 0x00, 0x2A}, kind: TiffHeader}, // big-endian
	}
}

// MaxSignatureLen is the length of the longest recognized pattern (PNG's
// header/footer, both 8 bytes). Successive scan windows must overlap by
// MaxSignatureLen-1 bytes so no straddling match is missed.
const MaxSignatureLen = 8
