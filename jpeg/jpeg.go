// Package jpeg implements the baseline and progressive JPEG decoder of
// spec.md §4.4 (ITU T.81): marker parsing, Huffman/quantisation table
// loading, entropy decode, inverse DCT, chroma up-sampling and colour
// conversion into a core.Image. Encoding is out of scope (decode-only
// component, same as the source toolkit).
package jpeg

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

const (
	maxComponents = 4
	maxTh         = 3 // table selector is a 2-bit field, so 0..3
	blockSize     = 64
)

// block is one 8x8 DCT block in natural (not zig-zag) row-major order.
type block [blockSize]int32

// unzig maps a zig-zag scan position to its natural row-major index
// (spec.md §4.4 "un-zig-zags on load into natural row-major order";
// JPEG uses the same diagonal scan PNG's glossary calls out under
// "Zig-zag").
var unzig = [blockSize]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Marker byte values following an 0xFF marker prefix.
const (
	sof0Marker  = 0xC0 // Baseline sequential.
	sof1Marker  = 0xC1 // Extended sequential.
	sof2Marker  = 0xC2 // Progressive.
	dhtMarker   = 0xC4
	rst0Marker  = 0xD0
	rst7Marker  = 0xD7
	soiMarker   = 0xD8
	eoiMarker   = 0xD9
	sosMarker   = 0xDA
	dqtMarker   = 0xDB
	dnlMarker   = 0xDC
	driMarker   = 0xDD
	comMarker   = 0xFE
	app0Marker  = 0xE0
	app14Marker = 0xEE
	app15Marker = 0xEF
)

// component holds one SOF component's sampling/table selectors.
type component struct {
	id        uint8
	h, v      int // horizontal/vertical sampling factors
	quantSel  int
	dcTableSel int
	acTableSel int
}

func wrap(kind codecerr.Kind, err error, format string, args ...any) error {
	return codecerr.Wrapf("jpeg", kind, err, format, args...)
}
