// Package bmp implements the Windows/OS2 BMP decoder of spec.md §4.5: every
// historical information-header variant (12/16/40/52/56/64/108/124 bytes),
// RGB/RLE4/RLE8/BITFIELDS compression, palette expansion, and bottom-up row
// order. No complete pack repo ships a BMP decoder; header-variant naming
// and the RLE escape-pair state machine are grounded directly on spec.md
// §4.5 (cross-checked against the field layouts documented in
// other_examples/bmpinspect, a BMP *inspector* — not a decoder, so read for
// field semantics only) and against original_source/zune-bmp's decoder.rs
// for ambiguous edge cases (odd-width absolute runs, delta escape
// clamping). Decode-only, matching the source toolkit's BMP scope.
package bmp

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

// Compression enum values (spec.md §4.5).
const (
	compRGB            = 0
	compRLE8           = 1
	compRLE4           = 2
	compBitfields      = 3
	compJPEG           = 4
	compPNG            = 5
	compAlphaBitfields = 6
)

func wrap(kind codecerr.Kind, err error, format string, args ...any) error {
	return codecerr.Wrapf("bmp", kind, err, format, args...)
}
