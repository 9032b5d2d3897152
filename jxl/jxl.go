// Package jxl implements the lossless-only subset of JPEG-XL named by
// spec.md §4.6: a simplified modular bitstream carrying a fixed header, a
// per-group table of contents, and per-channel prediction plus entropy
// coding of residuals.
//
// No reference implementation of JPEG-XL exists in the corpus this module
// was built against, so the bitstream itself is hand-rolled rather than
// ported: it borrows the teacher's canonical-Huffman-code machinery
// (internal/deflate/huffman.go's table construction, internal/lossless's
// CreateHuffmanTree length assignment) and its VP8L spatial-predictor idiom
// (internal/dsp/predict_lossless.go, internal/lossless/encode_predictor.go)
// rather than any JXL-specific source, per spec.md's direction to draw on
// the nearest idiom in the pack when no port target exists.
//
// Per-channel residuals are coded with a 19-symbol hybrid-uint alphabet
// (small values direct, larger values split into a bucket symbol plus
// extra bits) and an optional 33-symbol run-length alphabet that replaces
// a row's leading residuals with a single token when they repeat the row
// above for at least minLZ77Length samples. Both alphabets share one
// canonical-Huffman code-table implementation (huffman.go).
//
// Decode-only support for JPEG-XL's lossy VarDCT mode and full animation
// rendering are Non-goals (spec.md §1); this package recognises an
// animation flag in the header but only ever decodes/encodes a single
// frame.
package jxl

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

// minLZ77Length is the minimum number of leading residuals a row must share
// with the row above before the encoder replaces them with a single
// run-length token (spec.md §4.6).
const minLZ77Length = 7

// groupDim is the side length of one encode-parallel group (spec.md §5).
const groupDim = 256

func wrap(kind codecerr.Kind, err error, format string, args ...any) error {
	return codecerr.Wrapf("jxl", kind, err, format, args...)
}
