// Package ppm implements the PNM family decoder of spec.md §4.6: P5
// (grayscale), P6 (RGB), and P7/PAM (explicit WIDTH/HEIGHT/DEPTH/MAXVAL/
// TUPLTYPE tokens). Grounded directly on
// original_source/zune-ppm/src/decoder.rs's header tokenizer
// (skip_spaces/get_bytes_until_whitespace/get_integer) and its P5/P6 vs.
// P7 header split, adapted from its DecodingResult(U8|U16) enum to this
// module's core.Channel/core.Image. Decode-only.
package ppm

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

func wrap(kind codecerr.Kind, err error, format string, args ...any) error {
	return codecerr.Wrapf("ppm", kind, err, format, args...)
}
