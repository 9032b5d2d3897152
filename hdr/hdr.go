// Package hdr implements the Radiance/RGBE HDR decoder of spec.md §4.6: an
// ASCII `#?RADIANCE` header, `key=value` metadata lines, an orientation
// line, and per-scanline new/old-style RLE of four bytes per pixel (R, G,
// B, shared exponent). Grounded directly on
// original_source/zune-hdr/src/decoder.rs (header tokenizer, the
// old-style "1,1,1,run" flat-run detection and new-style per-channel RLE
// in decompress/decode_into, and convert_scanline's ldexp-based RGBE
// expansion), adapted from its Vec<f32> flat output to this module's
// core.Channel float32 planes. Decode-only.
package hdr

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

func wrap(kind codecerr.Kind, err error, format string, args ...any) error {
	return codecerr.Wrapf("hdr", kind, err, format, args...)
}
