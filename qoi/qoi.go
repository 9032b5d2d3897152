// Package qoi implements the Quite OK Image Format decoder of spec.md §4.6:
// a 14-byte header followed by a stream of 1-to-5-byte tagged ops and a
// fixed 8-byte end marker. Grounded directly on
// original_source/zune-qoi/src/decoder.rs (decode_inner_generic's op
// dispatch and running-hash index), adapted from its const-generic
// 3/4-component split to a single component-count parameter and from its
// Vec<u8> output to this module's core.Channel planes. Decode-only.
package qoi

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

const (
	opRGB   = 0xFE
	opRGBA  = 0xFF
	mask2   = 0xC0
	opIndex = 0x00
	opDiff  = 0x40
	opLuma  = 0x80
	opRun   = 0xC0
)

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

func wrap(kind codecerr.Kind, err error, format string, args ...any) error {
	return codecerr.Wrapf("qoi", kind, err, format, args...)
}
