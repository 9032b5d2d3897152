package jxl

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
)

// magic is the real JPEG-XL raw-codestream signature (ISO/IEC 18181-1).
// This module implements only the lossless modular subset behind it, but
// reuses the standard two-byte signature rather than inventing one.
var magic = [2]byte{0xFF, 0x0A}

// header is the fixed, byte-aligned preamble (spec.md §4.6). Every
// multi-byte field is big-endian, matching this module's other
// byte-aligned container headers (png, qoi).
type header struct {
	width, height int
	space         core.ColourSpace
	depth         core.BitDepth
	animated      bool
}

func spaceCode(s core.ColourSpace) (byte, bool) {
	switch s {
	case core.Luma:
		return 0, true
	case core.LumaA:
		return 1, true
	case core.RGB:
		return 2, true
	case core.RGBA:
		return 3, true
	default:
		return 0, false
	}
}

func codeSpace(c byte) (core.ColourSpace, bool) {
	switch c {
	case 0:
		return core.Luma, true
	case 1:
		return core.LumaA, true
	case 2:
		return core.RGB, true
	case 3:
		return core.RGBA, true
	default:
		return core.Unknown, false
	}
}

func depthCode(d core.BitDepth) (byte, bool) {
	switch d {
	case core.Eight:
		return 8, true
	case core.Sixteen:
		return 16, true
	default:
		return 0, false
	}
}

func codeDepth(c byte) (core.BitDepth, bool) {
	switch c {
	case 8:
		return core.Eight, true
	case 16:
		return core.Sixteen, true
	default:
		return core.DepthUnknown, false
	}
}

// headerSize is the fixed byte length of the encoded header.
const headerSize = 2 + 4 + 4 + 1 + 1 + 1

func encodeHeader(h header) ([]byte, error) {
	sc, ok := spaceCode(h.space)
	if !ok {
		return nil, wrap(codecerr.KindUnsupported, errBadChannels, "%s", h.space)
	}
	dc, ok := depthCode(h.depth)
	if !ok {
		return nil, wrap(codecerr.KindUnsupported, errBadDepth, "%s", h.depth)
	}
	buf := make([]byte, headerSize)
	copy(buf[0:2], magic[:])
	binary.BigEndian.PutUint32(buf[2:6], uint32(h.width))
	binary.BigEndian.PutUint32(buf[6:10], uint32(h.height))
	buf[10] = sc
	buf[11] = dc
	if h.animated {
		buf[12] = 1
	}
	return buf, nil
}

func decodeHeader(data []byte) (header, int, error) {
	if len(data) < headerSize {
		return header{}, 0, wrap(codecerr.KindInsufficientData, errTruncated, "header")
	}
	if data[0] != magic[0] || data[1] != magic[1] {
		return header{}, 0, wrap(codecerr.KindMagicBytes, errBadMagic, "")
	}
	w := int(binary.BigEndian.Uint32(data[2:6]))
	h := int(binary.BigEndian.Uint32(data[6:10]))
	if w <= 0 || h <= 0 {
		return header{}, 0, wrap(codecerr.KindCorrupt, errBadDimensions, "%dx%d", w, h)
	}
	space, ok := codeSpace(data[10])
	if !ok {
		return header{}, 0, wrap(codecerr.KindUnsupportedVariant, errBadChannels, "code %d", data[10])
	}
	depth, ok := codeDepth(data[11])
	if !ok {
		return header{}, 0, wrap(codecerr.KindUnsupportedVariant, errBadDepth, "code %d", data[11])
	}
	return header{width: w, height: h, space: space, depth: depth, animated: data[12] != 0}, headerSize, nil
}
