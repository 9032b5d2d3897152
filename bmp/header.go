package bmp

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
)

// header is the union of every BMP/OS2 info-header variant this decoder
// recognises, normalised to one shape regardless of which on-wire layout
// produced it (spec.md §4.5: "The decoder detects which variant by the
// information-header-size field").
type header struct {
	width, height              int
	topDown                    bool
	bpp                        int
	compression                int
	dataOffset                 int
	rMask, gMask, bMask, aMask uint32
}

func parseHeader(data []byte) (*header, error) {
	if len(data) < 14 || data[0] != 'B' || data[1] != 'M' {
		return nil, codecerr.New("bmp", codecerr.KindMagicBytes, errBadMagic)
	}
	dataOffset := int(binary.LittleEndian.Uint32(data[10:]))
	if len(data) < 18 {
		return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedHeader)
	}
	infoSize := int(binary.LittleEndian.Uint32(data[14:]))
	body := data[14:]
	if len(body) < infoSize {
		return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedHeader)
	}

	h := &header{dataOffset: dataOffset, compression: compRGB}

	switch {
	case infoSize == 12:
		// BITMAPCOREHEADER (OS/2 v1): 16-bit width/height.
		if len(body) < 12 {
			return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedHeader)
		}
		h.width = int(binary.LittleEndian.Uint16(body[4:]))
		h.height = int(binary.LittleEndian.Uint16(body[6:]))
		h.bpp = int(binary.LittleEndian.Uint16(body[10:]))
	case infoSize == 16 || infoSize == 64:
		// OS/2 v2, short or full form: 32-bit width/height, optional
		// compression/palette fields zero-filled if absent.
		if len(body) < 16 {
			return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedHeader)
		}
		h.width = int(int32(binary.LittleEndian.Uint32(body[4:])))
		h.height = int(int32(binary.LittleEndian.Uint32(body[8:])))
		h.bpp = int(binary.LittleEndian.Uint16(body[14:]))
		if infoSize >= 20 && len(body) >= 20 {
			h.compression = int(binary.LittleEndian.Uint32(body[16:]))
		}
	default:
		// BITMAPINFOHEADER (40) and every newer extension (52, 56, 108,
		// 124) share the same leading layout; extra fields (V2/V3 masks,
		// V4 colour space, V5 ICC profile) only add trailing bytes.
		if len(body) < 40 {
			return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedHeader)
		}
		h.width = int(int32(binary.LittleEndian.Uint32(body[4:])))
		rawHeight := int32(binary.LittleEndian.Uint32(body[8:]))
		if rawHeight < 0 {
			h.height = int(-rawHeight)
			h.topDown = true
		} else {
			h.height = int(rawHeight)
		}
		h.bpp = int(binary.LittleEndian.Uint16(body[14:]))
		h.compression = int(binary.LittleEndian.Uint32(body[16:]))
		if h.compression == compBitfields || h.compression == compAlphaBitfields {
			// V2INFOHEADER (52+) carries the masks inside the info header
			// itself; a bare 40-byte BITMAPINFOHEADER instead has them
			// immediately following it in the file (the classic
			// BI_BITFIELDS layout that predates V2INFOHEADER). Either way
			// they land at the same offset from body[0].
			if len(body) >= 52 {
				h.rMask = binary.LittleEndian.Uint32(body[40:])
				h.gMask = binary.LittleEndian.Uint32(body[44:])
				h.bMask = binary.LittleEndian.Uint32(body[48:])
			}
			if len(body) >= 56 {
				h.aMask = binary.LittleEndian.Uint32(body[52:])
			}
		}
	}

	if h.width <= 0 || h.height == 0 {
		return nil, codecerr.New("bmp", codecerr.KindCorrupt, errBadDimensions)
	}
	if h.bpp == 16 && h.compression == compRGB {
		// Classic 5-5-5 default for uncompressed 16bpp.
		h.rMask, h.gMask, h.bMask = 0x7C00, 0x03E0, 0x001F
		h.compression = compBitfields
	}
	return h, nil
}
