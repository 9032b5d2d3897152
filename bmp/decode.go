package bmp

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Decoder holds one BMP decode's parsed state.
type Decoder struct {
	data []byte
	opts options.Options
	hdr  *header
}

// NewDecoder builds a Decoder over the full file buffer.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: opts}
}

// DecodeHeaders parses the file/info header, idempotently.
func (d *Decoder) DecodeHeaders() error {
	if d.hdr != nil {
		return nil
	}
	hdr, err := parseHeader(d.data)
	if err != nil {
		return err
	}
	d.hdr = hdr
	return nil
}

// Dimensions returns (width, height) once headers are decoded.
func (d *Decoder) Dimensions() (int, int, bool) {
	if d.hdr == nil {
		return 0, 0, false
	}
	return d.hdr.width, d.hdr.height, true
}

// ColourSpace reports RGBA when the info header carries a non-zero alpha
// mask, RGB otherwise.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if d.hdr == nil {
		return core.Unknown, false
	}
	if d.hdr.aMask != 0 {
		return core.RGBA, true
	}
	return core.RGB, true
}

// Depth always reports Eight; no historical BMP variant carries more than
// 8 bits per channel.
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if d.hdr == nil {
		return core.DepthUnknown, false
	}
	return core.Eight, true
}

// Decode parses the file/info headers, expands the pixel data through
// whichever of RGB/RLE4/RLE8/BITFIELDS compression applies, and returns a
// single-frame core.Image (spec.md §4.5). BMP carries no animation.
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}
	hdr := d.hdr
	if (d.opts.MaxWidth > 0 && hdr.width > d.opts.MaxWidth) || (d.opts.MaxHeight > 0 && hdr.height > d.opts.MaxHeight) {
		return nil, wrap(codecerr.KindOverLimit, errBadDimensions, "dimensions %dx%d exceed limit", hdr.width, hdr.height)
	}

	var palette []byte // RGB triples, one per palette entry
	paletteEntrySize := 4
	infoSize := 40
	// Re-derive infoSize the same way parseHeader did, to locate the
	// palette immediately following the info header (classic layout) or
	// after it plus bitfield masks (when BITFIELDS masks live outside a
	// V2/V3 header).
	if len(d.data) >= 18 {
		infoSize = int(binary.LittleEndian.Uint32(d.data[14:]))
	}
	if infoSize == 12 {
		paletteEntrySize = 3
	}
	paletteStart := 14 + infoSize
	if hdr.compression == compBitfields || hdr.compression == compAlphaBitfields {
		if infoSize == 40 {
			paletteStart += 12 // external masks following a bare BITMAPINFOHEADER
		}
	}
	if hdr.bpp <= 8 {
		paletteCount := 1 << uint(hdr.bpp)
		if hdr.dataOffset > paletteStart {
			avail := (hdr.dataOffset - paletteStart) / paletteEntrySize
			if avail < paletteCount {
				paletteCount = avail
			}
		}
		palette = make([]byte, paletteCount*3)
		for i := 0; i < paletteCount; i++ {
			off := paletteStart + i*paletteEntrySize
			if off+3 > len(d.data) {
				break
			}
			// Palette entries are stored BGR(A); channel order flips to
			// RGB on read.
			palette[i*3+0] = d.data[off+2]
			palette[i*3+1] = d.data[off+1]
			palette[i*3+2] = d.data[off+0]
		}
		if len(palette) == 0 {
			return nil, wrap(codecerr.KindCorrupt, errMissingPalette, "indexed image missing palette")
		}
	}

	if hdr.dataOffset <= 0 || hdr.dataOffset > len(d.data) {
		return nil, wrap(codecerr.KindInsufficientData, errTruncatedPixels, "pixel data offset out of range")
	}
	pixelData := d.data[hdr.dataOffset:]

	rgb, hasAlpha, err := d.decodePixels(hdr, palette, pixelData)
	if err != nil {
		return nil, err
	}

	space := core.RGB
	if hasAlpha {
		space = core.RGBA
	}
	rCh, err := core.NewChannelFromBytes(core.KindU8, planeOf(rgb, 0, space.Components()))
	if err != nil {
		return nil, err
	}
	gCh, err := core.NewChannelFromBytes(core.KindU8, planeOf(rgb, 1, space.Components()))
	if err != nil {
		return nil, err
	}
	bCh, err := core.NewChannelFromBytes(core.KindU8, planeOf(rgb, 2, space.Components()))
	if err != nil {
		return nil, err
	}
	channels := []*core.Channel{rCh, gCh, bCh}
	if hasAlpha {
		aCh, err := core.NewChannelFromBytes(core.KindU8, planeOf(rgb, 3, space.Components()))
		if err != nil {
			return nil, err
		}
		channels = append(channels, aCh)
	}

	fr, err := core.NewFrame(space, core.Duration{}, channels...)
	if err != nil {
		return nil, err
	}
	return core.NewImage(hdr.width, hdr.height, space, core.Eight, fr)
}

// planeOf de-interleaves one channel out of an interleaved n-component
// buffer.
func planeOf(interleaved []byte, idx, n int) []byte {
	count := len(interleaved) / n
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		out[i] = interleaved[i*n+idx]
	}
	return out
}

// decodePixels expands hdr's compression mode into a top-down, row-major
// RGB or RGBA buffer (interleaved), flipping bottom-up source rows as it
// goes (spec.md §4.5: "decodes bottom-up storage into top-down output").
func (d *Decoder) decodePixels(hdr *header, palette []byte, pixelData []byte) ([]byte, bool, error) {
	width, height := hdr.width, hdr.height

	switch hdr.compression {
	case compRLE8, compRLE4:
		if hdr.bpp != 8 && hdr.bpp != 4 {
			return nil, false, wrap(codecerr.KindCorrupt, errCompBppMismatch, "RLE compression requires matching bit depth")
		}
		indices, err := decodeRLE(pixelData, width, height, hdr.compression == compRLE4)
		if err != nil {
			return nil, false, err
		}
		out := make([]byte, width*height*3)
		for i, idx := range indices {
			srcRow := i / width
			col := i % width
			dstRow := srcRow
			if !hdr.topDown {
				dstRow = height - 1 - srcRow
			}
			dst := (dstRow*width + col) * 3
			p := int(idx) * 3
			if p+3 <= len(palette) {
				copy(out[dst:dst+3], palette[p:p+3])
			}
		}
		return out, false, nil

	case compBitfields, compAlphaBitfields:
		rf := maskToField(hdr.rMask)
		gf := maskToField(hdr.gMask)
		bf := maskToField(hdr.bMask)
		af := maskToField(hdr.aMask)
		hasAlpha := hdr.aMask != 0
		n := 3
		if hasAlpha {
			n = 4
		}
		bytesPerPixel := hdr.bpp / 8
		rowBytes := rowStride(width, hdr.bpp)
		out := make([]byte, width*height*n)
		for row := 0; row < height; row++ {
			srcRow := row
			if pixelData == nil || (srcRow+1)*rowBytes > len(pixelData) {
				return nil, false, wrap(codecerr.KindInsufficientData, errTruncatedPixels, "row %d out of range", row)
			}
			line := pixelData[srcRow*rowBytes:]
			dstRow := row
			if !hdr.topDown {
				dstRow = height - 1 - row
			}
			for col := 0; col < width; col++ {
				off := col * bytesPerPixel
				if off+bytesPerPixel > len(line) {
					break
				}
				var packed uint32
				for k := 0; k < bytesPerPixel; k++ {
					packed |= uint32(line[off+k]) << uint(8*k)
				}
				dst := (dstRow*width + col) * n
				out[dst+0] = rf.extract(packed)
				out[dst+1] = gf.extract(packed)
				out[dst+2] = bf.extract(packed)
				if hasAlpha {
					out[dst+3] = af.extract(packed)
				}
			}
		}
		return out, hasAlpha, nil

	case compRGB, compJPEG, compPNG:
		if hdr.compression != compRGB {
			return nil, false, wrap(codecerr.KindUnsupportedVariant, errUnsupportedComp, "embedded JPEG/PNG payload not decoded")
		}
		rowBytes := rowStride(width, hdr.bpp)
		out := make([]byte, width*height*3)
		for row := 0; row < height; row++ {
			if (row+1)*rowBytes > len(pixelData) {
				return nil, false, wrap(codecerr.KindInsufficientData, errTruncatedPixels, "row %d out of range", row)
			}
			line := pixelData[row*rowBytes:]
			dstRow := row
			if !hdr.topDown {
				dstRow = height - 1 - row
			}
			switch hdr.bpp {
			case 24, 32:
				bpp := hdr.bpp / 8
				for col := 0; col < width; col++ {
					off := col * bpp
					if off+3 > len(line) {
						break
					}
					dst := (dstRow*width + col) * 3
					// Stored BGR(A); swap to RGB, drop any padding byte.
					out[dst+0] = line[off+2]
					out[dst+1] = line[off+1]
					out[dst+2] = line[off+0]
				}
			case 1, 4, 8:
				indices := unpackIndices(line, width, hdr.bpp)
				for col, idx := range indices {
					dst := (dstRow*width + col) * 3
					p := int(idx) * 3
					if p+3 <= len(palette) {
						copy(out[dst:dst+3], palette[p:p+3])
					}
				}
			default:
				return nil, false, wrap(codecerr.KindUnsupportedVariant, errUnsupportedBpp, "%d-bit uncompressed", hdr.bpp)
			}
		}
		return out, false, nil

	default:
		return nil, false, wrap(codecerr.KindUnsupportedVariant, errUnsupportedComp, "compression mode %d", hdr.compression)
	}
}

// rowStride returns a scanline's byte length, padded to a 4-byte boundary
// (spec.md §4.5).
func rowStride(width, bpp int) int {
	bits := width * bpp
	bytes := (bits + 7) / 8
	return (bytes + 3) &^ 3
}

// unpackIndices expands a packed 1/4/8-bit palette-index row into one byte
// per pixel.
func unpackIndices(line []byte, width, bpp int) []byte {
	out := make([]byte, width)
	switch bpp {
	case 8:
		n := width
		if n > len(line) {
			n = len(line)
		}
		copy(out, line[:n])
	case 4:
		for col := 0; col < width; col++ {
			b := col / 2
			if b >= len(line) {
				break
			}
			if col%2 == 0 {
				out[col] = line[b] >> 4
			} else {
				out[col] = line[b] & 0x0f
			}
		}
	case 1:
		for col := 0; col < width; col++ {
			b := col / 8
			if b >= len(line) {
				break
			}
			shift := 7 - uint(col%8)
			out[col] = (line[b] >> shift) & 1
		}
	}
	return out
}
