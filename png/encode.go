package png

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/deflate"
)

// Encode serialises img's first frame as a PNG byte stream (spec.md §4.9):
// signature, IHDR, IDAT (per-scanline filter heuristic + DEFLATE), IEND.
// Only the still-image path is implemented; animated encode is out of scope
// (spec.md §1 Non-goals: "no animation compositing").
func Encode(img *core.Image) ([]byte, error) {
	frame := img.Frame(0)
	ct, depth, err := colourTypeFor(img.Space, img.Depth)
	if err != nil {
		return nil, err
	}

	var out []byte
	out = append(out, signature[:]...)
	out = appendChunk(out, "IHDR", encodeIHDR(img.Width, img.Height, depth, ct))

	if img.Metadata.HasGamma {
		var g [4]byte
		binary.BigEndian.PutUint32(g[:], uint32(img.Metadata.Gamma*100000))
		out = appendChunk(out, "gAMA", g[:])
	}

	raw, err := flattenFrameBytes(frame, depth)
	if err != nil {
		return nil, err
	}

	channels := frame.ColourSpace().Components()
	bpp := (channels * depth) / 8
	if bpp < 1 {
		bpp = 1
	}
	stride := (img.Width*channels*depth + 7) / 8

	var filtered []byte
	var prev []byte
	for y := 0; y < img.Height; y++ {
		row := raw[y*stride : (y+1)*stride]
		encoded := filterRow(row, prev, bpp)
		filtered = append(filtered, encoded...)
		prev = row
	}

	compressed := deflate.ZlibCompress(filtered)
	out = appendChunk(out, "IDAT", compressed)
	out = appendChunk(out, "IEND", nil)
	return out, nil
}

func colourTypeFor(space core.ColourSpace, depth core.BitDepth) (colourType, int, error) {
	bits := 8
	if depth == core.Sixteen {
		bits = 16
	}
	switch space {
	case core.Luma:
		return ctGray, bits, nil
	case core.LumaA:
		return ctGrayAlpha, bits, nil
	case core.RGB:
		return ctRGB, bits, nil
	case core.RGBA:
		return ctRGBA, bits, nil
	default:
		return 0, 0, errUnsupportedDepth
	}
}

func encodeIHDR(width, height, depth int, ct colourType) []byte {
	buf := make([]byte, 13)
	binary.BigEndian.PutUint32(buf[0:], uint32(width))
	binary.BigEndian.PutUint32(buf[4:], uint32(height))
	buf[8] = byte(depth)
	buf[9] = byte(ct)
	buf[10] = 0 // compression
	buf[11] = 0 // filter method
	buf[12] = 0 // interlace: encoder never interlaces
	return buf
}

// flattenFrameBytes interleaves the frame's channels into raw scanline bytes
// at the given bit depth, big-endian for 16-bit samples (spec.md §4.3: "16-
// bit images are big-endian on the wire").
func flattenFrameBytes(frame *core.Frame, depth int) ([]byte, error) {
	n := frame.ColourSpace().Components()
	px := frame.NumPixels()
	if depth == 16 {
		out := make([]byte, px*n*2)
		for c, ch := range frame.Channels() {
			vals, err := ch.U16()
			if err != nil {
				return nil, err
			}
			for p, v := range vals {
				binary.BigEndian.PutUint16(out[(p*n+c)*2:], v)
			}
		}
		return out, nil
	}
	return frame.FlattenU8()
}
