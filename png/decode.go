package png

import (
	"bytes"
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/internal/colorconv"
	"github.com/pixeltoolkit/imagecodec/internal/deflate"
	"github.com/pixeltoolkit/imagecodec/options"
)

// colourType enumerates PNG's IHDR colour-type byte.
type colourType int

const (
	ctGray      colourType = 0
	ctRGB       colourType = 2
	ctPalette   colourType = 3
	ctGrayAlpha colourType = 4
	ctRGBA      colourType = 6
)

func (ct colourType) channels() int {
	switch ct {
	case ctGray:
		return 1
	case ctRGB:
		return 3
	case ctPalette:
		return 1
	case ctGrayAlpha:
		return 2
	case ctRGBA:
		return 4
	default:
		return 0
	}
}

func (ct colourType) validDepth(depth int) bool {
	switch ct {
	case ctGray:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case ctPalette:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	default: // RGB, GrayAlpha, RGBA
		return depth == 8 || depth == 16
	}
}

// header holds the parsed IHDR fields.
type header struct {
	width, height int
	depth         int
	colourType    colourType
	interlace     int
}

// Decoder implements the PNG decode surface (spec.md §4.11 decoder-surface
// convention). It supports re-calling DecodeHeaders without re-parsing, per
// spec.md's idempotence requirement.
type Decoder struct {
	data    []byte
	opts    options.Options
	hdr     *header
	palette [][3]byte
	trns    []byte
	meta    core.Metadata
	idat    []byte

	// APNG. frameBufs[i] accumulates the fdAT payload bytes that follow the
	// i'th fcTL (APNG orders fdAT by chunk position, not by matching its
	// sequence_number to the owning fcTL's); frameBufs[0], if present, is
	// unused when the default image comes from IDAT.
	animated  bool
	numFrames int
	frameCtls []fctl
	frameBufs []*bytes.Buffer
}

type fctl struct {
	seq                uint32
	width, height      int
	xOffset, yOffset   int
	delayNum, delayDen uint16
	disposeOp, blendOp byte
}

// NewDecoder builds a Decoder over the given bytes.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: opts}
}

// DecodeHeaders parses IHDR and every ancillary chunk up to (not including)
// the image data, idempotently.
func (d *Decoder) DecodeHeaders() error {
	if d.hdr != nil {
		return nil
	}
	var hdr header
	var idatBuf bytes.Buffer
	seenIHDR := false

	err := walkChunks(d.data, d.opts.ConfirmChecksums, func(c chunk) error {
		switch c.typeString() {
		case "IHDR":
			if len(c.data) < 13 {
				return codecerr.New("png", codecerr.KindCorrupt, errBadIHDR)
			}
			hdr.width = int(binary.BigEndian.Uint32(c.data[0:]))
			hdr.height = int(binary.BigEndian.Uint32(c.data[4:]))
			hdr.depth = int(c.data[8])
			hdr.colourType = colourType(c.data[9])
			compression := c.data[10]
			filterMethod := c.data[11]
			hdr.interlace = int(c.data[12])
			if compression != 0 || filterMethod != 0 || (hdr.interlace != 0 && hdr.interlace != 1) {
				return codecerr.New("png", codecerr.KindCorrupt, errBadIHDR)
			}
			if !hdr.colourType.validDepth(hdr.depth) {
				return codecerr.New("png", codecerr.KindUnsupportedVariant, errUnsupportedDepth)
			}
			if hdr.depth == 2 && d.opts.StrictMode {
				return codecerr.New("png", codecerr.KindUnsupportedVariant, errUnsupportedDepth)
			}
			seenIHDR = true
		case "PLTE":
			for i := 0; i+2 < len(c.data); i += 3 {
				d.palette = append(d.palette, [3]byte{c.data[i], c.data[i+1], c.data[i+2]})
			}
		case "tRNS":
			d.trns = append([]byte(nil), c.data...)
		case "gAMA":
			if len(c.data) >= 4 {
				d.meta.Gamma = float64(binary.BigEndian.Uint32(c.data)) / 100000
				d.meta.HasGamma = true
			}
		case "iCCP":
			d.meta.ICCProfile = decompressICCP(c.data)
		case "eXIf":
			d.meta.EXIF = append([]byte(nil), c.data...)
		case "tEXt":
			parseTEXt(c.data, &d.meta)
		case "zTXt":
			parseZTXt(c.data, &d.meta)
		case "iTXt":
			parseITXt(c.data, &d.meta)
		case "tIME":
			parseTIME(c.data, &d.meta)
		case "acTL":
			if len(c.data) >= 8 {
				d.animated = true
				d.numFrames = int(binary.BigEndian.Uint32(c.data[0:]))
			}
		case "fcTL":
			d.frameCtls = append(d.frameCtls, parseFCTL(c.data))
			d.frameBufs = append(d.frameBufs, new(bytes.Buffer))
		case "fdAT":
			if len(c.data) >= 4 && len(d.frameBufs) > 0 {
				d.frameBufs[len(d.frameBufs)-1].Write(c.data[4:])
			}
		case "IDAT":
			idatBuf.Write(c.data)
		case "IEND":
			return nil
		default:
			if c.isCritical() && d.opts.StrictMode {
				return codecerr.New("png", codecerr.KindUnsupportedVariant, errUnknownCritical)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !seenIHDR {
		return codecerr.New("png", codecerr.KindCorrupt, errMissingIHDR)
	}
	if hdr.colourType == ctPalette && len(d.palette) == 0 {
		return codecerr.New("png", codecerr.KindCorrupt, errPaletteRequired)
	}
	d.hdr = &hdr
	d.idat = idatBuf.Bytes()
	return nil
}

// Dimensions returns (width, height) once headers are decoded.
func (d *Decoder) Dimensions() (int, int, bool) {
	if d.hdr == nil {
		return 0, 0, false
	}
	return d.hdr.width, d.hdr.height, true
}

// ColourSpace reports the output colour space once headers are decoded. A
// palette image reports RGB or RGBA depending on whether tRNS was present.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if d.hdr == nil {
		return core.Unknown, false
	}
	switch d.hdr.colourType {
	case ctGray:
		if len(d.trns) > 0 {
			return core.LumaA, true
		}
		return core.Luma, true
	case ctGrayAlpha:
		return core.LumaA, true
	case ctRGB:
		if len(d.trns) > 0 {
			return core.RGBA, true
		}
		return core.RGB, true
	case ctRGBA:
		return core.RGBA, true
	case ctPalette:
		if len(d.trns) > 0 {
			return core.RGBA, true
		}
		return core.RGB, true
	default:
		return core.Unknown, false
	}
}

// Depth reports the output bit depth. Palette and sub-byte-depth images
// always decode to Eight (spec.md §3: "only appearing during PNG
// intermediate stages — external observers see 8-bit, 16-bit, or float").
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if d.hdr == nil {
		return core.DepthUnknown, false
	}
	if d.hdr.depth == 16 {
		return core.Sixteen, true
	}
	return core.Eight, true
}

// Decode fully decodes the PNG into an Image. For an APNG with
// options.PNGDecodeAnimated set, every later fcTL/fdAT frame whose fcTL
// declares the full canvas size becomes a separate Frame (spec.md §4.3
// step 4); sub-rectangle frames are not added to the image. Otherwise only
// the default (IDAT) frame is produced.
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}
	space, _ := d.ColourSpace()
	depth, _ := d.Depth()

	firstFrame, err := d.decodeFrame(d.idat, d.hdr.width, d.hdr.height, core.Duration{Num: 1, Den: 1})
	if err != nil {
		return nil, err
	}

	img, err := core.NewImage(d.hdr.width, d.hdr.height, space, depth, firstFrame)
	if err != nil {
		return nil, err
	}
	img.Metadata = d.meta

	if d.opts.PNGDecodeAnimated && d.animated && len(d.frameCtls) > 1 {
		for i, fc := range d.frameCtls[1:] {
			buf := d.frameBufs[i+1]
			if buf == nil || buf.Len() == 0 {
				continue
			}
			fr, err := d.decodeFrame(buf.Bytes(), fc.width, fc.height, core.Duration{Num: uint32(fc.delayNum), Den: uint32(fc.delayDen)})
			if err != nil {
				return nil, err
			}
			fr.OffsetX, fr.OffsetY = fc.xOffset, fc.yOffset
			fr.Dispose = apngDispose(fc.disposeOp)
			fr.Blend = apngBlend(fc.blendOp)
			// A sub-rectangle frame (fc.width/height smaller than the
			// canvas) needs compositing onto the previous frame before it
			// can satisfy core.Image's per-frame full-canvas invariant;
			// full-canvas frames (the common case for simple animations)
			// append directly.
			if fc.width == img.Width && fc.height == img.Height {
				if err := img.AppendFrame(fr); err != nil {
					return nil, err
				}
			}
		}
	}
	if d.opts.PNGStrip16To8 && depth == core.Sixteen {
		stripTo8(img)
	}
	if d.opts.PNGAddAlpha {
		addOpaqueAlpha(img)
	}
	return img, nil
}

// addOpaqueAlpha synthesises a fully-opaque alpha channel on every frame
// whose colour space has none yet (options.PNGAddAlpha).
func addOpaqueAlpha(img *core.Image) {
	for _, fr := range img.Frames() {
		var newSpace core.ColourSpace
		switch fr.ColourSpace() {
		case core.Luma:
			newSpace = core.LumaA
		case core.RGB:
			newSpace = core.RGBA
		default:
			continue
		}
		chans := fr.Channels()
		alpha := core.NewChannelWithLength(chans[0].Kind(), chans[0].Len())
		if chans[0].Kind() == core.KindU8 {
			alpha.Fill(0xFF)
		} else {
			vals := make([]uint16, chans[0].Len())
			for i := range vals {
				vals[i] = 0xFFFF
			}
			alpha.SetU16(vals)
		}
		fr.ReplaceChannels(newSpace, append(append([]*core.Channel{}, chans...), alpha))
	}
	switch img.Space {
	case core.Luma:
		img.Space = core.LumaA
	case core.RGB:
		img.Space = core.RGBA
	}
}

// stripTo8 downsamples every channel of every frame from 16-bit to 8-bit in
// place (options.PNGStrip16To8), taking the high byte per libpng convention
// (internal/colorconv.U16ToU8).
func stripTo8(img *core.Image) {
	for _, fr := range img.Frames() {
		chans := fr.Channels()
		narrowed := make([]*core.Channel, len(chans))
		for i, ch := range chans {
			vals, err := ch.U16()
			if err != nil {
				narrowed[i] = ch
				continue
			}
			buf := make([]byte, len(vals))
			for j, v := range vals {
				buf[j] = colorconv.U16ToU8(v)
			}
			nc, _ := core.NewChannelFromBytes(core.KindU8, buf)
			narrowed[i] = nc
		}
		fr.ReplaceChannels(fr.ColourSpace(), narrowed)
	}
	img.Depth = core.Eight
}

func apngDispose(op byte) core.DisposeMethod {
	switch op {
	case 1:
		return core.DisposeBackground
	case 2:
		return core.DisposePrevious
	default:
		return core.DisposeNone
	}
}

func apngBlend(op byte) core.BlendMethod {
	if op == 0 {
		return core.BlendSource
	}
	return core.BlendOver
}

// decodeFrame inflates one frame's compressed scanline stream and
// reconstructs it into a Frame (spec.md §4.3 steps 4-7).
func (d *Decoder) decodeFrame(compressed []byte, width, height int, dur core.Duration) (*core.Frame, error) {
	hdr := d.hdr
	bytesPerSample := 1
	if hdr.depth == 16 {
		bytesPerSample = 2
	}
	channels := hdr.colourType.channels()
	bitsPerPixel := channels * hdr.depth
	stride := (width*bitsPerPixel + 7) / 8

	sizeHint := (stride + 1) * height
	raw, err := deflate.Zlib(compressed, deflate.Options{SizeHint: sizeHint, SizeLimit: d.opts.DeflateSizeLimit, VerifyChecksum: d.opts.ConfirmChecksums})
	if err != nil {
		return nil, codecerr.Wrapf("png", codecerr.KindCorrupt, err, "inflating scanlines")
	}

	var samples []byte // 8-bit-per-sample-channel output, post bit-unpack/depth-scale
	var samples16 []uint16
	if hdr.interlace == 1 {
		samples, samples16, err = reconstructAdam7(raw, width, height, hdr, channels, bytesPerSample)
	} else {
		samples, samples16, err = reconstructSequential(raw, width, height, hdr, channels, bytesPerSample, stride)
	}
	if err != nil {
		return nil, err
	}

	return d.buildFrame(samples, samples16, width, height, dur)
}

// reconstructSequential undoes filtering on a non-interlaced image and
// expands sub-byte depths/16-bit samples.
func reconstructSequential(raw []byte, width, height int, hdr *header, channels, bytesPerSample, stride int) ([]byte, []uint16, error) {
	bpp := (channels * hdr.depth) / 8
	if bpp < 1 {
		bpp = 1
	}
	var prev []byte
	pos := 0
	pixels := width * height * channels

	var out8 []byte
	var out16 []uint16
	if hdr.depth == 16 {
		out16 = make([]uint16, 0, pixels)
	} else {
		out8 = make([]byte, 0, pixels)
	}

	for y := 0; y < height; y++ {
		if pos+1+stride > len(raw) {
			return nil, nil, codecerr.New("png", codecerr.KindInsufficientData, errTruncated)
		}
		ft := raw[pos]
		cur := append([]byte(nil), raw[pos+1:pos+1+stride]...)
		if err := unfilterRow(ft, cur, prev, bpp); err != nil {
			return nil, nil, codecerr.New("png", codecerr.KindCorrupt, err)
		}
		pos += 1 + stride

		if hdr.depth == 16 {
			for i := 0; i+1 < len(cur); i += 2 {
				out16 = append(out16, binary.BigEndian.Uint16(cur[i:]))
			}
		} else if hdr.depth < 8 {
			if hdr.colourType == ctPalette {
				out8 = append(out8, unpackSubByteRaw(cur, hdr.depth, width*channels)...)
			} else {
				out8 = append(out8, unpackSubByte(cur, hdr.depth, width*channels)...)
			}
		} else {
			out8 = append(out8, cur...)
		}
		prev = cur
	}
	return out8, out16, nil
}

// reconstructAdam7 undoes filtering across Adam7's seven interlace passes
// and scatters their pixels into the final raster (spec.md §4.3).
func reconstructAdam7(raw []byte, width, height int, hdr *header, channels, bytesPerSample int) ([]byte, []uint16, error) {
	var out8 []byte
	var out16 []uint16
	pixels := width * height * channels
	if hdr.depth == 16 {
		out16 = make([]uint16, pixels)
	} else {
		out8 = make([]byte, pixels)
	}

	pos := 0
	for _, p := range adam7Passes {
		pw, ph := passDimensions(p, width, height)
		if pw == 0 || ph == 0 {
			continue
		}
		bitsPerPixel := channels * hdr.depth
		stride := (pw*bitsPerPixel + 7) / 8
		bpp := bitsPerPixel / 8
		if bpp < 1 {
			bpp = 1
		}

		var prev []byte
		for row := 0; row < ph; row++ {
			if pos+1+stride > len(raw) {
				return nil, nil, codecerr.New("png", codecerr.KindInsufficientData, errTruncated)
			}
			ft := raw[pos]
			cur := append([]byte(nil), raw[pos+1:pos+1+stride]...)
			if err := unfilterRow(ft, cur, prev, bpp); err != nil {
				return nil, nil, codecerr.New("png", codecerr.KindCorrupt, err)
			}
			pos += 1 + stride

			destY := p.yOrigin + row*p.yStride
			if hdr.depth == 16 {
				for col := 0; col < pw; col++ {
					destX := p.xOrigin + col*p.xStride
					for ch := 0; ch < channels; ch++ {
						idx := col*channels + ch
						out16[(destY*width+destX)*channels+ch] = binary.BigEndian.Uint16(cur[idx*2:])
					}
				}
			} else if hdr.depth < 8 {
				var rowSamples []byte
				if hdr.colourType == ctPalette {
					rowSamples = unpackSubByteRaw(cur, hdr.depth, pw*channels)
				} else {
					rowSamples = unpackSubByte(cur, hdr.depth, pw*channels)
				}
				for col := 0; col < pw; col++ {
					destX := p.xOrigin + col*p.xStride
					for ch := 0; ch < channels; ch++ {
						out8[(destY*width+destX)*channels+ch] = rowSamples[col*channels+ch]
					}
				}
			} else {
				for col := 0; col < pw; col++ {
					destX := p.xOrigin + col*p.xStride
					for ch := 0; ch < channels; ch++ {
						out8[(destY*width+destX)*channels+ch] = cur[col*channels+ch]
					}
				}
			}
			prev = cur
		}
	}
	return out8, out16, nil
}

// unpackSubByte expands a packed 1/2/4-bit grayscale scanline into one byte
// per sample, most-significant bits first, scaled to the full 0..255 range
// (spec.md §4.3: scale factors 0xFF, 0x55, 0x11 for depths 1, 2, 4).
func unpackSubByte(row []byte, depth, numSamples int) []byte {
	scale := map[int]byte{1: 0xFF, 2: 0x55, 4: 0x11}[depth]
	out := unpackSubByteRaw(row, depth, numSamples)
	for i, v := range out {
		out[i] = v * scale
	}
	return out
}

// unpackSubByteRaw expands a packed 1/2/4-bit scanline into one byte per
// sample, most-significant bits first, leaving each sample as the raw
// unscaled bit-group. Palette rows use this directly: their samples are
// indices into PLTE, not grayscale intensities, so they must never be
// multiplied by unpackSubByte's scale factor.
func unpackSubByteRaw(row []byte, depth, numSamples int) []byte {
	perByte := 8 / depth
	mask := byte(1<<uint(depth)) - 1
	out := make([]byte, numSamples)
	for i := 0; i < numSamples; i++ {
		byteIdx := i / perByte
		shift := uint(8 - depth - (i%perByte)*depth)
		out[i] = (row[byteIdx] >> shift) & mask
	}
	return out
}
