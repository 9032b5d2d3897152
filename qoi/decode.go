package qoi

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Decoder holds one QOI decode's parsed state.
type Decoder struct {
	data []byte
	opts options.Options

	width, height int
	channels      int
	parsed        bool
}

// NewDecoder builds a Decoder over the full file buffer.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: opts}
}

// DecodeHeaders parses the 14-byte header, idempotently.
func (d *Decoder) DecodeHeaders() error {
	if d.parsed {
		return nil
	}
	if len(d.data) < 14 {
		return wrap(codecerr.KindInsufficientData, errTruncated, "header")
	}
	if string(d.data[0:4]) != "qoif" {
		return wrap(codecerr.KindMagicBytes, errBadMagic, "")
	}
	width := int(binary.BigEndian.Uint32(d.data[4:8]))
	height := int(binary.BigEndian.Uint32(d.data[8:12]))
	channels := int(d.data[12])
	// d.data[13] is the colour-space byte (0 sRGB, 1 linear); this module
	// has no notion of a linear tag to preserve, so it is neither read nor
	// validated.
	if channels != 3 && channels != 4 {
		return wrap(codecerr.KindUnsupportedVariant, errUnknownChan, "%d", channels)
	}
	if (d.opts.MaxWidth > 0 && width > d.opts.MaxWidth) || (d.opts.MaxHeight > 0 && height > d.opts.MaxHeight) {
		return wrap(codecerr.KindOverLimit, errTruncated, "dimensions %dx%d exceed limit", width, height)
	}
	d.width, d.height, d.channels = width, height, channels
	d.parsed = true
	return nil
}

// Dimensions returns (width, height) once headers are decoded.
func (d *Decoder) Dimensions() (int, int, bool) {
	if !d.parsed {
		return 0, 0, false
	}
	return d.width, d.height, true
}

// ColourSpace reports RGB or RGBA depending on the header's channel count.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if !d.parsed {
		return core.Unknown, false
	}
	if d.channels == 4 {
		return core.RGBA, true
	}
	return core.RGB, true
}

// Depth always reports Eight; QOI has no other sample width.
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if !d.parsed {
		return core.DepthUnknown, false
	}
	return core.Eight, true
}

// Decode parses the 14-byte header and runs the tagged-op stream to
// completion, returning a single-frame core.Image (spec.md §4.6). QOI
// carries no animation.
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}
	width, height, channels := d.width, d.height, d.channels

	pixels, err := decodeStream(d.data[14:], width, height, channels, d.opts.StrictMode)
	if err != nil {
		return nil, err
	}

	px := width * height
	rCh := make([]byte, px)
	gCh := make([]byte, px)
	bCh := make([]byte, px)
	var aCh []byte
	if channels == 4 {
		aCh = make([]byte, px)
	}
	for i := 0; i < px; i++ {
		rCh[i] = pixels[i*channels+0]
		gCh[i] = pixels[i*channels+1]
		bCh[i] = pixels[i*channels+2]
		if channels == 4 {
			aCh[i] = pixels[i*channels+3]
		}
	}

	space := core.RGB
	chans := make([]*core.Channel, 0, 4)
	rc, err := core.NewChannelFromBytes(core.KindU8, rCh)
	if err != nil {
		return nil, err
	}
	gc, err := core.NewChannelFromBytes(core.KindU8, gCh)
	if err != nil {
		return nil, err
	}
	bc, err := core.NewChannelFromBytes(core.KindU8, bCh)
	if err != nil {
		return nil, err
	}
	chans = append(chans, rc, gc, bc)
	if channels == 4 {
		space = core.RGBA
		ac, err := core.NewChannelFromBytes(core.KindU8, aCh)
		if err != nil {
			return nil, err
		}
		chans = append(chans, ac)
	}

	fr, err := core.NewFrame(space, core.Duration{}, chans...)
	if err != nil {
		return nil, err
	}
	return core.NewImage(width, height, space, core.Eight, fr)
}

// decodeStream runs the QOI tag dispatch over data, producing
// width*height*channels interleaved bytes (RGB or RGBA order, matching
// the header's declared channel count).
func decodeStream(data []byte, width, height, channels int, strict bool) ([]byte, error) {
	out := make([]byte, width*height*channels)
	var index [64][4]byte
	px := [4]byte{0, 0, 0, 255}
	run := 0
	pos := 0

	for i := 0; i < width*height; i++ {
		if run > 0 {
			run--
		} else {
			if pos >= len(data) {
				return nil, wrap(codecerr.KindInsufficientData, errTruncated, "pixel %d", i)
			}
			tag := data[pos]
			pos++
			switch {
			case tag == opRGB:
				if pos+3 > len(data) {
					return nil, wrap(codecerr.KindInsufficientData, errTruncated, "RGB op")
				}
				px[0], px[1], px[2] = data[pos], data[pos+1], data[pos+2]
				pos += 3
			case tag == opRGBA:
				if pos+4 > len(data) {
					return nil, wrap(codecerr.KindInsufficientData, errTruncated, "RGBA op")
				}
				px[0], px[1], px[2], px[3] = data[pos], data[pos+1], data[pos+2], data[pos+3]
				pos += 4
			case tag&mask2 == opIndex:
				px = index[tag&0x3f]
			case tag&mask2 == opDiff:
				px[0] += ((tag >> 4) & 0x03) - 2
				px[1] += ((tag >> 2) & 0x03) - 2
				px[2] += (tag & 0x03) - 2
			case tag&mask2 == opLuma:
				if pos >= len(data) {
					return nil, wrap(codecerr.KindInsufficientData, errTruncated, "LUMA op")
				}
				b2 := data[pos]
				pos++
				vg := (tag & 0x3f) - 32
				px[0] += vg - 8 + ((b2 >> 4) & 0x0f)
				px[1] += vg
				px[2] += vg - 8 + (b2 & 0x0f)
			case tag&mask2 == opRun:
				run = int(tag & 0x3f)
			}
			hash := (3*uint(px[0]) + 5*uint(px[1]) + 7*uint(px[2]) + 11*uint(px[3])) % 64
			index[hash] = px
		}
		copy(out[i*channels:i*channels+channels], px[:channels])
	}

	if pos+8 > len(data) {
		if strict {
			return nil, wrap(codecerr.KindInsufficientData, errBadEndMarker, "")
		}
		return out, nil
	}
	var tail [8]byte
	copy(tail[:], data[pos:pos+8])
	if tail != endMarker && strict {
		return nil, wrap(codecerr.KindCorrupt, errBadEndMarker, "")
	}
	return out, nil
}
