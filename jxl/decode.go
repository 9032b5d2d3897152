package jxl

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/bitio"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Decoder reads a single lossless JXL frame.
type Decoder struct {
	data []byte
	opts options.Options

	hdr     *header
	hdrSize int
}

// NewDecoder builds a Decoder over the full file buffer.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: opts}
}

// DecodeHeaders parses the fixed-size codestream header, idempotently.
func (d *Decoder) DecodeHeaders() error {
	if d.hdr != nil {
		return nil
	}
	hdr, n, err := decodeHeader(d.data)
	if err != nil {
		return err
	}
	if (d.opts.MaxWidth > 0 && hdr.width > d.opts.MaxWidth) || (d.opts.MaxHeight > 0 && hdr.height > d.opts.MaxHeight) {
		return wrap(codecerr.KindOverLimit, errBadDimensions, "dimensions %dx%d exceed limit", hdr.width, hdr.height)
	}
	d.hdr = &hdr
	d.hdrSize = n
	return nil
}

// Dimensions returns (width, height) once headers are decoded.
func (d *Decoder) Dimensions() (int, int, bool) {
	if d.hdr == nil {
		return 0, 0, false
	}
	return d.hdr.width, d.hdr.height, true
}

// ColourSpace reports the colour space declared by the codestream header.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if d.hdr == nil {
		return core.Unknown, false
	}
	return d.hdr.space, true
}

// Depth reports the bit depth declared by the codestream header.
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if d.hdr == nil {
		return core.DepthUnknown, false
	}
	return d.hdr.depth, true
}

// Decode parses the header, TOC, and every group, returning a single-frame
// core.Image. Animation metadata is recognised (header.animated) but never
// rendered beyond the first frame (spec.md §1 Non-goals).
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}
	hdr := *d.hdr

	rest := d.data[d.hdrSize:]
	if len(rest) < 4 {
		return nil, wrap(codecerr.KindInsufficientData, errTruncated, "TOC count")
	}
	numGroups := int(binary.BigEndian.Uint32(rest[:4]))
	rest = rest[4:]

	rects := groupRects(hdr.width, hdr.height)
	if numGroups != len(rects) {
		return nil, wrap(codecerr.KindCorrupt, errCorruptGroup, "TOC has %d groups, want %d", numGroups, len(rects))
	}
	if len(rest) < 4*numGroups {
		return nil, wrap(codecerr.KindInsufficientData, errTruncated, "TOC lengths")
	}
	lengths := make([]int, numGroups)
	for i := range lengths {
		lengths[i] = int(binary.BigEndian.Uint32(rest[i*4:]))
	}
	rest = rest[4*numGroups:]

	numChannels := hdr.space.Components()
	planes := make([][]int32, numChannels)
	for i := range planes {
		planes[i] = make([]int32, hdr.width*hdr.height)
	}
	maxVal := int32(hdr.depth.MaxValue())

	for gi, rect := range rects {
		l := lengths[gi]
		if l > len(rest) {
			return nil, wrap(codecerr.KindInsufficientData, errTruncated, "group %d payload", gi)
		}
		if err := decodeGroup(rest[:l], planes, hdr.width, rect, maxVal); err != nil {
			return nil, err
		}
		rest = rest[l:]
	}

	fr, err := buildFrame(hdr.space, hdr.depth, planes)
	if err != nil {
		return nil, err
	}
	return core.NewImage(hdr.width, hdr.height, hdr.space, hdr.depth, fr)
}

func decodeGroup(payload []byte, planes [][]int32, width int, rect groupRect, maxVal int32) error {
	r := bitio.NewLSBReader(payload)
	for _, plane := range planes {
		mode := predictorMode(r.ReadBits(2))
		if mode >= numPredictorModes {
			return wrap(codecerr.KindCorrupt, errCorruptGroup, "predictor mode %d", mode)
		}
		rawLengths := readLengths(r, rawAlphabet.numSymbols())
		lz77Lengths := readLengths(r, lz77Alphabet.numSymbols())
		rawTable := tableFromLengths(rawAlphabet, rawLengths)
		lz77Table := tableFromLengths(lz77Alphabet, lz77Lengths)

		decodeChannel(r, plane, width, rect.x0, rect.y0, rect.x1, rect.y1, mode, maxVal, rawTable, lz77Table)
	}
	return nil
}

func buildFrame(space core.ColourSpace, depth core.BitDepth, planes [][]int32) (*core.Frame, error) {
	channels := make([]*core.Channel, len(planes))
	for i, plane := range planes {
		var ch *core.Channel
		switch depth {
		case core.Eight:
			buf := make([]byte, len(plane))
			for j, v := range plane {
				buf[j] = byte(clampInt32(v, 0, 255))
			}
			var err error
			ch, err = core.NewChannelFromBytes(core.KindU8, buf)
			if err != nil {
				return nil, err
			}
		case core.Sixteen:
			u16 := make([]uint16, len(plane))
			for j, v := range plane {
				u16[j] = uint16(clampInt32(v, 0, 65535))
			}
			ch = core.NewChannel(core.KindU16)
			if err := ch.SetU16(u16); err != nil {
				return nil, err
			}
		default:
			return nil, wrap(codecerr.KindUnsupported, errBadDepth, "%s", depth)
		}
		channels[i] = ch
	}
	return core.NewFrame(space, core.Duration{}, channels...)
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
