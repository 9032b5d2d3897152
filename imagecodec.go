// Package imagecodec is a pure Go, dependency-free-of-cgo toolkit for
// decoding (and, for PNG and JPEG-XL, encoding) a fixed set of still-image
// and animation container formats: PNG, JPEG (baseline/progressive,
// decode-only), BMP (decode-only), QOI, PPM/PAM, Radiance HDR, and a
// lossless JPEG-XL subset.
//
// Each format lives in its own package (png, jpeg, bmp, qoi, ppm, hdr, jxl)
// exposing a common decoder surface: NewDecoder(data, options), an
// idempotent DecodeHeaders, Dimensions/ColourSpace/Depth accessors, and
// Decode. This file adds a format-agnostic entry point that sniffs a
// buffer's magic bytes and dispatches to the matching package, for callers
// that don't already know which format they're holding.
package imagecodec

import (
	"bytes"

	"github.com/pixeltoolkit/imagecodec/bmp"
	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/hdr"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/jpeg"
	"github.com/pixeltoolkit/imagecodec/jxl"
	"github.com/pixeltoolkit/imagecodec/options"
	"github.com/pixeltoolkit/imagecodec/png"
	"github.com/pixeltoolkit/imagecodec/ppm"
	"github.com/pixeltoolkit/imagecodec/qoi"
)

// Format identifies one of the container formats this module understands.
type Format int

const (
	Unknown Format = iota
	PNG
	JPEG
	BMP
	QOI
	PPM
	HDR
	JXL
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case QOI:
		return "qoi"
	case PPM:
		return "ppm"
	case HDR:
		return "hdr"
	case JXL:
		return "jxl"
	default:
		return "unknown"
	}
}

// Sniff identifies a format from its leading magic bytes without decoding
// anything. It never consumes data (PPM's P5/P6/P7 marker and the rest of
// this module's formats all declare their identity in the first handful of
// bytes).
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return PNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return JPEG
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return BMP
	case len(data) >= 4 && string(data[:4]) == "qoif":
		return QOI
	case len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '7':
		return PPM
	case len(data) >= 10 && (string(data[:10]) == "#?RADIANCE" || (len(data) >= 7 && string(data[:7]) == "#?RGBE\n")):
		return HDR
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0x0A:
		return JXL
	default:
		return Unknown
	}
}

// Decoder is the format-agnostic counterpart of each package's own
// Decoder: it sniffs the source once at construction, then forwards every
// call to the matching concrete decoder.
type Decoder struct {
	format Format
	dec    formatDecoder
}

// formatDecoder is the common surface every package's *Decoder satisfies
// (spec.md §6 "Decoder surface (per format)").
type formatDecoder interface {
	DecodeHeaders() error
	Dimensions() (int, int, bool)
	ColourSpace() (core.ColourSpace, bool)
	Depth() (core.BitDepth, bool)
	Decode() (*core.Image, error)
}

// NewDecoder sniffs data's format and builds the matching concrete
// decoder. An unrecognised magic sequence is reported immediately rather
// than deferred to DecodeHeaders.
func NewDecoder(data []byte, opts options.Options) (*Decoder, error) {
	opts = options.WithDefaults(opts)
	format := Sniff(data)
	var fd formatDecoder
	switch format {
	case PNG:
		fd = png.NewDecoder(data, opts)
	case JPEG:
		fd = jpeg.NewDecoder(data, opts)
	case BMP:
		fd = bmp.NewDecoder(data, opts)
	case QOI:
		fd = qoi.NewDecoder(data, opts)
	case PPM:
		fd = ppm.NewDecoder(data, opts)
	case HDR:
		fd = hdr.NewDecoder(data, opts)
	case JXL:
		fd = jxl.NewDecoder(data, opts)
	default:
		return nil, codecerr.New("imagecodec", codecerr.KindMagicBytes, errUnrecognisedFormat)
	}
	return &Decoder{format: format, dec: fd}, nil
}

// Format reports which concrete decoder this Decoder dispatches to.
func (d *Decoder) Format() Format { return d.format }

// DecodeHeaders forwards to the concrete decoder's idempotent header pass.
func (d *Decoder) DecodeHeaders() error { return d.dec.DecodeHeaders() }

// Dimensions forwards to the concrete decoder.
func (d *Decoder) Dimensions() (int, int, bool) { return d.dec.Dimensions() }

// ColourSpace forwards to the concrete decoder.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) { return d.dec.ColourSpace() }

// Depth forwards to the concrete decoder.
func (d *Decoder) Depth() (core.BitDepth, bool) { return d.dec.Depth() }

// OutputBufferSize reports the byte size of one decoded frame with all of
// its colour-space components interleaved (width * height * components *
// bytes per sample), once headers are known.
func (d *Decoder) OutputBufferSize() (int, bool) {
	w, h, ok := d.Dimensions()
	if !ok {
		return 0, false
	}
	space, ok := d.ColourSpace()
	if !ok {
		return 0, false
	}
	depth, ok := d.Depth()
	if !ok {
		return 0, false
	}
	return w * h * space.Components() * depth.SizeBytes(), true
}

// Decode forwards to the concrete decoder, producing a fully populated
// core.Image.
func (d *Decoder) Decode() (*core.Image, error) { return d.dec.Decode() }

// Decode is a convenience one-shot: sniff data's format and decode it.
func Decode(data []byte, opts options.Options) (*core.Image, error) {
	d, err := NewDecoder(data, opts)
	if err != nil {
		return nil, err
	}
	return d.Decode()
}
