package hdr

import (
	"strconv"
	"strings"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Decoder holds one Radiance HDR decode's parsed state.
type Decoder struct {
	data     []byte
	opts     options.Options
	pos      int
	width    int
	height   int
	metadata map[string]string
	parsed   bool
}

// NewDecoder builds a Decoder over the full file buffer.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: opts, metadata: map[string]string{}}
}

// Metadata returns the key=value pairs captured from the header, valid
// after Decode.
func (d *Decoder) Metadata() map[string]string { return d.metadata }

func (d *Decoder) readLine() []byte {
	start := d.pos
	for d.pos < len(d.data) && d.data[d.pos] != '\n' {
		d.pos++
	}
	end := d.pos
	if d.pos < len(d.data) {
		d.pos++ // consume '\n'
	}
	return d.data[start:end]
}

// DecodeHeaders parses the RADIANCE header, variable-list, and orientation
// line, idempotently.
func (d *Decoder) DecodeHeaders() error {
	if d.parsed {
		return nil
	}
	if err := d.decodeHeaders(); err != nil {
		return err
	}
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

// ColourSpace always reports RGB; Radiance HDR has no alpha channel.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if !d.parsed {
		return core.Unknown, false
	}
	return core.RGB, true
}

// Depth always reports Float32; RGBE samples are decoded straight to
// floating point (spec.md §4.6).
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if !d.parsed {
		return core.DepthUnknown, false
	}
	return core.Float32, true
}

func (d *Decoder) decodeHeaders() error {
	if len(d.data) == 0 {
		return wrap(codecerr.KindInsufficientData, errTruncated, "empty file")
	}
	magic := d.readLine()
	if string(magic) != "#?RADIANCE" && string(magic) != "#?RGBE" {
		return wrap(codecerr.KindMagicBytes, errBadMagic, "")
	}

	for {
		if d.pos >= len(d.data) {
			return wrap(codecerr.KindInsufficientData, errTruncated, "header")
		}
		line := d.readLine()
		if len(line) == 0 {
			break // blank line terminates the header
		}
		if line[0] == '#' {
			continue
		}
		if idx := indexByte(line, '='); idx >= 0 {
			key := strings.TrimSpace(string(line[:idx]))
			val := strings.TrimSpace(string(line[idx+1:]))
			d.metadata[key] = val
		}
	}

	orientation := d.readLine()
	fields := strings.Fields(string(orientation))
	if len(fields) != 4 {
		return wrap(codecerr.KindCorrupt, errBadOrientation, "%q", orientation)
	}
	firstType, coords1, secondType, coords2 := fields[0], fields[1], fields[2], fields[3]

	var width, height int
	var err error
	switch {
	case firstType == "-Y" && secondType == "+X":
		height, err = strconv.Atoi(coords1)
		if err == nil {
			width, err = strconv.Atoi(coords2)
		}
	case firstType == "+X" && secondType == "-Y":
		height, err = strconv.Atoi(coords2)
		if err == nil {
			width, err = strconv.Atoi(coords1)
		}
	default:
		return wrap(codecerr.KindUnsupportedVariant, errBadOrientation, "%s %s", firstType, secondType)
	}
	if err != nil || width <= 0 || height <= 0 {
		return wrap(codecerr.KindCorrupt, errBadDimensions, "")
	}
	if (d.opts.MaxWidth > 0 && width > d.opts.MaxWidth) || (d.opts.MaxHeight > 0 && height > d.opts.MaxHeight) {
		return wrap(codecerr.KindOverLimit, errBadDimensions, "dimensions %dx%d exceed limit", width, height)
	}
	d.width, d.height = width, height
	return nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// Decode parses the Radiance header and every scanline's RLE RGBE data,
// returning a single-frame RGB core.Image of float32 samples (spec.md
// §4.6). HDR carries no animation.
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}

	r := make([]float32, d.width*d.height)
	g := make([]float32, d.width*d.height)
	b := make([]float32, d.width*d.height)

	scanline := make([]byte, d.width*4)
	for row := 0; row < d.height; row++ {
		if err := d.readScanline(scanline); err != nil {
			return nil, err
		}
		out := row * d.width
		for col := 0; col < d.width; col++ {
			rr, gg, bb := convertRGBE(scanline[col*4], scanline[col*4+1], scanline[col*4+2], scanline[col*4+3])
			r[out+col] = rr
			g[out+col] = gg
			b[out+col] = bb
		}
	}

	rc := core.NewChannel(core.KindF32)
	if err := rc.SetF32(r); err != nil {
		return nil, err
	}
	gc := core.NewChannel(core.KindF32)
	if err := gc.SetF32(g); err != nil {
		return nil, err
	}
	bc := core.NewChannel(core.KindF32)
	if err := bc.SetF32(b); err != nil {
		return nil, err
	}

	fr, err := core.NewFrame(core.RGB, core.Duration{}, rc, gc, bc)
	if err != nil {
		return nil, err
	}
	return core.NewImage(d.width, d.height, core.RGB, core.Float32, fr)
}

// readScanline fills out (width*4 bytes, R/G/B/E interleaved) for one
// scanline, dispatching to the new adaptive-RLE format when its 4-byte
// marker (2, 2, hi, lo) is present, and otherwise to the flat/old-style
// decompressor (spec.md §4.6; original_source/zune-hdr/src/decoder.rs's
// decode_into).
func (d *Decoder) readScanline(scanline []byte) error {
	width := d.width
	if width < 8 || width > 0x7fff {
		return d.decompressFlat(scanline, width)
	}
	if d.pos >= len(d.data) {
		return wrap(codecerr.KindInsufficientData, errTruncated, "scanline")
	}
	marker := d.data[d.pos]
	d.pos++
	if marker != 2 {
		d.pos-- // undo the read, this scanline is flat-encoded
		return d.decompressFlat(scanline, width)
	}
	if d.pos+3 > len(d.data) {
		return wrap(codecerr.KindInsufficientData, errTruncated, "scanline marker")
	}
	b1, b2, b3 := d.data[d.pos], d.data[d.pos+1], d.data[d.pos+2]
	d.pos += 3
	if b1 != 2 || (b2&0x80) != 0 {
		// Not actually the new-style marker after all: first pixel is
		// (2, b1, b2, b3), decompress the remaining width-1 pixels flat.
		scanline[0], scanline[1], scanline[2], scanline[3] = 2, b1, b2, b3
		return d.decompressFlatAt(scanline[4:], width-1)
	}

	// New-style: each of the 4 channels is RLE'd independently across the
	// whole scanline.
	for ch := 0; ch < 4; ch++ {
		j := 0
		for j < width {
			if d.pos >= len(d.data) {
				return wrap(codecerr.KindInsufficientData, errTruncated, "channel run")
			}
			run := int(d.data[d.pos])
			d.pos++
			if run > 128 {
				if d.pos >= len(d.data) {
					return wrap(codecerr.KindInsufficientData, errTruncated, "channel run value")
				}
				val := d.data[d.pos]
				d.pos++
				run &= 127
				for ; run > 0 && j < width; run-- {
					scanline[j*4+ch] = val
					j++
				}
			} else {
				for ; run > 0 && j < width; run-- {
					if d.pos >= len(d.data) {
						return wrap(codecerr.KindInsufficientData, errTruncated, "channel literal")
					}
					scanline[j*4+ch] = d.data[d.pos]
					d.pos++
					j++
				}
			}
		}
	}
	return nil
}

// decompressFlat is the old-style RLE: read (R,G,B,E) quads; a quad of
// (1,1,1,run) repeats the previously decoded quad `run << shift` times,
// with shift accumulating by 8 for consecutive repeat markers.
func (d *Decoder) decompressFlat(scanline []byte, width int) error {
	return d.decompressFlatAt(scanline, width)
}

func (d *Decoder) decompressFlatAt(scanline []byte, width int) error {
	shift := 0
	offset := 0
	for width > 0 {
		if d.pos+4 > len(d.data) {
			return wrap(codecerr.KindInsufficientData, errTruncated, "flat quad")
		}
		copy(scanline[offset:offset+4], d.data[d.pos:d.pos+4])
		d.pos += 4

		if scanline[offset] == 1 && scanline[offset+1] == 1 && scanline[offset+2] == 1 {
			run := int(scanline[offset+3]) << uint(shift)
			for width > 0 && offset > 4 && run > 0 {
				copy(scanline[offset:offset+4], scanline[offset-4:offset])
				offset += 4
				run--
				width -= 4
			}
			shift += 8
			if shift > 16 {
				break
			}
		} else {
			offset += 4
			width--
			shift = 0
		}
	}
	return nil
}

// convertRGBE expands one Radiance RGBE sample to linear float32 RGB via
// v = (sample/256) * 2^(exponent-128).
func convertRGBE(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	exp := int(e) - 128
	scale := ldexp(1.0, exp)
	return float32(r) / 256 * scale, float32(g) / 256 * scale, float32(b) / 256 * scale
}

func ldexp(x float32, exp int) float32 {
	if exp >= 0 {
		return x * float32(uint32(1)<<uint(exp&31))
	}
	return x / float32(uint32(1)<<uint((-exp)&31))
}
