package ppm

import (
	"strings"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Decoder holds one PNM decode's parsed state.
type Decoder struct {
	data []byte
	opts options.Options

	hdr       *header
	bodyStart int
}

// NewDecoder builds a Decoder over the full file buffer.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: opts}
}

type header struct {
	width, height int
	space         core.ColourSpace
	depth16       bool
}

// DecodeHeaders parses a P5/P6/P7 header, idempotently.
func (d *Decoder) DecodeHeaders() error {
	if d.hdr != nil {
		return nil
	}
	if len(d.data) < 3 {
		return wrap(codecerr.KindInsufficientData, errTruncated, "header")
	}
	if d.data[0] != 'P' {
		return wrap(codecerr.KindMagicBytes, errBadMagic, "")
	}
	version := d.data[1]
	c := &cursor{data: d.data, pos: 2}

	var hdr header
	var err error
	switch version {
	case '5', '6':
		hdr, err = d.readP5P6Header(c, version)
	case '7':
		hdr, err = d.readP7Header(c)
	default:
		return wrap(codecerr.KindUnsupportedVariant, errBadVersion, "P%c", version)
	}
	if err != nil {
		return err
	}
	if (d.opts.MaxWidth > 0 && hdr.width > d.opts.MaxWidth) || (d.opts.MaxHeight > 0 && hdr.height > d.opts.MaxHeight) {
		return wrap(codecerr.KindOverLimit, errTruncated, "dimensions %dx%d exceed limit", hdr.width, hdr.height)
	}
	d.hdr = &hdr
	d.bodyStart = c.pos
	return nil
}

// Dimensions returns (width, height) once headers are decoded.
func (d *Decoder) Dimensions() (int, int, bool) {
	if d.hdr == nil {
		return 0, 0, false
	}
	return d.hdr.width, d.hdr.height, true
}

// ColourSpace reports the colour space declared by the P5/P6/P7 header.
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if d.hdr == nil {
		return core.Unknown, false
	}
	return d.hdr.space, true
}

// Depth reports Sixteen for a maxval > 255 P5/P6 header, Eight otherwise.
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if d.hdr == nil {
		return core.DepthUnknown, false
	}
	if d.hdr.depth16 {
		return core.Sixteen, true
	}
	return core.Eight, true
}

// Decode parses a P5/P6/P7 header and reads the following raw samples
// (spec.md §4.6). PNM carries no animation.
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}
	hdr := *d.hdr

	n := hdr.space.Components()
	px := hdr.width * hdr.height
	bytesPerSample := 1
	if hdr.depth16 {
		bytesPerSample = 2
	}
	want := px * n * bytesPerSample
	body := d.data[d.bodyStart:]
	if len(body) < want {
		return nil, wrap(codecerr.KindInsufficientData, errSizeMismatch, "want %d bytes, have %d", want, len(body))
	}
	body = body[:want]

	channels := make([]*core.Channel, n)
	if hdr.depth16 {
		for ci := 0; ci < n; ci++ {
			vals := make([]uint16, px)
			for p := 0; p < px; p++ {
				off := (p*n + ci) * 2
				vals[p] = uint16(body[off])<<8 | uint16(body[off+1])
			}
			ch := core.NewChannel(core.KindU16)
			if err := ch.SetU16(vals); err != nil {
				return nil, err
			}
			channels[ci] = ch
		}
	} else {
		for ci := 0; ci < n; ci++ {
			buf := make([]byte, px)
			for p := 0; p < px; p++ {
				buf[p] = body[p*n+ci]
			}
			ch, err := core.NewChannelFromBytes(core.KindU8, buf)
			if err != nil {
				return nil, err
			}
			channels[ci] = ch
		}
	}

	fr, err := core.NewFrame(hdr.space, core.Duration{}, channels...)
	if err != nil {
		return nil, err
	}
	depth := core.Eight
	if hdr.depth16 {
		depth = core.Sixteen
	}
	return core.NewImage(hdr.width, hdr.height, hdr.space, depth, fr)
}

func (d *Decoder) readP5P6Header(c *cursor, version byte) (header, error) {
	space := core.Luma
	if version == '6' {
		space = core.RGB
	}
	c.skipSpaces()
	width := c.getInteger()
	c.skipSpaces()
	height := c.getInteger()
	c.skipSpaces()
	maxVal := c.getInteger()
	// A single whitespace byte ends the header; the next byte is the first
	// sample even when its value is itself a whitespace code.
	if b, ok := c.peekByte(); ok && isSpace(b) {
		c.pos++
	}

	if width <= 0 || height <= 0 {
		return header{}, wrap(codecerr.KindCorrupt, errBadHeader, "non-positive dimensions")
	}
	if maxVal > 65535 {
		return header{}, wrap(codecerr.KindCorrupt, errMaxValTooBig, "%d", maxVal)
	}
	return header{width: width, height: height, space: space, depth16: maxVal > 255}, nil
}

func (d *Decoder) readP7Header(c *cursor) (header, error) {
	var h header
	var seenWidth, seenHeight, seenMaxVal, seenTuple, seenDepth bool

	for {
		if c.eof() {
			return header{}, wrap(codecerr.KindInsufficientData, errTruncated, "P7 header")
		}
		c.skipSpaces()
		start := c.pos
		tok := c.getToken()
		switch tok {
		case "WIDTH ":
			h.width = c.getInteger()
			c.skipSpaces()
			seenWidth = true
		case "HEIGHT ":
			h.height = c.getInteger()
			c.skipSpaces()
			seenHeight = true
		case "DEPTH ":
			c.getInteger()
			c.skipSpaces()
			seenDepth = true
		case "MAXVAL ":
			maxVal := c.getInteger()
			c.skipSpaces()
			if maxVal > 65535 {
				return header{}, wrap(codecerr.KindCorrupt, errMaxValTooBig, "%d", maxVal)
			}
			h.depth16 = maxVal > 255
			seenMaxVal = true
		case "TUPLTYPE ":
			tuple := strings.TrimSpace(c.getToken())
			switch {
			case strings.HasPrefix(tuple, "RGB_ALPHA"):
				h.space = core.RGBA
			case strings.HasPrefix(tuple, "RGB"):
				h.space = core.RGB
			case strings.HasPrefix(tuple, "GRAYSCALE_ALPHA"):
				h.space = core.LumaA
			case strings.HasPrefix(tuple, "GRAYSCALE"):
				h.space = core.Luma
			default:
				return header{}, wrap(codecerr.KindUnsupportedVariant, errUnknownTuple, "%q", tuple)
			}
			seenTuple = true
		default:
			if strings.HasPrefix(tok, "ENDHDR") {
				// Only the one newline after ENDHDR belongs to the header;
				// getToken's trailing skip may have consumed sample bytes.
				c.pos = start + len("ENDHDR")
				if !c.eof() && isSpace(c.data[c.pos]) {
					c.pos++
				}
				goto done
			}
			return header{}, wrap(codecerr.KindCorrupt, errBadHeader, "unknown token %q", tok)
		}
	}
done:
	if !seenWidth || !seenHeight || !seenMaxVal || !seenTuple || !seenDepth {
		return header{}, wrap(codecerr.KindCorrupt, errBadHeader, "missing required P7 field")
	}
	if h.width <= 0 || h.height <= 0 {
		return header{}, wrap(codecerr.KindCorrupt, errBadHeader, "non-positive dimensions")
	}
	return h, nil
}
