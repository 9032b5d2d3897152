package jpeg

import (
	"encoding/binary"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/internal/colorconv"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Decoder holds one JPEG bitstream's parsed state (spec.md §4.4).
type Decoder struct {
	data []byte
	opts options.Options

	width, height int
	precision     int
	progressive   bool
	baseline      bool
	seenSOF       bool

	comps      []component
	hmax, vmax int

	quant  [4]*quantTable
	huffDC [4]*huffTable
	huffAC [4]*huffTable

	ri int // restart interval, 0 = none

	coeffs [][]block // per component, accumulated across scans

	app14Transform int // -1 = not present

	scanCount int

	headersParsed bool
	afterSOFPos   int
}

// NewDecoder prepares a Decoder over a full in-memory JPEG byte stream.
func NewDecoder(data []byte, opts options.Options) *Decoder {
	return &Decoder{data: data, opts: options.WithDefaults(opts), app14Transform: -1}
}

// DecodeHeaders scans markers up to (and including) the first frame header
// (SOFn), filling in dimensions/components without touching entropy-coded
// scan data. Idempotent: a second call is a no-op.
func (d *Decoder) DecodeHeaders() error {
	if d.headersParsed {
		return nil
	}
	if len(d.data) < 2 || d.data[0] != 0xFF || d.data[1] != soiMarker {
		return codecerr.New("jpeg", codecerr.KindMagicBytes, errMissingSOI)
	}
	pos := 2
	for !d.seenSOF {
		if pos+4 > len(d.data) {
			return codecerr.New("jpeg", codecerr.KindInsufficientData, errPrematureEOI)
		}
		if d.data[pos] != 0xFF {
			return codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
		}
		marker := d.data[pos+1]
		pos += 2
		if marker == eoiMarker {
			return codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
		}
		if marker == 0x01 || (marker >= rst0Marker && marker <= rst7Marker) {
			continue
		}
		segLen := int(binary.BigEndian.Uint16(d.data[pos:]))
		if segLen < 2 || pos+segLen > len(d.data) {
			return codecerr.New("jpeg", codecerr.KindInsufficientData, errBadMarker)
		}
		payload := d.data[pos+2 : pos+segLen]
		switch marker {
		case dqtMarker:
			if err := parseDQT(payload, &d.quant); err != nil {
				return wrap(codecerr.KindCorrupt, err, "parsing DQT")
			}
		case dhtMarker:
			if err := d.parseDHT(payload); err != nil {
				return wrap(codecerr.KindCorrupt, err, "parsing DHT")
			}
		case driMarker:
			if len(payload) >= 2 {
				d.ri = int(binary.BigEndian.Uint16(payload))
			}
		case sof0Marker, sof1Marker:
			if err := d.parseSOF(payload, false); err != nil {
				return err
			}
		case sof2Marker:
			if err := d.parseSOF(payload, true); err != nil {
				return err
			}
		case 0xC3, 0xC5, 0xC6, 0xC7, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
			return codecerr.New("jpeg", codecerr.KindUnsupportedVariant, errUnsupportedSOF)
		case app14Marker:
			d.parseAPP14(payload)
		}
		pos += segLen
	}
	d.headersParsed = true
	d.afterSOFPos = pos
	return nil
}

// Dimensions returns (width, height) once headers are decoded.
func (d *Decoder) Dimensions() (int, int, bool) {
	if !d.headersParsed {
		return 0, 0, false
	}
	return d.width, d.height, true
}

// ColourSpace reports Luma, RGB, or CMYK from the frame header's component
// count (1, 3 or 4) (spec.md §4.4).
func (d *Decoder) ColourSpace() (core.ColourSpace, bool) {
	if !d.headersParsed {
		return core.Unknown, false
	}
	switch len(d.comps) {
	case 1:
		return core.Luma, true
	case 3:
		return core.RGB, true
	case 4:
		return core.CMYK, true
	default:
		return core.Unknown, false
	}
}

// Depth always reports Eight; this decoder rejects any SOF precision other
// than 8 during header parsing.
func (d *Decoder) Depth() (core.BitDepth, bool) {
	if !d.headersParsed {
		return core.DepthUnknown, false
	}
	return core.Eight, true
}

// Decode parses markers, runs every scan, and reconstructs a core.Image.
// If DecodeHeaders has already run, the marker walk resumes immediately
// after the frame header instead of re-parsing it.
func (d *Decoder) Decode() (*core.Image, error) {
	if err := d.DecodeHeaders(); err != nil {
		return nil, err
	}
	pos := d.afterSOFPos

	for {
		if pos+4 > len(d.data) {
			return nil, codecerr.New("jpeg", codecerr.KindInsufficientData, errPrematureEOI)
		}
		if d.data[pos] != 0xFF {
			return nil, codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
		}
		marker := d.data[pos+1]
		pos += 2
		if marker == eoiMarker {
			break
		}
		if marker == 0x01 || (marker >= rst0Marker && marker <= rst7Marker) {
			continue // standalone fill/RST outside a scan: ignore
		}

		segLen := int(binary.BigEndian.Uint16(d.data[pos:]))
		if segLen < 2 || pos+segLen > len(d.data) {
			return nil, codecerr.New("jpeg", codecerr.KindInsufficientData, errBadMarker)
		}
		payload := d.data[pos+2 : pos+segLen]

		switch marker {
		case dqtMarker:
			if err := parseDQT(payload, &d.quant); err != nil {
				return nil, wrap(codecerr.KindCorrupt, err, "parsing DQT")
			}
			pos += segLen
		case dhtMarker:
			if err := d.parseDHT(payload); err != nil {
				return nil, wrap(codecerr.KindCorrupt, err, "parsing DHT")
			}
			pos += segLen
		case sof0Marker, sof1Marker:
			if err := d.parseSOF(payload, false); err != nil {
				return nil, err
			}
			pos += segLen
		case sof2Marker:
			if err := d.parseSOF(payload, true); err != nil {
				return nil, err
			}
			pos += segLen
		case 0xC3, 0xC5, 0xC6, 0xC7, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
			return nil, codecerr.New("jpeg", codecerr.KindUnsupportedVariant, errUnsupportedSOF)
		case driMarker:
			if len(payload) >= 2 {
				d.ri = int(binary.BigEndian.Uint16(payload))
			}
			pos += segLen
		case app14Marker:
			d.parseAPP14(payload)
			pos += segLen
		case sosMarker:
			if !d.seenSOF {
				return nil, codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
			}
			d.scanCount++
			if d.scanCount > d.opts.MaxScans {
				return nil, codecerr.New("jpeg", codecerr.KindOverLimit, errTooManyScans)
			}
			consumed, err := d.handleSOS(payload, pos+segLen)
			if err != nil {
				return nil, err
			}
			pos = consumed
		default:
			pos += segLen
		}
	}

	return d.reconstruct()
}

func (d *Decoder) parseDHT(data []byte) error {
	pos := 0
	for pos < len(data) {
		if pos+17 > len(data) {
			return errBadMarker
		}
		tc := data[pos] >> 4 // 0 = DC, 1 = AC
		th := data[pos] & 0x0f
		if th > 3 {
			return errBadMarker
		}
		var counts [16]byte
		copy(counts[:], data[pos+1:pos+17])
		total := 0
		for _, c := range counts {
			total += int(c)
		}
		pos += 17
		if pos+total > len(data) {
			return errBadMarker
		}
		symbols := data[pos : pos+total]
		pos += total
		t := buildHuffTable(counts, symbols)
		if tc == 0 {
			d.huffDC[th] = t
		} else {
			d.huffAC[th] = t
		}
	}
	return nil
}

func (d *Decoder) parseSOF(data []byte, progressive bool) error {
	if d.seenSOF {
		return codecerr.New("jpeg", codecerr.KindCorrupt, errDuplicateSOF)
	}
	if len(data) < 6 {
		return codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
	}
	precision := int(data[0])
	if precision != 8 {
		return codecerr.New("jpeg", codecerr.KindUnsupportedVariant, errUnsupportedPrec)
	}
	height := int(binary.BigEndian.Uint16(data[1:]))
	width := int(binary.BigEndian.Uint16(data[3:]))
	if width > d.opts.MaxWidth || height > d.opts.MaxHeight {
		return codecerr.New("jpeg", codecerr.KindOverLimit, errBadMarker)
	}
	nComp := int(data[5])
	if nComp < 1 || nComp > maxComponents {
		return codecerr.New("jpeg", codecerr.KindCorrupt, errTooManyComps)
	}
	if len(data) < 6+3*nComp {
		return codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
	}
	comps := make([]component, nComp)
	hmax, vmax := 1, 1
	for i := 0; i < nComp; i++ {
		off := 6 + 3*i
		comps[i] = component{
			id:       data[off],
			h:        int(data[off+1] >> 4),
			v:        int(data[off+1] & 0x0f),
			quantSel: int(data[off+2]),
		}
		if comps[i].h > hmax {
			hmax = comps[i].h
		}
		if comps[i].v > vmax {
			vmax = comps[i].v
		}
	}
	d.precision = precision
	d.width, d.height = width, height
	d.comps = comps
	d.hmax, d.vmax = hmax, vmax
	d.progressive = progressive
	d.baseline = !progressive
	d.seenSOF = true
	d.coeffs = make([][]block, nComp)
	return nil
}

func (d *Decoder) parseAPP14(data []byte) {
	if len(data) >= 12 && string(data[0:5]) == "Adobe" {
		d.app14Transform = int(data[11])
	}
}

// handleSOS parses one SOS header, locates the extent of its entropy-coded
// segment (stopping at the first marker that is not a restart marker,
// matching libjpeg's resynchronisation convention), decodes it, and
// returns the byte position to resume the outer marker loop from.
func (d *Decoder) handleSOS(header []byte, dataStart int) (int, error) {
	if len(header) < 1 {
		return 0, codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
	}
	nComp := int(header[0])
	if len(header) < 1+2*nComp+3 {
		return 0, codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
	}
	scanComps := make([]scanComponent, nComp)
	for i := 0; i < nComp; i++ {
		cs := header[1+2*i]
		ci := -1
		for j, c := range d.comps {
			if c.id == cs {
				ci = j
			}
		}
		if ci < 0 {
			return 0, codecerr.New("jpeg", codecerr.KindCorrupt, errUnknownTable)
		}
		scanComps[i] = scanComponent{
			compIndex: ci,
			dcSel:     int(header[2+2*i] >> 4),
			acSel:     int(header[2+2*i] & 0x0f),
		}
	}
	tail := header[1+2*nComp:]
	zigStart, zigEnd := int32(0), int32(blockSize-1)
	var ah, al uint32
	if d.progressive {
		zigStart = int32(tail[0])
		zigEnd = int32(tail[1])
		ah = uint32(tail[2] >> 4)
		al = uint32(tail[2] & 0x0f)
	}

	end := findScanEnd(d.data, dataStart)
	if err := d.decodeScan(d.data[dataStart:end], scanComps, zigStart, zigEnd, ah, al); err != nil {
		return 0, wrap(codecerr.KindCorrupt, err, "decoding scan")
	}
	return end, nil
}

// findScanEnd scans forward from start for the next marker that is not a
// restart marker (0xD0-0xD7) or a stuffed literal 0xFF 0x00, returning its
// position (the entropy-coded data ends there, exclusive).
func findScanEnd(data []byte, start int) int {
	i := start
	for i+1 < len(data) {
		if data[i] == 0xFF {
			next := data[i+1]
			if next == 0x00 {
				i += 2
				continue
			}
			if next >= rst0Marker && next <= rst7Marker {
				i += 2
				continue
			}
			return i
		}
		i++
	}
	return len(data)
}

func (d *Decoder) compPixelWidth(ci int) int {
	return (d.width*d.comps[ci].h + d.hmax - 1) / d.hmax
}

func (d *Decoder) compPixelHeight(ci int) int {
	return (d.height*d.comps[ci].v + d.vmax - 1) / d.vmax
}

// reconstruct dequantises and inverse-transforms every accumulated block,
// up-samples chroma to the luma grid, and converts colours into a
// core.Image (spec.md §4.4's final "dequantise and IDCT the final
// coefficient buffer" step, generalised to run once for both baseline and
// progressive streams since this decoder always defers to here).
func (d *Decoder) reconstruct() (*core.Image, error) {
	if d.opts.StrictMode && d.app14Transform > 2 {
		return nil, codecerr.New("jpeg", codecerr.KindCorrupt, errBadAPP14)
	}
	mxx := (d.width + 8*d.hmax - 1) / (8 * d.hmax)
	myy := (d.height + 8*d.vmax - 1) / (8 * d.vmax)

	planes := make([][]byte, len(d.comps))
	planeW := make([]int, len(d.comps))
	planeH := make([]int, len(d.comps))
	for ci, c := range d.comps {
		bw := mxx * c.h
		bh := myy * c.v
		pw, ph := bw*8, bh*8
		plane := make([]byte, pw*ph)
		qt := d.quant[c.quantSel]
		if qt == nil {
			return nil, codecerr.New("jpeg", codecerr.KindCorrupt, errUnknownTable)
		}
		coeffs := d.coeffs[ci]
		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				b := coeffs[by*bw+bx]
				dequantize(&b, qt)
				IDCT8x8(&b)
				for y := 0; y < 8; y++ {
					for x := 0; x < 8; x++ {
						plane[(by*8+y)*pw+bx*8+x] = clampSample(b[y*8+x])
					}
				}
			}
		}
		planes[ci] = plane
		planeW[ci] = pw
		planeH[ci] = ph
	}

	// Up-sample every component to the full padded luma grid, then crop to
	// the declared width/height.
	fullW, fullH := mxx*d.hmax*8, myy*d.vmax*8
	for ci, c := range d.comps {
		hRatio, vRatio := d.hmax/c.h, d.vmax/c.v
		if hRatio == 1 && vRatio == 1 {
			continue
		}
		up, uw, uh, err := upsampleComponent(planes[ci], planeW[ci], planeH[ci], hRatio, vRatio)
		if err != nil {
			return nil, codecerr.New("jpeg", codecerr.KindUnsupported, err)
		}
		if uw != fullW || uh != fullH {
			return nil, codecerr.New("jpeg", codecerr.KindCorrupt, errBadMarker)
		}
		planes[ci] = up
		planeW[ci], planeH[ci] = uw, uh
	}

	crop := func(p []byte, stride int) []byte {
		out := make([]byte, d.width*d.height)
		for y := 0; y < d.height; y++ {
			copy(out[y*d.width:(y+1)*d.width], p[y*stride:y*stride+d.width])
		}
		return out
	}

	px := d.width * d.height
	switch len(d.comps) {
	case 1:
		y := crop(planes[0], planeW[0])
		ch, err := core.NewChannelFromBytes(core.KindU8, y)
		if err != nil {
			return nil, err
		}
		frame, err := core.NewFrame(core.Luma, core.Duration{Num: 1, Den: 1}, ch)
		if err != nil {
			return nil, err
		}
		return core.NewImage(d.width, d.height, core.Luma, core.Eight, frame)
	case 3:
		y := crop(planes[0], planeW[0])
		cb := crop(planes[1], planeW[1])
		cr := crop(planes[2], planeW[2])
		r := make([]byte, px)
		g := make([]byte, px)
		b := make([]byte, px)
		if d.app14Transform == 0 {
			// Components are already RGB (rare, but signalled by Adobe
			// transform=0 with 3 components).
			copy(r, y)
			copy(g, cb)
			copy(b, cr)
		} else {
			for i := 0; i < px; i++ {
				r[i], g[i], b[i] = colorconv.YCbCrToRGB8(y[i], cb[i], cr[i])
			}
		}
		rc, _ := core.NewChannelFromBytes(core.KindU8, r)
		gc, _ := core.NewChannelFromBytes(core.KindU8, g)
		bc, _ := core.NewChannelFromBytes(core.KindU8, b)
		frame, err := core.NewFrame(core.RGB, core.Duration{Num: 1, Den: 1}, rc, gc, bc)
		if err != nil {
			return nil, err
		}
		return core.NewImage(d.width, d.height, core.RGB, core.Eight, frame)
	case 4:
		c0 := crop(planes[0], planeW[0])
		c1 := crop(planes[1], planeW[1])
		c2 := crop(planes[2], planeW[2])
		k := crop(planes[3], planeW[3])
		cC := make([]byte, px)
		cM := make([]byte, px)
		cY := make([]byte, px)
		if d.app14Transform == 2 {
			// YCCK: components 0-2 are YCbCr of the inverted CMY; convert
			// to RGB then to CMY (spec.md §4.4: "YCCK ... passed through
			// with their own simple conversions").
			for i := 0; i < px; i++ {
				r, g, b := colorconv.YCbCrToRGB8(c0[i], c1[i], c2[i])
				cC[i], cM[i], cY[i] = 255-r, 255-g, 255-b
			}
		} else {
			copy(cC, c0)
			copy(cM, c1)
			copy(cY, c2)
		}
		cc, _ := core.NewChannelFromBytes(core.KindU8, cC)
		mc, _ := core.NewChannelFromBytes(core.KindU8, cM)
		yc, _ := core.NewChannelFromBytes(core.KindU8, cY)
		kc, _ := core.NewChannelFromBytes(core.KindU8, k)
		frame, err := core.NewFrame(core.CMYK, core.Duration{Num: 1, Den: 1}, cc, mc, yc, kc)
		if err != nil {
			return nil, err
		}
		return core.NewImage(d.width, d.height, core.CMYK, core.Eight, frame)
	default:
		return nil, codecerr.New("jpeg", codecerr.KindUnsupportedVariant, errTooManyComps)
	}
}
