package png

import "github.com/pixeltoolkit/imagecodec/core"

// buildFrame turns reconstructed raw samples into a core.Frame, expanding a
// palette colour type through PLTE/tRNS (spec.md §4.3 step: "Palette
// expansion").
func (d *Decoder) buildFrame(samples8 []byte, samples16 []uint16, width, height int, dur core.Duration) (*core.Frame, error) {
	hdr := d.hdr
	if hdr.colourType == ctPalette {
		return d.buildPaletteFrame(samples8, width, height, dur)
	}

	space, _ := d.ColourSpace()
	rawN := hdr.colourType.channels() // component count excluding any key-transparency alpha
	px := width * height

	if hdr.depth == 16 {
		raw := make([][]uint16, rawN)
		for c := 0; c < rawN; c++ {
			vals := make([]uint16, px)
			for p := 0; p < px; p++ {
				vals[p] = samples16[p*rawN+c]
			}
			raw[c] = vals
		}
		channels := make([]*core.Channel, 0, rawN+1)
		if space.AlphaPosition() == core.AlphaFirst {
			channels = append(channels, colourKeyAlpha16(d, raw, px))
		}
		for _, vals := range raw {
			ch := core.NewChannel(core.KindU16)
			if err := ch.SetU16(vals); err != nil {
				return nil, err
			}
			channels = append(channels, ch)
		}
		if space.AlphaPosition() == core.AlphaLast {
			channels = append(channels, colourKeyAlpha16(d, raw, px))
		}
		return core.NewFrame(space, dur, channels...)
	}

	raw := make([][]byte, rawN)
	for c := 0; c < rawN; c++ {
		buf := make([]byte, px)
		for p := 0; p < px; p++ {
			buf[p] = samples8[p*rawN+c]
		}
		raw[c] = buf
	}
	channels := make([]*core.Channel, 0, rawN+1)
	if space.AlphaPosition() == core.AlphaFirst {
		ch, err := core.NewChannelFromBytes(core.KindU8, colourKeyAlpha8(d, raw, px))
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	for _, buf := range raw {
		ch, err := core.NewChannelFromBytes(core.KindU8, buf)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	if space.AlphaPosition() == core.AlphaLast {
		ch, err := core.NewChannelFromBytes(core.KindU8, colourKeyAlpha8(d, raw, px))
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return core.NewFrame(space, dur, channels...)
}

// colourKeyAlpha8 implements tRNS's non-palette form (spec.md §4.3): a
// single gray or RGB value, carried as 16-bit samples even for an 8-bit
// image, decodes to fully transparent wherever it matches exactly.
func colourKeyAlpha8(d *Decoder, raw [][]byte, px int) []byte {
	key := trnsLowByteKey(d.trns, len(raw))
	out := make([]byte, px)
	for p := 0; p < px; p++ {
		match := true
		for c, buf := range raw {
			if buf[p] != key[c] {
				match = false
				break
			}
		}
		if match {
			out[p] = 0
		} else {
			out[p] = 255
		}
	}
	return out
}

func colourKeyAlpha16(d *Decoder, raw [][]uint16, px int) *core.Channel {
	key := trnsKey(d.trns, len(raw))
	out := make([]uint16, px)
	for p := 0; p < px; p++ {
		match := true
		for c, buf := range raw {
			if buf[p] != key[c] {
				match = false
				break
			}
		}
		if match {
			out[p] = 0
		} else {
			out[p] = 0xFFFF
		}
	}
	ch := core.NewChannel(core.KindU16)
	ch.SetU16(out)
	return ch
}

func trnsLowByteKey(trns []byte, n int) []byte {
	key := make([]byte, n)
	for c := 0; c < n && (c*2+1) < len(trns); c++ {
		key[c] = trns[c*2+1]
	}
	return key
}

func trnsKey(trns []byte, n int) []uint16 {
	key := make([]uint16, n)
	for c := 0; c < n && (c*2+1) < len(trns); c++ {
		key[c] = uint16(trns[c*2])<<8 | uint16(trns[c*2+1])
	}
	return key
}

func (d *Decoder) buildPaletteFrame(indices []byte, width, height int, dur core.Duration) (*core.Frame, error) {
	px := width * height
	hasAlpha := len(d.trns) > 0
	var rCh, gCh, bCh, aCh []byte
	rCh = make([]byte, px)
	gCh = make([]byte, px)
	bCh = make([]byte, px)
	if hasAlpha {
		aCh = make([]byte, px)
	}
	for p := 0; p < px; p++ {
		idx := int(indices[p])
		if idx >= len(d.palette) {
			idx = len(d.palette) - 1
		}
		rgb := d.palette[idx]
		rCh[p], gCh[p], bCh[p] = rgb[0], rgb[1], rgb[2]
		if hasAlpha {
			if idx < len(d.trns) {
				aCh[p] = d.trns[idx]
			} else {
				aCh[p] = 255
			}
		}
	}

	mk := func(b []byte) (*core.Channel, error) { return core.NewChannelFromBytes(core.KindU8, b) }
	r, err := mk(rCh)
	if err != nil {
		return nil, err
	}
	g, err := mk(gCh)
	if err != nil {
		return nil, err
	}
	b, err := mk(bCh)
	if err != nil {
		return nil, err
	}
	if hasAlpha {
		a, err := mk(aCh)
		if err != nil {
			return nil, err
		}
		return core.NewFrame(core.RGBA, dur, r, g, b, a)
	}
	return core.NewFrame(core.RGB, dur, r, g, b)
}
