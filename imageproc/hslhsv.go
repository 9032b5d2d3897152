package imageproc

import (
	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/colorconv"
)

// toUnit8 and toUnit16 widen an 8/16-bit sample to the 0..1 float range
// colorconv's HSL/HSV transforms expect; fromUnit8/fromUnit16 narrow back,
// rounding to nearest rather than truncating.
func toUnit8(v uint8) float64 {
	return float64(v) / 255
}

func toUnit16(v uint16) float64 {
	return float64(v) / 65535
}

func fromUnit8(f float64) uint8 {
	return clampByte(int32(f*255 + 0.5))
}

func fromUnit16(f float64) uint16 {
	return clampU16(int64(f*65535 + 0.5))
}

func clampByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampU16(v int64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

// RGBToHSLFilter converts an RGB/RGBA frame to HSL (alpha, if any, is
// dropped; HSL carries no alpha position). The source sample is first
// widened to a 0..1 float64, handed to colorconv's float64 transform, and
// narrowed back (spec.md §4.10: "must run at float precision, so the
// pipeline temporarily converts... and converts back").
type RGBToHSLFilter struct{}

func (RGBToHSLFilter) Apply(img *core.Image) error {
	return convertRGBToPolar(img, colorconv.RGBToHSL, core.HSL)
}

// HSLToRGBFilter is RGBToHSLFilter's inverse.
type HSLToRGBFilter struct{}

func (HSLToRGBFilter) Apply(img *core.Image) error {
	return convertPolarToRGB(img, colorconv.HSLToRGB, core.HSL)
}

// RGBToHSVFilter converts an RGB/RGBA frame to HSV, same pipeline as
// RGBToHSLFilter.
type RGBToHSVFilter struct{}

func (RGBToHSVFilter) Apply(img *core.Image) error {
	return convertRGBToPolar(img, colorconv.RGBToHSV, core.HSV)
}

// HSVToRGBFilter is RGBToHSVFilter's inverse.
type HSVToRGBFilter struct{}

func (HSVToRGBFilter) Apply(img *core.Image) error {
	return convertPolarToRGB(img, colorconv.HSVToRGB, core.HSV)
}

type rgbToPolarFunc func(r, g, b float64) (a, b2, c float64)
type polarToRGBFunc func(a, b, c float64) (r, g, b float64)

func convertRGBToPolar(img *core.Image, transform rgbToPolarFunc, space core.ColourSpace) error {
	for _, fr := range img.Frames() {
		src := fr.ColourSpace()
		if src != core.RGB && src != core.RGBA {
			continue
		}
		colour := fr.ChannelsNoAlpha()
		n := colour[0].Len()
		h, s, l := make([]float32, n), make([]float32, n), make([]float32, n)

		switch img.Depth.Kind() {
		case core.KindU8:
			r8, g8, b8, err := u8Triple(colour)
			if err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				rf := toUnit8(r8[i])
				gf := toUnit8(g8[i])
				bf := toUnit8(b8[i])
				a, b, c := transform(rf, gf, bf)
				h[i], s[i], l[i] = float32(a), float32(b), float32(c)
			}
		case core.KindU16:
			r16, g16, b16, err := u16Triple(colour)
			if err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				rf := toUnit16(r16[i])
				gf := toUnit16(g16[i])
				bf := toUnit16(b16[i])
				a, b, c := transform(rf, gf, bf)
				h[i], s[i], l[i] = float32(a), float32(b), float32(c)
			}
		default:
			return errUnsupportedKind
		}

		hc, err := floatChannel(h)
		if err != nil {
			return err
		}
		sc, err := floatChannel(s)
		if err != nil {
			return err
		}
		lc, err := floatChannel(l)
		if err != nil {
			return err
		}
		fr.ReplaceChannels(space, []*core.Channel{hc, sc, lc})
	}
	return nil
}

func convertPolarToRGB(img *core.Image, transform polarToRGBFunc, space core.ColourSpace) error {
	for _, fr := range img.Frames() {
		if fr.ColourSpace() != space {
			continue
		}
		channels := fr.Channels()
		h, err := channels[0].F32()
		if err != nil {
			return err
		}
		s, err := channels[1].F32()
		if err != nil {
			return err
		}
		l, err := channels[2].F32()
		if err != nil {
			return err
		}
		n := len(h)

		switch img.Depth.Kind() {
		case core.KindU8:
			r, g, b := make([]byte, n), make([]byte, n), make([]byte, n)
			for i := 0; i < n; i++ {
				rf, gf, bf := transform(float64(h[i]), float64(s[i]), float64(l[i]))
				r[i] = fromUnit8(rf)
				g[i] = fromUnit8(gf)
				b[i] = fromUnit8(bf)
			}
			rc, err := core.NewChannelFromBytes(core.KindU8, r)
			if err != nil {
				return err
			}
			gc, err := core.NewChannelFromBytes(core.KindU8, g)
			if err != nil {
				return err
			}
			bc, err := core.NewChannelFromBytes(core.KindU8, b)
			if err != nil {
				return err
			}
			fr.ReplaceChannels(core.RGB, []*core.Channel{rc, gc, bc})
		case core.KindU16:
			r, g, b := make([]uint16, n), make([]uint16, n), make([]uint16, n)
			for i := 0; i < n; i++ {
				rf, gf, bf := transform(float64(h[i]), float64(s[i]), float64(l[i]))
				r[i] = fromUnit16(rf)
				g[i] = fromUnit16(gf)
				b[i] = fromUnit16(bf)
			}
			rc, gc, bc := core.NewChannel(core.KindU16), core.NewChannel(core.KindU16), core.NewChannel(core.KindU16)
			if err := rc.SetU16(r); err != nil {
				return err
			}
			if err := gc.SetU16(g); err != nil {
				return err
			}
			if err := bc.SetU16(b); err != nil {
				return err
			}
			fr.ReplaceChannels(core.RGB, []*core.Channel{rc, gc, bc})
		default:
			return errUnsupportedKind
		}
	}
	return nil
}

func u8Triple(colour []*core.Channel) (r, g, b []uint8, err error) {
	if r, err = colour[0].U8(); err != nil {
		return
	}
	if g, err = colour[1].U8(); err != nil {
		return
	}
	b, err = colour[2].U8()
	return
}

func u16Triple(colour []*core.Channel) (r, g, b []uint16, err error) {
	if r, err = colour[0].U16(); err != nil {
		return
	}
	if g, err = colour[1].U16(); err != nil {
		return
	}
	b, err = colour[2].U16()
	return
}

func floatChannel(v []float32) (*core.Channel, error) {
	ch := core.NewChannel(core.KindF32)
	if err := ch.SetF32(v); err != nil {
		return nil, err
	}
	return ch, nil
}
