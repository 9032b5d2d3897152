package imageproc

import (
	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/colorconv"
)

// RGBToLumaFilter replaces an RGB/RGBA frame's three/four channels with a
// single Luma (or LumaA, alpha preserved) channel using the weighted-sum
// matrix of spec.md §4.10.
type RGBToLumaFilter struct{}

func (RGBToLumaFilter) Apply(img *core.Image) error {
	for _, fr := range img.Frames() {
		space := fr.ColourSpace()
		if space != core.RGB && space != core.RGBA {
			continue
		}
		colour := fr.ChannelsNoAlpha()
		alpha := fr.Alpha()

		lumaCh, err := rgbToLumaChannel(colour, img.Depth)
		if err != nil {
			return err
		}
		out := []*core.Channel{lumaCh}
		newSpace := core.Luma
		if alpha != nil {
			out = append(out, alpha)
			newSpace = core.LumaA
		}
		fr.ReplaceChannels(newSpace, out)
	}
	return nil
}

func rgbToLumaChannel(colour []*core.Channel, depth core.BitDepth) (*core.Channel, error) {
	switch depth.Kind() {
	case core.KindU8:
		r, err := colour[0].U8()
		if err != nil {
			return nil, err
		}
		g, err := colour[1].U8()
		if err != nil {
			return nil, err
		}
		b, err := colour[2].U8()
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(r))
		for i := range r {
			out[i] = colorconv.RGBToLuma8(r[i], g[i], b[i])
		}
		return core.NewChannelFromBytes(core.KindU8, out)
	case core.KindU16:
		r, err := colour[0].U16()
		if err != nil {
			return nil, err
		}
		g, err := colour[1].U16()
		if err != nil {
			return nil, err
		}
		b, err := colour[2].U16()
		if err != nil {
			return nil, err
		}
		out := make([]uint16, len(r))
		for i := range r {
			out[i] = colorconv.RGBToLuma16(r[i], g[i], b[i])
		}
		ch := core.NewChannel(core.KindU16)
		if err := ch.SetU16(out); err != nil {
			return nil, err
		}
		return ch, nil
	default:
		return nil, errUnsupportedKind
	}
}

// LumaToRGBFilter replicates a Luma/LumaA frame's luma channel into three
// RGB channels, preserving alpha if present (spec.md §4.10).
type LumaToRGBFilter struct{}

func (LumaToRGBFilter) Apply(img *core.Image) error {
	for _, fr := range img.Frames() {
		space := fr.ColourSpace()
		if space != core.Luma && space != core.LumaA {
			continue
		}
		channels := fr.Channels()
		luma := channels[0]
		var alpha *core.Channel
		if space == core.LumaA {
			alpha = channels[1]
		}

		r, g, b, err := lumaToRGBChannels(luma, img.Depth)
		if err != nil {
			return err
		}
		out := []*core.Channel{r, g, b}
		newSpace := core.RGB
		if alpha != nil {
			out = append(out, alpha)
			newSpace = core.RGBA
		}
		fr.ReplaceChannels(newSpace, out)
	}
	return nil
}

func lumaToRGBChannels(luma *core.Channel, depth core.BitDepth) (r, g, b *core.Channel, err error) {
	switch depth.Kind() {
	case core.KindU8:
		y, err := luma.U8()
		if err != nil {
			return nil, nil, nil, err
		}
		rb, gb, bb := make([]byte, len(y)), make([]byte, len(y)), make([]byte, len(y))
		for i, v := range y {
			rb[i], gb[i], bb[i] = colorconv.LumaToRGB8(v)
		}
		rc, err := core.NewChannelFromBytes(core.KindU8, rb)
		if err != nil {
			return nil, nil, nil, err
		}
		gc, err := core.NewChannelFromBytes(core.KindU8, gb)
		if err != nil {
			return nil, nil, nil, err
		}
		bc, err := core.NewChannelFromBytes(core.KindU8, bb)
		if err != nil {
			return nil, nil, nil, err
		}
		return rc, gc, bc, nil
	case core.KindU16:
		y, err := luma.U16()
		if err != nil {
			return nil, nil, nil, err
		}
		rv, gv, bv := make([]uint16, len(y)), make([]uint16, len(y)), make([]uint16, len(y))
		for i, v := range y {
			rv[i], gv[i], bv[i] = colorconv.LumaToRGB16(v)
		}
		rc, gc, bc := core.NewChannel(core.KindU16), core.NewChannel(core.KindU16), core.NewChannel(core.KindU16)
		if err := rc.SetU16(rv); err != nil {
			return nil, nil, nil, err
		}
		if err := gc.SetU16(gv); err != nil {
			return nil, nil, nil, err
		}
		if err := bc.SetU16(bv); err != nil {
			return nil, nil, nil, err
		}
		return rc, gc, bc, nil
	default:
		return nil, nil, nil, errUnsupportedKind
	}
}

// SwapChannelsFilter reorders a frame's channel slice without touching
// any sample, used for RGB<->BGR (swap 0 and 2) and RGBA<->ARGB (rotate),
// per spec.md §4.10.
type SwapChannelsFilter struct {
	Space core.ColourSpace // new declared colour space
	Order []int            // out[i] = old channels[Order[i]]
}

func (f SwapChannelsFilter) Apply(img *core.Image) error {
	for _, fr := range img.Frames() {
		channels := fr.Channels()
		if len(channels) != len(f.Order) {
			return errChannelCount
		}
		out := make([]*core.Channel, len(f.Order))
		for i, src := range f.Order {
			out[i] = channels[src]
		}
		fr.ReplaceChannels(f.Space, out)
	}
	return nil
}

// RGBToBGRFilter swaps the red and blue channels.
func RGBToBGRFilter() SwapChannelsFilter {
	return SwapChannelsFilter{Space: core.BGR, Order: []int{2, 1, 0}}
}

// BGRToRGBFilter is RGBToBGRFilter's inverse (the swap is its own inverse).
func BGRToRGBFilter() SwapChannelsFilter {
	return SwapChannelsFilter{Space: core.RGB, Order: []int{2, 1, 0}}
}

// RGBAToARGBFilter rotates alpha from last to first.
func RGBAToARGBFilter() SwapChannelsFilter {
	return SwapChannelsFilter{Space: core.ARGB, Order: []int{3, 0, 1, 2}}
}

// ARGBToRGBAFilter rotates alpha from first to last.
func ARGBToRGBAFilter() SwapChannelsFilter {
	return SwapChannelsFilter{Space: core.RGBA, Order: []int{1, 2, 3, 0}}
}

// RGBToCMYKFilter converts an RGB/RGBA frame to CMYK using spec.md §4.10's
// K = 1 - max(R,G,B) matrix. Alpha, if present, is dropped (CMYK has no
// alpha position in this module's colour-space set).
type RGBToCMYKFilter struct{}

func (RGBToCMYKFilter) Apply(img *core.Image) error {
	for _, fr := range img.Frames() {
		space := fr.ColourSpace()
		if space != core.RGB && space != core.RGBA {
			continue
		}
		if img.Depth.Kind() != core.KindU8 {
			return errUnsupportedKind
		}
		colour := fr.ChannelsNoAlpha()
		r, err := colour[0].U8()
		if err != nil {
			return err
		}
		g, err := colour[1].U8()
		if err != nil {
			return err
		}
		b, err := colour[2].U8()
		if err != nil {
			return err
		}
		c, m, y, k := make([]byte, len(r)), make([]byte, len(r)), make([]byte, len(r)), make([]byte, len(r))
		for i := range r {
			c[i], m[i], y[i], k[i] = colorconv.RGBToCMYK(r[i], g[i], b[i])
		}
		cc, err := core.NewChannelFromBytes(core.KindU8, c)
		if err != nil {
			return err
		}
		mc, err := core.NewChannelFromBytes(core.KindU8, m)
		if err != nil {
			return err
		}
		yc, err := core.NewChannelFromBytes(core.KindU8, y)
		if err != nil {
			return err
		}
		kc, err := core.NewChannelFromBytes(core.KindU8, k)
		if err != nil {
			return err
		}
		fr.ReplaceChannels(core.CMYK, []*core.Channel{cc, mc, yc, kc})
	}
	return nil
}

// CMYKToRGBFilter is RGBToCMYKFilter's inverse.
type CMYKToRGBFilter struct{}

func (CMYKToRGBFilter) Apply(img *core.Image) error {
	for _, fr := range img.Frames() {
		if fr.ColourSpace() != core.CMYK {
			continue
		}
		if img.Depth.Kind() != core.KindU8 {
			return errUnsupportedKind
		}
		channels := fr.Channels()
		c, err := channels[0].U8()
		if err != nil {
			return err
		}
		m, err := channels[1].U8()
		if err != nil {
			return err
		}
		y, err := channels[2].U8()
		if err != nil {
			return err
		}
		k, err := channels[3].U8()
		if err != nil {
			return err
		}
		r, g, b := make([]byte, len(c)), make([]byte, len(c)), make([]byte, len(c))
		for i := range c {
			r[i], g[i], b[i] = colorconv.CMYKToRGB(c[i], m[i], y[i], k[i])
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
	}
	return nil
}
