package imageproc

import (
	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/colorconv"
)

// DepthConvertFilter rewrites every channel of every frame to a new
// BitDepth, then updates the image's declared Depth (spec.md §4.10:
// "Eight->Sixteen multiplies by 257, Sixteen->Eight shifts right by 8,
// float paths use 0..1 normalisation").
type DepthConvertFilter struct {
	Target core.BitDepth
}

func (f DepthConvertFilter) Apply(img *core.Image) error {
	if f.Target == img.Depth {
		return nil
	}
	for _, fr := range img.Frames() {
		channels := fr.Channels()
		out := make([]*core.Channel, len(channels))
		for i, ch := range channels {
			c, err := convertChannelDepth(ch, img.Depth, f.Target)
			if err != nil {
				return err
			}
			out[i] = c
		}
		fr.ReplaceChannels(fr.ColourSpace(), out)
	}
	img.Depth = f.Target
	return nil
}

func convertChannelDepth(ch *core.Channel, from, to core.BitDepth) (*core.Channel, error) {
	if from == to {
		return ch, nil
	}
	switch {
	case from == core.Eight && to == core.Sixteen:
		src, err := ch.U8()
		if err != nil {
			return nil, err
		}
		dst := make([]uint16, len(src))
		for i, v := range src {
			dst[i] = colorconv.U8ToU16(v)
		}
		out := core.NewChannel(core.KindU16)
		if err := out.SetU16(dst); err != nil {
			return nil, err
		}
		return out, nil
	case from == core.Sixteen && to == core.Eight:
		src, err := ch.U16()
		if err != nil {
			return nil, err
		}
		dst := make([]byte, len(src))
		for i, v := range src {
			dst[i] = colorconv.U16ToU8(v)
		}
		return core.NewChannelFromBytes(core.KindU8, dst)
	case from == core.Eight && to == core.Float32:
		src, err := ch.U8()
		if err != nil {
			return nil, err
		}
		dst := make([]float32, len(src))
		for i, v := range src {
			dst[i] = colorconv.U8ToFloat32(v)
		}
		return floatChannel(dst)
	case from == core.Float32 && to == core.Eight:
		src, err := ch.F32()
		if err != nil {
			return nil, err
		}
		dst := make([]byte, len(src))
		for i, v := range src {
			dst[i] = colorconv.Float32ToU8(v)
		}
		return core.NewChannelFromBytes(core.KindU8, dst)
	case from == core.Sixteen && to == core.Float32:
		src, err := ch.U16()
		if err != nil {
			return nil, err
		}
		dst := make([]float32, len(src))
		for i, v := range src {
			dst[i] = colorconv.U16ToFloat32(v)
		}
		return floatChannel(dst)
	case from == core.Float32 && to == core.Sixteen:
		src, err := ch.F32()
		if err != nil {
			return nil, err
		}
		dst := make([]uint16, len(src))
		for i, v := range src {
			dst[i] = colorconv.Float32ToU16(v)
		}
		out := core.NewChannel(core.KindU16)
		if err := out.SetU16(dst); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, errUnsupportedKind
	}
}
