package imageproc

import "github.com/pixeltoolkit/imagecodec/core"

// CropFilter slices every channel of every frame to the rectangle
// [X0,Y0)-[X1,Y1) and rewrites it into a fresh, tightly-packed channel
// (spec.md §4.9's "slice-and-rewrite per channel"), then shrinks the
// image's declared Width/Height to match.
type CropFilter struct {
	X0, Y0, X1, Y1 int
}

func (f CropFilter) Apply(img *core.Image) error {
	if f.X0 < 0 || f.Y0 < 0 || f.X1 > img.Width || f.Y1 > img.Height || f.X0 >= f.X1 || f.Y0 >= f.Y1 {
		return errBadCrop
	}
	newWidth, newHeight := f.X1-f.X0, f.Y1-f.Y0

	for _, fr := range img.Frames() {
		channels := fr.Channels()
		out := make([]*core.Channel, len(channels))
		for i, ch := range channels {
			c, err := cropChannel(ch, img.Width, f.X0, f.Y0, f.X1, f.Y1)
			if err != nil {
				return err
			}
			out[i] = c
		}
		fr.ReplaceChannels(fr.ColourSpace(), out)
	}
	img.Width, img.Height = newWidth, newHeight
	return nil
}

func cropChannel(ch *core.Channel, width, x0, y0, x1, y1 int) (*core.Channel, error) {
	newWidth, newHeight := x1-x0, y1-y0
	switch ch.Kind() {
	case core.KindU8:
		src, err := ch.U8()
		if err != nil {
			return nil, err
		}
		dst := make([]byte, newWidth*newHeight)
		for y := y0; y < y1; y++ {
			srcRow := src[y*width+x0 : y*width+x1]
			copy(dst[(y-y0)*newWidth:(y-y0+1)*newWidth], srcRow)
		}
		return core.NewChannelFromBytes(core.KindU8, dst)
	case core.KindU16:
		src, err := ch.U16()
		if err != nil {
			return nil, err
		}
		dst := make([]uint16, newWidth*newHeight)
		for y := y0; y < y1; y++ {
			srcRow := src[y*width+x0 : y*width+x1]
			copy(dst[(y-y0)*newWidth:(y-y0+1)*newWidth], srcRow)
		}
		out := core.NewChannel(core.KindU16)
		if err := out.SetU16(dst); err != nil {
			return nil, err
		}
		return out, nil
	case core.KindF32:
		src, err := ch.F32()
		if err != nil {
			return nil, err
		}
		dst := make([]float32, newWidth*newHeight)
		for y := y0; y < y1; y++ {
			srcRow := src[y*width+x0 : y*width+x1]
			copy(dst[(y-y0)*newWidth:(y-y0+1)*newWidth], srcRow)
		}
		out := core.NewChannel(core.KindF32)
		if err := out.SetF32(dst); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, errUnsupportedKind
	}
}
