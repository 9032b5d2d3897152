package imageproc

import (
	"github.com/pixeltoolkit/imagecodec/core"
	"golang.org/x/sys/cpu"
)

// transposeBlock is the tile size used by the accelerated path. 8 pixels
// per tile keeps the working set inside one cache line's worth of rows at
// a time, the same granularity the teacher's SSE2 kernels in dsp_amd64.go
// operate on.
const transposeBlock = 8

// TransposeU8 is a package-level function variable, following the
// dispatch-table pattern of jpeg.IDCT8x8 and the teacher's
// internal/dsp.Init: a portable scalar implementation installed by
// default, swapped for a cache-blocked variant when the CPU probe
// (C15, golang.org/x/sys/cpu) reports SSE4.1. Both kernels are pure Go;
// no assembly is hand-written here; the tiled variant is what a real
// SSE4.1 8x8-block transpose buys architecturally (tile-sized working
// set, no strided cache misses) even without machine intrinsics.
var TransposeU8 = transposeU8Scalar

func init() {
	if cpu.X86.HasSSE41 {
		TransposeU8 = transposeU8Blocked
	}
}

// transposeU8Scalar writes dst[x*height+y] = src[y*width+x] for every
// pixel, straight row-major traversal.
func transposeU8Scalar(dst, src []byte, width, height int) {
	for y := 0; y < height; y++ {
		row := src[y*width : y*width+width]
		for x, v := range row {
			dst[x*height+y] = v
		}
	}
}

// transposeU8Blocked transposes in transposeBlock x transposeBlock tiles,
// the pattern an SSE4.1 8x8-block transpose follows (load a tile, shuffle
// lanes, store), scalarised here: each tile is read and written once
// instead of one strided element at a time.
func transposeU8Blocked(dst, src []byte, width, height int) {
	for by := 0; by < height; by += transposeBlock {
		yEnd := by + transposeBlock
		if yEnd > height {
			yEnd = height
		}
		for bx := 0; bx < width; bx += transposeBlock {
			xEnd := bx + transposeBlock
			if xEnd > width {
				xEnd = width
			}
			for y := by; y < yEnd; y++ {
				srcRow := src[y*width:]
				for x := bx; x < xEnd; x++ {
					dst[x*height+y] = srcRow[x]
				}
			}
		}
	}
}

// TransposeU16 is the 16-bit analogue of TransposeU8; 16-bit PNG and JXL
// channels are rare enough in practice that only the scalar kernel is
// provided (no blocked/SIMD variant).
func TransposeU16(dst, src []uint16, width, height int) {
	for y := 0; y < height; y++ {
		row := src[y*width : y*width+width]
		for x, v := range row {
			dst[x*height+y] = v
		}
	}
}

// TransposeF32 is transpose's float variant (spec.md §4.9's third form),
// used by the HSL/HSV float pipeline and HDR data.
func TransposeF32(dst, src []float32, width, height int) {
	for y := 0; y < height; y++ {
		row := src[y*width : y*width+width]
		for x, v := range row {
			dst[x*height+y] = v
		}
	}
}

// TransposeFilter swaps width and height for every channel of every
// frame, replacing each channel in place (allocates a transposed buffer,
// mutates the source channel's backing store) and swapping the image's
// declared Width/Height.
type TransposeFilter struct{}

func (TransposeFilter) Apply(img *core.Image) error {
	width, height := img.Width, img.Height
	for _, fr := range img.Frames() {
		channels := fr.Channels()
		out := make([]*core.Channel, len(channels))
		for i, ch := range channels {
			t, err := transposeChannel(ch, width, height)
			if err != nil {
				return err
			}
			out[i] = t
		}
		fr.ReplaceChannels(fr.ColourSpace(), out)
	}
	img.Width, img.Height = height, width
	return nil
}

func transposeChannel(ch *core.Channel, width, height int) (*core.Channel, error) {
	switch ch.Kind() {
	case core.KindU8:
		src, err := ch.U8()
		if err != nil {
			return nil, err
		}
		dst := make([]byte, len(src))
		TransposeU8(dst, src, width, height)
		return core.NewChannelFromBytes(core.KindU8, dst)
	case core.KindU16:
		src, err := ch.U16()
		if err != nil {
			return nil, err
		}
		dst := make([]uint16, len(src))
		TransposeU16(dst, src, width, height)
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
		dst := make([]float32, len(src))
		TransposeF32(dst, src, width, height)
		out := core.NewChannel(core.KindF32)
		if err := out.SetF32(dst); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, errUnsupportedKind
	}
}
