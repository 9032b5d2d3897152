package core

import "fmt"

// Image is a non-empty vector of frames plus shared metadata (spec.md §3).
// Image owns its frames exclusively; no channel is ever shared between
// frames or images.
type Image struct {
	Width, Height int
	Space         ColourSpace
	Depth         BitDepth
	Endianness    Endianness

	// Animated reports whether the source signalled more than one frame
	// (PNG acTL, JPEG-XL animation metadata). A single-frame Image always
	// has Animated == false, even if the format could in principle carry
	// animation.
	Animated bool

	Metadata Metadata

	frames []*Frame
}

// Endianness mirrors options.Endianness without importing the options
// package from core (core sits below options in the dependency order).
type Endianness int

const (
	BigEndian Endianness = iota
	NativeEndian
)

// NewImage builds an Image from one or more frames. Every frame must carry
// the same element count (width*height) and Kind (the Image invariant).
func NewImage(width, height int, space ColourSpace, depth BitDepth, frames ...*Frame) (*Image, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("core: image needs at least one frame")
	}
	want := width * height
	kind := frames[0].Kind()
	for i, f := range frames {
		if f.NumPixels() != want {
			return nil, fmt.Errorf("core: frame %d has %d pixels, want %d (%dx%d)", i, f.NumPixels(), want, width, height)
		}
		if f.Kind() != kind {
			return nil, fmt.Errorf("core: frame %d is %s, want %s", i, f.Kind(), kind)
		}
	}
	return &Image{
		Width:    width,
		Height:   height,
		Space:    space,
		Depth:    depth,
		Animated: len(frames) > 1,
		frames:   frames,
	}, nil
}

// Frames returns every decoded frame. For a still image this has length 1.
func (img *Image) Frames() []*Frame { return img.frames }

// Frame returns the i'th frame (0 for a still image's only frame).
func (img *Image) Frame(i int) *Frame { return img.frames[i] }

// AppendFrame adds another frame to an animated image, marking Animated.
func (img *Image) AppendFrame(f *Frame) error {
	if f.NumPixels() != img.Width*img.Height {
		return fmt.Errorf("core: frame has %d pixels, want %d (%dx%d)", f.NumPixels(), img.Width*img.Height, img.Width, img.Height)
	}
	img.frames = append(img.frames, f)
	img.Animated = len(img.frames) > 1
	return nil
}

// Clone returns a deep copy of the image, including all frames.
func (img *Image) Clone() *Image {
	frames := make([]*Frame, len(img.frames))
	for i, f := range img.frames {
		frames[i] = f.Clone()
	}
	cp := *img
	cp.frames = frames
	return &cp
}
