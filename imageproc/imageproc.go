// Package imageproc implements the per-frame, per-channel filters of
// spec.md §4.9 (transpose, blur, crop, colour/depth conversion) plus the
// pipeline that runs them over a core.Image in insertion order.
//
// Every filter operates on one core.Frame's channels at a time and swaps
// in its results via Frame.ReplaceChannels on that same frame. Filters
// that change geometry (Transpose, Crop) also update the image's Width and
// Height in place; filters that only reinterpret or recompute samples
// (blur, colour conversion) keep the frame's dimensions, mirroring
// how the teacher's own alpha_proc.go functions (MultARGBRow, ApplyAlphaMultiply)
// rewrite a buffer's contents without reallocating the surrounding struct.
package imageproc

import "github.com/pixeltoolkit/imagecodec/core"

// Filter is one pipeline stage. Apply receives the image and may replace
// any frame's channels or append a new frame. CropFilter and
// TransposeFilter update the image's Width/Height in place, and
// DepthConvertFilter updates its Depth; no filter changes the image's
// declared Space.
type Filter interface {
	Apply(img *core.Image) error
}

// Pipeline walks its filters in insertion order over an Image (spec.md
// §4.9).
type Pipeline struct {
	filters []Filter
}

// NewPipeline builds a Pipeline from an ordered filter list.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{filters: filters}
}

// Append adds a filter to the end of the pipeline.
func (p *Pipeline) Append(f Filter) {
	p.filters = append(p.filters, f)
}

// Run applies every filter in order, stopping at the first error.
func (p *Pipeline) Run(img *core.Image) error {
	for _, f := range p.filters {
		if err := f.Apply(img); err != nil {
			return err
		}
	}
	return nil
}
