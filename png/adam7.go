package png

// adam7Pass gives one Adam7 interlacing pass's pixel grid parameters
// (spec.md §4.3: "seven passes with fixed (x_origin, y_origin, x_stride,
// y_stride)").
type adam7Pass struct {
	xOrigin, yOrigin, xStride, yStride int
}

var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// passDimensions returns the pixel width/height of a pass over an image of
// the given full dimensions; zero means the pass contributes no pixels.
func passDimensions(p adam7Pass, width, height int) (w, h int) {
	if width <= p.xOrigin || height <= p.yOrigin {
		return 0, 0
	}
	w = (width - p.xOrigin + p.xStride - 1) / p.xStride
	h = (height - p.yOrigin + p.yStride - 1) / p.yStride
	return w, h
}
