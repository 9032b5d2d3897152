package imageproc

import "errors"

var (
	errChannelCount    = errors.New("imageproc: frame channel count doesn't match the filter's channel order")
	errUnsupportedKind = errors.New("imageproc: filter does not support this channel Kind")
	errBadCrop         = errors.New("imageproc: crop rectangle out of bounds")
	errBadRadius       = errors.New("imageproc: blur radius must be positive")
)
