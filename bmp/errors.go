package bmp

import "errors"

var (
	errBadMagic        = errors.New("bmp: missing 'BM' signature")
	errTruncatedHeader = errors.New("bmp: truncated file or info header")
	errBadDimensions   = errors.New("bmp: invalid width/height")
	errUnsupportedBpp  = errors.New("bmp: unsupported bit depth")
	errMissingPalette  = errors.New("bmp: indexed image has no palette")
	errTruncatedPixels = errors.New("bmp: truncated pixel data")
	errTruncatedRLE    = errors.New("bmp: truncated RLE stream")
	errUnsupportedComp = errors.New("bmp: unsupported compression mode")
	errCompBppMismatch = errors.New("bmp: compression mode incompatible with bit depth")
)
