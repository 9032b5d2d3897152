package hdr

import "errors"

var (
	errBadMagic       = errors.New("hdr: missing '#?RADIANCE' or '#?RGBE' magic line")
	errTruncated      = errors.New("hdr: truncated header or scanline data")
	errBadOrientation = errors.New("hdr: unsupported orientation line")
	errBadDimensions  = errors.New("hdr: invalid width/height")
)
