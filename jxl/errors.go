package jxl

import "errors"

var (
	errBadMagic      = errors.New("jxl: missing codestream signature")
	errTruncated     = errors.New("jxl: truncated header, TOC, or group data")
	errBadDimensions = errors.New("jxl: invalid width/height")
	errBadChannels   = errors.New("jxl: unsupported channel count or colour space")
	errBadDepth      = errors.New("jxl: unsupported bit depth")
	errCorruptGroup  = errors.New("jxl: corrupt group payload")
)
