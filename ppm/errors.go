package ppm

import "errors"

var (
	errBadMagic      = errors.New("ppm: missing 'P' magic byte")
	errBadVersion    = errors.New("ppm: unsupported PNM version (want 5, 6, or 7)")
	errTruncated     = errors.New("ppm: truncated header or pixel data")
	errBadHeader     = errors.New("ppm: malformed or incomplete P7 header")
	errMaxValTooBig  = errors.New("ppm: MAXVAL exceeds 65535")
	errSizeMismatch  = errors.New("ppm: pixel data size does not match header dimensions")
	errUnknownTuple  = errors.New("ppm: unknown P7 TUPLTYPE")
)
