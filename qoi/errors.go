package qoi

import "errors"

var (
	errBadMagic      = errors.New("qoi: missing 'qoif' signature")
	errTruncated     = errors.New("qoi: truncated header or stream")
	errUnknownChan   = errors.New("qoi: channel count must be 3 or 4")
	errBadEndMarker  = errors.New("qoi: stream does not end in the expected marker")
)
