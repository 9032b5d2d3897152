package jpeg

import "errors"

var (
	errMissingSOI       = errors.New("jpeg: missing SOI marker")
	errUnsupportedSOF   = errors.New("jpeg: unsupported SOF variant (arithmetic coding not implemented)")
	errDuplicateSOF     = errors.New("jpeg: duplicate SOF marker")
	errBadMarker        = errors.New("jpeg: malformed marker segment")
	errUnsupportedPrec  = errors.New("jpeg: unsupported sample precision (only 8-bit supported)")
	errTooManyComps     = errors.New("jpeg: too many components")
	errUnknownTable     = errors.New("jpeg: scan references an unloaded Huffman or quantisation table")
	errOversubscribed   = errors.New("jpeg: over-subscribed Huffman code")
	errPrematureEOI     = errors.New("jpeg: premature end of image")
	errBadRST           = errors.New("jpeg: restart marker out of sequence")
	errUnsupportedRatio = errors.New("jpeg: unsupported chroma sampling ratio")
	errTooManyScans     = errors.New("jpeg: progressive scan count exceeds configured limit")
	errBadAPP14         = errors.New("jpeg: APP14 transform byte out of range")
)
