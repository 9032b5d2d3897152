package deflate

import "errors"

// Errors returned by Inflate/Zlib, covering the failure modes listed in
// spec.md §4.2.
var (
	ErrBadZlibHeader     = errors.New("deflate: invalid zlib header")
	ErrUnsupportedMethod = errors.New("deflate: unsupported compression method")
	ErrWindowTooLarge    = errors.New("deflate: window size exceeds 32KiB")
	ErrAdlerMismatch     = errors.New("deflate: Adler-32 checksum mismatch")
	ErrTruncated         = errors.New("deflate: truncated stream")
	ErrBadBlockType      = errors.New("deflate: invalid block type")
	ErrBadStoredLength   = errors.New("deflate: stored block LEN/NLEN mismatch")
	ErrInvalidDistance   = errors.New("deflate: back-reference distance beyond output")
	ErrOverLimit         = errors.New("deflate: decompressed size exceeds configured limit")
	ErrInvalidTree       = errInvalidTree
	ErrEmptyCodeLengths  = errEmptyCodeLengths
)
