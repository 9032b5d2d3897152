package png

import "errors"

var (
	errMagicBytes       = errors.New("png: bad signature")
	errTruncated        = errors.New("png: truncated chunk stream")
	errCRCMismatch      = errors.New("png: chunk CRC32 mismatch")
	errMissingIHDR       = errors.New("png: first chunk is not IHDR")
	errBadIHDR           = errors.New("png: malformed IHDR")
	errUnsupportedDepth  = errors.New("png: unsupported bit depth for colour type")
	errBadFilterType     = errors.New("png: invalid scanline filter type")
	errPaletteRequired   = errors.New("png: palette colour type with no PLTE chunk")
	errUnknownCritical   = errors.New("png: unrecognised critical chunk (strict mode)")
	errNoIDAT            = errors.New("png: no IDAT chunks present")
)
