package imagecodec

import "errors"

var errUnrecognisedFormat = errors.New("imagecodec: unrecognised magic bytes")
