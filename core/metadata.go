package core

import "time"

// Metadata carries optional ancillary data that rides alongside pixel data
// but isn't itself image content (spec.md §3). All fields are optional;
// the zero value means "absent".
type Metadata struct {
	// Gamma is the gAMA-chunk-style gamma value (already divided by
	// 100000, i.e. in the 0..1-ish range PNG's gAMA encodes).
	Gamma float64
	// HasGamma reports whether Gamma was actually set by the decoder.
	HasGamma bool

	// ICCProfile holds a raw embedded colour profile, inflated from PNG's
	// iCCP chunk. Only the PNG decoder sets it; the BMP and JPEG decoders
	// leave it empty. Surfaced opaquely; no profile transform is applied
	// (spec.md §1 Non-goals).
	ICCProfile []byte

	// EXIF holds raw EXIF bytes from PNG's eXIf chunk, uninterpreted. The
	// JPEG decoder does not set it.
	EXIF []byte

	// Text holds textual key/value metadata (PNG tEXt/zTXt/iTXt).
	Text map[string]string

	// Timestamp is the capture/modification time (PNG tIME), if present.
	Timestamp time.Time
	HasTimestamp bool
}
