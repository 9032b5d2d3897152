// Package options defines the single recognised-knobs struct shared by every
// decoder and encoder in this module, following the doc-comment-per-field
// style of the WebP teacher's EncoderOptions.
package options

// Endianness selects the byte order used when emitting 16-bit samples.
type Endianness int

const (
	// BigEndian matches the on-wire order PNG uses for 16-bit samples.
	BigEndian Endianness = iota
	// NativeEndian emits samples in the host's native byte order.
	NativeEndian
)

// Options controls every format decoder and encoder in this module. Not
// every field is meaningful to every format; unused fields are ignored.
type Options struct {
	// MaxWidth and MaxHeight bound the pixel extents a decoder will accept.
	// Exceeding either aborts with an OverLimit error. Default 16384.
	MaxWidth, MaxHeight int

	// MaxScans bounds the number of progressive JPEG scans processed
	// before aborting. Default 100.
	MaxScans int

	// DeflateSizeLimit bounds the total inflated byte count a DEFLATE
	// stream may produce. Default 1 GiB.
	DeflateSizeLimit int64

	// StrictMode rejects recoverable format violations instead of
	// warning and continuing.
	StrictMode bool

	// ConfirmChecksums verifies CRC32 (PNG chunks) and Adler32 (zlib
	// streams) when true.
	ConfirmChecksums bool

	// PNGAddAlpha forces an alpha channel onto the decoded PNG even when
	// the source has none (opaque alpha is synthesised).
	PNGAddAlpha bool

	// PNGStrip16To8 downsamples 16-bit PNG images to 8-bit on decode.
	PNGStrip16To8 bool

	// PNGDecodeAnimated, when true, also decodes the APNG frames (acTL/
	// fcTL/fdAT) that cover the full canvas, not only the first (default)
	// frame. Sub-rectangle frames are not returned.
	PNGDecodeAnimated bool

	// JPEGOutColourSpace names a requested JPEG output colour space (e.g.
	// a direct JPEG->grayscale conversion). The jpeg decoder does not read
	// it: output always uses the colour space the scan declares.
	JPEGOutColourSpace string

	// OutputEndianness names a byte order for emitted 16-bit samples. No
	// decoder or encoder in this module reads it.
	OutputEndianness Endianness

	// JXLDecodeAnimated is the JPEG-XL counterpart of PNGDecodeAnimated.
	// The jxl decoder does not read it and always decodes a single frame.
	JXLDecodeAnimated bool

	// JXLEncoderThreads bounds the worker pool used by the JXL encoder's
	// group-parallel encoding. 0 or 1 means sequential.
	JXLEncoderThreads int

	// JXLEncoderEffort trades encode time for size, 0 (fastest) to 127
	// (most thorough).
	JXLEncoderEffort int
}

// Default returns the documented default Options.
func Default() Options {
	return Options{
		MaxWidth:         16384,
		MaxHeight:        16384,
		MaxScans:         100,
		DeflateSizeLimit: 1 << 30,
		JXLEncoderThreads: 1,
		JXLEncoderEffort:  7,
	}
}

// WithDefaults fills zero-valued capacity/limit fields of o with the
// documented defaults, leaving explicit non-zero settings untouched.
func WithDefaults(o Options) Options {
	d := Default()
	if o.MaxWidth == 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxHeight == 0 {
		o.MaxHeight = d.MaxHeight
	}
	if o.MaxScans == 0 {
		o.MaxScans = d.MaxScans
	}
	if o.DeflateSizeLimit == 0 {
		o.DeflateSizeLimit = d.DeflateSizeLimit
	}
	if o.JXLEncoderThreads == 0 {
		o.JXLEncoderThreads = d.JXLEncoderThreads
	}
	return o
}
