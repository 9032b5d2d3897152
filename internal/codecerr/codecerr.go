// Package codecerr defines the shared error taxonomy used by every format
// decoder/encoder in this module. Each format package still declares its own
// sentinel errors (following the style of the WebP container's riff.go), but
// wraps them in a Kind so callers can discriminate failures without knowing
// which format produced them.
package codecerr

import (
	"errors"
	"fmt"
)

// Kind classifies why a decode or encode operation failed.
type Kind int

const (
	// KindUnknown is the zero value; never returned deliberately.
	KindUnknown Kind = iota
	// KindMagicBytes means the leading bytes don't match the format's magic.
	KindMagicBytes
	// KindUnsupportedVariant means the header describes a subset the
	// decoder does not implement (e.g. arithmetic-coded JPEG).
	KindUnsupportedVariant
	// KindCorrupt means a structural invariant was broken.
	KindCorrupt
	// KindInsufficientData means the source ended mid-structure.
	KindInsufficientData
	// KindOverLimit means a dimension or stream size exceeded a configured cap.
	KindOverLimit
	// KindChecksumMismatch means a CRC32/Adler32 check failed (only surfaced
	// when checksum verification is enabled).
	KindChecksumMismatch
	// KindUnsupported means a recognised but unimplemented feature was hit.
	KindUnsupported
	// KindIO means the error originated in the caller's byte source/sink.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindMagicBytes:
		return "magic-bytes"
	case KindUnsupportedVariant:
		return "unsupported-variant"
	case KindCorrupt:
		return "corrupt"
	case KindInsufficientData:
		return "insufficient-data"
	case KindOverLimit:
		return "over-limit"
	case KindChecksumMismatch:
		return "checksum-mismatch"
	case KindUnsupported:
		return "unsupported"
	case KindIO:
		return "io-error"
	default:
		return "unknown"
	}
}

// Error wraps a cause with a Kind and the format package that raised it.
type Error struct {
	Kind   Kind
	Format string // "png", "jpeg", "bmp", ...
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Format, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error for the given format/kind, wrapping err.
func New(format string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Format: format, Err: err}
}

// Wrapf builds an *Error from a format string, matching the teacher's
// fmt.Errorf("%w: ...") idiom for the inner cause.
func Wrapf(format string, kind Kind, cause error, msg string, args ...any) *Error {
	return &Error{Kind: kind, Format: format, Err: fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), cause)}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
