package core

import (
	"encoding/binary"
	"errors"
)

// ErrInsufficientData is returned by every ByteSource read method when
// fewer bytes remain than requested (spec.md §4.1).
var ErrInsufficientData = errors.New("core: insufficient data")

// ErrSeekOutOfBounds is returned by Skip/Rewind when the requested
// movement would leave the cursor outside [0, Len()].
var ErrSeekOutOfBounds = errors.New("core: seek out of bounds")

// ByteSource is the abstract cursor over bytes that every decoder consumes
// (spec.md §6). Decoders never perform file I/O directly; callers adapt
// whatever they have (file, network body, in-memory buffer) to this
// interface.
type ByteSource interface {
	// Len returns the total byte length and true, or (0, false) if the
	// source's length isn't known up front (e.g. a streaming reader).
	Len() (int, bool)
	// Pos returns the current cursor position.
	Pos() int
	// ReadExact reads exactly n bytes, advancing the cursor. Returns
	// ErrInsufficientData if fewer than n bytes remain.
	ReadExact(n int) ([]byte, error)
	// Peek returns the next n bytes without advancing the cursor.
	Peek(n int) ([]byte, error)
	// Skip advances the cursor by n bytes without returning them.
	Skip(n int) error
	// Rewind moves the cursor back by n bytes.
	Rewind(n int) error
	// EOF reports whether the cursor is at the end of the source.
	EOF() bool
}

// SliceSource is a ByteSource backed by an in-memory byte slice, the
// common case for this module's decoders (callers typically buffer an
// entire compressed image before decoding, as the teacher's webp.Decode
// does via readAll).
type SliceSource struct {
	buf []byte
	pos int
}

// NewSliceSource wraps buf as a ByteSource.
func NewSliceSource(buf []byte) *SliceSource {
	return &SliceSource{buf: buf}
}

func (s *SliceSource) Len() (int, bool) { return len(s.buf), true }
func (s *SliceSource) Pos() int         { return s.pos }

func (s *SliceSource) ReadExact(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.buf) {
		return nil, ErrInsufficientData
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *SliceSource) Peek(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.buf) {
		return nil, ErrInsufficientData
	}
	return s.buf[s.pos : s.pos+n], nil
}

func (s *SliceSource) Skip(n int) error {
	if s.pos+n < 0 || s.pos+n > len(s.buf) {
		return ErrSeekOutOfBounds
	}
	s.pos += n
	return nil
}

func (s *SliceSource) Rewind(n int) error {
	return s.Skip(-n)
}

func (s *SliceSource) EOF() bool { return s.pos >= len(s.buf) }

// ReadUint16BE reads a big-endian uint16, advancing the cursor.
func (s *SliceSource) ReadUint16BE() (uint16, error) {
	b, err := s.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint16LE reads a little-endian uint16, advancing the cursor.
func (s *SliceSource) ReadUint16LE() (uint16, error) {
	b, err := s.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32BE reads a big-endian uint32, advancing the cursor.
func (s *SliceSource) ReadUint32BE() (uint32, error) {
	b, err := s.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint32LE reads a little-endian uint32, advancing the cursor.
func (s *SliceSource) ReadUint32LE() (uint32, error) {
	b, err := s.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Bytes returns the full underlying buffer (for decoders that prefer to
// index directly rather than via ReadExact, e.g. the chunked formats).
func (s *SliceSource) Bytes() []byte { return s.buf }
