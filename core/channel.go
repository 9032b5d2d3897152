package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Errors returned by Channel operations. These mirror zune-image's
// ChannelErrors variants (UnalignedPointer / UnevenLength / DifferentType),
// expressed as sentinel errors in the idiom this module's error packages use
// throughout (see internal/codecerr).
var (
	// ErrLengthNotDivisible means the byte length does not divide evenly
	// by the requested element size.
	ErrLengthNotDivisible = errors.New("core: channel length does not divide element size")
	// ErrKindMismatch means a reinterpret was requested with a Kind the
	// channel was not created with.
	ErrKindMismatch = errors.New("core: channel kind mismatch")
)

// Channel is a contiguous byte buffer carrying one image plane (spec.md §3).
// It is a tagged-variant replacement for the source's raw-pointer
// reinterpretation: the Kind says how to view the bytes, and every typed
// accessor validates against it instead of trusting an untyped pointer cast
// (REDESIGN FLAGS, spec.md §9).
type Channel struct {
	buf  []byte
	kind Kind
}

// NewChannel creates an empty channel of the given Kind.
func NewChannel(kind Kind) *Channel {
	return &Channel{kind: kind}
}

// NewChannelWithCapacity creates an empty channel of the given Kind with
// byte capacity enough for capElements elements.
func NewChannelWithCapacity(kind Kind, capElements int) *Channel {
	return &Channel{buf: make([]byte, 0, capElements*kind.Size()), kind: kind}
}

// NewChannelWithLength creates a zero-filled channel of the given Kind
// holding exactly lengthElements elements.
func NewChannelWithLength(kind Kind, lengthElements int) *Channel {
	return &Channel{buf: make([]byte, lengthElements*kind.Size()), kind: kind}
}

// NewChannelFromBytes wraps raw bytes (e.g. a just-decoded scanline plane)
// as a Channel of the given Kind. len(raw) must divide kind.Size() evenly.
func NewChannelFromBytes(kind Kind, raw []byte) (*Channel, error) {
	if len(raw)%kind.Size() != 0 {
		return nil, fmt.Errorf("%w: %d bytes, element size %d", ErrLengthNotDivisible, len(raw), kind.Size())
	}
	return &Channel{buf: raw, kind: kind}, nil
}

// Kind returns the channel's element type tag.
func (c *Channel) Kind() Kind { return c.kind }

// Len returns the number of elements (not bytes) stored.
func (c *Channel) Len() int { return len(c.buf) / c.kind.Size() }

// ByteLen returns the raw byte length.
func (c *Channel) ByteLen() int { return len(c.buf) }

// Bytes returns the raw byte-alias of the channel. Mutating the returned
// slice mutates the channel.
func (c *Channel) Bytes() []byte { return c.buf }

// Clone returns a deep copy of the channel.
func (c *Channel) Clone() *Channel {
	cp := make([]byte, len(c.buf))
	copy(cp, c.buf)
	return &Channel{buf: cp, kind: c.kind}
}

// Fill sets every byte of the channel's backing buffer to v.
func (c *Channel) Fill(v byte) {
	for i := range c.buf {
		c.buf[i] = v
	}
}

// PushByte appends one raw byte (used when building KindU8 channels one
// sample at a time, e.g. PNG scanline reconstruction).
func (c *Channel) PushByte(b byte) {
	c.buf = append(c.buf, b)
}

// ExtendBytes appends raw bytes. For KindU8 channels this is the common
// "push a filtered scanline" path.
func (c *Channel) ExtendBytes(raw []byte) {
	c.buf = append(c.buf, raw...)
}

// U8 returns a safe typed view of the channel as a []uint8. It fails if the
// channel's Kind is not KindU8.
func (c *Channel) U8() ([]uint8, error) {
	if c.kind != KindU8 {
		return nil, fmt.Errorf("%w: channel is %s, not u8", ErrKindMismatch, c.kind)
	}
	return c.buf, nil
}

// U16 returns a safe typed view of the channel as a []uint16, decoded from
// the underlying bytes in native (little-endian in-memory) representation.
// It fails if the channel's Kind is not KindU16 or the byte length is odd.
func (c *Channel) U16() ([]uint16, error) {
	if c.kind != KindU16 {
		return nil, fmt.Errorf("%w: channel is %s, not u16", ErrKindMismatch, c.kind)
	}
	if len(c.buf)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrLengthNotDivisible, len(c.buf))
	}
	out := make([]uint16, len(c.buf)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(c.buf[i*2:])
	}
	return out, nil
}

// SetU16 overwrites the channel's contents from a []uint16 slice, encoding
// each sample as little-endian bytes. Fails if the channel's Kind is not
// KindU16.
func (c *Channel) SetU16(vals []uint16) error {
	if c.kind != KindU16 {
		return fmt.Errorf("%w: channel is %s, not u16", ErrKindMismatch, c.kind)
	}
	buf := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	c.buf = buf
	return nil
}

// F32 returns a safe typed view of the channel as a []float32. It fails if
// the channel's Kind is not KindF32 or the byte length does not divide 4.
func (c *Channel) F32() ([]float32, error) {
	if c.kind != KindF32 {
		return nil, fmt.Errorf("%w: channel is %s, not f32", ErrKindMismatch, c.kind)
	}
	if len(c.buf)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrLengthNotDivisible, len(c.buf))
	}
	out := make([]float32, len(c.buf)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(c.buf[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// SetF32 overwrites the channel's contents from a []float32 slice. Fails if
// the channel's Kind is not KindF32.
func (c *Channel) SetF32(vals []float32) error {
	if c.kind != KindF32 {
		return fmt.Errorf("%w: channel is %s, not f32", ErrKindMismatch, c.kind)
	}
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	c.buf = buf
	return nil
}
