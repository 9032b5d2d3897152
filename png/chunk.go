// Package png implements the PNG decoder and encoder of spec.md §4.3/§4.9,
// including the APNG animation extension (acTL/fcTL/fdAT) generalised from
// the teacher's WebP animation model (animation/animation.go).
package png

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
)

var signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// chunk is one length-prefixed PNG chunk: 4-byte big-endian length, 4-byte
// ASCII type, length bytes of data, 4-byte CRC32 over type+data.
type chunk struct {
	typ  [4]byte
	data []byte
	crc  uint32
}

func (c chunk) typeString() string { return string(c.typ[:]) }

// isCritical reports whether the chunk's type has its upper-case first
// letter (PNG's critical-chunk signalling convention, spec.md §4.3 step 3).
func (c chunk) isCritical() bool { return c.typ[0] >= 'A' && c.typ[0] <= 'Z' }

// walkChunks iterates every chunk after the 8-byte signature, verifying the
// CRC32 when verifyCRC is set, and calling fn for each. Iteration stops at
// IEND or when fn returns a non-nil error (returned to the caller, not
// treated as a terminator).
func walkChunks(data []byte, verifyCRC bool, fn func(chunk) error) error {
	if len(data) < 8 || [8]byte(data[:8]) != signature {
		return codecerr.New("png", codecerr.KindMagicBytes, errMagicBytes)
	}
	pos := 8
	for {
		if pos+8 > len(data) {
			return codecerr.New("png", codecerr.KindInsufficientData, errTruncated)
		}
		length := binary.BigEndian.Uint32(data[pos:])
		if pos+8+int(length)+4 > len(data) {
			return codecerr.New("png", codecerr.KindInsufficientData, errTruncated)
		}
		var c chunk
		copy(c.typ[:], data[pos+4:pos+8])
		c.data = data[pos+8 : pos+8+int(length)]
		c.crc = binary.BigEndian.Uint32(data[pos+8+int(length):])

		if verifyCRC {
			sum := crc32.ChecksumIEEE(data[pos+4 : pos+8+int(length)])
			if sum != c.crc {
				return codecerr.New("png", codecerr.KindChecksumMismatch, errCRCMismatch)
			}
		}

		if err := fn(c); err != nil {
			return err
		}
		pos += 8 + int(length) + 4
		if c.typeString() == "IEND" {
			return nil
		}
		if pos >= len(data) {
			return codecerr.New("png", codecerr.KindInsufficientData, errTruncated)
		}
	}
}

// appendChunk writes one chunk (length, type, data, CRC32) to buf.
func appendChunk(buf []byte, typ string, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf = append(buf, lenBuf[:]...)
	start := len(buf)
	buf = append(buf, typ...)
	buf = append(buf, data...)
	sum := crc32.ChecksumIEEE(buf[start:])
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], sum)
	return append(buf, crcBuf[:]...)
}
