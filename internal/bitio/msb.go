package bitio

// MSBReader is the MSB-first bit reader used by JPEG entropy decoding
// (spec.md §4.1). It tops a 64-bit accumulator up to at least 57 bits,
// refilling by up to 8 bytes at a time, register-refill style borrowed from
// the teacher's BoolReader.loadNewBytes (internal/bitio/reader_bool.go):
// load a big chunk of bytes into a value register and drain it bit-by-bit
// between refills, rather than doing a byte read per bit.
//
// JPEG's 0xFF 0x00 byte-stuffing is transparently unstuffed during refill:
// a literal 0xFF byte in entropy-coded data is always followed by a 0x00
// stuffing byte which is dropped. A 0xFF followed by any other non-zero
// byte is a marker; MSBReader does not consume it, instead recording it in
// Marker so the caller (which knows whether a marker here is legal, e.g.
// RSTn) can decide what to do.
type MSBReader struct {
	acc     uint64 // top-aligned accumulator: valid bits are the high `nbits` bits
	nbits   uint   // number of valid bits currently in acc
	buf     []byte
	pos     int
	marker  byte // sticky: non-zero marker byte seen during refill (0xFF prefix already consumed)
	hasMarker bool
	overread  int // count of zero-bits returned past EOF, for strict-mode enforcement
}

// NewMSBReader creates an MSBReader over data, positioned at the start.
func NewMSBReader(data []byte) *MSBReader {
	return &MSBReader{buf: data}
}

// refill tops the accumulator up to at least 57 bits when possible,
// unstuffing 0xFF 0x00 pairs and stopping (without consuming) at a real
// marker.
func (r *MSBReader) refill() {
	for r.nbits <= 56 {
		if r.pos >= len(r.buf) {
			return
		}
		b := r.buf[r.pos]
		if b == 0xFF {
			if r.pos+1 >= len(r.buf) {
				// Ambiguous trailing 0xFF; stop refilling, let the
				// caller hit EOF/over-read instead of guessing.
				return
			}
			next := r.buf[r.pos+1]
			if next == 0x00 {
				// Escaped literal 0xFF.
				r.acc |= uint64(0xFF) << (56 - r.nbits)
				r.nbits += 8
				r.pos += 2
				continue
			}
			// Real marker: do not consume, record it, stop refilling.
			r.marker = next
			r.hasMarker = true
			return
		}
		r.acc |= uint64(b) << (56 - r.nbits)
		r.nbits += 8
		r.pos++
	}
}

// GetBits reads n bits (0..32) MSB-first and advances past them.
// Reading past the end of the stream returns zero bits and increments the
// over-read counter instead of erroring; strict-mode callers should check
// Overread() themselves.
func (r *MSBReader) GetBits(n int) uint32 {
	if n == 0 {
		return 0
	}
	r.refill()
	if uint(n) > r.nbits {
		short := uint(n) - r.nbits
		r.overread += int(short)
	}
	v := r.PeekBits(n)
	r.Drop(n)
	return v
}

// PeekBits returns the next n bits (0..32) without advancing. Callers that
// need more bits available than the accumulator currently holds must call
// Refill first (GetBits refills on its own; Drop does not);
// PeekBits on its own does not refill, matching spec.md §4.1's invariant
// that peek never implicitly pulls more bytes.
func (r *MSBReader) PeekBits(n int) uint32 {
	if n == 0 {
		return 0
	}
	if uint(n) > r.nbits {
		// zero-extend past what's available
		avail := uint32(r.acc >> (64 - r.nbits))
		return avail << (uint(n) - r.nbits)
	}
	return uint32(r.acc >> (64 - uint(n)))
}

// Drop advances the bit position by n bits without returning them. Caller
// must have refilled (via GetBits or a prior PeekBits-then-Drop sequence
// following a refill) enough bits to be meaningful.
func (r *MSBReader) Drop(n int) {
	if uint(n) >= r.nbits {
		r.nbits = 0
		r.acc = 0
		return
	}
	r.acc <<= uint(n)
	r.nbits -= uint(n)
}

// Refill exposes the internal refill so callers (e.g. a restart-interval
// handler) can force topping the accumulator up before a Peek.
func (r *MSBReader) Refill() { r.refill() }

// Marker returns the sticky marker byte captured during the last refill
// that stopped at a real (non-stuffed) 0xFF marker, and whether one was
// seen at all.
func (r *MSBReader) Marker() (byte, bool) { return r.marker, r.hasMarker }

// ClearMarker discards the sticky marker, e.g. after the caller has
// consumed it from the underlying byte stream directly.
func (r *MSBReader) ClearMarker() { r.marker = 0; r.hasMarker = false }

// AlignToByte drops bits until the accumulator is byte-aligned relative to
// the original stream (used by DRI restart handling and any stuffed-byte
// resynchronisation).
func (r *MSBReader) AlignToByte() {
	r.Drop(int(r.nbits % 8))
}

// ResetAt reseeks the reader to read from byte offset pos in the original
// buffer, discarding the accumulator (used after an RST marker: the byte
// reader/accumulator is reset per spec.md §4.4).
func (r *MSBReader) ResetAt(pos int) {
	r.acc = 0
	r.nbits = 0
	r.pos = pos
	r.marker = 0
	r.hasMarker = false
}

// Pos returns the reader's current byte position in the underlying buffer
// (i.e. how many source bytes have been consumed into the accumulator or
// skipped, not how many bits have been handed to the caller).
func (r *MSBReader) Pos() int { return r.pos }

// Overread returns how many bits past EOF have been returned as zero.
func (r *MSBReader) Overread() int { return r.overread }
