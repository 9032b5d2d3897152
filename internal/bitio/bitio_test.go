package bitio

import "testing"

func TestLSBReadWriteRoundTrip(t *testing.T) {
	w := NewLSBWriter(16)
	w.WriteBits(0x5, 3)
	w.WriteBits(0x3FF, 10)
	w.WriteBits(1, 1)
	w.WriteBits(0, 2)
	data := w.Finish()

	r := NewLSBReader(data)
	if got := r.ReadBits(3); got != 0x5 {
		t.Fatalf("ReadBits(3) = %#x, want 0x5", got)
	}
	if got := r.ReadBits(10); got != 0x3FF {
		t.Fatalf("ReadBits(10) = %#x, want 0x3ff", got)
	}
	if got := r.ReadBits(1); got != 1 {
		t.Fatalf("ReadBits(1) = %d, want 1", got)
	}
}

func TestLSBReaderEOSReturnsZero(t *testing.T) {
	r := NewLSBReader([]byte{0xFF})
	r.ReadBits(8)
	if got := r.ReadBits(8); got != 0 {
		t.Fatalf("over-read ReadBits = %#x, want 0", got)
	}
	if !r.IsEndOfStream() {
		t.Fatal("expected end-of-stream after over-read")
	}
}

func TestMSBReaderBasic(t *testing.T) {
	// 0b10110100, 0b11000000 => first 3 bits = 101 = 5, next 5 bits = 10100 = 20
	r := NewMSBReader([]byte{0b10110100, 0b11000000})
	if got := r.GetBits(3); got != 0b101 {
		t.Fatalf("GetBits(3) = %b, want 101", got)
	}
	if got := r.GetBits(5); got != 0b10100 {
		t.Fatalf("GetBits(5) = %b, want 10100", got)
	}
	if got := r.GetBits(8); got != 0b11000000 {
		t.Fatalf("GetBits(8) = %b, want 11000000", got)
	}
}

func TestMSBReaderByteStuffing(t *testing.T) {
	// 0xFF 0x00 is an escaped literal 0xFF in entropy-coded JPEG data.
	r := NewMSBReader([]byte{0xFF, 0x00, 0xAB})
	if got := r.GetBits(8); got != 0xFF {
		t.Fatalf("GetBits(8) = %#x, want 0xff (unstuffed)", got)
	}
	if got := r.GetBits(8); got != 0xAB {
		t.Fatalf("GetBits(8) = %#x, want 0xab", got)
	}
}

func TestMSBReaderStopsAtMarker(t *testing.T) {
	r := NewMSBReader([]byte{0xAB, 0xFF, 0xD9}) // 0xFFD9 = EOI marker
	if got := r.GetBits(8); got != 0xAB {
		t.Fatalf("GetBits(8) = %#x, want 0xab", got)
	}
	r.Refill()
	marker, ok := r.Marker()
	if !ok || marker != 0xD9 {
		t.Fatalf("Marker() = (%#x, %v), want (0xd9, true)", marker, ok)
	}
}

func TestMSBReaderOverread(t *testing.T) {
	r := NewMSBReader([]byte{0xFF & 0x7F})
	r.GetBits(8)
	r.GetBits(8)
	if r.Overread() == 0 {
		t.Fatal("expected non-zero overread count")
	}
}
