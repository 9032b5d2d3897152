package jpeg

import (
	"testing"

	"github.com/pixeltoolkit/imagecodec/internal/bitio"
)

// msbReaderFromBits packs an n-bit value left-aligned into a byte buffer so
// tests can feed arbitrary short bit patterns to an MSBReader.
func msbReaderFromBits(bits uint32, n int) *bitio.MSBReader {
	buf := make([]byte, (n+7)/8+1)
	shift := uint(len(buf)*8 - n)
	v := uint64(bits) << shift
	for i := range buf {
		buf[i] = byte(v >> uint((len(buf)-1-i)*8))
	}
	return bitio.NewMSBReader(buf)
}

// TestGrayDCOnlyBlockIsFlat is spec.md §8's S2 fixture: a baseline 8x8 grey
// block with DC=128 and all AC=0 decodes to 64 samples all equal to 128.
// A DC coefficient that reconstructs to the mid-grey level after the IDCT's
// +128 level shift means the dequantised coefficient itself is zero.
func TestGrayDCOnlyBlockIsFlat(t *testing.T) {
	var b block // all zero: dequantised DC=0, every AC=0
	IDCT8x8(&b)
	for i, v := range b {
		got := clampSample(v)
		if got != 128 {
			t.Fatalf("sample %d = %d, want 128", i, got)
		}
	}
}

func TestHuffmanDecodeRoundTrip(t *testing.T) {
	// Two symbols, lengths 1 and 2 (a valid canonical assignment):
	// symbol 'A' -> code 0 (1 bit), symbol 'B' -> code 10 (2 bits).
	counts := [16]byte{1, 1}
	symbols := []byte{'A', 'B'}
	ht := buildHuffTable(counts, symbols)
	if !ht.valid {
		t.Fatal("expected valid table")
	}
	if sym, ok := ht.codes[1][0b0]; !ok || sym != 'A' {
		t.Fatalf("code 0 (1 bit) = %v, want 'A'", sym)
	}
	if sym, ok := ht.codes[2][0b10]; !ok || sym != 'B' {
		t.Fatalf("code 10 (2 bits) = %v, want 'B'", sym)
	}
}

func TestReceiveExtendSignExtension(t *testing.T) {
	// Category 3 values range over [-7,-4] u [4,7]; the top half of the
	// 3-bit range (4..7) is positive, the bottom half negative.
	cases := []struct {
		bits uint32
		want int32
	}{
		{0b100, 4},
		{0b111, 7},
		{0b011, -4},
		{0b000, -7},
	}
	for _, c := range cases {
		r := msbReaderFromBits(c.bits, 3)
		got := receiveExtend(r, 3)
		if got != c.want {
			t.Fatalf("receiveExtend(%03b) = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestUpsampleHorizontalDoubling(t *testing.T) {
	src := []byte{0, 100, 200, 255}
	out, w, h, err := upsampleComponent(src, 4, 1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if w != 8 || h != 1 {
		t.Fatalf("got (%d,%d), want (8,1)", w, h)
	}
	if len(out) != 8 {
		t.Fatalf("got %d samples, want 8", len(out))
	}
}

func TestUpsampleUnsupportedRatio(t *testing.T) {
	_, _, _, err := upsampleComponent([]byte{1, 2, 3, 4}, 4, 1, 4, 1)
	if err == nil {
		t.Fatal("expected error for unsupported ratio")
	}
}

func TestZigZagIsPermutation(t *testing.T) {
	seen := make(map[int]bool)
	for _, v := range unzig {
		if seen[v] {
			t.Fatalf("duplicate natural index %d in unzig table", v)
		}
		seen[v] = true
	}
	if len(seen) != blockSize {
		t.Fatalf("got %d distinct indices, want %d", len(seen), blockSize)
	}
}
