package deflate

import (
	"bytes"
	"math/rand"
	"testing"

	kzlib "github.com/klauspost/compress/zlib"
)

// zlibFixture compresses payload at the given level using klauspost/compress
// as a reference oracle (spec.md §4.0 ambient-stack note: the only use of a
// third-party DEFLATE implementation in this module, confined to tests).
func zlibFixture(t *testing.T, payload []byte, level int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := kzlib.NewWriterLevel(&buf, level)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestZlibRoundTrip_Stored(t *testing.T) {
	payload := bytes.Repeat([]byte("hello world"), 50)
	fixture := zlibFixture(t, payload, kzlib.NoCompression)
	got, err := Zlib(fixture, Options{VerifyChecksum: true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("roundtrip mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestZlibRoundTrip_FixedAndDynamic(t *testing.T) {
	for _, level := range []int{kzlib.BestSpeed, kzlib.DefaultCompression, kzlib.BestCompression} {
		payload := []byte("The quick brown fox jumps over the lazy dog. " +
			"The quick brown fox jumps over the lazy dog. Pack my box with five dozen liquor jugs.")
		fixture := zlibFixture(t, payload, level)
		got, err := Zlib(fixture, Options{VerifyChecksum: true})
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("level %d: roundtrip mismatch", level)
		}
	}
}

func TestZlibRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(4096) + 1
		payload := make([]byte, n)
		rng.Read(payload)
		fixture := zlibFixture(t, payload, kzlib.BestCompression)
		got, err := Zlib(fixture, Options{VerifyChecksum: true})
		if err != nil {
			t.Fatalf("trial %d (n=%d): %v", trial, n, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("trial %d: roundtrip mismatch", trial)
		}
	}
}

func TestZlibBadHeaderRejected(t *testing.T) {
	if _, err := Zlib([]byte{0x08, 0x1D}, Options{}); err == nil {
		t.Fatal("expected error for non-deflate CM")
	}
}

func TestZlibAdlerMismatchDetected(t *testing.T) {
	fixture := zlibFixture(t, []byte("mismatch me"), kzlib.DefaultCompression)
	corrupt := append([]byte(nil), fixture...)
	corrupt[len(corrupt)-1] ^= 0xFF
	if _, err := Zlib(corrupt, Options{VerifyChecksum: true}); err != ErrAdlerMismatch {
		t.Fatalf("err = %v, want ErrAdlerMismatch", err)
	}
}

func TestInflateOverLimit(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10000)
	fixture := zlibFixture(t, payload, kzlib.BestCompression)
	if _, err := Zlib(fixture, Options{SizeLimit: 100}); err != ErrOverLimit {
		t.Fatalf("err = %v, want ErrOverLimit", err)
	}
}

// TestHuffmanTotality verifies testable property 5 (spec.md §8): for every
// Huffman table this package builds, the canonical code-length histogram
// satisfies the Kraft inequality with equality (a complete code), except for
// the documented one/zero-symbol special cases.
func TestHuffmanTotality(t *testing.T) {
	lengths := fixedLitLenLengths()
	var sum float64
	for _, l := range lengths {
		if l > 0 {
			sum += 1.0 / float64(uint64(1)<<uint(l))
		}
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Fatalf("Kraft sum = %v, want 1.0", sum)
	}
	if _, err := buildTable(rootBitsLitLen, lengths); err != nil {
		t.Fatalf("buildTable: %v", err)
	}
}

func TestBuildTableOverSubscribed(t *testing.T) {
	// Three symbols of length 1 need three 1-bit codes; only two exist.
	lengths := []int{1, 1, 1}
	if _, err := buildTable(5, lengths); err == nil {
		t.Fatal("expected over-subscribed tree to be rejected")
	}
}

func TestBuildTableSingleSymbol(t *testing.T) {
	lengths := []int{0, 1, 0}
	table, err := buildTable(5, lengths)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) == 0 {
		t.Fatal("expected non-empty table for single-symbol special case")
	}
}
