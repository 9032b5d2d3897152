package deflate

import (
	"bytes"
	"testing"
)

func TestZlibCompressSelfRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("A"),
		[]byte("hello, world"),
		bytes.Repeat([]byte{0, 1, 2, 3}, 300),
	}
	for _, payload := range payloads {
		fixture := ZlibCompress(payload)
		got, err := Zlib(fixture, Options{VerifyChecksum: true})
		if err != nil {
			t.Fatalf("payload len %d: %v", len(payload), err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload len %d: roundtrip mismatch", len(payload))
		}
	}
}

// TestS6Fixture matches the single-literal fixed-block invariant from
// spec.md §8: a zlib stream whose body is a single fixed-Huffman literal
// followed by end-of-block decompresses to that one byte.
func TestS6Fixture(t *testing.T) {
	fixture := ZlibCompress([]byte("A"))
	got, err := Zlib(fixture, Options{VerifyChecksum: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "A" {
		t.Fatalf("got %q, want %q", got, "A")
	}
}
