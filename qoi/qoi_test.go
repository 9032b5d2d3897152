package qoi

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pixeltoolkit/imagecodec/options"
)

func buildHeader(width, height, channels int) []byte {
	buf := make([]byte, 14)
	copy(buf[0:4], "qoif")
	binary.BigEndian.PutUint32(buf[4:8], uint32(width))
	binary.BigEndian.PutUint32(buf[8:12], uint32(height))
	buf[12] = byte(channels)
	buf[13] = 0
	return buf
}

func TestDecodeRGBOpAndRun(t *testing.T) {
	hdr := buildHeader(2, 2, 3)
	var body []byte
	body = append(body, opRGB, 10, 20, 30) // pixel 0
	body = append(body, byte(opRun|2))     // run of 3 more (0..62, value 2 means 3 repeats)
	body = append(body, endMarker[:]...)
	data := append(hdr, body...)

	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgba, err := img.Frame(0).WriteRGBA()
	if err != nil {
		t.Fatalf("WriteRGBA: %v", err)
	}
	for i := 0; i < 4; i++ {
		px := rgba[i*4 : i*4+4]
		want := []byte{10, 20, 30, 255}
		if !bytes.Equal(px, want) {
			t.Fatalf("pixel %d = %v, want %v", i, px, want)
		}
	}
}

func TestDecodeDiffOp(t *testing.T) {
	hdr := buildHeader(2, 1, 4)
	var body []byte
	body = append(body, opRGBA, 100, 100, 100, 255)
	// DIFF: dr=+1 (3), dg=0 (2), db=-1 (1) -> bits 0b11_10_01, with opDiff 0x40 = 0x79
	diff := byte(opDiff) | (3 << 4) | (2 << 2) | 1
	body = append(body, diff)
	body = append(body, endMarker[:]...)
	data := append(hdr, body...)

	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgba, err := img.Frame(0).WriteRGBA()
	if err != nil {
		t.Fatalf("WriteRGBA: %v", err)
	}
	want := []byte{101, 100, 99, 255}
	if !bytes.Equal(rgba[4:8], want) {
		t.Fatalf("second pixel = %v, want %v", rgba[4:8], want)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := make([]byte, 14)
	copy(data, "XXXX")
	if _, err := NewDecoder(data, options.Default()).Decode(); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
