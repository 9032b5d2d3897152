package ppm

import (
	"bytes"
	"testing"

	"github.com/pixeltoolkit/imagecodec/options"
)

func TestDecodeP6(t *testing.T) {
	data := []byte("P6\n2 1\n255\n")
	data = append(data, 255, 0, 0, 0, 255, 0) // red, green
	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgba, err := img.Frame(0).WriteRGBA()
	if err != nil {
		t.Fatalf("WriteRGBA: %v", err)
	}
	want := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	if !bytes.Equal(rgba, want) {
		t.Fatalf("pixels = %v, want %v", rgba, want)
	}
}

func TestDecodeP5Comment(t *testing.T) {
	data := []byte("P5\n# a comment\n2 1\n255\n")
	data = append(data, 10, 200)
	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgba, err := img.Frame(0).WriteRGBA()
	if err != nil {
		t.Fatalf("WriteRGBA: %v", err)
	}
	want := []byte{10, 10, 10, 255, 200, 200, 200, 255}
	if !bytes.Equal(rgba, want) {
		t.Fatalf("pixels = %v, want %v", rgba, want)
	}
}

func TestDecodeP7PAM(t *testing.T) {
	var data []byte
	data = append(data, []byte("P7\nWIDTH 1\nHEIGHT 1\nDEPTH 4\nMAXVAL 255\nTUPLTYPE RGB_ALPHA\nENDHDR\n")...)
	data = append(data, 10, 20, 30, 255)
	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgba, err := img.Frame(0).WriteRGBA()
	if err != nil {
		t.Fatalf("WriteRGBA: %v", err)
	}
	want := []byte{10, 20, 30, 255}
	if !bytes.Equal(rgba, want) {
		t.Fatalf("pixels = %v, want %v", rgba, want)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := []byte("XX\n")
	if _, err := NewDecoder(data, options.Default()).Decode(); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
