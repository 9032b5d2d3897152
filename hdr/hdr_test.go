package hdr

import (
	"math"
	"testing"

	"github.com/pixeltoolkit/imagecodec/options"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestDecodeFlatScanline(t *testing.T) {
	var data []byte
	data = append(data, []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 2\n")...)
	data = append(data, 128, 0, 0, 128) // R=0.5
	data = append(data, 0, 128, 0, 129) // G=1.0

	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	fr := img.Frame(0)
	rVals, _ := fr.Channels()[0].F32()
	gVals, _ := fr.Channels()[1].F32()
	bVals, _ := fr.Channels()[2].F32()

	if !approxEqual(rVals[0], 0.5) {
		t.Fatalf("pixel0 R = %v, want 0.5", rVals[0])
	}
	if !approxEqual(gVals[1], 1.0) {
		t.Fatalf("pixel1 G = %v, want 1.0", gVals[1])
	}
	if rVals[1] != 0 || bVals[0] != 0 {
		t.Fatalf("unexpected non-zero channel: r1=%v b0=%v", rVals[1], bVals[0])
	}
}

func TestDecodeMetadata(t *testing.T) {
	var data []byte
	data = append(data, []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\nEXPOSURE=1.5\n\n-Y 1 +X 2\n")...)
	data = append(data, 0, 0, 0, 0, 0, 0, 0, 0)

	d := NewDecoder(data, options.Default())
	if _, err := d.Decode(); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := d.Metadata()["EXPOSURE"]; got != "1.5" {
		t.Fatalf("EXPOSURE = %q, want 1.5", got)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := []byte("not radiance\n")
	if _, err := NewDecoder(data, options.Default()).Decode(); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
