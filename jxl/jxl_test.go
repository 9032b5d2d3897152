package jxl

import (
	"testing"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/options"
)

func buildGrayImage(t *testing.T, width, height int, fill func(x, y int) byte) *core.Image {
	t.Helper()
	buf := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf[y*width+x] = fill(x, y)
		}
	}
	ch, err := core.NewChannelFromBytes(core.KindU8, buf)
	if err != nil {
		t.Fatalf("NewChannelFromBytes: %v", err)
	}
	fr, err := core.NewFrame(core.Luma, core.Duration{}, ch)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	img, err := core.NewImage(width, height, core.Luma, core.Eight, fr)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func roundTrip(t *testing.T, img *core.Image) *core.Image {
	t.Helper()
	data, err := NewEncoder(options.Default()).Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out
}

func TestRoundTripGradient(t *testing.T) {
	img := buildGrayImage(t, 17, 13, func(x, y int) byte { return byte((x*7 + y*3) % 256) })
	out := roundTrip(t, img)

	want, _ := img.Frame(0).Channels()[0].U8()
	got, _ := out.Frame(0).Channels()[0].U8()
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRoundTripFlatRegionTriggersLZ77(t *testing.T) {
	img := buildGrayImage(t, 40, 10, func(x, y int) byte { return 128 })
	out := roundTrip(t, img)

	want, _ := img.Frame(0).Channels()[0].U8()
	got, _ := out.Frame(0).Channels()[0].U8()
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRoundTripMultiGroup(t *testing.T) {
	width, height := 300, 260 // spans more than one groupDim x groupDim group
	img := buildGrayImage(t, width, height, func(x, y int) byte { return byte((x ^ y) % 256) })
	out := roundTrip(t, img)

	want, _ := img.Frame(0).Channels()[0].U8()
	got, _ := out.Frame(0).Channels()[0].U8()
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := []byte("not a jxl file at all, padded out")
	if _, err := NewDecoder(data, options.Default()).Decode(); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestHybridUintRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 5, 15, 16, 17, 47, 48, 560, 1000} {
		sym, payload, nbits := rawAlphabet.split(v)
		_ = nbits
		got := rawAlphabet.join(sym, payload)
		if got != v {
			t.Fatalf("split/join(%d) round-tripped to %d", v, got)
		}
	}
}
