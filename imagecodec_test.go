package imagecodec

import (
	"testing"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/options"
)

func TestSniffRecognisesEveryFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}},
		{"bmp", []byte{'B', 'M', 0, 0, 0, 0}},
		{"qoi", []byte("qoif" + "\x00\x00\x00\x04\x00\x00\x00\x01\x03\x00")},
		{"ppm", []byte("P6\n4 4\n255\n")},
		{"hdr", []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 1\n\x80\x80\x80\x81")},
		{"jxl", []byte{0xFF, 0x0A, 0, 0, 0, 4, 0, 0, 0, 4}},
		{"unknown", []byte("not an image")},
	}
	want := map[string]Format{
		"png": PNG, "jpeg": JPEG, "bmp": BMP, "qoi": QOI,
		"ppm": PPM, "hdr": HDR, "jxl": JXL, "unknown": Unknown,
	}
	for _, c := range cases {
		if got := Sniff(c.data); got != want[c.name] {
			t.Errorf("%s: Sniff got %v, want %v", c.name, got, want[c.name])
		}
	}
}

func TestFormatString(t *testing.T) {
	for f, want := range map[Format]string{
		PNG: "png", JPEG: "jpeg", BMP: "bmp", QOI: "qoi",
		PPM: "ppm", HDR: "hdr", JXL: "jxl", Unknown: "unknown",
	} {
		if got := f.String(); got != want {
			t.Errorf("Format(%d).String() = %q, want %q", f, got, want)
		}
	}
}

func TestNewDecoderRejectsUnrecognisedMagic(t *testing.T) {
	if _, err := NewDecoder([]byte("definitely not an image"), options.Default()); err == nil {
		t.Fatal("expected an error for unrecognised magic bytes")
	}
}

// qoiFixture builds the literal 4x1 RGB run described for "QOI run": one
// QOI_OP_RGB pixel (red) followed by a run of 3 repeats of it, terminated.
func qoiFixture() []byte {
	header := []byte{'q', 'o', 'i', 'f', 0, 0, 0, 4, 0, 0, 0, 1, 3, 0}
	body := []byte{0xFE, 0xFF, 0x00, 0x00, 0xC2, 0, 0, 0, 0, 0, 0, 0, 1}
	return append(header, body...)
}

func TestDispatchDecodesQOIRun(t *testing.T) {
	data := qoiFixture()
	if got := Sniff(data); got != QOI {
		t.Fatalf("Sniff got %v, want QOI", got)
	}
	d, err := NewDecoder(data, options.Default())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if err := d.DecodeHeaders(); err != nil {
		t.Fatalf("DecodeHeaders: %v", err)
	}
	w, h, ok := d.Dimensions()
	if !ok || w != 4 || h != 1 {
		t.Fatalf("Dimensions got (%d,%d,%v), want (4,1,true)", w, h, ok)
	}
	if size, ok := d.OutputBufferSize(); !ok || size != 4*1*3 {
		t.Fatalf("OutputBufferSize got (%d,%v), want (12,true)", size, ok)
	}
	img, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	for i, v := range r {
		if v != 0xFF {
			t.Fatalf("red sample %d: got %d, want 255", i, v)
		}
	}
}

// hdrFixture is the literal "HDR 1x1" scenario: one pixel, all channels
// decoding to 0.5 via v = (sample/256) * 2^(exponent-128).
func hdrFixture() []byte {
	return append([]byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 1\n"), 0x80, 0x80, 0x80, 0x81)
}

func TestDispatchDecodesHDRPixel(t *testing.T) {
	data := hdrFixture()
	img, err := Decode(data, options.Default())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Depth != core.Float32 {
		t.Fatalf("got depth %s, want Float32", img.Depth)
	}
	ch := img.Frame(0).Channels()
	r, _ := ch[0].F32()
	g, _ := ch[1].F32()
	b, _ := ch[2].F32()
	const tol = 0.01
	for name, v := range map[string]float32{"r": r[0], "g": g[0], "b": b[0]} {
		if d := v - 0.5; d < -tol || d > tol {
			t.Fatalf("%s: got %v, want ~0.5", name, v)
		}
	}
}
