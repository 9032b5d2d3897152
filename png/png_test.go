package png

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/deflate"
	"github.com/pixeltoolkit/imagecodec/options"
)

// buildManualPNG assembles a minimal PNG byte stream by hand, bypassing
// Encode, so tests can cover paths Encode never produces (palette, Adam7
// interlacing).
func buildManualPNG(width, height, depth int, ct colourType, interlace byte, plte, trns, raw []byte) []byte {
	var out []byte
	out = append(out, signature[:]...)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(height))
	ihdr[8] = byte(depth)
	ihdr[9] = byte(ct)
	ihdr[12] = interlace
	out = appendChunk(out, "IHDR", ihdr)

	if plte != nil {
		out = appendChunk(out, "PLTE", plte)
	}
	if trns != nil {
		out = appendChunk(out, "tRNS", trns)
	}
	out = appendChunk(out, "IDAT", deflate.ZlibCompress(raw))
	out = appendChunk(out, "IEND", nil)
	return out
}

func TestPaletteWithTRNSRoundTrip(t *testing.T) {
	// 2x1 palette image, index 0 opaque red, index 1 half-transparent green.
	plte := []byte{255, 0, 0, 0, 255, 0}
	trns := []byte{255, 128}
	raw := []byte{0, 0, 1} // filter-none, row = indices [0, 1]
	stream := buildManualPNG(2, 1, 8, ctPalette, 0, plte, trns, raw)

	dec := NewDecoder(stream, options.Default())
	img, err := dec.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if img.Space != core.RGBA {
		t.Fatalf("got space %v, want RGBA", img.Space)
	}
	got, _ := img.Frame(0).FlattenU8()
	want := []byte{255, 0, 0, 255, 0, 255, 0, 128}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func Test16BitGrayRoundTrip(t *testing.T) {
	// 2x1 16-bit gray image, samples 0x0102 and 0xFFEE.
	raw := []byte{0, 0x01, 0x02, 0xFF, 0xEE}
	stream := buildManualPNG(2, 1, 16, ctGray, 0, nil, nil, raw)

	dec := NewDecoder(stream, options.Default())
	img, err := dec.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if img.Depth != core.Sixteen {
		t.Fatalf("got depth %v, want Sixteen", img.Depth)
	}
	vals, err := img.Frame(0).Channels()[0].U16()
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{0x0102, 0xFFEE}
	if len(vals) != len(want) || vals[0] != want[0] || vals[1] != want[1] {
		t.Fatalf("got %v, want %v", vals, want)
	}
}

func TestAdam7InterlacedRoundTrip(t *testing.T) {
	img := makeRGBImage(t, 8, 8)
	plain, err := Encode(img)
	if err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(plain, options.Default())
	plainImg, err := dec.Decode()
	if err != nil {
		t.Fatal(err)
	}
	plainBytes, _ := plainImg.Frame(0).FlattenU8()

	// Re-encode the same pixels as an Adam7-interlaced stream by hand: each
	// of the 7 passes is filtered independently (filter-none) and
	// concatenated before compression.
	raw, _ := img.Frame(0).FlattenU8()
	stride := 8 * 3
	var interlaced []byte
	for _, pass := range adam7Passes {
		pw, ph := passDimensions(pass, 8, 8)
		if pw == 0 || ph == 0 {
			continue
		}
		for py := 0; py < ph; py++ {
			srcY := pass.yOrigin + py*pass.yStride
			interlaced = append(interlaced, 0) // filter type none
			for px := 0; px < pw; px++ {
				srcX := pass.xOrigin + px*pass.xStride
				off := srcY*stride + srcX*3
				interlaced = append(interlaced, raw[off], raw[off+1], raw[off+2])
			}
		}
	}
	stream := buildManualPNG(8, 8, 8, ctRGB, 1, nil, nil, interlaced)

	dec2 := NewDecoder(stream, options.Default())
	gotImg, err := dec2.Decode()
	if err != nil {
		t.Fatal(err)
	}
	gotBytes, _ := gotImg.Frame(0).FlattenU8()
	if !bytes.Equal(plainBytes, gotBytes) {
		t.Fatal("Adam7 round trip produced different pixel bytes")
	}
}

func makeRGBImage(t *testing.T, w, h int) *core.Image {
	t.Helper()
	r := make([]byte, w*h)
	g := make([]byte, w*h)
	b := make([]byte, w*h)
	for i := range r {
		r[i] = byte(i * 7)
		g[i] = byte(i * 13)
		b[i] = byte(i * 31)
	}
	rc, _ := core.NewChannelFromBytes(core.KindU8, r)
	gc, _ := core.NewChannelFromBytes(core.KindU8, g)
	bc, _ := core.NewChannelFromBytes(core.KindU8, b)
	frame, err := core.NewFrame(core.RGB, core.Duration{Num: 1, Den: 1}, rc, gc, bc)
	if err != nil {
		t.Fatal(err)
	}
	img, err := core.NewImage(w, h, core.RGB, core.Eight, frame)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestRoundTripRGB8(t *testing.T) {
	img := makeRGBImage(t, 16, 12)
	encoded, err := Encode(img)
	if err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(encoded, options.Default())
	got, err := dec.Decode()
	if err != nil {
		t.Fatal(err)
	}
	want, _ := img.Frame(0).FlattenU8()
	gotBytes, _ := got.Frame(0).FlattenU8()
	if !bytes.Equal(want, gotBytes) {
		t.Fatal("round trip produced different pixel bytes")
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	dec := NewDecoder([]byte("not a png"), options.Default())
	if err := dec.DecodeHeaders(); err == nil {
		t.Fatal("expected magic-bytes error")
	}
}

func TestUnfilterSubRoundTrip(t *testing.T) {
	cur := []byte{10, 20, 30, 40}
	encoded := applyFilterSub(cur, 1)
	got := append([]byte(nil), encoded...)
	if err := unfilterRow(filterSub, got, nil, 1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, cur) {
		t.Fatalf("got %v, want %v", got, cur)
	}
}

func TestUnfilterPaethRoundTrip(t *testing.T) {
	prev := []byte{5, 15, 25, 35}
	cur := []byte{10, 20, 30, 40}
	encoded := applyFilterPaeth(cur, prev, 1)
	got := append([]byte(nil), encoded...)
	if err := unfilterRow(filterPaeth, got, prev, 1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, cur) {
		t.Fatalf("got %v, want %v", got, cur)
	}
}

func TestAdam7PassDimensions(t *testing.T) {
	w, h := passDimensions(adam7Passes[0], 8, 8)
	if w != 1 || h != 1 {
		t.Fatalf("pass 0 of 8x8 = (%d,%d), want (1,1)", w, h)
	}
	w, h = passDimensions(adam7Passes[6], 8, 8)
	if w != 8 || h != 4 {
		t.Fatalf("pass 6 of 8x8 = (%d,%d), want (8,4)", w, h)
	}
}

func TestUnpackSubByteScale(t *testing.T) {
	// 1-bit depth: 0xA0 = 1010 0000 -> samples 1,0,1,0,0,0,0,0 scaled by 0xFF
	out := unpackSubByte([]byte{0xA0}, 1, 8)
	want := []byte{0xFF, 0, 0xFF, 0, 0, 0, 0, 0}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}
