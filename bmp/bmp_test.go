package bmp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pixeltoolkit/imagecodec/options"
)

// buildBMP24 assembles a minimal bottom-up, uncompressed 24bpp BMP file
// from top-down row data (each row is width RGB triples).
func buildBMP24(width, height int, topDownRows [][]byte) []byte {
	stride := rowStride(width, 24)
	pixelSize := stride * height
	dataOffset := 14 + 40
	fileSize := dataOffset + pixelSize

	buf := make([]byte, fileSize)
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:], uint32(fileSize))
	binary.LittleEndian.PutUint32(buf[10:], uint32(dataOffset))

	ih := buf[14:]
	binary.LittleEndian.PutUint32(ih[0:], 40)
	binary.LittleEndian.PutUint32(ih[4:], uint32(width))
	binary.LittleEndian.PutUint32(ih[8:], uint32(height)) // positive: bottom-up
	binary.LittleEndian.PutUint16(ih[14:], 24)
	binary.LittleEndian.PutUint32(ih[16:], compRGB)

	px := buf[dataOffset:]
	for row := 0; row < height; row++ {
		srcRow := topDownRows[row]
		dstRow := height - 1 - row // bottom-up storage
		line := px[dstRow*stride:]
		for col := 0; col < width; col++ {
			r, g, b := srcRow[col*3+0], srcRow[col*3+1], srcRow[col*3+2]
			line[col*3+0] = b
			line[col*3+1] = g
			line[col*3+2] = r
		}
	}
	return buf
}

func TestDecode24bppBottomUp(t *testing.T) {
	width, height := 2, 2
	top := []byte{255, 0, 0, 0, 255, 0} // row0: red, green
	bottom := []byte{0, 0, 255, 255, 255, 255} // row1: blue, white
	data := buildBMP24(width, height, [][]byte{top, bottom})

	img, err := NewDecoder(data, options.Default()).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Frame(0) == nil {
		t.Fatal("no frame decoded")
	}
	fr := img.Frame(0)
	rgba, err := fr.WriteRGBA()
	if err != nil {
		t.Fatalf("WriteRGBA: %v", err)
	}
	want := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	if !bytes.Equal(rgba, want) {
		t.Fatalf("pixels = %v, want %v", rgba, want)
	}
}

func TestRowStridePadding(t *testing.T) {
	cases := []struct {
		width, bpp, want int
	}{
		{1, 24, 4},  // 3 bytes -> padded to 4
		{4, 24, 12}, // 12 bytes, already aligned
		{3, 8, 4},   // 3 bytes -> padded to 4
		{7, 1, 4},   // 1 byte -> padded to 4
	}
	for _, c := range cases {
		got := rowStride(c.width, c.bpp)
		if got != c.want {
			t.Errorf("rowStride(%d, %d) = %d, want %d", c.width, c.bpp, got, c.want)
		}
	}
}

func TestDecodeRLE8EncodedRun(t *testing.T) {
	// 3 pixels of index 9, then end-of-line, then end-of-image.
	data := []byte{3, 9, 0, 0, 0, 1}
	out, err := decodeRLE(data, 3, 1, false)
	if err != nil {
		t.Fatalf("decodeRLE: %v", err)
	}
	want := []byte{9, 9, 9}
	if !bytes.Equal(out, want) {
		t.Fatalf("indices = %v, want %v", out, want)
	}
}

func TestDecodeRLE8AbsoluteRun(t *testing.T) {
	// Escape 3 (absolute run of 3 indices), then a pad byte since 3 is odd,
	// then end-of-image.
	data := []byte{0, 3, 1, 2, 3, 0, 0, 1}
	out, err := decodeRLE(data, 3, 1, false)
	if err != nil {
		t.Fatalf("decodeRLE: %v", err)
	}
	want := []byte{1, 2, 3}
	if !bytes.Equal(out, want) {
		t.Fatalf("indices = %v, want %v", out, want)
	}
}

func TestMaskToFieldAndExtract(t *testing.T) {
	// Classic 5-6-5 green mask.
	f := maskToField(0x07E0)
	if f.shift != 5 || f.bits != 6 {
		t.Fatalf("maskToField(0x07E0) = %+v, want shift=5 bits=6", f)
	}
	if got := f.extract(0xFFFF); got != 255 {
		t.Fatalf("extract(all-ones) = %d, want 255", got)
	}
	if got := f.extract(0); got != 0 {
		t.Fatalf("extract(0) = %d, want 0", got)
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	data := []byte("XX\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	if _, err := parseHeader(data); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
