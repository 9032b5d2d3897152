package colorconv

import (
	"math"
	"testing"

	"github.com/frankban/quicktest"
)

func TestYCbCrRoundTrip(t *testing.T) {
	c := quicktest.New(t)
	cases := [][3]uint8{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{128, 64, 200}, {16, 200, 90},
	}
	for _, rgb := range cases {
		y, cb, cr := RGBToYCbCr8(rgb[0], rgb[1], rgb[2])
		r, g, b := YCbCrToRGB8(y, cb, cr)
		c.Assert(within(int(r), int(rgb[0]), 2), quicktest.IsTrue, quicktest.Commentf("r: got %d want ~%d", r, rgb[0]))
		c.Assert(within(int(g), int(rgb[1]), 2), quicktest.IsTrue, quicktest.Commentf("g: got %d want ~%d", g, rgb[1]))
		c.Assert(within(int(b), int(rgb[2]), 2), quicktest.IsTrue, quicktest.Commentf("b: got %d want ~%d", b, rgb[2]))
	}
}

func within(got, want, tol int) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestRGBToLumaGray(t *testing.T) {
	// Grayscale input: luma of (v,v,v) must equal v regardless of weights.
	for _, v := range []uint8{0, 1, 127, 128, 254, 255} {
		got := RGBToLuma8(v, v, v)
		if !within(int(got), int(v), 1) {
			t.Fatalf("RGBToLuma8(%d,%d,%d) = %d, want ~%d", v, v, v, got, v)
		}
	}
}

func TestLumaToRGBReplicates(t *testing.T) {
	r, g, b := LumaToRGB8(200)
	if r != 200 || g != 200 || b != 200 {
		t.Fatalf("LumaToRGB8(200) = (%d,%d,%d), want (200,200,200)", r, g, b)
	}
}

func TestCMYKRoundTrip(t *testing.T) {
	cases := [][3]uint8{{255, 255, 255}, {0, 0, 0}, {200, 50, 10}, {10, 10, 10}}
	for _, rgb := range cases {
		cc, m, y, k := RGBToCMYK(rgb[0], rgb[1], rgb[2])
		r, g, b := CMYKToRGB(cc, m, y, k)
		if !within(int(r), int(rgb[0]), 2) || !within(int(g), int(rgb[1]), 2) || !within(int(b), int(rgb[2]), 2) {
			t.Fatalf("CMYK roundtrip for %v = (%d,%d,%d)", rgb, r, g, b)
		}
	}
}

func TestCMYKBlackShortCircuit(t *testing.T) {
	cc, m, y, k := RGBToCMYK(0, 0, 0)
	if cc != 0 || m != 0 || y != 0 || k != 255 {
		t.Fatalf("RGBToCMYK(0,0,0) = (%d,%d,%d,%d), want (0,0,0,255)", cc, m, y, k)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	cases := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.5, 0.25, 0.75}, {1, 1, 1}, {0, 0, 0}}
	for _, rgb := range cases {
		h, s, l := RGBToHSL(rgb[0], rgb[1], rgb[2])
		r, g, b := HSLToRGB(h, s, l)
		if !withinF(r, rgb[0], 1e-6) || !withinF(g, rgb[1], 1e-6) || !withinF(b, rgb[2], 1e-6) {
			t.Fatalf("HSL roundtrip for %v = (%v,%v,%v)", rgb, r, g, b)
		}
	}
}

func TestHSVRoundTrip(t *testing.T) {
	cases := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.5, 0.25, 0.75}, {1, 1, 1}, {0, 0, 0}}
	for _, rgb := range cases {
		h, s, v := RGBToHSV(rgb[0], rgb[1], rgb[2])
		r, g, b := HSVToRGB(h, s, v)
		if !withinF(r, rgb[0], 1e-6) || !withinF(g, rgb[1], 1e-6) || !withinF(b, rgb[2], 1e-6) {
			t.Fatalf("HSV roundtrip for %v = (%v,%v,%v)", rgb, r, g, b)
		}
	}
}

func withinF(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestDepthConversionEndpoints(t *testing.T) {
	if U8ToU16(0) != 0 || U8ToU16(255) != 0xFFFF {
		t.Fatal("U8ToU16 must preserve both endpoints exactly")
	}
	if U16ToU8(0) != 0 || U16ToU8(0xFFFF) != 255 {
		t.Fatal("U16ToU8 must preserve both endpoints exactly")
	}
	if Float32ToU8(U8ToFloat32(200)) != 200 {
		t.Fatal("U8<->float32 roundtrip must be exact for representable values")
	}
}
