package imageproc

import (
	"testing"

	"github.com/pixeltoolkit/imagecodec/core"
)

func buildRGBImage(t *testing.T, width, height int, fill func(x, y int) (r, g, b byte)) *core.Image {
	t.Helper()
	n := width * height
	rb, gb, bb := make([]byte, n), make([]byte, n), make([]byte, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := fill(x, y)
			rb[y*width+x], gb[y*width+x], bb[y*width+x] = r, g, b
		}
	}
	rc, _ := core.NewChannelFromBytes(core.KindU8, rb)
	gc, _ := core.NewChannelFromBytes(core.KindU8, gb)
	bc, _ := core.NewChannelFromBytes(core.KindU8, bb)
	fr, err := core.NewFrame(core.RGB, core.Duration{}, rc, gc, bc)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	img, err := core.NewImage(width, height, core.RGB, core.Eight, fr)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func TestTransposeScalarMatchesBlocked(t *testing.T) {
	width, height := 13, 9
	src := make([]byte, width*height)
	for i := range src {
		src[i] = byte(i * 7)
	}
	scalar := make([]byte, len(src))
	blocked := make([]byte, len(src))
	transposeU8Scalar(scalar, src, width, height)
	transposeU8Blocked(blocked, src, width, height)
	for i := range scalar {
		if scalar[i] != blocked[i] {
			t.Fatalf("byte %d: scalar %d, blocked %d", i, scalar[i], blocked[i])
		}
	}
}

func TestTransposeFilterRoundTrip(t *testing.T) {
	img := buildRGBImage(t, 11, 5, func(x, y int) (byte, byte, byte) {
		return byte(x * 17), byte(y * 23), byte((x + y) * 5)
	})
	f := TransposeFilter{}
	if err := f.Apply(img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if img.Width != 5 || img.Height != 11 {
		t.Fatalf("got %dx%d, want 5x11", img.Width, img.Height)
	}
	if err := f.Apply(img); err != nil {
		t.Fatalf("Apply (back): %v", err)
	}
	if img.Width != 11 || img.Height != 5 {
		t.Fatalf("got %dx%d, want 11x5", img.Width, img.Height)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	for x := 0; x < 11; x++ {
		for y := 0; y < 5; y++ {
			want := byte(x * 17)
			if got := r[y*11+x]; got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestBoxBlurFlatRegionUnchanged(t *testing.T) {
	img := buildRGBImage(t, 20, 20, func(x, y int) (byte, byte, byte) { return 100, 100, 100 })
	if err := (BoxBlurFilter{Radius: 3}).Apply(img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	for i, v := range r {
		if v != 100 {
			t.Fatalf("pixel %d: got %d, want 100 (flat region must stay flat)", i, v)
		}
	}
}

func TestBoxBlurRejectsNegativeRadius(t *testing.T) {
	img := buildRGBImage(t, 4, 4, func(x, y int) (byte, byte, byte) { return 0, 0, 0 })
	if err := (BoxBlurFilter{Radius: -1}).Apply(img); err == nil {
		t.Fatal("expected error for negative radius")
	}
}

func TestGaussianBlurSmoothsImpulse(t *testing.T) {
	width, height := 21, 21
	img := buildRGBImage(t, width, height, func(x, y int) (byte, byte, byte) {
		if x == width/2 && y == height/2 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
	if err := (GaussianBlurFilter{Sigma: 2}).Apply(img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	center := r[(height/2)*width+width/2]
	corner := r[0]
	if center == 0 {
		t.Fatal("center should retain some of the impulse's energy")
	}
	if corner >= center {
		t.Fatalf("corner %d should be dimmer than center %d", corner, center)
	}
}

func TestCropFilter(t *testing.T) {
	img := buildRGBImage(t, 10, 10, func(x, y int) (byte, byte, byte) { return byte(x), byte(y), 0 })
	if err := (CropFilter{X0: 2, Y0: 3, X1: 6, Y1: 5}).Apply(img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if img.Width != 4 || img.Height != 2 {
		t.Fatalf("got %dx%d, want 4x2", img.Width, img.Height)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	g, _ := img.Frame(0).Channels()[1].U8()
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if r[y*4+x] != byte(x+2) || g[y*4+x] != byte(y+3) {
				t.Fatalf("pixel (%d,%d): got r=%d g=%d", x, y, r[y*4+x], g[y*4+x])
			}
		}
	}
}

func TestCropFilterRejectsOutOfBounds(t *testing.T) {
	img := buildRGBImage(t, 4, 4, func(x, y int) (byte, byte, byte) { return 0, 0, 0 })
	if err := (CropFilter{X0: 0, Y0: 0, X1: 5, Y1: 4}).Apply(img); err == nil {
		t.Fatal("expected error for out-of-bounds crop")
	}
}

func TestRGBToLumaAndBack(t *testing.T) {
	img := buildRGBImage(t, 6, 4, func(x, y int) (byte, byte, byte) { return 128, 128, 128 })
	if err := (RGBToLumaFilter{}).Apply(img); err != nil {
		t.Fatalf("RGBToLumaFilter: %v", err)
	}
	if img.Frame(0).ColourSpace() != core.Luma {
		t.Fatalf("got space %s, want Luma", img.Frame(0).ColourSpace())
	}
	y, _ := img.Frame(0).Channels()[0].U8()
	for i, v := range y {
		if v != 128 {
			t.Fatalf("luma %d: got %d, want 128 (grey RGB)", i, v)
		}
	}
	if err := (LumaToRGBFilter{}).Apply(img); err != nil {
		t.Fatalf("LumaToRGBFilter: %v", err)
	}
	if img.Frame(0).ColourSpace() != core.RGB {
		t.Fatalf("got space %s, want RGB", img.Frame(0).ColourSpace())
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	for _, v := range r {
		if v != 128 {
			t.Fatalf("r: got %d, want 128", v)
		}
	}
}

func TestRGBBGRSwapIsInvolution(t *testing.T) {
	img := buildRGBImage(t, 5, 5, func(x, y int) (byte, byte, byte) { return 10, 20, 30 })
	if err := RGBToBGRFilter().Apply(img); err != nil {
		t.Fatalf("RGBToBGRFilter: %v", err)
	}
	ch := img.Frame(0).Channels()
	b0, _ := ch[0].U8()
	if b0[0] != 30 {
		t.Fatalf("BGR channel 0: got %d, want 30 (old blue)", b0[0])
	}
	if err := BGRToRGBFilter().Apply(img); err != nil {
		t.Fatalf("BGRToRGBFilter: %v", err)
	}
	r0, _ := img.Frame(0).Channels()[0].U8()
	if r0[0] != 10 {
		t.Fatalf("RGB channel 0: got %d, want 10", r0[0])
	}
}

func TestRGBCMYKRoundTrip(t *testing.T) {
	img := buildRGBImage(t, 4, 4, func(x, y int) (byte, byte, byte) { return 200, 100, 50 })
	if err := (RGBToCMYKFilter{}).Apply(img); err != nil {
		t.Fatalf("RGBToCMYKFilter: %v", err)
	}
	if img.Frame(0).ColourSpace() != core.CMYK {
		t.Fatalf("got space %s, want CMYK", img.Frame(0).ColourSpace())
	}
	if err := (CMYKToRGBFilter{}).Apply(img); err != nil {
		t.Fatalf("CMYKToRGBFilter: %v", err)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	g, _ := img.Frame(0).Channels()[1].U8()
	b, _ := img.Frame(0).Channels()[2].U8()
	if !within(int(r[0]), 200, 2) || !within(int(g[0]), 100, 2) || !within(int(b[0]), 50, 2) {
		t.Fatalf("got (%d,%d,%d), want approx (200,100,50)", r[0], g[0], b[0])
	}
}

func within(got, want, tol int) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestRGBHSLRoundTrip(t *testing.T) {
	img := buildRGBImage(t, 4, 4, func(x, y int) (byte, byte, byte) { return 180, 90, 30 })
	if err := (RGBToHSLFilter{}).Apply(img); err != nil {
		t.Fatalf("RGBToHSLFilter: %v", err)
	}
	if img.Frame(0).ColourSpace() != core.HSL {
		t.Fatalf("got space %s, want HSL", img.Frame(0).ColourSpace())
	}
	if err := (HSLToRGBFilter{}).Apply(img); err != nil {
		t.Fatalf("HSLToRGBFilter: %v", err)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	g, _ := img.Frame(0).Channels()[1].U8()
	b, _ := img.Frame(0).Channels()[2].U8()
	if !within(int(r[0]), 180, 3) || !within(int(g[0]), 90, 3) || !within(int(b[0]), 30, 3) {
		t.Fatalf("got (%d,%d,%d), want approx (180,90,30)", r[0], g[0], b[0])
	}
}

func TestDepthConvertRoundTrip(t *testing.T) {
	img := buildRGBImage(t, 3, 3, func(x, y int) (byte, byte, byte) { return 10, 20, 30 })
	if err := (DepthConvertFilter{Target: core.Sixteen}).Apply(img); err != nil {
		t.Fatalf("to Sixteen: %v", err)
	}
	if img.Depth != core.Sixteen {
		t.Fatalf("got depth %s, want Sixteen", img.Depth)
	}
	if err := (DepthConvertFilter{Target: core.Eight}).Apply(img); err != nil {
		t.Fatalf("to Eight: %v", err)
	}
	r, _ := img.Frame(0).Channels()[0].U8()
	if r[0] != 10 {
		t.Fatalf("got %d, want 10", r[0])
	}
}

func TestPipelineRunsInOrder(t *testing.T) {
	img := buildRGBImage(t, 4, 4, func(x, y int) (byte, byte, byte) { return 50, 60, 70 })
	p := NewPipeline(RGBToLumaFilter{}, LumaToRGBFilter{})
	if err := p.Run(img); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if img.Frame(0).ColourSpace() != core.RGB {
		t.Fatalf("got space %s, want RGB", img.Frame(0).ColourSpace())
	}
}
