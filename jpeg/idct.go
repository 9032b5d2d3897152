package jpeg

import "math"

// IDCT8x8 performs the in-place inverse 8x8 DCT-III used to reconstruct a
// dequantised coefficient block into spatial-domain samples (spec.md §4.4:
// "An 8x8 integer IDCT is applied to every block"). It is a package-level
// function variable, following the teacher's dispatch-table pattern
// (internal/dsp.Transform and friends: a pure-Go implementation installed
// by default, with room for a platform-specific override) rather than a
// direct call, even though this module installs only the scalar
// implementation below — C15's SIMD-dispatch slot exists for exactly this
// kind of hot per-block transform.
var IDCT8x8 = idct8x8Reference

var cosTable [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			cosTable[x][u] = math.Cos(float64((2*x+1)*u) * math.Pi / 16)
		}
	}
}

func alpha(u int) float64 {
	if u == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// idct8x8Reference is a direct (non-fast) separable IDCT: correctness-first,
// matching the formula in ITU T.81 Annex A exactly rather than an
// AAN-style factored fast transform.
func idct8x8Reference(b *block) {
	var tmp [64]float64
	// Rows: 1D IDCT along x for each fixed v.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for u := 0; u < 8; u++ {
				sum += alpha(u) * float64(b[y*8+u]) * cosTable[x][u]
			}
			tmp[y*8+x] = sum / 2
		}
	}
	var out [64]float64
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			sum := 0.0
			for v := 0; v < 8; v++ {
				sum += alpha(v) * tmp[v*8+x] * cosTable[y][v]
			}
			out[y*8+x] = sum / 2
		}
	}
	for i := range b {
		b[i] = int32(math.Round(out[i]))
	}
}

// clampSample performs JPEG's +128 level shift and clamps to [0, 255]
// (spec.md §4.4).
func clampSample(v int32) byte {
	v += 128
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
