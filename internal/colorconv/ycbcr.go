// Package colorconv implements the colour-space and bit-depth transforms of
// spec.md §4.10: RGB<->YCbCr, RGB<->HSL, RGB<->HSV, RGB<->CMYK, RGB<->Luma,
// and depth up/down conversion. The fixed-point technique (scale to a Q16
// integer, add a rounding half, shift back) is grounded on the teacher's
// sharpyuv package (sharpyuv/csp.go toFixed16, sharpyuv/sharpyuv.go
// rgbToYUVComponent), generalised here from WebP's internal YUV matrix to
// the plain JPEG/ITU-R BT.601 full-range matrix this module's formats use.
package colorconv

const (
	yuvFix  = 16
	yuvHalf = 1 << (yuvFix - 1)
)

func toFixed16(f float64) int32 {
	if f >= 0 {
		return int32(f*(1<<yuvFix) + 0.5)
	}
	return -int32(-f*(1<<yuvFix) + 0.5)
}

// Full-range BT.601 coefficients (spec.md §4.6): the JPEG decoder's matrix,
// not WebP's limited-range one.
var (
	yR, yG, yB       = toFixed16(0.299), toFixed16(0.587), toFixed16(0.114)
	cbR, cbG, cbB    = toFixed16(-0.168736), toFixed16(-0.331264), toFixed16(0.5)
	crR, crG, crB    = toFixed16(0.5), toFixed16(-0.418688), toFixed16(-0.081312)
	rCr              = toFixed16(1.402)
	gCb, gCr         = toFixed16(-0.344136), toFixed16(-0.714136)
	bCb              = toFixed16(1.772)
)

func clip8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// RGBToYCbCr8 converts one 8-bit RGB triple to 8-bit Y/Cb/Cr using the fixed
// matrix from spec.md §4.6.
func RGBToYCbCr8(r, g, b uint8) (y, cb, cr uint8) {
	ri, gi, bi := int32(r), int32(g), int32(b)
	yv := yR*ri + yG*gi + yB*bi + yuvHalf
	cbv := cbR*ri + cbG*gi + cbB*bi + 128<<yuvFix + yuvHalf
	crv := crR*ri + crG*gi + crB*bi + 128<<yuvFix + yuvHalf
	return clip8(yv >> yuvFix), clip8(cbv >> yuvFix), clip8(crv >> yuvFix)
}

// YCbCrToRGB8 converts one 8-bit Y/Cb/Cr triple to RGB using spec.md §4.6's
// matrix: Y + 1.402(Cr-128), Y - 0.34414(Cb-128) - 0.71414(Cr-128),
// Y + 1.772(Cb-128).
func YCbCrToRGB8(y, cb, cr uint8) (r, g, b uint8) {
	yv := int32(y) << yuvFix
	cbOff := int32(cb) - 128
	crOff := int32(cr) - 128

	rv := yv + rCr*crOff + yuvHalf
	gv := yv + gCb*cbOff + gCr*crOff + yuvHalf
	bv := yv + bCb*cbOff + yuvHalf

	return clip8(rv >> yuvFix), clip8(gv >> yuvFix), clip8(bv >> yuvFix)
}

// RGBToYCbCr16 is the 16-bit-per-sample analogue, scaling through the same
// Q16 fixed-point coefficients with the midpoint shifted to 32768.
func RGBToYCbCr16(r, g, b uint16) (y, cb, cr uint16) {
	ri, gi, bi := int64(r), int64(g), int64(b)
	yv := int64(yR)*ri + int64(yG)*gi + int64(yB)*bi + (1 << (yuvFix - 1))
	cbv := int64(cbR)*ri + int64(cbG)*gi + int64(cbB)*bi + int64(32768)<<yuvFix + (1 << (yuvFix - 1))
	crv := int64(crR)*ri + int64(crG)*gi + int64(crB)*bi + int64(32768)<<yuvFix + (1 << (yuvFix - 1))
	return clip16(yv >> yuvFix), clip16(cbv >> yuvFix), clip16(crv >> yuvFix)
}

func clip16(v int64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
