package colorconv

// RGBToCMYK converts an 8-bit RGB triple per spec.md §4.10:
// K = 1 - max(R,G,B); C,M,Y = (1-R,G,B-K) / (1-K), with the K=1
// short-circuit to zeros.
func RGBToCMYK(r, g, b uint8) (c, m, y, k uint8) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	maxv := rf
	if gf > maxv {
		maxv = gf
	}
	if bf > maxv {
		maxv = bf
	}
	kf := 1 - maxv
	if kf >= 1 {
		return 0, 0, 0, 255
	}
	cf := (1 - rf - kf) / (1 - kf)
	mf := (1 - gf - kf) / (1 - kf)
	yf := (1 - bf - kf) / (1 - kf)
	return clipUnit(cf), clipUnit(mf), clipUnit(yf), clipUnit(kf)
}

// CMYKToRGB is the inverse conversion: R,G,B = (1-C,M,Y)*(1-K).
func CMYKToRGB(c, m, y, k uint8) (r, g, b uint8) {
	cf, mf, yf, kf := float64(c)/255, float64(m)/255, float64(y)/255, float64(k)/255
	rf := (1 - cf) * (1 - kf)
	gf := (1 - mf) * (1 - kf)
	bf := (1 - yf) * (1 - kf)
	return clipUnit(rf), clipUnit(gf), clipUnit(bf)
}

func clipUnit(v float64) uint8 {
	v = v*255 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
