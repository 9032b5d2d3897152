package colorconv

import "math"

// RGBToHSV converts normalised (0..1) RGB to HSV (spec.md §4.10). H is in
// degrees [0,360), S and V are in [0,1].
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	maxv := math.Max(r, math.Max(g, b))
	minv := math.Min(r, math.Min(g, b))
	delta := maxv - minv
	v = maxv

	if maxv == 0 {
		return 0, 0, 0
	}
	s = delta / maxv

	if delta == 0 {
		return 0, s, v
	}
	switch maxv {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}
	h *= 60
	return h, s, v
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}
	hk := math.Mod(h, 360) / 60
	i := int(math.Floor(hk))
	f := hk - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
