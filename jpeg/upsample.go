package jpeg

// upsampleComponent expands a subsampled chroma plane to the luma
// resolution (spec.md §4.4 "Up-sampling"). Only the four ratios the source
// toolkit supports are implemented: 1x1 (no-op), 2x1 (horizontal), 1x2
// (vertical), 2x2 (both) — any other combination is Unsupported.
//
// The source decoder retains one scanline per chroma component between
// MCU-row decodes so the vertical kernel can run incrementally while
// decoding streams in. This module decodes a whole frame's coefficients
// before reconstructing pixels (core.Image is not a streaming type), so
// the retained-scanline buffer collapses to simply indexing the
// already-fully-decoded plane by row — numerically identical output, no
// streaming state to carry.
func upsampleComponent(src []byte, w, h, hRatio, vRatio int) ([]byte, int, int, error) {
	if hRatio != 1 && hRatio != 2 {
		return nil, 0, 0, errUnsupportedRatio
	}
	if vRatio != 1 && vRatio != 2 {
		return nil, 0, 0, errUnsupportedRatio
	}
	out, outW, outH := src, w, h
	if vRatio == 2 {
		out = upsampleVertical(out, outW, outH)
		outH *= 2
	}
	if hRatio == 2 {
		out = upsampleHorizontal(out, outW, outH)
		outW *= 2
	}
	return out, outW, outH, nil
}

// double1D applies the three-tap (3a+b+2)>>2 kernel spec.md §4.4 names,
// doubling the sample count.
func double1D(src []byte) []byte {
	n := len(src)
	if n == 0 {
		return nil
	}
	out := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		cur := int(src[i])
		prev, next := cur, cur
		if i > 0 {
			prev = int(src[i-1])
		}
		if i < n-1 {
			next = int(src[i+1])
		}
		out[2*i] = byte((3*cur + prev + 2) >> 2)
		out[2*i+1] = byte((3*cur + next + 2) >> 2)
	}
	return out
}

func upsampleHorizontal(src []byte, w, h int) []byte {
	out := make([]byte, 2*w*h)
	for y := 0; y < h; y++ {
		doubled := double1D(src[y*w : y*w+w])
		copy(out[y*2*w:], doubled)
	}
	return out
}

func upsampleVertical(src []byte, w, h int) []byte {
	out := make([]byte, w*2*h)
	for y := 0; y < h; y++ {
		prevY, nextY := y, y
		if y > 0 {
			prevY = y - 1
		}
		if y < h-1 {
			nextY = y + 1
		}
		for x := 0; x < w; x++ {
			cur := int(src[y*w+x])
			prev := int(src[prevY*w+x])
			next := int(src[nextY*w+x])
			out[(2*y)*w+x] = byte((3*cur + prev + 2) >> 2)
			out[(2*y+1)*w+x] = byte((3*cur + next + 2) >> 2)
		}
	}
	return out
}
