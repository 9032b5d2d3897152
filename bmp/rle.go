package bmp

import "github.com/pixeltoolkit/imagecodec/internal/codecerr"

// decodeRLE runs the RLE4/RLE8 escape-pair state machine (spec.md §4.5)
// over data, writing 8-bit palette indices into a width*height buffer
// (top-down in this buffer; the caller applies the bottom-up flip
// uniformly for every compression mode, same as plain packed rows).
func decodeRLE(data []byte, width, height int, is4bit bool) ([]byte, error) {
	out := make([]byte, width*height)
	x, y := 0, 0
	pos := 0

	putIndex := func(idx byte) {
		if y >= 0 && y < height && x >= 0 && x < width {
			out[y*width+x] = idx
		}
		x++
	}

	for pos < len(data) {
		if pos+1 >= len(data) {
			return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedRLE)
		}
		count := data[pos]
		second := data[pos+1]
		pos += 2

		if count != 0 {
			// Encoded run: `count` pixels using the index/index-pair in
			// `second`.
			if is4bit {
				hi := second >> 4
				lo := second & 0x0f
				for i := 0; i < int(count); i++ {
					if i%2 == 0 {
						putIndex(hi)
					} else {
						putIndex(lo)
					}
				}
			} else {
				for i := 0; i < int(count); i++ {
					putIndex(second)
				}
			}
			continue
		}

		// Escape pair.
		switch second {
		case 0: // end-of-line
			x = 0
			y++
		case 1: // end-of-image
			return out, nil
		case 2: // delta: two signed-byte offsets follow
			if pos+1 >= len(data) {
				return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedRLE)
			}
			dx := int(int8(data[pos]))
			dy := int(int8(data[pos+1]))
			pos += 2
			x += dx
			y += dy
		default: // absolute run of `second` indices, padded to 2 bytes
			n := int(second)
			var nBytes int
			if is4bit {
				nBytes = (n + 1) / 2
			} else {
				nBytes = n
			}
			if pos+nBytes > len(data) {
				return nil, codecerr.New("bmp", codecerr.KindInsufficientData, errTruncatedRLE)
			}
			run := data[pos : pos+nBytes]
			pos += nBytes
			if nBytes%2 != 0 {
				pos++ // pad byte to keep the stream word-aligned
			}
			if is4bit {
				for i := 0; i < n; i++ {
					b := run[i/2]
					if i%2 == 0 {
						putIndex(b >> 4)
					} else {
						putIndex(b & 0x0f)
					}
				}
			} else {
				for i := 0; i < n; i++ {
					putIndex(run[i])
				}
			}
		}
	}
	return out, nil
}
