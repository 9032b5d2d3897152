package jpeg

// quantTable holds one dequantisation table in natural row-major order
// (spec.md §4.4: "the decoder un-zig-zags on load into natural row-major
// order").
type quantTable [blockSize]uint16

func parseDQT(data []byte, tables *[4]*quantTable) error {
	pos := 0
	for pos < len(data) {
		pq := data[pos] >> 4 // 0 = 8-bit entries, 1 = 16-bit entries
		tq := data[pos] & 0x0f
		pos++
		if tq > 3 {
			return errBadMarker
		}
		var qt quantTable
		if pq == 0 {
			if pos+64 > len(data) {
				return errBadMarker
			}
			for i := 0; i < blockSize; i++ {
				qt[unzig[i]] = uint16(data[pos+i])
			}
			pos += 64
		} else {
			if pos+128 > len(data) {
				return errBadMarker
			}
			for i := 0; i < blockSize; i++ {
				qt[unzig[i]] = uint16(data[pos+2*i])<<8 | uint16(data[pos+2*i+1])
			}
			pos += 128
		}
		tables[tq] = &qt
	}
	return nil
}

// dequantize multiplies every natural-order coefficient in b by its
// matching quantisation table entry, in place.
func dequantize(b *block, qt *quantTable) {
	for i := range b {
		b[i] *= int32(qt[i])
	}
}
