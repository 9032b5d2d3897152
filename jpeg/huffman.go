package jpeg

import "github.com/pixeltoolkit/imagecodec/internal/bitio"

// huffTable is a canonical JPEG Huffman table (ITU T.81 Annex C): for each
// code length 1..16, the number of codes of that length and their assigned
// symbols, built the same incremental way DEFLATE's canonical codes are
// (internal/deflate/huffman.go), but MSB-first and decoded one bit at a
// time against a (length, code) lookup instead of a two-level table, since
// JPEG's alphabet (256 symbols max, 16 code lengths) is small enough that
// the simpler bit-at-a-time walk is the idiomatic choice (this is also
// exactly how the DC/AC category-code tables in ITU T.81 Annex F are meant
// to be decoded).
type huffTable struct {
	// codes[length] maps a `length`-bit MSB-first code value to its symbol.
	codes [17]map[uint32]uint8
	valid bool
}

// buildHuffTable constructs a huffTable from DHT's bits-histogram (counts
// of codes of length 1..16) and the flattened symbol list, assigning
// codes in the canonical order (spec.md §4.4: "same canonical-code
// construction as DEFLATE but MSB-first").
func buildHuffTable(counts [16]byte, symbols []byte) *huffTable {
	t := &huffTable{valid: true}
	for i := range t.codes {
		t.codes[i] = make(map[uint32]uint8)
	}
	code := uint32(0)
	si := 0
	for length := 1; length <= 16; length++ {
		n := int(counts[length-1])
		for i := 0; i < n; i++ {
			if si >= len(symbols) {
				return &huffTable{valid: false}
			}
			t.codes[length][code] = symbols[si]
			si++
			code++
		}
		code <<= 1
	}
	return t
}

// decode reads one Huffman-coded symbol MSB-first from r.
func (t *huffTable) decode(r *bitio.MSBReader) (uint8, error) {
	if !t.valid {
		return 0, errOversubscribed
	}
	code := uint32(0)
	for length := 1; length <= 16; length++ {
		code = code<<1 | r.GetBits(1)
		if sym, ok := t.codes[length][code]; ok {
			return sym, nil
		}
	}
	return 0, errOversubscribed
}

// receiveExtend reads an n-bit value and sign-extends it per ITU T.81
// F.2.2.1: values with the top bit clear are negative, offset by
// -(2^n - 1).
func receiveExtend(r *bitio.MSBReader, n uint8) int32 {
	if n == 0 {
		return 0
	}
	v := int32(r.GetBits(int(n)))
	threshold := int32(1) << (n - 1)
	if v < threshold {
		return v - (1<<n - 1)
	}
	return v
}
