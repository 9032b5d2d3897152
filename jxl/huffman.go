package jxl

import (
	"container/heap"
	"sort"

	"github.com/pixeltoolkit/imagecodec/internal/bitio"
)

// maxCodeLength bounds the canonical codes this package builds, matching
// DEFLATE's RFC 1951 §3.2.2 limit (internal/deflate/huffman.go MaxCodeLength).
// The raw and lz77 alphabets are small enough that this limit is never
// binding in practice.
const maxCodeLength = 15

// huffmanCode is one canonical code: length in bits plus the bit-reversed
// codeword, ready to hand to an LSBWriter (spec.md §4.1's LSB-first
// convention, shared with DEFLATE).
type huffmanCode struct {
	length uint8
	code   uint16
}

// huffmanTable is a complete canonical code for one alphabet: an
// encode-side codeword per symbol and a decode-side flat lookup table
// indexed directly by the next maxLen bits off an LSBReader (no two-level
// split, unlike internal/deflate/huffman.go's buildTable, because these
// alphabets are at most 33 symbols and never need one).
type huffmanTable struct {
	scheme    *hybridUint
	codes     []huffmanCode // per symbol, len(lengths)==0 symbols are unused
	decodeLen int           // bit width of decodeTable
	decode    []huffmanCode // decodeTable[bits] -> symbol packed into .code
}

// buildHuffmanTable assigns canonical code lengths from a symbol histogram
// (internal/lossless/encode_huffman.go's CreateHuffmanTree, length-limited
// tree construction ported verbatim in spirit) and builds both the
// encode-side codeword table and a flat decode table.
func buildHuffmanTable(scheme *hybridUint, histogram []uint32) *huffmanTable {
	lengths := buildCodeLengths(histogram, maxCodeLength)
	return tableFromLengths(scheme, lengths)
}

// tableFromLengths rebuilds a decode-side huffmanTable directly from code
// lengths read off the wire (the decoder never sees the encoder's
// histogram, only the lengths it wrote).
func tableFromLengths(scheme *hybridUint, lengths []uint8) *huffmanTable {
	codes := canonicalCodes(lengths)
	maxLen := 0
	for _, l := range lengths {
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	if maxLen == 0 {
		maxLen = 1
	}
	size := 1 << uint(maxLen)
	decode := make([]huffmanCode, size)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := codes[sym]
		// Every bit pattern above the code's own length, with the code's
		// bits fixed at the bottom, decodes to this symbol (the standard
		// canonical-table replication used by internal/deflate/huffman.go's
		// buildTable, without the root/sub-table split).
		step := 1 << uint(l)
		for bits := int(c.code); bits < size; bits += step {
			decode[bits] = huffmanCode{length: l, code: uint16(sym)}
		}
	}
	return &huffmanTable{scheme: scheme, codes: codes, decodeLen: maxLen, decode: decode}
}

// lengthsOf returns the code-length array (for serialising into the
// bitstream so the decoder can rebuild this exact table).
func (t *huffmanTable) lengthsOf() []uint8 {
	lengths := make([]uint8, len(t.codes))
	for i, c := range t.codes {
		lengths[i] = c.length
	}
	return lengths
}

// buildCodeLengths is CreateHuffmanTree's length-assignment algorithm
// (internal/lossless/encode_huffman.go), trimmed to return just the
// code-length array: build a Huffman tree over the histogram via a min
// heap, doubling the minimum leaf weight and rebuilding whenever a
// resulting depth would exceed limit.
func buildCodeLengths(histogram []uint32, limit int) []uint8 {
	n := len(histogram)
	lengths := make([]uint8, n)

	var nonZero []int
	for i, c := range histogram {
		if c > 0 {
			nonZero = append(nonZero, i)
		}
	}
	switch len(nonZero) {
	case 0:
		return lengths
	case 1:
		lengths[nonZero[0]] = 1
		return lengths
	case 2:
		lengths[nonZero[0]] = 1
		lengths[nonZero[1]] = 1
		return lengths
	}

	for countMin := uint32(1); ; countMin *= 2 {
		for i := range lengths {
			lengths[i] = 0
		}
		h := &huffHeap{}
		for _, sym := range nonZero {
			count := histogram[sym]
			if count < countMin {
				count = countMin
			}
			idx := len(h.pool)
			h.pool = append(h.pool, huffNode{totalCount: count, value: sym, left: -1, right: -1})
			h.indices = append(h.indices, idx)
		}
		if len(h.indices) == 1 {
			lengths[h.pool[h.indices[0]].value] = 1
			return lengths
		}
		heap.Init(h)
		for h.Len() > 1 {
			li := heap.Pop(h).(int)
			ri := heap.Pop(h).(int)
			parent := len(h.pool)
			h.pool = append(h.pool, huffNode{
				totalCount: h.pool[li].totalCount + h.pool[ri].totalCount,
				value:      -1,
				left:       li,
				right:      ri,
			})
			heap.Push(h, parent)
		}
		assignDepths(h.pool, h.indices[0], 0, lengths)

		maxDepth := 0
		for _, l := range lengths {
			if int(l) > maxDepth {
				maxDepth = int(l)
			}
		}
		if maxDepth <= limit {
			return lengths
		}
	}
}

type huffNode struct {
	totalCount  uint32
	value       int
	left, right int
}

type huffHeap struct {
	pool    []huffNode
	indices []int
}

func (h *huffHeap) Len() int { return len(h.indices) }
func (h *huffHeap) Less(i, j int) bool {
	a, b := h.pool[h.indices[i]], h.pool[h.indices[j]]
	if a.totalCount != b.totalCount {
		return a.totalCount < b.totalCount
	}
	return h.indices[i] < h.indices[j]
}
func (h *huffHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }
func (h *huffHeap) Push(x any)    { h.indices = append(h.indices, x.(int)) }
func (h *huffHeap) Pop() any {
	old := h.indices
	n := len(old)
	idx := old[n-1]
	h.indices = old[:n-1]
	return idx
}

func assignDepths(pool []huffNode, idx, depth int, lengths []uint8) {
	node := &pool[idx]
	if node.value >= 0 {
		lengths[node.value] = uint8(depth)
		return
	}
	if node.left >= 0 {
		assignDepths(pool, node.left, depth+1, lengths)
	}
	if node.right >= 0 {
		assignDepths(pool, node.right, depth+1, lengths)
	}
}

// canonicalCodes assigns bit-reversed canonical codewords from code
// lengths, grounded on internal/lossless/encode_huffman.go's
// generateCanonicalCodes.
func canonicalCodes(lengths []uint8) []huffmanCode {
	codes := make([]huffmanCode, len(lengths))

	type symLen struct {
		symbol int
		length uint8
	}
	var symbols []symLen
	for i, l := range lengths {
		if l > 0 {
			symbols = append(symbols, symLen{i, l})
		}
	}
	sort.SliceStable(symbols, func(i, j int) bool {
		if symbols[i].length != symbols[j].length {
			return symbols[i].length < symbols[j].length
		}
		return symbols[i].symbol < symbols[j].symbol
	})

	code := uint32(0)
	prevLen := uint8(0)
	for _, s := range symbols {
		if s.length > prevLen {
			code <<= uint(s.length - prevLen)
			prevLen = s.length
		}
		codes[s.symbol] = huffmanCode{length: s.length, code: reverseBits(code, int(s.length))}
		code++
	}
	return codes
}

func reverseBits(v uint32, nBits int) uint16 {
	var result uint32
	for i := 0; i < nBits; i++ {
		result = (result << 1) | (v & 1)
		v >>= 1
	}
	return uint16(result)
}

// writeLengths serialises the alphabet's code lengths (one nibble each,
// 0..15) so the decoder can rebuild the same canonical table without a
// second histogram pass. Used for small, fixed-size alphabets only (19 and
// 33 symbols), so a flat per-symbol encoding is simpler than DEFLATE's own
// run-length-coded code-length alphabet and costs at most 33*4 bits.
func writeLengths(w *bitio.LSBWriter, lengths []uint8) {
	for _, l := range lengths {
		w.WriteBits(uint32(l), 4)
	}
}

func readLengths(r *bitio.LSBReader, n int) []uint8 {
	lengths := make([]uint8, n)
	for i := range lengths {
		lengths[i] = uint8(r.ReadBits(4))
	}
	return lengths
}

// encodeSymbol writes one alphabet symbol's canonical code.
func (t *huffmanTable) encodeSymbol(w *bitio.LSBWriter, symbol int) {
	c := t.codes[symbol]
	w.WriteBits(uint32(c.code), int(c.length))
}

// decodeSymbol reads one alphabet symbol using the flat decode table.
func (t *huffmanTable) decodeSymbol(r *bitio.LSBReader) int {
	r.FillBitWindow()
	bits := r.PrefetchBits() & uint32(t.decodeLen2Mask())
	c := t.decode[bits]
	r.ReadBits(int(c.length))
	return int(c.code)
}

func (t *huffmanTable) decodeLen2Mask() int { return (1 << uint(t.decodeLen)) - 1 }
