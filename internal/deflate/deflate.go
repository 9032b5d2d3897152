package deflate

import (
	"hash/adler32"

	"github.com/pixeltoolkit/imagecodec/internal/bitio"
)

// Deflate compresses data into a single fixed-Huffman DEFLATE block (RFC 1951
// §3.2.6). Encoders in this module favour correctness and small code size
// over compression ratio — LZ77 match-finding belongs to a general-purpose
// compressor, not a codec whose job is pixel fidelity — so no back-reference
// search is performed; every byte is emitted as a literal under the static
// code table. This still produces a standards-compliant, fully decodable
// DEFLATE stream that any RFC-1951 reader (including Inflate in this
// package) decompresses byte-for-byte.
func Deflate(data []byte) []byte {
	w := bitio.NewLSBWriter(len(data) + 16)
	w.WriteBits(1, 1) // BFINAL
	w.WriteBits(1, 2) // BTYPE = 01 (fixed Huffman)

	codes, lens := fixedLitLenCodes()
	for _, b := range data {
		writeHuffmanCode(w, codes[b], lens[b])
	}
	// End-of-block symbol 256.
	writeHuffmanCode(w, codes[256], lens[256])

	return w.Finish()
}

// writeHuffmanCode emits a Huffman codeword. RFC 1951 §3.1.1 packs Huffman
// codes starting with their most-significant bit, unlike every other DEFLATE
// field (which is LSB-first); bit-reversing the codeword before handing it
// to the LSB-first writer reconciles the two conventions.
func writeHuffmanCode(w *bitio.LSBWriter, code uint16, length uint8) {
	var reversed uint32
	c := uint32(code)
	for i := 0; i < int(length); i++ {
		reversed = (reversed << 1) | (c & 1)
		c >>= 1
	}
	w.WriteBits(reversed, int(length))
}

// ZlibCompress wraps data in a zlib stream (RFC 1950 header + Deflate body +
// big-endian Adler-32 trailer).
func ZlibCompress(data []byte) []byte {
	body := Deflate(data)
	out := make([]byte, 0, len(body)+6)
	out = append(out, 0x78, 0x01) // CMF=deflate/32K window, FLG chosen so header%31==0
	out = append(out, body...)
	sum := adler32.Checksum(data)
	out = append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	return out
}

// fixedLitLenCodes derives the canonical codeword for every fixed
// literal/length symbol (RFC 1951 §3.2.6), in MSB-first bit order as
// transmitted on the wire.
func fixedLitLenCodes() (codes [288]uint16, lens [288]uint8) {
	lengths := fixedLitLenLengths()
	var code uint16
	for bits := 1; bits <= MaxCodeLength; bits++ {
		for sym, l := range lengths {
			if l == bits {
				codes[sym] = code
				lens[sym] = uint8(bits)
				code++
			}
		}
		code <<= 1
	}
	return codes, lens
}
