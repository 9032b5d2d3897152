// Package deflate implements the RFC-1950/1951 zlib/DEFLATE decompression
// engine underpinning the PNG decoder (spec.md §4.2). It is the only
// component in this module that decompresses a general-purpose LZ77 +
// Huffman bitstream; every other codec's entropy coding (JPEG's Huffman,
// QOI's tag stream, JXL's prefix codes) is format-specific and lives in its
// own package.
//
// The canonical two-level Huffman table construction is grounded on the
// teacher's VP8L table builder (internal/lossless/huffman.go); the bit
// accumulator is internal/bitio's LSBReader, itself a generalisation of the
// teacher's LosslessReader.
package deflate

import (
	"hash/adler32"

	"github.com/pixeltoolkit/imagecodec/internal/bitio"
)

// Options controls a single Inflate call.
type Options struct {
	// SizeHint pre-reserves the output buffer to this many bytes,
	// avoiding reallocation when the caller knows the expected size
	// (e.g. PNG pre-reserving (width+1)*height, spec.md §4.2).
	SizeHint int
	// SizeLimit aborts decompression once the output would exceed this
	// many bytes. Zero means unbounded.
	SizeLimit int64
	// VerifyChecksum checks the zlib trailer's Adler-32 against the
	// decompressed bytes.
	VerifyChecksum bool
}

// Inflate decompresses a raw DEFLATE stream (no zlib header/trailer) per
// RFC 1951, returning the decompressed bytes.
func Inflate(data []byte, opts Options) ([]byte, error) {
	out := make([]byte, 0, initialCap(opts))
	r := bitio.NewLSBReader(data)
	if err := inflateBlocks(r, &out, opts.SizeLimit); err != nil {
		return nil, err
	}
	return out, nil
}

// Zlib decompresses a zlib-wrapped DEFLATE stream per RFC 1950: a 2-byte
// CMF/FLG header, the DEFLATE payload, then a 4-byte big-endian Adler-32
// trailer.
func Zlib(data []byte, opts Options) ([]byte, error) {
	if len(data) < 2 {
		return nil, ErrTruncated
	}
	cmf, flg := data[0], data[1]
	method := cmf & 0x0F
	if method != 8 {
		return nil, ErrUnsupportedMethod
	}
	windowBits := (cmf >> 4) & 0x0F
	if windowBits > 7 {
		return nil, ErrWindowTooLarge
	}
	if (int(cmf)*256+int(flg))%31 != 0 {
		return nil, ErrBadZlibHeader
	}
	if flg&0x20 != 0 {
		// FDICT: preset dictionary, not supported by any format this
		// module decodes (PNG never sets it).
		return nil, ErrUnsupportedMethod
	}

	payload := data[2:]
	trailerLen := 4
	if len(payload) < trailerLen {
		return nil, ErrTruncated
	}
	body := payload[:len(payload)-trailerLen]
	trailer := payload[len(payload)-trailerLen:]

	out := make([]byte, 0, initialCap(opts))
	r := bitio.NewLSBReader(body)
	if err := inflateBlocks(r, &out, opts.SizeLimit); err != nil {
		return nil, err
	}

	if opts.VerifyChecksum {
		want := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])
		if got := adler32.Checksum(out); got != want {
			return nil, ErrAdlerMismatch
		}
	}
	return out, nil
}

func initialCap(opts Options) int {
	if opts.SizeHint > 0 {
		return opts.SizeHint
	}
	return 4096
}

// inflateBlocks decodes successive DEFLATE blocks into *out until the
// final-block bit is seen (spec.md §4.2).
func inflateBlocks(r *bitio.LSBReader, out *[]byte, limit int64) error {
	for {
		final := r.ReadBits(1)
		btype := r.ReadBits(2)

		var err error
		switch btype {
		case 0:
			err = inflateStored(r, out)
		case 1:
			err = inflateHuffmanBlock(r, out, fixedLitLenLengths(), fixedDistLengths(), limit)
		case 2:
			err = inflateDynamicBlock(r, out, limit)
		default:
			return ErrBadBlockType
		}
		if err != nil {
			return err
		}
		if limit > 0 && int64(len(*out)) > limit {
			return ErrOverLimit
		}
		if final == 1 {
			break
		}
		if r.IsEndOfStream() {
			return ErrTruncated
		}
	}
	return nil
}

// inflateStored copies a stored (uncompressed) block verbatim (spec.md §4.2):
// align to byte boundary, read LEN/NLEN (one's complement pair), copy LEN
// bytes.
func inflateStored(r *bitio.LSBReader, out *[]byte) error {
	r.AlignToByte()
	lenLo := r.ReadBits(8)
	lenHi := r.ReadBits(8)
	nlenLo := r.ReadBits(8)
	nlenHi := r.ReadBits(8)
	length := lenLo | lenHi<<8
	nlen := nlenLo | nlenHi<<8
	if length^0xFFFF != nlen {
		return ErrBadStoredLength
	}
	for i := uint32(0); i < length; i++ {
		if r.IsEndOfStream() {
			return ErrTruncated
		}
		*out = append(*out, byte(r.ReadBits(8)))
	}
	return nil
}

// inflateDynamicBlock reads HLIT/HDIST/HCLEN, decodes the 19-symbol
// code-length alphabet, then uses it to decode the literal/length and
// distance code-length streams (spec.md §4.2), before decoding the block
// body with the resulting tables.
func inflateDynamicBlock(r *bitio.LSBReader, out *[]byte, limit int64) error {
	hlit := int(r.ReadBits(5)) + 257
	hdist := int(r.ReadBits(5)) + 1
	hclen := int(r.ReadBits(4)) + 4

	var clLengths [19]int
	for i := 0; i < hclen; i++ {
		clLengths[codeLengthOrder[i]] = int(r.ReadBits(3))
	}
	clTable, err := buildTable(rootBitsCLen, clLengths[:])
	if err != nil {
		return err
	}

	allLengths := make([]int, hlit+hdist)
	i := 0
	for i < len(allLengths) {
		sym, err := decodeSymbol(r, clTable, rootBitsCLen)
		if err != nil {
			return err
		}
		switch {
		case sym < 16:
			allLengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return ErrInvalidTree
			}
			repeat := int(r.ReadBits(2)) + 3
			prev := allLengths[i-1]
			for j := 0; j < repeat && i < len(allLengths); j++ {
				allLengths[i] = prev
				i++
			}
		case sym == 17:
			repeat := int(r.ReadBits(3)) + 3
			for j := 0; j < repeat && i < len(allLengths); j++ {
				allLengths[i] = 0
				i++
			}
		case sym == 18:
			repeat := int(r.ReadBits(7)) + 11
			for j := 0; j < repeat && i < len(allLengths); j++ {
				allLengths[i] = 0
				i++
			}
		default:
			return ErrInvalidTree
		}
	}

	litLenLengths := allLengths[:hlit]
	distLengths := allLengths[hlit:]
	return inflateHuffmanBlock(r, out, litLenLengths, distLengths, limit)
}

// inflateHuffmanBlock decodes one Huffman-coded block body (fixed or
// dynamic) given its literal/length and distance code-length tables.
func inflateHuffmanBlock(r *bitio.LSBReader, out *[]byte, litLenLengths, distLengths []int, limit int64) error {
	litTable, err := buildTable(rootBitsLitLen, litLenLengths)
	if err != nil {
		return err
	}
	distTable, distErr := buildTable(rootBitsDist, distLengths)
	// A block that never emits a back-reference may legally carry an
	// empty/invalid distance tree (RFC 1951 §3.2.7); only treat distErr as
	// fatal once a length/distance pair is actually decoded.

	for {
		sym, err := decodeSymbol(r, litTable, rootBitsLitLen)
		if err != nil {
			return err
		}
		if sym < 256 {
			*out = append(*out, byte(sym))
		} else if sym == 256 {
			return nil // end of block
		} else {
			lengthIdx := sym - 257
			if lengthIdx >= len(lengthBase) {
				return ErrInvalidTree
			}
			length := lengthBase[lengthIdx] + int(r.ReadBits(lengthExtra[lengthIdx]))

			if distErr != nil {
				return distErr
			}
			distSym, err := decodeSymbol(r, distTable, rootBitsDist)
			if err != nil {
				return err
			}
			if distSym >= len(distBase) {
				return ErrInvalidTree
			}
			distance := distBase[distSym] + int(r.ReadBits(distExtra[distSym]))

			if distance > len(*out) {
				return ErrInvalidDistance
			}
			if limit > 0 && int64(len(*out)+length) > limit {
				return ErrOverLimit
			}
			copyMatch(out, distance, length)
		}
		if r.IsEndOfStream() && sym != 256 {
			// A symbol may end exactly at the last input bit; reading
			// past it before end-of-block means the stream is truncated.
			return ErrTruncated
		}
	}
}

// copyMatch appends length bytes copied from (end-distance), byte by byte,
// so that overlapping copies (length > distance) correctly duplicate bytes
// cyclically (spec.md §4.2).
func copyMatch(out *[]byte, distance, length int) {
	start := len(*out) - distance
	for i := 0; i < length; i++ {
		*out = append(*out, (*out)[start+i])
	}
}

// decodeSymbol reads one Huffman symbol from table using the two-level
// lookup scheme built by buildTable (spec.md §4.2: peek T bits, follow a
// pointer entry into a sub-table if the code is longer than T).
func decodeSymbol(r *bitio.LSBReader, table []code, rootBits int) (int, error) {
	r.FillBitWindow()
	peek := r.PrefetchBits()
	rootMask := uint32(1<<uint(rootBits)) - 1
	entry := table[peek&rootMask]
	extra := int(entry.bits) - rootBits
	if extra > 0 {
		idx := int(entry.value) + int((peek>>uint(rootBits))&((1<<uint(extra))-1))
		if idx >= len(table) {
			return 0, ErrInvalidTree
		}
		entry = table[idx]
		r.ReadBits(rootBits)
		r.ReadBits(int(entry.bits))
		return int(entry.value), nil
	}
	r.ReadBits(int(entry.bits))
	return int(entry.value), nil
}
