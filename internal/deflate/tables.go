package deflate

// codeLengthOrder is the order in which the 19 code-length alphabet's bit
// widths are transmitted for a dynamic block (RFC 1951 §3.2.7).
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// lengthBase and lengthExtra give, for length symbols 257..285, the base
// run length and number of extra bits to add (RFC 1951 §3.2.5).
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51,
	59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}
var lengthExtra = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra give, for distance symbols 0..29, the base
// back-reference offset and number of extra bits to add.
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385,
	513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}
var distExtra = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// fixedLitLenLengths is the RFC-defined static literal/length code-length
// table (RFC 1951 §3.2.6).
func fixedLitLenLengths() []int {
	lens := make([]int, 288)
	for i := 0; i < 144; i++ {
		lens[i] = 8
	}
	for i := 144; i < 256; i++ {
		lens[i] = 9
	}
	for i := 256; i < 280; i++ {
		lens[i] = 7
	}
	for i := 280; i < 288; i++ {
		lens[i] = 8
	}
	return lens
}

// fixedDistLengths is the RFC-defined static distance code-length table:
// all 30 distance codes use 5 bits.
func fixedDistLengths() []int {
	lens := make([]int, 30)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}

const (
	rootBitsLitLen = 9
	rootBitsDist   = 6
	rootBitsCLen   = 7
)
