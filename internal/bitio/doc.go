// Package bitio provides the MSB-first and LSB-first bit-level accumulators
// shared by every entropy decoder in this module (spec.md §4.1): MSBReader
// backs JPEG, LSBReader/LSBWriter back DEFLATE and JXL-lossless.
package bitio
