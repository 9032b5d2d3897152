// Package imagecodec provides pure Go decoders for PNG, JPEG, BMP, QOI,
// PPM/PAM, Radiance HDR, and a lossless JPEG-XL subset, plus encoders for
// PNG and JPEG-XL. It implements each format's bitstream without any CGo
// dependency, making it fully portable and easy to cross-compile.
//
// The package supports:
//   - PNG: all bit depths, interlaced (Adam7), ancillary chunks, APNG
//   - JPEG: baseline and progressive, decode-only
//   - BMP: every historical header variant, RLE4/RLE8/BITFIELDS
//   - QOI, PPM/PAM, Radiance HDR: decode
//   - JPEG-XL: a hand-rolled lossless modular subset, decode and encode
//   - A shared zlib/DEFLATE engine and image data model (Channel/Frame/Image)
//   - Per-pixel filters: transpose, box/gaussian blur, crop, colour and
//     depth conversion
//
// Basic usage for decoding, sniffing the format from its magic bytes:
//
//	img, err := imagecodec.Decode(data, options.Default())
//
// Basic usage for a single format, once known:
//
//	d := png.NewDecoder(data, options.Default())
//	img, err := d.Decode()
package imagecodec
