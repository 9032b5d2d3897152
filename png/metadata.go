package png

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/deflate"
)

// decompressICCP inflates an iCCP chunk's profile, skipping the null-
// terminated profile name and the one-byte compression method (always 0).
func decompressICCP(data []byte) []byte {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 || nul+2 > len(data) {
		return nil
	}
	compressed := data[nul+2:]
	out, err := deflate.Zlib(compressed, deflate.Options{})
	if err != nil {
		return nil
	}
	return out
}

func parseTEXt(data []byte, meta *core.Metadata) {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 {
		return
	}
	setText(meta, string(data[:nul]), string(data[nul+1:]))
}

func parseZTXt(data []byte, meta *core.Metadata) {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 || nul+2 > len(data) {
		return
	}
	out, err := deflate.Zlib(data[nul+2:], deflate.Options{})
	if err != nil {
		return
	}
	setText(meta, string(data[:nul]), string(out))
}

func parseITXt(data []byte, meta *core.Metadata) {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 || nul+2 > len(data) {
		return
	}
	keyword := string(data[:nul])
	compressed := data[nul+1]
	rest := data[nul+2:]

	nul2 := bytes.IndexByte(rest, 0)
	if nul2 < 0 {
		return
	}
	rest = rest[nul2+1:]
	nul3 := bytes.IndexByte(rest, 0)
	if nul3 < 0 {
		return
	}
	textBytes := rest[nul3+1:]
	if compressed == 1 {
		out, err := deflate.Zlib(textBytes, deflate.Options{})
		if err != nil {
			return
		}
		textBytes = out
	}
	setText(meta, keyword, string(textBytes))
}

func setText(meta *core.Metadata, key, value string) {
	if meta.Text == nil {
		meta.Text = make(map[string]string)
	}
	meta.Text[key] = value
}

func parseTIME(data []byte, meta *core.Metadata) {
	if len(data) < 7 {
		return
	}
	year := int(binary.BigEndian.Uint16(data[0:]))
	meta.Timestamp = time.Date(year, time.Month(data[2]), int(data[3]), int(data[4]), int(data[5]), int(data[6]), 0, time.UTC)
	meta.HasTimestamp = true
}

func parseFCTL(data []byte) fctl {
	var fc fctl
	if len(data) < 26 {
		return fc
	}
	fc.seq = binary.BigEndian.Uint32(data[0:])
	fc.width = int(binary.BigEndian.Uint32(data[4:]))
	fc.height = int(binary.BigEndian.Uint32(data[8:]))
	fc.xOffset = int(binary.BigEndian.Uint32(data[12:]))
	fc.yOffset = int(binary.BigEndian.Uint32(data[16:]))
	fc.delayNum = binary.BigEndian.Uint16(data[20:])
	fc.delayDen = binary.BigEndian.Uint16(data[22:])
	fc.disposeOp = data[24]
	fc.blendOp = data[25]
	return fc
}
