package jxl

import (
	"encoding/binary"
	"sync"

	"github.com/pixeltoolkit/imagecodec/core"
	"github.com/pixeltoolkit/imagecodec/internal/bitio"
	"github.com/pixeltoolkit/imagecodec/internal/codecerr"
	"github.com/pixeltoolkit/imagecodec/options"
)

// Encoder writes a single still frame as a lossless JXL bitstream.
type Encoder struct {
	opts options.Options
}

// NewEncoder builds an Encoder using the given options (JXLEncoderThreads
// bounds the group worker pool, spec.md §5).
func NewEncoder(opts options.Options) *Encoder {
	return &Encoder{opts: opts}
}

// Encode writes img's first frame as a lossless JXL codestream.
func (e *Encoder) Encode(img *core.Image) ([]byte, error) {
	fr := img.Frame(0)
	space := fr.ColourSpace()
	maxVal := int32(img.Depth.MaxValue())

	planes, err := extractPlanes(fr, img.Depth)
	if err != nil {
		return nil, err
	}

	rects := groupRects(img.Width, img.Height)

	// Each group is independent: per-channel predictor mode is chosen per
	// group, not globally, so a worker never needs another group's state
	// (spec.md §5's "workers share no mutable state").
	type groupResult struct {
		payload []byte
		err     error
	}
	results := make([]groupResult, len(rects))

	workers := e.opts.JXLEncoderThreads
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for gi, rect := range rects {
		wg.Add(1)
		sem <- struct{}{}
		go func(gi int, rect groupRect) {
			defer wg.Done()
			defer func() { <-sem }()
			payload, err := encodeGroup(planes, img.Width, rect, maxVal, e.opts.JXLEncoderEffort)
			results[gi] = groupResult{payload: payload, err: err}
		}(gi, rect)
	}
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
	}

	hdr, err := encodeHeader(header{width: img.Width, height: img.Height, space: space, depth: img.Depth, animated: img.Animated})
	if err != nil {
		return nil, err
	}

	out := append([]byte(nil), hdr...)
	var toc [4]byte
	binary.BigEndian.PutUint32(toc[:], uint32(len(results)))
	out = append(out, toc[:]...)
	for _, res := range results {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(res.payload)))
		out = append(out, lenBuf[:]...)
	}
	for _, res := range results {
		out = append(out, res.payload...)
	}
	return out, nil
}

// extractPlanes returns one int32 plane per channel, in colour-space order.
func extractPlanes(fr *core.Frame, depth core.BitDepth) ([][]int32, error) {
	channels := fr.Channels()
	planes := make([][]int32, len(channels))
	for i, ch := range channels {
		n := ch.Len()
		plane := make([]int32, n)
		switch depth {
		case core.Eight:
			u8, err := ch.U8()
			if err != nil {
				return nil, err
			}
			for j, v := range u8 {
				plane[j] = int32(v)
			}
		case core.Sixteen:
			u16, err := ch.U16()
			if err != nil {
				return nil, err
			}
			for j, v := range u16 {
				plane[j] = int32(v)
			}
		default:
			return nil, wrap(codecerr.KindUnsupported, errBadDepth, "%s", depth)
		}
		planes[i] = plane
	}
	return planes, nil
}

// lowEffortThreshold: below this JXLEncoderEffort, encodeGroup skips the
// per-group cost comparison across all three predictors and always uses
// the gradient predictor, trading ratio for speed (options.go's "0
// (fastest) to 127" scale).
const lowEffortThreshold = 8

// encodeGroup plans and writes one group's every channel into a single
// byte-aligned payload.
func encodeGroup(planes [][]int32, width int, rect groupRect, maxVal int32, effort int) ([]byte, error) {
	w := bitio.NewLSBWriter((rect.x1 - rect.x0) * (rect.y1 - rect.y0) * len(planes) / 2)

	for _, plane := range planes {
		mode := predictorGradient
		if effort >= lowEffortThreshold {
			mode = choosePredictorMode(plane, width, rect.x0, rect.y0, rect.x1, rect.y1, maxVal)
		}

		rawHist := make([]uint32, rawAlphabet.numSymbols())
		lz77Hist := make([]uint32, lz77Alphabet.numSymbols())
		plan := planChannel(plane, width, rect.x0, rect.y0, rect.x1, rect.y1, mode, maxVal, rawHist, lz77Hist)

		rawTable := buildHuffmanTable(rawAlphabet, rawHist)
		lz77Table := buildHuffmanTable(lz77Alphabet, lz77Hist)

		w.WriteBits(uint32(mode), 2)
		writeLengths(w, rawTable.lengthsOf())
		writeLengths(w, lz77Table.lengthsOf())
		writeChannelPlan(w, plan, rawTable, lz77Table)
	}
	w.AlignToByte()
	return w.Finish(), nil
}
