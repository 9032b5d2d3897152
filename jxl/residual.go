package jxl

import "github.com/pixeltoolkit/imagecodec/internal/bitio"

// rowPlan is one row's worth of coding decisions for a channel, computed up
// front so the encoder can tally symbol histograms before committing any
// bits (spec.md §4.6: "collect residual histograms... build a prefix
// code... encode per-channel chunks").
type rowPlan struct {
	useLZ77 bool
	runLen  int
	raw     []int32 // residual values still needing rawAlphabet coding
}

// channelPlan is a whole rectangle's row plans plus the predictor mode they
// were computed under.
type channelPlan struct {
	mode predictorMode
	rows []rowPlan
}

// planChannel predicts and residual-codes one channel's rectangle without
// writing any bits, mutating plane in place with decoded-equivalent values
// is not needed here: planChannel only reads plane (the encoder already
// holds real source samples), tallying raw/lz77 histograms as it goes.
func planChannel(plane []int32, width, x0, y0, x1, y1 int, mode predictorMode, maxVal int32, rawHist, lz77Hist []uint32) channelPlan {
	rowWidth := x1 - x0
	prevResidual := make([]int32, rowWidth)
	thisResidual := make([]int32, rowWidth)
	plan := channelPlan{mode: mode, rows: make([]rowPlan, 0, y1-y0)}

	for y := y0; y < y1; y++ {
		for i, x := 0, x0; x < x1; i, x = i+1, x+1 {
			left, top, topLeft := neighbours(plane, width, x, y)
			pred := predict(mode, left, top, topLeft, maxVal)
			thisResidual[i] = int32(zigzag(plane[y*width+x] - pred))
		}

		var rp rowPlan
		if y == y0 {
			rp.raw = append([]int32(nil), thisResidual...)
		} else {
			run := 0
			for run < rowWidth && thisResidual[run] == prevResidual[run] {
				run++
			}
			if run >= minLZ77Length {
				rp.useLZ77 = true
				rp.runLen = run
				rp.raw = append([]int32(nil), thisResidual[run:]...)
			} else {
				rp.raw = append([]int32(nil), thisResidual...)
			}
		}
		for _, r := range rp.raw {
			tallyHybrid(rawAlphabet, rawHist, uint32(r))
		}
		if rp.useLZ77 {
			tallyHybrid(lz77Alphabet, lz77Hist, uint32(rp.runLen))
		}
		plan.rows = append(plan.rows, rp)

		prevResidual, thisResidual = thisResidual, prevResidual
	}
	return plan
}

// writeChannelPlan emits a planned channel's rows using the final
// (histogram-fitted) Huffman tables.
func writeChannelPlan(w *bitio.LSBWriter, plan channelPlan, rawTable, lz77Table *huffmanTable) {
	for i, rp := range plan.rows {
		if i > 0 {
			if rp.useLZ77 {
				w.WriteBits(1, 1)
				encodeHybrid(w, lz77Table, uint32(rp.runLen))
			} else {
				w.WriteBits(0, 1)
			}
		}
		for _, r := range rp.raw {
			encodeHybrid(w, rawTable, uint32(r))
		}
	}
}

// decodeChannel reconstructs plane's rectangle in place, assuming every
// pixel the predictor can see outside the rectangle has already been
// decoded (true at a group's left/top edges because groups decode in
// raster order, spec.md §5).
func decodeChannel(r *bitio.LSBReader, plane []int32, width, x0, y0, x1, y1 int, mode predictorMode, maxVal int32, rawTable, lz77Table *huffmanTable) {
	rowWidth := x1 - x0
	prevResidual := make([]int32, rowWidth)
	thisResidual := make([]int32, rowWidth)

	for y := y0; y < y1; y++ {
		useLZ77 := false
		run := 0
		if y > y0 {
			useLZ77 = r.ReadBits(1) == 1
			if useLZ77 {
				run = int(decodeHybrid(r, lz77Table))
				if run > rowWidth {
					run = rowWidth
				}
			}
		}

		for i, x := 0, x0; x < x1; i, x = i+1, x+1 {
			left, top, topLeft := neighbours(plane, width, x, y)
			pred := predict(mode, left, top, topLeft, maxVal)

			var residual int32
			if useLZ77 && i < run {
				residual = prevResidual[i]
			} else {
				residual = int32(decodeHybrid(r, rawTable))
			}
			thisResidual[i] = residual
			plane[y*width+x] = pred + unzigzag(uint32(residual))
		}

		prevResidual, thisResidual = thisResidual, prevResidual
	}
}

func tallyHybrid(scheme *hybridUint, hist []uint32, v uint32) {
	symbol, _, _ := scheme.split(v)
	hist[symbol]++
}

func encodeHybrid(w *bitio.LSBWriter, table *huffmanTable, v uint32) {
	symbol, payload, nbits := table.scheme.split(v)
	table.encodeSymbol(w, symbol)
	if nbits > 0 {
		w.WriteBits(payload, nbits)
	}
}

func decodeHybrid(r *bitio.LSBReader, table *huffmanTable) uint32 {
	symbol := table.decodeSymbol(r)
	nbits := table.scheme.extraBitsFor(symbol)
	var payload uint32
	if nbits > 0 {
		payload = r.ReadBits(nbits)
	}
	return table.scheme.join(symbol, payload)
}
