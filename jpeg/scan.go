package jpeg

import "github.com/pixeltoolkit/imagecodec/internal/bitio"

// scanComponent is one component's role within a single SOS scan.
type scanComponent struct {
	compIndex int
	dcSel     int
	acSel     int
}

// decodeScan walks every MCU of one scan (spec.md §4.4 "Baseline entropy" /
// "Progressive entropy"), both baseline (zigStart=0, zigEnd=63, ah=al=0, a
// single implicit scan) and progressive (explicit spectral/successive-
// approximation parameters per SOS) share this one MCU walk, grounded on
// the source's processSOS: the same loop handles both because a baseline
// scan is simply a progressive scan with the full band and no refinement.
func (d *Decoder) decodeScan(data []byte, comps []scanComponent, zigStart, zigEnd int32, ah, al uint32) error {
	r := bitio.NewMSBReader(data)
	hmax, vmax := d.hmax, d.vmax
	mxx := (d.width + 8*hmax - 1) / (8 * hmax)
	myy := (d.height + 8*vmax - 1) / (8 * vmax)

	for _, sc := range comps {
		ci := sc.compIndex
		if d.coeffs[ci] == nil {
			bw := mxx * d.comps[ci].h
			bh := myy * d.comps[ci].v
			d.coeffs[ci] = make([]block, bw*bh)
		}
	}

	dc := make([]int32, maxComponents)
	eobRun := uint16(0)
	mcu := 0
	expectedRST := byte(rst0Marker)
	blockCount := 0

	for my := 0; my < myy; my++ {
		for mx := 0; mx < mxx; mx++ {
			for _, sc := range comps {
				ci := sc.compIndex
				hi, vi := d.comps[ci].h, d.comps[ci].v
				bw := mxx * hi
				for j := 0; j < hi*vi; j++ {
					var bx, by int
					if len(comps) != 1 {
						bx = hi*mx + j%hi
						by = vi*my + j/hi
					} else {
						bx = blockCount % bw
						by = blockCount / bw
						blockCount++
						if bx*8 >= d.compPixelWidth(ci) || by*8 >= d.compPixelHeight(ci) {
							continue
						}
					}

					b := &d.coeffs[ci][by*bw+bx]
					if ah != 0 {
						if err := d.refineBlock(r, b, ci, sc.acSel, zigStart, zigEnd, 1<<al, &eobRun); err != nil {
							return err
						}
					} else {
						if err := d.firstScanBlock(r, b, ci, sc.dcSel, sc.acSel, zigStart, zigEnd, al, &dc[ci], &eobRun); err != nil {
							return err
						}
					}
				}
			}
			mcu++
			if d.ri > 0 && mcu%d.ri == 0 && mcu < mxx*myy {
				r.Refill()
				marker, has := r.Marker()
				if !has || marker != expectedRST {
					if d.opts.StrictMode {
						return errBadRST
					}
				} else {
					r.ResetAt(r.Pos() + 2)
				}
				expectedRST++
				if expectedRST == rst7Marker+1 {
					expectedRST = rst0Marker
				}
				dc = make([]int32, maxComponents)
				eobRun = 0
			}
		}
	}
	return nil
}

func (d *Decoder) firstScanBlock(r *bitio.MSBReader, b *block, ci, dcSel, acSel int, zigStart, zigEnd int32, al uint32, dcPred *int32, eobRun *uint16) error {
	zig := zigStart
	if zig == 0 {
		zig++
		sym, err := d.huffDC[dcSel].decode(r)
		if err != nil {
			return err
		}
		diff := receiveExtend(r, sym)
		*dcPred += diff
		b[0] = *dcPred << al
	}
	if zig <= zigEnd && *eobRun > 0 {
		*eobRun--
		return nil
	}
	ht := d.huffAC[acSel]
	for ; zig <= zigEnd; zig++ {
		sym, err := ht.decode(r)
		if err != nil {
			return err
		}
		run := int32(sym >> 4)
		size := sym & 0x0f
		if size != 0 {
			zig += run
			if zig > zigEnd {
				break
			}
			ac := receiveExtend(r, size)
			b[unzig[zig]] = ac << al
		} else {
			if run != 0x0f {
				*eobRun = uint16(1) << run
				if run != 0 {
					extra := r.GetBits(int(run))
					*eobRun |= uint16(extra)
				}
				*eobRun--
				break
			}
			zig += 0x0f
		}
	}
	return nil
}

func (d *Decoder) refineBlock(r *bitio.MSBReader, b *block, ci, acSel int, zigStart, zigEnd int32, delta int32, eobRun *uint16) error {
	if zigStart == 0 {
		bit := r.GetBits(1)
		if bit != 0 {
			b[0] |= delta
		}
		return nil
	}
	ht := d.huffAC[acSel]
	zig := zigStart
	if *eobRun == 0 {
		for ; zig <= zigEnd; zig++ {
			sym, err := ht.decode(r)
			if err != nil {
				return err
			}
			run := int32(sym >> 4)
			size := sym & 0x0f
			z := int32(0)
			switch size {
			case 0:
				if run != 0x0f {
					*eobRun = uint16(1) << run
					if run != 0 {
						extra := r.GetBits(int(run))
						*eobRun |= uint16(extra)
					}
					goto refineRest
				}
			case 1:
				z = delta
				if r.GetBits(1) == 0 {
					z = -z
				}
			default:
				return errBadMarker
			}
			zig, err = refineNonZero(r, b, zig, zigEnd, run, delta)
			if err != nil {
				return err
			}
			if zig > zigEnd {
				return errBadMarker
			}
			if z != 0 {
				b[unzig[zig]] = z
			}
		}
	}
refineRest:
	if *eobRun > 0 {
		*eobRun--
		if _, err := refineNonZero(r, b, zig, zigEnd, -1, delta); err != nil {
			return err
		}
	}
	return nil
}

func refineNonZero(r *bitio.MSBReader, b *block, zig, zigEnd, nz, delta int32) (int32, error) {
	for ; zig <= zigEnd; zig++ {
		u := unzig[zig]
		if b[u] == 0 {
			if nz == 0 {
				break
			}
			nz--
			continue
		}
		if r.GetBits(1) != 0 {
			if b[u] >= 0 {
				b[u] += delta
			} else {
				b[u] -= delta
			}
		}
	}
	return zig, nil
}
