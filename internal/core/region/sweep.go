package region

import (
	"image"
	"slices"
)

// combine sweeps both regions band by band and keeps each elementary cell
// for which op(inA, inB) holds. Elementary intervals never straddle an
// input edge, so membership is constant across each of them.
func combine(a, b Region, op func(inA, inB bool) bool) Region {
	ys := make([]int, 0, 2*(len(a.bands)+len(b.bands)))
	for _, bd := range a.bands {
		ys = append(ys, bd.y0, bd.y1)
	}
	for _, bd := range b.bands {
		ys = append(ys, bd.y0, bd.y1)
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	var out []band
	ia, ib := 0, 0
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		for ia < len(a.bands) && a.bands[ia].y1 <= y0 {
			ia++
		}
		for ib < len(b.bands) && b.bands[ib].y1 <= y0 {
			ib++
		}
		var sa, sb []span
		if ia < len(a.bands) && a.bands[ia].y0 <= y0 {
			sa = a.bands[ia].spans
		}
		if ib < len(b.bands) && b.bands[ib].y0 <= y0 {
			sb = b.bands[ib].spans
		}

		spans := combineSpans(sa, sb, op)
		if len(spans) == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].y1 == y0 && slices.Equal(out[n-1].spans, spans) {
			out[n-1].y1 = y1
			continue
		}
		out = append(out, band{y0: y0, y1: y1, spans: spans})
	}
	return fromBands(out)
}

func combineSpans(a, b []span, op func(inA, inB bool) bool) []span {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	xs := make([]int, 0, 2*(len(a)+len(b)))
	for _, s := range a {
		xs = append(xs, s.x0, s.x1)
	}
	for _, s := range b {
		xs = append(xs, s.x0, s.x1)
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)

	var out []span
	ia, ib := 0, 0
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		for ia < len(a) && a[ia].x1 <= x0 {
			ia++
		}
		for ib < len(b) && b[ib].x1 <= x0 {
			ib++
		}
		inA := ia < len(a) && a[ia].x0 <= x0
		inB := ib < len(b) && b[ib].x0 <= x0
		if !op(inA, inB) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].x1 == x0 {
			out[n-1].x1 = x1
			continue
		}
		out = append(out, span{x0, x1})
	}
	return out
}

func fromBands(bands []band) Region {
	if len(bands) == 0 {
		return Region{}
	}
	minX, maxX := bands[0].spans[0].x0, bands[0].spans[len(bands[0].spans)-1].x1
	for _, b := range bands[1:] {
		minX = min(minX, b.spans[0].x0)
		maxX = max(maxX, b.spans[len(b.spans)-1].x1)
	}
	return Region{
		bands:  bands,
		bounds: image.Rect(minX, bands[0].y0, maxX, bands[len(bands)-1].y1),
	}
}
