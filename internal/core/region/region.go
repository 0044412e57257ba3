// Package region models an arbitrary area of a raster surface as a set of
// disjoint scanline rectangles.
//
// A Region is stored as horizontal bands. Each band covers the rows
// [y0, y1) and holds sorted, non-touching spans [x0, x1). Vertically
// adjacent bands with identical spans are always merged, so two equal
// areas have exactly one representation. Regions are immutable values;
// every operation returns a new Region.
package region

import (
	"fmt"
	"image"
	"slices"
	"strings"
)

type span struct {
	x0, x1 int
}

type band struct {
	y0, y1 int
	spans  []span
}

// Region is an immutable set of pixels. The zero value is the empty region.
type Region struct {
	bands  []band
	bounds image.Rectangle
}

// Empty returns the empty region.
func Empty() Region {
	return Region{}
}

// FromRect returns the region covering r. An empty rectangle yields the empty region.
func FromRect(r image.Rectangle) Region {
	r = r.Canon()
	if r.Empty() {
		return Region{}
	}
	return Region{
		bands:  []band{{y0: r.Min.Y, y1: r.Max.Y, spans: []span{{r.Min.X, r.Max.X}}}},
		bounds: r,
	}
}

// FromRects returns the union of rects.
func FromRects(rects ...image.Rectangle) Region {
	var out Region
	for _, r := range rects {
		out = out.Union(FromRect(r))
	}
	return out
}

// IsEmpty reports whether the region covers no pixels.
func (rg Region) IsEmpty() bool {
	return len(rg.bands) == 0
}

// Bounds returns the smallest rectangle containing the region.
func (rg Region) Bounds() image.Rectangle {
	return rg.bounds
}

// Area returns the number of pixels in the region.
func (rg Region) Area() int {
	area := 0
	for _, b := range rg.bands {
		for _, s := range b.spans {
			area += (s.x1 - s.x0) * (b.y1 - b.y0)
		}
	}
	return area
}

// Scans returns the region as disjoint rectangles, ordered top to bottom
// and left to right. Each rectangle is one span of one band.
func (rg Region) Scans() []image.Rectangle {
	var n int
	for _, b := range rg.bands {
		n += len(b.spans)
	}
	out := make([]image.Rectangle, 0, n)
	for _, b := range rg.bands {
		for _, s := range b.spans {
			out = append(out, image.Rect(s.x0, b.y0, s.x1, b.y1))
		}
	}
	return out
}

// Contains reports whether the pixel at (x, y) is in the region.
func (rg Region) Contains(x, y int) bool {
	if !image.Pt(x, y).In(rg.bounds) {
		return false
	}
	for _, b := range rg.bands {
		if y < b.y0 {
			return false
		}
		if y >= b.y1 {
			continue
		}
		for _, s := range b.spans {
			if x < s.x0 {
				return false
			}
			if x < s.x1 {
				return true
			}
		}
		return false
	}
	return false
}

// Equal reports whether both regions cover the same pixels.
func (rg Region) Equal(o Region) bool {
	if len(rg.bands) != len(o.bands) {
		return false
	}
	for i := range rg.bands {
		a, b := rg.bands[i], o.bands[i]
		if a.y0 != b.y0 || a.y1 != b.y1 || !slices.Equal(a.spans, b.spans) {
			return false
		}
	}
	return true
}

// Translate returns the region moved by (dx, dy).
func (rg Region) Translate(dx, dy int) Region {
	if rg.IsEmpty() {
		return rg
	}
	out := Region{bands: make([]band, len(rg.bands)), bounds: rg.bounds.Add(image.Pt(dx, dy))}
	for i, b := range rg.bands {
		spans := make([]span, len(b.spans))
		for j, s := range b.spans {
			spans[j] = span{s.x0 + dx, s.x1 + dx}
		}
		out.bands[i] = band{y0: b.y0 + dy, y1: b.y1 + dy, spans: spans}
	}
	return out
}

// Union returns the pixels in either region.
func (rg Region) Union(o Region) Region {
	if rg.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return rg
	}
	return combine(rg, o, func(a, b bool) bool { return a || b })
}

// Intersect returns the pixels in both regions.
func (rg Region) Intersect(o Region) Region {
	if rg.IsEmpty() || o.IsEmpty() || !rg.bounds.Overlaps(o.bounds) {
		return Region{}
	}
	return combine(rg, o, func(a, b bool) bool { return a && b })
}

// IntersectRect clips the region to r.
func (rg Region) IntersectRect(r image.Rectangle) Region {
	r = r.Canon()
	if rg.bounds.In(r) {
		return rg
	}
	return rg.Intersect(FromRect(r))
}

// Subtract returns the pixels in rg that are not in o.
func (rg Region) Subtract(o Region) Region {
	if rg.IsEmpty() || o.IsEmpty() || !rg.bounds.Overlaps(o.bounds) {
		return rg
	}
	return combine(rg, o, func(a, b bool) bool { return a && !b })
}

// Xor returns the pixels in exactly one of the regions.
func (rg Region) Xor(o Region) Region {
	if rg.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return rg
	}
	return combine(rg, o, func(a, b bool) bool { return a != b })
}

// Complement returns the pixels of within that are not in the region.
func (rg Region) Complement(within image.Rectangle) Region {
	return FromRect(within).Subtract(rg)
}

// String renders the scans, mainly for test failures.
func (rg Region) String() string {
	if rg.IsEmpty() {
		return "region{}"
	}
	var sb strings.Builder
	sb.WriteString("region{")
	for i, r := range rg.Scans() {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%v", r)
	}
	sb.WriteString("}")
	return sb.String()
}
