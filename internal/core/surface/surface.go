// Package surface implements the BGRA raster buffers that layers paint into.
package surface

import (
	"bytes"
	"image"

	"github.com/bethropolis/easel/internal/core/region"
)

// Surface is a width x height grid of BGRA pixels. Rows are stored top to
// bottom with no padding, so the stride is always width*BytesPerPixel.
type Surface struct {
	width  int
	height int
	stride int
	pix    []byte
}

// New allocates a transparent surface. Negative sizes are treated as zero.
func New(width, height int) *Surface {
	width, height = max(width, 0), max(height, 0)
	return &Surface{
		width:  width,
		height: height,
		stride: width * BytesPerPixel,
		pix:    make([]byte, width*height*BytesPerPixel),
	}
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }
func (s *Surface) Stride() int { return s.stride }

// Size returns the surface dimensions as a point.
func (s *Surface) Size() image.Point { return image.Pt(s.width, s.height) }

// Bounds returns the rectangle (0, 0, width, height).
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Pix exposes the backing memory.
func (s *Surface) Pix() []byte { return s.pix }

// Offset returns the byte offset of pixel (x, y).
func (s *Surface) Offset(x, y int) int {
	return y*s.stride + x*BytesPerPixel
}

// PixelSpan returns the n pixels starting at (x, y) as a slice aliasing the
// backing memory. The span must lie within one row unless the rows it
// crosses are full-width.
func (s *Surface) PixelSpan(x, y, n int) []byte {
	off := s.Offset(x, y)
	return s.pix[off : off+n*BytesPerPixel : off+n*BytesPerPixel]
}

// IsContiguous reports whether the pixels of r occupy one unbroken range of
// the backing memory: a single row, or rows spanning the full width.
func (s *Surface) IsContiguous(r image.Rectangle) bool {
	if r.Empty() || !r.In(s.Bounds()) {
		return false
	}
	return r.Dy() == 1 || (r.Min.X == 0 && r.Max.X == s.width)
}

// At returns the pixel at (x, y), or the zero pixel outside the bounds.
func (s *Surface) At(x, y int) BGRA {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return BGRA{}
	}
	return load(s.pix[s.Offset(x, y):])
}

// Set writes the pixel at (x, y). Writes outside the bounds are ignored.
func (s *Surface) Set(x, y int, c BGRA) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	c.put(s.pix[s.Offset(x, y):])
}

// Clear fills the whole surface with c.
func (s *Surface) Clear(c BGRA) {
	s.ClearRect(s.Bounds(), c)
}

// ClearRect fills r, clipped to the bounds, with c.
func (s *Surface) ClearRect(r image.Rectangle, c BGRA) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	row := s.PixelSpan(r.Min.X, r.Min.Y, r.Dx())
	for i := 0; i < len(row); i += BytesPerPixel {
		c.put(row[i:])
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		copy(s.PixelSpan(r.Min.X, y, r.Dx()), row)
	}
}

// ClearRegion fills every pixel of rg inside the bounds with c.
func (s *Surface) ClearRegion(rg region.Region, c BGRA) {
	for _, r := range rg.IntersectRect(s.Bounds()).Scans() {
		s.ClearRect(r, c)
	}
}

// Clone returns a deep copy.
func (s *Surface) Clone() *Surface {
	out := &Surface{width: s.width, height: s.height, stride: s.stride, pix: make([]byte, len(s.pix))}
	copy(out.pix, s.pix)
	return out
}

// CopyFrom copies src into s. Both surfaces must have the same size.
func (s *Surface) CopyFrom(src *Surface) bool {
	if src.width != s.width || src.height != s.height {
		return false
	}
	copy(s.pix, src.pix)
	return true
}

// CopyRect copies the srcRect area of src so that its top-left lands at dst.
// The copy is clipped to both surfaces.
func (s *Surface) CopyRect(src *Surface, srcRect image.Rectangle, dst image.Point) {
	srcRect = srcRect.Intersect(src.Bounds())
	target := srcRect.Sub(srcRect.Min).Add(dst).Intersect(s.Bounds())
	if target.Empty() {
		return
	}
	srcMin := target.Min.Sub(dst).Add(srcRect.Min)
	for y := 0; y < target.Dy(); y++ {
		copy(s.PixelSpan(target.Min.X, target.Min.Y+y, target.Dx()),
			src.PixelSpan(srcMin.X, srcMin.Y+y, target.Dx()))
	}
}

// Window returns a copy of the r area as a new surface.
func (s *Surface) Window(r image.Rectangle) *Surface {
	r = r.Intersect(s.Bounds())
	out := New(r.Dx(), r.Dy())
	out.CopyRect(s, r, image.Point{})
	return out
}

// Equal reports whether both surfaces have the same size and pixels.
func (s *Surface) Equal(o *Surface) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.width == o.width && s.height == o.height && bytes.Equal(s.pix, o.pix)
}

// EqualIn reports whether both surfaces hold identical pixels in r.
func (s *Surface) EqualIn(o *Surface, r image.Rectangle) bool {
	r = r.Intersect(s.Bounds()).Intersect(o.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if !bytes.Equal(s.PixelSpan(r.Min.X, y, r.Dx()), o.PixelSpan(r.Min.X, y, r.Dx())) {
			return false
		}
	}
	return true
}
