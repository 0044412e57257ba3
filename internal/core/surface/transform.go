package surface

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// FlipAxis selects the mirror direction of a flip.
type FlipAxis int

const (
	FlipHorizontal FlipAxis = iota
	FlipVertical
)

func (a FlipAxis) String() string {
	switch a {
	case FlipHorizontal:
		return "horizontal"
	case FlipVertical:
		return "vertical"
	}
	return fmt.Sprintf("FlipAxis(%d)", int(a))
}

// Flip mirrors the surface in place.
func (s *Surface) Flip(axis FlipAxis) {
	switch axis {
	case FlipHorizontal:
		s.flipHorizontal()
	case FlipVertical:
		s.flipVertical()
	}
}

func (s *Surface) flipHorizontal() {
	for y := 0; y < s.height; y++ {
		row := s.PixelSpan(0, y, s.width)
		for l, r := 0, (s.width-1)*BytesPerPixel; l < r; l, r = l+BytesPerPixel, r-BytesPerPixel {
			for i := 0; i < BytesPerPixel; i++ {
				row[l+i], row[r+i] = row[r+i], row[l+i]
			}
		}
	}
}

func (s *Surface) flipVertical() {
	tmp := make([]byte, s.stride)
	for top, bottom := 0, s.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := s.PixelSpan(0, top, s.width)
		b := s.PixelSpan(0, bottom, s.width)
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Rotation is a quarter-turn multiple.
type Rotation int

const (
	Rotate90CW Rotation = iota
	Rotate90CCW
	Rotate180
)

func (r Rotation) String() string {
	switch r {
	case Rotate90CW:
		return "90° clockwise"
	case Rotate90CCW:
		return "90° counter-clockwise"
	case Rotate180:
		return "180°"
	}
	return fmt.Sprintf("Rotation(%d)", int(r))
}

// RotatedSize returns the size of a w x h surface after r.
func (r Rotation) RotatedSize(w, h int) (int, int) {
	if r == Rotate180 {
		return w, h
	}
	return h, w
}

// RotateRows writes rows [y0, y1) of s, rotated by r, into dst. dst must
// have the rotated size. Working in row batches lets callers report
// progress and poll for cancellation between batches.
func (s *Surface) RotateRows(dst *Surface, r Rotation, y0, y1 int) {
	for y := max(y0, 0); y < min(y1, s.height); y++ {
		for x := 0; x < s.width; x++ {
			px := load(s.pix[s.Offset(x, y):])
			var dx, dy int
			switch r {
			case Rotate90CW:
				dx, dy = s.height-1-y, x
			case Rotate90CCW:
				dx, dy = y, s.width-1-x
			default:
				dx, dy = s.width-1-x, s.height-1-y
			}
			px.put(dst.pix[dst.Offset(dx, dy):])
		}
	}
}

// Rotate returns a rotated copy.
func (s *Surface) Rotate(r Rotation) *Surface {
	w, h := r.RotatedSize(s.width, s.height)
	dst := New(w, h)
	s.RotateRows(dst, r, 0, s.height)
	return dst
}

// ToImage copies the surface into a standard library image.
func (s *Surface) ToImage() *image.NRGBA {
	img := image.NewNRGBA(s.Bounds())
	for y := 0; y < s.height; y++ {
		src := s.PixelSpan(0, y, s.width)
		dst := img.Pix[y*img.Stride : y*img.Stride+s.width*4]
		for i := 0; i < len(src); i += BytesPerPixel {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
	}
	return img
}

// FromImage converts any image into a new surface anchored at the origin.
func FromImage(img image.Image) *Surface {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	s := New(b.Dx(), b.Dy())
	for y := 0; y < s.height; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+s.width*4]
		dst := s.PixelSpan(0, y, s.width)
		for i := 0; i < len(src); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
	}
	return s
}

// ResampleMode selects the interpolation used by Resample.
type ResampleMode int

const (
	ResampleBilinear ResampleMode = iota
	ResampleNearest
	ResampleBicubic
)

var resampleNames = map[ResampleMode]string{
	ResampleBilinear: "bilinear",
	ResampleNearest:  "nearest",
	ResampleBicubic:  "bicubic",
}

func (m ResampleMode) String() string {
	if name, ok := resampleNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ResampleMode(%d)", int(m))
}

// ParseResampleMode looks a mode up by name.
func ParseResampleMode(name string) (ResampleMode, error) {
	for mode, n := range resampleNames {
		if strings.EqualFold(n, name) {
			return mode, nil
		}
	}
	return ResampleBilinear, fmt.Errorf("unknown resample mode %q", name)
}

func (m ResampleMode) interpolator() xdraw.Interpolator {
	switch m {
	case ResampleNearest:
		return xdraw.NearestNeighbor
	case ResampleBicubic:
		return xdraw.CatmullRom
	}
	return xdraw.BiLinear
}

// Resample returns a copy scaled to width x height.
func (s *Surface) Resample(width, height int, mode ResampleMode) *Surface {
	if width == s.width && height == s.height {
		return s.Clone()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	mode.interpolator().Scale(dst, dst.Bounds(), s.ToImage(), s.Bounds(), xdraw.Src, nil)
	return FromImage(dst)
}
