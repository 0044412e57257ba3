package surface

import (
	"fmt"
	"image/color"
)

// BytesPerPixel is the size of one BGRA pixel in memory.
const BytesPerPixel = 4

// BGRA is a non-premultiplied 32-bit pixel, stored in memory as B, G, R, A.
type BGRA struct {
	B, G, R, A uint8
}

var (
	Transparent      = BGRA{}
	TransparentWhite = BGRA{B: 255, G: 255, R: 255, A: 0}
	White            = BGRA{B: 255, G: 255, R: 255, A: 255}
	Black            = BGRA{A: 255}
)

// FromRGBA builds a pixel from red, green, blue and alpha components.
func FromRGBA(r, g, b, a uint8) BGRA {
	return BGRA{B: b, G: g, R: r, A: a}
}

// FromColor converts any color.Color into a non-premultiplied pixel.
func FromColor(c color.Color) BGRA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return BGRA{B: n.B, G: n.G, R: n.R, A: n.A}
}

// RGBA implements color.Color.
func (c BGRA) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// NRGBA returns the pixel as a standard library color.
func (c BGRA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c BGRA) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c BGRA) put(dst []byte) {
	dst[0], dst[1], dst[2], dst[3] = c.B, c.G, c.R, c.A
}

func load(src []byte) BGRA {
	return BGRA{B: src[0], G: src[1], R: src[2], A: src[3]}
}
