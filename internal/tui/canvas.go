package tui

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
)

// upperHalf shows the top pixel as foreground and the bottom as background.
const upperHalf = '▀'

// Canvas draws an image into a screen rectangle, two pixels per cell.
type Canvas struct {
	// Checker are the two colors of the transparency checkerboard.
	Checker [2]colorful.Color
	// Selected pixels are mixed toward SelectionTint by TintAmount.
	SelectionTint colorful.Color
	TintAmount    float64
	Background    tcell.Style
}

// DefaultCanvas returns a light-grey checkerboard with a blue selection tint.
func DefaultCanvas() Canvas {
	return Canvas{
		Checker: [2]colorful.Color{
			{R: 0.8, G: 0.8, B: 0.8},
			{R: 0.6, G: 0.6, B: 0.6},
		},
		SelectionTint: colorful.Color{R: 0.2, G: 0.4, B: 1},
		TintAmount:    0.35,
		Background:    tcell.StyleDefault,
	}
}

// Fit returns the pixel size a w x h image is shown at inside cols x rows
// cells. Small images are enlarged by a whole factor, large ones shrink
// to fit; the aspect ratio is kept.
func Fit(w, h, cols, rows int) (int, int) {
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	pxRows := rows * 2
	if w <= cols && h <= pxRows {
		k := min(cols/w, pxRows/h)
		return w * k, h * k
	}
	f := min(float64(cols)/float64(w), float64(pxRows)/float64(h))
	return max(1, int(float64(w)*f)), max(1, int(float64(h)*f))
}

// Draw renders img centered in area. sel marks selected pixels in image
// coordinates.
func (c Canvas) Draw(screen tcell.Screen, area image.Rectangle, img *surface.Surface, sel region.Region) {
	sw, sh := Fit(img.Width(), img.Height(), area.Dx(), area.Dy())
	if sw == 0 {
		return
	}
	scaled := img
	if sw != img.Width() || sh != img.Height() {
		scaled = img.Resample(sw, sh, surface.ResampleNearest)
	}

	rows := (sh + 1) / 2
	ox := area.Min.X + (area.Dx()-sw)/2
	oy := area.Min.Y + (area.Dy()-rows)/2
	_, bg, _ := c.Background.Decompose()

	for cy := 0; cy < rows; cy++ {
		for x := 0; x < sw; x++ {
			top := c.color(scaled, img, sel, x, 2*cy)
			bottom := bg
			if 2*cy+1 < sh {
				bottom = c.color(scaled, img, sel, x, 2*cy+1)
			}
			screen.SetContent(ox+x, oy+cy, upperHalf, nil, c.Background.Foreground(top).Background(bottom))
		}
	}
}

// color maps pixel (x, y) of scaled back to img to test the selection.
func (c Canvas) color(scaled, img *surface.Surface, sel region.Region, x, y int) tcell.Color {
	selected := false
	if !sel.IsEmpty() {
		selected = sel.Contains(x*img.Width()/scaled.Width(), y*img.Height()/scaled.Height())
	}
	return c.PixelColor(scaled.At(x, y), x, y, selected)
}

// PixelColor composites p over the checkerboard square at (x, y).
func (c Canvas) PixelColor(p surface.BGRA, x, y int, selected bool) tcell.Color {
	col := c.Checker[(x/2+y/2)%2]
	if p.A > 0 {
		px := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
		col = col.BlendRgb(px, float64(p.A)/255)
	}
	if selected {
		col = col.BlendRgb(c.SelectionTint, c.TintAmount)
	}
	r, g, b := col.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
