package surface

import (
	"fmt"
	"strings"
)

// BlendMode selects how a layer's pixels combine with the ones below it.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendAdditive
	BlendScreen
)

var blendNames = map[BlendMode]string{
	BlendNormal:   "normal",
	BlendMultiply: "multiply",
	BlendAdditive: "additive",
	BlendScreen:   "screen",
}

func (m BlendMode) String() string {
	if name, ok := blendNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// ParseBlendMode looks a mode up by name.
func ParseBlendMode(name string) (BlendMode, error) {
	for mode, n := range blendNames {
		if strings.EqualFold(n, name) {
			return mode, nil
		}
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", name)
}

func (m BlendMode) mix(cb, cs float32) float32 {
	switch m {
	case BlendMultiply:
		return cb * cs
	case BlendAdditive:
		return min(cb+cs, 1)
	case BlendScreen:
		return cb + cs - cb*cs
	}
	return cs
}

// Blend composites src over s with the given mode and opacity. Both
// surfaces must have the same size; only the overlapping area is touched.
func (s *Surface) Blend(src *Surface, mode BlendMode, opacity uint8) {
	if opacity == 0 {
		return
	}
	w, h := min(s.width, src.width), min(s.height, src.height)
	op := float32(opacity) / 255
	for y := 0; y < h; y++ {
		drow := s.PixelSpan(0, y, w)
		srow := src.PixelSpan(0, y, w)
		for i := 0; i < len(drow); i += BytesPerPixel {
			sp, dp := load(srow[i:]), load(drow[i:])
			blendPixel(dp, sp, mode, op).put(drow[i:])
		}
	}
}

func blendPixel(dst, src BGRA, mode BlendMode, opacity float32) BGRA {
	sa := float32(src.A) / 255 * opacity
	if sa == 0 {
		return dst
	}
	da := float32(dst.A) / 255
	oa := sa + da*(1-sa)
	channel := func(cd, cs uint8) uint8 {
		fb, fs := float32(cd)/255, float32(cs)/255
		mixed := (1-da)*fs + da*mode.mix(fb, fs)
		out := (sa*mixed + da*fb*(1-sa)) / oa
		return uint8(out*255 + 0.5)
	}
	return BGRA{
		B: channel(dst.B, src.B),
		G: channel(dst.G, src.G),
		R: channel(dst.R, src.R),
		A: uint8(oa*255 + 0.5),
	}
}
