package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ghost-trail/vmath"
)

// RGB is a 24-bit terminal color
type RGB struct {
	R, G, B uint8
}

// Palette
var (
	RGBBackground = RGB{10, 12, 20}
	RGBDrone      = RGB{255, 210, 60}
	RGBTrail      = RGB{90, 200, 255}
	RGBGhost      = RGB{170, 120, 255}
	RGBStatus     = RGB{140, 140, 150}
)

// clamp converts float to uint8 efficiently
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Blend mixes src over c with linear alpha
// If alpha is 1.0 or 0.0, we return early to save math
func Blend(c, src RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return c
	}

	inv := 1.0 - alpha
	return RGB{
		R: clamp(float64(src.R)*alpha + float64(c.R)*inv + 0.5),
		G: clamp(float64(src.G)*alpha + float64(c.G)*inv + 0.5),
		B: clamp(float64(src.B)*alpha + float64(c.B)*inv + 0.5),
	}
}

// Scale multiplies every channel by f, clamped to [0, 1]
func Scale(c RGB, f float64) RGB {
	f = vmath.Clamp01(f)
	return RGB{
		R: clamp(float64(c.R) * f),
		G: clamp(float64(c.G) * f),
		B: clamp(float64(c.B) * f),
	}
}

// Color converts to a tcell true color
func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
