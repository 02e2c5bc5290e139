// pkg/render/color.go
package render

import "image/color"

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// WithAlpha returns the color with its alpha replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// HealthColor blends from green through yellow to red as the health
// fraction drops.
func HealthColor(fraction float64) color.RGBA {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	// Зелёный -> жёлтый -> красный
	if fraction > 0.5 {
		t := (fraction - 0.5) * 2
		return color.RGBA{R: uint8(255 * (1 - t)), G: 200, B: 40, A: 255}
	}
	t := fraction * 2
	return color.RGBA{R: 255, G: uint8(200 * t), B: 40, A: 255}
}
