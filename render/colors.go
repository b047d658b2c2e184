package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// fallbackColor is used when a series carries no parsable color.
var fallbackColor = color.NRGBA{R: 0x4C, G: 0x72, B: 0xB0, A: 0xFF}

// nrgba parses "#RRGGBB" into a color with the given opacity (0..1).
// Alpha 0 is treated as fully opaque.
func nrgba(hex string, alpha float64) color.NRGBA {
	c := fallbackColor
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 6 {
		if v, err := strconv.ParseUint(h, 16, 32); err == nil {
			c = color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
		}
	}
	if alpha > 0 && alpha < 1 {
		c.A = uint8(alpha * 255)
	}
	return c
}

// chartColor converts a hex color for go-chart.
func chartColor(hex string, alpha float64) drawing.Color {
	c := nrgba(hex, alpha)
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
