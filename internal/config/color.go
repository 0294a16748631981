package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor accepts "#rrggbb", "#rgb" and "rgb(r,g,b)" forms.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		s = strings.ReplaceAll(s, " ", "")
		var r, g, b int
		if _, err := fmt.Sscanf(s, "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return colorful.Color{}, fmt.Errorf("invalid rgb() color %q: %w", s, err)
		}
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return colorful.Color{}, fmt.Errorf("rgb() channel out of range in %q", s)
		}
		return RGB255(uint8(r), uint8(g), uint8(b)), nil
	}

	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			// Expand shorthand #abc to #aabbcc.
			s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
		}
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return c, nil
	}

	return colorful.Color{}, fmt.Errorf("unrecognized color format %q", s)
}

// RGB255 builds a color from 8-bit channels without rounding drift.
func RGB255(r, g, b uint8) colorful.Color {
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}
