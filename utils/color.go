package utils

import (
	"fmt"
	"image/color"
	"strings"
)

// HexToRGBA converts a color expressed in hexadecimal format (#rgb or #rrggbb) to color.RGBA.
func HexToRGBA(hex string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	s := strings.TrimPrefix(hex, "#")

	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		// Double the digits: #f80 is #ff8800.
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return c, fmt.Errorf("invalid hex color: %q", hex)
	}
	if err != nil {
		return c, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c, nil
}
