package seamcarver

import (
	"image"
	"image/color"
	"math"
)

// EnergyMap renders the energy of every pixel as a grayscale image.
// The values are normalized so that the highest energy maps to white.
func (c *Carver) EnergyMap() *image.Gray {
	energies := computeEnergy(c.img)
	dx, dy := energies.width, energies.height
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	var max float64
	for _, e := range energies.table {
		max = math.Max(max, e)
	}
	// A uniform image has no gradient at all.
	if max == 0 {
		return dst
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			lum := energies.get(x, y) / max * 255
			dst.SetGray(x, y, color.Gray{Y: uint8(math.Round(lum))})
		}
	}
	return dst
}
