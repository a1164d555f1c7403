package seamcarver

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnergyMap_UniformImage(t *testing.T) {
	c := newCarver(t, newUniformImage(4, 3, color.White))
	em := c.EnergyMap()

	assert.Equal(t, 4, em.Bounds().Dx())
	assert.Equal(t, 3, em.Bounds().Dy())
	for _, v := range em.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestEnergyMap_ShouldNormalize(t *testing.T) {
	img := newTestImage(imgWidth, imgHeight, func(x, y int) color.NRGBA {
		return color.NRGBA{R: ramp[x], G: ramp[x], B: ramp[x], A: 0xff}
	})
	c := newCarver(t, img)
	em := c.EnergyMap()

	var max uint8
	for _, v := range em.Pix {
		if v > max {
			max = v
		}
	}
	assert.Equal(t, uint8(255), max)
	// The flat column has no energy at all.
	for y := 0; y < imgHeight; y++ {
		assert.Equal(t, uint8(0), em.GrayAt(4, y).Y)
	}
}
