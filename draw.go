package seamcarver

import (
	"image"
	"image/color"
	"image/draw"
)

// maxMaskSize is the largest dimension which can be encoded into a coordinate mask.
const maxMaskSize = 1 << 16

// newCoordMask returns an image of the same size as the source where every pixel
// encodes its own coordinate: x in the R and G channels, y in the B and A channels.
// Carving the mask with the same seams as the source image keeps track of the
// original position of every pixel which survived the resize.
func newCoordMask(width, height int) *image.NRGBA {
	mask := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := mask.PixOffset(x, y)
			mask.Pix[i+0] = uint8(x >> 8)
			mask.Pix[i+1] = uint8(x)
			mask.Pix[i+2] = uint8(y >> 8)
			mask.Pix[i+3] = uint8(y)
		}
	}
	return mask
}

// maskCoord decodes the original coordinate stored at (x, y).
func maskCoord(mask *image.NRGBA, x, y int) image.Point {
	i := mask.PixOffset(x, y)
	return image.Point{
		X: int(mask.Pix[i+0])<<8 | int(mask.Pix[i+1]),
		Y: int(mask.Pix[i+2])<<8 | int(mask.Pix[i+3]),
	}
}

// drawRemovedSeams paints every pixel of src which is no longer referenced
// by the carved coordinate mask with the seam color.
func drawRemovedSeams(src image.Image, mask *image.NRGBA, col color.Color) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	kept := make([]bool, b.Dx()*b.Dy())
	mb := mask.Bounds()
	for y := 0; y < mb.Dy(); y++ {
		for x := 0; x < mb.Dx(); x++ {
			pt := maskCoord(mask, x, y)
			kept[pt.X+pt.Y*b.Dx()] = true
		}
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if !kept[x+y*b.Dx()] {
				dst.Set(x, y, col)
			}
		}
	}
	return dst
}
