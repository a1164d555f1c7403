package seamcarver

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"log"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/seamcarver/utils"
)

// DefaultSeamColor is the color used to mark the removed seams in debug mode.
const DefaultSeamColor = "#ff0000"

// SeamCarver is the interface implemented by the types able to resize an image.
type SeamCarver interface {
	Resize(*image.NRGBA) (image.Image, error)
}

var _ SeamCarver = (*Processor)(nil)

// Processor options
type Processor struct {
	// NewWidth and NewHeight are the target dimensions in pixels, or in percent
	// of the source dimensions when Percentage is set. Zero keeps the axis unchanged.
	NewWidth   int
	NewHeight  int
	Percentage bool
	// Square reduces the image to a square having the smaller of the two targets as side.
	Square bool
	// Scale shrinks the image proportionally before carving when both axes are reduced,
	// so that only the remaining pixels are carved out.
	Scale bool
	// Debug outputs the source image with the removed seams painted in SeamColor.
	Debug     bool
	SeamColor string
	// EnergyMap outputs the energy map of the source image instead of resizing it.
	EnergyMap bool

	// Logger receives a line for every removed seam when Debug is enabled.
	Logger *log.Logger
	// OnSeam is called after every removed seam with the new image dimensions.
	OnSeam func(width, height int)
}

// Resize implements the SeamCarver interface.
func Resize(s SeamCarver, img *image.NRGBA) (image.Image, error) {
	return s.Resize(img)
}

// Resize carves the image down to the configured dimensions.
func (p *Processor) Resize(img *image.NRGBA) (image.Image, error) {
	res, err := p.Carve(context.Background(), img)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Carve is the main entry point for the image resize operation.
// The seams are removed one by one, alternating between vertical and horizontal
// seams when both dimensions are reduced. The context is checked between seams.
func (p *Processor) Carve(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	c, err := NewCarver(img)
	if err != nil {
		return nil, err
	}

	if p.EnergyMap {
		em := c.EnergyMap()
		dst := image.NewNRGBA(em.Bounds())
		draw.Draw(dst, dst.Bounds(), em, image.Point{}, draw.Src)
		return dst, nil
	}

	newWidth, newHeight, err := p.targetSize(c.Width(), c.Height())
	if err != nil {
		return nil, err
	}

	if p.Scale && newWidth < c.Width() && newHeight < c.Height() {
		scaled := p.calculateFitness(c.img, newWidth, newHeight)
		if c, err = NewCarver(scaled); err != nil {
			return nil, err
		}
	}

	var mask *Carver
	src := c.Picture()
	if p.Debug {
		if c.Width() > maxMaskSize || c.Height() > maxMaskSize {
			return nil, fmt.Errorf("debug mode supports images up to %dx%d pixels", maxMaskSize, maxMaskSize)
		}
		if mask, err = NewCarver(newCoordMask(c.Width(), c.Height())); err != nil {
			return nil, err
		}
	}

	for c.Width() > newWidth || c.Height() > newHeight {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Remove the seam along the axis with the most work left, this way
		// the vertical and horizontal seams are merged together when both
		// dimensions are reduced.
		vertical := c.Width()-newWidth >= c.Height()-newHeight
		if err := p.removeSeam(c, mask, vertical); err != nil {
			return nil, err
		}
	}

	if p.Debug {
		seamColor := p.SeamColor
		if seamColor == "" {
			seamColor = DefaultSeamColor
		}
		col, err := utils.HexToRGBA(seamColor)
		if err != nil {
			return nil, err
		}
		return drawRemovedSeams(src, mask.img, col), nil
	}
	return c.Picture(), nil
}

// removeSeam finds and removes a single seam, removing the same seam from the mask, if any.
func (p *Processor) removeSeam(c, mask *Carver, vertical bool) error {
	var (
		seam   Seam
		remove func(Seam) error
		unmask func(Seam) error
	)
	if vertical {
		seam = c.FindVerticalSeam()
		remove = c.RemoveVerticalSeam
		if mask != nil {
			unmask = mask.RemoveVerticalSeam
		}
	} else {
		seam = c.FindHorizontalSeam()
		remove = c.RemoveHorizontalSeam
		if mask != nil {
			unmask = mask.RemoveHorizontalSeam
		}
	}

	if p.Debug && p.Logger != nil {
		total, err := c.SeamEnergy(seam, vertical)
		if err != nil {
			return err
		}
		p.Logger.Printf("removing %s seam from %dx%d image, energy: %.2f",
			axisName(vertical), c.Width(), c.Height(), total)
	}

	if err := remove(seam); err != nil {
		return err
	}
	if unmask != nil {
		if err := unmask(seam); err != nil {
			return err
		}
	}
	if p.OnSeam != nil {
		p.OnSeam(c.Width(), c.Height())
	}
	return nil
}

func axisName(vertical bool) string {
	if vertical {
		return "vertical"
	}
	return "horizontal"
}

// targetSize resolves the requested dimensions against the source dimensions.
func (p *Processor) targetSize(width, height int) (int, int, error) {
	if p.NewWidth < 0 || p.NewHeight < 0 {
		return 0, 0, errors.New("the new image dimensions cannot be negative")
	}

	newWidth, newHeight := width, height
	if p.Percentage {
		if p.NewWidth > 100 || p.NewHeight > 100 {
			return 0, 0, errors.New("cannot use the percentage flag for image enlargement")
		}
		if p.NewWidth != 0 {
			newWidth = int(math.Round(float64(width) * float64(p.NewWidth) / 100))
		}
		if p.NewHeight != 0 {
			newHeight = int(math.Round(float64(height) * float64(p.NewHeight) / 100))
		}
	} else {
		if p.NewWidth != 0 {
			newWidth = p.NewWidth
		}
		if p.NewHeight != 0 {
			newHeight = p.NewHeight
		}
	}

	// When the square option is used the image is reduced to a square based on the shortest edge.
	if p.Square {
		if p.NewWidth == 0 || p.NewHeight == 0 {
			return 0, 0, errors.New("please provide a new width and height when using the square option")
		}
		newWidth = utils.Min(newWidth, newHeight)
		newHeight = newWidth
	}

	if newWidth > width || newHeight > height {
		return 0, 0, fmt.Errorf("cannot enlarge the image from %dx%d to %dx%d: seam insertion is not supported",
			width, height, newWidth, newHeight)
	}
	if newWidth < 1 || newHeight < 1 {
		return 0, 0, fmt.Errorf("the resized image should be at least 1x1 pixel, got %dx%d", newWidth, newHeight)
	}
	return newWidth, newHeight, nil
}

// calculateFitness scales the image down by preserving its aspect ratio,
// so that the scaled image still covers the requested dimensions.
// Example: source: 5000x2500, target: 1920x1080, scaled: 2160x1080.
func (p *Processor) calculateFitness(img *image.NRGBA, newWidth, newHeight int) *image.NRGBA {
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	ratio := math.Max(float64(newWidth)/w, float64(newHeight)/h)

	sw := utils.Clamp(int(math.Ceil(w*ratio)), newWidth, int(w))
	sh := utils.Clamp(int(math.Ceil(h*ratio)), newHeight, int(h))

	return imaging.Resize(img, sw, sh, imaging.Lanczos)
}

// Process decodes the source image, carves it and encodes the result into w.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	return p.ProcessContext(context.Background(), r, w)
}

// ProcessContext is like Process but stops between two seams once ctx is done.
func (p *Processor) ProcessContext(ctx context.Context, r io.Reader, w io.Writer) error {
	src, err := decodeImg(r)
	if err != nil {
		return err
	}

	img, err := p.Carve(ctx, src)
	if err != nil {
		return err
	}
	return encodeImg(w, img)
}
