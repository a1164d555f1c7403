package seamcarver

import (
	"image"
	"math"

	"github.com/esimov/seamcarver/utils"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned for a missing image, a malformed seam
	// or a removal which would shrink the image below one pixel.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange is returned when the energy is queried outside of the image.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Seam holds one offset per row (vertical seam) or per column (horizontal seam).
type Seam []int

// Carver owns the pixel grid being resized. It is not safe for concurrent use.
type Carver struct {
	img *image.NRGBA
}

// dpTable is a flat, row-major table used by the seam search.
type dpTable struct {
	width  int
	height int
	table  []float64
}

func newDPTable(width, height int, fill float64) *dpTable {
	dpt := &dpTable{
		width:  width,
		height: height,
		table:  make([]float64, width*height),
	}
	if fill != 0 {
		for i := range dpt.table {
			dpt.table[i] = fill
		}
	}
	return dpt
}

// get returns the value stored at (x, y).
func (dpt *dpTable) get(x, y int) float64 {
	return dpt.table[x+y*dpt.width]
}

// set stores px at (x, y).
func (dpt *dpTable) set(x, y int, px float64) {
	dpt.table[x+y*dpt.width] = px
}

// NewCarver creates a carver over an independent copy of img.
func NewCarver(img image.Image) (*Carver, error) {
	if isNilImage(img) {
		return nil, errors.Wrap(ErrInvalidArgument, "image is nil")
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "image is empty: %dx%d", b.Dx(), b.Dy())
	}
	return &Carver{img: cloneNRGBA(img)}, nil
}

// Picture returns a copy of the current image.
func (c *Carver) Picture() *image.NRGBA {
	return cloneNRGBA(c.img)
}

// Width returns the current image width.
func (c *Carver) Width() int {
	return c.img.Rect.Dx()
}

// Height returns the current image height.
func (c *Carver) Height() int {
	return c.img.Rect.Dy()
}

// Energy returns the dual-gradient energy of the pixel at column x and row y.
// Neighbors wrap around the image edges, so border pixels have no special case.
func (c *Carver) Energy(x, y int) (float64, error) {
	w, h := c.Width(), c.Height()
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "(%d, %d) outside of %dx%d", x, y, w, h)
	}
	return energy(c.img, x, y), nil
}

// energy expects (x, y) to be within the image bounds.
func energy(img *image.NRGBA, x, y int) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	left, right := (x-1+w)%w, (x+1)%w
	up, down := (y-1+h)%h, (y+1)%h

	dx := gradientSq(img, left, y, right, y)
	dy := gradientSq(img, x, up, x, down)

	return math.Sqrt(float64(dx + dy))
}

// gradientSq sums the squared RGB differences of two pixels.
func gradientSq(img *image.NRGBA, x0, y0, x1, y1 int) int {
	i := img.PixOffset(x0, y0)
	j := img.PixOffset(x1, y1)

	var sum int
	for ch := 0; ch < 3; ch++ {
		d := int(img.Pix[i+ch]) - int(img.Pix[j+ch])
		sum += d * d
	}
	return sum
}

// computeEnergy fills a table with the energy of every pixel.
func computeEnergy(img *image.NRGBA) *dpTable {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dpt := newDPTable(w, h, 0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dpt.set(x, y, energy(img, x, y))
		}
	}
	return dpt
}

// FindVerticalSeam returns, for each row, the column of the minimum energy
// path running from the top row to the bottom row.
func (c *Carver) FindVerticalSeam() Seam {
	return findVerticalSeam(c.img)
}

// FindHorizontalSeam returns, for each column, the row of the minimum energy
// path running from the left edge to the right edge.
// The search runs over a transposed copy, the carver's image is left untouched.
func (c *Carver) FindHorizontalSeam() Seam {
	return findVerticalSeam(transpose(c.img))
}

// findVerticalSeam computes the shortest path over the pixel grid seen as a
// DAG layered by rows: each pixel links to the three pixels below it, so a
// single top to bottom sweep relaxes every edge in topological order.
func findVerticalSeam(img *image.NRGBA) Seam {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	energies := computeEnergy(img)
	distTo := newDPTable(w, h, math.Inf(1))
	edgeTo := make([]int, w*h)

	for x := 0; x < w; x++ {
		distTo.set(x, 0, energies.get(x, 0))
		edgeTo[x] = x
	}

	relax := func(x, y, nx int) {
		dist := distTo.get(x, y) + energies.get(nx, y+1)
		if dist < distTo.get(nx, y+1) {
			distTo.set(nx, y+1, dist)
			edgeTo[nx+(y+1)*w] = x
		}
	}

	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			if x > 0 {
				relax(x, y, x-1)
			}
			relax(x, y, x)
			if x < w-1 {
				relax(x, y, x+1)
			}
		}
	}

	// The lowest column wins when several paths share the minimum.
	px := 0
	min := math.Inf(1)
	for x := 0; x < w; x++ {
		if d := distTo.get(x, h-1); d < min {
			min = d
			px = x
		}
	}

	seam := make(Seam, h)
	for y := h - 1; y >= 0; y-- {
		seam[y] = px
		px = edgeTo[px+y*w]
	}
	return seam
}

// RemoveVerticalSeam removes one pixel per row, shrinking the width by one.
func (c *Carver) RemoveVerticalSeam(seam Seam) error {
	if c.Width() == 1 {
		return errors.Wrap(ErrInvalidArgument, "cannot remove a vertical seam from an image one pixel wide")
	}
	if err := ValidateSeam(seam, c.Height(), c.Width()); err != nil {
		return err
	}
	c.img = removeVerticalSeam(c.img, seam)
	return nil
}

// RemoveHorizontalSeam removes one pixel per column, shrinking the height by one.
func (c *Carver) RemoveHorizontalSeam(seam Seam) error {
	if c.Height() == 1 {
		return errors.Wrap(ErrInvalidArgument, "cannot remove a horizontal seam from an image one pixel high")
	}
	if err := ValidateSeam(seam, c.Width(), c.Height()); err != nil {
		return err
	}
	c.img = transpose(removeVerticalSeam(transpose(c.img), seam))
	return nil
}

// ValidateSeam checks that seam has exactly length elements, each one in
// [0, limit-1], and that adjacent elements differ by at most one.
func ValidateSeam(seam Seam, length, limit int) error {
	if seam == nil {
		return errors.Wrap(ErrInvalidArgument, "seam is nil")
	}
	if len(seam) != length {
		return errors.Wrapf(ErrInvalidArgument, "seam length %d, expected %d", len(seam), length)
	}
	for i, v := range seam {
		if v < 0 || v >= limit {
			return errors.Wrapf(ErrInvalidArgument, "seam[%d] = %d outside of [0, %d]", i, v, limit-1)
		}
		if i > 0 {
			if utils.Abs(v-seam[i-1]) > 1 {
				return errors.Wrapf(ErrInvalidArgument, "seam[%d] = %d is not connected to seam[%d] = %d", i, v, i-1, seam[i-1])
			}
		}
	}
	return nil
}

// removeVerticalSeam returns a new image one column narrower than img.
// The seam must have been validated against img.
func removeVerticalSeam(img *image.NRGBA, seam Seam) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w-1, h))

	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+(w-1)*4]
		cut := seam[y] * 4

		copy(row[:cut], src[:cut])
		copy(row[cut:], src[cut+4:])
	}
	return dst
}

// SeamEnergy returns the sum of the pixel energies along the seam.
func (c *Carver) SeamEnergy(seam Seam, vertical bool) (float64, error) {
	length, limit := c.Height(), c.Width()
	if !vertical {
		length, limit = limit, length
	}
	if err := ValidateSeam(seam, length, limit); err != nil {
		return 0, err
	}

	var sum float64
	for i, v := range seam {
		if vertical {
			sum += energy(c.img, v, i)
		} else {
			sum += energy(c.img, i, v)
		}
	}
	return sum, nil
}
