/*
Package seamcarver is a content aware image resize library, which shrinks the source image
both vertically and horizontally by repeatedly removing the seam of pixels contributing
the least to the image structure.

The energy of a pixel is its dual-gradient: the square root of the summed squared
RGB differences between its left and right, and its upper and lower neighbors,
the neighbors wrapping around the image edges. A vertical seam is the connected
top to bottom path with the minimum total energy; a horizontal seam is its
left to right counterpart.

The Carver type owns the image and exposes the individual steps:

	c, err := seamcarver.NewCarver(img)
	if err != nil {
		return err
	}
	for c.Width() > 100 {
		if err := c.RemoveVerticalSeam(c.FindVerticalSeam()); err != nil {
			return err
		}
	}
	res := c.Picture()

The Processor type wraps the whole resize loop together with decoding and encoding:

	p := &seamcarver.Processor{
		NewWidth:  100,
		NewHeight: 80,
	}

	if err := p.Process(in, out); err != nil {
		fmt.Printf("Error rescaling image: %s", err.Error())
	}

The package also provides a command line interface. To check the supported flags type:

	$ seamcarver --help
*/
package seamcarver
