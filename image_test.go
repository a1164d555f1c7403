package seamcarver

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/seamcarver/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestImage_CloneNRGBA(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)
	colors := palette.Plan9
	testCases := []struct {
		name string
		img  image.Image
	}{
		{"NRGBA", makeNRGBAImage(rect, colors)},
		{"Gray", makeGrayImage(rect)},
		{"YCbCr-444", makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio444)},
		{"YCbCr-422", makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio422)},
		{"YCbCr-420", makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio420)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := cloneNRGBA(tc.img)
			r := tc.img.Bounds()
			require.Equal(t, image.Rect(0, 0, r.Dx(), r.Dy()), dst.Bounds())

			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					want := color.NRGBAModel.Convert(tc.img.At(x, y)).(color.NRGBA)
					got := dst.NRGBAAt(x-r.Min.X, y-r.Min.Y)
					if !compareColors(want, got, 1) {
						t.Fatalf("pixel (%d, %d): got %v want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestImage_CloneShouldNotAlias(t *testing.T) {
	src := makeNRGBAImage(image.Rect(0, 0, 4, 4), palette.Plan9)
	dst := cloneNRGBA(src)
	dst.Pix[0] = ^dst.Pix[0]
	assert.NotEqual(t, src.Pix[0], dst.Pix[0])
}

func TestImage_EncodeByExtension(t *testing.T) {
	img := newRandomImage(8, 6, 4)
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.jpg", "out.bmp"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NoError(t, encodeImg(f, img), name)
		require.NoError(t, f.Close())

		f, err = os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		dec, err := decodeImg(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, img.Bounds(), dec.Bounds(), name)
	}

	f, err := os.Create(filepath.Join(dir, "out.tiff"))
	require.NoError(t, err)
	defer f.Close()
	assert.Error(t, encodeImg(f, img))
}

func TestImage_EncodeToWriter(t *testing.T) {
	img := newRandomImage(3, 2, 8)

	var buf bytes.Buffer
	require.NoError(t, encodeImg(&buf, img))

	dec, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cloneNRGBA(dec).Pix, img.Pix)
}

func TestImage_DecodeBMP(t *testing.T) {
	img := newRandomImage(5, 5, 6)

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	dec, err := decodeImg(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), dec.Bounds())

	_, err = decodeImg(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func makeYCbCrImage(rect image.Rectangle, colors []color.Color, sr image.YCbCrSubsampleRatio) *image.YCbCr {
	img := image.NewYCbCr(rect, sr)
	j := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			iy := img.YOffset(x, y)
			ic := img.COffset(x, y)
			c := color.NRGBAModel.Convert(colors[j]).(color.NRGBA)
			img.Y[iy], img.Cb[ic], img.Cr[ic] = color.RGBToYCbCr(c.R, c.G, c.B)
			j++
		}
	}
	return img
}

func makeNRGBAImage(rect image.Rectangle, colors []color.Color) *image.NRGBA {
	img := image.NewNRGBA(rect)
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			nrgba := color.NRGBAModel.Convert(colors[i]).(color.NRGBA)
			nrgba.A = uint8(i % 256)
			img.SetNRGBA(x, y, nrgba)
			i++
		}
	}
	return img
}

func makeGrayImage(rect image.Rectangle) *image.Gray {
	img := image.NewGray(rect)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	return img
}

func compareColors(a, b color.NRGBA, delta int) bool {
	return utils.Abs(int(a.R)-int(b.R)) <= delta &&
		utils.Abs(int(a.G)-int(b.G)) <= delta &&
		utils.Abs(int(a.B)-int(b.B)) <= delta &&
		utils.Abs(int(a.A)-int(b.A)) <= delta
}
