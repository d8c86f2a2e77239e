package blitter

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, GIF, JPEG, BMP, TIFF or WebP file into a bitmap
// packed in format f.
func LoadImage(path string, f PixelFormat) (*Bitmap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer file.Close()
	return DecodeImage(file, f)
}

// DecodeImage decodes any registered image format from r.
func DecodeImage(r io.Reader, f PixelFormat) (*Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromImage(img, f), nil
}

// LoadPNG loads a PNG file from disk. Other formats are rejected.
func LoadPNG(path string, f PixelFormat) (*Bitmap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return FromImage(img, f), nil
}

// FromImage converts img to a bitmap packed in format f. Alpha is stripped:
// each pixel becomes (R<<16 | G<<8 | B) shifted for the format, using
// straight (non-premultiplied) channel values.
func FromImage(img image.Image, f PixelFormat) *Bitmap {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	pixels := make([]uint32, w*h)

	// Fast path for *image.NRGBA, no interface calls per pixel
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			srcOff := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			dst := pixels[y*w : (y+1)*w]
			for x := range dst {
				dst[x] = Pack(nrgba.Pix[srcOff], nrgba.Pix[srcOff+1], nrgba.Pix[srcOff+2], f)
				srcOff += 4
			}
		}
	} else {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
				pixels[y*w+x] = Pack(c.R, c.G, c.B, f)
			}
		}
	}

	return NewBitmap(w, h, pixels)
}

// ScaleImage resizes img to w*h with nearest-neighbour sampling, which keeps
// hard pixel edges intact for colour masking.
func ScaleImage(img image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
