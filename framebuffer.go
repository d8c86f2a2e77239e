package blitter

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Framebuffer is the destination pixel buffer handed to a display each frame.
// Pixels are packed 32-bit values, row-major, Width*Height of them.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32

	// Format is the channel layout used when the framebuffer is read or
	// written as an image.Image. Blits and clears copy pixels verbatim.
	Format PixelFormat
}

// NewFramebuffer creates a new framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// WrapFramebuffer creates a framebuffer over caller-owned pixels.
func WrapFramebuffer(width, height int, pixels []uint32) (*Framebuffer, error) {
	fb := &Framebuffer{Width: width, Height: height, Pixels: pixels}
	if err := fb.Valid(); err != nil {
		return nil, err
	}
	return fb, nil
}

// Valid reports whether the framebuffer has a positive size and enough pixels.
func (fb *Framebuffer) Valid() error {
	if fb.Width <= 0 || fb.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFramebuffer, fb.Width, fb.Height)
	}
	// Height*Width <= len(Pixels), divided so the product cannot overflow
	if fb.Height > len(fb.Pixels)/fb.Width {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidFramebuffer, len(fb.Pixels), fb.Width, fb.Height)
	}
	return nil
}

// Clear fills the entire framebuffer with a color
func (fb *Framebuffer) Clear(c uint32) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// ClearArea fills the w*h rectangle whose top-left corner is (x, y).
// The rectangle must lie inside the framebuffer; otherwise nothing is
// written and ErrOutOfBounds is returned.
func (fb *Framebuffer) ClearArea(w, h, x, y int, c uint32) error {
	if err := fb.Valid(); err != nil {
		return err
	}
	// differences, not sums, so huge extents cannot wrap past the check
	if x < 0 || y < 0 || w < 0 || h < 0 || x > fb.Width || y > fb.Height ||
		w > fb.Width-x || h > fb.Height-y {
		return fmt.Errorf("%w: area %dx%d at (%d,%d) on %dx%d", ErrOutOfBounds, w, h, x, y, fb.Width, fb.Height)
	}
	if w == 0 || h == 0 {
		return nil
	}

	first := fb.Pixels[y*fb.Width+x : y*fb.Width+x+w]
	for i := range first {
		first[i] = c
	}
	for row := 1; row < h; row++ {
		off := (y+row)*fb.Width + x
		copy(fb.Pixels[off:off+w], first)
	}
	return nil
}

// DrawPixel sets a single pixel
func (fb *Framebuffer) DrawPixel(x, y int, c uint32) error {
	off, err := fb.offset(x, y)
	if err != nil {
		return err
	}
	fb.Pixels[off] = c
	return nil
}

// DrawFatPixel draws a size*size square with its top-left corner at (x, y).
func (fb *Framebuffer) DrawFatPixel(x, y, size int, c uint32) error {
	return fb.ClearArea(size, size, x, y, c)
}

// Pixel returns the pixel at (x, y)
func (fb *Framebuffer) Pixel(x, y int) (uint32, error) {
	off, err := fb.offset(x, y)
	if err != nil {
		return 0, err
	}
	return fb.Pixels[off], nil
}

func (fb *Framebuffer) offset(x, y int) (int, error) {
	off := y*fb.Width + x
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height || off >= len(fb.Pixels) {
		return 0, fmt.Errorf("%w: pixel (%d,%d) on %dx%d", ErrOutOfBounds, x, y, fb.Width, fb.Height)
	}
	return off, nil
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// At implements image.Image. Pixels are reported fully opaque.
func (fb *Framebuffer) At(x, y int) color.Color {
	p, err := fb.Pixel(x, y)
	if err != nil {
		return color.RGBA{}
	}
	r, g, b := Unpack(p, fb.Format)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Set implements draw.Image. Alpha is dropped.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	off, err := fb.offset(x, y)
	if err != nil {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	fb.Pixels[off] = Pack(rgba.R, rgba.G, rgba.B, fb.Format)
}

// WritePNG encodes the framebuffer as a PNG image.
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	if err := fb.Valid(); err != nil {
		return err
	}
	return png.Encode(w, fb)
}
