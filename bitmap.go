package blitter

import (
	"fmt"
	"image"
)

// Bitmap is a read-only block of 32-bit pixels with a position on the
// framebuffer. Pixels are borrowed: the blitter never modifies or keeps them.
type Bitmap struct {
	Width, Height int

	// X and Y place the top-left pixel on the framebuffer. Either may be
	// negative or past the framebuffer edges; blits clip accordingly.
	X, Y int

	// Pixels holds Width*Height packed pixels, row-major, no padding.
	Pixels []uint32
}

// NewBitmap creates a bitmap over pixels, placed at (0, 0).
func NewBitmap(width, height int, pixels []uint32) *Bitmap {
	return &Bitmap{Width: width, Height: height, Pixels: pixels}
}

// Valid reports whether the bitmap has a positive size and enough pixels.
func (b *Bitmap) Valid() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidBitmap, b.Width, b.Height)
	}
	// Height*Width <= len(Pixels), divided so the product cannot overflow
	if b.Height > len(b.Pixels)/b.Width {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidBitmap, len(b.Pixels), b.Width, b.Height)
	}
	return nil
}

// MoveTo places the bitmap at (x, y).
func (b *Bitmap) MoveTo(x, y int) {
	b.X, b.Y = x, y
}

// Move shifts the bitmap by (dx, dy).
func (b *Bitmap) Move(dx, dy int) {
	b.X += dx
	b.Y += dy
}

// Bounds returns the area the bitmap covers in framebuffer coordinates.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Clip computes the part of the bitmap visible on fb at its current position.
func (b *Bitmap) Clip(fb *Framebuffer) (Clip, bool) {
	return ComputeClip(b.X, b.Y, b.Width, b.Height, fb.Width, fb.Height)
}
