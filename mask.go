package blitter

import "image"

// Mask selects which source pixels a masked blit copies.
// It is implemented by ColorMask and BitMask.
type Mask interface {
	blit(b *Bitmap, fb *Framebuffer) error
}

// ColorMask marks one pixel value as transparent.
type ColorMask uint32

func (m ColorMask) blit(b *Bitmap, fb *Framebuffer) error {
	return b.BlitColorMask(fb, uint32(m))
}

// BitMask holds one entry per source pixel, row-major; true means copy.
type BitMask []bool

func (m BitMask) blit(b *Bitmap, fb *Framebuffer) error {
	return b.BlitBitMask(fb, m)
}

// AlphaMask builds a bit mask that keeps every pixel of img with a non-zero
// alpha. It matches the pixel order of FromImage.
func AlphaMask(img image.Image) BitMask {
	bounds := img.Bounds()
	mask := make(BitMask, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			mask = append(mask, a != 0)
		}
	}
	return mask
}
