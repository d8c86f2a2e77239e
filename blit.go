package blitter

import (
	"fmt"
	"log/slog"
)

// visible validates both buffers and clips b against fb. A false result
// means there is nothing to draw; err is set only for malformed buffers.
func (b *Bitmap) visible(fb *Framebuffer) (Clip, bool, error) {
	if err := b.Valid(); err != nil {
		return Clip{}, false, err
	}
	return b.clipTo(fb)
}

// clipTo is visible for a bitmap already known to be valid.
func (b *Bitmap) clipTo(fb *Framebuffer) (Clip, bool, error) {
	if err := fb.Valid(); err != nil {
		return Clip{}, false, err
	}
	c, ok := b.Clip(fb)
	if !ok {
		Logger().Debug("blitter: bitmap outside framebuffer",
			slog.Int("x", b.X), slog.Int("y", b.Y),
			slog.Int("w", b.Width), slog.Int("h", b.Height))
	}
	return c, ok, nil
}

// Blit copies the bitmap onto fb at its current position. Parts outside the
// framebuffer are clipped away, so Blit never fails; malformed bitmaps or
// framebuffers are logged and skipped.
func (b *Bitmap) Blit(fb *Framebuffer) {
	c, ok, err := b.visible(fb)
	if err != nil {
		Logger().Warn("blitter: blit skipped", slog.Any("err", err))
		return
	}
	if !ok {
		return
	}

	src := c.SrcOffset
	dst := c.DstY*fb.Width + c.DstX
	for row := 0; row < c.Height; row++ {
		copy(fb.Pixels[dst:dst+c.Width], b.Pixels[src:src+c.Width])
		src += c.SrcStride()
		dst += fb.Width
	}
}

// BlitColorMask copies the bitmap onto fb, skipping source pixels equal to
// transparent. Source and destination advance together, so every drawn pixel
// lands where an opaque Blit would put it.
func (b *Bitmap) BlitColorMask(fb *Framebuffer, transparent uint32) error {
	c, ok, err := b.visible(fb)
	if err != nil || !ok {
		return err
	}

	src := c.SrcOffset
	dst := c.DstY*fb.Width + c.DstX
	for row := 0; row < c.Height; row++ {
		line := b.Pixels[src : src+c.Width]
		out := fb.Pixels[dst : dst+c.Width]
		for i, p := range line {
			if p != transparent {
				out[i] = p
			}
		}
		src += c.SrcStride()
		dst += fb.Width
	}
	return nil
}

// BlitBitMask copies the bitmap onto fb where mask is true. The mask is
// parallel to the whole source bitmap: mask[i] decides source pixel i, also
// when the bitmap is clipped.
func (b *Bitmap) BlitBitMask(fb *Framebuffer, mask []bool) error {
	// a valid bitmap keeps Width*Height within len(Pixels), so the length
	// check below cannot overflow
	if err := b.Valid(); err != nil {
		return err
	}
	if len(mask) != b.Width*b.Height {
		return fmt.Errorf("%w: %d entries for %dx%d", ErrMaskLength, len(mask), b.Width, b.Height)
	}
	c, ok, err := b.clipTo(fb)
	if err != nil || !ok {
		return err
	}

	src := c.SrcOffset
	dst := c.DstY*fb.Width + c.DstX
	for row := 0; row < c.Height; row++ {
		line := b.Pixels[src : src+c.Width]
		keep := mask[src : src+c.Width]
		out := fb.Pixels[dst : dst+c.Width]
		for i, p := range line {
			if keep[i] {
				out[i] = p
			}
		}
		src += c.SrcStride()
		dst += fb.Width
	}
	return nil
}

// BlitMask copies the bitmap onto fb through m.
func (b *Bitmap) BlitMask(fb *Framebuffer, m Mask) error {
	return m.blit(b, fb)
}

// BlitPart copies the w*h block of the bitmap whose first pixel is at source
// index offset. The block is drawn at the bitmap's position, clipped like
// Blit. It must lie inside the bitmap or ErrOutOfBounds is returned.
func (b *Bitmap) BlitPart(fb *Framebuffer, offset, w, h int) error {
	part, err := b.part(offset, w, h)
	if err != nil {
		return err
	}
	part.Blit(fb)
	return nil
}

// BlitRegion is BlitPart addressed by the block's top-left source pixel.
func (b *Bitmap) BlitRegion(fb *Framebuffer, srcX, srcY, w, h int) error {
	if srcX < 0 || srcY < 0 || srcX >= b.Width || srcY >= b.Height {
		return fmt.Errorf("%w: region origin (%d,%d) in %dx%d", ErrOutOfBounds, srcX, srcY, b.Width, b.Height)
	}
	return b.BlitPart(fb, srcY*b.Width+srcX, w, h)
}

// part stages a sub-block of b into a new bitmap at b's position.
func (b *Bitmap) part(offset, w, h int) (*Bitmap, error) {
	if err := b.Valid(); err != nil {
		return nil, err
	}
	if offset < 0 || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: part %dx%d at offset %d", ErrOutOfBounds, w, h, offset)
	}
	col, row := offset%b.Width, offset/b.Width
	if w > b.Width-col || h > b.Height-row {
		return nil, fmt.Errorf("%w: part %dx%d at (%d,%d) in %dx%d", ErrOutOfBounds, w, h, col, row, b.Width, b.Height)
	}

	pixels := make([]uint32, w*h)
	for r := 0; r < h; r++ {
		src := offset + r*b.Width
		copy(pixels[r*w:(r+1)*w], b.Pixels[src:src+w])
	}
	return &Bitmap{Width: w, Height: h, X: b.X, Y: b.Y, Pixels: pixels}, nil
}
