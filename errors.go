package blitter

import "errors"

var (
	// ErrOutOfBounds is returned when a fixed rectangle, pixel or source
	// region does not fit inside the buffer it addresses.
	ErrOutOfBounds = errors.New("blitter: out of bounds")

	// ErrMaskLength is returned when a bit mask does not hold exactly one
	// entry per source pixel.
	ErrMaskLength = errors.New("blitter: mask length does not match bitmap size")

	// ErrInvalidBitmap is returned for bitmaps with a non-positive size or
	// fewer pixels than Width*Height.
	ErrInvalidBitmap = errors.New("blitter: invalid bitmap")

	// ErrInvalidFramebuffer is returned for framebuffers with a non-positive
	// size or fewer pixels than Width*Height.
	ErrInvalidFramebuffer = errors.New("blitter: invalid framebuffer")

	// ErrDecode wraps image loading failures.
	ErrDecode = errors.New("blitter: cannot decode image")

	// ErrGlyph is returned when text contains a rune the font sheet lacks.
	ErrGlyph = errors.New("blitter: glyph not in font")
)
