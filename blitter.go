// Package blitter is a pure Go software blitter for 32-bit framebuffers.
// It copies bitmaps onto a framebuffer at any signed position, clipping
// against the framebuffer edges, with optional colour or bit masking.
//
// A typical frame looks like:
//
//	fb := blitter.NewFramebuffer(640, 480)
//	sprite := blitter.NewBitmap(10, 10, pixels)
//
//	for running {
//		fb.Clear(blitter.Black)
//		sprite.Move(3, 0)
//		sprite.Blit(fb)
//		presenter.Present(fb)
//	}
package blitter

// PixelFormat selects how red, green and blue are packed into a 32-bit pixel.
type PixelFormat int

const (
	// Zrgb packs pixels as 0x00RRGGBB.
	Zrgb PixelFormat = iota
	// Rgba packs pixels as 0xRRGGBB00, the alpha byte is always zero.
	Rgba
)

func (f PixelFormat) shift() uint {
	if f == Rgba {
		return 8
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case Zrgb:
		return "0RGB"
	case Rgba:
		return "RGBA"
	default:
		return "unknown"
	}
}

// Pack builds a pixel from its channels in the given format.
func Pack(r, g, b uint8, f PixelFormat) uint32 {
	return (uint32(r)<<16 | uint32(g)<<8 | uint32(b)) << f.shift()
}

// Unpack splits a pixel of the given format into its channels.
func Unpack(p uint32, f PixelFormat) (r, g, b uint8) {
	p >>= f.shift()
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// RGB creates a 0RGB pixel from red, green, blue components
func RGB(r, g, b uint8) uint32 {
	return Pack(r, g, b, Zrgb)
}

// Hex creates a 0RGB pixel from a hex value (0xRRGGBB)
func Hex(hex uint32) uint32 {
	return hex & 0xFFFFFF
}

// Predefined 0RGB colors
const (
	Black   uint32 = 0x000000
	White   uint32 = 0xFFFFFF
	Red     uint32 = 0xFF0000
	Green   uint32 = 0x00FF00
	Blue    uint32 = 0x0000FF
	Yellow  uint32 = 0xFFFF00
	Cyan    uint32 = 0x00FFFF
	Magenta uint32 = 0xFF00FF
	Orange  uint32 = 0xFFA500
	Purple  uint32 = 0x800080
	Gray    uint32 = 0x808080
)
