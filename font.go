package blitter

import (
	"fmt"
	"image"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Font is a sheet of equally sized glyph cells laid out left to right in a
// single row, starting at rune First.
type Font struct {
	Sheet      *Bitmap
	CellWidth  int
	CellHeight int
	First      rune
	Count      int

	// Background is the colour of unset glyph pixels. When Transparent is
	// set, DrawText skips them instead of drawing them.
	Background  uint32
	Transparent bool
}

// NewFontSheet builds a font from 1-bit 8x8 glyphs, 8 bytes per glyph with
// the most significant bit leftmost. The first glyph is ' '.
func NewFontSheet(data []byte, fg, bg uint32) (*Font, error) {
	if len(data) == 0 || len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bytes of 8x8 glyph data", ErrGlyph, len(data))
	}
	count := len(data) / 8
	width := count * 8
	pixels := make([]uint32, width*8)

	i := 0
	for row := 0; row < 8; row++ {
		for glyph := 0; glyph < count; glyph++ {
			bits := data[glyph*8+row]
			for bit := 0; bit < 8; bit++ {
				if bits<<bit&0x80 != 0 {
					pixels[i] = fg
				} else {
					pixels[i] = bg
				}
				i++
			}
		}
	}

	return &Font{
		Sheet:      NewBitmap(width, 8, pixels),
		CellWidth:  8,
		CellHeight: 8,
		First:      ' ',
		Count:      count,
		Background: bg,
	}, nil
}

// BasicFontSheet renders printable ASCII from basicfont.Face7x13 into a
// 7x13 cell font.
func BasicFontSheet(fg, bg uint32) *Font {
	face := basicfont.Face7x13
	const first, last = ' ', '~'
	count := int(last-first) + 1
	cw, ch := face.Advance, face.Height

	glyphs := image.NewAlpha(image.Rect(0, 0, count*cw, ch))
	d := font.Drawer{Dst: glyphs, Src: image.Opaque, Face: face}
	for i := 0; i < count; i++ {
		d.Dot = fixed.P(i*cw, face.Ascent)
		d.DrawString(string(rune(first + i)))
	}

	pixels := make([]uint32, count*cw*ch)
	for y := 0; y < ch; y++ {
		for x := 0; x < count*cw; x++ {
			if glyphs.AlphaAt(x, y).A >= 0x80 {
				pixels[y*count*cw+x] = fg
			} else {
				pixels[y*count*cw+x] = bg
			}
		}
	}

	return &Font{
		Sheet:      NewBitmap(count*cw, ch, pixels),
		CellWidth:  cw,
		CellHeight: ch,
		First:      first,
		Count:      count,
		Background: bg,
	}
}

// DrawText draws text with its top-left corner at (x, y), one cell per rune.
// Text running off the framebuffer is clipped. A rune missing from the sheet
// stops drawing with ErrGlyph.
func (f *Font) DrawText(fb *Framebuffer, text string, x, y int) error {
	glyph := *f.Sheet
	glyph.MoveTo(x, y)
	for _, r := range text {
		idx := int(r - f.First)
		if idx < 0 || idx >= f.Count {
			return fmt.Errorf("%w: %q", ErrGlyph, r)
		}

		part, err := glyph.part(idx*f.CellWidth, f.CellWidth, f.CellHeight)
		if err != nil {
			return err
		}
		if f.Transparent {
			if err := part.BlitColorMask(fb, f.Background); err != nil {
				return err
			}
		} else {
			part.Blit(fb)
		}
		glyph.Move(f.CellWidth, 0)
	}
	return nil
}

// TextWidth returns the width in pixels of text drawn with f.
func (f *Font) TextWidth(text string) int {
	return utf8.RuneCountInString(text) * f.CellWidth
}
