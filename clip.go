package blitter

import "strings"

// Edges records which framebuffer edges cut into a bitmap.
type Edges uint8

const (
	EdgeLeft Edges = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edges) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, edge := range []struct {
		bit  Edges
		name string
	}{
		{EdgeTop, "top"},
		{EdgeBottom, "bottom"},
		{EdgeLeft, "left"},
		{EdgeRight, "right"},
	} {
		if e&edge.bit != 0 {
			parts = append(parts, edge.name)
		}
	}
	return strings.Join(parts, "|")
}

// Clip describes the visible part of a bitmap placed on a framebuffer.
//
// Row r of the visible area starts at source index SrcOffset + r*SrcStride()
// and lands at framebuffer index (DstY+r)*fbWidth + DstX.
type Clip struct {
	// DstX and DstY are the framebuffer coordinates of the first visible pixel.
	DstX, DstY int

	// Width and Height are the size of the visible area.
	Width, Height int

	// SrcOffset is the source index of the first visible pixel.
	SrcOffset int

	// SrcSkip is the number of source pixels stepped over at the end of each
	// visible row to reach the first visible pixel of the next one. It covers
	// columns cropped on both the right and the left.
	SrcSkip int

	// Cropped lists the edges that cut the bitmap.
	Cropped Edges
}

// SrcStride is the distance between the starts of two visible source rows,
// which is always the full bitmap width.
func (c Clip) SrcStride() int {
	return c.Width + c.SrcSkip
}

// Empty reports whether nothing is visible.
func (c Clip) Empty() bool {
	return c.Width <= 0 || c.Height <= 0
}

// ComputeClip intersects a w*h bitmap at (x, y) with a fbWidth*fbHeight
// framebuffer. It reports false when no pixel is visible, including when
// either rectangle is empty. A bitmap whose far edge touches the framebuffer
// edge (x+w == fbWidth) is fully visible.
func ComputeClip(x, y, w, h, fbWidth, fbHeight int) (Clip, bool) {
	if w <= 0 || h <= 0 || fbWidth <= 0 || fbHeight <= 0 {
		return Clip{}, false
	}

	left, top := max(x, 0), max(y, 0)
	right, bottom := min(x+w, fbWidth), min(y+h, fbHeight)
	if right <= left || bottom <= top {
		return Clip{}, false
	}

	cropX, cropY := left-x, top-y
	c := Clip{
		DstX:      left,
		DstY:      top,
		Width:     right - left,
		Height:    bottom - top,
		SrcOffset: cropY*w + cropX,
	}
	c.SrcSkip = w - c.Width

	if cropX > 0 {
		c.Cropped |= EdgeLeft
	}
	if x+w > fbWidth {
		c.Cropped |= EdgeRight
	}
	if cropY > 0 {
		c.Cropped |= EdgeTop
	}
	if y+h > fbHeight {
		c.Cropped |= EdgeBottom
	}
	return c, true
}
