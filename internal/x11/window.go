package x11

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrDepth is returned by PutImage when the screen does not use 32 bits
// per pixel, the only layout packed framebuffers map onto directly.
var ErrDepth = errors.New("x11: unsupported pixel depth")

// CreateWindow creates a new window and returns its ID
func (c *Conn) CreateWindow(x, y int16, width, height uint16) (uint32, error) {
	windowID := c.GenerateID()

	eventMask := uint32(ExposureMask | KeyPressMask | KeyReleaseMask | StructureNotifyMask)

	// header (8 words) + background pixel + event mask
	req := newRequest(OpCreateWindow, c.RootDepth, 10)
	binary.LittleEndian.PutUint32(req[4:], windowID)
	binary.LittleEndian.PutUint32(req[8:], c.RootWindow)
	binary.LittleEndian.PutUint16(req[12:], uint16(x))
	binary.LittleEndian.PutUint16(req[14:], uint16(y))
	binary.LittleEndian.PutUint16(req[16:], width)
	binary.LittleEndian.PutUint16(req[18:], height)
	binary.LittleEndian.PutUint16(req[20:], 0) // Border width
	binary.LittleEndian.PutUint16(req[22:], WindowClassInputOutput)
	binary.LittleEndian.PutUint32(req[24:], c.RootVisual)
	binary.LittleEndian.PutUint32(req[28:], CWBackPixel|CWEventMask)
	binary.LittleEndian.PutUint32(req[32:], 0x000000) // CWBackPixel: black
	binary.LittleEndian.PutUint32(req[36:], eventMask)

	if err := c.send(req); err != nil {
		return 0, err
	}
	return windowID, nil
}

// MapWindow makes a window visible on screen
func (c *Conn) MapWindow(windowID uint32) error {
	return c.sendID(OpMapWindow, windowID)
}

// DestroyWindow destroys a window and frees its resources
func (c *Conn) DestroyWindow(windowID uint32) error {
	return c.sendID(OpDestroyWindow, windowID)
}

// CreateGC creates a graphics context with graphics exposures disabled, so
// PutImage does not generate Expose events.
func (c *Conn) CreateGC(drawable uint32) (uint32, error) {
	gcID := c.GenerateID()

	req := newRequest(OpCreateGC, 0, 7)
	binary.LittleEndian.PutUint32(req[4:], gcID)
	binary.LittleEndian.PutUint32(req[8:], drawable)
	binary.LittleEndian.PutUint32(req[12:], GCForeground|GCBackground|GCGraphicsExposures)
	binary.LittleEndian.PutUint32(req[16:], 0xFFFFFF) // Foreground: white
	binary.LittleEndian.PutUint32(req[20:], 0x000000) // Background: black
	binary.LittleEndian.PutUint32(req[24:], 0)        // GraphicsExposures: off

	if err := c.send(req); err != nil {
		return 0, err
	}
	return gcID, nil
}

// FreeGC frees a graphics context
func (c *Conn) FreeGC(gcID uint32) error {
	return c.sendID(OpFreeGC, gcID)
}

func (c *Conn) sendID(op byte, id uint32) error {
	req := newRequest(op, 0, 2)
	binary.LittleEndian.PutUint32(req[4:], id)
	return c.send(req)
}

// PutImage sends width*height packed 0RGB pixels to drawable at (dstX, dstY).
// On a little-endian 32 bpp screen a 0RGB pixel is exactly the BGRX byte
// order the server expects. The image is split into bands of whole rows so
// each request stays within the server's maximum request length.
func (c *Conn) PutImage(drawable, gc uint32, width, height int, dstX, dstY int16, pixels []uint32) error {
	if c.BitsPerPixel != 32 {
		return fmt.Errorf("%w: %d bits per pixel", ErrDepth, c.BitsPerPixel)
	}
	if width <= 0 || height <= 0 || height > len(pixels)/width {
		return fmt.Errorf("x11: put image: %d pixels for %dx%d", len(pixels), width, height)
	}

	maxUnits := int(c.MaxRequestLength)
	if maxUnits == 0 {
		maxUnits = defaultMaxRequestLength
	}
	rows := (maxUnits - 6) / width
	if rows < 1 {
		return fmt.Errorf("x11: put image: row of %d pixels exceeds request limit", width)
	}

	for y := 0; y < height; y += rows {
		n := min(rows, height-y)
		req := newRequest(OpPutImage, ImageFormatZPixmap, 6+n*width)
		binary.LittleEndian.PutUint32(req[4:], drawable)
		binary.LittleEndian.PutUint32(req[8:], gc)
		binary.LittleEndian.PutUint16(req[12:], uint16(width))
		binary.LittleEndian.PutUint16(req[14:], uint16(n))
		binary.LittleEndian.PutUint16(req[16:], uint16(dstX))
		binary.LittleEndian.PutUint16(req[18:], uint16(int(dstY)+y))
		req[20] = 0           // Left pad (unused for ZPixmap)
		req[21] = c.RootDepth // Depth

		data := req[24:]
		for i, p := range pixels[y*width : (y+n)*width] {
			binary.LittleEndian.PutUint32(data[i*4:], p)
		}
		if err := c.send(req); err != nil {
			return fmt.Errorf("x11: put image: %w", err)
		}
	}
	return nil
}
