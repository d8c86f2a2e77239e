package display

import (
	"errors"
	"fmt"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/AchrafSoltani/blitter"
	"github.com/AchrafSoltani/blitter/internal/x11"
)

// X11 keycodes (evdev layout) for the keys Event reports by name.
var x11Keys = map[uint8]Key{
	9:   KeyEscape,
	22:  KeyBackspace,
	23:  KeyTab,
	36:  KeyEnter,
	65:  KeySpace,
	111: KeyUp,
	113: KeyLeft,
	114: KeyRight,
	116: KeyDown,
}

// x11Runes maps letter and digit keycodes to their unshifted rune.
var x11Runes = func() map[uint8]rune {
	m := make(map[uint8]rune)
	for _, row := range []struct {
		first uint8
		keys  string
	}{
		{10, "1234567890"},
		{24, "qwertyuiop"},
		{38, "asdfghjkl"},
		{52, "zxcvbnm"},
	} {
		for i, r := range row.keys {
			m[row.first+uint8(i)] = r
		}
	}
	return m
}()

// Window is an X11 window showing a framebuffer at an integer zoom.
type Window struct {
	*queue

	conn     *x11.Conn
	windowID uint32
	gcID     uint32
	cfg      Config

	// zoomed or format-converted copy of the last presented framebuffer
	scaled *blitter.Framebuffer
}

// NewWindow opens a window sized cfg.Width*cfg.Scale by cfg.Height*cfg.Scale
// on the display named by $DISPLAY.
func NewWindow(cfg Config) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := x11.Dial("")
	if err != nil {
		return nil, err
	}
	w, err := newWindow(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	blitter.Logger().Info("display: x11 window opened",
		"width", cfg.Width, "height", cfg.Height, "scale", cfg.Scale,
		"depth", conn.RootDepth, "max_request", conn.MaxRequestLength)

	go w.pollEvents()
	return w, nil
}

func newWindow(conn *x11.Conn, cfg Config) (*Window, error) {
	windowID, err := conn.CreateWindow(100, 100, uint16(cfg.Width*cfg.Scale), uint16(cfg.Height*cfg.Scale))
	if err != nil {
		return nil, fmt.Errorf("display: create window: %w", err)
	}

	gcID, err := conn.CreateGC(windowID)
	if err != nil {
		conn.DestroyWindow(windowID)
		return nil, fmt.Errorf("display: create gc: %w", err)
	}

	w := &Window{
		queue:    newQueue(),
		conn:     conn,
		windowID: windowID,
		gcID:     gcID,
		cfg:      cfg,
	}

	for _, step := range []func() error{
		func() error { return conn.SetWindowTitle(windowID, cfg.Title) },
		func() error { return conn.EnableCloseButton(windowID) },
		func() error { return conn.MapWindow(windowID) },
	} {
		if err := step(); err != nil {
			conn.FreeGC(gcID)
			conn.DestroyWindow(windowID)
			return nil, fmt.Errorf("display: set up window: %w", err)
		}
	}
	return w, nil
}

// Close closes the window and releases resources
func (w *Window) Close() error {
	if !w.stop() {
		return nil
	}
	return errors.Join(
		w.conn.FreeGC(w.gcID),
		w.conn.DestroyWindow(w.windowID),
		// unblocks the event reader
		w.conn.Close(),
	)
}

// Present copies fb to the window. A Zrgb framebuffer at zoom 1 is sent as
// is; anything else is first drawn into a Zrgb buffer of the window's size.
func (w *Window) Present(fb *blitter.Framebuffer) error {
	if err := fb.Valid(); err != nil {
		return err
	}

	src := w.frame(fb)
	return w.conn.PutImage(w.windowID, w.gcID, src.Width, src.Height, 0, 0, src.Pixels)
}

func (w *Window) frame(fb *blitter.Framebuffer) *blitter.Framebuffer {
	if w.cfg.Scale == 1 && fb.Format == blitter.Zrgb {
		return fb
	}

	sw, sh := fb.Width*w.cfg.Scale, fb.Height*w.cfg.Scale
	if w.scaled == nil || w.scaled.Width != sw || w.scaled.Height != sh {
		w.scaled = blitter.NewFramebuffer(sw, sh)
	}
	if w.cfg.Scale == 1 {
		draw.Draw(w.scaled, w.scaled.Bounds(), fb, fb.Bounds().Min, draw.Src)
	} else {
		xdraw.NearestNeighbor.Scale(w.scaled, w.scaled.Bounds(), fb, fb.Bounds(), xdraw.Src, nil)
	}
	return w.scaled
}

// pollEvents runs in a goroutine, reading X11 events and sending to the queue
func (w *Window) pollEvents() {
	for {
		xEvent, err := w.conn.NextEvent()
		if err != nil {
			if !w.stopped() {
				blitter.Logger().Warn("display: x11 event stream ended", "err", err)
				w.push(Event{Type: EventQuit})
			}
			return
		}

		if event := w.convertEvent(xEvent); event != nil {
			if !w.push(*event) {
				return
			}
		}
	}
}

func (w *Window) convertEvent(xEvent x11.Event) *Event {
	switch e := xEvent.(type) {
	case x11.KeyEvent:
		evType := EventKeyDown
		if e.EventType == x11.EventKeyRelease {
			evType = EventKeyUp
		}
		event := &Event{Type: evType, Key: KeyUnknown}
		if k, ok := x11Keys[e.Keycode]; ok {
			event.Key = k
		} else if r, ok := x11Runes[e.Keycode]; ok {
			event.Key = KeyRune
			event.Rune = r
		}
		return event

	case x11.ExposeEvent:
		// only the last of a series
		if e.Count != 0 {
			return nil
		}
		return &Event{
			Type:   EventExpose,
			Width:  int(e.Width) / w.cfg.Scale,
			Height: int(e.Height) / w.cfg.Scale,
		}

	case x11.ConfigureEvent:
		return &Event{
			Type:   EventResize,
			Width:  int(e.Width) / w.cfg.Scale,
			Height: int(e.Height) / w.cfg.Scale,
		}

	case x11.ClientMessageEvent:
		// Check for window close button
		if w.conn.IsDeleteWindow(e) {
			return &Event{Type: EventQuit}
		}

	case x11.ErrorEvent:
		blitter.Logger().Warn("display: x11 request failed", "code", e.Code, "sequence", e.Sequence)
	}

	return nil
}
