// Package display shows blitter framebuffers on screen and reports input.
//
// Two backends are provided: Window talks the X11 wire protocol directly,
// Terminal renders into any terminal through tcell using half-block cells.
// Both satisfy Display, so programs can pick one at startup.
package display

import (
	"errors"
	"fmt"

	"github.com/AchrafSoltani/blitter"
)

// ErrConfig is returned for an unusable Config.
var ErrConfig = errors.New("display: invalid config")

// ErrBackend is returned by Open for an unknown backend name.
var ErrBackend = errors.New("display: unknown backend")

// Presenter shows a finished framebuffer. The framebuffer is only read
// during the call.
type Presenter interface {
	Present(fb *blitter.Framebuffer) error
	Close() error
}

// EventSource delivers input and window events.
type EventSource interface {
	// PollEvent returns the next event, or nil if none is pending.
	PollEvent() *Event
	// WaitEvent blocks for the next event. It returns nil once closed.
	WaitEvent() *Event
}

// Display is a presenter with its own event stream.
type Display interface {
	Presenter
	EventSource
}

// Config describes the surface to open.
type Config struct {
	Title  string
	Width  int // framebuffer width in pixels
	Height int // framebuffer height in pixels
	Scale  int // integer zoom applied by Window; Terminal fits to the screen instead
}

// DefaultConfig returns a 320x240 surface at 2x zoom.
func DefaultConfig() Config {
	return Config{
		Title:  "blitter",
		Width:  320,
		Height: 240,
		Scale:  2,
	}
}

// Validate reports whether c can be opened.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrConfig, c.Width, c.Height)
	}
	if c.Scale < 1 || c.Scale > 16 {
		return fmt.Errorf("%w: scale %d", ErrConfig, c.Scale)
	}
	if c.Width*c.Scale > 0xFFFF || c.Height*c.Scale > 0xFFFF {
		return fmt.Errorf("%w: scaled size exceeds 65535", ErrConfig)
	}
	return nil
}

// Open creates the named backend: "x11" or "term".
func Open(backend string, cfg Config) (Display, error) {
	switch backend {
	case "x11":
		return NewWindow(cfg)
	case "term", "terminal":
		return NewTerminal(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackend, backend)
	}
}
