package display

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/AchrafSoltani/blitter"
)

// upperHalf draws the top pixel in the foreground colour and the bottom
// pixel in the background colour, giving two pixel rows per cell.
const upperHalf = '▀'

// Terminal presents framebuffers in a terminal. Each cell covers one pixel
// column and two pixel rows. Framebuffers larger than the screen are
// shrunk with nearest-neighbour sampling.
type Terminal struct {
	*queue

	screen tcell.Screen

	fitted *blitter.Framebuffer
}

// NewTerminal takes over the controlling terminal. cfg.Scale is ignored.
func NewTerminal(cfg Config) (*Terminal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("display: open terminal: %w", err)
	}
	return NewTerminalWithScreen(screen)
}

// NewTerminalWithScreen initialises screen and presents onto it.
func NewTerminalWithScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("display: init terminal: %w", err)
	}
	screen.HideCursor()

	t := &Terminal{
		queue:  newQueue(),
		screen: screen,
	}

	w, h := screen.Size()
	blitter.Logger().Info("display: terminal opened", "cols", w, "rows", h)

	go t.pollEvents()
	return t, nil
}

// Size returns the screen size in pixels.
func (t *Terminal) Size() (width, height int) {
	w, h := t.screen.Size()
	return w, h * 2
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	if !t.stop() {
		return nil
	}
	t.screen.Fini()
	return nil
}

// Present draws fb from the top-left corner of the screen.
func (t *Terminal) Present(fb *blitter.Framebuffer) error {
	if err := fb.Valid(); err != nil {
		return err
	}

	src := t.fit(fb)
	cols, rows := t.screen.Size()
	cols = min(cols, src.Width)
	rows = min(rows, (src.Height+1)/2)

	for cy := 0; cy < rows; cy++ {
		top := cy * 2
		for x := 0; x < cols; x++ {
			fg := src.Pixels[top*src.Width+x]
			bg := uint32(0)
			if top+1 < src.Height {
				bg = src.Pixels[(top+1)*src.Width+x]
			}
			style := tcell.StyleDefault.
				Foreground(termColor(fg, src.Format)).
				Background(termColor(bg, src.Format))
			t.screen.SetContent(x, cy, upperHalf, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// fit returns fb, or a nearest-neighbour copy that fits the screen.
func (t *Terminal) fit(fb *blitter.Framebuffer) *blitter.Framebuffer {
	sw, sh := t.Size()
	if fb.Width <= sw && fb.Height <= sh {
		return fb
	}

	// keep the aspect ratio
	w, h := sw, fb.Height*sw/fb.Width
	if h > sh {
		w, h = fb.Width*sh/fb.Height, sh
	}
	w, h = max(w, 1), max(h, 1)

	if t.fitted == nil || t.fitted.Width != w || t.fitted.Height != h || t.fitted.Format != fb.Format {
		t.fitted = blitter.NewFramebuffer(w, h)
		t.fitted.Format = fb.Format
	}
	xdraw.NearestNeighbor.Scale(t.fitted, t.fitted.Bounds(), fb, fb.Bounds(), xdraw.Src, nil)
	return t.fitted
}

func termColor(p uint32, f blitter.PixelFormat) tcell.Color {
	r, g, b := blitter.Unpack(p, f)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (t *Terminal) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			// screen finalised
			return
		}
		if event := t.convertEvent(ev); event != nil {
			if !t.push(*event) {
				return
			}
		}
	}
}

func (t *Terminal) convertEvent(ev tcell.Event) *Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyCtrlC:
			return &Event{Type: EventQuit}
		case tcell.KeyEscape:
			return &Event{Type: EventKeyDown, Key: KeyEscape}
		case tcell.KeyEnter:
			return &Event{Type: EventKeyDown, Key: KeyEnter}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			return &Event{Type: EventKeyDown, Key: KeyBackspace}
		case tcell.KeyTab:
			return &Event{Type: EventKeyDown, Key: KeyTab}
		case tcell.KeyLeft:
			return &Event{Type: EventKeyDown, Key: KeyLeft}
		case tcell.KeyRight:
			return &Event{Type: EventKeyDown, Key: KeyRight}
		case tcell.KeyUp:
			return &Event{Type: EventKeyDown, Key: KeyUp}
		case tcell.KeyDown:
			return &Event{Type: EventKeyDown, Key: KeyDown}
		case tcell.KeyRune:
			if e.Rune() == ' ' {
				return &Event{Type: EventKeyDown, Key: KeySpace}
			}
			return &Event{Type: EventKeyDown, Key: KeyRune, Rune: e.Rune()}
		}
		return &Event{Type: EventKeyDown, Key: KeyUnknown}

	case *tcell.EventResize:
		w, h := e.Size()
		return &Event{Type: EventResize, Width: w, Height: h * 2}
	}
	return nil
}
