package display

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/AchrafSoltani/blitter"
	"github.com/AchrafSoltani/blitter/internal/x11"
)

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}

	bad := []Config{
		{Width: 0, Height: 10, Scale: 1},
		{Width: 10, Height: -1, Scale: 1},
		{Width: 10, Height: 10, Scale: 0},
		{Width: 10, Height: 10, Scale: 17},
		{Width: 5000, Height: 10, Scale: 16},
	}
	for _, c := range bad {
		if err := c.Validate(); !errors.Is(err, ErrConfig) {
			t.Errorf("%+v: expected ErrConfig, got %v", c, err)
		}
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("sdl", DefaultConfig()); !errors.Is(err, ErrBackend) {
		t.Errorf("expected ErrBackend, got %v", err)
	}
}

func TestQueue(t *testing.T) {
	q := newQueue()
	if q.PollEvent() != nil {
		t.Fatal("empty queue returned an event")
	}

	q.push(Event{Type: EventKeyDown, Key: KeyEscape})
	e := q.PollEvent()
	if e == nil || e.Key != KeyEscape {
		t.Fatalf("PollEvent = %+v", e)
	}

	for i := 0; i < cap(q.ch)+10; i++ {
		if !q.push(Event{Type: EventExpose}) {
			t.Fatal("push on a running queue reported stopped")
		}
	}
	if len(q.ch) != cap(q.ch) {
		t.Errorf("queue holds %d events, want %d", len(q.ch), cap(q.ch))
	}

	if !q.stop() {
		t.Error("first stop reported false")
	}
	if q.stop() {
		t.Error("second stop reported true")
	}
	if q.push(Event{Type: EventQuit}) {
		t.Error("push after stop reported running")
	}
}

func TestQueueWaitAfterStop(t *testing.T) {
	q := newQueue()
	done := make(chan *Event, 1)
	go func() { done <- q.WaitEvent() }()

	q.stop()
	select {
	case e := <-done:
		if e != nil {
			t.Errorf("WaitEvent after stop = %+v, want nil", e)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitEvent did not return after stop")
	}
}

func TestWindowConvertEvent(t *testing.T) {
	w := &Window{
		conn: &x11.Conn{Atoms: x11.Atoms{WMDeleteWindow: 42}},
		cfg:  Config{Width: 100, Height: 100, Scale: 2},
	}

	tests := []struct {
		name string
		in   x11.Event
		want *Event
	}{
		{"escape", x11.KeyEvent{EventType: x11.EventKeyPress, Keycode: 9}, &Event{Type: EventKeyDown, Key: KeyEscape}},
		{"left release", x11.KeyEvent{EventType: x11.EventKeyRelease, Keycode: 113}, &Event{Type: EventKeyUp, Key: KeyLeft}},
		{"letter", x11.KeyEvent{EventType: x11.EventKeyPress, Keycode: 24}, &Event{Type: EventKeyDown, Key: KeyRune, Rune: 'q'}},
		{"digit", x11.KeyEvent{EventType: x11.EventKeyPress, Keycode: 19}, &Event{Type: EventKeyDown, Key: KeyRune, Rune: '0'}},
		{"unmapped", x11.KeyEvent{EventType: x11.EventKeyPress, Keycode: 200}, &Event{Type: EventKeyDown, Key: KeyUnknown}},
		{"resize", x11.ConfigureEvent{Width: 640, Height: 480}, &Event{Type: EventResize, Width: 320, Height: 240}},
		{"expose", x11.ExposeEvent{Width: 200, Height: 100}, &Event{Type: EventExpose, Width: 100, Height: 50}},
		{"expose series", x11.ExposeEvent{Count: 2}, nil},
		{"other message", x11.ClientMessageEvent{Format: 32}, nil},
		{"error", x11.ErrorEvent{Code: 8}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.convertEvent(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %+v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	msg := x11.ClientMessageEvent{Format: 32}
	msg.Data[0] = 42
	if got := w.convertEvent(msg); got == nil || got.Type != EventQuit {
		t.Errorf("delete window message = %+v, want quit", got)
	}
}

func TestWindowFrame(t *testing.T) {
	fb := blitter.NewFramebuffer(2, 2)
	fb.Pixels = []uint32{blitter.Red, blitter.Green, blitter.Blue, blitter.White}

	w := &Window{cfg: Config{Scale: 1}}
	if got := w.frame(fb); got != fb {
		t.Error("Zrgb framebuffer at zoom 1 was copied")
	}

	w.cfg.Scale = 3
	got := w.frame(fb)
	if got.Width != 6 || got.Height != 6 {
		t.Fatalf("scaled size = %dx%d, want 6x6", got.Width, got.Height)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := fb.Pixels[(y/3)*2+x/3]
			if p := got.Pixels[y*6+x]; p != want {
				t.Errorf("(%d,%d) = %06x, want %06x", x, y, p, want)
			}
		}
	}

	rgba := blitter.NewFramebuffer(1, 1)
	rgba.Format = blitter.Rgba
	rgba.Pixels[0] = blitter.Pack(0x12, 0x34, 0x56, blitter.Rgba)
	w.cfg.Scale = 1
	if got := w.frame(rgba); got.Pixels[0] != 0x123456 {
		t.Errorf("Rgba converted to %08x, want 00123456", got.Pixels[0])
	}
}

func newSimTerminal(t *testing.T, cols, rows int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminalWithScreen(sim)
	if err != nil {
		t.Fatalf("NewTerminalWithScreen failed: %v", err)
	}
	sim.SetSize(cols, rows)
	t.Cleanup(func() { term.Close() })
	return term, sim
}

func assertCell(t *testing.T, sim tcell.SimulationScreen, x, y int, fg, bg uint32) {
	t.Helper()
	r, _, style, _ := sim.GetContent(x, y)
	if r != upperHalf {
		t.Errorf("cell (%d,%d) rune = %q, want %q", x, y, r, upperHalf)
	}
	gotFg, gotBg, _ := style.Decompose()
	if want := termColor(fg, blitter.Zrgb); gotFg != want {
		t.Errorf("cell (%d,%d) fg = %v, want %06x", x, y, gotFg, fg)
	}
	if want := termColor(bg, blitter.Zrgb); gotBg != want {
		t.Errorf("cell (%d,%d) bg = %v, want %06x", x, y, gotBg, bg)
	}
}

func TestTerminalPresent(t *testing.T) {
	term, sim := newSimTerminal(t, 20, 10)

	// 3 rows: the last cell row has no bottom pixel
	fb := blitter.NewFramebuffer(2, 3)
	fb.Pixels = []uint32{
		blitter.Red, blitter.Green,
		blitter.Blue, blitter.White,
		blitter.Yellow, blitter.Cyan,
	}
	if err := term.Present(fb); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	assertCell(t, sim, 0, 0, blitter.Red, blitter.Blue)
	assertCell(t, sim, 1, 0, blitter.Green, blitter.White)
	assertCell(t, sim, 0, 1, blitter.Yellow, blitter.Black)
	assertCell(t, sim, 1, 1, blitter.Cyan, blitter.Black)

	if r, _, _, _ := sim.GetContent(2, 0); r == upperHalf {
		t.Error("cell outside the framebuffer was drawn")
	}
}

func TestTerminalPresentFits(t *testing.T) {
	term, sim := newSimTerminal(t, 4, 2)

	// 8x8 into a 4x4 pixel screen samples the centre of each 2x2 block,
	// which lands on odd source coordinates
	fb := blitter.NewFramebuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			fb.Pixels[y*8+x] = blitter.RGB(uint8(x*16), uint8(y*16), 0)
		}
	}
	if err := term.Present(fb); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	for cy := 0; cy < 2; cy++ {
		for x := 0; x < 4; x++ {
			top := fb.Pixels[(cy*4+1)*8+x*2+1]
			bottom := fb.Pixels[(cy*4+3)*8+x*2+1]
			assertCell(t, sim, x, cy, top, bottom)
		}
	}
}

func TestTerminalPresentInvalid(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 10)
	fb := &blitter.Framebuffer{Width: 4, Height: 4}
	if err := term.Present(fb); !errors.Is(err, blitter.ErrInvalidFramebuffer) {
		t.Errorf("expected ErrInvalidFramebuffer, got %v", err)
	}
}

func waitKey(t *testing.T, term *Terminal) *Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		done := make(chan *Event, 1)
		go func() { done <- term.WaitEvent() }()
		select {
		case e := <-done:
			if e == nil || e.Type != EventResize {
				return e
			}
		case <-deadline:
			t.Fatal("timed out waiting for event")
			return nil
		}
	}
}

func TestTerminalEvents(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 10)

	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	if e := waitKey(t, term); e == nil || e.Key != KeyRune || e.Rune != 'a' {
		t.Errorf("rune key = %+v", e)
	}

	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if e := waitKey(t, term); e == nil || e.Key != KeyEscape {
		t.Errorf("escape = %+v", e)
	}

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	if e := waitKey(t, term); e == nil || e.Type != EventQuit {
		t.Errorf("ctrl-c = %+v", e)
	}
}

func TestTerminalConvertResize(t *testing.T) {
	term := &Terminal{}
	e := term.convertEvent(tcell.NewEventResize(40, 12))
	if e == nil || e.Type != EventResize || e.Width != 40 || e.Height != 24 {
		t.Errorf("resize = %+v", e)
	}
}

var (
	errWrite = errors.New("write refused")
	errClose = errors.New("close refused")
)

// brokenServer completes the connection handshake, then fails every later
// write and the final close.
type brokenServer struct {
	in     *bytes.Reader
	writes int
}

func (s *brokenServer) Read(p []byte) (int, error) { return s.in.Read(p) }

func (s *brokenServer) Write(p []byte) (int, error) {
	s.writes++
	if s.writes > 1 {
		return 0, errWrite
	}
	return len(p), nil
}

func (s *brokenServer) Close() error { return errClose }

// minimalSetup is a successful setup reply with one screen and no formats.
func minimalSetup() []byte {
	data := make([]byte, 32+40)
	binary.LittleEndian.PutUint32(data[8:], 0x001FFFFF)
	data[20] = 1 // screens
	data[32+38] = 24

	header := make([]byte, 8)
	header[0] = 1
	binary.LittleEndian.PutUint16(header[6:], uint16(len(data)/4))
	return append(header, data...)
}

func TestWindowCloseReportsErrors(t *testing.T) {
	conn, err := x11.NewConn(&brokenServer{in: bytes.NewReader(minimalSetup())}, nil)
	if err != nil {
		t.Fatalf("NewConn failed: %v", err)
	}
	w := &Window{queue: newQueue(), conn: conn, cfg: Config{Scale: 1}}

	err = w.Close()
	if !errors.Is(err, errWrite) {
		t.Errorf("Close err = %v, want the failed FreeGC/DestroyWindow write", err)
	}
	if !errors.Is(err, errClose) {
		t.Errorf("Close err = %v, want the failed connection close", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}
