package x11

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// fakeServer replays canned server bytes and records everything written.
type fakeServer struct {
	in  *bytes.Reader
	out bytes.Buffer
}

func newFakeServer(replies ...[]byte) *fakeServer {
	return &fakeServer{in: bytes.NewReader(bytes.Join(replies, nil))}
}

func (f *fakeServer) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeServer) Write(p []byte) (int, error) { return f.out.Write(p) }
func (f *fakeServer) Close() error                { return nil }

// setupReply builds a successful connection setup reply with one 24-bit
// screen of 1920x1080 whose pixels are 32 bits wide.
func setupReply(maxRequest uint16) []byte {
	vendor := "Test"
	data := make([]byte, 32+len(vendor)+8+40)
	binary.LittleEndian.PutUint32(data[4:], 0x00400000)
	binary.LittleEndian.PutUint32(data[8:], 0x001FFFFF)
	binary.LittleEndian.PutUint16(data[16:], uint16(len(vendor)))
	binary.LittleEndian.PutUint16(data[18:], maxRequest)
	data[20] = 1 // screens
	data[21] = 1 // formats
	copy(data[32:], vendor)

	format := data[36:]
	format[0] = 24
	format[1] = 32
	format[2] = 32

	screen := data[44:]
	binary.LittleEndian.PutUint32(screen[0:], 0x100)
	binary.LittleEndian.PutUint16(screen[20:], 1920)
	binary.LittleEndian.PutUint16(screen[22:], 1080)
	binary.LittleEndian.PutUint32(screen[32:], 0x21)
	screen[38] = 24

	header := make([]byte, 8)
	header[0] = 1
	binary.LittleEndian.PutUint16(header[2:], 11)
	binary.LittleEndian.PutUint16(header[6:], uint16(len(data)/4))
	return append(header, data...)
}

func TestNewConn(t *testing.T) {
	srv := newFakeServer(setupReply(4096))
	c, err := NewConn(srv, &AuthEntry{Name: "MIT-MAGIC-COOKIE-1", Data: make([]byte, 16)})
	if err != nil {
		t.Fatalf("NewConn failed: %v", err)
	}

	if c.RootWindow != 0x100 || c.RootVisual != 0x21 {
		t.Errorf("root window/visual = %#x/%#x, want 0x100/0x21", c.RootWindow, c.RootVisual)
	}
	if c.RootDepth != 24 || c.BitsPerPixel != 32 {
		t.Errorf("depth/bpp = %d/%d, want 24/32", c.RootDepth, c.BitsPerPixel)
	}
	if c.ScreenWidth != 1920 || c.ScreenHeight != 1080 {
		t.Errorf("screen = %dx%d, want 1920x1080", c.ScreenWidth, c.ScreenHeight)
	}
	if c.MaxRequestLength != 4096 {
		t.Errorf("MaxRequestLength = %d, want 4096", c.MaxRequestLength)
	}

	sent := srv.out.Bytes()
	// 12 byte header + 18 byte name padded to 20 + 16 byte cookie
	if len(sent) != 48 {
		t.Fatalf("setup request is %d bytes, want 48", len(sent))
	}
	if sent[0] != 'l' {
		t.Errorf("byte order = %q, want 'l'", sent[0])
	}
	if got := binary.LittleEndian.Uint16(sent[6:]); got != 18 {
		t.Errorf("auth name length = %d, want 18", got)
	}
	if got := string(sent[12:30]); got != "MIT-MAGIC-COOKIE-1" {
		t.Errorf("auth name = %q", got)
	}
}

func TestNewConnRefused(t *testing.T) {
	reason := []byte("No protocol specified\n\x00\x00")
	header := make([]byte, 8)
	header[0] = 0
	header[1] = 22
	binary.LittleEndian.PutUint16(header[6:], uint16(len(reason)/4))

	_, err := NewConn(newFakeServer(header, reason), nil)
	if !errors.Is(err, ErrSetup) {
		t.Fatalf("expected ErrSetup, got %v", err)
	}
}

func TestNewConnTruncated(t *testing.T) {
	reply := setupReply(4096)
	// claim the full length but deliver only part of it
	_, err := NewConn(newFakeServer(reply[:40]), nil)
	if err == nil {
		t.Fatal("expected error for truncated setup reply")
	}
}

func TestParseSetupShort(t *testing.T) {
	c := &Conn{}
	if err := c.parseSetup(make([]byte, 16)); !errors.Is(err, ErrSetup) {
		t.Errorf("16 bytes: expected ErrSetup, got %v", err)
	}

	data := setupReply(4096)[8:]
	if err := c.parseSetup(data[:60]); !errors.Is(err, ErrSetup) {
		t.Errorf("cut screen: expected ErrSetup, got %v", err)
	}
}

func TestGenerateID(t *testing.T) {
	c := &Conn{ResourceIDBase: 0x00400000, ResourceIDMask: 0x001FFFFF}
	a, b := c.GenerateID(), c.GenerateID()
	if a != 0x00400000 || b != 0x00400001 {
		t.Errorf("ids = %#x, %#x", a, b)
	}
}

func TestDisplayNumber(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"", "0"},
		{":0", "0"},
		{":1.0", "1"},
		{"unix:2", "2"},
		{"localhost:10.0", "10"},
		{":", "0"},
	}
	for _, tt := range tests {
		if got := DisplayNumber(tt.display); got != tt.want {
			t.Errorf("DisplayNumber(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}

func TestInternAtomSkipsEvents(t *testing.T) {
	event := make([]byte, 32)
	event[0] = EventExpose

	reply := make([]byte, 32)
	reply[0] = EventReply
	binary.LittleEndian.PutUint32(reply[8:], 301)

	srv := newFakeServer(event, reply)
	c := &Conn{rw: srv}
	atom, err := c.InternAtom("WM_PROTOCOLS", false)
	if err != nil {
		t.Fatalf("InternAtom failed: %v", err)
	}
	if atom != 301 {
		t.Errorf("atom = %d, want 301", atom)
	}

	req := srv.out.Bytes()
	if req[0] != OpInternAtom {
		t.Errorf("opcode = %d, want %d", req[0], OpInternAtom)
	}
	// 8 byte header + 12 byte name
	if got := binary.LittleEndian.Uint16(req[2:]); got != 5 {
		t.Errorf("request length = %d units, want 5", got)
	}
}

func TestInternAtomError(t *testing.T) {
	reply := make([]byte, 32)
	reply[0] = EventError
	reply[1] = 11

	c := &Conn{rw: newFakeServer(reply)}
	if _, err := c.InternAtom("ATOM", true); err == nil {
		t.Fatal("expected error reply to surface")
	}
}

func TestSetWindowTitle(t *testing.T) {
	srv := newFakeServer()
	c := &Conn{rw: srv, Atoms: Atoms{WMName: 39, String: 31, NetWMName: 300, UTF8String: 301}}
	if err := c.SetWindowTitle(7, "hello"); err != nil {
		t.Fatalf("SetWindowTitle failed: %v", err)
	}

	out := srv.out.Bytes()
	// two ChangeProperty requests of 24 bytes + "hello" padded to 8
	if len(out) != 64 {
		t.Fatalf("wrote %d bytes, want 64", len(out))
	}
	for i, wantProp := range []uint32{39, 300} {
		req := out[i*32:]
		if req[0] != OpChangeProperty {
			t.Errorf("request %d opcode = %d", i, req[0])
		}
		if got := binary.LittleEndian.Uint32(req[8:]); got != wantProp {
			t.Errorf("request %d property = %d, want %d", i, got, wantProp)
		}
		if got := binary.LittleEndian.Uint32(req[20:]); got != 5 {
			t.Errorf("request %d length = %d, want 5", i, got)
		}
		if got := string(req[24:29]); got != "hello" {
			t.Errorf("request %d data = %q", i, got)
		}
	}
}
