package x11

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
)

// ErrSetup is returned when the server refuses the connection or sends a
// setup reply that cannot be parsed.
var ErrSetup = errors.New("x11: connection setup failed")

// Conn represents a connection to the X11 server
type Conn struct {
	rw io.ReadWriteCloser

	// writes come from the drawing goroutine, reads from the event reader
	wmu sync.Mutex

	// Setup information from server
	ResourceIDBase   uint32
	ResourceIDMask   uint32
	MaxRequestLength uint16 // in 4-byte units
	RootWindow       uint32
	RootVisual       uint32
	RootDepth        uint8
	BitsPerPixel     uint8 // Bits per pixel for RootDepth
	ScreenWidth      uint16
	ScreenHeight     uint16

	Atoms Atoms

	nextID uint32
}

// DisplayNumber extracts the display number from a DISPLAY value such as
// ":0", ":1.0" or "unix:2". An empty value means display 0.
func DisplayNumber(display string) string {
	num := "0"
	if idx := strings.LastIndex(display, ":"); idx != -1 {
		num = display[idx+1:]
		if dot := strings.Index(num, "."); dot != -1 {
			num = num[:dot]
		}
	}
	if num == "" {
		num = "0"
	}
	return num
}

// Dial connects to the X server named by display (or $DISPLAY when empty)
// over its Unix socket, authenticating with the matching Xauthority entry.
func Dial(display string) (*Conn, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	num := DisplayNumber(display)

	sock, err := net.Dial("unix", "/tmp/.X11-unix/X"+num)
	if err != nil {
		return nil, fmt.Errorf("x11: connect to display %s: %w", num, err)
	}

	var auth *AuthEntry
	if entries, err := ReadXauthority(); err == nil {
		hostname, _ := os.Hostname()
		auth = FindAuth(entries, num, hostname)
	}

	c, err := NewConn(sock, auth)
	if err != nil {
		sock.Close()
		return nil, err
	}
	if err := c.InitAtoms(); err != nil {
		sock.Close()
		return nil, fmt.Errorf("x11: init atoms: %w", err)
	}
	return c, nil
}

// NewConn performs the connection setup handshake over rw. auth may be nil.
func NewConn(rw io.ReadWriteCloser, auth *AuthEntry) (*Conn, error) {
	c := &Conn{rw: rw}
	if err := c.handshake(auth); err != nil {
		return nil, err
	}
	return c, nil
}

// Close closes the connection
func (c *Conn) Close() error {
	return c.rw.Close()
}

func (c *Conn) send(req []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.rw.Write(req)
	return err
}

func (c *Conn) handshake(auth *AuthEntry) error {
	var authName, authData []byte
	if auth != nil {
		authName = []byte(auth.Name)
		authData = auth.Data
	}

	namePad := pad4(len(authName))
	setup := make([]byte, 12+len(authName)+namePad+len(authData)+pad4(len(authData)))
	setup[0] = 'l'                                                  // Little-endian
	binary.LittleEndian.PutUint16(setup[2:], 11)                    // Protocol major version
	binary.LittleEndian.PutUint16(setup[4:], 0)                     // Protocol minor version
	binary.LittleEndian.PutUint16(setup[6:], uint16(len(authName))) // Auth protocol name length
	binary.LittleEndian.PutUint16(setup[8:], uint16(len(authData))) // Auth data length
	copy(setup[12:], authName)
	copy(setup[12+len(authName)+namePad:], authData)

	if err := c.send(setup); err != nil {
		return fmt.Errorf("x11: send setup: %w", err)
	}

	header := make([]byte, 8)
	if _, err := io.ReadFull(c.rw, header); err != nil {
		return fmt.Errorf("x11: read setup reply: %w", err)
	}
	data := make([]byte, int(binary.LittleEndian.Uint16(header[6:]))*4)
	if _, err := io.ReadFull(c.rw, data); err != nil {
		return fmt.Errorf("x11: read setup data: %w", err)
	}

	switch header[0] {
	case 0: // Failed
		reason := data[:min(int(header[1]), len(data))]
		return fmt.Errorf("%w: %s", ErrSetup, reason)
	case 1: // Success
		return c.parseSetup(data)
	case 2: // Authenticate
		return fmt.Errorf("%w: server requires further authentication", ErrSetup)
	default:
		return fmt.Errorf("%w: unknown status %d", ErrSetup, header[0])
	}
}

func (c *Conn) parseSetup(data []byte) error {
	if len(data) < 32 {
		return fmt.Errorf("%w: reply of %d bytes", ErrSetup, len(data))
	}
	c.ResourceIDBase = binary.LittleEndian.Uint32(data[4:8])
	c.ResourceIDMask = binary.LittleEndian.Uint32(data[8:12])
	vendorLen := int(binary.LittleEndian.Uint16(data[16:18]))
	c.MaxRequestLength = binary.LittleEndian.Uint16(data[18:20])
	numScreens := data[20]
	numFormats := int(data[21])

	if numScreens == 0 {
		return fmt.Errorf("%w: no screens available", ErrSetup)
	}

	// Vendor string is padded to 4-byte boundary
	formatOffset := 32 + vendorLen + pad4(vendorLen)
	screenOffset := formatOffset + numFormats*8
	if len(data) < screenOffset+40 {
		return fmt.Errorf("%w: reply truncated before first screen", ErrSetup)
	}

	screen := data[screenOffset:]
	c.RootWindow = binary.LittleEndian.Uint32(screen[0:4])
	c.ScreenWidth = binary.LittleEndian.Uint16(screen[20:22])
	c.ScreenHeight = binary.LittleEndian.Uint16(screen[22:24])
	c.RootVisual = binary.LittleEndian.Uint32(screen[32:36])
	c.RootDepth = screen[38]

	for i := 0; i < numFormats; i++ {
		f := data[formatOffset+i*8:]
		if f[0] == c.RootDepth {
			c.BitsPerPixel = f[1]
			break
		}
	}
	if c.BitsPerPixel == 0 {
		c.BitsPerPixel = 32
	}

	c.nextID = 0
	return nil
}

// GenerateID generates a new resource ID
func (c *Conn) GenerateID() uint32 {
	id := c.nextID
	c.nextID++
	return (id & c.ResourceIDMask) | c.ResourceIDBase
}

// readReply reads packets until the reply (or error) to the last request
// arrives, dropping any events received in between.
func (c *Conn) readReply() ([]byte, error) {
	buf := make([]byte, 32)
	for {
		if _, err := io.ReadFull(c.rw, buf); err != nil {
			return nil, err
		}
		switch buf[0] {
		case EventError:
			return nil, fmt.Errorf("x11: request error code %d", buf[1])
		case EventReply:
			extra := int(binary.LittleEndian.Uint32(buf[4:8])) * 4
			if extra > 0 {
				if _, err := io.CopyN(io.Discard, c.rw, int64(extra)); err != nil {
					return nil, err
				}
			}
			return buf, nil
		}
	}
}
