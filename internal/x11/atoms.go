package x11

import (
	"encoding/binary"
	"fmt"
)

// Atom is an X11 atom (interned string identifier)
type Atom uint32

// Atoms holds the atoms needed for window manager integration.
type Atoms struct {
	WMProtocols    Atom
	WMDeleteWindow Atom
	WMName         Atom
	String         Atom
	UTF8String     Atom
	NetWMName      Atom
	Atom           Atom
}

// InternAtom converts a string to an atom
func (c *Conn) InternAtom(name string, onlyIfExists bool) (Atom, error) {
	var detail byte
	if onlyIfExists {
		detail = 1
	}

	req := newRequest(OpInternAtom, detail, 2+(len(name)+pad4(len(name)))/4)
	binary.LittleEndian.PutUint16(req[4:], uint16(len(name)))
	copy(req[8:], name)

	if err := c.send(req); err != nil {
		return 0, err
	}
	reply, err := c.readReply()
	if err != nil {
		return 0, fmt.Errorf("x11: intern %s: %w", name, err)
	}
	return Atom(binary.LittleEndian.Uint32(reply[8:12])), nil
}

// InitAtoms interns every atom in c.Atoms.
func (c *Conn) InitAtoms() error {
	for _, a := range []struct {
		name string
		dst  *Atom
	}{
		{"WM_PROTOCOLS", &c.Atoms.WMProtocols},
		{"WM_DELETE_WINDOW", &c.Atoms.WMDeleteWindow},
		{"WM_NAME", &c.Atoms.WMName},
		{"STRING", &c.Atoms.String},
		{"UTF8_STRING", &c.Atoms.UTF8String},
		{"_NET_WM_NAME", &c.Atoms.NetWMName},
		{"ATOM", &c.Atoms.Atom},
	} {
		atom, err := c.InternAtom(a.name, false)
		if err != nil {
			return err
		}
		*a.dst = atom
	}
	return nil
}

// ChangeProperty replaces a window property. format is 8, 16 or 32.
func (c *Conn) ChangeProperty(window uint32, property, propType Atom, format uint8, data []byte) error {
	req := newRequest(OpChangeProperty, 0, 6+(len(data)+pad4(len(data)))/4)
	binary.LittleEndian.PutUint32(req[4:], window)
	binary.LittleEndian.PutUint32(req[8:], uint32(property))
	binary.LittleEndian.PutUint32(req[12:], uint32(propType))
	req[16] = format
	binary.LittleEndian.PutUint32(req[20:], uint32(len(data)/(int(format)/8)))
	copy(req[24:], data)
	return c.send(req)
}

// SetWindowTitle sets both WM_NAME and _NET_WM_NAME.
func (c *Conn) SetWindowTitle(window uint32, title string) error {
	if err := c.ChangeProperty(window, c.Atoms.WMName, c.Atoms.String, 8, []byte(title)); err != nil {
		return err
	}
	return c.ChangeProperty(window, c.Atoms.NetWMName, c.Atoms.UTF8String, 8, []byte(title))
}

// EnableCloseButton registers for WM_DELETE_WINDOW messages
func (c *Conn) EnableCloseButton(window uint32) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(c.Atoms.WMDeleteWindow))
	return c.ChangeProperty(window, c.Atoms.WMProtocols, c.Atoms.Atom, 32, data)
}

// IsDeleteWindow reports whether e is the window manager asking to close.
func (c *Conn) IsDeleteWindow(e ClientMessageEvent) bool {
	if e.Format != 32 {
		return false
	}
	return Atom(binary.LittleEndian.Uint32(e.Data[0:4])) == c.Atoms.WMDeleteWindow
}
