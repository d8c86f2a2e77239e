package x11

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Xauthority address families
const (
	FamilyLocalHost = 252
	FamilyLocal     = 256
	FamilyWild      = 65535
)

// AuthEntry represents an Xauthority entry
type AuthEntry struct {
	Family  uint16
	Address string
	Display string
	Name    string
	Data    []byte
}

// ReadXauthority reads $XAUTHORITY, or ~/.Xauthority when it is unset.
func ReadXauthority() ([]AuthEntry, error) {
	path := os.Getenv("XAUTHORITY")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".Xauthority")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseXauthority(f)
}

// ParseXauthority decodes Xauthority entries until EOF.
func ParseXauthority(r io.Reader) ([]AuthEntry, error) {
	var entries []AuthEntry
	for {
		var e AuthEntry
		if err := binary.Read(r, binary.BigEndian, &e.Family); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, err
		}

		// address, display number, auth name, auth data
		var fields [4][]byte
		for i := range fields {
			b, err := readCounted(r)
			if err != nil {
				return nil, err
			}
			fields[i] = b
		}
		e.Address = string(fields[0])
		e.Display = string(fields[1])
		e.Name = string(fields[2])
		e.Data = fields[3]
		entries = append(entries, e)
	}
}

// readCounted reads a big-endian uint16 length followed by that many bytes.
func readCounted(r io.Reader) ([]byte, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	return b, nil
}

// FindAuth returns the first entry usable for display on hostname, or nil.
func FindAuth(entries []AuthEntry, display, hostname string) *AuthEntry {
	for i := range entries {
		e := &entries[i]
		if e.Display != display && e.Display != "" {
			continue
		}

		switch e.Family {
		case FamilyWild, FamilyLocalHost:
			return e
		case FamilyLocal:
			if e.Address == hostname || e.Address == "" {
				return e
			}
		default:
			if e.Address == hostname || e.Address == "localhost" || e.Address == "" {
				return e
			}
		}
	}
	return nil
}
