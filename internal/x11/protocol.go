package x11

import "encoding/binary"

// X11 Request Opcodes
const (
	OpCreateWindow   = 1
	OpDestroyWindow  = 4
	OpMapWindow      = 8
	OpInternAtom     = 16
	OpChangeProperty = 18
	OpCreateGC       = 55
	OpFreeGC         = 60
	OpPutImage       = 72
)

// Window classes
const (
	WindowClassInputOutput = 1
)

// Window attributes mask
const (
	CWBackPixel = 1 << 1
	CWEventMask = 1 << 11
)

// Graphics Context value masks
const (
	GCForeground        = 1 << 2
	GCBackground        = 1 << 3
	GCGraphicsExposures = 1 << 16
)

// Event masks - these determine which events we receive
const (
	KeyPressMask        = 1 << 0
	KeyReleaseMask      = 1 << 1
	ExposureMask        = 1 << 15
	StructureNotifyMask = 1 << 17
)

// Event types - the type field in event packets
const (
	EventError           = 0
	EventReply           = 1
	EventKeyPress        = 2
	EventKeyRelease      = 3
	EventExpose          = 12
	EventConfigureNotify = 22
	EventClientMessage   = 33
)

// ImageFormatZPixmap sends raw packed pixels with PutImage.
const ImageFormatZPixmap = 2

// defaultMaxRequestLength is the smallest maximum request length, in 4-byte
// units, a server may advertise.
const defaultMaxRequestLength = 4096

// newRequest allocates a request of units 4-byte words with the opcode,
// detail byte and length filled in.
func newRequest(op, detail byte, units int) []byte {
	req := make([]byte, units*4)
	req[0] = op
	req[1] = detail
	binary.LittleEndian.PutUint16(req[2:], uint16(units))
	return req
}

// pad4 returns the padding needed to align n to 4 bytes.
func pad4(n int) int {
	return (4 - n%4) % 4
}
