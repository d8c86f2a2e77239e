package display

import (
	"sync"

	"github.com/AchrafSoltani/blitter"
)

// EventType identifies the type of event
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventKeyUp
	EventResize
	EventExpose
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventResize:
		return "resize"
	case EventExpose:
		return "expose"
	default:
		return "none"
	}
}

// Event represents an input or window event
type Event struct {
	Type   EventType
	Key    Key
	Rune   rune // set when Key is KeyRune
	Width  int  // For EventResize, in framebuffer pixels
	Height int
}

// Key is a backend-independent key identifier.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyBackspace
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyRune
)

// queue buffers events between a backend's reader goroutine and the
// program's loop.
type queue struct {
	ch   chan Event
	quit chan struct{}
	once sync.Once
}

func newQueue() *queue {
	return &queue{
		ch:   make(chan Event, 256),
		quit: make(chan struct{}),
	}
}

// push delivers e, dropping it when the queue is full. It reports false once
// the queue is stopped.
func (q *queue) push(e Event) bool {
	select {
	case <-q.quit:
		return false
	default:
	}

	select {
	case q.ch <- e:
	case <-q.quit:
		return false
	default:
		blitter.Logger().Debug("display: event queue full, dropping event", "type", e.Type)
	}
	return true
}

// PollEvent returns the next event, or nil if none available
// This is non-blocking - returns immediately
func (q *queue) PollEvent() *Event {
	select {
	case e := <-q.ch:
		return &e
	default:
		return nil
	}
}

// WaitEvent blocks until an event is available
func (q *queue) WaitEvent() *Event {
	select {
	case e := <-q.ch:
		return &e
	case <-q.quit:
		return nil
	}
}

// stop reports whether this call stopped the queue.
func (q *queue) stop() bool {
	stopped := false
	q.once.Do(func() {
		close(q.quit)
		stopped = true
	})
	return stopped
}

func (q *queue) stopped() bool {
	select {
	case <-q.quit:
		return true
	default:
		return false
	}
}
