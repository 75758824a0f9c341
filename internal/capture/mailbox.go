package capture

import (
	"sync"

	"github.com/LeCadavrExquis/mierzo-puls/internal/frame"
)

// Mailbox is a single-slot frame buffer between the camera grabber and the
// analysis worker. Publish never blocks: an unconsumed frame is overwritten
// and counted as a drop, so the worker always sees the latest frame and can
// never fall behind under load. The analysis side is strictly single
// consumer, which preserves frame order for the state machine.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	slot   *frame.Raw
	drops  uint64
	closed bool
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Publish places a frame in the slot, replacing any unconsumed frame.
// Non-blocking; a no-op after Close.
func (m *Mailbox) Publish(f *frame.Raw) {
	if f == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.slot != nil {
		m.drops++
	}
	m.slot = f
	m.cond.Signal()
}

// Next blocks until a frame is available and consumes it.
// Returns nil once the mailbox has been closed.
func (m *Mailbox) Next() *frame.Raw {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.slot == nil && !m.closed {
		m.cond.Wait()
	}
	if m.slot == nil {
		return nil
	}

	f := m.slot
	m.slot = nil
	return f
}

// Close wakes any blocked consumer and makes further publishes no-ops.
// Idempotent.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.slot = nil
	m.cond.Broadcast()
}

// Drops returns how many frames were overwritten before being consumed.
func (m *Mailbox) Drops() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drops
}
