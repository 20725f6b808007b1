// Package settle delays hover lookups until the pointer has rested on one
// target for a fixed time. The gate holds no timers itself; the caller
// schedules a wake-up carrying the ticket returned by Enter and calls Fire
// when it arrives.
package settle

import "time"

// DefaultDelay is how long a hover must rest before it fires.
const DefaultDelay = 120 * time.Millisecond

// Ticket identifies one scheduled wake-up. The zero ticket is never issued.
type Ticket uint64

// Gate tracks the single pending hover of type T.
type Gate[T comparable] struct {
	Delay time.Duration

	seq     Ticket
	pending Ticket
	target  T
	armed   bool
}

// New creates a gate that fires after delay.
func New[T comparable](delay time.Duration) *Gate[T] {
	return &Gate[T]{Delay: delay}
}

// Enter records that the pointer moved onto target and returns the ticket
// the caller must present to Fire after Delay. Any previously pending ticket
// is cancelled.
func (g *Gate[T]) Enter(target T) Ticket {
	g.seq++
	g.pending = g.seq
	g.target = target
	g.armed = true
	return g.pending
}

// Leave cancels the pending ticket.
func (g *Gate[T]) Leave() {
	g.armed = false
	g.pending = 0
}

// Pending returns the target waiting to fire, if any.
func (g *Gate[T]) Pending() (T, bool) {
	return g.target, g.armed
}

// Fire consumes ticket and returns its target when the ticket is still the
// pending one and the pointer is still over the same target.
func (g *Gate[T]) Fire(ticket Ticket, current T) (T, bool) {
	var zero T
	if !g.armed || ticket != g.pending {
		return zero, false
	}

	target := g.target
	g.Leave()

	if current != target {
		return zero, false
	}
	return target, true
}
