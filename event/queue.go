package event

import (
	"sync/atomic"

	"github.com/lixenwraith/ghost-trail/parameter"
)

// slot holds one queued event and the position it was written for
type slot struct {
	event GameEvent
	seq   atomic.Uint64 // position+1 once written, so a stale lap never reads as ready
}

// EventQueue is a lock-free MPSC ring of emitter requests
//
// Thread-Safety:
//   - Push: lock-free, any number of producers (input goroutine, host callbacks, emitters)
//   - Drain/Consume: single consumer, the router during a scheduler step
//
// A full ring overwrites its oldest unread events; Dropped counts them
type EventQueue struct {
	slots   [parameter.EventQueueSize]slot
	head    atomic.Uint64 // Next position to read
	tail    atomic.Uint64 // Next position to claim
	dropped atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push claims the next position and publishes ev there
// Returns true when an unread event was overwritten to make room
func (eq *EventQueue) Push(ev GameEvent) bool {
	pos := eq.tail.Add(1) - 1
	s := &eq.slots[pos&parameter.EventBufferMask]
	s.event = ev
	s.seq.Store(pos + 1) // Publish after the write

	for {
		head := eq.head.Load()
		oldest := pos + 1 - parameter.EventQueueSize
		if pos+1 <= parameter.EventQueueSize || head >= oldest {
			return false
		}
		if eq.head.CompareAndSwap(head, oldest) {
			eq.dropped.Add(oldest - head)
			return true
		}
	}
}

// Drain appends every published pending event to dst in FIFO order and advances head
// Reading stops at the first slot whose producer has not finished writing
func (eq *EventQueue) Drain(dst []GameEvent) []GameEvent {
	for {
		head := eq.head.Load()
		tail := eq.tail.Load()
		if tail == head {
			return dst
		}

		start := head
		if tail-start > parameter.EventQueueSize {
			start = tail - parameter.EventQueueSize
		}

		n := len(dst)
		pos := start
		for ; pos < tail; pos++ {
			s := &eq.slots[pos&parameter.EventBufferMask]
			if s.seq.Load() != pos+1 {
				break
			}
			dst = append(dst, s.event)
		}

		if eq.head.CompareAndSwap(head, pos) {
			return dst
		}
		// A producer moved head past an overwrite, reread from the new head
		dst = dst[:n]
	}
}

// Consume returns all pending events in a fresh slice, nil when none are ready
func (eq *EventQueue) Consume() []GameEvent {
	events := eq.Drain(nil)
	if len(events) == 0 {
		return nil
	}
	return events
}

// Len returns the approximate pending event count
func (eq *EventQueue) Len() int {
	head := eq.head.Load()
	tail := eq.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, parameter.EventQueueSize))
}

// Cap returns the ring capacity
func (eq *EventQueue) Cap() int {
	return parameter.EventQueueSize
}

// Dropped returns the number of events overwritten before they were read
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}
