package parameter

import "time"

// Loop & Scheduler Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// SchedulerTickInterval is the logic tick driving fade reclamation
	// Fades are evaluated against the clock, so tick rate only bounds reclamation latency
	SchedulerTickInterval = 16 * time.Millisecond
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)
