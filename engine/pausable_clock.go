package engine

import (
	"sync"
	"time"
)

// PausableClock provides scene time that freezes while paused
// Stamps fade against scene time, so a paused sandbox keeps its ghosts at constant opacity
type PausableClock struct {
	mu sync.RWMutex

	base Clock

	realStartTime time.Time // When clock was created (base time)
	sceneStart    time.Time // Scene time epoch

	paused          bool
	pauseStartTime  time.Time     // When current pause started (base time)
	totalPausedTime time.Duration // Cumulative pause duration
}

// NewPausableClock creates a pausable clock over base, nil base uses wall time
func NewPausableClock(base Clock) *PausableClock {
	if base == nil {
		base = NewTimeProvider()
	}
	now := base.Now()
	return &PausableClock{
		base:          base,
		realStartTime: now,
		sceneStart:    now,
	}
}

// Now returns current scene time (frozen during pause)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	ref := pc.base.Now()
	if pc.paused {
		ref = pc.pauseStartTime
	}
	return pc.sceneStart.Add(ref.Sub(pc.realStartTime) - pc.totalPausedTime)
}

// RealTime returns base clock time (unaffected by pause)
func (pc *PausableClock) RealTime() time.Time {
	return pc.base.Now()
}

// Pause stops scene time advancement
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStartTime = pc.base.Now()
}

// Resume continues scene time advancement
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.totalPausedTime += pc.base.Now().Sub(pc.pauseStartTime)
	pc.pauseStartTime = time.Time{}
	pc.paused = false
}

// Toggle flips pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.base.Now()
	if pc.paused {
		pc.totalPausedTime += now.Sub(pc.pauseStartTime)
		pc.pauseStartTime = time.Time{}
		pc.paused = false
		return false
	}
	pc.paused = true
	pc.pauseStartTime = now
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time including an ongoing pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.paused {
		total += pc.base.Now().Sub(pc.pauseStartTime)
	}
	return total
}
