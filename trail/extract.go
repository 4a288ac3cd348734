package trail

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/vmath"
)

var (
	// ErrTooShort is returned when the live trail holds fewer points than the stamp minimum
	ErrTooShort = fmt.Errorf("%w: trail too short to stamp", core.ErrPrecondition)

	// ErrCapacityExceeded is returned under OverflowReject when the trail exceeds the working buffer
	ErrCapacityExceeded = fmt.Errorf("%w: trail exceeds working buffer", core.ErrCapacityExceeded)

	// ErrNilSource is returned when Extract is called without a live trail
	ErrNilSource = errors.New("nil trail source")
)

// OverflowPolicy selects extractor behavior when the live trail exceeds the working buffer
type OverflowPolicy uint8

const (
	// OverflowTruncate keeps the most recent points and drops the oldest
	OverflowTruncate OverflowPolicy = iota
	// OverflowReject refuses the snapshot with ErrCapacityExceeded
	OverflowReject
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowTruncate:
		return parameter.OverflowTruncate
	case OverflowReject:
		return parameter.OverflowReject
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy maps a config name to a policy
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case parameter.OverflowTruncate, "":
		return OverflowTruncate, nil
	case parameter.OverflowReject:
		return OverflowReject, nil
	default:
		return 0, fmt.Errorf("%w: unknown overflow policy %q", core.ErrConfiguration, s)
	}
}

// Extractor copies the live trail into immutable snapshots through a reused working buffer
type Extractor struct {
	buf       []vmath.Vec3F
	minPoints int
	policy    OverflowPolicy
}

// NewExtractor creates an extractor with a working buffer of the given capacity
func NewExtractor(capacity, minPoints int, policy OverflowPolicy) (*Extractor, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: working buffer capacity %d", core.ErrConfiguration, capacity)
	}
	if minPoints < 1 {
		return nil, fmt.Errorf("%w: minimum points %d", core.ErrConfiguration, minPoints)
	}
	if minPoints > capacity {
		return nil, fmt.Errorf("%w: minimum points %d exceeds working buffer %d", core.ErrConfiguration, minPoints, capacity)
	}
	return &Extractor{
		buf:       make([]vmath.Vec3F, capacity),
		minPoints: minPoints,
		policy:    policy,
	}, nil
}

// Capacity returns the working buffer bound
func (e *Extractor) Capacity() int {
	return len(e.buf)
}

// MinPoints returns the stamp minimum
func (e *Extractor) MinPoints() int {
	return e.minPoints
}

// Policy returns the overflow policy
func (e *Extractor) Policy() OverflowPolicy {
	return e.policy
}

// Extract reads the live trail in chronological order without modifying it
// Clearing the source is the caller's job and must happen whatever Extract returns
func (e *Extractor) Extract(src Source, now time.Time) (Snapshot, error) {
	if src == nil {
		return Snapshot{}, ErrNilSource
	}

	available := src.Len()
	if available < e.minPoints {
		return Snapshot{}, fmt.Errorf("%w: %d < %d", ErrTooShort, available, e.minPoints)
	}

	truncated := false
	want := available
	if available > len(e.buf) {
		if e.policy == OverflowReject {
			return Snapshot{}, fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, available, len(e.buf))
		}
		want = len(e.buf)
		truncated = true
	}

	n := src.CopyTail(e.buf[:want])
	if n < e.minPoints {
		return Snapshot{}, fmt.Errorf("%w: %d < %d", ErrTooShort, n, e.minPoints)
	}

	return newSnapshot(e.buf[:n], now, available-n, truncated), nil
}
