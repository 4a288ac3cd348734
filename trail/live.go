package trail

import (
	"time"

	"github.com/lixenwraith/ghost-trail/vmath"
)

// Source is the live trail capability consumed by the Extractor
type Source interface {
	// Len returns the number of recorded positions
	Len() int
	// CopyTail copies the newest len(dst) positions into dst, oldest first
	// Returns the number copied, which is min(Len(), len(dst))
	CopyTail(dst []vmath.Vec3F) int
	// Clear empties the history; the next recorded point starts a new segment
	Clear()
}

// point is one recorded position with its sample time for lifetime pruning
type point struct {
	pos vmath.Vec3F
	at  time.Time
}

// LiveTrail is the continuously updated point history of a moving entity
// Capacity > 0 is a ring that drops the oldest point when full, 0 is unbounded
// Not safe for concurrent use; owners serialize access
type LiveTrail struct {
	points   []point
	head     int // Index of oldest point when bounded
	count    int
	capacity int

	lifetime    time.Duration
	minDistance float64

	dirty bool
}

// NewLiveTrail creates an empty trail
func NewLiveTrail(capacity int, lifetime time.Duration, minDistance float64) *LiveTrail {
	if capacity < 0 {
		capacity = 0
	}
	t := &LiveTrail{
		capacity:    capacity,
		lifetime:    lifetime,
		minDistance: minDistance,
	}
	if capacity > 0 {
		t.points = make([]point, capacity)
	}
	return t
}

// Record appends a position sampled at now
// Points closer than the minimum vertex distance to the previous point are skipped,
// except the first point of a segment which is always recorded
func (t *LiveTrail) Record(pos vmath.Vec3F, now time.Time) bool {
	if t.count > 0 && t.minDistance > 0 {
		if vmath.V3FDist(t.newest().pos, pos) < t.minDistance {
			return false
		}
	}

	p := point{pos: pos, at: now}
	if t.capacity == 0 {
		t.points = append(t.points, p)
		t.count++
	} else if t.count < t.capacity {
		t.points[(t.head+t.count)%t.capacity] = p
		t.count++
	} else {
		// Full ring: overwrite oldest
		t.points[t.head] = p
		t.head = (t.head + 1) % t.capacity
	}

	t.dirty = true
	return true
}

// Prune drops points older than the trail lifetime, returns the number removed
func (t *LiveTrail) Prune(now time.Time) int {
	if t.lifetime <= 0 || t.count == 0 {
		return 0
	}

	removed := 0
	for t.count > 0 && now.Sub(t.oldest().at) > t.lifetime {
		t.dropOldest()
		removed++
	}
	return removed
}

// Len returns the number of recorded positions
func (t *LiveTrail) Len() int {
	return t.count
}

// Capacity returns the ring size, 0 for unbounded
func (t *LiveTrail) Capacity() int {
	return t.capacity
}

// Dirty reports whether a point was recorded since the last Clear
func (t *LiveTrail) Dirty() bool {
	return t.dirty
}

// CopyTail copies the newest len(dst) positions into dst, oldest first
func (t *LiveTrail) CopyTail(dst []vmath.Vec3F) int {
	n := len(dst)
	if n > t.count {
		n = t.count
	}
	skip := t.count - n
	for i := 0; i < n; i++ {
		dst[i] = t.at(skip + i).pos
	}
	return n
}

// Positions returns a copy of all recorded positions, oldest first
func (t *LiveTrail) Positions() []vmath.Vec3F {
	out := make([]vmath.Vec3F, t.count)
	t.CopyTail(out)
	return out
}

// Last returns the newest recorded position
func (t *LiveTrail) Last() (vmath.Vec3F, bool) {
	if t.count == 0 {
		return vmath.Vec3F{}, false
	}
	return t.newest().pos, true
}

// Clear empties the trail so the next point does not connect to history before a teleport
func (t *LiveTrail) Clear() {
	if t.capacity == 0 {
		t.points = t.points[:0]
	} else {
		clear(t.points)
	}
	t.head = 0
	t.count = 0
	t.dirty = false
}

func (t *LiveTrail) at(i int) point {
	if t.capacity == 0 {
		return t.points[i]
	}
	return t.points[(t.head+i)%t.capacity]
}

func (t *LiveTrail) oldest() point {
	return t.at(0)
}

func (t *LiveTrail) newest() point {
	return t.at(t.count - 1)
}

func (t *LiveTrail) dropOldest() {
	if t.capacity == 0 {
		t.points = t.points[1:]
	} else {
		t.points[t.head] = point{}
		t.head = (t.head + 1) % t.capacity
	}
	t.count--
}
