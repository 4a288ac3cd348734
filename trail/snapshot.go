package trail

import (
	"time"

	"github.com/lixenwraith/ghost-trail/vmath"
)

// Snapshot is an immutable ordered copy of a live trail taken at one instant
// The zero value is empty and is never produced by a successful Extract
type Snapshot struct {
	points    []vmath.Vec3F
	taken     time.Time
	dropped   int
	truncated bool
}

// NewSnapshot copies points into a snapshot, used by hosts that record elsewhere
func NewSnapshot(points []vmath.Vec3F, taken time.Time) Snapshot {
	return newSnapshot(points, taken, 0, false)
}

func newSnapshot(points []vmath.Vec3F, taken time.Time, dropped int, truncated bool) Snapshot {
	owned := make([]vmath.Vec3F, len(points))
	copy(owned, points)
	return Snapshot{
		points:    owned,
		taken:     taken,
		dropped:   dropped,
		truncated: truncated,
	}
}

// Len returns the number of positions
func (s Snapshot) Len() int {
	return len(s.points)
}

// Empty reports whether the snapshot holds no positions
func (s Snapshot) Empty() bool {
	return len(s.points) == 0
}

// At returns position i, oldest first
func (s Snapshot) At(i int) vmath.Vec3F {
	return s.points[i]
}

// Points returns a copy of the positions
func (s Snapshot) Points() []vmath.Vec3F {
	out := make([]vmath.Vec3F, len(s.points))
	copy(out, s.points)
	return out
}

// AppendTo appends the positions to dst and returns the extended slice
func (s Snapshot) AppendTo(dst []vmath.Vec3F) []vmath.Vec3F {
	return append(dst, s.points...)
}

// Taken returns the capture time
func (s Snapshot) Taken() time.Time {
	return s.taken
}

// Truncated reports whether older points were dropped to fit the working buffer
func (s Snapshot) Truncated() bool {
	return s.truncated
}

// Dropped returns the number of oldest points discarded by truncation
func (s Snapshot) Dropped() int {
	return s.dropped
}
