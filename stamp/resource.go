package stamp

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/vmath"
)

// Line is the host visual a stamp renders through
type Line interface {
	SetPositions(points []vmath.Vec3F)
	SetVisible(visible bool)
}

// Template builds the line and fade driver for a new stamp
// The pool passes its own curve and opening alpha so drivers and Pool.Alpha never disagree
// Plays the role of a prefab: the pool cannot grow without one
type Template func(curve fade.Curve, alpha0 float64) (Line, fade.Driver)

// state of a resource within the pool
type state uint8

const (
	stateFree state = iota
	stateAcquired
	stateStamped
)

func (s state) String() string {
	switch s {
	case stateFree:
		return "free"
	case stateAcquired:
		return "acquired"
	case stateStamped:
		return "stamped"
	default:
		return "unknown"
	}
}

// Resource is one reusable faded trail instance
// Owned by its Pool; positions are stale and never read while free
type Resource struct {
	pool   *Pool
	id     uuid.UUID
	line   Line
	driver fade.Driver

	positions  []vmath.Vec3F
	state      state
	activation time.Time
	duration   time.Duration

	seq       uint64 // Stamp order, heap tie-break
	heapIndex int    // -1 when not scheduled
}

func newResource(line Line, driver fade.Driver) *Resource {
	return &Resource{
		id:        uuid.New(),
		line:      line,
		driver:    driver,
		heapIndex: -1,
	}
}

// ID returns the stable handle of the resource
func (r *Resource) ID() uuid.UUID {
	return r.id
}

// Line returns the host visual
func (r *Resource) Line() Line {
	return r.line
}

// Driver returns the fade-parameter backend
func (r *Resource) Driver() fade.Driver {
	return r.driver
}

// Active reports whether the resource is out of the free queue
func (r *Resource) Active() bool {
	return r.state != stateFree
}

// Stamped reports whether positions and fade state have been assigned since acquisition
func (r *Resource) Stamped() bool {
	return r.state == stateStamped
}

// ActivationTime returns the fade start of the current stamp
func (r *Resource) ActivationTime() time.Time {
	return r.activation
}

// FadeDuration returns the fade window of the current stamp
func (r *Resource) FadeDuration() time.Duration {
	return r.duration
}

// ExpiresAt returns the time at which the stamp is reclaimed
func (r *Resource) ExpiresAt() time.Time {
	return r.activation.Add(r.duration)
}

// Positions returns a copy of the stamped positions, nil unless stamped
func (r *Resource) Positions() []vmath.Vec3F {
	if r.state != stateStamped {
		return nil
	}
	out := make([]vmath.Vec3F, len(r.positions))
	copy(out, r.positions)
	return out
}

// Len returns the number of stamped positions
func (r *Resource) Len() int {
	if r.state != stateStamped {
		return 0
	}
	return len(r.positions)
}

// Fade returns clamp01((now - activation) / duration) of the last stamp
// A reclaimed resource keeps its timeline, so the result depends only on now; 0 until first stamped
func (r *Resource) Fade(now time.Time) float64 {
	if r.duration <= 0 {
		return 0
	}
	return fade.Progress(r.activation, r.duration, now)
}
