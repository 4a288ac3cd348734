package fade

import (
	"fmt"
	"time"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/parameter"
)

// Driver is the fade-parameter capability owned by one stamp
// Scheduling logic is identical for every backend; only where t is evaluated differs
type Driver interface {
	// Begin is called once per stamp with the activation time and window
	Begin(start time.Time, duration time.Duration)
	// Update is called every tick while the stamp is active
	Update(now time.Time)
	// Reset returns the target to a neutral state when the stamp is recycled
	Reset()
}

// Backend selects which Driver a pool template builds
type Backend uint8

const (
	// BackendCPU mutates a color alpha every tick
	BackendCPU Backend = iota
	// BackendShader sets uniforms once and lets the renderer evaluate t per frame
	BackendShader
)

func (b Backend) String() string {
	switch b {
	case BackendCPU:
		return parameter.BackendCPU
	case BackendShader:
		return parameter.BackendShader
	default:
		return "unknown"
	}
}

// ParseBackend maps a config name to a backend
func ParseBackend(s string) (Backend, error) {
	switch s {
	case parameter.BackendCPU, "":
		return BackendCPU, nil
	case parameter.BackendShader, "gpu":
		return BackendShader, nil
	default:
		return 0, fmt.Errorf("%w: unknown fade backend %q", core.ErrConfiguration, s)
	}
}

// ColorTarget receives CPU-interpolated opacity
type ColorTarget interface {
	SetAlpha(alpha float64)
}

// ColorDriver computes alpha on the CPU each tick
type ColorDriver struct {
	target   ColorTarget
	curve    Curve
	alpha0   float64
	start    time.Time
	duration time.Duration
	alpha    float64
}

// NewColorDriver creates a CPU fade driver for target
func NewColorDriver(target ColorTarget, curve Curve, alpha0 float64) *ColorDriver {
	return &ColorDriver{
		target: target,
		curve:  curve,
		alpha0: alpha0,
	}
}

func (d *ColorDriver) Begin(start time.Time, duration time.Duration) {
	d.start = start
	d.duration = duration
	d.set(d.alpha0)
}

func (d *ColorDriver) Update(now time.Time) {
	d.set(d.curve.Alpha(d.alpha0, Progress(d.start, d.duration, now)))
}

func (d *ColorDriver) Reset() {
	d.start = time.Time{}
	d.duration = 0
	d.set(0)
}

// Alpha returns the last value pushed to the target
func (d *ColorDriver) Alpha() float64 {
	return d.alpha
}

func (d *ColorDriver) set(a float64) {
	d.alpha = a
	if d.target != nil {
		d.target.SetAlpha(a)
	}
}
