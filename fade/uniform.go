package fade

import (
	"time"

	"github.com/lixenwraith/ghost-trail/vmath"
)

// Shader uniform names, shared by UniformDriver and renderers evaluating the fade
const (
	UniformStartTime    = "_StartTime"
	UniformFadeDuration = "_FadeDuration"
	UniformAlpha0       = "_Alpha0"
	UniformCurve        = "_Curve"
)

// UniformTarget receives float uniforms, the material side of a line
type UniformTarget interface {
	SetFloat(name string, v float32)
}

// Uniforms is the per-stamp parameter block a shader reads
// Times are seconds since the shared clock epoch
type Uniforms struct {
	StartTime    float32
	FadeDuration float32
	Alpha0       float32
	Curve        float32
}

// Set assigns a named uniform, unknown names are ignored like an unused shader property
func (u *Uniforms) Set(name string, v float32) {
	switch name {
	case UniformStartTime:
		u.StartTime = v
	case UniformFadeDuration:
		u.FadeDuration = v
	case UniformAlpha0:
		u.Alpha0 = v
	case UniformCurve:
		u.Curve = v
	}
}

// EvaluateUniforms is the fragment-side fade: t from the host-supplied time, then the curve
// Must stay numerically in step with Progress and Curve.Alpha
func EvaluateUniforms(u Uniforms, now float32) float64 {
	var t float64
	if u.FadeDuration <= 0 {
		t = 1
	} else {
		t = vmath.Clamp01(float64(now-u.StartTime) / float64(u.FadeDuration))
	}
	curve := CurveLinear
	if u.Curve >= 0.5 {
		curve = CurveSmooth
	}
	return curve.Alpha(float64(u.Alpha0), t)
}

// Epoch converts clock times into shader seconds
type Epoch struct {
	origin time.Time
}

// NewEpoch anchors shader time at origin
func NewEpoch(origin time.Time) Epoch {
	return Epoch{origin: origin}
}

// Seconds returns t relative to the epoch as a shader float
func (e Epoch) Seconds(t time.Time) float32 {
	return float32(t.Sub(e.origin).Seconds())
}

// UniformDriver sets shader uniforms once per stamp; the renderer computes t every frame
type UniformDriver struct {
	target UniformTarget
	epoch  Epoch
	curve  Curve
	alpha0 float64
}

// NewUniformDriver creates a shader-style fade driver for target
func NewUniformDriver(target UniformTarget, epoch Epoch, curve Curve, alpha0 float64) *UniformDriver {
	return &UniformDriver{
		target: target,
		epoch:  epoch,
		curve:  curve,
		alpha0: alpha0,
	}
}

func (d *UniformDriver) Begin(start time.Time, duration time.Duration) {
	d.target.SetFloat(UniformStartTime, d.epoch.Seconds(start))
	d.target.SetFloat(UniformFadeDuration, float32(duration.Seconds()))
	d.target.SetFloat(UniformAlpha0, float32(d.alpha0))
	d.target.SetFloat(UniformCurve, float32(d.curve))
}

// Update is a no-op, the shader reads the host clock directly
func (d *UniformDriver) Update(time.Time) {}

func (d *UniformDriver) Reset() {
	d.target.SetFloat(UniformAlpha0, 0)
}
