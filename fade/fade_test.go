package fade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ghost-trail/core"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type alphaRecorder struct {
	values []float64
}

func (r *alphaRecorder) SetAlpha(a float64) {
	r.values = append(r.values, a)
}

func (r *alphaRecorder) last() float64 {
	return r.values[len(r.values)-1]
}

type uniformRecorder struct {
	Uniforms
	sets int
}

func (r *uniformRecorder) SetFloat(name string, v float32) {
	r.sets++
	r.Set(name, v)
}

func TestProgressBoundariesAndMonotonicity(t *testing.T) {
	d := 4 * time.Second

	assert.Equal(t, 0.0, Progress(t0, d, t0))
	assert.Equal(t, 1.0, Progress(t0, d, t0.Add(d)))
	assert.Equal(t, 1.0, Progress(t0, d, t0.Add(10*time.Second)), "clamped above")
	assert.Equal(t, 0.0, Progress(t0, d, t0.Add(-time.Second)), "clamped below")
	assert.Equal(t, 1.0, Progress(t0, 0, t0), "zero duration is already elapsed")

	prev := -1.0
	for ms := 0; ms <= 4000; ms += 50 {
		p := Progress(t0, d, t0.Add(time.Duration(ms)*time.Millisecond))
		if p < prev {
			t.Fatalf("Progress decreased at %dms: %f < %f", ms, p, prev)
		}
		prev = p
	}
}

func TestElapsed(t *testing.T) {
	d := 2 * time.Second
	assert.False(t, Elapsed(t0, d, t0.Add(1999*time.Millisecond)))
	assert.True(t, Elapsed(t0, d, t0.Add(d)), "boundary-inclusive")
}

func TestCurveAlpha(t *testing.T) {
	assert.Equal(t, 0.8, CurveLinear.Alpha(0.8, 0))
	assert.InDelta(t, 0.2, CurveLinear.Alpha(0.8, 0.75), 1e-12)
	assert.Equal(t, 0.0, CurveLinear.Alpha(0.8, 1))

	assert.Equal(t, 1.0, CurveSmooth.Alpha(1, 0))
	assert.InDelta(t, 0.5, CurveSmooth.Alpha(1, 0.5), 1e-12)
	assert.Equal(t, 0.0, CurveSmooth.Alpha(1, 1))
	// Smoothed curve holds opacity longer early in the fade
	assert.Greater(t, CurveSmooth.Alpha(1, 0.2), CurveLinear.Alpha(1, 0.2))
}

func TestParseCurveAndBackend(t *testing.T) {
	c, err := ParseCurve("smooth")
	require.NoError(t, err)
	assert.Equal(t, CurveSmooth, c)
	assert.Equal(t, "smooth", c.String())

	_, err = ParseCurve("ease-in")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	b, err := ParseBackend("shader")
	require.NoError(t, err)
	assert.Equal(t, BackendShader, b)
	b, err = ParseBackend("gpu")
	require.NoError(t, err)
	assert.Equal(t, BackendShader, b)
	assert.Equal(t, "cpu", BackendCPU.String())

	_, err = ParseBackend("vulkan")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestColorDriverUpdatesEachTick(t *testing.T) {
	rec := &alphaRecorder{}
	d := NewColorDriver(rec, CurveLinear, 1)

	d.Begin(t0, 4*time.Second)
	assert.Equal(t, 1.0, rec.last())

	d.Update(t0.Add(time.Second))
	assert.InDelta(t, 0.75, rec.last(), 1e-12)
	assert.InDelta(t, 0.75, d.Alpha(), 1e-12)

	d.Update(t0.Add(4 * time.Second))
	assert.Equal(t, 0.0, rec.last())

	d.Reset()
	assert.Equal(t, 0.0, d.Alpha())
}

func TestUniformDriverSetsOnceAndMatchesCPU(t *testing.T) {
	epoch := NewEpoch(t0.Add(-10 * time.Second))
	start := t0
	duration := 4 * time.Second

	for _, curve := range []Curve{CurveLinear, CurveSmooth} {
		t.Run(curve.String(), func(t *testing.T) {
			rec := &uniformRecorder{}
			d := NewUniformDriver(rec, epoch, curve, 1)
			d.Begin(start, duration)
			setsAfterBegin := rec.sets

			cpu := &alphaRecorder{}
			cd := NewColorDriver(cpu, curve, 1)
			cd.Begin(start, duration)

			for ms := 0; ms <= 4000; ms += 250 {
				now := start.Add(time.Duration(ms) * time.Millisecond)
				d.Update(now)
				cd.Update(now)

				gpu := EvaluateUniforms(rec.Uniforms, epoch.Seconds(now))
				assert.InDelta(t, cpu.last(), gpu, 1e-4, "backends diverge at %dms", ms)
			}

			assert.Equal(t, setsAfterBegin, rec.sets, "shader backend must not touch uniforms per tick")
		})
	}
}

func TestUniformDriverReset(t *testing.T) {
	rec := &uniformRecorder{}
	d := NewUniformDriver(rec, NewEpoch(t0), CurveLinear, 1)
	d.Begin(t0, time.Second)
	d.Reset()

	assert.Equal(t, 0.0, EvaluateUniforms(rec.Uniforms, 0))
}

func TestEvaluateUniformsZeroDuration(t *testing.T) {
	u := Uniforms{StartTime: 1, FadeDuration: 0, Alpha0: 1}
	assert.Equal(t, 0.0, EvaluateUniforms(u, 1))
}
