package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/ghost-trail/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
)

// sweep is an oscillator whose frequency glides exponentially from startHz to endHz
type sweep struct {
	startHz  float64
	endHz    float64
	wave     WaveType
	rate     beep.SampleRate
	phase    float64
	position int
	duration int
}

// NewSweep creates a gliding oscillator; equal start and end give a steady tone
func NewSweep(startHz, endHz float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &sweep{
		startHz:  startHz,
		endHz:    endHz,
		wave:     wave,
		rate:     rate,
		duration: rate.N(duration),
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}

		var val float64
		switch s.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * s.phase)
		case WaveSquare:
			if s.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveTriangle:
			val = 1 - 4*math.Abs(s.phase-0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freqAt(s.position) / float64(s.rate)
		s.phase -= math.Floor(s.phase) // Keep in [0, 1)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// freqAt interpolates in log space so the glide sounds even
func (s *sweep) freqAt(pos int) float64 {
	if s.duration <= 1 || s.startHz <= 0 || s.endHz <= 0 {
		return s.startHz
	}
	t := float64(pos) / float64(s.duration-1)
	return s.startHz * math.Pow(s.endHz/s.startHz, t)
}

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if remaining := e.totalSamples - e.position; remaining < e.releaseSamples {
			vol = math.Min(vol, float64(remaining)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly
// math.Log2(0) is -Inf, so 0 volume is made silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateTeleportSound generates a falling sweep, scaled by how long the stamped trail was
// points of 0 plays at base volume
func CreateTeleportSound(rate beep.SampleRate, points int) beep.Streamer {
	osc := NewSweep(parameter.TeleportSweepStartHz, parameter.TeleportSweepEndHz,
		parameter.TeleportSoundDuration, WaveTriangle, rate)
	shaped := NewEnvelope(osc, parameter.TeleportSoundDuration,
		parameter.TeleportSoundAttack, parameter.TeleportSoundRelease, rate)

	// Longer trails land a little louder, capped at 1.5x
	boost := 1 + math.Min(float64(points)/256, 0.5)
	return newVolume(shaped, parameter.TeleportSoundVolume*boost)
}

// CreateClearSound generates a short low blip for clear-all
func CreateClearSound(rate beep.SampleRate) beep.Streamer {
	osc := NewSweep(parameter.ClearSoundHz, parameter.ClearSoundHz,
		parameter.ClearSoundDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, parameter.ClearSoundDuration,
		parameter.ClearSoundAttack, parameter.ClearSoundRelease, rate)
	return newVolume(shaped, parameter.ClearSoundVolume)
}
