package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/ghost-trail/event"
	"github.com/lixenwraith/ghost-trail/parameter"
)

const testRate = beep.SampleRate(44100)

// drain streams s to completion and returns the left channel
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			out = append(out, buf[j][0])
		}
		if !ok {
			return out
		}
	}
	t.Fatal("Expected stream to terminate")
	return nil
}

func zeroCrossings(samples []float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] < 0) != (samples[i] < 0) {
			n++
		}
	}
	return n
}

// TestSweepLength verifies the oscillator stops after its duration
func TestSweepLength(t *testing.T) {
	duration := 50 * time.Millisecond
	samples := drain(t, NewSweep(440, 440, duration, WaveSine, testRate))

	if len(samples) != testRate.N(duration) {
		t.Errorf("Expected %d samples, got %d", testRate.N(duration), len(samples))
	}
	for i, v := range samples {
		if v < -1.0 || v > 1.0 {
			t.Fatalf("Sample %d out of range: %f", i, v)
		}
	}
}

// TestSweepFalls verifies a falling sweep crosses zero more often at its start than its end
func TestSweepFalls(t *testing.T) {
	samples := drain(t, NewSweep(1760, 330, 200*time.Millisecond, WaveSine, testRate))
	quarter := len(samples) / 4

	head := zeroCrossings(samples[:quarter])
	tail := zeroCrossings(samples[len(samples)-quarter:])
	if head <= 2*tail {
		t.Errorf("Expected head crossings well above tail, got head=%d tail=%d", head, tail)
	}
}

// TestSquareWaveValues verifies square output is bipolar unit
func TestSquareWaveValues(t *testing.T) {
	samples := drain(t, NewSweep(220, 220, 20*time.Millisecond, WaveSquare, testRate))
	for i, v := range samples {
		if v != -1.0 && v != 1.0 {
			t.Fatalf("Square wave sample %d should be -1.0 or 1.0, got %f", i, v)
		}
	}
}

// TestEnvelopeShape verifies silence at both edges and full level in the middle
func TestEnvelopeShape(t *testing.T) {
	duration := 100 * time.Millisecond
	dc := NewSweep(0, 0, duration, WaveSquare, testRate) // phase never moves, constant +1
	samples := drain(t, NewEnvelope(dc, duration, 10*time.Millisecond, 20*time.Millisecond, testRate))

	if samples[0] != 0 {
		t.Errorf("Expected attack to start silent, got %f", samples[0])
	}
	mid := samples[len(samples)/2]
	if math.Abs(mid-1.0) > 1e-9 {
		t.Errorf("Expected sustain at 1.0, got %f", mid)
	}
	last := samples[len(samples)-1]
	if last > 0.01 {
		t.Errorf("Expected release to end near silence, got %f", last)
	}
}

// TestTeleportSoundPeak verifies the cue stays under its boosted volume
func TestTeleportSoundPeak(t *testing.T) {
	samples := drain(t, CreateTeleportSound(testRate, 10000))
	if len(samples) != testRate.N(parameter.TeleportSoundDuration) {
		t.Errorf("Expected %d samples, got %d", testRate.N(parameter.TeleportSoundDuration), len(samples))
	}

	limit := parameter.TeleportSoundVolume*1.5 + 1e-9
	for i, v := range samples {
		if math.Abs(v) > limit {
			t.Fatalf("Sample %d exceeds %f: %f", i, limit, v)
		}
	}
}

// TestClearSoundTerminates verifies the clear cue has its configured length
func TestClearSoundTerminates(t *testing.T) {
	samples := drain(t, CreateClearSound(testRate))
	if len(samples) != testRate.N(parameter.ClearSoundDuration) {
		t.Errorf("Expected %d samples, got %d", testRate.N(parameter.ClearSoundDuration), len(samples))
	}
}

// TestSoundManagerSilentWithoutInit verifies events are ignored before Initialize
func TestSoundManagerSilentWithoutInit(t *testing.T) {
	sm := NewSoundManager(nil)

	sm.HandleEvent(event.GameEvent{Type: event.EventStampIssued, Payload: &event.StampIssuedPayload{Points: 5}})
	sm.HandleEvent(event.GameEvent{Type: event.EventClearSnapshots})
	sm.Cleanup()

	if sm.Initialized() {
		t.Error("Expected manager to stay uninitialized")
	}
	if sm.mixer.Len() != 0 {
		t.Errorf("Expected empty mixer, got %d streamers", sm.mixer.Len())
	}
	if len(sm.EventTypes()) != 2 {
		t.Errorf("Expected 2 event types, got %d", len(sm.EventTypes()))
	}
}
