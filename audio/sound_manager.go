package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/ghost-trail/event"
	"github.com/lixenwraith/ghost-trail/parameter"
)

// SoundManager plays cues for stamp events through a single speaker mixer
// Without Initialize every Play call is a no-op, so hosts can run silent
type SoundManager struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
	log         *zap.Logger
}

// NewSoundManager creates an uninitialized sound manager; nil log keeps the no-op logger
func NewSoundManager(log *zap.Logger) *SoundManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SoundManager{
		rate:  beep.SampleRate(parameter.AudioSampleRate),
		mixer: &beep.Mixer{},
		log:   log,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.rate, sm.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.log.Info("audio initialized", zap.Int("sample_rate", int(sm.rate)))
	return nil
}

// Initialized reports whether the speaker is open
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup silences the mixer and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// PlayTeleport plays the blink-out cue for a stamp of the given length
func (sm *SoundManager) PlayTeleport(points int) {
	sm.play(func() beep.Streamer { return CreateTeleportSound(sm.rate, points) })
}

// PlayClear plays the clear-all cue
func (sm *SoundManager) PlayClear() {
	sm.play(func() beep.Streamer { return CreateClearSound(sm.rate) })
}

func (sm *SoundManager) play(build func() beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	s := build()
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// EventTypes implements event.Handler
func (sm *SoundManager) EventTypes() []event.EventType {
	return []event.EventType{event.EventStampIssued, event.EventClearSnapshots}
}

// HandleEvent implements event.Handler
func (sm *SoundManager) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventStampIssued:
		if p, ok := ev.Payload.(*event.StampIssuedPayload); ok {
			sm.PlayTeleport(p.Points)
		}
	case event.EventClearSnapshots:
		sm.PlayClear()
	}
}
