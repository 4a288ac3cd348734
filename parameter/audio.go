package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Teleport Sound
// Falling sweep, reads as a "blink out"
const (
	TeleportSoundDuration = 180 * time.Millisecond
	TeleportSoundAttack   = 5 * time.Millisecond
	TeleportSoundRelease  = 90 * time.Millisecond
	TeleportSweepStartHz  = 1760.0
	TeleportSweepEndHz    = 330.0
	TeleportSoundVolume   = 0.4
)

// Clear Sound
const (
	ClearSoundDuration = 60 * time.Millisecond
	ClearSoundAttack   = 2 * time.Millisecond
	ClearSoundRelease  = 30 * time.Millisecond
	ClearSoundHz       = 220.0
	ClearSoundVolume   = 0.25
)
