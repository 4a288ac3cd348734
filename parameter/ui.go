package parameter

import "time"

// Sandbox Layout
const (
	// BottomMargin reserves the status line
	BottomMargin = 1

	// DroneStep is the distance moved per arrow key press, in cells
	DroneStep = 1.0

	// CursorBlinkInterval toggles drone glyph visibility
	CursorBlinkInterval = 500 * time.Millisecond

	// FadeDurationStep is the increment applied by +/- in the sandbox
	FadeDurationStep = 500 * time.Millisecond
)

// Sandbox Glyphs
const (
	DroneGlyph = '◆'
	TrailGlyph = '•'
	GhostGlyph = '░'
)
