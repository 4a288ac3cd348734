package parameter

import "time"

// Stamp Lifecycle Defaults
const (
	// FadeDuration is the window over which a stamp decays from full to zero
	FadeDuration = 4 * time.Second

	// MinPointsToStamp is the shortest live trail worth preserving on teleport
	MinPointsToStamp = 2

	// StampPoolSize is the number of stamps pre-warmed per emitter
	StampPoolSize = 10

	// WorkingBufferCapacity bounds the extractor's copy buffer
	WorkingBufferCapacity = 2048

	// FadeAlpha is the opacity of a freshly stamped ghost
	FadeAlpha = 1.0
)

// Live Trail Defaults
const (
	// TrailCapacity bounds the live trail ring, oldest points dropped when full
	TrailCapacity = 2048

	// TrailLifetime is the age after which live points are pruned, 0 keeps forever
	TrailLifetime = 0 * time.Second

	// TrailMinVertexDistance skips points closer than this to the previous one
	TrailMinVertexDistance = 0.0
)

// Configuration Policy Names
const (
	CurveLinear = "linear"
	CurveSmooth = "smooth"

	OverflowTruncate = "truncate"
	OverflowReject   = "reject"

	BackendCPU    = "cpu"
	BackendShader = "shader"
)
