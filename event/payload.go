package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/ghost-trail/vmath"
)

// Broadcast addresses every emitter
var Broadcast = uuid.Nil

// TargetPayload addresses one emitter, or all with Broadcast
type TargetPayload struct {
	Emitter uuid.UUID
}

// Matches reports whether the payload is addressed to id
func (p TargetPayload) Matches(id uuid.UUID) bool {
	return p.Emitter == Broadcast || p.Emitter == id
}

// TeleportPayload carries the jump destination, pooled
type TeleportPayload struct {
	TargetPayload
	To vmath.Vec3F
}

// FadeDurationPayload carries a new fade window
type FadeDurationPayload struct {
	TargetPayload
	Duration time.Duration
}

// PoolSizePayload carries a pre-warm target
type PoolSizePayload struct {
	TargetPayload
	Size int
}

// StampIssuedPayload describes a produced stamp
type StampIssuedPayload struct {
	Emitter uuid.UUID
	Stamp   uuid.UUID
	Points  int
	From    vmath.Vec3F // Oldest point of the snapshot
	To      vmath.Vec3F // Newest point of the snapshot
}
