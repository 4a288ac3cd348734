package event

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lixenwraith/ghost-trail/vmath"
)

var teleportPool = sync.Pool{
	New: func() any {
		return &TeleportPayload{}
	},
}

// AcquireTeleport returns a pooled payload
func AcquireTeleport(emitter uuid.UUID, to vmath.Vec3F) *TeleportPayload {
	p := teleportPool.Get().(*TeleportPayload)
	p.Emitter = emitter
	p.To = to
	return p
}

// ReleaseTeleport returns payload to pool
func ReleaseTeleport(p *TeleportPayload) {
	if p == nil {
		return
	}
	*p = TeleportPayload{}
	teleportPool.Put(p)
}
