package event

// EventType represents the type of emitter event
type EventType int

const (
	// EventTeleport requests snapshot-and-clear followed by a jump
	// Trigger: Host movement/teleport logic
	// Consumer: Emitter | Payload: *TeleportPayload
	EventTeleport EventType = iota

	// EventClearSnapshots forces every active stamp free
	// Trigger: Scene teardown, sandbox 'c'
	// Consumer: Emitter | Payload: *TargetPayload
	EventClearSnapshots

	// EventFadeDurationSet changes the fade window of future stamps
	// Trigger: Config reload, sandbox +/-
	// Consumer: Emitter | Payload: *FadeDurationPayload
	EventFadeDurationSet

	// EventPoolSizeSet pre-warms the stamp pool
	// Trigger: Config reload
	// Consumer: Emitter | Payload: *PoolSizePayload
	EventPoolSizeSet

	// EventStampIssued notifies that a stamp was produced
	// Trigger: Emitter after a successful stamp
	// Consumer: Audio cue, diagnostics | Payload: *StampIssuedPayload
	EventStampIssued
)

var typeNames = map[EventType]string{
	EventTeleport:        "Teleport",
	EventClearSnapshots:  "ClearSnapshots",
	EventFadeDurationSet: "FadeDurationSet",
	EventPoolSizeSet:     "PoolSizeSet",
	EventStampIssued:     "StampIssued",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// GameEvent represents a single event with its payload
type GameEvent struct {
	Type    EventType
	Payload any
}
