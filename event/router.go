package event

// Handler processes routed events
// Emitters implement this to receive teleport and control requests
type Handler interface {
	// HandleEvent processes a single event, called synchronously during dispatch
	HandleEvent(ev GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// Router dispatches queued events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router struct {
	handlers map[EventType][]Handler
	queue    *EventQueue
	batch    []GameEvent // Reused between dispatches
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes all pending events and routes to handlers in FIFO order
// Pooled teleport payloads are returned to their pool once every handler has seen them
func (r *Router) DispatchAll() int {
	r.batch = r.queue.Drain(r.batch[:0])
	for _, ev := range r.batch {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
		if p, ok := ev.Payload.(*TeleportPayload); ok {
			ReleaseTeleport(p)
		}
	}
	n := len(r.batch)
	clear(r.batch)
	return n
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
