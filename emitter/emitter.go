package emitter

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/ghost-trail/config"
	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/engine"
	"github.com/lixenwraith/ghost-trail/event"
	"github.com/lixenwraith/ghost-trail/stamp"
	"github.com/lixenwraith/ghost-trail/status"
	"github.com/lixenwraith/ghost-trail/trail"
	"github.com/lixenwraith/ghost-trail/vmath"
)

var (
	ErrInvalidFadeDuration = fmt.Errorf("%w: fade duration must be positive", core.ErrConfiguration)
	ErrInvalidPoolSize     = fmt.Errorf("%w: pool size must not be negative", core.ErrConfiguration)
)

// StampFunc observes every stamp produced by an emitter
type StampFunc func(r *stamp.Resource, snap trail.Snapshot)

// Option configures an Emitter
type Option func(*Emitter)

// WithName sets the metric and log name, defaults to the short form of the ID
func WithName(name string) Option {
	return func(e *Emitter) {
		e.name = name
	}
}

// WithLogger sets the emitter logger, nil keeps the no-op logger
func WithLogger(log *zap.Logger) Option {
	return func(e *Emitter) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRegistry publishes pool and stamp counters
func WithRegistry(reg *status.Registry) Option {
	return func(e *Emitter) {
		e.reg = reg
	}
}

// WithClock sets the time source used for routed events, defaults to wall time
func WithClock(clock engine.Clock) Option {
	return func(e *Emitter) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithQueue pushes EventStampIssued to queue after every stamp
func WithQueue(q *event.EventQueue) Option {
	return func(e *Emitter) {
		e.queue = q
	}
}

// WithOnStamp sets a hook called after every stamp, under the emitter lock
func WithOnStamp(fn StampFunc) Option {
	return func(e *Emitter) {
		e.onStamp = fn
	}
}

// Emitter owns one live trail and the pool of faded stamps it leaves behind
// All methods are safe for concurrent use
type Emitter struct {
	mu sync.Mutex

	id   uuid.UUID
	name string

	live         *trail.LiveTrail
	extractor    *trail.Extractor
	pool         *stamp.Pool
	fadeDuration time.Duration

	clock   engine.Clock
	log     *zap.Logger
	reg     *status.Registry
	queue   *event.EventQueue
	onStamp StampFunc

	statTotal     *atomic.Int64
	statFree      *atomic.Int64
	statActive    *atomic.Int64
	statIssued    *atomic.Int64
	statRejected  *atomic.Int64
	statTruncated *atomic.Int64
	statReleased  *atomic.Int64
	statFade      *status.AtomicFloat
}

// New validates cfg, builds the trail, extractor and pool, and pre-warms cfg.PoolSize stamps
func New(cfg config.Config, template stamp.Template, opts ...Option) (*Emitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Emitter{
		id:           uuid.New(),
		fadeDuration: cfg.FadeDuration,
		clock:        engine.NewTimeProvider(),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.name == "" {
		e.name = e.id.String()[:8]
	}
	e.log = e.log.With(zap.String("emitter", e.name))

	extractor, err := trail.NewExtractor(cfg.WorkingBufferCapacity, cfg.MinPointsToStamp, cfg.OverflowPolicy())
	if err != nil {
		return nil, err
	}
	pool, err := stamp.NewPool(template,
		stamp.WithLogger(e.log),
		stamp.WithCurve(cfg.CurvePolicy()),
		stamp.WithAlpha(cfg.Alpha0),
	)
	if err != nil {
		return nil, err
	}
	if err := pool.Prewarm(cfg.PoolSize); err != nil {
		return nil, err
	}

	e.live = trail.NewLiveTrail(cfg.TrailCapacity, cfg.TrailLifetime, cfg.MinVertexDistance)
	e.extractor = extractor
	e.pool = pool
	e.initMetrics()
	e.publishPool()

	e.log.Debug("emitter created",
		zap.Stringer("id", e.id),
		zap.Duration("fade", cfg.FadeDuration),
		zap.Int("pool", cfg.PoolSize),
		zap.Stringer("curve", cfg.CurvePolicy()),
		zap.Stringer("overflow", cfg.OverflowPolicy()),
	)
	return e, nil
}

func (e *Emitter) initMetrics() {
	if e.reg == nil {
		e.reg = status.NewRegistry()
	}
	prefix := status.Key("ghost", e.name)
	e.statTotal = e.reg.Ints.Get(status.Key(prefix, "pool", "total"))
	e.statFree = e.reg.Ints.Get(status.Key(prefix, "pool", "free"))
	e.statActive = e.reg.Ints.Get(status.Key(prefix, "pool", "active"))
	e.statIssued = e.reg.Ints.Get(status.Key(prefix, "stamps", "issued"))
	e.statRejected = e.reg.Ints.Get(status.Key(prefix, "stamps", "rejected"))
	e.statTruncated = e.reg.Ints.Get(status.Key(prefix, "stamps", "truncated"))
	e.statReleased = e.reg.Ints.Get(status.Key(prefix, "stamps", "released"))
	e.statFade = e.reg.Floats.Get(status.Key(prefix, "fade", "seconds"))
	e.statFade.Set(e.fadeDuration.Seconds())
}

func (e *Emitter) publishPool() {
	e.statTotal.Store(int64(e.pool.Total()))
	e.statFree.Store(int64(e.pool.FreeLen()))
	e.statActive.Store(int64(e.pool.ActiveLen()))
}

// ID returns the emitter identity used to address events
func (e *Emitter) ID() uuid.UUID {
	return e.id
}

// Name returns the metric and log name
func (e *Emitter) Name() string {
	return e.name
}

// Record appends p to the live trail and drops points older than the trail lifetime
func (e *Emitter) Record(p vmath.Vec3F, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live.Prune(now)
	return e.live.Record(p, now)
}

// TrailLen returns the number of recorded live positions
func (e *Emitter) TrailLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Len()
}

// Trail returns a copy of the live positions, oldest first
func (e *Emitter) Trail() []vmath.Vec3F {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Positions()
}

// SnapshotAndClear stamps the current live trail and clears it
// The live trail is empty on return whatever the outcome
// Short or oversized trails yield (nil, nil); only configuration faults are returned
func (e *Emitter) SnapshotAndClear(now time.Time) (*stamp.Resource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotAndClear(now)
}

func (e *Emitter) snapshotAndClear(now time.Time) (*stamp.Resource, error) {
	e.live.Prune(now)
	snap, err := e.extractor.Extract(e.live, now)
	e.live.Clear()
	if err != nil {
		return nil, e.absorb(err, "snapshot rejected")
	}

	r, err := e.pool.Acquire()
	if err != nil {
		return nil, err
	}
	if err := e.pool.Stamp(r, snap, e.fadeDuration, now); err != nil {
		// Acquired but never stamped, hand it straight back
		if relErr := e.pool.Release(r); relErr != nil {
			e.log.Error("release after failed stamp", zap.Error(relErr))
		}
		e.publishPool()
		return nil, e.absorb(err, "stamp rejected")
	}

	e.statIssued.Add(1)
	if snap.Truncated() {
		e.statTruncated.Add(1)
		e.log.Warn("snapshot truncated to working buffer",
			zap.Int("kept", snap.Len()),
			zap.Int("dropped", snap.Dropped()),
		)
	}
	e.publishPool()

	e.log.Debug("stamp issued",
		zap.Stringer("stamp", r.ID()),
		zap.Int("points", snap.Len()),
		zap.Time("expires", r.ExpiresAt()),
	)
	e.notify(r, snap)
	return r, nil
}

// absorb logs precondition and capacity failures and swallows them
func (e *Emitter) absorb(err error, msg string) error {
	if !core.IsAbsorbable(err) {
		return err
	}
	e.statRejected.Add(1)
	if errors.Is(err, core.ErrCapacityExceeded) {
		e.log.Warn(msg, zap.Error(err))
	} else {
		e.log.Debug(msg, zap.Error(err))
	}
	return nil
}

func (e *Emitter) notify(r *stamp.Resource, snap trail.Snapshot) {
	if e.onStamp != nil {
		e.onStamp(r, snap)
	}
	if e.queue != nil {
		e.queue.Push(event.GameEvent{
			Type: event.EventStampIssued,
			Payload: &event.StampIssuedPayload{
				Emitter: e.id,
				Stamp:   r.ID(),
				Points:  snap.Len(),
				From:    snap.At(0),
				To:      snap.At(snap.Len() - 1),
			},
		})
	}
}

// Teleport stamps and clears the trail left behind, then starts a fresh segment at to
// The segment starts at to even when stamping fails
func (e *Emitter) Teleport(to vmath.Vec3F, now time.Time) (*stamp.Resource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.snapshotAndClear(now)
	e.live.Record(to, now)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SetFadeDuration changes the fade window of future stamps; running fades keep theirs
func (e *Emitter) SetFadeDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFadeDuration, d)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fadeDuration = d
	e.statFade.Set(d.Seconds())
	e.log.Debug("fade duration set", zap.Duration("fade", d))
	return nil
}

// FadeDuration returns the fade window applied to new stamps
func (e *Emitter) FadeDuration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fadeDuration
}

// SetPoolSize pre-warms the pool to at least n stamps; the pool never shrinks
func (e *Emitter) SetPoolSize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPoolSize, n)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.pool.Prewarm(n); err != nil {
		return err
	}
	e.publishPool()
	return nil
}

// Tick reclaims elapsed stamps and advances running fades, returns the number reclaimed
func (e *Emitter) Tick(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.pool.Tick(now)
	if n > 0 {
		e.statReleased.Add(int64(n))
		e.publishPool()
	}
	return n
}

// ClearAllSnapshots cancels every running fade and frees its stamp
func (e *Emitter) ClearAllSnapshots() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.pool.ClearAll()
	if n > 0 {
		e.statReleased.Add(int64(n))
		e.publishPool()
		e.log.Debug("snapshots cleared", zap.Int("released", n))
	}
	return n
}

// CurrentFade returns fade progress in [0, 1] for r at now
func (e *Emitter) CurrentFade(r *stamp.Resource, now time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.CurrentFade(r, now)
}

// Alpha returns the curve-mapped opacity of r at now
func (e *Emitter) Alpha(r *stamp.Resource, now time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Alpha(r, now)
}

// Stamps calls fn for every stamped resource, under the emitter lock
func (e *Emitter) Stamps(fn func(*stamp.Resource)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool.Each(fn)
}

// PoolStats returns total, free and active resource counts
func (e *Emitter) PoolStats() (total, free, active int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Total(), e.pool.FreeLen(), e.pool.ActiveLen()
}

// EventTypes implements event.Handler
func (e *Emitter) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventTeleport,
		event.EventClearSnapshots,
		event.EventFadeDurationSet,
		event.EventPoolSizeSet,
	}
}

// HandleEvent implements event.Handler; events addressed to other emitters are ignored
func (e *Emitter) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventTeleport:
		p, ok := ev.Payload.(*event.TeleportPayload)
		if !ok || !p.Matches(e.id) {
			return
		}
		if _, err := e.Teleport(p.To, e.clock.Now()); err != nil {
			e.log.Error("teleport failed", zap.Error(err))
		}

	case event.EventClearSnapshots:
		p, ok := ev.Payload.(*event.TargetPayload)
		if !ok || !p.Matches(e.id) {
			return
		}
		e.ClearAllSnapshots()

	case event.EventFadeDurationSet:
		p, ok := ev.Payload.(*event.FadeDurationPayload)
		if !ok || !p.Matches(e.id) {
			return
		}
		if err := e.SetFadeDuration(p.Duration); err != nil {
			e.log.Error("fade duration rejected", zap.Error(err))
		}

	case event.EventPoolSizeSet:
		p, ok := ev.Payload.(*event.PoolSizePayload)
		if !ok || !p.Matches(e.id) {
			return
		}
		if err := e.SetPoolSize(p.Size); err != nil {
			e.log.Error("pool size rejected", zap.Error(err))
		}
	}
}
