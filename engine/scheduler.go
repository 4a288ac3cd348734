package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/event"
	"github.com/lixenwraith/ghost-trail/status"
)

// Ticker is advanced once per scheduler tick, returns the number of stamps reclaimed
type Ticker interface {
	Tick(now time.Time) int
}

// pauser is implemented by clocks that can freeze scene time
type pauser interface {
	IsPaused() bool
}

// ClockScheduler drives emitters on a fixed tick
// Each tick dispatches queued events first, so a teleport and its reclamation scan share one tick
// Step is serialized with the background loop; tickers may also be called by the host under their own locks
type ClockScheduler struct {
	clock  Clock
	router *event.Router
	log    *zap.Logger

	tickers []Ticker

	tickInterval     time.Duration
	nextTickDeadline time.Time

	tickCount atomic.Uint64
	stepMu    sync.Mutex

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool

	updateDone chan struct{}

	statTicks    *atomic.Int64
	statEvents   *atomic.Int64
	statReleased *atomic.Int64
}

// NewClockScheduler creates a scheduler ticking tickers against clock
// Returns the scheduler and a channel signaled (non-blocking) after each tick
func NewClockScheduler(
	clock Clock,
	router *event.Router,
	reg *status.Registry,
	tickInterval time.Duration,
	log *zap.Logger,
) (*ClockScheduler, <-chan struct{}) {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	updateDone := make(chan struct{}, 1)

	cs := &ClockScheduler{
		clock:        clock,
		router:       router,
		log:          log,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		updateDone:   updateDone,
		statTicks:    reg.Ints.Get("engine.ticks"),
		statEvents:   reg.Ints.Get("engine.events"),
		statReleased: reg.Ints.Get("engine.released"),
	}
	return cs, updateDone
}

// Register adds a ticker, must be called before Start()
func (cs *ClockScheduler) Register(t Ticker) {
	cs.tickers = append(cs.tickers, t)
}

// RegisterEventHandler adds an event handler to the router, must be called before Start()
func (cs *ClockScheduler) RegisterEventHandler(h event.Handler) {
	if cs.router != nil {
		cs.router.Register(h)
	}
}

// TickCount returns the number of processed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Step runs one tick synchronously: dispatch events, then tick every registered ticker
// Events are dispatched while paused; fades are not advanced
func (cs *ClockScheduler) Step() {
	cs.stepMu.Lock()
	defer cs.stepMu.Unlock()

	if cs.router != nil {
		if n := cs.router.DispatchAll(); n > 0 {
			cs.statEvents.Add(int64(n))
		}
	}

	if p, ok := cs.clock.(pauser); ok && p.IsPaused() {
		return
	}

	now := cs.clock.Now()
	released := 0
	for _, t := range cs.tickers {
		released += t.Tick(now)
	}
	if released > 0 {
		cs.statReleased.Add(int64(released))
		cs.log.Debug("stamps reclaimed", zap.Int("count", released))
	}

	cs.statTicks.Store(int64(cs.tickCount.Add(1)))

	select {
	case cs.updateDone <- struct{}{}:
	default:
	}
}

// DispatchEventsImmediately routes pending events without ticking
// Input handlers call it so a teleport lands before the next tick
func (cs *ClockScheduler) DispatchEventsImmediately() int {
	cs.stepMu.Lock()
	defer cs.stepMu.Unlock()

	if cs.router == nil {
		return 0
	}
	n := cs.router.DispatchAll()
	if n > 0 {
		cs.statEvents.Add(int64(n))
	}
	return n
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	select {
	case <-cs.stopChan:
		return
	default:
	}
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		// Use core.Go for safe execution with centralized crash handling
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop, a stopped scheduler cannot be restarted
func (cs *ClockScheduler) Stop() {
	if cs.running.CompareAndSwap(true, false) {
		close(cs.stopChan)
		cs.wg.Wait()
	}
}

// schedulerLoop ticks on wall-time deadlines with drift correction
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.nextTickDeadline = time.Now().Add(cs.tickInterval)

	timer := time.NewTimer(cs.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-timer.C:
		}

		cs.Step()

		now := time.Now()
		cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

		// Fell too far behind: resync instead of bursting
		if now.Sub(cs.nextTickDeadline) > cs.tickInterval*2 {
			cs.nextTickDeadline = now.Add(cs.tickInterval)
		}

		sleep := cs.nextTickDeadline.Sub(now)
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}
