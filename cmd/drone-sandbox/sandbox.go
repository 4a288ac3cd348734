package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/ghost-trail/audio"
	"github.com/lixenwraith/ghost-trail/config"
	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/emitter"
	"github.com/lixenwraith/ghost-trail/engine"
	"github.com/lixenwraith/ghost-trail/event"
	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/render"
	"github.com/lixenwraith/ghost-trail/stamp"
	"github.com/lixenwraith/ghost-trail/status"
	"github.com/lixenwraith/ghost-trail/vmath"
)

// sandbox is a single drone flown with the arrow keys
// Every teleport leaves the walked trail behind as a fading ghost
type sandbox struct {
	screen    tcell.Screen
	canvas    *render.Canvas
	clock     *engine.PausableClock
	queue     *event.EventQueue
	scheduler *engine.ClockScheduler
	emitter   *emitter.Emitter
	sound     *audio.SoundManager
	reg       *status.Registry
	log       *zap.Logger
	rng       *rand.Rand

	drone vmath.Vec3F

	cursorVisible   bool
	cursorBlinkTime time.Time
}

// newSandbox wires the emitter, scheduler and renderer around screen
// base drives scene time; nil means wall time
func newSandbox(screen tcell.Screen, cfg config.Config, base engine.Clock, sound *audio.SoundManager, log *zap.Logger, seed int64) (*sandbox, error) {
	clock := engine.NewPausableClock(base)
	epoch := fade.NewEpoch(clock.Now())
	reg := status.NewRegistry()
	queue := event.NewEventQueue()
	router := event.NewRouter(queue)

	template := render.NewTemplate(cfg.Backend(), epoch, render.RGBGhost)
	em, err := emitter.New(cfg, template,
		emitter.WithName("drone"),
		emitter.WithLogger(log),
		emitter.WithRegistry(reg),
		emitter.WithClock(clock),
		emitter.WithQueue(queue),
	)
	if err != nil {
		return nil, err
	}

	scheduler, _ := engine.NewClockScheduler(clock, router, reg, parameter.SchedulerTickInterval, log)
	scheduler.Register(em)
	scheduler.RegisterEventHandler(em)
	if sound != nil {
		scheduler.RegisterEventHandler(sound)
	}

	s := &sandbox{
		screen:          screen,
		canvas:          render.NewCanvas(screen, epoch),
		clock:           clock,
		queue:           queue,
		scheduler:       scheduler,
		emitter:         em,
		sound:           sound,
		reg:             reg,
		log:             log,
		rng:             rand.New(rand.NewSource(seed)),
		cursorVisible:   true,
		cursorBlinkTime: clock.RealTime(),
	}

	w, h := s.canvas.Size()
	s.drone = vmath.Vec3F{X: float64(w / 2), Y: float64(h / 2)}
	em.Record(s.drone, clock.Now())
	return s, nil
}

// handleKey applies one key press, returns false to quit
func (s *sandbox) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.move(0, -parameter.DroneStep)
	case tcell.KeyDown:
		s.move(0, parameter.DroneStep)
	case tcell.KeyLeft:
		s.move(-parameter.DroneStep, 0)
	case tcell.KeyRight:
		s.move(parameter.DroneStep, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 't':
			s.teleport()
		case 'c':
			s.queue.Push(event.GameEvent{
				Type:    event.EventClearSnapshots,
				Payload: &event.TargetPayload{Emitter: event.Broadcast},
			})
		case '+', '=':
			s.setFade(s.emitter.FadeDuration() + parameter.FadeDurationStep)
		case '-', '_':
			s.setFade(s.emitter.FadeDuration() - parameter.FadeDurationStep)
		case 'p':
			paused := s.clock.Toggle()
			s.log.Debug("pause toggled", zap.Bool("paused", paused))
		}
	}

	// Input bypasses the tick wait
	s.scheduler.DispatchEventsImmediately()
	return true
}

func (s *sandbox) move(dx, dy float64) {
	if s.clock.IsPaused() {
		return
	}
	w, h := s.canvas.Size()
	next := vmath.V3FAdd(s.drone, vmath.Vec3F{X: dx, Y: dy})
	if next.X < 0 || next.Y < 0 || next.X >= float64(w) || next.Y >= float64(h) {
		return
	}
	s.drone = next
	s.emitter.Record(s.drone, s.clock.Now())
	s.cursorVisible = true
	s.cursorBlinkTime = s.clock.RealTime()
}

// teleport jumps to a random cell; the emitter stamps the trail left behind
func (s *sandbox) teleport() {
	if s.clock.IsPaused() {
		return
	}
	w, h := s.canvas.Size()
	if w == 0 || h == 0 {
		return
	}
	to := vmath.Vec3F{X: float64(s.rng.Intn(w)), Y: float64(s.rng.Intn(h))}
	s.queue.Push(event.GameEvent{
		Type:    event.EventTeleport,
		Payload: event.AcquireTeleport(s.emitter.ID(), to),
	})
	s.log.Debug("teleport requested",
		zap.Float64("from_x", s.drone.X), zap.Float64("from_y", s.drone.Y),
		zap.Float64("to_x", to.X), zap.Float64("to_y", to.Y),
	)
	s.drone = to
}

func (s *sandbox) setFade(d time.Duration) {
	if d < parameter.FadeDurationStep {
		d = parameter.FadeDurationStep
	}
	s.queue.Push(event.GameEvent{
		Type: event.EventFadeDurationSet,
		Payload: &event.FadeDurationPayload{
			TargetPayload: event.TargetPayload{Emitter: s.emitter.ID()},
			Duration:      d,
		},
	})
}

// draw renders ghosts, the live trail, the drone and the status line
func (s *sandbox) draw() {
	now := s.clock.Now()
	s.canvas.Clear()

	s.emitter.Stamps(func(r *stamp.Resource) {
		s.canvas.DrawStamp(r, now)
	})
	s.canvas.DrawPolyline(s.emitter.Trail(), parameter.TrailGlyph, render.RGBTrail, 1)

	wall := s.clock.RealTime()
	if wall.Sub(s.cursorBlinkTime) > parameter.CursorBlinkInterval {
		s.cursorVisible = !s.cursorVisible
		s.cursorBlinkTime = wall
	}
	if s.cursorVisible {
		s.canvas.DrawGlyph(s.drone, parameter.DroneGlyph, render.RGBDrone)
	}

	s.canvas.DrawStatus(s.statusLine())
	s.canvas.Show()
}

func (s *sandbox) statusLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fade=%s", s.emitter.FadeDuration())
	if s.clock.IsPaused() {
		b.WriteString(" PAUSED")
	}
	for _, line := range s.reg.Lines(status.Key("ghost", s.emitter.Name())) {
		b.WriteByte(' ')
		b.WriteString(strings.TrimPrefix(line, "ghost."+s.emitter.Name()+"."))
	}
	b.WriteString("  [arrows] move [t] teleport [c] clear [+/-] fade [p] pause [q] quit")
	return b.String()
}

// run drives input and frames until quit; the scheduler ticks on its own goroutine
func (s *sandbox) run() {
	s.scheduler.Start()
	defer s.scheduler.Stop()

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)

	core.Go(func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	})

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !s.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}

		case <-frameTicker.C:
			s.draw()
		}
	}
}

// shutdown clears every ghost and logs final counters
func (s *sandbox) shutdown() {
	released := s.emitter.ClearAllSnapshots()
	s.log.Info("sandbox stopped",
		zap.Int("released", released),
		zap.Strings("metrics", s.reg.Lines("")),
		zap.Uint64("dropped_events", s.queue.Dropped()),
	)
}
