package stamp

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/trail"
)

var (
	ErrNoTemplate = fmt.Errorf("%w: stamp template missing", core.ErrConfiguration)

	ErrEmptySnapshot   = fmt.Errorf("%w: empty snapshot", core.ErrPrecondition)
	ErrNotAcquired     = fmt.Errorf("%w: resource not acquired", core.ErrPrecondition)
	ErrNotActive       = fmt.Errorf("%w: resource not active", core.ErrPrecondition)
	ErrInvalidDuration = fmt.Errorf("%w: fade duration must be positive", core.ErrPrecondition)
	ErrForeignResource = fmt.Errorf("%w: resource belongs to another pool", core.ErrPrecondition)
)

// Option configures a Pool
type Option func(*Pool)

// WithLogger sets the pool logger, nil keeps the no-op logger
func WithLogger(log *zap.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// WithCurve sets the fade curve applied to every stamp, handed to the template for its driver
func WithCurve(c fade.Curve) Option {
	return func(p *Pool) {
		p.curve = c
	}
}

// WithAlpha sets the opacity of a freshly stamped resource
func WithAlpha(alpha0 float64) Option {
	return func(p *Pool) {
		p.alpha0 = alpha0
	}
}

// Pool owns all stamp resources, cycling them Free -> Active -> Free
// A resource is either queued free or active, never both; the pool grows but never shrinks
// Not safe for concurrent use; callers serialize Acquire, Stamp, Tick and Release
type Pool struct {
	template Template
	curve    fade.Curve
	alpha0   float64
	log      *zap.Logger

	all      []*Resource // Creation order
	free     []*Resource // FIFO, live entries start at freeHead
	freeHead int
	active   int

	expiry expiryQueue
	seq    uint64
}

// NewPool creates an empty pool; a nil template is a configuration error
func NewPool(template Template, opts ...Option) (*Pool, error) {
	if template == nil {
		return nil, ErrNoTemplate
	}
	p := &Pool{
		template: template,
		curve:    fade.CurveLinear,
		alpha0:   parameter.FadeAlpha,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Curve returns the fade curve policy
func (p *Pool) Curve() fade.Curve {
	return p.curve
}

// Total returns the number of resources ever created
func (p *Pool) Total() int {
	return len(p.all)
}

// FreeLen returns the number of queued free resources
func (p *Pool) FreeLen() int {
	return len(p.free) - p.freeHead
}

// ActiveLen returns the number of resources out of the free queue
func (p *Pool) ActiveLen() int {
	return p.active
}

// Prewarm grows the pool until it holds at least n resources
func (p *Pool) Prewarm(n int) error {
	for len(p.all) < n {
		r, err := p.create()
		if err != nil {
			return err
		}
		p.pushFree(r)
	}
	return nil
}

// Acquire hands out the oldest released resource, or allocates one when the queue is empty
// The returned resource is active but not stamped
func (p *Pool) Acquire() (*Resource, error) {
	r := p.popFree()
	if r == nil {
		var err error
		if r, err = p.create(); err != nil {
			return nil, err
		}
		p.log.Debug("stamp pool grew",
			zap.Int("total", len(p.all)),
			zap.Int("active", p.active+1),
		)
	}
	r.state = stateAcquired
	r.activation = time.Time{}
	r.duration = 0
	p.active++
	return r, nil
}

// Stamp binds snap to r, replacing prior contents, and starts its fade at now
// Calling again on an already stamped resource re-stamps it
func (p *Pool) Stamp(r *Resource, snap trail.Snapshot, fadeDuration time.Duration, now time.Time) error {
	if err := p.checkActive(r, ErrNotAcquired); err != nil {
		return err
	}
	if snap.Empty() {
		return ErrEmptySnapshot
	}
	if fadeDuration <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, fadeDuration)
	}

	r.positions = snap.AppendTo(r.positions[:0])
	r.activation = now
	r.duration = fadeDuration
	p.seq++
	r.seq = p.seq
	r.state = stateStamped
	p.expiry.schedule(r)

	r.line.SetPositions(r.positions)
	r.driver.Begin(now, fadeDuration)
	r.line.SetVisible(true)
	return nil
}

// Tick reclaims every stamp whose fade has elapsed and advances the rest, returns the number released
// Stamps expiring together are released in stamp order
func (p *Pool) Tick(now time.Time) int {
	released := 0
	for {
		r := p.expiry.peek()
		if r == nil || !fade.Elapsed(r.activation, r.duration, now) {
			break
		}
		p.release(r)
		released++
	}

	for _, r := range p.expiry {
		r.driver.Update(now)
	}
	return released
}

// Release returns one active resource to the free queue regardless of fade time
func (p *Pool) Release(r *Resource) error {
	if err := p.checkActive(r, ErrNotActive); err != nil {
		return err
	}
	p.release(r)
	return nil
}

// ClearAll forces every active resource free immediately, returns the number released
func (p *Pool) ClearAll() int {
	released := 0
	for _, r := range p.all {
		if r.Active() {
			p.release(r)
			released++
		}
	}
	return released
}

// CurrentFade returns fade progress in [0, 1] for r at now
func (p *Pool) CurrentFade(r *Resource, now time.Time) float64 {
	return r.Fade(now)
}

// Alpha returns the curve-mapped opacity for r at now, 0 unless stamped
func (p *Pool) Alpha(r *Resource, now time.Time) float64 {
	if !r.Stamped() {
		return 0
	}
	return p.curve.Alpha(p.alpha0, r.Fade(now))
}

// Each calls fn for every stamped resource in creation order
func (p *Pool) Each(fn func(*Resource)) {
	for _, r := range p.all {
		if r.Stamped() {
			fn(r)
		}
	}
}

func (p *Pool) checkActive(r *Resource, inactive error) error {
	if r == nil {
		return inactive
	}
	if r.pool != p {
		return ErrForeignResource
	}
	if !r.Active() {
		return inactive
	}
	return nil
}

func (p *Pool) create() (*Resource, error) {
	if p.template == nil {
		return nil, ErrNoTemplate
	}
	line, driver := p.template(p.curve, p.alpha0)
	if line == nil || driver == nil {
		return nil, fmt.Errorf("%w: template produced nil line or driver", ErrNoTemplate)
	}
	r := newResource(line, driver)
	r.pool = p
	line.SetVisible(false)
	p.all = append(p.all, r)
	return r, nil
}

func (p *Pool) release(r *Resource) {
	p.expiry.unschedule(r)
	r.driver.Reset()
	r.line.SetVisible(false)
	r.state = stateFree
	p.active--
	p.pushFree(r)
}

func (p *Pool) pushFree(r *Resource) {
	p.free = append(p.free, r)
}

func (p *Pool) popFree() *Resource {
	if p.freeHead == len(p.free) {
		return nil
	}
	r := p.free[p.freeHead]
	p.free[p.freeHead] = nil
	p.freeHead++

	// Compact once the consumed prefix dominates
	if p.freeHead == len(p.free) {
		p.free = p.free[:0]
		p.freeHead = 0
	} else if p.freeHead > len(p.free)/2 {
		n := copy(p.free, p.free[p.freeHead:])
		clear(p.free[n:])
		p.free = p.free[:n]
		p.freeHead = 0
	}
	return r
}
