package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/trail"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "GHOST_"

// Config is the emitter configuration surface
type Config struct {
	FadeDuration          time.Duration `env:"FADE_DURATION"`
	MinPointsToStamp      int           `env:"MIN_POINTS"`
	PoolSize              int           `env:"POOL_SIZE"`
	WorkingBufferCapacity int           `env:"BUFFER_CAPACITY"`

	TrailCapacity     int           `env:"TRAIL_CAPACITY"`
	TrailLifetime     time.Duration `env:"TRAIL_LIFETIME"`
	MinVertexDistance float64       `env:"MIN_VERTEX_DISTANCE"`

	Curve       string  `env:"CURVE"`
	Overflow    string  `env:"OVERFLOW"`
	FadeBackend string  `env:"FADE_BACKEND"`
	Alpha0      float64 `env:"ALPHA"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		FadeDuration:          parameter.FadeDuration,
		MinPointsToStamp:      parameter.MinPointsToStamp,
		PoolSize:              parameter.StampPoolSize,
		WorkingBufferCapacity: parameter.WorkingBufferCapacity,
		TrailCapacity:         parameter.TrailCapacity,
		TrailLifetime:         parameter.TrailLifetime,
		MinVertexDistance:     parameter.TrailMinVertexDistance,
		Curve:                 parameter.CurveLinear,
		Overflow:              parameter.OverflowTruncate,
		FadeBackend:           parameter.BackendCPU,
		Alpha0:                parameter.FadeAlpha,
	}
}

// Load overlays GHOST_* environment variables on the defaults and validates the result
func Load() (Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and policy names, all failures wrap core.ErrConfiguration
func (c Config) Validate() error {
	var errs []error
	if c.FadeDuration <= 0 {
		errs = append(errs, fmt.Errorf("fade duration %s must be positive", c.FadeDuration))
	}
	if c.MinPointsToStamp < 1 {
		errs = append(errs, fmt.Errorf("min points %d must be at least 1", c.MinPointsToStamp))
	}
	if c.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("pool size %d must not be negative", c.PoolSize))
	}
	if c.WorkingBufferCapacity < 1 {
		errs = append(errs, fmt.Errorf("working buffer capacity %d must be positive", c.WorkingBufferCapacity))
	}
	if c.MinPointsToStamp > c.WorkingBufferCapacity {
		errs = append(errs, fmt.Errorf("min points %d exceeds working buffer %d", c.MinPointsToStamp, c.WorkingBufferCapacity))
	}
	if c.TrailCapacity < 0 {
		errs = append(errs, fmt.Errorf("trail capacity %d must not be negative", c.TrailCapacity))
	}
	if c.TrailLifetime < 0 {
		errs = append(errs, fmt.Errorf("trail lifetime %s must not be negative", c.TrailLifetime))
	}
	if c.MinVertexDistance < 0 {
		errs = append(errs, fmt.Errorf("min vertex distance %g must not be negative", c.MinVertexDistance))
	}
	if c.Alpha0 < 0 || c.Alpha0 > 1 {
		errs = append(errs, fmt.Errorf("alpha %g must be within [0, 1]", c.Alpha0))
	}
	if _, err := fade.ParseCurve(c.Curve); err != nil {
		errs = append(errs, err)
	}
	if _, err := trail.ParseOverflowPolicy(c.Overflow); err != nil {
		errs = append(errs, err)
	}
	if _, err := fade.ParseBackend(c.FadeBackend); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", core.ErrConfiguration, errors.Join(errs...))
}

// CurvePolicy returns the parsed fade curve, Validate must have passed
func (c Config) CurvePolicy() fade.Curve {
	curve, _ := fade.ParseCurve(c.Curve)
	return curve
}

// OverflowPolicy returns the parsed overflow policy, Validate must have passed
func (c Config) OverflowPolicy() trail.OverflowPolicy {
	policy, _ := trail.ParseOverflowPolicy(c.Overflow)
	return policy
}

// Backend returns the parsed fade backend, Validate must have passed
func (c Config) Backend() fade.Backend {
	backend, _ := fade.ParseBackend(c.FadeBackend)
	return backend
}
