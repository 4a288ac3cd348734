package fade

import (
	"fmt"
	"time"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/vmath"
)

// Curve maps fade progress to remaining opacity
type Curve uint8

const (
	// CurveLinear is alpha0 * (1 - t)
	CurveLinear Curve = iota
	// CurveSmooth is alpha0 * smoothstep(1 - t)
	CurveSmooth
)

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return parameter.CurveLinear
	case CurveSmooth:
		return parameter.CurveSmooth
	default:
		return "unknown"
	}
}

// ParseCurve maps a config name to a curve
func ParseCurve(s string) (Curve, error) {
	switch s {
	case parameter.CurveLinear, "":
		return CurveLinear, nil
	case parameter.CurveSmooth:
		return CurveSmooth, nil
	default:
		return 0, fmt.Errorf("%w: unknown fade curve %q", core.ErrConfiguration, s)
	}
}

// Alpha returns opacity for progress t in [0, 1]
func (c Curve) Alpha(alpha0, t float64) float64 {
	remaining := 1 - vmath.Clamp01(t)
	if c == CurveSmooth {
		return alpha0 * vmath.Smoothstep(remaining)
	}
	return alpha0 * remaining
}

// Progress returns clamp01((now - start) / duration)
// Non-positive duration is treated as already elapsed
func Progress(start time.Time, duration time.Duration, now time.Time) float64 {
	if duration <= 0 {
		return 1
	}
	return vmath.Clamp01(float64(now.Sub(start)) / float64(duration))
}

// Elapsed reports whether the fade window starting at start has ended at now
func Elapsed(start time.Time, duration time.Duration, now time.Time) bool {
	return now.Sub(start) >= duration
}
