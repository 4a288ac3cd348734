package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry is the central metrics facade
// Emitters cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// Key joins metric path segments with dots
func Key(parts ...string) string {
	return strings.Join(parts, ".")
}

// Lines renders every metric with the given prefix as "key=value", sorted by key
// Used by the sandbox status line and debug logs
func (r *Registry) Lines(prefix string) []string {
	var out []string
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, fmt.Sprintf("%s=%d", key, ptr.Load()))
		}
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, fmt.Sprintf("%s=%.2f", key, ptr.Get()))
		}
	})
	return out
}
