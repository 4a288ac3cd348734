package trail

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ghost-trail/core"
	"github.com/lixenwraith/ghost-trail/vmath"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func pt(x float64) vmath.Vec3F {
	return vmath.Vec3F{X: x}
}

func record(tr *LiveTrail, xs ...float64) {
	for i, x := range xs {
		tr.Record(pt(x), t0.Add(time.Duration(i)*time.Millisecond))
	}
}

func TestLiveTrailRecordsInOrder(t *testing.T) {
	tr := NewLiveTrail(8, 0, 0)
	record(tr, 1, 2, 3)

	assert.Equal(t, 3, tr.Len())
	assert.True(t, tr.Dirty())
	if diff := cmp.Diff([]vmath.Vec3F{pt(1), pt(2), pt(3)}, tr.Positions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, pt(3), last)
}

func TestLiveTrailRingDropsOldest(t *testing.T) {
	tr := NewLiveTrail(3, 0, 0)
	record(tr, 1, 2, 3, 4, 5)

	assert.Equal(t, 3, tr.Len())
	if diff := cmp.Diff([]vmath.Vec3F{pt(3), pt(4), pt(5)}, tr.Positions()); diff != "" {
		t.Errorf("ring positions mismatch (-want +got):\n%s", diff)
	}
}

func TestLiveTrailUnboundedGrows(t *testing.T) {
	tr := NewLiveTrail(0, 0, 0)
	for i := 0; i < 5000; i++ {
		tr.Record(pt(float64(i)), t0)
	}
	assert.Equal(t, 5000, tr.Len())
	assert.Equal(t, 0, tr.Capacity())
}

func TestLiveTrailClearStartsFreshSegment(t *testing.T) {
	tr := NewLiveTrail(8, 0, 0.5)
	record(tr, 1, 2)
	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.Dirty())
	_, ok := tr.Last()
	assert.False(t, ok)

	// Same spot as the pre-clear tail is still recorded: no distance test against old history
	assert.True(t, tr.Record(pt(2), t0))
	assert.Equal(t, 1, tr.Len())
}

func TestLiveTrailMinVertexDistance(t *testing.T) {
	tr := NewLiveTrail(8, 0, 1.0)
	assert.True(t, tr.Record(pt(0), t0))
	assert.False(t, tr.Record(pt(0.5), t0), "point within min distance must be skipped")
	assert.True(t, tr.Record(pt(1.5), t0))
	assert.Equal(t, 2, tr.Len())
}

func TestLiveTrailPruneByLifetime(t *testing.T) {
	tr := NewLiveTrail(8, time.Second, 0)
	tr.Record(pt(1), t0)
	tr.Record(pt(2), t0.Add(500*time.Millisecond))
	tr.Record(pt(3), t0.Add(1500*time.Millisecond))

	removed := tr.Prune(t0.Add(1600 * time.Millisecond))
	assert.Equal(t, 2, removed)
	if diff := cmp.Diff([]vmath.Vec3F{pt(3)}, tr.Positions()); diff != "" {
		t.Errorf("pruned positions mismatch (-want +got):\n%s", diff)
	}
}

func TestLiveTrailPruneUnbounded(t *testing.T) {
	tr := NewLiveTrail(0, time.Second, 0)
	tr.Record(pt(1), t0)
	tr.Record(pt(2), t0.Add(2*time.Second))

	assert.Equal(t, 1, tr.Prune(t0.Add(2*time.Second)))
	assert.Equal(t, 0, NewLiveTrail(4, 0, 0).Prune(t0), "zero lifetime never prunes")
}

func TestExtractPreservesChronologicalOrder(t *testing.T) {
	ex, err := NewExtractor(16, 2, OverflowTruncate)
	require.NoError(t, err)

	tr := NewLiveTrail(8, 0, 0)
	record(tr, 1, 2, 3, 4)

	snap, err := ex.Extract(tr, t0)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Len())
	assert.False(t, snap.Truncated())
	assert.Equal(t, t0, snap.Taken())
	if diff := cmp.Diff([]vmath.Vec3F{pt(1), pt(2), pt(3), pt(4)}, snap.Points()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Extraction has no side effect on the source
	assert.Equal(t, 4, tr.Len())
}

func TestExtractSnapshotIsIndependentOfBuffer(t *testing.T) {
	ex, err := NewExtractor(4, 2, OverflowTruncate)
	require.NoError(t, err)

	tr := NewLiveTrail(8, 0, 0)
	record(tr, 1, 2)
	first, err := ex.Extract(tr, t0)
	require.NoError(t, err)

	tr.Clear()
	record(tr, 7, 8)
	_, err = ex.Extract(tr, t0)
	require.NoError(t, err)

	assert.Equal(t, pt(1), first.At(0), "reusing the working buffer must not mutate earlier snapshots")
}

func TestExtractTooShort(t *testing.T) {
	ex, err := NewExtractor(16, 2, OverflowTruncate)
	require.NoError(t, err)

	tr := NewLiveTrail(8, 0, 0)
	record(tr, 1)

	snap, err := ex.Extract(tr, t0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooShort))
	assert.True(t, errors.Is(err, core.ErrPrecondition))
	assert.True(t, snap.Empty())
}

func TestExtractOverflowTruncateKeepsNewest(t *testing.T) {
	ex, err := NewExtractor(3, 2, OverflowTruncate)
	require.NoError(t, err)

	tr := NewLiveTrail(0, 0, 0)
	record(tr, 1, 2, 3, 4, 5)

	snap, err := ex.Extract(tr, t0)
	require.NoError(t, err)
	assert.True(t, snap.Truncated())
	assert.Equal(t, 2, snap.Dropped())
	if diff := cmp.Diff([]vmath.Vec3F{pt(3), pt(4), pt(5)}, snap.Points()); diff != "" {
		t.Errorf("truncated snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractOverflowReject(t *testing.T) {
	ex, err := NewExtractor(3, 2, OverflowReject)
	require.NoError(t, err)

	tr := NewLiveTrail(0, 0, 0)
	record(tr, 1, 2, 3, 4)

	_, err = ex.Extract(tr, t0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrCapacityExceeded))
	assert.Equal(t, 4, tr.Len())
}

func TestExtractNilSource(t *testing.T) {
	ex, err := NewExtractor(3, 2, OverflowReject)
	require.NoError(t, err)
	_, err = ex.Extract(nil, t0)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestNewExtractorValidation(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		minPoints int
	}{
		{"zero capacity", 0, 2},
		{"zero minimum", 16, 0},
		{"minimum above capacity", 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(tt.capacity, tt.minPoints, OverflowTruncate)
			assert.ErrorIs(t, err, core.ErrConfiguration)
		})
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	p, err := ParseOverflowPolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, OverflowReject, p)
	assert.Equal(t, "reject", p.String())

	p, err = ParseOverflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, OverflowTruncate, p)

	_, err = ParseOverflowPolicy("grow")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
