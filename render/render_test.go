package render

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/stamp"
	"github.com/lixenwraith/ghost-trail/trail"
	"github.com/lixenwraith/ghost-trail/vmath"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func fgAt(screen tcell.Screen, x, y int) tcell.Color {
	_, _, style, _ := screen.GetContent(x, y)
	fg, _, _ := style.Decompose()
	return fg
}

func TestBlend(t *testing.T) {
	bg := RGB{0, 0, 0}
	fg := RGB{200, 100, 50}

	assert.Equal(t, fg, Blend(bg, fg, 1))
	assert.Equal(t, bg, Blend(bg, fg, 0))
	assert.Equal(t, RGB{100, 50, 25}, Blend(bg, fg, 0.5))
	assert.Equal(t, RGB{50, 25, 12}, Scale(fg, 0.25))
	assert.Equal(t, fg, Scale(fg, 2))
}

func TestDrawLineEndpointsAndContinuity(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		cells          int
	}{
		{"horizontal", 0, 0, 5, 0, 6},
		{"vertical", 2, 4, 2, 1, 4},
		{"diagonal", 0, 0, 3, 3, 4},
		{"steep", 0, 0, 2, 6, 7},
		{"point", 3, 3, 3, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][2]int
			drawLine(tt.x0, tt.y0, tt.x1, tt.y1, func(x, y int) {
				got = append(got, [2]int{x, y})
			})
			require.Len(t, got, tt.cells)
			assert.Equal(t, [2]int{tt.x0, tt.y0}, got[0])
			assert.Equal(t, [2]int{tt.x1, tt.y1}, got[len(got)-1])
			for i := 1; i < len(got); i++ {
				dx := got[i][0] - got[i-1][0]
				dy := got[i][1] - got[i-1][1]
				assert.LessOrEqual(t, dx*dx+dy*dy, 2, "cells must be 8-connected")
			}
		})
	}
}

func TestDrawPolylineClipsAndReservesStatusRow(t *testing.T) {
	screen := newScreen(t, 10, 5)
	c := NewCanvas(screen, fade.NewEpoch(t0))
	c.Clear()

	pts := []vmath.Vec3F{{X: -3, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 9}}
	c.DrawPolyline(pts, parameter.TrailGlyph, RGBTrail, 1)

	for x := 0; x <= 3; x++ {
		assert.Equal(t, parameter.TrailGlyph, runeAt(screen, x, 0))
	}
	for y := 1; y < 4; y++ {
		assert.Equal(t, parameter.TrailGlyph, runeAt(screen, 3, y))
	}
	assert.NotEqual(t, parameter.TrailGlyph, runeAt(screen, 3, 4), "status row is not drawable")

	w, h := c.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 4, h)
}

func TestDrawStatus(t *testing.T) {
	screen := newScreen(t, 6, 3)
	c := NewCanvas(screen, fade.NewEpoch(t0))
	c.DrawStatus("pool=10 active=2")
	assert.Equal(t, 'p', runeAt(screen, 0, 2))
	assert.Equal(t, '1', runeAt(screen, 5, 2))
}

func stampLine(t *testing.T, backend fade.Backend, epoch fade.Epoch) (*stamp.Pool, *stamp.Resource) {
	t.Helper()
	pool, err := stamp.NewPool(NewTemplate(backend, epoch, RGBGhost))
	require.NoError(t, err)
	r, err := pool.Acquire()
	require.NoError(t, err)
	snap := trail.NewSnapshot([]vmath.Vec3F{{X: 1, Y: 1}, {X: 4, Y: 1}}, t0)
	require.NoError(t, pool.Stamp(r, snap, 4*time.Second, t0))
	return pool, r
}

func TestLineAlphaMatchesAcrossBackends(t *testing.T) {
	epoch := fade.NewEpoch(t0.Add(-time.Minute))
	screen := newScreen(t, 20, 5)
	c := NewCanvas(screen, epoch)

	cpuPool, cpu := stampLine(t, fade.BackendCPU, epoch)
	_, gpu := stampLine(t, fade.BackendShader, epoch)

	cpuLine := cpu.Line().(*TerminalLine)
	gpuLine := gpu.Line().(*TerminalLine)
	assert.False(t, cpuLine.Shader())
	assert.True(t, gpuLine.Shader())

	for _, elapsed := range []time.Duration{0, time.Second, 3 * time.Second} {
		now := t0.Add(elapsed)
		cpuPool.Tick(now)
		assert.InDelta(t, c.LineAlpha(cpuLine, now), c.LineAlpha(gpuLine, now), 1e-4, "elapsed %s", elapsed)
	}
}

func TestDrawStampFadesTowardBackground(t *testing.T) {
	epoch := fade.NewEpoch(t0)
	screen := newScreen(t, 20, 5)
	c := NewCanvas(screen, epoch)
	pool, r := stampLine(t, fade.BackendShader, epoch)

	c.Clear()
	c.DrawStamp(r, t0)
	assert.Equal(t, parameter.GhostGlyph, runeAt(screen, 2, 1))
	assert.Equal(t, RGBGhost.Color(), fgAt(screen, 2, 1))

	c.Clear()
	c.DrawStamp(r, t0.Add(2*time.Second))
	assert.Equal(t, Blend(RGBBackground, RGBGhost, 0.5).Color(), fgAt(screen, 2, 1))

	// Released stamps are hidden and draw nothing
	pool.Tick(t0.Add(4 * time.Second))
	c.Clear()
	c.DrawStamp(r, t0.Add(4*time.Second))
	assert.NotEqual(t, parameter.GhostGlyph, runeAt(screen, 2, 1))
}
