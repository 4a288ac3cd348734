package render

import (
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/parameter"
	"github.com/lixenwraith/ghost-trail/stamp"
	"github.com/lixenwraith/ghost-trail/vmath"
)

// Canvas draws trails and stamps onto a tcell screen
// World X maps to columns and Y to rows; Z is ignored
// The bottom parameter.BottomMargin rows are reserved for the status line
type Canvas struct {
	screen tcell.Screen
	epoch  fade.Epoch
	bg     RGB
}

// NewCanvas creates a canvas; epoch must be the one shader-backed templates were built with
func NewCanvas(screen tcell.Screen, epoch fade.Epoch) *Canvas {
	return &Canvas{
		screen: screen,
		epoch:  epoch,
		bg:     RGBBackground,
	}
}

// Size returns the drawable area in cells
func (c *Canvas) Size() (width, height int) {
	w, h := c.screen.Size()
	return w, max(h-parameter.BottomMargin, 0)
}

// Clear fills the screen with the background color
func (c *Canvas) Clear() {
	c.screen.SetStyle(tcell.StyleDefault.Background(c.bg.Color()))
	c.screen.Clear()
}

// Show flushes the frame
func (c *Canvas) Show() {
	c.screen.Show()
}

// LineAlpha returns the opacity a line would be drawn with at now
// CPU lines report the alpha their driver last pushed; shader lines evaluate their uniforms
func (c *Canvas) LineAlpha(l *TerminalLine, now time.Time) float64 {
	if !l.Visible() {
		return 0
	}
	if l.Shader() {
		return fade.EvaluateUniforms(l.Uniforms(), c.epoch.Seconds(now))
	}
	return l.Alpha()
}

// DrawStamp draws one stamped resource; resources with non-terminal lines are skipped
func (c *Canvas) DrawStamp(r *stamp.Resource, now time.Time) {
	l, ok := r.Line().(*TerminalLine)
	if !ok {
		return
	}
	alpha := c.LineAlpha(l, now)
	if alpha <= 0 {
		return
	}
	c.DrawPolyline(l.Points(), parameter.GhostGlyph, l.Color(), alpha)
}

// DrawPolyline connects consecutive points with glyph, blended over the background
func (c *Canvas) DrawPolyline(points []vmath.Vec3F, glyph rune, color RGB, alpha float64) {
	if len(points) == 0 || alpha <= 0 {
		return
	}
	style := c.style(color, alpha)

	x0, y0 := cell(points[0])
	if len(points) == 1 {
		c.set(x0, y0, glyph, style)
		return
	}
	for _, p := range points[1:] {
		x1, y1 := cell(p)
		drawLine(x0, y0, x1, y1, func(x, y int) {
			c.set(x, y, glyph, style)
		})
		x0, y0 = x1, y1
	}
}

// DrawGlyph draws a single glyph at p at full opacity
func (c *Canvas) DrawGlyph(p vmath.Vec3F, glyph rune, color RGB) {
	x, y := cell(p)
	c.set(x, y, glyph, c.style(color, 1))
}

// DrawStatus writes text on the reserved bottom row, truncated to the screen width
func (c *Canvas) DrawStatus(text string) {
	w, h := c.screen.Size()
	if h == 0 {
		return
	}
	style := c.style(RGBStatus, 1)
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		c.screen.SetContent(x, h-1, r, nil, style)
		x++
	}
}

func (c *Canvas) style(color RGB, alpha float64) tcell.Style {
	return tcell.StyleDefault.
		Foreground(Blend(c.bg, color, alpha).Color()).
		Background(c.bg.Color())
}

func (c *Canvas) set(x, y int, glyph rune, style tcell.Style) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.screen.SetContent(x, y, glyph, nil, style)
}

// cell rounds a world position to its terminal cell
func cell(p vmath.Vec3F) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// drawLine visits every cell from (x0,y0) to (x1,y1) inclusive using Bresenham's algorithm
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
