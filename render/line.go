package render

import (
	"github.com/lixenwraith/ghost-trail/fade"
	"github.com/lixenwraith/ghost-trail/stamp"
	"github.com/lixenwraith/ghost-trail/vmath"
)

// TerminalLine is the host visual of one stamp
// Holds a copy of the stamped positions and whichever fade state its driver writes:
// alpha for the CPU backend, a uniform block for the shader backend
type TerminalLine struct {
	color    RGB
	points   []vmath.Vec3F
	visible  bool
	alpha    float64
	uniforms fade.Uniforms
	shader   bool
}

var (
	_ stamp.Line         = (*TerminalLine)(nil)
	_ fade.ColorTarget   = (*TerminalLine)(nil)
	_ fade.UniformTarget = (*TerminalLine)(nil)
)

// NewTerminalLine creates a hidden line drawn in color
func NewTerminalLine(color RGB) *TerminalLine {
	return &TerminalLine{color: color}
}

func (l *TerminalLine) SetPositions(points []vmath.Vec3F) {
	l.points = append(l.points[:0], points...)
}

func (l *TerminalLine) SetVisible(visible bool) {
	l.visible = visible
}

func (l *TerminalLine) SetAlpha(alpha float64) {
	l.alpha = alpha
}

func (l *TerminalLine) SetFloat(name string, v float32) {
	l.uniforms.Set(name, v)
}

// Points returns the stamped positions, valid until the next SetPositions
func (l *TerminalLine) Points() []vmath.Vec3F {
	return l.points
}

func (l *TerminalLine) Visible() bool {
	return l.visible
}

func (l *TerminalLine) Alpha() float64 {
	return l.alpha
}

func (l *TerminalLine) Uniforms() fade.Uniforms {
	return l.uniforms
}

func (l *TerminalLine) Color() RGB {
	return l.color
}

// Shader reports whether the line is faded from its uniform block
func (l *TerminalLine) Shader() bool {
	return l.shader
}

// NewTemplate returns a stamp template producing terminal lines wired to the chosen fade backend
// Curve and alpha come from the pool; shader-backed lines are evaluated against epoch at draw time
func NewTemplate(backend fade.Backend, epoch fade.Epoch, color RGB) stamp.Template {
	return func(curve fade.Curve, alpha0 float64) (stamp.Line, fade.Driver) {
		l := NewTerminalLine(color)
		if backend == fade.BackendShader {
			l.shader = true
			return l, fade.NewUniformDriver(l, epoch, curve, alpha0)
		}
		return l, fade.NewColorDriver(l, curve, alpha0)
	}
}
