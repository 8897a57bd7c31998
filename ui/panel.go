package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Aete/koi-fish-animation/systems"
)

const (
	panelWidth   = 272
	panelMargin  = 10
	sliderStride = 38
)

// Panel is the raygui tuning panel for steering and locomotion parameters.
// Sliders write through to the live parameter structs, so edits apply on
// the next simulation tick. Immediate mode: call Draw during the drawing
// phase only.
type Panel struct {
	renderer *Renderer
	screenW  int32
	visible  bool
	height   float32

	// First Draw captures the config-loaded values for the reset button.
	defSteering systems.SteeringParams
	defMotion   systems.MotionParams
	captured    bool
}

// NewPanel creates the tuning panel anchored to the right screen edge.
func NewPanel(screenW int32) *Panel {
	return &Panel{renderer: NewRenderer(), screenW: screenW}
}

// Toggle flips panel visibility.
func (p *Panel) Toggle() {
	p.visible = !p.visible
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool {
	return p.visible
}

// Resize updates the anchor for a new screen width.
func (p *Panel) Resize(screenW int32) {
	p.screenW = screenW
}

// Contains reports whether a screen point lands on the visible panel.
// Input handling uses this to keep panel clicks from spawning ripples.
func (p *Panel) Contains(x, y float32) bool {
	if !p.visible {
		return false
	}
	px := float32(p.screenW - panelWidth - panelMargin)
	return x >= px && x <= px+panelWidth && y >= panelMargin && y <= panelMargin+p.height
}

// Draw renders the panel and applies slider edits to the live parameters.
func (p *Panel) Draw(steering *systems.SteeringParams, motion *systems.MotionParams) {
	if !p.visible {
		return
	}
	if !p.captured {
		p.defSteering = *steering
		p.defMotion = *motion
		p.captured = true
	}

	x := float32(p.screenW - panelWidth - panelMargin)
	y := float32(panelMargin)

	// Title, eight sliders, reset button.
	p.height = 12 + 24 + 8*sliderStride + 26 + 12
	p.renderer.DrawPanel(int32(x), int32(y), panelWidth, int32(p.height))

	cx := x + 12
	cy := y + 12

	rl.DrawText("Tuning", int32(cx), int32(cy), 16, rl.RayWhite)
	cy += 24

	cy = p.slider(cx, cy, "Wander radius", &steering.WanderRadius, 5, 100, "%.0f")
	cy = p.slider(cx, cy, "Wander distance", &steering.WanderDistance, 10, 160, "%.0f")
	cy = p.slider(cx, cy, "Wander jitter", &steering.WanderJitter, 0, 1, "%.2f")
	cy = p.slider(cx, cy, "Scatter clamp", &steering.ScatterClamp, 1, 16, "%.1f")
	cy = p.slider(cx, cy, "Speed gain", &steering.SpeedGain, 0, 2, "%.2f")
	cy = p.slider(cx, cy, "Boost cap", &steering.BoostCap, 1, 3, "%.2f")
	cy = p.slider(cx, cy, "Max turn", &motion.MaxTurn, 0.05, 0.8, "%.2f")
	cy = p.slider(cx, cy, "Heading damp", &motion.HeadingDamp, 0.02, 1, "%.2f")

	if gui.Button(rl.Rectangle{X: cx, Y: cy, Width: 110, Height: 24}, "Reset") {
		*steering = p.defSteering
		*motion = p.defMotion
	}
}

// slider draws one labeled slider bound to a parameter and returns next Y.
func (p *Panel) slider(x, y float32, label string, v *float32, min, max float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(y), 13, rl.LightGray)
	y += 16
	*v = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 24 - 54, Height: 16},
		"", "",
		*v, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(x+panelWidth-24-48), int32(y+1), 14, rl.RayWhite)
	return y + sliderStride - 16
}
