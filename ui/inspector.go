package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	inspectorWidth  = 236
	inspectorHeight = 222
)

// FishInfo is a snapshot of one fish for the inspector panel.
type FishInfo struct {
	X, Y         float32
	Speed        float32
	Heading      float32
	Size         float32
	BaseMaxSpeed float32
	MaxSpeed     float32
	MaxForce     float32
	WanderPhase  float32
	SwimPhase    float32
	Seed         uint32
	Links        int
}

// Inspector shows live state for a selected fish in a bottom-right panel.
type Inspector struct {
	renderer *Renderer
	screenW  int32
	screenH  int32
}

// NewInspector creates the fish inspector.
func NewInspector(screenW, screenH int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), screenW: screenW, screenH: screenH}
}

// Resize updates the anchor for a new screen size.
func (ins *Inspector) Resize(screenW, screenH int32) {
	ins.screenW = screenW
	ins.screenH = screenH
}

// Contains reports whether a screen point lands on the panel.
func (ins *Inspector) Contains(x, y float32) bool {
	px := float32(ins.screenW - inspectorWidth - 10)
	py := float32(ins.screenH - inspectorHeight - 40)
	return x >= px && x <= px+inspectorWidth && y >= py && y <= py+inspectorHeight
}

// Draw renders the inspector for the given fish.
func (ins *Inspector) Draw(info FishInfo) {
	r := ins.renderer
	pad := r.Theme.Padding

	x := ins.screenW - inspectorWidth - 10
	y := ins.screenH - inspectorHeight - 40

	r.DrawPanel(x, y, inspectorWidth, inspectorHeight)

	cx := x + pad
	cy := y + pad

	rl.DrawText(fmt.Sprintf("Fish %08x", info.Seed), cx, cy, 16, rl.RayWhite)
	cy += r.Theme.LineHeight + 6

	cy = r.DrawLabelValue(cx, cy, "Position", fmt.Sprintf("%.0f, %.0f", info.X, info.Y))
	cy = r.DrawLabelValue(cx, cy, "Heading", fmt.Sprintf("%.2f rad", info.Heading))
	cy = r.DrawLabelValue(cx, cy, "Size", fmt.Sprintf("%.2f", info.Size))
	cy = r.DrawLabelValue(cx, cy, "Links", fmt.Sprintf("%d", info.Links))
	cy += 4
	cy = r.DrawBar(cx, cy, "Speed", info.Speed, info.MaxSpeed, inspectorWidth-pad*2)
	cy = r.DrawLabelValue(cx, cy, "Max speed", fmt.Sprintf("%.2f (base %.2f)", info.MaxSpeed, info.BaseMaxSpeed))
	cy = r.DrawLabelValue(cx, cy, "Max force", fmt.Sprintf("%.3f", info.MaxForce))
	cy = r.DrawLabelValue(cx, cy, "Wander phase", fmt.Sprintf("%.2f", info.WanderPhase))
	cy = r.DrawLabelValue(cx, cy, "Swim phase", fmt.Sprintf("%.1f", info.SwimPhase))

	rl.DrawText("right-click water to dismiss", cx, y+inspectorHeight-18, 11, rl.Gray)
}
