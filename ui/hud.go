package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	FishCount    int
	RippleCount  int
	Tick         int64
	Speed        int
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
	height   int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(width, height int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    width,
		height:   height,
	}
}

// Resize updates the screen dimensions.
func (h *HUD) Resize(width, height int32) {
	h.width = width
	h.height = height
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.RayWhite)

	rl.DrawText(
		fmt.Sprintf("Fish: %d | Ripples: %d", data.FishCount, data.RippleCount),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
