package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// handleInput processes mouse and keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Tuning panel toggle
	if rl.IsKeyPressed(rl.KeyTab) && g.panel != nil {
		g.panel.Toggle()
	}

	// Debug mode toggle
	if rl.IsKeyPressed(rl.KeyD) {
		g.debugMode = !g.debugMode
		if g.debugMode {
			g.debugShowRipples = true // Default to showing ripple overlay
		}
	}

	// Debug sub-options (only when debug mode is active)
	if g.debugMode {
		if rl.IsKeyPressed(rl.KeyR) {
			g.debugShowRipples = !g.debugShowRipples
		}
		if rl.IsKeyPressed(rl.KeyS) {
			g.debugShowSpines = !g.debugShowSpines
		}
		if rl.IsKeyPressed(rl.KeyV) {
			g.debugShowVectors = !g.debugShowVectors
		}
	}

	// Camera controls
	g.handleCameraInput()

	// Left click drops a ripple, unless the click lands on a panel.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		onPanel := g.panel != nil && g.panel.Contains(mouse.X, mouse.Y)
		onInspector := g.hasSelection && g.inspector != nil && g.inspector.Contains(mouse.X, mouse.Y)
		if !onPanel && !onInspector {
			wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
			g.SpawnRipple(wx, wy)
		}
	}

	// Right click selects the nearest fish for the inspector, or clears
	// the selection when the water is empty there.
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		mouse := rl.GetMousePosition()
		wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
		g.selectFishAt(wx, wy)
	}
}

// selectFishAt picks the fish closest to a world point within a small
// pick radius.
func (g *Game) selectFishAt(wx, wy float32) {
	const pickRadius = 24.0

	bestDistSq := float32(pickRadius * pickRadius)
	found := false
	var best ecs.Entity

	query := g.fishFilter.Query()
	for query.Next() {
		pos, _, _, _, _, _ := query.Get()
		dx := pos.X - wx
		dy := pos.Y - wy
		if d := dx*dx + dy*dy; d < bestDistSq {
			bestDistSq = d
			best = query.Entity()
			found = true
		}
	}

	g.selected = best
	g.hasSelection = found
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.camera != nil {
		g.camera.Resize(w, h)
	}
	if g.hud != nil {
		g.hud.Resize(int32(w), int32(h))
	}
	if g.panel != nil {
		g.panel.Resize(int32(w))
	}
	if g.inspector != nil {
		g.inspector.Resize(int32(w), int32(h))
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		zoomFactor := float32(1.0) + wheelMove*0.1
		g.camera.ZoomBy(zoomFactor)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
