package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/systems"
	"github.com/Aete/koi-fish-animation/telemetry"
	"github.com/Aete/koi-fish-animation/ui"
)

// pondBase is the deep water color under the shimmer texture.
var pondBase = rl.Color{R: 18, G: 46, B: 58, A: 255}

// Draw renders one frame: water, fish, ripple rings, overlays, UI.
// Closes the perf sample opened by Update so the render phase lands in the
// same window as the simulation phases.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(pondBase)

	if g.tickSampleOpen {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
	}

	g.waterRenderer.Draw(g.camera, g.tick)

	ripples := g.ripples.Active()

	query := g.fishFilter.Query()
	for query.Next() {
		_, _, _, _, sw, spine := query.Get()
		g.fishRenderer.Draw(g.camera, spine, sw, ripples)
	}

	g.rippleDrawer.Draw(g.camera, ripples)

	if g.debugMode {
		g.drawDebugOverlays(ripples)
	}

	g.drawUI()

	if g.tickSampleOpen {
		g.perfCollector.EndTick()
		g.tickSampleOpen = false
	}
	g.perfCollector.RecordFrame()

	rl.EndDrawing()
}

// drawUI draws the HUD and the tuning panel.
func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Title:        "Koi Pond",
		FishCount:    g.fishCount,
		RippleCount:  g.ripples.Count(),
		Tick:         g.tick,
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"SPACE: Pause | < >: Speed | Click: Ripple | R-Click: Inspect | TAB: Tuning | D: Debug | Arrows/Wheel: Camera | F11: Fullscreen")

	if g.panel != nil {
		g.panel.Draw(&g.steering, &g.motion)
	}
	if g.hasSelection {
		g.drawInspector()
	}
}

// drawInspector renders the selection marker and the fish inspector panel.
func (g *Game) drawInspector() {
	pos, vel, _, rot, sw, spine := g.fishMapper.Get(g.selected)
	if pos == nil {
		g.hasSelection = false
		return
	}

	sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
	rl.DrawCircleLines(int32(sx), int32(sy), sw.Size*12*g.camera.Zoom, rl.Color{R: 240, G: 210, B: 120, A: 220})

	g.inspector.Draw(ui.FishInfo{
		X:            pos.X,
		Y:            pos.Y,
		Speed:        geom.Vec2{X: vel.X, Y: vel.Y}.Len(),
		Heading:      rot.Heading,
		Size:         sw.Size,
		BaseMaxSpeed: sw.BaseMaxSpeed,
		MaxSpeed:     sw.MaxSpeed,
		MaxForce:     sw.MaxForce,
		WanderPhase:  sw.WanderPhase,
		SwimPhase:    sw.SwimPhase,
		Seed:         sw.Seed,
		Links:        int(spine.Count),
	})
}

// drawDebugOverlays draws the simulation internals: wavefronts and scatter
// ranges, spine joints, velocity vectors.
func (g *Game) drawDebugOverlays(ripples []systems.Ripple) {
	zoom := g.camera.Zoom

	if g.debugShowRipples {
		for i := range ripples {
			r := &ripples[i]
			sx, sy := g.camera.WorldToScreen(r.Center.X, r.Center.Y)

			// Wavefront and displacement band
			rl.DrawCircleLines(int32(sx), int32(sy), r.Radius*zoom, rl.Color{R: 120, G: 220, B: 255, A: 200})
			rl.DrawCircleLines(int32(sx), int32(sy), (r.Radius+r.WaveWidth)*zoom, rl.Color{R: 120, G: 220, B: 255, A: 60})

			// Scatter range while the pulse still pushes
			if r.Progress() <= r.ScatterWindow {
				rl.DrawCircleLines(int32(sx), int32(sy), r.ScatterRange*zoom, rl.Color{R: 255, G: 160, B: 80, A: 90})
			}
		}
	}

	if g.debugShowSpines || g.debugShowVectors {
		query := g.fishFilter.Query()
		for query.Next() {
			pos, vel, _, _, _, spine := query.Get()

			if g.debugShowSpines {
				n := int(spine.Count)
				for i := 0; i < n; i++ {
					l := spine.Link(i)
					sx, sy := g.camera.WorldToScreen(l.X, l.Y)
					end := l.End()
					ex, ey := g.camera.WorldToScreen(end.X, end.Y)
					rl.DrawLine(int32(sx), int32(sy), int32(ex), int32(ey), rl.Color{R: 255, G: 255, B: 255, A: 140})
					rl.DrawCircle(int32(sx), int32(sy), 2*zoom, rl.Color{R: 255, G: 230, B: 120, A: 200})
				}
			}

			if g.debugShowVectors {
				sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
				ex := sx + vel.X*20*zoom
				ey := sy + vel.Y*20*zoom
				rl.DrawLine(int32(sx), int32(sy), int32(ex), int32(ey), rl.Color{R: 120, G: 255, B: 120, A: 200})
			}
		}
	}
}
