package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Aete/koi-fish-animation/camera"
	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/systems"
)

var (
	rippleCrest = rl.Color{R: 214, G: 236, B: 238, A: 255}
	rippleWake  = rl.Color{R: 140, G: 194, B: 202, A: 255}
)

// Ripples draws expanding wavefronts as rings that fade with amplitude.
type Ripples struct{}

// NewRipples creates the ripple renderer.
func NewRipples() *Ripples {
	return &Ripples{}
}

// Draw renders every active ripple, including ghost copies near the wrap
// seam.
func (rr *Ripples) Draw(cam *camera.Camera, ripples []systems.Ripple) {
	for i := range ripples {
		r := &ripples[i]
		if r.Amplitude <= 0 || r.InitAmp <= 0 {
			continue
		}

		reach := r.Radius + r.WaveWidth
		fade := r.Amplitude / r.InitAmp

		if cam.IsVisible(r.Center.X, r.Center.Y, reach) {
			sx, sy := cam.WorldToScreen(r.Center.X, r.Center.Y)
			drawRippleAt(rl.Vector2{X: sx, Y: sy}, r, fade, cam.Zoom)
		}
		for _, gp := range cam.GhostPositions(r.Center.X, r.Center.Y, reach) {
			drawRippleAt(rl.Vector2{X: gp.X, Y: gp.Y}, r, fade, cam.Zoom)
		}
	}
}

// drawRippleAt renders one ripple at a resolved screen position: a bright
// leading crest and a fainter wake half a wave behind it.
func drawRippleAt(center rl.Vector2, r *systems.Ripple, fade, zoom float32) {
	radius := r.Radius * zoom
	band := r.WaveWidth * zoom * 0.12
	if band < 1 {
		band = 1
	}
	segments := ringSegments(radius)

	crest := rippleCrest
	crest.A = uint8(185 * fade)
	rl.DrawRing(center, radius-band, radius+band, 0, 360, segments, crest)

	if wake := radius - r.WaveWidth*zoom*0.55; wake > band {
		wakeCol := rippleWake
		wakeCol.A = uint8(90 * fade)
		rl.DrawRing(center, wake-band*0.6, wake+band*0.6, 0, 360, segments, wakeCol)
	}
}

// ringSegments scales ring tessellation with screen radius.
func ringSegments(radius float32) int32 {
	return int32(geom.Clamp(radius*0.6, 24, 96))
}
