// Package renderer draws the pond: the water surface, the fish bodies,
// and the ripple wavefronts. All drawing goes through the camera so pan,
// zoom, and the wrap seam are handled in one place.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Aete/koi-fish-animation/camera"
	"github.com/Aete/koi-fish-animation/config"
)

// waterSeed fixes the noise field so the surface looks the same run to run.
// The simulation RNG is seeded separately; the water is decoration.
const waterSeed = 1974

var (
	waterDeep    = color.RGBA{R: 14, G: 38, B: 50, A: 255}
	waterShallow = color.RGBA{R: 34, G: 82, B: 92, A: 255}
	waterGlint   = color.RGBA{R: 96, G: 152, B: 148, A: 255}
)

// Water renders an animated noise texture anchored to world coordinates,
// so panning the camera moves across the shimmer instead of dragging it.
// The texture is regenerated on the CPU every few ticks and upscaled with
// bilinear filtering.
type Water struct {
	noise opensimplex.Noise

	texture rl.Texture2D
	pixels  []color.RGBA
	texW    int
	texH    int

	worldW, worldH float32
	divisor        int
	refreshTicks   int64
	noiseScale     float64
	shimmerSpeed   float64

	lastRefresh int64
	initialized bool
}

// NewWater creates the water renderer from config.
func NewWater(c *config.Config) *Water {
	divisor := c.Render.Water.TextureDivisor
	if divisor < 1 {
		divisor = 1
	}
	refresh := int64(c.Render.Water.RefreshTicks)
	if refresh < 1 {
		refresh = 1
	}
	return &Water{
		noise:        opensimplex.NewNormalized(waterSeed),
		worldW:       c.Derived.WorldW32,
		worldH:       c.Derived.WorldH32,
		divisor:      divisor,
		refreshTicks: refresh,
		noiseScale:   c.Render.Water.NoiseScale,
		shimmerSpeed: c.Render.Water.ShimmerSpeed,
	}
}

// Init creates the texture (must be called after the raylib window exists).
func (w *Water) Init() {
	if w.initialized {
		return
	}

	w.texW = int(w.worldW) / w.divisor
	w.texH = int(w.worldH) / w.divisor
	if w.texW < 1 {
		w.texW = 1
	}
	if w.texH < 1 {
		w.texH = 1
	}

	img := rl.GenImageColor(w.texW, w.texH, rl.Black)
	w.texture = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(w.texture, rl.FilterBilinear)
	rl.UnloadImage(img)

	w.pixels = make([]color.RGBA, w.texW*w.texH)
	w.lastRefresh = -w.refreshTicks

	w.initialized = true
}

// refresh regenerates the noise texture for the given tick.
func (w *Water) refresh(tick int64) {
	z := float64(tick) * w.shimmerSpeed / 60.0
	scale := w.noiseScale * float64(w.divisor)

	i := 0
	for py := 0; py < w.texH; py++ {
		ny := float64(py) * scale
		for px := 0; px < w.texW; px++ {
			n := w.noise.Eval3(float64(px)*scale, ny, z)
			// Squaring pushes most of the field toward the deep color and
			// leaves sparse bright caustic veins.
			s := n * n
			w.pixels[i] = lerpRGB(lerpRGB(waterDeep, waterShallow, n), waterGlint, s)
			i++
		}
	}

	rl.UpdateTexture(w.texture, w.pixels)
	w.lastRefresh = tick
}

// Draw renders the water surface under the current camera view.
func (w *Water) Draw(cam *camera.Camera, tick int64) {
	if !w.initialized {
		w.Init()
	}
	if tick-w.lastRefresh >= w.refreshTicks {
		w.refresh(tick)
	}

	sx, sy := cam.WorldToScreen(0, 0)
	dw := w.worldW * cam.Zoom
	dh := w.worldH * cam.Zoom
	src := rl.Rectangle{Width: float32(w.texW), Height: float32(w.texH)}

	if !cam.Wrap {
		dst := rl.Rectangle{X: sx, Y: sy, Width: dw, Height: dh}
		rl.DrawTexturePro(w.texture, src, dst, rl.Vector2{}, 0, rl.White)
		return
	}

	// Toroidal world: WorldToScreen returns the nearest image of the
	// origin, which can leave uncovered screen on any side. Tile copies
	// around it and skip the ones that miss the viewport.
	for iy := -1; iy <= 1; iy++ {
		for ix := -1; ix <= 1; ix++ {
			x := sx + float32(ix)*dw
			y := sy + float32(iy)*dh
			if x > cam.ViewportW || y > cam.ViewportH || x+dw < 0 || y+dh < 0 {
				continue
			}
			dst := rl.Rectangle{X: x, Y: y, Width: dw, Height: dh}
			rl.DrawTexturePro(w.texture, src, dst, rl.Vector2{}, 0, rl.White)
		}
	}
}

// Unload frees GPU resources.
func (w *Water) Unload() {
	if !w.initialized {
		return
	}
	rl.UnloadTexture(w.texture)
	w.initialized = false
}

// lerpRGB blends a toward b by t in [0,1].
func lerpRGB(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}
