package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Aete/koi-fish-animation/camera"
	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/systems"
)

// Fish renders a koi body as a triangle ribbon laid over the spine chain.
// Joint positions come straight from the links; the ribbon is widened by a
// nose-to-tail profile, warped by active ripples, and decorated with a
// per-fish pattern derived from the swimmer seed.
type Fish struct {
	samplesPerLink int
	stripeSpacing  float32
	spotStep       float32

	// Scratch buffers reused across fish to keep the draw loop
	// allocation-free.
	joints  []geom.Vec2
	dirs    []geom.Vec2 // head-ward unit tangent per sample
	lefts   []geom.Vec2 // displaced world-space left edge
	rights  []geom.Vec2 // displaced world-space right edge
	cols    []rl.Color  // per-segment body color
	spotPos []geom.Vec2
	spotRad []float32
	anchors []rl.Vector2
}

// NewFish creates the fish renderer from config quality settings.
func NewFish(c *config.Config) *Fish {
	q := c.Render.Quality

	step := float32(q.StepSizeFactor)
	if step <= 0 {
		step = 1
	}
	per := int(float32(q.SubdivisionLevel)/step + 0.5)
	if per < 1 {
		per = 1
	}

	spacing := float32(q.StripeSpacingFactor)
	if spacing <= 0 {
		spacing = 1
	}
	spot := float32(q.SpotStepFactor)
	if spot <= 0 {
		spot = 1
	}

	return &Fish{samplesPerLink: per, stripeSpacing: spacing, spotStep: spot}
}

// Draw renders one fish, including ghost copies while it crosses the wrap
// seam. Ripple displacement is applied per vertex so wavefronts visibly
// bend the body.
func (f *Fish) Draw(cam *camera.Camera, spine *components.Spine, sw *components.Swimmer, ripples []systems.Ripple) {
	n := int(spine.Count)
	if n == 0 {
		return
	}

	f.joints = f.joints[:0]
	for i := 0; i < n; i++ {
		f.joints = append(f.joints, spine.Links[i].Start())
	}
	f.joints = append(f.joints, spine.Links[n-1].End())

	anchor := f.joints[n/2]
	reach := spine.Links[0].Length * float32(n)

	f.anchors = f.anchors[:0]
	if cam.IsVisible(anchor.X, anchor.Y, reach) {
		ax, ay := cam.WorldToScreen(anchor.X, anchor.Y)
		f.anchors = append(f.anchors, rl.Vector2{X: ax, Y: ay})
	}
	for _, gp := range cam.GhostPositions(anchor.X, anchor.Y, reach) {
		f.anchors = append(f.anchors, rl.Vector2{X: gp.X, Y: gp.Y})
	}
	if len(f.anchors) == 0 {
		return
	}

	f.buildBody(spine, sw, ripples, n)
	f.placeSpots(sw)

	for _, a := range f.anchors {
		f.drawInstance(a, cam.Zoom, anchor, spine, sw)
	}
}

// buildBody fills the scratch buffers with world-space ribbon edges and
// segment colors for the current pose.
func (f *Fish) buildBody(spine *components.Spine, sw *components.Swimmer, ripples []systems.Ripple, n int) {
	total := n*f.samplesPerLink + 1

	f.dirs = f.dirs[:0]
	f.lefts = f.lefts[:0]
	f.rights = f.rights[:0]
	f.cols = f.cols[:0]

	base, patch := koiColors(sw.Seed)
	bandWidth := 1.2 * f.stripeSpacing

	for s := 0; s < total; s++ {
		u := float32(s) / float32(f.samplesPerLink)
		li := int(u)
		if li >= n {
			li = n - 1
		}
		frac := u - float32(li)
		p := f.joints[li].Lerp(f.joints[li+1], frac)

		dir := f.joints[li].Sub(f.joints[li+1]).Normalize()
		if dir.IsZero() {
			dir = geom.FromAngle(spine.Links[li].Angle + geom.Pi)
		}
		normal := geom.Vec2{X: -dir.Y, Y: dir.X}

		t := float32(s) / float32(total-1)
		half := bodyHalfWidth(t, sw.Size)

		l := p.Add(normal.Scale(half))
		r := p.Sub(normal.Scale(half))
		l = l.Add(rippleDisplacement(ripples, l))
		r = r.Add(rippleDisplacement(ripples, r))

		f.dirs = append(f.dirs, dir)
		f.lefts = append(f.lefts, l)
		f.rights = append(f.rights, r)

		if s < total-1 {
			band := int(t * float32(n) / bandWidth)
			col := base
			if hash32(sw.Seed, uint32(band)*31)&7 < 3 {
				col = patch
			}
			f.cols = append(f.cols, col)
		}
	}
}

// placeSpots scatters a few seed-stable dark spots along the body.
func (f *Fish) placeSpots(sw *components.Swimmer) {
	f.spotPos = f.spotPos[:0]
	f.spotRad = f.spotRad[:0]

	count := int(float32(2+sw.Seed%4)/f.spotStep + 0.5)
	last := len(f.lefts) - 1
	for k := 0; k < count; k++ {
		h := hash32(sw.Seed, uint32(0x9e37+k))
		t := 0.12 + 0.62*float32(h&0xffff)/65535.0
		s := int(t * float32(last))
		lat := 0.2 + 0.6*float32((h>>16)&0xff)/255.0
		if h&(1<<30) != 0 {
			lat = 1 - lat
		}
		f.spotPos = append(f.spotPos, f.lefts[s].Lerp(f.rights[s], lat))
		f.spotRad = append(f.spotRad, sw.Size*(0.7+0.6*float32((h>>24)&0x3f)/63.0))
	}
}

// drawInstance renders the prepared body at one screen anchor. All world
// positions are placed rigidly relative to the anchor so a fish never
// tears across the wrap seam.
func (f *Fish) drawInstance(a rl.Vector2, zoom float32, anchor geom.Vec2, spine *components.Spine, sw *components.Swimmer) {
	toScreen := func(p geom.Vec2) rl.Vector2 {
		return rl.Vector2{X: a.X + (p.X-anchor.X)*zoom, Y: a.Y + (p.Y-anchor.Y)*zoom}
	}

	n := int(spine.Count)
	_, patch := koiColors(sw.Seed)
	finCol := rl.Color{R: patch.R, G: patch.G, B: patch.B, A: 150}

	// Pectoral fins sit under the body near the widest point and row
	// against the stroke.
	sp := len(f.lefts) * 28 / 100
	if sp >= 1 {
		fwd := f.dirs[sp]
		finLen := sw.Size * 5
		rootBack := fwd.Scale(-sw.Size * 1.8)

		lRoot := f.lefts[sp]
		lDir := fwd.Rotate(2.35 + geom.FastSin(sw.SwimPhase)*0.3)
		fillTriangle(toScreen(lRoot), toScreen(lRoot.Add(lDir.Scale(finLen))), toScreen(lRoot.Add(rootBack)), finCol)

		rRoot := f.rights[sp]
		rDir := fwd.Rotate(-2.35 + geom.FastSin(sw.SwimPhase+geom.Pi)*0.3)
		fillTriangle(toScreen(rRoot), toScreen(rRoot.Add(rDir.Scale(finLen))), toScreen(rRoot.Add(rootBack)), finCol)
	}

	// Tail fin trails off the last link and flutters with the stroke.
	last := len(f.lefts) - 1
	tailC := f.lefts[last].Lerp(f.rights[last], 0.5)
	tailDir := geom.FromAngle(spine.Links[n-1].Angle)
	flare := 0.5 + 0.18*geom.FastSin(sw.SwimPhase*2)
	tailLen := sw.Size * 6.5
	tipU := tailC.Add(tailDir.Rotate(flare).Scale(tailLen))
	tipD := tailC.Add(tailDir.Rotate(-flare).Scale(tailLen))
	waist := tailC.Add(tailDir.Scale(tailLen * 0.45))
	fillTriangle(toScreen(tailC), toScreen(tipU), toScreen(waist), finCol)
	fillTriangle(toScreen(tailC), toScreen(waist), toScreen(tipD), finCol)

	// Body ribbon, two triangles per sample segment.
	for s := 0; s+1 < len(f.lefts); s++ {
		l0 := toScreen(f.lefts[s])
		r0 := toScreen(f.rights[s])
		l1 := toScreen(f.lefts[s+1])
		r1 := toScreen(f.rights[s+1])
		fillTriangle(l0, r0, l1, f.cols[s])
		fillTriangle(r0, r1, l1, f.cols[s])
	}

	spotCol := rl.Color{R: patch.R / 2, G: patch.G / 2, B: patch.B / 2, A: 235}
	for k := range f.spotPos {
		rl.DrawCircleV(toScreen(f.spotPos[k]), f.spotRad[k]*zoom, spotCol)
	}

	// Eyes sit just behind the nose.
	se := len(f.lefts) / 12
	if se < 1 {
		se = 1
	}
	hc := f.lefts[se].Lerp(f.rights[se], 0.5)
	side := geom.Vec2{X: -f.dirs[se].Y, Y: f.dirs[se].X}
	eyeCol := rl.Color{R: 28, G: 24, B: 22, A: 255}
	eyeR := sw.Size * 0.55 * zoom
	rl.DrawCircleV(toScreen(hc.Add(side.Scale(sw.Size*1.1))), eyeR, eyeCol)
	rl.DrawCircleV(toScreen(hc.Sub(side.Scale(sw.Size*1.1))), eyeR, eyeCol)
}

// bodyHalfWidth returns the body half-width at normalized position t
// (0 = nose, 1 = tail tip), scaled by fish size. Narrow nose, shoulders
// just behind the head, long taper to the tail.
func bodyHalfWidth(t, size float32) float32 {
	const peak = 0.24
	var p float32
	if t < peak {
		u := t / peak
		p = 0.35 + 0.65*u*u*(3-2*u)
	} else {
		u := (t - peak) / (1 - peak)
		p = 1 - 0.93*u*u*(3-2*u)
	}
	return size * 4.2 * p
}

// koiColors picks body and patch colors for a fish. Three morphs: kohaku
// (white with orange patches), orange-gold with a darker back, and bekko
// (pale with charcoal patches).
func koiColors(seed uint32) (base, patch rl.Color) {
	switch seed % 3 {
	case 0:
		return rl.Color{R: 244, G: 240, B: 228, A: 255}, rl.Color{R: 226, G: 110, B: 36, A: 255}
	case 1:
		return rl.Color{R: 232, G: 138, B: 52, A: 255}, rl.Color{R: 192, G: 94, B: 32, A: 255}
	default:
		return rl.Color{R: 236, G: 230, B: 214, A: 255}, rl.Color{R: 54, G: 56, B: 60, A: 255}
	}
}

// hash32 mixes a per-fish seed with a feature index into a stable hash.
func hash32(seed, n uint32) uint32 {
	h := seed ^ n*2654435761
	h ^= h >> 16
	h *= 2246822519
	h ^= h >> 13
	return h
}

// rippleDisplacement sums the surface offsets every active ripple applies
// to a world-space vertex.
func rippleDisplacement(ripples []systems.Ripple, p geom.Vec2) geom.Vec2 {
	var d geom.Vec2
	for i := range ripples {
		d = d.Add(ripples[i].DisplacementAt(p))
	}
	return d
}

// fillTriangle draws a filled triangle regardless of vertex order.
// DrawTriangle culls clockwise winding, so reorder when needed.
func fillTriangle(a, b, c rl.Vector2, col rl.Color) {
	if (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(a, b, c, col)
}
