package systems

import (
	"fmt"
	"math/rand"

	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
)

// Ripple is one expanding circular pulse. It displaces visual sample points
// near its wavefront and pushes nearby fish away while young. Plain value
// struct: the parallel path snapshots ripples by copy.
type Ripple struct {
	ID        uint64
	Center    geom.Vec2
	Radius    float32
	Amplitude float32 // current, decays linearly with radius
	InitAmp   float32
	MaxRadius float32
	Speed     float32
	WaveWidth float32
	Alive     bool

	// Scatter profile, fixed at spawn.
	ScatterStrength float32
	ScatterRange    float32
	DistanceFactor  float32
	ScatterWindow   float32 // pushes fish only while Radius/MaxRadius <= this
}

// Update advances the wavefront one tick. A dead ripple stays dead and
// unchanged.
func (r *Ripple) Update() {
	if !r.Alive {
		return
	}
	r.Radius += r.Speed
	if r.Radius > r.MaxRadius {
		r.Amplitude = 0
		r.Alive = false
		return
	}
	r.Amplitude = r.InitAmp * (1 - r.Radius/r.MaxRadius)
}

// Progress returns the life fraction Radius/MaxRadius.
func (r *Ripple) Progress() float32 {
	return r.Radius / r.MaxRadius
}

// DisplacementAt returns the visual offset the ripple applies to a sample
// point: a Gaussian envelope around the wavefront times a sine carrier,
// projected outward from the center. Called per rendered vertex, so it uses
// the fast approximations.
func (r *Ripple) DisplacementAt(p geom.Vec2) geom.Vec2 {
	if !r.Alive {
		return geom.Vec2{}
	}
	d := p.Dist(r.Center)
	if d < 0.1 {
		return geom.Vec2{}
	}
	diff := d - r.Radius
	if diff > r.WaveWidth || diff < -r.WaveWidth {
		return geom.Vec2{}
	}
	half := r.WaveWidth / 2
	envelope := geom.FastExp(-(diff * diff) / (2 * half * half))
	carrier := geom.FastSin(2 * geom.Pi * diff / r.WaveWidth)
	disp := r.Amplitude * envelope * carrier
	return geom.Vec2{
		X: (p.X - r.Center.X) / d * disp,
		Y: (p.Y - r.Center.Y) / d * disp,
	}
}

// ScatterForceAt returns the outward push the ripple exerts on a fish at p.
// Zero once the pulse has aged past its scatter window, outside scatter
// range, or degenerately close to the center. Strong early and near the
// center, vanishing with both age and distance.
func (r *Ripple) ScatterForceAt(p geom.Vec2) geom.Vec2 {
	if !r.Alive {
		return geom.Vec2{}
	}
	progress := r.Progress()
	if progress > r.ScatterWindow {
		return geom.Vec2{}
	}
	d := p.Dist(r.Center)
	if d < 1 || d > r.ScatterRange {
		return geom.Vec2{}
	}
	prox := 1 - d/r.ScatterRange
	mag := r.ScatterStrength * prox * (1 + r.DistanceFactor*prox) * (1 - progress/r.ScatterWindow)
	return geom.Vec2{
		X: (p.X - r.Center.X) / d * mag,
		Y: (p.Y - r.Center.Y) / d * mag,
	}
}

// RippleField owns the bounded collection of active ripples.
// Oldest-first order; eviction and pruning preserve it.
type RippleField struct {
	ripples []Ripple
	bounds  Bounds
	rng     *rand.Rand
	nextID  uint64

	speed        float32
	waveWidth    float32
	amplitude    float32
	maxRadiusMin float32
	maxRadiusMax float32
	maxActive    int

	scatterStrength float32
	scatterRange    float32
	distanceFactor  float32
	scatterWindow   float32
}

// NewRippleField builds a field from configuration. The rng draws each
// ripple's max radius; pass the game's seeded source for reproducible runs.
func NewRippleField(c *config.Config, bounds Bounds, rng *rand.Rand) *RippleField {
	return &RippleField{
		ripples:         make([]Ripple, 0, c.Ripple.MaxActive),
		bounds:          bounds,
		rng:             rng,
		speed:           float32(c.Ripple.Speed),
		waveWidth:       float32(c.Ripple.WaveWidth),
		amplitude:       float32(c.Ripple.Amplitude),
		maxRadiusMin:    float32(c.Ripple.MaxRadiusMin),
		maxRadiusMax:    float32(c.Ripple.MaxRadiusMax),
		maxActive:       c.Ripple.MaxActive,
		scatterStrength: float32(c.Scatter.Strength),
		scatterRange:    float32(c.Scatter.Range),
		distanceFactor:  float32(c.Scatter.DistanceFactor),
		scatterWindow:   float32(c.Scatter.Window),
	}
}

// Spawn creates a ripple at p. Points outside the world bounds are rejected.
// When the field is at capacity the oldest ripple is evicted first; the
// return value reports whether that happened.
func (f *RippleField) Spawn(p geom.Vec2) (evicted bool, err error) {
	if p.X < 0 || p.X > f.bounds.Width || p.Y < 0 || p.Y > f.bounds.Height {
		return false, fmt.Errorf("ripple spawn at (%.1f, %.1f) outside world %gx%g",
			p.X, p.Y, f.bounds.Width, f.bounds.Height)
	}

	if len(f.ripples) >= f.maxActive {
		copy(f.ripples, f.ripples[1:])
		f.ripples = f.ripples[:len(f.ripples)-1]
		evicted = true
	}

	f.nextID++
	maxRadius := f.maxRadiusMin + f.rng.Float32()*(f.maxRadiusMax-f.maxRadiusMin)
	f.ripples = append(f.ripples, Ripple{
		ID:              f.nextID,
		Center:          p,
		Amplitude:       f.amplitude,
		InitAmp:         f.amplitude,
		MaxRadius:       maxRadius,
		Speed:           f.speed,
		WaveWidth:       f.waveWidth,
		Alive:           true,
		ScatterStrength: f.scatterStrength,
		ScatterRange:    f.scatterRange,
		DistanceFactor:  f.distanceFactor,
		ScatterWindow:   f.scatterWindow,
	})
	return evicted, nil
}

// Update advances every ripple one tick, then prunes the dead ones.
// Returns how many expired. Runs before any fish reads the field; the
// surviving slice is read-only for the rest of the tick.
func (f *RippleField) Update() (expired int) {
	for i := range f.ripples {
		f.ripples[i].Update()
	}
	keep := f.ripples[:0]
	for i := range f.ripples {
		if f.ripples[i].Alive {
			keep = append(keep, f.ripples[i])
		} else {
			expired++
		}
	}
	f.ripples = keep
	return expired
}

// Active returns the live ripples, oldest first. Callers must treat the
// slice as read-only until the next Update or Spawn.
func (f *RippleField) Active() []Ripple {
	return f.ripples
}

// Count returns the number of live ripples.
func (f *RippleField) Count() int {
	return len(f.ripples)
}

// Snapshot appends value copies of the live ripples to dst and returns it.
// The parallel tick path works off this immutable copy.
func (f *RippleField) Snapshot(dst []Ripple) []Ripple {
	return append(dst[:0], f.ripples...)
}
