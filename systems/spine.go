package systems

import (
	"math"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/config"
	"github.com/Aete/koi-fish-animation/geom"
)

// SpineParams holds the chain undulation constants.
type SpineParams struct {
	Links        int     // Active link count, schema-bounded by components.MaxLinks
	LengthFactor float32 // Link length = fish size * this
	HeadSway     float32 // Head sway amplitude, radians
	MaxSwing     float32 // Tail-most undulation amplitude, radians
	WaveFreq     float32 // Phase offset per link of the traveling wave
}

// NewSpineParams extracts chain constants from configuration.
func NewSpineParams(c *config.Config) SpineParams {
	return SpineParams{
		Links:        c.Spine.Links,
		LengthFactor: float32(c.Spine.LinkLengthFactor),
		HeadSway:     float32(c.Spine.HeadSway),
		MaxSwing:     float32(c.Spine.MaxSwing),
		WaveFreq:     float32(c.Spine.WaveFreq),
	}
}

// InitSpine lays out a fresh chain: equal-length links sized by the fish,
// straight behind the anchor. Facing is the tail-ward direction the links
// point, i.e. heading+Pi for a fish.
func InitSpine(s *components.Spine, size float32, anchor geom.Vec2, facing float32, p SpineParams) {
	s.Count = uint8(p.Links)
	length := size * p.LengthFactor
	for i := 0; i < p.Links; i++ {
		s.Links[i].Length = length
	}
	ResetSpine(s, anchor, facing)
}

// FollowSpine drives the chain one tick: a single forward pass, no
// convergence loop. The head takes the anchor and the tail-ward facing plus
// a small sway; every later link starts exactly at the previous link's end
// and adds a traveling-wave offset to the previous link's angle. The cubic
// amplitude profile keeps the shoulders nearly rigid while the tail whips.
func FollowSpine(s *components.Spine, anchor geom.Vec2, facing float32, swimPhase float32, p SpineParams) {
	n := int(s.Count)
	head := &s.Links[0]
	head.X = anchor.X
	head.Y = anchor.Y
	head.Angle = facing + p.HeadSway*float32(math.Sin(float64(swimPhase)))

	prevEnd := head.End()
	prevAngle := head.Angle
	for i := 1; i < n; i++ {
		l := &s.Links[i]
		l.X = prevEnd.X
		l.Y = prevEnd.Y

		t := float32(i) / float32(n)
		offset := t * t * t * p.MaxSwing *
			float32(math.Sin(float64(swimPhase+float32(i)*p.WaveFreq)))
		l.Angle = prevAngle + offset

		prevEnd = l.End()
		prevAngle = l.Angle
	}
}

// ResetSpine relocates every link so the chain sits straight behind the
// anchor with zero undulation. Used after a boundary teleport: the chain
// must be coherent at the new position within the same tick, or the body
// renders stretched across the pond. Link lengths never change.
func ResetSpine(s *components.Spine, anchor geom.Vec2, facing float32) {
	n := int(s.Count)
	head := &s.Links[0]
	head.X = anchor.X
	head.Y = anchor.Y
	head.Angle = facing

	prevEnd := head.End()
	for i := 1; i < n; i++ {
		l := &s.Links[i]
		l.X = prevEnd.X
		l.Y = prevEnd.Y
		l.Angle = facing
		prevEnd = l.End()
	}
}
