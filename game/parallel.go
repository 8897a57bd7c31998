package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/Aete/koi-fish-animation/components"
	"github.com/Aete/koi-fish-animation/geom"
	"github.com/Aete/koi-fish-animation/systems"
)

// parallelThreshold is the minimum fish count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// fishSnapshot captures read-only per-fish state for the compute phase.
// Jitter is pre-drawn from the game rng so the compute phase stays pure and
// chunk order cannot change the random sequence.
type fishSnapshot struct {
	Entity  ecs.Entity
	Pos     components.Position
	Vel     components.Velocity
	Mot     components.Motion
	Rot     components.Rotation
	Swimmer components.Swimmer
	Jitter  float32
}

// fishIntent holds the computed results to apply after the compute phase.
type fishIntent struct {
	Pos     components.Position
	Vel     components.Velocity
	Mot     components.Motion
	Rot     components.Rotation
	Swimmer components.Swimmer

	Impulses int  // scatter pushes received this tick
	Clipped  bool // heading turn hit the per-tick limit
	Wrapped  bool // carried across the boundary; spine needs a reset
}

// workChunk is a range of snapshot indices for one worker.
type workChunk struct {
	start, end int
}

// parallelState holds resources for the snapshot/compute/apply tick path.
type parallelState struct {
	snapshots  []fishSnapshot
	intents    []fishIntent
	ripples    []systems.Ripple // immutable per-tick copy of the field
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		snapshots:  make([]fishSnapshot, 0, 128),
		intents:    make([]fishIntent, 0, 128),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// updateFish runs the per-fish behavior and physics for one tick.
// Three phases: snapshot (single-threaded, draws all randomness), compute
// (pure math over snapshots, chunked across workers above the threshold),
// apply (single-threaded writes). The phases make the parallel path produce
// byte-identical state to a sequential pass.
func (g *Game) updateFish() {
	// Phase A: snapshot fish and freeze the ripple field.
	g.parallel.snapshots = g.parallel.snapshots[:0]
	g.parallel.ripples = g.ripples.Snapshot(g.parallel.ripples)

	query := g.fishFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, mot, rot, sw, _ := query.Get()

		jitter := (g.rng.Float32()*2 - 1) * g.steering.WanderJitter

		g.parallel.snapshots = append(g.parallel.snapshots, fishSnapshot{
			Entity:  entity,
			Pos:     *pos,
			Vel:     *vel,
			Mot:     *mot,
			Rot:     *rot,
			Swimmer: *sw,
			Jitter:  jitter,
		})
	}

	n := len(g.parallel.snapshots)
	if n == 0 {
		return
	}

	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]fishIntent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]

	// Phase B: compute.
	if n < parallelThreshold {
		g.computeChunk(0, n)
	} else {
		g.computeParallel(n)
	}

	// Phase C: apply (single-threaded, preserves determinism).
	g.applyIntents()
}

// computeParallel dispatches chunks to the worker pool and waits.
func (g *Game) computeParallel(n int) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeChunk runs the full per-fish pipeline for a snapshot range.
// Operates on local copies only; every write lands in the intent.
func (g *Game) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		out := &g.parallel.intents[i]

		pos := snap.Pos
		vel := snap.Vel
		mot := snap.Mot
		rot := snap.Rot
		sw := snap.Swimmer

		// Forces: scatter from the frozen ripple field, wander, containment,
		// water resistance. All accumulate; nothing moves yet.
		impulses := systems.ApplyScatter(&sw, &mot, &pos, g.parallel.ripples, g.steering)
		wander := systems.WanderForce(&sw, &pos, &vel, rot.Heading, snap.Jitter, g.steering)
		mot.AddForce(wander)
		mot.AddForce(g.water.MarginForce(pos.Vec()))
		mot.AddForce(g.water.Resistance(vel.Vec()))

		systems.Integrate(&pos, &vel, &mot, sw.MaxSpeed)

		// Boundary teleport. Prev shifts with the fish so heading and swim
		// phase see the true displacement, not the teleport.
		wrapped := false
		if np, w := g.water.ShouldWrap(pos.Vec()); w {
			mot.PrevX += np.X - pos.X
			mot.PrevY += np.Y - pos.Y
			pos.Set(np)
			wrapped = true
		}

		clipped := systems.UpdateHeading(&rot, &pos, &mot, g.motion)
		systems.AdvanceSwimPhase(&sw, &pos, &mot, g.motion.SwimPhaseRate)
		systems.RelaxMaxSpeed(&sw, g.motion)

		out.Pos = pos
		out.Vel = vel
		out.Mot = mot
		out.Rot = rot
		out.Swimmer = sw
		out.Impulses = impulses
		out.Clipped = clipped
		out.Wrapped = wrapped
	}
}

// applyIntents writes the computed results back to the ECS components and
// folds the per-fish counters into the telemetry window.
func (g *Game) applyIntents() {
	var impulses, clips, wraps int

	for i := range g.parallel.snapshots {
		snap := &g.parallel.snapshots[i]
		out := &g.parallel.intents[i]

		pos, vel, mot, rot, sw, spine := g.fishMapper.Get(snap.Entity)
		if pos == nil {
			continue
		}

		*pos = out.Pos
		*vel = out.Vel
		*mot = out.Mot
		*rot = out.Rot
		*sw = out.Swimmer

		if out.Wrapped {
			// The chain must be coherent at the new position within this
			// tick, or the body renders stretched across the pond.
			systems.ResetSpine(spine, pos.Vec(), rot.Heading+geom.Pi)
			wraps++
		}

		impulses += out.Impulses
		if out.Clipped {
			clips++
		}
	}

	if impulses > 0 {
		g.collector.RecordScatterImpulses(impulses)
	}
	if clips > 0 {
		g.collector.RecordHeadingClips(clips)
	}
	if wraps > 0 {
		g.collector.RecordWrapEvents(wraps)
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
