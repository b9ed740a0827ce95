// Package flock implements the simulation core: agent kinematic state, the
// neighbor-driven steering rules (separation, alignment, cohesion), the
// per-tick integration step, and the toroidal boundary wrap, coordinated
// over a batched worker pool.
package flock

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// Engine owns the agent population and drives the fixed four-stage tick
// pipeline: boundary wrap, spatial-index rebuild, force computation,
// integration. A single goroutine calls Step; each stage fans out over a
// worker pool in fixed-size batches and joins before the next stage begins,
// so the spatial index is never queried while it is being rebuilt and no
// agent reads a position another stage is mutating.
type Engine struct {
	cfg    *Config
	agents []Agent

	index  spatial.Index
	points []spatial.Point // snapshot buffer reused across ticks

	sources []ForceSource

	halfW, halfH float64
	batchSize    int
}

// NewEngine validates the configuration and prepares an empty simulation.
// A non-positive viewport is a setup bug in the caller, not a runtime
// condition, and is rejected outright.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.WorldWidth <= 0 || cfg.WorldHeight <= 0 {
		return nil, fmt.Errorf("invalid viewport %.0fx%.0f: extents must be positive", cfg.WorldWidth, cfg.WorldHeight)
	}

	index, err := spatial.New(cfg.IndexStrategy, cfg.NeighborDistance)
	if err != nil {
		return nil, fmt.Errorf("failed to create spatial index: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	return &Engine{
		cfg:       cfg,
		index:     index,
		halfW:     cfg.WorldWidth / 2,
		halfH:     cfg.WorldHeight / 2,
		batchSize: batch,
	}, nil
}

// Config exposes the engine's tunables. Mutating weights and radii between
// ticks is supported; mutating them during Step is not.
func (e *Engine) Config() *Config { return e.cfg }

// Agents returns the live agent array for the renderer. It must only be
// read between Steps.
func (e *Engine) Agents() []Agent { return e.agents }

// Len returns the population size.
func (e *Engine) Len() int { return len(e.agents) }

// AddForceSource registers a secondary steering source, sampled for every
// agent during the force stage.
func (e *Engine) AddForceSource(src ForceSource) {
	e.sources = append(e.sources, src)
}

// Step advances the simulation by one tick. dt scales both the velocity and
// the position update; pass 1 for the discrete-step mode used by the
// fixed-TPS renderer, or a wall-clock delta in seconds for continuous time.
func (e *Engine) Step(dt float64) {
	e.wrapStage()
	e.rebuildStage()
	e.forceStage()
	e.integrateStage(dt)
}

// wrapStage folds positions back into the viewport on a torus: leaving one
// edge re-enters from the opposite edge, velocity untouched. It runs before
// the index rebuild so the snapshot never contains out-of-view positions.
func (e *Engine) wrapStage() {
	halfW, halfH := e.halfW, e.halfH
	e.forEachBatch(func(start, end int) {
		for i := start; i < end; i++ {
			a := &e.agents[i]
			a.Pos.X = wrapAxis(a.Pos.X, halfW)
			a.Pos.Y = wrapAxis(a.Pos.Y, halfH)
		}
	})
}

func wrapAxis(v, half float64) float64 {
	if v > half {
		return -half
	}
	if v < -half {
		return half
	}
	return v
}

// rebuildStage snapshots (position, handle) pairs and rebuilds the index
// wholesale. No incremental update: a fresh build per tick is what makes
// the concurrent read-only queries of the force stage safe.
func (e *Engine) rebuildStage() {
	e.points = e.points[:0]
	for i := range e.agents {
		a := &e.agents[i]
		e.points = append(e.points, spatial.Point{X: a.Pos.X, Y: a.Pos.Y, Handle: spatial.Handle(i)})
	}
	e.index.Build(e.points)
}

// forceStage runs the steering rules for every agent against the shared
// read-only index. Each worker writes only the accumulator of the agent it
// is processing, never a neighbor's, so batches need no synchronization
// beyond the stage barrier.
func (e *Engine) forceStage() {
	cfg := e.cfg
	e.forEachBatch(func(start, end int) {
		// Neighbor scratch is batch-local and reused across the batch.
		var sepN, flockN []spatial.Handle
		for i := start; i < end; i++ {
			a := &e.agents[i]

			sepN = e.index.QueryRadius(sepN[:0], a.Pos.X, a.Pos.Y, cfg.DesiredSeparation)
			sep := e.separation(a, sepN)
			a.accel = a.accel.Add(sep.Mul(cfg.SeparationWeight))

			flockN = e.index.QueryRadius(flockN[:0], a.Pos.X, a.Pos.Y, cfg.NeighborDistance)
			align, cohere := e.alignCohesion(a, flockN)
			a.accel = a.accel.Add(align.Mul(cfg.AlignmentWeight))
			a.accel = a.accel.Add(cohere.Mul(cfg.CohesionWeight))

			for _, src := range e.sources {
				a.accel = a.accel.Add(src.Steer(Handle(i), a.Pos, a.Vel, a.MaxSpeed, a.MaxForce))
			}
		}
	})
}

// integrateStage folds the accumulated steering into velocity and position
// and resets the accumulator. This is the only place velocity changes, and
// each agent's state is written exclusively by its own task.
func (e *Engine) integrateStage(dt float64) {
	e.forEachBatch(func(start, end int) {
		for i := start; i < end; i++ {
			a := &e.agents[i]
			a.Vel = geometry.ClampMagnitude(a.Vel.Add(a.accel.Mul(dt)), a.MaxSpeed)
			a.Pos = a.Pos.Add(a.Vel.Mul(dt))
			a.accel = geometry.Vector3D{}
		}
	})
}

// forEachBatch partitions the population into fixed-size batches and feeds
// them to at most GOMAXPROCS workers. The call returns only when every
// batch has completed, giving the pipeline its inter-stage barrier.
func (e *Engine) forEachBatch(fn func(start, end int)) {
	n := len(e.agents)
	if n == 0 {
		return
	}

	numBatches := (n + e.batchSize - 1) / e.batchSize
	workers := runtime.GOMAXPROCS(0)
	if workers > numBatches {
		workers = numBatches
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				b := int(next.Add(1)) - 1
				if b >= numBatches {
					return
				}
				start := b * e.batchSize
				end := start + e.batchSize
				if end > n {
					end = n
				}
				fn(start, end)
			}
		}()
	}
	wg.Wait()
}
