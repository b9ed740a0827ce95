package flock

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// Handle is an agent's stable slot in the engine's agent array. It is the
// same integer the spatial index reports from neighbor queries.
type Handle = spatial.Handle

// Agent is one simulated boid. Pos is mutated only by the boundary-wrap and
// integration stages; Vel only by integration. MaxSpeed and MaxForce are set
// at spawn and immutable thereafter.
//
// Z stays fixed at 0; the third component exists so steering math is uniform
// with a 3D renderer transform.
type Agent struct {
	Pos geometry.Vector3D
	Vel geometry.Vector3D

	MaxSpeed float64
	MaxForce float64

	// accel accumulates the tick's weighted steering deltas. It is written
	// only by the owning agent's force-stage task and consumed (then zeroed)
	// by integration.
	accel geometry.Vector3D
}

// Heading returns the agent's facing angle in radians, derived from the
// velocity direction. It is a pure function of Vel with no stored state.
func (a *Agent) Heading() float64 {
	return a.Vel.Angle()
}

// Reset removes every agent, keeping allocated capacity for respawning.
func (e *Engine) Reset() {
	e.agents = e.agents[:0]
}

// Spawn adds an agent and returns its handle. Handles are stable for the
// life of a population; Reset starts a new population and a new handle
// sequence.
func (e *Engine) Spawn(pos, vel geometry.Vector3D, maxSpeed, maxForce float64) Handle {
	e.agents = append(e.agents, Agent{
		Pos:      pos,
		Vel:      vel,
		MaxSpeed: maxSpeed,
		MaxForce: maxForce,
	})
	return Handle(len(e.agents) - 1)
}

// SpawnRandom places n agents uniformly inside the viewport with small
// random starting velocities, using the configured speed and force limits.
func (e *Engine) SpawnRandom(n int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		pos := geometry.Vector3D{
			X: (rng.Float64() - 0.5) * 2 * e.halfW,
			Y: (rng.Float64() - 0.5) * 2 * e.halfH,
		}
		vel := geometry.Vector3D{
			X: (rng.Float64() * 2) - 1,
			Y: (rng.Float64() * 2) - 1,
		}
		e.Spawn(pos, vel, e.cfg.MaxSpeed, e.cfg.MaxForce)
	}
}
