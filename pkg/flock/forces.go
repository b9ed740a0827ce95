package flock

import (
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// ForceSource is a secondary steering input sampled once per agent during
// the force-computation stage, after the flocking rules. The returned vector
// is added to the agent's accumulator as-is; implementations are expected to
// clamp their own steering delta (geometry.ClampMagnitude against maxForce)
// and apply their own weight. Implementations must be safe for concurrent
// calls and must not retain pos/vel beyond the call.
type ForceSource interface {
	Steer(h Handle, pos, vel geometry.Vector3D, maxSpeed, maxForce float64) geometry.Vector3D
}

// SteeringDelta is the shared steering primitive: the difference between a
// desired velocity and the current velocity, clamped to maxForce. A zero
// desired velocity therefore yields a braking delta of at most maxForce,
// never NaN.
func SteeringDelta(desired, vel geometry.Vector3D, maxForce float64) geometry.Vector3D {
	return geometry.ClampMagnitude(desired.Sub(vel), maxForce)
}

// separation computes the short-range repulsion steering delta for one
// agent, before the separation weight is applied. Closer neighbors weigh
// more heavily (inverse-distance scaling). Zero neighbors, or only
// coincident ones, contribute no force.
func (e *Engine) separation(a *Agent, neighbors []spatial.Handle) geometry.Vector3D {
	var sum geometry.Vector3D
	count := 0

	for _, nh := range neighbors {
		b := &e.agents[nh]
		d := a.Pos.DistanceTo(b.Pos)
		if d == 0 {
			// Coincident: the flee direction is undefined.
			continue
		}
		sum = sum.Add(a.Pos.Sub(b.Pos).Normalize().Mul(1 / d))
		count++
	}

	if count == 0 {
		return geometry.Vector3D{}
	}

	desired := sum.Mul(1 / float64(count)).Normalize().Mul(a.MaxSpeed)
	return SteeringDelta(desired, a.Vel, a.MaxForce)
}

// alignCohesion computes the alignment and cohesion steering deltas in a
// single pass, before their weights are applied. The two rules share the
// same neighbor set (everything within the flock-scale radius), so fusing
// the query halves the index traffic without changing behavior.
func (e *Engine) alignCohesion(a *Agent, neighbors []spatial.Handle) (align, cohere geometry.Vector3D) {
	if len(neighbors) == 0 {
		return
	}

	var velSum, posSum geometry.Vector3D
	for _, nh := range neighbors {
		b := &e.agents[nh]
		velSum = velSum.Add(b.Vel)
		posSum = posSum.Add(b.Pos)
	}
	n := float64(len(neighbors))

	// Alignment: steer toward the average neighbor velocity. An average of
	// zero (neighbors cancelling out) normalizes to the zero vector, so the
	// delta degrades to plain braking rather than NaN.
	avgVel := velSum.Mul(1 / n).Normalize().Mul(a.MaxSpeed)
	align = SteeringDelta(avgVel, a.Vel, a.MaxForce)

	// Cohesion: steer toward the average neighbor position.
	toCenter := posSum.Mul(1 / n).Sub(a.Pos).Normalize().Mul(a.MaxSpeed)
	cohere = SteeringDelta(toCenter, a.Vel, a.MaxForce)
	return align, cohere
}
