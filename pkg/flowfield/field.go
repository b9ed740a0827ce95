// Package flowfield provides a secondary steering source: a precomputed
// directional grid that pulls agents toward a movable target. It plugs into
// the simulation core as a flock.ForceSource, reading and writing the same
// steering primitives (desired velocity, clamped delta, accumulator) as the
// flocking rules.
package flowfield

import (
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// DefaultArrivalRadius is the distance at which agents start slowing down
// instead of overshooting the target.
const DefaultArrivalRadius = 100.0

// Field is a grid of desired-velocity vectors covering the viewport, one
// cell per resolution x resolution world units. Retarget recomputes every
// cell; Steer only reads, so the field is safe to sample from all force
// workers concurrently as long as Retarget runs between ticks.
type Field struct {
	resolution    float64
	halfW, halfH  float64
	cols, rows    int
	cells         []geometry.Vector3D
	arrivalRadius float64
	hasTarget     bool

	// SeekWeight scales the field's steering contribution. Mutable between
	// ticks (UI slider).
	SeekWeight float64
}

var _ flock.ForceSource = (*Field)(nil)

// New creates a field covering a viewport with the given half-extents.
// Cells are computed lazily on the first Retarget.
func New(halfW, halfH, resolution, seekWeight float64) *Field {
	if resolution <= 0 {
		resolution = 5
	}
	cols := int(2 * halfW / resolution)
	rows := int(2 * halfH / resolution)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Field{
		resolution:    resolution,
		halfW:         halfW,
		halfH:         halfH,
		cols:          cols,
		rows:          rows,
		cells:         make([]geometry.Vector3D, cols*rows),
		arrivalRadius: DefaultArrivalRadius,
		SeekWeight:    seekWeight,
	}
}

// Retarget points every cell at the new target: each cell stores the
// desired velocity from its own center toward the target position. Until
// the first Retarget the field is inert and steers nothing.
func (f *Field) Retarget(target geometry.Vector3D) {
	f.hasTarget = true
	for cx := 0; cx < f.cols; cx++ {
		for cy := 0; cy < f.rows; cy++ {
			center := geometry.Vector3D{
				X: -f.halfW + (float64(cx)+0.5)*f.resolution,
				Y: -f.halfH + (float64(cy)+0.5)*f.resolution,
			}
			f.cells[cx*f.rows+cy] = target.Sub(center)
		}
	}
}

// Sample returns the desired velocity stored for the cell containing pos.
// Positions outside the viewport clamp to the border cells.
func (f *Field) Sample(pos geometry.Vector3D) geometry.Vector3D {
	cx := clampIndex(int((pos.X+f.halfW)/f.resolution), f.cols)
	cy := clampIndex(int((pos.Y+f.halfH)/f.resolution), f.rows)
	return f.cells[cx*f.rows+cy]
}

// Steer implements flock.ForceSource. Inside the arrival radius the desired
// speed falls off linearly to zero so agents settle on the target instead
// of orbiting it. With no target set the field contributes no force; a
// zero-valued grid would otherwise read as a braking command.
func (f *Field) Steer(_ flock.Handle, pos, vel geometry.Vector3D, maxSpeed, maxForce float64) geometry.Vector3D {
	if !f.hasTarget {
		return geometry.Vector3D{}
	}
	desired := f.Sample(pos)
	dist := desired.Len()

	if dist < f.arrivalRadius {
		m := geometry.Remap(dist, 0, f.arrivalRadius, 0, maxSpeed)
		desired = desired.Normalize().Mul(m)
	} else {
		desired = desired.Normalize().Mul(maxSpeed)
	}

	return flock.SteeringDelta(desired, vel, maxForce).Mul(f.SeekWeight)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
