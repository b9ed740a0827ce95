package flock

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.IndexStrategy = spatial.StrategyBrute
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func vecIsFinite(v geometry.Vector3D) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

func TestSteeringDelta(t *testing.T) {
	tests := []struct {
		name     string
		desired  geometry.Vector3D
		vel      geometry.Vector3D
		maxForce float64
		want     geometry.Vector3D
	}{
		{
			name:     "WithinLimit",
			desired:  geometry.Vector3D{X: 1.05},
			vel:      geometry.Vector3D{X: 1},
			maxForce: 0.1,
			want:     geometry.Vector3D{X: 0.05},
		},
		{
			name:     "ClampedToMaxForce",
			desired:  geometry.Vector3D{X: 4},
			vel:      geometry.Vector3D{X: -4},
			maxForce: 0.1,
			want:     geometry.Vector3D{X: 0.1},
		},
		{
			name:     "ZeroDesiredBrakes",
			desired:  geometry.Vector3D{},
			vel:      geometry.Vector3D{Y: 2},
			maxForce: 0.1,
			want:     geometry.Vector3D{Y: -0.1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SteeringDelta(tt.desired, tt.vel, tt.maxForce)
			if !got.Eq(tt.want) {
				t.Errorf("SteeringDelta() = %v, want %v", got, tt.want)
			}
			if got.Len() > tt.maxForce+geometry.Epsilon {
				t.Errorf("SteeringDelta() magnitude %v exceeds maxForce %v", got.Len(), tt.maxForce)
			}
		})
	}
}

func TestSeparation(t *testing.T) {
	t.Run("SteersAwayFromNeighbor", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 5}, geometry.Vector3D{}, 4, 0.1)

		got := e.separation(&e.agents[a], []spatial.Handle{1})
		if got.X >= 0 {
			t.Errorf("separation() = %v, want negative X (away from neighbor at +X)", got)
		}
		if got.Len() > 0.1+geometry.Epsilon {
			t.Errorf("separation() magnitude %v exceeds max force", got.Len())
		}
	})

	t.Run("CloserNeighborDominates", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 2}, geometry.Vector3D{}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: -15}, geometry.Vector3D{}, 4, 0.1)

		// The neighbor at distance 2 repels harder than the one at 15, so
		// the net push points away from it.
		got := e.separation(&e.agents[a], []spatial.Handle{1, 2})
		if got.X >= 0 {
			t.Errorf("separation() = %v, want negative X (dominated by close neighbor)", got)
		}
	})

	t.Run("CoincidentNeighborIgnored", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{X: 3, Y: 3}, geometry.Vector3D{X: 1}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 3, Y: 3}, geometry.Vector3D{}, 4, 0.1)

		got := e.separation(&e.agents[a], []spatial.Handle{1})
		if !got.Eq(geometry.Vector3D{}) {
			t.Errorf("separation() with only a coincident neighbor = %v, want zero", got)
		}
	})

	t.Run("NoNeighbors", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{X: 1}, 4, 0.1)

		got := e.separation(&e.agents[a], nil)
		if !got.Eq(geometry.Vector3D{}) {
			t.Errorf("separation() with no neighbors = %v, want zero", got)
		}
	})
}

func TestAlignCohesion(t *testing.T) {
	t.Run("AlignsWithNeighborVelocity", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{X: 1}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 10}, geometry.Vector3D{Y: 2}, 4, 0.1)

		align, _ := e.alignCohesion(&e.agents[a], []spatial.Handle{1})
		if align.Y <= 0 {
			t.Errorf("alignCohesion() align = %v, want positive Y (toward neighbor heading)", align)
		}
	})

	t.Run("CancellingVelocitiesBrake", func(t *testing.T) {
		// Two neighbors with exactly opposite headings average to zero.
		// The alignment delta must degrade to braking, not NaN.
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{X: 1}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 10}, geometry.Vector3D{X: 1}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: -10}, geometry.Vector3D{X: -1}, 4, 0.1)

		align, _ := e.alignCohesion(&e.agents[a], []spatial.Handle{1, 2})
		if !vecIsFinite(align) {
			t.Fatalf("alignCohesion() align = %v, want finite", align)
		}
		want := geometry.Vector3D{X: -0.1} // -vel clamped to max force
		if !align.Eq(want) {
			t.Errorf("alignCohesion() align = %v, want %v", align, want)
		}
	})

	t.Run("CoheresTowardCentroid", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 10, Y: 10}, geometry.Vector3D{}, 4, 0.1)
		e.Spawn(geometry.Vector3D{X: 20, Y: 10}, geometry.Vector3D{}, 4, 0.1)

		_, cohere := e.alignCohesion(&e.agents[a], []spatial.Handle{1, 2})
		if cohere.X <= 0 || cohere.Y <= 0 {
			t.Errorf("alignCohesion() cohere = %v, want pull toward +X +Y centroid", cohere)
		}
		if cohere.Len() > 0.1+geometry.Epsilon {
			t.Errorf("alignCohesion() cohere magnitude %v exceeds max force", cohere.Len())
		}
	})

	t.Run("NoNeighbors", func(t *testing.T) {
		e := newTestEngine(t)
		a := e.Spawn(geometry.Vector3D{}, geometry.Vector3D{X: 1}, 4, 0.1)

		align, cohere := e.alignCohesion(&e.agents[a], nil)
		if !align.Eq(geometry.Vector3D{}) || !cohere.Eq(geometry.Vector3D{}) {
			t.Errorf("alignCohesion() with no neighbors = %v, %v, want zero, zero", align, cohere)
		}
	})
}
