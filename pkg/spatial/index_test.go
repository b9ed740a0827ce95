package spatial

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"testing"
)

var strategies = []string{StrategyBrute, StrategyGrid, StrategyKDTree, StrategyRTree}

func newIndex(t testing.TB, strategy string) Index {
	t.Helper()
	idx, err := New(strategy, 50)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", strategy, err)
	}
	return idx
}

// bruteReference is the distance-filtered set the contract is defined by:
// every point with 0 < dist < radius.
func bruteReference(points []Point, x, y, radius float64) []Handle {
	var out []Handle
	for _, p := range points {
		d := math.Hypot(p.X-x, p.Y-y)
		if d > 0 && d < radius {
			out = append(out, p.Handle)
		}
	}
	return out
}

func sortedHandles(hs []Handle) []Handle {
	out := append([]Handle(nil), hs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sameHandleSet(a, b []Handle) bool {
	a, b = sortedHandles(a), sortedHandles(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIndex_BruteForceEquivalence(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			idx := newIndex(t, strategy)

			for _, n := range []int{0, 1, 2, 10, 100, 500} {
				points := make([]Point, n)
				for i := range points {
					points[i] = Point{
						X:      (rng.Float64() - 0.5) * 1000,
						Y:      (rng.Float64() - 0.5) * 800,
						Handle: Handle(i),
					}
				}
				idx.Build(points)

				for q := 0; q < 20; q++ {
					x := (rng.Float64() - 0.5) * 1000
					y := (rng.Float64() - 0.5) * 800
					radius := rng.Float64() * 120

					want := bruteReference(points, x, y, radius)
					got := idx.QueryRadius(nil, x, y, radius)

					if !sameHandleSet(got, want) {
						t.Fatalf("n=%d query(%.1f, %.1f, r=%.1f): got %v, want %v",
							n, x, y, radius, sortedHandles(got), sortedHandles(want))
					}
				}
			}
		})
	}
}

func TestIndex_EmptyBuild(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			idx := newIndex(t, strategy)
			idx.Build(nil)

			for _, radius := range []float64{-1, 0, 1, 1000} {
				if got := idx.QueryRadius(nil, 0, 0, radius); len(got) != 0 {
					t.Errorf("empty index, radius %v: got %v, want empty", radius, got)
				}
			}
		})
	}
}

func TestIndex_DegenerateRadius(t *testing.T) {
	points := []Point{{X: 1, Y: 0, Handle: 0}, {X: 0, Y: 1, Handle: 1}}

	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			idx := newIndex(t, strategy)
			idx.Build(points)

			if got := idx.QueryRadius(nil, 0, 0, 0); len(got) != 0 {
				t.Errorf("radius 0: got %v, want empty", got)
			}
			if got := idx.QueryRadius(nil, 0, 0, -5); len(got) != 0 {
				t.Errorf("negative radius: got %v, want empty", got)
			}
			// Boundary is strict: a point at exactly the radius is excluded.
			if got := idx.QueryRadius(nil, 0, 0, 1); len(got) != 0 {
				t.Errorf("points at dist == radius: got %v, want empty", got)
			}
		})
	}
}

func TestIndex_CoincidentDuplicates(t *testing.T) {
	// Three agents stacked on the same spot away from the query center must
	// all be reported as distinct handles; the two at the center itself are
	// the caller's own position and are excluded.
	points := []Point{
		{X: 5, Y: 0, Handle: 0},
		{X: 5, Y: 0, Handle: 1},
		{X: 5, Y: 0, Handle: 2},
		{X: 0, Y: 0, Handle: 3},
		{X: 0, Y: 0, Handle: 4},
	}

	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			idx := newIndex(t, strategy)
			idx.Build(points)

			got := idx.QueryRadius(nil, 0, 0, 10)
			want := []Handle{0, 1, 2}
			if !sameHandleSet(got, want) {
				t.Errorf("coincident query: got %v, want %v", sortedHandles(got), want)
			}
		})
	}
}

func TestIndex_NeighborScenario(t *testing.T) {
	// Three agents at (0,0), (5,0), (100,100): querying from the first with
	// radius 10 sees exactly the one at (5,0).
	points := []Point{
		{X: 0, Y: 0, Handle: 0},
		{X: 5, Y: 0, Handle: 1},
		{X: 100, Y: 100, Handle: 2},
	}

	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			idx := newIndex(t, strategy)
			idx.Build(points)

			got := idx.QueryRadius(nil, 0, 0, 10)
			if !sameHandleSet(got, []Handle{1}) {
				t.Errorf("got %v, want exactly [1]", sortedHandles(got))
			}
		})
	}
}

func TestIndex_RebuildReplacesSnapshot(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy, func(t *testing.T) {
			idx := newIndex(t, strategy)

			idx.Build([]Point{{X: 1, Y: 0, Handle: 0}})
			if got := idx.QueryRadius(nil, 0, 0, 5); !sameHandleSet(got, []Handle{0}) {
				t.Fatalf("first build: got %v, want [0]", got)
			}

			// Second build fully replaces the first snapshot.
			idx.Build([]Point{{X: 100, Y: 100, Handle: 7}})
			if got := idx.QueryRadius(nil, 0, 0, 5); len(got) != 0 {
				t.Errorf("after rebuild, stale point still returned: %v", got)
			}
			if got := idx.QueryRadius(nil, 99, 100, 5); !sameHandleSet(got, []Handle{7}) {
				t.Errorf("after rebuild: got %v, want [7]", got)
			}
		})
	}
}

func benchmarkPoints(n int) []Point {
	rng := rand.New(rand.NewPCG(7, 7))
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			X:      rng.Float64() * 1000,
			Y:      rng.Float64() * 800,
			Handle: Handle(i),
		}
	}
	return points
}

func BenchmarkIndexBuild(b *testing.B) {
	points := benchmarkPoints(2000)
	for _, strategy := range strategies {
		b.Run(strategy, func(b *testing.B) {
			idx := newIndex(b, strategy)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				idx.Build(points)
			}
		})
	}
}

func BenchmarkIndexQuery(b *testing.B) {
	points := benchmarkPoints(2000)
	for _, strategy := range strategies {
		b.Run(strategy, func(b *testing.B) {
			idx := newIndex(b, strategy)
			idx.Build(points)
			var dst []Handle
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				dst = idx.QueryRadius(dst[:0], 500, 400, 50)
			}
			_ = fmt.Sprint(len(dst))
		})
	}
}
