// Package spatial provides per-tick neighbor indexes over agent positions.
//
// An Index is a derived, disposable structure: it is rebuilt wholesale from a
// position snapshot at the start of every simulation tick and queried
// read-only for the remainder of that tick. Rebuilding instead of updating
// in place removes the hazard of agents moving while other agents are
// mid-query.
package spatial

import "fmt"

// Handle identifies an indexed point. It is the agent's stable slot in the
// simulation's agent array.
type Handle int

// Point is one (position, handle) pair of the per-tick snapshot.
// Positions live in the simulation plane; the fixed z = 0 axis carries no
// information and is not indexed.
type Point struct {
	X, Y   float64
	Handle Handle
}

// Index answers radius-bounded neighbor queries over a snapshot of points.
//
// QueryRadius appends every handle whose Euclidean distance d to the query
// center satisfies 0 < d < radius, and returns the extended slice. Both
// bounds are strict: a point exactly at the center (typically the querying
// agent itself) is never reported, and neither is a point exactly on the
// radius. Coincident duplicate points away from the center are all reported,
// each as a distinct handle. radius <= 0 yields no results. Result order is
// unspecified.
//
// Between Build calls an Index is immutable and safe for concurrent queries.
type Index interface {
	Build(points []Point)
	QueryRadius(dst []Handle, x, y, radius float64) []Handle
}

// Strategy names for the available Index implementations.
const (
	StrategyBrute  = "brute"
	StrategyGrid   = "grid"
	StrategyKDTree = "kdtree"
	StrategyRTree  = "rtree"
)

// New returns an empty Index using the named strategy. cellSize only
// matters for the grid strategy, where it should match the dominant query
// radius; other strategies ignore it.
func New(strategy string, cellSize float64) (Index, error) {
	switch strategy {
	case StrategyBrute:
		return &BruteIndex{}, nil
	case StrategyGrid:
		return NewGridIndex(cellSize), nil
	case StrategyKDTree:
		return &KDTreeIndex{}, nil
	case StrategyRTree:
		return &RTreeIndex{}, nil
	default:
		return nil, fmt.Errorf("unknown spatial index strategy %q", strategy)
	}
}

// inRange reports whether the point lies strictly inside the query annulus
// (0, radius) around (x, y). Shared by every backend's final filter.
func inRange(p Point, x, y, radius float64) bool {
	dx := p.X - x
	dy := p.Y - y
	distSq := dx*dx + dy*dy
	return distSq > 0 && distSq < radius*radius
}
