package spatial

import "gonum.org/v1/gonum/spatial/kdtree"

// KDTreeIndex backs the contract with a balanced k-d tree, rebuilt wholesale
// each tick. Median-of-medians pivoting keeps the tree balanced for any
// input, so queries stay O(log n + k) even when the flock clumps.
type KDTreeIndex struct {
	tree *kdtree.Tree
	pts  kdPoints
}

// Build constructs a fresh tree over the snapshot. The point buffer is owned
// by the index and reused across ticks; kdtree.New partitions it in place.
func (k *KDTreeIndex) Build(points []Point) {
	k.pts = k.pts[:0]
	for _, p := range points {
		k.pts = append(k.pts, kdPoint{x: p.X, y: p.Y, handle: p.Handle})
	}
	if len(k.pts) == 0 {
		k.tree = nil
		return
	}
	k.tree = kdtree.New(k.pts, false)
}

func (k *KDTreeIndex) QueryRadius(dst []Handle, x, y, radius float64) []Handle {
	if k.tree == nil || radius <= 0 {
		return dst
	}
	radiusSq := radius * radius
	keeper := kdtree.NewDistKeeper(radiusSq)
	k.tree.NearestSet(keeper, kdPoint{x: x, y: y})
	for _, c := range keeper.Heap {
		p, ok := c.Comparable.(kdPoint)
		if !ok {
			continue // the keeper's bound sentinel has no Comparable
		}
		if c.Dist > 0 && c.Dist < radiusSq {
			dst = append(dst, p.handle)
		}
	}
	return dst
}

// kdPoint adapts a snapshot point to gonum's kdtree.Comparable.
type kdPoint struct {
	x, y   float64
	handle Handle
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	switch d {
	case 0:
		return p.x - q.x
	default:
		return p.y - q.y
	}
}

func (p kdPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, matching the metric of
// gonum's kdtree.Point, so DistKeeper bounds are expressed as radius².
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

// kdPoints implements kdtree.Interface for tree construction.
type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }

func (p kdPoints) Len() int { return len(p) }

func (p kdPoints) Pivot(d kdtree.Dim) int { return kdPlane{Dim: d, kdPoints: p}.Pivot() }

func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// kdPlane sorts kdPoints along a single axis for pivot selection.
type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.kdPoints[i].x < p.kdPoints[j].x
	default:
		return p.kdPoints[i].y < p.kdPoints[j].y
	}
}

func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[start:end]
	return p
}

func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}
