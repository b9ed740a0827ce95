package spatial

import "github.com/dhconnelly/rtreego"

// pointExtent is the side length of the degenerate box each point occupies;
// rtreego rectangles must have positive extent.
const pointExtent = 0.01

// RTreeIndex backs the contract with a bulk-loaded R-tree. Radius queries
// become a bounding-box intersection search followed by an exact distance
// filter.
type RTreeIndex struct {
	tree *rtreego.Rtree
}

type rtreeEntry struct {
	rect   rtreego.Rect
	x, y   float64
	handle Handle
}

func (e *rtreeEntry) Bounds() rtreego.Rect { return e.rect }

func (r *RTreeIndex) Build(points []Point) {
	spatials := make([]rtreego.Spatial, 0, len(points))
	for _, p := range points {
		rect, err := rtreego.NewRect(
			rtreego.Point{p.X - pointExtent/2, p.Y - pointExtent/2},
			[]float64{pointExtent, pointExtent},
		)
		if err != nil {
			// Only reachable with non-positive extents; the constant above
			// makes that impossible.
			continue
		}
		spatials = append(spatials, &rtreeEntry{rect: rect, x: p.X, y: p.Y, handle: p.Handle})
	}
	r.tree = rtreego.NewTree(2, 25, 50, spatials...)
}

func (r *RTreeIndex) QueryRadius(dst []Handle, x, y, radius float64) []Handle {
	if r.tree == nil || radius <= 0 {
		return dst
	}
	// Pad the search box by the point extent so entries whose box barely
	// straddles the query circle are not missed.
	half := radius + pointExtent
	bb, err := rtreego.NewRect(rtreego.Point{x - half, y - half}, []float64{2 * half, 2 * half})
	if err != nil {
		return dst
	}
	for _, s := range r.tree.SearchIntersect(bb) {
		e := s.(*rtreeEntry)
		if inRange(Point{X: e.x, Y: e.y}, x, y, radius) {
			dst = append(dst, e.handle)
		}
	}
	return dst
}
