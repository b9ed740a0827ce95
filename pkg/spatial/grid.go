package spatial

import "math"

type gridKey struct {
	x, y int
}

// GridIndex is a spatial hash: points are bucketed into square cells and a
// query only scans the cells overlapping its bounding box. Query cost is
// proportional to the local density rather than the flock size.
type GridIndex struct {
	cellSize float64
	cells    map[gridKey][]Point
}

// NewGridIndex creates an empty grid with the given cell size. The size is
// clamped to a minimum of 10 to avoid degenerate tiny cells; best throughput
// is achieved when it is close to the dominant query radius.
func NewGridIndex(cellSize float64) *GridIndex {
	return &GridIndex{
		cellSize: math.Max(cellSize, 10.0),
		cells:    make(map[gridKey][]Point),
	}
}

// Build re-buckets the snapshot. Cell slices are reset to length 0 but keep
// their capacity, so steady-state rebuilds allocate almost nothing.
func (g *GridIndex) Build(points []Point) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for _, p := range points {
		key := gridKey{x: g.cellCoord(p.X), y: g.cellCoord(p.Y)}
		g.cells[key] = append(g.cells[key], p)
	}
}

func (g *GridIndex) QueryRadius(dst []Handle, x, y, radius float64) []Handle {
	if radius <= 0 {
		return dst
	}

	// Scan every cell the query's bounding box can touch.
	minGx := g.cellCoord(x - radius)
	maxGx := g.cellCoord(x + radius)
	minGy := g.cellCoord(y - radius)
	maxGy := g.cellCoord(y + radius)

	for gx := minGx; gx <= maxGx; gx++ {
		for gy := minGy; gy <= maxGy; gy++ {
			for _, p := range g.cells[gridKey{x: gx, y: gy}] {
				if inRange(p, x, y, radius) {
					dst = append(dst, p.Handle)
				}
			}
		}
	}
	return dst
}

// cellCoord uses floor division so that negative world coordinates (the
// viewport is centered on the origin) land in their own cells instead of
// folding into cell 0.
func (g *GridIndex) cellCoord(v float64) int {
	return int(math.Floor(v / g.cellSize))
}
