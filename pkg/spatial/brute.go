package spatial

// BruteIndex is the reference implementation: a flat copy of the snapshot,
// scanned in full on every query. O(n) per query, which is fine for small
// flocks and doubles as the ground truth the other backends are tested
// against.
type BruteIndex struct {
	points []Point
}

// Build copies the snapshot, reusing the previous tick's backing array.
func (b *BruteIndex) Build(points []Point) {
	b.points = append(b.points[:0], points...)
}

func (b *BruteIndex) QueryRadius(dst []Handle, x, y, radius float64) []Handle {
	if radius <= 0 {
		return dst
	}
	for _, p := range b.points {
		if inRange(p, x, y, radius) {
			dst = append(dst, p.Handle)
		}
	}
	return dst
}
