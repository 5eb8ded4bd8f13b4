package mmwave

// DefaultSamplePoints is the fixed point cardinality classifier samples
// are normalized to.
const DefaultSamplePoints = 300

// NormalizePoints forces points to exactly target rows: longer inputs keep
// their first target points, shorter inputs are padded with zero points.
// The result is always a fresh slice of length target, so samples can be
// stacked into fixed-shape tensors downstream.
func NormalizePoints(points []Point, target int) []Point {
	if target < 0 {
		target = 0
	}
	out := make([]Point, target)
	copy(out, points)
	return out
}
