package mmwave

import (
	"math"
	"sort"
)

// Point is a single radar return in Cartesian sensor coordinates (meters).
// mmWave captures carry no per-point intensity worth keeping: the sensor's
// detected-points TLV reports position only, so the type stays flat and
// copyable.
type Point struct {
	X, Y, Z float64
}

// Distance returns the 3-D Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HorizontalDistance returns the Euclidean distance to q in the ground
// plane, ignoring elevation.
func (p Point) HorizontalDistance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// MedianPoint returns the coordinate-wise median of points. Each axis is
// treated independently, so the result need not coincide with any input
// point. Returns false when points is empty.
func MedianPoint(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
		zs[i] = p.Z
	}
	return Point{X: median(xs), Y: median(ys), Z: median(zs)}, true
}

// median sorts in place and returns the midpoint value, averaging the two
// central elements for even-length input.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}
