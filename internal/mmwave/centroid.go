package mmwave

import "sort"

// Centroids maps cluster labels to the unweighted mean position of their
// member points. Noise points never appear. Use Labels for deterministic
// iteration: map order is randomized and association depends on a stable
// row/column layout.
type Centroids map[int]Point

// Labels returns the cluster labels in ascending order.
func (c Centroids) Labels() []int {
	labels := make([]int, 0, len(c))
	for l := range c {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

// ComputeCentroids averages the original (unweighted) coordinates of each
// labelled cluster in frame. labels must parallel frame; the caller is
// responsible for passing the pair produced by ClusterFrame. A frame with
// only noise yields an empty map.
func ComputeCentroids(frame []Point, labels []int) Centroids {
	sums := make(map[int]Point)
	counts := make(map[int]int)
	for i, l := range labels {
		if l == NoiseLabel {
			continue
		}
		s := sums[l]
		s.X += frame[i].X
		s.Y += frame[i].Y
		s.Z += frame[i].Z
		sums[l] = s
		counts[l]++
	}

	cents := make(Centroids, len(sums))
	for l, s := range sums {
		n := float64(counts[l])
		cents[l] = Point{X: s.X / n, Y: s.Y / n, Z: s.Z / n}
	}
	return cents
}

// ClusterPoints collects the members of cluster label from frame, in input
// order. Returns nil when the label has no members.
func ClusterPoints(frame []Point, labels []int, label int) []Point {
	var pts []Point
	for i, l := range labels {
		if l == label {
			pts = append(pts, frame[i])
		}
	}
	return pts
}
