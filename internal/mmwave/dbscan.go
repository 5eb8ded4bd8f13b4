package mmwave

import "math"

// Clustering configuration defaults. Eps is expressed in the weighted
// coordinate space, so compressing Z with VerticalWeight < 1 makes the
// neighborhood an ellipsoid stretched along the vertical axis — a person's
// returns are tall and thin, and unweighted spherical neighborhoods split
// them into head/torso/leg fragments.
const (
	// DefaultClusterEps is the neighborhood radius in weighted meters.
	DefaultClusterEps = 0.4
	// DefaultClusterMinPoints is the minimum neighborhood population
	// (self included) for a core point.
	DefaultClusterMinPoints = 5
	// DefaultHorizontalWeight scales X and Y before neighborhood queries.
	DefaultHorizontalWeight = 1.0
	// DefaultVerticalWeight scales Z before neighborhood queries.
	DefaultVerticalWeight = 0.25

	// NoiseLabel marks points assigned to no cluster.
	NoiseLabel = -1

	// estimatedPointsPerCell sizes the spatial index's initial allocation.
	estimatedPointsPerCell = 4
)

// ClusterParams contains parameters for weighted DBSCAN clustering.
type ClusterParams struct {
	Eps              float64 // Neighborhood radius in weighted meters
	MinPoints        int     // Minimum points (self included) to form a cluster
	HorizontalWeight float64 // X/Y scale applied before distance tests
	VerticalWeight   float64 // Z scale applied before distance tests
}

// DefaultClusterParams returns parameters tuned for human-scale subjects
// at indoor mmWave ranges.
func DefaultClusterParams() ClusterParams {
	return ClusterParams{
		Eps:              DefaultClusterEps,
		MinPoints:        DefaultClusterMinPoints,
		HorizontalWeight: DefaultHorizontalWeight,
		VerticalWeight:   DefaultVerticalWeight,
	}
}

// SpatialIndex provides neighborhood queries over a regular 3-D grid.
// Cell size should match the DBSCAN eps so a query never inspects more
// than the 3×3×3 cell neighborhood.
type SpatialIndex struct {
	CellSize float64
	Grid     map[int64][]int // cell key → point indices
}

// NewSpatialIndex creates a spatial index with the specified cell size.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	return &SpatialIndex{
		CellSize: cellSize,
		Grid:     make(map[int64][]int),
	}
}

// Build populates the index from a point set.
func (si *SpatialIndex) Build(points []Point) {
	si.Grid = make(map[int64][]int, len(points)/estimatedPointsPerCell+1)
	for i, p := range points {
		key := si.cellKey(cellCoord(p.X, si.CellSize), cellCoord(p.Y, si.CellSize), cellCoord(p.Z, si.CellSize))
		si.Grid[key] = append(si.Grid[key], i)
	}
}

func cellCoord(v, cellSize float64) int64 {
	return int64(math.Floor(v / cellSize))
}

// cellKey folds three signed cell coordinates into one map key by zigzag
// encoding each axis and applying Szudzik's pairing function twice.
func (si *SpatialIndex) cellKey(cx, cy, cz int64) int64 {
	return szudzikPair(szudzikPair(zigzag(cx), zigzag(cy)), zigzag(cz))
}

func zigzag(v int64) int64 {
	if v >= 0 {
		return 2 * v
	}
	return -2*v - 1
}

func szudzikPair(a, b int64) int64 {
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// RegionQuery returns the indices of all points within eps of points[idx],
// including idx itself. Distances are full 3-D Euclidean in the (already
// weighted) coordinate space.
func (si *SpatialIndex) RegionQuery(points []Point, idx int, eps float64) []int {
	p := points[idx]
	neighbors := []int{}
	eps2 := eps * eps

	cx := cellCoord(p.X, si.CellSize)
	cy := cellCoord(p.Y, si.CellSize)
	cz := cellCoord(p.Z, si.CellSize)

	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				key := si.cellKey(cx+dx, cy+dy, cz+dz)
				for _, ci := range si.Grid[key] {
					q := points[ci]
					ddx := q.X - p.X
					ddy := q.Y - p.Y
					ddz := q.Z - p.Z
					if ddx*ddx+ddy*ddy+ddz*ddz <= eps2 {
						neighbors = append(neighbors, ci)
					}
				}
			}
		}
	}

	return neighbors
}

// ClusterFrame performs weighted DBSCAN over one frame and returns a label
// per point: cluster IDs count up from 1 in discovery order, noise points
// get NoiseLabel. The empty frame yields an empty (non-nil) label slice so
// callers can always zip points with labels.
//
// Weighting happens on a scratch copy; the caller's coordinates are never
// modified, and centroids are computed from the unweighted originals.
func ClusterFrame(frame []Point, params ClusterParams) []int {
	labels := make([]int, len(frame))
	if len(frame) == 0 {
		return labels
	}

	scaled := make([]Point, len(frame))
	for i, p := range frame {
		scaled[i] = Point{
			X: p.X * params.HorizontalWeight,
			Y: p.Y * params.HorizontalWeight,
			Z: p.Z * params.VerticalWeight,
		}
	}

	si := NewSpatialIndex(params.Eps)
	si.Build(scaled)

	clusterID := 0
	for i := range scaled {
		if labels[i] != 0 {
			continue // already claimed or marked noise
		}

		neighbors := si.RegionQuery(scaled, i, params.Eps)
		if len(neighbors) < params.MinPoints {
			labels[i] = NoiseLabel
			continue
		}

		clusterID++
		expandCluster(scaled, si, labels, i, neighbors, clusterID, params.Eps, params.MinPoints)
	}

	return labels
}

// expandCluster grows cluster clusterID outward from a core point using a
// queue of reachable neighbors.
func expandCluster(points []Point, si *SpatialIndex, labels []int,
	seedIdx int, neighbors []int, clusterID int, eps float64, minPoints int) {

	labels[seedIdx] = clusterID

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == NoiseLabel {
			labels[idx] = clusterID // noise becomes a border point
		}
		if labels[idx] != 0 {
			continue
		}

		labels[idx] = clusterID
		more := si.RegionQuery(points, idx, eps)
		if len(more) >= minPoints {
			neighbors = append(neighbors, more...)
		}
	}
}
