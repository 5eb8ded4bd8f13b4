package mmwave

// TrackEntry records one cluster observation attributed to a track: the
// frame it was seen in, the cluster label within that frame, the member
// points and their centroid.
type TrackEntry struct {
	FrameIndex int
	Label      int
	Points     []Point
	Centroid   Point
}

// Track is one subject hypothesis followed across frames. Entries are
// ordered by strictly increasing FrameIndex; a track that misses an
// association simply stops growing but is never discarded, so short tracks
// from early disappearances still reach the selector.
type Track struct {
	ID      int // seeding order: position in frame 0's ascending label list
	Entries []TrackEntry
}

// LastEntry returns the most recent entry, or nil for an empty track.
func (t *Track) LastEntry() *TrackEntry {
	if len(t.Entries) == 0 {
		return nil
	}
	return &t.Entries[len(t.Entries)-1]
}

// AllPoints concatenates the member points of every entry, in frame order.
func (t *Track) AllPoints() []Point {
	var n int
	for _, e := range t.Entries {
		n += len(e.Points)
	}
	pts := make([]Point, 0, n)
	for _, e := range t.Entries {
		pts = append(pts, e.Points...)
	}
	return pts
}

// AggregateCentroid returns the mean of every point the track ever
// contained, across all entries. Returns false for a track with no points.
func (t *Track) AggregateCentroid() (Point, bool) {
	var sum Point
	var n int
	for _, e := range t.Entries {
		for _, p := range e.Points {
			sum.X += p.X
			sum.Y += p.Y
			sum.Z += p.Z
			n++
		}
	}
	if n == 0 {
		return Point{}, false
	}
	f := float64(n)
	return Point{X: sum.X / f, Y: sum.Y / f, Z: sum.Z / f}, true
}

// CentroidCostMatrix builds the assignment cost matrix between two frames'
// centroid maps: rows follow prev's ascending label order, columns follow
// next's, entries are 3-D Euclidean distances. Either side empty yields a
// nil matrix.
func CentroidCostMatrix(prev, next Centroids) [][]float64 {
	if len(prev) == 0 || len(next) == 0 {
		return nil
	}
	rows := prev.Labels()
	cols := next.Labels()
	cost := make([][]float64, len(rows))
	for i, rl := range rows {
		cost[i] = make([]float64, len(cols))
		for j, cl := range cols {
			cost[i][j] = prev[rl].Distance(next[cl])
		}
	}
	return cost
}

// BuildTracks associates clusters across consecutive frames into tracks.
// frames and frameLabels are parallel per-frame slices (points and their
// DBSCAN labels). Tracks are seeded from frame 0, one per cluster in
// ascending label order, and extended at each t→t+1 transition by the
// optimal assignment between the two frames' centroids. Clusters appearing
// after frame 0 never start new tracks.
//
// A frame whose point count disagrees with its label count is corrupt
// (labels were produced elsewhere and no longer line up); every transition
// touching it is skipped so the remaining frames still associate. A corrupt
// frame 0 yields no tracks at all.
func BuildTracks(frames [][]Point, frameLabels [][]int) []Track {
	k := len(frames)
	if k == 0 || len(frameLabels) != k {
		return nil
	}

	cents := make([]Centroids, k)
	valid := make([]bool, k)
	for t := range frames {
		if len(frames[t]) != len(frameLabels[t]) {
			continue
		}
		valid[t] = true
		cents[t] = ComputeCentroids(frames[t], frameLabels[t])
	}

	var tracks []Track
	if valid[0] {
		for id, label := range cents[0].Labels() {
			tracks = append(tracks, Track{
				ID: id,
				Entries: []TrackEntry{{
					FrameIndex: 0,
					Label:      label,
					Points:     ClusterPoints(frames[0], frameLabels[0], label),
					Centroid:   cents[0][label],
				}},
			})
		}
	}
	if len(tracks) == 0 {
		return tracks
	}

	for t := 0; t+1 < k; t++ {
		if !valid[t] || !valid[t+1] {
			continue
		}
		cost := CentroidCostMatrix(cents[t], cents[t+1])
		if cost == nil {
			continue
		}

		rows := cents[t].Labels()
		cols := cents[t+1].Labels()
		successor := make(map[int]int, len(rows))
		for i, j := range HungarianAssign(cost) {
			if j >= 0 {
				successor[rows[i]] = cols[j]
			}
		}

		for ti := range tracks {
			last := tracks[ti].LastEntry()
			if last.FrameIndex != t {
				continue // track already frozen in an earlier frame
			}
			nl, ok := successor[last.Label]
			if !ok {
				continue
			}
			tracks[ti].Entries = append(tracks[ti].Entries, TrackEntry{
				FrameIndex: t + 1,
				Label:      nl,
				Points:     ClusterPoints(frames[t+1], frameLabels[t+1], nl),
				Centroid:   cents[t+1][nl],
			})
		}
	}

	return tracks
}
