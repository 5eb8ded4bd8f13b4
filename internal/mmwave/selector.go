package mmwave

import "sort"

// SelectionKind tags how the winning entry set was assembled.
type SelectionKind string

const (
	// SelectionSingle means both criteria agreed on one track (or only
	// one criterion was scorable).
	SelectionSingle SelectionKind = "single"
	// SelectionMerged means the criteria disagreed and the winners'
	// entries were merged.
	SelectionMerged SelectionKind = "merged"
)

// Selection is the subject chosen from a sample's tracks. Primary is the
// residual-error winner's track ID (or the sole winner's); Secondary is the
// reference-distance winner when the criteria disagreed, else -1. Entries
// are ordered by frame index and, for merged selections, deduplicated by
// frame with Primary taking precedence.
type Selection struct {
	Kind      SelectionKind
	Primary   int
	Secondary int
	Entries   []TrackEntry
}

// Points concatenates the member points of the selected entries in frame
// order. This is the point set handed to the normalizer.
func (s *Selection) Points() []Point {
	var n int
	for _, e := range s.Entries {
		n += len(e.Points)
	}
	pts := make([]Point, 0, n)
	for _, e := range s.Entries {
		pts = append(pts, e.Points...)
	}
	return pts
}

// SelectTrack picks the subject among filtered tracks using two
// independent criteria:
//
//	residual: lowest RMSE between filtered estimates and raw centroids,
//	  among tracks that produced estimates;
//	proximity: smallest ground-plane distance between a track's aggregate
//	  point centroid and the reference point.
//
// Agreement yields that single track. Disagreement merges both winners'
// entries, one entry per frame index, residual winner first. Ties within a
// criterion resolve to the lower track ID. Returns false when no track is
// scorable under either criterion; the caller drops the sample.
//
// The reference point is supplied by the caller (typically the median of
// the sample's auxiliary keypoints) so concurrent samples never share
// state through a package global.
func SelectTrack(tracks []FilteredTrack, reference Point) (Selection, bool) {
	type winner struct {
		idx   int
		score float64
	}
	var residual, proximity *winner

	for i := range tracks {
		t := &tracks[i]
		if rmse, ok := t.RMSE(); ok {
			if residual == nil || rmse < residual.score {
				residual = &winner{idx: i, score: rmse}
			}
		}
		if c, ok := t.Track.AggregateCentroid(); ok {
			d := c.HorizontalDistance(reference)
			if proximity == nil || d < proximity.score {
				proximity = &winner{idx: i, score: d}
			}
		}
	}

	switch {
	case residual == nil && proximity == nil:
		return Selection{}, false

	case residual == nil:
		t := tracks[proximity.idx].Track
		return Selection{Kind: SelectionSingle, Primary: t.ID, Secondary: -1, Entries: t.Entries}, true

	case proximity == nil:
		t := tracks[residual.idx].Track
		return Selection{Kind: SelectionSingle, Primary: t.ID, Secondary: -1, Entries: t.Entries}, true

	case residual.idx == proximity.idx:
		t := tracks[residual.idx].Track
		return Selection{Kind: SelectionSingle, Primary: t.ID, Secondary: -1, Entries: t.Entries}, true
	}

	// Criteria disagree: the residual winner is the better-behaved
	// trajectory, the proximity winner is closer to where the subject
	// ought to be. Keep both, one entry per frame.
	prim := tracks[residual.idx].Track
	sec := tracks[proximity.idx].Track

	byFrame := make(map[int]TrackEntry, len(prim.Entries)+len(sec.Entries))
	for _, e := range prim.Entries {
		byFrame[e.FrameIndex] = e
	}
	for _, e := range sec.Entries {
		if _, taken := byFrame[e.FrameIndex]; !taken {
			byFrame[e.FrameIndex] = e
		}
	}

	merged := make([]TrackEntry, 0, len(byFrame))
	for _, e := range byFrame {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].FrameIndex < merged[j].FrameIndex })

	return Selection{Kind: SelectionMerged, Primary: prim.ID, Secondary: sec.ID, Entries: merged}, true
}
