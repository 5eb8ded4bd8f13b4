package mmwave

// Segmentation constants.
const (
	// DefaultFrameCount is the number of temporal sub-frames a capture is
	// split into. The radar concatenates a short burst of scans into one
	// record; five chunks recovers the original frame boundaries closely
	// enough for association.
	DefaultFrameCount = 5

	// DefaultPlaceholderEps is the radius around the sensor origin inside
	// which points are treated as zero-padding artifacts and removed.
	DefaultPlaceholderEps = 0.01
)

// SplitFrames divides points into n contiguous chunks by index order.
// Chunk sizes are equal (len/n, integer division); the final chunk absorbs
// the remainder. The result always has exactly n frames, some possibly
// empty. Sub-slices alias the input; callers that mutate frames must copy.
//
// n < 1 is a caller bug and yields a single frame holding everything,
// which keeps downstream stages well defined.
func SplitFrames(points []Point, n int) [][]Point {
	if n < 1 {
		n = 1
	}
	frames := make([][]Point, n)
	size := len(points) / n
	for i := 0; i < n; i++ {
		lo := i * size
		hi := lo + size
		if i == n-1 {
			hi = len(points)
		}
		frames[i] = points[lo:hi]
	}
	return frames
}

// StripPlaceholders returns frame minus any point lying within eps of
// origin. Capture hardware zero-fills short frames; those padding rows sit
// exactly at the origin and would otherwise cluster into a phantom object.
// The input slice is not modified.
func StripPlaceholders(frame []Point, origin Point, eps float64) []Point {
	if eps <= 0 {
		eps = DefaultPlaceholderEps
	}
	out := make([]Point, 0, len(frame))
	for _, p := range frame {
		if p.Distance(origin) < eps {
			continue
		}
		out = append(out, p)
	}
	return out
}
