package mmwave

import "testing"

func TestNormalizePoints(t *testing.T) {
	in := []Point{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}}

	tests := []struct {
		name   string
		points []Point
		target int
	}{
		{"pad short input", in, 5},
		{"truncate long input", in, 2},
		{"exact length", in, 3},
		{"empty input", nil, 4},
		{"zero target", in, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizePoints(tt.points, tt.target)
			if len(out) != tt.target {
				t.Fatalf("expected %d points, got %d", tt.target, len(out))
			}

			// Shared prefix is preserved verbatim.
			n := len(tt.points)
			if n > tt.target {
				n = tt.target
			}
			for i := 0; i < n; i++ {
				if out[i] != tt.points[i] {
					t.Errorf("point %d: expected %+v, got %+v", i, tt.points[i], out[i])
				}
			}

			// Anything past the input is zero padding.
			for i := n; i < tt.target; i++ {
				if out[i] != (Point{}) {
					t.Errorf("point %d: expected zero padding, got %+v", i, out[i])
				}
			}
		})
	}
}

func TestNormalizePointsDoesNotAliasInput(t *testing.T) {
	in := []Point{{X: 1}, {X: 2}}
	out := NormalizePoints(in, 2)
	out[0].X = 99
	if in[0].X != 1 {
		t.Error("normalized output aliases the input slice")
	}
}
