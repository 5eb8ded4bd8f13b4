package mmwave

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// minInnovationDet guards the innovation covariance inversion. A singular S
// means the filter has degenerated; the update is dropped and the prior
// state carries forward rather than poisoning the track with NaNs.
const minInnovationDet = 1e-12

// FilterParams are the three scalars the tuner searches: Q = ProcessNoise·I₄,
// R = MeasurementNoise·I₂ and P₀ = InitialCovariance·I₄.
type FilterParams struct {
	ProcessNoise      float64 `json:"process_noise"`
	MeasurementNoise  float64 `json:"measurement_noise"`
	InitialCovariance float64 `json:"initial_covariance"`
}

// DefaultFilterParams returns a workable untuned parameter set for callers
// that skip the search (plot tooling, smoke tests).
func DefaultFilterParams() FilterParams {
	return FilterParams{
		ProcessNoise:      10,
		MeasurementNoise:  0.5,
		InitialCovariance: 25,
	}
}

// StateEstimate is one posterior snapshot of the filter state: planar
// position and velocity.
type StateEstimate struct {
	X, Y, VX, VY float64
}

// Position returns the estimate's position as a Point on the ground plane.
func (s StateEstimate) Position() Point {
	return Point{X: s.X, Y: s.Y}
}

// MotionFilter is a constant-velocity Kalman filter over the planar state
// (x, y, vx, vy) with position-only measurements and a fixed unit timestep
// (frames are the clock). Elevation is deliberately outside the state:
// subject height barely moves frame to frame and including it only feeds
// clustering jitter back into the velocity estimate.
type MotionFilter struct {
	x *mat.VecDense // 4x1 state
	p *mat.Dense    // 4x4 covariance

	f *mat.Dense // state transition
	h *mat.Dense // observation model
	q *mat.Dense // process noise
	r *mat.Dense // measurement noise
}

// NewMotionFilter initializes the filter at the given position with zero
// velocity and covariance P₀ from params.
func NewMotionFilter(initial Point, params FilterParams) *MotionFilter {
	return &MotionFilter{
		x: mat.NewVecDense(4, []float64{initial.X, initial.Y, 0, 0}),
		p: scaledEye(4, params.InitialCovariance),
		f: mat.NewDense(4, 4, []float64{
			1, 0, 1, 0,
			0, 1, 0, 1,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}),
		h: mat.NewDense(2, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
		q: scaledEye(4, params.ProcessNoise),
		r: scaledEye(2, params.MeasurementNoise),
	}
}

// Predict advances the state one frame: x ← Fx, P ← FPFᵀ + Q.
func (kf *MotionFilter) Predict() {
	var x mat.VecDense
	x.MulVec(kf.f, kf.x)
	kf.x.CopyVec(&x)

	var fp, fpft mat.Dense
	fp.Mul(kf.f, kf.p)
	fpft.Mul(&fp, kf.f.T())
	fpft.Add(&fpft, kf.q)
	kf.p.Copy(&fpft)
}

// Update folds a position measurement into the state. A singular innovation
// covariance leaves the prior untouched, mirroring how the live tracker
// refuses an association it cannot invert.
func (kf *MotionFilter) Update(z Point) {
	var hx mat.VecDense
	hx.MulVec(kf.h, kf.x)
	y := mat.NewVecDense(2, []float64{z.X - hx.AtVec(0), z.Y - hx.AtVec(1)})

	// S = HPHᵀ + R
	var hp, s mat.Dense
	hp.Mul(kf.h, kf.p)
	s.Mul(&hp, kf.h.T())
	s.Add(&s, kf.r)

	if math.Abs(mat.Det(&s)) < minInnovationDet {
		return
	}
	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return
	}

	// K = PHᵀS⁻¹
	var pht, k mat.Dense
	pht.Mul(kf.p, kf.h.T())
	k.Mul(&pht, &sInv)

	// x ← x + Ky
	var ky mat.VecDense
	ky.MulVec(&k, y)
	kf.x.AddVec(kf.x, &ky)

	// P ← (I − KH)P
	var kh, ikh, pNew mat.Dense
	kh.Mul(&k, kf.h)
	ikh.Sub(eye(4), &kh)
	pNew.Mul(&ikh, kf.p)
	kf.p.Copy(&pNew)
}

// State returns the current estimate.
func (kf *MotionFilter) State() StateEstimate {
	return StateEstimate{
		X:  kf.x.AtVec(0),
		Y:  kf.x.AtVec(1),
		VX: kf.x.AtVec(2),
		VY: kf.x.AtVec(3),
	}
}

func eye(n int) *mat.Dense {
	return scaledEye(n, 1)
}

func scaledEye(n int, v float64) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, v)
	}
	return d
}
