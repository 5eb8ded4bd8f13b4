package tune

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// Search budget defaults. The search is a resource-bounded heuristic: a
// handful of uniform random probes seed a Gaussian-process surrogate, then
// each modelled iteration evaluates the candidate with the highest expected
// improvement. No global-optimality claim; run-to-run reproducibility
// comes from the caller fixing Seed.
const (
	DefaultNumInitial    = 5
	DefaultNumIterations = 12
	DefaultCandidatePool = 256

	// rbfLengthScale is the RBF kernel length scale over bounds-normalized
	// inputs, so one unit is the full span of a parameter's range.
	rbfLengthScale = 0.2

	// cholJitter is added to the kernel diagonal to keep the Cholesky
	// factorization positive definite when trial points nearly coincide.
	cholJitter = 1e-6

	// eiExploration biases expected improvement slightly toward
	// exploration so the search does not stall on the incumbent.
	eiExploration = 0.01
)

// Bounds is an inclusive search interval for one parameter.
type Bounds struct {
	Min, Max float64
}

// Clamp forces v into the interval.
func (b Bounds) Clamp(v float64) float64 {
	return math.Min(b.Max, math.Max(b.Min, v))
}

// normalize maps v into [0,1] over the interval.
func (b Bounds) normalize(v float64) float64 {
	if b.Max <= b.Min {
		return 0
	}
	return (v - b.Min) / (b.Max - b.Min)
}

// ParamBounds bound the three searched scalars.
type ParamBounds struct {
	ProcessNoise      Bounds
	MeasurementNoise  Bounds
	InitialCovariance Bounds
}

// DefaultParamBounds returns the standard search region.
func DefaultParamBounds() ParamBounds {
	return ParamBounds{
		ProcessNoise:      Bounds{Min: 1, Max: 50},
		MeasurementNoise:  Bounds{Min: 0.01, Max: 10},
		InitialCovariance: Bounds{Min: 1, Max: 50},
	}
}

// Clamp forces every parameter into its bound.
func (pb ParamBounds) Clamp(p mmwave.FilterParams) mmwave.FilterParams {
	return mmwave.FilterParams{
		ProcessNoise:      pb.ProcessNoise.Clamp(p.ProcessNoise),
		MeasurementNoise:  pb.MeasurementNoise.Clamp(p.MeasurementNoise),
		InitialCovariance: pb.InitialCovariance.Clamp(p.InitialCovariance),
	}
}

func (pb ParamBounds) normalize(p mmwave.FilterParams) [3]float64 {
	return [3]float64{
		pb.ProcessNoise.normalize(p.ProcessNoise),
		pb.MeasurementNoise.normalize(p.MeasurementNoise),
		pb.InitialCovariance.normalize(p.InitialCovariance),
	}
}

// SearchConfig controls the tuning run. Zero values fall back to defaults,
// except Seed, which is used as given so 0 is a valid fixed seed.
type SearchConfig struct {
	Bounds        ParamBounds
	NumInitial    int
	NumIterations int
	CandidatePool int
	Seed          int64
}

// DefaultSearchConfig returns the standard bounded budget.
func DefaultSearchConfig(seed int64) SearchConfig {
	return SearchConfig{
		Bounds:        DefaultParamBounds(),
		NumInitial:    DefaultNumInitial,
		NumIterations: DefaultNumIterations,
		CandidatePool: DefaultCandidatePool,
		Seed:          seed,
	}
}

// Trial records one objective evaluation.
type Trial struct {
	Params mmwave.FilterParams
	Error  float64
}

// Result holds the finished search: the best trial and the full history in
// evaluation order.
type Result struct {
	Best   Trial
	Trials []Trial
}

// Search runs the bounded Bayesian search over obj: NumInitial uniform
// random probes, then NumIterations surrogate-guided evaluations. The
// total number of objective calls is exactly NumInitial + NumIterations.
func Search(obj Objective, cfg SearchConfig) Result {
	if cfg.NumInitial <= 0 {
		cfg.NumInitial = DefaultNumInitial
	}
	if cfg.NumIterations <= 0 {
		cfg.NumIterations = DefaultNumIterations
	}
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = DefaultCandidatePool
	}
	if cfg.Bounds == (ParamBounds{}) {
		cfg.Bounds = DefaultParamBounds()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	res := Result{
		Trials: make([]Trial, 0, cfg.NumInitial+cfg.NumIterations),
		Best:   Trial{Error: math.Inf(1)},
	}
	evaluate := func(p mmwave.FilterParams) {
		p = cfg.Bounds.Clamp(p)
		tr := Trial{Params: p, Error: obj.Evaluate(p)}
		res.Trials = append(res.Trials, tr)
		if tr.Error < res.Best.Error {
			res.Best = tr
		}
	}

	for i := 0; i < cfg.NumInitial; i++ {
		evaluate(randomParams(rng, cfg.Bounds))
	}

	for i := 0; i < cfg.NumIterations; i++ {
		next, ok := proposeNext(res.Trials, res.Best.Error, cfg, rng)
		if !ok {
			// Degenerate surrogate (all trials coincide); keep spending
			// the budget on random probes.
			next = randomParams(rng, cfg.Bounds)
		}
		evaluate(next)
	}

	return res
}

func randomParams(rng *rand.Rand, pb ParamBounds) mmwave.FilterParams {
	sample := func(b Bounds) float64 {
		return b.Min + rng.Float64()*(b.Max-b.Min)
	}
	return mmwave.FilterParams{
		ProcessNoise:      sample(pb.ProcessNoise),
		MeasurementNoise:  sample(pb.MeasurementNoise),
		InitialCovariance: sample(pb.InitialCovariance),
	}
}

// proposeNext fits a GP surrogate to the trials and returns the candidate
// from a random pool with the highest expected improvement over bestErr.
func proposeNext(trials []Trial, bestErr float64, cfg SearchConfig, rng *rand.Rand) (mmwave.FilterParams, bool) {
	sur, ok := fitSurrogate(trials, cfg.Bounds)
	if !ok {
		return mmwave.FilterParams{}, false
	}

	var best mmwave.FilterParams
	bestEI := math.Inf(-1)
	for i := 0; i < cfg.CandidatePool; i++ {
		cand := randomParams(rng, cfg.Bounds)
		mean, std := sur.predict(cfg.Bounds.normalize(cand))
		ei := expectedImprovement(bestErr, mean, std)
		if ei > bestEI {
			bestEI = ei
			best = cand
		}
	}
	return best, true
}

// expectedImprovement for minimization: how much a point with predicted
// mean and std is expected to undercut the incumbent best.
func expectedImprovement(best, mean, std float64) float64 {
	impr := best - mean - eiExploration
	if std <= 0 {
		return math.Max(impr, 0)
	}
	z := impr / std
	return impr*distuv.UnitNormal.CDF(z) + std*distuv.UnitNormal.Prob(z)
}

// surrogate is a zero-mean GP with an RBF kernel over bounds-normalized
// inputs and standardized outputs.
type surrogate struct {
	x     [][3]float64
	chol  mat.Cholesky
	alpha *mat.VecDense
	yMean float64
	yStd  float64
}

func fitSurrogate(trials []Trial, pb ParamBounds) (*surrogate, bool) {
	n := len(trials)
	if n < 2 {
		return nil, false
	}

	s := &surrogate{x: make([][3]float64, n)}
	ys := make([]float64, n)
	for i, t := range trials {
		s.x[i] = pb.normalize(t.Params)
		ys[i] = t.Error
	}

	var sum float64
	for _, y := range ys {
		sum += y
	}
	s.yMean = sum / float64(n)
	var ss float64
	for _, y := range ys {
		d := y - s.yMean
		ss += d * d
	}
	s.yStd = math.Sqrt(ss / float64(n))
	if s.yStd < 1e-12 {
		// A flat objective carries no signal worth modelling.
		return nil, false
	}

	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rbf(s.x[i], s.x[j])
			if i == j {
				v += cholJitter
			}
			k.SetSym(i, j, v)
		}
	}
	if ok := s.chol.Factorize(k); !ok {
		return nil, false
	}

	yv := mat.NewVecDense(n, nil)
	for i, y := range ys {
		yv.SetVec(i, (y-s.yMean)/s.yStd)
	}
	s.alpha = mat.NewVecDense(n, nil)
	if err := s.chol.SolveVecTo(s.alpha, yv); err != nil {
		return nil, false
	}

	return s, true
}

// predict returns the GP posterior mean and standard deviation at the
// normalized input, mapped back to objective units.
func (s *surrogate) predict(p [3]float64) (mean, std float64) {
	n := len(s.x)
	kv := mat.NewVecDense(n, nil)
	for i := range s.x {
		kv.SetVec(i, rbf(p, s.x[i]))
	}

	mean = mat.Dot(kv, s.alpha)*s.yStd + s.yMean

	v := mat.NewVecDense(n, nil)
	if err := s.chol.SolveVecTo(v, kv); err != nil {
		return mean, 0
	}
	variance := 1 - mat.Dot(kv, v)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance) * s.yStd
}

func rbf(a, b [3]float64) float64 {
	var d2 float64
	for i := range a {
		d := a[i] - b[i]
		d2 += d * d
	}
	return math.Exp(-d2 / (2 * rbfLengthScale * rbfLengthScale))
}
