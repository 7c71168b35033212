package closedorbit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
	"github.com/accelwork/orbit/tracker"
)

// Options configures a Finder.
type Options struct {
	// Tolerance is the convergence threshold on the squared norm of the
	// Newton update.
	Tolerance float64

	// MaxIterations is the hard cap on Newton passes.
	MaxIterations int

	// Delta is the finite-difference perturbation added to each phase-space
	// coordinate when probing the transfer map.
	Delta float64

	// DeltaScale optionally scales the perturbation per coordinate, for
	// lattices whose coordinates have very different physical scales. When
	// nil, Delta applies uniformly.
	DeltaScale []float64

	// TransverseOnly restricts the solve to the four transverse coordinates.
	TransverseOnly bool

	// Radiation attaches a synchrotron radiation process for the duration
	// of each FindClosedOrbit call.
	Radiation bool

	// RadNumSteps fixes the radiation integration steps per element.
	// Mutually exclusive with RadStepSize.
	RadNumSteps int

	// RadStepSize bounds the radiation integration step length. Mutually
	// exclusive with RadNumSteps.
	RadStepSize float64

	// BendScale, when non-zero, attaches a path-length scaling process for
	// the duration of each FindClosedOrbit call.
	BendScale float64

	// RCond is the relative singular-value cutoff for the pseudoinverse
	// solve: singular values below RCond times the largest are treated as
	// zero.
	RCond float64

	// Logger receives rank-deficiency warnings. Defaults to a discarding
	// logger.
	Logger *slog.Logger
}

// DefaultOptions holds the defaults used by NewFinder.
var DefaultOptions = Options{
	Tolerance:     1e-26,
	MaxIterations: 20,
	Delta:         1e-9,
	RadNumSteps:   1,
	RCond:         1e-12,
}

// Result is the outcome of a successful closed-orbit search.
type Result struct {
	// Orbit is the fixed point of the segment transfer map.
	Orbit phasespace.Vector

	// Iterations is the number of Newton passes executed.
	Iterations int

	// Residual is the final squared norm of the Newton update.
	Residual float64

	// RankDeficient reports that the Jacobian was singular along at least
	// one direction at some point during the search. The pseudoinverse
	// solve tolerates this; the flag is a diagnostic only.
	RankDeficient bool
}

// Finder locates the closed orbit of a beamline segment.
type Finder struct {
	engine tracker.Engine
	model  lattice.Model
	p0     float64
	opts   Options
}

// NewFinder creates a finder for the given engine and model with reference
// momentum p0 in GeV/c.
func NewFinder(engine tracker.Engine, model lattice.Model, p0 float64, optFns ...func(*Options)) (*Finder, error) {
	if engine == nil {
		return nil, errors.New("closedorbit: nil engine")
	}
	if model == nil {
		return nil, errors.New("closedorbit: nil model")
	}
	if p0 <= 0 {
		return nil, fmt.Errorf("closedorbit: reference momentum must be positive, got %g", p0)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Delta == 0 {
		return nil, errors.New("closedorbit: delta must be non-zero")
	}
	if opts.DeltaScale != nil {
		if len(opts.DeltaScale) < phasespace.Dimension {
			return nil, fmt.Errorf("closedorbit: delta scale needs %d entries, got %d",
				phasespace.Dimension, len(opts.DeltaScale))
		}
		for k, s := range opts.DeltaScale[:phasespace.Dimension] {
			if s <= 0 {
				return nil, fmt.Errorf("closedorbit: delta scale for coordinate %d must be positive, got %g", k, s)
			}
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Finder{engine: engine, model: model, p0: p0, opts: opts}, nil
}

// SetTolerance sets the convergence threshold.
func (f *Finder) SetTolerance(tol float64) { f.opts.Tolerance = tol }

// SetMaxIterations sets the iteration budget.
func (f *Finder) SetMaxIterations(n int) { f.opts.MaxIterations = n }

// SetDelta sets the finite-difference perturbation.
func (f *Finder) SetDelta(delta float64) { f.opts.Delta = delta }

// TransverseOnly restricts or widens the solve dimensionality.
func (f *Finder) TransverseOnly(flag bool) { f.opts.TransverseOnly = flag }

// Radiation toggles the scoped synchrotron radiation process. Enabling it
// resets the integration granularity to one step per element.
func (f *Finder) Radiation(flag bool) {
	f.opts.Radiation = flag
	if flag {
		f.SetRadNumSteps(1)
	}
}

// SetRadNumSteps fixes the radiation steps per element, clearing any step
// size bound.
func (f *Finder) SetRadNumSteps(n int) {
	f.opts.RadNumSteps = n
	f.opts.RadStepSize = 0
}

// SetRadStepSize bounds the radiation step length, clearing any fixed step
// count.
func (f *Finder) SetRadStepSize(s float64) {
	f.opts.RadStepSize = s
	f.opts.RadNumSteps = 0
}

// ScaleBendPathLength sets the bend path-length scale factor; zero disables
// the scoped path-length process.
func (f *Finder) ScaleBendPathLength(scale float64) { f.opts.BendScale = scale }

// FindClosedOrbit returns the fixed point of the segment's transfer map to
// within tolerance, starting the Newton iteration from guess. It fails with
// *ConvergenceError when the iteration budget is exhausted first.
func (f *Finder) FindClosedOrbit(ctx context.Context, seg lattice.Segment, guess phasespace.Vector) (Result, error) {
	cpt := phasespace.Dimension
	if f.opts.TransverseOnly {
		cpt = phasespace.TransverseDimension
	}

	// Scoped processes: attached for this call only, removed on every exit
	// path.
	if f.opts.Radiation {
		sr := tracker.NewRadiationProcess(1)
		if f.opts.RadStepSize == 0 {
			sr.SetNumComponentSteps(f.opts.RadNumSteps)
		} else {
			sr.SetMaxComponentStepSize(f.opts.RadStepSize)
		}
		f.engine.AddProcess(sr)
		defer f.engine.RemoveProcess(sr)
	}
	if f.opts.BendScale != 0 {
		pl := tracker.NewPathLengthProcess(2, f.opts.BendScale)
		f.engine.AddProcess(pl)
		defer f.engine.RemoveProcess(pl)
	}

	// Probe passes measure the transfer map, they are not physical beam
	// advancement, so monitors must not record them. This also keeps the
	// lattice model read-only during concurrent momentum scans.
	f.engine.SetMonitorRecording(false)
	defer f.engine.SetMonitorRecording(true)

	if err := f.engine.SetSegment(f.model, seg); err != nil {
		return Result{}, err
	}

	// Probe bunch: the reference ray plus one perturbed ray per coordinate.
	particles := make([]phasespace.Vector, cpt+1)
	probe := phasespace.NewBunch(f.p0, 1, particles...)

	perturbation := func(k int) float64 {
		if f.opts.DeltaScale != nil {
			return f.opts.Delta * f.opts.DeltaScale[k]
		}
		return f.opts.Delta
	}

	w := 1.0
	iter := 1
	rankDeficient := false

	for w > f.opts.Tolerance && iter < f.opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		for k := 0; k <= cpt; k++ {
			p := probe.Particle(k)
			*p = guess
			if k > 0 {
				p[k-1] += perturbation(k - 1)
			}
		}

		if err := f.engine.Track(probe); err != nil {
			return Result{}, err
		}

		ref := probe.First()
		dg := make([]float64, cpt*cpt)
		g := make([]float64, cpt)
		for k := 0; k < cpt; k++ {
			pk := probe.At(k + 1)
			dk := perturbation(k)
			for m := 0; m < cpt; m++ {
				dg[m*cpt+k] = (pk[m] - ref[m]) / dk
			}
			dg[k*cpt+k] -= 1
			g[k] = ref[k] - guess[k]
		}

		d, deficient, err := solvePseudoinverse(dg, g, cpt, f.opts.RCond)
		if err != nil {
			return Result{}, err
		}
		if deficient && !rankDeficient {
			rankDeficient = true
			f.opts.Logger.Warn("rank-deficient jacobian in closed orbit search",
				"segment", seg.String(), "iteration", iter)
		}

		w = 0
		for k := 0; k < cpt; k++ {
			guess[k] -= d[k]
			w += d[k] * d[k]
		}
		iter++
	}

	if w > f.opts.Tolerance {
		return Result{}, &ConvergenceError{Residual: w, Iterations: iter - 1, LastOrbit: guess}
	}

	return Result{
		Orbit:         guess,
		Iterations:    iter - 1,
		Residual:      w,
		RankDeficient: rankDeficient,
	}, nil
}
