// Package orbit manages charged-particle beam tracking through a segmented
// accelerator lattice.
//
// The Accelerator facade owns one bunch per logical machine state and
// decides, as the active beamline segment changes, whether a tracking
// request can reuse the cached advancement of a state's bunch or has to
// restart from the lattice entrance. The closed-orbit search itself lives in
// the closedorbit package; Accelerator exposes a convenience wrapper wired
// into its logging and metrics.
//
// # Quick start
//
//	design := lattice.NewDesign("demo",
//	    lattice.Drift("D1", 1.0),
//	    lattice.Monitor("BPM1"),
//	    lattice.HCorrector("XC1"),
//	    lattice.Drift("D2", 1.0),
//	)
//
//	acc, err := orbit.New("demo", design, orbit.BeamData{P0: 1.0, Charge: 1.0})
//	if err != nil {
//	    panic(err)
//	}
//	acc.SetEngine(tracker.NewLinearEngine())
//	acc.AllowIncrementalTracking(true)
//
//	refs, _ := acc.InitialiseTracking(4)
//	_ = refs
//	_ = acc.SetActiveSegment(lattice.Segment{First: 0, Last: 3})
//	bunch, err := acc.TrackBeam(0)
package orbit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/accelwork/orbit/closedorbit"
	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
	"github.com/accelwork/orbit/tracker"
)

// Plane selects the transverse plane(s) for channel extraction.
type Plane int

const (
	PlaneX Plane = iota
	PlaneY
	PlaneXY
)

// BeamData holds the nominal beam parameters used to create fresh bunches.
type BeamData struct {
	// P0 is the reference momentum in GeV/c.
	P0 float64 `validate:"gt=0"`
	// Charge is the charge per macro particle.
	Charge float64 `validate:"gte=0"`
	// X0, XP0, Y0, YP0, CT0, DP0 are the injected centroid coordinates.
	X0, XP0, Y0, YP0, CT0, DP0 float64
}

func (bd BeamData) centroid() phasespace.Vector {
	var v phasespace.Vector
	v[phasespace.X] = bd.X0
	v[phasespace.XP] = bd.XP0
	v[phasespace.Y] = bd.Y0
	v[phasespace.YP] = bd.YP0
	v[phasespace.CT] = bd.CT0
	v[phasespace.DP] = bd.DP0
	return v
}

// trackedTo records how far a cached bunch has been advanced: the index of
// the last element it was tracked through. The zero value means "not yet
// tracked", which is distinct from "tracked through element 0".
type trackedTo struct {
	index int
	ok    bool
}

// cachedBunch is one logical state's bunch plus its advancement record.
// Entries never share a bunch.
type cachedBunch struct {
	bunch    *phasespace.Bunch
	location trackedTo
}

// Accelerator ties a lattice model, a tracking engine and the per-state
// bunch cache together. It is not safe for concurrent use; every operation
// runs to completion before returning.
type Accelerator struct {
	name    string
	model   lattice.Model
	beam    BeamData
	engine  tracker.Engine
	entries []*cachedBunch
	active  lattice.Segment
	incr    bool
	logger  *Logger
	metrics MetricsCollector
}

// New creates an accelerator facade over the given model. The beam
// parameters are validated; a non-positive reference momentum is rejected.
func New(name string, model lattice.Model, beam BeamData, optFns ...Option) (*Accelerator, error) {
	if model == nil {
		return nil, fmt.Errorf("orbit: nil model")
	}
	if err := validator.New().Struct(beam); err != nil {
		return nil, fmt.Errorf("orbit: invalid beam data: %w", err)
	}

	opts := applyOptions(optFns)

	return &Accelerator{
		name:    name,
		model:   model,
		beam:    beam,
		incr:    opts.incremental,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// Name returns the accelerator's name.
func (a *Accelerator) Name() string { return a.name }

// BeamlineRange returns the segment spanning the full model.
func (a *Accelerator) BeamlineRange() (lattice.Segment, error) {
	return a.model.Beamline()
}

// SetEngine attaches or replaces the tracking engine. A differently
// configured engine makes cached advancement state meaningless, so every
// cached entry is reset to a fresh bunch with no tracked location, exactly
// as if InitialiseTracking had just run for the same number of states.
func (a *Accelerator) SetEngine(e tracker.Engine) {
	a.engine = e
	for _, cb := range a.entries {
		cb.bunch = a.newBunch()
		cb.location = trackedTo{}
	}
	a.logger.LogEngineChange(len(a.entries))
}

// AllowIncrementalTracking toggles reuse of cached bunch advancement.
func (a *Accelerator) AllowIncrementalTracking(flag bool) {
	a.incr = flag
	a.logger.Info("incremental tracking", "enabled", flag)
}

// ActiveSegment returns the currently selected beamline segment.
func (a *Accelerator) ActiveSegment() lattice.Segment { return a.active }

// SetActiveSegment selects the beamline sub-range that TrackBeam operates
// on. The segment must lie within the model.
func (a *Accelerator) SetActiveSegment(seg lattice.Segment) error {
	checked, err := a.model.SubBeamline(seg.First, seg.Last)
	if err != nil {
		return err
	}
	a.active = checked
	a.logger.Debug("active segment set", "segment", seg.String())
	return nil
}

// InitialiseTracking discards all cached entries and creates n fresh ones,
// each with a new bunch at the nominal beam parameters and no tracked
// location. It returns one reference-particle handle per state; the
// underlying particles remain owned by the cache's bunches.
func (a *Accelerator) InitialiseTracking(n int) ([]*phasespace.Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("orbit: negative state count %d", n)
	}

	a.entries = make([]*cachedBunch, n)
	refs := make([]*phasespace.Vector, n)
	for i := range a.entries {
		b := a.newBunch()
		a.entries[i] = &cachedBunch{bunch: b}
		refs[i] = b.Particle(0)
	}
	a.logger.LogInitialise(n)
	return refs, nil
}

// States returns the number of cached tracking states.
func (a *Accelerator) States() int { return len(a.entries) }

// TrackBeam tracks the bunch for the given state through the active segment
// and returns the tracked copy. The cached bunch is only ever mutated by the
// incremental gap-closing advance; the returned bunch is always an
// independent copy.
func (a *Accelerator) TrackBeam(state int) (*phasespace.Bunch, error) {
	start := time.Now()
	rb, err := a.trackBeam(state)
	a.metrics.RecordTrack(a.incr, time.Since(start), err)
	a.logger.LogTrack(state, a.active, a.incr, err)
	return rb, err
}

func (a *Accelerator) trackBeam(state int) (*phasespace.Bunch, error) {
	if a.engine == nil {
		return nil, ErrEngineNotConfigured
	}
	if state < 0 || state >= len(a.entries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrUnknownState, state, len(a.entries))
	}

	seg := a.active
	cb := a.entries[state]

	if !a.incr {
		// Non-incremental: restart from the canonical initial bunch, never
		// touching the cache.
		return a.trackFromScratch(seg.Last)
	}

	// Close the gap between the cached location and the segment entrance.
	n1 := 0
	if cb.location.ok {
		n1 = cb.location.index + 1
	}
	if n1 > seg.First {
		if seg.First == 0 {
			// A segment starting at the lattice entrance means a full
			// re-track of the initial condition from scratch; the advanced
			// cache entry is left alone.
			return a.trackFromScratch(seg.Last)
		}
		// The cached bunch is already past the segment entrance. There is no
		// way to rewind physical advancement, so this is a caller error:
		// segments must advance monotonically while incremental tracking is
		// on.
		return nil, fmt.Errorf("%w: cached bunch for state %d already tracked to %d, segment starts at %d",
			lattice.ErrInvalidSegment, state, cb.location.index, seg.First)
	}
	if n1 < seg.First {
		gap := lattice.Segment{First: n1, Last: seg.First - 1}
		advStart := time.Now()
		if err := a.engine.SetSegment(a.model, gap); err != nil {
			return nil, err
		}
		if err := a.engine.Track(cb.bunch); err != nil {
			return nil, err
		}
		cb.location = trackedTo{index: gap.Last, ok: true}
		a.metrics.RecordAdvance(gap.Count(), time.Since(advStart))
		a.logger.LogAdvance(state, gap)
	}

	if err := a.engine.SetSegment(a.model, seg); err != nil {
		return nil, err
	}
	return a.engine.TrackCopy(cb.bunch)
}

// TrackNewBunchThroughModel tracks one fresh bunch through the whole model
// and returns it, leaving the cache and the active segment untouched.
func (a *Accelerator) TrackNewBunchThroughModel() (*phasespace.Bunch, error) {
	if a.engine == nil {
		return nil, ErrEngineNotConfigured
	}
	full, err := a.model.Beamline()
	if err != nil {
		return nil, err
	}
	if err := a.engine.SetSegment(a.model, full); err != nil {
		return nil, err
	}
	b := a.newBunch()
	if err := a.engine.Track(b); err != nil {
		return nil, err
	}
	return b, nil
}

// FindClosedOrbit searches for the closed orbit of the full ring starting
// from the given guess, recording the search in the facade's logger and
// metrics. Finder options may be overridden per call.
func (a *Accelerator) FindClosedOrbit(ctx context.Context, guess phasespace.Vector, optFns ...func(*closedorbit.Options)) (closedorbit.Result, error) {
	if a.engine == nil {
		return closedorbit.Result{}, ErrEngineNotConfigured
	}
	full, err := a.model.Beamline()
	if err != nil {
		return closedorbit.Result{}, err
	}

	withLogger := append([]func(*closedorbit.Options){func(o *closedorbit.Options) {
		o.Logger = a.logger.Logger
	}}, optFns...)
	finder, err := closedorbit.NewFinder(a.engine, a.model, a.beam.P0, withLogger...)
	if err != nil {
		return closedorbit.Result{}, err
	}

	start := time.Now()
	res, err := finder.FindClosedOrbit(ctx, full, guess)
	a.metrics.RecordOrbitSearch(res.Iterations, time.Since(start), err)
	a.logger.LogOrbitSearch(full, res.Iterations, res.Residual, err)
	return res, err
}

// MonitorChannels returns the read-only beam position monitor channels of
// the active segment for the given plane(s), in beamline order.
func (a *Accelerator) MonitorChannels(p Plane) (lattice.ROChannelArray, error) {
	var out lattice.ROChannelArray
	if p == PlaneX || p == PlaneXY {
		chs, err := a.model.ROChannels(a.active, "BPM.*.X")
		if err != nil {
			return nil, err
		}
		out = append(out, chs...)
	}
	if p == PlaneY || p == PlaneXY {
		chs, err := a.model.ROChannels(a.active, "BPM.*.Y")
		if err != nil {
			return nil, err
		}
		out = append(out, chs...)
	}
	return out, nil
}

// CorrectorChannels returns the read-write steering corrector channels of
// the active segment for the given plane(s), in beamline order.
func (a *Accelerator) CorrectorChannels(p Plane) (lattice.RWChannelArray, error) {
	var out lattice.RWChannelArray
	if p == PlaneX || p == PlaneXY {
		chs, err := a.model.RWChannels(a.active, "XCOR.*.B0")
		if err != nil {
			return nil, err
		}
		out = append(out, chs...)
	}
	if p == PlaneY || p == PlaneXY {
		chs, err := a.model.RWChannels(a.active, "YCOR.*.B0")
		if err != nil {
			return nil, err
		}
		out = append(out, chs...)
	}
	return out, nil
}

// BeamlineIndexes returns the element indices whose qualified names match
// the given glob pattern.
func (a *Accelerator) BeamlineIndexes(pattern string) lattice.IndexSet {
	return a.model.Indexes(pattern)
}

// ExtractTypedElements returns every element with the given keyword, sorted
// by beamline index. The model does not guarantee extraction order, so the
// sort is done here.
func (a *Accelerator) ExtractTypedElements(keyword string) []lattice.Placed {
	placed := a.model.Extract(keyword)
	sort.Slice(placed, func(i, j int) bool {
		return placed[i].Index < placed[j].Index
	})
	return placed
}

// trackFromScratch tracks a fresh nominal bunch from the lattice entrance
// through element last and returns it.
func (a *Accelerator) trackFromScratch(last int) (*phasespace.Bunch, error) {
	if err := a.engine.SetSegment(a.model, lattice.Segment{First: 0, Last: last}); err != nil {
		return nil, err
	}
	fresh := a.newBunch()
	if err := a.engine.Track(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (a *Accelerator) newBunch() *phasespace.Bunch {
	return phasespace.NewBunch(a.beam.P0, a.beam.Charge, a.beam.centroid())
}
