package tracker

import (
	"math"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
)

// Process is a physical effect applied during element traversal. A process
// can be attached to an engine for the lifetime of the engine or scoped to a
// single operation; the engine applies processes in ascending priority
// order after transporting the bunch through each element.
type Process interface {
	// Name identifies the process for logging.
	Name() string

	// Priority orders process application; lower runs first.
	Priority() int

	// Steps returns the number of integration sub-steps the process needs
	// for the given element. Implementations return at least 1.
	Steps(e *lattice.Element) int

	// Apply integrates the process effect over a sub-step of length ds at
	// the exit of element e.
	Apply(b *phasespace.Bunch, e *lattice.Element, ds float64)
}

// RadiationProcess models synchrotron energy loss: every particle loses a
// momentum fraction of LossFactor per metre in elements that have one set.
//
// The integration granularity is configured either as a fixed number of
// sub-steps per element or as a maximum sub-step length; the two settings
// are mutually exclusive and the most recent call wins.
type RadiationProcess struct {
	priority int
	numSteps int
	maxStep  float64
}

// NewRadiationProcess creates a radiation process with the given priority,
// defaulting to a single integration step per element.
func NewRadiationProcess(priority int) *RadiationProcess {
	return &RadiationProcess{priority: priority, numSteps: 1}
}

// SetNumComponentSteps fixes the number of integration steps per element and
// clears any maximum step size.
func (p *RadiationProcess) SetNumComponentSteps(n int) {
	if n < 1 {
		n = 1
	}
	p.numSteps = n
	p.maxStep = 0
}

// SetMaxComponentStepSize bounds the integration step length and clears any
// fixed step count.
func (p *RadiationProcess) SetMaxComponentStepSize(s float64) {
	p.maxStep = s
	p.numSteps = 0
}

func (p *RadiationProcess) Name() string  { return "synchrotron radiation" }
func (p *RadiationProcess) Priority() int { return p.priority }

// Steps implements Process.
func (p *RadiationProcess) Steps(e *lattice.Element) int {
	if p.maxStep > 0 && e.Length() > 0 {
		return int(math.Ceil(e.Length() / p.maxStep))
	}
	if p.numSteps > 0 {
		return p.numSteps
	}
	return 1
}

// Apply implements Process.
func (p *RadiationProcess) Apply(b *phasespace.Bunch, e *lattice.Element, ds float64) {
	loss := e.LossFactor()
	if loss == 0 || ds == 0 {
		return
	}
	for i := 0; i < b.Len(); i++ {
		v := b.Particle(i)
		v[phasespace.DP] -= loss * ds * (1 + v[phasespace.DP])
	}
}

// PathLengthProcess scales the extra time-of-flight accumulated in bending
// elements, which is how a ring's synchronous path length is adjusted
// without re-deriving the dipole maps.
type PathLengthProcess struct {
	priority int
	scale    float64
}

// NewPathLengthProcess creates a path-length process with the given
// priority and bend scale factor.
func NewPathLengthProcess(priority int, scale float64) *PathLengthProcess {
	return &PathLengthProcess{priority: priority, scale: scale}
}

func (p *PathLengthProcess) Name() string  { return "path length scaling" }
func (p *PathLengthProcess) Priority() int { return p.priority }

// SetBendScale sets the scale factor applied to bend path lengths.
func (p *PathLengthProcess) SetBendScale(scale float64) { p.scale = scale }

// Steps implements Process.
func (p *PathLengthProcess) Steps(*lattice.Element) int { return 1 }

// Apply implements Process.
func (p *PathLengthProcess) Apply(b *phasespace.Bunch, e *lattice.Element, ds float64) {
	if !e.IsBend() || p.scale == 0 {
		return
	}
	dct := (p.scale - 1) * ds
	for i := 0; i < b.Len(); i++ {
		b.Particle(i)[phasespace.CT] += dct
	}
}
