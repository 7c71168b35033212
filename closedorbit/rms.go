package closedorbit

import (
	"fmt"
	"math"

	"github.com/accelwork/orbit/lattice"
	"github.com/accelwork/orbit/phasespace"
)

// FindRMSOrbit tracks a single particle element by element through the full
// beamline and returns, per coordinate, the RMS excursion: the square root
// of the trapezoidal-rule integral of the squared coordinate over path
// length, divided by the total length.
//
// An empty or zero-length beamline fails with lattice.ErrInvalidSegment.
func (f *Finder) FindRMSOrbit(particle phasespace.Vector) (phasespace.Vector, error) {
	seg, err := f.model.Beamline()
	if err != nil {
		return phasespace.Vector{}, err
	}
	if err := f.engine.SetSegment(f.model, seg); err != nil {
		return phasespace.Vector{}, err
	}

	bunch := phasespace.NewBunch(f.p0, 1, particle)
	stepper, err := f.engine.NewStepper(bunch)
	if err != nil {
		return phasespace.Vector{}, err
	}

	var rms phasespace.Vector
	var length float64
	prev := particle

	loop := true
	for loop {
		dl := stepper.ComponentLength()
		loop = stepper.Step()
		cur := stepper.Bunch().First()

		for m := 0; m < phasespace.Dimension; m++ {
			mid := (cur[m] + prev[m]) / 2
			rms[m] += dl * mid * mid
		}
		prev = cur
		length += dl
	}

	if length == 0 {
		return phasespace.Vector{}, fmt.Errorf("%w: beamline has zero length", lattice.ErrInvalidSegment)
	}

	var out phasespace.Vector
	for m := 0; m < phasespace.Dimension; m++ {
		out[m] = math.Sqrt(rms[m] / length)
	}
	return out, nil
}
