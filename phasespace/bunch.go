package phasespace

import "slices"

// Bunch is an ordered collection of particles sharing a reference momentum.
//
// By convention the first particle is the reference ray. A Bunch is owned by
// exactly one caller at a time; Clone produces an independent deep copy.
type Bunch struct {
	p0        float64
	charge    float64
	particles []Vector
}

// NewBunch creates a bunch with the given reference momentum (GeV/c), charge
// per macro particle and initial particles.
func NewBunch(p0, charge float64, particles ...Vector) *Bunch {
	return &Bunch{
		p0:        p0,
		charge:    charge,
		particles: slices.Clone(particles),
	}
}

// P0 returns the reference momentum in GeV/c.
func (b *Bunch) P0() float64 { return b.p0 }

// Charge returns the charge per macro particle.
func (b *Bunch) Charge() float64 { return b.charge }

// Len returns the number of particles.
func (b *Bunch) Len() int { return len(b.particles) }

// At returns a copy of particle i.
func (b *Bunch) At(i int) Vector { return b.particles[i] }

// Particle returns a pointer to particle i. The pointer stays valid for the
// lifetime of the bunch; the bunch never grows or reallocates after creation
// unless Append is called.
func (b *Bunch) Particle(i int) *Vector { return &b.particles[i] }

// First returns a copy of the reference particle.
func (b *Bunch) First() Vector { return b.particles[0] }

// Append adds particles to the bunch.
func (b *Bunch) Append(particles ...Vector) {
	b.particles = append(b.particles, particles...)
}

// Clone returns an independent deep copy of the bunch.
func (b *Bunch) Clone() *Bunch {
	return &Bunch{
		p0:        b.p0,
		charge:    b.charge,
		particles: slices.Clone(b.particles),
	}
}

// Centroid returns the mean of all particle vectors.
func (b *Bunch) Centroid() Vector {
	var c Vector
	if len(b.particles) == 0 {
		return c
	}
	for _, p := range b.particles {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(b.particles)))
}
