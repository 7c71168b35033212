package phasespace

import "fmt"

// Coordinate indices into a Vector.
//
// The ordering follows the usual accelerator convention: transverse position
// and angle in both planes first, then the longitudinal pair.
const (
	X  = iota // horizontal position [m]
	XP        // horizontal angle dx/ds [rad]
	Y         // vertical position [m]
	YP        // vertical angle dy/ds [rad]
	CT        // path-length / time offset c*dt [m]
	DP        // relative momentum offset dp/p0
)

// Dimension is the full phase-space dimensionality.
const Dimension = 6

// TransverseDimension is the dimensionality when the longitudinal plane is
// ignored.
const TransverseDimension = 4

// Vector is one particle's phase-space state (x, x', y, y', ct, dp/p).
// It is a value type and is copied freely.
type Vector [Dimension]float64

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	for i := range v {
		v[i] += w[i]
	}
	return v
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	for i := range v {
		v[i] -= w[i]
	}
	return v
}

// Scale returns s * v.
func (v Vector) Scale(s float64) Vector {
	for i := range v {
		v[i] *= s
	}
	return v
}

func (v Vector) String() string {
	return fmt.Sprintf("(x=%g, x'=%g, y=%g, y'=%g, ct=%g, dp=%g)",
		v[X], v[XP], v[Y], v[YP], v[CT], v[DP])
}

// Dot returns the dot product of two vectors.
func Dot(a, b Vector) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
