// Package closedorbit finds the closed (fixed-point) orbit of a beamline
// segment by Newton-Raphson iteration over a finite-difference transfer map,
// with a singular-value-decomposition pseudoinverse solve that tolerates
// near-singular Jacobians. It also provides the RMS orbit of a single
// particle over the full beamline and a momentum-offset scan for dispersion
// measurements.
package closedorbit
