package closedorbit

import (
	"fmt"

	"github.com/accelwork/orbit/phasespace"
)

// ConvergenceError is returned when the Newton iteration exhausts its
// iteration budget without the residual dropping below tolerance.
//
// LastOrbit carries the final unconverged guess for diagnostics; it must
// never be treated as a valid closed orbit.
type ConvergenceError struct {
	Residual   float64
	Iterations int
	LastOrbit  phasespace.Vector
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("closedorbit: no convergence after %d iterations (residual %g)",
		e.Iterations, e.Residual)
}
